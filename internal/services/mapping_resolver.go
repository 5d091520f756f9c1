package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/livingrent/storefront-service/internal/models"
	"github.com/livingrent/storefront-service/internal/utils"
	"github.com/openai/openai-go/v2"
)

// sampleRowLimit bounds how many data rows are shown to the model. The
// mapping is resolved once per import from this sample because sheet
// structure is uniform across one file's rows.
const sampleRowLimit = 5

// SheetSample is the bounded slice of a spreadsheet the resolver works
// from: the header plus up to sampleRowLimit data rows.
type SheetSample struct {
	FileName  string
	SheetName string
	Header    []string
	Rows      [][]string
}

// MappingResolver infers how spreadsheet columns feed product fields.
// The pipeline depends on this interface so tests can run against a
// deterministic stub instead of a live completion service.
type MappingResolver interface {
	Resolve(ctx context.Context, sample SheetSample) (*models.MappingResolution, error)
}

// ===== WIRE SHAPE (Structured Outputs) =====

// The strict JSON schema cannot express an object keyed by arbitrary
// column names, so the model returns an array of per-column entries which
// we fold into the ColumnMapping afterwards.
type columnMappingEntry struct {
	Column       string `json:"column" jsonschema_description:"Spreadsheet column header, verbatim"`
	Field        string `json:"field" jsonschema_description:"Target product field (name, nameKo, brand, description, category, monthlyPrice, originalPrice, rating) or a free-form specification key"`
	Transformer  string `json:"transformer" jsonschema:"enum=number,enum=text,enum=category,enum=price" jsonschema_description:"Coercion rule applied to every cell of the column"`
	DefaultValue string `json:"default_value" jsonschema_description:"Value to use for empty cells, empty string for none"`
}

type mappingPayload struct {
	Mappings      []columnMappingEntry `json:"mappings" jsonschema_description:"One entry per spreadsheet column that maps to a product field"`
	CategoryGuess string               `json:"category_guess" jsonschema_description:"Best-guess category for the whole sheet, empty if unclear"`
	BrandGuess    string               `json:"brand_guess" jsonschema_description:"Best-guess brand for the whole sheet, empty if unclear"`
	Confidence    float64              `json:"confidence" jsonschema:"minimum=0,maximum=1" jsonschema_description:"Overall mapping confidence from 0 to 1"`
}

func generateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var mappingPayloadSchema = generateSchema[mappingPayload]()

var mappingSchemaParam = openai.ResponseFormatJSONSchemaJSONSchemaParam{
	Name:        "column_mapping",
	Description: openai.String("Spreadsheet columns to rental product fields mapping"),
	Schema:      mappingPayloadSchema,
	Strict:      openai.Bool(true),
}

// ===== OPENAI-BACKED RESOLVER =====

type openAIMappingResolver struct {
	client  *openai.Client
	model   openai.ChatModel
	timeout time.Duration
	logger  utils.Logger
}

// NewOpenAIMappingResolver creates a resolver backed by an
// OpenAI-compatible chat completion endpoint with strict structured
// output. No retries: a failed or malformed response fails the import.
func NewOpenAIMappingResolver(client *openai.Client, model string, logger utils.Logger) MappingResolver {
	return &openAIMappingResolver{
		client:  client,
		model:   openai.ChatModel(model),
		timeout: 30 * time.Second,
		logger:  logger,
	}
}

func (r *openAIMappingResolver) Resolve(ctx context.Context, sample SheetSample) (*models.MappingResolution, error) {
	if len(sample.Header) == 0 {
		return nil, &MappingResolutionError{File: sample.FileName, Reason: "sample has no header"}
	}

	user, err := buildMappingPrompt(sample)
	if err != nil {
		return nil, &MappingResolutionError{File: sample.FileName, Reason: "failed to build prompt", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	chat, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(mappingSystemPrompt),
			openai.UserMessage(user),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: mappingSchemaParam,
			},
		},
		Seed:  openai.Int(42),
		Model: r.model,
	})
	if err != nil {
		return nil, &MappingResolutionError{File: sample.FileName, Reason: "completion call failed", Err: err}
	}

	if len(chat.Choices) == 0 {
		return nil, &MappingResolutionError{File: sample.FileName, Reason: "completion returned no choices"}
	}

	content := chat.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return nil, &MappingResolutionError{File: sample.FileName, Reason: "completion returned empty content"}
	}

	var payload mappingPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, &MappingResolutionError{File: sample.FileName, Reason: "completion returned invalid JSON", Err: err}
	}

	resolution, err := buildResolution(&payload, sample.Header)
	if err != nil {
		return nil, &MappingResolutionError{File: sample.FileName, Reason: err.Error()}
	}

	r.logger.Info("Resolved column mapping",
		"file", sample.FileName,
		"columns_mapped", len(resolution.Mapping.ColumnMappings),
		"confidence", resolution.Confidence)

	return resolution, nil
}

const mappingSystemPrompt = "You map spreadsheet columns from Korean home-appliance " +
	"rental price lists to a fixed product schema. Use the sample rows to " +
	"disambiguate. Map a column only when you are reasonably sure; columns you " +
	"omit are kept as free-form specifications. Return ONLY the JSON required " +
	"by the schema."

// buildMappingPrompt embeds the target schema description and the sample
// grid verbatim as compact JSON.
func buildMappingPrompt(sample SheetSample) (string, error) {
	grid := struct {
		FileName string     `json:"file_name"`
		Header   []string   `json:"header"`
		Rows     [][]string `json:"rows"`
	}{
		FileName: sample.FileName,
		Header:   sample.Header,
		Rows:     sample.Rows,
	}

	gridJSON, err := json.Marshal(grid)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Target product fields:\n")
	b.WriteString("- name: product name in English (text)\n")
	b.WriteString("- nameKo: product name in Korean (text)\n")
	b.WriteString("- brand: manufacturer or brand (text)\n")
	b.WriteString("- description: marketing description (text)\n")
	b.WriteString("- category: appliance category (category)\n")
	b.WriteString("- monthlyPrice: monthly rental fee in KRW (price)\n")
	b.WriteString("- originalPrice: retail price in KRW (price)\n")
	b.WriteString("- rating: customer rating 0-5 (number)\n")
	b.WriteString("Columns that fit none of these may be mapped to a short ")
	b.WriteString("English field name of your choice; they become free-form ")
	b.WriteString("specifications.\n")
	b.WriteString("Allowed transformers: number, text, category, price.\n\n")
	b.WriteString("SAMPLE:\n")
	b.Write(gridJSON)

	return b.String(), nil
}

// buildResolution validates the wire payload against the sample header
// and folds it into the immutable mapping used for the rest of the
// import. Structural violations fail resolution; nothing is guessed.
func buildResolution(payload *mappingPayload, header []string) (*models.MappingResolution, error) {
	if len(payload.Mappings) == 0 {
		return nil, fmt.Errorf("completion mapped no columns")
	}
	if payload.Confidence < 0 || payload.Confidence > 1 {
		return nil, fmt.Errorf("confidence %v outside [0,1]", payload.Confidence)
	}

	headerSet := make(map[string]struct{}, len(header))
	for _, h := range header {
		headerSet[h] = struct{}{}
	}

	columns := make(models.ColumnMapping, len(payload.Mappings))
	for _, entry := range payload.Mappings {
		if _, ok := headerSet[entry.Column]; !ok {
			return nil, fmt.Errorf("mapped column %q is not a header cell", entry.Column)
		}
		if _, dup := columns[entry.Column]; dup {
			return nil, fmt.Errorf("column %q mapped twice", entry.Column)
		}
		transformer := models.TransformerKind(entry.Transformer)
		if !transformer.Valid() {
			return nil, fmt.Errorf("unknown transformer %q for column %q", entry.Transformer, entry.Column)
		}
		if strings.TrimSpace(entry.Field) == "" {
			return nil, fmt.Errorf("empty target field for column %q", entry.Column)
		}

		columns[entry.Column] = models.MappingRule{
			Field:        entry.Field,
			Transformer:  transformer,
			DefaultValue: entry.DefaultValue,
		}
	}

	return &models.MappingResolution{
		Mapping: models.ResolvedMapping{
			ColumnMappings: columns,
			CategoryGuess:  payload.CategoryGuess,
			BrandGuess:     payload.BrandGuess,
		},
		Confidence: payload.Confidence,
	}, nil
}
