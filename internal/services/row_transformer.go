package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/livingrent/storefront-service/internal/models"
)

const defaultRating = 4.5

// rowTransformer applies one resolved column mapping to data rows. The
// mapping is fixed at construction and never changes for the lifetime of
// an import.
type rowTransformer struct {
	mapping    *models.ResolvedMapping
	sourceFile string
	sheetName  string
}

func newRowTransformer(mapping *models.ResolvedMapping, sourceFile, sheetName string) *rowTransformer {
	return &rowTransformer{
		mapping:    mapping,
		sourceFile: sourceFile,
		sheetName:  sheetName,
	}
}

// Transform turns one raw data row into a draft. rowIndex is the 1-based
// data row index. Cell problems are recorded on the draft and never abort
// the row; overall shape validation is the orchestrator's job.
func (t *rowTransformer) Transform(header []string, row []string, rowIndex int) *models.ProductDraft {
	draft := &models.ProductDraft{
		SourceFile: t.sourceFile,
		SheetName:  t.sheetName,
		RowIndex:   rowIndex,
		RawRow:     row,
		Status:     models.DraftPending,
	}

	for col, name := range header {
		value := cellAt(row, col)

		rule, mapped := t.mapping.ColumnMappings[name]
		if value == "" && mapped && rule.DefaultValue != "" {
			value = rule.DefaultValue
		}
		if value == "" {
			continue
		}

		if !mapped {
			// Unmapped columns keep their original column name in the bag.
			draft.Specs.Set(name, models.StringValue(value))
			continue
		}

		t.applyRule(draft, name, rule, value)
	}

	t.applyFallbacks(draft)

	if draft.Uncategorized() {
		draft.Status = models.DraftNeedsReview
	}

	return draft
}

func (t *rowTransformer) applyRule(draft *models.ProductDraft, column string, rule models.MappingRule, value string) {
	switch rule.Transformer {
	case models.TransformNumber, models.TransformPrice:
		num, err := coerceNumber(value)
		if err != nil {
			draft.FieldErrors = append(draft.FieldErrors,
				fmt.Sprintf("%s (%s): %v", rule.Field, column, err))
			return
		}
		t.assignNumber(draft, rule.Field, num)
	case models.TransformCategory:
		id := NormalizeCategory(value)
		draft.CategoryID = &id
	default: // text
		t.assignText(draft, rule.Field, strings.TrimSpace(value))
	}
}

// assignText routes a text value: recognized identity fields fill the
// draft directly, anything else goes into the bag under the target field
// name (not the original column name).
func (t *rowTransformer) assignText(draft *models.ProductDraft, field, value string) {
	switch field {
	case models.FieldName:
		draft.Name = &value
	case models.FieldNameKo:
		draft.NameKo = &value
	case models.FieldBrand:
		draft.Brand = &value
	case models.FieldDescription:
		draft.Description = &value
	case models.FieldCategory:
		id := NormalizeCategory(value)
		draft.CategoryID = &id
	default:
		draft.Specs.Set(field, models.StringValue(value))
	}
}

// assignNumber routes a coerced number. coerceNumber already guarantees a
// positive finite value, so numeric business fields assign directly.
func (t *rowTransformer) assignNumber(draft *models.ProductDraft, field string, value float64) {
	switch field {
	case models.FieldMonthlyPrice:
		draft.MonthlyPrice = &value
	case models.FieldOriginalPrice:
		draft.OriginalPrice = &value
	case models.FieldRating:
		draft.Rating = &value
	default:
		draft.Specs.Set(field, models.NumberValue(value))
	}
}

// applyFallbacks fills gaps from the sample-level guesses: the category
// guess runs through the normalizer, the brand guess is used as-is, and a
// missing rating defaults.
func (t *rowTransformer) applyFallbacks(draft *models.ProductDraft) {
	if draft.CategoryID == nil && t.mapping.CategoryGuess != "" {
		id := NormalizeCategory(t.mapping.CategoryGuess)
		draft.CategoryID = &id
	}
	if draft.Brand == nil && t.mapping.BrandGuess != "" {
		brand := t.mapping.BrandGuess
		draft.Brand = &brand
	}
	if draft.Rating == nil {
		rating := defaultRating
		draft.Rating = &rating
	}
}

// coerceNumber parses currency-ish text ("55,000", "₩55,000원") into a
// positive finite float by dropping every rune that is not a digit or a
// decimal point.
func coerceNumber(value string) (float64, error) {
	var b strings.Builder
	for _, r := range value {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric content in %q", value)
	}

	num, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as a number", value)
	}
	if num <= 0 || math.IsInf(num, 0) || math.IsNaN(num) {
		return 0, fmt.Errorf("%q is not a positive number", value)
	}

	return num, nil
}

// cellAt treats missing trailing cells as absent rather than erroring.
func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// isBlankRow reports whether every cell is empty or whitespace.
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
