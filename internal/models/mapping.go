package models

// TransformerKind is the per-column coercion rule the mapping resolver may
// assign. The set is closed; the resolver rejects anything else.
type TransformerKind string

const (
	TransformNumber   TransformerKind = "number"
	TransformText     TransformerKind = "text"
	TransformCategory TransformerKind = "category"
	TransformPrice    TransformerKind = "price"
)

func (t TransformerKind) Valid() bool {
	switch t {
	case TransformNumber, TransformText, TransformCategory, TransformPrice:
		return true
	}
	return false
}

// Target product field names the resolver maps spreadsheet columns onto.
// A mapped field outside this set is routed into the draft's spec bag
// under the target field name.
const (
	FieldName          = "name"
	FieldNameKo        = "nameKo"
	FieldBrand         = "brand"
	FieldDescription   = "description"
	FieldCategory      = "category"
	FieldMonthlyPrice  = "monthlyPrice"
	FieldOriginalPrice = "originalPrice"
	FieldRating        = "rating"
)

// MappingRule describes how one spreadsheet column feeds the draft.
type MappingRule struct {
	Field        string          `json:"field"`
	Transformer  TransformerKind `json:"transformer"`
	DefaultValue string          `json:"default_value,omitempty"`
}

// ColumnMapping maps a header cell (verbatim) to its rule. Resolved once
// per import from a row sample and immutable afterwards.
type ColumnMapping map[string]MappingRule

// ResolvedMapping is the full result of mapping resolution.
type ResolvedMapping struct {
	ColumnMappings ColumnMapping `json:"column_mappings"`
	CategoryGuess  string        `json:"category_guess,omitempty"`
	BrandGuess     string        `json:"brand_guess,omitempty"`
}

// MappingResolution pairs the mapping with the model's self-reported
// confidence in [0,1].
type MappingResolution struct {
	Mapping    ResolvedMapping `json:"mapping"`
	Confidence float64         `json:"confidence"`
}
