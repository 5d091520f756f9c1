package validator

import (
	"testing"

	"github.com/livingrent/storefront-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() *models.ProductDraft {
	nameKo := "디오스 오브제컬렉션"
	price := 55000.0
	category := models.CategoryRefrigerator
	return &models.ProductDraft{
		NameKo:       &nameKo,
		MonthlyPrice: &price,
		CategoryID:   &category,
		SourceFile:   "lg-2025.xlsx",
		RowIndex:     1,
	}
}

func TestDraftValidator_ValidDraft(t *testing.T) {
	dv := NewDraftValidator()
	assert.Empty(t, dv.Validate(validDraft()))
}

func TestDraftValidator_RequiresSomeName(t *testing.T) {
	dv := NewDraftValidator()

	draft := validDraft()
	draft.NameKo = nil
	errs := dv.Validate(draft)
	require.Len(t, errs, 1)
	assert.Equal(t, "name_ko", errs[0].Field)

	// An English name alone is enough.
	name := "DIOS Objet Collection"
	draft.Name = &name
	assert.Empty(t, dv.Validate(draft))

	// Whitespace does not count as a name.
	blank := "   "
	draft.Name = &blank
	assert.Len(t, dv.Validate(draft), 1)
}

func TestDraftValidator_ProvenanceRules(t *testing.T) {
	dv := NewDraftValidator()

	draft := validDraft()
	draft.RowIndex = 0
	draft.SourceFile = ""

	errs := dv.Validate(draft)
	assert.Len(t, errs, 2)
}

func TestDraftValidator_CategoryMustBeCanonical(t *testing.T) {
	dv := NewDraftValidator()

	draft := validDraft()
	bogus := models.CategoryID("furniture")
	draft.CategoryID = &bogus

	errs := dv.Validate(draft)
	require.Len(t, errs, 1)
	assert.Equal(t, "category_id", errs[0].Field)

	// The uncategorized sentinel is a legal draft category; it only blocks
	// approval, not import.
	uncategorized := models.CategoryUncategorized
	draft.CategoryID = &uncategorized
	assert.Empty(t, dv.Validate(draft))
}

func TestDraftValidator_SpecKeys(t *testing.T) {
	dv := NewDraftValidator()

	draft := validDraft()
	draft.Specs.Set("모델명", models.StringValue("M873GBB031"))
	draft.Specs.Set("용량", models.StringValue("870L"))
	assert.Empty(t, dv.Validate(draft))

	draft.Specs = append(draft.Specs, models.SpecEntry{Key: " ", Value: models.StringValue("x")})
	errs := dv.Validate(draft)
	require.Len(t, errs, 1)
	assert.Equal(t, "specs", errs[0].Field)
}

func TestValidator_ValidateDraft(t *testing.T) {
	v := New()

	require.NoError(t, v.ValidateDraft(validDraft()))

	// Struct-tag violation: rating over 5.
	draft := validDraft()
	rating := 9.9
	draft.Rating = &rating
	assert.Error(t, v.ValidateDraft(draft))

	// Shape violation: nothing resembling a name.
	draft = validDraft()
	draft.NameKo = nil
	assert.Error(t, v.ValidateDraft(draft))
}
