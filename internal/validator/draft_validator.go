package validator

import (
	"strings"

	"github.com/livingrent/storefront-service/internal/models"
)

// DraftValidator checks the assembled shape of an import draft beyond what
// struct tags can express. A failing draft is recorded as a row-level
// import error; the import itself continues.
type DraftValidator struct{}

func NewDraftValidator() *DraftValidator {
	return &DraftValidator{}
}

// Validate returns every shape violation found on the draft.
func (dv *DraftValidator) Validate(d *models.ProductDraft) ValidationErrors {
	var errs ValidationErrors

	if !hasText(d.NameKo) && !hasText(d.Name) {
		errs = append(errs, *NewValidationError("name_ko", "draft needs a product name (name or name_ko)", nil))
	}

	if d.RowIndex < 1 {
		errs = append(errs, *NewValidationError("row_index", "must be 1-based", d.RowIndex))
	}

	if d.SourceFile == "" {
		errs = append(errs, *NewValidationError("source_file", "is required", nil))
	}

	if d.CategoryID != nil && !d.CategoryID.Valid() {
		errs = append(errs, *NewValidationError("category_id", "must be a canonical category identifier", string(*d.CategoryID)))
	}

	errs = append(errs, dv.validateSpecs(d.Specs)...)

	return errs
}

func (dv *DraftValidator) validateSpecs(bag models.SpecBag) ValidationErrors {
	var errs ValidationErrors

	seen := make(map[string]struct{}, bag.Len())
	for _, entry := range bag {
		key := strings.TrimSpace(entry.Key)
		if key == "" {
			errs = append(errs, *NewValidationError("specs", "specification keys must be non-empty", nil))
			continue
		}
		if _, dup := seen[key]; dup {
			errs = append(errs, *NewValidationError("specs", "duplicate specification key", key))
		}
		seen[key] = struct{}{}
	}

	return errs
}

func hasText(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
