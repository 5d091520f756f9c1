package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/livingrent/storefront-service/internal/models"
)

// Validator is the main validator instance that combines struct-tag and
// draft-shape validation.
type Validator struct {
	structValidator *validator.Validate
	draftValidator  *DraftValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
		draftValidator:  NewDraftValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// ValidateDraft performs complete validation of an import draft
// (struct tags + shape rules).
func (v *Validator) ValidateDraft(d *models.ProductDraft) error {
	if err := v.structValidator.Struct(d); err != nil {
		return ToValidationErrors(err)
	}
	if errs := v.draftValidator.Validate(d); len(errs) > 0 {
		return errs
	}
	return nil
}

// Draft returns the draft validator
func (v *Validator) Draft() *DraftValidator {
	return v.draftValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("category_id", validateCategoryID)
	validate.RegisterValidation("draft_status", validateDraftStatus)
	validate.RegisterValidation("rental_status", validateRentalStatus)
	validate.RegisterValidation("transformer_kind", validateTransformerKind)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateCategoryID(fl validator.FieldLevel) bool {
	return models.CategoryID(fl.Field().String()).Valid()
}

func validateDraftStatus(fl validator.FieldLevel) bool {
	validStatuses := []models.DraftStatus{
		models.DraftPending,
		models.DraftNeedsReview,
		models.DraftApproved,
		models.DraftRejected,
	}

	value := fl.Field().String()
	for _, validStatus := range validStatuses {
		if string(validStatus) == value {
			return true
		}
	}
	return false
}

func validateRentalStatus(fl validator.FieldLevel) bool {
	validStatuses := []models.RentalStatus{
		models.RentalRequested,
		models.RentalActive,
		models.RentalReturned,
		models.RentalCancelled,
	}

	value := fl.Field().String()
	for _, validStatus := range validStatuses {
		if string(validStatus) == value {
			return true
		}
	}
	return false
}

func validateTransformerKind(fl validator.FieldLevel) bool {
	return models.TransformerKind(fl.Field().String()).Valid()
}
