package services

import (
	"errors"
	"fmt"

	apperrors "github.com/livingrent/storefront-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Catalog errors
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")

	// Draft review errors
	ErrDraftNotFound      = errors.New("draft not found")
	ErrDraftNotReviewable = errors.New("draft already reviewed")
	ErrDraftNeedsCategory = errors.New("draft needs a category before approval")

	// Import errors
	ErrImportJobNotFound = errors.New("import job not found")

	// Rental errors
	ErrRentalNotFound          = errors.New("rental not found")
	ErrRentalInvalidTransition = errors.New("invalid rental status transition")
	ErrWishlistDuplicate       = errors.New("product already in wishlist")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// MalformedInputError reports a spreadsheet that cannot yield any rows at
// all (no header, or a header with zero data rows). Fatal for the import.
type MalformedInputError struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed spreadsheet %q: %s", e.File, e.Reason)
}

// MappingResolutionError reports a failed or structurally invalid column
// mapping resolution. Fatal for the import; no rows are processed.
type MappingResolutionError struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

func (e *MappingResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mapping resolution failed for %q: %s: %v", e.File, e.Reason, e.Err)
	}
	return fmt.Sprintf("mapping resolution failed for %q: %s", e.File, e.Reason)
}

func (e *MappingResolutionError) Unwrap() error {
	return e.Err
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrDraftNotFound) ||
		errors.Is(err, ErrImportJobNotFound) ||
		errors.Is(err, ErrRentalNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *ValidationError
	return errors.As(err, &single)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrDraftNotReviewable) ||
		errors.Is(err, ErrRentalInvalidTransition) ||
		errors.Is(err, ErrWishlistDuplicate)
}

// IsMalformedInput checks for the fatal bad-spreadsheet condition
func IsMalformedInput(err error) bool {
	var mie *MalformedInputError
	return errors.As(err, &mie)
}

// IsMappingResolution checks for a failed mapping resolution
func IsMappingResolution(err error) bool {
	var mre *MappingResolutionError
	return errors.As(err, &mre)
}
