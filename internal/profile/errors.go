package profile

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every profile validation failure.
	ErrValidation = errors.New("invalid profile")

	// ErrLogoTooLarge is returned for logos above MaxLogoBytes.
	ErrLogoTooLarge = errors.New("logo exceeds 2MB")

	// ErrCorruptProfile is returned when the stored profile cannot be decoded.
	ErrCorruptProfile = errors.New("stored profile is corrupt")
)

// ValidationError represents errors in profile data validation.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
