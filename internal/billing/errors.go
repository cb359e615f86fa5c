package billing

import (
	"errors"
	"fmt"
)

// ErrInvalidDetails is matched by every billing detail validation failure.
var ErrInvalidDetails = errors.New("invalid billing details")

// DetailsError describes a billing detail field that failed validation.
type DetailsError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *DetailsError) Error() string {
	return fmt.Sprintf("billing details: field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Is matches ErrInvalidDetails.
func (e *DetailsError) Is(target error) bool {
	return target == ErrInvalidDetails
}

func newDetailsError(field string, value interface{}, message string) *DetailsError {
	return &DetailsError{Field: field, Value: value, Message: message}
}
