package invoice

import (
	"errors"
	"fmt"
)

// Common invoice lifecycle errors
var (
	// ErrNotFound is returned when no invoice has the requested identifier.
	ErrNotFound = errors.New("invoice not found")

	// ErrValidation is matched by every invoice validation failure.
	ErrValidation = errors.New("invalid invoice")

	// ErrCorruptCollection is returned when the stored invoice collection cannot be decoded.
	ErrCorruptCollection = errors.New("stored invoice collection is corrupt")
)

// InvoiceError wraps errors with additional context about a failed invoice operation.
type InvoiceError struct {
	// Op is the operation that failed (e.g., "Update", "Create").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string

	// InvoiceID is the identifier involved (if available).
	InvoiceID string
}

// Error implements the error interface.
func (e *InvoiceError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("invoice: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	if e.InvoiceID != "" {
		return fmt.Sprintf("invoice: %s failed (id: %s): %v", e.Op, e.InvoiceID, e.Err)
	}
	return fmt.Sprintf("invoice: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *InvoiceError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *InvoiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewInvoiceError creates a new InvoiceError with the specified operation and underlying error.
func NewInvoiceError(op string, err error, details string) *InvoiceError {
	return &InvoiceError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapInvoiceError wraps an error as an InvoiceError if it isn't already one.
func WrapInvoiceError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var invoiceErr *InvoiceError
	if errors.As(err, &invoiceErr) {
		return err // Already wrapped
	}

	return NewInvoiceError(op, err, details)
}

// ValidationError represents errors in invoice data validation.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string

	// Err is the underlying validation error, if it came from another package.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}
