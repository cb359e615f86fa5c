package store

import (
	"errors"
	"fmt"
)

// Common record store errors
var (
	// ErrUnavailable is returned when the storage medium cannot be read or written.
	ErrUnavailable = errors.New("record store unavailable")

	// ErrInvalidKey is returned for an empty record key.
	ErrInvalidKey = errors.New("invalid record key")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown record store backend")
)

// StoreError wraps a storage failure with the operation and key involved.
type StoreError struct {
	// Op is the operation that failed (e.g., "Get", "Set", "Remove").
	Op string

	// Key is the record key, if any.
	Key string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store: %s %q failed: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("store: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is reports ErrUnavailable for every wrapped I/O failure, plus whatever the
// underlying error matches.
func (e *StoreError) Is(target error) bool {
	if target == ErrUnavailable && !errors.Is(e.Err, ErrInvalidKey) {
		return true
	}
	return errors.Is(e.Err, target)
}

func newStoreError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return &StoreError{Op: op, Key: key, Err: err}
}
