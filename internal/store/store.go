// Package store provides the synchronous key-value record store that holds the
// serialized profile and invoice collections.
//
// The store has no knowledge of what it holds: callers serialize their own
// records to text. Every backend replaces a whole value per Set, so a write
// either lands completely or not at all. Concurrent writers from several
// processes are not coordinated; the last write wins.
package store

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Fixed record keys.
const (
	ProfileKey  = "billing-app-user-profile"
	InvoicesKey = "billing-app-invoices"
)

// Store is a synchronous string key-value store.
type Store interface {
	// Get returns the value stored under key; ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)

	// Set replaces the value stored under key.
	Set(key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Options configures Open.
type Options struct {
	Backend    string
	DataDir    string
	SQLitePath string
}

// Open creates the store selected by opts.Backend.
func Open(opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		return NewFileStore(opts.DataDir)
	case BackendSQLite:
		path := opts.SQLitePath
		if path == "" {
			path = filepath.Join(opts.DataDir, "billing.db")
		}
		return NewSQLStore(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

func checkKey(op, key string) error {
	if strings.TrimSpace(key) == "" {
		return &StoreError{Op: op, Err: ErrInvalidKey}
	}
	return nil
}
