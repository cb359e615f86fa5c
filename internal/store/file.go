package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog"
	"billing/internal/logger"
)

var safeKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// FileStore keeps one file per key under a data directory.
type FileStore struct {
	dir string
	log zerolog.Logger
}

// NewFileStore creates the data directory if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	const op = "NewFileStore"

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, newStoreError(op, "", fmt.Errorf("create data directory %s: %w", dir, err))
	}

	log := logger.WithComponent("store")
	log.Debug().Str("dir", dir).Msg("File record store opened")

	return &FileStore{dir: dir, log: log}, nil
}

// Dir returns the data directory.
func (f *FileStore) Dir() string {
	return f.dir
}

func (f *FileStore) path(op, key string) (string, error) {
	if err := checkKey(op, key); err != nil {
		return "", err
	}
	if !safeKey.MatchString(key) {
		return "", &StoreError{Op: op, Key: key, Err: ErrInvalidKey}
	}
	return filepath.Join(f.dir, key+".json"), nil
}

// Get reads the file for key.
func (f *FileStore) Get(key string) (string, bool, error) {
	const op = "Get"

	path, err := f.path(op, key)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, newStoreError(op, key, err)
	}
	return string(data), true, nil
}

// Set writes the value to a temporary file and renames it over the record file.
func (f *FileStore) Set(key, value string) error {
	const op = "Set"

	path, err := f.path(op, key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return newStoreError(op, key, err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return newStoreError(op, key, err)
	}
	if err := tmp.Close(); err != nil {
		return newStoreError(op, key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return newStoreError(op, key, err)
	}

	f.log.Debug().
		Str("key", key).
		Int("bytes", len(value)).
		Msg("Record written")
	return nil
}

// Remove deletes the file for key.
func (f *FileStore) Remove(key string) error {
	const op = "Remove"

	path, err := f.path(op, key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return newStoreError(op, key, err)
	}

	f.log.Debug().Str("key", key).Msg("Record removed")
	return nil
}
