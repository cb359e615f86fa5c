package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
	"billing/internal/logger"
)

// record is one row of the records table.
type record struct {
	Key       string `gorm:"column:record_key;primaryKey;size:191"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (record) TableName() string { return "records" }

// SQLStore keeps records in a single table of a SQL database.
type SQLStore struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewSQLStore opens (or creates) the sqlite database at path.
func NewSQLStore(path string) (*SQLStore, error) {
	const op = "NewSQLStore"

	if dir := filepath.Dir(path); dir != "" && !isMemoryDSN(path) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, newStoreError(op, "", fmt.Errorf("create database directory: %w", err))
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, newStoreError(op, "", fmt.Errorf("open sqlite %s: %w", path, err))
	}
	return NewSQLStoreFromDB(db)
}

// NewSQLStoreFromDB wraps an open database and migrates the records table.
func NewSQLStoreFromDB(db *gorm.DB) (*SQLStore, error) {
	const op = "NewSQLStore"

	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, newStoreError(op, "", fmt.Errorf("migrate records table: %w", err))
	}

	log := logger.WithComponent("store")
	log.Debug().Str("dialect", db.Dialector.Name()).Msg("SQL record store opened")

	return &SQLStore{db: db, log: log}, nil
}

func isMemoryDSN(path string) bool {
	return path == ":memory:" || len(path) >= 5 && path[:5] == "file:"
}

// Get selects the row for key.
func (s *SQLStore) Get(key string) (string, bool, error) {
	const op = "Get"

	if err := checkKey(op, key); err != nil {
		return "", false, err
	}

	var row record
	err := s.db.Where("record_key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, newStoreError(op, key, err)
	}
	return row.Value, true, nil
}

// Set upserts the row for key.
func (s *SQLStore) Set(key, value string) error {
	const op = "Set"

	if err := checkKey(op, key); err != nil {
		return err
	}

	row := record{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return newStoreError(op, key, err)
	}

	s.log.Debug().
		Str("key", key).
		Int("bytes", len(value)).
		Msg("Record written")
	return nil
}

// Remove deletes the row for key.
func (s *SQLStore) Remove(key string) error {
	const op = "Remove"

	if err := checkKey(op, key); err != nil {
		return err
	}
	if err := s.db.Where("record_key = ?", key).Delete(&record{}).Error; err != nil {
		return newStoreError(op, key, err)
	}
	return nil
}

// Close releases the underlying database connection.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
