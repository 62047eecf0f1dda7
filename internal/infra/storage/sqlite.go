package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"signal_go/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage persists webhook signals in SQLite
type Storage struct {
	db *gorm.DB
}

// NewStorage opens (and migrates) the SQLite database at path.
// An empty path resolves to the per-user data directory.
func NewStorage(path string) (*Storage, error) {
	if path == "" {
		var err error
		path, err = getDBPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve DB path: %w", err)
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.SignalRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// getDBPath resolves the database file path based on OS
func getDBPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "SignalGo", "data", "signals.db"), nil
}

// InsertSignal appends a signal record
func (s *Storage) InsertSignal(ctx context.Context, rec *domain.SignalRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

// LatestSignals returns up to limit records, newest first
func (s *Storage) LatestSignals(ctx context.Context, limit int) ([]domain.SignalRecord, error) {
	records := make([]domain.SignalRecord, 0, limit)
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Close releases the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
