package dbstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yiblet/sipp/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteStore is a SQLite-backed implementation of store.SnippetStore.
// A single connection is shared and every operation holds mu, so the web
// pages, the JSON API and a local TUI can use one store safely.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *gorm.DB
	dbPath string
}

var _ store.SnippetStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dbPath and migrates the
// schema. The parent directory is created if needed.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&SnippetModel{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Create inserts a snippet under a fresh short id, retrying when the id
// collides with an existing one.
func (s *SQLiteStore) Create(name, content string) (*store.Snippet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < store.MaxShortIDAttempts; attempt++ {
		shortID, err := store.GenerateShortID()
		if err != nil {
			return nil, err
		}

		model := &SnippetModel{
			ShortID: shortID,
			Name:    name,
			Content: content,
		}
		err = s.db.Create(model).Error
		if err == nil {
			return model.ToSnippet(), nil
		}
		if !isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to create snippet: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to allocate a unique short id: %w", lastErr)
}

// GetByShortID retrieves a snippet by its short id.
func (s *SQLiteStore) GetByShortID(shortID string) (*store.Snippet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var model SnippetModel
	err := s.db.Where("short_id = ?", shortID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snippet: %w", err)
	}
	return model.ToSnippet(), nil
}

// List returns all snippets, newest first.
func (s *SQLiteStore) List() ([]*store.Snippet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var models []SnippetModel
	if err := s.db.Order("id DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list snippets: %w", err)
	}

	snippets := make([]*store.Snippet, len(models))
	for i := range models {
		snippets[i] = models[i].ToSnippet()
	}
	return snippets, nil
}

// DeleteByShortID removes a snippet and reports whether a row was deleted.
func (s *SQLiteStore) DeleteByShortID(shortID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.db.Where("short_id = ?", shortID).Delete(&SnippetModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete snippet: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// UpdateByShortID replaces the name and content of an existing snippet.
func (s *SQLiteStore) UpdateByShortID(shortID, name, content string) (*store.Snippet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var model SnippetModel
	err := s.db.Where("short_id = ?", shortID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snippet: %w", err)
	}

	// A map so empty strings are written rather than skipped as zero values.
	err = s.db.Model(&model).Updates(map[string]any{
		"name":    name,
		"content": content,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update snippet: %w", err)
	}

	model.Name = name
	model.Content = content
	return model.ToSnippet(), nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
