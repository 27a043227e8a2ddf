package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/izimoto/paintbot/core/logger"
)

// Store loads and persists the catalog. Load returns a fresh snapshot on
// every call so concurrent readers never observe in-place edits.
type Store interface {
	Load(ctx context.Context) (Catalog, error)
	Save(ctx context.Context, c Catalog) error
}

// FileStore keeps the catalog in a single pretty-printed JSON file.
// Saves go through a temp file plus rename so a crash mid-write never
// leaves a truncated catalog behind.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore builds a store over the given JSON file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and normalizes the catalog. A missing file yields an empty
// catalog with all category keys present.
func (s *FileStore) Load(ctx context.Context) (Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := Catalog{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			c.Normalize()
			return c, nil
		}
		return nil, fmt.Errorf("read catalog %s: %w", s.path, err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", s.path, err)
	}
	c.Normalize()
	return c, nil
}

// Save writes the catalog atomically, creating parent directories as needed.
func (s *FileStore) Save(ctx context.Context, c Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp catalog: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace catalog %s: %w", s.path, err)
	}
	logger.Debug(ctx, "catalog", "catalog.saved",
		slog.String("status", "ok"),
		slog.String("path", s.path),
	)
	return nil
}

// MemoryStore holds a catalog in process, for tests.
type MemoryStore struct {
	mu sync.Mutex
	c  Catalog
}

// NewMemoryStore seeds an in-memory store with a copy of c.
func NewMemoryStore(c Catalog) *MemoryStore {
	if c == nil {
		c = Catalog{}
	}
	c.Normalize()
	return &MemoryStore{c: c.Clone()}
}

func (s *MemoryStore) Load(ctx context.Context) (Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, c Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c = c.Clone()
	return nil
}
