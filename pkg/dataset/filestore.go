package dataset

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/chemdeck/chemdeck/pkg/entity"
	"github.com/chemdeck/chemdeck/pkg/errors"
)

// FileStore keeps editable copies of the datasets on disk, one JSON file per
// category. A category without an active file serves the embedded defaults;
// the first edit materializes the file, and Reset deletes it again.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore opens a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create dataset directory %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(category string) string {
	return filepath.Join(s.dir, category+".json")
}

// loadRaw reads the active records of a category, falling back to the
// embedded defaults when no active file exists.
func (s *FileStore) loadRaw(category string) ([]map[string]any, error) {
	data, err := os.ReadFile(s.path(category))
	if os.IsNotExist(err) {
		return defaultRecords(category)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read dataset %s", category)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode dataset %s", category)
	}
	return raw, nil
}

func (s *FileStore) saveRaw(category string, raw []map[string]any) error {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode dataset %s", category)
	}
	if err := os.WriteFile(s.path(category), data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write dataset %s", category)
	}
	return nil
}

// LoadAll returns the active entities of a category, sorted by name.
func (s *FileStore) LoadAll(ctx context.Context, category string) ([]entity.Entity, error) {
	if err := errors.ValidateCategoryName(category); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.loadRaw(category)
	if err != nil {
		return nil, err
	}
	return normalizeAll(category, raw)
}

// Add appends a record. The record must carry a Name not already present.
func (s *FileStore) Add(ctx context.Context, category string, fields map[string]any) (entity.Entity, error) {
	name, _ := fields["Name"].(string)
	if name == "" {
		return entity.Entity{}, errors.New(errors.ErrCodeInvalidInput, "record needs a Name field")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.loadRaw(category)
	if err != nil {
		return entity.Entity{}, err
	}
	for _, r := range raw {
		if existing, _ := r["Name"].(string); existing == name {
			return entity.Entity{}, errors.New(errors.ErrCodeInvalidInput, "record %q already exists in %s", name, category)
		}
	}

	raw = append(raw, fields)
	if err := s.saveRaw(category, raw); err != nil {
		return entity.Entity{}, err
	}

	norm, ok := normalizers[category]
	if !ok {
		return entity.Entity{}, errors.New(errors.ErrCodeInvalidCategory, "unknown dataset category: %s", category)
	}
	normalized, ok := norm(fields)
	if !ok {
		return entity.Entity{}, errors.New(errors.ErrCodeInvalidInput, "record %q misses required fields for %s", name, category)
	}
	return entity.New(normalized), nil
}

// Update replaces the record with the given name.
func (s *FileStore) Update(ctx context.Context, category, name string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.loadRaw(category)
	if err != nil {
		return err
	}
	for i, r := range raw {
		if existing, _ := r["Name"].(string); existing == name {
			if _, ok := fields["Name"]; !ok {
				fields["Name"] = name
			}
			raw[i] = fields
			return s.saveRaw(category, raw)
		}
	}
	return errors.New(errors.ErrCodeEntityNotFound, "no record %q in %s", name, category)
}

// Remove deletes the record with the given name.
func (s *FileStore) Remove(ctx context.Context, category, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.loadRaw(category)
	if err != nil {
		return err
	}
	for i, r := range raw {
		if existing, _ := r["Name"].(string); existing == name {
			raw = append(raw[:i], raw[i+1:]...)
			return s.saveRaw(category, raw)
		}
	}
	return errors.New(errors.ErrCodeEntityNotFound, "no record %q in %s", name, category)
}

// Reset discards the active file so the category reads the shipped defaults
// again.
func (s *FileStore) Reset(ctx context.Context, category string) error {
	if _, err := defaultRecords(category); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(category))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStore, err, "reset dataset %s", category)
	}
	return nil
}

// Modified reports whether a category has local edits.
func (s *FileStore) Modified(category string) bool {
	_, err := os.Stat(s.path(category))
	return err == nil
}

var _ Store = (*FileStore)(nil)
