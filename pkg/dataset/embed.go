package dataset

import (
	"context"
	"embed"
	"encoding/json"

	"github.com/chemdeck/chemdeck/pkg/entity"
	"github.com/chemdeck/chemdeck/pkg/errors"
)

//go:embed data/*.json
var defaultsFS embed.FS

// defaultRecords returns the shipped raw records of a category.
func defaultRecords(category string) ([]map[string]any, error) {
	data, err := defaultsFS.ReadFile("data/" + category + ".json")
	if err != nil {
		return nil, errors.New(errors.ErrCodeDatasetNotFound, "no default dataset for category: %s", category)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode default dataset %s", category)
	}
	return raw, nil
}

// Embedded serves the datasets compiled into the binary. It is read-only;
// use a FileStore or MongoStore for editing.
type Embedded struct{}

// NewEmbedded returns the built-in dataset source.
func NewEmbedded() *Embedded {
	return &Embedded{}
}

// LoadAll returns the shipped entities of a category, sorted by name.
func (e *Embedded) LoadAll(ctx context.Context, category string) ([]entity.Entity, error) {
	if err := errors.ValidateCategoryName(category); err != nil {
		return nil, err
	}
	raw, err := defaultRecords(category)
	if err != nil {
		return nil, err
	}
	return normalizeAll(category, raw)
}
