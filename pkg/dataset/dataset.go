// Package dataset loads and manages the reference data behind the
// visualization: molecules, fundamental particles, hadrons, elements and
// alloys.
//
// Records arrive as JSON objects with per-category schemas. Loading
// normalizes each record into an entity: the raw fields are kept, canonical
// lower-case aliases are added for the keys layout strategies read, and a
// UUID is assigned. The embedded datasets are the defaults; a Store layers
// add/update/remove/reset on top of them.
package dataset

import (
	"context"
	"sort"

	"github.com/chemdeck/chemdeck/pkg/entity"
	"github.com/chemdeck/chemdeck/pkg/errors"
)

// Known categories.
const (
	CategoryMolecules = "molecules"
	CategoryParticles = "particles"
	CategoryHadrons   = "hadrons"
	CategoryElements  = "elements"
	CategoryAlloys    = "alloys"
)

// Categories lists every known category in display order.
func Categories() []string {
	return []string{
		CategoryMolecules,
		CategoryParticles,
		CategoryHadrons,
		CategoryElements,
		CategoryAlloys,
	}
}

// ValidCategory reports whether name is a known category.
func ValidCategory(name string) bool {
	for _, c := range Categories() {
		if c == name {
			return true
		}
	}
	return false
}

// Source supplies entity lists per category. The layout engine depends only
// on this interface, never on a concrete store.
type Source interface {
	LoadAll(ctx context.Context, category string) ([]entity.Entity, error)
}

// Store extends Source with editing. Edits apply to the active copy of the
// data; Reset discards them and restores the shipped defaults.
type Store interface {
	Source

	// Add inserts a new record and returns it as a normalized entity.
	Add(ctx context.Context, category string, fields map[string]any) (entity.Entity, error)

	// Update replaces the record with the given name.
	Update(ctx context.Context, category, name string, fields map[string]any) error

	// Remove deletes the record with the given name.
	Remove(ctx context.Context, category, name string) error

	// Reset restores a category to its shipped defaults.
	Reset(ctx context.Context, category string) error
}

// normalizeAll converts raw records into entities sorted by name. Records
// failing their category's required fields are skipped, not fatal: one bad
// record must not take down the whole dataset.
func normalizeAll(category string, raw []map[string]any) ([]entity.Entity, error) {
	norm, ok := normalizers[category]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidCategory, "unknown dataset category: %s", category)
	}

	entities := make([]entity.Entity, 0, len(raw))
	for _, record := range raw {
		fields, ok := norm(record)
		if !ok {
			continue
		}
		entities = append(entities, entity.New(fields))
	}
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Name() < entities[j].Name()
	})
	return entities, nil
}
