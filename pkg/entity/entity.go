// Package entity defines the schema-loose record type that flows through the
// chemdeck pipeline.
//
// Reference datasets come from JSON files with uneven schemas: molecules carry
// bond and polarity fields, particles carry spin and charge, and individual
// records within a category may omit fields entirely. Entity therefore stores
// its payload as a map and exposes typed accessors that take a default instead
// of failing. Missing or malformed data degrades the visualization, it never
// aborts it.
//
// Every entity is assigned a UUID when loaded. Identity comparisons (hover,
// selection, filtering round trips) use the ID, never map equality.
package entity

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Entity is a single record from a dataset: one molecule, particle, hadron,
// element or alloy. Fields holds the raw JSON-shaped payload.
type Entity struct {
	ID     uuid.UUID      `json:"id"`
	Fields map[string]any `json:"fields"`
}

// New creates an entity with a fresh ID and the given fields.
// A nil fields map is replaced with an empty one.
func New(fields map[string]any) Entity {
	if fields == nil {
		fields = map[string]any{}
	}
	return Entity{ID: uuid.New(), Fields: fields}
}

// Name returns the entity's display name, or "" if absent.
func (e Entity) Name() string {
	return e.Str("Name", "")
}

// Num returns the numeric value stored under key, or def if the key is absent
// or not numeric. JSON decoding produces float64 for all numbers, but values
// set programmatically may be int or json.Number.
func (e Entity) Num(key string, def float64) float64 {
	v, ok := e.Fields[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return def
}

// Str returns the string value stored under key, or def.
func (e Entity) Str(key, def string) string {
	if s, ok := e.Fields[key].(string); ok {
		return s
	}
	return def
}

// Bool returns the boolean value stored under key, or def.
func (e Entity) Bool(key string, def bool) bool {
	if b, ok := e.Fields[key].(bool); ok {
		return b
	}
	return def
}

// Strings returns the list of strings stored under key, or nil.
// Entries that are not strings are skipped.
func (e Entity) Strings(key string) []string {
	raw, ok := e.Fields[key].([]any)
	if !ok {
		// Round-tripped entities may carry a typed slice.
		if typed, ok := e.Fields[key].([]string); ok {
			out := make([]string, len(typed))
			copy(out, typed)
			return out
		}
		return nil
	}
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Maps returns the list of nested objects stored under key, or nil.
// Non-object entries are skipped.
func (e Entity) Maps(key string) []map[string]any {
	raw, ok := e.Fields[key].([]any)
	if !ok {
		return nil
	}
	var out []map[string]any
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Has reports whether key is present, regardless of value type.
func (e Entity) Has(key string) bool {
	_, ok := e.Fields[key]
	return ok
}

// Set stores a value under key, allocating the fields map if needed.
func (e *Entity) Set(key string, value any) {
	if e.Fields == nil {
		e.Fields = map[string]any{}
	}
	e.Fields[key] = value
}

// Clone returns a copy of the entity with a shallow copy of its fields.
// The ID is preserved so the clone still identifies the same record.
func (e Entity) Clone() Entity {
	return Entity{ID: e.ID, Fields: copyFields(e.Fields)}
}

// copyFields creates a shallow copy of a fields map.
// Returns an empty map for nil input to keep entities usable after Clone.
func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
