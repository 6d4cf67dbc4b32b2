// Package filter narrows entity lists before layout.
//
// A Set holds one selection per dimension. Within a dimension the selected
// values OR together, across dimensions the results AND together, and an
// empty selection passes everything. Unchecking every option therefore shows
// the full dataset rather than an empty view.
package filter

import (
	"strconv"

	"github.com/chemdeck/chemdeck/pkg/entity"
)

// Dimension names accepted by Apply. Anything else is matched as a plain
// string field of the same name.
const (
	DimState          = "state"
	DimPolarity       = "polarity"
	DimBondType       = "bond_type"
	DimCategory       = "category"
	DimClassification = "Classification"
	DimGeneration     = "generation"
	DimChargeSign     = "charge_sign"
)

// bondTypeOptions is the full option set the bond-type selector offers.
// Selecting all of them short-circuits to pass-all, matching the selector's
// "everything checked" state.
var bondTypeOptions = []string{"Covalent", "Ionic", "Metallic"}

// Range is a numeric window on one field. Inactive ranges pass everything.
type Range struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Active bool    `json:"active"`
}

// Contains reports whether v falls inside the range.
func (r Range) Contains(v float64) bool {
	return !r.Active || (v >= r.Min && v <= r.Max)
}

// Set is a full filter configuration: discrete selections per dimension plus
// numeric ranges per field.
type Set struct {
	Values map[string][]string `json:"values,omitempty"`
	Ranges map[string]Range    `json:"ranges,omitempty"`
}

// NewSet returns an empty filter set that passes everything.
func NewSet() Set {
	return Set{Values: map[string][]string{}, Ranges: map[string]Range{}}
}

// Select replaces the selection for one dimension. An empty or nil selection
// clears the dimension.
func (s *Set) Select(dimension string, values []string) {
	if s.Values == nil {
		s.Values = map[string][]string{}
	}
	if len(values) == 0 {
		delete(s.Values, dimension)
		return
	}
	s.Values[dimension] = values
}

// SetRange replaces the numeric window for one field.
func (s *Set) SetRange(field string, r Range) {
	if s.Ranges == nil {
		s.Ranges = map[string]Range{}
	}
	s.Ranges[field] = r
}

// Empty reports whether the set passes everything.
func (s Set) Empty() bool {
	for _, values := range s.Values {
		if len(values) > 0 {
			return false
		}
	}
	for _, r := range s.Ranges {
		if r.Active {
			return false
		}
	}
	return true
}

// Apply returns the entities passing every active dimension. The input slice
// is never modified; applying the same set twice yields the same list.
func Apply(entities []entity.Entity, set Set) []entity.Entity {
	out := make([]entity.Entity, 0, len(entities))
	for _, e := range entities {
		if Matches(e, set) {
			out = append(out, e)
		}
	}
	return out
}

// Matches reports whether a single entity passes the whole set.
func Matches(e entity.Entity, set Set) bool {
	for dimension, values := range set.Values {
		if len(values) == 0 {
			continue
		}
		if !matchDimension(e, dimension, values) {
			return false
		}
	}
	for field, r := range set.Ranges {
		if !r.Contains(e.Num(field, 0)) {
			return false
		}
	}
	return true
}

func matchDimension(e entity.Entity, dimension string, values []string) bool {
	switch dimension {
	case DimBondType:
		return matchBondType(e, values)
	case DimGeneration:
		return matchGeneration(e, values)
	case DimChargeSign:
		return matchChargeSign(e, values)
	default:
		got := e.Str(dimension, "Unknown")
		for _, v := range values {
			if got == v {
				return true
			}
		}
		return false
	}
}

// matchBondType checks the flat summary field and every entry of the nested
// bonds list; a hit in either representation passes. With the full option set
// selected it passes outright, including entities with no bond data at all.
func matchBondType(e entity.Entity, values []string) bool {
	if containsAll(values, bondTypeOptions) {
		return true
	}
	flat := e.Str("bond_type", "")
	for _, v := range values {
		if flat == v {
			return true
		}
		for _, bond := range e.Maps("Bonds") {
			if t, ok := bond["Type"].(string); ok && t == v {
				return true
			}
		}
	}
	return false
}

func matchGeneration(e entity.Entity, values []string) bool {
	gen := strconv.Itoa(int(e.Num("generation_num", 0)))
	for _, v := range values {
		if gen == v {
			return true
		}
	}
	return false
}

// matchChargeSign buckets charge into "positive", "negative" and "neutral".
func matchChargeSign(e entity.Entity, values []string) bool {
	charge := e.Num("Charge_e", 0)
	var sign string
	switch {
	case charge > 0:
		sign = "positive"
	case charge < 0:
		sign = "negative"
	default:
		sign = "neutral"
	}
	for _, v := range values {
		if sign == v {
			return true
		}
	}
	return false
}

func containsAll(have, want []string) bool {
	set := map[string]bool{}
	for _, v := range have {
		set[v] = true
	}
	for _, v := range want {
		if !set[v] {
			return false
		}
	}
	return true
}
