package dataset

import (
	"context"
	"sort"
	"testing"

	"github.com/chemdeck/chemdeck/pkg/errors"
)

func TestEmbeddedLoadAllCategories(t *testing.T) {
	src := NewEmbedded()
	for _, category := range Categories() {
		t.Run(category, func(t *testing.T) {
			entities, err := src.LoadAll(context.Background(), category)
			if err != nil {
				t.Fatalf("LoadAll(%s): %v", category, err)
			}
			if len(entities) == 0 {
				t.Fatalf("category %s is empty", category)
			}

			names := make([]string, len(entities))
			ids := map[string]bool{}
			for i, e := range entities {
				names[i] = e.Name()
				if e.Name() == "" {
					t.Errorf("entity %d has no name", i)
				}
				id := e.ID.String()
				if ids[id] {
					t.Errorf("duplicate entity id %s", id)
				}
				ids[id] = true
			}
			if !sort.StringsAreSorted(names) {
				t.Errorf("%s not sorted by name: %v", category, names)
			}
		})
	}
}

func TestEmbeddedUnknownCategory(t *testing.T) {
	_, err := NewEmbedded().LoadAll(context.Background(), "minerals")
	if errors.GetCode(err) != errors.ErrCodeDatasetNotFound {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeDatasetNotFound)
	}
}

func TestMoleculeAliases(t *testing.T) {
	entities, err := NewEmbedded().LoadAll(context.Background(), CategoryMolecules)
	if err != nil {
		t.Fatal(err)
	}

	for _, e := range entities {
		if e.Name() != "Water" {
			continue
		}
		if got := e.Num("mass", 0); got != 18.015 {
			t.Errorf("mass alias = %v", got)
		}
		if got := e.Str("polarity", ""); got != "Polar" {
			t.Errorf("polarity alias = %q", got)
		}
		if got := e.Str("state", ""); got != "Liquid" {
			t.Errorf("state alias = %q", got)
		}
		if got := e.Num("melting_point", 0); got != 273.15 {
			t.Errorf("melting_point alias = %v", got)
		}
		if bonds := e.Maps("Bonds"); len(bonds) != 2 {
			t.Errorf("water has %d bonds", len(bonds))
		}
		return
	}
	t.Fatal("water not found in molecules dataset")
}

func TestNormalizeMoleculeRequiredFields(t *testing.T) {
	_, ok := normalizeMolecule(map[string]any{
		"Name":    "Broken",
		"Formula": "X",
	})
	if ok {
		t.Error("molecule without mass, bond type and geometry should be skipped")
	}
}

func TestNormalizeHadronFlags(t *testing.T) {
	entities, err := NewEmbedded().LoadAll(context.Background(), CategoryHadrons)
	if err != nil {
		t.Fatal(err)
	}

	var baryons, mesons int
	for _, e := range entities {
		if e.Bool("is_baryon", false) {
			baryons++
		}
		if e.Bool("is_meson", false) {
			mesons++
		}
		if e.Bool("is_baryon", false) && e.Bool("is_meson", false) {
			t.Errorf("%s is both baryon and meson", e.Name())
		}
	}
	if baryons == 0 || mesons == 0 {
		t.Errorf("expected both baryons (%d) and mesons (%d)", baryons, mesons)
	}
}

func TestNormalizeParticleAliases(t *testing.T) {
	entities, err := NewEmbedded().LoadAll(context.Background(), CategoryParticles)
	if err != nil {
		t.Fatal(err)
	}

	for _, e := range entities {
		if e.Name() != "Electron" {
			continue
		}
		if got := e.Str("particle_type", ""); got != "lepton" {
			t.Errorf("particle_type = %q", got)
		}
		if got := e.Num("generation_num", 0); got != 1 {
			t.Errorf("generation_num = %v", got)
		}
		if forces := e.Strings("InteractionForces"); len(forces) != 3 {
			t.Errorf("electron forces = %v", forces)
		}
		return
	}
	t.Fatal("electron not found")
}

func TestNormalizeAlloyFlattensProperties(t *testing.T) {
	entities, err := NewEmbedded().LoadAll(context.Background(), CategoryAlloys)
	if err != nil {
		t.Fatal(err)
	}

	for _, e := range entities {
		if e.Num("density", 0) <= 0 {
			t.Errorf("%s missing flattened density", e.Name())
		}
		if e.Num("melting_point", 0) <= 0 {
			t.Errorf("%s missing flattened melting point", e.Name())
		}
	}
}

func TestFileStoreDefaultsAndEdits(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	defaults, err := store.LoadAll(ctx, CategoryMolecules)
	if err != nil {
		t.Fatal(err)
	}
	if store.Modified(CategoryMolecules) {
		t.Error("untouched category should not be marked modified")
	}

	_, err = store.Add(ctx, CategoryMolecules, map[string]any{
		"Name":              "Ozone",
		"Formula":           "O3",
		"MolecularMass_amu": 47.997,
		"BondType":          "Covalent",
		"Geometry":          "Bent",
		"Polarity":          "Polar",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !store.Modified(CategoryMolecules) {
		t.Error("add should materialize the active file")
	}

	after, err := store.LoadAll(ctx, CategoryMolecules)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != len(defaults)+1 {
		t.Errorf("after add: %d entities, want %d", len(after), len(defaults)+1)
	}

	// Duplicate names are rejected.
	if _, err := store.Add(ctx, CategoryMolecules, map[string]any{
		"Name": "Ozone", "Formula": "O3", "MolecularMass_amu": 1.0,
		"BondType": "Covalent", "Geometry": "Bent",
	}); errors.GetCode(err) != errors.ErrCodeInvalidInput {
		t.Errorf("duplicate add error code = %s", errors.GetCode(err))
	}

	if err := store.Remove(ctx, CategoryMolecules, "Ozone"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(ctx, CategoryMolecules, "Ozone"); errors.GetCode(err) != errors.ErrCodeEntityNotFound {
		t.Errorf("second remove error code = %s", errors.GetCode(err))
	}

	if err := store.Reset(ctx, CategoryMolecules); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if store.Modified(CategoryMolecules) {
		t.Error("reset should drop the active file")
	}

	restored, err := store.LoadAll(ctx, CategoryMolecules)
	if err != nil {
		t.Fatal(err)
	}
	if len(restored) != len(defaults) {
		t.Errorf("after reset: %d entities, want %d", len(restored), len(defaults))
	}
}

func TestFileStoreUpdate(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	err = store.Update(ctx, CategoryMolecules, "Water", map[string]any{
		"Name":              "Water",
		"Formula":           "H2O",
		"MolecularMass_amu": 18.02,
		"BondType":          "Covalent",
		"Geometry":          "Bent",
		"Polarity":          "Polar",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	entities, err := store.LoadAll(ctx, CategoryMolecules)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entities {
		if e.Name() == "Water" {
			if got := e.Num("mass", 0); got != 18.02 {
				t.Errorf("updated mass = %v", got)
			}
			return
		}
	}
	t.Fatal("water lost after update")
}

func TestFileStoreUpdateMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	err = store.Update(context.Background(), CategoryMolecules, "Unobtainium", map[string]any{})
	if errors.GetCode(err) != errors.ErrCodeEntityNotFound {
		t.Errorf("error code = %s", errors.GetCode(err))
	}
}

func TestValidCategory(t *testing.T) {
	if !ValidCategory(CategoryParticles) {
		t.Error("particles should be valid")
	}
	if ValidCategory("minerals") {
		t.Error("minerals should be invalid")
	}
}
