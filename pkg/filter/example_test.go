package filter_test

import (
	"fmt"

	"github.com/chemdeck/chemdeck/pkg/entity"
	"github.com/chemdeck/chemdeck/pkg/filter"
)

func ExampleApply() {
	entities := []entity.Entity{
		entity.New(map[string]any{"Name": "Water", "polarity": "Polar", "mass": 18.0}),
		entity.New(map[string]any{"Name": "Methane", "polarity": "Nonpolar", "mass": 16.0}),
		entity.New(map[string]any{"Name": "Sodium Chloride", "polarity": "Ionic", "mass": 58.4}),
	}

	set := filter.NewSet()
	set.Select(filter.DimPolarity, []string{"Polar", "Ionic"})
	set.SetRange("mass", filter.Range{Min: 0, Max: 20, Active: true})

	for _, e := range filter.Apply(entities, set) {
		fmt.Println(e.Name())
	}
	// Output:
	// Water
}

func ExampleSet_Select() {
	set := filter.NewSet()
	set.Select(filter.DimState, []string{"Gas"})
	fmt.Println("empty:", set.Empty())

	// Clearing the selection restores pass-all behavior.
	set.Select(filter.DimState, nil)
	fmt.Println("empty:", set.Empty())
	// Output:
	// empty: false
	// empty: true
}
