package fixture

import (
	"fmt"
	"maps"
	"slices"
)

// Preset is a named table set with a suggested record count.
type Preset struct {
	Name         string
	Description  string
	DefaultCount int
	Tables       func() Tables
}

// Registry maps preset names to presets.
// Tables are built through factory functions so each caller gets its own copy.
var Registry = map[string]Preset{
	"default": {
		Name:         "default",
		Description:  "Stock commander pods: 11 commanders, 2-6 players, 220 games",
		DefaultCount: DefaultCount,
		Tables:       DefaultTables,
	},
	"minimal": {
		Name:         "minimal",
		Description:  "Two commanders and tiny pools for small smoke fixtures",
		DefaultCount: 10,
		Tables:       MinimalTables,
	},
}

// Get returns a preset by name
func Get(name string) (Preset, error) {
	p, exists := Registry[name]
	if !exists {
		return Preset{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return p, nil
}

// List returns all available preset names, sorted
func List() []string {
	return slices.Sorted(maps.Keys(Registry))
}

// MinimalTables is a small table set: two commanders, four-player pods and short pools.
func MinimalTables() Tables {
	t := DefaultTables()
	t.Commanders = []Commander{
		{"Kinnan, Bonder Prodigy", "{G}{U}"},
		{"Winota, Joiner of Forces", "{2}{R}{W}"},
	}
	t.FastManaPool = []string{"Sol Ring", "Mana Crypt"}
	t.WinConditions = []string{"Lethal Combat Damage", "Infinite Mana"}
	t.KeyCards = []string{"Thassa's Oracle", "Underworld Breach"}
	t.Notes = []string{"Quick pod.", ""}
	t.Players = Range{Min: 2, Max: 4}
	return t
}
