package fixture

import (
	"fmt"
	"slices"
)

// Commander is a commander card and its printed mana cost.
type Commander struct {
	Name     string
	ManaCost string
}

// Range is an inclusive integer interval.
type Range struct {
	Min int
	Max int
}

func (r Range) valid() bool {
	return r.Min >= 0 && r.Min <= r.Max
}

// Tables holds the lookup data and bounds a Generator samples from.
// A Generator copies its Tables on construction, so callers may reuse or mutate theirs.
type Tables struct {
	Commanders    []Commander
	FastManaPool  []string
	WinConditions []string
	KeyCards      []string
	Notes         []string // "" means no note

	TypeLine       string
	FastManaChance float64

	Players       Range
	WinTurn       Range
	FastManaCards Range
	WinConditionN Range
	KeyCardN      Range
}

var defaultCommanders = []Commander{
	{"Atraxa, Praetors' Voice", "{1}{G}{W}{U}{B}"},
	{"The Ur-Dragon", "{4}{W}{U}{B}{R}{G}"},
	{"Korvold, Fae-Cursed King", "{2}{B}{R}{G}"},
	{"Kinnan, Bonder Prodigy", "{G}{U}"},
	{"Niv-Mizzet, Parun", "{U}{U}{U}{R}{R}{R}"},
	{"Muldrotha, the Gravetide", "{3}{B}{G}{U}"},
	{"Edgar Markov", "{3}{R}{W}{B}"},
	{"Yuriko, the Tiger's Shadow", "{1}{U}{B}"},
	{"Miirym, Sentinel Wyrm", "{3}{G}{U}{R}"},
	{"Winota, Joiner of Forces", "{2}{R}{W}"},
	{"Prosper, Tome-Bound", "{2}{B}{R}"},
}

var defaultFastMana = []string{
	"Sol Ring", "Mana Crypt", "Jeweled Lotus", "Arcane Signet", "Chrome Mox",
	"Mox Diamond", "Mana Vault", "Grim Monolith", "Lotus Petal", "Ancient Tomb",
}

var defaultWinConditions = []string{
	"Players Scooped", "Lethal Combat Damage", "Combat Trick", "Lethal Non-Combat Damage",
	"Players Decked Out", "Alternate Wincon", "Infinite Loop", "Infinite Life-Gain",
	"Infinite Mana", "Asymmetric Board Wipe",
}

var defaultKeyCards = []string{
	"Thassa's Oracle", "Underworld Breach", "Dockside Extortionist", "Demonic Consultation",
	"Ad Nauseam", "Rhystic Study", "Smothering Tithe", "Cyclonic Rift", "Fierce Guardianship",
	"Esper Sentinel", "Deflecting Swat", "Jeska's Will",
}

var defaultNotes = []string{
	"Great game, close finish.",
	"Kept a risky hand and got there.",
	"Long grindy game with multiple wipes.",
	"Early interaction mattered a lot.",
	"",
}

// DefaultTables returns a fresh copy of the stock lookup tables.
func DefaultTables() Tables {
	return Tables{
		Commanders:     slices.Clone(defaultCommanders),
		FastManaPool:   slices.Clone(defaultFastMana),
		WinConditions:  slices.Clone(defaultWinConditions),
		KeyCards:       slices.Clone(defaultKeyCards),
		Notes:          slices.Clone(defaultNotes),
		TypeLine:       "Legendary Creature",
		FastManaChance: 0.65,
		Players:        Range{Min: 2, Max: 6},
		WinTurn:        Range{Min: 3, Max: 14},
		FastManaCards:  Range{Min: 1, Max: 4},
		WinConditionN:  Range{Min: 1, Max: 2},
		KeyCardN:       Range{Min: 1, Max: 3},
	}
}

// Validate reports the first table that cannot be sampled from.
func (t Tables) Validate() error {
	switch {
	case len(t.Commanders) == 0:
		return fmt.Errorf("%w: no commanders", ErrInvalidTables)
	case len(t.WinConditions) == 0:
		return fmt.Errorf("%w: no win conditions", ErrInvalidTables)
	case len(t.KeyCards) == 0:
		return fmt.Errorf("%w: no key cards", ErrInvalidTables)
	case t.FastManaChance < 0 || t.FastManaChance > 1:
		return fmt.Errorf("%w: fast mana chance %v outside [0,1]", ErrInvalidTables, t.FastManaChance)
	case t.FastManaChance > 0 && len(t.FastManaPool) == 0:
		return fmt.Errorf("%w: fast mana chance set but pool is empty", ErrInvalidTables)
	}

	bounds := []struct {
		name string
		r    Range
	}{
		{"players", t.Players},
		{"win turn", t.WinTurn},
		{"fast mana cards", t.FastManaCards},
		{"win conditions", t.WinConditionN},
		{"key cards", t.KeyCardN},
	}
	for _, b := range bounds {
		if !b.r.valid() {
			return fmt.Errorf("%w: %s range [%d,%d]", ErrInvalidTables, b.name, b.r.Min, b.r.Max)
		}
	}

	if t.Players.Min < 1 {
		return fmt.Errorf("%w: a game needs at least one player", ErrInvalidTables)
	}
	if t.FastManaCards.Min < 1 || t.WinConditionN.Min < 1 || t.KeyCardN.Min < 1 {
		return fmt.Errorf("%w: sample sizes must be at least 1", ErrInvalidTables)
	}

	// Max is clamped to the pool when sampling; Min cannot be.
	type pool struct {
		name string
		r    Range
		size int
	}
	pools := []pool{
		{"win conditions", t.WinConditionN, len(t.WinConditions)},
		{"key cards", t.KeyCardN, len(t.KeyCards)},
	}
	if t.FastManaChance > 0 {
		pools = append(pools, pool{"fast mana cards", t.FastManaCards, len(t.FastManaPool)})
	}
	for _, p := range pools {
		if p.r.Min > p.size {
			return fmt.Errorf("%w: %s needs at least %d entries, pool has %d",
				ErrInvalidTables, p.name, p.r.Min, p.size)
		}
	}

	return nil
}

func (t Tables) clone() Tables {
	c := t
	c.Commanders = slices.Clone(t.Commanders)
	c.FastManaPool = slices.Clone(t.FastManaPool)
	c.WinConditions = slices.Clone(t.WinConditions)
	c.KeyCards = slices.Clone(t.KeyCards)
	c.Notes = slices.Clone(t.Notes)
	return c
}
