package fixture

import (
	"errors"
	"reflect"
	"slices"
	"testing"
	"time"
)

var fixedNow = func() time.Time {
	return time.Date(2026, time.March, 14, 18, 30, 0, 0, time.UTC)
}

func newTestGenerator(t *testing.T, seed uint64, tables Tables) *Generator {
	t.Helper()
	g, err := New(tables, NewRand(seed), WithClock(fixedNow))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return g
}

func TestGenerateInvariants(t *testing.T) {
	g := newTestGenerator(t, 42, DefaultTables())
	env := g.Generate(DefaultCount)

	if len(env.Games) != DefaultCount {
		t.Fatalf("Got %d games, want %d", len(env.Games), DefaultCount)
	}
	if got := env.ExportedAt.String(); got != "2026-03-14" {
		t.Errorf("ExportedAt = %s, want 2026-03-14", got)
	}

	for i, m := range env.Games {
		if m.WinnerIndex < 0 || m.WinnerIndex >= len(m.Players) {
			t.Errorf("game %d: winnerIndex %d out of range for %d players", i, m.WinnerIndex, len(m.Players))
		}
		if len(m.Players) < 2 || len(m.Players) > 6 {
			t.Errorf("game %d: %d players", i, len(m.Players))
		}
		if m.WinTurn < 3 || m.WinTurn > 14 {
			t.Errorf("game %d: winTurn %d", i, m.WinTurn)
		}
		if n := len(m.WinConditions); n < 1 || n > 2 {
			t.Errorf("game %d: %d win conditions", i, n)
		}
		if n := len(m.KeyWinconCards); n < 1 || n > 3 {
			t.Errorf("game %d: %d key cards", i, n)
		}
		if m.Notes != nil && *m.Notes == "" {
			t.Errorf("game %d: empty note stored instead of omitted", i)
		}

		seats := make([]int, 0, len(m.Players))
		for j, p := range m.Players {
			if !slices.Equal(p.CommanderColorIdentity, ColorIdentity(p.CommanderManaCost)) {
				t.Errorf("game %d player %d: identity %v for cost %s", i, j, p.CommanderColorIdentity, p.CommanderManaCost)
			}
			if p.FastMana.HasFastMana == (len(p.FastMana.Cards) == 0) {
				t.Errorf("game %d player %d: hasFastMana=%t with cards %v", i, j, p.FastMana.HasFastMana, p.FastMana.Cards)
			}
			if p.FastMana.Cards == nil {
				t.Errorf("game %d player %d: cards must be empty, not nil", i, j)
			}
			seats = append(seats, p.SeatPosition)
		}
		slices.Sort(seats)
		for j, s := range seats {
			if s != j+1 {
				t.Errorf("game %d: seats %v are not 1..%d", i, seats, len(seats))
				break
			}
		}
	}

	if err := ValidateEnvelope(env); err != nil {
		t.Errorf("ValidateEnvelope rejected generated data: %v", err)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := newTestGenerator(t, 7, DefaultTables()).Generate(50)
	b := newTestGenerator(t, 7, DefaultTables()).Generate(50)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different envelopes")
	}

	c := newTestGenerator(t, 8, DefaultTables()).Generate(50)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds produced identical envelopes")
	}
}

func TestGenerateCounts(t *testing.T) {
	t.Run("One", func(t *testing.T) {
		env := newTestGenerator(t, 1, DefaultTables()).Generate(1)
		if len(env.Games) != 1 {
			t.Fatalf("Got %d games, want 1", len(env.Games))
		}
		if err := ValidateMatch(env.Games[0]); err != nil {
			t.Errorf("ValidateMatch: %v", err)
		}
	})

	t.Run("Zero", func(t *testing.T) {
		env := newTestGenerator(t, 1, DefaultTables()).Generate(0)
		if env.Games == nil || len(env.Games) != 0 {
			t.Errorf("Got %#v, want empty non-nil games", env.Games)
		}
	})

	t.Run("Negative", func(t *testing.T) {
		env := newTestGenerator(t, 1, DefaultTables()).Generate(-3)
		if len(env.Games) != 0 {
			t.Errorf("Got %d games, want 0", len(env.Games))
		}
	})
}

func TestPlayedAtCycle(t *testing.T) {
	env := newTestGenerator(t, 3, DefaultTables()).Generate(367)

	if got := env.Games[0].PlayedAt.String(); got != "2025-01-01" {
		t.Errorf("first playedAt = %s, want 2025-01-01", got)
	}
	if got := env.Games[364].PlayedAt.String(); got != "2025-12-31" {
		t.Errorf("game 364 playedAt = %s, want 2025-12-31", got)
	}
	if got := env.Games[365].PlayedAt.String(); got != "2025-01-01" {
		t.Errorf("game 365 playedAt = %s, want wrap to 2025-01-01", got)
	}
}

func TestWithBaseDate(t *testing.T) {
	g, err := New(DefaultTables(), NewRand(1), WithBaseDate(time.Date(2024, 2, 28, 13, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	env := g.Generate(2)
	if got := env.Games[1].PlayedAt.String(); got != "2024-02-29" {
		t.Errorf("second playedAt = %s, want 2024-02-29", got)
	}
}

func TestSmallTables(t *testing.T) {
	tables := DefaultTables()
	tables.Commanders = []Commander{{"Kinnan, Bonder Prodigy", "{G}{U}"}}
	tables.FastManaPool = []string{"Sol Ring"}
	tables.KeyCards = []string{"Thassa's Oracle"}
	tables.WinConditions = []string{"Infinite Mana"}
	tables.Notes = nil
	tables.FastManaChance = 1

	env := newTestGenerator(t, 5, tables).Generate(30)
	for i, m := range env.Games {
		// sample sizes above the pool are clamped, never below Min
		if err := ValidateMatchWith(tables, m); err != nil {
			t.Errorf("game %d: %v", i, err)
		}
		if !slices.Equal(m.KeyWinconCards, []string{"Thassa's Oracle"}) {
			t.Errorf("game %d: key cards %v", i, m.KeyWinconCards)
		}
		if m.Notes != nil {
			t.Errorf("game %d: note set with no note table", i)
		}
		for _, p := range m.Players {
			if !p.FastMana.HasFastMana || !slices.Equal(p.FastMana.Cards, []string{"Sol Ring"}) {
				t.Errorf("game %d: fast mana %+v", i, p.FastMana)
			}
			if !slices.Equal(p.CommanderColorIdentity, []string{"U", "G"}) {
				t.Errorf("game %d: identity %v", i, p.CommanderColorIdentity)
			}
		}
	}
}

func TestNewErrors(t *testing.T) {
	t.Run("NilRand", func(t *testing.T) {
		if _, err := New(DefaultTables(), nil); !errors.Is(err, ErrNilRand) {
			t.Errorf("Got %v, want ErrNilRand", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*Tables)
	}{
		{"NoCommanders", func(t *Tables) { t.Commanders = nil }},
		{"NoWinConditions", func(t *Tables) { t.WinConditions = nil }},
		{"NoKeyCards", func(t *Tables) { t.KeyCards = nil }},
		{"NoFastManaPool", func(t *Tables) { t.FastManaPool = nil }},
		{"ChanceAboveOne", func(t *Tables) { t.FastManaChance = 1.5 }},
		{"InvertedPlayers", func(t *Tables) { t.Players = Range{Min: 6, Max: 2} }},
		{"ZeroPlayers", func(t *Tables) { t.Players = Range{Min: 0, Max: 0} }},
		{"ZeroKeyCards", func(t *Tables) { t.KeyCardN = Range{Min: 0, Max: 3} }},
		{"KeyCardMinAbovePool", func(t *Tables) {
			t.KeyCards = []string{"Thassa's Oracle"}
			t.KeyCardN = Range{Min: 2, Max: 3}
		}},
		{"WinConditionMinAbovePool", func(t *Tables) {
			t.WinConditions = []string{"Infinite Mana"}
			t.WinConditionN = Range{Min: 2, Max: 2}
		}},
		{"FastManaMinAbovePool", func(t *Tables) {
			t.FastManaPool = []string{"Sol Ring"}
			t.FastManaCards = Range{Min: 2, Max: 4}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := DefaultTables()
			tt.mutate(&tables)
			if _, err := New(tables, NewRand(1)); !errors.Is(err, ErrInvalidTables) {
				t.Errorf("Got %v, want ErrInvalidTables", err)
			}
		})
	}

	t.Run("EmptyPoolWithoutChance", func(t *testing.T) {
		tables := DefaultTables()
		tables.FastManaPool = nil
		tables.FastManaChance = 0
		if _, err := New(tables, NewRand(1)); err != nil {
			t.Errorf("Got %v, want nil", err)
		}
	})
}

func TestTablesAreCopied(t *testing.T) {
	tables := DefaultTables()
	g := newTestGenerator(t, 1, tables)
	tables.Commanders[0].Name = "Mutated"

	if got := g.Tables().Commanders[0].Name; got == "Mutated" {
		t.Error("generator shares the caller's commander slice")
	}
}

func TestNewIDReaderIndependent(t *testing.T) {
	a := make([]byte, 16)
	b := make([]byte, 16)
	if _, err := NewIDReader(9).Read(a); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if _, err := NewIDReader(9).Read(b); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !slices.Equal(a, b) {
		t.Error("same seed produced different ID streams")
	}

	// Drawing IDs between generators must not change the records.
	plain := newTestGenerator(t, 9, DefaultTables()).Generate(5)
	ids := NewIDReader(9)
	g := newTestGenerator(t, 9, DefaultTables())
	if _, err := ids.Read(make([]byte, 64)); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !reflect.DeepEqual(plain, g.Generate(5)) {
		t.Error("ID stream perturbed record generation")
	}
}
