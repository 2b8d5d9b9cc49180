package fixture

import (
	"fmt"
	"slices"
)

// ValidateEnvelope checks every game in env and returns the first violation.
func ValidateEnvelope(env ExportEnvelope) error {
	for i, m := range env.Games {
		if err := ValidateMatch(m); err != nil {
			return fmt.Errorf("game %d: %w", i, err)
		}
	}
	return nil
}

// ValidateMatch checks the structural invariants of a single record.
// Bounds are the stock ones (2-6 players, turn 3-14); callers with custom
// tables should use ValidateMatchWith.
func ValidateMatch(m MatchRecord) error {
	return ValidateMatchWith(DefaultTables(), m)
}

// ValidateMatchWith checks m against the bounds in t.
func ValidateMatchWith(t Tables, m MatchRecord) error {
	n := len(m.Players)
	if n < t.Players.Min || n > t.Players.Max {
		return fmt.Errorf("%w: %d players", ErrPlayerCount, n)
	}
	if m.WinnerIndex < 0 || m.WinnerIndex >= n {
		return fmt.Errorf("%w: %d of %d", ErrWinnerIndex, m.WinnerIndex, n)
	}
	if m.WinTurn < t.WinTurn.Min || m.WinTurn > t.WinTurn.Max {
		return fmt.Errorf("%w: %d", ErrWinTurn, m.WinTurn)
	}
	if err := checkDistinct(m.WinConditions, t.WinConditionN); err != nil {
		return fmt.Errorf("%w: %v", ErrWinConditions, err)
	}
	if err := checkDistinct(m.KeyWinconCards, t.KeyCardN); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyCards, err)
	}

	seats := make([]int, 0, n)
	for i, p := range m.Players {
		if err := validatePlayer(p); err != nil {
			return fmt.Errorf("player %d: %w", i, err)
		}
		seats = append(seats, p.SeatPosition)
	}
	slices.Sort(seats)
	for i, s := range seats {
		if s != i+1 {
			return fmt.Errorf("%w: %v", ErrSeatPositions, seats)
		}
	}

	return nil
}

func validatePlayer(p PlayerRecord) error {
	if p.CommanderName == "" {
		return ErrEmptyCommander
	}
	if want := ColorIdentity(p.CommanderManaCost); !slices.Equal(want, p.CommanderColorIdentity) {
		return fmt.Errorf("%w: cost %s wants %v, got %v",
			ErrColorIdentity, p.CommanderManaCost, want, p.CommanderColorIdentity)
	}
	if p.FastMana.HasFastMana == (len(p.FastMana.Cards) == 0) {
		return fmt.Errorf("%w: hasFastMana=%t with %d cards",
			ErrFastMana, p.FastMana.HasFastMana, len(p.FastMana.Cards))
	}
	return nil
}

// checkDistinct checks that values has no duplicates and a length within bounds.
func checkDistinct(values []string, bounds Range) error {
	if len(values) < bounds.Min || len(values) > bounds.Max {
		return fmt.Errorf("%d entries, want %d-%d", len(values), bounds.Min, bounds.Max)
	}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			return fmt.Errorf("duplicate entry %q", v)
		}
		seen[v] = struct{}{}
	}
	return nil
}
