// Package stats summarizes a fixture the way the tracker's dashboard would,
// treating the first player of every game as the tracked user.
package stats

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"pkg.jsn.cam/matchgen/pkg/fixture"
)

// maxSeat is the largest seat the dashboard breaks out.
const maxSeat = 6

// recentGames is how many of the latest games the streak looks at.
const recentGames = 10

// WinRate is wins over games; Rate is 0 when there are no games.
type WinRate struct {
	Wins  int
	Games int
	Rate  float64
}

func newWinRate(wins, games int) WinRate {
	r := WinRate{Wins: wins, Games: games}
	if games > 0 {
		r.Rate = float64(wins) / float64(games)
	}
	return r
}

func (w WinRate) String() string {
	return fmt.Sprintf("%d/%d (%.1f%%)", w.Wins, w.Games, w.Rate*100)
}

// ConditionCount is how many games listed a win condition.
type ConditionCount struct {
	Condition string
	Count     int
}

// CommanderStats is my record with one commander.
type CommanderStats struct {
	Name            string
	ManaCost        string
	Wins            int
	Games           int
	Rate            float64
	AverageWinTurn  *float64
	WithFastMana    WinRate
	AgainstFastMana WinRate
}

// Streak is my current run of wins or losses over the latest games.
type Streak struct {
	Length int
	Win    bool
	Recent []bool // win or loss per game, most recent first
}

// Summary is the dashboard view of a fixture.
type Summary struct {
	GamesPlayed     int
	Overall         WinRate
	WithFastMana    WinRate // games where I had fast mana
	AgainstFastMana WinRate // games where any opponent had fast mana
	BySeat          [maxSeat]WinRate
	ByCommander     []CommanderStats // rate desc, then games desc
	AverageWinTurn  *float64         // over my wins; nil without any
	TopWinCons      []ConditionCount
	Streak          Streak
}

type commanderTally struct {
	manaCost                string
	wins, games, winTurnSum int
	fmWins, fmGames         int
	vsWins, vsGames         int
}

func average(sum, n int) *float64 {
	if n == 0 {
		return nil
	}
	avg := float64(sum) / float64(n)
	return &avg
}

// Compute builds a Summary over env. Games without players are skipped.
func Compute(env fixture.ExportEnvelope) Summary {
	var (
		s                   Summary
		wins, winTurnSum    int
		fmWins, fmGames     int
		vsWins, vsGames     int
		seatWins, seatGames [maxSeat]int
	)
	conditions := make(map[string]int)
	commanders := make(map[string]*commanderTally)
	var commanderOrder []string

	for _, g := range env.Games {
		if len(g.Players) == 0 {
			continue
		}
		for _, c := range g.WinConditions {
			conditions[c]++
		}

		s.GamesPlayed++
		me := g.Players[0]
		won := g.WinnerIndex == 0
		facedFastMana := slices.ContainsFunc(g.Players[1:], func(p fixture.PlayerRecord) bool {
			return p.FastMana.HasFastMana
		})

		c, ok := commanders[me.CommanderName]
		if !ok {
			c = &commanderTally{manaCost: me.CommanderManaCost}
			commanders[me.CommanderName] = c
			commanderOrder = append(commanderOrder, me.CommanderName)
		}
		c.games++

		if won {
			wins++
			winTurnSum += g.WinTurn
			c.wins++
			c.winTurnSum += g.WinTurn
		}
		if me.FastMana.HasFastMana {
			fmGames++
			c.fmGames++
			if won {
				fmWins++
				c.fmWins++
			}
		}
		if facedFastMana {
			vsGames++
			c.vsGames++
			if won {
				vsWins++
				c.vsWins++
			}
		}
		if seat := me.SeatPosition; seat >= 1 && seat <= maxSeat {
			seatGames[seat-1]++
			if won {
				seatWins[seat-1]++
			}
		}
	}

	s.Overall = newWinRate(wins, s.GamesPlayed)
	s.WithFastMana = newWinRate(fmWins, fmGames)
	s.AgainstFastMana = newWinRate(vsWins, vsGames)
	for i := range maxSeat {
		s.BySeat[i] = newWinRate(seatWins[i], seatGames[i])
	}
	s.AverageWinTurn = average(winTurnSum, wins)

	for _, name := range commanderOrder {
		c := commanders[name]
		s.ByCommander = append(s.ByCommander, CommanderStats{
			Name:            name,
			ManaCost:        c.manaCost,
			Wins:            c.wins,
			Games:           c.games,
			Rate:            newWinRate(c.wins, c.games).Rate,
			AverageWinTurn:  average(c.winTurnSum, c.wins),
			WithFastMana:    newWinRate(c.fmWins, c.fmGames),
			AgainstFastMana: newWinRate(c.vsWins, c.vsGames),
		})
	}
	// stable, so ties keep first-played order
	slices.SortStableFunc(s.ByCommander, func(a, b CommanderStats) int {
		return cmp.Or(cmp.Compare(b.Rate, a.Rate), cmp.Compare(b.Games, a.Games))
	})

	for _, c := range slices.Sorted(maps.Keys(conditions)) {
		s.TopWinCons = append(s.TopWinCons, ConditionCount{Condition: c, Count: conditions[c]})
	}
	slices.SortStableFunc(s.TopWinCons, func(a, b ConditionCount) int {
		return cmp.Compare(b.Count, a.Count)
	})

	s.Streak = streak(env.Games)
	return s
}

// streak walks the latest games, newest first. Games on the same day are
// newest in document order, as the seeder stores them.
func streak(games []fixture.MatchRecord) Streak {
	byRecency := slices.Clone(games)
	slices.SortStableFunc(byRecency, func(a, b fixture.MatchRecord) int {
		return b.PlayedAt.Compare(a.PlayedAt.Time)
	})

	var st Streak
	broken := false
	for _, g := range byRecency[:min(recentGames, len(byRecency))] {
		if len(g.Players) == 0 {
			continue
		}
		won := g.WinnerIndex == 0
		st.Recent = append(st.Recent, won)

		switch {
		case broken:
		case st.Length == 0:
			st.Length, st.Win = 1, won
		case won == st.Win:
			st.Length++
		default:
			broken = true
		}
	}
	return st
}

// String renders the summary as a few log-friendly lines.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "games: %d, overall: %s", s.GamesPlayed, s.Overall)
	fmt.Fprintf(&b, "\nwith fast mana: %s, against fast mana: %s", s.WithFastMana, s.AgainstFastMana)

	b.WriteString("\nby seat:")
	for i, r := range s.BySeat {
		fmt.Fprintf(&b, " %d=%s", i+1, r)
	}

	if s.AverageWinTurn != nil {
		fmt.Fprintf(&b, "\naverage win turn: %.2f", *s.AverageWinTurn)
	} else {
		b.WriteString("\naverage win turn: n/a")
	}

	if len(s.ByCommander) > 0 {
		best := s.ByCommander[0]
		fmt.Fprintf(&b, "\nbest commander: %s %d/%d (%.1f%%)", best.Name, best.Wins, best.Games, best.Rate*100)
	}

	if s.Streak.Length > 0 {
		result := "loss"
		if s.Streak.Win {
			result = "win"
		}
		fmt.Fprintf(&b, "\ncurrent streak: %d %s", s.Streak.Length, result)
	}

	top := s.TopWinCons[:min(3, len(s.TopWinCons))]
	parts := make([]string, 0, len(top))
	for _, c := range top {
		parts = append(parts, fmt.Sprintf("%s (%d)", c.Condition, c.Count))
	}
	fmt.Fprintf(&b, "\ntop win conditions: %s", strings.Join(parts, ", "))

	return b.String()
}
