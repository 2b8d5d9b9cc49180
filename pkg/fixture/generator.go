package fixture

import (
	"math/rand/v2"
	"time"
)

// DefaultCount is the number of games in a stock load-test fixture.
const DefaultCount = 220

// DefaultBaseDate is the playedAt of the first generated game.
var DefaultBaseDate = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// playedAtCycle wraps playedAt back to the base date after a year of games.
const playedAtCycle = 365

// Generator builds match records from a fixed set of lookup tables.
// A Generator is not safe for concurrent use; give each goroutine its own.
type Generator struct {
	tables   Tables
	rand     *rand.Rand
	now      func() time.Time
	baseDate time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the clock used to stamp exportedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithBaseDate overrides the playedAt of the first game.
func WithBaseDate(t time.Time) Option {
	return func(g *Generator) {
		g.baseDate = NewDate(t).Time
	}
}

// New creates a Generator sampling from tables with the given random source.
func New(tables Tables, r *rand.Rand, opts ...Option) (*Generator, error) {
	if r == nil {
		return nil, ErrNilRand
	}
	if err := tables.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		tables:   tables.clone(),
		rand:     r,
		now:      time.Now,
		baseDate: DefaultBaseDate,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Tables returns a copy of the tables the generator samples from.
func (g *Generator) Tables() Tables {
	return g.tables.clone()
}

// Generate builds count match records wrapped in an envelope stamped with today's date.
// A non-positive count yields an envelope with no games.
func (g *Generator) Generate(count int) ExportEnvelope {
	env := ExportEnvelope{
		ExportedAt: NewDate(g.now()),
		Games:      make([]MatchRecord, 0, max(count, 0)),
	}
	for i := range max(count, 0) {
		env.Games = append(env.Games, g.Match(i))
	}
	return env
}

// Match builds the i-th match record. The index only determines playedAt.
func (g *Generator) Match(i int) MatchRecord {
	t := g.tables

	n := between(g.rand, t.Players)
	players := make([]PlayerRecord, 0, n)
	for seat := 1; seat <= n; seat++ {
		players = append(players, g.player(seat))
	}
	g.rand.Shuffle(len(players), func(a, b int) {
		players[a], players[b] = players[b], players[a]
	})

	m := MatchRecord{
		PlayedAt:       Date{Time: g.baseDate.AddDate(0, 0, i%playedAtCycle)},
		WinTurn:        between(g.rand, t.WinTurn),
		WinnerIndex:    g.rand.IntN(n),
		WinConditions:  sample(g.rand, t.WinConditions, between(g.rand, t.WinConditionN)),
		KeyWinconCards: sample(g.rand, t.KeyCards, between(g.rand, t.KeyCardN)),
		Players:        players,
	}

	if len(t.Notes) > 0 {
		if note := t.Notes[g.rand.IntN(len(t.Notes))]; note != "" {
			m.Notes = &note
		}
	}

	return m
}

func (g *Generator) player(seat int) PlayerRecord {
	t := g.tables
	c := t.Commanders[g.rand.IntN(len(t.Commanders))]

	fm := FastMana{Cards: []string{}}
	if g.rand.Float64() < t.FastManaChance {
		fm.HasFastMana = true
		fm.Cards = sample(g.rand, t.FastManaPool, between(g.rand, t.FastManaCards))
	}

	return PlayerRecord{
		CommanderName:          c.Name,
		CommanderManaCost:      c.ManaCost,
		CommanderTypeLine:      t.TypeLine,
		CommanderColorIdentity: ColorIdentity(c.ManaCost),
		SeatPosition:           seat,
		FastMana:               fm,
	}
}
