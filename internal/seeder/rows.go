package seeder

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"pkg.jsn.cam/matchgen/pkg/fixture"
)

// DBPlayer is one element of the JSON players column.
type DBPlayer struct {
	ID                     string           `json:"id"`
	IsMe                   bool             `json:"is_me"`
	CommanderName          string           `json:"commanderName"`
	CommanderManaCost      string           `json:"commanderManaCost"`
	CommanderTypeLine      string           `json:"commanderTypeLine"`
	CommanderColorIdentity []string         `json:"commanderColorIdentity"`
	SeatPosition           int              `json:"seatPosition"`
	FastMana               fixture.FastMana `json:"fastMana"`
}

// GameRow is a row of the games table.
type GameRow struct {
	ID             string
	PlayedAt       time.Time
	WinTurn        int
	WinnerPlayerID string
	Notes          *string
	WinConditions  []string
	KeyWinconCards []string
	Players        []DBPlayer
	CreatedAt      time.Time
}

// Rows converts env into database rows. Game and player IDs are drawn from ids
// in record order (game first, then its players), so a deterministic reader
// yields deterministic rows. The first player of every game is "me", matching
// how the tracker imports an export.
//
// Games sharing a playedAt day are nudged apart by a millisecond each so that
// ordering by played_at DESC returns them in document order.
func Rows(env fixture.ExportEnvelope, ids io.Reader) ([]GameRow, error) {
	playedAt := spreadPlayedAt(env.Games)
	rows := make([]GameRow, 0, len(env.Games))

	for i, g := range env.Games {
		if g.WinnerIndex < 0 || g.WinnerIndex >= len(g.Players) {
			return nil, fmt.Errorf("game %d: %w", i, fixture.ErrWinnerIndex)
		}

		gameID, err := uuid.NewRandomFromReader(ids)
		if err != nil {
			return nil, fmt.Errorf("failed to mint id for game %d: %w", i, err)
		}

		players := make([]DBPlayer, 0, len(g.Players))
		for j, p := range g.Players {
			playerID, err := uuid.NewRandomFromReader(ids)
			if err != nil {
				return nil, fmt.Errorf("failed to mint id for game %d player %d: %w", i, j, err)
			}
			players = append(players, DBPlayer{
				ID:                     playerID.String(),
				IsMe:                   j == 0,
				CommanderName:          p.CommanderName,
				CommanderManaCost:      p.CommanderManaCost,
				CommanderTypeLine:      p.CommanderTypeLine,
				CommanderColorIdentity: p.CommanderColorIdentity,
				SeatPosition:           p.SeatPosition,
				FastMana:               p.FastMana,
			})
		}

		rows = append(rows, GameRow{
			ID:             gameID.String(),
			PlayedAt:       playedAt[i],
			WinTurn:        g.WinTurn,
			WinnerPlayerID: players[g.WinnerIndex].ID,
			Notes:          g.Notes,
			WinConditions:  g.WinConditions,
			KeyWinconCards: g.KeyWinconCards,
			Players:        players,
			CreatedAt:      env.ExportedAt.Time,
		})
	}

	return rows, nil
}

// spreadPlayedAt gives each game in a same-day group of n an offset of n-k
// milliseconds, k being its position within the group.
func spreadPlayedAt(games []fixture.MatchRecord) []time.Time {
	groups := make(map[time.Time][]int)
	for i, g := range games {
		groups[g.PlayedAt.Time] = append(groups[g.PlayedAt.Time], i)
	}

	out := make([]time.Time, len(games))
	for day, indices := range groups {
		if len(indices) == 1 {
			out[indices[0]] = day
			continue
		}
		for k, idx := range indices {
			out[idx] = day.Add(time.Duration(len(indices)-k) * time.Millisecond)
		}
	}
	return out
}
