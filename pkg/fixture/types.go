// Package fixture generates synthetic commander game records for load-testing
// the match tracker. Output is fully determined by the tables, the seed and the
// clock, so a seeded run can be reproduced byte for byte.
package fixture

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of every date in an export document.
const DateLayout = "2006-01-02"

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Longer ISO timestamps are accepted and truncated.
func ParseDate(s string) (Date, error) {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("date must be a JSON string, got %s", data)
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// FastMana records whether a player opened with acceleration and which cards.
// Cards is empty exactly when HasFastMana is false.
type FastMana struct {
	HasFastMana bool     `json:"hasFastMana"`
	Cards       []string `json:"cards"`
}

// PlayerRecord is one seat at the table.
type PlayerRecord struct {
	CommanderName          string   `json:"commanderName"`
	CommanderManaCost      string   `json:"commanderManaCost"`
	CommanderTypeLine      string   `json:"commanderTypeLine"`
	CommanderColorIdentity []string `json:"commanderColorIdentity"`
	SeatPosition           int      `json:"seatPosition"`
	FastMana               FastMana `json:"fastMana"`
}

// MatchRecord is a single finished game.
type MatchRecord struct {
	PlayedAt       Date           `json:"playedAt"`
	WinTurn        int            `json:"winTurn"`
	WinnerIndex    int            `json:"winnerIndex"` // index into Players
	WinConditions  []string       `json:"winConditions"`
	KeyWinconCards []string       `json:"keyWinconCards"`
	Players        []PlayerRecord `json:"players"`
	Notes          *string        `json:"notes,omitempty"`
}

// Winner returns the winning player.
func (m MatchRecord) Winner() (PlayerRecord, bool) {
	if m.WinnerIndex < 0 || m.WinnerIndex >= len(m.Players) {
		return PlayerRecord{}, false
	}
	return m.Players[m.WinnerIndex], true
}

// ExportEnvelope is the top-level document written to disk.
type ExportEnvelope struct {
	ExportedAt Date          `json:"exportedAt"`
	Games      []MatchRecord `json:"games"`
}
