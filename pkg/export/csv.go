package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"pkg.jsn.cam/matchgen/pkg/fixture"
)

// csvHeader matches the game tracker's spreadsheet export, including the
// image and partner columns the generator never fills.
var csvHeader = []string{
	"playedAt",
	"winTurn",
	"winnerIndex",
	"notes",
	"playerIndex",
	"seatPosition",
	"commanderName",
	"commanderManaCost",
	"commanderTypeLine",
	"commanderColorIdentity",
	"commanderImageUri",
	"partnerName",
	"partnerManaCost",
	"partnerTypeLine",
	"partnerImageUri",
	"fastManaHasFastMana",
	"fastManaCards",
}

const listSeparator = "|"

// MarshalCSV flattens env into one row per player, in the layout the
// tracker's own CSV export uses.
func MarshalCSV(env fixture.ExportEnvelope) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to encode CSV: %w", err)
	}

	for _, g := range env.Games {
		notes := ""
		if g.Notes != nil {
			notes = *g.Notes
		}
		for i, p := range g.Players {
			row := []string{
				g.PlayedAt.String(),
				strconv.Itoa(g.WinTurn),
				strconv.Itoa(g.WinnerIndex),
				notes,
				strconv.Itoa(i),
				strconv.Itoa(p.SeatPosition),
				p.CommanderName,
				p.CommanderManaCost,
				p.CommanderTypeLine,
				strings.Join(p.CommanderColorIdentity, listSeparator),
				"", "", "", "", "",
				strconv.FormatBool(p.FastMana.HasFastMana),
				strings.Join(p.FastMana.Cards, listSeparator),
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("failed to encode CSV: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode CSV: %w", err)
	}
	// rows are newline-separated with no newline after the last one
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
