package export

import (
	"bytes"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"pkg.jsn.cam/matchgen/pkg/fixture"
)

const indent = "  "

// MarshalJSON renders env as a pretty-printed JSON document with two-space indentation.
func MarshalJSON(env fixture.ExportEnvelope) ([]byte, error) {
	if env.Games == nil {
		env.Games = []fixture.MatchRecord{}
	}
	data, err := json.MarshalIndent(env, "", indent)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return data, nil
}

// Decode parses an export document. Both the envelope shape
// {"exportedAt": ..., "games": [...]} and a bare array of games are accepted.
func Decode(data []byte) (fixture.ExportEnvelope, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fixture.ExportEnvelope{}, ErrInvalidDocument
	}

	if trimmed[0] == '[' {
		var games []fixture.MatchRecord
		if err := json.Unmarshal(trimmed, &games); err != nil {
			return fixture.ExportEnvelope{}, fmt.Errorf("failed to decode JSON: %w", err)
		}
		return fixture.ExportEnvelope{Games: games}, nil
	}

	var doc struct {
		ExportedAt *fixture.Date          `json:"exportedAt"`
		Games      *[]fixture.MatchRecord `json:"games"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return fixture.ExportEnvelope{}, fmt.Errorf("failed to decode JSON: %w", err)
	}
	if doc.Games == nil {
		return fixture.ExportEnvelope{}, ErrInvalidDocument
	}

	env := fixture.ExportEnvelope{Games: *doc.Games}
	if doc.ExportedAt != nil {
		env.ExportedAt = *doc.ExportedAt
	}
	return env, nil
}

// ReadFile reads and decodes the export document at path.
func ReadFile(path string) (fixture.ExportEnvelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fixture.ExportEnvelope{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	env, err := Decode(data)
	if err != nil {
		return fixture.ExportEnvelope{}, fmt.Errorf("%s: %w", path, err)
	}
	return env, nil
}
