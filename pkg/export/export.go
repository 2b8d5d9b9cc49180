// Package export encodes generated fixtures to disk and reads them back.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pkg.jsn.cam/matchgen/pkg/fixture"
)

// Format identifies an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

var (
	ErrUnknownFormat   = errors.New("unknown export format")
	ErrInvalidDocument = errors.New("invalid format: expected a games array")
)

// ParseFormat maps a case-insensitive name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Encode renders env in the given format.
func Encode(format Format, env fixture.ExportEnvelope) ([]byte, error) {
	switch format {
	case FormatJSON:
		return MarshalJSON(env)
	case FormatCSV:
		return MarshalCSV(env)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile encodes env and writes it to path, creating parent directories.
// The file is written to a temporary sibling first and renamed into place,
// so readers never observe a half-written fixture.
func WriteFile(path string, format Format, env fixture.ExportEnvelope) error {
	data, err := Encode(format, env)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move fixture into place: %w", err)
	}

	return nil
}
