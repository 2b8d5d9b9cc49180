// Package config resolves matchgen settings from a .env file, MATCHGEN_*
// environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"pkg.jsn.cam/matchgen/pkg/export"
	"pkg.jsn.cam/matchgen/pkg/fixture"
)

// ErrInvalidConfig wraps every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the matchgen command configuration.
type Config struct {
	Count      int    `env:"MATCHGEN_COUNT"       envDefault:"220"`
	Preset     string `env:"MATCHGEN_PRESET"      envDefault:"default"`
	Seed       uint64 `env:"MATCHGEN_SEED"        envDefault:"42"`
	Output     string `env:"MATCHGEN_OUTPUT"      envDefault:"public/load-test-games.json"`
	Format     string `env:"MATCHGEN_FORMAT"      envDefault:"json"`
	ExportedAt string `env:"MATCHGEN_EXPORTED_AT"`
	RandomSeed bool   `env:"MATCHGEN_RANDOM_SEED"`

	Archive string `env:"MATCHGEN_ARCHIVE"`
	RunID   string `env:"MATCHGEN_RUN_ID"`

	SQLite      string `env:"MATCHGEN_SQLITE"`
	PostgresURL string `env:"MATCHGEN_POSTGRES_URL"`

	Verify   string `env:"MATCHGEN_VERIFY"`
	Stats    bool   `env:"MATCHGEN_STATS"`
	Progress bool   `env:"MATCHGEN_PROGRESS" envDefault:"true"`

	// ListPresets prints the preset registry and exits. Flag only.
	ListPresets bool `env:"-"`
}

// LoadDotEnv loads the first readable file among paths into the process
// environment and returns its path. Missing files are not an error.
func LoadDotEnv(paths ...string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

// Parse resolves a Config. Values come from environ when it is non-nil and
// from the process environment otherwise; flags in args override both.
func Parse(fs *flag.FlagSet, args []string, environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.IntVar(&cfg.Count, "count", cfg.Count, "number of games to generate")
	fs.StringVar(&cfg.Preset, "preset", cfg.Preset, "table preset name")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	fs.BoolVar(&cfg.RandomSeed, "random-seed", cfg.RandomSeed, "ignore -seed, draw a fresh seed and log it")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "output file path")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format (json or csv)")
	fs.StringVar(&cfg.ExportedAt, "exported-at", cfg.ExportedAt, "pin exportedAt to YYYY-MM-DD")
	fs.StringVar(&cfg.Archive, "archive", cfg.Archive, "bbolt archive path")
	fs.StringVar(&cfg.RunID, "run-id", cfg.RunID, "archive run id (defaults to seed and date)")
	fs.StringVar(&cfg.SQLite, "sqlite", cfg.SQLite, "seed a SQLite database at this path")
	fs.StringVar(&cfg.PostgresURL, "postgres", cfg.PostgresURL, "seed a PostgreSQL database at this URL")
	fs.StringVar(&cfg.Verify, "verify", cfg.Verify, "validate an existing fixture instead of generating")
	fs.BoolVar(&cfg.Stats, "stats", cfg.Stats, "log a win-rate summary")
	fs.BoolVar(&cfg.Progress, "progress", cfg.Progress, "draw a progress bar while seeding")
	fs.BoolVar(&cfg.ListPresets, "presets", false, "list table presets and exit")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks values that flag and env parsing cannot.
func (c Config) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("%w: count must not be negative, got %d", ErrInvalidConfig, c.Count)
	}
	if _, err := export.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := fixture.Get(c.Preset); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.ExportedAt != "" {
		if _, err := c.ExportDate(); err != nil {
			return fmt.Errorf("%w: exported-at: %w", ErrInvalidConfig, err)
		}
	}
	if c.Verify == "" && c.Output == "" {
		return fmt.Errorf("%w: output path is required", ErrInvalidConfig)
	}
	return nil
}

// ExportDate parses ExportedAt. It is only meaningful when ExportedAt is set.
func (c Config) ExportDate() (time.Time, error) {
	d, err := fixture.ParseDate(c.ExportedAt)
	if err != nil {
		return time.Time{}, err
	}
	return d.Time, nil
}

// ResolveRunID returns RunID, or "seed-<seed>-<date>" when it is empty.
func (c Config) ResolveRunID(seed uint64, exportedAt fixture.Date) string {
	if c.RunID != "" {
		return c.RunID
	}
	return fmt.Sprintf("seed-%d-%s", seed, exportedAt)
}
