package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pkg.jsn.cam/matchgen/internal/config"
	"pkg.jsn.cam/matchgen/internal/seeder"
	"pkg.jsn.cam/matchgen/internal/stats"
	"pkg.jsn.cam/matchgen/pkg/export"
	"pkg.jsn.cam/matchgen/pkg/fixture"
	"pkg.jsn.cam/matchgen/pkg/storage"
)

/* generates a deterministic fixture of commander games for load-testing the tracker */

func main() {
	if path := config.LoadDotEnv(".env"); path != "" {
		log.Printf("[MATCHGEN] Loaded .env from %s", path)
	}

	cfg, err := config.Parse(flag.CommandLine, os.Args[1:], nil)
	if err != nil {
		log.Fatalf("[MATCHGEN] %v", err)
	}
	if cfg.ListPresets {
		listPresets(os.Stdout)
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[MATCHGEN] %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var progress io.Writer
	if cfg.Progress {
		progress = os.Stderr
	}
	if err := run(ctx, cfg, progress); err != nil {
		log.Fatalf("[MATCHGEN] %v", err)
	}
}

func listPresets(w io.Writer) {
	for _, name := range fixture.List() {
		p := fixture.Registry[name]
		fmt.Fprintf(w, "%-10s %4d games  %s\n", p.Name, p.DefaultCount, p.Description)
	}
}

// run executes one invocation. Progress bars go to progress when it is non-nil.
func run(ctx context.Context, cfg config.Config, progress io.Writer) error {
	if cfg.Verify != "" {
		return verify(cfg)
	}

	preset, err := fixture.Get(cfg.Preset)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if cfg.RandomSeed {
		if seed, err = fixture.RandomSeed(); err != nil {
			return fmt.Errorf("failed to pick seed: %w", err)
		}
		log.Printf("[MATCHGEN] Using random seed %d (rerun with -seed %d)", seed, seed)
	}

	var opts []fixture.Option
	if cfg.ExportedAt != "" {
		pinned, err := cfg.ExportDate()
		if err != nil {
			return err
		}
		opts = append(opts, fixture.WithClock(func() time.Time { return pinned }))
	}

	gen, err := fixture.New(preset.Tables(), fixture.NewRand(seed), opts...)
	if err != nil {
		return err
	}
	env := gen.Generate(cfg.Count)

	if err := export.WriteFile(cfg.Output, format, env); err != nil {
		return err
	}

	if cfg.Archive != "" {
		if err := archive(cfg, seed, env); err != nil {
			return err
		}
	}

	if cfg.SQLite != "" || cfg.PostgresURL != "" {
		rows, err := seeder.Rows(env, fixture.NewIDReader(seed))
		if err != nil {
			return err
		}
		if cfg.SQLite != "" {
			db, err := seeder.OpenSQLite(cfg.SQLite)
			if err != nil {
				return err
			}
			err = seeder.Seed(ctx, db, rows, progress)
			db.Close()
			if err != nil {
				return fmt.Errorf("sqlite: %w", err)
			}
		}
		if cfg.PostgresURL != "" {
			db, err := seeder.OpenPostgres(ctx, cfg.PostgresURL)
			if err != nil {
				return err
			}
			err = seeder.Seed(ctx, db, rows, progress)
			db.Close()
			if err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
		}
	}

	if cfg.Stats {
		log.Printf("[STATS] %s", stats.Compute(env))
	}

	log.Printf("[MATCHGEN] wrote %s with %d games", cfg.Output, len(env.Games))
	return nil
}

func archive(cfg config.Config, seed uint64, env fixture.ExportEnvelope) error {
	backend, err := storage.NewBboltBackend(cfg.Archive)
	if err != nil {
		return err
	}
	a, err := storage.NewArchive(backend)
	if err != nil {
		backend.Close()
		return err
	}
	defer a.Close()

	runID := cfg.ResolveRunID(seed, env.ExportedAt)
	info, err := a.Save(runID, env, fixture.NewIDReader(seed))
	if err != nil {
		return fmt.Errorf("failed to archive run %s: %w", runID, err)
	}
	log.Printf("[ARCHIVE] Saved run %s with %d games to %s", info.RunID, info.Count, cfg.Archive)
	return nil
}

func verify(cfg config.Config) error {
	env, err := export.ReadFile(cfg.Verify)
	if err != nil {
		return err
	}

	preset, err := fixture.Get(cfg.Preset)
	if err != nil {
		return err
	}
	tables := preset.Tables()
	for i, g := range env.Games {
		if err := fixture.ValidateMatchWith(tables, g); err != nil {
			return fmt.Errorf("%s: game %d: %w", cfg.Verify, i, err)
		}
	}

	if cfg.Stats {
		log.Printf("[STATS] %s", stats.Compute(env))
	}
	log.Printf("[MATCHGEN] verified %s with %d games", cfg.Verify, len(env.Games))
	return nil
}
