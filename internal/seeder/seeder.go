// Package seeder loads generated fixtures into a games table shaped like the
// tracker's hosted database, for load-testing its queries.
package seeder

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/schollz/progressbar/v3"
)

// Seeder writes game rows into a database.
type Seeder interface {
	// EnsureSchema creates the games table and its index if missing.
	EnsureSchema(ctx context.Context) error
	// InsertGames writes rows in a single transaction, calling inserted after each row.
	InsertGames(ctx context.Context, rows []GameRow, inserted func()) error
	// CountGames returns the number of rows in the games table.
	CountGames(ctx context.Context) (int, error)
	Close() error
}

// Seed creates the schema and inserts rows. When progress is non-nil a
// progress bar is drawn to it.
func Seed(ctx context.Context, s Seeder, rows []GameRow, progress io.Writer) error {
	if err := s.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	inserted := func() {}
	var bar *progressbar.ProgressBar
	if progress != nil {
		bar = progressbar.NewOptions(len(rows),
			progressbar.OptionSetWriter(progress),
			progressbar.OptionSetDescription("[SEEDER] inserting games"),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(progress) }),
		)
		inserted = func() { _ = bar.Add(1) }
	}

	if err := s.InsertGames(ctx, rows, inserted); err != nil {
		return fmt.Errorf("failed to insert games: %w", err)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	total, err := s.CountGames(ctx)
	if err != nil {
		return fmt.Errorf("failed to count games: %w", err)
	}
	log.Printf("[SEEDER] Inserted %d games (%d total in table)", len(rows), total)

	return nil
}
