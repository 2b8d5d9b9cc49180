package seeder

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		played_at TIMESTAMPTZ NOT NULL,
		win_turn INTEGER NOT NULL,
		winner_player_id TEXT NOT NULL,
		notes TEXT,
		win_conditions TEXT[],
		key_wincon_cards TEXT[],
		bracket INTEGER,
		players JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_games_played_at ON games (played_at DESC);
`

var gameColumns = []string{
	"id", "played_at", "win_turn", "winner_player_id", "notes",
	"win_conditions", "key_wincon_cards", "players", "created_at", "updated_at",
}

// Postgres seeds a PostgreSQL database through a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to databaseURL and verifies the connection.
func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Pool returns the underlying connection pool for custom queries
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, postgresSchema)
	return err
}

// InsertGames streams rows with COPY inside a transaction.
func (p *Postgres) InsertGames(ctx context.Context, rows []GameRow, inserted func()) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	src := pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		r := rows[i]
		players, err := json.Marshal(r.Players)
		if err != nil {
			return nil, err
		}
		inserted()
		return []any{
			r.ID, r.PlayedAt, r.WinTurn, r.WinnerPlayerID, r.Notes,
			r.WinConditions, r.KeyWinconCards, string(players), r.CreatedAt, r.CreatedAt,
		}, nil
	})

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"games"}, gameColumns, src); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (p *Postgres) CountGames(ctx context.Context) (int, error) {
	var count int
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM games`).Scan(&count)
	return count, err
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
