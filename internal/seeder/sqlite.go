package seeder

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		played_at TEXT NOT NULL,
		win_turn INTEGER NOT NULL,
		winner_player_id TEXT NOT NULL,
		notes TEXT,
		win_conditions TEXT,
		key_wincon_cards TEXT,
		bracket INTEGER,
		players TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_games_played_at ON games (played_at DESC);
`

// sqliteTime is sortable as text, matching played_at DESC ordering.
const sqliteTime = "2006-01-02T15:04:05.000Z07:00"

// SQLite seeds a local SQLite file. Arrays and players are stored as JSON text.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path. ":memory:" is accepted.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection: every :memory: connection would be its own database
	db.SetMaxOpenConns(1)

	return &SQLite{db: db}, nil
}

// DB returns the underlying handle for custom queries
func (s *SQLite) DB() *sql.DB {
	return s.db
}

func (s *SQLite) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteSchema)
	return err
}

func (s *SQLite) InsertGames(ctx context.Context, rows []GameRow, inserted func()) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO games (
			id, played_at, win_turn, winner_player_id, notes,
			win_conditions, key_wincon_cards, players, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		winConditions, err := json.Marshal(r.WinConditions)
		if err != nil {
			return err
		}
		keyCards, err := json.Marshal(r.KeyWinconCards)
		if err != nil {
			return err
		}
		players, err := json.Marshal(r.Players)
		if err != nil {
			return err
		}
		created := r.CreatedAt.UTC().Format(sqliteTime)

		if _, err := stmt.ExecContext(ctx,
			r.ID, r.PlayedAt.UTC().Format(sqliteTime), r.WinTurn, r.WinnerPlayerID, r.Notes,
			string(winConditions), string(keyCards), string(players), created, created,
		); err != nil {
			return fmt.Errorf("insert game %s: %w", r.ID, err)
		}
		inserted()
	}

	return tx.Commit()
}

func (s *SQLite) CountGames(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&count)
	return count, err
}

// RecentGames returns up to limit rows ordered by played_at DESC, the order
// the tracker lists games in.
func (s *SQLite) RecentGames(ctx context.Context, limit int) ([]GameRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, played_at, win_turn, winner_player_id, notes,
		       win_conditions, key_wincon_cards, players, created_at
		FROM games
		ORDER BY played_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameRow
	for rows.Next() {
		var (
			r                                  GameRow
			playedAt, created                  string
			notes                              sql.NullString
			winConditions, keyCards, playersJS string
		)
		if err := rows.Scan(&r.ID, &playedAt, &r.WinTurn, &r.WinnerPlayerID, &notes,
			&winConditions, &keyCards, &playersJS, &created); err != nil {
			return nil, err
		}
		if notes.Valid {
			r.Notes = &notes.String
		}
		if r.PlayedAt, err = time.Parse(sqliteTime, playedAt); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = time.Parse(sqliteTime, created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(winConditions), &r.WinConditions); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(keyCards), &r.KeyWinconCards); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(playersJS), &r.Players); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
