package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"pagepilot/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS actions (
	id     TEXT PRIMARY KEY,
	tool   TEXT NOT NULL,
	params TEXT NOT NULL,
	at     INTEGER NOT NULL
);`

// SQLiteStore is a durable action log. The schema is created on open, so a
// fresh file works without migrations.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, entry domain.ActionEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO actions (id, tool, params, at) VALUES (?, ?, ?, ?)`,
		entry.ID, entry.Tool, string(entry.Params), entry.At)
	if err != nil {
		return fmt.Errorf("append action: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]domain.ActionEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tool, params, at FROM actions ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var entries []domain.ActionEntry
	for rows.Next() {
		var e domain.ActionEntry
		var params string
		if err := rows.Scan(&e.ID, &e.Tool, &params, &e.At); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		e.Params = []byte(params)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM actions`); err != nil {
		return fmt.Errorf("clear actions: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
