package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS session (
    id         TEXT PRIMARY KEY,
    state      TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

// SQLiteStore keeps sessions in a local SQLite file, so a terminal workout
// session survives between separate invocations.
type SQLiteStore struct {
	db *sql.DB
	// Now can be replaced in tests
	Now func() time.Time
}

func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite [%s]: %w", path, err)
	}
	// one writer at a time is all a single interactive session needs
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create session table: %w", err)
	}

	return &SQLiteStore{
		db:  db,
		Now: time.Now,
	}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*State, error) {
	var stateJson string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM session WHERE id = ?`, id).Scan(&stateJson)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	return unmarshalState([]byte(stateJson))
}

func (s *SQLiteStore) Save(ctx context.Context, state *State) error {
	stateJson, err := marshalState(state)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO session (id, state, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		state.ID, string(stateJson), s.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
