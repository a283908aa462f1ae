// Package store persists local app data in sqlite: the process-wide system
// instructions and a history of saved session snapshots. One database file
// under the app home directory.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

const systemPromptKey = "system_prompt"

// Store wraps the sqlite database.
type Store struct {
	db   *sql.DB
	path string
}

// Snapshot is one saved session file, kept verbatim for history/recall.
type Snapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"createdAt"`
}

// Open creates the data directory if needed and opens the database.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "promptdeck.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		payload BLOB NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SystemPrompt returns the persisted system instructions, or "" when none
// were saved yet.
func (s *Store) SystemPrompt(ctx context.Context) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, systemPromptKey).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// SaveSystemPrompt upserts the system instructions.
func (s *Store) SaveSystemPrompt(ctx context.Context, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, systemPromptKey, value, time.Now().UTC())
	return err
}

// SaveSnapshot stores a session file payload under a fresh ulid.
func (s *Store) SaveSnapshot(ctx context.Context, name string, payload []byte) (string, error) {
	now := time.Now().UTC()
	id := ulid.MustNew(ulid.Timestamp(now), rand.New(rand.NewSource(now.UnixNano()))).String()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, name, payload, created_at) VALUES (?, ?, ?, ?)
	`, id, name, payload, now)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetSnapshot returns one saved snapshot by id.
func (s *Store) GetSnapshot(ctx context.Context, id string) (*Snapshot, error) {
	var snap Snapshot
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, payload, created_at FROM snapshots WHERE id = ?
	`, id).Scan(&snap.ID, &snap.Name, &snap.Payload, &snap.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Kind: "snapshot", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListSnapshots returns saved snapshots most recent first, without
// payloads.
func (s *Store) ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at FROM snapshots ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// DeleteSnapshot removes one saved snapshot.
func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{Kind: "snapshot", ID: id}
	}
	return nil
}
