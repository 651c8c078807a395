package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Invocation is one dispatched command as recorded in the ledger.
type Invocation struct {
	ID         int64
	Service    string
	EntryClass string
	Args       []string
	ExitCode   int
	InstanceID string
	StartedAt  time.Time
	Duration   time.Duration
}

// Stats aggregates ledger contents.
type Stats struct {
	Total     int
	Succeeded int
	Failed    int
}

// Store persists the invocation ledger in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database and applies the
// schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) applySchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS invocations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    service TEXT NOT NULL,
    entry_class TEXT NOT NULL,
    args TEXT NOT NULL,
    exit_code INTEGER NOT NULL,
    instance_id TEXT NOT NULL DEFAULT '',
    started_at TEXT NOT NULL,
    duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_invocations_started_at ON invocations(started_at);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply ledger schema: %w", err)
	}
	return nil
}

// Record inserts one invocation and returns its id.
func (s *Store) Record(ctx context.Context, inv Invocation) (int64, error) {
	args, err := json.Marshal(inv.Args)
	if err != nil {
		return 0, fmt.Errorf("encode args: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO invocations (service, entry_class, args, exit_code, instance_id, started_at, duration_ms)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.Service,
		inv.EntryClass,
		string(args),
		inv.ExitCode,
		inv.InstanceID,
		inv.StartedAt.UTC().Format(time.RFC3339Nano),
		inv.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert invocation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Recent returns the most recent invocations, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Invocation, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, service, entry_class, args, exit_code, instance_id, started_at, duration_ms
         FROM invocations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query invocations: %w", err)
	}
	defer rows.Close()

	var out []Invocation
	for rows.Next() {
		var (
			inv        Invocation
			argsJSON   string
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&inv.ID, &inv.Service, &inv.EntryClass, &argsJSON, &inv.ExitCode, &inv.InstanceID, &startedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		if err := json.Unmarshal([]byte(argsJSON), &inv.Args); err != nil {
			return nil, fmt.Errorf("decode args: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		inv.StartedAt = ts
		inv.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Stats aggregates success and failure counts across the ledger.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
                COALESCE(SUM(CASE WHEN exit_code = 0 THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN exit_code != 0 THEN 1 ELSE 0 END), 0)
         FROM invocations`)
	var stats Stats
	if err := row.Scan(&stats.Total, &stats.Succeeded, &stats.Failed); err != nil {
		return Stats{}, fmt.Errorf("aggregate ledger stats: %w", err)
	}
	return stats, nil
}
