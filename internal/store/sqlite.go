package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cadence-cli/internal/model"

	_ "modernc.org/sqlite"
)

// Persistence is the storage collaborator contract. The engine treats
// implementations as black boxes and never depends on their encoding.
type Persistence interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// SQLiteStore persists snapshots in <Dir>/index.sqlite using a
// JSON-column row per template and calendar entry.
type SQLiteStore struct {
	Dir string
}

var _ Persistence = SQLiteStore{}

func (s SQLiteStore) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s SQLiteStore) path() string {
	return filepath.Join(s.Dir, "index.sqlite")
}

func (s SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.path())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness for concurrent CLI invocations.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS templates (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_templates_kind ON templates(kind);`,
		`CREATE TABLE IF NOT EXISTS calendar (
			id TEXT PRIMARY KEY,
			template_id TEXT NOT NULL,
			start_time_ms INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_calendar_template ON calendar(template_id);`,
		`CREATE INDEX IF NOT EXISTS idx_calendar_start ON calendar(start_time_ms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the stored snapshot. A missing or empty database yields
// an empty snapshot, not an error.
func (s SQLiteStore) Load(ctx context.Context) (Snapshot, error) {
	db, err := s.open(ctx)
	if err != nil {
		return Snapshot{}, StorageError{Op: "open", Err: err}
	}
	defer db.Close()

	snap := Snapshot{Calendar: map[string]model.BaseCalendarEntry{}}

	recs, err := readJSONRows[model.TemplateRecord](ctx, db, `SELECT json FROM templates ORDER BY id`)
	if err != nil {
		return Snapshot{}, StorageError{Op: "load templates", Err: err}
	}
	snap.Templates = recs

	entries, err := readJSONRows[model.BaseCalendarEntry](ctx, db, `SELECT json FROM calendar ORDER BY id`)
	if err != nil {
		return Snapshot{}, StorageError{Op: "load calendar", Err: err}
	}
	for _, e := range entries {
		snap.Calendar[e.ID] = e
	}
	if snap.Templates == nil {
		snap.Templates = []model.TemplateRecord{}
	}
	return snap, nil
}

// Save replaces the stored snapshot in one transaction. Replace-all is
// simple and safe at this scale; batches are the unit of persistence.
func (s SQLiteStore) Save(ctx context.Context, snap Snapshot) error {
	db, err := s.open(ctx)
	if err != nil {
		return StorageError{Op: "open", Err: err}
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return StorageError{Op: "begin", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"templates", "calendar"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return StorageError{Op: "clear " + table, Err: err}
		}
	}

	nowMs := time.Now().UTC().UnixMilli()
	for _, rec := range snap.Templates {
		raw, err := json.Marshal(rec)
		if err != nil {
			return StorageError{Op: "encode template", Err: err}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO templates(id, kind, name, duration_ms, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			rec.ID, strings.TrimSpace(rec.Kind), rec.Name, rec.DurationMs, string(raw), nowMs,
		); err != nil {
			return StorageError{Op: "save template", Err: err}
		}
	}
	for _, e := range snap.Calendar {
		raw, err := json.Marshal(e)
		if err != nil {
			return StorageError{Op: "encode calendar entry", Err: err}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO calendar(id, template_id, start_time_ms, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			e.ID, e.TemplateID, e.StartTimeMs, string(raw), nowMs,
		); err != nil {
			return StorageError{Op: "save calendar entry", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return StorageError{Op: "commit", Err: err}
	}
	return nil
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
