// Package history records every conformance run outcome over time, keyed by
// library name. The store consumes the runner's explicit result struct and
// keeps a compact summary per run, not the full
// evidence. SQLite serializes concurrent appends.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"libgov/internal/runner"
)

// TimestampFormat is the layout used for run timestamps (UTC, ISO-8601).
const TimestampFormat = "2006-01-02T15:04:05.000Z"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS conformance_runs (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id          TEXT NOT NULL,
	library_name    TEXT NOT NULL,
	library_version TEXT NOT NULL,
	ran_at          TEXT NOT NULL,
	schema_passed   INTEGER NOT NULL,
	semantic_passed INTEGER NOT NULL,
	hooks_passed    INTEGER NOT NULL,
	all_passed      INTEGER NOT NULL,
	duration_ms     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conformance_runs_library
	ON conformance_runs (library_name, ran_at);
`

// Entry is one recorded conformance run summary.
type Entry struct {
	RunID          string `json:"run_id"`
	LibraryName    string `json:"library_name"`
	LibraryVersion string `json:"library_version"`
	RanAt          string `json:"ran_at"`
	SchemaPassed   bool   `json:"schema_passed"`
	SemanticPassed bool   `json:"semantic_passed"`
	HooksPassed    bool   `json:"hooks_passed"`
	AllPassed      bool   `json:"all_passed"`
	DurationMS     int64  `json:"duration_ms"`
}

// Store is the append-only conformance history, backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// RecordRun appends a compact summary of one conformance run.
func (s *Store) RecordRun(res *runner.Result) (*Entry, error) {
	entry := &Entry{
		RunID:          res.RunID,
		LibraryName:    res.LibraryName,
		LibraryVersion: res.LibraryVersion,
		RanAt:          time.Now().UTC().Format(TimestampFormat),
		SchemaPassed:   res.SchemaPassed,
		SemanticPassed: res.SemanticPassed,
		HooksPassed:    res.HooksPassed(),
		AllPassed:      res.AllPassed(),
		DurationMS:     res.TotalDurationMS,
	}

	_, err := s.db.Exec(`
		INSERT INTO conformance_runs
			(run_id, library_name, library_version, ran_at,
			 schema_passed, semantic_passed, hooks_passed, all_passed, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID, entry.LibraryName, entry.LibraryVersion, entry.RanAt,
		entry.SchemaPassed, entry.SemanticPassed, entry.HooksPassed,
		entry.AllPassed, entry.DurationMS)
	if err != nil {
		return nil, fmt.Errorf("history: record run: %w", err)
	}
	return entry, nil
}

// History returns all recorded runs for one library, most recent first.
func (s *Store) History(libraryName string) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT run_id, library_name, library_version, ran_at,
		       schema_passed, semantic_passed, hooks_passed, all_passed, duration_ms
		FROM conformance_runs
		WHERE library_name = ?
		ORDER BY ran_at DESC, id DESC`, libraryName)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.RunID, &e.LibraryName, &e.LibraryVersion, &e.RanAt,
			&e.SchemaPassed, &e.SemanticPassed, &e.HooksPassed, &e.AllPassed, &e.DurationMS); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: read runs: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
