// Package store persists run history and cached geocode responses in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/Axewc/reverse-geocoding/pkg/opencage"
)

// Store wraps a SQLite database holding the run journal and the geocode
// response cache.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at the given path and configures
// WAL mode.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	command     TEXT NOT NULL,
	input_file  TEXT NOT NULL,
	output_file TEXT,
	total       INTEGER NOT NULL DEFAULT 0,
	succeeded   INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0,
	started_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	finished_at DATETIME
);

CREATE TABLE IF NOT EXISTS geocode_cache (
	key        TEXT PRIMARY KEY,
	response   TEXT NOT NULL,
	cached_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_geocode_cache_expires_at ON geocode_cache(expires_at);
`

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "store: migrate")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Run is one journal entry. FinishedAt is nil while the run is in flight (or
// when the process died before finishing it).
type Run struct {
	ID         string     `json:"id"`
	Command    string     `json:"command"`
	InputFile  string     `json:"input_file"`
	OutputFile string     `json:"output_file,omitempty"`
	Total      int        `json:"total"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// StartRun journals the beginning of a batch run.
func (s *Store) StartRun(ctx context.Context, command, inputFile string) (*Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, command, input_file, started_at) VALUES (?, ?, ?, ?)`,
		id, command, inputFile, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: insert run")
	}

	return &Run{
		ID:        id,
		Command:   command,
		InputFile: inputFile,
		StartedAt: now,
	}, nil
}

// FinishRun records a run's output location and counts.
func (s *Store) FinishRun(ctx context.Context, runID, outputFile string, total, succeeded, failed int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET output_file = ?, total = ?, succeeded = ?, failed = ?, finished_at = ? WHERE id = ?`,
		outputFile, total, succeeded, failed, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "store: finish run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, command, input_file, output_file, total, succeeded, failed, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var output sql.NullString
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Command, &r.InputFile, &output, &r.Total, &r.Succeeded, &r.Failed, &r.StartedAt, &finished); err != nil {
			return nil, eris.Wrap(err, "store: scan run")
		}
		r.OutputFile = output.String
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "store: list runs iterate")
}

// GetCachedCandidates returns unexpired cached candidates for a request key.
// A miss is (nil, false, nil).
func (s *Store) GetCachedCandidates(ctx context.Context, key string) ([]opencage.Candidate, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT response FROM geocode_cache WHERE key = ? AND expires_at > datetime('now')`,
		key,
	)

	var responseJSON string
	err := row.Scan(&responseJSON)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "store: get cached candidates")
	}

	var candidates []opencage.Candidate
	if err := json.Unmarshal([]byte(responseJSON), &candidates); err != nil {
		return nil, false, eris.Wrap(err, "store: unmarshal cached candidates")
	}
	return candidates, true, nil
}

// SetCachedCandidates stores a provider response under a request key,
// replacing any previous entry.
func (s *Store) SetCachedCandidates(ctx context.Context, key string, candidates []opencage.Candidate, ttl time.Duration) error {
	responseJSON, err := json.Marshal(candidates)
	if err != nil {
		return eris.Wrap(err, "store: marshal candidates")
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO geocode_cache (key, response, cached_at, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET response = excluded.response,
		     cached_at = excluded.cached_at, expires_at = excluded.expires_at`,
		key, string(responseJSON), now, now.Add(ttl),
	)
	return eris.Wrap(err, "store: set cached candidates")
}

// DeleteExpiredCache removes cache entries past their TTL.
func (s *Store) DeleteExpiredCache(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM geocode_cache WHERE expires_at <= datetime('now')`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "store: delete expired cache")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "store: rows affected")
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}
