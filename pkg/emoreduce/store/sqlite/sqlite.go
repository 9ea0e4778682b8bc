package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/emoreduce/pkg/emoreduce/internalerr"
	"github.com/cognicore/emoreduce/pkg/emoreduce/report"
	"github.com/cognicore/emoreduce/pkg/emoreduce/store"
)

// Label table stages
const (
	stageSource  = "source"
	stageReduced = "reduced"
)

// pragmas run on open: WAL mode, then foreign keys
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA foreign_keys=ON",
}

// timeLayout is fixed-width so created_at sorts as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrStoreUnavailable, pragma, err)
		}
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	input TEXT NOT NULL,
	output TEXT NOT NULL,
	seed INTEGER NOT NULL,
	rows INTEGER NOT NULL,
	distinct_source INTEGER NOT NULL,
	distinct_reduced INTEGER NOT NULL,
	source_entropy REAL NOT NULL,
	reduced_entropy REAL NOT NULL,
	cardinality_json TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_labels (
	run_id TEXT NOT NULL,
	stage TEXT NOT NULL,
	rank INTEGER NOT NULL,
	label TEXT NOT NULL,
	count INTEGER NOT NULL,
	percent REAL NOT NULL,
	PRIMARY KEY(run_id, stage, label),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or replaces a run and its label tables
func (s *sqliteStore) SaveRun(ctx context.Context, sum report.Summary) error {
	if sum.RunID == "" {
		return fmt.Errorf("%w: run id is empty", internalerr.ErrInvalidInput)
	}
	cardJSON, err := json.Marshal(sum.Cardinality)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_labels WHERE run_id = ?`, sum.RunID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, sum.RunID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (id, created_at, input, output, seed, rows, distinct_source, distinct_reduced,
	source_entropy, reduced_entropy, cardinality_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`,
		sum.RunID,
		sum.CreatedAt.UTC().Format(timeLayout),
		sum.Input,
		sum.Output,
		sum.Seed,
		sum.Rows,
		sum.DistinctSource,
		sum.DistinctReduced,
		sum.SourceEntropy,
		sum.ReducedEntropy,
		string(cardJSON),
	)
	if err != nil {
		return err
	}

	if err := insertLabels(ctx, tx, sum.RunID, stageSource, sum.SourceLabels); err != nil {
		return err
	}
	if err := insertLabels(ctx, tx, sum.RunID, stageReduced, sum.ReducedLabels); err != nil {
		return err
	}

	return tx.Commit()
}

func insertLabels(ctx context.Context, tx *sql.Tx, runID, stage string, labels []report.LabelShare) error {
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO run_labels (run_id, stage, rank, label, count, percent)
VALUES (?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, l := range labels {
		if _, err := stmt.ExecContext(ctx, runID, stage, i, l.Label, l.Count, l.Percent); err != nil {
			return fmt.Errorf("insert %s label %q: %w", stage, l.Label, err)
		}
	}
	return nil
}

// GetRun loads a run summary by id
func (s *sqliteStore) GetRun(ctx context.Context, id string) (report.Summary, error) {
	var (
		sum       report.Summary
		createdAt string
		cardJSON  string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, created_at, input, output, seed, rows, distinct_source, distinct_reduced,
	source_entropy, reduced_entropy, cardinality_json
FROM runs
WHERE id = ?;
`, id).Scan(
		&sum.RunID, &createdAt, &sum.Input, &sum.Output, &sum.Seed, &sum.Rows,
		&sum.DistinctSource, &sum.DistinctReduced, &sum.SourceEntropy, &sum.ReducedEntropy, &cardJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return report.Summary{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return report.Summary{}, err
	}

	if sum.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return report.Summary{}, err
	}
	if err := json.Unmarshal([]byte(cardJSON), &sum.Cardinality); err != nil {
		return report.Summary{}, err
	}
	if sum.SourceLabels, err = s.loadLabels(ctx, id, stageSource); err != nil {
		return report.Summary{}, err
	}
	if sum.ReducedLabels, err = s.loadLabels(ctx, id, stageReduced); err != nil {
		return report.Summary{}, err
	}
	return sum, nil
}

func (s *sqliteStore) loadLabels(ctx context.Context, runID, stage string) ([]report.LabelShare, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT label, count, percent
FROM run_labels
WHERE run_id = ? AND stage = ?
ORDER BY rank;
`, runID, stage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []report.LabelShare
	for rows.Next() {
		var l report.LabelShare
		if err := rows.Scan(&l.Label, &l.Count, &l.Percent); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListRuns returns the newest runs first
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, created_at, input, output, seed, rows
FROM runs
ORDER BY created_at DESC, id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var r store.Run
		var createdAt string
		if err := rows.Scan(&r.ID, &createdAt, &r.Input, &r.Output, &r.Seed, &r.Rows); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
