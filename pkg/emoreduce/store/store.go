package store

import (
	"context"
	"time"

	"github.com/cognicore/emoreduce/pkg/emoreduce/report"
)

// Store keeps a ledger of reduction runs
type Store interface {
	Close() error

	// SaveRun records a run summary. Saving the same run id twice replaces it.
	SaveRun(ctx context.Context, s report.Summary) error
	// GetRun returns a stored summary or internalerr.ErrNotFound.
	GetRun(ctx context.Context, id string) (report.Summary, error)
	// ListRuns returns the newest runs first.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// Run is the ledger row of a run, without its label tables
type Run struct {
	ID        string
	CreatedAt time.Time
	Input     string
	Output    string
	Seed      int64
	Rows      int64
}
