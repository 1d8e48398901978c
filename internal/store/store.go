// Package store persists report runs and their per-question outcomes for
// auditing which source answered each question and how many fallback
// switches it took.
package store

import (
	"context"

	"github.com/sells-group/company-report/internal/model"
)

// Store defines the persistence interface for report runs.
type Store interface {
	CreateRun(ctx context.Context, company string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, report string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, company string, limit int) ([]model.Run, error)

	RecordOutcome(ctx context.Context, outcome model.QuestionOutcome) error
	ListOutcomes(ctx context.Context, runID string) ([]model.QuestionOutcome, error)

	Migrate(ctx context.Context) error
	Close() error
}
