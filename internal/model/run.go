package model

import "time"

// RunStatus tracks a report run's lifecycle.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run records one report generation for a company.
type Run struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	Status    RunStatus `json:"status"`
	Report    string    `json:"report,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuestionOutcome is the per-question audit trail of a run: which source
// finally answered, how many fallback switches happened, and whether the
// final answer passed the quality check.
type QuestionOutcome struct {
	ID          int64     `json:"id,omitempty"`
	RunID       string    `json:"run_id"`
	Title       string    `json:"title"`
	FinalSource string    `json:"final_source"`
	Switches    int       `json:"switches"`
	Trustworthy bool      `json:"trustworthy"`
	Sources     []string  `json:"sources,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
