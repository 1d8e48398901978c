package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/company-report/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	company    TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	report     TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS question_outcomes (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT NOT NULL REFERENCES runs(id),
	title        TEXT NOT NULL,
	final_source TEXT NOT NULL,
	switches     INTEGER NOT NULL DEFAULT 0,
	trustworthy  INTEGER NOT NULL DEFAULT 0,
	sources      TEXT,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_company ON runs(company);
CREATE INDEX IF NOT EXISTS idx_question_outcomes_run_id ON question_outcomes(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, company string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, company, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, company, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{
		ID:        id,
		Company:   company,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, report string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, report = ?, updated_at = ? WHERE id = ?`,
		string(status), report, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: update run")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return eris.Errorf("sqlite: run %s not found", runID)
	}
	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, company, status, COALESCE(report, ''), created_at, updated_at FROM runs WHERE id = ?`,
		runID,
	)
	var r model.Run
	if err := row.Scan(&r.ID, &r.Company, &r.Status, &r.Report, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, eris.Errorf("sqlite: run %s not found", runID)
		}
		return nil, eris.Wrap(err, "sqlite: get run")
	}
	return &r, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, company string, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, company, status, COALESCE(report, ''), created_at, updated_at FROM runs`
	args := []any{}
	if company != "" {
		query += ` WHERE company = ?`
		args = append(args, company)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		if err := rows.Scan(&r.ID, &r.Company, &r.Status, &r.Report, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func (s *SQLiteStore) RecordOutcome(ctx context.Context, outcome model.QuestionOutcome) error {
	sourcesJSON, err := json.Marshal(outcome.Sources)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal sources")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO question_outcomes (run_id, title, final_source, switches, trustworthy, sources, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		outcome.RunID, outcome.Title, outcome.FinalSource, outcome.Switches,
		boolToInt(outcome.Trustworthy), string(sourcesJSON), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: insert outcome")
}

func (s *SQLiteStore) ListOutcomes(ctx context.Context, runID string) ([]model.QuestionOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, title, final_source, switches, trustworthy, COALESCE(sources, '[]'), created_at
		 FROM question_outcomes WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list outcomes")
	}
	defer rows.Close()

	var outcomes []model.QuestionOutcome
	for rows.Next() {
		var o model.QuestionOutcome
		var trustworthy int
		var sourcesJSON string
		if err := rows.Scan(&o.ID, &o.RunID, &o.Title, &o.FinalSource, &o.Switches, &trustworthy, &sourcesJSON, &o.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan outcome")
		}
		o.Trustworthy = trustworthy != 0
		if err := json.Unmarshal([]byte(sourcesJSON), &o.Sources); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal sources")
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, eris.Wrap(rows.Err(), "sqlite: iterate outcomes")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
