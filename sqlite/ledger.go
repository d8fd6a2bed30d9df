package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/casewatch"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ casewatch.RunLedger = (*RunLedger)(nil)

// RunLedger implements casewatch.RunLedger using SQLite.
type RunLedger struct {
	db *DB
}

// NewRunLedger creates a new RunLedger.
func NewRunLedger(db *DB) *RunLedger {
	return &RunLedger{db: db}
}

// CreateRun stores a new running run.
func (l *RunLedger) CreateRun(ctx context.Context, run *casewatch.Run) error {
	if run.Trigger == "" {
		return casewatch.Errorf(casewatch.EINVALID, "run trigger required")
	}

	run.ID = uuid.New().String()
	run.Status = casewatch.RunRunning
	run.StartedAt = time.Now().UTC()

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO runs (id, trigger_name, status, started_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.Trigger, string(run.Status), formatTime(run.StartedAt))

	return err
}

// FinishRun stores the final status and counters of a run.
func (l *RunLedger) FinishRun(ctx context.Context, run *casewatch.Run) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	res, err := l.db.ExecContext(ctx, `
		UPDATE runs
		SET status = ?, error = ?, succeeded = ?, failed = ?, not_found = ?, finished_at = ?
		WHERE id = ?
	`, string(run.Status), run.Error, run.Succeeded, run.Failed, run.NotFound,
		formatTime(run.FinishedAt), run.ID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return casewatch.Errorf(casewatch.ENOTFOUND, "run not found")
	}
	return nil
}

// RecordCase stores the outcome of one case.
func (l *RunLedger) RecordCase(ctx context.Context, outcome *casewatch.CaseOutcome) error {
	if err := outcome.Validate(); err != nil {
		return err
	}
	if outcome.FetchedAt.IsZero() {
		outcome.FetchedAt = time.Now().UTC()
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO case_results (run_id, case_id, url, status, error, section_errors, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, outcome.RunID, outcome.CaseID, outcome.URL, string(outcome.Status), outcome.Error,
		outcome.SectionErrors, outcome.ContentHash, formatTime(outcome.FetchedAt))
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY") {
		return casewatch.Errorf(casewatch.ENOTFOUND, "run not found")
	}
	return err
}

// FindRuns retrieves runs matching the filter, newest first.
func (l *RunLedger) FindRuns(ctx context.Context, filter casewatch.RunFilter) ([]*casewatch.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, trigger_name, status, error, succeeded, failed, not_found, started_at, finished_at
		FROM runs WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendLimit(&query, &args, filter.Limit)

	rows, err := l.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*casewatch.Run
	for rows.Next() {
		var run casewatch.Run
		var startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &run.Trigger, &run.Status, &run.Error,
			&run.Succeeded, &run.Failed, &run.NotFound, &startedAt, &finishedAt); err != nil {
			return nil, err
		}

		if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if finishedAt != "" {
			if run.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
				return nil, err
			}
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// FindCaseOutcomes retrieves case outcomes matching the filter, newest first.
func (l *RunLedger) FindCaseOutcomes(ctx context.Context, filter casewatch.CaseOutcomeFilter) ([]*casewatch.CaseOutcome, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT run_id, case_id, url, status, error, section_errors, content_hash, fetched_at
		FROM case_results WHERE 1=1`)

	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.CaseID != nil {
		query.WriteString(" AND case_id = ?")
		args = append(args, *filter.CaseID)
	}

	query.WriteString(" ORDER BY fetched_at DESC, id DESC")
	appendLimit(&query, &args, filter.Limit)

	rows, err := l.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []*casewatch.CaseOutcome
	for rows.Next() {
		var o casewatch.CaseOutcome
		var fetchedAt string

		if err := rows.Scan(&o.RunID, &o.CaseID, &o.URL, &o.Status, &o.Error,
			&o.SectionErrors, &o.ContentHash, &fetchedAt); err != nil {
			return nil, err
		}

		if o.FetchedAt, err = parseTime(fetchedAt, "fetched_at"); err != nil {
			return nil, err
		}

		outcomes = append(outcomes, &o)
	}

	return outcomes, rows.Err()
}
