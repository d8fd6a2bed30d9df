package casewatch

import (
	"context"
	"time"
)

// RunStatus is the final state of a batch run.
type RunStatus string

// RunStatus constants.
const (
	RunRunning RunStatus = "running"
	RunDone    RunStatus = "done"
	RunFailed  RunStatus = "failed"
)

// Run is a ledger entry describing one batch run.
type Run struct {
	ID         string    `json:"id"`
	Trigger    string    `json:"trigger"`
	Status     RunStatus `json:"status"`
	Error      string    `json:"error"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	NotFound   int       `json:"notFound"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// CaseOutcome is a ledger entry describing one case within a run.
type CaseOutcome struct {
	RunID         string     `json:"runId"`
	CaseID        string     `json:"caseId"`
	URL           string     `json:"url"`
	Status        CaseStatus `json:"status"`
	Error         string     `json:"error"`
	SectionErrors string     `json:"sectionErrors"`
	ContentHash   string     `json:"contentHash"`
	FetchedAt     time.Time  `json:"fetchedAt"`
}

// Validate returns an error if the outcome contains invalid fields.
func (o *CaseOutcome) Validate() error {
	if o.RunID == "" {
		return Errorf(EINVALID, "case outcome run ID required")
	}
	if o.CaseID == "" {
		return Errorf(EINVALID, "case outcome case ID required")
	}
	return nil
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID    *string `json:"id"`
	Limit int     `json:"limit"`
}

// CaseOutcomeFilter represents a filter for FindCaseOutcomes.
type CaseOutcomeFilter struct {
	RunID  *string `json:"runId"`
	CaseID *string `json:"caseId"`
	Limit  int     `json:"limit"`
}

// RunLedger records the history of batch runs. It is write-mostly: a run
// never reads the ledger to decide what to fetch.
type RunLedger interface {
	// CreateRun stores a new run and assigns its ID and StartedAt.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun stores the final status and counters of a run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, run *Run) error

	// RecordCase stores the outcome of one case.
	RecordCase(ctx context.Context, outcome *CaseOutcome) error

	// FindRuns returns runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindCaseOutcomes returns case outcomes matching the filter, newest first.
	FindCaseOutcomes(ctx context.Context, filter CaseOutcomeFilter) ([]*CaseOutcome, error)
}
