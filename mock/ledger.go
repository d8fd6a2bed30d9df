package mock

import (
	"context"

	"github.com/fwojciec/casewatch"
)

var _ casewatch.RunLedger = (*RunLedger)(nil)

// RunLedger is a mock implementation of casewatch.RunLedger.
type RunLedger struct {
	CreateRunFn        func(ctx context.Context, run *casewatch.Run) error
	FinishRunFn        func(ctx context.Context, run *casewatch.Run) error
	RecordCaseFn       func(ctx context.Context, outcome *casewatch.CaseOutcome) error
	FindRunsFn         func(ctx context.Context, filter casewatch.RunFilter) ([]*casewatch.Run, error)
	FindCaseOutcomesFn func(ctx context.Context, filter casewatch.CaseOutcomeFilter) ([]*casewatch.CaseOutcome, error)
}

func (l *RunLedger) CreateRun(ctx context.Context, run *casewatch.Run) error {
	return l.CreateRunFn(ctx, run)
}

func (l *RunLedger) FinishRun(ctx context.Context, run *casewatch.Run) error {
	return l.FinishRunFn(ctx, run)
}

func (l *RunLedger) RecordCase(ctx context.Context, outcome *casewatch.CaseOutcome) error {
	return l.RecordCaseFn(ctx, outcome)
}

func (l *RunLedger) FindRuns(ctx context.Context, filter casewatch.RunFilter) ([]*casewatch.Run, error) {
	return l.FindRunsFn(ctx, filter)
}

func (l *RunLedger) FindCaseOutcomes(ctx context.Context, filter casewatch.CaseOutcomeFilter) ([]*casewatch.CaseOutcome, error) {
	return l.FindCaseOutcomesFn(ctx, filter)
}
