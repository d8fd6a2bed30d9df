// Package batch runs the extraction of every tracked case.
// It opens one rendered-page session per run, loads each case page in turn,
// extracts and normalizes its record, and stores one document per case.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/casewatch"
	"github.com/fwojciec/casewatch/extract"
	"golang.org/x/time/rate"
)

// Runner processes batches of cases. Cases within a batch are processed
// sequentially; a failure of one case never stops the others.
type Runner struct {
	Cases    casewatch.CaseTable
	Provider casewatch.Provider
	Store    casewatch.RecordStore

	// Ledger records runs and case outcomes. Optional.
	Ledger casewatch.RunLedger

	// Limiter paces page loads. Optional.
	Limiter *rate.Limiter

	// Logger receives progress and error lines. Defaults to a discarding logger.
	Logger *slog.Logger

	// Stdout receives the JSON of every completed document. Optional.
	Stdout io.Writer
}

// Run processes the cases named by ids, or every case in table order when
// ids is empty. trigger names what started the run (e.g. "manual", "10:30").
//
// Run returns an error only when the batch as a whole cannot proceed: the
// provider session cannot be opened, or ctx is done. Per-case failures are
// reported in the returned BatchReport, which is never nil.
func (r *Runner) Run(ctx context.Context, trigger string, ids ...string) (*casewatch.BatchReport, error) {
	logger := r.logger()
	report := &casewatch.BatchReport{Trigger: trigger, StartedAt: time.Now()}
	run := r.createRun(ctx, trigger)
	if run != nil {
		report.RunID = run.ID
	}

	session, err := r.Provider.Open(ctx)
	if err != nil {
		err = fmt.Errorf("opening session: %w", err)
		logger.Error("batch aborted", "trigger", trigger, "err", err)
		report.FinishedAt = time.Now()
		r.finishRun(ctx, run, report, err)
		return report, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("closing session", "err", err)
		}
	}()

	targets := ids
	if len(targets) == 0 {
		targets = r.Cases.IDs()
	}

	var runErr error
	for _, id := range targets {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		result := r.processCase(ctx, session, id)
		report.Cases = append(report.Cases, result)
		r.recordCase(ctx, report.RunID, &result)
	}

	report.FinishedAt = time.Now()
	r.finishRun(ctx, run, report, runErr)

	logger.Info("batch finished",
		"trigger", trigger,
		"succeeded", report.Succeeded(),
		"failed", report.Failed(),
		"not_found", report.NotFound(),
		"duration", report.FinishedAt.Sub(report.StartedAt),
		"err", runErr,
	)
	return report, runErr
}

// processCase handles one case. Errors and panics are captured in the result.
func (r *Runner) processCase(ctx context.Context, session casewatch.Session, id string) (result casewatch.CaseResult) {
	logger := r.logger()
	result.ID = id

	url, err := r.Cases.Lookup(id)
	if err != nil {
		logger.Warn("case not found", "case", id)
		result.Status = casewatch.CaseNotFound
		result.Err = err
		return result
	}
	result.URL = url

	defer func() {
		if p := recover(); p != nil {
			result.Status = casewatch.CaseFailed
			result.Record = nil
			result.Err = casewatch.Errorf(casewatch.EINTERNAL, "case %s panicked: %v", id, p)
			logger.Error("case failed", "case", id, "err", result.Err)
		}
	}()

	logger.Info("fetching case", "case", id, "url", url)
	if err := r.fetchCase(ctx, session, &result); err != nil {
		result.Status = casewatch.CaseFailed
		result.Record = nil
		result.Err = err
		logger.Error("case failed", "case", id, "err", err)
		return result
	}

	result.Status = casewatch.CaseOK
	return result
}

func (r *Runner) fetchCase(ctx context.Context, session casewatch.Session, result *casewatch.CaseResult) error {
	logger := r.logger()

	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx); err != nil {
			return err
		}
	}

	page, err := session.Load(ctx, result.URL)
	if err != nil {
		return fmt.Errorf("loading page: %w", err)
	}

	record, sections := extract.Record(page)
	result.Sections = sections
	for _, s := range sections {
		if s.Err != nil {
			logger.Warn("section failed", "case", result.ID, "section", s.Section, "err", s.Err)
		}
	}

	doc := &casewatch.Document{CaseID: result.ID, Record: casewatch.Normalize(record)}

	var buf bytes.Buffer
	if err := casewatch.EncodeDocument(&buf, doc); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if r.Stdout != nil {
		_, _ = r.Stdout.Write(buf.Bytes())
	}

	if err := r.Store.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	result.Record = doc.Record
	result.Hash = ComputeHash(buf.Bytes())
	return nil
}

// createRun opens a ledger entry. Ledger failures are logged and ignored.
func (r *Runner) createRun(ctx context.Context, trigger string) *casewatch.Run {
	if r.Ledger == nil {
		return nil
	}
	run := &casewatch.Run{Trigger: trigger}
	if err := r.Ledger.CreateRun(ctx, run); err != nil {
		r.logger().Warn("ledger create run", "err", err)
		return nil
	}
	return run
}

func (r *Runner) finishRun(ctx context.Context, run *casewatch.Run, report *casewatch.BatchReport, runErr error) {
	if run == nil {
		return
	}

	run.Status = casewatch.RunDone
	if runErr != nil {
		run.Status = casewatch.RunFailed
		run.Error = runErr.Error()
	}
	run.Succeeded = report.Succeeded()
	run.Failed = report.Failed()
	run.NotFound = report.NotFound()
	run.FinishedAt = report.FinishedAt

	// The run must be closed out even when ctx was canceled mid-batch.
	if err := r.Ledger.FinishRun(context.WithoutCancel(ctx), run); err != nil {
		r.logger().Warn("ledger finish run", "run", run.ID, "err", err)
	}
}

func (r *Runner) recordCase(ctx context.Context, runID string, result *casewatch.CaseResult) {
	if r.Ledger == nil || runID == "" {
		return
	}

	outcome := &casewatch.CaseOutcome{
		RunID:       runID,
		CaseID:      result.ID,
		URL:         result.URL,
		Status:      result.Status,
		ContentHash: result.Hash,
	}
	if result.Err != nil {
		outcome.Error = result.Err.Error()
	}
	if err := result.SectionErrors(); err != nil {
		outcome.SectionErrors = err.Error()
	}

	if err := r.Ledger.RecordCase(context.WithoutCancel(ctx), outcome); err != nil {
		r.logger().Warn("ledger record case", "case", result.ID, "err", err)
	}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// ComputeHash returns the xxhash checksum of an encoded document.
func ComputeHash(b []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}
