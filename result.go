package casewatch

import (
	"errors"
	"time"
)

// CaseStatus is the outcome of processing one case in a batch.
type CaseStatus string

// CaseStatus constants.
const (
	CaseOK       CaseStatus = "ok"
	CaseNotFound CaseStatus = "not_found"
	CaseFailed   CaseStatus = "failed"
)

// CaseResult reports what happened to one case during a batch run.
type CaseResult struct {
	ID     string
	URL    string
	Status CaseStatus

	// Record is the normalized record. Nil unless Status is CaseOK.
	Record Node

	// Sections holds one result per extractor, including failed ones.
	Sections []SectionResult

	// Hash is the checksum of the stored document.
	Hash string

	Err error
}

// SectionErrors returns the errors of failed sections joined together,
// or nil if every section succeeded.
func (r *CaseResult) SectionErrors() error {
	var errs []error
	for _, s := range r.Sections {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	return errors.Join(errs...)
}

// BatchReport aggregates the results of one batch run.
type BatchReport struct {
	RunID      string
	Trigger    string
	StartedAt  time.Time
	FinishedAt time.Time
	Cases      []CaseResult
}

// Succeeded returns the number of cases whose document was stored.
func (r *BatchReport) Succeeded() int { return r.count(CaseOK) }

// Failed returns the number of cases that failed.
func (r *BatchReport) Failed() int { return r.count(CaseFailed) }

// NotFound returns the number of requested cases missing from the case table.
func (r *BatchReport) NotFound() int { return r.count(CaseNotFound) }

func (r *BatchReport) count(status CaseStatus) int {
	n := 0
	for _, c := range r.Cases {
		if c.Status == status {
			n++
		}
	}
	return n
}
