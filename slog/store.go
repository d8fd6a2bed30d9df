package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/casewatch"
)

// Ensure LoggingStore implements casewatch.RecordStore.
var _ casewatch.RecordStore = (*LoggingStore)(nil)

// LoggingStore wraps a RecordStore with logging.
type LoggingStore struct {
	next   casewatch.RecordStore
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next casewatch.RecordStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// SaveDocument delegates to the wrapped store and logs the operation.
func (s *LoggingStore) SaveDocument(ctx context.Context, doc *casewatch.Document) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("save",
			"case", doc.CaseID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveDocument(ctx, doc)
}
