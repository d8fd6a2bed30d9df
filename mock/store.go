package mock

import (
	"context"

	"github.com/fwojciec/casewatch"
)

var _ casewatch.RecordStore = (*RecordStore)(nil)

// RecordStore is a mock implementation of casewatch.RecordStore.
type RecordStore struct {
	SaveDocumentFn func(ctx context.Context, doc *casewatch.Document) error
}

func (s *RecordStore) SaveDocument(ctx context.Context, doc *casewatch.Document) error {
	return s.SaveDocumentFn(ctx, doc)
}
