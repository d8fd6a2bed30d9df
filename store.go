package casewatch

import "context"

// RecordStore persists case documents. Saving a document replaces any
// document previously stored for the same case.
type RecordStore interface {
	SaveDocument(ctx context.Context, doc *Document) error
}
