package casewatch

import "context"

// Row holds the visible text of a table row's data cells in document order.
type Row []string

// Page is a loaded case page that can be queried for table rows.
// Queries whose anchor is not on the page return no rows and no error.
type Page interface {
	// QueryPath returns the rows selected by an absolute positional path
	// such as "/html/body/div[3]/div/table/tbody/tr". A step may carry a
	// 1-based index among siblings with the same tag.
	QueryPath(path string) ([]Row, error)

	// QueryMarker returns the rows that follow, as siblings, any row whose
	// first cell has a text node exactly equal to label.
	QueryMarker(label string) ([]Row, error)

	// QueryNthOfClass returns the rows that have data cells in the n-th
	// (1-based, document order) table whose class attribute contains class.
	QueryNthOfClass(class string, n int) ([]Row, error)
}

// Provider starts rendered-page sessions.
// Implementations may use browser automation to run client-side scripts.
type Provider interface {
	// Open starts a session. A session is used for one batch run and
	// must be closed when the run ends.
	Open(ctx context.Context) (Session, error)
}

// Session loads pages one at a time.
type Session interface {
	// Load navigates to the URL, waits for rendering to settle and returns
	// the loaded page.
	Load(ctx context.Context, url string) (Page, error)

	// Close releases the session's resources.
	Close() error
}
