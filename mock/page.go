package mock

import "github.com/fwojciec/casewatch"

var _ casewatch.Page = (*Page)(nil)

// Page is a mock implementation of casewatch.Page.
type Page struct {
	QueryPathFn       func(path string) ([]casewatch.Row, error)
	QueryMarkerFn     func(label string) ([]casewatch.Row, error)
	QueryNthOfClassFn func(class string, n int) ([]casewatch.Row, error)
}

func (p *Page) QueryPath(path string) ([]casewatch.Row, error) {
	return p.QueryPathFn(path)
}

func (p *Page) QueryMarker(label string) ([]casewatch.Row, error) {
	return p.QueryMarkerFn(label)
}

func (p *Page) QueryNthOfClass(class string, n int) ([]casewatch.Row, error) {
	return p.QueryNthOfClassFn(class, n)
}
