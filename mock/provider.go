package mock

import (
	"context"

	"github.com/fwojciec/casewatch"
)

// Compile-time interface verification.
var (
	_ casewatch.Provider = (*Provider)(nil)
	_ casewatch.Session  = (*Session)(nil)
)

// Provider is a mock implementation of casewatch.Provider.
type Provider struct {
	OpenFn func(ctx context.Context) (casewatch.Session, error)
}

func (p *Provider) Open(ctx context.Context) (casewatch.Session, error) {
	return p.OpenFn(ctx)
}

// Session is a mock implementation of casewatch.Session.
type Session struct {
	LoadFn  func(ctx context.Context, url string) (casewatch.Page, error)
	CloseFn func() error
}

func (s *Session) Load(ctx context.Context, url string) (casewatch.Page, error) {
	return s.LoadFn(ctx, url)
}

func (s *Session) Close() error {
	return s.CloseFn()
}
