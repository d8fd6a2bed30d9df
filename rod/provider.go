// Package rod provides rendered case pages using Chrome browser automation.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/casewatch"
	"github.com/fwojciec/casewatch/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Compile-time interface verification.
var (
	_ casewatch.Provider = (*Provider)(nil)
	_ casewatch.Session  = (*Session)(nil)
)

// DefaultSettleDelay is how long a page is given to finish client-side
// rendering after the load event.
const DefaultSettleDelay = 3 * time.Second

// Provider launches a headless Chrome browser for each session.
type Provider struct {
	settle  time.Duration
	binPath string
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithSettleDelay sets the delay between the load event and reading the page.
// Defaults to DefaultSettleDelay if not specified.
func WithSettleDelay(d time.Duration) ProviderOption {
	return func(p *Provider) {
		p.settle = d
	}
}

// WithBrowserPath sets the Chrome/Chromium executable. By default rod finds
// an installed browser or downloads one.
func WithBrowserPath(path string) ProviderOption {
	return func(p *Provider) {
		p.binPath = path
	}
}

// NewProvider creates a new Provider.
func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{settle: DefaultSettleDelay}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Open launches a browser and opens the single tab the session navigates.
// Returns EUNAVAILABLE if Chrome/Chromium cannot be found or launched.
func (p *Provider) Open(ctx context.Context) (casewatch.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := launcher.New().
		Set("disable-dev-shm-usage").
		NoSandbox(true).
		Leakless(true).
		Headless(true)
	if p.binPath != "" {
		l = l.Bin(p.binPath)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, casewatch.Errorf(casewatch.EUNAVAILABLE, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, casewatch.Errorf(casewatch.EUNAVAILABLE, "connecting to browser: %v", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, casewatch.Errorf(casewatch.EUNAVAILABLE, "opening tab: %v", err)
	}

	return &Session{
		browser:  browser,
		launcher: l,
		page:     page,
		settle:   p.settle,
	}, nil
}

// Session drives one browser tab. Session is not safe for concurrent use;
// pages are loaded one after another.
type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	settle   time.Duration
	closed   atomic.Bool
}

// Load navigates the tab to url, waits for the load event and the settle
// delay, and returns the rendered document.
func (s *Session) Load(ctx context.Context, url string) (casewatch.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.closed.Load() {
		return nil, casewatch.Errorf(casewatch.EUNAVAILABLE, "session closed")
	}

	page := s.page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.settle):
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}

	return goquery.NewPage(html)
}

// Close shuts down the browser. Close is safe to call multiple times.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := s.browser.Close()
	s.launcher.Kill()
	return err
}
