// Package slog provides logging decorators for casewatch services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/casewatch"
)

// Compile-time interface verification.
var (
	_ casewatch.Provider = (*LoggingProvider)(nil)
	_ casewatch.Session  = (*LoggingSession)(nil)
)

// LoggingProvider wraps a Provider so that sessions and page loads are logged.
type LoggingProvider struct {
	next   casewatch.Provider
	logger *slog.Logger
}

// NewLoggingProvider creates a new LoggingProvider.
func NewLoggingProvider(next casewatch.Provider, logger *slog.Logger) *LoggingProvider {
	return &LoggingProvider{next: next, logger: logger}
}

// Open logs the session start and wraps the returned session.
func (p *LoggingProvider) Open(ctx context.Context) (session casewatch.Session, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("session open",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	session, err = p.next.Open(ctx)
	if err != nil {
		return nil, err
	}
	return &LoggingSession{next: session, logger: p.logger}, nil
}

// LoggingSession wraps a Session with load logging.
type LoggingSession struct {
	next   casewatch.Session
	logger *slog.Logger
}

// Load logs the URL being loaded and delegates to the wrapped session.
func (s *LoggingSession) Load(ctx context.Context, url string) (page casewatch.Page, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("load",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx, url)
}

// Close logs the session shutdown.
func (s *LoggingSession) Close() (err error) {
	defer func() {
		s.logger.Debug("session close", "err", err)
	}()
	return s.next.Close()
}
