package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/casewatch"
	"github.com/fwojciec/casewatch/mock"
	cwslog "github.com/fwojciec/casewatch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingProvider_Open(t *testing.T) {
	t.Parallel()

	t.Run("wraps session so loads are logged", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		page := &mock.Page{}
		inner := &mock.Provider{
			OpenFn: func(ctx context.Context) (casewatch.Session, error) {
				return &mock.Session{
					LoadFn: func(ctx context.Context, url string) (casewatch.Page, error) {
						return page, nil
					},
					CloseFn: func() error { return nil },
				}, nil
			},
		}

		provider := cwslog.NewLoggingProvider(inner, debugLogger(&buf))
		session, err := provider.Open(context.Background())
		require.NoError(t, err)

		got, err := session.Load(context.Background(), "https://example.com/case")
		require.NoError(t, err)
		require.NoError(t, session.Close())

		assert.Same(t, page, got)
		output := buf.String()
		assert.Contains(t, output, "session open")
		assert.Contains(t, output, "msg=load")
		assert.Contains(t, output, "url=https://example.com/case")
		assert.Contains(t, output, "duration=")
		assert.Contains(t, output, "session close")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Provider{
			OpenFn: func(ctx context.Context) (casewatch.Session, error) {
				return nil, errors.New("browser not found")
			},
		}

		provider := cwslog.NewLoggingProvider(inner, debugLogger(&buf))
		session, err := provider.Open(context.Background())

		require.Error(t, err)
		assert.Nil(t, session)
		assert.Contains(t, buf.String(), "err=\"browser not found\"")
	})
}

func TestLoggingSession_Load(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.Provider{
		OpenFn: func(ctx context.Context) (casewatch.Session, error) {
			return &mock.Session{
				LoadFn: func(ctx context.Context, url string) (casewatch.Page, error) {
					return nil, errors.New("navigation timeout")
				},
			}, nil
		},
	}

	session, err := cwslog.NewLoggingProvider(inner, debugLogger(&buf)).Open(context.Background())
	require.NoError(t, err)

	_, err = session.Load(context.Background(), "https://example.com/case")

	require.Error(t, err)
	assert.Contains(t, buf.String(), "err=\"navigation timeout\"")
}
