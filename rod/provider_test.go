//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/casewatch"
	"github.com/fwojciec/casewatch/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Load_ReturnsRenderedPage(t *testing.T) {
	t.Parallel()

	// Serve a case page whose status table is filled in by JavaScript
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<body>
<table class="table table-bordered"><tbody><tr><td>दर्ता नँ .</td></tr></tbody></table>
<table class="table table-bordered"><tbody id="status"><tr><td>मिती</td><td>विवरण</td><td>स्थिती</td></tr></tbody></table>
<script>
document.getElementById('status').insertAdjacentHTML('beforeend',
  '<tr><td>2080-01-01</td><td>दर्ता</td><td>चालु</td></tr>');
</script>
</body>
</html>`))
	}))
	defer srv.Close()

	provider := rod.NewProvider(rod.WithSettleDelay(100 * time.Millisecond))
	session, err := provider.Open(context.Background())
	require.NoError(t, err)
	defer session.Close()

	page, err := session.Load(context.Background(), srv.URL)
	require.NoError(t, err)

	rows, err := page.QueryNthOfClass("table-bordered", 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, casewatch.Row{"2080-01-01", "दर्ता", "चालु"}, rows[1])
}

func TestSession_Load_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {}
	}))
	defer srv.Close()

	provider := rod.NewProvider()
	session, err := provider.Open(context.Background())
	require.NoError(t, err)
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = session.Load(ctx, srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSession_Close_Idempotent(t *testing.T) {
	t.Parallel()

	provider := rod.NewProvider()
	session, err := provider.Open(context.Background())
	require.NoError(t, err)

	require.NoError(t, session.Close())
	require.NoError(t, session.Close())

	_, err = session.Load(context.Background(), "about:blank")
	assert.Equal(t, casewatch.EUNAVAILABLE, casewatch.ErrorCode(err))
}
