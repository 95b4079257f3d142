package metrics

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandler_Healthz(t *testing.T) {
	t.Parallel()

	srv := NewServer(discardLogger(), "", New().Registry())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestHandler_Metrics(t *testing.T) {
	t.Parallel()

	m := New()
	m.RecordRender(1)
	srv := NewServer(discardLogger(), "", m.Registry())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "podtree_renders_total 1")
	require.Contains(t, body, "podtree_unrecognized_container_states_total 1")
}

func TestHandler_UnknownRoute(t *testing.T) {
	t.Parallel()

	srv := NewServer(discardLogger(), "", New().Registry())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_StartAndShutdown(t *testing.T) {
	t.Parallel()

	srv := NewServer(discardLogger(), "127.0.0.1:0", New().Registry())
	require.NoError(t, srv.Start(t.Context()))

	select {
	case <-srv.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("server never became ready")
	}

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, "ok", strings.TrimSpace(string(body)))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	require.NoError(t, srv.Shutdown(ctx), "second shutdown is a no-op")
}

func TestServer_StartAfterShutdownIsSkipped(t *testing.T) {
	t.Parallel()

	srv := NewServer(discardLogger(), "127.0.0.1:0", New().Registry())
	require.NoError(t, srv.Shutdown(t.Context()))
	require.NoError(t, srv.Start(t.Context()))
	require.Equal(t, "127.0.0.1:0", srv.Addr())
}

func TestServer_StartBadAddr(t *testing.T) {
	t.Parallel()

	srv := NewServer(discardLogger(), "not-an-addr", New().Registry())
	require.Error(t, srv.Start(t.Context()))
}
