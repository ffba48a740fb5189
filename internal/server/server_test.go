package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/forcegraph/pkg/geom"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/scheduler"
)

func newTestServer(t *testing.T) (*Server, *scheduler.Scheduler) {
	t.Helper()
	g, err := graph.Tree(graph.NewEmojiPool(), 2, 3, geom.DefaultShape())
	require.NoError(t, err)

	logger := log.New(io.Discard)
	sched, err := scheduler.New(layout.NewSnapshot(g, nil), scheduler.Options{Seed: 1, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() {
		sched.Close()
		sched.Wait()
	})
	return New(sched, Options{Logger: logger}), sched
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, r))
	return rec
}

func TestHealth(t *testing.T) {
	srv, sched := newTestServer(t)

	rec := do(t, srv.Handler(), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, srv.ID(), resp.Session)
	assert.Equal(t, sched.ID(), resp.Scheduler)
}

func TestSnapshot(t *testing.T) {
	srv, sched := newTestServer(t)

	rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/snapshot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var first SnapshotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.Equal(t, uint64(0), first.Seq)
	assert.Len(t, first.Layout.Nodes, 4)
	assert.Len(t, first.Layout.Edges, 6)

	require.True(t, sched.Tick(context.Background()))
	sched.Wait()

	rec = do(t, srv.Handler(), http.MethodGet, "/api/v1/snapshot", "")
	var second SnapshotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, uint64(1), second.Seq)
	assert.Equal(t, layout.DefaultBatch, second.Layout.Stats.Passes)
	assert.Equal(t, uint64(1), second.Counters.Publishes)
	assert.NotEqual(t, first.Layout.Nodes, second.Layout.Nodes)
}

func TestSnapshotSVG(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/snapshot.svg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
	assert.Contains(t, rec.Body.String(), "<circle")
}

func TestReseed(t *testing.T) {
	srv, sched := newTestServer(t)
	before := sched.Latest()

	rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/reseed", `{"seed": 5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReseedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(1), resp.Epoch)
	assert.Greater(t, resp.Seq, before.Seq)
	assert.Same(t, before.Snapshot.Graph(), sched.Latest().Snapshot.Graph())

	// Empty body picks a random start.
	rec = do(t, srv.Handler(), http.MethodPost, "/api/v1/reseed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(2), resp.Epoch)
}

func TestReseedWhileRunning(t *testing.T) {
	srv, sched := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sched.Run(ctx) }()

	var last uint64
	for i := 1; i <= 5; i++ {
		rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/reseed", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp ReseedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, uint64(i), resp.Epoch)
		assert.Greater(t, resp.Seq, last)
		last = resp.Seq
		time.Sleep(2 * time.Millisecond)
	}
}

func TestReseedErrors(t *testing.T) {
	srv, sched := newTestServer(t)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/reseed", `{"seed":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_INPUT", body["code"])
	assert.Equal(t, rec.Header().Get(RequestIDHeader), body["request_id"])

	rec = do(t, srv.Handler(), http.MethodGet, "/api/v1/reseed", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	sched.Close()
	rec = do(t, srv.Handler(), http.MethodPost, "/api/v1/reseed", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv.Handler(), http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "forcegraph_")
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
	codes  []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
	h.codes = append(h.codes, status)
}

func TestInstrumentUsesRoutePattern(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	srv, _ := newTestServer(t)
	do(t, srv.Handler(), http.MethodGet, "/api/v1/snapshot", "")
	do(t, srv.Handler(), http.MethodGet, "/nope", "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []string{"/api/v1/snapshot", "unknown"}, hooks.routes)
	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, hooks.codes)
}

func TestListenAndServeShutdown(t *testing.T) {
	g, err := graph.Tree(graph.NewEmojiPool(), 1, 0, geom.DefaultShape())
	require.NoError(t, err)
	sched, err := scheduler.New(layout.NewSnapshot(g, nil), scheduler.Options{Logger: log.New(io.Discard)})
	require.NoError(t, err)
	defer sched.Close()

	srv := New(sched, Options{Addr: "127.0.0.1:0", Logger: log.New(io.Discard)})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
