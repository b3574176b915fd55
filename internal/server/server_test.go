package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/faucetdb/typegen/internal/config"
	"github.com/faucetdb/typegen/internal/connector"
	"github.com/faucetdb/typegen/internal/connector/sqlite"
	"github.com/faucetdb/typegen/internal/model"
	"github.com/faucetdb/typegen/internal/service"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// testEnv holds all the shared state for server tests.
type testEnv struct {
	server   *Server
	store    *config.Store
	registry *connector.Registry
}

// newTestEnv creates a fresh test environment with an in-memory config store
// and a fully wired Server. mutate, when given, adjusts the default config.
func newTestEnv(t *testing.T, mutate ...func(*Config)) *testEnv {
	t.Helper()

	store, err := config.NewStore("") // in-memory SQLite
	if err != nil {
		t.Fatalf("config.NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	registry := connector.NewRegistry()
	registry.RegisterDriver("sqlite", sqlite.New)
	t.Cleanup(registry.CloseAll)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := DefaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	srv := New(cfg, service.NewGenerator(store, registry, logger), registry, logger)

	return &testEnv{server: srv, store: store, registry: registry}
}

// seedSource stores a sqlite source with a users table.
func (e *testEnv) seedSource(t *testing.T, name string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".db")
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.MustExec(`CREATE TABLE users (id integer NOT NULL, email text NOT NULL)`)
	db.Close()

	if err := e.store.CreateSource(context.Background(), &model.SourceConfig{Name: name, Driver: "sqlite", DSN: path}); err != nil {
		t.Fatalf("seedSource: %v", err)
	}
}

// do executes an HTTP request against the test server and returns the recorder.
// headers is an optional map of header key-value pairs.
func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rr.Code, want, rr.Body.String())
	}
}

func assertContentType(t *testing.T, rr *httptest.ResponseRecorder, want string) {
	t.Helper()
	got := rr.Header().Get("Content-Type")
	if got != want {
		t.Errorf("Content-Type = %q, want %q", got, want)
	}
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decodeJSON: %v; body = %s", err, rr.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Health check tests
// ---------------------------------------------------------------------------

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/healthz", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	assertContentType(t, rr, "application/json")

	var resp map[string]string
	decodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Errorf("status = %q, want %q", resp["status"], "ok")
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestReadyz(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/readyz", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var resp map[string]interface{}
	decodeJSON(t, rr, &resp)
	// With no connected sources, checks should be an empty map.
	checks, ok := resp["checks"].(map[string]interface{})
	if !ok {
		t.Fatal("expected checks to be a map")
	}
	if len(checks) != 0 {
		t.Errorf("expected 0 checks with no connectors, got %d", len(checks))
	}
}

func TestReadyzAfterCatalogGeneration(t *testing.T) {
	env := newTestEnv(t)
	env.seedSource(t, "crm")

	rr := env.do(t, "GET", "/api/v1/source/crm/generate?format=json", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	rr = env.do(t, "GET", "/readyz", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	var resp struct {
		Checks map[string]string `json:"checks"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Checks["crm"] != "ok" {
		t.Errorf("checks = %v, want crm ok", resp.Checks)
	}
}

// ---------------------------------------------------------------------------
// Generation routes
// ---------------------------------------------------------------------------

func TestGenerateRoute(t *testing.T) {
	env := newTestEnv(t)

	ddl := "CREATE TABLE comments (id integer NOT NULL, body text, post_id integer);"
	rr := env.do(t, "POST", "/api/v1/generate?format=graphql&objects_only", strings.NewReader(ddl), map[string]string{
		"Content-Type": "text/plain",
	})
	assertStatus(t, rr, http.StatusOK)
	assertContentType(t, rr, "application/json")

	var resp struct {
		Resource []struct {
			Name    string `json:"name"`
			Content string `json:"content"`
		} `json:"resource"`
	}
	decodeJSON(t, rr, &resp)
	if len(resp.Resource) != 1 || resp.Resource[0].Name != "comment.graphql" {
		t.Fatalf("resource = %+v", resp.Resource)
	}
	if !strings.Contains(resp.Resource[0].Content, `post: Post @inferred(column: "post_id")`) {
		t.Errorf("content = %s", resp.Resource[0].Content)
	}
}

func TestGenerateBodyTooLarge(t *testing.T) {
	env := newTestEnv(t, func(c *Config) { c.MaxBodySize = 16 })

	rr := env.do(t, "POST", "/api/v1/generate", strings.NewReader(strings.Repeat("x", 64)), nil)
	assertStatus(t, rr, http.StatusRequestEntityTooLarge)
}

func TestListSourcesRoute(t *testing.T) {
	env := newTestEnv(t)
	env.seedSource(t, "crm")

	rr := env.do(t, "GET", "/api/v1/source", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	if strings.Contains(rr.Body.String(), ".db") {
		t.Errorf("source listing leaks the DSN: %s", rr.Body.String())
	}
}

func TestMCPMount(t *testing.T) {
	called := false
	env := newTestEnv(t, func(c *Config) {
		c.MCPHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusAccepted)
		})
	})

	rr := env.do(t, "POST", "/mcp", strings.NewReader(`{}`), nil)
	assertStatus(t, rr, http.StatusAccepted)
	if !called {
		t.Error("expected the MCP handler to be called")
	}
}

func TestMCPNotMountedByDefault(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "POST", "/mcp", strings.NewReader(`{}`), nil)
	assertStatus(t, rr, http.StatusNotFound)
}

// ---------------------------------------------------------------------------
// Errors, CORS, routing
// ---------------------------------------------------------------------------

func TestErrorResponseFormat(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/api/v1/source/missing/generate", nil, nil)
	assertStatus(t, rr, http.StatusNotFound)

	var errResp model.ErrorResponse
	decodeJSON(t, rr, &errResp)
	if errResp.Error.Code != 404 {
		t.Errorf("error.code = %d, want 404", errResp.Error.Code)
	}
	if errResp.Error.Message == "" {
		t.Error("expected non-empty error.message")
	}
}

func TestNotFoundRoute(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/nope", nil, nil)
	assertStatus(t, rr, http.StatusNotFound)
	assertContentType(t, rr, "application/json")
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "PATCH", "/healthz", nil, nil)
	assertStatus(t, rr, http.StatusMethodNotAllowed)

	var errResp model.ErrorResponse
	decodeJSON(t, rr, &errResp)
	if errResp.Error.Code != http.StatusMethodNotAllowed {
		t.Errorf("error.code = %d", errResp.Error.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "OPTIONS", "/api/v1/generate", nil, map[string]string{
		"Origin":                         "http://localhost:3000",
		"Access-Control-Request-Method":  "POST",
		"Access-Control-Request-Headers": "Content-Type",
	})

	if rr.Code < 200 || rr.Code >= 300 {
		t.Errorf("CORS preflight status = %d, want 2xx", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected Access-Control-Allow-Origin header")
	}
}

func TestRateLimited(t *testing.T) {
	env := newTestEnv(t, func(c *Config) { c.RateLimit = 1 })

	first := env.do(t, "GET", "/healthz", nil, nil)
	assertStatus(t, first, http.StatusOK)
	second := env.do(t, "GET", "/healthz", nil, nil)
	assertStatus(t, second, http.StatusTooManyRequests)
}
