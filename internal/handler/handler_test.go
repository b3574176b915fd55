package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/faucetdb/typegen/internal/config"
	"github.com/faucetdb/typegen/internal/connector"
	"github.com/faucetdb/typegen/internal/connector/sqlite"
	"github.com/faucetdb/typegen/internal/model"
	"github.com/faucetdb/typegen/internal/service"
)

const postsDDL = `CREATE TABLE posts (
  id integer NOT NULL,
  title character varying(255),
  user_id integer NOT NULL
);`

// testEnv holds shared state for handler tests.
type testEnv struct {
	store  *config.Store
	router chi.Router
}

// newTestEnv creates a fresh test environment with an in-memory config store,
// a sqlite-only registry and the generate routes mounted.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := config.NewStore("") // in-memory SQLite
	if err != nil {
		t.Fatalf("config.NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	registry := connector.NewRegistry()
	registry.RegisterDriver("sqlite", sqlite.New)
	t.Cleanup(registry.CloseAll)

	h := NewGenerateHandler(service.NewGenerator(store, registry, nil), nil)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/generate", h.Generate)
		r.Get("/source", h.ListSources)
		r.Get("/source/{sourceName}/generate", h.GenerateFromSource)
	})

	return &testEnv{store: store, router: r}
}

// seedSource stores a sqlite source backed by a fresh database file holding
// the posts table.
func (e *testEnv) seedSource(t *testing.T, name string) *model.SourceConfig {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".db")
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.MustExec(`CREATE TABLE posts (id integer NOT NULL, title text, user_id integer NOT NULL)`)
	db.Close()

	src := &model.SourceConfig{Name: name, Driver: "sqlite", DSN: path}
	if err := e.store.CreateSource(context.Background(), src); err != nil {
		t.Fatalf("seedSource: %v", err)
	}
	return src
}

// do executes an HTTP request against the test router and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rr.Code, want, rr.Body.String())
	}
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decodeJSON: %v; body = %s", err, rr.Body.String())
	}
}

// generateResponse mirrors the list envelope returned by the generate
// endpoints.
type generateResponse struct {
	Resource []fileResponse     `json:"resource"`
	Meta     model.ResponseMeta `json:"meta"`
}

func (g generateResponse) names() []string {
	names := make([]string, len(g.Resource))
	for i, f := range g.Resource {
		names[i] = f.Name
	}
	return names
}

func (g generateResponse) file(name string) string {
	for _, f := range g.Resource {
		if f.Name == name {
			return f.Content
		}
	}
	return ""
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp model.ErrorResponse
	decodeJSON(t, rr, &resp)
	if resp.Error.Code != rr.Code {
		t.Errorf("error envelope code = %d, status = %d", resp.Error.Code, rr.Code)
	}
	return resp.Error.Message
}
