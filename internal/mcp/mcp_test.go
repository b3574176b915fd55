package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/faucetdb/typegen/internal/config"
	"github.com/faucetdb/typegen/internal/connector"
	"github.com/faucetdb/typegen/internal/connector/sqlite"
	"github.com/faucetdb/typegen/internal/model"
	"github.com/faucetdb/typegen/internal/service"
)

func newTestServer(t *testing.T) (*MCPServer, *config.Store) {
	t.Helper()
	store, err := config.NewStore("")
	if err != nil {
		t.Fatalf("config.NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	registry := connector.NewRegistry()
	registry.RegisterDriver("sqlite", sqlite.New)
	t.Cleanup(registry.CloseAll)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMCPServer(service.NewGenerator(store, registry, logger), "test", logger), store
}

func seedSource(t *testing.T, store *config.Store, name string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".db")
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.MustExec(`CREATE TABLE orders (id integer NOT NULL, customer_id integer NOT NULL, total double)`)
	db.Close()
	if err := store.CreateSource(context.Background(), &model.SourceConfig{Name: name, Driver: "sqlite", DSN: path, Label: "Shop"}); err != nil {
		t.Fatalf("CreateSource: %v", err)
	}
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] is %T, want mcp.TextContent", res.Content[0])
	}
	return text.Text
}

func TestGenerateFromDDLTool(t *testing.T) {
	s, _ := newTestServer(t)

	res, err := s.handleGenerateFromDDL(context.Background(), callRequest("typegen_generate_from_ddl", map[string]any{
		"ddl": "CREATE TABLE posts (id integer NOT NULL, author_id integer NOT NULL);",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	text := resultText(t, res)
	for _, want := range []string{"# post.graphql", "# schema.graphql", `author: Author @inferred(column: "author_id")`} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}
}

func TestGenerateFromDDLToolErrors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing ddl", map[string]any{}},
		{"bad format", map[string]any{"ddl": "CREATE TABLE a (x text);", "format": "protobuf"}},
		{"conflicting scope", map[string]any{"ddl": "CREATE TABLE a (x text);", "objects_only": true, "root_only": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t)
			res, err := s.handleGenerateFromDDL(context.Background(), callRequest("typegen_generate_from_ddl", tt.args))
			if err != nil {
				t.Fatalf("tool errors must be results, got error %v", err)
			}
			if !res.IsError {
				t.Errorf("expected IsError, got %s", resultText(t, res))
			}
		})
	}
}

func TestGenerateFromDDLToolEmptySchema(t *testing.T) {
	s, _ := newTestServer(t)
	res, err := s.handleGenerateFromDDL(context.Background(), callRequest("typegen_generate_from_ddl", map[string]any{
		"ddl": "SELECT 1;",
	}))
	if err != nil || res.IsError {
		t.Fatalf("unexpected failure: %v", err)
	}
	if !strings.Contains(resultText(t, res), "no tables") {
		t.Errorf("result = %q", resultText(t, res))
	}
}

func TestListSourcesTool(t *testing.T) {
	s, store := newTestServer(t)
	seedSource(t, store, "shop")

	res, err := s.handleListSources(context.Background(), callRequest("typegen_list_sources", nil))
	if err != nil || res.IsError {
		t.Fatalf("unexpected failure: %v", err)
	}
	var items []sourceInfo
	if err := json.Unmarshal([]byte(resultText(t, res)), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].Name != "shop" || items[0].Driver != "sqlite" {
		t.Errorf("items = %+v", items)
	}
	if strings.Contains(resultText(t, res), ".db") {
		t.Error("listing must not contain the DSN")
	}
}

func TestGenerateFromSourceTool(t *testing.T) {
	s, store := newTestServer(t)
	seedSource(t, store, "shop")

	res, err := s.handleGenerateFromSource(context.Background(), callRequest("typegen_generate_from_source", map[string]any{
		"source":       "shop",
		"format":       "json",
		"objects_only": true,
	}))
	if err != nil || res.IsError {
		t.Fatalf("unexpected failure: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "# order.json") || strings.Contains(text, "model.json") {
		t.Errorf("result = %s", text)
	}
}

func TestGenerateFromSourceToolUnknown(t *testing.T) {
	s, store := newTestServer(t)
	seedSource(t, store, "shop")

	res, err := s.handleGenerateFromSource(context.Background(), callRequest("typegen_generate_from_source", map[string]any{
		"source": "warehouse",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool error")
	}
	if text := resultText(t, res); !strings.Contains(text, "shop") {
		t.Errorf("error should list available sources: %s", text)
	}
}

func TestModelResource(t *testing.T) {
	s, store := newTestServer(t)
	seedSource(t, store, "shop")

	var req mcp.ReadResourceRequest
	req.Params.URI = "typegen://model/shop"
	contents, err := s.handleModelResource(context.Background(), req)
	if err != nil {
		t.Fatalf("handleModelResource: %v", err)
	}
	text := contents[0].(mcp.TextResourceContents).Text

	var tables []model.TableModel
	if err := json.Unmarshal([]byte(text), &tables); err != nil {
		t.Fatalf("decode model: %v", err)
	}
	if len(tables) != 1 || tables[0].PascalName != "Order" || !tables[0].HasIDField {
		t.Errorf("tables = %+v", tables)
	}

	req.Params.URI = "typegen://model/"
	if _, err := s.handleModelResource(context.Background(), req); err == nil {
		t.Error("expected error for URI without a source")
	}
}

func TestSourcesResource(t *testing.T) {
	s, store := newTestServer(t)
	seedSource(t, store, "shop")

	var req mcp.ReadResourceRequest
	req.Params.URI = sourcesURI
	contents, err := s.handleSourcesResource(context.Background(), req)
	if err != nil {
		t.Fatalf("handleSourcesResource: %v", err)
	}
	if text := contents[0].(mcp.TextResourceContents).Text; !strings.Contains(text, `"name": "shop"`) {
		t.Errorf("contents = %s", text)
	}
}

func TestToolsRegistered(t *testing.T) {
	s, _ := newTestServer(t)

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	resp := s.Server().HandleMessage(context.Background(), msg)
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	for _, name := range []string{"typegen_list_sources", "typegen_generate_from_ddl", "typegen_generate_from_source"} {
		if !strings.Contains(string(b), `"`+name+`"`) {
			t.Errorf("tools/list missing %s: %s", name, b)
		}
	}
}

func TestBoolPtr(t *testing.T) {
	if p := boolPtr(true); p == nil || !*p {
		t.Error("boolPtr(true) should point to true")
	}
	if p := boolPtr(false); p == nil || *p {
		t.Error("boolPtr(false) should point to false")
	}
}
