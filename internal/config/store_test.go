package config

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/faucetdb/typegen/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore("") // in-memory
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSourceCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Create
	src := &model.SourceConfig{
		Name:   "blog",
		Label:  "Blog Database",
		Driver: "postgres",
		DSN:    "postgres://localhost/blog",
		Schema: "public",
	}
	if err := s.CreateSource(ctx, src); err != nil {
		t.Fatalf("CreateSource: %v", err)
	}
	if src.ID == 0 {
		t.Fatal("expected non-zero ID after create")
	}

	// GetSource
	got, err := s.GetSource(ctx, src.ID)
	if err != nil {
		t.Fatalf("GetSource: %v", err)
	}
	if got.Name != "blog" {
		t.Errorf("got name %q, want %q", got.Name, "blog")
	}
	if got.Driver != "postgres" || got.Schema != "public" {
		t.Errorf("got driver %q schema %q", got.Driver, got.Schema)
	}

	// GetSourceByName
	got2, err := s.GetSourceByName(ctx, "blog")
	if err != nil {
		t.Fatalf("GetSourceByName: %v", err)
	}
	if got2.ID != src.ID {
		t.Errorf("got ID %d, want %d", got2.ID, src.ID)
	}
	if got2.DSN != "postgres://localhost/blog" {
		t.Errorf("got DSN %q", got2.DSN)
	}

	// Update
	src.Label = "Updated Label"
	src.PrivateKeyPath = "/keys/rsa.p8"
	if err := s.UpdateSource(ctx, src); err != nil {
		t.Fatalf("UpdateSource: %v", err)
	}
	got3, _ := s.GetSource(ctx, src.ID)
	if got3.Label != "Updated Label" {
		t.Errorf("got label %q, want %q", got3.Label, "Updated Label")
	}
	if got3.PrivateKeyPath != "/keys/rsa.p8" {
		t.Errorf("got private key path %q", got3.PrivateKeyPath)
	}

	// Delete
	if err := s.DeleteSourceByName(ctx, "blog"); err != nil {
		t.Fatalf("DeleteSourceByName: %v", err)
	}
	if _, err := s.GetSourceByName(ctx, "blog"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListSourcesOrderedByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	list, err := s.ListSources(ctx)
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("empty store should list an empty, non-nil slice, got %#v", list)
	}

	for _, name := range []string{"warehouse", "app", "legacy"} {
		if err := s.CreateSource(ctx, &model.SourceConfig{Name: name, Driver: "sqlite", DSN: name + ".db"}); err != nil {
			t.Fatalf("CreateSource(%s): %v", name, err)
		}
	}

	list, err = s.ListSources(ctx)
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}
	want := []string{"app", "legacy", "warehouse"}
	if len(list) != len(want) {
		t.Fatalf("got %d sources, want %d", len(list), len(want))
	}
	for i, src := range list {
		if src.Name != want[i] {
			t.Errorf("list[%d] = %q, want %q", i, src.Name, want[i])
		}
	}
}

func TestCreateSourceDuplicateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateSource(ctx, &model.SourceConfig{Name: "dup", Driver: "sqlite", DSN: "a.db"}); err != nil {
		t.Fatalf("CreateSource: %v", err)
	}
	err := s.CreateSource(ctx, &model.SourceConfig{Name: "dup", Driver: "sqlite", DSN: "b.db"})
	if !errors.Is(err, ErrSourceExists) {
		t.Fatalf("expected ErrSourceExists, got %v", err)
	}
	if !strings.Contains(err.Error(), `"dup"`) {
		t.Errorf("error should name the source: %v", err)
	}

	other := &model.SourceConfig{Name: "other", Driver: "sqlite", DSN: "c.db"}
	if err := s.CreateSource(ctx, other); err != nil {
		t.Fatalf("CreateSource: %v", err)
	}
	other.Name = "dup"
	if err := s.UpdateSource(ctx, other); !errors.Is(err, ErrSourceExists) {
		t.Errorf("UpdateSource rename: expected ErrSourceExists, got %v", err)
	}
}

func TestNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetSource(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSource: expected ErrNotFound, got %v", err)
	}
	if err := s.UpdateSource(ctx, &model.SourceConfig{ID: 42, Name: "x", Driver: "sqlite"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateSource: expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteSourceByName(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteSourceByName: expected ErrNotFound, got %v", err)
	}
}

func TestStorePersistsInDataDir(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.CreateSource(ctx, &model.SourceConfig{Name: "kept", Driver: "mysql", DSN: "u:p@tcp(h:3306)/db"}); err != nil {
		t.Fatalf("CreateSource: %v", err)
	}
	s.Close()

	// Reopening runs the migrations again; they must be idempotent.
	s2, err := NewStore(dir)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s2.Close()

	got, err := s2.GetSourceByName(ctx, "kept")
	if err != nil {
		t.Fatalf("GetSourceByName: %v", err)
	}
	if got.Driver != "mysql" {
		t.Errorf("got driver %q, want mysql", got.Driver)
	}
}
