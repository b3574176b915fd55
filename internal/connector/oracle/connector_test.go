package oracle

import (
	"context"
	"strings"
	"testing"
)

func TestCatalogQuery(t *testing.T) {
	q := catalogQuery("APP")

	if len(q.Args) != 1 || q.Args[0] != "APP" {
		t.Errorf("Args = %v, want [APP]", q.Args)
	}
	if !strings.Contains(q.Tables, ":1") || !strings.Contains(q.Columns, ":1") {
		t.Error("queries should bind the owner as :1")
	}
	if !strings.Contains(q.Columns, `NULLABLE AS "is_nullable"`) {
		t.Error("NULLABLE should be aliased to is_nullable")
	}

	tests := map[string]string{
		"NUMBER":       "number",
		"VARCHAR2":     "varchar",
		"TIMESTAMP(6)": "timestamp",
	}
	for in, want := range tests {
		if got := q.NormalizeType(in); got != want {
			t.Errorf("NormalizeType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFetchCatalogWithoutSchema(t *testing.T) {
	c := New()
	if c.DriverName() != "oracle" {
		t.Errorf("DriverName = %q", c.DriverName())
	}
	if _, err := c.FetchCatalog(context.Background()); err == nil {
		t.Error("expected an error without a schema")
	}
}
