package snowflake

import (
	"strings"
	"testing"
)

func TestCatalogQuery(t *testing.T) {
	q := catalogQuery("ANALYTICS")

	if len(q.Args) != 1 || q.Args[0] != "ANALYTICS" {
		t.Errorf("Args = %v, want [ANALYTICS]", q.Args)
	}
	for _, alias := range []string{`"table_name"`, `"column_name"`, `"data_type"`, `"is_nullable"`} {
		if !strings.Contains(q.Columns, alias) {
			t.Errorf("columns query missing quoted alias %s", alias)
		}
	}
	if q.NormalizeType == nil || q.NormalizeType("NUMBER") != "number" {
		t.Error("types should be lower-cased")
	}
}

func TestNewDefaultsToPublic(t *testing.T) {
	c := New().(*SnowflakeConnector)
	if c.schemaName != "PUBLIC" {
		t.Errorf("schemaName = %q, want PUBLIC", c.schemaName)
	}
	if c.DriverName() != "snowflake" {
		t.Errorf("DriverName = %q", c.DriverName())
	}
}
