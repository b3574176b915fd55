// Package schema turns a raw schema source into raw table records with
// finalized names. DDL text and catalog rows share one Extractor interface so
// everything downstream is mode-agnostic.
package schema

import (
	"context"

	"github.com/faucetdb/typegen/internal/ddl"
	"github.com/faucetdb/typegen/internal/model"
	"github.com/faucetdb/typegen/internal/naming"
)

// Extractor produces raw table records from a schema source.
type Extractor interface {
	Extract(ctx context.Context) ([]model.RawTable, error)
}

// DDL extracts tables from SQL DDL text.
type DDL struct {
	Text string
}

// Extract implements Extractor. It never fails.
func (d DDL) Extract(_ context.Context) ([]model.RawTable, error) {
	stmts := ddl.Extract(d.Text)
	tables := make([]model.RawTable, 0, len(stmts))
	for _, stmt := range stmts {
		t := newRawTable(stmt.Name)
		t.Columns = make([]model.RawColumn, 0, len(stmt.Columns))
		for _, def := range stmt.Columns {
			t.Columns = append(t.Columns, model.RawColumn{Definition: def})
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Catalog groups pre-fetched catalog rows by table. Only tables listed in
// Tables produce records, in the order listed; column rows for other
// relations (views, system tables) are ignored.
type Catalog struct {
	Tables  []string
	Columns []model.CatalogRow
}

// FromCatalog wraps a fetched catalog snapshot.
func FromCatalog(c *model.Catalog) Catalog {
	if c == nil {
		return Catalog{}
	}
	return Catalog{Tables: c.Tables, Columns: c.Columns}
}

// Extract implements Extractor. It never fails.
func (c Catalog) Extract(_ context.Context) ([]model.RawTable, error) {
	index := make(map[string]int, len(c.Tables))
	tables := make([]model.RawTable, 0, len(c.Tables))
	for _, name := range c.Tables {
		if _, dup := index[name]; dup {
			continue
		}
		index[name] = len(tables)
		tables = append(tables, newRawTable(name))
	}

	for i := range c.Columns {
		row := c.Columns[i]
		idx, ok := index[row.TableName]
		if !ok {
			continue
		}
		tables[idx].Columns = append(tables[idx].Columns, model.RawColumn{Catalog: &row})
	}
	return tables, nil
}

func newRawTable(source string) model.RawTable {
	names := naming.DeriveTableNames(source)
	return model.RawTable{
		SourceName:   names.Source,
		SingularName: names.Singular,
		CamelName:    names.Camel,
		PascalName:   names.Pascal,
	}
}
