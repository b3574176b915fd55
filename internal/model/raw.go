package model

// RawTable is one table record produced by an extractor. Names are already
// final when a RawTable leaves the extractor.
type RawTable struct {
	SourceName   string
	SingularName string
	CamelName    string
	PascalName   string
	Columns      []RawColumn
}

// RawColumn is either a DDL column definition or a catalog row. Exactly one
// of Definition and Catalog is set.
type RawColumn struct {
	Definition string
	Catalog    *CatalogRow
}

// CatalogRow is one row of the catalog column query.
type CatalogRow struct {
	TableName  string `json:"table_name"`
	ColumnName string `json:"column_name"`
	DataType   string `json:"data_type"`
	IsNullable bool   `json:"is_nullable"`
}

// Catalog holds the two result sets read from a live database: the base
// table names and the columns of the schema.
type Catalog struct {
	Tables  []string     `json:"tables"`
	Columns []CatalogRow `json:"columns"`
}
