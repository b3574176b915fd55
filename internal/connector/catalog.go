package connector

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/faucetdb/typegen/internal/model"
	"github.com/faucetdb/typegen/internal/scalar"
)

// CatalogQuery is a dialect's pair of catalog queries.
//
// Tables must return a single column of base table names. Columns must
// return table_name, column_name, data_type and is_nullable, aliased to
// exactly those lower-case names. Both queries receive Args.
type CatalogQuery struct {
	Tables  string
	Columns string
	Args    []interface{}

	// NormalizeType, when set, rewrites each reported data type.
	NormalizeType func(string) string
}

// catalogRow holds one row of the columns query.
type catalogRow struct {
	TableName  string `db:"table_name"`
	ColumnName string `db:"column_name"`
	DataType   string `db:"data_type"`
	IsNullable string `db:"is_nullable"`
}

// ReadCatalog takes one connection from db and runs the two catalog queries
// on it in sequence. It opens no transaction and does not retry.
func ReadCatalog(ctx context.Context, db *sqlx.DB, q CatalogQuery) (*model.Catalog, error) {
	if db == nil {
		return nil, fmt.Errorf("read catalog: not connected")
	}
	conn, err := db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	var tables []string
	if err := conn.SelectContext(ctx, &tables, q.Tables, q.Args...); err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}

	var rows []catalogRow
	if err := conn.SelectContext(ctx, &rows, q.Columns, q.Args...); err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}

	cat := &model.Catalog{
		Tables:  tables,
		Columns: make([]model.CatalogRow, 0, len(rows)),
	}
	if cat.Tables == nil {
		cat.Tables = []string{}
	}
	for _, r := range rows {
		dataType := strings.TrimSpace(r.DataType)
		if q.NormalizeType != nil {
			dataType = q.NormalizeType(dataType)
		}
		cat.Columns = append(cat.Columns, model.CatalogRow{
			TableName:  r.TableName,
			ColumnName: r.ColumnName,
			DataType:   dataType,
			IsNullable: ParseNullable(r.IsNullable),
		})
	}
	return cat, nil
}

// ParseNullable interprets the is_nullable flags reported by the supported
// catalogs: YES/NO (information_schema), Y/N (Oracle) and 1/0.
func ParseNullable(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "YES", "Y", "1", "TRUE":
		return true
	}
	return false
}

// BaseType reduces a reported type the way DDL column types are reduced,
// then lower-cases it: "VARCHAR(255)" becomes "varchar" and
// "double precision" becomes "double".
func BaseType(s string) string {
	return strings.ToLower(scalar.NativeToken(s))
}
