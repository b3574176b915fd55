package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/faucetdb/typegen/internal/connector"
	"github.com/faucetdb/typegen/internal/model"
)

// SQLiteConnector implements connector.Connector for SQLite databases.
type SQLiteConnector struct {
	db *sqlx.DB
}

// New creates a new SQLiteConnector.
func New() connector.Connector {
	return &SQLiteConnector{}
}

// Connect opens the SQLite database file named by the DSN (a path, a file:
// URI or ":memory:"). SQLite has no schemas; SchemaName is ignored.
func (c *SQLiteConnector) Connect(cfg connector.ConnectionConfig) error {
	db, err := connector.Open("sqlite", cfg.DSN, cfg)
	if err != nil {
		return fmt.Errorf("sqlite connect: %w", err)
	}
	c.db = db
	return nil
}

// Disconnect closes the database.
func (c *SQLiteConnector) Disconnect() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Ping verifies the database connection is alive.
func (c *SQLiteConnector) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// DB returns the underlying sqlx.DB connection pool.
func (c *SQLiteConnector) DB() *sqlx.DB {
	return c.db
}

// DriverName returns the driver identifier for SQLite.
func (c *SQLiteConnector) DriverName() string { return "sqlite" }

// FetchCatalog reads tables from sqlite_master and their columns from
// pragma_table_info. Declared types are reduced to their lower-case base
// name ("VARCHAR(255)" -> "varchar").
func (c *SQLiteConnector) FetchCatalog(ctx context.Context) (*model.Catalog, error) {
	return connector.ReadCatalog(ctx, c.db, catalogQuery)
}

var catalogQuery = connector.CatalogQuery{
	Tables: `SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`,
	Columns: `SELECT
			m.name AS table_name,
			p.name AS column_name,
			p.type AS data_type,
			CASE WHEN p."notnull" = 0 THEN 'YES' ELSE 'NO' END AS is_nullable
		FROM sqlite_master m
		JOIN pragma_table_info(m.name) p
		WHERE m.type IN ('table', 'view') AND m.name NOT LIKE 'sqlite_%'
		ORDER BY m.name, p.cid`,
	NormalizeType: connector.BaseType,
}
