package mssql

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/microsoft/go-mssqldb"

	"github.com/faucetdb/typegen/internal/connector"
	"github.com/faucetdb/typegen/internal/model"
)

// MSSQLConnector implements connector.Connector for SQL Server databases.
type MSSQLConnector struct {
	db         *sqlx.DB
	schemaName string
}

// New creates a new MSSQLConnector with default settings.
func New() connector.Connector {
	return &MSSQLConnector{schemaName: "dbo"}
}

// Connect opens a single-connection pool through go-mssqldb.
func (c *MSSQLConnector) Connect(cfg connector.ConnectionConfig) error {
	db, err := connector.Open("sqlserver", connector.SanitizeDSN("mssql", cfg.DSN), cfg)
	if err != nil {
		return fmt.Errorf("mssql connect: %w", err)
	}
	if cfg.SchemaName != "" {
		c.schemaName = cfg.SchemaName
	}
	c.db = db
	return nil
}

// Disconnect closes the database connection pool.
func (c *MSSQLConnector) Disconnect() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Ping verifies the database connection is alive.
func (c *MSSQLConnector) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// DB returns the underlying sqlx.DB connection pool.
func (c *MSSQLConnector) DB() *sqlx.DB {
	return c.db
}

// DriverName returns the driver identifier for SQL Server.
func (c *MSSQLConnector) DriverName() string { return "mssql" }

// FetchCatalog reads base tables and columns from INFORMATION_SCHEMA.
func (c *MSSQLConnector) FetchCatalog(ctx context.Context) (*model.Catalog, error) {
	return connector.ReadCatalog(ctx, c.db, catalogQuery(c.schemaName))
}

func catalogQuery(schemaName string) connector.CatalogQuery {
	return connector.CatalogQuery{
		Tables: `SELECT TABLE_NAME
			FROM INFORMATION_SCHEMA.TABLES
			WHERE TABLE_SCHEMA = @p1 AND TABLE_TYPE = 'BASE TABLE'
			ORDER BY TABLE_NAME`,
		Columns: `SELECT
				c.TABLE_NAME AS table_name,
				c.COLUMN_NAME AS column_name,
				c.DATA_TYPE AS data_type,
				c.IS_NULLABLE AS is_nullable
			FROM INFORMATION_SCHEMA.COLUMNS c
			WHERE c.TABLE_SCHEMA = @p1
			ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`,
		Args:          []interface{}{schemaName},
		NormalizeType: connector.BaseType,
	}
}
