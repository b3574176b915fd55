package mysql

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/faucetdb/typegen/internal/connector"
	"github.com/faucetdb/typegen/internal/model"
)

// MySQLConnector implements connector.Connector for MySQL and MariaDB.
type MySQLConnector struct {
	db         *sqlx.DB
	schemaName string
}

// New creates a new MySQLConnector with default settings.
func New() connector.Connector {
	return &MySQLConnector{}
}

// Connect opens a single-connection pool. Without an explicit schema name
// the current database of the DSN is used.
func (c *MySQLConnector) Connect(cfg connector.ConnectionConfig) error {
	db, err := connector.Open("mysql", connector.SanitizeDSN("mysql", cfg.DSN), cfg)
	if err != nil {
		return fmt.Errorf("mysql connect: %w", err)
	}

	if cfg.SchemaName != "" {
		c.schemaName = cfg.SchemaName
	}
	if c.schemaName == "" {
		var dbName string
		if err := db.Get(&dbName, "SELECT DATABASE()"); err == nil && dbName != "" {
			c.schemaName = dbName
		}
	}

	c.db = db
	return nil
}

// Disconnect closes the database connection pool.
func (c *MySQLConnector) Disconnect() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Ping verifies the database connection is alive.
func (c *MySQLConnector) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// DB returns the underlying sqlx.DB connection pool.
func (c *MySQLConnector) DB() *sqlx.DB {
	return c.db
}

// DriverName returns the driver identifier for MySQL.
func (c *MySQLConnector) DriverName() string { return "mysql" }

// FetchCatalog reads base tables and columns from INFORMATION_SCHEMA.
func (c *MySQLConnector) FetchCatalog(ctx context.Context) (*model.Catalog, error) {
	if c.schemaName == "" {
		return nil, fmt.Errorf("mysql: no database selected (set a schema or a database in the DSN)")
	}
	return connector.ReadCatalog(ctx, c.db, catalogQuery(c.schemaName))
}

func catalogQuery(schemaName string) connector.CatalogQuery {
	return connector.CatalogQuery{
		Tables: `SELECT TABLE_NAME
			FROM INFORMATION_SCHEMA.TABLES
			WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
			ORDER BY TABLE_NAME`,
		Columns: `SELECT
				c.TABLE_NAME AS table_name,
				c.COLUMN_NAME AS column_name,
				c.DATA_TYPE AS data_type,
				c.IS_NULLABLE AS is_nullable
			FROM INFORMATION_SCHEMA.COLUMNS c
			WHERE c.TABLE_SCHEMA = ?
			ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`,
		Args:          []interface{}{schemaName},
		NormalizeType: connector.BaseType,
	}
}
