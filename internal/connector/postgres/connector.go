package postgres

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/faucetdb/typegen/internal/connector"
	"github.com/faucetdb/typegen/internal/model"
)

// PostgresConnector implements connector.Connector for PostgreSQL databases.
type PostgresConnector struct {
	db         *sqlx.DB
	schemaName string
}

// New creates a new PostgresConnector with default settings.
func New() connector.Connector {
	return &PostgresConnector{schemaName: "public"}
}

// Connect opens a single-connection pool through the pgx stdlib driver.
func (c *PostgresConnector) Connect(cfg connector.ConnectionConfig) error {
	db, err := connector.Open("pgx", cfg.DSN, cfg)
	if err != nil {
		return fmt.Errorf("postgres connect: %w", err)
	}
	if cfg.SchemaName != "" {
		c.schemaName = cfg.SchemaName
	}
	c.db = db
	return nil
}

// Disconnect closes the database connection pool.
func (c *PostgresConnector) Disconnect() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Ping verifies the database connection is alive.
func (c *PostgresConnector) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// DB returns the underlying sqlx.DB connection pool.
func (c *PostgresConnector) DB() *sqlx.DB {
	return c.db
}

// DriverName returns the driver identifier for PostgreSQL.
func (c *PostgresConnector) DriverName() string { return "postgres" }

// FetchCatalog reads base tables and columns of the configured schema from
// information_schema.
func (c *PostgresConnector) FetchCatalog(ctx context.Context) (*model.Catalog, error) {
	return connector.ReadCatalog(ctx, c.db, catalogQuery(c.schemaName))
}

func catalogQuery(schemaName string) connector.CatalogQuery {
	return connector.CatalogQuery{
		Tables: `SELECT table_name
			FROM information_schema.tables
			WHERE table_schema = $1 AND table_type = 'BASE TABLE'
			ORDER BY table_name`,
		Columns: `SELECT
				c.table_name,
				c.column_name,
				c.data_type,
				c.is_nullable
			FROM information_schema.columns c
			WHERE c.table_schema = $1
			ORDER BY c.table_name, c.ordinal_position`,
		Args:          []interface{}{schemaName},
		NormalizeType: connector.BaseType,
	}
}
