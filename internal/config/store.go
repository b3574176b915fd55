package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/faucetdb/typegen/internal/model"
)

// Store persists named catalog sources in a SQLite file inside the data
// directory.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new config store. Pass empty string for in-memory.
func NewStore(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == "" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		dsn = filepath.Join(dataDir, "typegen.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open config database: %w", err)
	}

	// One connection: SQLite serializes writes, and an in-memory database
	// exists only on the connection that created it.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate config database: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// Source CRUD
// ---------------------------------------------------------------------------

const sourceColumns = `id, name, label, driver, dsn, private_key_path, schema_name, created_at, updated_at`

// CreateSource inserts a new source. The ID, CreatedAt, and UpdatedAt fields
// on src are populated after a successful insert.
func (s *Store) CreateSource(ctx context.Context, src *model.SourceConfig) error {
	now := time.Now().UTC()
	src.CreatedAt = now
	src.UpdatedAt = now

	const q = `INSERT INTO sources
		(name, label, driver, dsn, private_key_path, schema_name, created_at, updated_at)
		VALUES
		(:name, :label, :driver, :dsn, :private_key_path, :schema_name, :created_at, :updated_at)`

	result, err := s.db.NamedExecContext(ctx, q, src)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q", ErrSourceExists, src.Name)
	}
	if err != nil {
		return fmt.Errorf("insert source: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get source id: %w", err)
	}
	src.ID = id
	return nil
}

// GetSource returns a source by ID.
func (s *Store) GetSource(ctx context.Context, id int64) (*model.SourceConfig, error) {
	var src model.SourceConfig
	if err := s.db.GetContext(ctx, &src, "SELECT "+sourceColumns+" FROM sources WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get source: %w", err)
	}
	return &src, nil
}

// GetSourceByName returns a source by its unique name.
func (s *Store) GetSourceByName(ctx context.Context, name string) (*model.SourceConfig, error) {
	var src model.SourceConfig
	if err := s.db.GetContext(ctx, &src, "SELECT "+sourceColumns+" FROM sources WHERE name = ?", name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get source by name: %w", err)
	}
	return &src, nil
}

// ListSources returns all stored sources ordered by name.
func (s *Store) ListSources(ctx context.Context) ([]model.SourceConfig, error) {
	sources := []model.SourceConfig{}
	if err := s.db.SelectContext(ctx, &sources, "SELECT "+sourceColumns+" FROM sources ORDER BY name"); err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	return sources, nil
}

// UpdateSource updates an existing source. The UpdatedAt field on src is
// refreshed automatically.
func (s *Store) UpdateSource(ctx context.Context, src *model.SourceConfig) error {
	src.UpdatedAt = time.Now().UTC()

	const q = `UPDATE sources SET
		name = :name, label = :label, driver = :driver, dsn = :dsn,
		private_key_path = :private_key_path, schema_name = :schema_name,
		updated_at = :updated_at
		WHERE id = :id`

	result, err := s.db.NamedExecContext(ctx, q, src)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q", ErrSourceExists, src.Name)
	}
	if err != nil {
		return fmt.Errorf("update source: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update source rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSourceByName removes a source by name.
func (s *Store) DeleteSourceByName(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sources WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete source rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
