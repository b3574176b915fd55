// Package service glues the source store, the connector registry, the
// pipeline and the renderers together. The CLI, the HTTP handlers and the
// MCP tools all generate through a Generator.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/faucetdb/typegen/internal/config"
	"github.com/faucetdb/typegen/internal/connector"
	"github.com/faucetdb/typegen/internal/model"
	"github.com/faucetdb/typegen/internal/pipeline"
	"github.com/faucetdb/typegen/internal/render"
	"github.com/faucetdb/typegen/internal/schema"
)

// ErrSourceNotFound is returned when a stored source name is unknown.
var ErrSourceNotFound = errors.New("source not found")

// SourceStore is the part of the config store a Generator reads.
type SourceStore interface {
	GetSourceByName(ctx context.Context, name string) (*model.SourceConfig, error)
	ListSources(ctx context.Context) ([]model.SourceConfig, error)
}

// Generator builds table models from DDL text or a live catalog and renders
// them.
type Generator struct {
	store    SourceStore
	registry *connector.Registry
	logger   *slog.Logger
}

// NewGenerator creates a Generator. store may be nil when only DDL and
// ad-hoc connections are used.
func NewGenerator(store SourceStore, registry *connector.Registry, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{store: store, registry: registry, logger: logger}
}

// ModelFromDDL runs the pipeline over DDL text.
func (g *Generator) ModelFromDDL(ctx context.Context, ddl string) ([]model.TableModel, error) {
	return pipeline.Run(ctx, schema.DDL{Text: ddl}, g.logger.With("mode", "ddl"))
}

// ModelFromSource reads the catalog of a stored source. The connection is
// kept in the registry and reused by later calls for the same source.
func (g *Generator) ModelFromSource(ctx context.Context, name string) ([]model.TableModel, error) {
	conn, err := g.sourceConnector(ctx, name)
	if err != nil {
		return nil, err
	}
	return g.modelFromConnector(ctx, conn, g.logger.With("mode", "catalog", "source", name))
}

// ModelFromConnection reads the catalog of a database that is not stored.
// The connection is closed before returning.
func (g *Generator) ModelFromConnection(ctx context.Context, cfg connector.ConnectionConfig) ([]model.TableModel, error) {
	if g.registry == nil {
		return nil, fmt.Errorf("no connector registry configured")
	}
	conn, err := g.registry.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", connector.Describe(cfg), err)
	}
	defer conn.Disconnect()

	return g.modelFromConnector(ctx, conn, g.logger.With("mode", "catalog", "driver", cfg.Driver))
}

// Render renders tables with opts.
func (g *Generator) Render(tables []model.TableModel, opts render.Options) ([]render.File, error) {
	files, err := render.Render(tables, opts)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("rendered", "format", opts.Format, "files", len(files))
	return files, nil
}

// ListSources returns the stored sources with their DSNs removed.
func (g *Generator) ListSources(ctx context.Context) ([]model.SourceConfig, error) {
	if g.store == nil {
		return []model.SourceConfig{}, nil
	}
	sources, err := g.store.ListSources(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sources {
		sources[i] = sources[i].Redacted()
	}
	return sources, nil
}

// TestSource connects to a stored source and pings it. The connection is
// not kept.
func (g *Generator) TestSource(ctx context.Context, name string) error {
	if g.registry == nil {
		return fmt.Errorf("no connector registry configured")
	}
	src, err := g.lookup(ctx, name)
	if err != nil {
		return err
	}
	conn, err := g.registry.Open(ConnectionConfig(src))
	if err != nil {
		return fmt.Errorf("connect source %q: %w", name, err)
	}
	defer conn.Disconnect()
	return conn.Ping(ctx)
}

// ConnectionConfig converts a stored source into connector settings.
func ConnectionConfig(src *model.SourceConfig) connector.ConnectionConfig {
	return connector.ConnectionConfig{
		Driver:         src.Driver,
		DSN:            src.DSN,
		SchemaName:     src.Schema,
		PrivateKeyPath: src.PrivateKeyPath,
	}
}

func (g *Generator) modelFromConnector(ctx context.Context, conn connector.Connector, logger *slog.Logger) ([]model.TableModel, error) {
	cat, err := conn.FetchCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	logger.Debug("catalog read", "tables", len(cat.Tables), "columns", len(cat.Columns))
	return pipeline.Run(ctx, schema.FromCatalog(cat), logger)
}

func (g *Generator) sourceConnector(ctx context.Context, name string) (connector.Connector, error) {
	if g.registry == nil {
		return nil, fmt.Errorf("no connector registry configured")
	}
	if conn, err := g.registry.Get(name); err == nil {
		return conn, nil
	}

	src, err := g.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := g.registry.Connect(name, ConnectionConfig(src)); err != nil {
		return nil, err
	}
	g.logger.Info("source connected", "source", name, "driver", src.Driver)
	return g.registry.Get(name)
}

func (g *Generator) lookup(ctx context.Context, name string) (*model.SourceConfig, error) {
	if g.store == nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, name)
	}
	src, err := g.store.GetSourceByName(ctx, name)
	if errors.Is(err, config.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load source %q: %w", name, err)
	}
	return src, nil
}
