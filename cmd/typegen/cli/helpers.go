package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/faucetdb/typegen/internal/config"
	"github.com/faucetdb/typegen/internal/connector"
	"github.com/faucetdb/typegen/internal/connector/mssql"
	"github.com/faucetdb/typegen/internal/connector/mysql"
	"github.com/faucetdb/typegen/internal/connector/oracle"
	"github.com/faucetdb/typegen/internal/connector/postgres"
	"github.com/faucetdb/typegen/internal/connector/snowflake"
	"github.com/faucetdb/typegen/internal/connector/sqlite"
	"github.com/faucetdb/typegen/internal/service"
)

// dataDir holds the --data-dir persistent flag value (set on root command).
var dataDir string

// resolveDataDir returns the data directory from --data-dir flag,
// TYPEGEN_DATA_DIR env var, or ~/.typegen as fallback.
func resolveDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	if envDir := os.Getenv("TYPEGEN_DATA_DIR"); envDir != "" {
		return envDir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".typegen")
}

// openConfigStore opens the SQLite source store in the data directory.
func openConfigStore() (*config.Store, error) {
	store, err := config.NewStore(resolveDataDir())
	if err != nil {
		return nil, fmt.Errorf("open source store: %w", err)
	}
	return store, nil
}

// newRegistry creates a connector registry with all supported database drivers registered.
func newRegistry() *connector.Registry {
	registry := connector.NewRegistry()
	registry.RegisterDriver("postgres", postgres.New)
	registry.RegisterDriver("mysql", mysql.New)
	registry.RegisterDriver("mssql", mssql.New)
	registry.RegisterDriver("snowflake", snowflake.New)
	registry.RegisterDriver("sqlite", sqlite.New)
	registry.RegisterDriver("oracle", oracle.New)
	return registry
}

// newGenerator wires a Generator to the connector registry and, when
// withStore is set, to the source store. The returned cleanup closes both.
func newGenerator(logger *slog.Logger, withStore bool) (*service.Generator, func(), error) {
	registry := newRegistry()
	if !withStore {
		return service.NewGenerator(nil, registry, logger), registry.CloseAll, nil
	}

	store, err := openConfigStore()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		registry.CloseAll()
		store.Close()
	}
	return service.NewGenerator(store, registry, logger), cleanup, nil
}

// loadConfig returns the typed configuration: the file viper found (or the
// defaults) with TYPEGEN_* environment overrides applied.
func loadConfig() (*config.YAMLConfig, error) {
	cfg := config.DefaultYAMLConfig()
	if path := viper.ConfigFileUsed(); path != "" {
		loaded, err := config.LoadYAMLConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overlays the settings viper resolved from the environment, e.g.
// TYPEGEN_OUTPUT_FORMAT for output.format.
func applyEnv(cfg *config.YAMLConfig) {
	strs := map[string]*string{
		"source.mode":          &cfg.Source.Mode,
		"source.schema_file":   &cfg.Source.SchemaFile,
		"source.name":          &cfg.Source.Name,
		"source.driver":        &cfg.Source.Driver,
		"source.dsn":           &cfg.Source.DSN,
		"source.schema":        &cfg.Source.Schema,
		"output.dir":           &cfg.Output.Dir,
		"output.format":        &cfg.Output.Format,
		"server.host":          &cfg.Server.Host,
		"server.max_body_size": &cfg.Server.MaxBodySize,
		"mcp.transport":        &cfg.MCP.Transport,
		"mcp.addr":             &cfg.MCP.Addr,
		"logging.level":        &cfg.Logging.Level,
		"logging.format":       &cfg.Logging.Format,
	}
	for key, dst := range strs {
		if v := os.Getenv(envName(key)); v != "" {
			*dst = viper.GetString(key)
		}
	}
	if os.Getenv(envName("server.port")) != "" {
		cfg.Server.Port = viper.GetInt("server.port")
	}
	if os.Getenv(envName("server.rate_limit")) != "" {
		cfg.Server.RateLimit = viper.GetInt("server.rate_limit")
	}
}

func envName(key string) string {
	return "TYPEGEN_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// newLogger builds the slog logger described by the logging section. The
// --verbose flag forces debug level. Logs always go to w (stderr), keeping
// stdout free for generated output and the MCP stdio transport.
func newLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// versionString returns a display version string.
func versionString() string {
	if appVersion == "" || appVersion == "dev" {
		return "dev"
	}
	if strings.HasPrefix(appVersion, "v") {
		return appVersion
	}
	return "v" + appVersion
}
