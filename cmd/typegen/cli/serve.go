package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/faucetdb/typegen/internal/config"
	tmcp "github.com/faucetdb/typegen/internal/mcp"
	"github.com/faucetdb/typegen/internal/server"
	"github.com/faucetdb/typegen/internal/server/middleware"
	"github.com/faucetdb/typegen/internal/service"
)

func newServeCmd() *cobra.Command {
	var (
		port     int
		host     string
		mountMCP bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the typegen HTTP server",
		Long:  "Start the HTTP server that generates types from posted DDL and from stored catalog sources.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			return runServe(cmd, cfg, mountMCP)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().BoolVar(&mountMCP, "mcp", false, "Also serve the MCP streamable HTTP endpoint at /mcp")

	return cmd
}

// serverConfig converts the server section of the config file.
func serverConfig(sc config.ServerConfig) (server.Config, error) {
	srvCfg := server.DefaultConfig()
	srvCfg.Host = sc.Host
	srvCfg.Port = sc.Port
	srvCfg.RateLimit = sc.RateLimit
	if len(sc.CORS.Origins) > 0 {
		srvCfg.CORSOrigins = sc.CORS.Origins
	}
	if sc.ShutdownTimeout != "" {
		d, err := time.ParseDuration(sc.ShutdownTimeout)
		if err != nil {
			return srvCfg, fmt.Errorf("server.shutdown_timeout: %w", err)
		}
		srvCfg.ShutdownTimeout = d
	}
	if sc.MaxBodySize != "" {
		n, err := middleware.ParseSize(sc.MaxBodySize)
		if err != nil {
			return srvCfg, fmt.Errorf("server.max_body_size: %w", err)
		}
		srvCfg.MaxBodySize = n
	}
	return srvCfg, nil
}

func runServe(cmd *cobra.Command, cfg *config.YAMLConfig, mountMCP bool) error {
	logger := newLogger(cfg.Logging, cmd.ErrOrStderr())

	srvCfg, err := serverConfig(cfg.Server)
	if err != nil {
		return err
	}

	store, err := openConfigStore()
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("source store initialized", "path", resolveDataDir())

	registry := newRegistry()
	logger.Info("connector registry initialized", "drivers", registry.Drivers())

	gen := service.NewGenerator(store, registry, logger)
	if mountMCP {
		srvCfg.MCPHandler = tmcp.NewMCPServer(gen, versionString(), logger).HTTPHandler()
	}

	srv := server.New(srvCfg, gen, registry, logger)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "→ typegen %s\n", versionString())
	fmt.Fprintf(out, "→ Listening on http://%s:%d\n", srvCfg.Host, srvCfg.Port)
	fmt.Fprintf(out, "→ Generate:   POST http://%s:%d/api/v1/generate\n", srvCfg.Host, srvCfg.Port)
	if mountMCP {
		fmt.Fprintf(out, "→ MCP:        http://%s:%d/mcp\n", srvCfg.Host, srvCfg.Port)
	}
	fmt.Fprintf(out, "→ Health:     http://%s:%d/healthz\n", srvCfg.Host, srvCfg.Port)
	fmt.Fprintln(out)

	return srv.ListenAndServe()
}
