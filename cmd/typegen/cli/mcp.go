package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	tmcp "github.com/faucetdb/typegen/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	var (
		transport string
		addr      string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server for AI agents",
		Long: `Start a Model Context Protocol (MCP) server that exposes type generation as
tools and the stored sources as resources. Supports stdio (default) and HTTP
transports.

In stdio mode the server speaks JSON-RPC over stdin/stdout, for clients that
launch typegen as a subprocess. Logs go to stderr.

In HTTP mode the server listens on --addr with the streamable HTTP transport.`,
		Example: `  typegen mcp                                  # stdio mode
  typegen mcp --transport http --addr :8081     # streamable HTTP`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("transport") {
				cfg.MCP.Transport = transport
			}
			if cmd.Flags().Changed("addr") {
				cfg.MCP.Addr = addr
			}

			logger := newLogger(cfg.Logging, cmd.ErrOrStderr())
			gen, cleanup, err := newGenerator(logger, true)
			if err != nil {
				return err
			}
			defer cleanup()

			srv := tmcp.NewMCPServer(gen, versionString(), logger)
			switch cfg.MCP.Transport {
			case "stdio", "":
				return srv.ServeStdio()
			case "http":
				return srv.ServeHTTP(cfg.MCP.Addr)
			default:
				return fmt.Errorf("unsupported transport %q; use 'stdio' or 'http'", cfg.MCP.Transport)
			}
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport mode: stdio or http")
	cmd.Flags().StringVar(&addr, "addr", ":8081", "HTTP listen address (only used with --transport http)")

	return cmd
}
