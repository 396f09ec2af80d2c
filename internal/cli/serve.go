package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mobilectl/mobilectl/internal/config"
	"github.com/mobilectl/mobilectl/internal/mcp"
	"github.com/mobilectl/mobilectl/internal/observability"
)

func serveCmd(version string) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP tool catalog over stdio",
		Long: `Serve runs until the client disconnects or the process is signalled.
Logs go to stderr; stdout carries the protocol.`,
		Example: `  mobilectl serve
  mobilectl serve --config ./mobilectl.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var cfg *config.Config
			var err error
			if configPath != "" {
				cfg, err = config.LoadFrom(configPath)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger := observability.InitLogger("mobilectl")
			server := mcp.NewServer(version, cfg, logger)
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	return cmd
}
