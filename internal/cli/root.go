package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mobilectl/mobilectl/internal/process"
)

var (
	verbose bool
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "mobilectl",
		Short: "Device-control MCP server for Android and iOS",
		Long: `mobilectl exposes Android and iOS device control to AI agents over the
Model Context Protocol, wrapping adb, xcrun simctl, and idb.

Common workflows:
  mobilectl serve              Serve the MCP tool catalog over stdio
  mobilectl devices android    Show connected Android devices
  mobilectl devices ios        Show available iOS simulators
  mobilectl logs <serial>      Follow an Android device log`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			process.SetGlobalVerbose(verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show underlying commands")
}

func Execute(ctx context.Context, version string) error {
	rootCmd.Version = version

	rootCmd.AddCommand(serveCmd(version))
	rootCmd.AddCommand(devicesCmd())
	rootCmd.AddCommand(logsCmd())

	return rootCmd.ExecuteContext(ctx)
}
