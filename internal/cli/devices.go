package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mobilectl/mobilectl/internal/adb"
	"github.com/mobilectl/mobilectl/internal/config"
	"github.com/mobilectl/mobilectl/internal/process"
	"github.com/mobilectl/mobilectl/internal/simctl"
	"github.com/mobilectl/mobilectl/internal/ui"
)

func devicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List connected devices and simulators",
	}

	cmd.AddCommand(devicesAndroidCmd())
	cmd.AddCommand(devicesIOSCmd())

	return cmd
}

func devicesAndroidCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "android",
		Short: "List connected Android devices",
		Example: `  mobilectl devices android
  mobilectl devices android --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			client := adb.NewClient(process.NewBoundedRunner(cfg.Timeout()))
			client.SetPath(cfg.ADBPath)

			devices, err := client.Devices(ctx)
			if err != nil {
				return fmt.Errorf("failed to list devices: %w", err)
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(devices)
			}

			ui.NewRenderer().RenderAndroidDevices(devices)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func devicesIOSCmd() *cobra.Command {
	var (
		booted  bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "ios",
		Short: "List available iOS simulators",
		Example: `  mobilectl devices ios
  mobilectl devices ios --booted`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			mgr := simctl.NewManager(process.NewBoundedRunner(cfg.Timeout()))
			mgr.SetPath(cfg.XcrunPath)

			devices, err := mgr.List(ctx, booted)
			if err != nil {
				return fmt.Errorf("failed to list simulators: %w", err)
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(devices)
			}

			ui.NewRenderer().RenderSimulators(devices)
			return nil
		},
	}

	cmd.Flags().BoolVar(&booted, "booted", false, "Show only booted simulators")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
