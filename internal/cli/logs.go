package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mobilectl/mobilectl/internal/adb"
	"github.com/mobilectl/mobilectl/internal/config"
	"github.com/mobilectl/mobilectl/internal/process"
)

func logsCmd() *cobra.Command {
	var level string

	cmd := &cobra.Command{
		Use:   "logs <serial>",
		Short: "Follow an Android device log",
		Long:  `Streams logcat until interrupted. Use --level to keep only one priority.`,
		Example: `  mobilectl logs SERIAL123
  mobilectl logs SERIAL123 --level error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			serial := args[0]

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			var logLevel adb.LogLevel
			if level != "" {
				parsed, ok := adb.ParseLogLevel(level)
				if !ok {
					return fmt.Errorf("unknown log level %q", level)
				}
				logLevel = parsed
			}

			// The follow stream is unbounded on purpose; ctx cancellation
			// from the signal handler is the only way out.
			runner := process.NewRunner()
			client := adb.NewClient(runner)
			client.SetPath(cfg.ADBPath)

			lines, errs := client.LogcatStream(ctx, runner, serial)
			for {
				select {
				case <-ctx.Done():
					return nil
				case line, ok := <-lines:
					if !ok {
						lines = nil
					} else if logLevel == "" || adb.FilterByLevel(line.Content, logLevel) != "" {
						fmt.Fprintln(os.Stdout, line.Content)
					}
				case err, ok := <-errs:
					if ok && err != nil {
						return err
					}
					errs = nil
				}

				if lines == nil && errs == nil {
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVarP(&level, "level", "l", "", "Keep only this log level (verbose, debug, info, warning, error, fatal)")
	return cmd
}
