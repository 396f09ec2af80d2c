package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/mobilectl/mobilectl/internal/adb"
	"github.com/mobilectl/mobilectl/internal/simctl"
)

// Renderer handles terminal output for the CLI commands. The MCP path never
// goes through here; its output format is fixed by the protocol.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Success prints a success message
func (r *Renderer) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", green("✓"), msg)
}

// Error prints an error message
func (r *Renderer) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", red("✗"), msg)
}

// Warning prints a warning message
func (r *Renderer) Warning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", yellow("!"), msg)
}

// Info prints an info message
func (r *Renderer) Info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "  %s\n", msg)
}

// RenderAndroidDevices prints connected Android devices.
func (r *Renderer) RenderAndroidDevices(devices []adb.Device) {
	if len(devices) == 0 {
		r.Info("No devices found")
		return
	}

	fmt.Fprintf(os.Stderr, "\n%s\n", bold("ANDROID"))
	for _, d := range devices {
		stateColor := dim
		if d.IsOnline() {
			stateColor = green
		}
		fmt.Fprintf(os.Stderr, "  %-24s %s %s\n",
			d.Serial,
			d.Model,
			stateColor(fmt.Sprintf("[%s]", d.State)),
		)
	}
	fmt.Fprintln(os.Stderr)
}

// RenderSimulators prints available iOS simulators.
func (r *Renderer) RenderSimulators(devices []simctl.Device) {
	if len(devices) == 0 {
		r.Info("No simulators found")
		return
	}

	fmt.Fprintf(os.Stderr, "\n%s\n", bold("IOS SIMULATORS"))
	for _, d := range devices {
		stateColor := dim
		if d.State == simctl.StateBooted {
			stateColor = green
		}
		fmt.Fprintf(os.Stderr, "  %-32s %s %s\n",
			d.Name,
			dim(d.Runtime),
			stateColor(fmt.Sprintf("[%s]", d.State)),
		)
	}
	fmt.Fprintln(os.Stderr)
}
