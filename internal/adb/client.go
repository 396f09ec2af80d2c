package adb

import (
	"context"
	"fmt"
	"strings"

	"github.com/mobilectl/mobilectl/internal/platform"
	"github.com/mobilectl/mobilectl/internal/process"
)

// Client wraps the Android debug bridge CLI. Every operation is one
// subprocess invocation; no state is carried between calls except the
// recording session registry.
type Client struct {
	exec      process.Executor
	path      string
	remoteDir string
	sessions  *process.SessionRegistry
}

func NewClient(exec process.Executor) *Client {
	return &Client{
		exec:      exec,
		path:      "adb",
		remoteDir: "/sdcard",
		sessions:  process.NewSessionRegistry(),
	}
}

// SetPath overrides the adb binary location.
func (c *Client) SetPath(p string) {
	if p != "" {
		c.path = p
	}
}

// SetRemoteDir overrides the device-side staging directory.
func (c *Client) SetRemoteDir(dir string) {
	if dir != "" {
		c.remoteDir = strings.TrimRight(dir, "/")
	}
}

// Available probes the tool with `adb version`. The result is never cached:
// every operation re-probes so a freshly removed or installed adb is seen
// immediately.
func (c *Client) Available(ctx context.Context) bool {
	_, err := c.exec.Output(ctx, c.path, "version")
	return err == nil
}

// ensure checks tool availability. Callers validate arguments first so a
// bad argument spawns nothing at all.
func (c *Client) ensure(ctx context.Context, op string) error {
	if !c.Available(ctx) {
		return platform.Preconditionf(op, "adb is not installed or not on PATH")
	}
	return nil
}

func requireSerial(op, serial string) error {
	if strings.TrimSpace(serial) == "" {
		return platform.Preconditionf(op, "device serial is required")
	}
	return nil
}

// Devices returns all connected devices.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	const op = "adb devices"
	if err := c.ensure(ctx, op); err != nil {
		return nil, err
	}
	out, err := c.exec.Output(ctx, c.path, "devices", "-l")
	if err != nil {
		return nil, platform.ToolFailed(op, err)
	}
	return parseDeviceList(string(out)), nil
}

// Packages lists installed package names on the device. With userOnly set,
// system packages are excluded.
func (c *Client) Packages(ctx context.Context, serial string, userOnly bool) ([]string, error) {
	const op = "adb list packages"
	if err := requireSerial(op, serial); err != nil {
		return nil, err
	}
	if err := c.ensure(ctx, op); err != nil {
		return nil, err
	}

	args := []string{"-s", serial, "shell", "pm", "list", "packages"}
	if userOnly {
		args = append(args, "-3")
	}
	out, err := c.exec.Output(ctx, c.path, args...)
	if err != nil {
		return nil, platform.ToolFailed(op, err)
	}
	return parsePackageList(string(out)), nil
}

// Install installs an APK from a local path, replacing any existing install.
func (c *Client) Install(ctx context.Context, serial, apkPath string) error {
	const op = "adb install"
	if err := requireSerial(op, serial); err != nil {
		return err
	}
	if strings.TrimSpace(apkPath) == "" {
		return platform.Preconditionf(op, "apk path is required")
	}
	if err := c.ensure(ctx, op); err != nil {
		return err
	}

	if _, err := c.exec.Output(ctx, c.path, "-s", serial, "install", "-r", apkPath); err != nil {
		return platform.ToolFailed(op, fmt.Errorf("install %s: %w", apkPath, err))
	}
	return nil
}

// Uninstall removes a package from the device.
func (c *Client) Uninstall(ctx context.Context, serial, pkg string) error {
	const op = "adb uninstall"
	if err := requireSerial(op, serial); err != nil {
		return err
	}
	if strings.TrimSpace(pkg) == "" {
		return platform.Preconditionf(op, "package name is required")
	}
	if err := c.ensure(ctx, op); err != nil {
		return err
	}

	if _, err := c.exec.Output(ctx, c.path, "-s", serial, "uninstall", pkg); err != nil {
		return platform.ToolFailed(op, fmt.Errorf("uninstall %s: %w", pkg, err))
	}
	return nil
}

// Launch starts a package's launcher activity.
func (c *Client) Launch(ctx context.Context, serial, pkg string) error {
	const op = "adb launch"
	if err := requireSerial(op, serial); err != nil {
		return err
	}
	if strings.TrimSpace(pkg) == "" {
		return platform.Preconditionf(op, "package name is required")
	}
	if err := c.ensure(ctx, op); err != nil {
		return err
	}

	args := []string{"-s", serial, "shell", "monkey", "-p", pkg,
		"-c", "android.intent.category.LAUNCHER", "1"}
	if _, err := c.exec.Output(ctx, c.path, args...); err != nil {
		return platform.ToolFailed(op, fmt.Errorf("launch %s: %w", pkg, err))
	}
	return nil
}

// Terminate force-stops a package.
func (c *Client) Terminate(ctx context.Context, serial, pkg string) error {
	const op = "adb terminate"
	if err := requireSerial(op, serial); err != nil {
		return err
	}
	if strings.TrimSpace(pkg) == "" {
		return platform.Preconditionf(op, "package name is required")
	}
	if err := c.ensure(ctx, op); err != nil {
		return err
	}

	if _, err := c.exec.Output(ctx, c.path, "-s", serial, "shell", "am", "force-stop", pkg); err != nil {
		return platform.ToolFailed(op, fmt.Errorf("force-stop %s: %w", pkg, err))
	}
	return nil
}

// Shell runs an arbitrary shell command on the device and returns its
// output. The command is passed to adb as discrete arguments.
func (c *Client) Shell(ctx context.Context, serial string, command ...string) (string, error) {
	const op = "adb shell"
	if err := requireSerial(op, serial); err != nil {
		return "", err
	}
	if len(command) == 0 {
		return "", platform.Preconditionf(op, "command is required")
	}
	if err := c.ensure(ctx, op); err != nil {
		return "", err
	}

	args := append([]string{"-s", serial, "shell"}, command...)
	out, err := c.exec.Output(ctx, c.path, args...)
	if err != nil {
		return "", platform.ToolFailed(op, err)
	}
	return string(out), nil
}
