package simctl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/mobilectl/mobilectl/internal/platform"
	"github.com/mobilectl/mobilectl/internal/process"
)

const (
	recordStartGrace = 500 * time.Millisecond
	recordStopWait   = 5 * time.Second
)

// Manager wraps `xcrun simctl` for simulator lifecycle, app management, and
// media capture.
type Manager struct {
	exec     process.Executor
	xcrun    string
	sessions *process.SessionRegistry
}

func NewManager(exec process.Executor) *Manager {
	return &Manager{
		exec:     exec,
		xcrun:    "xcrun",
		sessions: process.NewSessionRegistry(),
	}
}

// SetPath overrides the xcrun binary location.
func (m *Manager) SetPath(p string) {
	if p != "" {
		m.xcrun = p
	}
}

// Available probes the tool; re-checked on every operation, never cached.
func (m *Manager) Available(ctx context.Context) bool {
	_, err := m.exec.Output(ctx, m.xcrun, "simctl", "help")
	return err == nil
}

func (m *Manager) ensure(ctx context.Context, op string) error {
	if !m.Available(ctx) {
		return platform.Preconditionf(op, "xcrun simctl is not available on this host")
	}
	return nil
}

func requireUDID(op, udid string) error {
	if strings.TrimSpace(udid) == "" {
		return platform.Preconditionf(op, "simulator UDID is required")
	}
	return nil
}

// List returns all available simulators. The JSON listing is the single
// source of truth; runtime identifiers come back reduced to their trailing
// component. With onlyBooted set, shut-down simulators are skipped.
func (m *Manager) List(ctx context.Context, onlyBooted bool) ([]Device, error) {
	const op = "simctl list"
	if err := m.ensure(ctx, op); err != nil {
		return nil, err
	}

	out, err := m.exec.Output(ctx, m.xcrun, "simctl", "list", "devices", "--json")
	if err != nil {
		return nil, platform.ToolFailed(op, err)
	}

	parsed := gjson.ParseBytes(out)
	if !parsed.Get("devices").Exists() {
		return nil, platform.ParseFailed(op, fmt.Errorf("no devices key in simctl output"))
	}

	var devices []Device
	parsed.Get("devices").ForEach(func(runtime, list gjson.Result) bool {
		rt := shortRuntime(runtime.String())
		list.ForEach(func(_, dev gjson.Result) bool {
			if !dev.Get("isAvailable").Bool() {
				return true
			}
			state := DeviceState(dev.Get("state").String())
			if onlyBooted && state != StateBooted {
				return true
			}
			devices = append(devices, Device{
				UDID:        dev.Get("udid").String(),
				Name:        dev.Get("name").String(),
				Runtime:     rt,
				State:       state,
				IsAvailable: true,
			})
			return true
		})
		return true
	})

	return devices, nil
}

// Boot boots a simulator. Booting an already booted device is simctl's
// error to report, not ours.
func (m *Manager) Boot(ctx context.Context, udid string) error {
	return m.simpleOp(ctx, "simctl boot", udid, "boot", udid)
}

// Shutdown shuts a simulator down.
func (m *Manager) Shutdown(ctx context.Context, udid string) error {
	return m.simpleOp(ctx, "simctl shutdown", udid, "shutdown", udid)
}

// Erase resets a simulator to factory state.
func (m *Manager) Erase(ctx context.Context, udid string) error {
	return m.simpleOp(ctx, "simctl erase", udid, "erase", udid)
}

// Install installs a .app bundle.
func (m *Manager) Install(ctx context.Context, udid, appPath string) error {
	const op = "simctl install"
	if err := requireUDID(op, udid); err != nil {
		return err
	}
	if strings.TrimSpace(appPath) == "" {
		return platform.Preconditionf(op, "app path is required")
	}
	return m.run(ctx, op, "install", udid, appPath)
}

// Launch starts an app by bundle identifier.
func (m *Manager) Launch(ctx context.Context, udid, bundleID string) error {
	const op = "simctl launch"
	if err := requireUDID(op, udid); err != nil {
		return err
	}
	if strings.TrimSpace(bundleID) == "" {
		return platform.Preconditionf(op, "bundle identifier is required")
	}
	return m.run(ctx, op, "launch", udid, bundleID)
}

// Terminate stops a running app.
func (m *Manager) Terminate(ctx context.Context, udid, bundleID string) error {
	const op = "simctl terminate"
	if err := requireUDID(op, udid); err != nil {
		return err
	}
	if strings.TrimSpace(bundleID) == "" {
		return platform.Preconditionf(op, "bundle identifier is required")
	}
	return m.run(ctx, op, "terminate", udid, bundleID)
}

// Uninstall removes an app.
func (m *Manager) Uninstall(ctx context.Context, udid, bundleID string) error {
	const op = "simctl uninstall"
	if err := requireUDID(op, udid); err != nil {
		return err
	}
	if strings.TrimSpace(bundleID) == "" {
		return platform.Preconditionf(op, "bundle identifier is required")
	}
	return m.run(ctx, op, "uninstall", udid, bundleID)
}

// Screenshot captures the simulator screen as PNG bytes via a unique local
// temp file, removed before returning.
func (m *Manager) Screenshot(ctx context.Context, udid string) ([]byte, error) {
	const op = "simctl screenshot"
	if err := requireUDID(op, udid); err != nil {
		return nil, err
	}
	if err := m.ensure(ctx, op); err != nil {
		return nil, err
	}

	local := filepath.Join(os.TempDir(), "mobilectl-"+uuid.NewString()+".png")
	if _, err := m.exec.Output(ctx, m.xcrun, "simctl", "io", udid, "screenshot", local); err != nil {
		return nil, platform.ToolFailed(op, err)
	}
	defer os.Remove(local)

	data, err := os.ReadFile(local)
	if err != nil {
		return nil, platform.ToolFailed(op, fmt.Errorf("read screenshot: %w", err))
	}
	return data, nil
}

// Logs returns recent unified log output for the simulator. last is a
// log-tool window like "2m" or "30s"; bundleID, when set, narrows the
// predicate to that process.
func (m *Manager) Logs(ctx context.Context, udid, last, bundleID string) (string, error) {
	const op = "simctl logs"
	if err := requireUDID(op, udid); err != nil {
		return "", err
	}
	if err := m.ensure(ctx, op); err != nil {
		return "", err
	}

	args := []string{"simctl", "spawn", udid, "log", "show", "--style", "compact"}
	if last != "" {
		args = append(args, "--last", last)
	}
	if bundleID != "" {
		args = append(args, "--predicate", fmt.Sprintf("processImagePath CONTAINS %q", bundleID))
	}
	out, err := m.exec.Output(ctx, m.xcrun, args...)
	if err != nil {
		return "", platform.ToolFailed(op, err)
	}
	return string(out), nil
}

// RecordVideoStart begins recording the simulator screen to a host-side
// file and returns a session token for RecordVideoStop.
func (m *Manager) RecordVideoStart(ctx context.Context, udid string) (string, error) {
	const op = "simctl recordVideo start"
	if err := requireUDID(op, udid); err != nil {
		return "", err
	}
	if err := m.ensure(ctx, op); err != nil {
		return "", err
	}

	local := filepath.Join(os.TempDir(), "mobilectl-rec-"+uuid.NewString()+".mov")
	p, err := m.exec.Start(ctx, m.xcrun, "simctl", "io", udid, "recordVideo", local)
	if err != nil {
		return "", platform.ToolFailed(op, err)
	}

	if exited, waitErr := p.WaitTimeout(recordStartGrace); exited {
		if waitErr == nil {
			waitErr = fmt.Errorf("recordVideo exited immediately")
		}
		return "", platform.ToolFailed(op, waitErr)
	}

	s := m.sessions.Add(p, "", local)
	return s.Token, nil
}

// RecordVideoStop ends the recording for token, waits for simctl to
// finalize the file, and returns its path.
func (m *Manager) RecordVideoStop(ctx context.Context, token string) (string, error) {
	const op = "simctl recordVideo stop"
	if strings.TrimSpace(token) == "" {
		return "", platform.Preconditionf(op, "session token is required")
	}

	s, err := m.sessions.Take(token)
	if err != nil {
		return "", platform.Preconditionf(op, "%v", err)
	}

	_ = s.Proc.Signal(os.Interrupt)
	if exited, _ := s.Proc.WaitTimeout(recordStopWait); !exited {
		_ = s.Proc.Kill()
		return "", platform.Timeoutf(op, "recording did not finalize within %s", recordStopWait)
	}

	if _, err := os.Stat(s.LocalPath); err != nil {
		return "", platform.ToolFailed(op, fmt.Errorf("recording file missing: %w", err))
	}
	return s.LocalPath, nil
}

func (m *Manager) simpleOp(ctx context.Context, op, udid string, args ...string) error {
	if err := requireUDID(op, udid); err != nil {
		return err
	}
	return m.run(ctx, op, args...)
}

func (m *Manager) run(ctx context.Context, op string, args ...string) error {
	if err := m.ensure(ctx, op); err != nil {
		return err
	}
	full := append([]string{"simctl"}, args...)
	if _, err := m.exec.Output(ctx, m.xcrun, full...); err != nil {
		return platform.ToolFailed(op, err)
	}
	return nil
}
