package adb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mobilectl/mobilectl/internal/platform"
)

const (
	// recordStartGrace is how long a freshly spawned screenrecord gets to
	// fail before start is reported as successful.
	recordStartGrace = 500 * time.Millisecond
	// recordStopWait bounds the finalization wait after SIGINT.
	recordStopWait = 5 * time.Second
)

// Push copies a local file to the device. The local path must exist; the
// remote side is left to adb's own error reporting.
func (c *Client) Push(ctx context.Context, serial, localPath, remotePath string) error {
	const op = "adb push"
	if err := requireSerial(op, serial); err != nil {
		return err
	}
	if strings.TrimSpace(localPath) == "" || strings.TrimSpace(remotePath) == "" {
		return platform.Preconditionf(op, "local and remote paths are required")
	}
	if _, err := os.Stat(localPath); err != nil {
		return platform.Preconditionf(op, "local file %s: %v", localPath, err)
	}
	if err := c.ensure(ctx, op); err != nil {
		return err
	}

	if _, err := c.exec.Output(ctx, c.path, "-s", serial, "push", localPath, remotePath); err != nil {
		return platform.ToolFailed(op, fmt.Errorf("push %s: %w", localPath, err))
	}
	return nil
}

// Pull copies a device file to a local path.
func (c *Client) Pull(ctx context.Context, serial, remotePath, localPath string) error {
	const op = "adb pull"
	if err := requireSerial(op, serial); err != nil {
		return err
	}
	if strings.TrimSpace(remotePath) == "" || strings.TrimSpace(localPath) == "" {
		return platform.Preconditionf(op, "remote and local paths are required")
	}
	if err := c.ensure(ctx, op); err != nil {
		return err
	}

	if _, err := c.exec.Output(ctx, c.path, "-s", serial, "pull", remotePath, localPath); err != nil {
		return platform.ToolFailed(op, fmt.Errorf("pull %s: %w", remotePath, err))
	}
	return nil
}

// RemoveFile deletes a file on the device.
func (c *Client) RemoveFile(ctx context.Context, serial, remotePath string) error {
	const op = "adb rm"
	if err := requireSerial(op, serial); err != nil {
		return err
	}
	if strings.TrimSpace(remotePath) == "" {
		return platform.Preconditionf(op, "remote path is required")
	}
	if err := c.ensure(ctx, op); err != nil {
		return err
	}

	if _, err := c.exec.Output(ctx, c.path, "-s", serial, "shell", "rm", remotePath); err != nil {
		return platform.ToolFailed(op, fmt.Errorf("rm %s: %w", remotePath, err))
	}
	return nil
}

// Screenshot captures the screen as PNG bytes. The image is staged through
// unique device-side and host-side temp files, both removed before
// returning. Failures surface as typed errors, never as a silent nil.
func (c *Client) Screenshot(ctx context.Context, serial string) ([]byte, error) {
	const op = "adb screenshot"
	if err := requireSerial(op, serial); err != nil {
		return nil, err
	}
	if err := c.ensure(ctx, op); err != nil {
		return nil, err
	}

	name := "mobilectl-" + uuid.NewString() + ".png"
	remote := c.remoteDir + "/" + name
	local := filepath.Join(os.TempDir(), name)

	if _, err := c.exec.Output(ctx, c.path, "-s", serial, "shell", "screencap", "-p", remote); err != nil {
		return nil, platform.ToolFailed(op, fmt.Errorf("screencap: %w", err))
	}
	defer c.exec.Output(ctx, c.path, "-s", serial, "shell", "rm", remote) //nolint:errcheck

	if _, err := c.exec.Output(ctx, c.path, "-s", serial, "pull", remote, local); err != nil {
		return nil, platform.ToolFailed(op, fmt.Errorf("pull screenshot: %w", err))
	}
	defer os.Remove(local)

	data, err := os.ReadFile(local)
	if err != nil {
		return nil, platform.ToolFailed(op, fmt.Errorf("read screenshot: %w", err))
	}
	return data, nil
}

// BugReportResult describes a completed bug report capture.
type BugReportResult struct {
	Path    string
	SizeMiB float64
}

// BugReport captures a full bug report zip, bounded by timeout. On expiry
// the adb process is killed and a timeout error returned.
func (c *Client) BugReport(ctx context.Context, serial, zipPath string, timeout time.Duration) (*BugReportResult, error) {
	const op = "adb bugreport"
	if err := requireSerial(op, serial); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, platform.Preconditionf(op, "timeout must be positive")
	}
	if err := c.ensure(ctx, op); err != nil {
		return nil, err
	}

	if zipPath == "" {
		zipPath = filepath.Join(os.TempDir(), "bugreport-"+uuid.NewString()+".zip")
	}

	p, err := c.exec.Start(ctx, c.path, "-s", serial, "bugreport", zipPath)
	if err != nil {
		return nil, platform.ToolFailed(op, err)
	}

	exited, waitErr := p.WaitTimeout(timeout)
	if !exited {
		_ = p.Kill()
		return nil, platform.Timeoutf(op, "bug report did not finish within %s", timeout)
	}
	if waitErr != nil {
		return nil, platform.ToolFailed(op, waitErr)
	}

	info, err := os.Stat(zipPath)
	if err != nil {
		return nil, platform.ToolFailed(op, fmt.Errorf("bug report file missing: %w", err))
	}
	return &BugReportResult{
		Path:    zipPath,
		SizeMiB: float64(info.Size()) / (1024 * 1024),
	}, nil
}

// ScreenRecordStart spawns a detached screenrecord process and returns an
// opaque session token for ScreenRecordStop. A short grace wait catches
// recordings that die immediately.
func (c *Client) ScreenRecordStart(ctx context.Context, serial string) (string, error) {
	const op = "adb screenrecord start"
	if err := requireSerial(op, serial); err != nil {
		return "", err
	}
	if err := c.ensure(ctx, op); err != nil {
		return "", err
	}

	remote := c.remoteDir + "/mobilectl-rec-" + uuid.NewString() + ".mp4"
	p, err := c.exec.Start(ctx, c.path, "-s", serial, "shell", "screenrecord", remote)
	if err != nil {
		return "", platform.ToolFailed(op, err)
	}

	if exited, waitErr := p.WaitTimeout(recordStartGrace); exited {
		if waitErr == nil {
			waitErr = fmt.Errorf("screenrecord exited immediately")
		}
		return "", platform.ToolFailed(op, waitErr)
	}

	s := c.sessions.Add(p, remote, "")
	return s.Token, nil
}

// ScreenRecordStop ends the recording identified by token, waits for the
// device to finalize the file, pulls it to localPath (a generated temp path
// when empty), and removes the device-side copy. Returns the local path.
func (c *Client) ScreenRecordStop(ctx context.Context, serial, token, localPath string) (string, error) {
	const op = "adb screenrecord stop"
	if err := requireSerial(op, serial); err != nil {
		return "", err
	}
	if strings.TrimSpace(token) == "" {
		return "", platform.Preconditionf(op, "session token is required")
	}

	s, err := c.sessions.Take(token)
	if err != nil {
		return "", platform.Preconditionf(op, "%v", err)
	}

	_ = s.Proc.Signal(os.Interrupt)
	if exited, _ := s.Proc.WaitTimeout(recordStopWait); !exited {
		_ = s.Proc.Kill()
	}

	if localPath == "" {
		localPath = filepath.Join(os.TempDir(), filepath.Base(s.RemotePath))
	}
	if _, err := c.exec.Output(ctx, c.path, "-s", serial, "pull", s.RemotePath, localPath); err != nil {
		return "", platform.ToolFailed(op, fmt.Errorf("pull recording: %w", err))
	}
	_, _ = c.exec.Output(ctx, c.path, "-s", serial, "shell", "rm", s.RemotePath)

	return localPath, nil
}
