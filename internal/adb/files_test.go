package adb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mobilectl/mobilectl/internal/platform"
	"github.com/mobilectl/mobilectl/internal/process"
	"github.com/mobilectl/mobilectl/internal/process/processtest"
)

// fakeRemoteFS wires push/pull/screencap through an in-memory device
// filesystem so transfers can be verified byte for byte.
func fakeRemoteFS(exec *processtest.Executor, remote map[string][]byte) {
	exec.OnOutput(func(name string, args []string) ([]byte, error, bool) {
		for i, a := range args {
			switch a {
			case "push":
				data, err := os.ReadFile(args[i+1])
				if err != nil {
					return nil, err, true
				}
				remote[args[i+2]] = data
				return nil, nil, true
			case "pull":
				data, ok := remote[args[i+1]]
				if !ok {
					return nil, fmt.Errorf("remote object '%s' does not exist", args[i+1]), true
				}
				return nil, os.WriteFile(args[i+2], data, 0o644), true
			case "screencap":
				remote[args[len(args)-1]] = []byte("\x89PNG fake image data")
				return nil, nil, true
			}
		}
		return nil, nil, false
	})
}

func TestPushPullRoundTrip(t *testing.T) {
	ctx := context.Background()
	exec := processtest.NewExecutor()
	remote := map[string][]byte{}
	fakeRemoteFS(exec, remote)

	content := []byte("round trip payload \x00\x01\x02")
	src := filepath.Join(t.TempDir(), "src.bin")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	client := NewClient(exec)
	if err := client.Push(ctx, "SERIAL123", src, "/sdcard/payload.bin"); err != nil {
		t.Fatalf("Push: %v", err)
	}

	dst := filepath.Join(t.TempDir(), "dst.bin")
	if err := client.Pull(ctx, "SERIAL123", "/sdcard/payload.bin", dst); err != nil {
		t.Fatalf("Pull: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("round trip changed content: got %q want %q", got, content)
	}
}

func TestPushMissingLocalFileIsPrecondition(t *testing.T) {
	exec := processtest.NewExecutor()
	client := NewClient(exec)

	err := client.Push(context.Background(), "SERIAL123", "/does/not/exist", "/sdcard/x")
	if err == nil {
		t.Fatal("expected an error")
	}
	if platform.KindOf(err) != platform.KindPrecondition {
		t.Errorf("expected precondition error, got %v", err)
	}
	if exec.CallCount() != 0 {
		t.Errorf("expected zero spawns, got %v", exec.Calls())
	}
}

func TestScreenshotReturnsBytesAndCleansUp(t *testing.T) {
	exec := processtest.NewExecutor()
	remote := map[string][]byte{}
	fakeRemoteFS(exec, remote)

	client := NewClient(exec)
	png, err := client.Screenshot(context.Background(), "SERIAL123")
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("unexpected screenshot bytes: %q", png)
	}

	var sawRemoteRM bool
	for _, call := range exec.Calls() {
		for i, a := range call.Args {
			if a == "rm" && i+1 < len(call.Args) {
				sawRemoteRM = true
			}
		}
	}
	if !sawRemoteRM {
		t.Error("expected the device-side temp file to be removed")
	}
}

func TestScreenshotPullFailureSurfaces(t *testing.T) {
	exec := processtest.NewExecutor()
	exec.Respond("pull", "", errors.New("device offline"))

	client := NewClient(exec)
	_, err := client.Screenshot(context.Background(), "SERIAL123")
	if err == nil {
		t.Fatal("expected pull failure to surface, not vanish")
	}
	if platform.KindOf(err) != platform.KindToolFailed {
		t.Errorf("expected tool-failed error, got %v", err)
	}
}

func TestBugReportTimeoutKillsProcess(t *testing.T) {
	exec := processtest.NewExecutor()
	hung := &processtest.Proc{} // never exits
	exec.OnStart(func(name string, args []string) process.Proc { return hung })

	client := NewClient(exec)
	start := time.Now()
	_, err := client.BugReport(context.Background(), "SERIAL123", "", 100*time.Millisecond)
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if platform.KindOf(err) != platform.KindTimeout {
		t.Errorf("expected timeout error, got %v", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("timeout took %s, expected ~100ms", elapsed)
	}
	if !hung.Killed() {
		t.Error("expected the hung process to be killed")
	}
}

func TestBugReportSuccessReportsFile(t *testing.T) {
	zip := filepath.Join(t.TempDir(), "report.zip")
	if err := os.WriteFile(zip, bytes.Repeat([]byte("z"), 2048), 0o644); err != nil {
		t.Fatal(err)
	}

	exec := processtest.NewExecutor()
	exec.OnStart(func(name string, args []string) process.Proc {
		return processtest.ExitedProc(nil)
	})

	client := NewClient(exec)
	result, err := client.BugReport(context.Background(), "SERIAL123", zip, time.Second)
	if err != nil {
		t.Fatalf("BugReport: %v", err)
	}
	if result.Path != zip {
		t.Errorf("unexpected path %q", result.Path)
	}
	if result.SizeMiB <= 0 {
		t.Errorf("expected a positive size, got %f", result.SizeMiB)
	}
}

func TestScreenRecordLifecycle(t *testing.T) {
	ctx := context.Background()
	exec := processtest.NewExecutor()
	rec := &processtest.Proc{}
	exec.OnStart(func(name string, args []string) process.Proc { return rec })

	client := NewClient(exec)
	token, err := client.ScreenRecordStart(ctx, "SERIAL123")
	if err != nil {
		t.Fatalf("ScreenRecordStart: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}

	local := filepath.Join(t.TempDir(), "rec.mp4")
	path, err := client.ScreenRecordStop(ctx, "SERIAL123", token, local)
	if err != nil {
		t.Fatalf("ScreenRecordStop: %v", err)
	}
	if path != local {
		t.Errorf("unexpected path %q", path)
	}
	if len(rec.Signals()) == 0 {
		t.Error("expected the recorder to be signalled")
	}

	// Tokens are single use.
	if _, err := client.ScreenRecordStop(ctx, "SERIAL123", token, local); err == nil {
		t.Error("expected reusing a token to fail")
	}
}

func TestScreenRecordStartDetectsImmediateExit(t *testing.T) {
	exec := processtest.NewExecutor()
	exec.OnStart(func(name string, args []string) process.Proc {
		return processtest.ExitedProc(errors.New("screenrecord: not supported"))
	})

	client := NewClient(exec)
	_, err := client.ScreenRecordStart(context.Background(), "SERIAL123")
	if err == nil {
		t.Fatal("expected immediate exit to fail the start")
	}
	if platform.KindOf(err) != platform.KindToolFailed {
		t.Errorf("expected tool-failed error, got %v", err)
	}
}
