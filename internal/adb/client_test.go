package adb

import (
	"context"
	"errors"
	"testing"

	"github.com/mobilectl/mobilectl/internal/platform"
	"github.com/mobilectl/mobilectl/internal/process/processtest"
)

func TestEmptySerialSpawnsNothing(t *testing.T) {
	ctx := context.Background()
	exec := processtest.NewExecutor()
	client := NewClient(exec)

	calls := []struct {
		name string
		run  func() error
	}{
		{"Packages", func() error { _, err := client.Packages(ctx, "", false); return err }},
		{"Install", func() error { return client.Install(ctx, "", "/tmp/app.apk") }},
		{"Uninstall", func() error { return client.Uninstall(ctx, "", "com.example") }},
		{"Launch", func() error { return client.Launch(ctx, "", "com.example") }},
		{"Terminate", func() error { return client.Terminate(ctx, "", "com.example") }},
		{"Shell", func() error { _, err := client.Shell(ctx, "", "ls"); return err }},
		{"Tap", func() error { return client.Tap(ctx, "", 1, 2) }},
		{"Swipe", func() error { return client.Swipe(ctx, "", 1, 2, 3, 4, 0) }},
		{"InputText", func() error { return client.InputText(ctx, "", "hi") }},
		{"PressKey", func() error { return client.PressKey(ctx, "", "4") }},
		{"Logcat", func() error { _, err := client.Logcat(ctx, " ", 0, ""); return err }},
		{"Pull", func() error { return client.Pull(ctx, "", "/sdcard/a", "/tmp/a") }},
		{"RemoveFile", func() error { return client.RemoveFile(ctx, "", "/sdcard/a") }},
		{"Screenshot", func() error { _, err := client.Screenshot(ctx, ""); return err }},
		{"ScreenRecordStart", func() error { _, err := client.ScreenRecordStart(ctx, ""); return err }},
	}

	for _, tc := range calls {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			if err == nil {
				t.Fatal("expected an error for empty serial")
			}
			if platform.KindOf(err) != platform.KindPrecondition {
				t.Errorf("expected precondition error, got %v", err)
			}
		})
	}

	if n := exec.CallCount(); n != 0 {
		t.Errorf("expected zero process spawns, got %d: %v", n, exec.Calls())
	}
}

func TestToolUnavailableIsPrecondition(t *testing.T) {
	exec := processtest.NewExecutor()
	exec.Respond("version", "", errors.New("adb: command not found"))

	client := NewClient(exec)
	_, err := client.Devices(context.Background())
	if err == nil {
		t.Fatal("expected an error when adb is missing")
	}
	if platform.KindOf(err) != platform.KindPrecondition {
		t.Errorf("expected precondition error, got %v", err)
	}
}

func TestDevices(t *testing.T) {
	exec := processtest.NewExecutor()
	exec.Respond("devices -l",
		"List of devices attached\nSERIAL123 device product:panther model:Pixel_7\n", nil)

	client := NewClient(exec)
	devices, err := client.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if len(devices) != 1 || devices[0].Serial != "SERIAL123" {
		t.Fatalf("unexpected devices: %+v", devices)
	}
}

func TestPackagesUserOnlyFlag(t *testing.T) {
	exec := processtest.NewExecutor()
	exec.Respond("pm list packages", "package:com.example.app\n", nil)

	client := NewClient(exec)
	packages, err := client.Packages(context.Background(), "SERIAL123", true)
	if err != nil {
		t.Fatalf("Packages: %v", err)
	}
	if len(packages) != 1 || packages[0] != "com.example.app" {
		t.Fatalf("unexpected packages: %v", packages)
	}

	var sawFlag bool
	for _, call := range exec.Calls() {
		for _, a := range call.Args {
			if a == "-3" {
				sawFlag = true
			}
		}
	}
	if !sawFlag {
		t.Error("expected -3 for user-only package listing")
	}
}

func TestInstallFailureIsToolFailed(t *testing.T) {
	exec := processtest.NewExecutor()
	exec.Respond("install", "", errors.New("INSTALL_FAILED_INVALID_APK"))

	client := NewClient(exec)
	err := client.Install(context.Background(), "SERIAL123", "/tmp/app.apk")
	if err == nil {
		t.Fatal("expected install to fail")
	}
	if platform.KindOf(err) != platform.KindToolFailed {
		t.Errorf("expected tool-failed error, got %v", err)
	}
}
