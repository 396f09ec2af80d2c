package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mobilectl/mobilectl/internal/adb"
)

type AndroidListDevicesInput struct{}

func (s *Server) handleAndroidListDevices(ctx context.Context, req *mcp.CallToolRequest, in AndroidListDevicesInput) (*mcp.CallToolResult, any, error) {
	devices, err := s.android.Devices(ctx)
	if err != nil {
		return s.fail("android_list_devices", err), nil, nil
	}
	if len(devices) == 0 {
		return textResult("No devices found."), nil, nil
	}

	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, []string{d.Serial, d.State, d.Product, d.Model})
	}
	return textResult("%s", markdownTable("Connected Android Devices",
		[]string{"Serial", "State", "Product", "Model"}, rows)), nil, nil
}

type AndroidListPackagesInput struct {
	DeviceSerial string `json:"device_serial" jsonschema:"description=Android device serial number"`
	UserOnly     bool   `json:"user_only,omitempty" jsonschema:"description=Only list user-installed packages"`
}

func (s *Server) handleAndroidListPackages(ctx context.Context, req *mcp.CallToolRequest, in AndroidListPackagesInput) (*mcp.CallToolResult, any, error) {
	packages, err := s.android.Packages(ctx, in.DeviceSerial, in.UserOnly)
	if err != nil {
		return s.fail("android_list_packages", err), nil, nil
	}
	if len(packages) == 0 {
		return textResult("No packages found."), nil, nil
	}

	rows := make([][]string, 0, len(packages))
	for _, p := range packages {
		rows = append(rows, []string{p})
	}
	return textResult("%s", markdownTable("Installed Packages",
		[]string{"Package"}, rows)), nil, nil
}

type AndroidInstallAppInput struct {
	DeviceSerial string `json:"device_serial" jsonschema:"description=Android device serial number"`
	APKPath      string `json:"apk_path" jsonschema:"description=Local path to the APK file"`
}

func (s *Server) handleAndroidInstallApp(ctx context.Context, req *mcp.CallToolRequest, in AndroidInstallAppInput) (*mcp.CallToolResult, any, error) {
	if err := s.android.Install(ctx, in.DeviceSerial, in.APKPath); err != nil {
		return s.fail("android_install_app", err), nil, nil
	}
	return textResult("Installed %s on device %s.", in.APKPath, in.DeviceSerial), nil, nil
}

type AndroidUninstallAppInput struct {
	DeviceSerial string `json:"device_serial" jsonschema:"description=Android device serial number"`
	PackageName  string `json:"package_name" jsonschema:"description=Package name, e.g. com.example.app"`
}

func (s *Server) handleAndroidUninstallApp(ctx context.Context, req *mcp.CallToolRequest, in AndroidUninstallAppInput) (*mcp.CallToolResult, any, error) {
	if err := s.android.Uninstall(ctx, in.DeviceSerial, in.PackageName); err != nil {
		return s.fail("android_uninstall_app", err), nil, nil
	}
	return textResult("Uninstalled %s from device %s.", in.PackageName, in.DeviceSerial), nil, nil
}

type AndroidLaunchAppInput struct {
	DeviceSerial string `json:"device_serial" jsonschema:"description=Android device serial number"`
	PackageName  string `json:"package_name" jsonschema:"description=Package name, e.g. com.example.app"`
}

func (s *Server) handleAndroidLaunchApp(ctx context.Context, req *mcp.CallToolRequest, in AndroidLaunchAppInput) (*mcp.CallToolResult, any, error) {
	if err := s.android.Launch(ctx, in.DeviceSerial, in.PackageName); err != nil {
		return s.fail("android_launch_app", err), nil, nil
	}
	return textResult("Launched %s on device %s.", in.PackageName, in.DeviceSerial), nil, nil
}

type AndroidTerminateAppInput struct {
	DeviceSerial string `json:"device_serial" jsonschema:"description=Android device serial number"`
	PackageName  string `json:"package_name" jsonschema:"description=Package name, e.g. com.example.app"`
}

func (s *Server) handleAndroidTerminateApp(ctx context.Context, req *mcp.CallToolRequest, in AndroidTerminateAppInput) (*mcp.CallToolResult, any, error) {
	if err := s.android.Terminate(ctx, in.DeviceSerial, in.PackageName); err != nil {
		return s.fail("android_terminate_app", err), nil, nil
	}
	return textResult("Terminated %s on device %s.", in.PackageName, in.DeviceSerial), nil, nil
}

type AndroidShellInput struct {
	DeviceSerial string   `json:"device_serial" jsonschema:"description=Android device serial number"`
	Command      []string `json:"command" jsonschema:"description=Command and arguments to run on the device"`
}

func (s *Server) handleAndroidShell(ctx context.Context, req *mcp.CallToolRequest, in AndroidShellInput) (*mcp.CallToolResult, any, error) {
	out, err := s.android.Shell(ctx, in.DeviceSerial, in.Command...)
	if err != nil {
		return s.fail("android_shell", err), nil, nil
	}
	return textResult("%s", out), nil, nil
}

type AndroidTapInput struct {
	DeviceSerial string `json:"device_serial" jsonschema:"description=Android device serial number"`
	X            int    `json:"x" jsonschema:"description=X coordinate in pixels"`
	Y            int    `json:"y" jsonschema:"description=Y coordinate in pixels"`
}

func (s *Server) handleAndroidTap(ctx context.Context, req *mcp.CallToolRequest, in AndroidTapInput) (*mcp.CallToolResult, any, error) {
	if err := s.android.Tap(ctx, in.DeviceSerial, in.X, in.Y); err != nil {
		return s.fail("android_ui_tap", err), nil, nil
	}
	return textResult("Tapped (%d, %d) on device %s.", in.X, in.Y, in.DeviceSerial), nil, nil
}

type AndroidSwipeInput struct {
	DeviceSerial string `json:"device_serial" jsonschema:"description=Android device serial number"`
	X1           int    `json:"x1" jsonschema:"description=Start X coordinate"`
	Y1           int    `json:"y1" jsonschema:"description=Start Y coordinate"`
	X2           int    `json:"x2" jsonschema:"description=End X coordinate"`
	Y2           int    `json:"y2" jsonschema:"description=End Y coordinate"`
	DurationMs   int    `json:"duration_ms,omitempty" jsonschema:"description=Swipe duration in milliseconds"`
}

func (s *Server) handleAndroidSwipe(ctx context.Context, req *mcp.CallToolRequest, in AndroidSwipeInput) (*mcp.CallToolResult, any, error) {
	if err := s.android.Swipe(ctx, in.DeviceSerial, in.X1, in.Y1, in.X2, in.Y2, in.DurationMs); err != nil {
		return s.fail("android_ui_swipe", err), nil, nil
	}
	return textResult("Swiped from (%d, %d) to (%d, %d) on device %s.",
		in.X1, in.Y1, in.X2, in.Y2, in.DeviceSerial), nil, nil
}

type AndroidInputTextInput struct {
	DeviceSerial string `json:"device_serial" jsonschema:"description=Android device serial number"`
	Text         string `json:"text" jsonschema:"description=Text to type into the focused field"`
}

func (s *Server) handleAndroidInputText(ctx context.Context, req *mcp.CallToolRequest, in AndroidInputTextInput) (*mcp.CallToolResult, any, error) {
	if err := s.android.InputText(ctx, in.DeviceSerial, in.Text); err != nil {
		return s.fail("android_input_text", err), nil, nil
	}
	return textResult("Typed %q on device %s.", in.Text, in.DeviceSerial), nil, nil
}

type AndroidPressKeyInput struct {
	DeviceSerial string `json:"device_serial" jsonschema:"description=Android device serial number"`
	Keycode      string `json:"keycode" jsonschema:"description=Android keyevent code, numeric or symbolic"`
}

func (s *Server) handleAndroidPressKey(ctx context.Context, req *mcp.CallToolRequest, in AndroidPressKeyInput) (*mcp.CallToolResult, any, error) {
	if err := s.android.PressKey(ctx, in.DeviceSerial, in.Keycode); err != nil {
		return s.fail("android_press_key", err), nil, nil
	}
	return textResult("Pressed key %s on device %s.", in.Keycode, in.DeviceSerial), nil, nil
}

type AndroidGetLogcatInput struct {
	DeviceSerial string `json:"device_serial" jsonschema:"description=Android device serial number"`
	MaxLines     int    `json:"max_lines,omitempty" jsonschema:"description=Limit to the last N lines"`
	LogLevel     string `json:"log_level,omitempty" jsonschema:"description=Filter by level: Verbose, Debug, Info, Warning, Error, or Fatal"`
}

func (s *Server) handleAndroidGetLogcat(ctx context.Context, req *mcp.CallToolRequest, in AndroidGetLogcatInput) (*mcp.CallToolResult, any, error) {
	var level adb.LogLevel
	if in.LogLevel != "" {
		parsed, ok := adb.ParseLogLevel(in.LogLevel)
		if !ok {
			return s.fail("android_get_logcat", &badLogLevelError{in.LogLevel}), nil, nil
		}
		level = parsed
	}

	out, err := s.android.Logcat(ctx, in.DeviceSerial, in.MaxLines, level)
	if err != nil {
		return s.fail("android_get_logcat", err), nil, nil
	}
	return textResult("%s", out), nil, nil
}

type badLogLevelError struct{ level string }

func (e *badLogLevelError) Error() string {
	return "unknown log level " + e.level + " (expected Verbose, Debug, Info, Warning, Error, or Fatal)"
}

type AndroidScreenshotInput struct {
	DeviceSerial string `json:"device_serial" jsonschema:"description=Android device serial number"`
}

func (s *Server) handleAndroidScreenshot(ctx context.Context, req *mcp.CallToolRequest, in AndroidScreenshotInput) (*mcp.CallToolResult, any, error) {
	png, err := s.android.Screenshot(ctx, in.DeviceSerial)
	if err != nil {
		return s.fail("android_screenshot", err), nil, nil
	}
	return imageResult(png), nil, nil
}

type AndroidPushFileInput struct {
	DeviceSerial string `json:"device_serial" jsonschema:"description=Android device serial number"`
	LocalPath    string `json:"local_path" jsonschema:"description=Local source file path"`
	RemotePath   string `json:"remote_path" jsonschema:"description=Destination path on the device"`
}

func (s *Server) handleAndroidPushFile(ctx context.Context, req *mcp.CallToolRequest, in AndroidPushFileInput) (*mcp.CallToolResult, any, error) {
	if err := s.android.Push(ctx, in.DeviceSerial, in.LocalPath, in.RemotePath); err != nil {
		return s.fail("android_push_file", err), nil, nil
	}
	return textResult("Pushed %s to %s on device %s.", in.LocalPath, in.RemotePath, in.DeviceSerial), nil, nil
}

type AndroidPullFileInput struct {
	DeviceSerial string `json:"device_serial" jsonschema:"description=Android device serial number"`
	RemotePath   string `json:"remote_path" jsonschema:"description=Source path on the device"`
	LocalPath    string `json:"local_path" jsonschema:"description=Local destination file path"`
}

func (s *Server) handleAndroidPullFile(ctx context.Context, req *mcp.CallToolRequest, in AndroidPullFileInput) (*mcp.CallToolResult, any, error) {
	if err := s.android.Pull(ctx, in.DeviceSerial, in.RemotePath, in.LocalPath); err != nil {
		return s.fail("android_pull_file", err), nil, nil
	}
	return textResult("Pulled %s to %s from device %s.", in.RemotePath, in.LocalPath, in.DeviceSerial), nil, nil
}

type AndroidDeleteFileInput struct {
	DeviceSerial string `json:"device_serial" jsonschema:"description=Android device serial number"`
	RemotePath   string `json:"remote_path" jsonschema:"description=Path on the device to delete"`
}

func (s *Server) handleAndroidDeleteFile(ctx context.Context, req *mcp.CallToolRequest, in AndroidDeleteFileInput) (*mcp.CallToolResult, any, error) {
	if err := s.android.RemoveFile(ctx, in.DeviceSerial, in.RemotePath); err != nil {
		return s.fail("android_delete_file", err), nil, nil
	}
	return textResult("Deleted %s on device %s.", in.RemotePath, in.DeviceSerial), nil, nil
}

type AndroidBugReportInput struct {
	DeviceSerial   string `json:"device_serial" jsonschema:"description=Android device serial number"`
	ZipPath        string `json:"zip_path,omitempty" jsonschema:"description=Where to write the bug report zip; a temp path is generated when omitted"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" jsonschema:"description=Abort the capture after this many seconds (default 300)"`
}

func (s *Server) handleAndroidBugReport(ctx context.Context, req *mcp.CallToolRequest, in AndroidBugReportInput) (*mcp.CallToolResult, any, error) {
	timeout := time.Duration(in.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	result, err := s.android.BugReport(ctx, in.DeviceSerial, in.ZipPath, timeout)
	if err != nil {
		return s.fail("android_bug_report", err), nil, nil
	}
	return textResult("Bug report saved to %s (%.1f MiB).", result.Path, result.SizeMiB), nil, nil
}

type AndroidScreenRecordStartInput struct {
	DeviceSerial string `json:"device_serial" jsonschema:"description=Android device serial number"`
}

func (s *Server) handleAndroidScreenRecordStart(ctx context.Context, req *mcp.CallToolRequest, in AndroidScreenRecordStartInput) (*mcp.CallToolResult, any, error) {
	token, err := s.android.ScreenRecordStart(ctx, in.DeviceSerial)
	if err != nil {
		return s.fail("android_screen_record_start", err), nil, nil
	}
	return textResult("Recording started. Session token: %s", token), nil, nil
}

type AndroidScreenRecordStopInput struct {
	DeviceSerial string `json:"device_serial" jsonschema:"description=Android device serial number"`
	SessionToken string `json:"session_token" jsonschema:"description=Token returned by android_screen_record_start"`
	LocalPath    string `json:"local_path,omitempty" jsonschema:"description=Where to save the video; a temp path is generated when omitted"`
}

func (s *Server) handleAndroidScreenRecordStop(ctx context.Context, req *mcp.CallToolRequest, in AndroidScreenRecordStopInput) (*mcp.CallToolResult, any, error) {
	path, err := s.android.ScreenRecordStop(ctx, in.DeviceSerial, in.SessionToken, in.LocalPath)
	if err != nil {
		return s.fail("android_screen_record_stop", err), nil, nil
	}
	return textResult("Recording saved to %s.", path), nil, nil
}
