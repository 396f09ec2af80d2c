// Package mcp exposes the device-control catalog as Model Context Protocol
// tools over stdio. Each tool validates its arguments, issues exactly one
// external command through the platform clients, and returns a normalized
// text, table, or image result. Failures come back as soft errors in the
// tool result so the calling agent can read them.
package mcp

import (
	"context"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/mobilectl/mobilectl/internal/adb"
	"github.com/mobilectl/mobilectl/internal/config"
	"github.com/mobilectl/mobilectl/internal/idb"
	"github.com/mobilectl/mobilectl/internal/platform"
	"github.com/mobilectl/mobilectl/internal/process"
	"github.com/mobilectl/mobilectl/internal/simctl"
	"github.com/mobilectl/mobilectl/internal/vision"
)

// Server wires the platform clients into an MCP server.
type Server struct {
	mcpServer *mcp.Server
	android   *adb.Client
	sim       *simctl.Manager
	ui        *idb.Client
	comparer  *vision.Comparer
	log       zerolog.Logger
}

// NewServer builds the server and its clients from config. All blocking
// executions share one bounded runner so no call can hang forever.
func NewServer(version string, cfg *config.Config, log zerolog.Logger) *Server {
	runner := process.NewBoundedRunner(cfg.Timeout())

	android := adb.NewClient(runner)
	android.SetPath(cfg.ADBPath)
	android.SetRemoteDir(cfg.RemoteDir)

	sim := simctl.NewManager(runner)
	sim.SetPath(cfg.XcrunPath)

	uiClient := idb.NewClient(runner)
	uiClient.SetPath(cfg.IDBPath)

	var chat vision.ChatClient
	if cfg.Vision.Endpoint != "" {
		chat = vision.NewOpenAIClient(cfg.Vision.Endpoint, cfg.Vision.Model, os.Getenv(cfg.Vision.APIKeyEnv))
	}

	s := &Server{
		android:  android,
		sim:      sim,
		ui:       uiClient,
		comparer: vision.NewComparer(chat, log),
		log:      log,
	}

	s.mcpServer = mcp.NewServer(
		&mcp.Implementation{
			Name:    "mobilectl",
			Version: version,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info().Msg("serving MCP over stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// fail logs a tool failure and converts it to a soft-error result.
func (s *Server) fail(tool string, err error) *mcp.CallToolResult {
	s.log.Warn().
		Str("tool", tool).
		Stringer("kind", platform.KindOf(err)).
		Err(err).
		Msg("tool failed")
	return errorResult(err)
}

func (s *Server) registerTools() {
	// Android
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_list_devices",
		Description: "List connected Android devices and emulators as a table of serial, state, product, model.",
	}, s.handleAndroidListDevices)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_list_packages",
		Description: "List packages installed on an Android device. Optionally restrict to user-installed packages.",
	}, s.handleAndroidListPackages)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_install_app",
		Description: "Install an APK from a local path onto an Android device, replacing any existing install.",
	}, s.handleAndroidInstallApp)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_uninstall_app",
		Description: "Uninstall a package from an Android device.",
	}, s.handleAndroidUninstallApp)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_launch_app",
		Description: "Launch an installed package's launcher activity on an Android device.",
	}, s.handleAndroidLaunchApp)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_terminate_app",
		Description: "Force-stop a running package on an Android device.",
	}, s.handleAndroidTerminateApp)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_shell",
		Description: "Run a shell command on an Android device and return its output.",
	}, s.handleAndroidShell)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_ui_tap",
		Description: "Tap the Android device screen at the given pixel coordinates.",
	}, s.handleAndroidTap)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_ui_swipe",
		Description: "Swipe on the Android device screen between two points, optionally over a duration in milliseconds.",
	}, s.handleAndroidSwipe)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_input_text",
		Description: "Type text into the currently focused field on an Android device.",
	}, s.handleAndroidInputText)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_press_key",
		Description: "Send a keyevent to an Android device, e.g. 4 (BACK), 3 (HOME), or KEYCODE_ENTER.",
	}, s.handleAndroidPressKey)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_get_logcat",
		Description: "Dump the Android device log, optionally limited to the last N lines and filtered by log level (Verbose, Debug, Info, Warning, Error, Fatal).",
	}, s.handleAndroidGetLogcat)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_screenshot",
		Description: "Capture the Android device screen and return it as a PNG image.",
	}, s.handleAndroidScreenshot)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_push_file",
		Description: "Copy a local file to a path on an Android device.",
	}, s.handleAndroidPushFile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_pull_file",
		Description: "Copy a file from an Android device to a local path.",
	}, s.handleAndroidPullFile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_delete_file",
		Description: "Delete a file on an Android device.",
	}, s.handleAndroidDeleteFile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_bug_report",
		Description: "Capture a full Android bug report zip, bounded by a timeout in seconds.",
	}, s.handleAndroidBugReport)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_screen_record_start",
		Description: "Start recording the Android device screen. Returns a session token for android_screen_record_stop.",
	}, s.handleAndroidScreenRecordStart)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "android_screen_record_stop",
		Description: "Stop a screen recording by session token and save the video to a local path.",
	}, s.handleAndroidScreenRecordStop)

	// iOS
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ios_list_simulators",
		Description: "List available iOS simulators as a table of name, UDID, runtime, state.",
	}, s.handleIOSListSimulators)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ios_boot_simulator",
		Description: "Boot an iOS simulator by UDID.",
	}, s.handleIOSBootSimulator)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ios_shutdown_simulator",
		Description: "Shut down an iOS simulator by UDID.",
	}, s.handleIOSShutdownSimulator)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ios_install_app",
		Description: "Install a .app bundle onto an iOS simulator.",
	}, s.handleIOSInstallApp)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ios_launch_app",
		Description: "Launch an app on an iOS simulator by bundle identifier.",
	}, s.handleIOSLaunchApp)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ios_terminate_app",
		Description: "Terminate a running app on an iOS simulator by bundle identifier.",
	}, s.handleIOSTerminateApp)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ios_uninstall_app",
		Description: "Uninstall an app from an iOS simulator by bundle identifier.",
	}, s.handleIOSUninstallApp)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ios_screenshot",
		Description: "Capture the iOS simulator screen and return it as a PNG image.",
	}, s.handleIOSScreenshot)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ios_record_video_start",
		Description: "Start recording the iOS simulator screen. Returns a session token for ios_record_video_stop.",
	}, s.handleIOSRecordVideoStart)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ios_record_video_stop",
		Description: "Stop a simulator video recording by session token and return the saved file path.",
	}, s.handleIOSRecordVideoStop)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ios_ui_tap",
		Description: "Tap the iOS simulator screen at the given coordinates.",
	}, s.handleIOSTap)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ios_ui_swipe",
		Description: "Swipe on the iOS simulator screen between two points, optionally over a duration in seconds.",
	}, s.handleIOSSwipe)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ios_input_text",
		Description: "Type text into the currently focused field on an iOS simulator.",
	}, s.handleIOSInputText)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ios_press_key",
		Description: "Press a hardware keycode on an iOS simulator.",
	}, s.handleIOSPressKey)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ios_describe_ui",
		Description: "List the accessibility elements currently on the iOS simulator screen as a table of label, type, and frame.",
	}, s.handleIOSDescribeUI)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ios_get_logs",
		Description: "Show recent unified log output from an iOS simulator, optionally windowed (e.g. 2m) and filtered by bundle identifier.",
	}, s.handleIOSGetLogs)

	// Vision
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "compare_screenshots",
		Description: "Ask a vision model a yes/no question about two PNG screenshots read from local paths. Returns true or false.",
	}, s.handleCompareScreenshots)
}
