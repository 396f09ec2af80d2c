package mcp

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type IOSListSimulatorsInput struct {
	OnlyBooted bool `json:"only_booted,omitempty" jsonschema:"description=Only list booted simulators"`
}

func (s *Server) handleIOSListSimulators(ctx context.Context, req *mcp.CallToolRequest, in IOSListSimulatorsInput) (*mcp.CallToolResult, any, error) {
	devices, err := s.sim.List(ctx, in.OnlyBooted)
	if err != nil {
		return s.fail("ios_list_simulators", err), nil, nil
	}
	if len(devices) == 0 {
		return textResult("No simulator devices available."), nil, nil
	}

	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, []string{d.Name, d.UDID, d.Runtime, string(d.State)})
	}
	return textResult("%s", markdownTable("iOS Simulators",
		[]string{"Name", "UDID", "Runtime", "State"}, rows)), nil, nil
}

type IOSBootSimulatorInput struct {
	UDID string `json:"udid" jsonschema:"description=Simulator UDID"`
}

func (s *Server) handleIOSBootSimulator(ctx context.Context, req *mcp.CallToolRequest, in IOSBootSimulatorInput) (*mcp.CallToolResult, any, error) {
	if err := s.sim.Boot(ctx, in.UDID); err != nil {
		return s.fail("ios_boot_simulator", err), nil, nil
	}
	return textResult("Booted simulator %s.", in.UDID), nil, nil
}

type IOSShutdownSimulatorInput struct {
	UDID string `json:"udid" jsonschema:"description=Simulator UDID"`
}

func (s *Server) handleIOSShutdownSimulator(ctx context.Context, req *mcp.CallToolRequest, in IOSShutdownSimulatorInput) (*mcp.CallToolResult, any, error) {
	if err := s.sim.Shutdown(ctx, in.UDID); err != nil {
		return s.fail("ios_shutdown_simulator", err), nil, nil
	}
	return textResult("Shut down simulator %s.", in.UDID), nil, nil
}

type IOSInstallAppInput struct {
	UDID    string `json:"udid" jsonschema:"description=Simulator UDID"`
	AppPath string `json:"app_path" jsonschema:"description=Local path to the .app bundle"`
}

func (s *Server) handleIOSInstallApp(ctx context.Context, req *mcp.CallToolRequest, in IOSInstallAppInput) (*mcp.CallToolResult, any, error) {
	if err := s.sim.Install(ctx, in.UDID, in.AppPath); err != nil {
		return s.fail("ios_install_app", err), nil, nil
	}
	return textResult("Installed %s on simulator %s.", in.AppPath, in.UDID), nil, nil
}

type IOSLaunchAppInput struct {
	UDID     string `json:"udid" jsonschema:"description=Simulator UDID"`
	BundleID string `json:"bundle_id" jsonschema:"description=App bundle identifier, e.g. com.example.app"`
}

func (s *Server) handleIOSLaunchApp(ctx context.Context, req *mcp.CallToolRequest, in IOSLaunchAppInput) (*mcp.CallToolResult, any, error) {
	if err := s.sim.Launch(ctx, in.UDID, in.BundleID); err != nil {
		return s.fail("ios_launch_app", err), nil, nil
	}
	return textResult("Launched %s on simulator %s.", in.BundleID, in.UDID), nil, nil
}

type IOSTerminateAppInput struct {
	UDID     string `json:"udid" jsonschema:"description=Simulator UDID"`
	BundleID string `json:"bundle_id" jsonschema:"description=App bundle identifier"`
}

func (s *Server) handleIOSTerminateApp(ctx context.Context, req *mcp.CallToolRequest, in IOSTerminateAppInput) (*mcp.CallToolResult, any, error) {
	if err := s.sim.Terminate(ctx, in.UDID, in.BundleID); err != nil {
		return s.fail("ios_terminate_app", err), nil, nil
	}
	return textResult("Terminated %s on simulator %s.", in.BundleID, in.UDID), nil, nil
}

type IOSUninstallAppInput struct {
	UDID     string `json:"udid" jsonschema:"description=Simulator UDID"`
	BundleID string `json:"bundle_id" jsonschema:"description=App bundle identifier"`
}

func (s *Server) handleIOSUninstallApp(ctx context.Context, req *mcp.CallToolRequest, in IOSUninstallAppInput) (*mcp.CallToolResult, any, error) {
	if err := s.sim.Uninstall(ctx, in.UDID, in.BundleID); err != nil {
		return s.fail("ios_uninstall_app", err), nil, nil
	}
	return textResult("Uninstalled %s from simulator %s.", in.BundleID, in.UDID), nil, nil
}

type IOSScreenshotInput struct {
	UDID string `json:"udid" jsonschema:"description=Simulator UDID"`
}

func (s *Server) handleIOSScreenshot(ctx context.Context, req *mcp.CallToolRequest, in IOSScreenshotInput) (*mcp.CallToolResult, any, error) {
	png, err := s.sim.Screenshot(ctx, in.UDID)
	if err != nil {
		return s.fail("ios_screenshot", err), nil, nil
	}
	return imageResult(png), nil, nil
}

type IOSRecordVideoStartInput struct {
	UDID string `json:"udid" jsonschema:"description=Simulator UDID"`
}

func (s *Server) handleIOSRecordVideoStart(ctx context.Context, req *mcp.CallToolRequest, in IOSRecordVideoStartInput) (*mcp.CallToolResult, any, error) {
	token, err := s.sim.RecordVideoStart(ctx, in.UDID)
	if err != nil {
		return s.fail("ios_record_video_start", err), nil, nil
	}
	return textResult("Recording started. Session token: %s", token), nil, nil
}

type IOSRecordVideoStopInput struct {
	SessionToken string `json:"session_token" jsonschema:"description=Token returned by ios_record_video_start"`
}

func (s *Server) handleIOSRecordVideoStop(ctx context.Context, req *mcp.CallToolRequest, in IOSRecordVideoStopInput) (*mcp.CallToolResult, any, error) {
	path, err := s.sim.RecordVideoStop(ctx, in.SessionToken)
	if err != nil {
		return s.fail("ios_record_video_stop", err), nil, nil
	}
	return textResult("Recording saved to %s.", path), nil, nil
}

type IOSTapInput struct {
	UDID string `json:"udid" jsonschema:"description=Simulator UDID"`
	X    int    `json:"x" jsonschema:"description=X coordinate in points"`
	Y    int    `json:"y" jsonschema:"description=Y coordinate in points"`
}

func (s *Server) handleIOSTap(ctx context.Context, req *mcp.CallToolRequest, in IOSTapInput) (*mcp.CallToolResult, any, error) {
	if err := s.ui.Tap(ctx, in.UDID, in.X, in.Y); err != nil {
		return s.fail("ios_ui_tap", err), nil, nil
	}
	return textResult("Tapped (%d, %d) on simulator %s.", in.X, in.Y, in.UDID), nil, nil
}

type IOSSwipeInput struct {
	UDID        string  `json:"udid" jsonschema:"description=Simulator UDID"`
	X1          int     `json:"x1" jsonschema:"description=Start X coordinate"`
	Y1          int     `json:"y1" jsonschema:"description=Start Y coordinate"`
	X2          int     `json:"x2" jsonschema:"description=End X coordinate"`
	Y2          int     `json:"y2" jsonschema:"description=End Y coordinate"`
	DurationSec float64 `json:"duration_sec,omitempty" jsonschema:"description=Swipe duration in seconds"`
}

func (s *Server) handleIOSSwipe(ctx context.Context, req *mcp.CallToolRequest, in IOSSwipeInput) (*mcp.CallToolResult, any, error) {
	if err := s.ui.Swipe(ctx, in.UDID, in.X1, in.Y1, in.X2, in.Y2, in.DurationSec); err != nil {
		return s.fail("ios_ui_swipe", err), nil, nil
	}
	return textResult("Swiped from (%d, %d) to (%d, %d) on simulator %s.",
		in.X1, in.Y1, in.X2, in.Y2, in.UDID), nil, nil
}

type IOSInputTextInput struct {
	UDID string `json:"udid" jsonschema:"description=Simulator UDID"`
	Text string `json:"text" jsonschema:"description=Text to type into the focused field"`
}

func (s *Server) handleIOSInputText(ctx context.Context, req *mcp.CallToolRequest, in IOSInputTextInput) (*mcp.CallToolResult, any, error) {
	if err := s.ui.Text(ctx, in.UDID, in.Text); err != nil {
		return s.fail("ios_input_text", err), nil, nil
	}
	return textResult("Typed %q on simulator %s.", in.Text, in.UDID), nil, nil
}

type IOSPressKeyInput struct {
	UDID    string `json:"udid" jsonschema:"description=Simulator UDID"`
	Keycode int    `json:"keycode" jsonschema:"description=Hardware keycode to press"`
}

func (s *Server) handleIOSPressKey(ctx context.Context, req *mcp.CallToolRequest, in IOSPressKeyInput) (*mcp.CallToolResult, any, error) {
	if err := s.ui.Key(ctx, in.UDID, in.Keycode); err != nil {
		return s.fail("ios_press_key", err), nil, nil
	}
	return textResult("Pressed key %d on simulator %s.", in.Keycode, in.UDID), nil, nil
}

type IOSDescribeUIInput struct {
	UDID string `json:"udid" jsonschema:"description=Simulator UDID"`
}

func (s *Server) handleIOSDescribeUI(ctx context.Context, req *mcp.CallToolRequest, in IOSDescribeUIInput) (*mcp.CallToolResult, any, error) {
	elements, err := s.ui.DescribeUI(ctx, in.UDID)
	if err != nil {
		return s.fail("ios_describe_ui", err), nil, nil
	}
	if len(elements) == 0 {
		return textResult("No accessibility elements found."), nil, nil
	}

	rows := make([][]string, 0, len(elements))
	for _, el := range elements {
		rows = append(rows, []string{
			el.Label, el.Type,
			strconv.Itoa(el.X), strconv.Itoa(el.Y),
			strconv.Itoa(el.W), strconv.Itoa(el.H),
		})
	}
	return textResult("%s", markdownTable("UI Elements",
		[]string{"Label", "Type", "X", "Y", "Width", "Height"}, rows)), nil, nil
}

type IOSGetLogsInput struct {
	UDID     string `json:"udid" jsonschema:"description=Simulator UDID"`
	Last     string `json:"last,omitempty" jsonschema:"description=Time window, e.g. 2m or 30s"`
	BundleID string `json:"bundle_id,omitempty" jsonschema:"description=Only show logs from this app"`
}

func (s *Server) handleIOSGetLogs(ctx context.Context, req *mcp.CallToolRequest, in IOSGetLogsInput) (*mcp.CallToolResult, any, error) {
	out, err := s.sim.Logs(ctx, in.UDID, in.Last, in.BundleID)
	if err != nil {
		return s.fail("ios_get_logs", err), nil, nil
	}
	return textResult("%s", out), nil, nil
}

type CompareScreenshotsInput struct {
	ImagePathA string `json:"image_path_a" jsonschema:"description=Local path to the first PNG screenshot"`
	ImagePathB string `json:"image_path_b" jsonschema:"description=Local path to the second PNG screenshot"`
	Prompt     string `json:"prompt" jsonschema:"description=Yes/no question to ask about the two screenshots"`
}

func (s *Server) handleCompareScreenshots(ctx context.Context, req *mcp.CallToolRequest, in CompareScreenshotsInput) (*mcp.CallToolResult, any, error) {
	a, err := os.ReadFile(in.ImagePathA)
	if err != nil {
		return s.fail("compare_screenshots", fmt.Errorf("read %s: %w", in.ImagePathA, err)), nil, nil
	}
	b, err := os.ReadFile(in.ImagePathB)
	if err != nil {
		return s.fail("compare_screenshots", fmt.Errorf("read %s: %w", in.ImagePathB, err)), nil, nil
	}

	match := s.comparer.Compare(ctx, a, b, in.Prompt)
	return textResult("%t", match), nil, nil
}
