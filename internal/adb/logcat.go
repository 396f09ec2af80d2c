package adb

import (
	"context"
	"strconv"
	"strings"

	"github.com/mobilectl/mobilectl/internal/platform"
	"github.com/mobilectl/mobilectl/internal/process"
)

// LogLevel enumerates Android log priorities.
type LogLevel string

const (
	LevelVerbose LogLevel = "Verbose"
	LevelDebug   LogLevel = "Debug"
	LevelInfo    LogLevel = "Info"
	LevelWarning LogLevel = "Warning"
	LevelError   LogLevel = "Error"
	LevelFatal   LogLevel = "Fatal"
)

// Letter returns the single-character priority tag used in logcat lines.
func (l LogLevel) Letter() string {
	if l == "" {
		return ""
	}
	return strings.ToUpper(string(l[0]))
}

// ParseLogLevel resolves a level name or single letter, case-insensitively.
func ParseLogLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verbose", "v":
		return LevelVerbose, true
	case "debug", "d":
		return LevelDebug, true
	case "info", "i":
		return LevelInfo, true
	case "warning", "warn", "w":
		return LevelWarning, true
	case "error", "e":
		return LevelError, true
	case "fatal", "f":
		return LevelFatal, true
	}
	return "", false
}

// Logcat dumps the device log. maxLines > 0 appends logcat's own -t limit.
// level, when non-empty, filters client-side with FilterByLevel.
func (c *Client) Logcat(ctx context.Context, serial string, maxLines int, level LogLevel) (string, error) {
	const op = "adb logcat"
	if err := requireSerial(op, serial); err != nil {
		return "", err
	}
	if err := c.ensure(ctx, op); err != nil {
		return "", err
	}

	args := []string{"-s", serial, "logcat", "-d"}
	if maxLines > 0 {
		args = append(args, "-t", strconv.Itoa(maxLines))
	}
	out, err := c.exec.Output(ctx, c.path, args...)
	if err != nil {
		return "", platform.ToolFailed(op, err)
	}

	text := string(out)
	if level != "" {
		text = FilterByLevel(text, level)
	}
	return text, nil
}

// FilterByLevel keeps only lines containing the "/<LevelLetter> " marker, in
// original order. It is a pure subset operation: filtering already-filtered
// output by the same level is a no-op.
func FilterByLevel(raw string, level LogLevel) string {
	marker := "/" + level.Letter() + " "
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.Contains(line, marker) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// LogcatStream follows the device log (no -d), emitting lines until ctx is
// cancelled. Used by the CLI logs command; the blocking tool path never
// streams.
func (c *Client) LogcatStream(ctx context.Context, runner *process.Runner, serial string) (<-chan process.OutputLine, <-chan error) {
	return runner.Run(ctx, c.path, []string{"-s", serial, "logcat"})
}
