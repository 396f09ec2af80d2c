package adb

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mobilectl/mobilectl/internal/platform"
)

// Tap simulates a tap at screen coordinates.
func (c *Client) Tap(ctx context.Context, serial string, x, y int) error {
	const op = "adb tap"
	if err := requireSerial(op, serial); err != nil {
		return err
	}
	if err := c.ensure(ctx, op); err != nil {
		return err
	}

	args := []string{"-s", serial, "shell", "input", "tap",
		strconv.Itoa(x), strconv.Itoa(y)}
	if _, err := c.exec.Output(ctx, c.path, args...); err != nil {
		return platform.ToolFailed(op, err)
	}
	return nil
}

// Swipe simulates a swipe gesture. durationMs of zero lets the device pick
// its default speed.
func (c *Client) Swipe(ctx context.Context, serial string, x1, y1, x2, y2, durationMs int) error {
	const op = "adb swipe"
	if err := requireSerial(op, serial); err != nil {
		return err
	}
	if err := c.ensure(ctx, op); err != nil {
		return err
	}

	args := []string{"-s", serial, "shell", "input", "swipe",
		strconv.Itoa(x1), strconv.Itoa(y1), strconv.Itoa(x2), strconv.Itoa(y2)}
	if durationMs > 0 {
		args = append(args, strconv.Itoa(durationMs))
	}
	if _, err := c.exec.Output(ctx, c.path, args...); err != nil {
		return platform.ToolFailed(op, err)
	}
	return nil
}

// InputText types text into the focused field. `input text` treats space as
// an argument separator, so spaces are encoded as %s.
func (c *Client) InputText(ctx context.Context, serial, text string) error {
	const op = "adb input text"
	if err := requireSerial(op, serial); err != nil {
		return err
	}
	if text == "" {
		return platform.Preconditionf(op, "text is required")
	}
	if err := c.ensure(ctx, op); err != nil {
		return err
	}

	encoded := strings.ReplaceAll(text, " ", "%s")
	args := []string{"-s", serial, "shell", "input", "text", encoded}
	if _, err := c.exec.Output(ctx, c.path, args...); err != nil {
		return platform.ToolFailed(op, err)
	}
	return nil
}

// PressKey sends an Android keyevent code, e.g. 4 for BACK or "KEYCODE_HOME".
func (c *Client) PressKey(ctx context.Context, serial, keycode string) error {
	const op = "adb keyevent"
	if err := requireSerial(op, serial); err != nil {
		return err
	}
	if strings.TrimSpace(keycode) == "" {
		return platform.Preconditionf(op, "keycode is required")
	}
	if err := c.ensure(ctx, op); err != nil {
		return err
	}

	args := []string{"-s", serial, "shell", "input", "keyevent", keycode}
	if _, err := c.exec.Output(ctx, c.path, args...); err != nil {
		return platform.ToolFailed(op, fmt.Errorf("keyevent %s: %w", keycode, err))
	}
	return nil
}
