// Package idb wraps the idb CLI used for UI automation on iOS simulators:
// taps, swipes, text entry, key presses, and accessibility queries.
package idb

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mobilectl/mobilectl/internal/platform"
	"github.com/mobilectl/mobilectl/internal/process"
)

type Client struct {
	exec process.Executor
	path string
}

func NewClient(exec process.Executor) *Client {
	return &Client{exec: exec, path: "idb"}
}

// SetPath overrides the idb binary location.
func (c *Client) SetPath(p string) {
	if p != "" {
		c.path = p
	}
}

// Available probes the tool; re-checked on every operation, never cached.
func (c *Client) Available(ctx context.Context) bool {
	_, err := c.exec.Output(ctx, c.path, "--help")
	return err == nil
}

func (c *Client) ensure(ctx context.Context, op string) error {
	if !c.Available(ctx) {
		return platform.Preconditionf(op, "idb is not installed or not on PATH")
	}
	return nil
}

func requireUDID(op, udid string) error {
	if strings.TrimSpace(udid) == "" {
		return platform.Preconditionf(op, "simulator UDID is required")
	}
	return nil
}

// Tap simulates a tap at screen coordinates.
func (c *Client) Tap(ctx context.Context, udid string, x, y int) error {
	const op = "idb tap"
	if err := requireUDID(op, udid); err != nil {
		return err
	}
	if err := c.ensure(ctx, op); err != nil {
		return err
	}

	args := []string{"ui", "tap", "--udid", udid, strconv.Itoa(x), strconv.Itoa(y)}
	if _, err := c.exec.Output(ctx, c.path, args...); err != nil {
		return platform.ToolFailed(op, err)
	}
	return nil
}

// Swipe simulates a swipe gesture. durationSec of zero uses idb's default.
func (c *Client) Swipe(ctx context.Context, udid string, x1, y1, x2, y2 int, durationSec float64) error {
	const op = "idb swipe"
	if err := requireUDID(op, udid); err != nil {
		return err
	}
	if err := c.ensure(ctx, op); err != nil {
		return err
	}

	args := []string{"ui", "swipe", "--udid", udid}
	if durationSec > 0 {
		args = append(args, "--duration", strconv.FormatFloat(durationSec, 'f', -1, 64))
	}
	args = append(args,
		strconv.Itoa(x1), strconv.Itoa(y1),
		strconv.Itoa(x2), strconv.Itoa(y2))
	if _, err := c.exec.Output(ctx, c.path, args...); err != nil {
		return platform.ToolFailed(op, err)
	}
	return nil
}

// Text types text into the focused field.
func (c *Client) Text(ctx context.Context, udid, text string) error {
	const op = "idb text"
	if err := requireUDID(op, udid); err != nil {
		return err
	}
	if text == "" {
		return platform.Preconditionf(op, "text is required")
	}
	if err := c.ensure(ctx, op); err != nil {
		return err
	}

	if _, err := c.exec.Output(ctx, c.path, "ui", "text", "--udid", udid, text); err != nil {
		return platform.ToolFailed(op, err)
	}
	return nil
}

// Key presses a hardware keycode.
func (c *Client) Key(ctx context.Context, udid string, keycode int) error {
	const op = "idb key"
	if err := requireUDID(op, udid); err != nil {
		return err
	}
	if err := c.ensure(ctx, op); err != nil {
		return err
	}

	args := []string{"ui", "key", "--udid", udid, strconv.Itoa(keycode)}
	if _, err := c.exec.Output(ctx, c.path, args...); err != nil {
		return platform.ToolFailed(op, fmt.Errorf("key %d: %w", keycode, err))
	}
	return nil
}

// Element is one accessibility node from `idb ui describe-all`.
type Element struct {
	Label string `json:"label"`
	Type  string `json:"type"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	W     int    `json:"w"`
	H     int    `json:"h"`
}

// DescribeUI returns the accessibility elements currently on screen.
func (c *Client) DescribeUI(ctx context.Context, udid string) ([]Element, error) {
	const op = "idb describe-all"
	if err := requireUDID(op, udid); err != nil {
		return nil, err
	}
	if err := c.ensure(ctx, op); err != nil {
		return nil, err
	}

	out, err := c.exec.Output(ctx, c.path, "ui", "describe-all", "--udid", udid, "--json")
	if err != nil {
		return nil, platform.ToolFailed(op, err)
	}

	parsed := gjson.ParseBytes(out)
	if !parsed.IsArray() {
		return nil, platform.ParseFailed(op, fmt.Errorf("expected a JSON array of elements"))
	}

	var elements []Element
	parsed.ForEach(func(_, el gjson.Result) bool {
		frame := el.Get("frame")
		elements = append(elements, Element{
			Label: el.Get("AXLabel").String(),
			Type:  el.Get("type").String(),
			X:     int(frame.Get("x").Int()),
			Y:     int(frame.Get("y").Int()),
			W:     int(frame.Get("width").Int()),
			H:     int(frame.Get("height").Int()),
		})
		return true
	})
	return elements, nil
}
