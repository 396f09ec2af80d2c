package idb

import (
	"context"
	"errors"
	"testing"

	"github.com/mobilectl/mobilectl/internal/platform"
	"github.com/mobilectl/mobilectl/internal/process/processtest"
)

func TestEmptyUDIDSpawnsNothing(t *testing.T) {
	ctx := context.Background()
	exec := processtest.NewExecutor()
	client := NewClient(exec)

	calls := []struct {
		name string
		run  func() error
	}{
		{"Tap", func() error { return client.Tap(ctx, "", 10, 20) }},
		{"Swipe", func() error { return client.Swipe(ctx, "", 0, 0, 100, 100, 0) }},
		{"Text", func() error { return client.Text(ctx, "", "hello") }},
		{"Key", func() error { return client.Key(ctx, "", 40) }},
		{"DescribeUI", func() error { _, err := client.DescribeUI(ctx, ""); return err }},
	}

	for _, tc := range calls {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			if err == nil {
				t.Fatal("expected an error for empty UDID")
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

func TestTapArgs(t *testing.T) {
	exec := processtest.NewExecutor()
	client := NewClient(exec)

	if err := client.Tap(context.Background(), "AAAA-1111", 120, 480); err != nil {
		t.Fatalf("Tap: %v", err)
	}

	var sawTap bool
	for _, call := range exec.Calls() {
		if len(call.Args) >= 6 &&
			call.Args[0] == "ui" && call.Args[1] == "tap" &&
			call.Args[2] == "--udid" && call.Args[3] == "AAAA-1111" &&
			call.Args[4] == "120" && call.Args[5] == "480" {
			sawTap = true
		}
	}
	if !sawTap {
		t.Errorf("tap command not issued as expected: %v", exec.Calls())
	}
}

func TestIDBUnavailableIsPrecondition(t *testing.T) {
	exec := processtest.NewExecutor()
	exec.Respond("--help", "", errors.New("idb: command not found"))

	client := NewClient(exec)
	err := client.Text(context.Background(), "AAAA-1111", "hello")
	if err == nil {
		t.Fatal("expected an error when idb is missing")
	}
	if platform.KindOf(err) != platform.KindPrecondition {
		t.Errorf("expected precondition error, got %v", err)
	}
}

func TestDescribeUIParsesElements(t *testing.T) {
	exec := processtest.NewExecutor()
	exec.Respond("describe-all", `[
		{"AXLabel": "Sign In", "type": "Button", "frame": {"x": 10, "y": 600, "width": 355, "height": 44}},
		{"AXLabel": "Email", "type": "TextField", "frame": {"x": 10, "y": 200, "width": 355, "height": 36}}
	]`, nil)

	client := NewClient(exec)
	elements, err := client.DescribeUI(context.Background(), "AAAA-1111")
	if err != nil {
		t.Fatalf("DescribeUI: %v", err)
	}
	if len(elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elements))
	}
	if elements[0].Label != "Sign In" || elements[0].Type != "Button" || elements[0].W != 355 {
		t.Errorf("unexpected element: %+v", elements[0])
	}
}

func TestDescribeUIMalformedIsParseFailure(t *testing.T) {
	exec := processtest.NewExecutor()
	exec.Respond("describe-all", `{"not": "an array"}`, nil)

	client := NewClient(exec)
	_, err := client.DescribeUI(context.Background(), "AAAA-1111")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if platform.KindOf(err) != platform.KindParseFailed {
		t.Errorf("expected parse-failed error, got %v", err)
	}
}
