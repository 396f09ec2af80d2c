package mcp

import (
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestMarkdownTable(t *testing.T) {
	got := markdownTable("Connected Android Devices",
		[]string{"Serial", "State"},
		[][]string{
			{"SERIAL123", "device"},
			{"emulator-5554", "offline"},
		})

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if lines[0] != "# Connected Android Devices" {
		t.Errorf("missing title heading: %q", lines[0])
	}
	if lines[1] != "" {
		t.Errorf("expected blank line after title, got %q", lines[1])
	}
	if lines[2] != "| Serial | State |" {
		t.Errorf("unexpected header row: %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "| --") || !strings.Contains(lines[3], " | ") {
		t.Errorf("unexpected separator row: %q", lines[3])
	}
	if lines[4] != "| SERIAL123 | device |" || lines[5] != "| emulator-5554 | offline |" {
		t.Errorf("unexpected data rows: %q %q", lines[4], lines[5])
	}
	if len(lines) != 6 {
		t.Errorf("expected exactly one row per record, got %d lines", len(lines))
	}
}

func TestErrorResult(t *testing.T) {
	res := errorResult(errStub("device not found"))
	if !res.IsError {
		t.Error("expected IsError")
	}
	text := res.Content[0].(*mcp.TextContent).Text
	if text != "Error: device not found" {
		t.Errorf("unexpected error text: %q", text)
	}
}

type errStub string

func (e errStub) Error() string { return string(e) }
