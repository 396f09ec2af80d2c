package mcp

import (
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// markdownTable renders a `# Title` heading, a header row, a dash separator,
// and one row per record. Callers handle the empty case themselves; an empty
// table is never emitted.
func markdownTable(title string, headers []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")

	seps := make([]string, len(headers))
	for i := range seps {
		seps[i] = strings.Repeat("-", len(headers[i]))
	}
	b.WriteString("| " + strings.Join(seps, " | ") + " |\n")

	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return b.String()
}

func textResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}
}

func imageResult(png []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.ImageContent{Data: png, MIMEType: "image/png"}},
	}
}

// errorResult is the single failure channel for every tool: a soft error the
// agent can read, never a protocol-level fault.
func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + err.Error()}},
	}
}
