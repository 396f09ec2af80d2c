package adb

import (
	"context"
	"strings"
	"testing"

	"github.com/mobilectl/mobilectl/internal/process/processtest"
)

const sampleLogcat = `07-15 10:01:01.000  1234  1234 tag/E AuthManager: token expired
07-15 10:01:02.000  1234  1234 tag/W NetQueue: retrying request
07-15 10:01:03.000  1234  1234 tag/I Lifecycle: activity resumed
07-15 10:01:04.000  1234  1234 tag/E AuthManager: refresh failed`

func TestFilterByLevelKeepsOnlyMatchingLinesInOrder(t *testing.T) {
	got := FilterByLevel(sampleLogcat, LevelError)

	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 error lines, got %d: %q", len(lines), got)
	}
	if !strings.Contains(lines[0], "token expired") || !strings.Contains(lines[1], "refresh failed") {
		t.Errorf("lines out of order or wrong: %q", got)
	}
	if strings.Contains(got, "/W ") || strings.Contains(got, "/I ") {
		t.Errorf("non-error lines leaked through: %q", got)
	}
}

func TestFilterByLevelIsIdempotent(t *testing.T) {
	once := FilterByLevel(sampleLogcat, LevelWarning)
	twice := FilterByLevel(once, LevelWarning)
	if once != twice {
		t.Errorf("filtering filtered output changed it:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
		ok   bool
	}{
		{"Error", LevelError, true},
		{"error", LevelError, true},
		{"e", LevelError, true},
		{"WARN", LevelWarning, true},
		{"w", LevelWarning, true},
		{"verbose", LevelVerbose, true},
		{"fatal", LevelFatal, true},
		{"loud", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := ParseLogLevel(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseLogLevel(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLogcatByLevelScenario(t *testing.T) {
	exec := processtest.NewExecutor()
	exec.Respond("logcat", sampleLogcat, nil)

	client := NewClient(exec)
	out, err := client.Logcat(context.Background(), "SERIAL123", 500, LevelError)
	if err != nil {
		t.Fatalf("Logcat: %v", err)
	}

	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "/E ") {
			t.Errorf("non-error line in output: %q", line)
		}
	}

	// The line limit goes to logcat itself, not our filter.
	var sawLimit bool
	for _, call := range exec.Calls() {
		for i, a := range call.Args {
			if a == "-t" && i+1 < len(call.Args) && call.Args[i+1] == "500" {
				sawLimit = true
			}
		}
	}
	if !sawLimit {
		t.Error("expected -t 500 to be passed to logcat")
	}
}
