package platform

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{Preconditionf("adb devices", "serial is required"), KindPrecondition},
		{ToolFailed("adb install", errors.New("exit status 1")), KindToolFailed},
		{ParseFailed("simctl list", errors.New("bad json")), KindParseFailed},
		{Timeoutf("adb bugreport", "took too long"), KindTimeout},
		{errors.New("plain"), KindToolFailed},
	}
	for _, tc := range tests {
		if got := KindOf(tc.err); got != tc.want {
			t.Errorf("KindOf(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestKindOfWrapped(t *testing.T) {
	inner := Timeoutf("adb bugreport", "took too long")
	wrapped := fmt.Errorf("handler: %w", inner)
	if KindOf(wrapped) != KindTimeout {
		t.Error("kind lost through wrapping")
	}
}

func TestErrorMessage(t *testing.T) {
	err := Preconditionf("adb screenshot", "device serial is required")
	want := "adb screenshot: precondition failed: device serial is required"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("exit status 1")
	err := ToolFailed("adb push", inner)
	if !errors.Is(err, inner) {
		t.Error("inner error not reachable via errors.Is")
	}
}
