package vision

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type stubChat struct {
	reply string
	err   error

	gotSystem string
	gotUser   string
	gotImages int
}

func (s *stubChat) Complete(ctx context.Context, system, user string, images [][]byte) (string, error) {
	s.gotSystem = system
	s.gotUser = user
	s.gotImages = len(images)
	return s.reply, s.err
}

func TestCompareSendsBothImages(t *testing.T) {
	chat := &stubChat{reply: "true"}
	c := NewComparer(chat, zerolog.Nop())

	got := c.Compare(context.Background(), []byte("png-a"), []byte("png-b"), "Are these the same screen?")
	if !got {
		t.Error("expected true")
	}
	if chat.gotImages != 2 {
		t.Errorf("expected 2 images, got %d", chat.gotImages)
	}
	if chat.gotSystem == "" || chat.gotUser != "Are these the same screen?" {
		t.Errorf("prompts not forwarded: system=%q user=%q", chat.gotSystem, chat.gotUser)
	}
}

func TestCompareReplyParsing(t *testing.T) {
	tests := []struct {
		reply string
		want  bool
	}{
		{"true", true},
		{"True.", true},
		{"  YES\n", true},
		{"false", false},
		{"no", false},
		{"the screens differ in the header", false}, // unparseable defaults to false
		{"", false},
	}
	for _, tc := range tests {
		c := NewComparer(&stubChat{reply: tc.reply}, zerolog.Nop())
		if got := c.Compare(context.Background(), nil, nil, "same?"); got != tc.want {
			t.Errorf("reply %q: got %v, want %v", tc.reply, got, tc.want)
		}
	}
}

func TestCompareErrorDefaultsFalse(t *testing.T) {
	c := NewComparer(&stubChat{err: errors.New("connection refused")}, zerolog.Nop())
	if c.Compare(context.Background(), nil, nil, "same?") {
		t.Error("expected false on transport error")
	}
}

func TestCompareWithoutClientDefaultsFalse(t *testing.T) {
	c := NewComparer(nil, zerolog.Nop())
	if c.Compare(context.Background(), nil, nil, "same?") {
		t.Error("expected false with no chat client configured")
	}
}
