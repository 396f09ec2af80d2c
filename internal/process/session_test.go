package process

import (
	"os"
	"testing"
	"time"
)

type nopProc struct{}

func (nopProc) Wait() error                               { return nil }
func (nopProc) WaitTimeout(time.Duration) (bool, error)   { return true, nil }
func (nopProc) Signal(os.Signal) error                    { return nil }
func (nopProc) Kill() error                               { return nil }

func TestSessionRegistryAddTake(t *testing.T) {
	reg := NewSessionRegistry()

	s1 := reg.Add(nopProc{}, "/sdcard/a.mp4", "")
	s2 := reg.Add(nopProc{}, "/sdcard/b.mp4", "")

	if s1.Token == "" || s2.Token == "" || s1.Token == s2.Token {
		t.Fatalf("tokens must be unique and non-empty: %q %q", s1.Token, s2.Token)
	}
	if reg.size() != 2 {
		t.Fatalf("expected 2 live sessions, got %d", reg.size())
	}

	got, err := reg.Take(s1.Token)
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if got.RemotePath != "/sdcard/a.mp4" {
		t.Errorf("wrong session returned: %+v", got)
	}
	if reg.size() != 1 {
		t.Errorf("expected 1 live session after take, got %d", reg.size())
	}
}

func TestSessionRegistryTakeIsSingleUse(t *testing.T) {
	reg := NewSessionRegistry()
	s := reg.Add(nopProc{}, "", "/tmp/out.mov")

	if _, err := reg.Take(s.Token); err != nil {
		t.Fatalf("first take: %v", err)
	}
	if _, err := reg.Take(s.Token); err == nil {
		t.Fatal("second take of the same token must fail")
	}
}

func TestSessionRegistryUnknownToken(t *testing.T) {
	reg := NewSessionRegistry()
	if _, err := reg.Take("bogus"); err == nil {
		t.Fatal("expected an error for an unknown token")
	}
}
