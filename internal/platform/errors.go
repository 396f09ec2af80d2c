// Package platform holds plumbing shared by the adb, simctl, and idb
// clients: a single error taxonomy so every handler family reports failures
// through the same channel.
package platform

import (
	"errors"
	"fmt"
)

// Kind classifies where in an operation a failure happened.
type Kind int

const (
	// KindPrecondition covers missing arguments and unavailable tools,
	// detected before any external process is spawned.
	KindPrecondition Kind = iota
	// KindToolFailed covers spawn failures and non-zero exits.
	KindToolFailed
	// KindParseFailed covers malformed tool output.
	KindParseFailed
	// KindTimeout covers bounded operations that exceeded their limit.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition failed"
	case KindToolFailed:
		return "tool failed"
	case KindParseFailed:
		return "parse failed"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is the one error type the platform clients return.
type Error struct {
	Kind Kind
	Op   string // operation name, e.g. "adb screenshot"
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Preconditionf reports a violated precondition for op.
func Preconditionf(op, format string, args ...any) *Error {
	return &Error{Kind: KindPrecondition, Op: op, Err: fmt.Errorf(format, args...)}
}

// ToolFailed wraps an external tool failure.
func ToolFailed(op string, err error) *Error {
	return &Error{Kind: KindToolFailed, Op: op, Err: err}
}

// ParseFailed wraps a malformed-output failure.
func ParseFailed(op string, err error) *Error {
	return &Error{Kind: KindParseFailed, Op: op, Err: err}
}

// Timeoutf reports an exceeded time bound for op.
func Timeoutf(op, format string, args ...any) *Error {
	return &Error{Kind: KindTimeout, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the Kind from err, or KindToolFailed for foreign errors.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindToolFailed
}
