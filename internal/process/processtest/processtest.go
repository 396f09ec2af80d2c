// Package processtest provides a scripted Executor for handler tests. It
// records every spawn so tests can assert that precondition failures never
// reach the external tool.
package processtest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mobilectl/mobilectl/internal/process"
)

// Call records one executed command.
type Call struct {
	Name string
	Args []string
}

func (c Call) String() string {
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Response is what the fake returns for a matching command.
type Response struct {
	Output []byte
	Err    error
}

// Executor is a fake process.Executor. Responses are matched by substring
// against the full command line; the first match wins. Commands with no
// match succeed with empty output.
type Executor struct {
	mu        sync.Mutex
	calls     []Call
	responses []scripted
	onOutput  func(name string, args []string) ([]byte, error, bool)
	onStart   func(name string, args []string) process.Proc
}

type scripted struct {
	match string
	resp  Response
}

func NewExecutor() *Executor {
	return &Executor{}
}

// Respond scripts a response for any command line containing match.
func (e *Executor) Respond(match string, out string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.responses = append(e.responses, scripted{match: match, resp: Response{Output: []byte(out), Err: err}})
}

// OnOutput installs a hook consulted before scripted responses. The hook
// returns handled=false to fall through; it lets tests simulate stateful
// collaborators like a remote filesystem.
func (e *Executor) OnOutput(fn func(name string, args []string) ([]byte, error, bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onOutput = fn
}

// OnStart overrides the handle returned by Start.
func (e *Executor) OnStart(fn func(name string, args []string) process.Proc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onStart = fn
}

// Calls returns a copy of every recorded command.
func (e *Executor) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Call, len(e.calls))
	copy(out, e.calls)
	return out
}

// CallCount reports how many commands were spawned.
func (e *Executor) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func (e *Executor) record(name string, args []string) string {
	e.calls = append(e.calls, Call{Name: name, Args: args})
	return name + " " + strings.Join(args, " ")
}

func (e *Executor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	line := e.record(name, args)
	if e.onOutput != nil {
		if out, err, handled := e.onOutput(name, args); handled {
			return out, err
		}
	}
	for _, s := range e.responses {
		if strings.Contains(line, s.match) {
			return s.resp.Output, s.resp.Err
		}
	}
	return nil, nil
}

func (e *Executor) Start(ctx context.Context, name string, args ...string) (process.Proc, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	line := e.record(name, args)
	for _, s := range e.responses {
		if strings.Contains(line, s.match) && s.resp.Err != nil {
			return nil, s.resp.Err
		}
	}
	if e.onStart != nil {
		return e.onStart(name, args), nil
	}
	return &Proc{}, nil
}

// Proc is a fake process handle. The zero value behaves as a process that
// never exits until signalled or killed.
type Proc struct {
	mu       sync.Mutex
	exitErr  error
	signals  []os.Signal
	killed   bool
	done     chan struct{}
	doneOnce sync.Once
}

// ExitedProc returns a handle for a process that already finished with err.
func ExitedProc(err error) *Proc {
	p := &Proc{}
	p.Exit(err)
	return p
}

func (p *Proc) doneCh() chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		p.done = make(chan struct{})
	}
	return p.done
}

// Exit marks the process as finished with err, releasing waiters.
func (p *Proc) Exit(err error) {
	ch := p.doneCh()
	p.mu.Lock()
	p.exitErr = err
	p.mu.Unlock()
	p.doneOnce.Do(func() { close(ch) })
}

func (p *Proc) Wait() error {
	<-p.doneCh()
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitErr
}

func (p *Proc) WaitTimeout(d time.Duration) (bool, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-p.doneCh():
		p.mu.Lock()
		defer p.mu.Unlock()
		return true, p.exitErr
	case <-timer.C:
		return false, nil
	}
}

func (p *Proc) Signal(sig os.Signal) error {
	p.mu.Lock()
	p.signals = append(p.signals, sig)
	p.mu.Unlock()
	p.Exit(nil)
	return nil
}

func (p *Proc) Kill() error {
	p.mu.Lock()
	p.killed = true
	p.mu.Unlock()
	p.Exit(fmt.Errorf("killed"))
	return nil
}

// Killed reports whether Kill was called.
func (p *Proc) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

// Signals returns the signals delivered to the process.
func (p *Proc) Signals() []os.Signal {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]os.Signal, len(p.signals))
	copy(out, p.signals)
	return out
}
