package process

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Executor is the execution contract the platform clients depend on.
// Output blocks until the command exits and returns captured stdout;
// Start returns immediately with a controllable handle.
type Executor interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	Start(ctx context.Context, name string, args ...string) (Proc, error)
}

// Proc is a handle to a started process.
type Proc interface {
	// Wait blocks until the process exits.
	Wait() error
	// WaitTimeout waits up to d. exited is false if the process is still
	// running when d elapses.
	WaitTimeout(d time.Duration) (exited bool, err error)
	Signal(sig os.Signal) error
	Kill() error
}

type OutputLine struct {
	Stream  string // "stdout" or "stderr"
	Content string
}

var globalVerbose bool

// SetGlobalVerbose sets verbose mode for all runners.
func SetGlobalVerbose(v bool) {
	globalVerbose = v
}

// Runner executes external commands as discrete argv vectors; arguments are
// never passed through a shell.
type Runner struct {
	verbose        bool
	defaultTimeout time.Duration
}

// NewRunner returns a Runner with no default timeout.
func NewRunner() *Runner {
	return &Runner{verbose: globalVerbose}
}

// NewBoundedRunner returns a Runner that applies timeout to every blocking
// run whose context carries no deadline of its own.
func NewBoundedRunner(timeout time.Duration) *Runner {
	return &Runner{verbose: globalVerbose, defaultTimeout: timeout}
}

func (r *Runner) SetVerbose(v bool) {
	r.verbose = v
}

func (r *Runner) logCommand(name string, args []string) {
	if r.verbose {
		fmt.Fprintf(os.Stderr, "  $ %s %s\n", name, strings.Join(args, " "))
	}
}

func (r *Runner) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.defaultTimeout <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.defaultTimeout)
}

// Output executes a command and returns stdout. Stderr is included in errors.
func (r *Runner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.logCommand(name, args)

	ctx, cancel := r.bound(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}

	return stdout.Bytes(), nil
}

// Start launches a command and returns without waiting. The returned handle
// owns the process lifetime: ctx cancellation does not end it, because
// sessions such as screen recordings must outlive the request that started
// them. No default timeout applies.
func (r *Runner) Start(ctx context.Context, name string, args ...string) (Proc, error) {
	r.logCommand(name, args)

	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}

	p := &proc{cmd: cmd, done: make(chan struct{})}
	go func() {
		p.waitErr = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

type proc struct {
	cmd     *exec.Cmd
	done    chan struct{}
	waitErr error
}

func (p *proc) Wait() error {
	<-p.done
	return p.waitErr
}

func (p *proc) WaitTimeout(d time.Duration) (bool, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-p.done:
		return true, p.waitErr
	case <-timer.C:
		return false, nil
	}
}

func (p *proc) Signal(sig os.Signal) error {
	return p.cmd.Process.Signal(sig)
}

func (p *proc) Kill() error {
	return p.cmd.Process.Kill()
}

// Run executes a command with streaming output via channels. Used for
// follow-mode log tailing; MCP handlers use the blocking Output instead.
func (r *Runner) Run(ctx context.Context, name string, args []string) (<-chan OutputLine, <-chan error) {
	r.logCommand(name, args)

	outChan := make(chan OutputLine, 100)
	errChan := make(chan error, 1)

	go func() {
		defer close(outChan)
		defer close(errChan)

		cmd := exec.CommandContext(ctx, name, args...)

		stdout, err := cmd.StdoutPipe()
		if err != nil {
			errChan <- fmt.Errorf("stdout pipe: %w", err)
			return
		}

		stderr, err := cmd.StderrPipe()
		if err != nil {
			errChan <- fmt.Errorf("stderr pipe: %w", err)
			return
		}

		if err := cmd.Start(); err != nil {
			errChan <- fmt.Errorf("start: %w", err)
			return
		}

		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			scanner := bufio.NewScanner(stdout)
			for scanner.Scan() {
				select {
				case <-ctx.Done():
					return
				case outChan <- OutputLine{Stream: "stdout", Content: scanner.Text()}:
				}
			}
		}()

		go func() {
			defer wg.Done()
			scanner := bufio.NewScanner(stderr)
			for scanner.Scan() {
				select {
				case <-ctx.Done():
					return
				case outChan <- OutputLine{Stream: "stderr", Content: scanner.Text()}:
				}
			}
		}()

		wg.Wait()

		if err := cmd.Wait(); err != nil {
			errChan <- err
			return
		}
	}()

	return outChan, errChan
}

func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
