package copier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vvka-141/imdix/internal/checksum"
	"github.com/vvka-141/imdix/internal/logging"
	"github.com/vvka-141/imdix/internal/retry"
	"github.com/vvka-141/imdix/pkg/imdix"
)

// DefaultGrace is how long CancelAll waits for interrupted processes before
// deleting their destinations.
const DefaultGrace = 500 * time.Millisecond

// Options configures an Engine.
type Options struct {
	// Tool is "auto", "rsync" or "cp". Ignored when Command is set.
	Tool string

	// Command overrides tool detection.
	Command CommandFunc

	// Retries is the number of retries after a transient failure.
	Retries int

	// Backoff overrides the default retry delays.
	Backoff imdix.BackoffStrategy

	// Verify compares each finished copy with its source.
	Verify bool

	// Grace defaults to DefaultGrace.
	Grace time.Duration

	Logger imdix.Logger
}

// Engine copies files with an external tool and tracks running jobs.
// It implements imdix.FileCopier and is safe for concurrent use.
type Engine struct {
	tool     string
	command  CommandFunc
	executor *retry.Executor
	verify   bool
	sums     checksum.SHA256
	grace    time.Duration
	logger   imdix.Logger

	mu     sync.Mutex
	jobs   map[int]*job
	nextID int
}

type job struct {
	id          int
	source      string
	destination string
	started     time.Time
	cmd         *exec.Cmd
	done        chan struct{}
	cancelled   atomic.Bool
}

// JobInfo describes a running copy.
type JobInfo struct {
	ID          int
	Source      string
	Destination string
	PID         int
	Started     time.Time
}

// ProcessError is a copy tool that exited with a non-zero status.
type ProcessError struct {
	Tool   string
	Code   int
	Stderr string
}

func (e *ProcessError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with status %d", e.Tool, e.Code)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Tool, e.Code, e.Stderr)
}

// ExitCode returns the tool's exit status.
func (e *ProcessError) ExitCode() int {
	return e.Code
}

// New creates an engine. It fails when no copy tool is available.
func New(opts Options) (*Engine, error) {
	tool, command := "custom", opts.Command
	if command == nil {
		var err error
		tool, command, err = DetectTool(opts.Tool)
		if err != nil {
			return nil, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	grace := opts.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}
	backoff := opts.Backoff
	if backoff == nil {
		backoff = retry.NewExponentialBackoff(opts.Retries)
	}

	return &Engine{
		tool:     tool,
		command:  command,
		executor: retry.NewExecutor(retry.NewCopyErrorClassifier(), backoff),
		verify:   opts.Verify,
		sums:     checksum.New(),
		grace:    grace,
		logger:   logger,
		jobs:     make(map[int]*job),
	}, nil
}

// Tool returns the name of the copy tool in use.
func (e *Engine) Tool() string {
	return e.tool
}

// Copy copies src to dst and reports 0-100 progress. It returns once the
// process has exited. A ctx that is already done prevents the copy from
// starting and stops retries, but does not interrupt a running process;
// only CancelAll does.
func (e *Engine) Copy(ctx context.Context, src, dst string, onProgress func(percent int)) error {
	executor := e.executor.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		e.logger.Warn("Copy of %s failed (%v); retry %d in %s", src, err, attempt+1, delay)
	})
	err := executor.Execute(ctx, func(ctx context.Context) error {
		return e.copyOnce(ctx, src, dst, onProgress)
	})
	if err != nil {
		return err
	}

	if e.verify {
		if err := e.sums.Verify(src, dst); err != nil {
			return err
		}
		e.logger.Verbose("Verified %s", dst)
	}
	return nil
}

func (e *Engine) copyOnce(ctx context.Context, src, dst string, onProgress func(int)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	cmd := e.command(src, dst)
	detach(cmd)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", e.tool, err)
	}
	j := e.register(src, dst, cmd)
	defer e.unregister(j)
	e.logger.Verbose("Copying %s -> %s (pid %d)", src, dst, cmd.Process.Pid)

	last := readProgress(stdout, onProgress)
	err = cmd.Wait()
	close(j.done)

	if j.cancelled.Load() {
		return fmt.Errorf("copy %s: %w", dst, imdix.ErrCancelled)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ProcessError{Tool: e.tool, Code: exitErr.ExitCode(), Stderr: strings.TrimSpace(stderr.String())}
		}
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if onProgress != nil && last < 100 {
		onProgress(100)
	}
	return nil
}

func (e *Engine) register(src, dst string, cmd *exec.Cmd) *job {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	j := &job{
		id:          e.nextID,
		source:      src,
		destination: dst,
		started:     time.Now(),
		cmd:         cmd,
		done:        make(chan struct{}),
	}
	e.jobs[j.id] = j
	return j
}

func (e *Engine) unregister(j *job) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.jobs, j.id)
}

// Active returns the running jobs, oldest first.
func (e *Engine) Active() []JobInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]JobInfo, 0, len(e.jobs))
	for _, j := range e.jobs {
		info := JobInfo{ID: j.id, Source: j.source, Destination: j.destination, Started: j.started}
		if j.cmd.Process != nil {
			info.PID = j.cmd.Process.Pid
		}
		out = append(out, info)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// IsCopying reports whether any copy process is running.
func (e *Engine) IsCopying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.jobs) > 0
}

// CancelAll clears the job registry. With cancelFirst it also interrupts
// every running process, waits up to the grace period for them to exit and
// deletes their destinations. Cleanup is best effort: a process that ignores
// the interrupt may still write after its destination was removed.
func (e *Engine) CancelAll(cancelFirst bool) {
	e.mu.Lock()
	jobs := make([]*job, 0, len(e.jobs))
	for _, j := range e.jobs {
		jobs = append(jobs, j)
	}
	e.jobs = make(map[int]*job)
	e.mu.Unlock()

	if !cancelFirst || len(jobs) == 0 {
		return
	}

	for _, j := range jobs {
		j.cancelled.Store(true)
		if err := interrupt(j.cmd.Process); err != nil {
			e.logger.Verbose("Interrupt copy of %s: %v", j.source, err)
		}
	}

	timeout := time.After(e.grace)
wait:
	for _, j := range jobs {
		select {
		case <-j.done:
		case <-timeout:
			break wait
		}
	}

	for _, j := range jobs {
		if err := os.Remove(j.destination); err != nil && !errors.Is(err, os.ErrNotExist) {
			e.logger.Warn("Could not remove partial copy %s: %v", j.destination, err)
		}
	}
	e.logger.Info("Cancelled %d copy job(s)", len(jobs))
}
