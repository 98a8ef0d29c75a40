package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/vvka-141/imdix/internal/bundle"
	"github.com/vvka-141/imdix/internal/copier"
	"github.com/vvka-141/imdix/internal/warnings"
	"github.com/vvka-141/imdix/pkg/imdix"
)

// Coordinator runs exports. It owns the warning collector of its runs, so
// a Coordinator runs one export at a time.
type Coordinator struct {
	io        imdix.PrivilegedIO
	copier    imdix.FileCopier
	validator bundle.DocumentValidator
	logger    imdix.Logger

	notify         func(msg string)
	onCopyProgress func(dst string, percent int)
	referenceDate  time.Time

	collector *warnings.Collector
}

// NewCoordinator creates a coordinator. A nil fileCopier copies through io.
func NewCoordinator(io imdix.PrivilegedIO, fileCopier imdix.FileCopier, validator bundle.DocumentValidator, logger imdix.Logger) *Coordinator {
	if io == nil {
		panic("export.NewCoordinator: io cannot be nil")
	}
	if validator == nil {
		panic("export.NewCoordinator: validator cannot be nil")
	}
	if logger == nil {
		panic("export.NewCoordinator: logger cannot be nil")
	}
	if fileCopier == nil {
		fileCopier = copier.IOCopier{IO: io}
	}
	c := &Coordinator{
		io:        io,
		copier:    fileCopier,
		validator: validator,
		logger:    logger,
		collector: warnings.NewCollector(),
	}
	c.notify = func(msg string) { c.logger.Warn("%s", msg) }
	return c
}

// WithNotifier sets where warnings go when no run is collecting them.
func (c *Coordinator) WithNotifier(notify func(msg string)) *Coordinator {
	if notify != nil {
		c.notify = notify
	}
	return c
}

// WithCopyProgress sets the per-file copy progress callback. It is called
// from copy goroutines.
func (c *Coordinator) WithCopyProgress(fn func(dst string, percent int)) *Coordinator {
	c.onCopyProgress = fn
	return c
}

// WithReferenceDate fixes the date documents are stamped with.
func (c *Coordinator) WithReferenceDate(t time.Time) *Coordinator {
	c.referenceDate = t
	return c
}

// Warnings returns the sink advisory messages should go to. During a run
// they are collected for the export log; otherwise they are notified
// immediately.
func (c *Coordinator) Warnings() warnings.Sink {
	return warnings.Reporter{Collector: c.collector, Notify: c.notify}
}

// run is the state of one Run call.
type run struct {
	c          *Coordinator
	cfg        imdix.ExportConfig
	onProgress func(imdix.Progress)
	started    time.Time

	mu     sync.Mutex
	result Result

	total   int
	current int
}

// Run exports project. On success the Result phase is done. Cancellation
// returns imdix.ErrCancelled with phase cancelled; every other error has
// phase error. In both cases the output root has been removed.
func (c *Coordinator) Run(ctx context.Context, project *imdix.Project, cfg imdix.ExportConfig, onProgress func(imdix.Progress)) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{Phase: imdix.PhaseError}, err
	}
	if onProgress == nil {
		onProgress = func(imdix.Progress) {}
	}
	r := &run{c: c, cfg: cfg, onProgress: onProgress, started: time.Now()}

	if c.collector.Start() {
		c.logger.Warn("Previous export run did not stop its warning collector")
	}

	orchestrator := bundle.New(project, c.validator, bundle.Options{
		Mode:           cfg.Mode,
		Variant:        cfg.Variant,
		OutputRoot:     cfg.OutputRoot,
		CopyFiles:      cfg.CopyFiles,
		Filter:         cfg.SessionFilter(),
		DebugDirectory: cfg.DebugDirectory,
		Debug:          c.io,
		Warnings:       c.Warnings(),
		ReferenceDate:  c.referenceDate,
	})
	info := orchestrator.JobInfo()
	r.total = info.TotalFolders

	r.progress(imdix.PhasePreparing, "", "Preparing "+cfg.OutputRoot)
	if err := r.prepare(); err != nil {
		return r.fail(err)
	}
	c.logger.Verbose("Exporting %s into %s (%s, %s schema)", project.DisplayName(), filepath.Join(info.RootDirectory, info.SecondLevelDirectory), cfg.Mode, cfg.Variant.Name)

	concurrency := cfg.CopyConcurrency
	if concurrency <= 0 {
		concurrency = imdix.DefaultCopyConcurrency
	}
	sem := semaphore.NewWeighted(int64(concurrency))
	var copies sync.WaitGroup

	for {
		step, err := orchestrator.Next(ctx)
		if ctx.Err() != nil {
			return r.cancel()
		}
		if err != nil {
			return r.fail(err)
		}

		if step.Last() {
			if err := r.writeCorpus(step.Corpus); err != nil {
				return r.fail(err)
			}
			break
		}

		if err := r.writeUnit(step.Unit); err != nil {
			return r.fail(err)
		}
		for _, req := range step.Unit.Copies {
			copies.Add(1)
			go func(unit string, req imdix.FileCopyRequest) {
				defer copies.Done()
				r.copy(ctx, sem, unit, req)
			}(step.Unit.DisplayName, req)
		}
		r.drainWarnings()
		r.current++
		r.progress(imdix.PhaseSessions, step.Unit.DisplayName, "Exported "+step.Unit.DisplayName)
	}

	if err := r.waitForCopies(ctx, &copies); err != nil {
		return r.cancel()
	}

	r.drainWarnings()
	r.finishWarnings()
	result := r.snapshot(imdix.PhaseDone)
	c.logger.Info("Export finished: %s", result.Summary())
	r.onProgress(imdix.Progress{
		Phase:   imdix.PhaseDone,
		Current: r.current,
		Total:   r.total,
		Percent: 100,
		Message: result.Summary(),
	})
	return result, nil
}

// prepare clears and recreates the output root.
func (r *run) prepare() error {
	root := r.cfg.OutputRoot
	if err := r.c.io.RemoveDirectoryTree(root); err != nil {
		return fmt.Errorf("clear %s: %v: %w", root, err, imdix.ErrOutputPreparation)
	}
	if err := r.c.io.EnsureDirectory(root); err != nil {
		return fmt.Errorf("create %s: %v: %w", root, err, imdix.ErrOutputPreparation)
	}
	return nil
}

func (r *run) writeUnit(u *imdix.ExportUnit) error {
	for _, dir := range u.DirectoriesToCreate {
		if err := r.c.io.EnsureDirectory(dir); err != nil {
			return fmt.Errorf("%s: create %s: %w", u.DisplayName, dir, err)
		}
	}
	if err := r.c.io.WriteFile(u.DocumentPath, u.Document); err != nil {
		return fmt.Errorf("%s: write %s: %w", u.DisplayName, u.DocumentPath, err)
	}
	r.c.logger.Verbose("Wrote %s", u.DocumentPath)

	r.mu.Lock()
	r.result.Units++
	r.mu.Unlock()
	return nil
}

func (r *run) writeCorpus(corpus *imdix.CorpusUnit) error {
	r.progress(imdix.PhaseCorpus, corpus.DisplayName, "Writing corpus document")
	if err := r.c.io.EnsureDirectory(filepath.Dir(corpus.DocumentPath)); err != nil {
		return fmt.Errorf("corpus: create %s: %w", filepath.Dir(corpus.DocumentPath), err)
	}
	if err := r.c.io.WriteFile(corpus.DocumentPath, corpus.Document); err != nil {
		return fmt.Errorf("corpus: write %s: %w", corpus.DocumentPath, err)
	}
	r.c.logger.Verbose("Wrote %s", corpus.DocumentPath)

	r.mu.Lock()
	r.result.CorpusPath = corpus.DocumentPath
	r.mu.Unlock()
	return nil
}

// copy runs in its own goroutine. A copy that cannot get a slot before the
// run is cancelled is never started.
func (r *run) copy(ctx context.Context, sem *semaphore.Weighted, unit string, req imdix.FileCopyRequest) {
	if err := sem.Acquire(ctx, 1); err != nil {
		return
	}
	defer sem.Release(1)

	var onProgress func(int)
	if fn := r.c.onCopyProgress; fn != nil {
		onProgress = func(percent int) { fn(req.Destination, percent) }
	}

	err := r.c.copier.Copy(ctx, req.Source, req.Destination, onProgress)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, imdix.ErrCancelled) {
			return
		}
		r.result.CopyFailures = append(r.result.CopyFailures, CopyFailure{
			Unit: unit, Source: req.Source, Destination: req.Destination, Err: err,
		})
		r.c.logger.Error("%s: failed to copy %s: %v", unit, req.Source, err)
		return
	}
	r.result.Copied++
	r.result.CopiedBytes += req.Size
}

func (r *run) waitForCopies(ctx context.Context, copies *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		copies.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	default:
	}
	r.progress(imdix.PhaseCorpus, "", "Waiting for file copies to finish")

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drainWarnings moves collected warnings into the result between units.
func (r *run) drainWarnings() {
	r.keepWarnings(r.c.collector.Drain())
}

func (r *run) keepWarnings(msgs []string) {
	if len(msgs) == 0 {
		return
	}
	for _, m := range msgs {
		r.c.logger.Verbose("warning: %s", m)
	}
	r.mu.Lock()
	r.result.Warnings = append(r.result.Warnings, msgs...)
	r.mu.Unlock()
}

// finishWarnings stops collecting and writes the export log.
func (r *run) finishWarnings() {
	r.keepWarnings(r.c.collector.Stop())
	if r.cfg.LogPath == "" {
		return
	}
	r.mu.Lock()
	lines := append([]string(nil), r.result.Warnings...)
	r.mu.Unlock()

	text := strings.Join(lines, "\n")
	if text != "" {
		text += "\n"
	}
	if err := r.c.io.EnsureDirectory(filepath.Dir(r.cfg.LogPath)); err != nil {
		r.c.logger.Warn("Could not write export log: %v", err)
		return
	}
	if err := r.c.io.WriteFile(r.cfg.LogPath, text); err != nil {
		r.c.logger.Warn("Could not write export log: %v", err)
	}
}

func (r *run) cleanup() {
	if err := r.c.io.RemoveDirectoryTree(r.cfg.OutputRoot); err != nil {
		r.c.logger.Warn("Could not remove %s: %v", r.cfg.OutputRoot, err)
	}
}

func (r *run) cancel() (Result, error) {
	r.finishWarnings()
	r.cleanup()
	r.c.logger.Info("Export cancelled")
	r.onProgress(imdix.Progress{
		Phase:   imdix.PhaseCancelled,
		Current: r.current,
		Total:   r.total,
		Percent: r.percent(),
		Message: "Export cancelled",
	})
	return r.snapshot(imdix.PhaseCancelled), fmt.Errorf("export: %w", imdix.ErrCancelled)
}

func (r *run) fail(err error) (Result, error) {
	r.finishWarnings()
	r.cleanup()
	r.onProgress(imdix.Progress{
		Phase:   imdix.PhaseError,
		Current: r.current,
		Total:   r.total,
		Percent: r.percent(),
		Message: err.Error(),
	})
	return r.snapshot(imdix.PhaseError), err
}

func (r *run) progress(phase imdix.Phase, name, message string) {
	r.onProgress(imdix.Progress{
		Phase:       phase,
		Current:     r.current,
		Total:       r.total,
		DisplayName: name,
		Percent:     r.percent(),
		Message:     message,
	})
}

func (r *run) percent() int {
	if r.total <= 0 {
		return 0
	}
	p := r.current * 100 / r.total
	if p > 100 {
		p = 100
	}
	return p
}

// snapshot copies the result so copies still running after a cancelled or
// failed run cannot race with the caller.
func (r *run) snapshot(phase imdix.Phase) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.result
	out.Phase = phase
	out.CopyFailures = append([]CopyFailure(nil), r.result.CopyFailures...)
	out.Warnings = append([]string(nil), r.result.Warnings...)
	out.Duration = time.Since(r.started)
	return out
}
