package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/imdix/internal/export"
	"github.com/vvka-141/imdix/pkg/imdix"
)

// ExportFunc runs an export, reporting through the two callbacks.
type ExportFunc func(ctx context.Context, onProgress func(imdix.Progress), onCopy func(dst string, percent int)) (export.Result, error)

// RunInteractive shows the progress view while run executes. Pressing
// ctrl+c cancels ctx for run and waits for it to return.
func RunInteractive(parent context.Context, title string, run ExportFunc) (export.Result, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	program := tea.NewProgram(NewExportModel(title, cancel), tea.WithContext(parent))

	type outcome struct {
		result export.Result
		err    error
	}
	finished := make(chan outcome, 1)
	go func() {
		result, err := run(ctx,
			func(p imdix.Progress) { program.Send(ProgressMsg(p)) },
			func(dst string, percent int) { program.Send(CopyProgressMsg{Destination: dst, Percent: percent}) },
		)
		program.Send(DoneMsg{Result: result, Err: err})
		finished <- outcome{result, err}
	}()

	if _, err := program.Run(); err != nil && parent.Err() == nil {
		cancel()
		o := <-finished
		if o.err != nil {
			return o.result, o.err
		}
		return o.result, fmt.Errorf("progress view: %w", err)
	}
	o := <-finished
	return o.result, o.err
}

// LineReporter prints one line per progress event for non-interactive runs.
type LineReporter struct {
	w     io.Writer
	last  imdix.Phase
	quiet bool
}

// NewLineReporter writes progress lines to w. When quiet is set only phase
// changes are printed.
func NewLineReporter(w io.Writer, quiet bool) *LineReporter {
	return &LineReporter{w: w, quiet: quiet}
}

// Report implements the progress callback.
func (r *LineReporter) Report(p imdix.Progress) {
	if r.quiet && p.Phase == r.last {
		return
	}
	r.last = p.Phase

	switch p.Phase {
	case imdix.PhaseDone:
		fmt.Fprintf(r.w, "%s %s\n", SymbolCheck, p.Message)
	case imdix.PhaseCancelled, imdix.PhaseError:
		fmt.Fprintf(r.w, "%s %s\n", SymbolCross, firstLine(p.Message))
	default:
		if p.Total > 0 {
			fmt.Fprintf(r.w, "[%d/%d] %3d%% %s\n", p.Current, p.Total, p.Percent, p.Message)
		} else {
			fmt.Fprintf(r.w, "%s\n", p.Message)
		}
	}
}

// RunPlain executes run with a LineReporter and no copy progress.
func RunPlain(ctx context.Context, w io.Writer, quiet bool, run ExportFunc) (export.Result, error) {
	reporter := NewLineReporter(w, quiet)
	return run(ctx, reporter.Report, nil)
}
