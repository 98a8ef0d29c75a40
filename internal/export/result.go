package export

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vvka-141/imdix/pkg/imdix"
)

// CopyFailure records one file that could not be copied.
type CopyFailure struct {
	Unit        string
	Source      string
	Destination string
	Err         error
}

func (f CopyFailure) String() string {
	return fmt.Sprintf("%s: copy %s: %v", f.Unit, f.Source, f.Err)
}

// Result summarizes a run.
type Result struct {
	// Phase is the final phase: done, cancelled or error.
	Phase imdix.Phase

	// Units counts the documents written, not including the corpus.
	Units      int
	CorpusPath string

	Copied       int
	CopiedBytes  int64
	CopyFailures []CopyFailure

	// Warnings are every advisory message of the run, in order.
	Warnings []string

	Duration time.Duration
}

// FailuresByUnit counts copy failures per unit display name.
func (r Result) FailuresByUnit() map[string]int {
	out := make(map[string]int)
	for _, f := range r.CopyFailures {
		out[f.Unit]++
	}
	return out
}

// Summary is a one-line description of the run.
func (r Result) Summary() string {
	s := fmt.Sprintf("%d folder(s) exported, %d file(s) copied (%s)",
		r.Units, r.Copied, humanize.Bytes(uint64(r.CopiedBytes)))
	if n := len(r.CopyFailures); n > 0 {
		s += fmt.Sprintf(", %d copy failure(s)", n)
	}
	if n := len(r.Warnings); n > 0 {
		s += fmt.Sprintf(", %d warning(s)", n)
	}
	return s + " in " + r.Duration.Round(time.Millisecond).String()
}
