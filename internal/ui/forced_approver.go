package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vvka-141/imdix/pkg/imdix"
)

// ForcedApprover implements the Approver interface for non-interactive runs
// and --force. It reports the folder being cleared and approves.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
}

// NewForcedApprover creates a new ForcedApprover writing to stderr.
func NewForcedApprover(verbose bool) imdix.Approver {
	return &ForcedApprover{verbose: verbose, output: os.Stderr}
}

// RequestApproval approves unless ctx is already done.
func (a *ForcedApprover) RequestApproval(ctx context.Context, outputRoot string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if a.verbose {
		fmt.Fprintf(a.output, "[VERBOSE] Clearing existing output folder %s\n", outputRoot)
	}
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ imdix.Approver = (*ForcedApprover)(nil)
