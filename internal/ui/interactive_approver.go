package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vvka-141/imdix/pkg/imdix"
)

// InteractiveApprover implements the Approver interface for console-based
// interactive confirmation. It prompts the user to type the output folder's
// name before the folder is cleared.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer
}

// NewInteractiveApprover creates a new InteractiveApprover on stdin and stderr.
func NewInteractiveApprover(verbose bool) imdix.Approver {
	return &InteractiveApprover{verbose: verbose, input: os.Stdin, output: os.Stderr}
}

// RequestApproval prompts the user to type the folder name to confirm.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, outputRoot string) (bool, error) {
	name := filepath.Base(filepath.Clean(outputRoot))
	fmt.Fprintf(a.output, "\n! The output folder %s already contains files.\n", outputRoot)
	fmt.Fprintln(a.output, "Exporting deletes everything in it.")
	fmt.Fprintf(a.output, "\nTo confirm, type the folder name '%s' and press Enter: ", name)

	// Read user input with context cancellation support
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == name {
			fmt.Fprintln(a.output, "✓ Confirmed.")
			return true, nil
		}
		fmt.Fprintf(a.output, "✗ Input '%s' does not match '%s'. Export cancelled.\n", input, name)
		return false, nil
	}
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ imdix.Approver = (*InteractiveApprover)(nil)
