package imdix

import "context"

// Approver confirms destructive steps before an export starts, in
// particular clearing an output folder that already holds files.
//
// Implementations:
//   - ForcedApprover: Reports what will be cleared and approves
//   - InteractiveApprover: Prompts the user to type the folder name
type Approver interface {
	// RequestApproval asks whether outputRoot may be cleared.
	// It returns false when the user declines.
	RequestApproval(ctx context.Context, outputRoot string) (bool, error)
}
