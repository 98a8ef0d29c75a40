package copier

import (
	"context"

	"github.com/vvka-141/imdix/pkg/imdix"
)

// IOCopier copies through PrivilegedIO when no external tool is available.
// It reports progress only on completion and has no job registry.
type IOCopier struct {
	IO imdix.PrivilegedIO
}

// Copy implements imdix.FileCopier.
func (c IOCopier) Copy(ctx context.Context, src, dst string, onProgress func(percent int)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.IO.CopyFilePreservingTimestamps(src, dst); err != nil {
		return err
	}
	if onProgress != nil {
		onProgress(100)
	}
	return nil
}
