package imdix

import "context"

// PrivilegedIO performs every disk write of an export. The engine only
// produces plans; this collaborator executes them.
type PrivilegedIO interface {
	EnsureDirectory(path string) error
	WriteFile(path string, text string) error
	CopyFilePreservingTimestamps(src, dst string) error
	RemoveDirectoryTree(path string) error
	ReadSchemaFile(name string) ([]byte, error)
}

// FileCopier copies one file, reporting 0-100 progress when it can.
// Implementations must be safe for concurrent use.
type FileCopier interface {
	Copy(ctx context.Context, src, dst string, onProgress func(percent int)) error
}
