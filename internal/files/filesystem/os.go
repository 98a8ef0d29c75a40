package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNoSchemaDirectory is returned by ReadSchemaFile when no schema
// directory was configured.
var ErrNoSchemaDirectory = errors.New("no schema directory configured (set IMDIX_SCHEMA_DIR or schema_dir)")

// OS implements FileSystem on the real filesystem.
type OS struct {
	schemas fs.FS
}

var _ FileSystem = (*OS)(nil)

// NewOS creates an OS filesystem reading schema files from schemaDir.
// An empty schemaDir leaves schema loading unconfigured.
func NewOS(schemaDir string) *OS {
	o := &OS{}
	if schemaDir != "" {
		o.schemas = os.DirFS(schemaDir)
	}
	return o
}

func (o *OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (o *OS) ReadDir(path string) ([]FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	result := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to get file info for %s: %w", entry.Name(), err)
		}
		result = append(result, info)
	}
	return result, nil
}

func (o *OS) Stat(path string) (FileInfo, error) {
	return os.Stat(path)
}

// EnsureDirectory creates path and any missing parents.
func (o *OS) EnsureDirectory(path string) error {
	return os.MkdirAll(path, 0o755)
}

// WriteFile writes text to path, replacing any existing file.
func (o *OS) WriteFile(path string, text string) error {
	return os.WriteFile(path, []byte(text), 0o644)
}

// CopyFilePreservingTimestamps copies src to dst in process and carries over
// the permission bits and modification time.
func (o *OS) CopyFilePreservingTimestamps(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// RemoveDirectoryTree deletes path and everything below it. A missing path
// is not an error; a filesystem root is refused.
func (o *OS) RemoveDirectoryTree(path string) error {
	clean := filepath.Clean(path)
	if path == "" || clean == filepath.Dir(clean) {
		return fmt.Errorf("refusing to remove %q", path)
	}
	return os.RemoveAll(clean)
}

// ReadSchemaFile reads a schema from the schema directory.
func (o *OS) ReadSchemaFile(name string) ([]byte, error) {
	if o.schemas == nil {
		return nil, ErrNoSchemaDirectory
	}
	return fs.ReadFile(o.schemas, name)
}
