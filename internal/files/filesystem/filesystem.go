package filesystem

import (
	"io/fs"

	"github.com/vvka-141/imdix/pkg/imdix"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
type FileInfo = fs.FileInfo

// Reader is the read side used to load project folders.
type Reader interface {
	// ReadFile reads a specific file at the given path
	ReadFile(path string) ([]byte, error)

	// ReadDir lists the entries of a directory, sorted by name.
	ReadDir(path string) ([]FileInfo, error)

	// Stat returns file information for the given path
	Stat(path string) (FileInfo, error)
}

// FileSystem reads projects and executes export plans.
type FileSystem interface {
	Reader
	imdix.PrivilegedIO
}
