package filesystem

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// memoryFileInfo implements fs.FileInfo for in-memory entries
type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryEntry struct {
	data    []byte
	dir     bool
	modTime time.Time
}

// Memory implements FileSystem in memory. Paths are slash-separated and
// absolute; "/" always exists. Writes and copies require the parent
// directory to exist, like the real filesystem. Safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	entries  map[string]*memoryEntry
	schemas  map[string][]byte
	ops      []string
	failures map[string]error
}

var _ FileSystem = (*Memory)(nil)

// NewMemory creates an empty in-memory filesystem.
func NewMemory() *Memory {
	return &Memory{
		entries:  map[string]*memoryEntry{"/": {dir: true}},
		schemas:  make(map[string][]byte),
		failures: make(map[string]error),
	}
}

func clean(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// AddFile adds a file and its parent directories.
func (m *Memory) AddFile(p string, content string) {
	m.AddFileWithTime(p, content, time.Now())
}

// AddFileWithTime adds a file with a specific modification time.
func (m *Memory) AddFileWithTime(p string, content string, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = clean(p)
	m.mkdirAll(path.Dir(p))
	m.entries[p] = &memoryEntry{data: []byte(content), modTime: modTime}
}

// AddSchema makes a schema file available to ReadSchemaFile.
func (m *Memory) AddSchema(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schemas[name] = data
}

// FailOn makes an operation on a path fail. op is one of "mkdir", "write",
// "copy" (keyed by destination) or "rmtree".
func (m *Memory) FailOn(op, p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op+" "+clean(p)] = err
}

// Ops returns the successful write operations in order, formatted as
// "mkdir /a", "write /a/b", "copy /src -> /dst" and "rmtree /a".
func (m *Memory) Ops() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ops...)
}

// Exists reports whether a file or directory exists.
func (m *Memory) Exists(p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[clean(p)]
	return ok
}

// Content returns a file's content.
func (m *Memory) Content(p string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[clean(p)]
	if !ok || e.dir {
		return "", false
	}
	return string(e.data), true
}

// Files lists every file below root, sorted.
func (m *Memory) Files(root string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	root = clean(root)
	var out []string
	for p, e := range m.entries {
		if !e.dir && under(p, root) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func under(p, root string) bool {
	return root == "/" || p == root || strings.HasPrefix(p, root+"/")
}

func (m *Memory) fail(op, p string) error {
	return m.failures[op+" "+p]
}

func (m *Memory) mkdirAll(p string) error {
	if e, ok := m.entries[p]; ok {
		if !e.dir {
			return fmt.Errorf("mkdir %s: not a directory", p)
		}
		return nil
	}
	if p != "/" {
		if err := m.mkdirAll(path.Dir(p)); err != nil {
			return err
		}
	}
	m.entries[p] = &memoryEntry{dir: true, modTime: time.Now()}
	return nil
}

func (m *Memory) requireParent(op, p string) error {
	parent, ok := m.entries[path.Dir(p)]
	if !ok || !parent.dir {
		return &fs.PathError{Op: op, Path: p, Err: fs.ErrNotExist}
	}
	return nil
}

func (m *Memory) ReadFile(p string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = clean(p)
	e, ok := m.entries[p]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	if e.dir {
		return nil, fmt.Errorf("path is a directory, not a file: %s", p)
	}
	return append([]byte(nil), e.data...), nil
}

func (m *Memory) ReadDir(p string) ([]FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = clean(p)
	e, ok := m.entries[p]
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: p, Err: fs.ErrNotExist}
	}
	if !e.dir {
		return nil, fmt.Errorf("path is not a directory: %s", p)
	}

	var out []FileInfo
	for child, ce := range m.entries {
		if child != "/" && path.Dir(child) == p {
			out = append(out, info(child, ce))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (m *Memory) Stat(p string) (FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = clean(p)
	e, ok := m.entries[p]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
	}
	return info(p, e), nil
}

func info(p string, e *memoryEntry) FileInfo {
	fi := &memoryFileInfo{name: path.Base(p), size: int64(len(e.data)), mode: 0o644, modTime: e.modTime}
	if e.dir {
		fi.mode = 0o755 | fs.ModeDir
		fi.isDir = true
		fi.size = 0
	}
	return fi
}

func (m *Memory) EnsureDirectory(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = clean(p)
	if err := m.fail("mkdir", p); err != nil {
		return err
	}
	if err := m.mkdirAll(p); err != nil {
		return err
	}
	m.ops = append(m.ops, "mkdir "+p)
	return nil
}

func (m *Memory) WriteFile(p string, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = clean(p)
	if err := m.fail("write", p); err != nil {
		return err
	}
	if err := m.requireParent("write", p); err != nil {
		return err
	}
	m.entries[p] = &memoryEntry{data: []byte(text), modTime: time.Now()}
	m.ops = append(m.ops, "write "+p)
	return nil
}

func (m *Memory) CopyFilePreservingTimestamps(src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, dst = clean(src), clean(dst)
	if err := m.fail("copy", dst); err != nil {
		return err
	}
	e, ok := m.entries[src]
	if !ok || e.dir {
		return &fs.PathError{Op: "open", Path: src, Err: fs.ErrNotExist}
	}
	if err := m.requireParent("copy", dst); err != nil {
		return err
	}
	m.entries[dst] = &memoryEntry{data: append([]byte(nil), e.data...), modTime: e.modTime}
	m.ops = append(m.ops, "copy "+src+" -> "+dst)
	return nil
}

func (m *Memory) RemoveDirectoryTree(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = clean(p)
	if err := m.fail("rmtree", p); err != nil {
		return err
	}
	if p == "/" {
		return fmt.Errorf("refusing to remove %q", p)
	}
	for q := range m.entries {
		if under(q, p) {
			delete(m.entries, q)
		}
	}
	m.ops = append(m.ops, "rmtree "+p)
	return nil
}

func (m *Memory) ReadSchemaFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.schemas[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return data, nil
}
