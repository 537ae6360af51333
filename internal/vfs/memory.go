package vfs

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"syscall"
)

// MemFS keeps files in memory for tests. Parent directories are implicit:
// a directory exists while some file lives below it.
//
// MemFS is safe for concurrent use.
type MemFS struct {
	mu    sync.RWMutex
	files map[string]*memFile
}

type memFile struct {
	content []byte
	mode    fs.FileMode
}

// NewMemFS creates an empty in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string]*memFile)}
}

var _ VFS = (*MemFS)(nil)

// AddFile stores content at filePath with mode 0644.
func (m *MemFS) AddFile(filePath string, content []byte) {
	_ = m.WriteFile(filePath, content, 0o644)
}

// Open opens a file for reading. The reader sees the content at the time
// of the call.
func (m *MemFS) Open(filePath string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = cleanPath(filePath)
	f, ok := m.files[filePath]
	if !ok {
		return nil, m.missing("open", filePath)
	}
	return io.NopCloser(bytes.NewReader(f.content)), nil
}

// ReadFile returns a copy of the file content.
func (m *MemFS) ReadFile(filePath string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = cleanPath(filePath)
	f, ok := m.files[filePath]
	if !ok {
		return nil, m.missing("read", filePath)
	}
	return bytes.Clone(f.content), nil
}

// Stat describes a file or an implicit directory.
func (m *MemFS) Stat(filePath string) (Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = cleanPath(filePath)
	if f, ok := m.files[filePath]; ok {
		return Info{Size: int64(len(f.content)), Mode: f.mode}, nil
	}
	if m.isDir(filePath) {
		return Info{Mode: fs.ModeDir | 0o755}, nil
	}
	return Info{}, &fs.PathError{Op: "stat", Path: filePath, Err: fs.ErrNotExist}
}

// WriteFile stores a copy of data.
func (m *MemFS) WriteFile(filePath string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = cleanPath(filePath)
	if m.isDir(filePath) {
		return &fs.PathError{Op: "write", Path: filePath, Err: syscall.EISDIR}
	}
	m.files[filePath] = &memFile{content: bytes.Clone(data), mode: perm}
	return nil
}

// Create returns a writer whose content is stored when it is closed.
func (m *MemFS) Create(filePath string) (io.WriteCloser, error) {
	filePath = cleanPath(filePath)

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.isDir(filePath) {
		return nil, &fs.PathError{Op: "create", Path: filePath, Err: syscall.EISDIR}
	}
	return &memWriter{fs: m, path: filePath}, nil
}

// Rename moves a file, replacing any file at newPath.
func (m *MemFS) Rename(oldPath, newPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldPath, newPath = cleanPath(oldPath), cleanPath(newPath)
	f, ok := m.files[oldPath]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldPath, Err: fs.ErrNotExist}
	}
	delete(m.files, oldPath)
	m.files[newPath] = f
	return nil
}

// Remove removes a file.
func (m *MemFS) Remove(filePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = cleanPath(filePath)
	if _, ok := m.files[filePath]; !ok {
		return &fs.PathError{Op: "remove", Path: filePath, Err: fs.ErrNotExist}
	}
	delete(m.files, filePath)
	return nil
}

// Exists reports whether a file or implicit directory exists at filePath.
func (m *MemFS) Exists(filePath string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = cleanPath(filePath)
	_, ok := m.files[filePath]
	return ok || m.isDir(filePath)
}

// isDir reports whether some file lives below dir. Callers hold the lock.
func (m *MemFS) isDir(dir string) bool {
	if dir == "/" {
		return true
	}
	prefix := dir + "/"
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func (m *MemFS) missing(op, filePath string) error {
	if m.isDir(filePath) {
		return &fs.PathError{Op: op, Path: filePath, Err: syscall.EISDIR}
	}
	return &fs.PathError{Op: op, Path: filePath, Err: fs.ErrNotExist}
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return path.Clean(p)
}

// memWriter buffers writes until Close.
type memWriter struct {
	fs     *MemFS
	path   string
	buf    bytes.Buffer
	closed bool
}

func (w *memWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fs.ErrClosed
	}
	return w.buf.Write(p)
}

func (w *memWriter) Close() error {
	if w.closed {
		return fs.ErrClosed
	}
	w.closed = true
	return w.fs.WriteFile(w.path, w.buf.Bytes(), 0o644)
}
