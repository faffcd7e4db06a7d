package common

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// MockFileSystem implements FileSystem for testing. Files and directories
// are registered up front; all operations are in-memory.
type MockFileSystem struct {
	files map[string]*MockFileInfo
	dirs  map[string]bool
	data  map[string][]byte
}

// MockFileInfo implements fs.FileInfo for testing
type MockFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
	isDir   bool
}

// Name returns the base name of the file
func (m *MockFileInfo) Name() string { return m.name }

// Size returns the length in bytes
func (m *MockFileInfo) Size() int64 { return m.size }

// Mode returns the file mode bits
func (m *MockFileInfo) Mode() os.FileMode { return m.mode }

// ModTime returns the modification time
func (m *MockFileInfo) ModTime() time.Time { return m.modTime }

// IsDir reports whether m describes a directory
func (m *MockFileInfo) IsDir() bool { return m.isDir }

// Sys returns the underlying data source (nil for mock)
func (m *MockFileInfo) Sys() any { return nil }

// NewMockFileSystem creates a new MockFileSystem
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files: make(map[string]*MockFileInfo),
		dirs:  make(map[string]bool),
		data:  make(map[string][]byte),
	}
}

// AddFile registers a regular file with the given contents
func (m *MockFileSystem) AddFile(path string, perm os.FileMode, content []byte) {
	m.files[path] = &MockFileInfo{
		name:    filepath.Base(path),
		size:    int64(len(content)),
		mode:    perm,
		modTime: time.Now(),
	}
	m.data[path] = content
	m.addParentDirs(path)
}

// AddSpecialFile registers a non-regular file (device, FIFO, socket)
func (m *MockFileSystem) AddSpecialFile(path string, mode os.FileMode) {
	m.files[path] = &MockFileInfo{
		name:    filepath.Base(path),
		mode:    mode,
		modTime: time.Now(),
	}
	m.addParentDirs(path)
}

// AddDir registers a directory
func (m *MockFileSystem) AddDir(path string) {
	m.dirs[path] = true
	m.addParentDirs(path)
}

func (m *MockFileSystem) addParentDirs(path string) {
	for dir := filepath.Dir(path); dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		m.dirs[dir] = true
	}
}

// Lstat returns file information without following symlinks
func (m *MockFileSystem) Lstat(path string) (fs.FileInfo, error) {
	if fi, ok := m.files[path]; ok {
		return fi, nil
	}
	if m.dirs[path] {
		return &MockFileInfo{name: filepath.Base(path), mode: fs.ModeDir | 0o755, isDir: true}, nil
	}
	return nil, &fs.PathError{Op: "lstat", Path: path, Err: fs.ErrNotExist}
}

// ReadFile reads the whole file into memory
func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	if content, ok := m.data[path]; ok {
		return content, nil
	}
	return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
}

// ReadDir lists the entries of a directory
func (m *MockFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	if !m.dirs[path] {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	var entries []fs.DirEntry
	seen := make(map[string]bool)
	for p, fi := range m.files {
		if filepath.Dir(p) == path {
			entries = append(entries, &mockDirEntry{info: fi})
			seen[fi.name] = true
		}
	}
	for d := range m.dirs {
		if filepath.Dir(d) == path && !seen[filepath.Base(d)] {
			entries = append(entries, &mockDirEntry{info: &MockFileInfo{
				name:  filepath.Base(d),
				mode:  fs.ModeDir | 0o755,
				isDir: true,
			}})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// mockDirEntry implements fs.DirEntry over a MockFileInfo.
type mockDirEntry struct {
	info *MockFileInfo
}

func (e *mockDirEntry) Name() string               { return e.info.name }
func (e *mockDirEntry) IsDir() bool                { return e.info.isDir }
func (e *mockDirEntry) Type() fs.FileMode          { return e.info.mode.Type() }
func (e *mockDirEntry) Info() (fs.FileInfo, error) { return e.info, nil }
