// Package common provides shared interfaces and utilities used across the
// analysis packages.
package common

import (
	"io/fs"
	"os"
)

// FileSystem defines the read-only file system operations the analysers
// need. The interface allows for easy mocking in tests and keeps all file
// access in one place.
type FileSystem interface {
	// Lstat returns file information without following symlinks
	Lstat(path string) (fs.FileInfo, error)

	// ReadFile reads the whole file into memory
	ReadFile(path string) ([]byte, error)

	// ReadDir lists the entries of a directory
	ReadDir(path string) ([]fs.DirEntry, error)
}

// DefaultFileSystem implements FileSystem using standard os package functions
type DefaultFileSystem struct{}

// NewDefaultFileSystem creates a new DefaultFileSystem
func NewDefaultFileSystem() *DefaultFileSystem {
	return &DefaultFileSystem{}
}

// Lstat returns file information without following symlinks
func (f *DefaultFileSystem) Lstat(path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}

// ReadFile reads the whole file into memory
func (f *DefaultFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ReadDir lists the entries of a directory
func (f *DefaultFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}
