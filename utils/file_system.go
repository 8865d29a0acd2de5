package utils

import (
	"os"
	"path/filepath"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=file_system.go -destination=mock_file_system.gen.go -package=utils

// FileSystem is the set of file operations the cleanup and rewrite commands need.
type FileSystem interface {
	// Stat returns file info for path.
	Stat(path string) (os.FileInfo, error)

	// ReadFile reads the contents of a file.
	ReadFile(path string) ([]byte, error)

	// ReadDir reads the contents of a directory.
	ReadDir(path string) ([]os.DirEntry, error)

	// Remove removes a file or empty directory.
	Remove(path string) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm os.FileMode) error

	// Rename moves oldPath to newPath.
	Rename(oldPath, newPath string) error

	// WriteFileAtomic writes data to a file atomically using a temporary file and rename.
	WriteFileAtomic(filename string, data []byte, perm os.FileMode) error
}

type realFS struct{}

// NewFileSystem creates a FileSystem backed by the os package.
func NewFileSystem() FileSystem {
	return &realFS{}
}

func (f *realFS) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (f *realFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (f *realFS) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

func (f *realFS) Remove(path string) error {
	return os.Remove(path)
}

func (f *realFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (f *realFS) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func (f *realFS) WriteFileAtomic(filename string, data []byte, perm os.FileMode) (err error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	return os.Rename(tmpPath, filename)
}

// IsPathWithinBase reports whether target is base itself or lies below it.
func IsPathWithinBase(base, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel != ".." && !startsWithParent(rel)
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:2] == ".." && os.IsPathSeparator(rel[2])
}
