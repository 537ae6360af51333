package vfs

import (
	"io"
	"os"
)

// OSFS reads and writes the operating system's file system.
type OSFS struct{}

var _ VFS = OSFS{}

// NewOSFS returns the OS file system.
func NewOSFS() OSFS { return OSFS{} }

// Stat follows symbolic links, so a link to a file loads the file.
func (OSFS) Stat(path string) (Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	return Info{Size: fi.Size(), Mode: fi.Mode()}, nil
}

func (OSFS) Open(path string) (io.ReadCloser, error) { return os.Open(path) }

// Create truncates any existing file at path.
func (OSFS) Create(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
}

func (OSFS) Rename(oldPath, newPath string) error { return os.Rename(oldPath, newPath) }

func (OSFS) Remove(path string) error { return os.Remove(path) }
