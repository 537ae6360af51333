// Package vfs is the byte source and sink of the loader.
//
// The loader reads through a Source and the saver writes through a Sink,
// so both run against the operating system or against an in-memory tree
// in tests.
package vfs

import (
	"io"
	"io/fs"
)

// Source supplies file content.
type Source interface {
	// Stat describes path without reading it.
	Stat(path string) (Info, error)

	// Open opens path for reading.
	Open(path string) (io.ReadCloser, error)
}

// Sink stores files. Saves write a temporary file with Create and move it
// over the destination with Rename, so a failed save leaves the old file.
type Sink interface {
	Create(path string) (io.WriteCloser, error)
	Rename(oldPath, newPath string) error
	Remove(path string) error
}

// VFS is both a Source and a Sink.
type VFS interface {
	Source
	Sink
}

// Info is what the loader checks before reading a file.
type Info struct {
	Size int64
	Mode fs.FileMode
}

// IsDir reports whether the path is a directory.
func (i Info) IsDir() bool { return i.Mode.IsDir() }
