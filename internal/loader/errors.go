package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrBinaryFile is returned when the content looks binary and binary
	// rejection is enabled.
	ErrBinaryFile = errors.New("file appears to be binary")

	// ErrFileTooLarge is returned when the file exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrIsDirectory is returned when the path names a directory.
	ErrIsDirectory = errors.New("is a directory")
)

// PathError represents a load or save failure for one file.
type PathError struct {
	Op   string // stat, read, detect, convert, write
	Path string
	Err  error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error {
	return e.Err
}
