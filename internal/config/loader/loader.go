// Package loader reads configuration sources into nested maps.
//
// TOML and YAML files and TEPL_* environment variables each produce a
// map[string]any keyed by section; DeepMerge layers them.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrUnsupportedFormat is returned for a config file whose extension names
// no known format.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Loader is implemented by every configuration source.
type Loader interface {
	// Load reads the source and returns a map.
	// Returns nil, nil if the source doesn't exist.
	Load() (map[string]any, error)
}

// FileSystem reads configuration files.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS reads from the operating system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// Format is a configuration file syntax.
type Format struct {
	Name       string
	Extensions []string
	Decode     func(data []byte) (map[string]any, error)
	// Position extracts the line and column of a decode error, or zeros.
	Position func(err error) (line, column int)
}

var formats = []Format{TOML, YAML}

// FormatFor picks the format from the extension of path.
func FormatFor(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range formats {
		if slices.Contains(f.Extensions, ext) {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// FileLoader loads one configuration file.
type FileLoader struct {
	fs     FileSystem
	path   string
	format Format
}

// NewFileLoader creates a loader for path, choosing the format from its
// extension.
func NewFileLoader(fsys FileSystem, path string) (*FileLoader, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	return &FileLoader{fs: fsys, path: path, format: format}, nil
}

// NewTOMLLoader creates a TOML loader for path.
func NewTOMLLoader(path string) *FileLoader {
	return NewTOMLLoaderWithFS(DefaultFS(), path)
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fsys FileSystem, path string) *FileLoader {
	return &FileLoader{fs: fsys, path: path, format: TOML}
}

// NewYAMLLoader creates a YAML loader for path.
func NewYAMLLoader(path string) *FileLoader {
	return NewYAMLLoaderWithFS(DefaultFS(), path)
}

// NewYAMLLoaderWithFS creates a YAML loader with a custom file system.
func NewYAMLLoaderWithFS(fsys FileSystem, path string) *FileLoader {
	return &FileLoader{fs: fsys, path: path, format: YAML}
}

// Format returns the syntax the loader decodes.
func (l *FileLoader) Format() Format { return l.format }

// Load reads configuration from the configured path. A missing file is
// not an error.
func (l *FileLoader) Load() (map[string]any, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", l.path, err)
	}
	return l.decode(l.path, data)
}

// LoadFromReader reads configuration from r.
func (l *FileLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return l.decode("<reader>", data)
}

func (l *FileLoader) decode(source string, data []byte) (map[string]any, error) {
	config, err := l.format.Decode(data)
	if err != nil {
		perr := &ParseError{Path: source, Format: l.format.Name, Message: err.Error(), Err: err}
		if l.format.Position != nil {
			perr.Line, perr.Column = l.format.Position(err)
		}
		return nil, perr
	}
	return config, nil
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Format  string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s parse error in %s at line %d, column %d: %s", e.Format, e.Path, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%s parse error in %s at line %d: %s", e.Format, e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s parse error in %s: %s", e.Format, e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DeepMerge recursively merges src into dst.
// Values in src override values in dst.
// Maps are merged recursively; other types are replaced.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
		} else {
			dst[key] = srcVal
		}
	}
	return dst
}
