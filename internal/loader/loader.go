// Package loader reads files into UTF-8 text and writes them back in their
// original encoding.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/dshills/tepl/internal/content"
	"github.com/dshills/tepl/internal/convert"
	"github.com/dshills/tepl/internal/detect"
	"github.com/dshills/tepl/internal/encoding"
	"github.com/dshills/tepl/internal/logging"
	"github.com/dshills/tepl/internal/vfs"
)

// DefaultReadChunkSize is the size of each read from the file.
const DefaultReadChunkSize = content.DefaultChunkSize

// InvalidRange locates an escaped run of invalid bytes in Result.Text.
type InvalidRange struct {
	Start int // offset of the first escape
	End   int // offset just past the last escape
	Bytes int // number of raw bytes the run stands for
}

// Result is a loaded file.
type Result struct {
	Path          string
	Text          []byte // UTF-8 without byte order mark
	Encoding      encoding.Encoding
	Method        detect.Method // empty when the encoding was given
	LineEnding    encoding.LineEnding
	HasBOM        bool
	InvalidRanges []InvalidRange
	Size          int64 // bytes read from the file
}

// Option configures a Loader.
type Option func(*Loader)

// WithFS sets the file source. Defaults to the OS.
func WithFS(fsys vfs.Source) Option {
	return func(l *Loader) { l.fs = fsys }
}

// WithDetector sets the encoding detector.
func WithDetector(d *detect.Detector) Option {
	return func(l *Loader) { l.detector = d }
}

// WithEncoding skips detection and decodes with enc.
func WithEncoding(enc encoding.Encoding) Option {
	return func(l *Loader) { l.encoding = enc }
}

// WithReadChunkSize sets the size of each read.
func WithReadChunkSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.readChunkSize = n
		}
	}
}

// WithMaxFileSize limits the file size. Zero means unlimited.
func WithMaxFileSize(n int64) Option {
	return func(l *Loader) { l.maxFileSize = n }
}

// WithRejectBinary makes Load fail with ErrBinaryFile for binary-looking
// content whose encoding is detected rather than given.
func WithRejectBinary(reject bool) Option {
	return func(l *Loader) { l.rejectBinary = reject }
}

// WithEscapeInvalid keeps invalid bytes in the text as \xNN escapes
// instead of failing the load.
func WithEscapeInvalid(escape bool) Option {
	return func(l *Loader) { l.escapeInvalid = escape }
}

// WithMaxOutputChunkSize sets the converter output buffer size.
func WithMaxOutputChunkSize(n int) Option {
	return func(l *Loader) { l.maxOutputChunk = n }
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger.WithComponent("loader")
		}
	}
}

// Loader reads files, determines their encoding and converts them to UTF-8.
type Loader struct {
	fs             vfs.Source
	detector       *detect.Detector
	encoding       encoding.Encoding
	readChunkSize  int
	maxFileSize    int64
	rejectBinary   bool
	escapeInvalid  bool
	maxOutputChunk int
	logger         *logging.Logger
}

// New creates a loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		readChunkSize:  DefaultReadChunkSize,
		rejectBinary:   true,
		maxOutputChunk: convert.DefaultMaxOutputChunkSize,
		logger:         logging.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.fs == nil {
		l.fs = vfs.NewOSFS()
	}
	if l.detector == nil {
		l.detector = detect.New(detect.WithLogger(l.logger))
	}
	return l
}

// Load reads path and returns its content as UTF-8.
func (l *Loader) Load(ctx context.Context, path string) (*Result, error) {
	log := l.logger.WithFields(map[string]any{"load": uuid.NewString(), "path": path})

	buf, err := l.read(ctx, path)
	if err != nil {
		log.Debug("read failed: %v", err)
		return nil, err
	}

	res := &Result{Path: path, Size: buf.Len(), Encoding: l.encoding}
	if res.Encoding.IsZero() {
		det, err := l.detect(ctx, path, buf)
		if err != nil {
			log.Warn("encoding detection failed: %v", err)
			return nil, err
		}
		res.Encoding, res.Method = det.Encoding, det.Method
	}

	if err := l.decode(ctx, buf, res); err != nil {
		log.Warn("conversion from %s failed: %v", res.Encoding.Charset(), err)
		return nil, &PathError{Op: "convert", Path: path, Err: err}
	}

	res.Text, res.HasBOM = encoding.StripBOM(res.Text)
	if res.HasBOM {
		shift := len(encoding.BOM(encoding.UTF8()))
		for i := range res.InvalidRanges {
			res.InvalidRanges[i].Start -= shift
			res.InvalidRanges[i].End -= shift
		}
	}
	res.LineEnding = encoding.DetectLineEnding(res.Text)

	log.Info("loaded %d bytes as %s", res.Size, res.Encoding.Charset())
	return res, nil
}

// Detect reads path and determines its encoding without converting it.
// An encoding set with WithEncoding is ignored.
func (l *Loader) Detect(ctx context.Context, path string) (detect.Detection, error) {
	buf, err := l.read(ctx, path)
	if err != nil {
		return detect.Detection{}, err
	}
	return l.detect(ctx, path, buf)
}

func (l *Loader) detect(ctx context.Context, path string, buf *content.Buffer) (detect.Detection, error) {
	if l.rejectBinary && encoding.IsBinary(buf.Head(8192)) {
		return detect.Detection{}, &PathError{Op: "detect", Path: path, Err: ErrBinaryFile}
	}
	det, err := l.detector.Detect(ctx, buf)
	if err != nil {
		return detect.Detection{}, &PathError{Op: "detect", Path: path, Err: err}
	}
	return det, nil
}

// read loads path into a chunked buffer, checking ctx between reads.
func (l *Loader) read(ctx context.Context, path string) (*content.Buffer, error) {
	info, err := l.fs.Stat(path)
	if err != nil {
		return nil, &PathError{Op: "stat", Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &PathError{Op: "stat", Path: path, Err: ErrIsDirectory}
	}
	if l.maxFileSize > 0 && info.Size > l.maxFileSize {
		return nil, &PathError{Op: "stat", Path: path, Err: fmt.Errorf("%w: %d bytes", ErrFileTooLarge, info.Size)}
	}

	r, err := l.fs.Open(path)
	if err != nil {
		return nil, &PathError{Op: "read", Path: path, Err: err}
	}
	defer r.Close()

	buf := content.NewBuffer()
	chunk := make([]byte, l.readChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(chunk)
		if n > 0 {
			_ = buf.Append(chunk[:n])
			if l.maxFileSize > 0 && buf.Len() > l.maxFileSize {
				return nil, &PathError{Op: "read", Path: path, Err: ErrFileTooLarge}
			}
		}
		if errors.Is(err, io.EOF) {
			return buf, nil
		}
		if err != nil {
			return nil, &PathError{Op: "read", Path: path, Err: err}
		}
	}
}

// decode converts buf to UTF-8 into res.Text.
func (l *Loader) decode(ctx context.Context, buf *content.Buffer, res *Result) error {
	var text bytes.Buffer
	var invalid error
	sink := func(chunk convert.OutputChunk) {
		if chunk.Valid {
			text.Write(chunk.Bytes)
			return
		}
		if !l.escapeInvalid {
			if invalid == nil {
				invalid = convert.ErrInvalidInput
			}
			return
		}
		start := text.Len()
		for _, b := range chunk.Bytes {
			fmt.Fprintf(&text, "\\x%02X", b)
		}
		res.InvalidRanges = append(res.InvalidRanges, InvalidRange{Start: start, End: text.Len(), Bytes: len(chunk.Bytes)})
	}

	c := convert.New(convert.WithMaxOutputChunkSize(l.maxOutputChunk), convert.WithSink(sink))
	if err := c.Open(res.Encoding.Charset(), encoding.CharsetUTF8); err != nil {
		return err
	}
	for chunk := range buf.Chunks() {
		if err := ctx.Err(); err != nil {
			_ = c.Close()
			return err
		}
		if err := c.Feed(chunk.Bytes()); err != nil {
			_ = c.Close()
			return err
		}
	}

	err := c.Close()
	if errors.Is(err, convert.ErrIncompleteTrailingInput) && l.escapeInvalid {
		err = nil
	}
	if err != nil {
		return err
	}
	if invalid != nil {
		return fmt.Errorf("%w: %d bytes cannot be read as %s", invalid, c.InvalidBytes(), res.Encoding.Charset())
	}

	res.Text = text.Bytes()
	return nil
}
