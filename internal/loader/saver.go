package loader

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/dshills/tepl/internal/convert"
	"github.com/dshills/tepl/internal/encoding"
	"github.com/dshills/tepl/internal/logging"
	"github.com/dshills/tepl/internal/vfs"
)

// saveChunkSize is how much UTF-8 text is fed to the converter at once.
const saveChunkSize = 64 * 1024

// Saver converts UTF-8 text to a file encoding and writes it.
type Saver struct {
	fs     vfs.Sink
	logger *logging.Logger
}

// NewSaver creates a saver writing to fsys, or to the OS when fsys is nil.
func NewSaver(fsys vfs.Sink, logger *logging.Logger) *Saver {
	if fsys == nil {
		fsys = vfs.NewOSFS()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Saver{fs: fsys, logger: logger.WithComponent("saver")}
}

// Save writes text to path in enc. Line breaks are rewritten to ending
// unless it is empty or mixed, and addBOM prefixes the encoding's byte order
// mark. A character enc cannot represent fails the save with
// convert.ErrInvalidInput and leaves any existing file untouched.
func (s *Saver) Save(ctx context.Context, path string, text []byte, enc encoding.Encoding, ending encoding.LineEnding, addBOM bool) error {
	if enc.IsZero() {
		enc = encoding.UTF8()
	}
	log := s.logger.WithFields(map[string]any{"save": uuid.NewString(), "path": path})

	if ending != "" {
		text = encoding.NormalizeLineEndings(text, ending)
	}

	tmp := path + ".tepl-save"
	w, err := s.fs.Create(tmp)
	if err != nil {
		return &PathError{Op: "write", Path: path, Err: err}
	}

	if err := s.write(ctx, w, text, enc, addBOM); err != nil {
		_ = w.Close()
		_ = s.fs.Remove(tmp)
		log.Warn("save as %s failed: %v", enc.Charset(), err)
		return &PathError{Op: "write", Path: path, Err: err}
	}
	if err := w.Close(); err != nil {
		_ = s.fs.Remove(tmp)
		return &PathError{Op: "write", Path: path, Err: err}
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return &PathError{Op: "write", Path: path, Err: err}
	}

	log.Info("saved %d bytes of text as %s", len(text), enc.Charset())
	return nil
}

func (s *Saver) write(ctx context.Context, w io.Writer, text []byte, enc encoding.Encoding, addBOM bool) error {
	var werr error
	sink := func(chunk convert.OutputChunk) {
		if werr == nil {
			_, werr = w.Write(chunk.Bytes)
		}
	}

	if addBOM {
		if mark := encoding.BOM(enc); mark != nil {
			if _, err := w.Write(mark); err != nil {
				return err
			}
		}
	}

	c := convert.New(convert.WithStrict(true), convert.WithSink(sink))
	if err := c.Open(encoding.CharsetUTF8, enc.Charset()); err != nil {
		return err
	}

	for len(text) > 0 {
		if err := ctx.Err(); err != nil {
			_ = c.Close()
			return err
		}
		n := min(saveChunkSize, len(text))
		if err := c.Feed(text[:n]); err != nil {
			_ = c.Close()
			return err
		}
		text = text[n:]
		if werr != nil {
			_ = c.Close()
			return werr
		}
	}

	if err := c.Close(); err != nil {
		return err
	}
	return werr
}
