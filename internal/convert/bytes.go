package convert

import (
	"bytes"

	"github.com/dshills/tepl/internal/content"
)

// trialChunkSize is the output buffer capacity used by Test, where output is
// discarded anyway.
const trialChunkSize = 4096

// Bytes converts data from one charset to another in strict mode. It fails
// with ErrInvalidInput at the first invalid byte and with
// ErrIncompleteTrailingInput when data ends inside a character.
func Bytes(from, to string, data []byte) ([]byte, error) {
	var out bytes.Buffer
	c := New(WithStrict(true), WithSink(func(chunk OutputChunk) {
		out.Write(chunk.Bytes)
	}))
	if err := c.Open(from, to); err != nil {
		return nil, err
	}

	ferr := c.Feed(data)
	cerr := c.Close()
	if ferr != nil {
		return nil, ferr
	}
	if cerr != nil {
		return nil, cerr
	}
	return out.Bytes(), nil
}

// Chunks converts every chunk of buf and returns the output chunks. Invalid
// input is returned as invalid chunks; the error reports open and close
// failures, including a trailing partial character.
func Chunks(from, to string, buf *content.Buffer, opts ...Option) ([]OutputChunk, Stats, error) {
	c := New(opts...)
	if err := c.Open(from, to); err != nil {
		return nil, Stats{}, err
	}

	var out []OutputChunk
	for chunk := range buf.Chunks() {
		if err := c.Feed(chunk.Bytes()); err != nil {
			_ = c.Close()
			return append(out, c.Drain()...), c.Stats(), err
		}
		out = append(out, c.Drain()...)
	}
	err := c.Close()
	return append(out, c.Drain()...), c.Stats(), err
}

// Test reports whether buf converts from one charset to another without a
// single invalid byte. Converted text is discarded. It returns nil on
// success and the first conversion error otherwise.
func Test(from, to string, buf *content.Buffer) error {
	c := New(WithMaxOutputChunkSize(trialChunkSize), WithDiscardOutput(true), WithStrict(true))
	if err := c.Open(from, to); err != nil {
		return err
	}

	for chunk := range buf.Chunks() {
		if err := c.Feed(chunk.Bytes()); err != nil {
			_ = c.Close()
			return err
		}
	}
	return c.Close()
}
