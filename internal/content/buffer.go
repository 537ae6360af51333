package content

import (
	"errors"
	"io"
	"iter"
)

// Buffer is an ordered, append-only sequence of chunks.
// The sum of the chunk lengths is the logical content length.
//
// Buffer is not safe for concurrent mutation; concurrent readers are fine
// once filling has finished.
type Buffer struct {
	chunks []Chunk
	size   int64
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// FromBytes builds a buffer holding data split into chunks of at most
// chunkSize bytes. A chunkSize <= 0 keeps data in a single chunk.
func FromBytes(data []byte, chunkSize int) *Buffer {
	b := NewBuffer()
	if chunkSize <= 0 {
		chunkSize = len(data)
	}
	for len(data) > 0 {
		n := min(chunkSize, len(data))
		_ = b.Append(data[:n])
		data = data[n:]
	}
	return b
}

// Append copies p into a new chunk at the end of the buffer.
func (b *Buffer) Append(p []byte) error {
	c, err := NewChunk(p)
	if err != nil {
		return err
	}
	return b.AppendChunk(c)
}

// AppendChunk adds c at the end of the buffer.
func (b *Buffer) AppendChunk(c Chunk) error {
	if c.IsZero() {
		return ErrEmptyChunk
	}
	b.chunks = append(b.chunks, c)
	b.size += int64(c.Len())
	return nil
}

// ReadFrom appends everything r yields, one chunk per successful read.
// It implements io.ReaderFrom.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	return b.ReadChunks(r, DefaultChunkSize)
}

// ReadChunks reads r until EOF using reads of at most size bytes.
func (b *Buffer) ReadChunks(r io.Reader, size int) (int64, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	var total int64
	buf := make([]byte, size)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			_ = b.Append(buf[:n])
			total += int64(n)
		}
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Len returns the total content length in bytes.
func (b *Buffer) Len() int64 { return b.size }

// NumChunks returns the number of chunks.
func (b *Buffer) NumChunks() int { return len(b.chunks) }

// IsEmpty reports whether the buffer holds no content.
func (b *Buffer) IsEmpty() bool { return len(b.chunks) == 0 }

// Chunk returns the i-th chunk.
func (b *Buffer) Chunk(i int) Chunk { return b.chunks[i] }

// Chunks iterates over the chunks in file order.
func (b *Buffer) Chunks() iter.Seq[Chunk] {
	return func(yield func(Chunk) bool) {
		for _, c := range b.chunks {
			if !yield(c) {
				return
			}
		}
	}
}

// Head returns a copy of at most n leading bytes of the content.
func (b *Buffer) Head(n int) []byte {
	if n <= 0 {
		return nil
	}
	out := make([]byte, 0, min(int64(n), b.size))
	for _, c := range b.chunks {
		if len(out) >= n {
			break
		}
		take := min(n-len(out), c.Len())
		out = append(out, c.data[:take]...)
	}
	return out
}

// WriteTo writes the content to w chunk by chunk. It implements io.WriterTo.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, c := range b.chunks {
		n, err := w.Write(c.data)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
