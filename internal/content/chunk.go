package content

import "errors"

// ErrEmptyChunk is returned when a zero-length chunk is created or appended.
var ErrEmptyChunk = errors.New("empty chunk")

// DefaultChunkSize is the read size used by Buffer.ReadFrom.
const DefaultChunkSize = 64 * 1024

// Chunk is an immutable, non-empty run of bytes.
type Chunk struct {
	data []byte
}

// NewChunk copies p into a new chunk.
func NewChunk(p []byte) (Chunk, error) {
	if len(p) == 0 {
		return Chunk{}, ErrEmptyChunk
	}
	data := make([]byte, len(p))
	copy(data, p)
	return Chunk{data: data}, nil
}

// Bytes returns the chunk content. The slice is shared and must not be modified.
func (c Chunk) Bytes() []byte {
	return c.data
}

// String returns the chunk content as a string.
func (c Chunk) String() string {
	return string(c.data)
}

// Len returns the byte length of the chunk.
func (c Chunk) Len() int {
	return len(c.data)
}

// IsZero reports whether c is the zero Chunk.
func (c Chunk) IsZero() bool {
	return len(c.data) == 0
}
