package convert

const (
	// DefaultMaxOutputChunkSize is the default capacity of the output buffer.
	DefaultMaxOutputChunkSize = 1024 * 1024

	// MinOutputChunkSize is the smallest accepted output buffer capacity.
	// Smaller values are raised to it.
	MinOutputChunkSize = 32
)

// Option configures a Converter.
type Option func(*Converter)

// WithMaxOutputChunkSize sets the capacity of the output buffer, which is
// also the largest valid-text chunk the converter emits.
func WithMaxOutputChunkSize(n int) Option {
	return func(c *Converter) {
		c.maxChunk = max(n, MinOutputChunkSize)
	}
}

// WithDiscardOutput drops converted text. Only errors and invalid byte
// accounting remain observable.
func WithDiscardOutput(discard bool) Option {
	return func(c *Converter) {
		c.discard = discard
	}
}

// WithStrict makes Feed fail with ErrInvalidInput at the first invalid byte
// instead of emitting it as an invalid chunk.
func WithStrict(strict bool) Option {
	return func(c *Converter) {
		c.strict = strict
	}
}

// WithSink delivers output chunks to fn as they are produced instead of
// queueing them for Next.
func WithSink(fn func(OutputChunk)) Option {
	return func(c *Converter) {
		c.sink = fn
	}
}
