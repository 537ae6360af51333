package convert

import (
	"bytes"
	"iter"
)

// nearFull is the slack under which a flushed output buffer is handed over
// as is rather than copied.
const nearFull = 32

// OutputChunk is one piece of converter output. Valid chunks hold text in
// the target charset; invalid chunks hold the raw input bytes that could not
// be converted. An invalid chunk is never followed by another invalid chunk.
type OutputChunk struct {
	Bytes []byte
	Valid bool
}

// Stats counts what a converter has processed since Open.
type Stats struct {
	BytesIn      int64 // input bytes accepted by Feed
	BytesOut     int64 // valid output bytes produced
	InvalidBytes int64 // input bytes emitted as invalid
	Chunks       int   // output chunks emitted
}

// Converter turns a sequence of input chunks in one charset into a sequence
// of output chunks in another. Multi-byte characters split across input
// chunks are carried over between Feed calls.
//
// The lifecycle is Open, any number of Feed calls, then Close. A closed
// Converter can be opened again. Converter is not safe for concurrent use.
type Converter struct {
	maxChunk int
	discard  bool
	strict   bool
	sink     func(OutputChunk)

	from   string
	to     string
	narrow *Narrow

	out            []byte
	used           int
	pendingInput   []byte
	pendingInvalid []byte

	queue  []OutputChunk
	stats  Stats
	offset int64
	failed error
}

// New creates a converter. It must be opened before use.
func New(opts ...Option) *Converter {
	c := &Converter{maxChunk: DefaultMaxOutputChunkSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open prepares the converter to convert from one charset to another.
// It fails with ErrAlreadyOpen when the converter is open, and otherwise with
// the errors of OpenNarrow.
func (c *Converter) Open(from, to string) error {
	if c.narrow != nil {
		return &Error{Op: "open", From: from, To: to, Offset: -1, Err: ErrAlreadyOpen}
	}

	n, err := OpenNarrow(from, to)
	if err != nil {
		return err
	}

	c.from, c.to = from, to
	c.narrow = n
	c.out = make([]byte, c.maxChunk)
	c.used = 0
	c.pendingInput = c.pendingInput[:0]
	c.pendingInvalid = c.pendingInvalid[:0]
	c.queue = nil
	c.stats = Stats{}
	c.offset = 0
	c.failed = nil
	return nil
}

// IsOpen reports whether the converter is between Open and Close.
func (c *Converter) IsOpen() bool { return c.narrow != nil }

// Feed converts chunk. The chunk is only read during the call.
//
// In strict mode an invalid byte fails Feed with ErrInvalidInput. After any
// error the converter refuses further input until it is closed.
func (c *Converter) Feed(chunk []byte) error {
	if c.narrow == nil {
		return &Error{Op: "feed", From: c.from, To: c.to, Offset: -1, Err: ErrNotOpen}
	}
	if c.failed != nil {
		return c.failed
	}
	if err := c.feed(chunk); err != nil {
		c.failed = err
		return err
	}
	return nil
}

func (c *Converter) feed(chunk []byte) error {
	c.stats.BytesIn += int64(len(chunk))

	// Complete a carried-over partial character one byte at a time, so an
	// ordinary split costs no more than a few bytes of copying.
	for len(c.pendingInput) > 0 && len(chunk) > 0 {
		c.pendingInput = append(c.pendingInput, chunk[0])
		chunk = chunk[1:]

		tail, err := c.process(c.pendingInput)
		if err != nil {
			return err
		}
		c.pendingInput = append(c.pendingInput[:0], tail...)
	}
	if len(chunk) == 0 {
		return nil
	}

	tail, err := c.process(chunk)
	if err != nil {
		return err
	}
	c.pendingInput = append(c.pendingInput[:0], tail...)
	return nil
}

// process converts in and returns the incomplete tail, if any.
func (c *Converter) process(in []byte) ([]byte, error) {
	for len(in) > 0 {
		nIn, nOut, res, err := c.narrow.Feed(in, c.out[c.used:])
		if nOut > 0 {
			c.flushInvalid()
			c.used += nOut
			c.stats.BytesOut += int64(nOut)
		}
		in = in[nIn:]
		c.offset += int64(nIn)

		switch res {
		case ResultOK:
			return nil, nil

		case ResultInvalidInput:
			if c.strict {
				return nil, c.errorf("feed", ErrInvalidInput)
			}
			c.flushOutput()
			c.pendingInvalid = append(c.pendingInvalid, in[0])
			c.stats.InvalidBytes++
			in = in[1:]
			c.offset++

		case ResultOutputFull:
			if c.used == 0 {
				return nil, c.errorf("feed", failure(errOutputTooSmall))
			}
			c.flushOutput()

		case ResultIncompleteInput:
			return in, nil

		default:
			return nil, c.errorf("feed", err)
		}
	}
	return nil, nil
}

// Close finishes the conversion. Bytes of a trailing partial character are
// emitted as invalid output and reported as ErrIncompleteTrailingInput.
// Close flushes all remaining output and always releases the transcoder;
// it returns the first error encountered.
func (c *Converter) Close() error {
	if c.narrow == nil {
		return &Error{Op: "close", From: c.from, To: c.to, Offset: -1, Err: ErrNotOpen}
	}

	var first error
	record := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	if len(c.pendingInput) > 0 {
		record(c.errorf("close", ErrIncompleteTrailingInput))
		c.flushOutput()
		c.pendingInvalid = append(c.pendingInvalid, c.pendingInput...)
		c.stats.InvalidBytes += int64(len(c.pendingInput))
		c.offset += int64(len(c.pendingInput))
		c.pendingInput = c.pendingInput[:0]
	}

	for {
		nOut, res, err := c.narrow.Flush(c.out[c.used:])
		if nOut > 0 {
			c.flushInvalid()
			c.used += nOut
			c.stats.BytesOut += int64(nOut)
		}
		if res == ResultOutputFull && c.used > 0 {
			c.flushOutput()
			continue
		}
		if res == ResultOutputFull {
			err = failure(errOutputTooSmall)
		}
		if err != nil {
			record(c.errorf("flush", err))
		}
		break
	}

	c.flushOutput()
	c.flushInvalid()

	record(c.narrow.Close())
	c.narrow = nil
	return first
}

// Next pops the oldest queued output chunk.
func (c *Converter) Next() (OutputChunk, bool) {
	if len(c.queue) == 0 {
		return OutputChunk{}, false
	}
	chunk := c.queue[0]
	c.queue[0] = OutputChunk{}
	c.queue = c.queue[1:]
	return chunk, true
}

// All yields queued output chunks until the queue is empty. Chunks produced
// by later Feed calls are picked up by iterating again.
func (c *Converter) All() iter.Seq[OutputChunk] {
	return func(yield func(OutputChunk) bool) {
		for {
			chunk, ok := c.Next()
			if !ok || !yield(chunk) {
				return
			}
		}
	}
}

// Drain removes and returns every queued output chunk.
func (c *Converter) Drain() []OutputChunk {
	q := c.queue
	c.queue = nil
	return q
}

// Stats returns counters for the current or last conversion.
func (c *Converter) Stats() Stats { return c.stats }

// InvalidBytes returns how many input bytes were emitted as invalid.
func (c *Converter) InvalidBytes() int64 { return c.stats.InvalidBytes }

// flushOutput emits the buffered valid text. A nearly full buffer is handed
// over and replaced; a partly filled one is copied at its used length.
func (c *Converter) flushOutput() {
	if c.used == 0 {
		return
	}
	if c.discard {
		c.used = 0
		return
	}

	var data []byte
	if c.used >= len(c.out)-nearFull {
		data = c.out[:c.used]
		c.out = make([]byte, c.maxChunk)
	} else {
		data = bytes.Clone(c.out[:c.used])
	}
	c.used = 0
	c.emit(OutputChunk{Bytes: data, Valid: true})
}

func (c *Converter) flushInvalid() {
	if len(c.pendingInvalid) == 0 {
		return
	}
	data := bytes.Clone(c.pendingInvalid)
	c.pendingInvalid = c.pendingInvalid[:0]
	if c.discard {
		return
	}
	c.emit(OutputChunk{Bytes: data, Valid: false})
}

func (c *Converter) emit(chunk OutputChunk) {
	c.stats.Chunks++
	if c.sink != nil {
		c.sink(chunk)
		return
	}
	c.queue = append(c.queue, chunk)
}

func (c *Converter) errorf(op string, err error) error {
	return &Error{Op: op, From: c.from, To: c.to, Offset: c.offset, Err: err}
}
