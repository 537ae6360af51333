package convert

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	gdenc "github.com/gdamore/encoding"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/dshills/tepl/internal/encoding"
)

// Result classifies the outcome of a Narrow.Feed call.
type Result int

const (
	// ResultOK means all input was converted.
	ResultOK Result = iota
	// ResultInvalidInput means conversion stopped at an invalid sequence.
	// The caller skips one byte at the reported input position and retries.
	ResultInvalidInput
	// ResultIncompleteInput means the remaining input is the start of a
	// sequence that was cut short. The caller keeps it for the next call.
	ResultIncompleteInput
	// ResultOutputFull means the output slice has no room for the next
	// character. The caller makes room and retries at the same position.
	ResultOutputFull
	// ResultError means the transcoder failed; the error is returned alongside.
	ResultError
)

// String returns a short name for the result.
func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultInvalidInput:
		return "invalid-input"
	case ResultIncompleteInput:
		return "incomplete-input"
	case ResultOutputFull:
		return "output-full"
	case ResultError:
		return "error"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

type narrowMode int

const (
	// modePassthrough validates UTF-8 and copies it.
	modePassthrough narrowMode = iota
	// modeSingleByte decodes a one byte per character charset to UTF-8.
	modeSingleByte
	// modeGeneric decodes one character at a time and re-encodes it.
	modeGeneric
)

const (
	// maxUnit is the longest byte sequence tried as one input character.
	maxUnit = 8
	// unitScratch is the scratch space for one converted character.
	unitScratch = 64
)

var replacementUTF8 = []byte(string(utf8.RuneError))

// Narrow is a stateful single-direction transcoder between two charsets.
// It converts as much input as it can per call and reports why it stopped.
//
// A Narrow keeps shift state between calls and must not be shared between
// goroutines.
type Narrow struct {
	from string
	to   string
	mode narrowMode
	open bool

	srcUTF8        bool
	dec            transform.Transformer
	enc            transform.Transformer
	verify         transform.Transformer
	srcReplacement []byte

	decoded  []byte
	encoded  []byte
	verified []byte

	staged    []byte
	stagedLen int
}

// OpenNarrow opens a transcoder from charset from to charset to.
// It fails with ErrUnsupportedConversion when either charset has no
// implementation and with ErrOpenFailed for any other problem.
func OpenNarrow(from, to string) (*Narrow, error) {
	src, err := resolve(from)
	if err != nil {
		return nil, &Error{Op: "open", From: from, To: to, Offset: -1, Err: err}
	}
	dst, err := resolve(to)
	if err != nil {
		return nil, &Error{Op: "open", From: from, To: to, Offset: -1, Err: err}
	}

	n := &Narrow{
		from:     from,
		to:       to,
		open:     true,
		decoded:  make([]byte, unitScratch),
		encoded:  make([]byte, unitScratch),
		verified: make([]byte, unitScratch),
	}

	fromUTF8 := encoding.MustFromCharset(from).IsUTF8()
	toUTF8 := encoding.MustFromCharset(to).IsUTF8()

	switch {
	case fromUTF8 && toUTF8:
		n.mode = modePassthrough
	case toUTF8 && singleByte(src):
		n.mode = modeSingleByte
		n.dec = src.NewDecoder()
	default:
		n.mode = modeGeneric
		n.srcUTF8 = fromUTF8
		if !fromUTF8 {
			n.dec = src.NewDecoder()
			n.srcReplacement = replacementIn(src)
		}
		if !toUTF8 {
			n.enc = dst.NewEncoder()
			if singleByte(dst) {
				n.verify = dst.NewDecoder()
			}
		}
	}

	return n, nil
}

// From returns the source charset.
func (n *Narrow) From() string { return n.from }

// To returns the target charset.
func (n *Narrow) To() string { return n.to }

// Feed converts in into out. It returns the bytes consumed from in, the bytes
// written to out, and why conversion stopped. On ResultInvalidInput nIn is
// the offset of the first byte of the invalid sequence.
func (n *Narrow) Feed(in, out []byte) (nIn, nOut int, res Result, err error) {
	if n == nil || !n.open {
		return 0, 0, ResultError, ErrNotOpen
	}

	switch n.mode {
	case modePassthrough:
		return n.feedPassthrough(in, out)
	case modeSingleByte:
		return n.feedSingleByte(in, out)
	default:
		return n.feedGeneric(in, out)
	}
}

// Flush writes the sequence that returns the target to its initial shift
// state. It is the end-of-input counterpart of Feed.
func (n *Narrow) Flush(out []byte) (nOut int, res Result, err error) {
	if n == nil || !n.open {
		return 0, ResultError, ErrNotOpen
	}
	if n.mode != modeGeneric {
		return 0, ResultOK, nil
	}

	if n.staged != nil {
		if len(n.staged) > len(out) {
			return 0, ResultOutputFull, nil
		}
		nOut = copy(out, n.staged)
		n.staged, n.stagedLen = nil, 0
	}

	if n.dec != nil {
		nDst, _, err := n.dec.Transform(n.decoded, nil, true)
		if err != nil {
			return nOut, ResultError, failure(err)
		}
		if nDst > 0 {
			converted := n.decoded[:nDst]
			if n.enc != nil {
				var res Result
				converted, res, err = n.encodeUnit(converted)
				if res != ResultOK {
					return nOut, res, err
				}
			}
			if len(converted) > len(out)-nOut {
				n.staged = append([]byte(nil), converted...)
				return nOut, ResultOutputFull, nil
			}
			nOut += copy(out[nOut:], converted)
		}
	}

	if n.enc != nil {
		nDst, _, err := n.enc.Transform(out[nOut:], nil, true)
		if errors.Is(err, transform.ErrShortDst) {
			return nOut, ResultOutputFull, nil
		}
		if err != nil {
			return nOut, ResultError, failure(err)
		}
		nOut += nDst
	}

	return nOut, ResultOK, nil
}

// Close releases the transcoder. Closing a nil, unopened or already closed
// Narrow is a no-op.
func (n *Narrow) Close() error {
	if n == nil || !n.open {
		return nil
	}
	n.open = false
	n.dec, n.enc, n.verify = nil, nil, nil
	n.staged = nil
	return nil
}

func (n *Narrow) feedPassthrough(in, out []byte) (nIn, nOut int, res Result, err error) {
	for nIn < len(in) {
		size := 1
		if in[nIn] >= utf8.RuneSelf {
			var r rune
			r, size = utf8.DecodeRune(in[nIn:])
			if r == utf8.RuneError && size == 1 {
				if !utf8.FullRune(in[nIn:]) {
					return nIn, nOut, ResultIncompleteInput, nil
				}
				return nIn, nOut, ResultInvalidInput, nil
			}
		}
		if nOut+size > len(out) {
			return nIn, nOut, ResultOutputFull, nil
		}
		copy(out[nOut:], in[nIn:nIn+size])
		nIn += size
		nOut += size
	}
	return nIn, nOut, ResultOK, nil
}

// feedSingleByte converts in one pass. Every input byte yields exactly one
// rune, so the rune count of the output locates the first undecodable byte.
func (n *Narrow) feedSingleByte(in, out []byte) (nIn, nOut int, res Result, err error) {
	nDst, nSrc, err := n.dec.Transform(out, in, false)
	if i := bytes.Index(out[:nDst], replacementUTF8); i >= 0 {
		return utf8.RuneCount(out[:i]), i, ResultInvalidInput, nil
	}
	switch {
	case err == nil:
		return nSrc, nDst, ResultOK, nil
	case errors.Is(err, transform.ErrShortDst):
		return nSrc, nDst, ResultOutputFull, nil
	default:
		return nSrc, nDst, ResultError, failure(err)
	}
}

func (n *Narrow) feedGeneric(in, out []byte) (nIn, nOut int, res Result, err error) {
	if n.staged != nil {
		if len(n.staged) > len(out) {
			return 0, 0, ResultOutputFull, nil
		}
		nOut = copy(out, n.staged)
		nIn = min(n.stagedLen, len(in))
		n.staged, n.stagedLen = nil, 0
	}

	for nIn < len(in) {
		converted, size, res, err := n.convertUnit(in[nIn:])
		if res != ResultOK {
			return nIn, nOut, res, err
		}
		// The transcoders have already advanced past this character, so
		// keep its output for the retry instead of converting it again.
		if len(converted) > len(out)-nOut {
			n.staged = append([]byte(nil), converted...)
			n.stagedLen = size
			return nIn, nOut, ResultOutputFull, nil
		}
		nOut += copy(out[nOut:], converted)
		nIn += size
	}
	return nIn, nOut, ResultOK, nil
}

// convertUnit converts the first character of in.
func (n *Narrow) convertUnit(in []byte) (out []byte, size int, res Result, err error) {
	var utf []byte
	if n.srcUTF8 {
		r, sz := utf8.DecodeRune(in)
		if r == utf8.RuneError && sz <= 1 {
			if !utf8.FullRune(in) {
				return nil, 0, ResultIncompleteInput, nil
			}
			return nil, 0, ResultInvalidInput, nil
		}
		utf, size = in[:sz], sz
	} else {
		utf, size, res, err = n.decodeUnit(in)
		if res != ResultOK {
			return nil, 0, res, err
		}
	}

	if n.enc == nil {
		return utf, size, ResultOK, nil
	}
	out, res, err = n.encodeUnit(utf)
	if res != ResultOK {
		return nil, 0, res, err
	}
	return out, size, ResultOK, nil
}

// decodeUnit grows a window over in until the decoder consumes something.
// Decoders substitute U+FFFD for invalid input instead of failing, so a
// replacement character that does not come from an encoded U+FFFD marks the
// window as invalid.
func (n *Narrow) decodeUnit(in []byte) ([]byte, int, Result, error) {
	limit := min(len(in), maxUnit)
	for w := 1; w <= limit; w++ {
		nDst, nSrc, err := n.dec.Transform(n.decoded, in[:w], false)
		if nSrc == 0 {
			switch {
			case err == nil, errors.Is(err, transform.ErrShortSrc):
				continue
			case errors.Is(err, transform.ErrShortDst):
				return nil, 0, ResultError, failure(err)
			default:
				return nil, 0, ResultInvalidInput, nil
			}
		}

		decoded := n.decoded[:nDst]
		if bytes.Contains(decoded, replacementUTF8) && !bytes.Equal(in[:nSrc], n.srcReplacement) {
			return nil, 0, ResultInvalidInput, nil
		}
		return decoded, nSrc, ResultOK, nil
	}

	if len(in) < maxUnit {
		return nil, 0, ResultIncompleteInput, nil
	}
	return nil, 0, ResultInvalidInput, nil
}

// encodeUnit encodes one UTF-8 character into the target charset. A
// character the target cannot represent is invalid input.
func (n *Narrow) encodeUnit(utf []byte) ([]byte, Result, error) {
	nDst, nSrc, err := n.enc.Transform(n.encoded, utf, false)
	if errors.Is(err, transform.ErrShortDst) {
		return nil, ResultError, failure(err)
	}
	if err != nil || nSrc < len(utf) {
		return nil, ResultInvalidInput, nil
	}
	encoded := n.encoded[:nDst]

	// Some single-byte encoders substitute a fixed byte for characters they
	// cannot represent. Decoding the result back exposes the substitution.
	if n.verify != nil {
		vDst, _, err := n.verify.Transform(n.verified, encoded, true)
		if err != nil || !bytes.Equal(n.verified[:vDst], utf) {
			return nil, ResultInvalidInput, nil
		}
	}
	return encoded, ResultOK, nil
}

func resolve(charset string) (xenc.Encoding, error) {
	enc, err := encoding.Lookup(charset)
	switch {
	case err == nil:
		return enc, nil
	case errors.Is(err, encoding.ErrUnknownCharset), errors.Is(err, encoding.ErrEmptyCharset):
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedConversion, err)
	default:
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
}

func singleByte(enc xenc.Encoding) bool {
	switch enc.(type) {
	case *charmap.Charmap, *gdenc.Charmap:
		return true
	}
	return false
}

// replacementIn returns the encoding of U+FFFD in enc without any byte
// order mark, or nil when enc cannot represent it.
func replacementIn(enc xenc.Encoding) []byte {
	b, err := enc.NewEncoder().Bytes(replacementUTF8)
	if err != nil {
		return nil
	}
	if _, n := encoding.DetectBOM(b); n > 0 && n < len(b) {
		b = b[n:]
	}
	return b
}
