package encoding

import (
	"bytes"
	"strings"
)

type bomEntry struct {
	mark    []byte
	charset string
}

// boms is ordered so that the UTF-32LE mark is tested before the UTF-16LE
// mark it starts with.
var boms = []bomEntry{
	{[]byte{0xEF, 0xBB, 0xBF}, "UTF-8"},
	{[]byte{0xFF, 0xFE, 0x00, 0x00}, "UTF-32LE"},
	{[]byte{0x00, 0x00, 0xFE, 0xFF}, "UTF-32BE"},
	{[]byte{0xFF, 0xFE}, "UTF-16LE"},
	{[]byte{0xFE, 0xFF}, "UTF-16BE"},
}

// DetectBOM reports the encoding announced by a byte order mark at the
// start of data and the length of the mark. It returns the zero Encoding
// and 0 when data has no mark.
func DetectBOM(data []byte) (Encoding, int) {
	for _, b := range boms {
		if bytes.HasPrefix(data, b.mark) {
			return MustFromCharset(b.charset), len(b.mark)
		}
	}
	return Encoding{}, 0
}

// BOM returns the byte order mark for e, or nil when e has none.
func BOM(e Encoding) []byte {
	for _, b := range boms {
		if e.Equal(MustFromCharset(b.charset)) {
			return b.mark
		}
	}
	return nil
}

// StripBOM removes a UTF-8 byte order mark from text that is already UTF-8.
// It reports whether a mark was removed.
func StripBOM(text []byte) ([]byte, bool) {
	if bytes.HasPrefix(text, boms[0].mark) {
		return text[len(boms[0].mark):], true
	}
	return text, false
}

// AddBOM prefixes data, already encoded as e, with e's byte order mark.
// Data that already starts with the mark is returned unchanged.
func AddBOM(data []byte, e Encoding) []byte {
	mark := BOM(e)
	if mark == nil || bytes.HasPrefix(data, mark) {
		return data
	}
	out := make([]byte, 0, len(mark)+len(data))
	out = append(out, mark...)
	return append(out, data...)
}

// LineEnding is a line terminator style.
type LineEnding string

const (
	// LineEndingLF is "\n".
	LineEndingLF LineEnding = "lf"
	// LineEndingCRLF is "\r\n".
	LineEndingCRLF LineEnding = "crlf"
	// LineEndingCR is "\r".
	LineEndingCR LineEnding = "cr"
	// LineEndingMixed marks text where no single style dominates.
	LineEndingMixed LineEnding = "mixed"
)

// Terminator returns the bytes of the style. Mixed has none.
func (l LineEnding) Terminator() []byte {
	switch l {
	case LineEndingLF:
		return []byte{'\n'}
	case LineEndingCRLF:
		return []byte{'\r', '\n'}
	case LineEndingCR:
		return []byte{'\r'}
	}
	return nil
}

// ParseLineEnding parses "lf", "crlf" or "cr" ignoring case.
func ParseLineEnding(s string) (LineEnding, bool) {
	switch LineEnding(strings.ToLower(s)) {
	case LineEndingLF:
		return LineEndingLF, true
	case LineEndingCRLF:
		return LineEndingCRLF, true
	case LineEndingCR:
		return LineEndingCR, true
	}
	return "", false
}

// DetectLineEnding returns the dominant line ending of text. Text without
// line breaks is LF. When two or more styles each account for at least a
// tenth of the breaks the result is LineEndingMixed.
func DetectLineEnding(text []byte) LineEnding {
	var lf, crlf, cr int
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lf++
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		}
	}

	total := lf + crlf + cr
	if total == 0 {
		return LineEndingLF
	}

	threshold := max(total/10, 1)
	styles := 0
	for _, n := range []int{lf, crlf, cr} {
		if n >= threshold {
			styles++
		}
	}
	if styles > 1 {
		return LineEndingMixed
	}

	switch {
	case crlf >= lf && crlf >= cr:
		return LineEndingCRLF
	case cr > lf:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}

// NormalizeLineEndings rewrites every line break in text to ending.
// Mixed leaves text untouched.
func NormalizeLineEndings(text []byte, ending LineEnding) []byte {
	nl := ending.Terminator()
	if nl == nil || len(text) == 0 {
		return text
	}

	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			out = append(out, nl...)
		case '\n':
			out = append(out, nl...)
		default:
			out = append(out, text[i])
		}
	}
	return out
}

// binarySampleSize bounds how much of the content IsBinary inspects.
const binarySampleSize = 8192

// IsBinary guesses whether data is binary rather than text. A NUL byte or
// more than 10% control characters in the first 8 KiB count as binary.
// Content announced as UTF-16 or UTF-32 by a byte order mark is text.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if enc, _ := DetectBOM(data); !enc.IsZero() {
		return false
	}

	sample := data[:min(len(data), binarySampleSize)]
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	control := 0
	for _, b := range sample {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != '\f' && b != 0x1B {
			control++
		}
	}
	return control*10 > len(sample)
}
