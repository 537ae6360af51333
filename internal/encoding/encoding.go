package encoding

import (
	"fmt"
	"strings"
)

// CharsetUTF8 is the canonical spelling of the UTF-8 charset.
const CharsetUTF8 = "UTF-8"

// Encoding is an immutable character encoding value.
// The zero value is not a valid encoding; use FromCharset or UTF8.
type Encoding struct {
	charset string
	name    string
}

// FromCharset returns the encoding for charset.
// UTF-8 spellings are canonicalised to "UTF-8". Any other charset is kept as
// given; its display name is taken from the catalog when the catalog knows it.
func FromCharset(charset string) (Encoding, error) {
	charset = strings.TrimSpace(charset)
	if charset == "" {
		return Encoding{}, ErrEmptyCharset
	}
	if isUTF8Charset(charset) {
		return UTF8(), nil
	}
	if entry, ok := lookupEntry(charset); ok {
		return Encoding{charset: charset, name: entry.name}, nil
	}
	return Encoding{charset: charset}, nil
}

// MustFromCharset is like FromCharset but panics on an empty charset.
// It is intended for tables and tests.
func MustFromCharset(charset string) Encoding {
	enc, err := FromCharset(charset)
	if err != nil {
		panic(fmt.Sprintf("encoding: %v", err))
	}
	return enc
}

// UTF8 returns the UTF-8 encoding.
func UTF8() Encoding {
	return Encoding{charset: CharsetUTF8, name: "Unicode"}
}

// Charset returns the charset string. It is empty only for the zero value.
func (e Encoding) Charset() string { return e.charset }

// Name returns the human readable display name, or "" if none is known.
func (e Encoding) Name() string { return e.name }

// IsZero reports whether e is the zero Encoding.
func (e Encoding) IsZero() bool { return e.charset == "" }

// IsUTF8 reports whether e is a spelling of UTF-8.
func (e Encoding) IsUTF8() bool { return isUTF8Charset(e.charset) }

// Equal reports whether e and other denote the same encoding.
func (e Encoding) Equal(other Encoding) bool {
	if e.IsUTF8() && other.IsUTF8() {
		return true
	}
	return strings.EqualFold(e.charset, other.charset)
}

// String returns the display string: "Name (CHARSET)" when a display name is
// known, otherwise the charset alone.
func (e Encoding) String() string {
	if e.name == "" {
		return e.charset
	}
	return e.name + " (" + e.charset + ")"
}

func isUTF8Charset(charset string) bool {
	return strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8")
}
