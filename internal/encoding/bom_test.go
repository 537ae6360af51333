package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBOM(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		charset string
		n       int
	}{
		{"utf8", []byte{0xEF, 0xBB, 0xBF, 'a'}, "UTF-8", 3},
		{"utf16le", []byte{0xFF, 0xFE, 'a', 0}, "UTF-16LE", 2},
		{"utf16be", []byte{0xFE, 0xFF, 0, 'a'}, "UTF-16BE", 2},
		{"utf32le", []byte{0xFF, 0xFE, 0, 0, 'a', 0, 0, 0}, "UTF-32LE", 4},
		{"utf32be", []byte{0, 0, 0xFE, 0xFF}, "UTF-32BE", 4},
		{"none", []byte("hello"), "", 0},
		{"empty", nil, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, n := DetectBOM(tt.data)
			assert.Equal(t, tt.charset, enc.Charset())
			assert.Equal(t, tt.n, n)
		})
	}
}

func TestStripAndAddBOM(t *testing.T) {
	text, ok := StripBOM([]byte("\xEF\xBB\xBFabc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", string(text))

	text, ok = StripBOM([]byte("abc"))
	assert.False(t, ok)
	assert.Equal(t, "abc", string(text))

	assert.Equal(t, "\xEF\xBB\xBFabc", string(AddBOM([]byte("abc"), UTF8())))
	assert.Equal(t, "\xEF\xBB\xBFabc", string(AddBOM([]byte("\xEF\xBB\xBFabc"), UTF8())))
	assert.Equal(t, "abc", string(AddBOM([]byte("abc"), MustFromCharset("ISO-8859-1"))))
	assert.Equal(t, []byte{0xFF, 0xFE, 'a', 0}, AddBOM([]byte{'a', 0}, MustFromCharset("utf-16le")))
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text string
		want LineEnding
	}{
		{"", LineEndingLF},
		{"no breaks", LineEndingLF},
		{"a\nb\nc\n", LineEndingLF},
		{"a\r\nb\r\n", LineEndingCRLF},
		{"a\rb\r", LineEndingCR},
		{"a\nb\r\nc\n", LineEndingMixed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLineEnding([]byte(tt.text)), "%q", tt.text)
	}
}

func TestNormalizeLineEndings(t *testing.T) {
	in := []byte("a\r\nb\rc\nd")
	assert.Equal(t, "a\nb\nc\nd", string(NormalizeLineEndings(in, LineEndingLF)))
	assert.Equal(t, "a\r\nb\r\nc\r\nd", string(NormalizeLineEndings(in, LineEndingCRLF)))
	assert.Equal(t, "a\rb\rc\rd", string(NormalizeLineEndings(in, LineEndingCR)))
	assert.Equal(t, string(in), string(NormalizeLineEndings(in, LineEndingMixed)))
}

func TestParseLineEnding(t *testing.T) {
	le, ok := ParseLineEnding("CRLF")
	assert.True(t, ok)
	assert.Equal(t, LineEndingCRLF, le)

	_, ok = ParseLineEnding("mixed")
	assert.False(t, ok)
}

func TestIsBinary(t *testing.T) {
	assert.False(t, IsBinary(nil))
	assert.False(t, IsBinary([]byte("plain text\n\twith tabs\r\n")))
	assert.False(t, IsBinary([]byte("Hello S\xE9bastien.")))
	assert.True(t, IsBinary([]byte{'a', 0, 'b'}))
	assert.True(t, IsBinary([]byte{1, 2, 3, 4, 'a'}))
	assert.False(t, IsBinary([]byte{0xFF, 0xFE, 'a', 0}))
}
