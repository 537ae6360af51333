package detect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func TestChardetSnifferASCII(t *testing.T) {
	s := NewChardetSniffer(0, DefaultMinConfidence)
	s.Feed([]byte("hello "))
	s.Feed([]byte("world"))

	guess, ok := s.Finish()
	require.True(t, ok)
	assert.Equal(t, "ASCII", guess.Charset)

	s.Reset()
	_, ok = s.Finish()
	assert.False(t, ok, "empty sample is inconclusive")
}

func TestChardetSnifferEscapeIsNotASCII(t *testing.T) {
	text, err := japanese.ISO2022JP.NewEncoder().String(strings.Repeat("日本語 and text ", 20))
	require.NoError(t, err)

	s := NewChardetSniffer(0, 0)
	s.Feed([]byte(text))
	guess, ok := s.Finish()
	require.True(t, ok)
	assert.Equal(t, "ISO-2022-JP", guess.Charset)
}

func TestChardetSnifferUTF8(t *testing.T) {
	s := NewChardetSniffer(0, DefaultMinConfidence)
	s.Feed([]byte("Grüße, ça va? Привет, 世界"))

	guess, ok := s.Finish()
	require.True(t, ok)
	assert.Equal(t, "UTF-8", guess.Charset)
	assert.GreaterOrEqual(t, guess.Confidence, DefaultMinConfidence)
}

func TestChardetSnifferHighBytesPastLimit(t *testing.T) {
	s := NewChardetSniffer(8, DefaultMinConfidence)
	s.Feed([]byte("abcdefgh"))
	s.Feed([]byte("\xE9\xE9\xE9"))

	assert.True(t, s.Truncated())
	_, ok := s.Finish()
	assert.False(t, ok, "content is not ASCII, but chardet only saw ASCII")

	s.Reset()
	s.Feed([]byte("abcdefghijkl"))
	guess, ok := s.Finish()
	require.True(t, ok)
	assert.Equal(t, "ASCII", guess.Charset)
}

func TestChardetSnifferMinConfidence(t *testing.T) {
	s := NewChardetSniffer(0, 101)
	s.Feed([]byte("caf\xE9"))
	_, ok := s.Finish()
	assert.False(t, ok)
}

func TestNormalizeCharset(t *testing.T) {
	tests := map[string]string{
		"GB-18030":     "GB18030",
		"ISO-8859-8-I": "ISO-8859-8",
		"IBM424_rtl":   "IBM424",
		"IBM420_ltr":   "IBM420",
		"Shift_JIS":    "SHIFT_JIS",
		"windows-1251": "WINDOWS-1251",
		"Big5":         "BIG5",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeCharset(in), in)
	}
}
