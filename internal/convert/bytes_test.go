package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/tepl/internal/content"
)

func TestBytes(t *testing.T) {
	out, err := Bytes("ISO-8859-15", "UTF-8", []byte("Hello S\xE9bastien."))
	require.NoError(t, err)
	assert.Equal(t, "Hello Sébastien.", string(out))

	_, err = Bytes("UTF-8", "UTF-8", []byte("Hello S\xE9bastien."))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Bytes("UTF-8", "ISO-8859-1", []byte("price: 5 €"))
	assert.ErrorIs(t, err, ErrInvalidInput, "euro sign has no Latin-1 form")

	_, err = Bytes("UTF-8", "bogus", nil)
	assert.ErrorIs(t, err, ErrUnsupportedConversion)

	out, err = Bytes("UTF-8", "UTF-8", nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestBytesISO2022JP(t *testing.T) {
	out, err := Bytes("UTF-8", "ISO-2022-JP", []byte("日本"))
	require.NoError(t, err)
	assert.Equal(t, "\x1b$BF|K\\\x1b(B", string(out))

	back, err := Bytes("ISO-2022-JP", "UTF-8", out)
	require.NoError(t, err)
	assert.Equal(t, "日本", string(back))
}

func TestChunks(t *testing.T) {
	buf := content.FromBytes([]byte("caf\xE9 \xFF ok"), 2)

	chunks, stats, err := Chunks("UTF-8", "UTF-8", buf)
	require.NoError(t, err)
	assert.Equal(t, []OutputChunk{
		{Bytes: []byte("caf"), Valid: true},
		{Bytes: []byte("\xE9"), Valid: false},
		{Bytes: []byte(" "), Valid: true},
		{Bytes: []byte("\xFF"), Valid: false},
		{Bytes: []byte(" ok"), Valid: true},
	}, chunks)
	assert.Equal(t, int64(9), stats.BytesIn)
	assert.Equal(t, int64(2), stats.InvalidBytes)
	assert.Equal(t, 5, stats.Chunks)

	chunks, _, err = Chunks("ISO-8859-15", "UTF-8", buf)
	require.NoError(t, err)
	assert.Equal(t, "café ÿ ok", concat(chunks))
}

func TestChunksStrictFailure(t *testing.T) {
	buf := content.FromBytes([]byte("ab\xFFcd"), 0)
	chunks, _, err := Chunks("UTF-8", "UTF-8", buf, WithStrict(true))
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "ab", concat(chunks))
}

func TestTest(t *testing.T) {
	latin := content.FromBytes([]byte("Hello S\xE9bastien."), 3)

	assert.ErrorIs(t, Test("UTF-8", "UTF-8", latin), ErrInvalidInput)
	assert.NoError(t, Test("ISO-8859-15", "UTF-8", latin))
	assert.ErrorIs(t, Test("UTF-7", "UTF-8", latin), ErrUnsupportedConversion)

	truncated := content.FromBytes([]byte("ok \xE2\x82"), 0)
	assert.ErrorIs(t, Test("UTF-8", "UTF-8", truncated), ErrIncompleteTrailingInput)

	assert.NoError(t, Test("UTF-8", "UTF-8", content.NewBuffer()))
}
