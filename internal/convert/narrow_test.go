package convert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openNarrow(t *testing.T, from, to string) *Narrow {
	t.Helper()
	n, err := OpenNarrow(from, to)
	require.NoError(t, err)
	t.Cleanup(func() { _ = n.Close() })
	return n
}

func TestNarrowPassthrough(t *testing.T) {
	n := openNarrow(t, "UTF-8", "utf8")
	out := make([]byte, 64)

	tests := []struct {
		name   string
		in     string
		outLen int
		nIn    int
		res    Result
	}{
		{"valid", "héllo", 64, 6, ResultOK},
		{"invalid byte", "ab\xFFcd", 64, 2, ResultInvalidInput},
		{"bad continuation", "a\xE2\x28\xA1", 64, 1, ResultInvalidInput},
		{"incomplete tail", "ab\xE2\x82", 64, 2, ResultIncompleteInput},
		{"output full", "abcdef", 3, 3, ResultOutputFull},
		{"no split inside a character", "aé", 2, 1, ResultOutputFull},
		{"literal replacement character", "a�b", 64, 5, ResultOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nIn, nOut, res, err := n.Feed([]byte(tt.in), out[:tt.outLen])
			require.NoError(t, err)
			assert.Equal(t, tt.res, res)
			assert.Equal(t, tt.nIn, nIn)
			assert.Equal(t, tt.in[:nIn], string(out[:nOut]))
		})
	}
}

func TestNarrowSingleByte(t *testing.T) {
	n := openNarrow(t, "ISO-8859-15", "UTF-8")
	out := make([]byte, 64)

	nIn, nOut, res, err := n.Feed([]byte("caf\xE9 \xA4"), out)
	require.NoError(t, err)
	assert.Equal(t, ResultOK, res)
	assert.Equal(t, 6, nIn)
	assert.Equal(t, "café €", string(out[:nOut]))

	nIn, nOut, res, err = n.Feed([]byte("\xE9\xE9\xE9"), out[:5])
	require.NoError(t, err)
	assert.Equal(t, ResultOutputFull, res)
	assert.Equal(t, 2, nIn)
	assert.Equal(t, "éé", string(out[:nOut]))
}

func TestNarrowSingleByteInvalid(t *testing.T) {
	n := openNarrow(t, "US-ASCII", "UTF-8")
	out := make([]byte, 64)

	nIn, nOut, res, err := n.Feed([]byte("ab\xE9c"), out)
	require.NoError(t, err)
	assert.Equal(t, ResultInvalidInput, res)
	assert.Equal(t, 2, nIn)
	assert.Equal(t, "ab", string(out[:nOut]))
}

func TestNarrowMultiByteSource(t *testing.T) {
	n := openNarrow(t, "SHIFT_JIS", "UTF-8")
	out := make([]byte, 64)

	nIn, nOut, res, err := n.Feed([]byte("a\x82\xA0"), out)
	require.NoError(t, err)
	assert.Equal(t, ResultOK, res)
	assert.Equal(t, 3, nIn)
	assert.Equal(t, "aあ", string(out[:nOut]))

	nIn, nOut, res, err = n.Feed([]byte("b\x82"), out)
	require.NoError(t, err)
	assert.Equal(t, ResultIncompleteInput, res)
	assert.Equal(t, 1, nIn)
	assert.Equal(t, "b", string(out[:nOut]))

	nIn, _, res, err = n.Feed([]byte("c\x82\x20d"), out)
	require.NoError(t, err)
	assert.Equal(t, ResultInvalidInput, res)
	assert.Equal(t, 1, nIn)
}

func TestNarrowEncodeTarget(t *testing.T) {
	n := openNarrow(t, "UTF-8", "ISO-8859-1")
	out := make([]byte, 64)

	nIn, nOut, res, err := n.Feed([]byte("café"), out)
	require.NoError(t, err)
	assert.Equal(t, ResultOK, res)
	assert.Equal(t, 5, nIn)
	assert.Equal(t, "caf\xE9", string(out[:nOut]))

	nIn, nOut, res, err = n.Feed([]byte("a€b"), out)
	require.NoError(t, err)
	assert.Equal(t, ResultInvalidInput, res, "euro sign is not in Latin-1")
	assert.Equal(t, 1, nIn)
	assert.Equal(t, "a", string(out[:nOut]))
}

func TestNarrowStagesOutputOnFull(t *testing.T) {
	n := openNarrow(t, "UTF-8", "UTF-16BE")
	out := make([]byte, 3)

	in := []byte("ab")
	nIn, nOut, res, err := n.Feed(in, out)
	require.NoError(t, err)
	assert.Equal(t, ResultOutputFull, res)
	assert.Equal(t, 1, nIn)
	assert.Equal(t, []byte{0, 'a'}, out[:nOut])

	nIn, nOut, res, err = n.Feed(in[nIn:], out)
	require.NoError(t, err)
	assert.Equal(t, ResultOK, res)
	assert.Equal(t, 1, nIn)
	assert.Equal(t, []byte{0, 'b'}, out[:nOut])
}

func TestNarrowFlushShiftState(t *testing.T) {
	n := openNarrow(t, "UTF-8", "ISO-2022-JP")
	out := make([]byte, 64)

	_, nOut, res, err := n.Feed([]byte("あ"), out)
	require.NoError(t, err)
	require.Equal(t, ResultOK, res)
	assert.Equal(t, "\x1b$B$\"", string(out[:nOut]))

	nOut, res, err = n.Flush(out[:2])
	require.NoError(t, err)
	assert.Equal(t, ResultOutputFull, res)
	assert.Zero(t, nOut)

	nOut, res, err = n.Flush(out)
	require.NoError(t, err)
	assert.Equal(t, ResultOK, res)
	assert.Equal(t, "\x1b(B", string(out[:nOut]))
}

func TestOpenNarrowErrors(t *testing.T) {
	_, err := OpenNarrow("UTF-7", "UTF-8")
	assert.ErrorIs(t, err, ErrUnsupportedConversion)

	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "open", cerr.Op)
	assert.Equal(t, "UTF-7", cerr.From)

	_, err = OpenNarrow("UTF-8", "no-such-charset")
	assert.ErrorIs(t, err, ErrUnsupportedConversion)

	_, err = OpenNarrow("", "UTF-8")
	assert.ErrorIs(t, err, ErrUnsupportedConversion)
}

func TestNarrowClose(t *testing.T) {
	var never *Narrow
	assert.NoError(t, never.Close())

	n, err := OpenNarrow("UTF-8", "UTF-8")
	require.NoError(t, err)
	assert.NoError(t, n.Close())
	assert.NoError(t, n.Close())

	_, _, res, err := n.Feed([]byte("a"), make([]byte, 4))
	assert.Equal(t, ResultError, res)
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "invalid-input", ResultInvalidInput.String())
	assert.Equal(t, "result(42)", Result(42).String())
}
