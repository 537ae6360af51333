package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestLookupSupported(t *testing.T) {
	names := []string{
		"UTF-8", "utf8", "UTF-16", "UTF-16LE", "UTF-32", "UCS-4",
		"ISO-8859-1", "ISO-8859-15", "latin1", "iso_8859-2",
		"WINDOWS-1252", "cp1251", "KOI8R", "KOI8-U",
		"SHIFT_JIS", "EUC-JP", "ISO-2022-JP", "EUC-KR",
		"GB18030", "GB-18030", "GBK", "BIG5",
		"ANSI_X3.4-1968", "US-ASCII", "EBCDIC", "IBM850",
	}
	for _, name := range names {
		enc, err := Lookup(name)
		if assert.NoError(t, err, name) {
			assert.NotNil(t, enc, name)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, name := range []string{"UTF-7", "ARMSCII-8", "no-such-charset", "ISO-2022-KR"} {
		_, err := Lookup(name)
		assert.ErrorIs(t, err, ErrUnknownCharset, name)
		assert.False(t, Supported(name), name)
	}

	_, err := Lookup("")
	assert.ErrorIs(t, err, ErrEmptyCharset)
}

func TestLookupPrefersIANA(t *testing.T) {
	enc, err := Lookup("ISO-8859-15")
	require.NoError(t, err)
	assert.Equal(t, charmap.ISO8859_15, enc)
}

func TestSimplifyName(t *testing.T) {
	assert.Equal(t, "iso885915", simplifyName("ISO-8859-15"))
	assert.Equal(t, "iso885915", simplifyName("iso_8859_15"))
	assert.Equal(t, "ansix341968", simplifyName("ANSI_X3.4-1968"))
	assert.Equal(t, "", simplifyName("--"))
}

func TestCatalogSupport(t *testing.T) {
	assert.True(t, UTF8().Supported())
	assert.True(t, MustFromCharset("ISO-8859-15").Supported())
	assert.False(t, MustFromCharset("UTF-7").Supported())
}
