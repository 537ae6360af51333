package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func charsets(list []Encoding) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Charset()
	}
	return out
}

func TestAllKnownUTF8Locale(t *testing.T) {
	c := NewCatalog(WithLocale(UTF8()))
	all := c.AllKnown()

	require.NotEmpty(t, all)
	assert.True(t, all[0].IsUTF8())
	assert.Len(t, all, len(table)+1)
	assert.Equal(t, "ISO-8859-1", all[1].Charset())
}

func TestAllKnownPrependsUnknownLocale(t *testing.T) {
	locale := MustFromCharset("x-custom")
	all := NewCatalog(WithLocale(locale)).AllKnown()

	require.Len(t, all, len(table)+2)
	assert.True(t, all[0].Equal(locale))
	assert.True(t, all[1].IsUTF8())
}

func TestAllKnownLocaleInTable(t *testing.T) {
	all := NewCatalog(WithLocale(MustFromCharset("iso-8859-15"))).AllKnown()
	assert.Len(t, all, len(table)+1)
	assert.True(t, all[0].IsUTF8())
}

func TestDefaultCandidates(t *testing.T) {
	tests := []struct {
		name       string
		locale     string
		candidates []string
		want       []string
	}{
		{
			name:   "utf8 locale",
			locale: "UTF-8",
			want:   []string{"UTF-8", "ISO-8859-15", "UTF-16"},
		},
		{
			name:   "latin locale",
			locale: "ISO-8859-1",
			want:   []string{"UTF-8", "ISO-8859-1", "ISO-8859-15", "UTF-16"},
		},
		{
			name:       "configured order wins",
			locale:     "UTF-8",
			candidates: []string{"ISO-8859-15", "UTF-8"},
			want:       []string{"ISO-8859-15", "UTF-8"},
		},
		{
			name:       "locale guaranteed",
			locale:     "KOI8-R",
			candidates: []string{"WINDOWS-1251"},
			want:       []string{"UTF-8", "KOI8-R", "WINDOWS-1251"},
		},
		{
			name:       "current token",
			locale:     "EUC-JP",
			candidates: []string{"current", "utf8", " "},
			want:       []string{"EUC-JP", "UTF-8"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCatalog(WithLocale(MustFromCharset(tt.locale)), WithCandidateNames(tt.candidates))
			assert.Equal(t, tt.want, charsets(c.DefaultCandidates()))
		})
	}
}

func TestRemoveDuplicates(t *testing.T) {
	list := []Encoding{
		UTF8(),
		MustFromCharset("ISO-8859-15"),
		MustFromCharset("utf8"),
		MustFromCharset("iso-8859-15"),
		MustFromCharset("UTF-16"),
	}

	first := RemoveDuplicates(list, KeepFirst)
	assert.Equal(t, []string{"UTF-8", "ISO-8859-15", "UTF-16"}, charsets(first))

	last := RemoveDuplicates(list, KeepLast)
	assert.Equal(t, []string{"UTF-8", "iso-8859-15", "UTF-16"}, charsets(last))

	assert.Empty(t, RemoveDuplicates(nil, KeepFirst))
}

func TestLocaleFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"empty", nil, CharsetASCII},
		{"C", map[string]string{"LANG": "C"}, CharsetASCII},
		{"POSIX", map[string]string{"LC_ALL": "POSIX"}, CharsetASCII},
		{"lang utf8", map[string]string{"LANG": "en_US.UTF-8"}, "UTF-8"},
		{"lowercase utf8", map[string]string{"LANG": "fr_FR.utf8"}, "UTF-8"},
		{"modifier", map[string]string{"LANG": "de_DE.ISO-8859-15@euro"}, "ISO-8859-15"},
		{"lc_all wins", map[string]string{"LC_ALL": "ru_RU.KOI8-R", "LANG": "en_US.UTF-8"}, "KOI8-R"},
		{"lc_ctype before lang", map[string]string{"LC_CTYPE": "ja_JP.EUC-JP", "LANG": "en_US.UTF-8"}, "EUC-JP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := LocaleFromEnv(func(k string) string { return tt.env[k] })
			assert.Equal(t, tt.want, enc.Charset())
		})
	}
}

func TestParseCandidates(t *testing.T) {
	locale := MustFromCharset("ISO-8859-2")
	got := ParseCandidates([]string{"UTF-8", "CURRENT", "", "WINDOWS-1250"}, locale)
	assert.Equal(t, []string{"UTF-8", "ISO-8859-2", "WINDOWS-1250"}, charsets(got))
	assert.Equal(t, "Central European", got[1].Name())
}
