package encoding

import (
	"os"
	"strings"
)

// CharsetASCII is the charset reported for the C and POSIX locales.
const CharsetASCII = "ANSI_X3.4-1968"

// localeVars are consulted in order; the first non-empty one wins.
var localeVars = []string{"LC_ALL", "LC_CTYPE", "LANG"}

// FromLocale returns the encoding of the current process locale.
func FromLocale() Encoding {
	return LocaleFromEnv(os.Getenv)
}

// LocaleFromEnv returns the locale encoding as seen through getenv.
// A locale without a codeset, and the C and POSIX locales, map to ASCII.
func LocaleFromEnv(getenv func(string) string) Encoding {
	if getenv == nil {
		getenv = os.Getenv
	}

	var locale string
	for _, name := range localeVars {
		if v := getenv(name); v != "" {
			locale = v
			break
		}
	}

	codeset := localeCodeset(locale)
	if codeset == "" {
		return MustFromCharset(CharsetASCII)
	}
	return MustFromCharset(codeset)
}

// localeCodeset extracts CODESET from language[_territory][.codeset][@modifier].
func localeCodeset(locale string) string {
	if i := strings.IndexByte(locale, '@'); i >= 0 {
		locale = locale[:i]
	}
	i := strings.IndexByte(locale, '.')
	if i < 0 {
		return ""
	}
	return locale[i+1:]
}
