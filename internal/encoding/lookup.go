package encoding

import (
	"fmt"
	"strings"

	gdenc "github.com/gdamore/encoding"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// aliases maps simplified charset names to implementations. It covers iconv
// spellings that the IANA and WHATWG indexes do not know, and pins a few
// names to specific implementations.
var aliases = map[string]xenc.Encoding{
	"utf8": unicode.UTF8,

	"utf16":   unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	"utf16be": unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"utf16le": unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"ucs2":    unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"ucs2be":  unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"ucs2le":  unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),

	"utf32":   utf32.UTF32(utf32.BigEndian, utf32.UseBOM),
	"utf32be": utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	"utf32le": utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
	"ucs4":    utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	"ucs4be":  utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	"ucs4le":  utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),

	"ascii":       gdenc.ASCII,
	"usascii":     gdenc.ASCII,
	"ansix341968": gdenc.ASCII,
	"iso646us":    gdenc.ASCII,
	"us":          gdenc.ASCII,
	"latin1":      gdenc.ISO8859_1,
	"iso88591":    gdenc.ISO8859_1,
	"l1":          gdenc.ISO8859_1,
	"latin5":      gdenc.ISO8859_9,
	"iso88599":    gdenc.ISO8859_9,
	"l5":          gdenc.ISO8859_9,
	"ebcdic":      gdenc.EBCDIC,
	"ebcdicus":    gdenc.EBCDIC,

	"cp437":  charmap.CodePage437,
	"ibm437": charmap.CodePage437,
	"cp850":  charmap.CodePage850,
	"ibm850": charmap.CodePage850,
	"cp852":  charmap.CodePage852,
	"ibm852": charmap.CodePage852,
	"cp855":  charmap.CodePage855,
	"ibm855": charmap.CodePage855,
	"cp862":  charmap.CodePage862,
	"ibm862": charmap.CodePage862,
	"cp866":  charmap.CodePage866,
	"ibm866": charmap.CodePage866,

	"koi8r": charmap.KOI8R,
	"koi8u": charmap.KOI8U,

	"cp874":       charmap.Windows874,
	"tis620":      charmap.Windows874,
	"cp1250":      charmap.Windows1250,
	"cp1251":      charmap.Windows1251,
	"cp1252":      charmap.Windows1252,
	"cp1253":      charmap.Windows1253,
	"cp1254":      charmap.Windows1254,
	"cp1255":      charmap.Windows1255,
	"cp1256":      charmap.Windows1256,
	"cp1257":      charmap.Windows1257,
	"cp1258":      charmap.Windows1258,
	"macroman":    charmap.Macintosh,
	"maccyrillic": charmap.MacintoshCyrillic,

	"sjis":       japanese.ShiftJIS,
	"shiftjis":   japanese.ShiftJIS,
	"cp932":      japanese.ShiftJIS,
	"windows31j": japanese.ShiftJIS,
	"eucjp":      japanese.EUCJP,
	"eucjpms":    japanese.EUCJP,
	"iso2022jp":  japanese.ISO2022JP,

	"euckr": korean.EUCKR,
	"uhc":   korean.EUCKR,
	"cp949": korean.EUCKR,

	"gb18030":  simplifiedchinese.GB18030,
	"gbk":      simplifiedchinese.GBK,
	"gb2312":   simplifiedchinese.GBK,
	"cp936":    simplifiedchinese.GBK,
	"euccn":    simplifiedchinese.GBK,
	"hzgb2312": simplifiedchinese.HZGB2312,

	"big5":      traditionalchinese.Big5,
	"big5hkscs": traditionalchinese.Big5,
	"cp950":     traditionalchinese.Big5,
}

// Lookup returns the conversion implementation for charset.
// It returns ErrUnknownCharset when no implementation is available, including
// for charsets the catalog lists but this build cannot convert.
func Lookup(charset string) (xenc.Encoding, error) {
	if strings.TrimSpace(charset) == "" {
		return nil, ErrEmptyCharset
	}

	if enc, ok := aliases[simplifyName(charset)]; ok {
		return enc, nil
	}
	if enc, err := ianaindex.IANA.Encoding(charset); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := ianaindex.MIME.Encoding(charset); err == nil && enc != nil {
		return enc, nil
	}
	// WHATWG maps several legacy labels to the replacement decoder, which
	// turns the whole input into a single U+FFFD. Treat those as unknown.
	if enc, err := htmlindex.Get(charset); err == nil && enc != nil && enc != xenc.Replacement {
		return enc, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownCharset, charset)
}

// Supported reports whether Lookup can resolve charset.
func Supported(charset string) bool {
	_, err := Lookup(charset)
	return err == nil
}

// Supported reports whether e can be converted on this build.
func (e Encoding) Supported() bool {
	return Supported(e.charset)
}

// simplifyName lowercases name and drops everything but letters and digits,
// so "ISO-8859-15", "iso_8859_15" and "ISO8859-15" all become "iso885915".
func simplifyName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c >= 'A' && c <= 'Z':
			b.WriteRune(c + ('a' - 'A'))
		}
	}
	return b.String()
}
