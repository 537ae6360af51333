package encoding

import (
	"strings"
	"sync"
)

// CurrentLocale is the candidate token that stands for the locale charset.
const CurrentLocale = "CURRENT"

// DefaultCandidateNames is the candidate list used when none is configured.
var DefaultCandidateNames = []string{"UTF-8", CurrentLocale, "ISO-8859-15", "UTF-16"}

// DuplicatePolicy selects which occurrence RemoveDuplicates keeps.
type DuplicatePolicy int

const (
	// KeepFirst keeps the first occurrence of each encoding.
	KeepFirst DuplicatePolicy = iota
	// KeepLast keeps the last occurrence of each encoding.
	KeepLast
)

type catalogEntry struct {
	charset string
	name    string
}

// table lists the charsets offered to users, in display order.
// UTF-8 is not part of it; AllKnown always puts UTF-8 first.
var table = []catalogEntry{
	{"ISO-8859-1", "Western"},
	{"ISO-8859-2", "Central European"},
	{"ISO-8859-3", "South European"},
	{"ISO-8859-4", "Baltic"},
	{"ISO-8859-5", "Cyrillic"},
	{"ISO-8859-6", "Arabic"},
	{"ISO-8859-7", "Greek"},
	{"ISO-8859-8", "Hebrew Visual"},
	{"ISO-8859-9", "Turkish"},
	{"ISO-8859-10", "Nordic"},
	{"ISO-8859-13", "Baltic"},
	{"ISO-8859-14", "Celtic"},
	{"ISO-8859-15", "Western"},
	{"ISO-8859-16", "Romanian"},

	{"UTF-7", "Unicode"},
	{"UTF-16", "Unicode"},
	{"UTF-16BE", "Unicode"},
	{"UTF-16LE", "Unicode"},
	{"UTF-32", "Unicode"},
	{"UCS-2", "Unicode"},
	{"UCS-4", "Unicode"},

	{"ARMSCII-8", "Armenian"},
	{"BIG5", "Chinese Traditional"},
	{"BIG5-HKSCS", "Chinese Traditional"},
	{"CP866", "Cyrillic/Russian"},

	{"EUC-JP", "Japanese"},
	{"EUC-JP-MS", "Japanese"},
	{"CP932", "Japanese"},

	{"EUC-KR", "Korean"},
	{"EUC-TW", "Chinese Traditional"},

	{"GB18030", "Chinese Simplified"},
	{"GB2312", "Chinese Simplified"},
	{"GBK", "Chinese Simplified"},
	{"GEORGIAN-ACADEMY", "Georgian"},

	{"IBM850", "Western"},
	{"IBM852", "Central European"},
	{"IBM855", "Cyrillic"},
	{"IBM857", "Turkish"},
	{"IBM862", "Hebrew"},
	{"IBM864", "Arabic"},

	{"ISO-2022-JP", "Japanese"},
	{"ISO-2022-KR", "Korean"},
	{"ISO-IR-111", "Cyrillic"},
	{"JOHAB", "Korean"},
	{"KOI8R", "Cyrillic"},
	{"KOI8-R", "Cyrillic"},
	{"KOI8U", "Cyrillic/Ukrainian"},

	{"SHIFT_JIS", "Japanese"},
	{"TCVN", "Vietnamese"},
	{"TIS-620", "Thai"},
	{"UHC", "Korean"},
	{"VISCII", "Vietnamese"},

	{"WINDOWS-1250", "Central European"},
	{"WINDOWS-1251", "Cyrillic"},
	{"WINDOWS-1252", "Western"},
	{"WINDOWS-1253", "Greek"},
	{"WINDOWS-1254", "Turkish"},
	{"WINDOWS-1255", "Hebrew"},
	{"WINDOWS-1256", "Arabic"},
	{"WINDOWS-1257", "Baltic"},
	{"WINDOWS-1258", "Vietnamese"},
}

var (
	tableIndex     map[string]catalogEntry
	tableIndexOnce sync.Once
)

func lookupEntry(charset string) (catalogEntry, bool) {
	tableIndexOnce.Do(func() {
		tableIndex = make(map[string]catalogEntry, len(table))
		for _, e := range table {
			tableIndex[strings.ToUpper(e.charset)] = e
		}
	})
	e, ok := tableIndex[strings.ToUpper(charset)]
	return e, ok
}

// Catalog answers locale-aware queries over the charset table.
// A Catalog is immutable and safe for concurrent use.
type Catalog struct {
	locale     Encoding
	candidates []string
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithLocale overrides the locale encoding.
func WithLocale(locale Encoding) CatalogOption {
	return func(c *Catalog) {
		if !locale.IsZero() {
			c.locale = locale
		}
	}
}

// WithCandidateNames sets the configured candidate list. The CURRENT token
// stands for the locale encoding; blank entries are ignored.
func WithCandidateNames(names []string) CatalogOption {
	return func(c *Catalog) {
		if len(names) > 0 {
			c.candidates = append([]string(nil), names...)
		}
	}
}

// NewCatalog creates a catalog. Without options it uses the process locale
// and DefaultCandidateNames.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{candidates: DefaultCandidateNames}
	for _, opt := range opts {
		opt(c)
	}
	if c.locale.IsZero() {
		c.locale = FromLocale()
	}
	return c
}

// Locale returns the locale encoding the catalog was built with.
func (c *Catalog) Locale() Encoding { return c.locale }

// AllKnown returns UTF-8 followed by every table entry. When the locale
// encoding is not among them it is prepended.
func (c *Catalog) AllKnown() []Encoding {
	all := make([]Encoding, 0, len(table)+2)
	all = append(all, UTF8())
	for _, e := range table {
		all = append(all, Encoding{charset: e.charset, name: e.name})
	}

	if !contains(all, c.locale) {
		all = append([]Encoding{c.locale}, all...)
	}
	return all
}

// DefaultCandidates returns the ordered candidate list for detection.
// UTF-8 and the locale encoding are always present. Duplicates keep their
// last occurrence, so a configured order wins over the guaranteed entries.
func (c *Catalog) DefaultCandidates() []Encoding {
	list := []Encoding{UTF8(), c.locale}
	list = append(list, ParseCandidates(c.candidates, c.locale)...)
	return RemoveDuplicates(list, KeepLast)
}

// ParseCandidates converts configured charset names into encodings.
// CURRENT maps to locale; blank names are skipped.
func ParseCandidates(names []string, locale Encoding) []Encoding {
	out := make([]Encoding, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		switch {
		case name == "":
			continue
		case strings.EqualFold(name, CurrentLocale):
			out = append(out, locale)
		default:
			out = append(out, MustFromCharset(name))
		}
	}
	return out
}

// RemoveDuplicates returns list without duplicates under Encoding.Equal.
// The relative order of the kept entries is preserved.
func RemoveDuplicates(list []Encoding, policy DuplicatePolicy) []Encoding {
	out := make([]Encoding, 0, len(list))
	switch policy {
	case KeepLast:
		for i, enc := range list {
			if !contains(list[i+1:], enc) {
				out = append(out, enc)
			}
		}
	default:
		for _, enc := range list {
			if !contains(out, enc) {
				out = append(out, enc)
			}
		}
	}
	return out
}

func contains(list []Encoding, enc Encoding) bool {
	for _, e := range list {
		if e.Equal(enc) {
			return true
		}
	}
	return false
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// Default returns the process-wide catalog built from the environment.
func Default() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = NewCatalog()
	})
	return defaultCatalog
}

// AllKnown returns Default().AllKnown().
func AllKnown() []Encoding { return Default().AllKnown() }

// DefaultCandidates returns Default().DefaultCandidates().
func DefaultCandidates() []Encoding { return Default().DefaultCandidates() }
