// Package encoding describes character encodings as the editor sees them.
//
// An Encoding is an immutable value naming a charset in iconv style
// ("UTF-8", "ISO-8859-15", "WINDOWS-1252"), optionally paired with a human
// readable display name taken from the catalog. Two encodings compare equal
// when both are UTF-8 spellings or when their charsets match ignoring case.
//
// The catalog is a read-only table of the charsets the editor offers. From it
// the package derives:
//
//   - AllKnown: every catalog entry, UTF-8 first, locale charset guaranteed
//   - DefaultCandidates: the short ordered list tried by automatic detection
//   - RemoveDuplicates: stable de-duplication under the equality rule
//
// Lookup resolves a charset name to a golang.org/x/text encoding that the
// convert package can drive. Names are matched through a small alias table,
// the IANA registry, MIME names and finally WHATWG labels.
//
// The package also carries byte-level helpers used when loading and saving
// files: byte order mark detection, line ending detection and normalization,
// and a binary content heuristic.
package encoding
