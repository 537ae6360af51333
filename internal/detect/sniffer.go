package detect

import (
	"strings"

	"github.com/saintfish/chardet"
)

const (
	// DefaultSniffLimit is how many leading bytes ChardetSniffer hands to
	// chardet.
	DefaultSniffLimit = 64 * 1024

	// DefaultMinConfidence is the lowest chardet confidence accepted.
	DefaultMinConfidence = 30
)

// Guess is a sniffer verdict.
type Guess struct {
	Charset    string
	Language   string
	Confidence int
}

// Sniffer is a statistical charset guesser fed with the content chunks in
// order. Finish reports false when the sniffer has no confident answer.
type Sniffer interface {
	Feed(chunk []byte)
	Finish() (Guess, bool)
	Reset()
}

// ChardetSniffer asks chardet for the most likely charset of the content.
// Chardet sees a bounded sample from the start, but every fed byte is
// scanned for the ASCII verdict.
type ChardetSniffer struct {
	limit         int
	minConfidence int
	sample        []byte
	fed           int64
	highBytes     bool
}

// NewChardetSniffer creates a sniffer that hands chardet at most limit bytes
// and rejects verdicts below minConfidence (0 to 100). A limit <= 0 selects
// DefaultSniffLimit.
func NewChardetSniffer(limit, minConfidence int) *ChardetSniffer {
	if limit <= 0 {
		limit = DefaultSniffLimit
	}
	return &ChardetSniffer{limit: limit, minConfidence: minConfidence}
}

// Feed scans chunk and adds it to the sample until the limit is reached.
func (s *ChardetSniffer) Feed(chunk []byte) {
	s.fed += int64(len(chunk))
	for i := 0; i < len(chunk) && !s.highBytes; i++ {
		// ESC introduces the 7-bit ISO-2022 encodings.
		s.highBytes = chunk[i] >= 0x80 || chunk[i] == 0x1B
	}
	if room := s.limit - len(s.sample); room > 0 {
		s.sample = append(s.sample, chunk[:min(room, len(chunk))]...)
	}
}

// Truncated reports whether more was fed than chardet will see.
func (s *ChardetSniffer) Truncated() bool {
	return s.fed > int64(len(s.sample))
}

// Finish reports the verdict. Chardet has no ASCII recognizer, so content
// made only of 7-bit text is reported as ASCII here. When the only high
// bytes lie past the sample, chardet sees plain text and its verdict is
// inconclusive.
func (s *ChardetSniffer) Finish() (Guess, bool) {
	if s.fed == 0 {
		return Guess{}, false
	}
	if !s.highBytes {
		return Guess{Charset: "ASCII", Confidence: 100}, true
	}
	if !sampleHasHighBytes(s.sample) {
		return Guess{}, false
	}

	res, err := chardet.NewTextDetector().DetectBest(s.sample)
	if err != nil || res == nil || res.Confidence < s.minConfidence {
		return Guess{}, false
	}
	return Guess{
		Charset:    normalizeCharset(res.Charset),
		Language:   res.Language,
		Confidence: res.Confidence,
	}, true
}

func sampleHasHighBytes(sample []byte) bool {
	for _, b := range sample {
		if b >= 0x80 || b == 0x1B {
			return true
		}
	}
	return false
}

// Reset discards the sample.
func (s *ChardetSniffer) Reset() {
	s.sample = s.sample[:0]
	s.fed = 0
	s.highBytes = false
}

// normalizeCharset maps chardet's names onto catalog charsets.
func normalizeCharset(name string) string {
	upper := strings.ToUpper(name)
	switch {
	case upper == "GB-18030":
		return "GB18030"
	case upper == "ISO-8859-8-I":
		return "ISO-8859-8"
	case strings.HasPrefix(upper, "IBM424_"):
		return "IBM424"
	case strings.HasPrefix(upper, "IBM420_"):
		return "IBM420"
	}
	return upper
}
