package detect

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/dshills/tepl/internal/content"
	"github.com/dshills/tepl/internal/convert"
	"github.com/dshills/tepl/internal/encoding"
	"github.com/dshills/tepl/internal/logging"
)

// Method records which phase produced a detection.
type Method string

const (
	MethodBOM      Method = "bom"
	MethodSniff    Method = "sniff"
	MethodFallback Method = "fallback"
)

// Detection is the outcome of Detect.
type Detection struct {
	Encoding   encoding.Encoding
	Method     Method
	Confidence int // sniffer confidence, 100 for a BOM, 0 for fallback
	Tried      int // candidates tried in the fallback phase
}

// Option configures a Detector.
type Option func(*Detector)

// WithSniffer replaces the default chardet sniffer.
func WithSniffer(s Sniffer) Option {
	return func(d *Detector) {
		d.sniffer = s
	}
}

// WithoutSniffer skips the sniff phase.
func WithoutSniffer() Option {
	return func(d *Detector) {
		d.sniffer = nil
	}
}

// WithCandidates replaces the fallback list. Without it the list is the
// catalog's default candidates followed by every known encoding.
func WithCandidates(candidates ...encoding.Encoding) Option {
	return func(d *Detector) {
		d.candidates = encoding.RemoveDuplicates(candidates, encoding.KeepFirst)
	}
}

// WithCatalog sets the catalog that supplies the locale and the default
// candidate list.
func WithCatalog(c *encoding.Catalog) Option {
	return func(d *Detector) {
		if c != nil {
			d.catalog = c
		}
	}
}

// WithLogger sets the logger. Sniff results and rejected candidates are
// logged at debug level.
func WithLogger(l *logging.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.logger = l.WithComponent("detect")
		}
	}
}

// Detector determines the encoding of buffered content. It is safe for
// concurrent use; calls are serialised because the sniffer is stateful.
type Detector struct {
	mu         sync.Mutex
	catalog    *encoding.Catalog
	sniffer    Sniffer
	candidates []encoding.Encoding
	logger     *logging.Logger
}

// New creates a detector using the process catalog and a chardet sniffer
// with default settings.
func New(opts ...Option) *Detector {
	d := &Detector{
		sniffer: NewChardetSniffer(DefaultSniffLimit, DefaultMinConfidence),
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.catalog == nil {
		d.catalog = encoding.Default()
	}
	return d
}

// Candidates returns the fallback list in trial order.
func (d *Detector) Candidates() []encoding.Encoding {
	if d.candidates != nil {
		return slices.Clone(d.candidates)
	}
	list := append(d.catalog.DefaultCandidates(), d.catalog.AllKnown()...)
	return encoding.RemoveDuplicates(list, encoding.KeepFirst)
}

// Determine returns the encoding of buf or ErrDetectionFailed.
func (d *Detector) Determine(buf *content.Buffer) (encoding.Encoding, error) {
	det, err := d.Detect(context.Background(), buf)
	if err != nil {
		return encoding.Encoding{}, err
	}
	return det.Encoding, nil
}

// Detect runs the detection phases over buf. The context is checked
// between fallback candidates.
func (d *Detector) Detect(ctx context.Context, buf *content.Buffer) (Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if enc, n := encoding.DetectBOM(buf.Head(4)); n > 0 {
		d.logger.Debug("byte order mark found: %s", enc.Charset())
		return Detection{Encoding: enc, Method: MethodBOM, Confidence: 100}, nil
	}

	if det, ok := d.sniff(buf); ok {
		return det, nil
	}

	candidates := d.Candidates()
	for i, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return Detection{}, err
		}
		err := convert.Test(cand.Charset(), encoding.CharsetUTF8, buf)
		if err == nil {
			d.logger.Debug("candidate accepted: %s", cand.Charset())
			return Detection{Encoding: cand, Method: MethodFallback, Tried: i + 1}, nil
		}
		d.logger.Debug("candidate rejected: %s: %v", cand.Charset(), err)
	}

	d.logger.Warn("no candidate out of %d converts the content", len(candidates))
	return Detection{Tried: len(candidates)}, ErrDetectionFailed
}

func (d *Detector) sniff(buf *content.Buffer) (Detection, bool) {
	if d.sniffer == nil {
		return Detection{}, false
	}

	d.sniffer.Reset()
	for chunk := range buf.Chunks() {
		d.sniffer.Feed(chunk.Bytes())
	}
	guess, ok := d.sniffer.Finish()
	if !ok || guess.Charset == "" {
		d.logger.Debug("sniffer inconclusive")
		return Detection{}, false
	}

	enc, err := encoding.FromCharset(guess.Charset)
	if err != nil {
		return Detection{}, false
	}
	if strings.EqualFold(guess.Charset, "ASCII") && d.catalog.Locale().IsUTF8() {
		enc = encoding.UTF8()
	}
	if !enc.Supported() {
		d.logger.Debug("sniffed charset %s cannot be converted", guess.Charset)
		return Detection{}, false
	}
	// The sniffer may have judged a sample; the verdict must hold for all
	// of buf.
	if err := convert.Test(enc.Charset(), encoding.CharsetUTF8, buf); err != nil {
		d.logger.Debug("sniffed charset %s rejected: %v", enc.Charset(), err)
		return Detection{}, false
	}

	d.logger.Debug("sniffed %s (confidence %d)", enc.Charset(), guess.Confidence)
	return Detection{Encoding: enc, Method: MethodSniff, Confidence: guess.Confidence}, true
}
