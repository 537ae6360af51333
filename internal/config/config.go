package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/tepl/internal/config/loader"
	"github.com/dshills/tepl/internal/content"
	"github.com/dshills/tepl/internal/convert"
	"github.com/dshills/tepl/internal/detect"
	"github.com/dshills/tepl/internal/encoding"
	"github.com/dshills/tepl/internal/logging"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "TEPL_"

// Settings is the resolved configuration.
type Settings struct {
	Encoding   EncodingSettings
	Conversion ConversionSettings
	Loader     LoaderSettings
	Detect     DetectSettings
	Logging    LoggingSettings
}

// EncodingSettings configures the candidate list.
type EncodingSettings struct {
	// Candidates are charset names tried first during detection.
	// CURRENT stands for the locale charset.
	Candidates []string
}

// ConversionSettings configures the streaming converter.
type ConversionSettings struct {
	MaxOutputChunkSize int
}

// LoaderSettings configures file loading.
type LoaderSettings struct {
	ReadChunkSize int
	MaxFileSize   int64 // 0 means unlimited
	RejectBinary  bool
}

// DetectSettings configures the statistical sniffer.
type DetectSettings struct {
	Sniff         bool
	SniffLimit    int
	MinConfidence int
}

// LoggingSettings configures the logger.
type LoggingSettings struct {
	Level string
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Encoding:   EncodingSettings{Candidates: append([]string(nil), encoding.DefaultCandidateNames...)},
		Conversion: ConversionSettings{MaxOutputChunkSize: convert.DefaultMaxOutputChunkSize},
		Loader: LoaderSettings{
			ReadChunkSize: content.DefaultChunkSize,
			RejectBinary:  true,
		},
		Detect: DetectSettings{
			Sniff:         true,
			SniffLimit:    detect.DefaultSniffLimit,
			MinConfidence: detect.DefaultMinConfidence,
		},
		Logging: LoggingSettings{Level: "info"},
	}
}

// Option configures Load.
type Option func(*options)

type options struct {
	path string
	fs   loader.FileSystem
	env  *loader.EnvLoader
}

// WithFile reads settings from path. The format follows the extension.
func WithFile(path string) Option {
	return func(o *options) { o.path = path }
}

// WithFS reads the config file through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) { o.fs = fsys }
}

// WithEnv replaces the environment loader. Pass nil to ignore the
// environment.
func WithEnv(env *loader.EnvLoader) Option {
	return func(o *options) { o.env = env }
}

// Load resolves settings from defaults, the config file and the
// environment, then validates them.
func Load(opts ...Option) (*Settings, error) {
	o := &options{fs: loader.DefaultFS(), env: loader.NewEnvLoader(EnvPrefix)}
	for _, opt := range opts {
		opt(o)
	}

	var layers []loader.Loader
	if o.path != "" {
		file, err := loader.NewFileLoader(o.fs, o.path)
		if err != nil {
			return nil, err
		}
		layers = append(layers, file)
	}
	if o.env != nil {
		layers = append(layers, o.env)
	}

	merged := make(map[string]any)
	for _, l := range layers {
		m, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, m)
	}

	s := Defaults()
	if err := s.Apply(merged); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Apply overrides s with the values present in a nested settings map.
// Unknown keys are ignored.
func (s *Settings) Apply(m map[string]any) error {
	fields := []struct {
		path string
		set  func(any) error
	}{
		{"encoding.candidates", func(v any) (err error) {
			s.Encoding.Candidates, err = toStrings("encoding.candidates", v)
			return err
		}},
		{"conversion.maxOutputChunkSize", func(v any) (err error) {
			s.Conversion.MaxOutputChunkSize, err = toInt("conversion.maxOutputChunkSize", v)
			return err
		}},
		{"loader.readChunkSize", func(v any) (err error) {
			s.Loader.ReadChunkSize, err = toInt("loader.readChunkSize", v)
			return err
		}},
		{"loader.maxFileSize", func(v any) error {
			n, err := toInt("loader.maxFileSize", v)
			s.Loader.MaxFileSize = int64(n)
			return err
		}},
		{"loader.rejectBinary", func(v any) (err error) {
			s.Loader.RejectBinary, err = toBool("loader.rejectBinary", v)
			return err
		}},
		{"detect.sniff", func(v any) (err error) {
			s.Detect.Sniff, err = toBool("detect.sniff", v)
			return err
		}},
		{"detect.sniffLimit", func(v any) (err error) {
			s.Detect.SniffLimit, err = toInt("detect.sniffLimit", v)
			return err
		}},
		{"detect.minConfidence", func(v any) (err error) {
			s.Detect.MinConfidence, err = toInt("detect.minConfidence", v)
			return err
		}},
		{"logging.level", func(v any) error {
			s.Logging.Level = fmt.Sprint(v)
			return nil
		}},
	}

	for _, f := range fields {
		if v, ok := lookup(m, f.path); ok {
			if err := f.set(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate checks every setting.
func (s *Settings) Validate() error {
	switch {
	case s.Conversion.MaxOutputChunkSize < 0:
		return &ValidationError{Path: "conversion.maxOutputChunkSize", Message: "must not be negative", Value: s.Conversion.MaxOutputChunkSize}
	case s.Loader.ReadChunkSize <= 0:
		return &ValidationError{Path: "loader.readChunkSize", Message: "must be positive", Value: s.Loader.ReadChunkSize}
	case s.Loader.MaxFileSize < 0:
		return &ValidationError{Path: "loader.maxFileSize", Message: "must not be negative", Value: s.Loader.MaxFileSize}
	case s.Detect.SniffLimit <= 0:
		return &ValidationError{Path: "detect.sniffLimit", Message: "must be positive", Value: s.Detect.SniffLimit}
	case s.Detect.MinConfidence < 0 || s.Detect.MinConfidence > 100:
		return &ValidationError{Path: "detect.minConfidence", Message: "must be between 0 and 100", Value: s.Detect.MinConfidence}
	}
	if _, err := logging.ParseLevel(s.Logging.Level); err != nil {
		return &ValidationError{Path: "logging.level", Message: "must be debug, info, warn or error", Value: s.Logging.Level}
	}
	for _, name := range s.Encoding.Candidates {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "encoding.candidates", Message: "empty charset name", Value: s.Encoding.Candidates}
		}
	}
	return nil
}

// LogLevel returns the parsed logging level.
func (s *Settings) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(s.Logging.Level)
	return level
}

// Catalog returns an encoding catalog using the configured candidates.
func (s *Settings) Catalog() *encoding.Catalog {
	return encoding.NewCatalog(encoding.WithCandidateNames(s.Encoding.Candidates))
}

func lookup(m map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = m
	for _, p := range parts {
		next, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = next[p]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func toInt(path string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, nil
		}
	}
	return 0, &ValidationError{Path: path, Message: "expected an integer", Value: v}
}

func toBool(path string, v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed, nil
		}
	}
	return false, &ValidationError{Path: path, Message: "expected a boolean", Value: v}
}

// toStrings accepts a list or a comma-separated string.
func toStrings(path string, v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return list, nil
	case string:
		var out []string
		for _, s := range strings.Split(list, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, &ValidationError{Path: path, Message: "expected a list of strings", Value: v}
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, &ValidationError{Path: path, Message: "expected a list of strings", Value: v}
}
