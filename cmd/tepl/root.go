package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/tepl/internal/config"
	"github.com/dshills/tepl/internal/detect"
	"github.com/dshills/tepl/internal/encoding"
	"github.com/dshills/tepl/internal/loader"
	"github.com/dshills/tepl/internal/logging"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	candidates []string
	noSniff    bool
	chunkSize  int
}

// env is what a subcommand needs after settings are resolved.
type env struct {
	settings *config.Settings
	logger   *logging.Logger
	catalog  *encoding.Catalog
	detector *detect.Detector
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "tepl",
		Short: "Detect file encodings and convert files between character sets",
		Long: `tepl determines the character encoding of text files and converts them.

Detection checks for a byte order mark, then asks a statistical sniffer,
then tries the candidate encodings in order until one decodes the whole
file without an invalid byte.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(`{{.Use}} version {{.Version}}` + "\n")

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "Path to a TOML or YAML configuration file")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringSliceVar(&g.candidates, "candidates", nil, "Comma-separated candidate charsets tried in order (CURRENT is the locale charset)")
	pf.BoolVar(&g.noSniff, "no-sniff", false, "Skip statistical detection and go straight to the candidate list")
	pf.IntVar(&g.chunkSize, "chunk-size", 0, "Read chunk size in bytes")

	root.AddCommand(
		newDetectCmd(g),
		newConvertCmd(g),
		newEncodingsCmd(g),
	)
	return root
}

// setup resolves settings from the config file, the environment and the
// flags that were set explicitly, then builds the logger and detector.
func (g *globalFlags) setup(cmd *cobra.Command) (*env, error) {
	var opts []config.Option
	if g.configPath != "" {
		opts = append(opts, config.WithFile(g.configPath))
	}
	s, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		s.Logging.Level = g.logLevel
	}
	if flags.Changed("candidates") {
		s.Encoding.Candidates = g.candidates
	}
	if flags.Changed("no-sniff") {
		s.Detect.Sniff = !g.noSniff
	}
	if flags.Changed("chunk-size") {
		s.Loader.ReadChunkSize = g.chunkSize
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{
		Level:  s.LogLevel(),
		Output: cmd.ErrOrStderr(),
		Prefix: "tepl",
	})

	catalog := s.Catalog()
	dopts := []detect.Option{detect.WithCatalog(catalog), detect.WithLogger(logger)}
	if s.Detect.Sniff {
		dopts = append(dopts, detect.WithSniffer(detect.NewChardetSniffer(s.Detect.SniffLimit, s.Detect.MinConfidence)))
	} else {
		dopts = append(dopts, detect.WithoutSniffer())
	}

	return &env{
		settings: s,
		logger:   logger,
		catalog:  catalog,
		detector: detect.New(dopts...),
	}, nil
}

// loader returns a file loader configured from the settings.
func (e *env) loader(opts ...loader.Option) *loader.Loader {
	base := []loader.Option{
		loader.WithDetector(e.detector),
		loader.WithReadChunkSize(e.settings.Loader.ReadChunkSize),
		loader.WithMaxFileSize(e.settings.Loader.MaxFileSize),
		loader.WithRejectBinary(e.settings.Loader.RejectBinary),
		loader.WithMaxOutputChunkSize(e.settings.Conversion.MaxOutputChunkSize),
		loader.WithLogger(e.logger),
	}
	return loader.New(append(base, opts...)...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
