package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/tepl/internal/convert"
	"github.com/dshills/tepl/internal/encoding"
	"github.com/dshills/tepl/internal/loader"
)

type convertFlags struct {
	from       string
	to         string
	output     string
	lineEnding string
	bom        bool
	escape     bool
}

func newConvertCmd(g *globalFlags) *cobra.Command {
	f := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [-e ENC] [-t TO] [-o OUT] FILE",
		Short: "Convert a file to another encoding",
		Long: `Convert reads FILE, detecting its encoding unless -e is given, and writes
it in the target encoding to OUT or to standard output.

Invalid input bytes fail the conversion unless --escape-invalid is set, in
which case each one is written as \xNN. Escaping is on by default when
standard output is a terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.setup(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("escape-invalid") && f.output == "" {
				f.escape = isTerminal(cmd.OutOrStdout())
			}
			return runConvert(cmd, e, f, args[0])
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.from, "from", "e", "", "Source encoding (detected when empty)")
	fl.StringVarP(&f.to, "to", "t", encoding.CharsetUTF8, "Target encoding")
	fl.StringVarP(&f.output, "output", "o", "", "Output file (standard output when empty)")
	fl.StringVar(&f.lineEnding, "line-ending", "", "Rewrite line breaks to lf, crlf or cr")
	fl.BoolVar(&f.bom, "bom", false, "Write a byte order mark when the target encoding has one")
	fl.BoolVar(&f.escape, "escape-invalid", false, "Write invalid input bytes as \\xNN instead of failing")
	return cmd
}

func runConvert(cmd *cobra.Command, e *env, f *convertFlags, path string) error {
	ctx := cmd.Context()

	to, err := encoding.FromCharset(f.to)
	if err != nil {
		return err
	}
	if !to.Supported() {
		return fmt.Errorf("%w: %s", convert.ErrUnsupportedConversion, to.Charset())
	}

	var ending encoding.LineEnding
	if f.lineEnding != "" {
		var ok bool
		if ending, ok = encoding.ParseLineEnding(f.lineEnding); !ok {
			return fmt.Errorf("invalid line ending %q", f.lineEnding)
		}
	}

	opts := []loader.Option{loader.WithEscapeInvalid(f.escape)}
	if f.from != "" {
		from, err := encoding.FromCharset(f.from)
		if err != nil {
			return err
		}
		opts = append(opts, loader.WithEncoding(from))
	}

	res, err := e.loader(opts...).Load(ctx, path)
	if err != nil {
		return err
	}
	if n := len(res.InvalidRanges); n > 0 {
		e.logger.WithField("path", path).Warn("%d invalid byte sequences escaped", n)
	}

	if f.output != "" {
		return loader.NewSaver(nil, e.logger).Save(ctx, f.output, res.Text, to, ending, f.bom || (res.HasBOM && to.IsUTF8()))
	}
	return writeConverted(cmd.OutOrStdout(), res.Text, to, ending, f.bom)
}

func writeConverted(w io.Writer, text []byte, to encoding.Encoding, ending encoding.LineEnding, bom bool) error {
	if ending != "" {
		text = encoding.NormalizeLineEndings(text, ending)
	}
	out, err := convert.Bytes(encoding.CharsetUTF8, to.Charset(), text)
	if err != nil {
		return err
	}
	if bom {
		out = encoding.AddBOM(out, to)
	}
	_, err = w.Write(out)
	return err
}
