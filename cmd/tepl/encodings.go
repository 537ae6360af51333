package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/tepl/internal/encoding"
)

func newEncodingsCmd(g *globalFlags) *cobra.Command {
	var fallback bool

	cmd := &cobra.Command{
		Use:   "encodings",
		Short: "List known encodings",
		Long: `List every encoding the catalog knows, or with --fallback the list the
detector falls back to, in trial order. Encodings this build cannot convert
are marked unsupported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.setup(cmd)
			if err != nil {
				return err
			}
			list := e.catalog.AllKnown()
			if fallback {
				list = e.detector.Candidates()
			}
			return writeEncodings(cmd.OutOrStdout(), list, e.catalog.Locale())
		},
	}
	cmd.Flags().BoolVar(&fallback, "fallback", false, "List detection candidates in trial order")
	return cmd
}

func writeEncodings(w io.Writer, list []encoding.Encoding, locale encoding.Encoding) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, enc := range list {
		var notes string
		switch {
		case !enc.Supported():
			notes = "unsupported"
		case enc.Equal(locale):
			notes = "locale"
		}
		fmt.Fprintf(tw, "%s\t%s\n", enc, notes)
	}
	return tw.Flush()
}
