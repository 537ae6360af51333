package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/dshills/tepl/internal/detect"
)

// errSomeFailed is returned when detection failed for at least one file.
var errSomeFailed = errors.New("detection failed for some files")

func newDetectCmd(g *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "detect [--json] FILE...",
		Short: "Print the detected encoding of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.setup(cmd)
			if err != nil {
				return err
			}
			return runDetect(cmd.Context(), e, cmd.OutOrStdout(), args, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write a JSON array instead of text")
	return cmd
}

func runDetect(ctx context.Context, e *env, out io.Writer, paths []string, asJSON bool) error {
	l := e.loader()
	report := []byte("[]")
	failed := false

	for _, path := range paths {
		det, err := l.Detect(ctx, path)
		if errors.Is(err, context.Canceled) {
			return err
		}
		if err != nil {
			failed = true
			e.logger.WithField("path", path).Warn("%v", err)
		}

		if asJSON {
			item, jerr := detectionJSON(path, det, err)
			if jerr != nil {
				return jerr
			}
			if report, jerr = sjson.SetRawBytes(report, "-1", item); jerr != nil {
				return jerr
			}
			continue
		}

		switch {
		case err != nil:
			fmt.Fprintf(out, "%s: error: %v\n", path, err)
		case det.Method == detect.MethodSniff:
			fmt.Fprintf(out, "%s: %s (%s, confidence %d)\n", path, det.Encoding.Charset(), det.Method, det.Confidence)
		default:
			fmt.Fprintf(out, "%s: %s (%s)\n", path, det.Encoding.Charset(), det.Method)
		}
	}

	if asJSON {
		if _, err := fmt.Fprintf(out, "%s\n", report); err != nil {
			return err
		}
	}
	if failed {
		return errSomeFailed
	}
	return nil
}

func detectionJSON(path string, det detect.Detection, derr error) ([]byte, error) {
	item := []byte("{}")
	set := func(key string, value any) (err error) {
		item, err = sjson.SetBytes(item, key, value)
		return err
	}

	if err := set("path", path); err != nil {
		return nil, err
	}
	if derr != nil {
		if err := set("error", derr.Error()); err != nil {
			return nil, err
		}
		return item, nil
	}
	for _, kv := range []struct {
		key   string
		value any
	}{
		{"charset", det.Encoding.Charset()},
		{"name", det.Encoding.Name()},
		{"method", string(det.Method)},
		{"confidence", det.Confidence},
	} {
		if err := set(kv.key, kv.value); err != nil {
			return nil, err
		}
	}
	return item, nil
}
