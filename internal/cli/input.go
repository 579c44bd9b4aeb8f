package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	treeio "github.com/matzehuels/layermerge/pkg/io"
	"github.com/matzehuels/layermerge/pkg/pipeline"
	"github.com/matzehuels/layermerge/pkg/view"
)

// stdinPath reads the tree from standard input.
const stdinPath = "-"

// passFlags holds the command-line flags shared by flatten, check and inspect.
// Values left unset on the command line come from [MergeConfig].
type passFlags struct {
	flags       string
	threshold   int
	width       int
	height      int
	force       bool
	wrapRoot    bool
	inputFormat string
	noCache     bool
	refresh     bool
}

func (f *passFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.flags, "flags", "", "container attributes to keep as placeholders: none, background, click, longclick, events, all (comma-separated)")
	cmd.Flags().IntVar(&f.threshold, "threshold", 0, "not-ready count that blocks the pass, 0 to never block (default 3)")
	cmd.Flags().IntVar(&f.width, "width", 0, "lay the tree out at this viewport width first")
	cmd.Flags().IntVar(&f.height, "height", 0, "lay the tree out at this viewport height first")
	cmd.Flags().BoolVar(&f.force, "force", false, "merge even when the readiness check fails")
	cmd.Flags().BoolVar(&f.wrapRoot, "wrap-root", false, "wrap a non-frame root in a frame instead of failing")
	cmd.Flags().StringVarP(&f.inputFormat, "input-format", "i", "", "input format: json, yaml, toml (default from file extension)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute and overwrite cached results")
}

// options merges the flags over cfg.
func (f *passFlags) options(cmd *cobra.Command, cfg MergeConfig) pipeline.Options {
	opts := pipeline.Options{
		Flags:     cfg.Flags,
		Threshold: cfg.Threshold,
		Force:     cfg.Force,
		WrapRoot:  cfg.WrapRoot,
		Width:     f.width,
		Height:    f.height,
		Refresh:   f.refresh,
	}
	changed := cmd.Flags().Changed
	if changed("flags") {
		opts.Flags = f.flags
	}
	if changed("threshold") {
		opts.Threshold = pipeline.Threshold(f.threshold)
	}
	if changed("force") {
		opts.Force = f.force
	}
	if changed("wrap-root") {
		opts.WrapRoot = f.wrapRoot
	}
	return opts
}

// readTree decodes the tree at path, or standard input for "-".
func readTree(ctx context.Context, runner *pipeline.Runner, path, format string) (*view.Node, error) {
	if path == stdinPath {
		if format == "" {
			format = string(treeio.FormatJSON)
		}
		return runner.Decode(ctx, os.Stdin, format)
	}

	if format == "" {
		f, err := treeio.FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		format = string(f)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return runner.Decode(ctx, file, format)
}

// nopCloser wraps an io.Writer to implement io.WriteCloser with a no-op Close.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a writer for the given path, or stdout if path is empty or "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == stdinPath {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// writeOutput writes data to path, or stdout if path is empty or "-".
func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// toFile reports whether path names a file rather than stdout.
func toFile(path string) bool {
	return path != "" && path != stdinPath
}
