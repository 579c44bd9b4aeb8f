package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/layermerge/pkg/errors"
	"github.com/matzehuels/layermerge/pkg/pipeline"
	"github.com/matzehuels/layermerge/pkg/render/text"
	"github.com/matzehuels/layermerge/pkg/view"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string   // output file (single format) or base path (multiple)
	formats     []string // output formats
	inputFormat string   // json, yaml, toml (default from extension)
	detailed    bool     // kind, bounds and attributes in diagram labels
	depth       int      // outline depth limit
	width       int      // viewport width for an optional layout pass
	height      int      // viewport height for an optional layout pass
	plain       bool     // no colors in text output
}

// renderCommand creates the render command for drawing a tree as-is.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw a view tree as a diagram or outline without flattening it",
		Example: `  layermerge render screen.json
  layermerge render screen.json -f svg,png -o out/screen
  layermerge render screen.yaml -f text --width 1080 --height 1920`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if (opts.width > 0) != (opts.height > 0) {
				return apperr.New(apperr.ErrCodeInvalidInput, "--width and --height must be given together")
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): text (default), dot, svg, png, json, yaml, toml (comma-separated)")
	cmd.Flags().StringVarP(&opts.inputFormat, "input-format", "i", "", "input format: json, yaml, toml (default from file extension)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show kind, bounds and attributes in diagrams")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "limit text outlines to this depth (0 for no limit)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "lay the tree out at this viewport width first")
	cmd.Flags().IntVar(&opts.height, "height", 0, "lay the tree out at this viewport height first")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "disable colors in text output")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["text"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatText}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if err := apperr.ValidateFormat(f, pipeline.RenderFormats); err != nil {
			return err
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == stdinPath {
			return "tree"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.RenderFormats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	root, err := readTree(ctx, runner, input, opts.inputFormat)
	if err != nil {
		return err
	}
	if opts.width > 0 && opts.height > 0 {
		view.Layout(root, opts.width, opts.height)
		logger.Debug("laid out tree", "width", opts.width, "height", opts.height)
	}

	ropts := pipeline.RenderOptions{Detailed: opts.detailed, MaxDepth: opts.depth}
	if !opts.plain && !toFile(opts.output) {
		ropts.Styles = text.DefaultStyles()
	}

	if len(opts.formats) == 1 {
		return renderSingle(ctx, root, opts.formats[0], input, opts, ropts)
	}

	base := basePath(opts.output, input)
	ropts.Styles = nil
	for _, format := range opts.formats {
		path := fmt.Sprintf("%s.%s", base, format)
		if err := renderToFile(ctx, root, format, path, ropts); err != nil {
			return err
		}
	}
	return nil
}

// renderSingle renders one format. Text goes to stdout unless -o is given;
// other formats derive a file name from the input when -o is empty.
func renderSingle(ctx context.Context, root *view.Node, format, input string, opts *renderOpts, ropts pipeline.RenderOptions) error {
	if format == pipeline.FormatText && !toFile(opts.output) {
		data, err := pipeline.Render(ctx, root, format, ropts)
		if err != nil {
			return err
		}
		return writeOutput("", data)
	}

	path := opts.output
	if path == "" {
		path = basePath("", input) + "." + format
	}
	return renderToFile(ctx, root, format, path, ropts)
}

func renderToFile(ctx context.Context, root *view.Node, format, path string, ropts pipeline.RenderOptions) error {
	data, err := pipeline.Render(ctx, root, format, ropts)
	if err != nil {
		return err
	}
	if err := writeOutput(path, data); err != nil {
		return err
	}
	loggerFromContext(ctx).Debugf("Generated %s: %d bytes", format, len(data))
	if toFile(path) {
		printFile(path)
	}
	return nil
}
