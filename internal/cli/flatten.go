package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/layermerge/pkg/errors"
	treeio "github.com/matzehuels/layermerge/pkg/io"
	"github.com/matzehuels/layermerge/pkg/pipeline"
)

// flattenOpts holds the command-line flags for the flatten command.
type flattenOpts struct {
	pass     passFlags
	output   string // output file (stdout if empty)
	format   string // output format: a document format or a render format
	detailed bool   // detailed labels for dot/svg/png output
}

// flattenCommand creates the flatten command.
func (c *CLI) flattenCommand() *cobra.Command {
	var opts flattenOpts

	cmd := &cobra.Command{
		Use:   "flatten [file]",
		Short: "Flatten a view tree so every leaf sits directly under the root",
		Long: `Flatten reads a tree document, checks that it needs merging and that enough
nodes are measured, and moves every leaf under the root at its former
position. Use "-" to read standard input.`,
		Example: `  layermerge flatten screen.json -o flat.json
  layermerge flatten screen.yaml --flags background,events -f text
  cat screen.json | layermerge flatten - --width 1080 --height 1920`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apperr.ValidateFormat(opts.format, pipeline.RenderFormats); err != nil {
				return err
			}
			return c.runFlatten(cmd.Context(), args[0], opts.pass.options(cmd, c.Config.Merge), &opts)
		},
	}

	opts.pass.bind(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.DefaultFormat, "output format: json, yaml, toml, dot, svg, png, text")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show kind, bounds and attributes in diagrams")

	return cmd
}

func (c *CLI) runFlatten(ctx context.Context, input string, popts pipeline.Options, opts *flattenOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.pass.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	root, err := readTree(ctx, runner, input, opts.pass.inputFormat)
	if err != nil {
		return err
	}

	isDoc := slices.Contains(treeio.Formats, opts.format)
	if isDoc {
		popts.Format = opts.format
	}

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, root, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Flattened %s", input))
	logResult(ctx, res)

	data := res.Output
	if !isDoc {
		if data, err = pipeline.Render(ctx, res.Tree, opts.format, pipeline.RenderOptions{Detailed: opts.detailed}); err != nil {
			return err
		}
	}
	if err := writeOutput(opts.output, data); err != nil {
		return err
	}

	if toFile(opts.output) {
		printResult(res)
		printFile(opts.output)
	}
	return nil
}

// logResult reports the outcome of a pass on the logger.
func logResult(ctx context.Context, res *pipeline.Result) {
	logger := loggerFromContext(ctx)
	switch {
	case res.Merged:
		logger.Debug("merge stats",
			"leaves", res.Merge.Leaves,
			"placeholders", res.Merge.Placeholders,
			"cached", res.CacheHit)
	case !res.Report.NeedMerge:
		logger.Info("Tree is already flat; written unchanged")
	case !res.Attempted:
		logger.Warnf("Tree not ready: %d unready nodes reached the threshold of %d (use --force to merge anyway)",
			res.Report.NotReady, res.Report.Threshold)
	default:
		logger.Warnf("Merge stopped at the not-ready threshold; %d nodes reattached, %d left out",
			res.Merge.Reinserted, res.Merge.Skipped)
	}
}
