package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/layermerge/pkg/pipeline"
	"github.com/matzehuels/layermerge/pkg/render/text"
	"github.com/matzehuels/layermerge/pkg/view"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	pass  passFlags
	noTUI bool // print both outlines instead of starting the browser
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse a view tree before and after flattening",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], opts.pass.options(cmd, c.Config.Merge), &opts)
		},
	}

	opts.pass.bind(cmd)
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "print both outlines instead of the interactive browser")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, popts pipeline.Options, opts *inspectOpts) error {
	runner, err := c.newRunner(ctx, opts.pass.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	root, err := readTree(ctx, runner, input, opts.pass.inputFormat)
	if err != nil {
		return err
	}
	if popts.HasViewport() {
		view.Layout(root, popts.Width, popts.Height)
	}

	res, err := runner.Execute(ctx, root, popts)
	if err != nil {
		return err
	}

	topts := text.Options{Styles: text.DefaultStyles()}
	before := text.Lines(root, topts)
	after := text.Lines(res.Tree, topts)

	if opts.noTUI {
		printOutline("Before", before)
		printNewline()
		printOutline("After", after)
		printNewline()
		printResult(res)
		return nil
	}

	final, err := tea.NewProgram(NewInspectModel(before, after, res), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	if m, ok := final.(InspectModel); ok {
		loggerFromContext(ctx).Debug("inspect closed", "focus", m.Focus, "synced", m.Synced)
	}
	return nil
}

func printOutline(title string, lines []string) {
	fmt.Println(StyleTitle.Render(title))
	for _, l := range lines {
		fmt.Println(l)
	}
}
