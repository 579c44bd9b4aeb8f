package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/layermerge/pkg/errors"
	"github.com/matzehuels/layermerge/pkg/pipeline"
)

// checkOpts holds the command-line flags for the check command.
type checkOpts struct {
	pass   passFlags
	json   bool // print the report as JSON
	strict bool // fail when the tree needs merging but is not ready
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var opts checkOpts

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Report whether a view tree needs flattening and is ready for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), args[0], opts.pass.options(cmd, c.Config.Merge), &opts)
		},
	}

	opts.pass.bind(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error when the tree needs merging but is not ready")

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, input string, popts pipeline.Options, opts *checkOpts) error {
	runner, err := c.newRunner(ctx, opts.pass.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	root, err := readTree(ctx, runner, input, opts.pass.inputFormat)
	if err != nil {
		return err
	}
	rep, err := runner.Check(ctx, root, popts)
	if err != nil {
		return err
	}

	if opts.json {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		printReport(input, rep)
	}

	if opts.strict && rep.NeedMerge && !rep.Ready {
		return apperr.New(apperr.ErrCodeNotReady, "%s: %d unready nodes (threshold %d)", input, rep.NotReady, rep.Threshold)
	}
	return nil
}

// printReport prints a readiness report as a table followed by a verdict.
func printReport(input string, rep *pipeline.Report) {
	fmt.Println(StyleTitle.Render(input))
	fmt.Println(reportTable(rep))

	switch {
	case !rep.NeedMerge:
		printSuccess("Already flat")
	case rep.Ready:
		printSuccess("Ready to flatten")
		printNextStep("Flatten it", "layermerge flatten "+input)
	default:
		printWarning("Not ready: %d unready nodes reached the threshold of %d", rep.NotReady, rep.Threshold)
		printDetail("Lay the tree out with --width/--height, or pass --force to flatten anyway")
	}
}

func reportTable(rep *pipeline.Report) string {
	rows := [][]string{
		{"Needs merge", yesNo(rep.NeedMerge)},
		{"Ready", yesNo(rep.Ready)},
		{"Unready nodes", strconv.Itoa(rep.NotReady)},
		{"Threshold", strconv.Itoa(rep.Threshold)},
		{"Containers", strconv.Itoa(rep.Shape.Containers)},
		{"Leaves", strconv.Itoa(rep.Shape.Leaves)},
		{"Placeholders", strconv.Itoa(rep.Shape.Placeholders)},
		{"Depth", strconv.Itoa(rep.Shape.Depth)},
	}

	keyStyle := lipgloss.NewStyle().Foreground(colorGray).PaddingRight(1)
	valueStyle := StyleNumber.PaddingLeft(1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle
			}
			return valueStyle
		}).
		Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
