package cli

import (
	"strings"

	"github.com/spf13/cobra"

	treeio "github.com/matzehuels/layermerge/pkg/io"
	"github.com/matzehuels/layermerge/pkg/pipeline"
)

// treeFileExts are the document extensions offered for tree arguments.
var treeFileExts = []string{"json", "yaml", "yml", "toml"}

// placeholderFlags are the values accepted by --flags.
var placeholderFlags = []string{"none", "background", "click", "longclick", "events", "all"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for layermerge.

Tree arguments complete to .json, .yaml, .yml and .toml files, and --format,
--input-format and --flags complete to the values each command accepts.

  $ source <(layermerge completion bash)
  $ layermerge completion zsh > "${fpath[1]}/_layermerge"
  $ layermerge completion fish > ~/.config/fish/completions/layermerge.fish
  PS> layermerge completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// registerCompletions wires tree file and flag value completion into the
// commands that read a tree.
func registerCompletions(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.ValidArgsFunction = completeTreeFile
		for flag, values := range map[string][]string{
			"format":       pipeline.RenderFormats,
			"input-format": treeio.Formats,
			"flags":        placeholderFlags,
		} {
			if cmd.Flags().Lookup(flag) != nil {
				_ = cmd.RegisterFlagCompletionFunc(flag, completeList(values))
			}
		}
	}
}

// completeTreeFile offers tree documents for the single file argument.
func completeTreeFile(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return treeFileExts, cobra.ShellCompDirectiveFilterFileExt
}

// completeList completes the last item of a comma-separated value.
func completeList(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		head := ""
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			head, toComplete = toComplete[:i+1], toComplete[i+1:]
		}
		var out []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				out = append(out, head+v)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}
