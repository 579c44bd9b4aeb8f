package cli

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompletionScript(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			isolate(t)
			var out bytes.Buffer
			root := New(io.Discard, LogInfo).RootCommand()
			root.SetArgs([]string{"completion", shell})
			root.SetOut(&out)
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out.String(), "layermerge") {
				t.Errorf("%s script does not mention layermerge", shell)
			}
		})
	}
}

func TestCompleteTreeFile(t *testing.T) {
	got, directive := completeTreeFile(nil, nil, "")
	if !slices.Equal(got, []string{"json", "yaml", "yml", "toml"}) {
		t.Errorf("extensions = %v", got)
	}
	if directive != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("directive = %v, want FilterFileExt", directive)
	}

	if got, directive := completeTreeFile(nil, []string{"screen.json"}, ""); got != nil || directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("second argument completed to %v (%v)", got, directive)
	}
}

func TestCompleteList(t *testing.T) {
	complete := completeList(placeholderFlags)
	tests := []struct {
		toComplete string
		want       []string
	}{
		{"", placeholderFlags},
		{"b", []string{"background"}},
		{"background,cl", []string{"background,click"}},
		{"click,e", []string{"click,events"}},
		{"x", nil},
	}
	for _, tt := range tests {
		t.Run(tt.toComplete, func(t *testing.T) {
			got, _ := complete(nil, nil, tt.toComplete)
			if !slices.Equal(got, tt.want) {
				t.Errorf("completeList(%q) = %v, want %v", tt.toComplete, got, tt.want)
			}
		})
	}
}

func TestFlattenFormatCompletion(t *testing.T) {
	isolate(t)
	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{cobra.ShellCompRequestCmd, "flatten", "screen.json", "--format", "s"})
	root.SetOut(&out)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("__complete: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if !slices.Contains(lines, "svg") || slices.Contains(lines, "png") {
		t.Errorf("format completion = %q, want svg only", lines)
	}
}
