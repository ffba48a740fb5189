package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/render"
)

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// completionCommand prints a shell completion script.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for forcegraph.

Completions cover subcommands, flags, --format values, --shape and --labels
choices, and graph or layout JSON files as arguments.

  bash:        source <(forcegraph completion bash)
  zsh:         forcegraph completion zsh > "${fpath[1]}/_forcegraph"
  fish:        forcegraph completion fish | source
  powershell:  forcegraph completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, root := cmd.OutOrStdout(), cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(w)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// flagChoices are the fixed values offered for enumerated flags.
var flagChoices = map[string][]string{
	"format": render.Formats,
	"shape":  {shapeCircle, shapeRect},
	"labels": {labelsEmoji, labelsNumeric},
}

// registerCompletions wires value completion into every command under root:
// enumerated flags offer their choices and commands that read a graph or
// layout complete JSON files.
func registerCompletions(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		for name, choices := range flagChoices {
			if cmd.Flags().Lookup(name) == nil {
				continue
			}
			_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(choices, cobra.ShellCompDirectiveNoFileComp))
		}
		if cmd.ValidArgsFunction == nil && acceptsGraphFile(cmd) {
			cmd.ValidArgsFunction = completeJSONFiles
		}
		registerCompletions(cmd)
	}
}

// acceptsGraphFile reports whether cmd takes a graph or layout file argument.
func acceptsGraphFile(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "layout", "render", "watch", "view", "serve":
		return true
	}
	return false
}

func completeJSONFiles(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}
