package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command. Session names complete
// dynamically through completeSessionNames, so scripts need no refresh when
// designs are saved.
func (c *CLI) completionCommand() *cobra.Command {
	shells := map[string]func(root *cobra.Command, w io.Writer) error{
		"bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
		"zsh":  func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
		"fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
		"powershell": func(root *cobra.Command, w io.Writer) error {
			return root.GenPowerShellCompletionWithDesc(w)
		},
	}

	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for flickergrid. Commands, flags and saved
session names complete once the script is loaded.`,
		Example: `  source <(flickergrid completion bash)
  flickergrid completion zsh > "${fpath[1]}/_flickergrid"
  flickergrid completion fish > ~/.config/fish/completions/flickergrid.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return shells[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}
