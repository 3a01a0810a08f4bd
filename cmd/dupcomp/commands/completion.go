package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/dupcomp/internal/config"
)

// NewCompletionCommand creates the completion command for generating shell completions.
func NewCompletionCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for dupcomp.

Bash:
  $ dupcomp completion bash > /etc/bash_completion.d/dupcomp

Zsh:
  $ dupcomp completion zsh > "${fpath[1]}/_dupcomp"

Fish:
  $ dupcomp completion fish > ~/.config/fish/completions/dupcomp.fish

Group names are completed for backup and restore from the configuration
file given with --config.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish"},
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
			}
			return nil
		},
	}

	return cmd
}

// completeGroupNames offers the group names of the configuration file.
func completeGroupNames(cfg *config.Config) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if err := cfg.Load(); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		used := make(map[string]bool, len(args))
		for _, a := range args {
			used[a] = true
		}
		var names []string
		for _, n := range cfg.GroupNames() {
			if !used[n] {
				names = append(names, n)
			}
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
