package cli

import "github.com/spf13/cobra"

// completionCommand creates the completion command for generating shell completions.
// Scripts are written to the command's output stream.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for analogtopo.

To load completions:

Bash:
  $ source <(analogtopo completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ analogtopo completion bash > /etc/bash_completion.d/analogtopo
  # macOS:
  $ analogtopo completion bash > $(brew --prefix)/etc/bash_completion.d/analogtopo

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ analogtopo completion zsh > "${fpath[1]}/_analogtopo"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ analogtopo completion fish | source

  # To load completions for each session, execute once:
  $ analogtopo completion fish > ~/.config/fish/completions/analogtopo.fish

PowerShell:
  PS> analogtopo completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> analogtopo completion powershell > analogtopo.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}
