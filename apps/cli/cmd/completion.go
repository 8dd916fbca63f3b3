package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/abdul-hamid-achik/httpdoc/packages/core/config"
	"github.com/spf13/cobra"
)

// completionScripts maps each supported shell to its script generator.
var completionScripts = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash": func(root *cobra.Command, w io.Writer) error {
		return root.GenBashCompletionV2(w, true)
	},
	"zsh": func(root *cobra.Command, w io.Writer) error {
		return root.GenZshCompletion(w)
	},
	"fish": func(root *cobra.Command, w io.Writer) error {
		return root.GenFishCompletion(w, true)
	},
	"powershell": func(root *cobra.Command, w io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(w)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Print a shell completion script",
	Long: `Print a completion script for bash, zsh, fish or powershell.

Completions cover subcommands, flags and output formats. File arguments
of validate, inspect, list and bench complete to request files only.

Examples:
  source <(httpdoc completion bash)
  httpdoc completion zsh > "${fpath[1]}/_httpdoc"
  httpdoc completion fish > ~/.config/fish/completions/httpdoc.fish`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells(),
	Args:                  completionArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return completionScripts[args[0]](cmd.Root(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)

	for _, c := range []*cobra.Command{validateCmd, inspectCmd, listCmd, benchCmd} {
		c.ValidArgsFunction = completeRequestFiles
	}
}

func completionShells() []string {
	shells := make([]string, 0, len(completionScripts))
	for shell := range completionScripts {
		shells = append(shells, shell)
	}
	slices.Sort(shells)
	return shells
}

func completionArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return withExitCode(ExitUsageError, fmt.Errorf("expected one shell: %s", strings.Join(completionShells(), ", ")))
	}
	if _, ok := completionScripts[args[0]]; !ok {
		return withExitCode(ExitUsageError, fmt.Errorf("unsupported shell %q: want one of %s", args[0], strings.Join(completionShells(), ", ")))
	}
	return nil
}

// completeRequestFiles offers directories and files with a request file
// extension.
func completeRequestFiles(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	exts := make([]string, 0, len(config.DefaultConfig().Extensions))
	for _, ext := range config.DefaultConfig().Extensions {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	return exts, cobra.ShellCompDirectiveFilterFileExt
}

// completeValues completes a flag to a fixed set of values.
func completeValues(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
