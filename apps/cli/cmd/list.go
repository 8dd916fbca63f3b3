package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/httpdoc/packages/core/parser"
	"github.com/abdul-hamid-achik/httpdoc/packages/output"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <file|directory>...",
	Short: "List the requests in request files",
	Long: `List the requests defined in request files with their line numbers.

With --all, comments, variable declarations and script blocks are listed too.

Examples:
  httpdoc list api.http
  httpdoc list ./requests/ --all`,
	Args: minimumArgs(1),
	RunE: listCommand,
}

var listAllFlag bool

func init() {
	listCmd.Flags().BoolVarP(&listAllFlag, "all", "a", false, "List every entry, not only requests")
}

func listCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	files, err := collectFiles(args, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, file := range files {
		result := parseFile(file, cfg, nil)
		if result.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error parsing %s: %v\n", file, result.Err)
			continue
		}

		fmt.Fprintf(out, "\n%s:\n", file)
		for _, e := range result.Document.Entries {
			if !listAllFlag && e.EntryKind() != parser.EntryRequest {
				continue
			}
			fmt.Fprintf(out, "  %4d  %s\n", e.Span().Start.Line, output.EntryLabel(e))
		}
		for _, d := range result.Document.Diagnostics {
			fmt.Fprintf(out, "  %4d  ! %s: %s\n", d.Pos.Line, d.Kind, d.Message)
		}
	}

	return nil
}
