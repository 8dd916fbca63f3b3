package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/httpdoc/packages/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the parsed document model of a request file",
	Long: `Print the parsed document model of a single request file.

The document is printed as JSON by default. A gjson path selects part of it;
--strict checks the output against the document schema before printing.

Examples:
  httpdoc inspect api.http
  httpdoc inspect api.http -o yaml
  httpdoc inspect api.http --query 'entries.#(kind=="request")#.request.method'
  httpdoc inspect api.http --strict`,
	Args: cobra.ExactArgs(1),
	RunE: inspectCommand,
}

var (
	inspectOutputFlag string
	queryFlag         string
	strictFlag        bool
)

func init() {
	inspectCmd.Flags().StringVarP(&inspectOutputFlag, "output", "o", "json", "Output format: json, yaml")
	_ = inspectCmd.RegisterFlagCompletionFunc("output", completeValues("json", "yaml"))
	inspectCmd.Flags().StringVarP(&queryFlag, "query", "q", "", "gjson path to select from the document")
	inspectCmd.Flags().BoolVar(&strictFlag, "strict", false, "Check the document against its JSON schema")
}

func inspectCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format := strings.ToLower(inspectOutputFlag)
	if format != "json" && format != "yaml" {
		return withExitCode(ExitUsageError, fmt.Errorf("unknown output format %q", inspectOutputFlag))
	}
	if queryFlag != "" && format != "json" {
		return withExitCode(ExitUsageError, fmt.Errorf("--query requires json output"))
	}

	result := parseFile(args[0], cfg, nil)
	if result.Err != nil {
		return result.Err
	}

	data, err := output.MarshalDocument(result)
	if err != nil {
		return err
	}
	if strictFlag {
		if err := output.ValidateDocumentJSON(data); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	switch {
	case queryFlag != "":
		value, err := output.Query(data, queryFlag)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, value)
	case format == "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(output.NewDocumentView(result)); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	default:
		fmt.Fprintln(out, string(data))
	}

	if !result.Valid() {
		return withExitCode(ExitParseError, errDiagnostics)
	}
	return nil
}
