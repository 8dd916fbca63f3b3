package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/httpdoc/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Create a config file and an example request file",
	Long: `Create a config file and an example request file.

This creates:
  - .httpdoc.yaml  - Configuration file with the default parser settings
  - example.http   - Example request file

Examples:
  httpdoc init
  httpdoc init ./api --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleRequests = `# Example requests
@limit = 10
@token = "change-me"

# List users
GET {{baseUrl}}/users?limit={{limit}} HTTP/1.1
Accept: application/json
Authorization: Bearer {{token}}

# Create a user
POST {{baseUrl}}/users
Content-Type: application/json

{
  "name": "alice"
}

# Log in with a form
POST /login
Content-Type: application/x-www-form-urlencoded

user=alice&password={{password}}
`

func initCommand(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	configFile := filepath.Join(dir, ".httpdoc.yaml")
	exampleFile := filepath.Join(dir, "example.http")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return withExitCode(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	if err := config.DefaultConfig().SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(exampleFile, []byte(exampleRequests), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nRun 'httpdoc validate %s' to check it.\n", exampleFile)
	return nil
}
