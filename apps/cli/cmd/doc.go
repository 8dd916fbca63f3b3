// Package cmd implements the httpdoc CLI commands using Cobra.
//
// Available commands:
//   - validate: Parse request files and report diagnostics
//   - inspect: Print the parsed document model of one file
//   - list: Display the requests defined in files
//   - init: Create a config file and an example request file
//   - version: Show httpdoc version information
//
// Every command resolves its settings from the config file, HTTPDOC_*
// environment variables and flags, in increasing precedence.
package cmd
