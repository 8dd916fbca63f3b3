package cmd

// Exit codes for httpdoc CLI
const (
	// ExitSuccess indicates every file parsed cleanly
	ExitSuccess = 0

	// ExitFailure indicates an I/O or unexpected error
	ExitFailure = 1

	// ExitParseError indicates one or more files have diagnostics
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
