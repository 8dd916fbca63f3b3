// Package output provides formatters for displaying parse results.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output with source excerpts
//   - JSON: Machine-readable JSON output, checkable against DocumentSchema
//   - YAML: The JSON document model rendered as YAML
//   - JUnit: JUnit XML format for CI integration
//   - TAP: Test Anything Protocol format
//
// Every formatter accepts FileResult values through FormatResult and writes
// its accumulated output in Flush.
package output
