package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/httpdoc/packages/bench"
	"github.com/abdul-hamid-achik/httpdoc/packages/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRequests = `# users
GET /users
Accept: application/json
`

const brokenRequests = `GET /ok

POST /users
Accept: text/html, */*
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, c := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
		resetFlags(c.PersistentFlags())
		resetFlags(c.Flags())
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidate_Clean(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.http", validRequests)
	writeFile(t, dir, "notes.txt", "not a request file")

	out, err := execute(t, "validate", dir, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "users.http (2 entries, 1 requests)")
	assert.NotContains(t, out, "notes.txt")
	assert.Contains(t, out, "Files: 1 valid, 1 total")
}

func TestValidate_Diagnostics(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.http", brokenRequests)

	out, err := execute(t, "validate", path, "--no-color")
	require.Error(t, err)
	assert.Equal(t, ExitParseError, exitCodeOf(err))
	assert.Contains(t, out, "error[MalformedHeader]")
}

func TestValidate_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.http", validRequests)
	writeFile(t, dir, "broken.http", brokenRequests)

	out, err := execute(t, "validate", dir, "-o", "json")
	require.Error(t, err)

	var report output.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Summary.Files)
	assert.Equal(t, 1, report.Summary.Invalid)
}

func TestValidate_OutputFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "users.http", validRequests)
	report := filepath.Join(dir, "report.tap")

	_, err := execute(t, "validate", path, "-o", "tap", "--output-file", report)
	require.NoError(t, err)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ok 1 - "+path)
}

func TestValidate_UsageErrors(t *testing.T) {
	_, err := execute(t, "validate")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCodeOf(err))

	dir := t.TempDir()
	path := writeFile(t, dir, "users.http", validRequests)
	_, err = execute(t, "validate", path, "-o", "html")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCodeOf(err))

	_, err = execute(t, "validate", path, "--bogus")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCodeOf(err))

	_, err = execute(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCodeOf(err))
}

func TestValidate_BadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "users.http", validRequests)
	cfg := writeFile(t, dir, ".httpdoc.yaml", "output: html\n")

	_, err := execute(t, "validate", path, "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCodeOf(err))
}

func TestValidate_LenientHeaders(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.http", brokenRequests)

	_, err := execute(t, "validate", path, "--lenient-headers", "--no-color")
	assert.NoError(t, err)
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "users.http", validRequests)

	out, err := execute(t, "inspect", path, "--strict")
	require.NoError(t, err)
	assert.NoError(t, output.ValidateDocumentJSON([]byte(out)))

	out, err = execute(t, "inspect", path, "--query", "entries.1.request.target.path")
	require.NoError(t, err)
	assert.Contains(t, out, "/users")

	out, err = execute(t, "inspect", path, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "method: GET")

	_, err = execute(t, "inspect", path, "-o", "yaml", "--query", "file")
	assert.Equal(t, ExitUsageError, exitCodeOf(err))
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "users.http", validRequests)

	out, err := execute(t, "list", path)
	require.NoError(t, err)
	assert.Contains(t, out, "   2  GET /users")
	assert.NotContains(t, out, "# users")

	out, err = execute(t, "list", path, "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "   1  # users")
}

func TestInit_ExampleValidates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "api")

	out, err := execute(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Created: "+filepath.Join(dir, ".httpdoc.yaml"))

	_, err = execute(t, "init", dir)
	require.Error(t, err)

	_, err = execute(t, "init", dir, "--force")
	require.NoError(t, err)

	out, err = execute(t, "validate", dir, "--no-color", "--config", filepath.Join(dir, ".httpdoc.yaml"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "example.http (9 entries, 3 requests)")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "httpdoc version dev")
}

func TestBench(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "users.http", validRequests)

	out, err := execute(t, "bench", path, "-n", "25", "-d", "0", "-o", "json")
	require.NoError(t, err)

	var summary bench.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, int64(25), summary.Parses)
	require.Len(t, summary.Files, 1)
	assert.Equal(t, path, summary.Files[0].Name)

	_, err = execute(t, "bench", path, "-n", "5", "-d", "0", "--threshold", "p50<1ns")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, exitCodeOf(err))

	_, err = execute(t, "bench", path, "-d", "0")
	assert.Equal(t, ExitUsageError, exitCodeOf(err))
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "httpdoc")

	out, err = execute(t, "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "#compdef httpdoc")

	_, err = execute(t, "completion", "tcsh")
	assert.Equal(t, ExitUsageError, exitCodeOf(err))

	_, err = execute(t, "completion")
	assert.Equal(t, ExitUsageError, exitCodeOf(err))
}

func TestCompletion_RequestFilesAndFormats(t *testing.T) {
	out, err := execute(t, cobra.ShellCompRequestCmd, "validate", "")
	require.NoError(t, err)
	assert.Contains(t, out, "http\nrest\n")
	assert.Contains(t, out, ":8\n")

	out, err = execute(t, cobra.ShellCompRequestCmd, "validate", "-o", "")
	require.NoError(t, err)
	assert.Contains(t, out, "junit\ntap\n")

	out, err = execute(t, cobra.ShellCompRequestCmd, "inspect", "--output", "")
	require.NoError(t, err)
	assert.Contains(t, out, "json\nyaml\n:4\n")
}
