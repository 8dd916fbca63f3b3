package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/httpdoc/packages/core/parser"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleSource = `# users
@limit = 10

GET {{baseUrl}}/users?limit={{limit}}
Accept: application/json

POST /users
Content-Type: application/json

{
  "name": "alice"
}
`

const brokenSource = `GET /ok

POST /users
Accept: text/html, */*
`

func parseResult(t *testing.T, file, source string) *FileResult {
	t.Helper()
	doc, err := parser.Parse(source, file)
	require.NoError(t, err)
	return &FileResult{File: file, Source: source, Document: doc}
}

func TestDocumentView(t *testing.T) {
	view := NewDocumentView(parseResult(t, "users.http", sampleSource))

	assert.Equal(t, "users.http", view.File)
	assert.Empty(t, view.Diagnostics)
	require.Len(t, view.Entries, 4)

	assert.Equal(t, "comment", view.Entries[0].Kind)
	assert.Equal(t, "declaration", view.Entries[1].Kind)
	assert.Equal(t, int64(10), view.Entries[1].Value)

	get := view.Entries[2].Request
	require.NotNil(t, get)
	assert.Equal(t, "GET", get.Method)
	assert.Equal(t, "variable", get.Target.Form)
	assert.Equal(t, "baseUrl", get.Target.Base)
	assert.Equal(t, []QueryView{{Key: "limit", Value: "{{limit}}"}}, get.Target.Query)

	post := view.Entries[3].Request
	require.NotNil(t, post)
	require.NotNil(t, post.Body)
	assert.Equal(t, "json", post.Body.Dialect)
	assert.Equal(t, 7, view.Entries[3].Line)
	assert.Equal(t, 12, view.Entries[3].EndLine)
}

func TestDocumentView_Error(t *testing.T) {
	view := NewDocumentView(&FileResult{File: "bad.http", Err: errors.New("boom")})
	assert.Equal(t, "boom", view.Error)
	assert.NotNil(t, view.Entries)
	assert.NotNil(t, view.Diagnostics)
}

func TestEntryLabel(t *testing.T) {
	result := parseResult(t, "", sampleSource)
	var labels []string
	for _, e := range result.Document.Entries {
		labels = append(labels, EntryLabel(e))
	}
	assert.Equal(t, []string{
		"# users",
		"@limit = 10",
		"GET {{baseUrl}}/users?limit={{limit}}",
		"POST /users",
	}, labels)
}

func TestConsoleFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))

	f.FormatHeader("1.0.0")
	f.FormatResult(parseResult(t, "users.http", sampleSource))
	f.FormatResult(parseResult(t, "broken.http", brokenSource))
	f.FormatResult(&FileResult{File: "gone.http", Err: errors.New("no such file")})
	require.NoError(t, f.Flush())

	out := buf.String()
	assert.Contains(t, out, "httpdoc 1.0.0")
	assert.Contains(t, out, "✓ users.http (4 entries, 2 requests)")
	assert.Contains(t, out, "request     POST /users (line 7)")
	assert.Contains(t, out, "✗ broken.http (1 diagnostics)")
	assert.Contains(t, out, "error[MalformedHeader]")
	assert.Contains(t, out, "--> broken.http:4:9")
	assert.Contains(t, out, "x gone.http (no such file)")
	assert.Contains(t, out, "Files: 1 valid, 2 invalid, 3 total")
}

func TestDiagnosticReporter_Format(t *testing.T) {
	color.NoColor = true
	result := parseResult(t, "broken.http", brokenSource)
	require.Len(t, result.Document.Diagnostics, 1)

	out := NewDiagnosticReporter("broken.http", brokenSource).Format(result.Document.Diagnostics[0])
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "error[MalformedHeader]: "))
	assert.Equal(t, "3 │ POST /users", lines[3])
	assert.Equal(t, "4 │ Accept: text/html, */*", lines[4])
	assert.Equal(t, "  │         ^^^^^^^^^^^^^^", lines[5])
}

func TestMarker(t *testing.T) {
	assert.Equal(t, "^^^", marker("abc", 1))
	assert.Equal(t, "  ^", marker("abc", 3))
	assert.Equal(t, "     ^", marker("abc", 6))
	assert.Equal(t, "\t^", marker("\tx  ", 2))
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))
	f.FormatResult(parseResult(t, "users.http", sampleSource))
	f.FormatResult(parseResult(t, "broken.http", brokenSource))
	require.NoError(t, f.Flush())

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, JSONSummary{Files: 2, Invalid: 1, Entries: 5, Requests: 3, Diagnostics: 1}, out.Summary)
	require.Len(t, out.Files, 2)
	assert.Equal(t, "MalformedHeader", out.Files[1].Diagnostics[0].Kind)
}

func TestMarshalDocument_MatchesSchema(t *testing.T) {
	for _, source := range []string{sampleSource, brokenSource, ""} {
		data, err := MarshalDocument(parseResult(t, "f.http", source))
		require.NoError(t, err)
		assert.NoError(t, ValidateDocumentJSON(data))
	}
}

func TestValidateDocumentJSON_Rejects(t *testing.T) {
	err := ValidateDocumentJSON([]byte(`{"file": "x.http", "entries": [{"kind": "nonsense", "line": 0, "endLine": 1}], "diagnostics": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestQuery(t *testing.T) {
	data, err := MarshalDocument(parseResult(t, "users.http", sampleSource))
	require.NoError(t, err)

	methods, err := Query(data, `entries.#(kind=="request")#.request.method`)
	require.NoError(t, err)
	assert.JSONEq(t, `["GET","POST"]`, methods)

	base, err := Query(data, "entries.2.request.target.base")
	require.NoError(t, err)
	assert.Equal(t, "baseUrl", base)

	_, err = Query(data, "entries.9.request")
	assert.Error(t, err)

	_, err = Query([]byte("{"), "file")
	assert.Error(t, err)
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewYAMLFormatter(YAMLWithWriter(&buf))
	f.FormatResult(parseResult(t, "users.http", sampleSource))
	require.NoError(t, f.Flush())

	var views []DocumentView
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "users.http", views[0].File)
	assert.Len(t, views[0].Entries, 4)
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))
	f.FormatResult(parseResult(t, "broken.http", brokenSource))
	f.FormatResult(&FileResult{File: "gone.http", Err: errors.New("missing")})
	require.NoError(t, f.Flush())

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suites))
	assert.Equal(t, 3, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Errors)
	require.Len(t, suites.TestSuites, 2)
	assert.Equal(t, "line 1: GET /ok", suites.TestSuites[0].TestCases[0].Name)
	require.NotNil(t, suites.TestSuites[0].TestCases[1].Failure)
	assert.Equal(t, "MalformedHeader", suites.TestSuites[0].TestCases[1].Failure.Type)
}

func TestTAPFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))
	f.FormatResult(parseResult(t, "users.http", sampleSource))
	f.FormatResult(parseResult(t, "broken.http", brokenSource))
	require.NoError(t, f.Flush())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "TAP version 13\n1..2\n"))
	assert.Contains(t, out, "ok 1 - users.http\n")
	assert.Contains(t, out, "not ok 2 - broken.http\n")
	assert.Contains(t, out, "    - kind: MalformedHeader\n")
	assert.Contains(t, out, "  ...\n")
}
