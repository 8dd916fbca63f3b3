package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_EndToEndVariableTarget(t *testing.T) {
	input := "GET {{baseUrl}}/users?id=1\nAccept: application/json\n"

	doc, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Empty(t, doc.Diagnostics)
	require.Len(t, doc.Entries, 1)

	req, ok := doc.Entries[0].(*Request)
	require.True(t, ok)
	assert.Equal(t, "GET", req.Method.Name)
	assert.False(t, req.Method.Vendor)

	require.NotNil(t, req.Target)
	assert.Equal(t, TargetVariable, req.Target.Form)
	require.NotNil(t, req.Target.Base)
	assert.Equal(t, "baseUrl", req.Target.Base.Name)
	require.NotNil(t, req.Target.Path)
	assert.Equal(t, "/users", req.Target.Path.Raw)
	require.Len(t, req.Target.Query, 1)
	assert.Equal(t, "id", req.Target.Query[0].Key)
	assert.Equal(t, "1", req.Target.Query[0].Value)

	require.Len(t, req.Headers, 1)
	assert.Equal(t, "Accept", req.Headers[0].Name)
	assert.Equal(t, HeaderValueRaw, req.Headers[0].Value.Kind)
	assert.Equal(t, "application/json", req.Headers[0].Value.Raw)
	assert.Nil(t, req.Body)
}

func TestParser_VariableWhitespace(t *testing.T) {
	for _, input := range []string{"{{foo}}", "{{ foo }}", "{{\tfoo  }}"} {
		t.Run(input, func(t *testing.T) {
			doc, err := Parse(input, "")
			require.NoError(t, err)
			require.Empty(t, doc.Diagnostics)
			require.Len(t, doc.Entries, 1)

			v, ok := doc.Entries[0].(*Variable)
			require.True(t, ok)
			assert.Equal(t, "foo", v.Name)
			assert.Equal(t, "{{foo}}", v.String())
		})
	}
}

func TestParser_EntryLocalRecovery(t *testing.T) {
	input := `GET /first

get /broken
X-Header: value

POST /second
Content-Type: application/json
`
	doc, err := Parse(input, "test.http")
	require.NoError(t, err)

	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, ErrInvalidMethod, doc.Diagnostics[0].Kind)
	assert.Equal(t, 3, doc.Diagnostics[0].Pos.Line)

	reqs := doc.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "GET", reqs[0].Method.Name)
	assert.Equal(t, "/first", reqs[0].Target.Raw)
	assert.Equal(t, "POST", reqs[1].Method.Name)
	assert.Equal(t, "/second", reqs[1].Target.Raw)
	assert.Less(t, reqs[0].Loc.End.Offset, doc.Diagnostics[0].Span.Start.Offset)
	assert.Less(t, doc.Diagnostics[0].Span.End.Offset, reqs[1].Loc.Start.Offset)
}

func TestParser_RecoveryAfterUnterminatedBody(t *testing.T) {
	input := `POST /items
Content-Type: application/json

{
  "name": "widget"

GET /items
`
	doc, err := Parse(input, "")
	require.NoError(t, err)

	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, ErrUnterminatedBlock, doc.Diagnostics[0].Kind)
	reqs := doc.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "GET", reqs[0].Method.Name)
	assert.Equal(t, 7, reqs[0].Loc.Start.Line)
}

func TestParser_RecoveryResumesInsideUnclosedBlock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		methods []string
	}{
		{"vendor method only", "POST /a\n\n{\n  \"x\": 1\n\nLIST /secrets\n", 3, []string{"LIST"}},
		{"vendor then standard", "POST /a\n\n{\n  \"x\": 1\n\nLIST /secrets\nGET /b\n", 3, []string{"LIST", "GET"}},
		{"xml opener", "POST /a\n\n<?xml version=\"1.0\"?>\n<a>\nPROPFIND /dav\n", 3, []string{"PROPFIND"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input, "")
			require.NoError(t, err)

			require.Len(t, doc.Diagnostics, 1)
			assert.Equal(t, ErrUnterminatedBlock, doc.Diagnostics[0].Kind)
			assert.Equal(t, tt.line, doc.Diagnostics[0].Pos.Line)
			assert.Equal(t, 1, doc.Diagnostics[0].Pos.Column)

			var methods []string
			for _, req := range doc.Requests() {
				methods = append(methods, req.Method.Name)
			}
			assert.Equal(t, tt.methods, methods)
		})
	}
}

func TestParser_RecoveryAfterUnterminatedScript(t *testing.T) {
	input := "--{%\nlet a = 1\n@limit = 10\n# note\n{{ shared }}\nGET /x\n"
	doc, err := Parse(input, "")
	require.NoError(t, err)

	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, ErrUnterminatedBlock, doc.Diagnostics[0].Kind)
	assert.Equal(t, 1, doc.Diagnostics[0].Pos.Line)

	var kinds []EntryKind
	for _, e := range doc.Entries {
		kinds = append(kinds, e.EntryKind())
	}
	assert.Equal(t, []EntryKind{EntryDeclaration, EntryComment, EntryVariable, EntryRequest}, kinds)
}

func TestParser_EntryKinds(t *testing.T) {
	input := `# Users API
@page = 2
@verbose = true
@name = "alice"

--{%
client.global.set("token", "abc");
--%}

{{ shared }}

GET https://api.example.com/users HTTP/1.1
`
	doc, err := Parse(input, "")
	require.NoError(t, err)
	require.Empty(t, doc.Diagnostics)

	var kinds []EntryKind
	for _, e := range doc.Entries {
		kinds = append(kinds, e.EntryKind())
	}
	assert.Equal(t, []EntryKind{
		EntryComment,
		EntryDeclaration,
		EntryDeclaration,
		EntryDeclaration,
		EntryScript,
		EntryVariable,
		EntryRequest,
	}, kinds)

	comment := doc.Entries[0].(*Comment)
	assert.Equal(t, "Users API", comment.Text)

	decls := doc.Declarations()
	require.Len(t, decls, 3)
	assert.Equal(t, "page", decls[0].Name)
	assert.Equal(t, LiteralNumber, decls[0].Value.Kind)
	assert.Equal(t, int64(2), decls[0].Value.Value())
	assert.Equal(t, true, decls[1].Value.Value())
	assert.Equal(t, "alice", decls[2].Value.Value())

	script := doc.Entries[4].(*ScriptBlock)
	assert.Equal(t, `client.global.set("token", "abc");`, script.Content)

	req := doc.Requests()[0]
	assert.Equal(t, "1.1", req.HTTPVersion)
	assert.Equal(t, TargetAbsolute, req.Target.Form)
}

func TestParser_DeclarationErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing equals", "@token secret\n"},
		{"unquoted url", "@baseUrl = https://api.example.com\n"},
		{"missing name", "@ = 1\n"},
		{"trailing text", "@count = 1 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input, "")
			require.NoError(t, err)
			assert.Empty(t, doc.Entries)
			require.Len(t, doc.Diagnostics, 1)
			assert.Equal(t, ErrUnexpectedToken, doc.Diagnostics[0].Kind)
		})
	}
}

func TestParser_ExtrasControlDeclarations(t *testing.T) {
	doc, err := Parse("@limit = 10\n", "", WithExtras(0))
	require.NoError(t, err)
	assert.Empty(t, doc.Entries)
	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, ErrUnexpectedToken, doc.Diagnostics[0].Kind)
	assert.Equal(t, 7, doc.Diagnostics[0].Pos.Column)

	doc, err = Parse("@limit=10\n", "", WithExtras(0))
	require.NoError(t, err)
	require.Empty(t, doc.Diagnostics)
	require.Len(t, doc.Entries, 1)
	decl, ok := doc.Entries[0].(*VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, int64(10), decl.Value.Value())
}

func TestParser_UnexpectedEntryStart(t *testing.T) {
	doc, err := Parse("%%%\nGET /ok\n", "")
	require.NoError(t, err)
	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, ErrUnexpectedToken, doc.Diagnostics[0].Kind)
	assert.Len(t, doc.Requests(), 1)
}

func TestParser_UnterminatedScript(t *testing.T) {
	doc, err := Parse("--{%\nconsole.log(1)\n", "")
	require.NoError(t, err)
	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, ErrUnterminatedBlock, doc.Diagnostics[0].Kind)
	assert.Empty(t, doc.Entries)
}

func TestParser_InvalidUTF8(t *testing.T) {
	doc, err := Parse("GET /a\n\xff\xfe\n", "bad.http")
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidUTF8))
	assert.Contains(t, err.Error(), "bad.http")
}

func TestParser_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "\n\n", "   \n\t\n"} {
		doc, err := Parse(input, "")
		require.NoError(t, err)
		assert.Empty(t, doc.Entries)
		assert.Empty(t, doc.Diagnostics)
	}
}

func TestParser_SpansDoNotOverlap(t *testing.T) {
	input := `# list users
@limit = 10

GET /users?limit={{limit}}
Accept: application/json

POST https://api.example.com/users
Content-Type: application/json

{
  "name": "bob"
}

PUT /users/1
Content-Type: application/x-www-form-urlencoded

name=bob&age=42

bogus line here
DELETE /users/1
`
	doc, err := Parse(input, "")
	require.NoError(t, err)

	var spans []Span
	for _, e := range doc.Entries {
		spans = append(spans, e.Span())
	}
	for _, d := range doc.Diagnostics {
		spans = append(spans, d.Span)
	}

	for i := range spans {
		for j := i + 1; j < len(spans); j++ {
			assert.False(t, spans[i].Overlaps(spans[j]), "spans %v and %v overlap", spans[i], spans[j])
		}
	}

	// Every non-whitespace byte belongs to an entry or a diagnostic span.
	for offset := 0; offset < len(input); offset++ {
		if strings.ContainsRune(" \t\r\n", rune(input[offset])) {
			continue
		}
		covered := false
		for _, s := range spans {
			if s.Contains(offset) {
				covered = true
				break
			}
		}
		assert.True(t, covered, "byte %d (%q) is not covered", offset, input[offset])
	}
}

func TestParser_VendorMethodWarns(t *testing.T) {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, format)
	}

	doc, err := Parse("LIST /dir\n", "dav.http", WithWarnFunc(warn))
	require.NoError(t, err)
	require.Empty(t, doc.Diagnostics)

	req := doc.Requests()[0]
	assert.Equal(t, "LIST", req.Method.Name)
	assert.True(t, req.Method.Vendor)
	assert.Len(t, warnings, 1)
}

func TestParser_InvalidMethods(t *testing.T) {
	for _, input := range []string{"get /a\n", "Post /a\n", "X /a\n"} {
		t.Run(input, func(t *testing.T) {
			doc, err := Parse(input, "")
			require.NoError(t, err)
			require.Len(t, doc.Diagnostics, 1)
			assert.Equal(t, ErrInvalidMethod, doc.Diagnostics[0].Kind)
		})
	}
}

func TestParser_MissingTarget(t *testing.T) {
	doc, err := Parse("GET\n", "")
	require.NoError(t, err)
	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, ErrMalformedTarget, doc.Diagnostics[0].Kind)
}

func TestParser_CRLF(t *testing.T) {
	input := "GET /a\r\nAccept: text/plain\r\n\r\nGET /b\r\n"
	doc, err := Parse(input, "")
	require.NoError(t, err)
	require.Empty(t, doc.Diagnostics)

	reqs := doc.Requests()
	require.Len(t, reqs, 2)
	require.Len(t, reqs[0].Headers, 1)
	assert.Equal(t, "text/plain", reqs[0].Headers[0].Value.Raw)
	assert.Equal(t, 4, reqs[1].Loc.Start.Line)
}

func TestParser_ErrorFormat(t *testing.T) {
	doc, err := Parse("\nget /a\n", "api.http")
	require.NoError(t, err)
	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, "api.http:2:1: InvalidMethod: \"get\" is neither a standard nor a vendor method", doc.Diagnostics[0].Error())

	doc, err = Parse("\nget /a\n", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc.Diagnostics[0].Error(), "line 2: InvalidMethod"))
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.http")
	require.NoError(t, os.WriteFile(path, []byte("GET /users\n"), 0644))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.File)
	assert.Len(t, doc.Requests(), 1)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.http"))
	assert.Error(t, err)
}

func TestDocument_EntryAt(t *testing.T) {
	input := "GET /a\n\nGET /b\n"
	doc, err := Parse(input, "")
	require.NoError(t, err)

	entry := doc.EntryAt(strings.Index(input, "/b"))
	require.NotNil(t, entry)
	assert.Equal(t, "/b", entry.(*Request).Target.Raw)
	assert.Nil(t, doc.EntryAt(len(input)))
}
