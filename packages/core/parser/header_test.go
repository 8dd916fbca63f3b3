package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader_ValueForms(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		kind  HeaderValueKind
		raw   string
		check func(t *testing.T, v HeaderValue)
	}{
		{
			name: "variable",
			line: "Authorization: {{ auth }}",
			kind: HeaderValueVariable,
			raw:  "{{ auth }}",
			check: func(t *testing.T, v HeaderValue) {
				require.NotNil(t, v.Variable)
				assert.Equal(t, "auth", v.Variable.Name)
			},
		},
		{
			name: "raw line",
			line: "Content-Type: application/json",
			kind: HeaderValueRaw,
			raw:  "application/json",
		},
		{
			name: "raw line with spaces",
			line: "X-Note: some free text",
			kind: HeaderValueRaw,
			raw:  "some free text",
		},
		{
			name: "host url",
			line: "Host: https://api.example.com:8080",
			kind: HeaderValueRaw,
			raw:  "https://api.example.com:8080",
			check: func(t *testing.T, v HeaderValue) {
				require.NotNil(t, v.URL)
				assert.Equal(t, "https", v.URL.Scheme)
				assert.Equal(t, "api.example.com", v.URL.Host.Name)
				assert.Equal(t, "8080", v.URL.Host.Port)
			},
		},
		{
			name: "mixed",
			line: "Authorization: Bearer {{token}}",
			kind: HeaderValueMixed,
			raw:  "Bearer {{token}}",
			check: func(t *testing.T, v HeaderValue) {
				assert.Equal(t, "Bearer", v.Prefix)
				require.NotNil(t, v.Variable)
				assert.Equal(t, "token", v.Variable.Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := parseSingleRequest(t, "GET /a\n"+tt.line+"\n")
			require.Len(t, req.Headers, 1)
			value := req.Headers[0].Value
			assert.Equal(t, tt.kind, value.Kind)
			assert.Equal(t, tt.raw, value.Raw)
			if tt.check != nil {
				tt.check(t, value)
			}
		})
	}
}

func TestHeader_RawPreferredOverMixed(t *testing.T) {
	// Neither raw form can consume the variable, so mixed wins.
	req := parseSingleRequest(t, "GET /a\nX-Id: abc {{id}}\n")
	assert.Equal(t, HeaderValueMixed, req.Headers[0].Value.Kind)

	// A value without a variable stays raw even though it has a prefix shape.
	req = parseSingleRequest(t, "GET /a\nX-Id: abc def\n")
	assert.Equal(t, HeaderValueRaw, req.Headers[0].Value.Kind)
}

func TestHeader_MultipleAndLookup(t *testing.T) {
	input := `POST /users
Content-Type: application/json
# tracing header follows
X-Request-Id: {{requestId}}
Accept : text/html
`
	req := parseSingleRequest(t, input)
	require.Len(t, req.Headers, 3)
	assert.Equal(t, "Accept", req.Headers[2].Name)

	h := req.Header("content-type")
	require.NotNil(t, h)
	assert.Equal(t, "application/json", h.Value.Raw)
	assert.Nil(t, req.Header("Cookie"))
}

func TestHeader_TrailingCommentStaysTopLevel(t *testing.T) {
	doc, err := Parse("GET /a\nAccept: text/plain\n\n# next section\n", "")
	require.NoError(t, err)
	require.Len(t, doc.Entries, 2)
	assert.Equal(t, EntryComment, doc.Entries[1].EntryKind())
}

func TestHeader_Malformed(t *testing.T) {
	diag := parseDiagnostic(t, "GET /a\nAccept: text/html, */*\n")
	assert.Equal(t, ErrMalformedHeader, diag.Kind)
	assert.Equal(t, 2, diag.Pos.Line)
	assert.Equal(t, 9, diag.Pos.Column)
}

func TestHeader_Lenient(t *testing.T) {
	var warned int
	req := parseSingleRequest(t, "GET /a\nAccept: text/html, */*;q=0.8\n",
		WithLenientHeaders(true),
		WithWarnFunc(func(string, ...any) { warned++ }),
	)
	require.Len(t, req.Headers, 1)
	assert.Equal(t, HeaderValueRaw, req.Headers[0].Value.Kind)
	assert.Equal(t, "text/html, */*;q=0.8", req.Headers[0].Value.Raw)
	assert.Equal(t, 1, warned)
}

func TestHeader_ValueSpan(t *testing.T) {
	input := "GET /a\nAccept: application/json\n"
	req := parseSingleRequest(t, input)
	loc := req.Headers[0].Value.Loc
	assert.Equal(t, "application/json", loc.Text(input))
	assert.Equal(t, "Accept: application/json", req.Headers[0].Loc.Text(input))
}
