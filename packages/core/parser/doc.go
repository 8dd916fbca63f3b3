// Package parser provides parsing functionality for HTTP request files.
//
// A request file is a sequence of top-level entries in source order:
//   - HTTP requests (method, target, optional HTTP version, headers, body)
//   - Variable declarations with the @name = value directive
//   - Comments starting with #
//   - Script blocks between --{% and --%} lines
//   - Bare {{variable}} references
//
// Request targets come in three forms: a path (/users?id=1), an absolute
// URL (https://api.example.com/users) and a variable-prefixed URL
// ({{baseUrl}}/users). Bodies are recognized by their opening line as JSON,
// XML, GraphQL, params blocks, external file references or form data.
//
// Parsing is entry-local. A malformed entry is reported as a ParseError in
// Document.Diagnostics and parsing resumes at the next line that starts an
// entry.
package parser
