package yaml

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
)

// DefaultSourceLines is the number of lines shown around an error.
const DefaultSourceLines = 2

// Error is a YAML decoding or validation error. It is located either by the
// token it occurred at or by a path into the document. When the source is
// known, [Error.Error] renders the surrounding lines.
type Error struct {
	Err   error
	Path  *yaml.Path
	Token *token.Token
	// Style highlights the source excerpt. Nil renders plain text.
	Style       *chroma.Style
	Formatter   string
	Source      []byte
	SourceLines int
}

// ErrorOpt configures an [Error].
type ErrorOpt func(e *Error)

// NewError creates a new [Error] wrapping err.
func NewError(err error, opts ...ErrorOpt) *Error {
	e := &Error{Err: err, SourceLines: DefaultSourceLines}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// WithPath locates the error by path.
func WithPath(p *yaml.Path) ErrorOpt {
	return func(e *Error) {
		e.Path = p
	}
}

// WithSource sets the document the error occurred in.
func WithSource(source []byte) ErrorOpt {
	return func(e *Error) {
		e.Source = source
	}
}

// WithSourceLines sets how many lines around the error are shown.
func WithSourceLines(n int) ErrorOpt {
	return func(e *Error) {
		e.SourceLines = n
	}
}

// WithStyle highlights the source excerpt with a chroma style.
func WithStyle(s *chroma.Style) ErrorOpt {
	return func(e *Error) {
		e.Style = s
	}
}

// WithFormatter selects the chroma formatter, e.g. "terminal16m".
// The default is "terminal256".
func WithFormatter(name string) ErrorOpt {
	return func(e *Error) {
		e.Formatter = name
	}
}

// ErrorWrapper applies a fixed set of [ErrorOpt] to errors.
type ErrorWrapper struct {
	opts []ErrorOpt
}

// NewErrorWrapper creates a new [ErrorWrapper].
func NewErrorWrapper(opts ...ErrorOpt) *ErrorWrapper {
	return &ErrorWrapper{opts: opts}
}

// Wrap applies the wrapper's options to err if it is an [*Error], and returns
// any other error unchanged.
func (w *ErrorWrapper) Wrap(err error) error {
	var yamlErr *Error
	if !errors.As(err, &yamlErr) {
		return err
	}

	for _, opt := range w.opts {
		opt(yamlErr)
	}

	return yamlErr
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	if e.Err == nil {
		return ""
	}
	if e.Path == nil && e.Token == nil {
		return e.Err.Error()
	}

	tk := e.Token
	if tk == nil {
		var err error

		tk, err = tokenAt(e.Source, e.Path)
		if err != nil {
			return fmt.Sprintf("error at %s: %v", e.Path, e.Err)
		}
	}

	msg := fmt.Sprintf("[%d:%d] %v", tk.Position.Line, tk.Position.Column, e.Err)
	if len(e.Source) == 0 {
		return msg
	}

	return msg + "\n\n" + e.excerpt(tk.Position.Line, tk.Position.Column)
}

// excerpt renders the source lines around line with a marker under column.
func (e *Error) excerpt(line, column int) string {
	lines := strings.Split(strings.TrimRight(string(e.Source), "\n"), "\n")
	if line < 1 || line > len(lines) {
		return ""
	}

	first := max(1, line-e.SourceLines)
	last := min(len(lines), line+e.SourceLines)
	shown := e.highlight(lines[first-1 : last])

	gutter := len(strconv.Itoa(last))

	var sb strings.Builder
	for i, l := range shown {
		n := first + i
		marker := " "
		if n == line {
			marker = ">"
		}

		fmt.Fprintf(&sb, "%s %*d | %s\n", marker, gutter, n, l)

		if n == line {
			fmt.Fprintf(&sb, "  %s | %s^\n", strings.Repeat(" ", gutter), strings.Repeat(" ", max(0, column-1)))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// highlight returns lines highlighted with e.Style, or unchanged when no
// style is set or highlighting fails.
func (e *Error) highlight(lines []string) []string {
	if e.Style == nil {
		return lines
	}

	lexer := lexers.Get("yaml")
	if lexer == nil {
		return lines
	}

	name := e.Formatter
	if name == "" {
		name = "terminal256"
	}

	formatter := formatters.Get(name)

	it, err := chroma.Coalesce(lexer).Tokenise(nil, strings.Join(lines, "\n"))
	if err != nil {
		return lines
	}

	var sb strings.Builder
	if err := formatter.Format(&sb, e.Style, it); err != nil {
		return lines
	}

	out := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(out) != len(lines) {
		return lines
	}

	return out
}

// tokenAt returns the token for path in source. Where the path names a
// mapping key, the key token is returned rather than the value.
func tokenAt(source []byte, path *yaml.Path) (*token.Token, error) {
	file, err := parser.ParseBytes(source, 0)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}

	node, err := path.FilterFile(file)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", path, err)
	}

	if key := keyToken(file, path); key != nil {
		return key, nil
	}

	return node.GetToken(), nil
}

func keyToken(file *ast.File, path *yaml.Path) *token.Token {
	s := path.String()

	dot := strings.LastIndex(s, ".")
	if dot <= 0 || dot < strings.LastIndex(s, "[") {
		return nil
	}

	parentPath, err := yaml.PathString(s[:dot])
	if err != nil {
		return nil
	}

	parent, err := parentPath.FilterFile(file)
	if err != nil {
		return nil
	}

	var values []*ast.MappingValueNode

	switch n := parent.(type) {
	case *ast.MappingNode:
		values = n.Values
	case *ast.MappingValueNode:
		values = []*ast.MappingValueNode{n}
	}

	for _, v := range values {
		if v.Key.String() == s[dot+1:] {
			return v.Key.GetToken()
		}
	}

	return nil
}
