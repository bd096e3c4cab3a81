// Package errors defines the error and source-location model shared by the
// NestedText loader and dumper: a Position pins an error to a line and
// column, a Kind taxonomizes what went wrong, and a Template carries the
// un-interpolated message pattern so callers can localize it.
package errors

import (
	"fmt"
	"strings"

	"github.com/elioetibr/nestedtext/pkg/keypath"
)

// Kind taxonomizes a parse or dump failure. Names are descriptive, not part
// of any wire format.
type Kind string

const (
	KindTabInIndentation     Kind = "tab-in-indentation"
	KindUnrecognizedLine     Kind = "unrecognized-line"
	KindInlineSyntax         Kind = "inline-syntax"
	KindUnrecognizedContent  Kind = "unrecognized-content"
	KindInvalidIndentation   Kind = "invalid-indentation"
	KindTopLevelType         Kind = "top-level-type"
	KindDuplicateKey         Kind = "duplicate-key"
	KindMultilineKeyNoValue  Kind = "multiline-key-without-value"
	KindUnsupportedType      Kind = "unsupported-type"
	KindUnrepresentableValue Kind = "unrepresentable-inline-value"
	KindDuplicateKeyAfterMap Kind = "duplicate-key-after-normalization"
)

// Position is a 0-based line/column pair within a source document.
type Position struct {
	Line   int
	Column int
}

// ParseError is raised by the loader. It is always terminal for the parse
// that produced it; the loader does not attempt to recover mid-document.
type ParseError struct {
	Source   string   // caller-supplied label for the document, may be ""
	Line     string   // the offending raw source line, without terminator
	Pos      Position
	Kind     Kind
	Template string        // un-interpolated message pattern, e.g. "tab in indentation"
	Args     []interface{} // values substituted into Template via fmt.Sprintf

	// Context holds Line itself plus up to one source line before and one
	// after it, for the "extended codicil" used in rich display.
	// ContextStart is the 0-based line number of Context[0].
	Context      []string
	ContextStart int
}

// New builds a ParseError whose Message is Template with Args interpolated.
func New(source string, line string, pos Position, kind Kind, template string, args ...interface{}) *ParseError {
	return &ParseError{
		Source:   source,
		Line:     line,
		Pos:      pos,
		Kind:     kind,
		Template: template,
		Args:     args,
	}
}

// Message renders the interpolated error text, without location prefix.
func (e *ParseError) Message() string {
	if len(e.Args) == 0 {
		return e.Template
	}
	return fmt.Sprintf(e.Template, e.Args...)
}

// Error satisfies the error interface.
func (e *ParseError) Error() string {
	src := e.Source
	if src == "" {
		src = "<string>"
	}
	return fmt.Sprintf("%s, line %d, column %d: %s", src, e.Pos.Line, e.Pos.Column, e.Message())
}

// Codicil renders the offending line plus its surrounding context with a
// caret pointing at the failing column, for rich display in a terminal.
func (e *ParseError) Codicil() string {
	var b strings.Builder
	for i, ctxLine := range e.Context {
		lineNo := e.ContextStart + i
		marker := "  "
		if lineNo == e.Pos.Line {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%4d: %s\n", marker, lineNo+1, ctxLine)
		if lineNo == e.Pos.Line {
			b.WriteString("      ")
			b.WriteString(strings.Repeat(" ", e.Pos.Column))
			b.WriteString("^\n")
		}
	}
	return b.String()
}

// WithTemplate re-renders the error using an alternate, caller-supplied
// template (for localization); Args are interpolated into the new template.
func (e *ParseError) WithTemplate(template string) *ParseError {
	clone := *e
	clone.Template = template
	return &clone
}

// DumpError is raised by the dumper. Path locates the offending node
// within the tree being rendered.
type DumpError struct {
	Path     keypath.Path
	Kind     Kind
	Template string
	Args     []interface{}
}

// NewDump builds a DumpError whose Message is Template with Args interpolated.
func NewDump(path keypath.Path, kind Kind, template string, args ...interface{}) *DumpError {
	return &DumpError{Path: path, Kind: kind, Template: template, Args: args}
}

// Message renders the interpolated error text, without location prefix.
func (e *DumpError) Message() string {
	if len(e.Args) == 0 {
		return e.Template
	}
	return fmt.Sprintf(e.Template, e.Args...)
}

// Error satisfies the error interface.
func (e *DumpError) Error() string {
	where := e.Path.String()
	if where == "" {
		where = "<root>"
	}
	return fmt.Sprintf("at %s: %s", where, e.Message())
}
