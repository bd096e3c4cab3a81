// Package line implements the NestedText line classifier: it splits a
// document into CR/LF/CRLF-terminated lines and classifies each one into
// one of the kinds the block parser understands, exposing the key/value
// split columns the parser needs without re-scanning the raw text.
//
// The scanning style — a single forward cursor over the decoded input,
// tracking line/column as it advances — mirrors the teacher lexer's
// character-at-a-time approach; the tag-recognition priority order (list,
// string, key, inline, then dict) follows the NestedText grammar itself.
package line

import (
	"strings"

	"github.com/elioetibr/nestedtext/pkg/errors"
)

// Kind classifies one source line.
type Kind int

const (
	Blank Kind = iota
	Comment
	ListItem
	DictItem
	KeyItem
	StringItem
	Inline
	Unrecognized
)

func (k Kind) String() string {
	switch k {
	case Blank:
		return "blank"
	case Comment:
		return "comment"
	case ListItem:
		return "list-item"
	case DictItem:
		return "dict-item"
	case KeyItem:
		return "key-item"
	case StringItem:
		return "string-item"
	case Inline:
		return "inline"
	default:
		return "unrecognized"
	}
}

// Line records one classified source line.
type Line struct {
	Raw    string // full raw text of the line, without its terminator
	Number int    // 0-based
	Kind   Kind
	Indent int // count of leading space characters

	// KeyText/KeyColumn apply to DictItem and KeyItem lines: the key (or
	// key fragment) text and the column at which it starts.
	KeyText   string
	KeyColumn int

	// HasValue, ValueText, ValueColumn apply to lines that may carry a
	// rest-of-line value (ListItem, DictItem, StringItem). For Inline
	// lines ValueText holds the entire inline expression.
	HasValue    bool
	ValueText   string
	ValueColumn int
}

// Split breaks input into lines at any of CR, LF, or CRLF, preserving no
// terminator in the returned strings. A final terminator does not produce
// a trailing empty line; an empty document yields a single empty line.
func Split(input string) []string {
	if input == "" {
		return []string{""}
	}
	var lines []string
	var b strings.Builder
	i := 0
	for i < len(input) {
		c := input[i]
		switch c {
		case '\n':
			lines = append(lines, b.String())
			b.Reset()
			i++
		case '\r':
			lines = append(lines, b.String())
			b.Reset()
			i++
			if i < len(input) && input[i] == '\n' {
				i++
			}
		default:
			b.WriteByte(c)
			i++
		}
	}
	if b.Len() > 0 {
		lines = append(lines, b.String())
	}
	return lines
}

// Reader yields classified Lines from a decoded document, one at a time.
type Reader struct {
	source string
	lines  []string
	pos    int
}

// NewReader creates a Reader over input, an already-decoded string. source
// is a caller-supplied label used in error messages (may be "").
func NewReader(input, source string) *Reader {
	return &Reader{source: source, lines: Split(input)}
}

// NewReaderFromBytes decodes b as UTF-8 and creates a Reader over it. The
// classifier itself is byte-agnostic above this decoding step.
func NewReaderFromBytes(b []byte, source string) *Reader {
	return NewReader(string(b), source)
}

// Len returns the total number of raw lines.
func (r *Reader) Len() int {
	return len(r.lines)
}

// RawLine returns the raw text of line number n, or "" if out of range.
func (r *Reader) RawLine(n int) string {
	if n < 0 || n >= len(r.lines) {
		return ""
	}
	return r.lines[n]
}

// Next returns the next classified Line, or nil at end of input.
func (r *Reader) Next() (*Line, error) {
	if r.pos >= len(r.lines) {
		return nil, nil
	}
	raw := r.lines[r.pos]
	n := r.pos
	r.pos++
	return Classify(raw, n, r.source)
}

// Peek returns the next classified Line without consuming it.
func (r *Reader) Peek() (*Line, error) {
	if r.pos >= len(r.lines) {
		return nil, nil
	}
	return Classify(r.lines[r.pos], r.pos, r.source)
}

// Classify applies the line classifier to one raw line.
func Classify(raw string, lineNo int, source string) (*Line, error) {
	if strings.Trim(raw, " \t") == "" {
		return &Line{Raw: raw, Number: lineNo, Kind: Blank}, nil
	}

	indent := 0
	i := 0
	for i < len(raw) {
		switch raw[i] {
		case ' ':
			indent++
			i++
			continue
		case '\t':
			return nil, tabError(raw, lineNo, i, source)
		}
		break
	}
	col := i
	rest := raw[i:]

	switch {
	case rest[0] == '#':
		return &Line{Raw: raw, Number: lineNo, Kind: Comment, Indent: indent}, nil

	case rest == "-" || strings.HasPrefix(rest, "- "):
		l := &Line{Raw: raw, Number: lineNo, Kind: ListItem, Indent: indent}
		if rest != "-" {
			l.HasValue = true
			l.ValueText = rest[2:]
			l.ValueColumn = col + 2
		}
		return l, nil

	case rest == ">" || strings.HasPrefix(rest, "> "):
		l := &Line{Raw: raw, Number: lineNo, Kind: StringItem, Indent: indent, HasValue: true}
		if rest == ">" {
			l.ValueText = ""
			l.ValueColumn = col + 1
		} else {
			l.ValueText = rest[2:]
			l.ValueColumn = col + 2
		}
		return l, nil

	case rest == ":" || strings.HasPrefix(rest, ": "):
		l := &Line{Raw: raw, Number: lineNo, Kind: KeyItem, Indent: indent, KeyColumn: col}
		if rest == ":" {
			l.KeyText = ""
		} else {
			l.KeyText = rest[2:]
		}
		return l, nil

	case rest[0] == '{' || rest[0] == '[':
		return &Line{
			Raw: raw, Number: lineNo, Kind: Inline, Indent: indent,
			HasValue: true, ValueText: rest, ValueColumn: col,
		}, nil

	default:
		return classifyDictItem(raw, rest, lineNo, indent, col)
	}
}

func classifyDictItem(raw, rest string, lineNo, indent, col int) (*Line, error) {
	if idx := strings.Index(rest, ": "); idx >= 0 {
		return &Line{
			Raw: raw, Number: lineNo, Kind: DictItem, Indent: indent,
			KeyText: strings.TrimSpace(rest[:idx]), KeyColumn: col,
			HasValue: true, ValueText: rest[idx+2:], ValueColumn: col + idx + 2,
		}, nil
	}
	if strings.HasSuffix(rest, ":") {
		return &Line{
			Raw: raw, Number: lineNo, Kind: DictItem, Indent: indent,
			KeyText: strings.TrimSpace(rest[:len(rest)-1]), KeyColumn: col,
		}, nil
	}
	return &Line{Raw: raw, Number: lineNo, Kind: Unrecognized, Indent: indent}, nil
}

func tabError(raw string, lineNo, col int, source string) *errors.ParseError {
	return errors.New(source, raw, errors.Position{Line: lineNo, Column: col},
		errors.KindTabInIndentation, "tab in indentation")
}
