// inline.go implements the single-line {…}/[…] syntax: a small recursive
// descent scanner over the rest-of-line text the block parser has already
// isolated. Grounded on other_examples' nestext encoder for the forbidden-
// character sets that separate a bare scalar from structural punctuation,
// read in reverse to decode rather than encode.
package parser

import (
	"strings"

	"github.com/elioetibr/nestedtext/pkg/errors"
	"github.com/elioetibr/nestedtext/pkg/keymap"
	"github.com/elioetibr/nestedtext/pkg/keypath"
	"github.com/elioetibr/nestedtext/pkg/line"
	"github.com/elioetibr/nestedtext/pkg/value"
)

// parseInline parses l.ValueText, the already-isolated inline expression
// starting with '[' or '{', and everything up to end of line. Nodes found
// inside the expression are recorded into p's keymap (if any) exactly as
// block-syntax nodes are, so a caller-supplied Keymap covers interior inline
// nodes too.
func (p *parser) parseInline(l *line.Line, path keypath.Path) (*value.Value, error) {
	c := &inlineCursor{p: p, text: l.ValueText, lineNo: l.Number, startCol: l.ValueColumn, source: p.source, raw: l.Raw}
	v, err := c.parseValue(path)
	if err != nil {
		return nil, err
	}
	c.skipSpace()
	if c.pos != len(c.text) {
		return nil, c.errf(errors.KindInlineSyntax, "unexpected content after closing bracket")
	}
	return v, nil
}

type inlineCursor struct {
	p        *parser
	text     string
	pos      int
	lineNo   int
	startCol int
	source   string
	raw      string
}

func (c *inlineCursor) col() int { return c.startCol + c.pos }

func (c *inlineCursor) errf(kind errors.Kind, template string, args ...interface{}) *errors.ParseError {
	return errors.New(c.source, c.raw, errors.Position{Line: c.lineNo, Column: c.col()}, kind, template, args...)
}

func (c *inlineCursor) eof() bool    { return c.pos >= len(c.text) }
func (c *inlineCursor) peek() byte   { return c.text[c.pos] }
func (c *inlineCursor) advance() byte { b := c.text[c.pos]; c.pos++; return b }

func (c *inlineCursor) skipSpace() {
	for !c.eof() && c.text[c.pos] == ' ' {
		c.pos++
	}
}

func (c *inlineCursor) parseValue(path keypath.Path) (*value.Value, error) {
	c.skipSpace()
	if c.eof() {
		return nil, c.errf(errors.KindInlineSyntax, "expected a value")
	}
	switch c.peek() {
	case '[':
		return c.parseList(path)
	case '{':
		return c.parseDict(path)
	default:
		return value.NewString(c.scanScalar(inlineValueStop)), nil
	}
}

// inlineValueStop and inlineKeyStop are the full set of bytes that can never
// appear literally in, respectively, an inline scalar value and an inline
// dict key: NestedText's structural punctuation, wherever it occurs, not
// only where the caller happened to expect a terminator. A stray '[' or '{'
// appearing mid-scalar must stop the scan so the character is re-examined
// as punctuation (and rejected) rather than swallowed as literal text.
const (
	inlineValueStop = "[]{},"
	inlineKeyStop   = "[]{}:,"
)

// scanScalar reads up to (not including) the first byte in stop, and trims
// surrounding spaces from the result. Plain inline scalars may not contain
// any of NestedText's structural punctuation; that is enforced by stop
// always including every delimiter meaningful in the caller's context.
func (c *inlineCursor) scanScalar(stop string) string {
	start := c.pos
	for !c.eof() && !strings.ContainsRune(stop, rune(c.peek())) {
		c.pos++
	}
	return strings.TrimSpace(c.text[start:c.pos])
}

func (c *inlineCursor) parseList(path keypath.Path) (*value.Value, error) {
	c.advance() // '['
	items := []*value.Value{}
	// Only a bracket pair with nothing at all between them is the empty
	// sequence; "[ ]" is a one-item sequence holding the empty string, since
	// the interior space is itself (trimmed) inline string content.
	if !c.eof() && c.peek() == ']' {
		c.advance()
		return value.NewSequence(items), nil
	}

	idx := 0
	for {
		c.skipSpace()
		itemPath := path.Index(idx)
		valCol := c.col()
		v, err := c.parseValue(itemPath)
		if err != nil {
			return nil, err
		}
		c.p.recordKeymap(itemPath, keymap.Location{Line: c.lineNo, Column: valCol}, "")
		items = append(items, v)
		idx++

		c.skipSpace()
		if c.eof() {
			return nil, c.errf(errors.KindInlineSyntax, "unterminated inline list: expected ',' or ']'")
		}
		switch c.advance() {
		case ',':
			c.skipSpace()
			if !c.eof() && c.peek() == ']' {
				c.advance()
				return value.NewSequence(items), nil
			}
			continue
		case ']':
			return value.NewSequence(items), nil
		default:
			return nil, c.errf(errors.KindInlineSyntax, "expected ',' or ']' in inline list")
		}
	}
}

func (c *inlineCursor) parseDict(path keypath.Path) (*value.Value, error) {
	c.advance() // '{'
	m := value.NewMappingData()
	c.skipSpace()
	if !c.eof() && c.peek() == '}' {
		c.advance()
		return value.NewMapping(m), nil
	}

	for {
		keyCol := c.col()
		rawKey := c.scanScalar(inlineKeyStop)
		if c.eof() || c.peek() != ':' {
			return nil, c.errf(errors.KindInlineSyntax, "expected ':' after inline dict key")
		}
		c.advance() // ':'

		key := c.p.cfg.normalize(rawKey, path)
		valPath := path.Key(key)
		c.skipSpace()
		valCol := c.col()
		v, err := c.parseValue(valPath)
		if err != nil {
			return nil, err
		}
		if err := c.p.insertEntry(m, path, rawKey, key, v, keymap.Location{
			Line: c.lineNo, Column: valCol,
			HasKey: true, KeyLine: c.lineNo, KeyColumn: keyCol,
		}); err != nil {
			return nil, err
		}

		c.skipSpace()
		if c.eof() {
			return nil, c.errf(errors.KindInlineSyntax, "unterminated inline dict: expected ',' or '}'")
		}
		switch c.advance() {
		case ',':
			c.skipSpace()
			if !c.eof() && c.peek() == '}' {
				c.advance()
				return value.NewMapping(m), nil
			}
			continue
		case '}':
			return value.NewMapping(m), nil
		default:
			return nil, c.errf(errors.KindInlineSyntax, "expected ',' or '}' in inline dict")
		}
	}
}
