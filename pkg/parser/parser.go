// Package parser implements the NestedText block parser: it consumes the
// lines produced by pkg/line, recognizes nesting through indentation, and
// assembles the typed pkg/value tree, delegating single-line {…}/[…] values
// to the inline parser in inline.go. Grounded on the teacher's recursive
// descent Parser (advance/peek over a token stream, one parseX method per
// node shape) but driven by classified Lines instead of a token lexer,
// since NestedText nests by indentation rather than explicit brackets.
package parser

import (
	"strings"

	"github.com/elioetibr/nestedtext/pkg/errors"
	"github.com/elioetibr/nestedtext/pkg/keymap"
	"github.com/elioetibr/nestedtext/pkg/keypath"
	"github.com/elioetibr/nestedtext/pkg/line"
	"github.com/elioetibr/nestedtext/pkg/value"
)

// Load parses input (an already-decoded string) into a Value tree.
func Load(input string, opts ...Option) (*value.Value, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	rd := line.NewReader(input, cfg.source)
	p := &parser{cfg: cfg, source: cfg.source}

	for {
		l, err := rd.Next()
		if err != nil {
			return nil, err
		}
		if l == nil {
			break
		}
		p.raw = append(p.raw, l.Raw)
		if l.Kind == line.Blank || l.Kind == line.Comment {
			continue
		}
		p.lines = append(p.lines, l)
	}

	root, err := p.parseDocument()
	if err != nil {
		return nil, err
	}
	return root, p.checkTop(root)
}

// LoadBytes decodes b as UTF-8 and parses it.
func LoadBytes(b []byte, opts ...Option) (*value.Value, error) {
	return Load(string(b), opts...)
}

type parser struct {
	cfg    config
	source string
	lines  []*line.Line // significant lines only: blank/comment already dropped
	raw    []string     // every raw source line, for error codicils
	pos    int
}

func (p *parser) peek() *line.Line {
	if p.pos < len(p.lines) {
		return p.lines[p.pos]
	}
	return nil
}

func (p *parser) advance() *line.Line {
	l := p.peek()
	if l != nil {
		p.pos++
	}
	return l
}

func (p *parser) recordKeymap(path keypath.Path, loc keymap.Location, rawKey string) {
	if p.cfg.km == nil {
		return
	}
	p.cfg.km.Set(path, loc, rawKey)
}

// checkTop verifies root's kind against the caller's top constraint.
func (p *parser) checkTop(root *value.Value) error {
	if p.cfg.top == TopAny || p.cfg.top == "" {
		return nil
	}
	if root == nil {
		return nil // empty document already returned the requested empty shape
	}
	var want value.Kind
	switch p.cfg.top {
	case TopDict:
		want = value.KindMapping
	case TopList:
		want = value.KindSequence
	case TopStr:
		want = value.KindString
	default:
		return nil
	}
	if root.Kind != want {
		first := p.rawFirstSignificant()
		return p.errAt(first, errors.KindTopLevelType,
			"expected top-level %s, found %s", p.cfg.top, root.Kind)
	}
	return nil
}

func (p *parser) rawFirstSignificant() *line.Line {
	if len(p.lines) > 0 {
		return p.lines[0]
	}
	return nil
}

// parseDocument establishes and parses the root value.
func (p *parser) parseDocument() (*value.Value, error) {
	first := p.peek()
	if first == nil {
		return p.emptyOfTop(), nil
	}

	switch first.Kind {
	case line.ListItem:
		v, err := p.parseSequence(first.Indent, keypath.Path{})
		if err != nil {
			return nil, err
		}
		p.recordKeymap(keypath.Path{}, keymap.Location{Line: first.Number, Column: first.Indent}, "")
		return v, nil
	case line.DictItem, line.KeyItem:
		v, err := p.parseMapping(first.Indent, keypath.Path{})
		if err != nil {
			return nil, err
		}
		p.recordKeymap(keypath.Path{}, keymap.Location{Line: first.Number, Column: first.Indent}, "")
		return v, nil
	case line.StringItem:
		v, err := p.parseMultilineString(first.Indent, keypath.Path{})
		if err != nil {
			return nil, err
		}
		p.recordKeymap(keypath.Path{}, keymap.Location{Line: first.Number, Column: first.Indent}, "")
		return v, nil
	case line.Inline:
		if first.Indent != 0 {
			return nil, p.errAt(first, errors.KindInvalidIndentation, "top-level item must not be indented")
		}
		p.advance()
		v, err := p.parseInline(first, keypath.Path{})
		if err != nil {
			return nil, err
		}
		if extra := p.peek(); extra != nil {
			return nil, p.errAt(extra, errors.KindUnrecognizedContent, "unrecognized content at top level")
		}
		p.recordKeymap(keypath.Path{}, keymap.Location{Line: first.Number, Column: first.Indent}, "")
		return v, nil
	default:
		return nil, p.errAt(first, errors.KindUnrecognizedContent, "unrecognized content")
	}
}

func (p *parser) emptyOfTop() *value.Value {
	switch p.cfg.top {
	case TopDict:
		return value.NewMapping(nil)
	case TopList:
		return value.NewSequence(nil)
	case TopStr:
		return value.NewString("")
	default:
		return nil
	}
}

// parseValueAt dispatches to the parser for whichever kind of value starts
// at the line the caller has already confirmed sits at indent.
func (p *parser) parseValueAt(indent int, path keypath.Path) (*value.Value, keymap.Location, error) {
	cur := p.peek()
	switch cur.Kind {
	case line.ListItem:
		v, err := p.parseSequence(indent, path)
		return v, keymap.Location{Line: cur.Number, Column: cur.Indent}, err
	case line.DictItem, line.KeyItem:
		v, err := p.parseMapping(indent, path)
		return v, keymap.Location{Line: cur.Number, Column: cur.Indent}, err
	case line.StringItem:
		v, err := p.parseMultilineString(indent, path)
		return v, keymap.Location{Line: cur.Number, Column: cur.Indent}, err
	case line.Inline:
		p.advance()
		v, err := p.parseInline(cur, path)
		return v, keymap.Location{Line: cur.Number, Column: cur.Indent}, err
	default:
		return nil, keymap.Location{}, p.errAt(cur, errors.KindUnrecognizedContent, "unrecognized content")
	}
}

// openChild looks for a legitimate child frame following a dict/list item
// that carried no rest-of-line value. It returns (value, loc, true, nil)
// when a child was found and fully parsed, or (_, _, false, nil) when there
// is no child (caller should use the empty-string default).
func (p *parser) openChild(indent int, path keypath.Path) (*value.Value, keymap.Location, bool, error) {
	child := p.peek()
	if child == nil || child.Indent <= indent {
		return nil, keymap.Location{}, false, nil
	}
	v, loc, err := p.parseValueAt(child.Indent, path)
	return v, loc, true, err
}

func (p *parser) parseSequence(indent int, path keypath.Path) (*value.Value, error) {
	items := []*value.Value{}
	idx := 0
	var prev *line.Line
	var prevHadValue bool

	for {
		cur := p.peek()
		if cur == nil || cur.Indent < indent {
			break
		}
		if cur.Indent > indent {
			return nil, p.errIndentMismatch(prev, prevHadValue, cur)
		}
		if cur.Kind != line.ListItem {
			return nil, p.errAt(cur, errors.KindInvalidIndentation,
				"%s is not valid here; expected a list item", cur.Kind)
		}
		p.advance()
		itemPath := path.Index(idx)

		var item *value.Value
		var loc keymap.Location
		if cur.HasValue {
			loc = keymap.Location{Line: cur.Number, Column: cur.ValueColumn}
			if t := cur.ValueText; t != "" && (t[0] == '[' || t[0] == '{') {
				inline, err := p.parseInline(cur, itemPath)
				if err != nil {
					return nil, err
				}
				item = inline
			} else {
				item = value.NewString(cur.ValueText)
			}
		} else {
			child, childLoc, ok, err := p.openChild(indent, itemPath)
			if err != nil {
				return nil, err
			}
			if ok {
				item, loc = child, childLoc
			} else {
				item = value.NewString("")
				loc = keymap.Location{Line: cur.Number, Column: cur.Indent + 1}
			}
		}
		p.recordKeymap(itemPath, loc, "")
		items = append(items, item)
		prev = cur
		prevHadValue = cur.HasValue
		idx++
	}

	return value.NewSequence(items), nil
}

func (p *parser) parseMapping(indent int, path keypath.Path) (*value.Value, error) {
	m := value.NewMappingData()
	var prev *line.Line
	var prevHadValue bool

	for {
		cur := p.peek()
		if cur == nil || cur.Indent < indent {
			break
		}
		if cur.Indent > indent {
			return nil, p.errIndentMismatch(prev, prevHadValue, cur)
		}

		switch cur.Kind {
		case line.KeyItem:
			rawKey, keyLine, keyCol, err := p.collectMultilineKey(indent)
			if err != nil {
				return nil, err
			}
			normKey := p.cfg.normalize(rawKey, path)
			valPath := path.Key(normKey)

			child, childLoc, ok, err := p.openChild(indent, valPath)
			if err != nil {
				return nil, err
			}
			var val *value.Value
			var loc keymap.Location
			if ok {
				val, loc = child, childLoc
			} else {
				val = value.NewString("")
				loc = keymap.Location{Line: keyLine, Column: 0}
			}
			loc.HasKey = true
			loc.KeyLine = keyLine
			loc.KeyColumn = keyCol
			if err := p.insertEntry(m, path, rawKey, normKey, val, loc); err != nil {
				return nil, err
			}
			prev = p.lastConsumed()
			prevHadValue = false // a multiline key's value never shares its line

		case line.DictItem:
			p.advance()
			rawKey := cur.KeyText
			normKey := p.cfg.normalize(rawKey, path)
			valPath := path.Key(normKey)

			var val *value.Value
			var loc keymap.Location
			if cur.HasValue {
				loc = keymap.Location{Line: cur.Number, Column: cur.ValueColumn}
				if t := cur.ValueText; t != "" && (t[0] == '[' || t[0] == '{') {
					inline, err := p.parseInline(cur, valPath)
					if err != nil {
						return nil, err
					}
					val = inline
				} else {
					val = value.NewString(cur.ValueText)
				}
			} else {
				child, childLoc, ok, err := p.openChild(indent, valPath)
				if err != nil {
					return nil, err
				}
				if ok {
					val, loc = child, childLoc
				} else {
					val = value.NewString("")
					loc = keymap.Location{Line: cur.Number, Column: len(cur.Raw)}
				}
			}
			loc.HasKey = true
			loc.KeyLine = cur.Number
			loc.KeyColumn = cur.KeyColumn
			if err := p.insertEntry(m, path, rawKey, normKey, val, loc); err != nil {
				return nil, err
			}
			prev = cur
			prevHadValue = cur.HasValue

		default:
			return nil, p.errAt(cur, errors.KindInvalidIndentation,
				"%s is not valid here; expected a mapping entry", cur.Kind)
		}
	}

	return value.NewMapping(m), nil
}

// lastConsumed returns the most recently advanced-past line, used to anchor
// the "value already given" error after a multiline key block (collected
// via collectMultilineKey, which advances internally).
func (p *parser) lastConsumed() *line.Line {
	if p.pos == 0 {
		return nil
	}
	return p.lines[p.pos-1]
}

// collectMultilineKey joins consecutive key-item lines at indent, starting
// at the parser's current position (which must be a KeyItem at indent).
func (p *parser) collectMultilineKey(indent int) (key string, firstLine, firstCol int, err error) {
	first := p.peek()
	firstLine, firstCol = first.Number, 0
	var fragments []string
	for {
		cur := p.peek()
		if cur == nil || cur.Indent != indent || cur.Kind != line.KeyItem {
			break
		}
		p.advance()
		fragments = append(fragments, cur.KeyText)
	}
	return strings.Join(fragments, "\n"), firstLine, firstCol, nil
}

func (p *parser) parseMultilineString(indent int, _ keypath.Path) (*value.Value, error) {
	var fragments []string
	for {
		cur := p.peek()
		if cur == nil || cur.Indent < indent {
			break
		}
		if cur.Indent > indent {
			return nil, p.errAt(cur, errors.KindInvalidIndentation, "invalid indentation")
		}
		if cur.Kind != line.StringItem {
			return nil, p.errAt(cur, errors.KindInvalidIndentation,
				"%s is not valid here; expected a string item", cur.Kind)
		}
		p.advance()
		fragments = append(fragments, cur.ValueText)
	}
	return value.NewString(strings.Join(fragments, "\n")), nil
}

// insertEntry applies the configured duplicate-key policy and inserts the
// resolved key/value pair, recording its keymap entry.
func (p *parser) insertEntry(m *value.Mapping, parentPath keypath.Path, rawKey, key string, val *value.Value, loc keymap.Location) error {
	if !m.Has(key) {
		m.Append(key, val)
		p.recordKeymap(parentPath.Key(key), loc, rawKey)
		return nil
	}

	if p.cfg.onDup.hasCallback() {
		next := p.cfg.onDup.callback(key, parentPath, p.cfg.dupState)
		return p.insertEntry(m, parentPath, rawKey, next, val, loc)
	}

	switch p.cfg.onDup.policy {
	case DupIgnoreFirst:
		return nil
	case DupIgnoreLast:
		m.Set(key, val)
		p.recordKeymap(parentPath.Key(key), loc, rawKey)
		return nil
	default:
		return errors.New(p.source, "", errors.Position{Line: loc.KeyLine, Column: loc.KeyColumn},
			errors.KindDuplicateKey, "duplicate key: %q", key)
	}
}

func (p *parser) errAt(l *line.Line, kind errors.Kind, template string, args ...interface{}) *errors.ParseError {
	e := errors.New(p.source, l.Raw, errors.Position{Line: l.Number, Column: l.Indent}, kind, template, args...)
	e.Context, e.ContextStart = p.context(l.Number)
	return e
}

// errIndentMismatch explains why cur, indented more deeply than the frame
// currently being parsed, is invalid. Two distinct situations reach here:
// prev (the previous sibling) directly carried a rest-of-line scalar value,
// in which case cur really is an attempt to also give it a nested value; or
// prev opened a nested child of its own (already fully parsed, at whatever
// indent that child used), in which case cur's indent simply doesn't align
// with any enclosing frame and blaming prev for "already has a value" would
// be wrong — prev never had one.
func (p *parser) errIndentMismatch(prev *line.Line, prevHadValue bool, cur *line.Line) *errors.ParseError {
	if prev != nil && prevHadValue {
		e := errors.New(p.source, cur.Raw, errors.Position{Line: cur.Number, Column: cur.Indent},
			errors.KindInvalidIndentation,
			"invalid indentation: line %d already has a value, it cannot also have a nested value", prev.Number+1)
		e.Context, e.ContextStart = p.context(cur.Number)
		return e
	}
	e := errors.New(p.source, cur.Raw, errors.Position{Line: cur.Number, Column: cur.Indent},
		errors.KindInvalidIndentation,
		"invalid indentation: does not match any enclosing level")
	e.Context, e.ContextStart = p.context(cur.Number)
	return e
}

func (p *parser) context(lineNo int) ([]string, int) {
	start := lineNo - 1
	if start < 0 {
		start = 0
	}
	end := lineNo + 2
	if end > len(p.raw) {
		end = len(p.raw)
	}
	return append([]string{}, p.raw[start:end]...), start
}
