// Package dumper renders a Value tree (or an arbitrary Go value converted
// into one) back into NestedText source text. Grounded on the teacher
// serializer's Options-driven, buffer-accumulating Serializer, with the
// block/flow choice re-derived from other_examples' nestext encoder rather
// than the teacher's (YAML's flow style is a user request; NestedText's
// inline style is instead chosen automatically from content and width).
package dumper

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/elioetibr/nestedtext/pkg/errors"
	"github.com/elioetibr/nestedtext/pkg/keypath"
	"github.com/elioetibr/nestedtext/pkg/value"
)

// Dump converts v into NestedText source text. v may be a *value.Value
// tree built directly, or any Go value reachable from maps, slices,
// structs, and strings; unconvertible values are rejected unless a
// Converter or DefaultFunc option resolves them.
func Dump(v interface{}, opts ...Option) (string, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	tree, err := toValue(v, keypath.Path{}, &cfg)
	if err != nil {
		return "", err
	}
	return DumpValue(tree, opts...)
}

// DumpValue renders an already-built Value tree.
func DumpValue(v *value.Value, opts ...Option) (string, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &dumper{cfg: &cfg}
	if v == nil {
		return "", nil
	}

	var b strings.Builder
	if err := d.renderRoot(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

type dumper struct {
	cfg *config
}

// renderRoot renders the document's top-level value, which (unlike nested
// values) is never placed on a "key: " or "- " line of its own.
func (d *dumper) renderRoot(b *strings.Builder, v *value.Value) error {
	switch v.Kind {
	case value.KindString:
		d.writeMultilineString(b, 0, v.Str)
	case value.KindSequence:
		if len(v.Seq) == 0 {
			b.WriteString("[]\n")
			return nil
		}
		return d.writeSequence(b, 0, v, keypath.Path{})
	case value.KindMapping:
		if v.Map.Len() == 0 {
			b.WriteString("{}\n")
			return nil
		}
		return d.writeMapping(b, 0, v, keypath.Path{})
	}
	return nil
}

func (d *dumper) writeIndent(b *strings.Builder, level int) {
	b.WriteString(strings.Repeat(" ", level*d.cfg.indent))
}

// writeMultilineString renders s as one or more "> " lines. An empty string
// still produces a single bare ">" line, so round-tripping an empty value
// never silently vanishes.
func (d *dumper) writeMultilineString(b *strings.Builder, level int, s string) {
	lines := strings.Split(s, "\n")
	for _, l := range lines {
		d.writeIndent(b, level)
		if l == "" {
			b.WriteString(">\n")
		} else {
			b.WriteString("> ")
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}
}

func (d *dumper) writeSequence(b *strings.Builder, level int, v *value.Value, path keypath.Path) error {
	for i, item := range v.Seq {
		itemPath := path.Index(i)
		d.writeIndent(b, level)
		switch {
		case item.IsString() && item.Str == "":
			b.WriteString("-\n")
		case item.IsString() && isSimpleScalar(item.Str):
			b.WriteString("- ")
			b.WriteString(item.Str)
			b.WriteByte('\n')
		case item.IsString():
			b.WriteString("-\n")
			d.writeMultilineString(b, level+1, item.Str)
		default:
			inline, err := d.inlineDecision(item, level, itemPath)
			if err != nil {
				return err
			}
			if inline {
				b.WriteString("- ")
				d.writeInline(b, item)
				b.WriteByte('\n')
				continue
			}
			b.WriteString("-\n")
			if err := d.writeChild(b, level+1, item, itemPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *dumper) writeMapping(b *strings.Builder, level int, v *value.Value, path keypath.Path) error {
	order := *d.cfg
	order.mapKeyOrder = nil // MapKeyOrder applies only while converting native Go maps
	keys := order.orderKeys(v.Map.Keys(), path)
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		val, _ := v.Map.Get(key)
		valPath := path.Key(key)

		displayKey := key
		if d.cfg.presentKey != nil {
			displayKey = d.cfg.presentKey(key, path)
		}
		if seen[displayKey] {
			return errors.NewDump(valPath, errors.KindDuplicateKeyAfterMap,
				"two mapping keys both render as %q once map_keys is applied", displayKey)
		}
		seen[displayKey] = true

		d.writeIndent(b, level)

		if isSimpleKey(displayKey) {
			switch {
			case val.IsString() && val.Str == "":
				b.WriteString(displayKey)
				b.WriteString(":\n")
			case val.IsString() && isSimpleScalar(val.Str):
				b.WriteString(displayKey)
				b.WriteString(": ")
				b.WriteString(val.Str)
				b.WriteByte('\n')
			case val.IsString():
				b.WriteString(displayKey)
				b.WriteString(":\n")
				d.writeMultilineString(b, level+1, val.Str)
			default:
				inline, err := d.inlineDecision(val, level, valPath)
				if err != nil {
					return err
				}
				if inline {
					b.WriteString(displayKey)
					b.WriteString(": ")
					d.writeInline(b, val)
					b.WriteByte('\n')
					continue
				}
				b.WriteString(displayKey)
				b.WriteString(":\n")
				if err := d.writeChild(b, level+1, val, valPath); err != nil {
					return err
				}
			}
			continue
		}

		d.writeMultilineKey(b, level, displayKey)
		if val.IsString() && val.Str == "" {
			continue
		}
		if err := d.writeChild(b, level+1, val, valPath); err != nil {
			return err
		}
	}
	return nil
}

func (d *dumper) writeMultilineKey(b *strings.Builder, level int, key string) {
	for _, l := range strings.Split(key, "\n") {
		d.writeIndent(b, level)
		b.WriteString(": ")
		b.WriteString(l)
		b.WriteByte('\n')
	}
}

func (d *dumper) writeChild(b *strings.Builder, level int, v *value.Value, path keypath.Path) error {
	switch v.Kind {
	case value.KindString:
		d.writeMultilineString(b, level, v.Str)
		return nil
	case value.KindSequence:
		if len(v.Seq) == 0 {
			d.writeIndent(b, level)
			b.WriteString("[]\n")
			return nil
		}
		return d.writeSequence(b, level, v, path)
	case value.KindMapping:
		if v.Map.Len() == 0 {
			d.writeIndent(b, level)
			b.WriteString("{}\n")
			return nil
		}
		return d.writeMapping(b, level, v, path)
	}
	return nil
}

// inlineDecision reports whether v (a Sequence or Mapping about to be
// written at nesting depth level) should render as a single-line {…}/[…]
// expression instead of a block.
//
// inline_level, when set, forces this at or below that depth regardless of
// width; forcing a value inline syntax cannot carry (one containing a
// newline or NestedText's structural punctuation) is a dump error rather
// than a silent fallback to block form. Absent that, a width of 0 or less
// disables inline output outright; otherwise v is eligible when every leaf
// is a simple scalar and its inline expression alone (without the indent
// or the "key: "/"- " prefix in front of it) is no longer than width.
func (d *dumper) inlineDecision(v *value.Value, level int, path keypath.Path) (bool, error) {
	if d.cfg.inlineLevel >= 0 && level >= d.cfg.inlineLevel {
		if !isInlineable(v) {
			return false, errors.NewDump(path, errors.KindUnrepresentableValue,
				"inline_level forces inline rendering at depth %d, but this value contains a newline or structural character inline syntax cannot carry", level)
		}
		return true, nil
	}
	if !isInlineable(v) || d.cfg.width <= 0 {
		return false, nil
	}
	var b strings.Builder
	d.writeInline(&b, v)
	return b.Len() <= d.cfg.width, nil
}

func isInlineable(v *value.Value) bool {
	switch v.Kind {
	case value.KindString:
		return isSimpleScalar(v.Str) && !strings.ContainsAny(v.Str, "[]{},:")
	case value.KindSequence:
		for _, item := range v.Seq {
			if !isInlineable(item) {
				return false
			}
		}
		return true
	case value.KindMapping:
		for _, e := range v.Map.Entries() {
			if !isSimpleKey(e.Key) || strings.ContainsAny(e.Key, "[]{},:") {
				return false
			}
			if !isInlineable(e.Value) {
				return false
			}
		}
		return true
	}
	return false
}

func (d *dumper) writeInline(b *strings.Builder, v *value.Value) {
	switch v.Kind {
	case value.KindString:
		b.WriteString(v.Str)
	case value.KindSequence:
		b.WriteByte('[')
		for i, item := range v.Seq {
			if i > 0 {
				b.WriteString(", ")
			}
			d.writeInline(b, item)
		}
		b.WriteByte(']')
	case value.KindMapping:
		b.WriteByte('{')
		for i, e := range v.Map.Entries() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.Key)
			b.WriteString(": ")
			d.writeInline(b, e.Value)
		}
		b.WriteByte('}')
	}
}

// isSimpleScalar reports whether s can appear as rest-of-line text after
// "- " or "key: " and load back unchanged: it contains no newline, and it
// does not start with '[' or '{', which the loader reads as the start of an
// inline list or dict. The leading "- "/"key: " tag already disambiguates
// the line kind, so no other character matters here.
func isSimpleScalar(s string) bool {
	return !strings.Contains(s, "\n") && !strings.HasPrefix(s, "[") && !strings.HasPrefix(s, "{")
}

// isSimpleKey reports whether key can be written as a same-line "key:
// value" or "key:" dict-item tag, i.e. contains no newline.
func isSimpleKey(key string) bool {
	return !strings.Contains(key, "\n")
}

// toValue converts an arbitrary Go value into a Value tree, trying a
// registered Converter first, then the dumper's built-in reflection based
// rules, then the DefaultFunc as a last resort.
func toValue(v interface{}, path keypath.Path, cfg *config) (*value.Value, error) {
	if v == nil {
		if cfg.def != nil {
			converted, err := cfg.def(v)
			if err != nil {
				return nil, err
			}
			if converted != nil {
				return toValue(converted, path, cfg)
			}
		}
		return nil, errors.NewDump(path, errors.KindUnsupportedType, "cannot represent nil without a default converter")
	}
	if tv, ok := v.(*value.Value); ok {
		return tv, nil
	}

	if fn, ok := cfg.converters[reflect.TypeOf(v)]; ok {
		converted, err := fn(v)
		if err != nil {
			return nil, err
		}
		return toValue(converted, path, cfg)
	}

	switch x := v.(type) {
	case string:
		return value.NewString(x), nil
	case fmt.Stringer:
		return value.NewString(x.String()), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil, errors.NewDump(path, errors.KindUnsupportedType, "cannot represent a nil pointer")
		}
		return toValue(rv.Elem().Interface(), path, cfg)

	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return value.NewString(fmt.Sprint(v)), nil

	case reflect.Slice, reflect.Array:
		items := make([]*value.Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := toValue(rv.Index(i).Interface(), path.Index(i), cfg)
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return value.NewSequence(items), nil

	case reflect.Map:
		m := value.NewMappingData()
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())
		for _, k := range rv.MapKeys() {
			ks := fmt.Sprint(k.Interface())
			keys = append(keys, ks)
			byKey[ks] = rv.MapIndex(k)
		}
		sortStrings(keys) // MapKeys order is random; sorted is the default
		for _, k := range cfg.orderKeys(keys, path) {
			mv, err := toValue(byKey[k].Interface(), path.Key(k), cfg)
			if err != nil {
				return nil, err
			}
			m.Append(k, mv)
		}
		return value.NewMapping(m), nil

	case reflect.Struct:
		m := value.NewMappingData()
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.PkgPath != "" {
				continue // unexported
			}
			mv, err := toValue(rv.Field(i).Interface(), path.Key(field.Name), cfg)
			if err != nil {
				return nil, err
			}
			m.Append(field.Name, mv)
		}
		return value.NewMapping(m), nil
	}

	if cfg.def != nil {
		converted, err := cfg.def(v)
		if err != nil {
			return nil, err
		}
		return toValue(converted, path, cfg)
	}
	return nil, errors.NewDump(path, errors.KindUnsupportedType, "cannot represent value of type %T", v)
}
