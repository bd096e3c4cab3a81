// Package keypath implements the key-path addressing scheme shared by the
// parser's keymap and the dumper's error reporting: an ordered sequence of
// mapping keys (string) and sequence indices (int) that locates a single
// node inside a loaded or in-memory Value tree.
package keypath

import (
	"strconv"
	"strings"
)

// Path is an ordered sequence of either string keys (mapping entries) or
// non-negative int indices (sequence entries). The root of a tree is the
// empty Path.
type Path []interface{}

// Key returns a copy of p with key appended.
func (p Path) Key(key string) Path {
	return append(append(Path{}, p...), key)
}

// Index returns a copy of p with idx appended.
func (p Path) Index(idx int) Path {
	return append(append(Path{}, p...), idx)
}

// Equal reports whether p and other address the same node.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// canonical renders p into a string that is unique across differently-typed
// segments (so the mapping key "2" can never collide with sequence index 2).
// It is used internally as a map key and is not meant for display.
func (p Path) canonical() string {
	var b strings.Builder
	for _, seg := range p {
		switch v := seg.(type) {
		case string:
			b.WriteString("k:")
			b.WriteString(strconv.Itoa(len(v)))
			b.WriteByte(':')
			b.WriteString(v)
		case int:
			b.WriteString("i:")
			b.WriteString(strconv.Itoa(v))
		}
		b.WriteByte('\x1f')
	}
	return b.String()
}

// Canonical exposes the internal unique encoding; callers that need a stable
// map key for a Path (e.g. to index auxiliary data alongside a Keymap) can
// use this instead of reinventing an encoding.
func Canonical(p Path) string {
	return p.canonical()
}

// Join renders p as a human-readable string using sep between segments,
// escaping any occurrence of sep found inside a string key by preceding it
// with a backslash (a literal backslash is itself escaped first so Join
// remains unambiguous to a reader).
func Join(p Path, sep string) string {
	parts := make([]string, len(p))
	for i, seg := range p {
		switch v := seg.(type) {
		case string:
			escaped := strings.ReplaceAll(v, `\`, `\\`)
			if sep != "" {
				escaped = strings.ReplaceAll(escaped, sep, `\`+sep)
			}
			parts[i] = escaped
		case int:
			parts[i] = strconv.Itoa(v)
		default:
			parts[i] = ""
		}
	}
	return strings.Join(parts, sep)
}

// String renders p using "." as the segment separator.
func (p Path) String() string {
	return Join(p, ".")
}
