// Package keymap implements the optional Location index the loader can
// populate during a parse: for every node reachable from the root, a
// Location records where its key (if any) and value tokens sit in the
// source document.
package keymap

import (
	"github.com/elioetibr/nestedtext/pkg/keypath"
)

// Location binds a node to its source position. KeyLine/KeyColumn are only
// meaningful when HasKey is true (the node is a mapping entry's value).
type Location struct {
	Line      int
	Column    int
	KeyLine   int
	KeyColumn int
	HasKey    bool
}

type entry struct {
	path   keypath.Path
	loc    Location
	rawKey string // raw (pre-normalization/dedup) key text, when path's last segment is a string
}

// Keymap maps key-paths to Locations. It is populated only when a caller
// opts in via a parser option; a nil *Keymap is valid and simply discards
// every Set call, so parser code need not special-case "keymap not wanted".
type Keymap struct {
	byPath map[string]*entry
	order  []*entry
}

// New creates an empty, ready-to-populate Keymap.
func New() *Keymap {
	return &Keymap{byPath: make(map[string]*entry)}
}

// Set records loc for path. rawKey is the original source text of the key
// before normalization/deduplication, or "" for sequence entries and for
// the root. Calling Set on a nil Keymap is a no-op.
func (k *Keymap) Set(path keypath.Path, loc Location, rawKey string) {
	if k == nil {
		return
	}
	e := &entry{path: append(keypath.Path{}, path...), loc: loc, rawKey: rawKey}
	k.byPath[keypath.Canonical(path)] = e
	k.order = append(k.order, e)
}

// Resolve returns the Location recorded for path.
func (k *Keymap) Resolve(path keypath.Path) (Location, bool) {
	if k == nil {
		return Location{}, false
	}
	e, ok := k.byPath[keypath.Canonical(path)]
	if !ok {
		return Location{}, false
	}
	return e.loc, true
}

// LineRange returns the inclusive (first, last) 0-based line numbers spanned
// by path and everything reachable beneath it.
func (k *Keymap) LineRange(path keypath.Path) (first, last int, ok bool) {
	if k == nil {
		return 0, 0, false
	}
	prefix := keypath.Canonical(path)
	first, last = -1, -1
	for _, e := range k.order {
		c := keypath.Canonical(e.path)
		if !hasPrefix(c, prefix) {
			continue
		}
		lines := []int{e.loc.Line}
		if e.loc.HasKey {
			lines = append(lines, e.loc.KeyLine)
		}
		for _, l := range lines {
			if first == -1 || l < first {
				first = l
			}
			if last == -1 || l > last {
				last = l
			}
		}
	}
	if first == -1 {
		return 0, 0, false
	}
	return first, last, true
}

// OriginalKeys maps a key-path built from normalized/deduplicated keys back
// to the original raw keys as they appeared in the source, segment by
// segment. Sequence indices pass through unchanged.
func (k *Keymap) OriginalKeys(path keypath.Path) (keypath.Path, bool) {
	if k == nil {
		return nil, false
	}
	raw := make(keypath.Path, len(path))
	for i := range path {
		prefix := path[:i+1]
		e, ok := k.byPath[keypath.Canonical(prefix)]
		if !ok {
			return nil, false
		}
		switch v := path[i].(type) {
		case string:
			if e.rawKey != "" || v == "" {
				raw[i] = e.rawKey
			} else {
				raw[i] = v
			}
		default:
			raw[i] = v
		}
	}
	return raw, true
}

// Join renders path as a human-readable string, separator-escaped.
func Join(path keypath.Path, sep string) string {
	return keypath.Join(path, sep)
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
