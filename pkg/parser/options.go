package parser

import (
	"github.com/elioetibr/nestedtext/pkg/keymap"
	"github.com/elioetibr/nestedtext/pkg/keypath"
)

// Top constrains the kind the document's root value must have.
type Top string

const (
	TopAny  Top = "any"
	TopDict Top = "dict"
	TopList Top = "list"
	TopStr  Top = "str"
)

// DupPolicy is one of the built-in duplicate-key resolutions.
type DupPolicy int

const (
	// DupError raises a duplicate-key ParseError. This is the default.
	DupError DupPolicy = iota
	// DupIgnoreFirst keeps the first occurrence of a key and silently
	// drops later ones (the wire-format alias "ignore" in §6).
	DupIgnoreFirst
	// DupIgnoreLast keeps the last occurrence, overwriting earlier values
	// in place without moving the key's position (the wire-format alias
	// "replace" in §6).
	DupIgnoreLast
)

// DupCallback resolves a duplicate key to a replacement. It receives the
// colliding key, the path of the mapping it collided in, and caller-owned
// state threaded across the whole parse. If the replacement it returns is
// itself already present, it is invoked again with the new collision.
type DupCallback func(key string, path keypath.Path, state interface{}) string

// OnDuplicate selects how the parser resolves a repeated mapping key.
type OnDuplicate struct {
	policy   DupPolicy
	callback DupCallback
}

// OnDupPolicy selects one of the built-in policies.
func OnDupPolicy(p DupPolicy) OnDuplicate { return OnDuplicate{policy: p} }

// OnDupCallback installs a callback-driven resolution.
func OnDupCallback(fn DupCallback) OnDuplicate { return OnDuplicate{callback: fn} }

func (o OnDuplicate) hasCallback() bool { return o.callback != nil }

// KeyNormalizer rewrites a raw source key before it is stored in the tree.
// It runs before duplicate detection and before keymap insertion, so
// keymap lookups use the normalized key while Location.Key* still points
// at the raw source.
type KeyNormalizer func(rawKey string, parentPath keypath.Path) string

func identityNormalizer(raw string, _ keypath.Path) string { return raw }

type config struct {
	top       Top
	onDup     OnDuplicate
	normalize KeyNormalizer
	km        *keymap.Keymap
	source    string
	dupState  interface{}
}

func defaultConfig() config {
	return config{
		top:       TopAny,
		onDup:     OnDupPolicy(DupError),
		normalize: identityNormalizer,
	}
}

// Option configures a Load call.
type Option func(*config)

// WithTop constrains the root value's kind.
func WithTop(t Top) Option {
	return func(c *config) { c.top = t }
}

// WithOnDuplicate selects the duplicate-key resolution.
func WithOnDuplicate(o OnDuplicate) Option {
	return func(c *config) { c.onDup = o }
}

// WithDuplicateState supplies the state value handed to a DupCallback on
// every invocation during this parse.
func WithDuplicateState(state interface{}) Option {
	return func(c *config) { c.dupState = state }
}

// WithKeyNormalizer installs a key normalization function.
func WithKeyNormalizer(fn KeyNormalizer) Option {
	return func(c *config) {
		if fn != nil {
			c.normalize = fn
		}
	}
}

// WithKeymap directs the parser to populate km with a Location for every
// node it constructs.
func WithKeymap(km *keymap.Keymap) Option {
	return func(c *config) { c.km = km }
}

// WithSource labels the document for error messages.
func WithSource(label string) Option {
	return func(c *config) { c.source = label }
}
