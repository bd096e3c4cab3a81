package dumper

import (
	"reflect"

	"github.com/elioetibr/nestedtext/pkg/keymap"
	"github.com/elioetibr/nestedtext/pkg/keypath"
)

// Converter renders v (a Go value the dumper does not know how to render
// natively) to a Value-tree-compatible Go shape: a string, a slice, a map,
// or *value.Value itself. It is tried before the dumper's own reflection
// based conversion, mirroring the teacher serializer's options-first design.
type Converter func(v interface{}) (interface{}, error)

// DefaultFunc is the last-resort converter, invoked when neither a
// registered Converter nor the dumper's built-in handling applies to v's
// type. Typically used to stringify unknown scalar types.
type DefaultFunc func(v interface{}) (interface{}, error)

// MapKeyOrder orders the keys of a Go map before it is rendered. Go's map
// iteration order is randomized, so Dump always calls either this or its
// default (sorted) ordering before writing a map's entries.
type MapKeyOrder func(keys []string) []string

// SortKeyFunc derives the string a mapping key sorts by, given the key and
// the key-path of its parent mapping. Installed via WithSortKeysFunc when
// plain lexicographic ordering (WithSortKeys) isn't expressive enough.
type SortKeyFunc func(key string, parentPath keypath.Path) string

// KeyPresenter rewrites key, a mapping key as stored in the Value tree, into
// the spelling that should actually be written out, given the key-path of
// its parent mapping. Installed via WithMapKeys or WithMapKeysFromKeymap.
type KeyPresenter func(key string, parentPath keypath.Path) string

type config struct {
	indent      int
	width       int
	inlineLevel int
	sortKeys    bool
	sortKeyFunc SortKeyFunc
	mapKeyOrder MapKeyOrder
	presentKey  KeyPresenter
	converters  map[reflect.Type]Converter
	def         DefaultFunc
	source      string
}

func defaultConfig() config {
	return config{
		indent:      4,
		width:       80,
		inlineLevel: -1, // unset: nothing is forced inline by depth
		sortKeys:    false,
		converters:  make(map[reflect.Type]Converter),
	}
}

// Option configures a Dump call.
type Option func(*config)

// WithIndent sets the number of spaces used for each nesting level.
func WithIndent(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.indent = n
		}
	}
}

// WithWidth sets the target line width used to decide between inline and
// block rendering for an eligible leaf list or dict. A width of 0 or less
// disables inline output entirely: every list and mapping renders as block
// form, regardless of how short its inline spelling would be.
func WithWidth(n int) Option {
	return func(c *config) { c.width = n }
}

// WithInlineLevel forces every list or mapping at nesting depth n or deeper
// to render inline, regardless of WithWidth, as long as its content can be
// expressed inline at all (no embedded newline or structural punctuation);
// a value inline syntax cannot carry at that depth is a dump error rather
// than a silent fallback to block form. A negative n (the default) disables
// forcing: only WithWidth governs the inline/block choice.
func WithInlineLevel(n int) Option {
	return func(c *config) { c.inlineLevel = n }
}

// WithSortKeys renders every mapping's keys in sorted order instead of
// insertion order.
func WithSortKeys(sort bool) Option {
	return func(c *config) { c.sortKeys = sort }
}

// WithSortKeysFunc installs a comparator deriving each key's sort string
// from the key and its parent's key-path, overriding WithSortKeys.
func WithSortKeysFunc(fn SortKeyFunc) Option {
	return func(c *config) { c.sortKeyFunc = fn }
}

// WithMapKeyOrder installs a custom ordering for a native Go map's keys
// (applied by Dump while converting the map, via reflection, into a Value
// tree), overriding WithSortKeys/WithSortKeysFunc for that conversion step.
// It does not affect the rendering order of a Value tree already built by
// Load; use WithSortKeys/WithSortKeysFunc for that.
func WithMapKeyOrder(fn MapKeyOrder) Option {
	return func(c *config) { c.mapKeyOrder = fn }
}

// WithMapKeys installs a key presenter: just before a mapping key is
// written, it is passed through fn along with its parent's key-path, and
// the result is written instead. Leaves the Value tree itself untouched.
func WithMapKeys(fn KeyPresenter) Option {
	return func(c *config) { c.presentKey = fn }
}

// WithMapKeysFromKeymap installs a key presenter that looks up each
// rendered key's original raw source spelling in km (as recorded by
// WithKeymap during Load) and writes that instead of the stored,
// normalized/deduplicated key. Keys with no recorded entry — for instance
// a Value tree built in memory rather than loaded — render unchanged.
func WithMapKeysFromKeymap(km *keymap.Keymap) Option {
	return func(c *config) {
		c.presentKey = func(key string, parentPath keypath.Path) string {
			raw, ok := km.OriginalKeys(parentPath.Key(key))
			if !ok || len(raw) == 0 {
				return key
			}
			if s, ok := raw[len(raw)-1].(string); ok {
				return s
			}
			return key
		}
	}
}

// WithConverter registers fn to render values of T's type, where T is the
// type of sample (sample's value is never used, only its type).
func WithConverter(sample interface{}, fn Converter) Option {
	return func(c *config) {
		c.converters[reflect.TypeOf(sample)] = fn
	}
}

// WithDefault installs the last-resort converter.
func WithDefault(fn DefaultFunc) Option {
	return func(c *config) { c.def = fn }
}

// WithSource labels the document for error messages.
func WithSource(label string) Option {
	return func(c *config) { c.source = label }
}

func (c config) orderKeys(keys []string, parentPath keypath.Path) []string {
	if c.mapKeyOrder != nil {
		return c.mapKeyOrder(keys)
	}
	if c.sortKeyFunc != nil {
		out := append([]string{}, keys...)
		sortByKeyFunc(out, func(k string) string { return c.sortKeyFunc(k, parentPath) })
		return out
	}
	if c.sortKeys {
		out := append([]string{}, keys...)
		sortStrings(out)
		return out
	}
	return keys
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func sortByKeyFunc(s []string, keyOf func(string) string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && keyOf(s[j-1]) > keyOf(s[j]); j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
