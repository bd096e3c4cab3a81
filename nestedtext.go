// Package nestedtext implements NestedText, a human-friendly, line-oriented
// data interchange format in which every scalar is a string: there is no
// type inference, so callers that want typed values convert them on the
// way in and out themselves.
//
// Load and Dump are the two halves of the format: Load parses source text
// into a Value tree, and Dump renders a Value tree, or any Go value
// reachable from maps/slices/structs/strings, back to source text.
package nestedtext

import (
	"github.com/elioetibr/nestedtext/pkg/dumper"
	"github.com/elioetibr/nestedtext/pkg/errors"
	"github.com/elioetibr/nestedtext/pkg/keymap"
	"github.com/elioetibr/nestedtext/pkg/keypath"
	"github.com/elioetibr/nestedtext/pkg/parser"
	"github.com/elioetibr/nestedtext/pkg/value"
)

// Re-exported types, so callers depend only on the root package for the
// common path.
type (
	// Value is the parsed or to-be-rendered data tree.
	Value = value.Value
	// Mapping is Value's ordered, string-keyed associative container.
	Mapping = value.Mapping
	// Entry is one key/value pair of a Mapping.
	Entry = value.Entry
	// Path addresses a node within a Value tree.
	Path = keypath.Path
	// Keymap records source Locations for a loaded document's nodes.
	Keymap = keymap.Keymap
	// Location is one node's position within the source document.
	Location = keymap.Location
	// ParseError is returned by Load on malformed source text.
	ParseError = errors.ParseError
	// DumpError is returned by Dump when a value cannot be rendered.
	DumpError = errors.DumpError

	// LoadOption configures Load.
	LoadOption = parser.Option
	// DumpOption configures Dump.
	DumpOption = dumper.Option

	// Top constrains the kind a loaded document's root value must have.
	Top = parser.Top
	// DupPolicy selects a built-in duplicate-key resolution.
	DupPolicy = parser.DupPolicy
	// OnDuplicate selects how Load resolves a repeated mapping key.
	OnDuplicate = parser.OnDuplicate
	// DupCallback resolves a duplicate key to a replacement key.
	DupCallback = parser.DupCallback
	// KeyNormalizer rewrites a raw source key before it is stored.
	KeyNormalizer = parser.KeyNormalizer

	// Converter renders a Go value the dumper does not know how to
	// represent natively into one it does.
	Converter = dumper.Converter
	// DefaultFunc is Dump's last-resort converter.
	DefaultFunc = dumper.DefaultFunc
	// MapKeyOrder orders a Go map's keys before rendering.
	MapKeyOrder = dumper.MapKeyOrder
	// SortKeyFunc derives a mapping key's sort string from the key and its
	// parent's key-path.
	SortKeyFunc = dumper.SortKeyFunc
	// KeyPresenter rewrites a mapping key's rendered spelling.
	KeyPresenter = dumper.KeyPresenter
)

const (
	TopAny  = parser.TopAny
	TopDict = parser.TopDict
	TopList = parser.TopList
	TopStr  = parser.TopStr

	DupError      = parser.DupError
	DupIgnoreFirst = parser.DupIgnoreFirst
	DupIgnoreLast  = parser.DupIgnoreLast
)

// NewValueString, NewValueSequence, and NewValueMapping build Value trees
// directly, without going through Load or Dump's Go-value conversion.
func NewValueString(s string) *Value                { return value.NewString(s) }
func NewValueSequence(items []*Value) *Value         { return value.NewSequence(items) }
func NewValueMapping(m *Mapping) *Value              { return value.NewMapping(m) }
func NewMapping() *Mapping                           { return value.NewMappingData() }

// WithTop, WithOnDuplicate, WithDuplicateState, WithKeyNormalizer, and
// WithKeymap configure Load; see the parser package for details.
func WithTop(t Top) LoadOption                     { return parser.WithTop(t) }
func WithOnDuplicate(o OnDuplicate) LoadOption      { return parser.WithOnDuplicate(o) }
func WithDuplicateState(state interface{}) LoadOption { return parser.WithDuplicateState(state) }
func WithKeyNormalizer(fn KeyNormalizer) LoadOption { return parser.WithKeyNormalizer(fn) }
func WithKeymap(km *Keymap) LoadOption              { return parser.WithKeymap(km) }
func WithLoadSource(label string) LoadOption        { return parser.WithSource(label) }

// OnDupPolicy and OnDupCallback build an OnDuplicate value for WithOnDuplicate.
func OnDupPolicy(p DupPolicy) OnDuplicate         { return parser.OnDupPolicy(p) }
func OnDupCallback(fn DupCallback) OnDuplicate    { return parser.OnDupCallback(fn) }

// WithIndent, WithWidth, WithInlineLevel, WithSortKeys, WithSortKeysFunc,
// WithMapKeyOrder, WithMapKeys, WithMapKeysFromKeymap, WithConverter, and
// WithDefault configure Dump; see the dumper package for details.
func WithIndent(n int) DumpOption      { return dumper.WithIndent(n) }
func WithWidth(n int) DumpOption       { return dumper.WithWidth(n) }
func WithInlineLevel(n int) DumpOption { return dumper.WithInlineLevel(n) }
func WithSortKeys(sort bool) DumpOption                         { return dumper.WithSortKeys(sort) }
func WithSortKeysFunc(fn SortKeyFunc) DumpOption                { return dumper.WithSortKeysFunc(fn) }
func WithMapKeyOrder(fn MapKeyOrder) DumpOption                 { return dumper.WithMapKeyOrder(fn) }
func WithMapKeys(fn KeyPresenter) DumpOption                    { return dumper.WithMapKeys(fn) }
func WithMapKeysFromKeymap(km *Keymap) DumpOption               { return dumper.WithMapKeysFromKeymap(km) }
func WithConverter(sample interface{}, fn Converter) DumpOption { return dumper.WithConverter(sample, fn) }
func WithDefault(fn DefaultFunc) DumpOption                     { return dumper.WithDefault(fn) }
func WithDumpSource(label string) DumpOption                    { return dumper.WithSource(label) }

// NewKeymap creates an empty Keymap for use with WithKeymap.
func NewKeymap() *Keymap { return keymap.New() }

// Load parses source, a complete NestedText document, into a Value tree.
func Load(source string, opts ...LoadOption) (*Value, error) {
	return parser.Load(source, opts...)
}

// LoadBytes decodes b as UTF-8 and parses it as a NestedText document.
func LoadBytes(b []byte, opts ...LoadOption) (*Value, error) {
	return parser.LoadBytes(b, opts...)
}

// Dump renders v, a *Value tree or any Go value reachable from maps,
// slices, structs, and strings, as a NestedText document.
func Dump(v interface{}, opts ...DumpOption) (string, error) {
	return dumper.Dump(v, opts...)
}

// DumpValue renders an already-built Value tree as a NestedText document.
func DumpValue(v *Value, opts ...DumpOption) (string, error) {
	return dumper.DumpValue(v, opts...)
}
