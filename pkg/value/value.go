// Package value implements the NestedText data model: a closed sum of
// String, Sequence, and Mapping, per spec. It is deliberately a single
// tagged struct rather than an interface with per-kind implementations —
// the tree has exactly three shapes and no extension point is needed.
package value

// Kind tags which variant of Value is populated.
type Kind int

const (
	KindString Kind = iota
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a NestedText value: exactly one of Str, Seq, or Map is
// meaningful, selected by Kind. The zero Value is the empty string.
type Value struct {
	Kind Kind
	Str  string
	Seq  []*Value
	Map  *Mapping
}

// NewString builds a String value.
func NewString(s string) *Value {
	return &Value{Kind: KindString, Str: s}
}

// NewSequence builds a Sequence value from items (items is not copied).
func NewSequence(items []*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{Kind: KindSequence, Seq: items}
}

// NewMapping builds a Mapping value wrapping m. If m is nil, an empty
// Mapping is created.
func NewMapping(m *Mapping) *Value {
	if m == nil {
		m = NewMappingData()
	}
	return &Value{Kind: KindMapping, Map: m}
}

// IsString, IsSequence, IsMapping report the Value's Kind.
func (v *Value) IsString() bool   { return v != nil && v.Kind == KindString }
func (v *Value) IsSequence() bool { return v != nil && v.Kind == KindSequence }
func (v *Value) IsMapping() bool  { return v != nil && v.Kind == KindMapping }

// Entry is one key/value pair of a Mapping, in insertion order.
type Entry struct {
	Key   string
	Value *Value
}

// Mapping is an insertion-ordered string-keyed associative container.
// Source order is part of the NestedText data model, so Mapping preserves
// it rather than sorting keys the way a Go map would.
type Mapping struct {
	entries []Entry
	index   map[string]int
}

// NewMappingData creates an empty Mapping.
func NewMappingData() *Mapping {
	return &Mapping{index: make(map[string]int)}
}

// Append adds a new key/value pair. The caller is responsible for ensuring
// key is not already present; use Set when overwrite-in-place is wanted.
func (m *Mapping) Append(key string, v *Value) {
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: v})
}

// Set inserts key/v, appending it if key is new or overwriting the value at
// its existing position (without moving it) if key is already present.
func (m *Mapping) Set(key string, v *Value) {
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = v
		return
	}
	m.Append(key, v)
}

// Get returns the value for key and whether it was present.
func (m *Mapping) Get(key string) (*Value, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.index[key]
	return ok
}

// Delete removes key, if present, preserving the relative order of the rest.
func (m *Mapping) Delete(key string) {
	i, ok := m.index[key]
	if !ok {
		return
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, key)
	for k, idx := range m.index {
		if idx > i {
			m.index[k] = idx - 1
		}
	}
}

// Keys returns the mapping's keys in insertion order.
func (m *Mapping) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns the mapping's key/value pairs in insertion order. The
// returned slice is owned by the caller.
func (m *Mapping) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	return len(m.entries)
}

// Equal reports whether v and other are structurally equal: same Kind and,
// recursively, same content. Insertion order matters for mappings (it is
// part of the data model) and for sequences (it is the data).
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == other.Str
	case KindSequence:
		if len(v.Seq) != len(other.Seq) {
			return false
		}
		for i := range v.Seq {
			if !v.Seq[i].Equal(other.Seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		a, b := v.Map.Entries(), other.Map.Entries()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i].Key != b[i].Key || !a[i].Value.Equal(b[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
