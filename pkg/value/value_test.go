package value

import "testing"

func TestMappingAppendAndGet(t *testing.T) {
	m := NewMappingData()
	m.Append("a", NewString("1"))
	m.Append("b", NewString("2"))

	v, ok := m.Get("a")
	if !ok || v.Str != "1" {
		t.Fatalf("Get(a) = %v, %v, want 1, true", v, ok)
	}
	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
	if got := m.Keys(); got[0] != "a" || got[1] != "b" {
		t.Fatalf("Keys() = %v, want [a b]", got)
	}
}

func TestMappingSetOverwritesInPlace(t *testing.T) {
	m := NewMappingData()
	m.Append("a", NewString("1"))
	m.Append("b", NewString("2"))
	m.Set("a", NewString("99"))

	if got := m.Keys(); got[0] != "a" || got[1] != "b" {
		t.Fatalf("Set must not move the key; Keys() = %v", got)
	}
	v, _ := m.Get("a")
	if v.Str != "99" {
		t.Fatalf("Get(a) = %q, want 99", v.Str)
	}
}

func TestMappingDeleteReindexes(t *testing.T) {
	m := NewMappingData()
	m.Append("a", NewString("1"))
	m.Append("b", NewString("2"))
	m.Append("c", NewString("3"))
	m.Delete("b")

	if m.Has("b") {
		t.Fatal("Has(b) = true after Delete")
	}
	if got := m.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("Keys() after delete = %v, want [a c]", got)
	}
	v, ok := m.Get("c")
	if !ok || v.Str != "3" {
		t.Fatalf("Get(c) after delete = %v, %v, want 3, true", v, ok)
	}
}

func TestValueEqual(t *testing.T) {
	a := NewMapping(nil)
	a.Map.Append("k", NewSequence([]*Value{NewString("x"), NewString("y")}))

	b := NewMapping(nil)
	b.Map.Append("k", NewSequence([]*Value{NewString("x"), NewString("y")}))

	if !a.Equal(b) {
		t.Fatal("structurally identical trees must be Equal")
	}

	c := NewMapping(nil)
	c.Map.Append("k", NewSequence([]*Value{NewString("y"), NewString("x")}))
	if a.Equal(c) {
		t.Fatal("sequence order must matter for Equal")
	}
}

func TestValueEqualMappingOrderMatters(t *testing.T) {
	a := NewMappingData()
	a.Append("a", NewString("1"))
	a.Append("b", NewString("2"))

	b := NewMappingData()
	b.Append("b", NewString("2"))
	b.Append("a", NewString("1"))

	if NewMapping(a).Equal(NewMapping(b)) {
		t.Fatal("mapping insertion order is part of the data model and must affect Equal")
	}
}

func TestNewSequenceNilBecomesEmpty(t *testing.T) {
	v := NewSequence(nil)
	if v.Seq == nil {
		t.Fatal("NewSequence(nil).Seq must be a non-nil empty slice")
	}
	if len(v.Seq) != 0 {
		t.Fatalf("len = %d, want 0", len(v.Seq))
	}
}

func TestKindPredicates(t *testing.T) {
	s := NewString("x")
	if !s.IsString() || s.IsSequence() || s.IsMapping() {
		t.Fatal("IsString/IsSequence/IsMapping mismatch for string value")
	}
	seq := NewSequence(nil)
	if !seq.IsSequence() || seq.IsString() || seq.IsMapping() {
		t.Fatal("IsString/IsSequence/IsMapping mismatch for sequence value")
	}
}
