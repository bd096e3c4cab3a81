package dumper

import (
	"strings"
	"testing"

	"github.com/elioetibr/nestedtext/pkg/errors"
	"github.com/elioetibr/nestedtext/pkg/keymap"
	"github.com/elioetibr/nestedtext/pkg/keypath"
	"github.com/elioetibr/nestedtext/pkg/value"
)

func TestDumpValueSimpleMapping(t *testing.T) {
	m := value.NewMappingData()
	m.Append("name", value.NewString("Alice"))
	m.Append("age", value.NewString("30"))

	got, err := DumpValue(value.NewMapping(m))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "name: Alice\nage: 30\n"
	if got != want {
		t.Fatalf("DumpValue() = %q, want %q", got, want)
	}
}

func TestDumpValueSequence(t *testing.T) {
	v := value.NewSequence([]*value.Value{
		value.NewString("apple"), value.NewString("banana"),
	})
	got, err := DumpValue(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "- apple\n- banana\n"
	if got != want {
		t.Fatalf("DumpValue() = %q, want %q", got, want)
	}
}

func TestDumpValueMultilineString(t *testing.T) {
	m := value.NewMappingData()
	m.Append("note", value.NewString("line one\nline two"))
	got, err := DumpValue(value.NewMapping(m))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "note:\n    > line one\n    > line two\n"
	if got != want {
		t.Fatalf("DumpValue() = %q, want %q", got, want)
	}
}

func TestDumpValueEmptyStringRendersBareTag(t *testing.T) {
	m := value.NewMappingData()
	m.Append("bio", value.NewString(""))
	got, err := DumpValue(value.NewMapping(m))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "bio:\n"
	if got != want {
		t.Fatalf("DumpValue() = %q, want %q", got, want)
	}
}

func TestDumpValueNestedBlock(t *testing.T) {
	inner := value.NewMappingData()
	inner.Append("city", value.NewString("Springfield"))
	outer := value.NewMappingData()
	outer.Append("address", value.NewMapping(inner))

	got, err := DumpValue(value.NewMapping(outer), WithWidth(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "address:\n") || !strings.Contains(got, "city: Springfield") {
		t.Fatalf("DumpValue() = %q, want nested block with address/city", got)
	}
}

func TestDumpValueSortKeys(t *testing.T) {
	m := value.NewMappingData()
	m.Append("b", value.NewString("2"))
	m.Append("a", value.NewString("1"))

	got, err := DumpValue(value.NewMapping(m), WithSortKeys(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a: 1\nb: 2\n"
	if got != want {
		t.Fatalf("DumpValue() with sorted keys = %q, want %q", got, want)
	}
}

func TestDumpGoMapAndSlice(t *testing.T) {
	got, err := Dump(map[string]interface{}{
		"fruits": []string{"apple", "banana"},
	}, WithSortKeys(true), WithWidth(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "fruits:") || !strings.Contains(got, "- apple") {
		t.Fatalf("Dump() = %q", got)
	}
}

func TestDumpUnsupportedTypeErrors(t *testing.T) {
	_, err := Dump(make(chan int))
	if err == nil {
		t.Fatal("expected an error for an unrepresentable type")
	}
}

func TestDumpConverter(t *testing.T) {
	type point struct{ X, Y int }
	got, err := Dump(point{X: 1, Y: 2}, WithConverter(point{}, func(v interface{}) (interface{}, error) {
		p := v.(point)
		return map[string]interface{}{"x": p.X, "y": p.Y}, nil
	}), WithSortKeys(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "x: 1\ny: 2\n"
	if got != want {
		t.Fatalf("Dump() = %q, want %q", got, want)
	}
}

func TestDumpValueWidthZeroDisablesInline(t *testing.T) {
	// Short enough to inline under the default width (its inline form is
	// 15 characters), so this isolates width<=0's "never inline" rule rather
	// than a merely-too-narrow width.
	m := value.NewMappingData()
	m.Append("fruits", value.NewSequence([]*value.Value{value.NewString("apple"), value.NewString("banana")}))

	got, err := DumpValue(value.NewMapping(m), WithWidth(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "fruits:\n    - apple\n    - banana\n"
	if got != want {
		t.Fatalf("DumpValue() with WithWidth(0) = %q, want %q (block form, never inline)", got, want)
	}
}

func TestDumpValueInlineLevelForcesInline(t *testing.T) {
	m := value.NewMappingData()
	m.Append("fruits", value.NewSequence([]*value.Value{value.NewString("apple"), value.NewString("banana")}))

	got, err := DumpValue(value.NewMapping(m), WithInlineLevel(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "fruits: [apple, banana]\n"
	if got != want {
		t.Fatalf("DumpValue() with WithInlineLevel(0) = %q, want %q", got, want)
	}
}

func TestDumpValueInlineLevelUnrepresentableIsError(t *testing.T) {
	m := value.NewMappingData()
	m.Append("notes", value.NewSequence([]*value.Value{value.NewString("line one\nline two")}))

	_, err := DumpValue(value.NewMapping(m), WithInlineLevel(0))
	if err == nil {
		t.Fatal("expected an error forcing a multiline value inline")
	}
	de, ok := err.(*errors.DumpError)
	if !ok {
		t.Fatalf("err = %T (%v), want *errors.DumpError", err, err)
	}
	if de.Kind != errors.KindUnrepresentableValue {
		t.Fatalf("Kind = %v, want %v", de.Kind, errors.KindUnrepresentableValue)
	}
}

func TestDumpValueMapKeysPresenter(t *testing.T) {
	m := value.NewMappingData()
	m.Append("name", value.NewString("Alice"))

	got, err := DumpValue(value.NewMapping(m), WithMapKeys(func(key string, _ keypath.Path) string {
		return strings.ToUpper(key)
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "NAME: Alice\n"
	if got != want {
		t.Fatalf("DumpValue() with WithMapKeys = %q, want %q", got, want)
	}
}

func TestDumpValueMapKeysFromKeymapRestoresRawSpelling(t *testing.T) {
	km := keymap.New()
	km.Set(keypath.Path{"Name"}, keymap.Location{HasKey: true}, "  Name  ")

	m := value.NewMappingData()
	m.Append("Name", value.NewString("Alice"))

	got, err := DumpValue(value.NewMapping(m), WithMapKeysFromKeymap(km))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "  Name  : Alice\n"
	if got != want {
		t.Fatalf("DumpValue() with WithMapKeysFromKeymap = %q, want %q", got, want)
	}
}

func TestDumpValueMapKeysCollisionIsError(t *testing.T) {
	m := value.NewMappingData()
	m.Append("a", value.NewString("1"))
	m.Append("A", value.NewString("2"))

	_, err := DumpValue(value.NewMapping(m), WithMapKeys(func(key string, _ keypath.Path) string {
		return strings.ToLower(key)
	}))
	if err == nil {
		t.Fatal("expected a duplicate-key-after-map_keys error")
	}
	de, ok := err.(*errors.DumpError)
	if !ok {
		t.Fatalf("err = %T (%v), want *errors.DumpError", err, err)
	}
	if de.Kind != errors.KindDuplicateKeyAfterMap {
		t.Fatalf("Kind = %v, want %v", de.Kind, errors.KindDuplicateKeyAfterMap)
	}
}

func TestDumpValueSortKeysFunc(t *testing.T) {
	m := value.NewMappingData()
	m.Append("alpha", value.NewString("1"))
	m.Append("beta", value.NewString("2"))

	got, err := DumpValue(value.NewMapping(m), WithSortKeysFunc(func(key string, _ keypath.Path) string {
		// Reverse the insertion order: alpha sorts by "z", beta by "a".
		if key == "alpha" {
			return "z"
		}
		return "a"
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "beta: 2\nalpha: 1\n"
	if got != want {
		t.Fatalf("DumpValue() with WithSortKeysFunc = %q, want %q", got, want)
	}
}

func TestDumpDefaultFallback(t *testing.T) {
	got, err := Dump(make(chan int), WithDefault(func(v interface{}) (interface{}, error) {
		return "unrepresentable", nil
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "> unrepresentable\n"
	if got != want {
		t.Fatalf("Dump() = %q, want %q", got, want)
	}
}
