package nestedtext

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestLoadAndDumpRoundTrip(t *testing.T) {
	input := "name: Alice\nfruits:\n    - apple\n    - banana\n"
	v, err := Load(input)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	out, err := DumpValue(v)
	if err != nil {
		t.Fatalf("DumpValue error: %v", err)
	}

	v2, err := Load(out)
	if err != nil {
		t.Fatalf("Load(Dump(v)) error: %v", err)
	}
	// Value defines Equal(*Value) bool, so cmp.Diff uses it directly instead
	// of trying (and failing) to walk Mapping's unexported fields; on
	// mismatch it still reports which subtree differs, which a bare
	// Equal() bool can't.
	if diff := cmp.Diff(v, v2); diff != "" {
		t.Fatalf("round trip changed the tree (-want +got):\n%s", diff)
	}
}

func TestDumpArbitraryGoValue(t *testing.T) {
	type Person struct {
		Name string
		Age  string
	}
	out, err := Dump(Person{Name: "Bob", Age: "42"}, WithSortKeys(true))
	if err != nil {
		t.Fatalf("Dump error: %v", err)
	}
	want := "Age: 42\nName: Bob\n"
	if out != want {
		t.Fatalf("Dump() = %q, want %q", out, want)
	}
}

func TestWithKeymapResolvesLocations(t *testing.T) {
	km := NewKeymap()
	_, err := Load("a: 1\nb: 2\n", WithKeymap(km))
	require.NoError(t, err)

	loc, ok := km.Resolve(Path{"b"})
	require.True(t, ok, "expected a keymap entry for b")
	require.Equal(t, 1, loc.Line)
}

func TestDumpMapKeysFromKeymapRoundTripsThroughNormalization(t *testing.T) {
	km := NewKeymap()
	v, err := Load("Full Name: Alice\n", WithKeyNormalizer(func(raw string, _ Path) string {
		return strings.ToLower(strings.ReplaceAll(raw, " ", "_"))
	}), WithKeymap(km))
	require.NoError(t, err)

	out, err := Dump(v, WithMapKeysFromKeymap(km))
	require.NoError(t, err)
	require.Equal(t, "Full Name: Alice\n", out)
}

func TestLoadTopLevelTypeError(t *testing.T) {
	_, err := Load("- a\n- b\n", WithTop(TopDict))
	require.Error(t, err)

	pe, ok := err.(*ParseError)
	require.True(t, ok, "err = %T, want *ParseError", err)
	require.Equal(t, "top-level-type", string(pe.Kind))
}
