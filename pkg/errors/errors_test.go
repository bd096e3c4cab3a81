package errors

import (
	"strings"
	"testing"

	"github.com/elioetibr/nestedtext/pkg/keypath"
)

func TestParseErrorMessage(t *testing.T) {
	e := New("doc", "  bad line", Position{Line: 3, Column: 2}, KindInvalidIndentation, "unexpected indent of %d", 4)
	if e.Message() != "unexpected indent of 4" {
		t.Fatalf("Message() = %q", e.Message())
	}
}

func TestParseErrorErrorFormatsLocation(t *testing.T) {
	e := New("input.nt", "bad", Position{Line: 1, Column: 0}, KindUnrecognizedContent, "unrecognized content")
	got := e.Error()
	if !strings.Contains(got, "input.nt") || !strings.Contains(got, "line 1") || !strings.Contains(got, "column 0") {
		t.Fatalf("Error() = %q, missing location fields", got)
	}
}

func TestParseErrorErrorDefaultsSourceLabel(t *testing.T) {
	e := New("", "bad", Position{Line: 0, Column: 0}, KindUnrecognizedContent, "unrecognized content")
	if !strings.HasPrefix(e.Error(), "<string>") {
		t.Fatalf("Error() = %q, want <string> prefix for unlabeled source", e.Error())
	}
}

func TestParseErrorCodicilMarksOffendingLine(t *testing.T) {
	e := New("doc", "bad line", Position{Line: 1, Column: 2}, KindInvalidIndentation, "bad indent")
	e.Context = []string{"first line", "bad line", "third line"}
	e.ContextStart = 0

	codicil := e.Codicil()
	lines := strings.Split(strings.TrimRight(codicil, "\n"), "\n")
	found := false
	for _, l := range lines {
		if strings.HasPrefix(l, "> ") && strings.Contains(l, "bad line") {
			found = true
		}
	}
	if !found {
		t.Fatalf("Codicil() = %q, want a marked line for the offending line", codicil)
	}
}

func TestWithTemplateReinterpolates(t *testing.T) {
	e := New("doc", "x", Position{Line: 0, Column: 0}, KindDuplicateKey, "duplicate key: %q", "a")
	re := e.WithTemplate("chave duplicada: %q")
	if re.Message() != `chave duplicada: "a"` {
		t.Fatalf("Message() = %q", re.Message())
	}
	if e.Template == re.Template {
		t.Fatal("WithTemplate must not mutate the receiver")
	}
}

func TestDumpErrorError(t *testing.T) {
	e := NewDump(keypath.Path{"a", 0}, KindUnsupportedType, "cannot represent value of type %T", 3.14)
	got := e.Error()
	if !strings.HasPrefix(got, "at a.0:") {
		t.Fatalf("Error() = %q, want prefix 'at a.0:'", got)
	}
}

func TestDumpErrorRootPath(t *testing.T) {
	e := NewDump(keypath.Path{}, KindUnsupportedType, "cannot represent nil")
	if !strings.HasPrefix(e.Error(), "at <root>:") {
		t.Fatalf("Error() = %q, want <root> for empty path", e.Error())
	}
}
