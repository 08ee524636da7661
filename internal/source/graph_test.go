package source

import (
	"testing"
)

func TestGraphAddAndLookup(t *testing.T) {
	g := NewGraph("")
	a := g.AddVirtual("a.src", []byte("hello"))
	b := g.AddVirtual("b.src", []byte("world"))

	if a == b {
		t.Fatalf("expected distinct ids, got %d twice", a)
	}
	if !a.IsValid() || !b.IsValid() {
		t.Fatalf("ids must be valid, got %d and %d", a, b)
	}
	if g.Len() != 2 {
		t.Fatalf("Len = %d, want 2", g.Len())
	}

	doc := g.Document(a)
	if doc == nil || doc.Path != "a.src" || string(doc.Content) != "hello" {
		t.Fatalf("Document(a) = %+v", doc)
	}
	if doc.Flags&DocVirtual == 0 {
		t.Fatalf("virtual document should carry DocVirtual")
	}

	if got, ok := g.ByPath("b.src"); !ok || got.ID != b {
		t.Fatalf("ByPath(b.src) = %+v, %v", got, ok)
	}
	if _, ok := g.ByPath("missing.src"); ok {
		t.Fatalf("ByPath on unknown path should fail")
	}
	if g.Document(NoDocID) != nil {
		t.Fatalf("Document(NoDocID) must be nil")
	}
	if g.Document(DocID(99)) != nil {
		t.Fatalf("Document of out-of-range id must be nil")
	}
}

func TestGraphExclude(t *testing.T) {
	g := NewGraph("")
	a := g.AddVirtual("a.src", []byte("aa"))
	b := g.AddVirtual("b.src", []byte("bb"))

	derived := g.Exclude(b)
	if derived.Document(b) != nil {
		t.Fatalf("excluded document still resolves")
	}
	if derived.Document(a) != g.Document(a) {
		t.Fatalf("remaining document must be shared by reference")
	}
	if g.Document(b) == nil {
		t.Fatalf("Exclude must not mutate the receiver")
	}
	if _, ok := derived.ByPath("b.src"); ok {
		t.Fatalf("excluded path still resolves")
	}
}

func TestGraphWithDocuments(t *testing.T) {
	g := NewGraph("")
	a := g.AddVirtual("a.src", []byte("old content"))
	b := g.AddVirtual("b.src", []byte("untouched"))

	repl := g.Document(a).Replace([]byte("new content"))
	next, err := g.WithDocuments([]*Document{repl})
	if err != nil {
		t.Fatalf("WithDocuments: %v", err)
	}

	if string(next.Document(a).Content) != "new content" {
		t.Fatalf("replacement not applied: %q", next.Document(a).Content)
	}
	if next.Document(a).ID != a {
		t.Fatalf("replacement changed identity: %d", next.Document(a).ID)
	}
	if next.Document(b) != g.Document(b) {
		t.Fatalf("untouched document must be shared by reference")
	}
	if string(g.Document(a).Content) != "old content" {
		t.Fatalf("original graph was mutated")
	}
}

func TestGraphWithDocumentsRejectsUnknownID(t *testing.T) {
	g := NewGraph("")
	g.AddVirtual("a.src", []byte("aa"))

	bogus := &Document{ID: DocID(42), Path: "x.src"}
	if _, err := g.WithDocuments([]*Document{bogus}); err == nil {
		t.Fatalf("expected error for unknown replacement id")
	}
	if _, err := g.WithDocuments([]*Document{nil}); err == nil {
		t.Fatalf("expected error for nil replacement")
	}
}

func TestGraphWithDocumentsEmptyIsIdentity(t *testing.T) {
	g := NewGraph("")
	g.AddVirtual("a.src", []byte("aa"))
	next, err := g.WithDocuments(nil)
	if err != nil {
		t.Fatalf("WithDocuments(nil): %v", err)
	}
	if next != g {
		t.Fatalf("empty replacement list must return the receiver")
	}
}

func TestDocumentReplaceKeepsIdentity(t *testing.T) {
	g := NewGraph("")
	a := g.AddVirtual("a.src", []byte("one\ntwo"))
	doc := g.Document(a)

	next := doc.Replace([]byte("one\ntwo\nthree"))
	if next.ID != doc.ID || next.Path != doc.Path || next.Flags != doc.Flags {
		t.Fatalf("Replace must keep identity: %+v", next)
	}
	if next.Hash == doc.Hash {
		t.Fatalf("Replace with different content must change the hash")
	}
	if lc := next.LineCol(8); lc.Line != 3 || lc.Col != 1 {
		t.Fatalf("line index not rebuilt: %+v", lc)
	}
}

func TestDocumentText(t *testing.T) {
	g := NewGraph("")
	a := g.AddVirtual("a.src", []byte("hello world"))
	doc := g.Document(a)

	if got := string(doc.Text(Span{Doc: a, Start: 6, End: 11})); got != "world" {
		t.Fatalf("Text = %q", got)
	}
	if doc.Text(Span{Doc: a, Start: 6, End: 99}) != nil {
		t.Fatalf("out-of-range span must return nil")
	}
	if doc.Text(Span{Doc: DocID(9), Start: 0, End: 1}) != nil {
		t.Fatalf("foreign-document span must return nil")
	}
}
