package edit

import (
	"context"
	"errors"
	"testing"

	"weft/internal/source"
)

func newGraph(t *testing.T, docs map[string]string) *source.Graph {
	t.Helper()
	g := source.NewGraph("")
	for _, path := range []string{"a.src", "b.src", "c.src"} {
		if content, ok := docs[path]; ok {
			g.AddVirtual(path, []byte(content))
		}
	}
	return g
}

func docID(t *testing.T, g *source.Graph, path string) source.DocID {
	t.Helper()
	doc, ok := g.ByPath(path)
	if !ok {
		t.Fatalf("document %s not in graph", path)
	}
	return doc.ID
}

func TestSessionQueueValidation(t *testing.T) {
	g := newGraph(t, map[string]string{"a.src": "alpha beta"})
	a := docID(t, g, "a.src")
	sess := NewSession(g)

	if err := sess.Queue(source.Span{Doc: source.DocID(9), Start: 0, End: 1}, "", "x"); err == nil {
		t.Fatalf("unknown document must be rejected")
	}
	if err := sess.Queue(source.Span{Doc: a, Start: 5, End: 99}, "", "x"); err == nil {
		t.Fatalf("out-of-range span must be rejected")
	}
	if err := sess.Queue(source.Span{Doc: a, Start: 0, End: 5}, "wrong", "x"); err == nil {
		t.Fatalf("guard mismatch must be rejected")
	}
	if err := sess.Queue(source.Span{Doc: a, Start: 0, End: 5}, "alpha", "x"); err != nil {
		t.Fatalf("valid edit rejected: %v", err)
	}
}

func TestSessionRejectsOverlap(t *testing.T) {
	g := newGraph(t, map[string]string{"a.src": "0123456789"})
	a := docID(t, g, "a.src")
	sess := NewSession(g)

	if err := sess.Queue(source.Span{Doc: a, Start: 2, End: 6}, "", "x"); err != nil {
		t.Fatalf("first edit: %v", err)
	}
	err := sess.Queue(source.Span{Doc: a, Start: 4, End: 8}, "", "y")
	if !errors.Is(err, ErrEditConflict) {
		t.Fatalf("overlapping edit: got %v, want ErrEditConflict", err)
	}
	// Adjacent spans do not overlap.
	if err := sess.Queue(source.Span{Doc: a, Start: 6, End: 8}, "", "z"); err != nil {
		t.Fatalf("adjacent edit rejected: %v", err)
	}
}

func TestSessionMaterializeAppliesDescending(t *testing.T) {
	g := newGraph(t, map[string]string{"a.src": "aa bb cc"})
	a := docID(t, g, "a.src")
	sess := NewSession(g)

	// Queue in ascending order; replay must not shift later offsets.
	if err := sess.Queue(source.Span{Doc: a, Start: 0, End: 2}, "aa", "XXXX"); err != nil {
		t.Fatalf("queue: %v", err)
	}
	if err := sess.Queue(source.Span{Doc: a, Start: 6, End: 8}, "cc", "Y"); err != nil {
		t.Fatalf("queue: %v", err)
	}
	if err := sess.QueueInsert(a, 5, "!"); err != nil {
		t.Fatalf("queue insert: %v", err)
	}

	next, err := sess.Materialize(context.Background())
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if got := string(next.Document(a).Content); got != "XXXX bb! Y" {
		t.Fatalf("materialized content = %q", got)
	}
	if string(g.Document(a).Content) != "aa bb cc" {
		t.Fatalf("original graph was mutated")
	}
}

func TestSessionMaterializeMultiDocument(t *testing.T) {
	g := newGraph(t, map[string]string{"a.src": "one", "b.src": "two", "c.src": "three"})
	a := docID(t, g, "a.src")
	b := docID(t, g, "b.src")
	c := docID(t, g, "c.src")

	sess := NewSession(g)
	if err := sess.Queue(source.Span{Doc: a, Start: 0, End: 3}, "one", "ONE"); err != nil {
		t.Fatalf("queue a: %v", err)
	}
	if err := sess.Queue(source.Span{Doc: b, Start: 0, End: 3}, "two", "TWO"); err != nil {
		t.Fatalf("queue b: %v", err)
	}

	next, err := sess.Materialize(context.Background())
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if string(next.Document(a).Content) != "ONE" || string(next.Document(b).Content) != "TWO" {
		t.Fatalf("edits not applied: %q %q", next.Document(a).Content, next.Document(b).Content)
	}
	if next.Document(c) != g.Document(c) {
		t.Fatalf("untouched document must be shared by reference")
	}
}

func TestSessionMaterializeEmpty(t *testing.T) {
	g := newGraph(t, map[string]string{"a.src": "x"})
	sess := NewSession(g)
	next, err := sess.Materialize(context.Background())
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if next != g {
		t.Fatalf("empty session must return the input graph")
	}
}

func TestSessionClosedAfterMaterialize(t *testing.T) {
	g := newGraph(t, map[string]string{"a.src": "x"})
	a := docID(t, g, "a.src")
	sess := NewSession(g)
	if _, err := sess.Materialize(context.Background()); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	if err := sess.QueueInsert(a, 0, "y"); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("queue after close: got %v, want ErrSessionClosed", err)
	}
	if _, err := sess.Materialize(context.Background()); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("second materialize: got %v, want ErrSessionClosed", err)
	}
}

func TestSessionMaterializeHonorsCancellation(t *testing.T) {
	g := newGraph(t, map[string]string{"a.src": "abc"})
	a := docID(t, g, "a.src")
	sess := NewSession(g)
	if err := sess.QueueInsert(a, 0, "x"); err != nil {
		t.Fatalf("queue: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	next, err := sess.Materialize(ctx)
	if err == nil {
		t.Fatalf("cancelled materialize must fail")
	}
	if next != g {
		t.Fatalf("failed materialize must return the input graph")
	}
}

func TestSessionBookkeeping(t *testing.T) {
	g := newGraph(t, map[string]string{"a.src": "one", "b.src": "two"})
	a := docID(t, g, "a.src")
	b := docID(t, g, "b.src")
	sess := NewSession(g)

	if !sess.Empty() {
		t.Fatalf("fresh session must be empty")
	}
	if err := sess.QueueInsert(b, 0, "x"); err != nil {
		t.Fatalf("queue: %v", err)
	}
	if err := sess.QueueInsert(a, 0, "y"); err != nil {
		t.Fatalf("queue: %v", err)
	}
	if err := sess.QueueInsert(a, 3, "z"); err != nil {
		t.Fatalf("queue: %v", err)
	}

	if sess.Empty() || sess.TotalEdits() != 3 || sess.EditCount(a) != 2 {
		t.Fatalf("bookkeeping off: total=%d, a=%d", sess.TotalEdits(), sess.EditCount(a))
	}
	touched := sess.TouchedDocs()
	if len(touched) != 2 || touched[0] != b || touched[1] != a {
		t.Fatalf("TouchedDocs = %v, want first-touch order [%d %d]", touched, b, a)
	}
}
