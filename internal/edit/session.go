// Package edit accumulates structural text edits across many documents and
// materializes them into a fresh graph snapshot in one atomic step. The
// original graph is never mutated: materialization either produces a new
// snapshot with every queued edit applied, or fails and hands the caller the
// input graph unchanged.
package edit

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"weft/internal/source"
)

// ErrEditConflict is returned when queued edits cannot be replayed
// consistently; the whole session aborts, no document is partially edited.
var ErrEditConflict = errors.New("conflicting edits")

// ErrSessionClosed is returned when a session is used after Materialize.
var ErrSessionClosed = errors.New("edit session already materialized")

// TextEdit replaces the text covered by Span with NewText. OldText, when
// non-empty, is a guard: the replay fails unless the document still carries
// exactly that text at the span.
type TextEdit struct {
	Span    source.Span
	OldText string
	NewText string
}

// Session is the process-local accumulator of pending edits, keyed by
// document identity. It is mutated by a single logical flow; no internal
// locking is needed.
type Session struct {
	graph  *source.Graph
	edits  map[source.DocID][]TextEdit
	order  []source.DocID // first-touch order, for stable iteration
	closed bool
}

// NewSession creates an empty session over the given graph snapshot.
func NewSession(graph *source.Graph) *Session {
	return &Session{
		graph: graph,
		edits: make(map[source.DocID][]TextEdit),
	}
}

// Graph returns the snapshot the session was opened over.
func (s *Session) Graph() *source.Graph { return s.graph }

// Queue appends a replacement of span with newText. oldText, when non-empty,
// must match the current document content at span both now and at replay
// time. Edits queued for the same document must not overlap.
func (s *Session) Queue(sp source.Span, oldText, newText string) error {
	if s.closed {
		return ErrSessionClosed
	}
	doc := s.graph.Document(sp.Doc)
	if doc == nil {
		return fmt.Errorf("queue edit: document %d not in graph", sp.Doc)
	}
	if sp.Start > sp.End || int(sp.End) > len(doc.Content) {
		return fmt.Errorf("queue edit: span %s out of range for %s", sp, doc.Path)
	}
	if oldText != "" && string(doc.Content[sp.Start:sp.End]) != oldText {
		return fmt.Errorf("queue edit: %s: existing text does not match expected content", doc.Path)
	}
	for _, prev := range s.edits[sp.Doc] {
		if prev.Span.Overlaps(sp) {
			return fmt.Errorf("%w: %s overlaps %s in %s", ErrEditConflict, sp, prev.Span, doc.Path)
		}
	}
	if _, touched := s.edits[sp.Doc]; !touched {
		s.order = append(s.order, sp.Doc)
	}
	s.edits[sp.Doc] = append(s.edits[sp.Doc], TextEdit{Span: sp, OldText: oldText, NewText: newText})
	return nil
}

// QueueInsert appends a pure insertion at a byte offset.
func (s *Session) QueueInsert(doc source.DocID, off uint32, text string) error {
	return s.Queue(source.Span{Doc: doc, Start: off, End: off}, "", text)
}

// Empty reports whether nothing has been queued.
func (s *Session) Empty() bool { return len(s.edits) == 0 }

// EditCount returns the number of edits queued for doc.
func (s *Session) EditCount(doc source.DocID) int { return len(s.edits[doc]) }

// TotalEdits returns the number of edits queued across all documents.
func (s *Session) TotalEdits() int {
	n := 0
	for _, edits := range s.edits {
		n += len(edits)
	}
	return n
}

// TouchedDocs returns the documents with queued edits, in first-touch order.
func (s *Session) TouchedDocs() []source.DocID {
	out := make([]source.DocID, len(s.order))
	copy(out, s.order)
	return out
}

// Materialize replays every queued edit exactly once and returns a fresh
// graph where each modified document is replaced and untouched documents are
// shared by reference. All-or-nothing: if any replay fails, the input graph
// is returned unchanged alongside the error. The session is closed either
// way; a fresh session must be opened for further edits.
func (s *Session) Materialize(ctx context.Context) (*source.Graph, error) {
	if s.closed {
		return s.graph, ErrSessionClosed
	}
	s.closed = true

	if len(s.edits) == 0 {
		return s.graph, nil
	}
	if err := ctx.Err(); err != nil {
		return s.graph, err
	}

	replaced := make([]*source.Document, 0, len(s.edits))
	for _, docID := range s.order {
		if err := ctx.Err(); err != nil {
			return s.graph, err
		}
		doc := s.graph.Document(docID)
		if doc == nil {
			return s.graph, fmt.Errorf("%w: document %d vanished from graph", ErrEditConflict, docID)
		}
		next, err := applyEdits(doc, s.edits[docID])
		if err != nil {
			return s.graph, err
		}
		replaced = append(replaced, next)
	}

	out, err := s.graph.WithDocuments(replaced)
	if err != nil {
		return s.graph, fmt.Errorf("%w: %v", ErrEditConflict, err)
	}
	return out, nil
}

// applyEdits replays edits against one document and builds its replacement.
// Edits are applied in descending span order so earlier replacements never
// shift the offsets of later ones.
func applyEdits(doc *source.Document, edits []TextEdit) (*source.Document, error) {
	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start == sorted[j].Span.Start {
			return sorted[i].Span.End > sorted[j].Span.End
		}
		return sorted[i].Span.Start > sorted[j].Span.Start
	})

	working := append([]byte(nil), doc.Content...)
	for _, e := range sorted {
		start, end := int(e.Span.Start), int(e.Span.End)
		if start < 0 || end < start || end > len(working) {
			return nil, fmt.Errorf("%w: edit span %s out of range in %s", ErrEditConflict, e.Span, doc.Path)
		}
		if e.OldText != "" && string(working[start:end]) != e.OldText {
			return nil, fmt.Errorf("%w: %s: existing text does not match expected content", ErrEditConflict, doc.Path)
		}
		suffix := append([]byte(nil), working[end:]...)
		working = append(append(working[:start], []byte(e.NewText)...), suffix...)
	}

	return doc.Replace(working), nil
}
