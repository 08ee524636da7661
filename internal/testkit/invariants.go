package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"weft/internal/ast"
	"weft/internal/source"
)

// CheckTreeInvariants runs structural span checks over one document tree:
// 1) every span targets the tree's document and lies within content bounds
// 2) every child span is fully contained in its parent's span
// 3) the root covers the union of its descendants
func CheckTreeInvariants(t *ast.Tree, doc *source.Document) error {
	if t == nil || doc == nil {
		return fmt.Errorf("nil tree or document")
	}
	if !t.Root().IsValid() {
		if t.Len() > 0 {
			return fmt.Errorf("tree has %d nodes but no root", t.Len())
		}
		return nil
	}
	lenContent, err := safecast.Conv[uint32](len(doc.Content))
	if err != nil {
		return fmt.Errorf("content length overflow: %w", err)
	}

	var union source.Span
	haveChild := false
	for i := uint32(1); i <= t.Len(); i++ {
		id := ast.NodeID(i)
		n := t.Get(id)
		if n == nil {
			return fmt.Errorf("nil node for id=%d", id)
		}
		sp := n.Span
		if sp.Doc != t.Doc {
			return fmt.Errorf("node %d span targets document %d, tree owns %d", id, sp.Doc, t.Doc)
		}
		if sp.Start > sp.End || sp.End > lenContent {
			return fmt.Errorf("node %d span %s out of content bounds (%d)", id, sp, lenContent)
		}
		if n.Parent.IsValid() {
			parent := t.Get(n.Parent)
			if parent == nil {
				return fmt.Errorf("node %d has dangling parent %d", id, n.Parent)
			}
			if !parent.Span.Contains(sp) {
				return fmt.Errorf("node %d span %s escapes parent span %s", id, sp, parent.Span)
			}
		}
		if id != t.Root() {
			if !haveChild {
				union = sp
				haveChild = true
			} else {
				union = union.Cover(sp)
			}
		}
	}

	if haveChild && !t.Span(t.Root()).Contains(union) {
		return fmt.Errorf("root span %s does not cover descendant union %s", t.Span(t.Root()), union)
	}
	return nil
}
