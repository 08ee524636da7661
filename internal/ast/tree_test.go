package ast

import (
	"testing"

	"weft/internal/source"
)

// buildDeclTree assembles the usual declaration shape over a 40-byte
// document: a decl with a parameter list and a block holding one invocation.
func buildDeclTree() (*Tree, NodeID, NodeID, NodeID, NodeID) {
	t := NewTree(source.DocID(1), 8)
	decl := t.Add(NodeMethodDecl, source.Span{Start: 0, End: 40}, NoNodeID)
	plist := t.Add(NodeParameterList, source.Span{Start: 9, End: 11}, decl)
	block := t.Add(NodeBlock, source.Span{Start: 12, End: 40}, decl)
	inv := t.Add(NodeInvocation, source.Span{Start: 14, End: 20}, block)
	return t, decl, plist, block, inv
}

func TestTreeRootAndParents(t *testing.T) {
	tree, decl, plist, block, inv := buildDeclTree()

	if tree.Root() != decl {
		t.Fatalf("root = %d, want %d", tree.Root(), decl)
	}
	if tree.Parent(plist) != decl || tree.Parent(block) != decl {
		t.Fatalf("direct children must point at the decl")
	}
	if tree.Parent(inv) != block {
		t.Fatalf("Parent(inv) = %d, want %d", tree.Parent(inv), block)
	}
	if tree.Parent(decl) != NoNodeID {
		t.Fatalf("root parent must be the sentinel")
	}
	if tree.Len() != 4 {
		t.Fatalf("Len = %d, want 4", tree.Len())
	}
}

func TestTreeSpansCarryDocID(t *testing.T) {
	tree, decl, _, _, _ := buildDeclTree()
	if sp := tree.Span(decl); sp.Doc != tree.Doc {
		t.Fatalf("Add must stamp the tree's document onto spans, got %v", sp)
	}
}

func TestTreeChildLookups(t *testing.T) {
	tree, decl, plist, block, _ := buildDeclTree()

	if got := tree.ChildOfKind(decl, NodeParameterList); got != plist {
		t.Fatalf("ChildOfKind(parameter list) = %d, want %d", got, plist)
	}
	if got := tree.ChildOfKind(decl, NodeArgumentList); got != NoNodeID {
		t.Fatalf("missing kind must return the sentinel, got %d", got)
	}
	if got := tree.ChildrenOfKind(decl, NodeBlock); len(got) != 1 || got[0] != block {
		t.Fatalf("ChildrenOfKind(block) = %v", got)
	}
}

func TestTreeAncestorOfKind(t *testing.T) {
	tree, decl, _, block, inv := buildDeclTree()

	if got := tree.AncestorOfKind(inv, NodeMethodDecl); got != decl {
		t.Fatalf("AncestorOfKind = %d, want %d", got, decl)
	}
	if got := tree.AncestorOfKind(inv, NodeBlock); got != block {
		t.Fatalf("AncestorOfKind(block) = %d, want %d", got, block)
	}
	// The walk starts at the parent: a node is not its own ancestor.
	if got := tree.AncestorOfKind(decl, NodeMethodDecl); got != NoNodeID {
		t.Fatalf("self must not be an ancestor, got %d", got)
	}
}

func TestTreeNodeAt(t *testing.T) {
	tree, decl, plist, _, inv := buildDeclTree()

	if got := tree.NodeAt(15); got != inv {
		t.Fatalf("NodeAt(15) = %d, want innermost %d", got, inv)
	}
	if got := tree.NodeAt(10); got != plist {
		t.Fatalf("NodeAt(10) = %d, want %d", got, plist)
	}
	// Offset covered only by the root.
	if got := tree.NodeAt(5); got != decl {
		t.Fatalf("NodeAt(5) = %d, want %d", got, decl)
	}
	if got := tree.NodeAt(99); got != NoNodeID {
		t.Fatalf("NodeAt outside the root must return the sentinel, got %d", got)
	}
}

func TestTreeCoveringNode(t *testing.T) {
	tree, decl, _, block, inv := buildDeclTree()

	if got := tree.CoveringNode(source.Span{Doc: tree.Doc, Start: 14, End: 20}); got != inv {
		t.Fatalf("exact span = %d, want %d", got, inv)
	}
	if got := tree.CoveringNode(source.Span{Doc: tree.Doc, Start: 14, End: 30}); got != block {
		t.Fatalf("span crossing the invocation = %d, want %d", got, block)
	}
	if got := tree.CoveringNode(source.Span{Doc: tree.Doc, Start: 0, End: 40}); got != decl {
		t.Fatalf("whole span = %d, want the root", got)
	}
	if got := tree.CoveringNode(source.Span{Doc: source.DocID(9), Start: 14, End: 20}); got != NoNodeID {
		t.Fatalf("foreign-document span must return the sentinel, got %d", got)
	}
}

func TestArenaBounds(t *testing.T) {
	a := NewArena[int](0)
	id := a.Allocate(7)
	if id != 1 {
		t.Fatalf("first allocation must get id 1, got %d", id)
	}
	if got := a.Get(id); got == nil || *got != 7 {
		t.Fatalf("Get(%d) = %v", id, got)
	}
	if a.Get(0) != nil {
		t.Fatalf("sentinel must resolve to nil")
	}
	if a.Get(2) != nil {
		t.Fatalf("out-of-range id must resolve to nil")
	}
}
