package ast

import (
	"weft/internal/source"
)

// Node is one immutable element of a document's syntax tree. The parent is a
// back-reference only; children are owned by the node.
type Node struct {
	Kind     NodeKind
	Span     source.Span
	Parent   NodeID
	Children []NodeID
}

// Tree holds the parsed node arena of one document. Trees are built once by
// the snapshot loader (or by tests) and are read-only afterwards.
type Tree struct {
	Doc   source.DocID
	nodes *Arena[Node]
	root  NodeID
}

// NewTree creates an empty tree for doc with an optional capacity hint.
func NewTree(doc source.DocID, capHint uint) *Tree {
	return &Tree{
		Doc:   doc,
		nodes: NewArena[Node](capHint),
	}
}

// Add allocates a node and links it under parent (NoNodeID for the root).
// The first parentless node becomes the tree root.
func (t *Tree) Add(kind NodeKind, sp source.Span, parent NodeID) NodeID {
	sp.Doc = t.Doc
	id := NodeID(t.nodes.Allocate(Node{
		Kind:   kind,
		Span:   sp,
		Parent: parent,
	}))
	if parent.IsValid() {
		p := t.nodes.Get(uint32(parent))
		if p != nil {
			p.Children = append(p.Children, id)
		}
	} else if !t.root.IsValid() {
		t.root = id
	}
	return id
}

// Get returns the node for id, or nil for the sentinel.
func (t *Tree) Get(id NodeID) *Node {
	if t == nil {
		return nil
	}
	return t.nodes.Get(uint32(id))
}

// Root returns the root node ID.
func (t *Tree) Root() NodeID { return t.root }

// Len returns the number of allocated nodes.
func (t *Tree) Len() uint32 { return t.nodes.Len() }

// Parent returns the parent of id, or NoNodeID at the root.
func (t *Tree) Parent(id NodeID) NodeID {
	n := t.Get(id)
	if n == nil {
		return NoNodeID
	}
	return n.Parent
}

// Span returns the span of id, or the zero span for the sentinel.
func (t *Tree) Span(id NodeID) source.Span {
	n := t.Get(id)
	if n == nil {
		return source.Span{}
	}
	return n.Span
}

// ChildOfKind returns the first direct child of id with the given kind.
func (t *Tree) ChildOfKind(id NodeID, kind NodeKind) NodeID {
	n := t.Get(id)
	if n == nil {
		return NoNodeID
	}
	for _, c := range n.Children {
		if cn := t.Get(c); cn != nil && cn.Kind == kind {
			return c
		}
	}
	return NoNodeID
}

// ChildrenOfKind returns every direct child of id with the given kind, in
// declaration order.
func (t *Tree) ChildrenOfKind(id NodeID, kind NodeKind) []NodeID {
	n := t.Get(id)
	if n == nil {
		return nil
	}
	var out []NodeID
	for _, c := range n.Children {
		if cn := t.Get(c); cn != nil && cn.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// AncestorOfKind walks the parent chain from id (exclusive) until a node of
// the given kind is found.
func (t *Tree) AncestorOfKind(id NodeID, kind NodeKind) NodeID {
	for cur := t.Parent(id); cur.IsValid(); cur = t.Parent(cur) {
		if n := t.Get(cur); n != nil && n.Kind == kind {
			return cur
		}
	}
	return NoNodeID
}

// NodeAt returns the innermost node whose span contains [off, off). Returns
// NoNodeID when off lies outside the root span.
func (t *Tree) NodeAt(off uint32) NodeID {
	if t == nil || !t.root.IsValid() {
		return NoNodeID
	}
	point := source.Span{Doc: t.Doc, Start: off, End: off}
	cur := t.root
	if !t.Span(cur).Contains(point) {
		return NoNodeID
	}
	for {
		descended := false
		for _, c := range t.Get(cur).Children {
			if t.Span(c).Contains(point) {
				cur = c
				descended = true
				break
			}
		}
		if !descended {
			return cur
		}
	}
}

// CoveringNode returns the innermost node whose span fully contains sp.
func (t *Tree) CoveringNode(sp source.Span) NodeID {
	if t == nil || !t.root.IsValid() || sp.Doc != t.Doc {
		return NoNodeID
	}
	cur := t.root
	if !t.Span(cur).Contains(sp) {
		return NoNodeID
	}
	for {
		descended := false
		for _, c := range t.Get(cur).Children {
			if t.Span(c).Contains(sp) {
				cur = c
				descended = true
				break
			}
		}
		if !descended {
			return cur
		}
	}
}
