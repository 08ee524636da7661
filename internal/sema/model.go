package sema

import (
	"sort"

	"weft/internal/ast"
	"weft/internal/source"
)

// Model is the semantic layer over a graph snapshot: per-document node and
// operation trees plus the shared symbol table. The model is supplied by the
// host frontend and is a read-only input to every rule and fixer.
//
// A model may describe more documents than the graph it is paired with: a
// call site whose document was excluded from the editable graph is still
// known semantically, and the engine skips it at rewrite time.
type Model struct {
	Symbols *Symbols
	trees   map[source.DocID]*ast.Tree
	ops     map[source.DocID]*OpTree
}

// NewModel creates an empty model around the given symbol table.
func NewModel(symbols *Symbols) *Model {
	if symbols == nil {
		symbols = NewSymbols(0, nil)
	}
	return &Model{
		Symbols: symbols,
		trees:   make(map[source.DocID]*ast.Tree),
		ops:     make(map[source.DocID]*OpTree),
	}
}

// AddTree registers the syntax tree of one document.
func (m *Model) AddTree(t *ast.Tree) {
	m.trees[t.Doc] = t
}

// AddOps registers the operation tree of one document.
func (m *Model) AddOps(t *OpTree) {
	m.ops[t.Doc] = t
}

// Tree returns the syntax tree for doc, or nil when unknown.
func (m *Model) Tree(doc source.DocID) *ast.Tree {
	return m.trees[doc]
}

// Ops returns the operation tree for doc, or nil when unknown.
func (m *Model) Ops(doc source.DocID) *OpTree {
	return m.ops[doc]
}

// DocIDs returns every document the model knows about, ascending. The order
// is what keeps reference queries deterministic.
func (m *Model) DocIDs() []source.DocID {
	out := make([]source.DocID, 0, len(m.trees))
	for id := range m.trees {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// OperationAt resolves a span to the nearest enclosing operation in doc.
// Returns NoOperID when the document or position is unknown to the model.
func (m *Model) OperationAt(doc source.DocID, sp source.Span) OperID {
	tree := m.Tree(doc)
	ops := m.Ops(doc)
	if tree == nil || ops == nil {
		return NoOperID
	}
	node := tree.CoveringNode(sp)
	if !node.IsValid() {
		return NoOperID
	}
	return ops.Enclosing(tree, node)
}

// LookupType returns the type symbol with the given display name.
func (m *Model) LookupType(name string) SymbolID {
	var found SymbolID
	m.Symbols.All(func(id SymbolID, sym *Symbol) bool {
		if sym.Kind == SymbolType && m.Symbols.Name(id) == name {
			found = id
			return false
		}
		return true
	})
	return found
}
