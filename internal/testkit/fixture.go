// Package testkit builds synthetic graphs and semantic models for tests.
// Production models come from the host frontend's snapshot; tests assemble
// small ones by hand with the helpers here.
package testkit

import (
	"fmt"
	"strings"

	"weft/internal/ast"
	"weft/internal/sema"
	"weft/internal/source"
)

// Fixture pairs an editable graph with a hand-built semantic model.
type Fixture struct {
	Graph *source.Graph
	Model *sema.Model
}

func NewFixture() *Fixture {
	return &Fixture{
		Graph: source.NewGraph(""),
		Model: sema.NewModel(sema.NewSymbols(16, nil)),
	}
}

// Doc wraps one synthetic document together with its node and operation
// trees.
type Doc struct {
	ID   source.DocID
	Tree *ast.Tree
	Ops  *sema.OpTree
	text string
}

// AddDoc registers a virtual document and empty trees ready for population.
func (f *Fixture) AddDoc(name, content string) *Doc {
	id := f.Graph.AddVirtual(name, []byte(content))
	d := &Doc{
		ID:   id,
		Tree: ast.NewTree(id, 16),
		Ops:  sema.NewOpTree(id, 16),
		text: content,
	}
	f.Model.AddTree(d.Tree)
	f.Model.AddOps(d.Ops)
	return d
}

// Exclude removes a document from the editable graph while the model keeps
// knowing it. Call after every AddDoc is done.
func (f *Fixture) Exclude(d *Doc) {
	f.Graph = f.Graph.Exclude(d.ID)
}

// Mark returns the span of the nth occurrence (0-based) of substr in the
// document text. Panics when the occurrence does not exist: a fixture with a
// wrong marker is a broken test, not a condition to handle.
func (d *Doc) Mark(substr string, nth int) source.Span {
	off := 0
	for i := 0; ; i++ {
		idx := strings.Index(d.text[off:], substr)
		if idx < 0 {
			panic(fmt.Sprintf("testkit: occurrence %d of %q not found in %q", nth, substr, d.text))
		}
		pos := off + idx
		if i == nth {
			return source.Span{Doc: d.ID, Start: uint32(pos), End: uint32(pos + len(substr))}
		}
		off = pos + 1
	}
}

// Node allocates a syntax node over sp.
func (d *Doc) Node(kind ast.NodeKind, sp source.Span, parent ast.NodeID) ast.NodeID {
	return d.Tree.Add(kind, sp, parent)
}

// Op allocates an operation attached to node.
func (d *Doc) Op(kind sema.OpKind, node ast.NodeID, parent sema.OperID, sym sema.SymbolID, typ sema.TypeRef) sema.OperID {
	return d.Ops.Add(kind, node, parent, sym, typ)
}

func (f *Fixture) intern(name string) source.StringID {
	return f.Model.Symbols.Strings.Intern(name)
}

// TypeSym declares a type symbol.
func (f *Fixture) TypeSym(name string) sema.SymbolID {
	return f.Model.Symbols.New(sema.Symbol{Name: f.intern(name), Kind: sema.SymbolType})
}

// TypeWithBase declares a type symbol deriving from base.
func (f *Fixture) TypeWithBase(name string, base sema.SymbolID, decl sema.DeclRef) sema.SymbolID {
	return f.Model.Symbols.New(sema.Symbol{
		Name: f.intern(name),
		Kind: sema.SymbolType,
		Base: base,
		Decl: decl,
	})
}

// Ref builds a type reference.
func (f *Fixture) Ref(sym sema.SymbolID, nullable bool) sema.TypeRef {
	return sema.TypeRef{Sym: sym, Nullable: nullable}
}

// Callable declares a method, accessor, or constructor symbol.
func (f *Fixture) Callable(kind sema.SymbolKind, owner sema.SymbolID, name string, ret sema.TypeRef, decl sema.DeclRef) sema.SymbolID {
	return f.Model.Symbols.New(sema.Symbol{
		Name:  f.intern(name),
		Kind:  kind,
		Owner: owner,
		Type:  ret,
		Decl:  decl,
	})
}

// Member declares a property or field symbol on owner.
func (f *Fixture) Member(kind sema.SymbolKind, owner sema.SymbolID, name string, typ sema.TypeRef, flags sema.SymbolFlags) sema.SymbolID {
	return f.Model.Symbols.New(sema.Symbol{
		Name:  f.intern(name),
		Kind:  kind,
		Flags: flags,
		Owner: owner,
		Type:  typ,
	})
}

// Param declares a parameter symbol and appends it to the callable's
// parameter list.
func (f *Fixture) Param(callable sema.SymbolID, name string, typ sema.TypeRef, decl sema.DeclRef) sema.SymbolID {
	id := f.Model.Symbols.New(sema.Symbol{
		Name:  f.intern(name),
		Kind:  sema.SymbolParam,
		Owner: callable,
		Type:  typ,
		Decl:  decl,
	})
	sym := f.Model.Symbols.Get(callable)
	if sym == nil {
		panic(fmt.Sprintf("testkit: param on unknown callable %d", callable))
	}
	sym.Params = append(sym.Params, id)
	return id
}
