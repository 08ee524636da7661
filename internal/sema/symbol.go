package sema

import (
	"weft/internal/ast"
	"weft/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolType
	SymbolMethod
	SymbolAccessor
	SymbolConstructor
	SymbolProperty
	SymbolField
	SymbolParam
	SymbolLocal
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolType:
		return "type"
	case SymbolMethod:
		return "method"
	case SymbolAccessor:
		return "accessor"
	case SymbolConstructor:
		return "constructor"
	case SymbolProperty:
		return "property"
	case SymbolField:
		return "field"
	case SymbolParam:
		return "param"
	case SymbolLocal:
		return "local"
	default:
		return "invalid"
	}
}

// IsCallable reports whether symbols of this kind can have call sites.
func (k SymbolKind) IsCallable() bool {
	switch k {
	case SymbolMethod, SymbolAccessor, SymbolConstructor:
		return true
	default:
		return false
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	SymbolFlagStatic SymbolFlags = 1 << iota
	SymbolFlagObsolete
	SymbolFlagSynthesized // host-synthesized, no declaring syntax
	SymbolFlagAmbient     // cross-cutting ambient state accessor
)

// DeclRef points at the declaring syntax of a symbol. A zero ref means the
// symbol has no retrievable syntax (host-synthesized).
type DeclRef struct {
	Doc  source.DocID
	Node ast.NodeID
}

// IsValid reports whether the ref resolves to actual syntax.
func (r DeclRef) IsValid() bool { return r.Doc.IsValid() && r.Node.IsValid() }

// Symbol is the stable identity of a declared entity. Symbols are shared
// read-only across the whole graph; nothing may mutate one after the model
// is built.
type Symbol struct {
	Name   source.StringID
	Kind   SymbolKind
	Flags  SymbolFlags
	Owner  SymbolID // containing type or callable
	Type   TypeRef  // declared type; return type for callables
	Base   SymbolID // base type, for type symbols
	Decl   DeclRef
	Params []SymbolID // ordered, for callables
}

// Symbols aggregates the symbol arena and its interner.
type Symbols struct {
	arena   *ast.Arena[Symbol]
	Strings *source.Interner
}

// NewSymbols builds a fresh symbol table. If strings is nil a fresh interner
// is allocated.
func NewSymbols(capHint uint, strings *source.Interner) *Symbols {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Symbols{
		arena:   ast.NewArena[Symbol](capHint),
		Strings: strings,
	}
}

// New allocates a symbol and returns its ID.
func (s *Symbols) New(sym Symbol) SymbolID {
	return SymbolID(s.arena.Allocate(sym))
}

// Get returns the symbol for id, or nil for the sentinel.
func (s *Symbols) Get(id SymbolID) *Symbol {
	if s == nil {
		return nil
	}
	return s.arena.Get(uint32(id))
}

// Len returns the number of allocated symbols.
func (s *Symbols) Len() uint32 { return s.arena.Len() }

// Name resolves the interned name of id; empty for the sentinel.
func (s *Symbols) Name(id SymbolID) string {
	sym := s.Get(id)
	if sym == nil {
		return ""
	}
	name, _ := s.Strings.Lookup(sym.Name)
	return name
}

// All iterates allocated symbol IDs in allocation order.
func (s *Symbols) All(yield func(SymbolID, *Symbol) bool) {
	data := s.arena.Slice()
	for i := range data {
		if !yield(SymbolID(i+1), &data[i]) {
			return
		}
	}
}
