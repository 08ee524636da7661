package sema

// SymbolID identifies a symbol inside the model arena.
type SymbolID uint32

// NoSymbolID marks the absence of a symbol reference.
const NoSymbolID SymbolID = 0

// IsValid reports whether the symbol ID refers to an allocated symbol.
func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// OperID identifies an operation inside one document's operation tree.
type OperID uint32

// NoOperID marks the absence of an operation reference.
const NoOperID OperID = 0

// IsValid reports whether the operation ID refers to an allocated operation.
func (id OperID) IsValid() bool { return id != NoOperID }
