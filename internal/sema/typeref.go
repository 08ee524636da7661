package sema

// TypeRef names a type together with its nullability annotation. Nullability
// is part of equality everywhere parameters are matched: a non-nullable T
// does not satisfy a request for T?, and vice versa.
type TypeRef struct {
	Sym      SymbolID
	Nullable bool
}

// NoTypeRef is the absent type.
var NoTypeRef = TypeRef{}

// IsValid reports whether the ref names a type.
func (t TypeRef) IsValid() bool { return t.Sym.IsValid() }

// Equal reports exact equality including the nullability annotation.
func (t TypeRef) Equal(other TypeRef) bool {
	return t.Sym == other.Sym && t.Nullable == other.Nullable
}

// WithNullable returns the nullable form of t.
func (t TypeRef) WithNullable() TypeRef {
	t.Nullable = true
	return t
}

// Render returns the display form of the type, with a trailing "?" for the
// nullable annotation.
func (t TypeRef) Render(syms *Symbols) string {
	if !t.IsValid() {
		return "<none>"
	}
	name := syms.Name(t.Sym)
	if t.Nullable {
		return name + "?"
	}
	return name
}
