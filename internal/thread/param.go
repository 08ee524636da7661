package thread

import (
	"errors"
	"fmt"

	"weft/internal/ast"
	"weft/internal/edit"
	"weft/internal/sema"
)

// CanonicalParamName is the fixed name given to every synthesized parameter.
const CanonicalParamName = "context"

// ErrCannotReuse is reported when a same-typed parameter exists but has no
// retrievable declaring syntax. The fix must abort rather than guess.
var ErrCannotReuse = errors.New("matching parameter has no declaring syntax")

// ErrNoParameterSlot is reported when the enclosing declaration carries no
// parameter list to extend.
var ErrNoParameterSlot = errors.New("declaration has no parameter list")

// ParamRef names the parameter the threaded value travels through: either a
// reused existing parameter or the freshly inserted canonical one.
type ParamRef struct {
	Sym      sema.SymbolID // existing parameter; NoSymbolID when inserted
	Name     string
	Inserted bool
}

// EnsureParameter returns a parameter of the required type on the given
// declaration, reusing an existing one when the nullability-aware type match
// holds and appending a canonical one otherwise. The reuse path queues no
// edit, which is what makes repeated fixes idempotent.
func EnsureParameter(m *sema.Model, sess *edit.Session, declSym sema.SymbolID, want sema.TypeRef) (ParamRef, error) {
	sym := m.Symbols.Get(declSym)
	if sym == nil || !sym.Kind.IsCallable() {
		return ParamRef{}, fmt.Errorf("symbol %d is not a callable declaration", declSym)
	}

	for _, pid := range sym.Params {
		p := m.Symbols.Get(pid)
		if p == nil || !p.Type.Equal(want) {
			continue
		}
		if !p.Decl.IsValid() {
			return ParamRef{}, ErrCannotReuse
		}
		return ParamRef{Sym: pid, Name: m.Symbols.Name(pid)}, nil
	}

	if !sym.Decl.IsValid() {
		return ParamRef{}, fmt.Errorf("declaration %d has no syntax", declSym)
	}
	tree := m.Tree(sym.Decl.Doc)
	if tree == nil {
		return ParamRef{}, fmt.Errorf("declaring document %d not in model", sym.Decl.Doc)
	}
	plist := tree.ChildOfKind(sym.Decl.Node, ast.NodeParameterList)
	if !plist.IsValid() {
		return ParamRef{}, ErrNoParameterSlot
	}

	// The parameter list span includes the parentheses; new parameters go
	// just before the closing one.
	sp := tree.Span(plist)
	if sp.Empty() {
		return ParamRef{}, ErrNoParameterSlot
	}
	text := want.Render(m.Symbols) + " " + CanonicalParamName
	if len(sym.Params) > 0 {
		text = ", " + text
	}
	if err := sess.QueueInsert(sym.Decl.Doc, sp.End-1, text); err != nil {
		return ParamRef{}, err
	}
	return ParamRef{Name: CanonicalParamName, Inserted: true}, nil
}
