package thread

import (
	"fmt"

	"weft/internal/ast"
	"weft/internal/edit"
	"weft/internal/index"
	"weft/internal/sema"
)

// CallSiteRewriter is the rule-specific hook invoked once per discovered
// call site. The engine supplies the located call site and the symbol being
// replaced; the strategy decides the replacement expression and queues the
// edit against the call site's document in the shared session. Returning an
// error marks the site as skipped; the remaining sites still proceed.
type CallSiteRewriter interface {
	RewriteCallSite(cs index.CallSite, replaced sema.SymbolID, sess *edit.Session) error
}

// RewriterFunc adapts a function to the CallSiteRewriter interface.
type RewriterFunc func(cs index.CallSite, replaced sema.SymbolID, sess *edit.Session) error

func (f RewriterFunc) RewriteCallSite(cs index.CallSite, replaced sema.SymbolID, sess *edit.Session) error {
	return f(cs, replaced, sess)
}

// AppendArgument queues the insertion of argText as the last argument of the
// invocation at cs.
func AppendArgument(m *sema.Model, sess *edit.Session, cs index.CallSite, argText string) error {
	tree := m.Tree(cs.Doc)
	if tree == nil {
		return fmt.Errorf("call site document %d not in model", cs.Doc)
	}
	arglist := tree.ChildOfKind(cs.Node, ast.NodeArgumentList)
	if !arglist.IsValid() {
		return fmt.Errorf("call site at %s has no argument list", cs.Span)
	}
	sp := tree.Span(arglist)
	if sp.Empty() {
		return fmt.Errorf("call site at %s has an empty argument list span", cs.Span)
	}
	text := argText
	if len(tree.ChildrenOfKind(arglist, ast.NodeArgument)) > 0 {
		text = ", " + argText
	}
	return sess.QueueInsert(cs.Doc, sp.End-1, text)
}

// EnclosingCallable resolves the declaration symbol whose body contains the
// given call site, using the same predicate the engine used for the callee.
// Useful for forwarding strategies that want to reuse a caller-side
// parameter.
func EnclosingCallable(m *sema.Model, cs index.CallSite, pred EnclosingPredicate) sema.SymbolID {
	ops := m.Ops(cs.Doc)
	if ops == nil {
		return sema.NoSymbolID
	}
	declOp := LocateEnclosing(ops, cs.Oper, pred)
	if !declOp.IsValid() {
		return sema.NoSymbolID
	}
	sym, ok := sema.TargetSymbol(ops.Get(declOp))
	if !ok {
		return sema.NoSymbolID
	}
	return sym
}

// SameTypedParam returns the first parameter of decl whose type matches want
// exactly, honoring nullability.
func SameTypedParam(m *sema.Model, decl sema.SymbolID, want sema.TypeRef) sema.SymbolID {
	sym := m.Symbols.Get(decl)
	if sym == nil {
		return sema.NoSymbolID
	}
	for _, pid := range sym.Params {
		p := m.Symbols.Get(pid)
		if p != nil && p.Type.Equal(want) {
			return pid
		}
	}
	return sema.NoSymbolID
}
