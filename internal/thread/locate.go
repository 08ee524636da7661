package thread

import (
	"weft/internal/sema"
)

// EnclosingPredicate decides whether an operation is a recognized enclosing
// declaration for the fix being performed. The predicate varies per rule and
// per source dialect: a rule may accept method bodies but reject lambda
// bodies, another may accept accessors too.
type EnclosingPredicate func(op *sema.Operation) bool

// MethodsOnly accepts method and constructor bodies, rejecting lambdas and
// accessors.
func MethodsOnly(op *sema.Operation) bool {
	if op == nil {
		return false
	}
	return op.Kind == sema.OpMethodBody || op.Kind == sema.OpConstructorBody
}

// AnyDeclaredBody accepts every declared executable unit except lambdas.
func AnyDeclaredBody(op *sema.Operation) bool {
	if op == nil {
		return false
	}
	return op.Kind.IsBody() && op.Kind != sema.OpLambdaBody
}

// LocateEnclosing walks the parent chain from start until pred recognizes an
// enclosing declaration. Returns NoOperID when the chain reaches the root
// without a match or when semantic information is missing; it never fails.
func LocateEnclosing(ops *sema.OpTree, start sema.OperID, pred EnclosingPredicate) sema.OperID {
	if ops == nil || pred == nil {
		return sema.NoOperID
	}
	for cur := start; cur.IsValid(); cur = ops.Parent(cur) {
		op := ops.Get(cur)
		if op == nil {
			return sema.NoOperID
		}
		if pred(op) {
			return cur
		}
	}
	return sema.NoOperID
}
