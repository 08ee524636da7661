package sema

// TargetSymbol maps an operation to the symbol it concerns, uniformly across
// operation kinds. Rules use it to scan a document without caring whether a
// usage appears as an invocation, an assignment target, a member read, or a
// declaration.
func TargetSymbol(op *Operation) (SymbolID, bool) {
	if op == nil {
		return NoSymbolID, false
	}
	switch op.Kind {
	case OpInvocation,
		OpPropertyReference,
		OpFieldReference,
		OpParameterReference,
		OpAssignment,
		OpObjectCreation,
		OpMethodBody,
		OpAccessorBody,
		OpConstructorBody:
		return op.Sym, op.Sym.IsValid()
	default:
		return NoSymbolID, false
	}
}

// ResultType returns the value type an operation yields, when known.
func ResultType(op *Operation) (TypeRef, bool) {
	if op == nil || !op.Type.IsValid() {
		return NoTypeRef, false
	}
	return op.Type, true
}
