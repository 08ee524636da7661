package thread

import (
	"testing"

	"weft/internal/ast"
	"weft/internal/sema"
	"weft/internal/source"
)

func TestEnclosingPredicates(t *testing.T) {
	tests := []struct {
		kind    sema.OpKind
		methods bool
		anyBody bool
	}{
		{sema.OpMethodBody, true, true},
		{sema.OpConstructorBody, true, true},
		{sema.OpAccessorBody, false, true},
		{sema.OpLambdaBody, false, false},
		{sema.OpBlock, false, false},
		{sema.OpInvocation, false, false},
	}
	for _, tt := range tests {
		op := &sema.Operation{Kind: tt.kind}
		if got := MethodsOnly(op); got != tt.methods {
			t.Errorf("MethodsOnly(%v) = %v, want %v", tt.kind, got, tt.methods)
		}
		if got := AnyDeclaredBody(op); got != tt.anyBody {
			t.Errorf("AnyDeclaredBody(%v) = %v, want %v", tt.kind, got, tt.anyBody)
		}
	}
	if MethodsOnly(nil) || AnyDeclaredBody(nil) {
		t.Fatalf("nil operation must never match")
	}
}

func TestLocateEnclosingWalksParents(t *testing.T) {
	doc := source.DocID(1)
	ops := sema.NewOpTree(doc, 4)
	body := ops.Add(sema.OpMethodBody, ast.NodeID(1), sema.NoOperID, sema.SymbolID(1), sema.NoTypeRef)
	block := ops.Add(sema.OpBlock, ast.NodeID(2), body, sema.NoSymbolID, sema.NoTypeRef)
	ref := ops.Add(sema.OpPropertyReference, ast.NodeID(3), block, sema.SymbolID(2), sema.NoTypeRef)

	if got := LocateEnclosing(ops, ref, MethodsOnly); got != body {
		t.Fatalf("LocateEnclosing = %d, want %d", got, body)
	}
	// The start operation itself is considered.
	if got := LocateEnclosing(ops, body, MethodsOnly); got != body {
		t.Fatalf("LocateEnclosing from the body = %d, want %d", got, body)
	}
}

func TestLocateEnclosingLambdaBoundary(t *testing.T) {
	doc := source.DocID(1)
	ops := sema.NewOpTree(doc, 4)
	body := ops.Add(sema.OpMethodBody, ast.NodeID(1), sema.NoOperID, sema.SymbolID(1), sema.NoTypeRef)
	lambda := ops.Add(sema.OpLambdaBody, ast.NodeID(2), body, sema.SymbolID(2), sema.NoTypeRef)
	ref := ops.Add(sema.OpPropertyReference, ast.NodeID(3), lambda, sema.SymbolID(3), sema.NoTypeRef)

	// MethodsOnly walks through the lambda to the enclosing method.
	if got := LocateEnclosing(ops, ref, MethodsOnly); got != body {
		t.Fatalf("walk through lambda = %d, want %d", got, body)
	}
	// A predicate rejecting everything reaches the root and reports absence.
	none := func(*sema.Operation) bool { return false }
	if got := LocateEnclosing(ops, ref, none); got != sema.NoOperID {
		t.Fatalf("no match must yield the sentinel, got %d", got)
	}
}

func TestLocateEnclosingMissingInfo(t *testing.T) {
	if got := LocateEnclosing(nil, sema.OperID(1), MethodsOnly); got != sema.NoOperID {
		t.Fatalf("nil tree must yield the sentinel, got %d", got)
	}
	ops := sema.NewOpTree(source.DocID(1), 0)
	if got := LocateEnclosing(ops, sema.NoOperID, MethodsOnly); got != sema.NoOperID {
		t.Fatalf("sentinel start must yield the sentinel, got %d", got)
	}
	if got := LocateEnclosing(ops, sema.OperID(1), nil); got != sema.NoOperID {
		t.Fatalf("nil predicate must yield the sentinel, got %d", got)
	}
}
