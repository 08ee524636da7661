package testkit

import (
	"fmt"

	"weft/internal/ast"
	"weft/internal/sema"
	"weft/internal/source"
)

// AmbientScene is the recurring shape most engine and rule tests need: a
// context type, a static accessor on an app type, a method that reads the
// accessor inside its body, and any number of single-call caller documents.
type AmbientScene struct {
	Fix *Fixture

	CtxType sema.SymbolID // the type to thread ("Ctx")
	AppType sema.SymbolID // owner of the static accessor ("App")
	Current sema.SymbolID // the App.Current property
	Callee  sema.SymbolID // the method reading the accessor ("Do")

	CalleeDoc  *Doc
	AccessSpan source.Span // span of the App.Current read
}

// NewAmbientScene builds the callee document:
//
//	method Do() { log(App.Current) }
//
// with its node and operation trees wired the way a frontend snapshot would
// deliver them.
func NewAmbientScene() *AmbientScene {
	f := NewFixture()
	s := &AmbientScene{Fix: f}

	s.CtxType = f.TypeSym("Ctx")
	s.AppType = f.TypeSym("App")
	ctxRef := f.Ref(s.CtxType, false)
	s.Current = f.Member(sema.SymbolProperty, s.AppType, "Current", ctxRef,
		sema.SymbolFlagStatic|sema.SymbolFlagAmbient)

	doc := f.AddDoc("svc.src", "method Do() { log(App.Current) }")
	s.CalleeDoc = doc

	decl := doc.Node(ast.NodeMethodDecl, doc.Mark("method Do() { log(App.Current) }", 0), ast.NoNodeID)
	doc.Node(ast.NodeParameterList, doc.Mark("()", 0), decl)
	block := doc.Node(ast.NodeBlock, doc.Mark("{ log(App.Current) }", 0), decl)
	s.AccessSpan = doc.Mark("App.Current", 0)
	access := doc.Node(ast.NodeMemberAccess, s.AccessSpan, block)

	s.Callee = f.Callable(sema.SymbolMethod, sema.NoSymbolID, "Do", sema.NoTypeRef,
		sema.DeclRef{Doc: doc.ID, Node: decl})

	body := doc.Op(sema.OpMethodBody, decl, sema.NoOperID, s.Callee, sema.NoTypeRef)
	doc.Op(sema.OpPropertyReference, access, body, s.Current, ctxRef)

	return s
}

// Caller bundles the handles of one generated caller document.
type Caller struct {
	Doc    *Doc
	Method sema.SymbolID
	Span   source.Span // span of the Do() invocation
}

// AddCaller builds one caller document:
//
//	method <name>() { Do() }
//
// whose single invocation targets the scene's callee.
func (s *AmbientScene) AddCaller(docName, methodName string) Caller {
	content := fmt.Sprintf("method %s() { Do() }", methodName)
	doc := s.Fix.AddDoc(docName, content)

	decl := doc.Node(ast.NodeMethodDecl, doc.Mark(content, 0), ast.NoNodeID)
	doc.Node(ast.NodeParameterList, doc.Mark("()", 0), decl)
	block := doc.Node(ast.NodeBlock, doc.Mark("{ Do() }", 0), decl)
	invSpan := doc.Mark("Do()", 0)
	inv := doc.Node(ast.NodeInvocation, invSpan, block)
	doc.Node(ast.NodeArgumentList, doc.Mark("()", 1), inv)

	method := s.Fix.Callable(sema.SymbolMethod, sema.NoSymbolID, methodName, sema.NoTypeRef,
		sema.DeclRef{Doc: doc.ID, Node: decl})

	body := doc.Op(sema.OpMethodBody, decl, sema.NoOperID, method, sema.NoTypeRef)
	doc.Op(sema.OpInvocation, inv, body, s.Callee, sema.NoTypeRef)

	return Caller{Doc: doc, Method: method, Span: invSpan}
}
