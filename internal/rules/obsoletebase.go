package rules

import (
	"context"
	"fmt"

	"weft/internal/ast"
	"weft/internal/diag"
	"weft/internal/edit"
	"weft/internal/sema"
	"weft/internal/source"
)

// ObsoleteBase flags type declarations extending a base type the manifest
// marks obsolete. The fix is a single-node swap of the base type name for
// its configured replacement.
type ObsoleteBase struct{}

func (*ObsoleteBase) Name() string { return "obsoletebase" }

func (*ObsoleteBase) Code() diag.Code { return diag.DeclObsoleteBase }

// baseNameNode locates the type-name node inside decl's base list whose
// text matches baseName.
func baseNameNode(ws *Workspace, decl sema.DeclRef, baseName string) (ast.NodeID, source.Span) {
	tree := ws.Model.Tree(decl.Doc)
	doc := ws.Graph.Document(decl.Doc)
	if tree == nil || doc == nil {
		return ast.NoNodeID, source.Span{}
	}
	baseList := tree.ChildOfKind(decl.Node, ast.NodeBaseList)
	if !baseList.IsValid() {
		return ast.NoNodeID, source.Span{}
	}
	for _, nameNode := range tree.ChildrenOfKind(baseList, ast.NodeTypeName) {
		sp := tree.Span(nameNode)
		if string(doc.Text(sp)) == baseName {
			return nameNode, sp
		}
	}
	return ast.NoNodeID, source.Span{}
}

func (*ObsoleteBase) Scan(ctx context.Context, ws *Workspace, rep diag.Reporter) error {
	replacements := ws.Manifest.Config.Rules.ObsoleteBase
	if len(replacements) == 0 {
		return nil
	}

	var scanErr error
	ws.Model.Symbols.All(func(id sema.SymbolID, sym *sema.Symbol) bool {
		if err := ctx.Err(); err != nil {
			scanErr = err
			return false
		}
		if sym.Kind != sema.SymbolType || !sym.Base.IsValid() || !sym.Decl.IsValid() {
			return true
		}
		baseName := ws.Model.Symbols.Name(sym.Base)
		replacement, obsolete := replacements[baseName]
		if !obsolete {
			return true
		}
		_, sp := baseNameNode(ws, sym.Decl, baseName)
		if sp.Empty() {
			return true
		}
		msg := fmt.Sprintf("%s extends obsolete base %s; use %s",
			ws.Model.Symbols.Name(id), baseName, replacement)
		rep.Report(diag.DeclObsoleteBase, diag.SevWarning, sp, msg, nil)
		return true
	})
	return scanErr
}

// Fix swaps the diagnosed base type name for its replacement.
func (*ObsoleteBase) Fix(ctx context.Context, ws *Workspace, d diag.Diagnostic) (FixResult, error) {
	doc := ws.Graph.Document(d.Primary.Doc)
	if doc == nil {
		return FixResult{Graph: ws.Graph}, nil
	}
	oldName := string(doc.Text(d.Primary))
	replacement, ok := ws.Manifest.Config.Rules.ObsoleteBase[oldName]
	if !ok {
		return FixResult{Graph: ws.Graph}, nil
	}

	sess := edit.NewSession(ws.Graph)
	if err := sess.Queue(d.Primary, oldName, replacement); err != nil {
		return FixResult{Graph: ws.Graph}, err
	}
	next, err := sess.Materialize(ctx)
	if err != nil {
		return FixResult{Graph: ws.Graph}, err
	}
	return FixResult{
		Graph:   next,
		Applied: true,
		Title:   fmt.Sprintf("replace base %s with %s", oldName, replacement),
		Edits:   1,
	}, nil
}
