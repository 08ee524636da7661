package rules

import (
	"context"
	"strings"
	"testing"

	"weft/internal/ast"
	"weft/internal/diag"
	"weft/internal/project"
	"weft/internal/sema"
	"weft/internal/testkit"
)

func obsoleteWorkspace(t *testing.T) (*Workspace, *testkit.Doc) {
	t.Helper()
	fix := testkit.NewFixture()

	oldBase := fix.TypeSym("OldBase")
	doc := fix.AddDoc("legacy.src", "type Legacy : OldBase { }")
	decl := doc.Node(ast.NodeTypeDecl, doc.Mark("type Legacy : OldBase { }", 0), ast.NoNodeID)
	baseList := doc.Node(ast.NodeBaseList, doc.Mark(": OldBase", 0), decl)
	doc.Node(ast.NodeTypeName, doc.Mark("OldBase", 0), baseList)
	fix.TypeWithBase("Legacy", oldBase, sema.DeclRef{Doc: doc.ID, Node: decl})

	ws := &Workspace{
		Graph: fix.Graph,
		Model: fix.Model,
		Manifest: &project.Manifest{
			Config: project.Config{
				Rules: project.RulesConfig{
					ObsoleteBase: map[string]string{"OldBase": "NewBase"},
				},
			},
		},
	}
	return ws, doc
}

func TestObsoleteBaseScan(t *testing.T) {
	ws, doc := obsoleteWorkspace(t)

	items := scanOne(t, &ObsoleteBase{}, ws)
	if len(items) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(items), items)
	}
	d := items[0]
	if d.Code != diag.DeclObsoleteBase || d.Severity != diag.SevWarning {
		t.Fatalf("diagnostic = %+v", d)
	}
	if d.Primary != doc.Mark("OldBase", 0) {
		t.Fatalf("primary = %v, want the base name span", d.Primary)
	}
	if !strings.Contains(d.Message, "NewBase") {
		t.Fatalf("message should name the replacement: %q", d.Message)
	}
}

func TestObsoleteBaseScanIgnoresUnlistedBases(t *testing.T) {
	ws, _ := obsoleteWorkspace(t)
	ws.Manifest.Config.Rules.ObsoleteBase = map[string]string{"Other": "NewOther"}

	if items := scanOne(t, &ObsoleteBase{}, ws); len(items) != 0 {
		t.Fatalf("unlisted base reported %d diagnostics", len(items))
	}
}

func TestObsoleteBaseFix(t *testing.T) {
	ws, doc := obsoleteWorkspace(t)
	items := scanOne(t, &ObsoleteBase{}, ws)
	if len(items) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(items))
	}

	res, err := (&ObsoleteBase{}).Fix(context.Background(), ws, items[0])
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if !res.Applied || res.Edits != 1 {
		t.Fatalf("result = %+v", res)
	}
	if got := string(res.Graph.Document(doc.ID).Content); got != "type Legacy : NewBase { }" {
		t.Fatalf("fixed content = %q", got)
	}
	if got := string(ws.Graph.Document(doc.ID).Content); got != "type Legacy : OldBase { }" {
		t.Fatalf("workspace graph mutated: %q", got)
	}
}

func TestObsoleteBaseFixUnavailableForForeignSpan(t *testing.T) {
	ws, doc := obsoleteWorkspace(t)

	// A diagnostic pointing at text that is not a configured base name.
	d := diag.NewWarning(diag.DeclObsoleteBase, doc.Mark("Legacy", 0), "stale")
	res, err := (&ObsoleteBase{}).Fix(context.Background(), ws, d)
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if res.Applied || res.Graph != ws.Graph {
		t.Fatalf("fix must be unavailable: %+v", res)
	}
}
