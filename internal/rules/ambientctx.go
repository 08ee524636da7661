package rules

import (
	"context"
	"fmt"
	"strings"

	"weft/internal/diag"
	"weft/internal/edit"
	"weft/internal/index"
	"weft/internal/project"
	"weft/internal/sema"
	"weft/internal/thread"
)

// AmbientCtx flags reads of cross-cutting ambient state (a static "current
// context" accessor) inside method bodies. Its fix threads the context
// through the enclosing declaration's signature and rewrites every direct
// caller to supply it.
type AmbientCtx struct{}

func (*AmbientCtx) Name() string { return "ambientctx" }

func (*AmbientCtx) Code() diag.Code { return diag.CtxAmbientRead }

// ambientSymbol resolves the configured accessor ("Owner.Member") to the
// property or field symbol it names.
func ambientSymbol(m *sema.Model, cfg project.AmbientCtxConfig) sema.SymbolID {
	owner, member, ok := strings.Cut(cfg.Accessor, ".")
	if !ok {
		return sema.NoSymbolID
	}
	ownerSym := m.LookupType(owner)
	if !ownerSym.IsValid() {
		return sema.NoSymbolID
	}
	var found sema.SymbolID
	m.Symbols.All(func(id sema.SymbolID, sym *sema.Symbol) bool {
		if sym.Owner != ownerSym {
			return true
		}
		if sym.Kind != sema.SymbolProperty && sym.Kind != sema.SymbolField {
			return true
		}
		if m.Symbols.Name(id) != member {
			return true
		}
		found = id
		return false
	})
	return found
}

// wantType resolves the threaded parameter type from the rule config.
func wantType(m *sema.Model, cfg project.AmbientCtxConfig) sema.TypeRef {
	typeSym := m.LookupType(cfg.Type)
	if !typeSym.IsValid() {
		return sema.NoTypeRef
	}
	return sema.TypeRef{Sym: typeSym, Nullable: cfg.Nullable}
}

func (r *AmbientCtx) Scan(ctx context.Context, ws *Workspace, rep diag.Reporter) error {
	cfg := ws.Manifest.Config.Rules.AmbientCtx
	if cfg.Accessor == "" {
		return nil
	}
	target := ambientSymbol(ws.Model, cfg)
	if !target.IsValid() {
		return nil
	}

	for _, doc := range ws.Model.DocIDs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ws.Graph.Document(doc) == nil {
			continue
		}
		ops := ws.Model.Ops(doc)
		tree := ws.Model.Tree(doc)
		ops.All(func(id sema.OperID, op *sema.Operation) bool {
			if op.Kind != sema.OpPropertyReference && op.Kind != sema.OpFieldReference {
				return true
			}
			if op.Sym != target {
				return true
			}
			declOp := thread.LocateEnclosing(ops, id, thread.MethodsOnly)
			if !declOp.IsValid() {
				return true
			}
			declSym, _ := sema.TargetSymbol(ops.Get(declOp))
			msg := fmt.Sprintf("%s is read inside %s; thread a %s parameter instead",
				cfg.Accessor, ws.Model.Symbols.Name(declSym), cfg.Type)
			rep.Report(diag.CtxAmbientRead, diag.SevWarning, tree.Span(op.Node), msg, []diag.Note{
				{Span: tree.Span(ops.Get(declOp).Node), Msg: "enclosing declaration here"},
			})
			return true
		})
	}
	return nil
}

// Fix runs the signature-threading engine for one ambient-read diagnostic.
func (r *AmbientCtx) Fix(ctx context.Context, ws *Workspace, d diag.Diagnostic) (FixResult, error) {
	cfg := ws.Manifest.Config.Rules.AmbientCtx
	want := wantType(ws.Model, cfg)
	if !want.IsValid() {
		return FixResult{Graph: ws.Graph}, nil
	}

	engine := thread.NewEngine(ws.Model)
	opts := thread.Options{
		Want:      want,
		Enclosing: thread.MethodsOnly,
		Rewriter:  r.rewriter(ws.Model, cfg, want),
	}

	next, outcome, err := engine.Run(ctx, ws.Graph, d, opts)
	if err != nil {
		return FixResult{Graph: ws.Graph, Skipped: outcome.Skipped}, err
	}
	if outcome.Aborted() {
		return FixResult{Graph: ws.Graph, Skipped: outcome.Skipped}, nil
	}
	title := fmt.Sprintf("thread %s through %d call site(s)", cfg.Type, outcome.RewrittenSites)
	return FixResult{
		Graph:   next,
		Applied: true,
		Title:   title,
		Edits:   outcome.RewrittenSites + 2, // parameter + access rewrite
		Skipped: outcome.Skipped,
	}, nil
}

// rewriter picks the caller-side strategy. "reexpress" re-inserts the
// original access expression as the argument; "forward" passes an existing
// same-typed parameter from the caller's own scope when one exists, falling
// back to re-expressing.
func (r *AmbientCtx) rewriter(m *sema.Model, cfg project.AmbientCtxConfig, want sema.TypeRef) thread.CallSiteRewriter {
	reexpress := thread.RewriterFunc(func(cs index.CallSite, _ sema.SymbolID, sess *edit.Session) error {
		return thread.AppendArgument(m, sess, cs, cfg.Accessor)
	})
	if cfg.Strategy != "forward" {
		return reexpress
	}
	return thread.RewriterFunc(func(cs index.CallSite, replaced sema.SymbolID, sess *edit.Session) error {
		caller := thread.EnclosingCallable(m, cs, thread.MethodsOnly)
		if caller.IsValid() {
			if p := thread.SameTypedParam(m, caller, want); p.IsValid() {
				return thread.AppendArgument(m, sess, cs, m.Symbols.Name(p))
			}
		}
		return reexpress.RewriteCallSite(cs, replaced, sess)
	})
}
