// Package thread implements the signature-threading rewrite engine: it lifts
// one offending expression inside a declaration body into a new or reused
// parameter, then rewrites every direct caller across the whole graph so the
// call supplies the new argument, all as one atomically-materialized
// multi-document edit. Propagation is deliberately one call-graph level deep:
// callers of callers are left alone.
package thread

import (
	"context"
	"fmt"

	"weft/internal/diag"
	"weft/internal/edit"
	"weft/internal/index"
	"weft/internal/sema"
	"weft/internal/source"
)

// State identifies a step of the fix pipeline. Aborts record the state they
// happened in so malformed input always fails the same way.
type State uint8

const (
	StateStart State = iota
	StateLocateOperation
	StateLocateDeclaration
	StateSynthesizeParameter
	StateRewriteAccess
	StateLocateCallers
	StateRewriteCallSites
	StateMaterialize
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateLocateOperation:
		return "locate-operation"
	case StateLocateDeclaration:
		return "locate-declaration"
	case StateSynthesizeParameter:
		return "synthesize-parameter"
	case StateRewriteAccess:
		return "rewrite-access"
	case StateLocateCallers:
		return "locate-callers"
	case StateRewriteCallSites:
		return "rewrite-call-sites"
	case StateMaterialize:
		return "materialize"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// SkippedSite records a call site left unaddressed and why.
type SkippedSite struct {
	Doc    source.DocID
	Span   source.Span
	Reason string
}

// Outcome summarizes one engine run.
type Outcome struct {
	State          State // StateDone or StateAborted
	FailedAt       State // the step an abort happened in
	Param          ParamRef
	RewrittenSites int
	Skipped        []SkippedSite
}

// Aborted reports whether the run ended in the absorbing abort state.
func (o Outcome) Aborted() bool { return o.State == StateAborted }

// Options configure the two rule-specific extension points plus the type
// being threaded.
type Options struct {
	// Want is the parameter type to thread through the declaration.
	Want sema.TypeRef
	// Enclosing recognizes the declaration the parameter is added to.
	Enclosing EnclosingPredicate
	// Rewriter supplies the new argument at each discovered call site.
	Rewriter CallSiteRewriter
}

// Engine drives one fix invocation over a model/index pair. The graph and
// model are read-only inputs; every run opens its own edit session.
type Engine struct {
	Model    *sema.Model
	Index    *index.Index
	Reporter diag.Reporter // optional, receives skipped-site notes
}

// NewEngine builds an engine over the given semantic model. The reverse-
// reference index is created lazily per snapshot.
func NewEngine(model *sema.Model) *Engine {
	return &Engine{
		Model: model,
		Index: index.New(model),
	}
}

// Run executes the fix state machine for the diagnostic d. It returns either
// the input graph unchanged (abort or cancellation) or a fresh snapshot with
// every successful rewrite applied. Individual call sites that cannot be
// rewritten are skipped; everything else is all-or-nothing.
func (e *Engine) Run(ctx context.Context, graph *source.Graph, d diag.Diagnostic, opts Options) (*source.Graph, Outcome, error) {
	if graph == nil || e.Model == nil {
		return graph, abortAt(StateStart), nil
	}
	if opts.Enclosing == nil || opts.Rewriter == nil {
		return graph, abortAt(StateStart), fmt.Errorf("thread: missing enclosing predicate or rewriter")
	}
	if err := ctx.Err(); err != nil {
		return graph, abortAt(StateStart), err
	}

	// LocateOperation: resolve the triggering span to the expected
	// operation shape. Failure here is silent: the fix is simply
	// unavailable.
	doc := graph.Document(d.Primary.Doc)
	if doc == nil {
		return graph, abortAt(StateLocateOperation), nil
	}
	ops := e.Model.Ops(d.Primary.Doc)
	opID := e.Model.OperationAt(d.Primary.Doc, d.Primary)
	trigger := ops.Get(opID)
	if trigger == nil {
		return graph, abortAt(StateLocateOperation), nil
	}
	switch trigger.Kind {
	case sema.OpPropertyReference, sema.OpFieldReference:
	default:
		return graph, abortAt(StateLocateOperation), nil
	}
	replaced, ok := sema.TargetSymbol(trigger)
	if !ok {
		return graph, abortAt(StateLocateOperation), nil
	}
	want := opts.Want
	if !want.IsValid() {
		want, ok = sema.ResultType(trigger)
		if !ok {
			return graph, abortAt(StateLocateOperation), nil
		}
	}

	// LocateDeclaration: find the enclosing unit recognized by the rule.
	declOp := LocateEnclosing(ops, opID, opts.Enclosing)
	if !declOp.IsValid() {
		return graph, abortAt(StateLocateDeclaration), nil
	}
	declSym, ok := sema.TargetSymbol(ops.Get(declOp))
	if !ok {
		return graph, abortAt(StateLocateDeclaration), nil
	}
	if sym := e.Model.Symbols.Get(declSym); sym == nil || !sym.Kind.IsCallable() {
		return graph, abortAt(StateLocateDeclaration), nil
	}

	// SynthesizeParameter: reuse or insert. "Cannot reuse" aborts, the
	// engine never guesses.
	sess := edit.NewSession(graph)
	param, err := EnsureParameter(e.Model, sess, declSym, want)
	if err != nil {
		return graph, abortAt(StateSynthesizeParameter), nil
	}

	// RewriteAccess: the one offending read becomes a parameter reference.
	tree := e.Model.Tree(d.Primary.Doc)
	accessSpan := tree.Span(trigger.Node)
	if err := sess.Queue(accessSpan, string(doc.Text(accessSpan)), param.Name); err != nil {
		return graph, abortAt(StateRewriteAccess), nil
	}

	// LocateCallers: graph-wide reverse query, deterministic order.
	sites, err := e.Index.Callers(ctx, declSym)
	if err != nil {
		return graph, abortAt(StateLocateCallers), err
	}

	// RewriteCallSites: best effort. A site whose document is absent from
	// the supplied graph is skipped; the rest proceed.
	outcome := Outcome{Param: param}
	for _, cs := range sites {
		if err := ctx.Err(); err != nil {
			return graph, abortAt(StateRewriteCallSites), err
		}
		if graph.Document(cs.Doc) == nil {
			e.skip(&outcome, cs, "document not in graph")
			continue
		}
		if err := opts.Rewriter.RewriteCallSite(cs, replaced, sess); err != nil {
			e.skip(&outcome, cs, err.Error())
			continue
		}
		outcome.RewrittenSites++
	}

	// Materialize: all-or-nothing. A replay conflict hands back the
	// original graph untouched.
	next, err := sess.Materialize(ctx)
	if err != nil {
		out := abortAt(StateMaterialize)
		out.Skipped = outcome.Skipped
		return graph, out, err
	}

	outcome.State = StateDone
	return next, outcome, nil
}

func (e *Engine) skip(outcome *Outcome, cs index.CallSite, reason string) {
	outcome.Skipped = append(outcome.Skipped, SkippedSite{
		Doc:    cs.Doc,
		Span:   cs.Span,
		Reason: reason,
	})
	if e.Reporter != nil {
		e.Reporter.Report(diag.CtxSkippedCallSite, diag.SevInfo, cs.Span,
			fmt.Sprintf("call site skipped: %s", reason), nil)
	}
}

func abortAt(s State) Outcome {
	return Outcome{State: StateAborted, FailedAt: s}
}
