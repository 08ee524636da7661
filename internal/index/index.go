// Package index answers whole-graph reverse-reference queries: given a
// symbol, where is it used? The index is built lazily on first query, cached
// for the lifetime of one graph snapshot, and must be discarded whenever a
// materialized edit produces a new snapshot.
package index

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"weft/internal/ast"
	"weft/internal/sema"
	"weft/internal/source"
)

// Ref records one usage of a symbol.
type Ref struct {
	Doc  source.DocID
	Node ast.NodeID
	Oper sema.OperID
	Span source.Span
	Kind sema.OpKind
}

// CallSite pairs a call location with the document it resides in. The
// document is identified only; whether it is present in the editable graph
// is the caller's concern.
type CallSite struct {
	Doc  source.DocID
	Node ast.NodeID
	Oper sema.OperID
	Span source.Span
}

// Index is the symbol -> usages map over one model snapshot.
type Index struct {
	model *sema.Model

	once sync.Once
	err  error
	refs map[sema.SymbolID][]Ref
}

// New creates an unbuilt index over model. Building happens on first query.
func New(model *sema.Model) *Index {
	return &Index{model: model}
}

// build scans every document's operation tree. Documents are processed in
// parallel (the model is immutable during one fix invocation); per-document
// results are merged in DocID order so the final ref sequence is
// deterministic for a fixed graph.
func (ix *Index) build(ctx context.Context) {
	docs := ix.model.DocIDs()
	perDoc := make([]map[sema.SymbolID][]Ref, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perDoc[i] = ix.scanDoc(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		ix.err = err
		return
	}

	merged := make(map[sema.SymbolID][]Ref)
	for _, local := range perDoc {
		for sym, refs := range local {
			merged[sym] = append(merged[sym], refs...)
		}
	}
	ix.refs = merged
}

// scanDoc collects the refs of one document, ordered by span start.
func (ix *Index) scanDoc(doc source.DocID) map[sema.SymbolID][]Ref {
	ops := ix.model.Ops(doc)
	if ops == nil {
		return nil
	}
	local := make(map[sema.SymbolID][]Ref)
	ops.All(func(id sema.OperID, op *sema.Operation) bool {
		sym, ok := sema.TargetSymbol(op)
		if !ok {
			return true
		}
		tree := ix.model.Tree(doc)
		local[sym] = append(local[sym], Ref{
			Doc:  doc,
			Node: op.Node,
			Oper: id,
			Span: tree.Span(op.Node),
			Kind: op.Kind,
		})
		return true
	})
	for sym := range local {
		refs := local[sym]
		sort.SliceStable(refs, func(i, j int) bool {
			return refs[i].Span.Start < refs[j].Span.Start
		})
	}
	return local
}

// Refs returns every recorded usage of sym, ordered by document then span
// start. The returned slice is shared; callers must not modify it.
func (ix *Index) Refs(ctx context.Context, sym sema.SymbolID) ([]Ref, error) {
	ix.once.Do(func() { ix.build(ctx) })
	if ix.err != nil {
		return nil, ix.err
	}
	return ix.refs[sym], nil
}

// Callers returns every call site of the given callable symbol across the
// whole graph: invocation usages for methods and accessors, object creations
// for constructors. Declaration-body usages are excluded.
func (ix *Index) Callers(ctx context.Context, sym sema.SymbolID) ([]CallSite, error) {
	refs, err := ix.Refs(ctx, sym)
	if err != nil {
		return nil, err
	}
	out := make([]CallSite, 0, len(refs))
	for _, r := range refs {
		switch r.Kind {
		case sema.OpInvocation, sema.OpObjectCreation:
			out = append(out, CallSite{
				Doc:  r.Doc,
				Node: r.Node,
				Oper: r.Oper,
				Span: r.Span,
			})
		}
	}
	return out, nil
}
