// Package rules hosts the shipped analysis rules and their code-fixes. A
// rule scans a workspace and reports diagnostics; a fixer is registered per
// diagnostic code and turns one diagnostic into a new graph snapshot. The
// two polymorphic hooks a threading rule must supply (enclosing-declaration
// predicate, call-site rewriter) are the entire contract.
package rules

import (
	"context"

	"weft/internal/diag"
	"weft/internal/project"
	"weft/internal/sema"
	"weft/internal/source"
	"weft/internal/thread"
)

// Workspace bundles the read-only inputs every rule sees: the editable graph
// snapshot, the semantic model over it, and the project manifest. Rules and
// fixers never mutate any of the three.
type Workspace struct {
	Graph    *source.Graph
	Model    *sema.Model
	Manifest *project.Manifest
}

// Rule scans a workspace and reports findings.
type Rule interface {
	Name() string
	Scan(ctx context.Context, ws *Workspace, r diag.Reporter) error
}

// FixResult describes the effect of one fix invocation. Graph is always
// well-formed: the input snapshot when the fix was unavailable or aborted,
// a fresh snapshot otherwise.
type FixResult struct {
	Graph   *source.Graph
	Applied bool
	Title   string
	Edits   int
	Skipped []thread.SkippedSite
}

// Fixer turns a diagnostic of its code into a graph rewrite.
type Fixer interface {
	Code() diag.Code
	Fix(ctx context.Context, ws *Workspace, d diag.Diagnostic) (FixResult, error)
}

// Registry holds registered rules and fixers.
type Registry struct {
	rules  []Rule
	fixers map[diag.Code]Fixer
}

func NewRegistry() *Registry {
	return &Registry{
		fixers: make(map[diag.Code]Fixer),
	}
}

// Register adds a rule and, when it also implements Fixer, its code-fix.
func (reg *Registry) Register(r Rule) {
	reg.rules = append(reg.rules, r)
	if f, ok := r.(Fixer); ok {
		reg.fixers[f.Code()] = f
	}
}

// RegisterFixer adds a standalone fixer.
func (reg *Registry) RegisterFixer(f Fixer) {
	reg.fixers[f.Code()] = f
}

// Rules returns the registered rules in registration order.
func (reg *Registry) Rules() []Rule {
	return reg.rules
}

// FixerFor returns the fixer registered for code.
func (reg *Registry) FixerFor(code diag.Code) (Fixer, bool) {
	f, ok := reg.fixers[code]
	return f, ok
}

// Scan runs every registered rule over ws.
func (reg *Registry) Scan(ctx context.Context, ws *Workspace, r diag.Reporter) error {
	for _, rule := range reg.rules {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := rule.Scan(ctx, ws, r); err != nil {
			return err
		}
	}
	return nil
}

// Default returns the registry with all shipped rules.
func Default() *Registry {
	reg := NewRegistry()
	reg.Register(&PkgRef{})
	reg.Register(&ObsoleteBase{})
	reg.Register(&AmbientCtx{})
	return reg
}
