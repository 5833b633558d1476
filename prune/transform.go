package prune

import "github.com/viant/reactprune/hir"

// Transform is phase 3 of the pass: given the memoized set the solver
// produced, it decides for every reactive scope whether to keep it or
// inline its body, via hir.TransformScopes.
type Transform struct {
	state  *State
	logger Logger
}

// NewTransform wraps state for phase 3. A nil logger is treated as
// NopLogger{}.
func NewTransform(state *State, logger Logger) *Transform {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Transform{state: state, logger: logger}
}

// Run rewrites fn in place.
func (t *Transform) Run(fn *hir.ReactiveFunction) {
	hir.TransformScopes(fn, t)
}

// TransformScope keeps a scope iff at least one identifier it
// produces was marked memoized by the solver; otherwise its body is
// spliced into the parent block unchanged, since none of its outputs
// need render-to-render stability. "Produces" is exactly the lvalue
// set the collector recorded for this scope during phase 1 — the same
// computeMemoizationInputs classification the solver's own levels
// came from, so a Destructure's pattern slots and a ComputedStore's
// extra object lvalue are accounted for without a second, separate
// walk over the body.
func (t *Transform) TransformScope(scope *hir.ReactiveScope, body hir.Block) hir.ScopeDecision {
	if scopeNode, ok := t.state.Scopes[scope.Id]; ok {
		for id := range scopeNode.Produced {
			if node, ok := t.state.Identifiers[id]; ok && node.Memoized {
				t.logger.ScopeKept(scope.Id)
				return hir.Keep()
			}
		}
	}
	t.logger.ScopePruned(scope.Id)
	return hir.ReplaceMany(body)
}

// Decide reports what TransformScope would decide for every scope in
// fn without mutating it, for DryRun diagnostics.
func (t *Transform) Decide(fn *hir.ReactiveFunction) {
	var walk func(hir.Block)
	walk = func(body hir.Block) {
		for _, stmt := range body {
			switch {
			case stmt.Scope != nil:
				walk(stmt.Scope.Body)
				t.TransformScope(stmt.Scope.Scope, stmt.Scope.Body)
			case stmt.Nested != nil:
				for _, branch := range stmt.Nested.Branches {
					walk(branch)
				}
			}
		}
	}
	walk(fn.Body)
}
