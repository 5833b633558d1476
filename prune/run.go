package prune

import (
	"github.com/viant/reactprune/hir"
	"github.com/viant/reactprune/memo"
)

// ScopeDecision is the recorded outcome for one scope, independent of
// hir.ScopeDecision (which only the transformer needs).
type ScopeDecision struct {
	ScopeId hir.ScopeId
	Kept    bool
}

// ForcedScopeDependency records a solver decision to force an
// identifier memoized because a surviving scope reads it.
type ForcedScopeDependency struct {
	ScopeId    hir.ScopeId
	Identifier hir.IdentifierId
}

// Diagnostics summarizes one Run: the final memoized set, a decision
// per scope, and the trace of dependencies the solver had to force so
// a surviving scope's inputs stay stable.
type Diagnostics struct {
	Memoized     map[hir.IdentifierId]struct{}
	Scopes       []ScopeDecision
	ForcedScopes []ForcedScopeDependency
}

// tracingLogger records every event for Diagnostics while forwarding
// each one to a caller-supplied Logger.
type tracingLogger struct {
	forward Logger
	scopes  []ScopeDecision
	forced  []ForcedScopeDependency
}

func (t *tracingLogger) ScopeKept(id hir.ScopeId) {
	t.scopes = append(t.scopes, ScopeDecision{ScopeId: id, Kept: true})
	t.forward.ScopeKept(id)
}

func (t *tracingLogger) ScopePruned(id hir.ScopeId) {
	t.scopes = append(t.scopes, ScopeDecision{ScopeId: id, Kept: false})
	t.forward.ScopePruned(id)
}

func (t *tracingLogger) ScopeForced(scope hir.ScopeId, dep hir.IdentifierId) {
	t.forced = append(t.forced, ForcedScopeDependency{ScopeId: scope, Identifier: dep})
	t.forward.ScopeForced(scope, dep)
}

// Run executes all three phases over fn and returns diagnostics. In
// DryRun mode the function tree is left untouched: the transform
// phase only computes its per-scope decisions, via Decide, instead of
// mutating fn via Run.
func Run(fn *hir.ReactiveFunction, options memo.Options, logger Logger) (*Diagnostics, error) {
	if logger == nil {
		logger = NopLogger{}
	}
	trace := &tracingLogger{forward: logger}

	state := NewState()
	if err := NewCollector(state, options).Collect(fn); err != nil {
		return nil, err
	}
	if err := NewSolver(state, trace).Solve(); err != nil {
		return nil, err
	}

	transform := NewTransform(state, trace)
	if options.DryRun {
		transform.Decide(fn)
	} else {
		transform.Run(fn)
	}

	return &Diagnostics{
		Memoized:     state.MemoizedSet(),
		Scopes:       trace.scopes,
		ForcedScopes: trace.forced,
	}, nil
}
