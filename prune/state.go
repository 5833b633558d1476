package prune

import (
	"github.com/viant/reactprune/hir"
	"github.com/viant/reactprune/memo"
)

// IdentifierNode is the identifier graph's per-IdentifierId vertex.
type IdentifierNode struct {
	Level        memo.Level
	Dependencies map[hir.IdentifierId]struct{}
	Scopes       map[hir.ScopeId]struct{}
	Memoized     bool
	// InProgress marks a node whose visit is still on the call stack,
	// so the solver can break dependency cycles without deadlocking.
	InProgress bool
	// Done marks a node whose visit has returned at least once. A
	// later visit forcing memoization still re-descends if the node
	// isn't memoized yet, since a stronger force can unlock a result a
	// weaker pass left unmemoized; once memoized, Done short-circuits
	// every later visit.
	Done bool
}

func newIdentifierNode() *IdentifierNode {
	return &IdentifierNode{
		Level:        memo.Never,
		Dependencies: map[hir.IdentifierId]struct{}{},
		Scopes:       map[hir.ScopeId]struct{}{},
	}
}

// ScopeNode is the scope graph's per-ScopeId vertex.
type ScopeNode struct {
	Dependencies []hir.IdentifierId
	// Produced holds every identifier an instruction directly under
	// this scope assigns (an lvalue, a StoreLocal target, a
	// Destructure pattern slot, a ComputedStore's extra object
	// lvalue — whatever computeMemoizationInputs reports as an
	// lvalue for that instruction). A nested scope's own assignments
	// aren't included; they belong to that scope's own node.
	Produced map[hir.IdentifierId]struct{}
}

// State is the pass-scoped container built by the collector, read by
// the solver, and discarded after the transform.
type State struct {
	// Definitions collapses LoadLocal indirections: lvalue -> source.
	// Lookups that miss return the input unchanged; the map is acyclic
	// and composes only one step, so Resolve never needs to loop.
	Definitions map[hir.IdentifierId]hir.IdentifierId
	Identifiers map[hir.IdentifierId]*IdentifierNode
	Scopes      map[hir.ScopeId]*ScopeNode
	Returned    []hir.IdentifierId
	returnedSet map[hir.IdentifierId]struct{}
}

// NewState returns an empty, pass-scoped State.
func NewState() *State {
	return &State{
		Definitions: map[hir.IdentifierId]hir.IdentifierId{},
		Identifiers: map[hir.IdentifierId]*IdentifierNode{},
		Scopes:      map[hir.ScopeId]*ScopeNode{},
		returnedSet: map[hir.IdentifierId]struct{}{},
	}
}

// Resolve collapses a single-step LoadLocal indirection; a miss
// returns the input unchanged.
func (s *State) Resolve(id hir.IdentifierId) hir.IdentifierId {
	if def, ok := s.Definitions[id]; ok {
		return def
	}
	return id
}

// identifierNode returns (creating if necessary) the node for id.
// Nodes are created lazily on first mention.
func (s *State) identifierNode(id hir.IdentifierId) *IdentifierNode {
	node, ok := s.Identifiers[id]
	if !ok {
		node = newIdentifierNode()
		s.Identifiers[id] = node
	}
	return node
}

// scopeNode returns (creating if necessary) the node for a scope,
// seeding its dependency list from the scope itself. Adding the same
// scope a second time is a no-op.
func (s *State) scopeNode(scope *hir.ReactiveScope) *ScopeNode {
	node, ok := s.Scopes[scope.Id]
	if !ok {
		node = &ScopeNode{Dependencies: scope.Dependencies, Produced: map[hir.IdentifierId]struct{}{}}
		s.Scopes[scope.Id] = node
	}
	return node
}

// addReturned records a returned identifier, preserving insertion
// order (the solver iterates Returned in that order).
func (s *State) addReturned(id hir.IdentifierId) {
	if _, ok := s.returnedSet[id]; ok {
		return
	}
	s.returnedSet[id] = struct{}{}
	s.Returned = append(s.Returned, id)
}

// MemoizedSet returns the solver's output set of identifiers.
func (s *State) MemoizedSet() map[hir.IdentifierId]struct{} {
	out := map[hir.IdentifierId]struct{}{}
	for id, node := range s.Identifiers {
		if node.Memoized {
			out[id] = struct{}{}
		}
	}
	return out
}
