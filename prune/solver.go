package prune

import (
	"github.com/viant/reactprune/hir"
	"github.com/viant/reactprune/memo"
)

// Solver is phase 2 of the pass: a depth-first escape analysis over
// the identifier graph the collector built, deciding which
// identifiers must be memoized so that every returned value (and
// every value a surviving scope depends on) is stable across renders.
type Solver struct {
	state  *State
	logger Logger
}

// NewSolver wraps state for phase 2. A nil logger is treated as
// NopLogger{}.
func NewSolver(state *State, logger Logger) *Solver {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Solver{state: state, logger: logger}
}

// Solve marks State.Identifiers[*].Memoized for every identifier that
// escapes. Every returned identifier is visited first. A scope that
// survives as a result (some identifier it was seen touching ended up
// memoized; see scopeSurvives) then has its declared dependencies forced memoized too,
// since a reactive scope reads those at scope entry and its memo
// comparison is only meaningful if they're themselves stable. Forcing
// a dependency can in turn make some other scope survive, so the pass
// repeats until a full sweep forces nothing new; Memoized only ever
// flips false to true, so this always terminates.
func (s *Solver) Solve() error {
	for _, id := range s.state.Returned {
		if _, err := s.visit(id, false); err != nil {
			return err
		}
	}

	for {
		progressed := false
		for scopeID := range s.state.Scopes {
			if !s.scopeSurvives(scopeID) {
				continue
			}
			if err := s.forceMemoizeScopeDependencies(scopeID, &progressed); err != nil {
				return err
			}
		}
		if !progressed {
			return nil
		}
	}
}

// scopeSurvives reports whether any identifier the scope was seen
// touching during collection has already been marked memoized. This
// over-approximates "produced by the scope" with "mentioned inside
// the scope", which only ever causes a dependency to be forced a
// little earlier than strictly necessary, never the reverse.
func (s *Solver) scopeSurvives(scopeID hir.ScopeId) bool {
	for _, node := range s.state.Identifiers {
		if !node.Memoized {
			continue
		}
		if _, ok := node.Scopes[scopeID]; ok {
			return true
		}
	}
	return false
}

// visit computes (and caches) whether id must be memoized, given
// whether a caller is forcing it regardless of its own level. force
// only ever applies at the identifier it's passed for: it never
// travels down into that identifier's own dependencies, so forcing a
// scope-declared dependency memoizes exactly that one identifier, not
// whatever it happens to read. A Conditional node still escapes
// through a dependency, but only because that dependency turned out
// memoized on its own terms (itself Memoized, itself returned, or
// itself forced directly by some other scope) — never merely because
// something reading it was forced.
//
// InProgress is a temporarily-false cycle breaker: an identifier
// reached again while its own visit is still on the call stack is
// treated as not-yet-memoized so a dependency cycle can never
// deadlock the walk; the true answer is still folded in once every
// participant in the cycle has been visited at least once, since a
// cycle is escaping only if something outside it forces it. A node
// that finished a prior visit without becoming memoized is revisited
// when a stronger force arrives later for that same identifier.
func (s *Solver) visit(id hir.IdentifierId, force bool) (bool, error) {
	node, ok := s.state.Identifiers[id]
	if !ok {
		return false, errMissingIdentifierNode(id)
	}

	if node.InProgress {
		if force && node.Level != memo.Never {
			node.Memoized = true
		}
		return node.Memoized, nil
	}
	if node.Done && (node.Memoized || !force) {
		return node.Memoized, nil
	}

	node.InProgress = true

	switch node.Level {
	case memo.Never:
		// A Never value is comparable by identity and is never worth
		// memoizing, no matter who forces it.
		force = false
	case memo.Memoized:
		force = true
	}
	// Unmemoized and Conditional pass force through unchanged:
	// Unmemoized only memoizes when forced, and Conditional also
	// memoizes when any dependency turns out memoized, below.

	memoized := force
	for depID := range node.Dependencies {
		// Always false: force is a single-hop property, not something
		// that travels transitively through a dependency chain.
		depMemoized, err := s.visit(depID, false)
		if err != nil {
			return false, err
		}
		if node.Level == memo.Conditional && depMemoized {
			memoized = true
		}
	}

	node.InProgress = false
	node.Done = true
	if memoized {
		node.Memoized = true
	}
	return node.Memoized, nil
}

// forceMemoizeScopeDependencies forces memoization of every
// identifier a scope declares as a dependency, setting progressed
// whenever forcing actually flips a dependency from unmemoized to
// memoized (the caller uses this to know whether another sweep might
// find more scopes newly surviving).
func (s *Solver) forceMemoizeScopeDependencies(scopeID hir.ScopeId, progressed *bool) error {
	scope, ok := s.state.Scopes[scopeID]
	if !ok {
		return errMissingScopeNode(scopeID)
	}
	for _, dep := range scope.Dependencies {
		depNode, ok := s.state.Identifiers[dep]
		if !ok {
			return errMissingIdentifierNode(dep)
		}
		wasMemoized := depNode.Memoized
		memoized, err := s.visit(dep, true)
		if err != nil {
			return err
		}
		if memoized && !wasMemoized {
			s.logger.ScopeForced(scopeID, dep)
			*progressed = true
		}
	}
	return nil
}
