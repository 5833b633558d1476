package prune_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/reactprune/hir"
	"github.com/viant/reactprune/memo"
	"github.com/viant/reactprune/prune"
)

func scopeKept(t *testing.T, d *prune.Diagnostics, id hir.ScopeId) (bool, bool) {
	t.Helper()
	for _, s := range d.Scopes {
		if s.ScopeId == id {
			return s.Kept, true
		}
	}
	return false, false
}

// An identifier that's never referenced by a return or a surviving
// scope's dependency list is pruned along with the scope wrapping it,
// and never appears in the memoized set.
func TestRunPrunesScopeAroundUnusedLocal(t *testing.T) {
	b := hir.NewBuilder()

	unused := b.Ident()
	unusedStmt := b.Instr(&unused, hir.NewLeaf(hir.Primitive))
	scope, scopeStmt := b.Scope(nil, hir.Block{unusedStmt})

	used := b.Ident()
	usedStmt := b.Instr(&used, hir.NewLeaf(hir.Primitive))

	fn := &hir.ReactiveFunction{Body: hir.Block{scopeStmt, usedStmt, b.Return(used)}}

	diagnostics, err := prune.Run(fn, memo.DefaultOptions(), nil)
	require.NoError(t, err)

	kept, ok := scopeKept(t, diagnostics, scope.Id)
	require.True(t, ok)
	assert.False(t, kept, "a scope around a value nothing depends on is pruned")

	_, memoized := diagnostics.Memoized[unused]
	assert.False(t, memoized)

	// The scope wrapper is gone; its one instruction is spliced in.
	assert.Len(t, fn.Body, 3)
	assert.NotNil(t, fn.Body[0].Instruction)
}

// A LoadLocal alias collapses to its source for every later reference:
// returning the alias resolves straight through to the value that
// actually carries the Memoized level, so only the source — not the
// alias itself — ends up in the memoized set.
func TestRunCollapsesTransitiveAlias(t *testing.T) {
	b := hir.NewBuilder()

	source := b.Ident()
	sourceStmt := b.Instr(&source, hir.NewOperands(hir.ObjectExpression))

	alias := b.Ident()
	aliasStmt := b.Instr(&alias, hir.NewLoadLocal(hir.NewPlace(source)))

	scope, scopeStmt := b.Scope(nil, hir.Block{sourceStmt, aliasStmt})

	fn := &hir.ReactiveFunction{Body: hir.Block{scopeStmt, b.Return(alias)}}

	diagnostics, err := prune.Run(fn, memo.DefaultOptions(), nil)
	require.NoError(t, err)

	memoized := diagnostics.Memoized
	_, ok := memoized[source]
	assert.True(t, ok, "the aliased source is memoized")
	_, ok = memoized[alias]
	assert.False(t, ok, "the alias itself never needs its own memoization marker")

	kept, ok := scopeKept(t, diagnostics, scope.Id)
	require.True(t, ok)
	assert.True(t, kept, "the scope producing the memoized source survives")
}

// A scope nested inside another is judged independently: pruning the
// outer wrapper still leaves the inner, genuinely-memoized scope
// intact after its body is spliced into the parent.
func TestRunPreservesInnerScopeWhenOuterScopeIsPruned(t *testing.T) {
	b := hir.NewBuilder()

	inner := b.Ident()
	innerStmt := b.Instr(&inner, hir.NewOperands(hir.ObjectExpression))
	innerScope, innerScopeStmt := b.Scope(nil, hir.Block{innerStmt})

	alias := b.Ident()
	aliasStmt := b.Instr(&alias, hir.NewLoadLocal(hir.NewPlace(inner)))

	outerScope, outerScopeStmt := b.Scope(nil, hir.Block{innerScopeStmt, aliasStmt})

	fn := &hir.ReactiveFunction{Body: hir.Block{outerScopeStmt, b.Return(alias)}}

	diagnostics, err := prune.Run(fn, memo.DefaultOptions(), nil)
	require.NoError(t, err)

	innerKept, ok := scopeKept(t, diagnostics, innerScope.Id)
	require.True(t, ok)
	assert.True(t, innerKept, "the inner scope produces the returned-through value")

	outerKept, ok := scopeKept(t, diagnostics, outerScope.Id)
	require.True(t, ok)
	assert.False(t, outerKept, "the outer scope's own direct output (the alias) never needs memoizing")

	// Body shape after transform: the inner scope statement survives,
	// spliced directly into fn's top level alongside the alias
	// instruction and the return.
	require.Len(t, fn.Body, 3)
	assert.NotNil(t, fn.Body[0].Scope, "the kept inner scope statement is still a scope statement")
	assert.NotNil(t, fn.Body[1].Instruction)
}

// A scope that survives because its own output escapes forces every
// identifier it declares as a dependency to be memoized too, even one
// that's otherwise only Unmemoized and unreachable from any return.
func TestRunForcesScopeDeclaredDependencies(t *testing.T) {
	b := hir.NewBuilder()

	dep := b.Ident()
	depStmt := b.Instr(&dep, hir.NewDeclareLocal())

	result := b.Ident()
	resultStmt := b.Instr(&result, hir.NewOperands(hir.ObjectExpression))

	scope, scopeStmt := b.Scope([]hir.IdentifierId{dep}, hir.Block{depStmt, resultStmt})

	fn := &hir.ReactiveFunction{Body: hir.Block{scopeStmt, b.Return(result)}}

	diagnostics, err := prune.Run(fn, memo.DefaultOptions(), nil)
	require.NoError(t, err)

	memoized := diagnostics.Memoized
	_, ok := memoized[dep]
	assert.True(t, ok, "forcing the scope's declared dependency memoizes it")
	_, ok = memoized[result]
	assert.True(t, ok)

	require.Len(t, diagnostics.ForcedScopes, 1)
	assert.Equal(t, scope.Id, diagnostics.ForcedScopes[0].ScopeId)
	assert.Equal(t, dep, diagnostics.ForcedScopes[0].Identifier)
}

// JSX elements default to Unmemoized: a returned-through JSX value
// wrapped in a scope that declares no other dependency doesn't by
// itself keep the scope alive. Turning MemoizeJsxElements on raises it
// to Memoized, which does.
func TestRunJsxMemoizationPolicy(t *testing.T) {
	build := func() (*hir.ReactiveFunction, hir.IdentifierId, hir.ScopeId) {
		b := hir.NewBuilder()
		jsx := b.Ident()
		jsxStmt := b.Instr(&jsx, hir.NewJsx(false, nil, nil, nil))
		scope, scopeStmt := b.Scope(nil, hir.Block{jsxStmt})
		fn := &hir.ReactiveFunction{Body: hir.Block{scopeStmt, b.Return(jsx)}}
		return fn, jsx, scope.Id
	}

	t.Run("default policy leaves it unmemoized", func(t *testing.T) {
		fn, jsx, scopeID := build()
		diagnostics, err := prune.Run(fn, memo.DefaultOptions(), nil)
		require.NoError(t, err)

		_, ok := diagnostics.Memoized[jsx]
		assert.False(t, ok)
		kept, ok := scopeKept(t, diagnostics, scopeID)
		require.True(t, ok)
		assert.False(t, kept)
	})

	t.Run("MemoizeJsxElements forces it memoized", func(t *testing.T) {
		fn, jsx, scopeID := build()
		diagnostics, err := prune.Run(fn, memo.Options{MemoizeJsxElements: true}, nil)
		require.NoError(t, err)

		_, ok := diagnostics.Memoized[jsx]
		assert.True(t, ok)
		kept, ok := scopeKept(t, diagnostics, scopeID)
		require.True(t, ok)
		assert.True(t, kept)
	})
}

// A function that only ever returns a primitive produces no scopes
// and an empty memoized set: primitives are comparable by identity and
// are never worth memoizing, no matter what forces them.
func TestRunReturningOnlyAPrimitiveMemoizesNothing(t *testing.T) {
	b := hir.NewBuilder()
	prim := b.Ident()
	primStmt := b.Instr(&prim, hir.NewLeaf(hir.Primitive))
	fn := &hir.ReactiveFunction{Body: hir.Block{primStmt, b.Return(prim)}}

	diagnostics, err := prune.Run(fn, memo.DefaultOptions(), nil)
	require.NoError(t, err)

	assert.Empty(t, diagnostics.Memoized)
	assert.Empty(t, diagnostics.Scopes)
}

// A Destructure's rest slot is always Memoized once it's returned, but
// forcing never travels past it into whatever it was destructured
// from: the source only memoizes if something independently reaches
// it (itself returned, itself Memoized, or itself a scope-declared
// dependency) — not merely because the rest slot reading it escapes.
// A plain array-item slot that's never referenced anywhere downstream
// stays untouched either way.
func TestRunDestructureRestDoesNotForceItsSource(t *testing.T) {
	b := hir.NewBuilder()

	value := b.Ident()
	valueStmt := b.Instr(&value, hir.NewDeclareLocal())

	item := b.Ident()
	rest := b.Ident()
	destructureStmt := b.Instr(nil, hir.NewDestructure(hir.NewPlace(value),
		hir.PatternSlot{Kind: hir.PatternArrayItem, Place: hir.NewPlace(item)},
		hir.PatternSlot{Kind: hir.PatternArrayRest, Place: hir.NewPlace(rest)},
	))

	fn := &hir.ReactiveFunction{Body: hir.Block{valueStmt, destructureStmt, b.Return(rest)}}

	diagnostics, err := prune.Run(fn, memo.DefaultOptions(), nil)
	require.NoError(t, err)

	memoized := diagnostics.Memoized
	_, ok := memoized[rest]
	assert.True(t, ok, "the rest slot is always Memoized")
	_, ok = memoized[value]
	assert.False(t, ok, "forcing never travels past the rest slot into its own source")
	_, ok = memoized[item]
	assert.False(t, ok, "nothing ever reaches the array-item slot")
}

// A scope wrapping only a Destructure (so the instruction carries no
// Instruction.Lvalue of its own) is still kept once its rest slot
// escapes through a return: scope production is read from the same
// lvalue set the collector already classified the instruction's value
// into, not a separate walk that only recognizes a direct lvalue.
func TestRunKeepsScopeAroundDestructureWhenRestEscapes(t *testing.T) {
	b := hir.NewBuilder()

	value := b.Ident()
	valueStmt := b.Instr(&value, hir.NewDeclareLocal())

	item := b.Ident()
	rest := b.Ident()
	destructureStmt := b.Instr(nil, hir.NewDestructure(hir.NewPlace(value),
		hir.PatternSlot{Kind: hir.PatternArrayItem, Place: hir.NewPlace(item)},
		hir.PatternSlot{Kind: hir.PatternArrayRest, Place: hir.NewPlace(rest)},
	))

	scope, scopeStmt := b.Scope(nil, hir.Block{valueStmt, destructureStmt})

	fn := &hir.ReactiveFunction{Body: hir.Block{scopeStmt, b.Return(rest)}}

	diagnostics, err := prune.Run(fn, memo.DefaultOptions(), nil)
	require.NoError(t, err)

	_, ok := diagnostics.Memoized[rest]
	assert.True(t, ok, "the rest slot is always Memoized")

	kept, ok := scopeKept(t, diagnostics, scope.Id)
	require.True(t, ok)
	assert.True(t, kept, "the scope is kept because rest is a Memoized slot reachable from the return")
}

// A dependency read by a freshly-constructed (always-Memoized) value
// doesn't inherit that value's memoization: x is Conditional and has
// no memoized dependency of its own, so it stays pruned even though
// y — built from it — always ends up memoized.
func TestRunMemoizedValueDoesNotForceItsConditionalDependency(t *testing.T) {
	b := hir.NewBuilder()

	param := b.Ident()
	x := b.Ident()
	xStmt := b.Instr(&x, hir.NewPropertyLoad(hir.NewPlace(param)))
	y := b.Ident()
	yStmt := b.Instr(&y, hir.NewOperands(hir.ArrayExpression, hir.Op(hir.RoleOperand, x, hir.Read)))

	fn := &hir.ReactiveFunction{
		Params: []hir.Place{hir.NewPlace(param)},
		Body:   hir.Block{xStmt, yStmt, b.Return(y)},
	}

	diagnostics, err := prune.Run(fn, memo.DefaultOptions(), nil)
	require.NoError(t, err)

	memoized := diagnostics.Memoized
	_, ok := memoized[y]
	assert.True(t, ok, "y is an ArrayExpression, always Memoized")
	_, ok = memoized[x]
	assert.False(t, ok, "x is Conditional and has no memoized dependency of its own")
}

// DryRun reports the same decisions a real run would make, without
// mutating the function.
func TestRunDryRunDoesNotMutate(t *testing.T) {
	b := hir.NewBuilder()
	unused := b.Ident()
	unusedStmt := b.Instr(&unused, hir.NewLeaf(hir.Primitive))
	scope, scopeStmt := b.Scope(nil, hir.Block{unusedStmt})
	used := b.Ident()
	usedStmt := b.Instr(&used, hir.NewLeaf(hir.Primitive))
	fn := &hir.ReactiveFunction{Body: hir.Block{scopeStmt, usedStmt, b.Return(used)}}

	before := len(fn.Body)

	diagnostics, err := prune.Run(fn, memo.Options{DryRun: true}, nil)
	require.NoError(t, err)

	assert.Len(t, fn.Body, before, "DryRun never touches fn.Body")
	kept, ok := scopeKept(t, diagnostics, scope.Id)
	require.True(t, ok)
	assert.False(t, kept, "the decision is still reported even though it wasn't applied")
}

// Running the pass twice over independently built, structurally
// identical functions produces the same memoized set and the same
// forced-dependency pairs (order aside, since that leg of the solve
// sweeps a map).
func TestRunIsIdempotentAcrossIdenticalFixtures(t *testing.T) {
	build := func() (*hir.ReactiveFunction, *hir.ReactiveScope) {
		b := hir.NewBuilder()
		dep := b.Ident()
		depStmt := b.Instr(&dep, hir.NewDeclareLocal())
		result := b.Ident()
		resultStmt := b.Instr(&result, hir.NewOperands(hir.ObjectExpression))
		scope, scopeStmt := b.Scope([]hir.IdentifierId{dep}, hir.Block{depStmt, resultStmt})
		return &hir.ReactiveFunction{Body: hir.Block{scopeStmt, b.Return(result)}}, scope
	}

	fn1, scope1 := build()
	d1, err := prune.Run(fn1, memo.DefaultOptions(), nil)
	require.NoError(t, err)
	fn2, scope2 := build()
	d2, err := prune.Run(fn2, memo.DefaultOptions(), nil)
	require.NoError(t, err)

	assert.Equal(t, d1.Memoized, d2.Memoized)
	assert.ElementsMatch(t, d1.ForcedScopes, d2.ForcedScopes)
	if diff := cmp.Diff(d1.Scopes, d2.Scopes); diff != "" {
		t.Errorf("scope decisions diverged (-first +second):\n%s", diff)
	}

	// The surviving scope's own dependency set must hash identically
	// across both runs: DependencyHash is what a caller re-running the
	// pass over regenerated HIR would use to confirm a scope's inputs
	// didn't quietly drift between runs.
	hash1, err := scope1.DependencyHash()
	require.NoError(t, err)
	hash2, err := scope2.DependencyHash()
	require.NoError(t, err)
	assert.Equal(t, hash1, hash2)
}
