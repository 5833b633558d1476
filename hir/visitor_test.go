package hir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/reactprune/hir"
)

// recordingVisitor captures every instruction/terminal id it sees,
// along with the active scope (nil outside any scope), in visit order.
type recordingVisitor struct {
	instructions []hir.InstructionId
	scopes       []*hir.ReactiveScope
}

func (r *recordingVisitor) VisitInstruction(instr *hir.Instruction, active *hir.ReactiveScope) {
	r.instructions = append(r.instructions, instr.Id)
	r.scopes = append(r.scopes, active)
}

func (r *recordingVisitor) VisitTerminal(term *hir.ReturnTerminal, active *hir.ReactiveScope) {
	r.instructions = append(r.instructions, term.Id)
	r.scopes = append(r.scopes, active)
}

func buildNestedFunction(b *hir.Builder) (*hir.ReactiveFunction, *hir.ReactiveScope, hir.IdentifierId, hir.IdentifierId) {
	outer := b.Ident()
	outerStmt := b.Instr(&outer, hir.NewLeaf(hir.Primitive))

	inner := b.Ident()
	innerStmt := b.Instr(&inner, hir.NewLeaf(hir.Primitive))
	scope, scopeStmt := b.Scope(nil, hir.Block{innerStmt})

	fn := &hir.ReactiveFunction{Body: hir.Block{outerStmt, scopeStmt, b.Return(inner)}}
	return fn, scope, outer, inner
}

func TestWalkRecursesIntoScopeBodyWithActiveScopeSet(t *testing.T) {
	b := hir.NewBuilder()
	fn, scope, _, _ := buildNestedFunction(b)

	v := &recordingVisitor{}
	hir.Walk(fn, v)

	assert.Len(t, v.instructions, 3, "outer instruction, inner instruction, return terminal")
	assert.Nil(t, v.scopes[0], "the outer instruction sits outside any scope")
	assert.Same(t, scope, v.scopes[1], "the inner instruction's active scope is the one it's nested in")
	assert.Nil(t, v.scopes[2], "the return terminal sits outside any scope")
}

func TestWalkRecursesIntoEveryNestedBranch(t *testing.T) {
	b := hir.NewBuilder()
	left := b.Ident()
	leftStmt := b.Instr(&left, hir.NewLeaf(hir.Primitive))
	right := b.Ident()
	rightStmt := b.Instr(&right, hir.NewLeaf(hir.Primitive))

	nested := hir.NestedBlockStatement("if", hir.Block{leftStmt}, hir.Block{rightStmt})
	fn := &hir.ReactiveFunction{Body: hir.Block{nested}}

	v := &recordingVisitor{}
	hir.Walk(fn, v)

	assert.Len(t, v.instructions, 2, "both branches are visited")
}

func TestBuildScopeIndexReportsEnclosingScope(t *testing.T) {
	b := hir.NewBuilder()
	fn, scope, outer, inner := buildNestedFunction(b)

	idx := hir.BuildScopeIndex(fn)

	outerInstrID := fn.Body[0].Instruction.Id
	innerInstrID := fn.Body[1].Scope.Body[0].Instruction.Id

	got, ok := idx.PlaceScope(outerInstrID, hir.NewPlace(outer))
	assert.False(t, ok, "the outer instruction has no enclosing scope")
	assert.Nil(t, got)

	got, ok = idx.PlaceScope(innerInstrID, hir.NewPlace(inner))
	assert.True(t, ok, "the inner instruction is enclosed by the scope")
	assert.Same(t, scope, got)
}

func TestEachOperandFirstReturnsNilWhenRoleAbsent(t *testing.T) {
	v := hir.NewLeaf(hir.Primitive)
	assert.Nil(t, hir.EachOperandFirst(v, hir.RoleSource))
}

func TestEachOperandFirstReturnsMatchingPlace(t *testing.T) {
	b := hir.NewBuilder()
	src := hir.NewPlace(b.Ident())
	v := hir.NewLoadLocal(src)

	got := hir.EachOperandFirst(v, hir.RoleSource)
	if assert.NotNil(t, got) {
		assert.Equal(t, src, *got)
	}
}

// stubTransformer keeps every scope whose id is in kept, replacing the
// rest with their own (already transformed) bodies.
type stubTransformer struct {
	kept map[hir.ScopeId]bool
}

func (s stubTransformer) TransformScope(scope *hir.ReactiveScope, body hir.Block) hir.ScopeDecision {
	if s.kept[scope.Id] {
		return hir.Keep()
	}
	return hir.ReplaceMany(body)
}

func TestTransformScopesRecursesIntoNestedScopesRegardlessOfOuterDecision(t *testing.T) {
	b := hir.NewBuilder()

	innerLeaf := b.Ident()
	innerStmt := b.Instr(&innerLeaf, hir.NewLeaf(hir.Primitive))
	innerScope, innerScopeStmt := b.Scope(nil, hir.Block{innerStmt})

	outerScope, outerScopeStmt := b.Scope(nil, hir.Block{innerScopeStmt})

	fn := &hir.ReactiveFunction{Body: hir.Block{outerScopeStmt, b.Return(innerLeaf)}}

	// Keep the inner scope but prune the outer one: the inner scope
	// statement should survive, spliced directly into fn.Body.
	hir.TransformScopes(fn, stubTransformer{kept: map[hir.ScopeId]bool{innerScope.Id: true}})

	require := func(cond bool, msg string) {
		if !cond {
			t.Fatal(msg)
		}
	}
	require(len(fn.Body) == 2, "expected the inlined inner scope statement plus the return")
	require(fn.Body[0].Scope != nil, "expected the surviving statement to still be a scope statement")
	assert.Same(t, innerScope, fn.Body[0].Scope.Scope)
	_ = outerScope
}

func TestTransformScopesPrunesUnkeptScope(t *testing.T) {
	b := hir.NewBuilder()
	leaf := b.Ident()
	leafStmt := b.Instr(&leaf, hir.NewLeaf(hir.Primitive))
	scope, scopeStmt := b.Scope(nil, hir.Block{leafStmt})
	fn := &hir.ReactiveFunction{Body: hir.Block{scopeStmt, b.Return(leaf)}}

	hir.TransformScopes(fn, stubTransformer{kept: map[hir.ScopeId]bool{}})

	assert.Len(t, fn.Body, 2, "the scope wrapper is gone, its one instruction spliced in")
	assert.NotNil(t, fn.Body[0].Instruction)
	_ = scope
}
