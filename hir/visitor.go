package hir

// InstructionVisitor is a two-hook visitor contract: a host walks a
// reactive function in source order and calls back into these hooks.
// The dependency collector is the only current implementer.
type InstructionVisitor interface {
	VisitInstruction(instr *Instruction, active *ReactiveScope)
	VisitTerminal(term *ReturnTerminal, active *ReactiveScope)
}

// Walk traverses fn's body in source order, invoking v's hooks and
// recursing into scope and nested blocks regardless of any decision
// the visitor makes — the collector never mutates the tree.
func Walk(fn *ReactiveFunction, v InstructionVisitor) {
	walkBlock(fn.Body, nil, v)
}

func walkBlock(body Block, active *ReactiveScope, v InstructionVisitor) {
	for _, stmt := range body {
		switch {
		case stmt.Instruction != nil:
			v.VisitInstruction(stmt.Instruction, active)
		case stmt.Return != nil:
			v.VisitTerminal(stmt.Return, active)
		case stmt.Scope != nil:
			walkBlock(stmt.Scope.Body, stmt.Scope.Scope, v)
		case stmt.Nested != nil:
			for _, branch := range stmt.Nested.Branches {
				walkBlock(branch, active, v)
			}
		}
	}
}

// ScopeIndex answers getPlaceScope(instructionId, place) by mapping
// each instruction/terminal id to the nearest enclosing reactive
// scope, computed once per pass. Our concrete HIR attaches scope
// membership to contiguous instruction ranges rather than individual
// places, so the place argument is accepted for contract compliance
// but unused — a generalized HIR that tracks per-place scope
// membership would key this map on (instructionId, place) instead.
type ScopeIndex struct {
	byInstruction map[InstructionId]*ReactiveScope
}

// BuildScopeIndex walks fn once and records, for every instruction and
// terminal id, the reactive scope active at that point (nil outside
// any scope).
func BuildScopeIndex(fn *ReactiveFunction) *ScopeIndex {
	idx := &ScopeIndex{byInstruction: map[InstructionId]*ReactiveScope{}}
	idx.indexBlock(fn.Body, nil)
	return idx
}

func (idx *ScopeIndex) indexBlock(body Block, active *ReactiveScope) {
	for _, stmt := range body {
		switch {
		case stmt.Instruction != nil:
			idx.byInstruction[stmt.Instruction.Id] = active
		case stmt.Return != nil:
			idx.byInstruction[stmt.Return.Id] = active
		case stmt.Scope != nil:
			idx.indexBlock(stmt.Scope.Body, stmt.Scope.Scope)
		case stmt.Nested != nil:
			for _, branch := range stmt.Nested.Branches {
				idx.indexBlock(branch, active)
			}
		}
	}
}

// PlaceScope implements the getPlaceScope host contract.
func (idx *ScopeIndex) PlaceScope(instructionID InstructionId, _ Place) (*ReactiveScope, bool) {
	scope, ok := idx.byInstruction[instructionID]
	return scope, ok && scope != nil
}

// EachOperand implements the eachReactiveValueOperand host contract:
// it yields every operand place of v with its effect.
func EachOperand(v Value, fn func(Operand)) {
	for _, op := range v.Operands {
		fn(op)
	}
}

// EachOperandFirst returns the first operand of v carrying role, or
// nil if none does.
func EachOperandFirst(v Value, role Role) *Place {
	for _, op := range v.Operands {
		if op.Role == role {
			p := op.Place
			return &p
		}
	}
	return nil
}

// ScopeDecision is the transform's per-scope verdict.
type ScopeDecision struct {
	Keep    bool
	Replace Block
}

// Keep is the Keep variant: the scope statement is left untouched.
func Keep() ScopeDecision { return ScopeDecision{Keep: true} }

// ReplaceMany is the ReplaceMany variant: the scope statement is
// spliced out and replaced by the given statements in place.
func ReplaceMany(body Block) ScopeDecision { return ScopeDecision{Keep: false, Replace: body} }

// ScopeTransformer decides, for one reactive scope, whether to keep it
// or inline its body.
type ScopeTransformer interface {
	TransformScope(scope *ReactiveScope, body Block) ScopeDecision
}

// TransformScopes rewrites fn.Body in place: every scope statement is
// kept or replaced by its inlined body per t's decision, and the
// transform always recurses into nested blocks (scope bodies,
// surviving or not, and every branch of a nested construct) so inner
// scopes are pruned independently of the outer decision.
func TransformScopes(fn *ReactiveFunction, t ScopeTransformer) {
	fn.Body = transformBlock(fn.Body, t)
}

func transformBlock(body Block, t ScopeTransformer) Block {
	out := make(Block, 0, len(body))
	for _, stmt := range body {
		switch {
		case stmt.Scope != nil:
			// Always descend first: inner scopes are pruned
			// regardless of what happens to this one.
			stmt.Scope.Body = transformBlock(stmt.Scope.Body, t)
			decision := t.TransformScope(stmt.Scope.Scope, stmt.Scope.Body)
			if decision.Keep {
				out = append(out, stmt)
			} else {
				out = append(out, decision.Replace...)
			}
		case stmt.Nested != nil:
			branches := make([]Block, len(stmt.Nested.Branches))
			for i, branch := range stmt.Nested.Branches {
				branches[i] = transformBlock(branch, t)
			}
			stmt.Nested.Branches = branches
			out = append(out, stmt)
		default:
			out = append(out, stmt)
		}
	}
	return out
}
