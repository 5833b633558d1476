package prune

import (
	"github.com/viant/reactprune/hir"
	"github.com/viant/reactprune/memo"
)

// lvalueInput is one (place, level) pair computeMemoizationInputs
// reports for a value's lvalue side.
type lvalueInput struct {
	Place hir.Place
	Level memo.Level
}

// computeMemoizationInputs is the authoritative value-kind
// classification table: given a value and its owning instruction's
// lvalue (if any), it reports every lvalue this instruction produces
// (with the level to join into that identifier's node) and every
// rvalue it aliases.
func computeMemoizationInputs(v hir.Value, lvalue *hir.Place, options memo.Options) ([]lvalueInput, []hir.Place, error) {
	l := func(level memo.Level) []lvalueInput {
		if lvalue == nil {
			return nil
		}
		return []lvalueInput{{Place: *lvalue, Level: level}}
	}
	byRole := func(role hir.Role) []hir.Place {
		var out []hir.Place
		for _, op := range v.Operands {
			if op.Role == role {
				out = append(out, op.Place)
			}
		}
		return out
	}
	allOperands := func() []hir.Place {
		out := make([]hir.Place, 0, len(v.Operands))
		for _, op := range v.Operands {
			out = append(out, op.Place)
		}
		return out
	}

	switch v.Kind {
	case hir.ConditionalExpression:
		rv := append(byRole(hir.RoleConsequent), byRole(hir.RoleAlternate)...)
		return l(memo.Conditional), rv, nil

	case hir.LogicalExpression:
		rv := append(byRole(hir.RoleLeft), byRole(hir.RoleRight)...)
		return l(memo.Conditional), rv, nil

	case hir.SequenceExpression:
		return l(memo.Conditional), byRole(hir.RoleFinal), nil

	case hir.JsxExpression, hir.JsxFragment:
		level := memo.Unmemoized
		if options.MemoizeJsxElements {
			level = memo.Memoized
		}
		rv := append(byRole(hir.RoleTag), append(byRole(hir.RoleAttribute), byRole(hir.RoleChild)...)...)
		return l(level), rv, nil

	case hir.Primitive, hir.TemplateLiteral, hir.JSXText, hir.BinaryExpression,
		hir.UnaryExpression, hir.LoadGlobal, hir.PropertyDelete, hir.ComputedDelete:
		return l(memo.Never), nil, nil

	case hir.TypeCastExpression:
		return l(memo.Conditional), byRole(hir.RoleInner), nil

	case hir.LoadLocal:
		return l(memo.Conditional), byRole(hir.RoleSource), nil

	case hir.DeclareLocal:
		return l(memo.Unmemoized), nil, nil

	case hir.StoreLocal:
		lvs := l(memo.Conditional)
		for _, target := range byRole(hir.RoleTarget) {
			lvs = append(lvs, lvalueInput{Place: target, Level: memo.Conditional})
		}
		return lvs, byRole(hir.RoleValue), nil

	case hir.Destructure:
		lvs := l(memo.Conditional)
		for _, slot := range v.Pattern {
			switch slot.Kind {
			case hir.PatternArrayItem, hir.PatternObjectProperty:
				lvs = append(lvs, lvalueInput{Place: slot.Place, Level: memo.Conditional})
			case hir.PatternArrayRest, hir.PatternObjectRest:
				lvs = append(lvs, lvalueInput{Place: slot.Place, Level: memo.Memoized})
			default:
				return nil, nil, errExhaustiveness("destructure pattern slot kind", slot.Kind)
			}
		}
		return lvs, byRole(hir.RoleValue), nil

	case hir.PropertyLoad:
		return l(memo.Conditional), byRole(hir.RoleObject), nil

	case hir.ComputedLoad:
		// key is present but never aliased, per the authoritative table.
		return l(memo.Conditional), byRole(hir.RoleObject), nil

	case hir.ComputedStore:
		lvs := l(memo.Conditional)
		for _, object := range byRole(hir.RoleObject) {
			lvs = append(lvs, lvalueInput{Place: object, Level: memo.Conditional})
		}
		return lvs, byRole(hir.RoleValue), nil

	case hir.ArrayExpression, hir.ObjectExpression, hir.NewExpression, hir.CallExpression,
		hir.MethodCall, hir.OptionalCall, hir.PropertyStore, hir.FunctionExpression,
		hir.RegExpLiteral, hir.TaggedTemplateExpression:
		lvs := l(memo.Memoized)
		for _, op := range v.Operands {
			if op.Place.Effect.Mutable() {
				lvs = append(lvs, lvalueInput{Place: op.Place, Level: memo.Memoized})
			}
		}
		return lvs, allOperands(), nil

	case hir.UnsupportedNode:
		return nil, nil, errUnsupportedValue(v.Kind)

	default:
		return nil, nil, errUnsupportedValue(v.Kind)
	}
}

// Collector is phase 1 of the pass: it walks every instruction,
// classifies its value, and records lvalue/rvalue aliasing into the
// identifier graph and the scope graph.
type Collector struct {
	state   *State
	options memo.Options
}

// NewCollector builds a Collector over an (initially empty) state.
func NewCollector(state *State, options memo.Options) *Collector {
	return &Collector{state: state, options: options}
}

// Collect runs the collector over fn, populating c's state. The
// function's own identifier and its parameters are pre-declared so
// that a function returning a bare parameter still resolves to a
// known node.
func (c *Collector) Collect(fn *hir.ReactiveFunction) error {
	if fn.Id != nil {
		c.state.identifierNode(*fn.Id)
	}
	for _, p := range fn.Params {
		c.state.identifierNode(p.Identifier)
	}

	var collectErr error
	hir.Walk(fn, visitorFunc{
		instruction: func(instr *hir.Instruction, active *hir.ReactiveScope) {
			if collectErr != nil {
				return
			}
			collectErr = c.visitInstruction(instr, active)
		},
		terminal: func(term *hir.ReturnTerminal, active *hir.ReactiveScope) {
			if collectErr != nil {
				return
			}
			c.visitReturn(term)
		},
	})
	return collectErr
}

func (c *Collector) visitInstruction(instr *hir.Instruction, active *hir.ReactiveScope) error {
	lvalues, rvalues, err := computeMemoizationInputs(instr.Value, instr.Lvalue, c.options)
	if err != nil {
		return err
	}

	resolvedLvalues := make([]hir.IdentifierId, 0, len(lvalues))
	for _, lv := range lvalues {
		resolved := c.state.Resolve(lv.Place.Identifier)
		node := c.state.identifierNode(resolved)
		node.Level = memo.Join(node.Level, lv.Level)
		c.visitOperand(resolved, instr.Id, active)
		if active != nil {
			c.state.scopeNode(active).Produced[resolved] = struct{}{}
		}
		resolvedLvalues = append(resolvedLvalues, resolved)
	}

	for _, rv := range rvalues {
		resolvedR := c.state.Resolve(rv.Identifier)
		c.visitOperand(resolvedR, instr.Id, active)
		for _, resolvedL := range resolvedLvalues {
			if resolvedL == resolvedR {
				continue // exclude self-loops
			}
			c.state.identifierNode(resolvedL).Dependencies[resolvedR] = struct{}{}
		}
	}

	if instr.Value.Kind == hir.LoadLocal && instr.Lvalue != nil {
		source := hir.EachOperandFirst(instr.Value, hir.RoleSource)
		if source != nil {
			c.state.Definitions[c.state.Resolve(instr.Lvalue.Identifier)] = c.state.Resolve(source.Identifier)
		}
	}
	return nil
}

func (c *Collector) visitReturn(term *hir.ReturnTerminal) {
	if term.Value == nil {
		return
	}
	c.state.addReturned(c.state.Resolve(term.Value.Identifier))
}

// visitOperand lazily creates the scope node for active (seeded from
// its declared dependencies) and records the identifier's membership
// in it.
func (c *Collector) visitOperand(id hir.IdentifierId, _ hir.InstructionId, active *hir.ReactiveScope) {
	if active == nil {
		return
	}
	c.state.scopeNode(active)
	c.state.identifierNode(id).Scopes[active.Id] = struct{}{}
}

// visitorFunc adapts two closures to hir.InstructionVisitor.
type visitorFunc struct {
	instruction func(*hir.Instruction, *hir.ReactiveScope)
	terminal    func(*hir.ReturnTerminal, *hir.ReactiveScope)
}

func (v visitorFunc) VisitInstruction(instr *hir.Instruction, active *hir.ReactiveScope) {
	v.instruction(instr, active)
}

func (v visitorFunc) VisitTerminal(term *hir.ReturnTerminal, active *hir.ReactiveScope) {
	v.terminal(term, active)
}
