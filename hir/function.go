package hir

// ReactiveScope is a region of HIR whose outputs are candidates for
// render-to-render memoization. Its dependency set is computed by an
// earlier pass and is fixed once the node exists: the pruner only
// reads it.
type ReactiveScope struct {
	Id           ScopeId
	Dependencies []IdentifierId
}

// Instruction is one HIR instruction: an optional lvalue (the place
// written, if any) and the value it computes.
type Instruction struct {
	Id     InstructionId
	Lvalue *Place
	Value  Value
}

// ReturnTerminal is the only terminal kind the pruner inspects.
type ReturnTerminal struct {
	Id    InstructionId
	Value *Place
}

// Statement is one entry in a Block: an instruction, a scope region,
// a return terminal, or a generic nested-block wrapper standing in
// for control-flow constructs (if/for/switch) that the pruner must
// still descend into without attaching pass semantics to.
type Statement struct {
	Instruction *Instruction
	Scope       *ScopeStatement
	Return      *ReturnTerminal
	Nested      *NestedStatement
}

// ScopeStatement wraps a reactive scope's instruction sequence.
type ScopeStatement struct {
	Scope *ReactiveScope
	Body  Block
}

// NestedStatement wraps the sub-blocks of a control-flow construct
// the pruner does not otherwise interpret (if/for/switch/...): the
// transform still must recurse into every branch.
type NestedStatement struct {
	Kind     string
	Branches []Block
}

// Block is an ordered sequence of statements.
type Block []Statement

// ReactiveFunction is the mutable unit the pruner consumes.
type ReactiveFunction struct {
	Id     *IdentifierId
	Params []Place
	Body   Block
}

// InstructionStatement builds a Statement wrapping an instruction.
func InstructionStatement(instr *Instruction) Statement {
	return Statement{Instruction: instr}
}

// ScopeBlockStatement builds a Statement wrapping a reactive scope.
func ScopeBlockStatement(scope *ReactiveScope, body Block) Statement {
	return Statement{Scope: &ScopeStatement{Scope: scope, Body: body}}
}

// ReturnStatement builds a Statement wrapping a return terminal.
func ReturnStatement(id InstructionId, value *Place) Statement {
	return Statement{Return: &ReturnTerminal{Id: id, Value: value}}
}

// NestedBlockStatement builds a Statement wrapping an opaque
// control-flow construct.
func NestedBlockStatement(kind string, branches ...Block) Statement {
	return Statement{Nested: &NestedStatement{Kind: kind, Branches: branches}}
}
