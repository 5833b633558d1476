package hir

// Builder mints sequential identifier, scope and instruction ids and
// assembles ReactiveFunction trees. It exists for tests, which need to
// build small functions by hand rather than lowering real source —
// HIR construction proper happens upstream of the pruner.
type Builder struct {
	nextIdentifier uint64
	nextScope      uint64
	nextInstr      uint64
}

// NewBuilder returns a Builder starting all counters at 1, so 0 is
// never minted.
func NewBuilder() *Builder {
	return &Builder{nextIdentifier: 1, nextScope: 1, nextInstr: 1}
}

// Ident mints a fresh identifier handle.
func (b *Builder) Ident() IdentifierId {
	id := IdentifierId(b.nextIdentifier)
	b.nextIdentifier++
	return id
}

// ScopeId mints a fresh scope handle.
func (b *Builder) ScopeId() ScopeId {
	id := ScopeId(b.nextScope)
	b.nextScope++
	return id
}

// InstrId mints a fresh instruction handle.
func (b *Builder) InstrId() InstructionId {
	id := InstructionId(b.nextInstr)
	b.nextInstr++
	return id
}

// Instr builds an instruction statement with a fresh id.
func (b *Builder) Instr(lvalue *IdentifierId, value Value) Statement {
	var place *Place
	if lvalue != nil {
		p := NewPlace(*lvalue)
		place = &p
	}
	return InstructionStatement(&Instruction{Id: b.InstrId(), Lvalue: place, Value: value})
}

// Scope builds a scope statement with a fresh id over the given
// dependencies and body.
func (b *Builder) Scope(deps []IdentifierId, body Block) (*ReactiveScope, Statement) {
	scope := &ReactiveScope{Id: b.ScopeId(), Dependencies: deps}
	return scope, ScopeBlockStatement(scope, body)
}

// Return builds a return terminal statement with a fresh id.
func (b *Builder) Return(id IdentifierId) Statement {
	place := NewPlace(id)
	return ReturnStatement(b.InstrId(), &place)
}
