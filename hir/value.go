package hir

// ValueKind discriminates the HIR value kinds the memoization
// classification table dispatches on. It mirrors a tagged union: a
// real HIR would carry kind-specific struct fields, but the pruner
// only ever needs the operand/pattern shape captured in Value, so one
// enum plus a role-tagged operand list is enough.
type ValueKind int

const (
	ConditionalExpression ValueKind = iota
	LogicalExpression
	SequenceExpression
	JsxExpression
	JsxFragment
	Primitive
	TemplateLiteral
	JSXText
	BinaryExpression
	UnaryExpression
	LoadGlobal
	PropertyDelete
	ComputedDelete
	TypeCastExpression
	LoadLocal
	DeclareLocal
	StoreLocal
	Destructure
	PropertyLoad
	ComputedLoad
	ComputedStore
	ArrayExpression
	ObjectExpression
	NewExpression
	CallExpression
	MethodCall
	OptionalCall
	PropertyStore
	FunctionExpression
	RegExpLiteral
	TaggedTemplateExpression
	UnsupportedNode
)

func (k ValueKind) String() string {
	names := [...]string{
		"ConditionalExpression", "LogicalExpression", "SequenceExpression",
		"JsxExpression", "JsxFragment", "Primitive", "TemplateLiteral",
		"JSXText", "BinaryExpression", "UnaryExpression", "LoadGlobal",
		"PropertyDelete", "ComputedDelete", "TypeCastExpression", "LoadLocal",
		"DeclareLocal", "StoreLocal", "Destructure", "PropertyLoad",
		"ComputedLoad", "ComputedStore", "ArrayExpression", "ObjectExpression",
		"NewExpression", "CallExpression", "MethodCall", "OptionalCall",
		"PropertyStore", "FunctionExpression", "RegExpLiteral",
		"TaggedTemplateExpression", "UnsupportedNode",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// Role tags an operand with the position it occupies inside its
// owning value, so the classifier can pick the subset the
// authoritative table calls for (e.g. a ComputedLoad's key is present
// but never aliased).
type Role string

const (
	RoleTest        Role = "test"
	RoleConsequent  Role = "consequent"
	RoleAlternate   Role = "alternate"
	RoleLeft        Role = "left"
	RoleRight       Role = "right"
	RoleFinal       Role = "final"
	RoleTag         Role = "tag"
	RoleAttribute   Role = "attribute"
	RoleSpread      Role = "spread"
	RoleChild       Role = "child"
	RoleInner       Role = "inner"
	RoleSource      Role = "source"
	RoleValue       Role = "value"
	RoleObject      Role = "object"
	RoleKey         Role = "key"
	RoleOperand     Role = "operand"
	RoleTarget      Role = "target"
)

// Operand is one operand place of a value, tagged with its role.
type Operand struct {
	Role   Role
	Place  Place
}

// PatternSlotKind discriminates a Destructure pattern slot.
type PatternSlotKind int

const (
	PatternArrayItem PatternSlotKind = iota
	PatternArrayRest
	PatternObjectProperty
	PatternObjectRest
)

// PatternSlot is one binding produced by a Destructure value.
type PatternSlot struct {
	Kind  PatternSlotKind
	Place Place
}

// Value is the HIR value carried by an instruction's rvalue side.
// JsxExpression/JsxFragment look at the caller-supplied
// MemoizeJsxElements option rather than a field here, since JSX's
// lvalue level is policy-driven rather than intrinsic to the node.
type Value struct {
	Kind     ValueKind
	Operands []Operand
	Pattern  []PatternSlot
}

func operandsWithRole(role Role, places ...Place) []Operand {
	ops := make([]Operand, 0, len(places))
	for _, p := range places {
		ops = append(ops, Operand{Role: role, Place: p})
	}
	return ops
}

func concatOperands(groups ...[]Operand) []Operand {
	var out []Operand
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// NewConditional builds a ConditionalExpression value: the test is
// not aliased, only consequent/alternate operands are.
func NewConditional(test Place, consequent, alternate []Place) Value {
	return Value{
		Kind: ConditionalExpression,
		Operands: concatOperands(
			operandsWithRole(RoleTest, test),
			operandsWithRole(RoleConsequent, consequent...),
			operandsWithRole(RoleAlternate, alternate...),
		),
	}
}

// NewLogical builds a LogicalExpression value (left ∪ right rvalues).
func NewLogical(left, right []Place) Value {
	return Value{Kind: LogicalExpression, Operands: concatOperands(
		operandsWithRole(RoleLeft, left...),
		operandsWithRole(RoleRight, right...),
	)}
}

// NewSequence builds a SequenceExpression value: only the final
// value's places are rvalues.
func NewSequence(final []Place) Value {
	return Value{Kind: SequenceExpression, Operands: operandsWithRole(RoleFinal, final...)}
}

// NewJsx builds a JsxExpression/JsxFragment value. Pass fragment=true
// to build a JsxFragment; a nil tag adds no tag operand.
func NewJsx(fragment bool, tag *Place, attributes, children []Place) Value {
	kind := JsxExpression
	if fragment {
		kind = JsxFragment
	}
	var tagOps []Operand
	if tag != nil {
		tagOps = operandsWithRole(RoleTag, *tag)
	}
	return Value{Kind: kind, Operands: concatOperands(
		tagOps,
		operandsWithRole(RoleAttribute, attributes...),
		operandsWithRole(RoleChild, children...),
	)}
}

// NewLeaf builds any value kind with no rvalues (Primitive,
// TemplateLiteral, JSXText, BinaryExpression, UnaryExpression,
// LoadGlobal, PropertyDelete, ComputedDelete).
func NewLeaf(kind ValueKind) Value {
	return Value{Kind: kind}
}

// NewTypeCast builds a TypeCastExpression value.
func NewTypeCast(inner Place) Value {
	return Value{Kind: TypeCastExpression, Operands: operandsWithRole(RoleInner, inner)}
}

// NewLoadLocal builds a LoadLocal value.
func NewLoadLocal(source Place) Value {
	return Value{Kind: LoadLocal, Operands: operandsWithRole(RoleSource, source)}
}

// NewDeclareLocal builds a DeclareLocal value (no rvalues).
func NewDeclareLocal() Value {
	return Value{Kind: DeclareLocal}
}

// NewStoreLocal builds a StoreLocal value. target is the local
// variable being assigned (a second lvalue distinct from the
// instruction's own result place); value is the assigned rvalue.
func NewStoreLocal(target, value Place) Value {
	return Value{Kind: StoreLocal, Operands: concatOperands(
		operandsWithRole(RoleTarget, target),
		operandsWithRole(RoleValue, value),
	)}
}

// NewDestructure builds a Destructure value over the given pattern
// slots, aliasing the destructured value.
func NewDestructure(value Place, pattern ...PatternSlot) Value {
	return Value{Kind: Destructure, Operands: operandsWithRole(RoleValue, value), Pattern: pattern}
}

// NewPropertyLoad / NewComputedLoad build property-access reads; the
// computed key is present but never aliased.
func NewPropertyLoad(object Place) Value {
	return Value{Kind: PropertyLoad, Operands: operandsWithRole(RoleObject, object)}
}

func NewComputedLoad(object, key Place) Value {
	return Value{Kind: ComputedLoad, Operands: concatOperands(
		operandsWithRole(RoleObject, object),
		operandsWithRole(RoleKey, key),
	)}
}

// NewComputedStore builds a ComputedStore value.
func NewComputedStore(object, key, value Place) Value {
	return Value{Kind: ComputedStore, Operands: concatOperands(
		operandsWithRole(RoleObject, object),
		operandsWithRole(RoleKey, key),
		operandsWithRole(RoleValue, value),
	)}
}

// NewOperands builds any of the always-fresh-reference kinds
// (ArrayExpression, ObjectExpression, NewExpression, CallExpression,
// MethodCall, OptionalCall, PropertyStore, FunctionExpression,
// RegExpLiteral, TaggedTemplateExpression) from a flat operand list,
// each tagged with the effect it is actually used with.
func NewOperands(kind ValueKind, operands ...Operand) Value {
	return Value{Kind: kind, Operands: operands}
}

// Op is a convenience constructor for an operand with an explicit role
// and effect.
func Op(role Role, id IdentifierId, effect Effect) Operand {
	return Operand{Role: role, Place: Place{Identifier: id, Effect: effect}}
}
