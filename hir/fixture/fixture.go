// Package fixture lowers a small subset of JS/JSX source text into a
// hir.ReactiveFunction, for tests and the CLI driver that want to
// express a scenario as source rather than hand-building a tree with
// hir.Builder. It understands one flat function body: const/let
// declarations, identifier/member/call/binary/conditional/JSX
// expressions, and a single trailing return — enough to express the
// scope-pruning scenarios without a full compiler front end.
package fixture

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"golang.org/x/mod/module"

	"github.com/pborman/uuid"

	"github.com/viant/reactprune/hir"
)

// Function is a parsed fixture: the lowered ReactiveFunction plus a
// lookup from source-level variable name to the identifier handle
// bound to it, so tests can assert on specific bindings by name.
type Function struct {
	Fn      *hir.ReactiveFunction
	Names   map[string]hir.IdentifierId
	Labels  map[hir.IdentifierId]string
	ModPath string
}

// builder lowers one parse tree, minting fresh identifiers for every
// distinct source name and for every literal that needs a handle but
// has no source-level name (mirroring a synthetic, UUID-backed
// identifier rather than a raw byte offset).
type builder struct {
	b      *hir.Builder
	src    []byte
	names  map[string]hir.IdentifierId
	labels map[hir.IdentifierId]string
}

// Parse lowers src (a single function body, statements only, no
// enclosing "function" keyword) into a Function. modulePath is
// validated with golang.org/x/mod/module so malformed fixtures fail
// fast with a clear error instead of a confusing downstream panic.
func Parse(modulePath string, src []byte) (*Function, error) {
	if err := module.CheckPath(modulePath); err != nil {
		return nil, fmt.Errorf("fixture: invalid module path %q: %w", modulePath, err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("fixture: parse source: %w", err)
	}

	bd := &builder{
		b:      hir.NewBuilder(),
		src:    src,
		names:  map[string]hir.IdentifierId{},
		labels: map[hir.IdentifierId]string{},
	}

	body, ret, err := bd.lowerProgram(tree.RootNode())
	if err != nil {
		return nil, err
	}

	fn := &hir.ReactiveFunction{Body: body}
	if ret != nil {
		fn.Body = append(fn.Body, *ret)
	}

	return &Function{Fn: fn, Names: bd.names, Labels: bd.labels, ModPath: modulePath}, nil
}

func (b *builder) lowerProgram(root *sitter.Node) (hir.Block, *hir.Statement, error) {
	var body hir.Block
	var ret *hir.Statement

	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		switch stmt.Type() {
		case "lexical_declaration", "variable_declaration":
			stmts, err := b.lowerDeclaration(stmt)
			if err != nil {
				return nil, nil, err
			}
			body = append(body, stmts...)
		case "expression_statement":
			expr := stmt.NamedChild(0)
			if expr == nil {
				continue
			}
			_, stmts, err := b.lowerExpression(expr)
			if err != nil {
				return nil, nil, err
			}
			body = append(body, stmts...)
		case "return_statement":
			var arg *sitter.Node
			if stmt.NamedChildCount() > 0 {
				arg = stmt.NamedChild(0)
			}
			if arg == nil {
				s := hir.ReturnStatement(b.b.InstrId(), nil)
				ret = &s
				continue
			}
			place, stmts, err := b.lowerExpression(arg)
			if err != nil {
				return nil, nil, err
			}
			body = append(body, stmts...)
			s := b.b.Return(place.Identifier)
			ret = &s
		default:
			return nil, nil, fmt.Errorf("fixture: unsupported top-level statement %q", stmt.Type())
		}
	}
	return body, ret, nil
}

// lowerDeclaration handles `const|let name = expr;` (and bare `let
// name;`), producing a DeclareLocal for every binding, followed by a
// StoreLocal when an initializer is present.
func (b *builder) lowerDeclaration(decl *sitter.Node) (hir.Block, error) {
	var out hir.Block
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		declarator := decl.NamedChild(i)
		if declarator.Type() != "variable_declarator" {
			continue
		}
		nameNode := declarator.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := nameNode.Content(b.src)
		id := b.identFor(name)

		out = append(out, b.b.Instr(&id, hir.NewDeclareLocal()))

		valueNode := declarator.ChildByFieldName("value")
		if valueNode == nil {
			continue
		}
		valuePlace, stmts, err := b.lowerExpression(valueNode)
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)

		target := hir.NewPlace(id).WithEffect(hir.Store)
		storeID := b.b.Ident()
		out = append(out, b.b.Instr(&storeID, hir.NewStoreLocal(target, valuePlace)))
	}
	return out, nil
}

// lowerExpression lowers expr to the place holding its result, plus
// any instructions that had to run first to compute it.
func (b *builder) lowerExpression(expr *sitter.Node) (hir.Place, hir.Block, error) {
	switch expr.Type() {
	case "identifier":
		return hir.NewPlace(b.identFor(expr.Content(b.src))), nil, nil

	case "number", "string", "true", "false", "null", "undefined":
		id, stmt := b.lowerLiteral()
		return hir.NewPlace(id), hir.Block{stmt}, nil

	case "binary_expression":
		left := expr.ChildByFieldName("left")
		right := expr.ChildByFieldName("right")
		leftPlace, leftStmts, err := b.lowerExpression(left)
		if err != nil {
			return hir.Place{}, nil, err
		}
		rightPlace, rightStmts, err := b.lowerExpression(right)
		if err != nil {
			return hir.Place{}, nil, err
		}
		id := b.b.Ident()
		stmts := append(append(leftStmts, rightStmts...), b.b.Instr(&id, hir.NewOperands(
			hir.BinaryExpression,
			hir.Op(hir.RoleLeft, leftPlace.Identifier, hir.Read),
			hir.Op(hir.RoleRight, rightPlace.Identifier, hir.Read),
		)))
		return hir.NewPlace(id), stmts, nil

	case "ternary_expression":
		consequent := expr.ChildByFieldName("consequence")
		alternate := expr.ChildByFieldName("alternative")
		consPlace, consStmts, err := b.lowerExpression(consequent)
		if err != nil {
			return hir.Place{}, nil, err
		}
		altPlace, altStmts, err := b.lowerExpression(alternate)
		if err != nil {
			return hir.Place{}, nil, err
		}
		testNode := expr.ChildByFieldName("condition")
		testPlace, testStmts, err := b.lowerExpression(testNode)
		if err != nil {
			return hir.Place{}, nil, err
		}
		id := b.b.Ident()
		stmts := append(append(testStmts, append(consStmts, altStmts...)...),
			b.b.Instr(&id, hir.NewConditional(testPlace, []hir.Place{consPlace}, []hir.Place{altPlace})))
		return hir.NewPlace(id), stmts, nil

	case "call_expression":
		callee := expr.ChildByFieldName("function")
		calleePlace, calleeStmts, err := b.lowerExpression(callee)
		if err != nil {
			return hir.Place{}, nil, err
		}
		argsNode := expr.ChildByFieldName("arguments")
		var argStmts hir.Block
		operands := []hir.Operand{hir.Op(hir.RoleOperand, calleePlace.Identifier, hir.Read)}
		if argsNode != nil {
			for i := 0; i < int(argsNode.NamedChildCount()); i++ {
				argPlace, stmts, err := b.lowerExpression(argsNode.NamedChild(i))
				if err != nil {
					return hir.Place{}, nil, err
				}
				argStmts = append(argStmts, stmts...)
				operands = append(operands, hir.Op(hir.RoleOperand, argPlace.Identifier, hir.Read))
			}
		}
		id := b.b.Ident()
		stmts := append(append(calleeStmts, argStmts...), b.b.Instr(&id, hir.NewOperands(hir.CallExpression, operands...)))
		return hir.NewPlace(id), stmts, nil

	case "jsx_element", "jsx_self_closing_element":
		return b.lowerJSX(expr)

	case "member_expression":
		objectPlace, objectStmts, err := b.lowerExpression(expr.ChildByFieldName("object"))
		if err != nil {
			return hir.Place{}, nil, err
		}
		id := b.b.Ident()
		stmts := append(objectStmts, b.b.Instr(&id, hir.NewPropertyLoad(objectPlace)))
		return hir.NewPlace(id), stmts, nil

	case "parenthesized_expression":
		return b.lowerExpression(expr.NamedChild(0))

	default:
		return hir.Place{}, nil, fmt.Errorf("fixture: unsupported expression %q", expr.Type())
	}
}

// lowerJSX lowers a JSX element/self-closing element into a
// hir.JsxExpression, recursing into `{expr}` attribute values and
// children; static text does not mint identifiers, while a tag name is
// bound like any other source-level name.
func (b *builder) lowerJSX(node *sitter.Node) (hir.Place, hir.Block, error) {
	var stmts hir.Block
	var tagPlace *hir.Place
	var attrs, children []hir.Place

	opening := node
	if node.Type() == "jsx_element" {
		opening = firstChildOfType(node, "jsx_opening_element")
	}
	if opening != nil {
		if nameNode := elementNameNode(opening); nameNode != nil {
			p := hir.NewPlace(b.identFor(nameNode.Content(b.src)))
			tagPlace = &p
		}
		for i := 0; i < int(opening.NamedChildCount()); i++ {
			attr := opening.NamedChild(i)
			if attr.Type() != "jsx_attribute" {
				continue
			}
			valueNode := attr.ChildByFieldName("value")
			if valueNode == nil {
				continue
			}
			exprNode := valueNode
			if valueNode.Type() == "jsx_expression" && valueNode.NamedChildCount() > 0 {
				exprNode = valueNode.NamedChild(0)
			}
			place, exprStmts, err := b.lowerExpression(exprNode)
			if err != nil {
				continue // attribute values the lowering does not support contribute nothing
			}
			stmts = append(stmts, exprStmts...)
			attrs = append(attrs, place)
		}
	}

	if node.Type() == "jsx_element" {
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch child.Type() {
			case "jsx_expression":
				if child.NamedChildCount() == 0 {
					continue
				}
				place, exprStmts, err := b.lowerExpression(child.NamedChild(0))
				if err != nil {
					continue
				}
				stmts = append(stmts, exprStmts...)
				children = append(children, place)
			case "jsx_element", "jsx_self_closing_element":
				place, exprStmts, err := b.lowerJSX(child)
				if err != nil {
					return hir.Place{}, nil, err
				}
				stmts = append(stmts, exprStmts...)
				children = append(children, place)
			}
		}
	}

	id := b.b.Ident()
	stmts = append(stmts, b.b.Instr(&id, hir.NewJsx(tagPlace == nil, tagPlace, attrs, children)))
	return hir.NewPlace(id), stmts, nil
}

// elementNameNode returns the tag-name node of a jsx_opening_element
// or jsx_self_closing_element, trying the grammar's named field first
// and falling back to the first identifier-shaped named child.
func elementNameNode(node *sitter.Node) *sitter.Node {
	if name := node.ChildByFieldName("name"); name != nil {
		return name
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "identifier" || child.Type() == "member_expression" {
			return child
		}
	}
	return nil
}

func firstChildOfType(node *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() == kind {
			return child
		}
	}
	return nil
}

// lowerLiteral mints a fresh identifier for a literal with no
// source-level name, tagged with a synthetic UUID label for
// diagnostics, and emits the Primitive instruction that defines it.
func (b *builder) lowerLiteral() (hir.IdentifierId, hir.Statement) {
	id := b.b.Ident()
	b.labels[id] = "lit:" + uuid.New()
	return id, b.b.Instr(&id, hir.NewLeaf(hir.Primitive))
}

func (b *builder) identFor(name string) hir.IdentifierId {
	if id, ok := b.names[name]; ok {
		return id
	}
	id := b.b.Ident()
	b.names[name] = id
	b.labels[id] = name
	return id
}
