// Package jsxscan is a small tree-sitter-backed helper that answers
// whether a snippet of source text contains JSX, and which element
// tags it uses, without going through the full fixture lowering
// pipeline. The scopeprune command runs it over the raw source before
// lowering, so its reported element names can be cross-checked against
// --memoize-jsx in cases where the lowered HIR has already collapsed
// JSX detail the raw source still carries.
package jsxscan

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// ContainsJSX reports whether src contains at least one JSX element or
// self-closing JSX element anywhere in its parse tree.
func ContainsJSX(src []byte) (bool, error) {
	root, err := parse(src)
	if err != nil {
		return false, err
	}
	return containsJSX(root), nil
}

// ElementNames returns the tag name of every JSX element and
// self-closing JSX element in src, in source order. A fragment (no
// tag name child) contributes an empty string.
func ElementNames(src []byte) ([]string, error) {
	root, err := parse(src)
	if err != nil {
		return nil, err
	}
	var names []string
	collectElementNames(root, src, &names)
	return names, nil
}

func parse(src []byte) (*sitter.Node, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("jsxscan: parse source: %w", err)
	}
	return tree.RootNode(), nil
}

func containsJSX(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	if node.Type() == "jsx_element" || node.Type() == "jsx_self_closing_element" {
		return true
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if containsJSX(node.NamedChild(i)) {
			return true
		}
	}
	return false
}

func collectElementNames(node *sitter.Node, src []byte, out *[]string) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "jsx_element":
		opening := firstChildOfType(node, "jsx_opening_element")
		*out = append(*out, elementName(opening, src))
	case "jsx_self_closing_element":
		*out = append(*out, elementName(node, src))
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		collectElementNames(node.NamedChild(i), src, out)
	}
}

// elementName returns the tag name of an opening or self-closing
// element node, trying the grammar's named field first and falling
// back to the first identifier-shaped named child; a fragment (no
// name child at all, or a nil node) contributes "".
func elementName(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}
	if name := node.ChildByFieldName("name"); name != nil {
		return name.Content(src)
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "identifier" || child.Type() == "member_expression" {
			return child.Content(src)
		}
	}
	return ""
}

func firstChildOfType(node *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() == kind {
			return child
		}
	}
	return nil
}
