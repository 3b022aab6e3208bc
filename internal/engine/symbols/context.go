package symbols

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// exprContext mirrors the expression context of a Python name: whether it
// is read, bound, a parameter, deleted, or not a name reference at all.
type exprContext int

const (
	ctxLoad exprContext = iota
	ctxStore
	ctxParam
	ctxDel
	ctxNone
)

func (c exprContext) String() string {
	switch c {
	case ctxLoad:
		return "load"
	case ctxStore:
		return "store"
	case ctxParam:
		return "param"
	case ctxDel:
		return "del"
	default:
		return "none"
	}
}

// childContext derives the context of child from its parent. Target and
// container nodes pass their own context down; the operands of attributes,
// subscripts and other expressions are always loads.
func childContext(parent, child *sitter.Node, ctx exprContext) exprContext {
	switch parent.Kind() {
	case "assignment", "augmented_assignment", "for_statement", "for_in_clause":
		if isField(parent, "left", child) {
			return ctxStore
		}
		return ctxLoad
	case "named_expression":
		if isField(parent, "name", child) {
			return ctxStore
		}
		return ctxLoad
	case "as_pattern":
		if isField(parent, "alias", child) {
			// Only with-statement targets are bound names; except and case
			// aliases are plain strings in the Python AST.
			if p := parent.Parent(); p != nil && p.Kind() == "with_item" {
				return ctxStore
			}
			return ctxNone
		}
		return ctxLoad
	case "except_clause":
		if isField(parent, "alias", child) {
			return ctxNone
		}
		return ctxLoad
	case "pattern_list", "tuple_pattern", "list_pattern", "list_splat_pattern",
		"dictionary_splat_pattern", "tuple", "list", "expression_list",
		"parenthesized_expression", "list_splat", "as_pattern_target":
		return ctx
	case "attribute":
		if isField(parent, "attribute", child) {
			return ctxNone
		}
		return ctxLoad
	case "function_definition":
		switch {
		case isField(parent, "name", child):
			return ctxNone
		case isField(parent, "parameters", child):
			return ctxParam
		}
		return ctxLoad
	case "lambda":
		if isField(parent, "parameters", child) {
			return ctxParam
		}
		return ctxLoad
	case "parameters", "lambda_parameters":
		return ctxParam
	case "default_parameter", "typed_default_parameter":
		if isField(parent, "name", child) {
			return ctx
		}
		return ctxLoad
	case "typed_parameter":
		if isField(parent, "type", child) {
			return ctxLoad
		}
		return ctx
	case "class_definition":
		if isField(parent, "name", child) {
			return ctxNone
		}
		return ctxLoad
	case "keyword_argument":
		if isField(parent, "name", child) {
			return ctxNone
		}
		return ctxLoad
	case "global_statement", "nonlocal_statement":
		return ctxNone
	case "delete_statement":
		return ctxDel
	}
	return ctxLoad
}

func isField(parent *sitter.Node, field string, child *sitter.Node) bool {
	f := parent.ChildByFieldName(field)
	return f != nil && sameNode(f, child)
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}
