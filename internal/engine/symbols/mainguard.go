package symbols

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// isMainGuard reports whether cond is the comparison
// __name__ == "__main__", in either operand order.
func isMainGuard(cond *sitter.Node, source []byte) bool {
	for cond != nil && cond.Kind() == "parenthesized_expression" {
		cond = cond.NamedChild(0)
	}
	if cond == nil || cond.Kind() != "comparison_operator" {
		return false
	}

	var operands []*sitter.Node
	equals := 0
	for i := uint(0); i < cond.ChildCount(); i++ {
		child := cond.Child(i)
		if child == nil {
			continue
		}
		if child.IsNamed() {
			operands = append(operands, child)
			continue
		}
		if child.Kind() != "==" {
			return false
		}
		equals++
	}
	if equals != 1 || len(operands) != 2 {
		return false
	}

	left, right := operands[0], operands[1]
	return (isNameNode(left, source) && isMainString(right, source)) ||
		(isNameNode(right, source) && isMainString(left, source))
}

func isNameNode(node *sitter.Node, source []byte) bool {
	return node.Kind() == "identifier" && string(source[node.StartByte():node.EndByte()]) == "__name__"
}

func isMainString(node *sitter.Node, source []byte) bool {
	if node.Kind() != "string" {
		return false
	}
	var b strings.Builder
	for i := uint(0); i < node.NamedChildCount(); i++ {
		part := node.NamedChild(i)
		switch part.Kind() {
		case "string_content":
			b.Write(source[part.StartByte():part.EndByte()])
		case "string_start", "string_end":
		default:
			return false
		}
	}
	return b.String() == "__main__"
}
