package parser

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// SyntaxError describes the first error or missing node of a tree.
type SyntaxError struct {
	Path    string
	Line    int
	Column  int
	Snippet string
}

func (e *SyntaxError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("%s:%d:%d: invalid syntax", e.Path, e.Line, e.Column)
	}
	return fmt.Sprintf("%s:%d:%d: invalid syntax near %q", e.Path, e.Line, e.Column, e.Snippet)
}

func newSyntaxError(path string, source []byte, root *sitter.Node) *SyntaxError {
	node := firstErrorNode(root)
	if node == nil {
		node = root
	}
	pos := node.StartPosition()
	return &SyntaxError{
		Path:    path,
		Line:    int(pos.Row) + 1,
		Column:  int(pos.Column) + 1,
		Snippet: snippetAt(source, int(pos.Row)),
	}
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Kind() == "ERROR" || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

func snippetAt(source []byte, row int) string {
	lines := strings.Split(string(source), "\n")
	if row < 0 || row >= len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[row])
}
