package symbols

import (
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type category int

const (
	catOther category = iota
	catFunction
	catClass
	catAttribute
	catName
	catTupleHost
	catString
	catIf
	catImport
	catImportFrom
)

var categories = map[string]category{
	"function_definition":     catFunction,
	"class_definition":        catClass,
	"attribute":               catAttribute,
	"identifier":              catName,
	"keyword_identifier":      catName,
	"assignment":              catTupleHost,
	"for_statement":           catTupleHost,
	"for_in_clause":           catTupleHost,
	"string":                  catString,
	"if_statement":            catIf,
	"elif_clause":             catIf,
	"import_statement":        catImport,
	"import_from_statement":   catImportFrom,
	"future_import_statement": catImportFrom,
}

// tupleTargets are the node kinds that make up an unpacking target.
var tupleTargets = map[string]bool{
	"pattern_list":    true,
	"tuple_pattern":   true,
	"expression_list": true,
	"tuple":           true,
}

// formatKey matches %-style named placeholders such as "%(name)s".
var formatKey = regexp.MustCompile(`%\((\S+)\)s`)

// fileScan is the state of one file's traversal.
type fileScan struct {
	c      *Collector
	path   string
	source []byte
	lines  []string
	main   bool
	halted bool
}

func newFileScan(c *Collector, path string, source []byte, main bool) *fileScan {
	lines := strings.Split(string(source), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return &fileScan{c: c, path: path, source: source, lines: lines, main: main}
}

func (s *fileScan) walk(node *sitter.Node, ctx exprContext) {
	if node == nil || s.halted {
		return
	}

	switch categories[node.Kind()] {
	case catFunction:
		s.visitFunction(node)
	case catClass:
		s.visitClass(node)
	case catAttribute:
		s.visitAttribute(node, ctx)
	case catName:
		s.visitName(node, ctx)
	case catTupleHost:
		s.findTupleTargets(node)
	case catString:
		s.visitString(node)
	case catIf:
		s.visitIf(node)
	case catImport:
		s.visitImport(node)
		return
	case catImportFrom:
		s.visitImportFrom(node)
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		s.walk(child, childContext(node, child, ctx))
	}
}

func (s *fileScan) text(node *sitter.Node) string {
	return string(s.source[node.StartByte():node.EndByte()])
}

func (s *fileScan) occurrence(node *sitter.Node, name string, kind Kind) Occurrence {
	line := int(node.StartPosition().Row) + 1
	text := ""
	if line-1 < len(s.lines) {
		text = s.lines[line-1]
	}
	return Occurrence{Name: name, Kind: kind, File: s.path, Line: line, Text: text}
}

func (s *fileScan) visitFunction(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := s.text(nameNode)
	switch {
	case s.hasPropertyDecorator(node):
		s.c.acc.defineProp(s.occurrence(node, name, KindProperty))
	case isDunder(name):
	default:
		s.c.acc.defineFunc(s.occurrence(node, name, KindFunction))
	}
}

// hasPropertyDecorator reports whether the function is decorated with the
// bare name property. Forms like @x.setter do not count.
func (s *fileScan) hasPropertyDecorator(fn *sitter.Node) bool {
	parent := fn.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return false
	}
	for i := uint(0); i < parent.ChildCount(); i++ {
		dec := parent.Child(i)
		if dec == nil || dec.Kind() != "decorator" {
			continue
		}
		expr := dec.NamedChild(0)
		if expr != nil && expr.Kind() == "identifier" && s.text(expr) == "property" {
			return true
		}
	}
	return false
}

func isDunder(name string) bool {
	return strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

func (s *fileScan) visitClass(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	s.c.acc.defineFunc(s.occurrence(node, s.text(nameNode), KindClass))
}

func (s *fileScan) visitAttribute(node *sitter.Node, ctx exprContext) {
	attr := node.ChildByFieldName("attribute")
	if attr == nil {
		return
	}
	name := s.text(attr)
	switch ctx {
	case ctxStore:
		s.c.acc.defineAttr(s.occurrence(node, name, KindAttribute))
	case ctxLoad:
		s.c.acc.useAttr(name)
	}
}

func (s *fileScan) visitName(node *sitter.Node, ctx exprContext) {
	if ctx == ctxNone {
		return
	}
	name := s.text(node)
	if name == "object" {
		return
	}
	s.c.acc.useFunc(name)
	switch ctx {
	case ctxLoad:
		s.c.acc.useVar(name)
	case ctxStore:
		if !strings.HasPrefix(name, "_") {
			s.c.acc.defineVar(s.occurrence(node, name, KindVariable))
		}
	}
}

// findTupleTargets exempts every name bound by an unpacking target directly
// under an assignment or loop header.
func (s *fileScan) findTupleTargets(node *sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || !tupleTargets[child.Kind()] {
			continue
		}
		s.collectStoreNames(child, childContext(node, child, ctxLoad))
	}
}

func (s *fileScan) collectStoreNames(node *sitter.Node, ctx exprContext) {
	if categories[node.Kind()] == catName {
		if ctx == ctxStore {
			s.c.acc.exemptTupleVar(s.text(node))
		}
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		s.collectStoreNames(child, childContext(node, child, ctx))
	}
}

func (s *fileScan) visitString(node *sitter.Node) {
	for _, m := range formatKey.FindAllStringSubmatch(s.text(node), -1) {
		s.c.acc.useVar(m[1])
	}
}

func (s *fileScan) visitIf(node *sitter.Node) {
	if !s.c.opts.HaltOnMain || s.main {
		return
	}
	if isMainGuard(node.ChildByFieldName("condition"), s.source) {
		s.c.logger.Debug("halting at main guard", "path", s.path, "line", node.StartPosition().Row+1)
		s.halted = true
	}
}
