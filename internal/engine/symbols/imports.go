package symbols

import (
	"strings"

	"wake/internal/shared/observability"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ModuleFinder maps Python module names to files on disk.
type ModuleFinder interface {
	Find(name string) (string, bool)
	FindRelative(fromFile string, level int, name string) (string, bool)
}

// PathFilter decides whether a discovered path is left out of the scan.
type PathFilter interface {
	Excluded(path string) bool
}

// visitImport handles "import a.b as c" statements.
func (s *fileScan) visitImport(node *sitter.Node) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		module, alias := s.importedName(node.NamedChild(i))
		if module == "" {
			continue
		}
		s.c.logger.Debug("found import", "path", s.path, "module", module, "alias", alias)
		if s.c.finder == nil {
			continue
		}
		if found, ok := s.c.finder.Find(module); ok {
			s.c.enqueueImport(found)
		}
	}
}

// visitImportFrom handles absolute and relative from-imports. When the
// module part does not name a source file (a package, or "from . import x")
// each imported name is tried as a submodule.
func (s *fileScan) visitImportFrom(node *sitter.Node) {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode == nil {
		return
	}

	level := 0
	module := ""
	if moduleNode.Kind() == "relative_import" {
		for i := uint(0); i < moduleNode.ChildCount(); i++ {
			part := moduleNode.Child(i)
			switch part.Kind() {
			case "import_prefix":
				level = strings.Count(s.text(part), ".")
			case "dotted_name":
				module = s.text(part)
			}
		}
	} else {
		module = s.text(moduleNode)
	}

	s.c.logger.Debug("found import", "path", s.path, "module", module, "level", level)
	if s.c.finder == nil {
		return
	}

	find := func(name string) (string, bool) {
		if level == 0 {
			return s.c.finder.Find(name)
		}
		return s.c.finder.FindRelative(s.path, level, name)
	}

	if module != "" {
		if found, ok := find(module); ok {
			s.c.enqueueImport(found)
			return
		}
	}
	for _, name := range s.fromImportNames(node) {
		if module != "" {
			name = module + "." + name
		}
		if found, ok := find(name); ok {
			s.c.enqueueImport(found)
		}
	}
}

// fromImportNames lists the names after the import keyword.
func (s *fileScan) fromImportNames(node *sitter.Node) []string {
	var names []string
	afterImport := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "import" {
			afterImport = true
			continue
		}
		if !afterImport {
			continue
		}
		if name, _ := s.importedName(child); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (s *fileScan) importedName(node *sitter.Node) (name, alias string) {
	switch node.Kind() {
	case "dotted_name":
		return s.text(node), ""
	case "aliased_import":
		if n := node.ChildByFieldName("name"); n != nil {
			name = s.text(n)
		}
		if a := node.ChildByFieldName("alias"); a != nil {
			alias = s.text(a)
		}
		return name, alias
	}
	return "", ""
}

func (c *Collector) enqueueImport(path string) {
	if c.opts.Filter != nil && c.opts.Filter.Excluded(path) {
		c.logger.Debug("import excluded", "path", path)
		return
	}
	if c.queue.PushImport(path) {
		c.logger.Debug("importing", "path", path)
		observability.ImportsDiscoveredTotal.Inc()
	}
}
