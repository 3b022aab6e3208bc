package parser

import (
	"wake/internal/core/errors"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Parser turns Python source into tree-sitter syntax trees.
type Parser struct {
	pool *ParserPool
}

func NewParser() (*Parser, error) {
	lang, err := Grammar(LanguagePython)
	if err != nil {
		return nil, err
	}
	return &Parser{pool: NewParserPool(lang)}, nil
}

// Tree is a parsed file. Close must be called to release the native tree.
type Tree struct {
	inner  *sitter.Tree
	Path   string
	Source []byte
}

func (t *Tree) Root() *sitter.Node {
	return t.inner.RootNode()
}

func (t *Tree) Close() {
	if t != nil && t.inner != nil {
		t.inner.Close()
	}
}

// Parse parses content. A tree containing error or missing nodes is closed
// and reported as a CodeSyntax error wrapping a *SyntaxError.
func (p *Parser) Parse(path string, content []byte) (*Tree, error) {
	sp := p.pool.Get()
	defer p.pool.Put(sp)

	inner := sp.Parse(content, nil)
	if inner == nil {
		return nil, errors.AddContext(errors.New(errors.CodeInternal, "parse failed"), errors.CtxPath, path)
	}

	root := inner.RootNode()
	if root.HasError() {
		syntaxErr := newSyntaxError(path, content, root)
		inner.Close()
		return nil, errors.AddContext(errors.Wrap(syntaxErr, errors.CodeSyntax, "invalid syntax"), errors.CtxPath, path)
	}
	return &Tree{inner: inner, Path: path, Source: content}, nil
}
