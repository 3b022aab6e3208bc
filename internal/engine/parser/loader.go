package parser

import (
	"strings"
	"sync"

	"wake/internal/core/errors"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

const LanguagePython = "python"

var (
	grammarsOnce sync.Once
	grammars     map[string]*sitter.Language
)

func loadGrammars() {
	grammars = map[string]*sitter.Language{
		LanguagePython: sitter.NewLanguage(tree_sitter_python.Language()),
	}
}

// Grammar returns the runtime tree-sitter grammar for language.
func Grammar(language string) (*sitter.Language, error) {
	grammarsOnce.Do(loadGrammars)
	lang, ok := grammars[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		return nil, errors.AddContext(errors.New(errors.CodeNotSupported, "no grammar for language"), "language", language)
	}
	return lang, nil
}
