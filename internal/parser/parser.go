package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language identifies the grammar used for a file
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
)

// LanguageForFile selects the grammar from the file extension
func LanguageForFile(filename string) Language {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript
	case ".tsx":
		return LanguageTSX
	default:
		return LanguageJavaScript
	}
}

// SitterLanguage returns the tree-sitter grammar for a language
func SitterLanguage(lang Language) *sitter.Language {
	switch lang {
	case LanguageTypeScript:
		return typescript.GetLanguage()
	case LanguageTSX:
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// Tree is a parsed file. Close releases the underlying tree-sitter tree.
type Tree struct {
	Path     string
	Source   []byte
	Language Language
	Root     *Node

	sitterTree *sitter.Tree
	sitterLang *sitter.Language
}

// SitterRoot returns the raw tree-sitter root, for query-based consumers
func (t *Tree) SitterRoot() *sitter.Node {
	if t == nil || t.sitterTree == nil {
		return nil
	}
	return t.sitterTree.RootNode()
}

// SitterLanguage returns the grammar the tree was parsed with
func (t *Tree) SitterLanguage() *sitter.Language {
	return t.sitterLang
}

// Close frees the tree-sitter tree
func (t *Tree) Close() {
	if t != nil && t.sitterTree != nil {
		t.sitterTree.Close()
		t.sitterTree = nil
	}
}

// LineCount returns the number of lines in the source
func (t *Tree) LineCount() int {
	return strings.Count(string(t.Source), "\n") + 1
}

// Parser wraps a tree-sitter parser for one language
type Parser struct {
	parser   *sitter.Parser
	language *sitter.Language
	lang     Language
}

// NewParser creates a parser for the given language
func NewParser(lang Language) *Parser {
	p := sitter.NewParser()
	grammar := SitterLanguage(lang)
	p.SetLanguage(grammar)
	return &Parser{parser: p, language: grammar, lang: lang}
}

// Parse parses source into a Tree
func (p *Parser) Parse(ctx context.Context, filename string, source []byte) (*Tree, error) {
	tsTree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	if tsTree == nil {
		return nil, fmt.Errorf("failed to parse %s: no syntax tree produced", filename)
	}

	rootNode := tsTree.RootNode()
	if rootNode == nil {
		tsTree.Close()
		return nil, fmt.Errorf("no root node in parse tree for %s", filename)
	}

	return &Tree{
		Path:       filename,
		Source:     source,
		Language:   p.lang,
		Root:       NewASTBuilder(source).Build(rootNode),
		sitterTree: tsTree,
		sitterLang: p.language,
	}, nil
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ParseFile parses source with the grammar matching filename
func ParseFile(ctx context.Context, filename string, source []byte) (*Tree, error) {
	p := NewParser(LanguageForFile(filename))
	defer p.Close()
	return p.Parse(ctx, filename, source)
}

// ParseString is a convenience wrapper used mostly by tests
func ParseString(filename, source string) (*Tree, error) {
	return ParseFile(context.Background(), filename, []byte(source))
}
