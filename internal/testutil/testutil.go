// Package testutil provides helper functions for testing codopsy components
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/codopsy/internal/parser"
)

// ParseSource parses source as if it came from filename and closes the tree
// when the test ends.
func ParseSource(t *testing.T, filename, source string) *parser.Tree {
	t.Helper()
	tree, err := parser.ParseString(filename, source)
	if err != nil {
		t.Fatalf("Failed to parse test code: %v", err)
	}
	t.Cleanup(tree.Close)
	return tree
}

// ParseTS parses TypeScript source
func ParseTS(t *testing.T, source string) *parser.Tree {
	t.Helper()
	return ParseSource(t, "test.ts", source)
}

// ParseJS parses JavaScript source
func ParseJS(t *testing.T, source string) *parser.Tree {
	t.Helper()
	return ParseSource(t, "test.js", source)
}

// WriteFiles creates files under dir from a path -> content map and returns
// the absolute paths written.
func WriteFiles(t *testing.T, dir string, files map[string]string) []string {
	t.Helper()
	paths := make([]string, 0, len(files))
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		paths = append(paths, path)
	}
	return paths
}

// FindFunction finds the first function-like node with the given name field
func FindFunction(root *parser.Node, name string) *parser.Node {
	return root.Find(func(n *parser.Node) bool {
		if !n.IsFunction() {
			return false
		}
		if id := n.Field("name"); id != nil && id.Text() == name {
			return true
		}
		if decl := n.Parent; decl.Is(parser.KindVariableDeclarator) {
			if id := decl.Field("name"); id != nil && id.Text() == name {
				return true
			}
		}
		return false
	})
}

// CountKind counts nodes of a kind in a subtree
func CountKind(root *parser.Node, kind string) int {
	count := 0
	root.Walk(func(n *parser.Node) bool {
		if n.Kind == kind {
			count++
		}
		return true
	})
	return count
}
