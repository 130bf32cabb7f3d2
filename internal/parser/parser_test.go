package parser

import (
	"strings"
	"testing"
)

func TestParseSimpleFunction(t *testing.T) {
	tree, err := ParseString("test.js", `function hello() { return 42; }`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()

	if tree.Root == nil || tree.Root.Kind != KindProgram {
		t.Fatalf("expected program root, got %v", tree.Root)
	}

	fn := tree.Root.FirstNamedChild()
	if fn == nil || fn.Kind != KindFunctionDecl {
		t.Fatalf("expected function_declaration, got %v", fn)
	}
	if name := fn.Field("name"); name == nil || name.Text() != "hello" {
		t.Errorf("expected function name 'hello', got %v", name)
	}
	if fn.Line != 1 || fn.Column != 1 {
		t.Errorf("expected position 1:1, got %d:%d", fn.Line, fn.Column)
	}
}

func TestParentLinksAndFields(t *testing.T) {
	code := "function greet(name) {\n  if (name) {\n    return 1;\n  } else {\n    return 2;\n  }\n}\n"
	tree, err := ParseString("test.js", code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()

	ifNode := tree.Root.Find(func(n *Node) bool { return n.Kind == KindIfStatement })
	if ifNode == nil {
		t.Fatal("if_statement not found")
	}
	if ifNode.Line != 2 || ifNode.Column != 3 {
		t.Errorf("if position = %d:%d, want 2:3", ifNode.Line, ifNode.Column)
	}
	if cond := ifNode.Field("condition"); cond == nil || cond.Unparen().Text() != "name" {
		t.Errorf("unexpected condition: %v", cond)
	}
	if alt := ifNode.Field("alternative"); alt == nil || alt.Kind != KindElseClause {
		t.Errorf("expected else_clause alternative, got %v", alt)
	}
	if fn := ifNode.Ancestor(KindFunctionDecl); fn == nil {
		t.Error("Ancestor should find the enclosing function")
	}
}

func TestLanguageForFile(t *testing.T) {
	tests := []struct {
		file string
		want Language
	}{
		{"a.js", LanguageJavaScript},
		{"a.jsx", LanguageJavaScript},
		{"a.mjs", LanguageJavaScript},
		{"a.ts", LanguageTypeScript},
		{"a.mts", LanguageTypeScript},
		{"a.cts", LanguageTypeScript},
		{"a.tsx", LanguageTSX},
		{"A.TSX", LanguageTSX},
	}
	for _, tt := range tests {
		if got := LanguageForFile(tt.file); got != tt.want {
			t.Errorf("LanguageForFile(%q) = %s, want %s", tt.file, got, tt.want)
		}
	}
}

func TestParseTypeScript(t *testing.T) {
	tree, err := ParseString("test.ts", `const x: any = 1; function f(a: number): string { return ""; }`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()

	anyNode := tree.Root.Find(func(n *Node) bool {
		return n.Kind == KindPredefinedType && n.Text() == "any"
	})
	if anyNode == nil {
		t.Error("expected predefined_type any in TypeScript tree")
	}
}

func TestWalkHandlesDeepNesting(t *testing.T) {
	depth := 500
	code := strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth) + ";"
	tree, err := ParseString("deep.js", code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()

	count := 0
	tree.Root.Walk(func(n *Node) bool {
		if n.Kind == KindParenthesized {
			count++
		}
		return true
	})
	if count != depth {
		t.Errorf("expected %d parenthesized nodes, got %d", depth, count)
	}
}

func TestStringValue(t *testing.T) {
	tree, err := ParseString("s.js", `const a = "hello"; const b = 'x';`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()

	var values []string
	tree.Root.Walk(func(n *Node) bool {
		if n.Kind == KindString {
			values = append(values, n.StringValue())
		}
		return true
	})
	if len(values) != 2 || values[0] != "hello" || values[1] != "x" {
		t.Errorf("unexpected string values: %v", values)
	}
}

func TestLineCount(t *testing.T) {
	tree, err := ParseString("l.js", "a;\nb;\nc;\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()
	if got := tree.LineCount(); got != 4 {
		t.Errorf("LineCount = %d, want 4", got)
	}
}

func TestColumnsCountUTF16Units(t *testing.T) {
	code := "const s = \"é\"; let a = 1;\nconst e = \"😀\"; let b = 2;\n"
	tree, err := ParseString("test.js", code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()

	var decls []*Node
	tree.Root.Walk(func(n *Node) bool {
		if n.Kind == KindLexicalDeclaration && strings.HasPrefix(n.Text(), "let") {
			decls = append(decls, n)
		}
		return true
	})
	if len(decls) != 2 {
		t.Fatalf("expected 2 let declarations, got %d", len(decls))
	}
	if decls[0].Line != 1 || decls[0].Column != 16 {
		t.Errorf("first let at %d:%d, want 1:16", decls[0].Line, decls[0].Column)
	}
	if decls[1].Line != 2 || decls[1].Column != 17 {
		t.Errorf("second let at %d:%d, want 2:17", decls[1].Line, decls[1].Column)
	}
}

func TestCharColumn(t *testing.T) {
	src := []byte("ab\né😀x")
	tests := []struct {
		name       string
		offset     int
		byteColumn int
		want       int
	}{
		{"line start", 3, 0, 1},
		{"after two-byte rune", 5, 2, 2},
		{"after four-byte rune", 9, 6, 4},
		{"ascii", 2, 2, 3},
		{"out of range falls back to bytes", 99, 4, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CharColumn(src, tt.offset, tt.byteColumn); got != tt.want {
				t.Errorf("CharColumn(%d, %d) = %d, want %d", tt.offset, tt.byteColumn, got, tt.want)
			}
		})
	}
}
