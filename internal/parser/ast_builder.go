package parser

import (
	"unicode/utf16"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder converts a tree-sitter tree into Node values
type ASTBuilder struct {
	source []byte
}

// NewASTBuilder creates a builder for the given source
func NewASTBuilder(source []byte) *ASTBuilder {
	return &ASTBuilder{source: source}
}

type pendingNode struct {
	ts     *sitter.Node
	parent *Node
	field  string
}

// Build converts the tree rooted at tsNode. The conversion is iterative so
// input nesting depth is bounded only by memory.
func (b *ASTBuilder) Build(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	var root *Node
	stack := []pendingNode{{ts: tsNode}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := b.convert(item.ts, item.field)
		node.Parent = item.parent
		if item.parent == nil {
			root = node
		} else {
			item.parent.Children = append(item.parent.Children, node)
		}

		count := int(item.ts.ChildCount())
		if count == 0 {
			continue
		}
		node.Children = make([]*Node, 0, count)
		// Push in reverse so children are appended in source order.
		for i := count - 1; i >= 0; i-- {
			child := item.ts.Child(i)
			if child == nil {
				continue
			}
			stack = append(stack, pendingNode{
				ts:     child,
				parent: node,
				field:  item.ts.FieldNameForChild(i),
			})
		}
	}
	return root
}

func (b *ASTBuilder) convert(tsNode *sitter.Node, field string) *Node {
	start := tsNode.StartPoint()
	end := tsNode.EndPoint()
	return &Node{
		Kind:      tsNode.Type(),
		Named:     tsNode.IsNamed(),
		FieldName: field,
		StartByte: int(tsNode.StartByte()),
		EndByte:   int(tsNode.EndByte()),
		Line:      int(start.Row) + 1,
		Column:    CharColumn(b.source, int(tsNode.StartByte()), int(start.Column)),
		EndLine:   int(end.Row) + 1,
		source:    b.source,
	}
}

// CharColumn converts a tree-sitter byte column into a 1-based column counted
// in UTF-16 code units, the unit editors and SARIF consumers expect.
// offset is the byte offset of the position within source.
func CharColumn(source []byte, offset, byteColumn int) int {
	lineStart := offset - byteColumn
	if lineStart < 0 || offset > len(source) {
		return byteColumn + 1
	}
	prefix := source[lineStart:offset]
	column := 1
	for len(prefix) > 0 {
		r, size := utf8.DecodeRune(prefix)
		prefix = prefix[size:]
		if n := utf16.RuneLen(r); n > 0 {
			column += n
		} else {
			column++
		}
	}
	return column
}
