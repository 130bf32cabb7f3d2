package analyzer

import (
	"github.com/ludo-technologies/codopsy/internal/parser"
)

// isScopeNode reports whether entering n opens a new lexical scope
func isScopeNode(n *parser.Node) bool {
	return n.IsFunction() || n.Named && n.Is(parser.KindStatementBlock, parser.KindForStatement,
		parser.KindForInStatement, parser.KindForOfStatement, parser.KindCatchClause,
		parser.KindClassDeclaration, parser.KindClass, parser.KindAbstractClassDecl)
}

// hoistedName returns the binding introduced by a hoisted declaration
// (function, class or enum) and the declaration kind.
func hoistedName(n *parser.Node) (*parser.Node, declKind, bool) {
	var kind declKind
	switch n.Kind {
	case parser.KindFunctionDecl, parser.KindGeneratorDecl:
		kind = declFunction
	case parser.KindClassDeclaration, parser.KindAbstractClassDecl:
		kind = declClass
	case parser.KindEnumDeclaration:
		kind = declEnum
	default:
		return nil, 0, false
	}
	name := n.Field("name")
	if name == nil {
		return nil, 0, false
	}
	return name, kind, true
}

// topLevelDeclarations returns the statements of a block, looking through
// export wrappers to the declaration they carry.
func topLevelDeclarations(block *parser.Node) []*parser.Node {
	var out []*parser.Node
	for _, stmt := range block.NamedChildren() {
		if stmt.Is(parser.KindExportStatement) {
			if decl := stmt.Field("declaration"); decl != nil {
				out = append(out, decl)
			}
			continue
		}
		out = append(out, stmt)
	}
	return out
}

// hasParameterModifier reports a TypeScript parameter property such as
// `private x` or `readonly y`. Those bind class fields, not locals.
func hasParameterModifier(param *parser.Node) bool {
	if !param.Is(parser.KindRequiredParameter, parser.KindOptionalParameter) {
		return false
	}
	for _, c := range param.Children {
		if c.Kind == parser.KindAccessibilityModfr || (!c.Named && c.Kind == "readonly") {
			return true
		}
	}
	return false
}
