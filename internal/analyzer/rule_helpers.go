package analyzer

import (
	"github.com/ludo-technologies/codopsy/internal/parser"
)

// bindingIdentifiers returns the identifiers bound by a declaration target:
// a plain identifier or an object/array destructuring pattern. Default values
// and computed keys are not bindings and are skipped.
func bindingIdentifiers(n *parser.Node) []*parser.Node {
	var out []*parser.Node
	var collect func(*parser.Node)
	collect = func(p *parser.Node) {
		if p == nil {
			return
		}
		switch p.Kind {
		case parser.KindIdentifier, parser.KindShorthandPat:
			out = append(out, p)
		case parser.KindObjectPattern, parser.KindArrayPattern:
			for _, c := range p.NamedChildren() {
				collect(c)
			}
		case parser.KindPairPattern:
			collect(p.Field("value"))
		case parser.KindAssignmentPat, parser.KindObjectAssignPat:
			collect(p.Field("left"))
		case parser.KindRestPattern:
			collect(p.FirstNamedChild())
		case parser.KindRequiredParameter, parser.KindOptionalParameter:
			collect(p.Field("pattern"))
		}
	}
	collect(n)
	return out
}

// assignmentTargetNames returns the identifier names written by an
// assignment target, looking through destructuring patterns.
func assignmentTargetNames(n *parser.Node) []string {
	var names []string
	var collect func(*parser.Node)
	collect = func(p *parser.Node) {
		if p == nil {
			return
		}
		switch p.Kind {
		case parser.KindIdentifier, parser.KindShorthandProp, parser.KindShorthandPat:
			names = append(names, p.Text())
		case parser.KindParenthesized:
			collect(p.Unparen())
		case parser.KindArray, parser.KindArrayPattern, parser.KindObject, parser.KindObjectPattern:
			for _, c := range p.NamedChildren() {
				collect(c)
			}
		case parser.KindPair, parser.KindPairPattern:
			collect(p.Field("value"))
		case parser.KindAssignmentPat, parser.KindObjectAssignPat:
			collect(p.Field("left"))
		case parser.KindRestPattern, parser.KindSpreadElement:
			collect(p.FirstNamedChild())
		}
	}
	collect(n)
	return names
}

// rootIdentifier resolves a.b[c].d to a
func rootIdentifier(n *parser.Node) *parser.Node {
	for n != nil {
		switch n.Kind {
		case parser.KindIdentifier:
			return n
		case parser.KindMember, parser.KindSubscript:
			n = n.Field("object")
		default:
			return nil
		}
	}
	return nil
}

func isPropertyAccess(n *parser.Node) bool {
	return n.Is(parser.KindMember, parser.KindSubscript)
}

// isIdentifierNamed reports whether n is an identifier with the given text
func isIdentifierNamed(n *parser.Node, name string) bool {
	return n.Is(parser.KindIdentifier) && n.Text() == name
}

// memberName returns the property name of a.b, or "" for other nodes
func memberName(n *parser.Node) string {
	if !n.Is(parser.KindMember) {
		return ""
	}
	if prop := n.Field("property"); prop != nil {
		return prop.Text()
	}
	return ""
}

// callArguments returns the argument expressions of a call or new expression
func callArguments(n *parser.Node) []*parser.Node {
	args := n.Field("arguments")
	if !args.Is(parser.KindArguments) {
		return nil
	}
	return args.NamedChildren()
}

// statements returns the statement list of a block-like node: a statement
// block, the program, or a switch clause (whose value is not a statement).
func statements(n *parser.Node) []*parser.Node {
	if n.Is(parser.KindSwitchCase, parser.KindSwitchDefault) {
		var out []*parser.Node
		seenColon := false
		for _, c := range n.Children {
			if !c.Named && c.Kind == ":" && !seenColon {
				seenColon = true
				continue
			}
			if seenColon && c.Named && !c.IsComment() {
				out = append(out, c)
			}
		}
		return out
	}
	return n.NamedChildren()
}

func isTerminator(n *parser.Node) bool {
	return n.Is(parser.KindReturnStatement, parser.KindThrowStatement,
		parser.KindBreakStatement, parser.KindContinueStatement)
}

// conditionOf returns the test expression of an if, while, do, for or
// ternary node with the statement's own parentheses removed.
func conditionOf(n *parser.Node) *parser.Node {
	switch n.Kind {
	case parser.KindIfStatement, parser.KindWhileStatement, parser.KindDoStatement:
		cond := n.Field("condition")
		if cond.Is(parser.KindParenthesized) {
			return cond.FirstNamedChild()
		}
		return cond
	case parser.KindForStatement:
		cond := n.Field("condition")
		switch {
		case cond == nil, !cond.Named, cond.Is(parser.KindEmptyStatement):
			return nil
		case cond.Is(parser.KindExpressionStmt):
			return cond.FirstNamedChild()
		}
		return cond
	case parser.KindTernary:
		return n.Field("condition")
	}
	return nil
}

// isExported reports whether a declaration sits directly under an export
func isExported(n *parser.Node) bool {
	return n.Parent.Is(parser.KindExportStatement)
}

func hasTemplateSubstitution(n *parser.Node) bool {
	for _, c := range n.Children {
		if c.Kind == parser.KindTemplateSubst {
			return true
		}
	}
	return false
}
