package analyzer

import (
	"github.com/ludo-technologies/codopsy/internal/parser"
)

var validTypeofValues = map[string]bool{
	"undefined": true, "object": true, "boolean": true, "number": true,
	"string": true, "function": true, "symbol": true, "bigint": true,
}

func hasCondition(n *parser.Node) bool {
	return n.Is(parser.KindIfStatement, parser.KindWhileStatement, parser.KindDoStatement,
		parser.KindForStatement, parser.KindTernary)
}

// isConstantExpression reports whether an expression's value is fixed at
// parse time: literals and operators applied only to literals.
func isConstantExpression(n *parser.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case parser.KindNumber, parser.KindString, parser.KindTrue, parser.KindFalse,
		parser.KindNull, parser.KindUndefined, parser.KindRegex:
		return true
	case parser.KindTemplateString:
		for _, c := range n.Children {
			if c.Kind == parser.KindTemplateSubst && !isConstantExpression(c.FirstNamedChild()) {
				return false
			}
		}
		return true
	case parser.KindUnary:
		switch n.Operator() {
		case "!", "-", "+", "~", "typeof", "void":
			return isConstantExpression(n.Field("argument"))
		}
		return false
	case parser.KindBinary:
		return isConstantExpression(n.Field("left")) && isConstantExpression(n.Field("right"))
	case parser.KindParenthesized:
		return isConstantExpression(n.FirstNamedChild())
	case parser.KindArray:
		for _, el := range n.NamedChildren() {
			if !isConstantExpression(el) {
				return false
			}
		}
		return true
	case parser.KindObject:
		for _, member := range n.NamedChildren() {
			if !member.Is(parser.KindPair) || !isConstantExpression(member.Field("value")) {
				return false
			}
		}
		return true
	}
	return false
}

// findAssignment returns the first plain assignment within n
func findAssignment(n *parser.Node) *parser.Node {
	return n.Find(func(c *parser.Node) bool { return c.Kind == parser.KindAssignment })
}

func checkNoCondAssign(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if !hasCondition(n) {
			return true
		}
		cond := conditionOf(n)
		if cond == nil {
			return true
		}
		// Extra parentheses mark the assignment as intentional.
		if cond.Is(parser.KindParenthesized) && cond.FirstNamedChild().Is(parser.KindAssignment) {
			return true
		}
		if assign := findAssignment(cond); assign != nil {
			ctx.Report(assign, "Unexpected assignment in condition")
		}
		return true
	})
}

func checkValidTypeof(ctx *RuleContext) {
	isTypeof := func(n *parser.Node) bool {
		return n.Is(parser.KindUnary) && n.Operator() == "typeof"
	}
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindBinary || !isEqualityOperator(n.Operator()) {
			return true
		}
		var value *parser.Node
		switch left, right := n.Field("left"), n.Field("right"); {
		case isTypeof(left):
			value = right
		case isTypeof(right):
			value = left
		}
		if !value.Is(parser.KindString) {
			return true
		}
		if text := value.StringValue(); !validTypeofValues[text] {
			ctx.Reportf(value, `Invalid typeof comparison value: "%s"`, text)
		}
		return true
	})
}

func checkNoConstantCondition(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if !hasCondition(n) {
			return true
		}
		cond := conditionOf(n)
		if !isConstantExpression(cond) {
			return true
		}
		// `while (true)` style loops are allowed.
		loop := n.Is(parser.KindWhileStatement, parser.KindDoStatement, parser.KindForStatement)
		if loop && cond.Kind == parser.KindTrue {
			return true
		}
		ctx.Report(cond, "Unexpected constant condition")
		return true
	})
}
