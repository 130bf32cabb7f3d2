package analyzer

import (
	"github.com/ludo-technologies/codopsy/internal/parser"
)

var impliedEvalFuncs = map[string]bool{"setTimeout": true, "setInterval": true, "execScript": true}

func checkNoEval(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindCall {
			return true
		}
		callee := n.Field("function")
		direct := isIdentifierNamed(callee, "eval")
		global := memberName(callee) == "eval" &&
			(isIdentifierNamed(callee.Field("object"), "window") || isIdentifierNamed(callee.Field("object"), "globalThis"))
		if direct || global {
			ctx.Report(n, "eval() is not allowed")
		}
		return true
	})
}

func checkNoImpliedEval(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindCall {
			return true
		}
		args := callArguments(n)
		if len(args) == 0 || !args[0].Is(parser.KindString) {
			return true
		}
		callee := n.Field("function")
		name := memberName(callee)
		if callee.Is(parser.KindIdentifier) {
			name = callee.Text()
		}
		if impliedEvalFuncs[name] {
			ctx.Reportf(n, "Implied eval via %s() with string argument", name)
		}
		return true
	})
}

func checkNoWith(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind == parser.KindWithStatement {
			ctx.Report(n, "Unexpected use of with statement")
		}
		return true
	})
}

// checkNoVoid allows `void expr;` as a statement, the idiom for discarding
// a promise on purpose.
func checkNoVoid(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind == parser.KindUnary && n.Operator() == "void" && !n.Parent.Is(parser.KindExpressionStmt) {
			ctx.Report(n, "Unexpected use of void operator")
		}
		return true
	})
}

func checkNoLabel(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind == parser.KindLabeledStatement {
			ctx.Reportf(n, "Unexpected labeled statement: %s", n.Field("label").Text())
		}
		return true
	})
}

// isForHeaderSequence reports a comma expression used as the init or update
// clause of a for statement.
func isForHeaderSequence(n *parser.Node) bool {
	p := n.Parent
	if p.Is(parser.KindExpressionStmt) && p.FieldName == "initializer" {
		p = p.Parent
		return p.Is(parser.KindForStatement)
	}
	return p.Is(parser.KindForStatement) && (n.FieldName == "initializer" || n.FieldName == "increment")
}

// checkNoCommaOperator reports each comma chain once, at its outermost
// sequence expression.
func checkNoCommaOperator(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindSequence || n.Parent.Is(parser.KindSequence) {
			return true
		}
		if !isForHeaderSequence(n) {
			ctx.Report(n, "Unexpected use of comma operator")
		}
		return true
	})
}
