package analyzer

import (
	"github.com/ludo-technologies/codopsy/internal/parser"
)

func checkNoAny(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind == parser.KindPredefinedType && n.Text() == "any" {
			ctx.Report(n, `Avoid using "any" type`)
		}
		return true
	})
}

// consoleAliases maps local names bound to console methods, as in
// `const { log } = console` or `const warn = console.warn`.
func consoleAliases(root *parser.Node) map[string]string {
	aliases := make(map[string]string)
	root.Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindVariableDeclarator {
			return true
		}
		name, value := n.Field("name"), n.Field("value")
		switch {
		case isIdentifierNamed(value, "console") && name.Is(parser.KindObjectPattern):
			for _, el := range name.NamedChildren() {
				switch el.Kind {
				case parser.KindShorthandPat:
					aliases[el.Text()] = el.Text()
				case parser.KindPairPattern:
					key, local := el.Field("key"), el.Field("value")
					if key.Is(parser.KindPropertyIdent) && local.Is(parser.KindIdentifier) {
						aliases[local.Text()] = key.Text()
					}
				}
			}
		case name.Is(parser.KindIdentifier) && value.Is(parser.KindMember) &&
			isIdentifierNamed(value.Field("object"), "console"):
			aliases[name.Text()] = memberName(value)
		}
		return true
	})
	return aliases
}

func checkNoConsole(ctx *RuleContext) {
	aliases := consoleAliases(ctx.Root())
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindCall {
			return true
		}
		callee := n.Field("function")
		method := ""
		switch {
		case callee.Is(parser.KindMember) && isIdentifierNamed(callee.Field("object"), "console"):
			method = memberName(callee)
		case callee.Is(parser.KindSubscript) && isIdentifierNamed(callee.Field("object"), "console"):
			if idx := callee.Field("index"); idx.Is(parser.KindString) {
				method = idx.StringValue()
			}
		case callee.Is(parser.KindIdentifier):
			method = aliases[callee.Text()]
		}
		if method != "" {
			ctx.Reportf(n, "Unexpected console.%s statement", method)
		}
		return true
	})
}

func checkNoEmptyFunction(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if !n.IsFunction() {
			return true
		}
		body := functionBody(n)
		if !body.Is(parser.KindStatementBlock) {
			return true
		}
		// A body holding only a comment is intentional.
		for _, c := range body.Children {
			if c.Named {
				return true
			}
		}
		ctx.Report(n, "Unexpected empty function")
		return true
	})
}

func isJSXBoundary(n *parser.Node) bool {
	return n.Is(parser.KindJSXElement, parser.KindJSXSelfClosing, parser.KindJSXFragment)
}

func checkNoNestedTernary(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindTernary {
			return true
		}
		nested := false
		for _, c := range n.Children {
			found := c.Find(func(d *parser.Node) bool {
				return d.Kind == parser.KindTernary && !insideJSX(d, n)
			})
			if found != nil {
				nested = true
				break
			}
		}
		if nested {
			ctx.Report(n, "Do not nest ternary expressions")
		}
		return true
	})
}

// insideJSX reports whether a JSX element lies between n and its ancestor top
func insideJSX(n, top *parser.Node) bool {
	for p := n.Parent; p != nil && p != top; p = p.Parent {
		if isJSXBoundary(p) {
			return true
		}
	}
	return false
}

func checkNoVar(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		switch n.Kind {
		case parser.KindVariableDeclaration:
			ctx.Report(n, "Unexpected var, use let or const instead")
		case parser.KindForInStatement:
			if kind := n.Field("kind"); kind != nil && kind.Text() == "var" {
				ctx.Report(kind, "Unexpected var, use let or const instead")
			}
		}
		return true
	})
}

func checkEqeqeq(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindBinary {
			return true
		}
		op := n.Field("operator")
		switch op.Text() {
		case "==":
			ctx.Report(op, `Expected "===" but found "=="`)
		case "!=":
			ctx.Report(op, `Expected "!==" but found "!="`)
		}
		return true
	})
}

func checkNoNonNullAssertion(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind == parser.KindNonNull {
			ctx.Report(n, "Forbidden non-null assertion")
		}
		return true
	})
}
