package analyzer

import (
	"github.com/ludo-technologies/codopsy/internal/parser"
)

func checkNoUselessCatch(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindCatchClause {
			return true
		}
		param := n.Field("parameter")
		if !param.Is(parser.KindIdentifier) {
			return true
		}
		body := statements(n.Field("body"))
		if len(body) != 1 || !body[0].Is(parser.KindThrowStatement) {
			return true
		}
		if isIdentifierNamed(body[0].FirstNamedChild(), param.Text()) {
			ctx.Report(n, "Unnecessary catch clause that only rethrows the caught error")
		}
		return true
	})
}

func checkNoUselessRename(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		var kind, name string
		switch n.Kind {
		case parser.KindImportSpecifier, parser.KindExportSpecifier:
			orig, alias := n.Field("name"), n.Field("alias")
			if orig != nil && alias != nil && orig.Text() == alias.Text() {
				name = alias.Text()
				kind = "Import"
				if n.Kind == parser.KindExportSpecifier {
					kind = "Export"
				}
			}
		case parser.KindPairPattern:
			key, value := n.Field("key"), n.Field("value")
			if value.Is(parser.KindAssignmentPat) {
				value = value.Field("left")
			}
			if key.Is(parser.KindPropertyIdent) && value.Is(parser.KindIdentifier) && key.Text() == value.Text() {
				name = value.Text()
				kind = "Destructuring"
			}
		}
		if kind != "" {
			ctx.Reportf(n, "%s %s is unnecessarily renamed to itself", kind, name)
		}
		return true
	})
}

// hasParameterProperties reports TypeScript constructor parameters that also
// declare class fields, such as `constructor(private x: number)`.
func hasParameterProperties(ctor *parser.Node) bool {
	for _, p := range functionParams(ctor) {
		if hasParameterModifier(p) {
			return true
		}
	}
	return false
}

// isPassthroughSuperCall matches a constructor whose only statement is
// super(...) with exactly its own parameters in order.
func isPassthroughSuperCall(ctor *parser.Node) bool {
	body := statements(functionBody(ctor))
	if len(body) != 1 || !body[0].Is(parser.KindExpressionStmt) {
		return false
	}
	call := body[0].FirstNamedChild()
	if !call.Is(parser.KindCall) || !call.Field("function").Is(parser.KindSuper) {
		return false
	}
	args := callArguments(call)
	params := functionParams(ctor)
	if len(args) != len(params) {
		return false
	}
	for i, arg := range args {
		param := params[i]
		if param.Is(parser.KindRequiredParameter, parser.KindOptionalParameter) {
			param = param.Field("pattern")
		}
		if !arg.Is(parser.KindIdentifier) || !param.Is(parser.KindIdentifier) || arg.Text() != param.Text() {
			return false
		}
	}
	return true
}

func checkNoUselessConstructor(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if !isConstructor(n) || functionBody(n) == nil {
			return true
		}
		switch {
		case len(statements(functionBody(n))) == 0 && !hasParameterProperties(n):
			ctx.Report(n, "Unnecessary constructor")
		case isPassthroughSuperCall(n):
			ctx.Report(n, "Unnecessary constructor that only passes through to super")
		}
		return true
	})
}
