package analyzer

import (
	"github.com/ludo-technologies/codopsy/internal/parser"
)

var (
	promiseStaticMethods = map[string]bool{
		"resolve": true, "reject": true, "all": true, "race": true, "allSettled": true, "any": true,
	}
	promiseChainMethods = map[string]bool{"then": true, "catch": true, "finally": true}
	syncCallbackMethods = map[string]bool{
		"filter": true, "some": true, "every": true, "find": true, "findIndex": true, "map": true, "forEach": true,
	}
)

// asyncFunctionNames collects names bound to async functions: async
// declarations and variables initialised with an async function expression.
func asyncFunctionNames(root *parser.Node) map[string]bool {
	names := make(map[string]bool)
	root.Walk(func(n *parser.Node) bool {
		switch n.Kind {
		case parser.KindFunctionDecl:
			if name := n.Field("name"); name != nil && n.IsAsync() {
				names[name.Text()] = true
			}
		case parser.KindVariableDeclarator:
			name, value := n.Field("name"), n.Field("value")
			if name.Is(parser.KindIdentifier) &&
				value.Is(parser.KindArrowFunction, parser.KindFunctionExpr) && value.IsAsync() {
				names[name.Text()] = true
			}
		}
		return true
	})
	return names
}

func isPromiseFactoryCall(call *parser.Node) bool {
	callee := call.Field("function")
	return callee.Is(parser.KindMember) && isIdentifierNamed(callee.Field("object"), "Promise") &&
		promiseStaticMethods[memberName(callee)]
}

func isAsyncCall(call *parser.Node, asyncNames map[string]bool) bool {
	callee := call.Field("function")
	if callee.Is(parser.KindIdentifier) && asyncNames[callee.Text()] {
		return true
	}
	return isPromiseFactoryCall(call)
}

// isHandledPromise reports whether the value of call is consumed: awaited,
// voided, returned, stored, or chained with then/catch/finally.
func isHandledPromise(call *parser.Node) bool {
	p := call.Parent
	switch {
	case p == nil:
		return false
	case p.Is(parser.KindAwait, parser.KindReturnStatement, parser.KindVariableDeclarator):
		return true
	case p.Is(parser.KindUnary) && p.Operator() == "void":
		return true
	case p.Is(parser.KindAssignment):
		return true
	case p.Is(parser.KindMember) && promiseChainMethods[memberName(p)]:
		return p.Parent.Is(parser.KindCall)
	}
	return false
}

func checkNoFloatingPromises(ctx *RuleContext) {
	asyncNames := asyncFunctionNames(ctx.Root())
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindExpressionStmt {
			return true
		}
		call := n.FirstNamedChild()
		if !call.Is(parser.KindCall) {
			return true
		}
		if isAsyncCall(call, asyncNames) && !isHandledPromise(call) {
			ctx.Report(n, "Promise returned by this call must be handled (await, .then/.catch, void, or assignment)")
		}
		return true
	})
}

// isInCondition reports whether an expression is evaluated for truthiness
func isInCondition(n *parser.Node) bool {
	p := n.Parent
	if p == nil {
		return false
	}
	if hasCondition(p) && p.Field("condition") == n {
		return true
	}
	if p.Is(parser.KindParenthesized, parser.KindExpressionStmt) && p.FieldName == "condition" && hasCondition(p.Parent) {
		return true
	}
	if p.Is(parser.KindBinary) {
		switch p.Operator() {
		case "&&", "||":
			return true
		}
	}
	if p.Is(parser.KindUnary) && p.Operator() == "!" {
		return isInCondition(p)
	}
	return false
}

func checkNoMisusedPromises(ctx *RuleContext) {
	asyncNames := asyncFunctionNames(ctx.Root())
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindCall {
			return true
		}
		callee := n.Field("function")
		if callee.Is(parser.KindIdentifier) && asyncNames[callee.Text()] && isInCondition(n) {
			ctx.Report(n, "Promise-returning function used in a boolean context (always truthy)")
		}
		method := memberName(callee)
		if !syncCallbackMethods[method] {
			return true
		}
		args := callArguments(n)
		if len(args) == 0 {
			return true
		}
		cb := args[0]
		if cb.Is(parser.KindArrowFunction, parser.KindFunctionExpr) && cb.IsAsync() {
			ctx.Reportf(cb, "Async function passed to %s() which expects a synchronous callback", method)
		}
		return true
	})
}

func checkAwaitThenable(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindAwait {
			return true
		}
		if n.FirstNamedChild().Is(parser.KindString, parser.KindNumber, parser.KindTrue, parser.KindFalse,
			parser.KindNull, parser.KindUndefined, parser.KindRegex) {
			ctx.Report(n, "Unexpected await of a non-Promise (non-Thenable) value")
		}
		return true
	})
}
