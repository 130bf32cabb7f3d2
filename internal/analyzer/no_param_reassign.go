package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/codopsy/internal/parser"
)

// checkNoParamReassign flags writes to a function's parameters inside its own
// body. Property writes and deletes through a parameter are only flagged
// when the props option is set.
func checkNoParamReassign(ctx *RuleContext) {
	props := ctx.Props()
	ctx.Root().Walk(func(fn *parser.Node) bool {
		if !fn.IsFunction() || isAccessor(fn) {
			return true
		}
		params := make(map[string]bool)
		for _, p := range functionParams(fn) {
			for _, id := range bindingIdentifiers(p) {
				params[id.Text()] = true
			}
		}
		body := functionBody(fn)
		if len(params) == 0 || body == nil {
			return true
		}
		checkParamWrites(ctx, body, params, props)
		return true
	})
}

func checkParamWrites(ctx *RuleContext, body *parser.Node, params map[string]bool, props bool) {
	report := func(at *parser.Node, name string, property bool) {
		if property {
			ctx.Report(at, fmt.Sprintf(`Assignment to property of function parameter "%s"`, name))
			return
		}
		ctx.Report(at, fmt.Sprintf(`Assignment to function parameter "%s"`, name))
	}

	// target resolves a written expression to the parameter it modifies
	target := func(n *parser.Node) (string, bool) {
		if n.Is(parser.KindIdentifier) && params[n.Text()] {
			return n.Text(), true
		}
		if props && isPropertyAccess(n) {
			if root := rootIdentifier(n); root != nil && params[root.Text()] {
				return root.Text(), true
			}
		}
		return "", false
	}

	body.Walk(func(n *parser.Node) bool {
		if n != body && n.IsFunction() {
			return false
		}
		switch n.Kind {
		case parser.KindAssignment, parser.KindAugmentedAssign:
			left := n.Field("left")
			if name, ok := target(left); ok {
				report(left, name, isPropertyAccess(left))
			}
		case parser.KindUpdate:
			arg := n.Field("argument")
			if name, ok := target(arg); ok {
				report(arg, name, isPropertyAccess(arg))
			}
		case parser.KindUnary:
			if !props || n.Operator() != "delete" {
				break
			}
			arg := n.Field("argument")
			if !isPropertyAccess(arg) {
				break
			}
			if root := rootIdentifier(arg); root != nil && params[root.Text()] {
				report(n, root.Text(), true)
			}
		}
		return true
	})
}
