package analyzer

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ludo-technologies/codopsy/internal/parser"
)

var prototypeBuiltins = map[string]bool{
	"hasOwnProperty": true, "isPrototypeOf": true, "propertyIsEnumerable": true,
}

var maxSafeInteger = big.NewInt(1<<53 - 1)

// isSparseArray reports an array literal with a hole: a comma directly
// after the opening bracket or another comma.
func isSparseArray(n *parser.Node) bool {
	prev := ""
	for _, c := range n.Children {
		if c.IsComment() {
			continue
		}
		if c.Kind == "," && (prev == "[" || prev == ",") {
			return true
		}
		prev = c.Kind
		if c.Named {
			prev = "element"
		}
	}
	return false
}

func checkNoSparseArrays(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind == parser.KindArray && isSparseArray(n) {
			ctx.Report(n, "Unexpected comma in array literal creating a sparse array")
		}
		return true
	})
}

func checkNoPrototypeBuiltins(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindCall {
			return true
		}
		if method := memberName(n.Field("function")); prototypeBuiltins[method] {
			ctx.Reportf(n, "Do not access Object.prototype method '%s' from target object", method)
		}
		return true
	})
}

func isNewOf(n *parser.Node, name string) bool {
	return n.Is(parser.KindNew) && isIdentifierNamed(n.Field("constructor"), name)
}

func checkNoArrayConstructor(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if !isNewOf(n, "Array") {
			return true
		}
		// new Array(size) is allowed
		if args := callArguments(n); len(args) == 1 && args[0].Is(parser.KindNumber) {
			return true
		}
		ctx.Report(n, "Use array literal notation [] instead of new Array()")
		return true
	})
}

func checkNoThrowLiteral(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindThrowStatement {
			return true
		}
		if n.FirstNamedChild().Is(parser.KindString, parser.KindNumber, parser.KindTrue,
			parser.KindFalse, parser.KindNull, parser.KindUndefined) {
			ctx.Report(n, "Expected an Error object to be thrown")
		}
		return true
	})
}

func checkNoAsyncPromiseExecutor(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if !isNewOf(n, "Promise") {
			return true
		}
		args := callArguments(n)
		if len(args) == 0 {
			return true
		}
		executor := args[0]
		if executor.Is(parser.KindArrowFunction, parser.KindFunctionExpr) && executor.IsAsync() {
			ctx.Report(n, "Promise executor should not be an async function")
		}
		return true
	})
}

// unsafeIntegerLiteral returns the normalised literal text when it is a
// decimal integer beyond Number.MAX_SAFE_INTEGER.
func unsafeIntegerLiteral(text string) (string, bool) {
	text = strings.ReplaceAll(text, "_", "")
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") ||
		strings.HasSuffix(lower, "n") || strings.ContainsAny(lower, ".e") {
		return "", false
	}
	v, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return "", false
	}
	return text, v.CmpAbs(maxSafeInteger) > 0
}

func checkNoLossOfPrecision(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindNumber {
			return true
		}
		if text, unsafe := unsafeIntegerLiteral(n.Text()); unsafe {
			ctx.Report(n, fmt.Sprintf("%s exceeds Number.MAX_SAFE_INTEGER and loses precision", text))
		}
		return true
	})
}

func isAlwaysTruthy(n *parser.Node) bool {
	switch n.Kind {
	case parser.KindObject, parser.KindArray, parser.KindArrowFunction, parser.KindFunctionExpr,
		parser.KindGeneratorExpr, parser.KindClass, parser.KindRegex, parser.KindNew:
		return true
	case parser.KindTemplateString:
		return !hasTemplateSubstitution(n)
	}
	return false
}

func checkNoConstantBinaryExpression(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindBinary {
			return true
		}
		switch op := n.Operator(); op {
		case "||", "&&":
			if left := n.Field("left"); left != nil && isAlwaysTruthy(left) {
				ctx.Report(n, "Unexpected constant truthy value on the left-hand side of a logical expression")
			}
		case "??":
			if n.Field("right").Is(parser.KindNull, parser.KindUndefined) {
				ctx.Report(n, "Unexpected nullish value as the right operand of ?? operator")
			}
		}
		return true
	})
}

func checkNoRegexConstructor(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if !isNewOf(n, "RegExp") {
			return true
		}
		args := callArguments(n)
		if len(args) == 0 {
			return true
		}
		static := args[0].Is(parser.KindString) ||
			(args[0].Is(parser.KindTemplateString) && !hasTemplateSubstitution(args[0]))
		if static {
			ctx.Report(n, "Use a regular expression literal instead of new RegExp() with a static pattern")
		}
		return true
	})
}
