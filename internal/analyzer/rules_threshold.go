package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/codopsy/internal/parser"
)

// Default thresholds of the structural rules
const (
	DefaultMaxLines  = 300
	DefaultMaxDepth  = 4
	DefaultMaxParams = 4
)

func checkMaxLines(ctx *RuleContext) {
	limit := ctx.Max(DefaultMaxLines)
	lines := ctx.Tree.LineCount()
	if lines > limit {
		ctx.ReportAt(lines, 1, fmt.Sprintf("File has %d lines, exceeds maximum of %d", lines, limit))
	}
}

func isDepthConstruct(n *parser.Node) bool {
	return n.Is(parser.KindIfStatement, parser.KindForStatement, parser.KindForInStatement,
		parser.KindForOfStatement, parser.KindWhileStatement, parser.KindDoStatement,
		parser.KindSwitchStatement)
}

// checkMaxDepth reports every construct whose nesting exceeds the limit.
// Depth is lexical over the whole file and is not reset by functions.
func checkMaxDepth(ctx *RuleContext) {
	limit := ctx.Max(DefaultMaxDepth)
	depth := 0
	ctx.Root().Traverse(func(n *parser.Node) bool {
		if isDepthConstruct(n) {
			depth++
			if depth > limit {
				ctx.Reportf(n, "Blocks are nested too deeply (%d). Maximum allowed is %d", depth, limit)
			}
		}
		return true
	}, func(n *parser.Node) {
		if isDepthConstruct(n) {
			depth--
		}
	})
}

func checkMaxParams(ctx *RuleContext) {
	limit := ctx.Max(DefaultMaxParams)
	ctx.Root().Walk(func(n *parser.Node) bool {
		if !n.IsFunction() || isAccessor(n) {
			return true
		}
		count := len(functionParams(n))
		if count > limit {
			ctx.Reportf(n, `Function "%s" has %d parameters. Maximum allowed is %d`,
				simpleFunctionName(n), count, limit)
		}
		return true
	})
}
