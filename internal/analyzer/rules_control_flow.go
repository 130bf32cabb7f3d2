package analyzer

import (
	"strings"

	"github.com/ludo-technologies/codopsy/internal/parser"
)

var fallthroughMarkers = []string{"falls through", "fallthrough", "fall through", "no break"}

func checkNoUnreachable(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if !n.Is(parser.KindStatementBlock, parser.KindProgram, parser.KindSwitchCase, parser.KindSwitchDefault) {
			return true
		}
		terminated := false
		for _, stmt := range statements(n) {
			if terminated {
				ctx.Report(stmt, "Unreachable code detected")
				break
			}
			terminated = isTerminator(stmt)
		}
		return true
	})
}

// terminates reports whether a statement list always leaves its clause:
// it ends in a jump, a block that does, or an if/else whose branches both do.
func terminates(stmts []*parser.Node) bool {
	if len(stmts) == 0 {
		return false
	}
	last := stmts[len(stmts)-1]
	switch {
	case isTerminator(last):
		return true
	case last.Is(parser.KindStatementBlock):
		return terminates(statements(last))
	case last.Is(parser.KindIfStatement):
		alt := last.Field("alternative")
		if alt == nil {
			return false
		}
		if alt.Is(parser.KindElseClause) {
			alt = alt.FirstNamedChild()
		}
		return branchTerminates(last.Field("consequence")) && branchTerminates(alt)
	}
	return false
}

func branchTerminates(n *parser.Node) bool {
	if n.Is(parser.KindStatementBlock) {
		return terminates(statements(n))
	}
	return isTerminator(n)
}

// hasFallthroughComment looks for an intent marker in the comments between
// the end of a clause's statements and the start of the next clause.
func hasFallthroughComment(source []byte, clause, next *parser.Node) bool {
	start := clause.StartByte
	if stmts := statements(clause); len(stmts) > 0 {
		start = stmts[len(stmts)-1].EndByte
	}
	end := next.StartByte
	if start >= end || end > len(source) {
		return false
	}
	between := strings.ToLower(string(source[start:end]))
	for _, marker := range fallthroughMarkers {
		if strings.Contains(between, marker) {
			return true
		}
	}
	return false
}

// checkNoFallthrough never flags an empty clause, so grouped labels such as
// `case 1: case 2:` are allowed.
func checkNoFallthrough(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindSwitchStatement {
			return true
		}
		clauses := switchClauses(n)
		for i := 0; i < len(clauses)-1; i++ {
			clause := clauses[i]
			stmts := statements(clause)
			if len(stmts) == 0 || terminates(stmts) {
				continue
			}
			if hasFallthroughComment(ctx.Tree.Source, clause, clauses[i+1]) {
				continue
			}
			ctx.Report(clause, "Expected a break, return, or throw statement before the next case")
		}
		return true
	})
}

func checkNoUnsafeFinally(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindFinallyClause {
			return true
		}
		block := n.Field("body")
		block.Walk(func(c *parser.Node) bool {
			if isTerminator(c) {
				ctx.Report(c, "Unsafe use of control flow statement in finally block")
				return false
			}
			if c != block && (c.Is(parser.KindTryStatement) || c.IsFunction()) {
				return false
			}
			return true
		})
		return true
	})
}
