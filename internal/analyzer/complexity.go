package analyzer

import (
	"github.com/ludo-technologies/codopsy/domain"
	"github.com/ludo-technologies/codopsy/internal/parser"
)

// ComplexityAnalyzer computes cyclomatic and cognitive complexity for every
// function-like construct of a file.
type ComplexityAnalyzer struct {
	// startDepth is the cognitive nesting a nested function starts at. It is
	// filled in by the walk of the enclosing function.
	startDepth map[*parser.Node]int
}

// NewComplexityAnalyzer creates a complexity analyzer
func NewComplexityAnalyzer() *ComplexityAnalyzer {
	return &ComplexityAnalyzer{startDepth: make(map[*parser.Node]int)}
}

// AnalyzeComplexity returns the per-function complexity of a parsed file.
// File-level values are the maxima over its functions.
func AnalyzeComplexity(tree *parser.Tree) domain.FileComplexity {
	return NewComplexityAnalyzer().Analyze(tree.Root)
}

// Analyze computes the complexity of every function under root
func (ca *ComplexityAnalyzer) Analyze(root *parser.Node) domain.FileComplexity {
	result := domain.FileComplexity{Functions: []domain.FunctionRecord{}}

	// Pre-order guarantees an outer function is scored before the functions
	// it contains, so their start depth is known when they are reached.
	root.Walk(func(n *parser.Node) bool {
		if !n.IsFunction() {
			return true
		}
		record := domain.FunctionRecord{
			Name:                FunctionName(n),
			Line:                n.Line,
			Complexity:          CyclomaticComplexity(n),
			CognitiveComplexity: ca.cognitive(n),
		}
		result.Functions = append(result.Functions, record)
		if record.Complexity > result.Cyclomatic {
			result.Cyclomatic = record.Complexity
		}
		if record.CognitiveComplexity > result.Cognitive {
			result.Cognitive = record.CognitiveComplexity
		}
		return true
	})

	return result
}

// CyclomaticComplexity returns 1 plus the number of decision points in fn,
// not counting those inside nested functions.
func CyclomaticComplexity(fn *parser.Node) int {
	complexity := 1
	fn.Walk(func(n *parser.Node) bool {
		if n != fn && n.IsFunction() {
			return false
		}
		switch n.Kind {
		case parser.KindIfStatement, parser.KindForStatement, parser.KindForInStatement,
			parser.KindForOfStatement, parser.KindWhileStatement, parser.KindDoStatement,
			parser.KindSwitchCase, parser.KindTernary, parser.KindCatchClause:
			complexity++
		case parser.KindBinary:
			if op := n.Operator(); op == "&&" || op == "||" {
				complexity++
			}
		}
		return true
	})
	return complexity
}

// CognitiveComplexity scores a single function starting at the given nesting
func CognitiveComplexity(fn *parser.Node, startNesting int) int {
	ca := NewComplexityAnalyzer()
	ca.startDepth[fn] = startNesting
	return ca.cognitive(fn)
}

func (ca *ComplexityAnalyzer) cognitive(fn *parser.Node) int {
	start, ok := ca.startDepth[fn]
	if !ok {
		start = enclosingFunctionCount(fn)
	}
	w := &cognitiveWalker{fn: fn, startDepth: ca.startDepth}
	for _, child := range fn.Children {
		w.walk(child, start)
	}
	return w.score
}

type cognitiveWalker struct {
	fn         *parser.Node
	startDepth map[*parser.Node]int
	score      int
}

func (w *cognitiveWalker) walk(n *parser.Node, nesting int) {
	if n == nil {
		return
	}
	if n.IsFunction() {
		// Scored on its own; it inherits the nesting at its definition site
		// plus one for the enclosing function boundary.
		w.startDepth[n] = nesting + 1
		return
	}

	switch {
	case n.Kind == parser.KindIfStatement:
		w.walkIf(n, nesting)
		return
	case isCognitiveNesting(n):
		w.score += 1 + nesting
		w.walkChildren(n, nesting+1)
		return
	case isLogical(n) && !isLogical(n.Parent):
		operands, switches := flattenLogical(n)
		w.score += switches
		for _, operand := range operands {
			w.walk(operand, nesting)
		}
		return
	case n.Kind == parser.KindOptionalChain || (!n.Named && n.Kind == "?."):
		w.score++
		return
	case n.Is(parser.KindBreakStatement, parser.KindContinueStatement) && n.Field("label") != nil:
		w.score++
		return
	}
	w.walkChildren(n, nesting)
}

func (w *cognitiveWalker) walkChildren(n *parser.Node, nesting int) {
	for _, child := range n.Children {
		w.walk(child, nesting)
	}
}

func (w *cognitiveWalker) walkIf(n *parser.Node, nesting int) {
	if isElseIf(n) {
		w.score++
	} else {
		w.score += 1 + nesting
	}

	// The test is walked at the current nesting; its logical runs are scored
	// by the generic logical case.
	w.walk(n.Field("condition"), nesting)
	w.walk(n.Field("consequence"), nesting+1)

	alt := n.Field("alternative")
	if alt == nil {
		return
	}
	body := alt
	if alt.Kind == parser.KindElseClause {
		body = alt.FirstNamedChild()
	}
	if body.Is(parser.KindIfStatement) {
		w.walk(body, nesting)
		return
	}
	w.score++
	w.walk(body, nesting+1)
}

func isElseIf(n *parser.Node) bool {
	p := n.Parent
	if p.Is(parser.KindElseClause) {
		return p.Parent.Is(parser.KindIfStatement)
	}
	return p.Is(parser.KindIfStatement) && n.FieldName == "alternative"
}

func isCognitiveNesting(n *parser.Node) bool {
	switch n.Kind {
	case parser.KindForStatement, parser.KindForInStatement, parser.KindForOfStatement,
		parser.KindWhileStatement, parser.KindDoStatement, parser.KindSwitchStatement,
		parser.KindCatchClause, parser.KindTernary:
		return true
	}
	return false
}

// isLogical reports a binary expression using &&, || or ??
func isLogical(n *parser.Node) bool {
	if !n.Is(parser.KindBinary) {
		return false
	}
	switch n.Operator() {
	case "&&", "||", "??":
		return true
	}
	return false
}

// flattenLogical linearises a run of directly nested logical expressions.
// It returns the non-logical operands and the number of operator switches,
// where the first operator counts as a switch. A parenthesized run is an
// operand here and is scored as a chain of its own.
func flattenLogical(n *parser.Node) ([]*parser.Node, int) {
	var operands []*parser.Node
	var ops []string

	var collect func(*parser.Node)
	collect = func(e *parser.Node) {
		if !isLogical(e) {
			operands = append(operands, e)
			return
		}
		collect(e.Field("left"))
		ops = append(ops, e.Operator())
		collect(e.Field("right"))
	}
	collect(n)

	switches := 0
	prev := ""
	for _, op := range ops {
		if op != prev {
			switches++
		}
		prev = op
	}
	return operands, switches
}

func enclosingFunctionCount(n *parser.Node) int {
	count := 0
	for p := n.Parent; p != nil; p = p.Parent {
		if p.IsFunction() {
			count++
		}
	}
	return count
}
