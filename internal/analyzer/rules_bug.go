package analyzer

import (
	"regexp"

	"github.com/ludo-technologies/codopsy/internal/parser"
)

var templateCurlyPattern = regexp.MustCompile(`\$\{[^}]+\}`)

func isEqualityOperator(op string) bool {
	switch op {
	case "==", "===", "!=", "!==":
		return true
	}
	return false
}

func isComparisonOperator(op string) bool {
	switch op {
	case "==", "===", "!=", "!==", ">", ">=", "<", "<=":
		return true
	}
	return false
}

func checkNoDebugger(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind == parser.KindDebuggerStatement {
			ctx.Report(n, "Unexpected debugger statement")
		}
		return true
	})
}

func switchClauses(sw *parser.Node) []*parser.Node {
	var clauses []*parser.Node
	for _, c := range sw.Field("body").NamedChildren() {
		if c.Is(parser.KindSwitchCase, parser.KindSwitchDefault) {
			clauses = append(clauses, c)
		}
	}
	return clauses
}

func checkNoDuplicateCase(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindSwitchStatement {
			return true
		}
		seen := make(map[string]bool)
		for _, clause := range switchClauses(n) {
			value := clause.Field("value")
			if value == nil {
				continue
			}
			text := value.Text()
			if seen[text] {
				ctx.Reportf(clause, "Duplicate case label: %s", text)
				continue
			}
			seen[text] = true
		}
		return true
	})
}

// propertyKey returns the static key of an object literal member
func propertyKey(member *parser.Node) (string, bool) {
	var key *parser.Node
	switch member.Kind {
	case parser.KindPair:
		key = member.Field("key")
	case parser.KindMethodDefinition:
		key = member.Field("name")
	case parser.KindShorthandProp:
		return member.Text(), true
	default:
		return "", false
	}
	switch {
	case key == nil, key.Is(parser.KindComputedPropName):
		return "", false
	case key.Is(parser.KindString):
		return key.StringValue(), true
	}
	return key.Text(), true
}

func accessorKind(member *parser.Node) string {
	if member.Is(parser.KindMethodDefinition) {
		switch {
		case member.HasToken("get"):
			return "get"
		case member.HasToken("set"):
			return "set"
		}
	}
	return "value"
}

func checkNoDupeKeys(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindObject {
			return true
		}
		seen := make(map[string]string)
		for _, member := range n.NamedChildren() {
			name, ok := propertyKey(member)
			if !ok {
				continue
			}
			kind := accessorKind(member)
			existing, dup := seen[name]
			getSetPair := (existing == "get" && kind == "set") || (existing == "set" && kind == "get")
			if dup && !getSetPair {
				ctx.Reportf(member, `Duplicate key: "%s"`, name)
				continue
			}
			seen[name] = kind
		}
		return true
	})
}

func checkUseIsNaN(ctx *RuleContext) {
	isNaN := func(n *parser.Node) bool { return isIdentifierNamed(n, "NaN") }
	ctx.Root().Walk(func(n *parser.Node) bool {
		switch n.Kind {
		case parser.KindBinary:
			if isEqualityOperator(n.Operator()) && (isNaN(n.Field("left")) || isNaN(n.Field("right"))) {
				ctx.Report(n, "Use Number.isNaN() instead of comparison with NaN")
			}
		case parser.KindSwitchStatement:
			if value := n.Field("value"); isNaN(value.FirstNamedChild()) {
				ctx.Report(n, "Use Number.isNaN() instead of switch(NaN)")
			}
		case parser.KindSwitchCase:
			if isNaN(n.Field("value")) {
				ctx.Report(n, "Use Number.isNaN() instead of case NaN")
			}
		}
		return true
	})
}

func checkNoSelfAssign(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindAssignment {
			return true
		}
		left, right := n.Field("left"), n.Field("right")
		if left != nil && right != nil && left.Text() == right.Text() {
			ctx.Reportf(n, `"%s" is assigned to itself`, left.Text())
		}
		return true
	})
}

func checkNoTemplateCurlyInString(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindString {
			return true
		}
		if templateCurlyPattern.MatchString(n.StringValue()) {
			ctx.Report(n, "Unexpected template string expression in regular string")
		}
		return false
	})
}

func checkNoSelfCompare(ctx *RuleContext) {
	ctx.Root().Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindBinary || !isComparisonOperator(n.Operator()) {
			return true
		}
		left, right := n.Field("left"), n.Field("right")
		if left != nil && right != nil && left.Text() == right.Text() {
			ctx.Reportf(n, `Comparing "%s" to itself is always the same result`, left.Text())
		}
		return true
	})
}
