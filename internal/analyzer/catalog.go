package analyzer

import (
	"strings"

	"github.com/ludo-technologies/codopsy/domain"
)

// Rule identifiers that the analysis driver reports outside the linter
const (
	RuleParseError             = "parse-error"
	RuleMaxComplexity          = "max-complexity"
	RuleMaxCognitiveComplexity = "max-cognitive-complexity"
)

func rule(id, description string, severity domain.Severity, check func(*RuleContext)) Rule {
	return Rule{ID: id, Description: description, DefaultSeverity: severity, Check: check}
}

// BuiltinRules returns the built-in catalog in execution order
func BuiltinRules() []Rule {
	const (
		warning = domain.SeverityWarning
		info    = domain.SeverityInfo
	)
	return []Rule{
		rule("no-any", "Disallow the use of any type", warning, checkNoAny),
		rule("no-console", "Disallow console statements", info, checkNoConsole),
		rule("no-empty-function", "Disallow empty functions", warning, checkNoEmptyFunction),
		rule("no-nested-ternary", "Disallow nested ternary expressions", warning, checkNoNestedTernary),
		rule("prefer-const", "Prefer const over let when not reassigned", info, checkPreferConst),
		rule("no-var", "Disallow var declarations", warning, checkNoVar),
		rule("eqeqeq", "Require === and !==", warning, checkEqeqeq),
		rule("no-param-reassign", "Disallow parameter reassignment", warning, checkNoParamReassign),

		rule("max-lines", "Enforce maximum file length", warning, checkMaxLines),
		rule("max-depth", "Enforce maximum block nesting depth", warning, checkMaxDepth),
		rule("max-params", "Enforce maximum function parameters", warning, checkMaxParams),

		rule("no-debugger", "Disallow debugger statements", warning, checkNoDebugger),
		rule("no-duplicate-case", "Disallow duplicate case labels", warning, checkNoDuplicateCase),
		rule("no-dupe-keys", "Disallow duplicate keys in object literals", warning, checkNoDupeKeys),
		rule("use-isnan", "Require isNaN() when checking for NaN", warning, checkUseIsNaN),
		rule("no-self-assign", "Disallow assignments where both sides are the same", warning, checkNoSelfAssign),
		rule("no-template-curly-in-string", "Disallow template literal placeholder syntax in regular strings", warning, checkNoTemplateCurlyInString),
		rule("no-self-compare", "Disallow comparisons where both sides are the same", warning, checkNoSelfCompare),
		rule("no-cond-assign", "Disallow assignment operators in conditional expressions", warning, checkNoCondAssign),
		rule("valid-typeof", "Enforce comparing typeof expressions against valid strings", warning, checkValidTypeof),
		rule("no-constant-condition", "Disallow constant expressions in conditions", warning, checkNoConstantCondition),

		rule("no-eval", "Disallow the use of eval()", warning, checkNoEval),
		rule("no-implied-eval", "Disallow the use of eval()-like methods", warning, checkNoImpliedEval),
		rule("no-with", "Disallow with statements", warning, checkNoWith),
		rule("no-void", "Disallow the void operator", warning, checkNoVoid),
		rule("no-label", "Disallow labeled statements", warning, checkNoLabel),
		rule("no-comma-operator", "Disallow comma operators", warning, checkNoCommaOperator),

		rule("no-useless-catch", "Disallow unnecessary catch clauses", warning, checkNoUselessCatch),
		rule("no-useless-rename", "Disallow renaming import, export, and destructured assignments to the same name", warning, checkNoUselessRename),
		rule("no-useless-constructor", "Disallow unnecessary constructors", warning, checkNoUselessConstructor),

		rule("no-sparse-arrays", "Disallow sparse arrays", warning, checkNoSparseArrays),
		rule("no-prototype-builtins", "Disallow calling Object.prototype methods directly on objects", warning, checkNoPrototypeBuiltins),
		rule("no-array-constructor", "Disallow Array constructors", warning, checkNoArrayConstructor),
		rule("no-throw-literal", "Disallow throwing literals as exceptions", warning, checkNoThrowLiteral),
		rule("no-async-promise-executor", "Disallow using an async function as a Promise executor", warning, checkNoAsyncPromiseExecutor),
		rule("no-loss-of-precision", "Disallow literal numbers that lose precision", warning, checkNoLossOfPrecision),
		rule("no-constant-binary-expression", "Disallow expressions where the operation doesn't affect the value", warning, checkNoConstantBinaryExpression),
		rule("no-regex-constructor", "Prefer regular expression literals over the RegExp constructor", info, checkNoRegexConstructor),

		rule("no-unreachable", "Disallow unreachable code after return, throw, continue, and break", warning, checkNoUnreachable),
		rule("no-fallthrough", "Disallow fallthrough of case statements", warning, checkNoFallthrough),
		rule("no-unsafe-finally", "Disallow control flow statements in finally blocks", warning, checkNoUnsafeFinally),

		rule("no-floating-promises", "Require Promise-like statements to be handled", info, checkNoFloatingPromises),
		rule("no-misused-promises", "Disallow Promises in places not designed to handle them", info, checkNoMisusedPromises),
		rule("await-thenable", "Disallow awaiting a value that is not a Thenable", info, checkAwaitThenable),

		rule("no-unused-vars", "Disallow unused variables", warning, checkNoUnusedVars),
		rule("no-non-null-assertion", "Disallow non-null assertions using the ! postfix operator", warning, checkNoNonNullAssertion),
	}
}

var extraDescriptions = map[string]string{
	RuleMaxComplexity:          "Enforce maximum cyclomatic complexity",
	RuleMaxCognitiveComplexity: "Enforce maximum cognitive complexity",
	RuleParseError:             "File parse error",
}

// RuleDescription returns the short description for a rule id, falling back
// to the id with dashes replaced by spaces.
func RuleDescription(id string, extra ...Rule) string {
	if d, ok := extraDescriptions[id]; ok {
		return d
	}
	for _, r := range extra {
		if r.ID == id && r.Description != "" {
			return r.Description
		}
	}
	for _, r := range BuiltinRules() {
		if r.ID == id {
			return r.Description
		}
	}
	return strings.ReplaceAll(id, "-", " ")
}
