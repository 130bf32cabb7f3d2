package analyzer

import (
	"github.com/ludo-technologies/codopsy/internal/parser"
)

const anonymousName = "(anonymous)"

// FunctionName resolves the display name of a function-like node
func FunctionName(fn *parser.Node) string {
	switch fn.Kind {
	case parser.KindFunctionDecl, parser.KindGeneratorDecl:
		if name := fn.Field("name"); name != nil {
			return name.Text()
		}
		return anonymousName
	case parser.KindMethodDefinition:
		return methodName(fn)
	case parser.KindArrowFunction, parser.KindFunctionExpr, parser.KindGeneratorExpr:
		return expressionFunctionName(fn)
	}
	return anonymousName
}

func methodName(fn *parser.Node) string {
	name := fn.Field("name")
	if name == nil {
		return anonymousName
	}
	switch {
	case fn.HasToken("get"):
		return "get " + name.Text()
	case fn.HasToken("set"):
		return "set " + name.Text()
	case name.Kind == parser.KindPropertyIdent && name.Text() == "constructor" && isClassMember(fn):
		return "constructor"
	case name.Kind == parser.KindComputedPropName:
		return "[computed]"
	}
	return name.Text()
}

// expressionFunctionName names arrows and function expressions after the
// binding they are assigned to.
func expressionFunctionName(fn *parser.Node) string {
	parent := fn.Parent
	switch {
	case parent.Is(parser.KindVariableDeclarator) && fn.FieldName == "value":
		if name := parent.Field("name"); name.Is(parser.KindIdentifier) {
			return name.Text()
		}
	case parent.Is(parser.KindPair) && fn.FieldName == "value":
		if key := parent.Field("key"); key.Is(parser.KindPropertyIdent) {
			return key.Text()
		}
	}
	if fn.Kind != parser.KindArrowFunction {
		if name := fn.Field("name"); name != nil {
			return name.Text()
		}
	}
	return anonymousName
}

func isClassMember(n *parser.Node) bool {
	return n.Parent.Is(parser.KindClassBody)
}

// isConstructor reports whether a method definition is a class constructor
func isConstructor(n *parser.Node) bool {
	if !n.Is(parser.KindMethodDefinition) || !isClassMember(n) {
		return false
	}
	name := n.Field("name")
	return name != nil && name.Text() == "constructor"
}

// simpleFunctionName is the naming used by max-params: the declared name of
// a function declaration or plain method, otherwise anonymous.
func simpleFunctionName(fn *parser.Node) string {
	switch fn.Kind {
	case parser.KindFunctionDecl, parser.KindGeneratorDecl:
		if name := fn.Field("name"); name != nil {
			return name.Text()
		}
	case parser.KindMethodDefinition:
		if isConstructor(fn) {
			return anonymousName
		}
		if name := fn.Field("name"); name.Is(parser.KindPropertyIdent) {
			return name.Text()
		}
	}
	return anonymousName
}

// isAccessor reports whether a method definition is a getter or setter
func isAccessor(fn *parser.Node) bool {
	return fn.Is(parser.KindMethodDefinition) && (fn.HasToken("get") || fn.HasToken("set"))
}

// functionBody returns the body of a function node (block or expression)
func functionBody(fn *parser.Node) *parser.Node {
	return fn.Field("body")
}

// functionParams returns the parameter nodes of a function
func functionParams(fn *parser.Node) []*parser.Node {
	if p := fn.Field("parameter"); p != nil {
		return []*parser.Node{p}
	}
	params := fn.Field("parameters")
	if params == nil {
		return nil
	}
	return params.NamedChildren()
}
