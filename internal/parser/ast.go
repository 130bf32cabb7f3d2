package parser

import (
	"fmt"
	"strings"
)

// Tree-sitter node kinds used across the analyzers. Both the current and the
// older grammar spellings are listed where the grammar renamed a node.
const (
	KindProgram         = "program"
	KindComment         = "comment"
	KindStatementBlock  = "statement_block"
	KindExpressionStmt  = "expression_statement"
	KindEmptyStatement  = "empty_statement"
	KindParenthesized   = "parenthesized_expression"
	KindIdentifier      = "identifier"
	KindPropertyIdent   = "property_identifier"
	KindShorthandProp   = "shorthand_property_identifier"
	KindShorthandPat    = "shorthand_property_identifier_pattern"
	KindTypeIdentifier  = "type_identifier"
	KindStatementIdent  = "statement_identifier"
	KindPrivatePropIdnt = "private_property_identifier"

	// Functions
	KindFunctionDecl        = "function_declaration"
	KindFunctionExpr        = "function_expression"
	KindGeneratorDecl       = "generator_function_declaration"
	KindGeneratorExpr       = "generator_function"
	KindArrowFunction       = "arrow_function"
	KindMethodDefinition    = "method_definition"
	KindFormalParameters    = "formal_parameters"
	KindRequiredParameter   = "required_parameter"
	KindOptionalParameter   = "optional_parameter"
	KindAccessibilityModfr  = "accessibility_modifier"
	KindOverrideModifier    = "override_modifier"
	KindClassDeclaration    = "class_declaration"
	KindClass               = "class"
	KindAbstractClassDecl   = "abstract_class_declaration"
	KindClassBody           = "class_body"
	KindComputedPropName    = "computed_property_name"
	KindFieldDefinition     = "field_definition"
	KindPublicFieldDef      = "public_field_definition"
	KindReturnStatement     = "return_statement"
	KindThrowStatement      = "throw_statement"
	KindBreakStatement      = "break_statement"
	KindContinueStatement   = "continue_statement"
	KindLabeledStatement    = "labeled_statement"
	KindDebuggerStatement   = "debugger_statement"
	KindWithStatement       = "with_statement"
	KindIfStatement         = "if_statement"
	KindElseClause          = "else_clause"
	KindSwitchStatement     = "switch_statement"
	KindSwitchBody          = "switch_body"
	KindSwitchCase          = "switch_case"
	KindSwitchDefault       = "switch_default"
	KindForStatement        = "for_statement"
	KindForInStatement      = "for_in_statement"
	KindForOfStatement      = "for_of_statement"
	KindWhileStatement      = "while_statement"
	KindDoStatement         = "do_statement"
	KindTryStatement        = "try_statement"
	KindCatchClause         = "catch_clause"
	KindFinallyClause       = "finally_clause"
	KindVariableDeclaration = "variable_declaration"
	KindLexicalDeclaration  = "lexical_declaration"
	KindVariableDeclarator  = "variable_declarator"

	// Expressions
	KindTernary          = "ternary_expression"
	KindBinary           = "binary_expression"
	KindUnary            = "unary_expression"
	KindUpdate           = "update_expression"
	KindAssignment       = "assignment_expression"
	KindAugmentedAssign  = "augmented_assignment_expression"
	KindSequence         = "sequence_expression"
	KindCall             = "call_expression"
	KindNew              = "new_expression"
	KindMember           = "member_expression"
	KindSubscript        = "subscript_expression"
	KindOptionalChain    = "optional_chain"
	KindAwait            = "await_expression"
	KindArguments        = "arguments"
	KindArray            = "array"
	KindObject           = "object"
	KindPair             = "pair"
	KindSpreadElement    = "spread_element"
	KindNonNull          = "non_null_expression"
	KindAsExpression     = "as_expression"
	KindSatisfiesExpr    = "satisfies_expression"
	KindTypeAssertion    = "type_assertion"
	KindString           = "string"
	KindStringFragment   = "string_fragment"
	KindTemplateString   = "template_string"
	KindTemplateSubst    = "template_substitution"
	KindNumber           = "number"
	KindRegex            = "regex"
	KindTrue             = "true"
	KindFalse            = "false"
	KindNull             = "null"
	KindUndefined        = "undefined"
	KindThis             = "this"
	KindSuper            = "super"
	KindObjectPattern    = "object_pattern"
	KindArrayPattern     = "array_pattern"
	KindPairPattern      = "pair_pattern"
	KindAssignmentPat    = "assignment_pattern"
	KindObjectAssignPat  = "object_assignment_pattern"
	KindRestPattern      = "rest_pattern"
	KindImportStatement  = "import_statement"
	KindImportClause     = "import_clause"
	KindNamespaceImport  = "namespace_import"
	KindNamedImports     = "named_imports"
	KindImportSpecifier  = "import_specifier"
	KindExportStatement  = "export_statement"
	KindExportClause     = "export_clause"
	KindExportSpecifier  = "export_specifier"
	KindJSXElement       = "jsx_element"
	KindJSXSelfClosing   = "jsx_self_closing_element"
	KindJSXFragment      = "jsx_fragment"
	KindJSXOpening       = "jsx_opening_element"
	KindJSXClosing       = "jsx_closing_element"
	KindNestedIdentifier = "nested_identifier"

	// TypeScript
	KindPredefinedType     = "predefined_type"
	KindTypeAnnotation     = "type_annotation"
	KindTypeAlias          = "type_alias_declaration"
	KindInterface          = "interface_declaration"
	KindEnumDeclaration    = "enum_declaration"
	KindFunctionSignature  = "function_signature"
	KindMethodSignature    = "method_signature"
	KindCallSignature      = "call_signature"
	KindConstructSignature = "construct_signature"
	KindIndexSignature     = "index_signature"
	KindAbstractMethodSig  = "abstract_method_signature"
	KindFunctionType       = "function_type"
	KindConstructorType    = "constructor_type"
	KindTypeQuery          = "type_query"
	KindGenericType        = "generic_type"
	KindTypeParameter      = "type_parameter"
	KindNestedTypeIdent    = "nested_type_identifier"
	KindAmbientDeclaration = "ambient_declaration"
	KindModuleDeclaration  = "module"
	KindInternalModule     = "internal_module"
)

// Node is an immutable view of one tree-sitter syntax node. Children holds
// every child in source order, anonymous tokens included.
type Node struct {
	Kind      string
	Named     bool
	FieldName string
	Parent    *Node
	Children  []*Node

	StartByte int
	EndByte   int
	Line      int // 1-based
	Column    int // 1-based
	EndLine   int

	source []byte
}

// Text returns the source text spanned by the node
func (n *Node) Text() string {
	if n == nil || n.source == nil || n.StartByte > n.EndByte || n.EndByte > len(n.source) {
		return ""
	}
	return string(n.source[n.StartByte:n.EndByte])
}

// String returns a debug representation of the node
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s@%d:%d", n.Kind, n.Line, n.Column)
}

// Is reports whether the node has one of the given kinds
func (n *Node) Is(kinds ...string) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// IsComment reports whether the node is a comment
func (n *Node) IsComment() bool {
	return n != nil && n.Kind == KindComment
}

// Field returns the first child stored under the given grammar field
func (n *Node) Field(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.FieldName == name {
			return c
		}
	}
	return nil
}

// FieldAll returns every child stored under the given grammar field
func (n *Node) FieldAll(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.FieldName == name {
			out = append(out, c)
		}
	}
	return out
}

// NamedChildren returns the named children, comments excluded
func (n *Node) NamedChildren() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Named && c.Kind != KindComment {
			out = append(out, c)
		}
	}
	return out
}

// FirstNamedChild returns the first named non-comment child
func (n *Node) FirstNamedChild() *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Named && c.Kind != KindComment {
			return c
		}
	}
	return nil
}

// HasToken reports whether the node has a direct anonymous child with the given text
func (n *Node) HasToken(tok string) bool {
	if n == nil {
		return false
	}
	for _, c := range n.Children {
		if !c.Named && c.Kind == tok {
			return true
		}
	}
	return false
}

// Operator returns the operator token of an expression node
func (n *Node) Operator() string {
	if op := n.Field("operator"); op != nil {
		return op.Text()
	}
	return ""
}

// Index returns the position of the node among its parent's children, or -1
func (n *Node) Index() int {
	if n == nil || n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// NextNamedSibling returns the next named, non-comment sibling
func (n *Node) NextNamedSibling() *Node {
	idx := n.Index()
	if idx < 0 {
		return nil
	}
	for _, c := range n.Parent.Children[idx+1:] {
		if c.Named && c.Kind != KindComment {
			return c
		}
	}
	return nil
}

// Unparen strips any number of enclosing parenthesized expressions
func (n *Node) Unparen() *Node {
	for n != nil && n.Kind == KindParenthesized {
		inner := n.FirstNamedChild()
		if inner == nil {
			return n
		}
		n = inner
	}
	return n
}

// Ancestor returns the closest ancestor with one of the given kinds
func (n *Node) Ancestor(kinds ...string) *Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Is(kinds...) {
			return p
		}
	}
	return nil
}

// Walk visits the subtree in pre-order. Returning false from visitor skips
// the node's children. Uses an explicit stack so deep trees are safe.
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visitor(cur) {
			continue
		}
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
}

// Traverse visits the subtree depth-first, calling enter before a node's
// children and leave after them. Returning false from enter skips the
// children, and leave is still called for that node.
func (n *Node) Traverse(enter func(*Node) bool, leave func(*Node)) {
	if n == nil {
		return
	}
	type frame struct {
		node *Node
		exit bool
	}
	stack := []frame{{node: n}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.exit {
			if leave != nil {
				leave(f.node)
			}
			continue
		}
		stack = append(stack, frame{node: f.node, exit: true})
		if !enter(f.node) {
			continue
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i]})
		}
	}
}

// Find returns the first node in pre-order that satisfies pred
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if pred(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// StringValue returns the content of a string literal without quotes
func (n *Node) StringValue() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindString {
		var b strings.Builder
		for _, c := range n.Children {
			if c.Named {
				b.WriteString(c.Text())
			}
		}
		return b.String()
	}
	text := n.Text()
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

// IsFunction reports whether the node is any function-like construct
func (n *Node) IsFunction() bool {
	return n.Is(KindFunctionDecl, KindFunctionExpr,
		KindGeneratorDecl, KindGeneratorExpr, KindArrowFunction, KindMethodDefinition)
}

// IsLoop reports whether the node is a loop statement
func (n *Node) IsLoop() bool {
	return n.Is(KindForStatement, KindForInStatement, KindForOfStatement,
		KindWhileStatement, KindDoStatement)
}

// IsForOf reports whether a for-in node is actually a for-of loop
func (n *Node) IsForOf() bool {
	if n.Is(KindForOfStatement) {
		return true
	}
	if !n.Is(KindForInStatement) {
		return false
	}
	if op := n.Field("operator"); op != nil {
		return op.Text() == "of"
	}
	return n.HasToken("of")
}

// IsAsync reports whether a function node carries the async modifier
func (n *Node) IsAsync() bool {
	return n.IsFunction() && n.HasToken("async")
}
