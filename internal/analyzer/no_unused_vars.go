package analyzer

import (
	"strings"
	"unicode"

	"github.com/ludo-technologies/codopsy/internal/parser"
)

type declKind int

const (
	declVariable declKind = iota
	declFunction
	declClass
	declImport
	declParameter
	declEnum
)

type declaration struct {
	name string
	node *parser.Node
	kind declKind
	used bool
}

// unusedTracker resolves reads against a stack of lexical scopes. The
// innermost scope is the last element.
type unusedTracker struct {
	scopes   []map[string]*declaration
	decls    []*declaration
	declared map[*parser.Node]bool
}

func newUnusedTracker() *unusedTracker {
	return &unusedTracker{declared: make(map[*parser.Node]bool)}
}

func (t *unusedTracker) push() {
	t.scopes = append(t.scopes, make(map[string]*declaration))
}

func (t *unusedTracker) pop() {
	if len(t.scopes) > 0 {
		t.scopes = t.scopes[:len(t.scopes)-1]
	}
}

// register adds a declaration to the innermost scope. A name already bound
// there (usually by the hoisting pre-scan) is kept.
func (t *unusedTracker) register(name string, node *parser.Node, kind declKind, exported bool) {
	scope := t.scopes[len(t.scopes)-1]
	if _, ok := scope[name]; ok {
		return
	}
	d := &declaration{name: name, node: node, kind: kind, used: exported}
	scope[name] = d
	t.decls = append(t.decls, d)
}

func (t *unusedTracker) registerParameter(id, param *parser.Node) {
	name := id.Text()
	d := &declaration{name: name, node: param, kind: declParameter, used: strings.HasPrefix(name, "_")}
	t.scopes[len(t.scopes)-1][name] = d
	t.decls = append(t.decls, d)
	t.declared[id] = true
}

func (t *unusedTracker) markUsed(name string) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if d, ok := t.scopes[i][name]; ok {
			d.used = true
			return
		}
	}
}

func (t *unusedTracker) registerHoisted(n *parser.Node) {
	name, kind, ok := hoistedName(n)
	if !ok {
		return
	}
	t.declared[name] = true
	t.register(name.Text(), n, kind, isExported(n))
}

// preScan registers the hoisted declarations of a block before any of its
// statements are visited, so calls ahead of a declaration resolve.
func (t *unusedTracker) preScan(block *parser.Node) {
	for _, decl := range topLevelDeclarations(block) {
		t.registerHoisted(decl)
	}
}

func (t *unusedTracker) registerBindings(target, at *parser.Node, exported bool) {
	for _, id := range bindingIdentifiers(target) {
		t.declared[id] = true
		t.register(id.Text(), at, declVariable, exported)
	}
}

func (t *unusedTracker) registerParams(fn *parser.Node) {
	for _, param := range functionParams(fn) {
		if hasParameterModifier(param) {
			continue
		}
		for _, id := range bindingIdentifiers(param) {
			t.registerParameter(id, param)
		}
	}
}

func (t *unusedTracker) registerImport(stmt *parser.Node) {
	for _, clause := range stmt.NamedChildren() {
		if !clause.Is(parser.KindImportClause) {
			continue
		}
		for _, c := range clause.NamedChildren() {
			switch c.Kind {
			case parser.KindIdentifier:
				t.register(c.Text(), c, declImport, false)
			case parser.KindNamespaceImport:
				if id := c.FirstNamedChild(); id != nil {
					t.register(id.Text(), c, declImport, false)
				}
			case parser.KindNamedImports:
				for _, spec := range c.NamedChildren() {
					if !spec.Is(parser.KindImportSpecifier) {
						continue
					}
					local := spec.Field("alias")
					if local == nil {
						local = spec.Field("name")
					}
					if local != nil {
						t.register(local.Text(), spec, declImport, false)
					}
				}
			}
		}
	}
}

// declare registers whatever bindings n introduces into the current scope
func (t *unusedTracker) declare(n *parser.Node) {
	switch {
	case n.Is(parser.KindVariableDeclarator):
		stmt := n.Parent
		exported := isExported(stmt) || stmt.Parent.Is(parser.KindAmbientDeclaration)
		t.registerBindings(n.Field("name"), n, exported)
	case n.Is(parser.KindForInStatement, parser.KindForOfStatement):
		if n.Field("kind") != nil {
			left := n.Field("left")
			t.registerBindings(left, left, false)
		}
	case n.Is(parser.KindCatchClause):
		if param := n.Field("parameter"); param != nil {
			t.registerBindings(param, param, false)
		}
	case n.IsFunction():
		t.registerParams(n)
	case n.Is(parser.KindImportStatement):
		t.registerImport(n)
	}
}

// isNonReference reports identifiers that name something rather than read a
// binding: function expression names, import specifiers, export aliases and
// intrinsic JSX tags.
func isNonReference(id *parser.Node) bool {
	p := id.Parent
	switch {
	case p == nil:
		return false
	case id.FieldName == "name" && p.Is(parser.KindFunctionExpr,
		parser.KindGeneratorExpr, parser.KindClass):
		return true
	case p.Is(parser.KindImportSpecifier, parser.KindImportClause, parser.KindNamespaceImport):
		return true
	case p.Is(parser.KindExportSpecifier) && id.FieldName == "alias":
		return true
	case p.Is(parser.KindJSXOpening, parser.KindJSXClosing, parser.KindJSXSelfClosing) && id.FieldName == "name":
		r := []rune(id.Text())
		return len(r) > 0 && !unicode.IsUpper(r[0])
	}
	return false
}

func isTypeDeclarationName(id *parser.Node) bool {
	return id.FieldName == "name" && id.Parent.Is(parser.KindClassDeclaration, parser.KindAbstractClassDecl,
		parser.KindClass, parser.KindInterface, parser.KindTypeAlias, parser.KindTypeParameter)
}

func (t *unusedTracker) use(n *parser.Node) {
	switch n.Kind {
	case parser.KindIdentifier:
		if !t.declared[n] && !isNonReference(n) {
			t.markUsed(n.Text())
		}
	case parser.KindTypeIdentifier:
		if !isTypeDeclarationName(n) {
			t.markUsed(n.Text())
		}
	case parser.KindShorthandProp:
		t.markUsed(n.Text())
	case parser.KindShorthandPat:
		if !t.declared[n] {
			t.markUsed(n.Text())
		}
	}
}

func unusedMessage(d *declaration) string {
	switch d.kind {
	case declImport:
		return "'" + d.name + "' is imported but never used"
	case declParameter:
		return "'" + d.name + "' is defined but never used"
	}
	return "'" + d.name + "' is declared but never used"
}

// checkNoUnusedVars tracks declarations per lexical scope and reports those
// never read. Type references, typeof queries, capitalised JSX tags and
// export specifiers count as reads.
func checkNoUnusedVars(ctx *RuleContext) {
	root := ctx.Root()
	t := newUnusedTracker()
	t.push()
	t.preScan(root)

	root.Traverse(func(n *parser.Node) bool {
		if n == root {
			return true
		}
		t.registerHoisted(n)
		if isScopeNode(n) {
			t.push()
			if n.Is(parser.KindStatementBlock) {
				t.preScan(n)
			}
		}
		t.declare(n)
		t.use(n)
		return true
	}, func(n *parser.Node) {
		if n != root && isScopeNode(n) {
			t.pop()
		}
	})

	for _, d := range t.decls {
		if !d.used {
			ctx.Report(d.node, unusedMessage(d))
		}
	}
}
