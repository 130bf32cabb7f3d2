package analyzer

import (
	"sort"

	"github.com/ludo-technologies/codopsy/internal/parser"
)

type letBinding struct {
	name       string
	node       *parser.Node
	reassigned bool
}

// letScope maps each name bound in a scope to its let binding. Names bound
// some other way map to nil so they still shadow outer lets.
type letScope map[string]*letBinding

func (s letScope) shadow(target *parser.Node) {
	for _, id := range bindingIdentifiers(target) {
		if _, ok := s[id.Text()]; !ok {
			s[id.Text()] = nil
		}
	}
}

func (s letScope) addDeclaration(decl *parser.Node, lets *[]*letBinding) {
	isLet := decl.Is(parser.KindLexicalDeclaration) && decl.HasToken("let")
	for _, declarator := range decl.NamedChildren() {
		if !declarator.Is(parser.KindVariableDeclarator) {
			continue
		}
		if !isLet {
			s.shadow(declarator.Field("name"))
			continue
		}
		for _, id := range bindingIdentifiers(declarator.Field("name")) {
			b := &letBinding{name: id.Text(), node: declarator}
			s[b.name] = b
			*lets = append(*lets, b)
		}
	}
}

// ownsVar reports whether var declarations inside n bind in n's scope
func ownsVar(n *parser.Node) bool {
	return n.Is(parser.KindProgram) || (n.Is(parser.KindStatementBlock) && n.Parent.IsFunction())
}

// collectLetScope gathers the bindings owned by scope without descending
// into nested scopes, except that var declarations are gathered up to the
// enclosing function.
func collectLetScope(scope *parser.Node, lets *[]*letBinding) letScope {
	s := make(letScope)
	switch {
	case scope.IsFunction():
		for _, p := range functionParams(scope) {
			s.shadow(p)
		}
		return s
	case scope.Is(parser.KindForStatement):
		if init := scope.Field("initializer"); init.Is(parser.KindLexicalDeclaration, parser.KindVariableDeclaration) {
			s.addDeclaration(init, lets)
		}
		return s
	case scope.Is(parser.KindForInStatement, parser.KindForOfStatement):
		if scope.Field("kind") != nil {
			s.shadow(scope.Field("left"))
		}
		return s
	case scope.Is(parser.KindCatchClause):
		s.shadow(scope.Field("parameter"))
		return s
	case !scope.Is(parser.KindProgram, parser.KindStatementBlock):
		return s
	}

	for _, c := range scope.Children {
		c.Walk(func(n *parser.Node) bool {
			if name, _, ok := hoistedName(n); ok {
				if _, bound := s[name.Text()]; !bound {
					s[name.Text()] = nil
				}
			}
			if isScopeNode(n) {
				return false
			}
			if n.Is(parser.KindLexicalDeclaration) {
				s.addDeclaration(n, lets)
			}
			return true
		})
	}
	if ownsVar(scope) {
		scope.Walk(func(n *parser.Node) bool {
			if n != scope && n.IsFunction() {
				return false
			}
			if n.Is(parser.KindVariableDeclaration) {
				s.addDeclaration(n, lets)
			}
			return true
		})
	}
	return s
}

// checkPreferConst flags let bindings that are never written after their
// declaration. Writes through nested closures count.
func checkPreferConst(ctx *RuleContext) {
	var lets []*letBinding
	var scopes []letScope

	resolve := func(name string) {
		for i := len(scopes) - 1; i >= 0; i-- {
			if b, ok := scopes[i][name]; ok {
				if b != nil {
					b.reassigned = true
				}
				return
			}
		}
	}

	ctx.Root().Traverse(func(n *parser.Node) bool {
		if n.Is(parser.KindProgram) || isScopeNode(n) {
			scopes = append(scopes, collectLetScope(n, &lets))
		}
		switch n.Kind {
		case parser.KindAssignment, parser.KindAugmentedAssign:
			for _, name := range assignmentTargetNames(n.Field("left")) {
				resolve(name)
			}
		case parser.KindUpdate:
			if arg := n.Field("argument").Unparen(); arg.Is(parser.KindIdentifier) {
				resolve(arg.Text())
			}
		case parser.KindForInStatement, parser.KindForOfStatement:
			if n.Field("kind") == nil {
				for _, name := range assignmentTargetNames(n.Field("left")) {
					resolve(name)
				}
			}
		}
		return true
	}, func(n *parser.Node) {
		if n.Is(parser.KindProgram) || isScopeNode(n) {
			scopes = scopes[:len(scopes)-1]
		}
	})

	sort.SliceStable(lets, func(i, j int) bool {
		return lets[i].node.StartByte < lets[j].node.StartByte
	})
	for _, b := range lets {
		if !b.reassigned {
			ctx.Reportf(b.node, "'%s' is declared with let; consider using const if not reassigned", b.name)
		}
	}
}
