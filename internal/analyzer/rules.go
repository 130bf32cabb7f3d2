package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/codopsy/domain"
	"github.com/ludo-technologies/codopsy/internal/parser"
)

// Rule is a single diagnostic check. Check performs its own walk over the
// tree and reports through the context; it must not retain the context.
type Rule struct {
	ID              string
	Description     string
	DefaultSeverity domain.Severity
	Check           func(ctx *RuleContext)
}

// RuleProvider supplies externally defined rules
type RuleProvider interface {
	Rules() ([]Rule, error)
}

// RuleContext is what a rule sees while checking one file
type RuleContext struct {
	Tree     *parser.Tree
	File     string
	Severity domain.Severity
	Setting  domain.RuleSetting

	rule   string
	issues []domain.Issue
}

// Root returns the root node of the tree under check
func (c *RuleContext) Root() *parser.Node {
	return c.Tree.Root
}

// Report records a diagnostic at the start of node
func (c *RuleContext) Report(n *parser.Node, message string) {
	if n == nil {
		return
	}
	c.ReportAt(n.Line, n.Column, message)
}

// Reportf is Report with a format string
func (c *RuleContext) Reportf(n *parser.Node, format string, args ...any) {
	c.Report(n, fmt.Sprintf(format, args...))
}

// ReportAt records a diagnostic at an explicit 1-based position
func (c *RuleContext) ReportAt(line, column int, message string) {
	c.issues = append(c.issues, domain.Issue{
		File:     c.File,
		Line:     line,
		Column:   column,
		Severity: c.Severity,
		Rule:     c.rule,
		Message:  message,
	})
}

// Max returns the configured threshold, or fallback when unset
func (c *RuleContext) Max(fallback int) int {
	if c.Setting.Max != nil {
		return *c.Setting.Max
	}
	return fallback
}

// Props reports whether the props sub-option is enabled
func (c *RuleContext) Props() bool {
	return c.Setting.Props != nil && *c.Setting.Props
}

// Linter runs an ordered set of rules against parsed files
type Linter struct {
	rules []Rule
}

// NewLinter creates a linter with the built-in catalog followed by extra
// rules in the order given.
func NewLinter(extra ...Rule) *Linter {
	rules := BuiltinRules()
	rules = append(rules, extra...)
	return &Linter{rules: rules}
}

// NewLinterWithProviders loads every provider and appends its rules after
// the built-in catalog. A provider failure aborts construction.
func NewLinterWithProviders(providers ...RuleProvider) (*Linter, error) {
	var extra []Rule
	for _, p := range providers {
		rules, err := p.Rules()
		if err != nil {
			return nil, err
		}
		extra = append(extra, rules...)
	}
	return NewLinter(extra...), nil
}

// Rules returns the registered rules in execution order
func (l *Linter) Rules() []Rule {
	out := make([]Rule, len(l.rules))
	copy(out, l.rules)
	return out
}

// Lint runs every enabled rule over the tree and returns the diagnostics in
// rule order, then discovery order within a rule.
func (l *Linter) Lint(tree *parser.Tree, file string, cfg *domain.Config) []domain.Issue {
	issues := []domain.Issue{}
	for _, rule := range l.rules {
		setting, _ := cfg.Rule(rule.ID)
		if setting.Disabled {
			continue
		}
		severity := rule.DefaultSeverity
		if severity == "" {
			severity = domain.SeverityWarning
		}
		if setting.Severity != "" {
			severity = setting.Severity
		}
		ctx := &RuleContext{
			Tree:     tree,
			File:     file,
			Severity: severity,
			Setting:  setting,
			rule:     rule.ID,
		}
		issues = append(issues, runRule(rule, ctx)...)
	}
	return issues
}

// runRule executes a rule, discarding its output if it panics
func runRule(rule Rule, ctx *RuleContext) (issues []domain.Issue) {
	if rule.Check == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			issues = nil
		}
	}()
	rule.Check(ctx)
	return ctx.issues
}

// LintSource parses source and lints it with the built-in catalog. It is a
// convenience for callers that have no tree yet.
func LintSource(filename, source string, cfg *domain.Config) ([]domain.Issue, error) {
	tree, err := parser.ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return NewLinter().Lint(tree, filename, cfg), nil
}
