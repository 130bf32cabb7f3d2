package analyzer

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/codopsy/domain"
	"github.com/ludo-technologies/codopsy/internal/testutil"
)

const fooPlugin = `rules:
  - id: no-foo-call
    description: Disallow foo()
    defaultSeverity: error
    query: '(call_expression function: (identifier) @callee (#eq? @callee "foo"))'
    capture: callee
    message: Do not call foo()
`

func TestQueryPluginProvider(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{"plugins/foo.yaml": fooPlugin})

	linter, err := NewLinterWithProviders(NewQueryPluginProvider(dir, []string{"plugins/foo.yaml"}))
	if err != nil {
		t.Fatalf("failed to load plugin: %v", err)
	}
	rules := linter.Rules()
	last := rules[len(rules)-1]
	if last.ID != "no-foo-call" || last.Description != "Disallow foo()" || last.DefaultSeverity != domain.SeverityError {
		t.Fatalf("unexpected plugin rule %+v", last)
	}

	for _, file := range []string{"test.js", "test.ts", "test.tsx"} {
		t.Run(file, func(t *testing.T) {
			tree := testutil.ParseSource(t, file, "foo();\nbar();\n  foo(1);\n")
			got := issuesFor(linter.Lint(tree, file, nil), "no-foo-call")
			if len(got) != 2 {
				t.Fatalf("expected 2 matches, got %d: %+v", len(got), got)
			}
			if got[1].Line != 3 || got[1].Column != 3 || got[1].Message != "Do not call foo()" {
				t.Errorf("unexpected second match %+v", got[1])
			}
			if got[0].Severity != domain.SeverityError {
				t.Errorf("expected error severity, got %s", got[0].Severity)
			}
		})
	}

	t.Run("column in utf-16 units", func(t *testing.T) {
		tree := testutil.ParseJS(t, "x = \"日本\"; foo();")
		got := issuesFor(linter.Lint(tree, "test.js", nil), "no-foo-call")
		if len(got) != 1 || got[0].Column != 11 {
			t.Errorf("expected one match at column 11, got %+v", got)
		}
	})

	t.Run("disabled through config", func(t *testing.T) {
		tree := testutil.ParseJS(t, "foo();")
		cfg := &domain.Config{Rules: map[string]domain.RuleSetting{"no-foo-call": {Disabled: true}}}
		if got := issuesFor(linter.Lint(tree, "test.js", cfg), "no-foo-call"); len(got) != 0 {
			t.Errorf("expected disabled plugin rule to be skipped, got %+v", got)
		}
	})
}

func TestQueryPluginProviderJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.json")
	testutil.WriteFiles(t, dir, map[string]string{"rules.json": `{"rules": [{"id": "no-debugger-stmt", "query": "(debugger_statement) @stmt"}]}`})

	rules, err := NewQueryPluginProvider("", []string{path}).Rules()
	if err != nil {
		t.Fatalf("failed to load plugin: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if rules[0].Description != "no-debugger-stmt" || rules[0].DefaultSeverity != domain.SeverityWarning {
		t.Errorf("expected defaults for description and severity, got %+v", rules[0])
	}
}

func TestQueryPluginProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"missing rules", "name: nothing\n", `must export a 'rules' array`},
		{"missing id", "rules:\n  - query: '(identifier) @id'\n", `rule missing 'id' string`},
		{"missing query", "rules:\n  - id: broken\n", `rule "broken" missing 'query'`},
		{"invalid query", "rules:\n  - id: broken\n    query: '(not_a_node_kind) @x'\n", `rule "broken" has invalid query`},
		{"invalid severity", "rules:\n  - id: broken\n    defaultSeverity: fatal\n    query: '(identifier) @id'\n", `invalid defaultSeverity`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			testutil.WriteFiles(t, dir, map[string]string{"plugin.yaml": tt.content})

			_, err := NewLinterWithProviders(NewQueryPluginProvider(dir, []string{"plugin.yaml"}))
			if err == nil {
				t.Fatal("expected an error")
			}
			var domainErr domain.DomainError
			if !errors.As(err, &domainErr) || domainErr.Code != domain.ErrCodePluginError {
				t.Errorf("expected plugin error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.message)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := NewQueryPluginProvider(t.TempDir(), []string{"absent.yaml"}).Rules()
		if err == nil || !strings.Contains(err.Error(), `Failed to load plugin "absent.yaml"`) {
			t.Errorf("expected load failure, got %v", err)
		}
	})
}

func TestStaticProvider(t *testing.T) {
	custom := Rule{ID: "custom", DefaultSeverity: domain.SeverityInfo, Check: func(ctx *RuleContext) {
		ctx.ReportAt(1, 1, "custom rule ran")
	}}
	linter, err := NewLinterWithProviders(NewStaticProvider(custom))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	issues := issuesFor(linter.Lint(testutil.ParseJS(t, "a();"), "test.js", nil), "custom")
	if len(issues) != 1 || issues[0].Severity != domain.SeverityInfo {
		t.Errorf("expected one info issue, got %+v", issues)
	}

	if _, err := NewStaticProvider(Rule{ID: "nocheck"}).Rules(); err == nil {
		t.Error("expected a rule without a check to be rejected")
	}
}
