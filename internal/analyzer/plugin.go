package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/codopsy/domain"
	"github.com/ludo-technologies/codopsy/internal/parser"
)

// StaticProvider supplies rules registered in-process
type StaticProvider struct {
	rules []Rule
}

// NewStaticProvider wraps a fixed list of rules
func NewStaticProvider(rules ...Rule) *StaticProvider {
	return &StaticProvider{rules: rules}
}

// Rules returns the registered rules, rejecting any without an id or check
func (p *StaticProvider) Rules() ([]Rule, error) {
	for i, r := range p.rules {
		if r.ID == "" {
			return nil, domain.NewPluginError(fmt.Sprintf("static rule %d missing id", i), nil)
		}
		if r.Check == nil {
			return nil, domain.NewPluginError(fmt.Sprintf("static rule %q missing check", r.ID), nil)
		}
	}
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out, nil
}

// pluginDocument is the on-disk shape of a query plugin (YAML or JSON)
type pluginDocument struct {
	Rules *[]pluginRuleSpec `yaml:"rules"`
}

type pluginRuleSpec struct {
	ID              string `yaml:"id"`
	Description     string `yaml:"description"`
	DefaultSeverity string `yaml:"defaultSeverity"`
	Query           string `yaml:"query"`
	Capture         string `yaml:"capture"`
	Message         string `yaml:"message"`
}

// QueryPluginProvider loads rules expressed as tree-sitter queries. Each
// match of a rule's query yields one diagnostic.
type QueryPluginProvider struct {
	baseDir string
	paths   []string
}

// NewQueryPluginProvider creates a provider for the given plugin files.
// Relative paths are resolved against baseDir.
func NewQueryPluginProvider(baseDir string, paths []string) *QueryPluginProvider {
	return &QueryPluginProvider{baseDir: baseDir, paths: paths}
}

// Rules loads every plugin file in order. The first broken plugin aborts
// loading.
func (p *QueryPluginProvider) Rules() ([]Rule, error) {
	var rules []Rule
	for _, path := range p.paths {
		loaded, err := p.load(path)
		if err != nil {
			return nil, err
		}
		rules = append(rules, loaded...)
	}
	return rules, nil
}

func (p *QueryPluginProvider) resolve(path string) string {
	if filepath.IsAbs(path) || p.baseDir == "" {
		return path
	}
	return filepath.Join(p.baseDir, path)
}

func (p *QueryPluginProvider) load(path string) ([]Rule, error) {
	data, err := os.ReadFile(p.resolve(path))
	if err != nil {
		return nil, domain.NewPluginError(fmt.Sprintf("Failed to load plugin %q", path), err)
	}
	var doc pluginDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, domain.NewPluginError(fmt.Sprintf("Failed to load plugin %q", path), err)
	}
	if doc.Rules == nil {
		return nil, domain.NewPluginError(fmt.Sprintf("Plugin %q must export a 'rules' array", path), nil)
	}

	rules := make([]Rule, 0, len(*doc.Rules))
	for _, spec := range *doc.Rules {
		r, err := newQueryRule(path, spec)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func newQueryRule(path string, spec pluginRuleSpec) (Rule, error) {
	if spec.ID == "" {
		return Rule{}, domain.NewPluginError(fmt.Sprintf("Plugin %q: rule missing 'id' string", path), nil)
	}
	if spec.Query == "" {
		return Rule{}, domain.NewPluginError(fmt.Sprintf("Plugin %q: rule %q missing 'query'", path, spec.ID), nil)
	}

	severity := domain.SeverityWarning
	if spec.DefaultSeverity != "" {
		sev, err := domain.ParseSeverity(spec.DefaultSeverity)
		if err != nil {
			return Rule{}, domain.NewPluginError(fmt.Sprintf("Plugin %q: rule %q has invalid defaultSeverity", path, spec.ID), err)
		}
		severity = sev
	}

	qr := &queryRule{spec: spec, compiled: make(map[parser.Language]*sitter.Query)}
	// Validate against the JavaScript grammar up front; other grammars are
	// compiled on first use.
	if _, err := qr.query(parser.LanguageJavaScript); err != nil {
		return Rule{}, domain.NewPluginError(fmt.Sprintf("Plugin %q: rule %q has invalid query", path, spec.ID), err)
	}

	description := spec.Description
	if description == "" {
		description = spec.ID
	}
	return Rule{
		ID:              spec.ID,
		Description:     description,
		DefaultSeverity: severity,
		Check:           qr.check,
	}, nil
}

// queryRule caches one compiled query per grammar
type queryRule struct {
	spec pluginRuleSpec

	mu       sync.Mutex
	compiled map[parser.Language]*sitter.Query
}

func (r *queryRule) query(lang parser.Language) (*sitter.Query, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.compiled[lang]; ok {
		return q, nil
	}
	q, err := sitter.NewQuery([]byte(r.spec.Query), parser.SitterLanguage(lang))
	if err != nil {
		return nil, err
	}
	r.compiled[lang] = q
	return q, nil
}

func (r *queryRule) message() string {
	if r.spec.Message != "" {
		return r.spec.Message
	}
	if r.spec.Description != "" {
		return r.spec.Description
	}
	return fmt.Sprintf("Matched %s", r.spec.ID)
}

// check runs the query and reports each match at the configured capture,
// or at the first capture when none is named.
func (r *queryRule) check(ctx *RuleContext) {
	root := ctx.Tree.SitterRoot()
	if root == nil {
		return
	}
	q, err := r.query(ctx.Tree.Language)
	if err != nil {
		return
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q, root)

	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, ctx.Tree.Source)
		if len(match.Captures) == 0 {
			continue
		}
		target := match.Captures[0].Node
		if r.spec.Capture != "" {
			target = nil
			for _, c := range match.Captures {
				if q.CaptureNameForId(c.Index) == r.spec.Capture {
					target = c.Node
					break
				}
			}
		}
		if target == nil {
			continue
		}
		start := target.StartPoint()
		ctx.ReportAt(int(start.Row)+1,
			parser.CharColumn(ctx.Tree.Source, int(target.StartByte()), int(start.Column)), r.message())
	}
}
