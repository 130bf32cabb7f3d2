package service

import (
	"context"
	"fmt"
	"os"

	"github.com/ludo-technologies/codopsy/domain"
	"github.com/ludo-technologies/codopsy/internal/analyzer"
	"github.com/ludo-technologies/codopsy/internal/constants"
	"github.com/ludo-technologies/codopsy/internal/parser"
)

// AnalyzeServiceImpl analyzes source files: complexity, lint rules and the
// function-level complexity thresholds
type AnalyzeServiceImpl struct {
	linter      *analyzer.Linter
	progress    domain.ProgressManager
	concurrency int
}

var _ domain.AnalyzeService = (*AnalyzeServiceImpl)(nil)

// NewAnalyzeService creates an analyze service around a linter. A nil
// linter uses the built-in catalog.
func NewAnalyzeService(linter *analyzer.Linter) *AnalyzeServiceImpl {
	if linter == nil {
		linter = analyzer.NewLinter()
	}
	return &AnalyzeServiceImpl{linter: linter}
}

// NewAnalyzeServiceWithProgress creates an analyze service that reports
// per-file progress
func NewAnalyzeServiceWithProgress(linter *analyzer.Linter, pm domain.ProgressManager) *AnalyzeServiceImpl {
	s := NewAnalyzeService(linter)
	s.progress = pm
	return s
}

// SetConcurrency bounds how many files are analyzed at once (0 = NumCPU)
func (s *AnalyzeServiceImpl) SetConcurrency(n int) {
	s.concurrency = n
}

// AnalyzeFiles analyzes files in parallel. The result slice is in the same
// order as files. Per-file faults become parse-error issues; only context
// cancellation is returned as an error.
func (s *AnalyzeServiceImpl) AnalyzeFiles(ctx context.Context, files []string, opts domain.FileAnalysisOptions) ([]domain.FileAnalysis, error) {
	results := make([]domain.FileAnalysis, len(files))
	tasks := make([]Task, len(files))
	for i, file := range files {
		tasks[i] = TaskFunc{
			TaskName: file,
			Fn: func(ctx context.Context) error {
				results[i] = s.AnalyzeFile(ctx, file, opts)
				return nil
			},
		}
	}

	executor := NewParallelExecutorWithProgress(s.progress, "Analyzing files")
	executor.SetMaxConcurrency(s.concurrency)
	if err := executor.Execute(ctx, tasks); err != nil {
		return nil, domain.NewAnalysisError("analysis cancelled", err)
	}
	return results, nil
}

// AnalyzeFile reads, parses and analyzes one file. It never fails: a read or
// parse fault yields a single parse-error issue and no functions.
func (s *AnalyzeServiceImpl) AnalyzeFile(ctx context.Context, file string, opts domain.FileAnalysisOptions) domain.FileAnalysis {
	analysis, err := s.analyzeFile(ctx, file, opts)
	if err != nil {
		return parseFailure(file, err)
	}
	return analysis
}

func (s *AnalyzeServiceImpl) analyzeFile(ctx context.Context, file string, opts domain.FileAnalysisOptions) (analysis domain.FileAnalysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	source, err := os.ReadFile(file)
	if err != nil {
		return domain.FileAnalysis{}, err
	}
	tree, err := parser.ParseFile(ctx, file, source)
	if err != nil {
		return domain.FileAnalysis{}, err
	}
	defer tree.Close()

	complexity := analyzer.AnalyzeComplexity(tree)
	issues := s.linter.Lint(tree, file, opts.Config)
	issues = append(issues, ThresholdIssues(file, complexity.Functions, opts)...)

	return domain.FileAnalysis{
		File:       file,
		Complexity: complexity,
		Issues:     issues,
	}, nil
}

func parseFailure(file string, err error) domain.FileAnalysis {
	return domain.FileAnalysis{
		File:       file,
		Complexity: domain.FileComplexity{Functions: []domain.FunctionRecord{}},
		Issues: []domain.Issue{{
			File:     file,
			Line:     0,
			Column:   0,
			Severity: domain.SeverityError,
			Rule:     analyzer.RuleParseError,
			Message:  fmt.Sprintf("Failed to analyze file: %v", err),
		}},
	}
}

type thresholdCheck struct {
	rule     string
	fallback int
	metric   func(domain.FunctionRecord) int
	label    string
}

// ThresholdIssues reports every function whose cyclomatic or cognitive
// complexity exceeds its threshold. The threshold is the rule's configured
// max, else the option value, else the built-in default; configuring a rule
// as false disables it.
func ThresholdIssues(file string, functions []domain.FunctionRecord, opts domain.FileAnalysisOptions) []domain.Issue {
	checks := []thresholdCheck{
		{
			rule:     analyzer.RuleMaxComplexity,
			fallback: orDefault(opts.MaxComplexity, constants.DefaultMaxComplexity),
			metric:   func(f domain.FunctionRecord) int { return f.Complexity },
			label:    "cyclomatic",
		},
		{
			rule:     analyzer.RuleMaxCognitiveComplexity,
			fallback: orDefault(opts.MaxCognitiveComplexity, constants.DefaultMaxCognitiveComplexity),
			metric:   func(f domain.FunctionRecord) int { return f.CognitiveComplexity },
			label:    "cognitive",
		},
	}

	var issues []domain.Issue
	for _, check := range checks {
		if opts.Config.IsDisabled(check.rule) {
			continue
		}
		limit := opts.Config.MaxFor(check.rule, check.fallback)
		severity := opts.Config.SeverityFor(check.rule, domain.SeverityWarning)
		for _, fn := range functions {
			value := check.metric(fn)
			if value <= limit {
				continue
			}
			issues = append(issues, domain.Issue{
				File:     file,
				Line:     fn.Line,
				Column:   1,
				Severity: severity,
				Rule:     check.rule,
				Message: fmt.Sprintf("Function \"%s\" has a %s complexity of %d (threshold: %d)",
					fn.Name, check.label, value, limit),
			})
		}
	}
	return issues
}

func orDefault(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
