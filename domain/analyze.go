package domain

import (
	"context"
	"io"
)

// AnalyzeRequest is the input of an analysis run
type AnalyzeRequest struct {
	// TargetDir is the directory being analyzed (absolute)
	TargetDir string

	// Files restricts the run to these absolute paths; nil means discover
	Files []string

	// Config is the rule configuration; nil loads .codopsyrc.json
	Config *Config

	// Complexity thresholds used when the config has no max
	MaxComplexity          int
	MaxCognitiveComplexity int

	// DiffBase limits analysis to files changed since the merge base with this ref
	DiffBase string

	// Concurrency bounds parallel per-file analysis (0 = NumCPU)
	Concurrency int

	// Hotspot detection
	Hotspots      bool
	HotspotMonths int
	HotspotTop    int

	// Baseline handling
	BaselinePath string
	SaveBaseline bool
}

// AnalyzeResponse is the output of an analysis run
type AnalyzeResponse struct {
	Result     *AnalysisResult
	Hotspots   *HotspotResult
	Comparison *BaselineComparison

	// BaselineSaved is set when the run wrote a new baseline
	BaselineSaved string

	// PluginRules describes the rules loaded from configured plugins
	PluginRules []RuleInfo

	// Warnings are recovered faults (unreadable config, corrupt baseline)
	Warnings []string
}

// RuleInfo is the reporting metadata of a rule
type RuleInfo struct {
	ID              string
	Description     string
	DefaultSeverity Severity
}

// AnalyzeService analyzes a list of files
type AnalyzeService interface {
	AnalyzeFiles(ctx context.Context, files []string, opts FileAnalysisOptions) ([]FileAnalysis, error)
}

// FileAnalysisOptions carries what the per-file driver needs
type FileAnalysisOptions struct {
	Config                 *Config
	MaxComplexity          int
	MaxCognitiveComplexity int
}

// OutputFormatter renders an analysis result
type OutputFormatter interface {
	Format(result *AnalysisResult, format OutputFormat) (string, error)
	Write(result *AnalysisResult, format OutputFormat, writer io.Writer) error
}
