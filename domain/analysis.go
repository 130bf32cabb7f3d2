package domain

import "fmt"

// Severity is the severity of a diagnostic
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ParseSeverity converts a configuration value into a Severity
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityError, SeverityWarning, SeverityInfo:
		return Severity(s), nil
	default:
		return "", fmt.Errorf("invalid severity %q (expected error, warning or info)", s)
	}
}

// Rank orders severities from least (1) to most (3) severe
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// OutputFormat represents the supported report formats
type OutputFormat string

const (
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatHTML  OutputFormat = "html"
	OutputFormatSARIF OutputFormat = "sarif"
)

// ParseOutputFormat validates a report format name
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputFormatJSON, OutputFormatHTML, OutputFormatSARIF:
		return OutputFormat(s), nil
	default:
		return "", NewUnsupportedFormatError(s)
	}
}

// Grade is a letter grade derived from a 0-100 score
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// GradeForScore maps a score onto a letter grade
func GradeForScore(score int) Grade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 75:
		return GradeB
	case score >= 60:
		return GradeC
	case score >= 40:
		return GradeD
	default:
		return GradeF
	}
}

// Issue is a single diagnostic produced by a rule
type Issue struct {
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
}

// FunctionRecord holds the complexity of one function-like construct
type FunctionRecord struct {
	Name                string `json:"name"`
	Line                int    `json:"line"`
	Complexity          int    `json:"complexity"`
	CognitiveComplexity int    `json:"cognitiveComplexity"`
}

// FileComplexity is the complexity result for one file. Cyclomatic and
// Cognitive are the maxima over Functions.
type FileComplexity struct {
	Cyclomatic int              `json:"cyclomatic"`
	Cognitive  int              `json:"cognitive"`
	Functions  []FunctionRecord `json:"functions"`
}

// FileScore is the score attached to a single file
type FileScore struct {
	Score int   `json:"score"`
	Grade Grade `json:"grade"`
}

// FileAnalysis is the analysis record for one file
type FileAnalysis struct {
	File       string         `json:"file"`
	Complexity FileComplexity `json:"complexity"`
	Issues     []Issue        `json:"issues"`
	Score      *FileScore     `json:"score,omitempty"`
}

// WithScore returns a copy of the analysis with the score attached
func (fa FileAnalysis) WithScore(score FileScore) FileAnalysis {
	fa.Score = &score
	return fa
}

// MaxCyclomatic returns the highest cyclomatic complexity among the file's functions
func (fa FileAnalysis) MaxCyclomatic() int {
	max := 0
	for _, fn := range fa.Complexity.Functions {
		if fn.Complexity > max {
			max = fn.Complexity
		}
	}
	return max
}

// MaxCognitive returns the highest cognitive complexity among the file's functions
func (fa FileAnalysis) MaxCognitive() int {
	max := 0
	for _, fn := range fa.Complexity.Functions {
		if fn.CognitiveComplexity > max {
			max = fn.CognitiveComplexity
		}
	}
	return max
}

// CountSeverity counts issues of the given severity
func (fa FileAnalysis) CountSeverity(sev Severity) int {
	n := 0
	for _, issue := range fa.Issues {
		if issue.Severity == sev {
			n++
		}
	}
	return n
}

// IssuesBySeverity holds issue totals per severity
type IssuesBySeverity struct {
	Error   int `json:"error"`
	Warning int `json:"warning"`
	Info    int `json:"info"`
}

// Add counts one issue of the given severity
func (s *IssuesBySeverity) Add(sev Severity) {
	switch sev {
	case SeverityError:
		s.Error++
	case SeverityWarning:
		s.Warning++
	case SeverityInfo:
		s.Info++
	}
}

// MaxComplexity identifies the most complex function of a run
type MaxComplexity struct {
	File       string `json:"file"`
	Function   string `json:"function"`
	Complexity int    `json:"complexity"`
}

// Summary holds the project-wide totals of a run
type Summary struct {
	TotalFiles        int              `json:"totalFiles"`
	TotalIssues       int              `json:"totalIssues"`
	IssuesBySeverity  IssuesBySeverity `json:"issuesBySeverity"`
	AverageComplexity float64          `json:"averageComplexity"`
	MaxComplexity     *MaxComplexity   `json:"maxComplexity"`
}

// GradeDistribution counts files per grade
type GradeDistribution struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
	D int `json:"D"`
	F int `json:"F"`
}

// Add counts one file with the given grade
func (d *GradeDistribution) Add(g Grade) {
	switch g {
	case GradeA:
		d.A++
	case GradeB:
		d.B++
	case GradeC:
		d.C++
	case GradeD:
		d.D++
	default:
		d.F++
	}
}

// ProjectScore is the weighted project-level score
type ProjectScore struct {
	Overall      int               `json:"overall"`
	Grade        Grade             `json:"grade"`
	Distribution GradeDistribution `json:"distribution"`
}

// AnalysisResult is the aggregate result of one run
type AnalysisResult struct {
	Timestamp string         `json:"timestamp"`
	TargetDir string         `json:"targetDir"`
	Files     []FileAnalysis `json:"files"`
	Summary   Summary        `json:"summary"`
	Score     *ProjectScore  `json:"score,omitempty"`
}
