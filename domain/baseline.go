package domain

// BaselineVersion is the current baseline document version
const BaselineVersion = 1

// BaselineEntry is the per-file part of a baseline snapshot
type BaselineEntry struct {
	File          string `json:"file"`
	IssueCount    int    `json:"issueCount"`
	ErrorCount    int    `json:"errorCount"`
	WarningCount  int    `json:"warningCount"`
	MaxCyclomatic int    `json:"maxCyclomatic"`
	MaxCognitive  int    `json:"maxCognitive"`
	Score         int    `json:"score"`
}

// BaselineOverall holds the project totals of a baseline snapshot
type BaselineOverall struct {
	TotalIssues       int     `json:"totalIssues"`
	TotalErrors       int     `json:"totalErrors"`
	TotalWarnings     int     `json:"totalWarnings"`
	AverageComplexity float64 `json:"averageComplexity"`
	Score             int     `json:"score"`
	Grade             Grade   `json:"grade"`
}

// Baseline is a persisted snapshot of an analysis run
type Baseline struct {
	Version   int             `json:"version"`
	Timestamp string          `json:"timestamp"`
	Overall   BaselineOverall `json:"overall"`
	Files     []BaselineEntry `json:"files"`
}

// ComparisonStatus is the verdict of a baseline comparison
type ComparisonStatus string

const (
	StatusImproved  ComparisonStatus = "improved"
	StatusDegraded  ComparisonStatus = "degraded"
	StatusUnchanged ComparisonStatus = "unchanged"
)

// ComparisonOverall holds the project-level deltas of a comparison
type ComparisonOverall struct {
	IssuesDelta int   `json:"issuesDelta"`
	ScoreDelta  int   `json:"scoreDelta"`
	GradeBefore Grade `json:"gradeBefore"`
	GradeAfter  Grade `json:"gradeAfter"`
}

// BaselineComparison is the result of comparing a run against a baseline
type BaselineComparison struct {
	Status        ComparisonStatus  `json:"status"`
	Overall       ComparisonOverall `json:"overall"`
	NewFiles      int               `json:"newFiles"`
	RemovedFiles  int               `json:"removedFiles"`
	DegradedFiles []string          `json:"degradedFiles"`
	ImprovedFiles []string          `json:"improvedFiles"`
}
