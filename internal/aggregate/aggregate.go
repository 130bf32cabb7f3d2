// Package aggregate assembles per-file analyses into a project result
package aggregate

import (
	"time"

	"github.com/ludo-technologies/codopsy/domain"
	"github.com/ludo-technologies/codopsy/internal/scorer"
)

// TimestampLayout is the millisecond ISO-8601 layout used in results
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// BuildResult builds the project result stamped with the current time
func BuildResult(files []domain.FileAnalysis, paths []string, targetDir string) *domain.AnalysisResult {
	return BuildResultAt(files, paths, targetDir, time.Now())
}

// BuildResultAt builds the project result: severity totals, mean function
// complexity, the most complex function, and file and project scores. The
// input analyses are not modified; scored copies are stored in the result.
func BuildResultAt(files []domain.FileAnalysis, paths []string, targetDir string, at time.Time) *domain.AnalysisResult {
	summary := domain.Summary{TotalFiles: len(paths)}

	functions := 0
	complexitySum := 0
	scored := make([]domain.FileAnalysis, 0, len(files))
	for _, fa := range files {
		for _, issue := range fa.Issues {
			summary.TotalIssues++
			summary.IssuesBySeverity.Add(issue.Severity)
		}
		for _, fn := range fa.Complexity.Functions {
			functions++
			complexitySum += fn.Complexity
			// strictly greater keeps the first function seen on ties
			if summary.MaxComplexity == nil || fn.Complexity > summary.MaxComplexity.Complexity {
				summary.MaxComplexity = &domain.MaxComplexity{
					File:       fa.File,
					Function:   fn.Name,
					Complexity: fn.Complexity,
				}
			}
		}
		if fa.Issues == nil {
			fa.Issues = []domain.Issue{}
		}
		if fa.Complexity.Functions == nil {
			fa.Complexity.Functions = []domain.FunctionRecord{}
		}
		scored = append(scored, fa.WithScore(scorer.ScoreFile(fa)))
	}
	if functions > 0 {
		summary.AverageComplexity = float64(complexitySum) / float64(functions)
	}

	project := scorer.ScoreProject(scored)
	return &domain.AnalysisResult{
		Timestamp: at.UTC().Format(TimestampLayout),
		TargetDir: targetDir,
		Files:     scored,
		Summary:   summary,
		Score:     &project,
	}
}
