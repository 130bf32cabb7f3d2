// Package baseline snapshots analysis results and compares runs against a
// stored snapshot.
package baseline

import (
	"math"
	"path/filepath"
	"sort"

	"github.com/ludo-technologies/codopsy/domain"
)

// RelativePath expresses file relative to targetDir with forward slashes.
// Paths that cannot be made relative are returned unchanged.
func RelativePath(file, targetDir string) string {
	rel, err := filepath.Rel(targetDir, file)
	if err != nil {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(rel)
}

// Create snapshots a result. Entries are keyed by path relative to the
// result's target directory and sorted by that path.
func Create(result *domain.AnalysisResult) *domain.Baseline {
	files := make([]domain.BaselineEntry, 0, len(result.Files))
	for _, fa := range result.Files {
		score := 100
		if fa.Score != nil {
			score = fa.Score.Score
		}
		files = append(files, domain.BaselineEntry{
			File:          RelativePath(fa.File, result.TargetDir),
			IssueCount:    len(fa.Issues),
			ErrorCount:    fa.CountSeverity(domain.SeverityError),
			WarningCount:  fa.CountSeverity(domain.SeverityWarning),
			MaxCyclomatic: fa.MaxCyclomatic(),
			MaxCognitive:  fa.MaxCognitive(),
			Score:         score,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].File < files[j].File })

	overall := domain.BaselineOverall{
		TotalIssues:       result.Summary.TotalIssues,
		TotalErrors:       result.Summary.IssuesBySeverity.Error,
		TotalWarnings:     result.Summary.IssuesBySeverity.Warning,
		AverageComplexity: math.Round(result.Summary.AverageComplexity*10) / 10,
		Score:             100,
		Grade:             domain.GradeA,
	}
	if result.Score != nil {
		overall.Score = result.Score.Overall
		overall.Grade = result.Score.Grade
	}

	return &domain.Baseline{
		Version:   domain.BaselineVersion,
		Timestamp: result.Timestamp,
		Overall:   overall,
		Files:     files,
	}
}

// Status derives the comparison verdict. The score direction is checked
// first, so a higher score reports improved even when issues also grew.
func Status(scoreDelta, issuesDelta int) domain.ComparisonStatus {
	switch {
	case scoreDelta > 0 || issuesDelta < 0:
		return domain.StatusImproved
	case scoreDelta < 0 || issuesDelta > 0:
		return domain.StatusDegraded
	default:
		return domain.StatusUnchanged
	}
}

// Compare snapshots the current result and diffs it against base
func Compare(current *domain.AnalysisResult, base *domain.Baseline) *domain.BaselineComparison {
	snapshot := Create(current)

	scoreDelta := snapshot.Overall.Score - base.Overall.Score
	issuesDelta := snapshot.Overall.TotalIssues - base.Overall.TotalIssues

	cmp := &domain.BaselineComparison{
		Status: Status(scoreDelta, issuesDelta),
		Overall: domain.ComparisonOverall{
			IssuesDelta: issuesDelta,
			ScoreDelta:  scoreDelta,
			GradeBefore: base.Overall.Grade,
			GradeAfter:  snapshot.Overall.Grade,
		},
		DegradedFiles: []string{},
		ImprovedFiles: []string{},
	}

	before := make(map[string]domain.BaselineEntry, len(base.Files))
	for _, entry := range base.Files {
		before[entry.File] = entry
	}
	seen := make(map[string]bool, len(snapshot.Files))
	for _, entry := range snapshot.Files {
		seen[entry.File] = true
		prev, ok := before[entry.File]
		switch {
		case !ok:
			cmp.NewFiles++
		case entry.Score < prev.Score:
			cmp.DegradedFiles = append(cmp.DegradedFiles, entry.File)
		case entry.Score > prev.Score:
			cmp.ImprovedFiles = append(cmp.ImprovedFiles, entry.File)
		}
	}
	for file := range before {
		if !seen[file] {
			cmp.RemovedFiles++
		}
	}
	return cmp
}
