package baseline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/codopsy/domain"
)

func file(path string, score int, issues ...domain.Severity) domain.FileAnalysis {
	fa := domain.FileAnalysis{
		File: path,
		Complexity: domain.FileComplexity{Functions: []domain.FunctionRecord{
			{Name: "f", Line: 1, Complexity: 3, CognitiveComplexity: 5},
			{Name: "g", Line: 8, Complexity: 7, CognitiveComplexity: 2},
		}},
		Score: &domain.FileScore{Score: score, Grade: domain.GradeForScore(score)},
	}
	for i, sev := range issues {
		fa.Issues = append(fa.Issues, domain.Issue{File: path, Line: i + 1, Column: 1, Severity: sev, Rule: "r"})
	}
	return fa
}

func result(overall, issues int, files ...domain.FileAnalysis) *domain.AnalysisResult {
	root := filepath.FromSlash("/proj")
	for i := range files {
		files[i].File = filepath.Join(root, filepath.FromSlash(files[i].File))
	}
	return &domain.AnalysisResult{
		Timestamp: "2026-01-01T00:00:00.000Z",
		TargetDir: root,
		Files:     files,
		Summary: domain.Summary{
			TotalFiles:        len(files),
			TotalIssues:       issues,
			IssuesBySeverity:  domain.IssuesBySeverity{Error: 1, Warning: issues - 1},
			AverageComplexity: 4.26,
		},
		Score: &domain.ProjectScore{Overall: overall, Grade: domain.GradeForScore(overall)},
	}
}

func TestCreate(t *testing.T) {
	r := result(88, 3,
		file("src/z.ts", 90, domain.SeverityWarning),
		file("src/a.ts", 80, domain.SeverityError, domain.SeverityWarning, domain.SeverityInfo),
	)

	b := Create(r)

	assert.Equal(t, domain.BaselineVersion, b.Version)
	assert.Equal(t, r.Timestamp, b.Timestamp)
	assert.Equal(t, domain.BaselineOverall{
		TotalIssues: 3, TotalErrors: 1, TotalWarnings: 2, AverageComplexity: 4.3, Score: 88, Grade: domain.GradeB,
	}, b.Overall)

	require.Len(t, b.Files, 2)
	assert.Equal(t, domain.BaselineEntry{
		File: "src/a.ts", IssueCount: 3, ErrorCount: 1, WarningCount: 1, MaxCyclomatic: 7, MaxCognitive: 5, Score: 80,
	}, b.Files[0])
	assert.Equal(t, "src/z.ts", b.Files[1].File)
}

func TestCreateWithoutScores(t *testing.T) {
	r := &domain.AnalysisResult{TargetDir: "/p", Files: []domain.FileAnalysis{{File: "/p/a.js"}}}
	b := Create(r)
	assert.Equal(t, 100, b.Overall.Score)
	assert.Equal(t, domain.GradeA, b.Overall.Grade)
	assert.Equal(t, 100, b.Files[0].Score)
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name        string
		scoreDelta  int
		issuesDelta int
		expected    domain.ComparisonStatus
	}{
		{"no change", 0, 0, domain.StatusUnchanged},
		{"score up", 3, 0, domain.StatusImproved},
		{"fewer issues", 0, -2, domain.StatusImproved},
		{"score down", -1, 0, domain.StatusDegraded},
		{"more issues", 0, 4, domain.StatusDegraded},
		// score direction takes precedence over issue count
		{"score up with more issues", 2, 5, domain.StatusImproved},
		{"score down with fewer issues", -2, -5, domain.StatusImproved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Status(tt.scoreDelta, tt.issuesDelta))
		})
	}
}

func TestCompareAgainstOwnSnapshot(t *testing.T) {
	r := result(88, 2, file("a.ts", 90, domain.SeverityError), file("b.ts", 80, domain.SeverityWarning))

	cmp := Compare(r, Create(r))

	assert.Equal(t, domain.StatusUnchanged, cmp.Status)
	assert.Zero(t, cmp.Overall.ScoreDelta)
	assert.Zero(t, cmp.Overall.IssuesDelta)
	assert.Zero(t, cmp.NewFiles)
	assert.Zero(t, cmp.RemovedFiles)
	assert.Empty(t, cmp.DegradedFiles)
	assert.Empty(t, cmp.ImprovedFiles)
}

func TestCompare(t *testing.T) {
	base := &domain.Baseline{
		Version: 1,
		Overall: domain.BaselineOverall{TotalIssues: 5, Score: 80, Grade: domain.GradeB},
		Files: []domain.BaselineEntry{
			{File: "kept-better.ts", Score: 70},
			{File: "kept-worse.ts", Score: 95},
			{File: "kept-same.ts", Score: 88},
			{File: "removed.ts", Score: 100},
		},
	}
	current := result(85, 7,
		file("kept-better.ts", 90),
		file("kept-worse.ts", 60),
		file("kept-same.ts", 88),
		file("added.ts", 100),
	)

	cmp := Compare(current, base)

	assert.Equal(t, domain.StatusImproved, cmp.Status, "score up wins over more issues")
	assert.Equal(t, domain.ComparisonOverall{IssuesDelta: 2, ScoreDelta: 5, GradeBefore: domain.GradeB, GradeAfter: domain.GradeB}, cmp.Overall)
	assert.Equal(t, 1, cmp.NewFiles)
	assert.Equal(t, 1, cmp.RemovedFiles)
	assert.Equal(t, []string{"kept-better.ts"}, cmp.ImprovedFiles)
	assert.Equal(t, []string{"kept-worse.ts"}, cmp.DegradedFiles)
}
