package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/codopsy/domain"
)

func fn(name string, cc, cog int) domain.FunctionRecord {
	return domain.FunctionRecord{Name: name, Line: 1, Complexity: cc, CognitiveComplexity: cog}
}

func issues(rule string, sev domain.Severity, n int) []domain.Issue {
	out := make([]domain.Issue, n)
	for i := range out {
		out[i] = domain.Issue{File: "a.ts", Line: i + 1, Column: 1, Severity: sev, Rule: rule, Message: "m"}
	}
	return out
}

func TestScoreFile(t *testing.T) {
	tests := []struct {
		name     string
		analysis domain.FileAnalysis
		score    int
		grade    domain.Grade
	}{
		{
			name:     "clean file",
			analysis: domain.FileAnalysis{File: "a.ts"},
			score:    100,
			grade:    domain.GradeA,
		},
		{
			name: "one function with cyclomatic 20",
			analysis: domain.FileAnalysis{File: "a.ts", Complexity: domain.FileComplexity{
				Cyclomatic: 20, Functions: []domain.FunctionRecord{fn("f", 20, 0)},
			}},
			score: 85,
			grade: domain.GradeB,
		},
		{
			name: "cognitive deduction is capped per function",
			analysis: domain.FileAnalysis{File: "a.ts", Complexity: domain.FileComplexity{
				Functions: []domain.FunctionRecord{fn("f", 1, 40)},
			}},
			score: 88,
			grade: domain.GradeB,
		},
		{
			name: "complexity sub-score floors at zero",
			analysis: domain.FileAnalysis{File: "a.ts", Complexity: domain.FileComplexity{
				Functions: []domain.FunctionRecord{fn("a", 30, 30), fn("b", 30, 30)},
			}},
			score: 65,
			grade: domain.GradeC,
		},
		{
			name:     "single error",
			analysis: domain.FileAnalysis{File: "a.ts", Issues: issues("no-eval", domain.SeverityError, 1)},
			score:    92,
			grade:    domain.GradeA,
		},
		{
			name:     "warnings have diminishing returns",
			analysis: domain.FileAnalysis{File: "a.ts", Issues: issues("no-var", domain.SeverityWarning, 4)},
			// 4 * 4^0.7 = 10.56
			score: 89,
			grade: domain.GradeB,
		},
		{
			name:     "info uses square root",
			analysis: domain.FileAnalysis{File: "a.ts", Issues: issues("no-console", domain.SeverityInfo, 9)},
			score:    97,
			grade:    domain.GradeA,
		},
		{
			name:     "structural rules only hit structure",
			analysis: domain.FileAnalysis{File: "a.ts", Issues: issues("max-depth", domain.SeverityWarning, 5)},
			score:    88,
			grade:    domain.GradeB,
		},
		{
			name: "max lines and params",
			analysis: domain.FileAnalysis{File: "a.ts", Issues: append(
				issues("max-lines", domain.SeverityWarning, 1),
				issues("max-params", domain.SeverityWarning, 5)...)},
			score: 80,
			grade: domain.GradeB,
		},
		{
			name:     "complexity issues are not double counted",
			analysis: domain.FileAnalysis{File: "a.ts", Issues: issues("max-complexity", domain.SeverityError, 3)},
			score:    100,
			grade:    domain.GradeA,
		},
		{
			name:     "issues sub-score floors at zero",
			analysis: domain.FileAnalysis{File: "a.ts", Issues: issues("parse-error", domain.SeverityError, 6)},
			score:    60,
			grade:    domain.GradeC,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreFile(tt.analysis)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.grade, got.Grade)
		})
	}
}

func TestIssuesGroupUsesDominantSeverity(t *testing.T) {
	mixed := append(issues("eqeqeq", domain.SeverityInfo, 2), issues("eqeqeq", domain.SeverityError, 1)...)
	b := FileBreakdown(domain.FileAnalysis{File: "a.ts", Issues: mixed})
	// three issues scored as errors: 40 - 24
	assert.Equal(t, 16.0, b.Issues)
	assert.Equal(t, 35.0, b.Complexity)
	assert.Equal(t, 25.0, b.Structure)
}

func TestScoreProject(t *testing.T) {
	t.Run("empty project", func(t *testing.T) {
		got := ScoreProject(nil)
		assert.Equal(t, 100, got.Overall)
		assert.Equal(t, domain.GradeA, got.Grade)
		assert.Equal(t, domain.GradeDistribution{}, got.Distribution)
	})

	t.Run("weighted by function count", func(t *testing.T) {
		// weights: sqrt(4) = 2 for the clean file, sqrt(1) = 1 for the other
		clean := domain.FileAnalysis{File: "a.ts", Complexity: domain.FileComplexity{
			Functions: []domain.FunctionRecord{fn("a", 1, 0), fn("b", 1, 0), fn("c", 1, 0)},
		}}
		complexFile := domain.FileAnalysis{File: "b.ts", Complexity: domain.FileComplexity{
			Cyclomatic: 20, Functions: nil,
		}, Score: &domain.FileScore{Score: 70, Grade: domain.GradeC}}

		got := ScoreProject([]domain.FileAnalysis{clean, complexFile})
		// (100*2 + 70*1) / 3 = 90
		assert.Equal(t, 90, got.Overall)
		assert.Equal(t, domain.GradeA, got.Grade)
		assert.Equal(t, domain.GradeDistribution{A: 1, C: 1}, got.Distribution)
	})

	t.Run("issue density penalty", func(t *testing.T) {
		file := domain.FileAnalysis{File: "a.ts", Issues: issues("no-console", domain.SeverityInfo, 16)}
		got := ScoreProject([]domain.FileAnalysis{file})
		// file: 40 - 4 = 36 issues, 96 total; density: round(4 * 0.8) = 3
		assert.Equal(t, 93, got.Overall)
	})

	t.Run("floors at zero", func(t *testing.T) {
		file := domain.FileAnalysis{File: "a.ts", Score: &domain.FileScore{Score: 5, Grade: domain.GradeF},
			Issues: issues("no-eval", domain.SeverityError, 400)}
		got := ScoreProject([]domain.FileAnalysis{file})
		require.Equal(t, 0, got.Overall)
		assert.Equal(t, domain.GradeF, got.Grade)
	})
}

func TestIssueDensityPenalty(t *testing.T) {
	tests := []struct {
		issues   int
		expected int
	}{
		{0, 0},
		{1, 1},
		{4, 2},
		{100, 8},
		{351, 15},
		{10000, 15},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, IssueDensityPenalty(tt.issues), "issues=%d", tt.issues)
	}
}
