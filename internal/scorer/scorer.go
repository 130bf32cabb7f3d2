// Package scorer turns per-file complexity and diagnostics into a 0-100
// quality score and letter grade, and folds file scores into a project score.
package scorer

import (
	"math"

	"github.com/ludo-technologies/codopsy/domain"
)

// Sub-score ceilings
const (
	ComplexityCeiling = 35.0
	IssuesCeiling     = 40.0
	StructureCeiling  = 25.0
)

// Complexity deduction parameters, applied per function
const (
	cyclomaticBaseline = 10
	cyclomaticWeight   = 2.0
	cyclomaticCap      = 15.0

	cognitiveBaseline = 15
	cognitiveWeight   = 1.5
	cognitiveCap      = 12.0
)

// maxIssueDensityPenalty caps the project-wide issue density deduction
const maxIssueDensityPenalty = 15

type structurePenalty struct {
	perViolation float64
	cap          float64
}

var structureRules = map[string]structurePenalty{
	"max-lines":  {perViolation: 10, cap: 12},
	"max-depth":  {perViolation: 4, cap: 12},
	"max-params": {perViolation: 3, cap: 10},
}

// structuralRules are scored by shape rather than as issues
var structuralRules = map[string]bool{
	"max-lines":                true,
	"max-depth":                true,
	"max-params":               true,
	"max-complexity":           true,
	"max-cognitive-complexity": true,
}

// Breakdown holds the three sub-scores of a file before rounding
type Breakdown struct {
	Complexity float64 `json:"complexity"`
	Issues     float64 `json:"issues"`
	Structure  float64 `json:"structure"`
}

// Total is the sum of the sub-scores rounded to an integer
func (b Breakdown) Total() int {
	return int(math.Round(b.Complexity + b.Issues + b.Structure))
}

// FileBreakdown computes the sub-scores of one file
func FileBreakdown(fa domain.FileAnalysis) Breakdown {
	return Breakdown{
		Complexity: complexityScore(fa),
		Issues:     issuesScore(fa),
		Structure:  structureScore(fa),
	}
}

// ScoreFile scores one file
func ScoreFile(fa domain.FileAnalysis) domain.FileScore {
	score := FileBreakdown(fa).Total()
	return domain.FileScore{Score: score, Grade: domain.GradeForScore(score)}
}

func complexityScore(fa domain.FileAnalysis) float64 {
	score := ComplexityCeiling
	for _, fn := range fa.Complexity.Functions {
		if excess := fn.Complexity - cyclomaticBaseline; excess > 0 {
			score -= math.Min(float64(excess)*cyclomaticWeight, cyclomaticCap)
		}
		if excess := fn.CognitiveComplexity - cognitiveBaseline; excess > 0 {
			score -= math.Min(float64(excess)*cognitiveWeight, cognitiveCap)
		}
	}
	return math.Max(score, 0)
}

type issueGroup struct {
	count    int
	severity domain.Severity
}

// issuesScore groups non-structural issues by rule. Each group is penalised
// by its most severe member with diminishing returns on the count.
func issuesScore(fa domain.FileAnalysis) float64 {
	groups := make(map[string]*issueGroup)
	for _, issue := range fa.Issues {
		if structuralRules[issue.Rule] {
			continue
		}
		g, ok := groups[issue.Rule]
		if !ok {
			g = &issueGroup{}
			groups[issue.Rule] = g
		}
		g.count++
		if issue.Severity.Rank() > g.severity.Rank() {
			g.severity = issue.Severity
		}
	}

	penalty := 0.0
	for _, g := range groups {
		penalty += groupPenalty(g.severity, g.count)
	}
	return math.Round(math.Max(IssuesCeiling-penalty, 0))
}

func groupPenalty(severity domain.Severity, count int) float64 {
	n := float64(count)
	switch severity {
	case domain.SeverityError:
		return 8 * n
	case domain.SeverityWarning:
		return 4 * math.Pow(n, 0.7)
	case domain.SeverityInfo:
		return math.Sqrt(n)
	}
	return 0
}

func structureScore(fa domain.FileAnalysis) float64 {
	counts := make(map[string]int)
	for _, issue := range fa.Issues {
		if _, ok := structureRules[issue.Rule]; ok {
			counts[issue.Rule]++
		}
	}
	score := StructureCeiling
	for rule, n := range counts {
		p := structureRules[rule]
		score -= math.Min(p.perViolation*float64(n), p.cap)
	}
	return math.Max(score, 0)
}

// ScoreProject folds file scores into a project score. Files are weighted by
// sqrt(functions+1), and an issue density penalty is subtracted from the
// weighted mean. A project without files scores 100.
func ScoreProject(files []domain.FileAnalysis) domain.ProjectScore {
	var dist domain.GradeDistribution
	if len(files) == 0 {
		return domain.ProjectScore{Overall: 100, Grade: domain.GradeA, Distribution: dist}
	}

	var weightedSum, totalWeight float64
	totalIssues := 0
	for _, fa := range files {
		fs := ScoreFile(fa)
		if fa.Score != nil {
			fs = *fa.Score
		}
		dist.Add(fs.Grade)

		weight := math.Sqrt(float64(len(fa.Complexity.Functions) + 1))
		weightedSum += float64(fs.Score) * weight
		totalWeight += weight
		totalIssues += len(fa.Issues)
	}

	score := int(math.Round(weightedSum / totalWeight))
	score -= IssueDensityPenalty(totalIssues)
	if score < 0 {
		score = 0
	}
	return domain.ProjectScore{Overall: score, Grade: domain.GradeForScore(score), Distribution: dist}
}

// IssueDensityPenalty is the project deduction for a total issue count
func IssueDensityPenalty(totalIssues int) int {
	p := int(math.Round(math.Sqrt(float64(totalIssues)) * 0.8))
	if p > maxIssueDensityPenalty {
		return maxIssueDensityPenalty
	}
	return p
}
