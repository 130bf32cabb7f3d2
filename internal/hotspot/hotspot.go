// Package hotspot ranks files by recent churn weighted with complexity
package hotspot

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ludo-technologies/codopsy/domain"
	"github.com/ludo-technologies/codopsy/internal/baseline"
)

const (
	// DefaultMonths is the default lookback window
	DefaultMonths = 6
	// DefaultTop is the default number of hotspots returned
	DefaultTop = 10

	highRiskScore   = 100
	mediumRiskScore = 30
)

// Detector ranks hotspots using churn from a domain.ChurnProvider
type Detector struct {
	churn  domain.ChurnProvider
	months int
	top    int
	now    func() time.Time
}

// Option is a functional option for configuring Detector.
type Option func(*Detector)

// WithMonths sets the lookback window in months.
func WithMonths(months int) Option {
	return func(d *Detector) {
		if months > 0 {
			d.months = months
		}
	}
}

// WithTop sets how many hotspots are kept.
func WithTop(top int) Option {
	return func(d *Detector) {
		if top > 0 {
			d.top = top
		}
	}
}

// WithClock overrides the time source used to compute the window start.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		d.now = now
	}
}

// New creates a hotspot detector.
func New(churn domain.ChurnProvider, opts ...Option) *Detector {
	d := &Detector{
		churn:  churn,
		months: DefaultMonths,
		top:    DefaultTop,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ClassifyRisk maps a hotspot score onto a risk level
func ClassifyRisk(score float64) domain.RiskLevel {
	switch {
	case score > highRiskScore:
		return domain.RiskLevelHigh
	case score > mediumRiskScore:
		return domain.RiskLevelMedium
	default:
		return domain.RiskLevelLow
	}
}

// Score weights a file's worst function by how often the file changed
func Score(commits, maxCyclomatic, maxCognitive int) float64 {
	return float64(commits) * (float64(maxCyclomatic) + float64(maxCognitive)*0.5)
}

// Detect scores every analyzed file, drops files without commits in the
// window, and returns the highest scores first.
func (d *Detector) Detect(ctx context.Context, targetDir string, files []domain.FileAnalysis) *domain.HotspotResult {
	since := d.now().AddDate(0, -d.months, 0)
	churn := d.churn.ChurnStats(ctx, targetDir, since)

	hotspots := make([]domain.Hotspot, 0, len(files))
	for _, fa := range files {
		rel := baseline.RelativePath(fa.File, targetDir)
		stats := churn[rel]
		if stats.Commits == 0 {
			continue
		}
		cc, cog := fa.MaxCyclomatic(), fa.MaxCognitive()
		score := Score(stats.Commits, cc, cog)
		hotspots = append(hotspots, domain.Hotspot{
			File:                rel,
			Commits:             stats.Commits,
			Authors:             stats.Authors,
			Complexity:          cc,
			CognitiveComplexity: cog,
			Score:               score,
			Risk:                ClassifyRisk(score),
		})
	}

	sort.SliceStable(hotspots, func(i, j int) bool {
		return hotspots[i].Score > hotspots[j].Score
	})
	if len(hotspots) > d.top {
		hotspots = hotspots[:d.top]
	}

	return &domain.HotspotResult{
		Period:   fmt.Sprintf("%d months", d.months),
		Hotspots: hotspots,
	}
}
