package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/ludo-technologies/codopsy/domain"
	"github.com/ludo-technologies/codopsy/internal/baseline"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// printer renders human-readable run output
type printer struct {
	w       io.Writer
	colored bool
}

func newPrinter(w io.Writer, colored bool) *printer {
	return &printer{w: w, colored: colored}
}

func (p *printer) paint(s string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if p.colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

func (p *printer) println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

func (p *printer) printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

func (p *printer) count(n int) string {
	if n == 0 {
		return p.paint(fmt.Sprint(n), color.FgGreen, color.Bold)
	}
	return p.paint(fmt.Sprint(n), color.Bold)
}

func (p *printer) grade(g domain.Grade) string {
	switch g {
	case domain.GradeA:
		return p.paint(string(g), color.FgGreen, color.Bold)
	case domain.GradeB:
		return p.paint(string(g), color.FgGreen)
	case domain.GradeC:
		return p.paint(string(g), color.FgYellow)
	case domain.GradeD:
		return p.paint(string(g), color.FgRed)
	case domain.GradeF:
		return p.paint(string(g), color.FgRed, color.Bold)
	}
	return string(g)
}

func (p *printer) printSummary(result *domain.AnalysisResult) {
	s := result.Summary
	p.println()
	p.println(p.paint("=== Analysis Summary ===", color.Bold))
	if result.Score != nil {
		p.printf("  Quality Score:  %s (%d/100)\n", p.grade(result.Score.Grade), result.Score.Overall)
	}
	p.printf("  Files analyzed: %s\n", p.paint(fmt.Sprint(s.TotalFiles), color.Bold))
	p.printf("  Total issues:   %s\n", p.count(s.TotalIssues))
	p.printf("    %s   %s\n", p.paint("Error:", color.FgRed), p.count(s.IssuesBySeverity.Error))
	p.printf("    %s %s\n", p.paint("Warning:", color.FgYellow), p.count(s.IssuesBySeverity.Warning))
	p.printf("    %s    %s\n", p.paint("Info:", color.FgBlue), p.count(s.IssuesBySeverity.Info))
	p.printf("  Avg complexity: %.1f\n", s.AverageComplexity)
	if mc := s.MaxComplexity; mc != nil {
		p.printf("  Max complexity: %d (%s in %s)\n", mc.Complexity, mc.Function,
			p.paint(baseline.RelativePath(mc.File, result.TargetDir), color.FgCyan))
	}
	p.println()
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func (p *printer) printVerbose(fa domain.FileAnalysis, targetDir string) {
	file := p.paint(baseline.RelativePath(fa.File, targetDir), color.FgCyan)
	stats := fmt.Sprintf("complexity: %d, cognitive: %d", fa.MaxCyclomatic(), fa.MaxCognitive())

	if len(fa.Issues) == 0 {
		p.println(p.paint("  ✓ ", color.FgGreen) + file + p.paint(fmt.Sprintf(" (%s, issues: 0)", stats), color.FgGreen))
		return
	}

	var parts []string
	if n := fa.CountSeverity(domain.SeverityError); n > 0 {
		parts = append(parts, plural(n, "error"))
	}
	if n := fa.CountSeverity(domain.SeverityWarning); n > 0 {
		parts = append(parts, plural(n, "warning"))
	}
	if n := fa.CountSeverity(domain.SeverityInfo); n > 0 {
		parts = append(parts, plural(n, "info"))
	}
	p.println(p.paint("  ✗ ", color.FgRed) + file + p.paint(fmt.Sprintf(" (%s, issues: %s)", stats, strings.Join(parts, ", ")), color.FgRed))
}

func (p *printer) risk(r domain.RiskLevel) string {
	switch r {
	case domain.RiskLevelHigh:
		return p.paint("HIGH", color.FgRed)
	case domain.RiskLevelMedium:
		return p.paint("MEDIUM", color.FgYellow)
	}
	return p.paint("LOW", color.FgGreen)
}

func (p *printer) printHotspots(result *domain.HotspotResult) {
	if result == nil || len(result.Hotspots) == 0 {
		return
	}
	p.println(p.paint(fmt.Sprintf("=== Hotspot Analysis (last %s) ===", result.Period), color.Bold))

	table := tablewriter.NewTable(p.w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)

	table.Header([]string{"Risk", "File", "Commits", "Authors", "Complexity"})
	for _, h := range result.Hotspots {
		table.Append([]string{
			p.risk(h.Risk),
			p.paint(h.File, color.FgCyan),
			fmt.Sprint(h.Commits),
			fmt.Sprint(h.Authors),
			fmt.Sprint(h.Complexity),
		})
	}
	table.Render()
	p.println()
}

func signed(n int) string {
	if n >= 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprint(n)
}

func (p *printer) printBaselineComparison(c *domain.BaselineComparison) {
	var status string
	switch c.Status {
	case domain.StatusImproved:
		status = p.paint("IMPROVED", color.FgGreen)
	case domain.StatusDegraded:
		status = p.paint("DEGRADED", color.FgRed)
	default:
		status = p.paint("UNCHANGED", color.FgBlue)
	}

	arrow := "→"
	switch {
	case c.Overall.ScoreDelta > 0:
		arrow = p.paint("↑", color.FgGreen)
	case c.Overall.ScoreDelta < 0:
		arrow = p.paint("↓", color.FgRed)
	}

	p.println(p.paint("=== Baseline Comparison ===", color.Bold))
	p.printf("  Status: %s\n", status)
	p.printf("  Score:  %s → %s (%s %s)\n", c.Overall.GradeBefore, c.Overall.GradeAfter, arrow, signed(c.Overall.ScoreDelta))
	p.printf("  Issues: %s\n", signed(c.Overall.IssuesDelta))
	if len(c.DegradedFiles) > 0 {
		p.printf("  Degraded: %s\n", strings.Join(c.DegradedFiles, ", "))
	}
	if len(c.ImprovedFiles) > 0 {
		p.printf("  Improved: %s\n", strings.Join(c.ImprovedFiles, ", "))
	}
	p.println()
}
