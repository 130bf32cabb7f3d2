package service

import (
	"fmt"
	"html/template"
	"io"

	"github.com/ludo-technologies/codopsy/domain"
	"github.com/ludo-technologies/codopsy/internal/version"
)

// Functions above these values are flagged in the HTML function table
const (
	htmlHighComplexity = 10
	htmlHighCognitive  = 15
)

// HTMLData represents the data for the HTML template
type HTMLData struct {
	Result  *domain.AnalysisResult
	Version string
	Files   []HTMLFile
}

// HTMLFile is one file section of the report
type HTMLFile struct {
	domain.FileAnalysis
	Errors   int
	Warnings int
	Infos    int
}

// Clean reports whether the file has no issues
func (f HTMLFile) Clean() bool {
	return len(f.Issues) == 0
}

var htmlReportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"fixed1": func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	},
	"highCC": func(v int) bool {
		return v > htmlHighComplexity
	},
	"highCog": func(v int) bool {
		return v > htmlHighCognitive
	},
	"severityClass": func(sev domain.Severity) string {
		switch sev {
		case domain.SeverityError, domain.SeverityWarning, domain.SeverityInfo:
			return "sev-" + string(sev)
		default:
			return "sev-unknown"
		}
	},
	"gradeClass": func(g domain.Grade) string {
		switch g {
		case domain.GradeA:
			return "grade-a"
		case domain.GradeB:
			return "grade-b"
		case domain.GradeC:
			return "grade-c"
		case domain.GradeD:
			return "grade-d"
		default:
			return "grade-f"
		}
	},
}).Parse(htmlTemplate))

func (f *OutputFormatterImpl) writeHTML(result *domain.AnalysisResult, writer io.Writer) error {
	data := HTMLData{
		Result:  result,
		Version: version.GetVersion(),
		Files:   make([]HTMLFile, 0, len(result.Files)),
	}
	for _, fa := range result.Files {
		data.Files = append(data.Files, HTMLFile{
			FileAnalysis: fa,
			Errors:       fa.CountSeverity(domain.SeverityError),
			Warnings:     fa.CountSeverity(domain.SeverityWarning),
			Infos:        fa.CountSeverity(domain.SeverityInfo),
		})
	}
	return htmlReportTemplate.Execute(writer, data)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Codopsy Report</title>
  <style>
    *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
    body { font-family: system-ui, -apple-system, sans-serif; background: #f0f4f8; color: #2c3e50; line-height: 1.6; }
    .container { max-width: 1100px; margin: 0 auto; padding: 24px 16px; }
    header { background: linear-gradient(135deg, #1a5276 0%, #2980b9 100%); color: #fff; padding: 32px 0; margin-bottom: 32px; }
    header h1 { font-size: 28px; font-weight: 700; margin-bottom: 8px; }
    header .subtitle { font-size: 14px; opacity: 0.85; }
    .meta-info { display: flex; gap: 24px; margin-top: 16px; font-size: 13px; opacity: 0.9; }
    h2 { font-size: 20px; font-weight: 600; margin-bottom: 16px; color: #1a5276; }
    h4 { margin: 16px 0 8px; font-size: 14px; color: #34495e; }
    .summary-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 16px; margin-bottom: 32px; }
    .summary-card { background: #fff; border-radius: 8px; padding: 20px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); border-left: 4px solid #2980b9; }
    .summary-card.error { border-left-color: #e74c3c; }
    .summary-card.warning { border-left-color: #f39c12; }
    .summary-card.complexity { border-left-color: #8e44ad; }
    .summary-card .label { font-size: 12px; text-transform: uppercase; letter-spacing: 0.5px; color: #7f8c8d; }
    .summary-card .value { font-size: 28px; font-weight: 700; }
    .summary-card .detail { font-size: 12px; color: #95a5a6; margin-top: 4px; }
    .grade-a { color: #27ae60; } .grade-b { color: #2ecc71; } .grade-c { color: #f39c12; }
    .grade-d { color: #e67e22; } .grade-f { color: #e74c3c; }
    .file-section { background: #fff; border-radius: 8px; margin-bottom: 12px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); overflow: hidden; }
    .file-header { display: flex; align-items: center; gap: 12px; padding: 14px 20px; cursor: pointer; font-size: 14px; }
    .file-name { font-family: ui-monospace, monospace; font-weight: 600; flex: 1; word-break: break-all; }
    .file-complexity { font-size: 12px; color: #7f8c8d; white-space: nowrap; }
    .file-body { padding: 0 20px 20px; }
    .badge { display: inline-block; padding: 2px 8px; border-radius: 10px; font-size: 11px; font-weight: 600; color: #fff; }
    .sev-error { background: #e74c3c; } .sev-warning { background: #f39c12; } .sev-info { background: #3498db; }
    .sev-unknown { background: #999; } .clean { background: #27ae60; }
    .data-table { width: 100%; border-collapse: collapse; font-size: 13px; }
    .data-table th { text-align: left; padding: 8px 10px; background: #f7f9fb; border-bottom: 2px solid #e1e8ed; }
    .data-table td { padding: 8px 10px; border-bottom: 1px solid #eef2f5; }
    .mono { font-family: ui-monospace, monospace; }
    .high-complexity { background: #fdecea; }
    .complexity-warning { color: #e74c3c; font-weight: 700; }
    .no-data { text-align: center; color: #95a5a6; font-style: italic; }
    footer { text-align: center; padding: 24px; font-size: 12px; color: #95a5a6; }
  </style>
</head>
<body>
  <header>
    <div class="container">
      <h1>Codopsy Report</h1>
      <p class="subtitle">Code Quality Analysis Report</p>
      <div class="meta-info">
        <span>{{.Result.Timestamp}}</span>
        <span>{{.Result.TargetDir}}</span>
      </div>
    </div>
  </header>

  <div class="container">
    <section>
      <h2>Summary</h2>
      <div class="summary-grid">
      {{- with .Result.Summary}}
        <div class="summary-card">
          <div class="label">Files Analyzed</div>
          <div class="value">{{.TotalFiles}}</div>
        </div>
        <div class="summary-card error">
          <div class="label">Total Issues</div>
          <div class="value">{{.TotalIssues}}</div>
          <div class="detail">Error: {{.IssuesBySeverity.Error}} / Warning: {{.IssuesBySeverity.Warning}} / Info: {{.IssuesBySeverity.Info}}</div>
        </div>
        <div class="summary-card complexity">
          <div class="label">Avg Complexity</div>
          <div class="value">{{fixed1 .AverageComplexity}}</div>
        </div>
        <div class="summary-card warning">
          <div class="label">Max Complexity</div>
          {{- if .MaxComplexity}}
          <div class="value">{{.MaxComplexity.Complexity}}</div>
          <div class="detail">{{.MaxComplexity.Function}} in {{.MaxComplexity.File}} ({{.MaxComplexity.Complexity}})</div>
          {{- else}}
          <div class="value">N/A</div>
          <div class="detail">N/A</div>
          {{- end}}
        </div>
      {{- end}}
        {{- with .Result.Score}}
        <div class="summary-card">
          <div class="label">Quality Score</div>
          <div class="value {{gradeClass .Grade}}">{{.Overall}} ({{.Grade}})</div>
          <div class="detail">A: {{.Distribution.A}} / B: {{.Distribution.B}} / C: {{.Distribution.C}} / D: {{.Distribution.D}} / F: {{.Distribution.F}}</div>
        </div>
        {{- end}}
      </div>
    </section>

    <section>
      <h2>File Details</h2>
      {{- range .Files}}
      <details class="file-section">
        <summary class="file-header">
          <span class="file-name">{{.File}}</span>
          <span class="file-badges">
            {{- if .Clean}}<span class="badge clean">clean</span>{{end}}
            {{- if .Errors}} <span class="badge sev-error">{{.Errors}} error</span>{{end}}
            {{- if .Warnings}} <span class="badge sev-warning">{{.Warnings}} warning</span>{{end}}
            {{- if .Infos}} <span class="badge sev-info">{{.Infos}} info</span>{{end}}
          </span>
          {{- with .Score}}
          <span class="file-score {{gradeClass .Grade}}">{{.Score}} ({{.Grade}})</span>
          {{- end}}
          <span class="file-complexity">Complexity: {{.Complexity.Cyclomatic}} / Cognitive: {{.Complexity.Cognitive}}</span>
        </summary>
        <div class="file-body">
          <h4>Complexity</h4>
          <table class="data-table complexity-table">
            <thead>
              <tr><th>Function</th><th>Line</th><th>Cyclomatic Complexity</th><th>Cognitive Complexity</th></tr>
            </thead>
            <tbody>
            {{- range .Complexity.Functions}}
              <tr{{if or (highCC .Complexity) (highCog .CognitiveComplexity)}} class="high-complexity"{{end}}>
                <td class="mono">{{.Name}}</td>
                <td class="mono">{{.Line}}</td>
                <td class="mono">{{.Complexity}}{{if highCC .Complexity}} <span class="complexity-warning">!</span>{{end}}</td>
                <td class="mono">{{.CognitiveComplexity}}{{if highCog .CognitiveComplexity}} <span class="complexity-warning">!</span>{{end}}</td>
              </tr>
            {{- else}}
              <tr><td colspan="4" class="no-data">No functions found</td></tr>
            {{- end}}
            </tbody>
          </table>

          <h4>Issues ({{len .Issues}})</h4>
          <table class="data-table issue-table">
            <thead>
              <tr><th>Severity</th><th>Location</th><th>Rule</th><th>Message</th></tr>
            </thead>
            <tbody>
            {{- range .Issues}}
              <tr>
                <td><span class="badge {{severityClass .Severity}}">{{.Severity}}</span></td>
                <td class="mono">{{.Line}}:{{.Column}}</td>
                <td class="mono">{{.Rule}}</td>
                <td>{{.Message}}</td>
              </tr>
            {{- else}}
              <tr><td colspan="4" class="no-data">No issues found</td></tr>
            {{- end}}
            </tbody>
          </table>
        </div>
      </details>
      {{- end}}
    </section>
  </div>

  <footer>Generated by Codopsy {{.Version}}</footer>
</body>
</html>
`
