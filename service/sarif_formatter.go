package service

import (
	"path/filepath"
	"sort"

	"github.com/ludo-technologies/codopsy/domain"
	"github.com/ludo-technologies/codopsy/internal/analyzer"
	"github.com/ludo-technologies/codopsy/internal/constants"
	"github.com/ludo-technologies/codopsy/internal/version"
)

// SARIFSchemaURI is the schema of the SARIF 2.1.0 documents we emit
const SARIFSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"

// SARIFLog is the top-level SARIF document
type SARIFLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun is one tool invocation
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool describes the analyzer
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver holds the tool identity and the rules that fired
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule is rule metadata
type SARIFRule struct {
	ID                   string             `json:"id"`
	ShortDescription     SARIFMessage       `json:"shortDescription"`
	DefaultConfiguration SARIFConfiguration `json:"defaultConfiguration"`
}

// SARIFConfiguration holds a rule's default level
type SARIFConfiguration struct {
	Level string `json:"level"`
}

// SARIFMessage is a plain text message
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFResult is one issue
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFLocation wraps a physical location
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation points into an artifact
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

// SARIFArtifactLocation is a file uri relative to the analyzed directory
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion is the start of an issue
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
}

// SARIFLevel maps a severity onto a SARIF result level
func SARIFLevel(sev domain.Severity) string {
	switch sev {
	case domain.SeverityError:
		return "error"
	case domain.SeverityWarning:
		return "warning"
	case domain.SeverityInfo:
		return "note"
	default:
		return "none"
	}
}

func (f *OutputFormatterImpl) buildSARIF(result *domain.AnalysisResult) SARIFLog {
	results := []SARIFResult{}
	seen := map[string]bool{}
	for _, fa := range result.Files {
		for _, issue := range fa.Issues {
			seen[issue.Rule] = true
			results = append(results, SARIFResult{
				RuleID:  issue.Rule,
				Level:   SARIFLevel(issue.Severity),
				Message: SARIFMessage{Text: issue.Message},
				Locations: []SARIFLocation{{
					PhysicalLocation: SARIFPhysicalLocation{
						ArtifactLocation: SARIFArtifactLocation{URI: artifactURI(result.TargetDir, issue.File)},
						Region:           SARIFRegion{StartLine: issue.Line, StartColumn: issue.Column},
					},
				}},
			})
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rules := make([]SARIFRule, 0, len(ids))
	for _, id := range ids {
		rules = append(rules, SARIFRule{
			ID:                   id,
			ShortDescription:     SARIFMessage{Text: f.description(id)},
			DefaultConfiguration: SARIFConfiguration{Level: SARIFLevel(f.defaultSeverity(id))},
		})
	}

	return SARIFLog{
		Schema:  SARIFSchemaURI,
		Version: "2.1.0",
		Runs: []SARIFRun{{
			Tool: SARIFTool{Driver: SARIFDriver{
				Name:           constants.ToolName,
				Version:        version.GetVersion(),
				InformationURI: constants.InformationURI,
				Rules:          rules,
			}},
			Results: results,
		}},
	}
}

func (f *OutputFormatterImpl) defaultSeverity(id string) domain.Severity {
	switch id {
	case analyzer.RuleParseError:
		return domain.SeverityError
	case analyzer.RuleMaxComplexity, analyzer.RuleMaxCognitiveComplexity:
		return domain.SeverityWarning
	}
	for _, r := range f.plugins {
		if r.ID == id && r.DefaultSeverity != "" {
			return r.DefaultSeverity
		}
	}
	for _, r := range analyzer.BuiltinRules() {
		if r.ID == id {
			return r.DefaultSeverity
		}
	}
	return domain.SeverityWarning
}

func (f *OutputFormatterImpl) description(id string) string {
	for _, r := range f.plugins {
		if r.ID == id && r.Description != "" {
			return r.Description
		}
	}
	return analyzer.RuleDescription(id)
}

func artifactURI(targetDir, file string) string {
	if targetDir == "" {
		return filepath.ToSlash(file)
	}
	rel, err := filepath.Rel(targetDir, file)
	if err != nil {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(rel)
}
