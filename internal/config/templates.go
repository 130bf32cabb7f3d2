package config

import (
	"fmt"

	"github.com/ludo-technologies/codopsy/domain"
)

// Preset names a starting configuration offered by init
type Preset string

const (
	PresetRecommended Preset = "recommended"
	PresetStrict      Preset = "strict"
	PresetMinimal     Preset = "minimal"
)

// PresetInfo describes a preset for interactive selection
type PresetInfo struct {
	Name        Preset
	Description string
}

// StrictnessPreset holds the threshold values of a preset
type StrictnessPreset struct {
	MaxComplexity          int
	MaxCognitiveComplexity int
	MaxLines               int
	MaxDepth               int
	MaxParams              int
}

// GetPresets lists the presets in display order
func GetPresets() []PresetInfo {
	return []PresetInfo{
		{PresetRecommended, "Balanced defaults for most projects"},
		{PresetStrict, "Lower thresholds, style rules raised to warnings and errors"},
		{PresetMinimal, "Complexity limits and likely bugs only"},
	}
}

// GetStrictnessPresets returns the thresholds of each preset
func GetStrictnessPresets() map[Preset]StrictnessPreset {
	return map[Preset]StrictnessPreset{
		PresetRecommended: {
			MaxComplexity:          10,
			MaxCognitiveComplexity: 15,
			MaxLines:               300,
			MaxDepth:               4,
			MaxParams:              4,
		},
		PresetStrict: {
			MaxComplexity:          8,
			MaxCognitiveComplexity: 10,
			MaxLines:               200,
			MaxDepth:               3,
			MaxParams:              3,
		},
		PresetMinimal: {
			MaxComplexity:          15,
			MaxCognitiveComplexity: 20,
			MaxLines:               500,
			MaxDepth:               5,
			MaxParams:              6,
		},
	}
}

// ParsePreset validates a preset name
func ParsePreset(name string) (Preset, error) {
	for _, p := range GetPresets() {
		if string(p.Name) == name {
			return p.Name, nil
		}
	}
	return "", domain.NewValidationError(fmt.Sprintf("unknown preset %q (expected recommended, strict or minimal)", name))
}

func threshold(sev domain.Severity, limit int) domain.RuleSetting {
	return domain.RuleSetting{Severity: sev, Max: &limit}
}

func severity(sev domain.Severity) domain.RuleSetting {
	return domain.RuleSetting{Severity: sev}
}

var disabled = domain.RuleSetting{Disabled: true}

// GetPresetConfig builds the configuration of a preset
func GetPresetConfig(p Preset) (*domain.Config, error) {
	if p == PresetRecommended {
		return LoadDefaultConfig()
	}
	limits, ok := GetStrictnessPresets()[p]
	if !ok {
		return nil, domain.NewValidationError(fmt.Sprintf("unknown preset %q", p))
	}

	rules := map[string]domain.RuleSetting{
		"max-complexity":           threshold(domain.SeverityWarning, limits.MaxComplexity),
		"max-cognitive-complexity": threshold(domain.SeverityWarning, limits.MaxCognitiveComplexity),
		"max-lines":                threshold(domain.SeverityWarning, limits.MaxLines),
		"max-depth":                threshold(domain.SeverityWarning, limits.MaxDepth),
		"max-params":               threshold(domain.SeverityWarning, limits.MaxParams),
	}

	switch p {
	case PresetStrict:
		for id, s := range map[string]domain.RuleSetting{
			"no-any":               severity(domain.SeverityError),
			"no-console":           severity(domain.SeverityWarning),
			"no-var":               severity(domain.SeverityError),
			"eqeqeq":               severity(domain.SeverityError),
			"no-empty-function":    severity(domain.SeverityWarning),
			"no-nested-ternary":    severity(domain.SeverityWarning),
			"prefer-const":         severity(domain.SeverityWarning),
			"no-unused-vars":       severity(domain.SeverityError),
			"no-floating-promises": severity(domain.SeverityWarning),
			"no-misused-promises":  severity(domain.SeverityWarning),
			"await-thenable":       severity(domain.SeverityWarning),
		} {
			rules[id] = s
		}
		props := true
		rules["no-param-reassign"] = domain.RuleSetting{Severity: domain.SeverityWarning, Props: &props}
		rules["max-complexity"] = threshold(domain.SeverityError, limits.MaxComplexity)
		rules["max-cognitive-complexity"] = threshold(domain.SeverityError, limits.MaxCognitiveComplexity)
	case PresetMinimal:
		for _, id := range []string{
			"no-any", "no-console", "no-var", "eqeqeq", "no-empty-function",
			"no-nested-ternary", "no-param-reassign", "prefer-const",
			"no-non-null-assertion", "no-regex-constructor",
		} {
			rules[id] = disabled
		}
	}
	return &domain.Config{Rules: rules}, nil
}

// GetPresetTemplate renders the file init writes for a preset
func GetPresetTemplate(p Preset) (string, error) {
	if p == PresetRecommended {
		return DefaultConfigJSON, nil
	}
	cfg, err := GetPresetConfig(p)
	if err != nil {
		return "", err
	}
	return Render(cfg)
}
