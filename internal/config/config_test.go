package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/codopsy/domain"
	"github.com/ludo-technologies/codopsy/internal/constants"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, constants.ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	home := filepath.Join(root, "home")
	project := filepath.Join(home, "work", "project")
	nested := filepath.Join(project, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	t.Run("nothing found", func(t *testing.T) {
		if got := findConfigFile(nested, home); got != "" {
			t.Errorf("expected no config, got %s", got)
		}
	})

	homeConfig := writeConfig(t, home, `{}`)

	t.Run("home directory is the last resort", func(t *testing.T) {
		if got := findConfigFile(nested, home); got != homeConfig {
			t.Errorf("expected %s, got %s", homeConfig, got)
		}
	})

	t.Run("home is tried for targets outside it", func(t *testing.T) {
		outside := filepath.Join(root, "elsewhere")
		if err := os.MkdirAll(outside, 0o755); err != nil {
			t.Fatal(err)
		}
		if got := findConfigFile(outside, home); got != homeConfig {
			t.Errorf("expected %s, got %s", homeConfig, got)
		}
	})

	projectConfig := writeConfig(t, project, `{}`)

	t.Run("nearest ancestor wins", func(t *testing.T) {
		if got := findConfigFile(nested, home); got != projectConfig {
			t.Errorf("expected %s, got %s", projectConfig, got)
		}
	})

	t.Run("target directory itself", func(t *testing.T) {
		if got := findConfigFile(project, home); got != projectConfig {
			t.Errorf("expected %s, got %s", projectConfig, got)
		}
	})

	t.Run("home config shadows its ancestors", func(t *testing.T) {
		writeConfig(t, root, `{}`)
		sibling := filepath.Join(home, "other")
		if err := os.MkdirAll(sibling, 0o755); err != nil {
			t.Fatal(err)
		}
		if got := findConfigFile(sibling, home); got != homeConfig {
			t.Errorf("expected %s, got %s", homeConfig, got)
		}
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `{
  "plugins": ["./rules/Team.yaml"],
  "rules": {
    "no-console": false,
    "no-var": "error",
    "eqeqeq": true,
    "max-lines": { "severity": "info", "max": 120 },
    "no-param-reassign": { "props": true },
    "acme.no-foo": "warning"
  }
}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if len(cfg.Plugins) != 1 || cfg.Plugins[0] != "./rules/Team.yaml" {
		t.Errorf("unexpected plugins %v", cfg.Plugins)
	}
	if !cfg.IsDisabled("no-console") {
		t.Error("no-console should be disabled")
	}
	if got := cfg.SeverityFor("no-var", domain.SeverityWarning); got != domain.SeverityError {
		t.Errorf("no-var severity = %s, want error", got)
	}
	if s, ok := cfg.Rule("eqeqeq"); !ok || s.Disabled || s.Severity != "" {
		t.Errorf("eqeqeq should be enabled at default severity, got %+v", s)
	}
	if got := cfg.MaxFor("max-lines", 300); got != 120 {
		t.Errorf("max-lines max = %d, want 120", got)
	}
	if got := cfg.SeverityFor("max-lines", domain.SeverityWarning); got != domain.SeverityInfo {
		t.Errorf("max-lines severity = %s, want info", got)
	}
	if s, _ := cfg.Rule("no-param-reassign"); s.Props == nil || !*s.Props {
		t.Error("no-param-reassign props should be true")
	}
	if got := cfg.SeverityFor("acme.no-foo", domain.SeverityInfo); got != domain.SeverityWarning {
		t.Errorf("dotted rule id severity = %s, want warning", got)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"rules": `},
		{"invalid severity", `{"rules": {"no-var": "fatal"}}`},
		{"invalid setting type", `{"rules": {"no-var": 3}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			if _, err := LoadFile(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		dir := t.TempDir()
		want := writeConfig(t, dir, `{"rules": {"no-var": false}}`)
		cfg, path, err := Load(dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if path != want {
			t.Errorf("path = %s, want %s", path, want)
		}
		if !cfg.IsDisabled("no-var") {
			t.Error("no-var should be disabled")
		}
	})

	t.Run("broken file yields empty config and config error", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, `not json`)
		cfg, _, err := Load(dir)
		if cfg == nil || len(cfg.Rules) != 0 {
			t.Errorf("expected empty config, got %+v", cfg)
		}
		var de domain.DomainError
		if !errors.As(err, &de) || de.Code != domain.ErrCodeConfigError {
			t.Errorf("expected config error, got %v", err)
		}
	})
}

func TestEnvThresholds(t *testing.T) {
	tests := []struct {
		name      string
		cc        string
		cog       string
		wantCC    int
		wantCog   int
		setValues bool
	}{
		{name: "defaults", wantCC: 10, wantCog: 15},
		{name: "overrides", cc: "12", cog: "25", wantCC: 12, wantCog: 25, setValues: true},
		{name: "invalid values fall back", cc: "abc", cog: "-3", wantCC: 10, wantCog: 15, setValues: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setValues {
				t.Setenv("CODOPSY_MAX_COMPLEXITY", tt.cc)
				t.Setenv("CODOPSY_MAX_COGNITIVE_COMPLEXITY", tt.cog)
			}
			got := EnvThresholds()
			if got.MaxComplexity != tt.wantCC || got.MaxCognitiveComplexity != tt.wantCog {
				t.Errorf("EnvThresholds() = %+v, want %d/%d", got, tt.wantCC, tt.wantCog)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	for _, info := range GetPresets() {
		t.Run(string(info.Name), func(t *testing.T) {
			content, err := GetPresetTemplate(info.Name)
			if err != nil {
				t.Fatalf("GetPresetTemplate() error = %v", err)
			}
			var cfg domain.Config
			if err := json.Unmarshal([]byte(content), &cfg); err != nil {
				t.Fatalf("template is not a valid config: %v", err)
			}
			limits := GetStrictnessPresets()[info.Name]
			if got := cfg.MaxFor("max-complexity", 0); got != limits.MaxComplexity {
				t.Errorf("max-complexity = %d, want %d", got, limits.MaxComplexity)
			}
			if got := cfg.MaxFor("max-params", 0); got != limits.MaxParams {
				t.Errorf("max-params = %d, want %d", got, limits.MaxParams)
			}
		})
	}

	t.Run("recommended matches the embedded defaults", func(t *testing.T) {
		cfg, err := GetPresetConfig(PresetRecommended)
		if err != nil {
			t.Fatal(err)
		}
		if len(cfg.Rules) != 13 {
			t.Errorf("expected 13 rules, got %d", len(cfg.Rules))
		}
		if got := cfg.SeverityFor("no-console", ""); got != domain.SeverityInfo {
			t.Errorf("no-console = %s, want info", got)
		}
	})

	t.Run("minimal disables style rules", func(t *testing.T) {
		cfg, _ := GetPresetConfig(PresetMinimal)
		if !cfg.IsDisabled("no-console") || !cfg.IsDisabled("prefer-const") {
			t.Error("style rules should be disabled")
		}
	})

	t.Run("unknown preset", func(t *testing.T) {
		if _, err := ParsePreset("lenient"); err == nil {
			t.Error("expected an error")
		}
		if p, err := ParsePreset("strict"); err != nil || p != PresetStrict {
			t.Errorf("ParsePreset(strict) = %s, %v", p, err)
		}
	})
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", constants.ConfigFileName)
	limit := 5
	cfg := &domain.Config{Rules: map[string]domain.RuleSetting{
		"no-var":    {Disabled: true},
		"max-depth": {Severity: domain.SeverityError, Max: &limit},
	}}
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if !loaded.IsDisabled("no-var") || loaded.MaxFor("max-depth", 0) != 5 {
		t.Errorf("round trip lost settings: %+v", loaded.Rules)
	}
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		valid   bool
	}{
		{"empty", `{}`, true},
		{"all setting forms", `{"rules": {"a": false, "b": true, "c": "info", "d": {"max": 3, "props": true}}}`, true},
		{"embedded defaults", DefaultConfigJSON, true},
		{"unknown severity", `{"rules": {"a": "fatal"}}`, false},
		{"negative max", `{"rules": {"a": {"max": -1}}}`, false},
		{"fractional max", `{"rules": {"a": {"max": 1.5}}}`, false},
		{"plugins must be strings", `{"plugins": [3]}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON([]byte(tt.content))
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
