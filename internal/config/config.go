package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/codopsy/domain"
	"github.com/ludo-technologies/codopsy/internal/constants"
)

// keyDelimiter replaces viper's "." so plugin rule ids containing dots stay
// single keys
const keyDelimiter = "::"

// Thresholds are the complexity limits used when a rule sets no max
type Thresholds struct {
	MaxComplexity          int
	MaxCognitiveComplexity int
}

// FindConfigFile searches targetDir and its ancestors for .codopsyrc.json,
// stopping at the filesystem root or the home directory, then tries the home
// directory itself. It returns "" when nothing is found.
func FindConfigFile(targetDir string) string {
	home, _ := os.UserHomeDir()
	return findConfigFile(targetDir, home)
}

func findConfigFile(targetDir, home string) string {
	dir, err := filepath.Abs(targetDir)
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, constants.ConfigFileName)
		if fileExists(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir || (home != "" && dir == home) {
			break
		}
		dir = parent
	}

	if home != "" {
		candidate := filepath.Join(home, constants.ConfigFileName)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadFile reads a .codopsyrc.json file
func LoadFile(path string) (*domain.Config, error) {
	// Create a new viper instance to avoid race conditions
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// RuleSetting decodes the false | "severity" | {...} union itself, so the
	// settings are round-tripped through JSON rather than mapstructure
	raw, err := json.Marshal(v.AllSettings())
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode config %s: %w", path, err)
	}
	if err := ValidateJSON(raw); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	var cfg domain.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return &cfg, nil
}

// Load discovers and reads the configuration for targetDir. It always
// returns a usable config: an empty one when no file exists, and an empty
// one alongside a ConfigError when the file cannot be read.
func Load(targetDir string) (*domain.Config, string, error) {
	path := FindConfigFile(targetDir)
	if path == "" {
		return &domain.Config{}, "", nil
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return &domain.Config{}, path, domain.NewConfigError("failed to load configuration file", err)
	}
	return cfg, path, nil
}

// EnvThresholds returns the default complexity limits, overridden by
// CODOPSY_MAX_COMPLEXITY and CODOPSY_MAX_COGNITIVE_COMPLEXITY when set to
// positive integers.
func EnvThresholds() Thresholds {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.AutomaticEnv()
	v.SetDefault("max_complexity", constants.DefaultMaxComplexity)
	v.SetDefault("max_cognitive_complexity", constants.DefaultMaxCognitiveComplexity)

	t := Thresholds{
		MaxComplexity:          v.GetInt("max_complexity"),
		MaxCognitiveComplexity: v.GetInt("max_cognitive_complexity"),
	}
	if t.MaxComplexity <= 0 {
		t.MaxComplexity = constants.DefaultMaxComplexity
	}
	if t.MaxCognitiveComplexity <= 0 {
		t.MaxCognitiveComplexity = constants.DefaultMaxCognitiveComplexity
	}
	return t
}

// Render serialises a config the way init writes it
func Render(cfg *domain.Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// Save writes a config file, creating parent directories
func Save(cfg *domain.Config, path string) error {
	content, err := Render(cfg)
	if err != nil {
		return domain.NewConfigError("failed to encode configuration", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.NewConfigError("failed to create configuration directory", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return domain.NewConfigError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}
