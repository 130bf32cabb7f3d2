package service

import (
	"github.com/ludo-technologies/codopsy/domain"
	"github.com/ludo-technologies/codopsy/internal/config"
)

// ConfigurationLoaderImpl resolves rule configuration and complexity
// thresholds for an analysis run
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.Config, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return cfg, nil
}

// LoadForTarget discovers the configuration that applies to targetDir. The
// returned config is never nil; on error it is empty.
func (c *ConfigurationLoaderImpl) LoadForTarget(targetDir string) (*domain.Config, string, error) {
	return config.Load(targetDir)
}

// FindDefaultConfigFile returns the config file that applies to targetDir,
// or "" when there is none
func (c *ConfigurationLoaderImpl) FindDefaultConfigFile(targetDir string) string {
	return config.FindConfigFile(targetDir)
}

// Thresholds returns the complexity limits from the environment or defaults
func (c *ConfigurationLoaderImpl) Thresholds() config.Thresholds {
	return config.EnvThresholds()
}

// ApplyThresholds fills unset thresholds of req from the environment or
// defaults
func (c *ConfigurationLoaderImpl) ApplyThresholds(req *domain.AnalyzeRequest) {
	t := c.Thresholds()
	if req.MaxComplexity <= 0 {
		req.MaxComplexity = t.MaxComplexity
	}
	if req.MaxCognitiveComplexity <= 0 {
		req.MaxCognitiveComplexity = t.MaxCognitiveComplexity
	}
}
