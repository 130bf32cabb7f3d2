package config

import (
	_ "embed"
	"encoding/json"

	"github.com/ludo-technologies/codopsy/domain"
)

// DefaultConfigJSON is the .codopsyrc.json written by init
//
//go:embed default_config.json
var DefaultConfigJSON string

// LoadDefaultConfig parses the embedded default config
func LoadDefaultConfig() (*domain.Config, error) {
	var cfg domain.Config
	if err := json.Unmarshal([]byte(DefaultConfigJSON), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
