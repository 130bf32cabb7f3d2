package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ludo-technologies/codopsy/domain"
)

// SaveBaseline writes a baseline snapshot to path, creating parent
// directories
func SaveBaseline(baseline *domain.Baseline, path string) error {
	data, err := json.MarshalIndent(baseline, "", "  ")
	if err != nil {
		return domain.NewOutputError("failed to encode baseline", err)
	}
	data = append(data, '\n')
	if err := writeFileCreatingDirs(path, data); err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to write baseline to %s", path), err)
	}
	return nil
}

// LoadBaseline reads a baseline snapshot. A missing file yields nil and no
// error; unreadable or malformed files yield a config error.
func LoadBaseline(path string) (*domain.Baseline, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to read baseline %s", path), err)
	}

	var baseline domain.Baseline
	if err := json.Unmarshal(data, &baseline); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("malformed baseline %s", path), err)
	}
	return &baseline, nil
}
