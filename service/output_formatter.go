package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/codopsy/domain"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct {
	// plugins are consulted for SARIF rule metadata
	plugins []domain.RuleInfo
}

var _ domain.OutputFormatter = (*OutputFormatterImpl)(nil)

// NewOutputFormatter creates a new output formatter. Plugin rules contribute
// their descriptions to SARIF output.
func NewOutputFormatter(plugins ...domain.RuleInfo) *OutputFormatterImpl {
	return &OutputFormatterImpl{plugins: plugins}
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}

// Format renders the result as a string in the requested format
func (f *OutputFormatterImpl) Format(result *domain.AnalysisResult, format domain.OutputFormat) (string, error) {
	var buf bytes.Buffer
	if err := f.Write(result, format, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write renders the result to writer in the requested format
func (f *OutputFormatterImpl) Write(result *domain.AnalysisResult, format domain.OutputFormat, writer io.Writer) error {
	if result == nil {
		return domain.NewInvalidInputError("no analysis result to format", nil)
	}
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, result)
	case domain.OutputFormatSARIF:
		return WriteJSON(writer, f.buildSARIF(result))
	case domain.OutputFormatHTML:
		return f.writeHTML(result, writer)
	default:
		return domain.NewInvalidInputError(fmt.Sprintf("unsupported output format: %s", format), nil)
	}
}

// WriteFile renders the result into path, creating parent directories
func (f *OutputFormatterImpl) WriteFile(result *domain.AnalysisResult, format domain.OutputFormat, path string) error {
	content, err := f.Format(result, format)
	if err != nil {
		return err
	}
	if err := writeFileCreatingDirs(path, []byte(content)); err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to write report to %s", path), err)
	}
	return nil
}

func writeFileCreatingDirs(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
