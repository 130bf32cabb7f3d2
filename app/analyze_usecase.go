package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ludo-technologies/codopsy/domain"
	"github.com/ludo-technologies/codopsy/internal/aggregate"
	"github.com/ludo-technologies/codopsy/internal/analyzer"
	"github.com/ludo-technologies/codopsy/internal/baseline"
	"github.com/ludo-technologies/codopsy/internal/constants"
	"github.com/ludo-technologies/codopsy/internal/hotspot"
	"github.com/ludo-technologies/codopsy/internal/vcs"
	"github.com/ludo-technologies/codopsy/service"
)

// AnalyzeUseCase orchestrates a full analysis run: discovery, per-file
// analysis, aggregation, hotspots and baselines
type AnalyzeUseCase struct {
	fileHelper   *FileHelper
	configLoader *service.ConfigurationLoaderImpl
	churn        domain.ChurnProvider
	progress     domain.ProgressManager
}

// NewAnalyzeUseCase creates an analyze use case backed by git history
func NewAnalyzeUseCase() *AnalyzeUseCase {
	uc, _ := NewAnalyzeUseCaseBuilder().Build()
	return uc
}

// Execute runs the analysis described by req. A run that finds no source
// files returns a response with a nil Result.
func (uc *AnalyzeUseCase) Execute(ctx context.Context, req domain.AnalyzeRequest) (*domain.AnalyzeResponse, error) {
	targetDir, err := filepath.Abs(req.TargetDir)
	if err != nil || !uc.fileHelper.DirectoryExists(targetDir) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("directory %q does not exist", req.TargetDir), err)
	}
	req.TargetDir = targetDir
	response := &domain.AnalyzeResponse{}

	cfg := req.Config
	if cfg == nil {
		loaded, path, err := uc.configLoader.LoadForTarget(targetDir)
		if err != nil {
			response.Warnings = append(response.Warnings, fmt.Sprintf("Failed to load config %s: %v", path, err))
		}
		cfg = loaded
	}
	uc.configLoader.ApplyThresholds(&req)

	files, err := uc.resolveFiles(req)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return response, nil
	}

	plugins, err := uc.loadPlugins(targetDir, cfg)
	if err != nil {
		return nil, err
	}
	for _, r := range plugins {
		response.PluginRules = append(response.PluginRules, domain.RuleInfo{
			ID:              r.ID,
			Description:     r.Description,
			DefaultSeverity: r.DefaultSeverity,
		})
	}

	analyzeService := service.NewAnalyzeServiceWithProgress(analyzer.NewLinter(plugins...), uc.progress)
	analyzeService.SetConcurrency(req.Concurrency)
	analyses, err := analyzeService.AnalyzeFiles(ctx, files, domain.FileAnalysisOptions{
		Config:                 cfg,
		MaxComplexity:          req.MaxComplexity,
		MaxCognitiveComplexity: req.MaxCognitiveComplexity,
	})
	if err != nil {
		return nil, err
	}
	response.Result = aggregate.BuildResult(analyses, files, targetDir)

	if req.Hotspots {
		if vcs.IsRepository(targetDir) {
			detector := hotspot.New(uc.churn, hotspot.WithMonths(req.HotspotMonths), hotspot.WithTop(req.HotspotTop))
			response.Hotspots = detector.Detect(ctx, targetDir, response.Result.Files)
		} else {
			response.Warnings = append(response.Warnings, "Hotspot analysis requires a git repository; skipped.")
		}
	}

	if err := uc.handleBaseline(req, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (uc *AnalyzeUseCase) resolveFiles(req domain.AnalyzeRequest) ([]string, error) {
	files := req.Files
	if files == nil {
		collected, err := uc.fileHelper.CollectSourceFiles(req.TargetDir)
		if err != nil {
			return nil, domain.NewAnalysisError("failed to collect source files", err)
		}
		files = collected
	}

	if req.DiffBase == "" {
		return files, nil
	}
	if !vcs.IsRepository(req.TargetDir) {
		return nil, domain.NewInvalidInputError("--diff requires a git repository", nil)
	}
	changed := make(map[string]struct{})
	for _, f := range vcs.ChangedFiles(req.TargetDir, req.DiffBase) {
		changed[f] = struct{}{}
	}
	filtered := make([]string, 0, len(files))
	for _, f := range files {
		if _, ok := changed[f]; ok {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

func (uc *AnalyzeUseCase) loadPlugins(targetDir string, cfg *domain.Config) ([]analyzer.Rule, error) {
	if cfg == nil || len(cfg.Plugins) == 0 {
		return nil, nil
	}
	return analyzer.NewQueryPluginProvider(targetDir, cfg.Plugins).Rules()
}

func (uc *AnalyzeUseCase) handleBaseline(req domain.AnalyzeRequest, response *domain.AnalyzeResponse) error {
	path := req.BaselinePath
	if path == "" {
		path = constants.DefaultBaselinePath
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return domain.NewInvalidInputError("invalid baseline path", err)
	}

	if req.SaveBaseline {
		if err := service.SaveBaseline(baseline.Create(response.Result), path); err != nil {
			return err
		}
		response.BaselineSaved = path
		return nil
	}

	previous, err := service.LoadBaseline(path)
	if err != nil {
		response.Warnings = append(response.Warnings, fmt.Sprintf("Ignoring baseline: %v", err))
		return nil
	}
	if previous != nil {
		response.Comparison = baseline.Compare(response.Result, previous)
	}
	return nil
}

// AnalyzeUseCaseBuilder builds an AnalyzeUseCase
type AnalyzeUseCaseBuilder struct {
	fileHelper   *FileHelper
	configLoader *service.ConfigurationLoaderImpl
	churn        domain.ChurnProvider
	progress     domain.ProgressManager
}

// NewAnalyzeUseCaseBuilder creates a new builder
func NewAnalyzeUseCaseBuilder() *AnalyzeUseCaseBuilder {
	return &AnalyzeUseCaseBuilder{}
}

// WithFileHelper sets the file helper
func (b *AnalyzeUseCaseBuilder) WithFileHelper(fh *FileHelper) *AnalyzeUseCaseBuilder {
	b.fileHelper = fh
	return b
}

// WithConfigLoader sets the configuration loader
func (b *AnalyzeUseCaseBuilder) WithConfigLoader(loader *service.ConfigurationLoaderImpl) *AnalyzeUseCaseBuilder {
	b.configLoader = loader
	return b
}

// WithChurnProvider sets the source of per-file churn for hotspots
func (b *AnalyzeUseCaseBuilder) WithChurnProvider(churn domain.ChurnProvider) *AnalyzeUseCaseBuilder {
	b.churn = churn
	return b
}

// WithProgressManager sets the progress manager
func (b *AnalyzeUseCaseBuilder) WithProgressManager(pm domain.ProgressManager) *AnalyzeUseCaseBuilder {
	b.progress = pm
	return b
}

// Build creates the AnalyzeUseCase
func (b *AnalyzeUseCaseBuilder) Build() (*AnalyzeUseCase, error) {
	uc := &AnalyzeUseCase{
		fileHelper:   b.fileHelper,
		configLoader: b.configLoader,
		churn:        b.churn,
		progress:     b.progress,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}
	if uc.configLoader == nil {
		uc.configLoader = service.NewConfigurationLoader()
	}
	if uc.churn == nil {
		uc.churn = vcs.Provider{}
	}
	if uc.progress == nil {
		uc.progress = &service.NoOpProgressManager{}
	}

	return uc, nil
}
