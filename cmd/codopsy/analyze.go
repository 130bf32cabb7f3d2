package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/ludo-technologies/codopsy/app"
	"github.com/ludo-technologies/codopsy/domain"
	"github.com/ludo-technologies/codopsy/internal/constants"
	"github.com/ludo-technologies/codopsy/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type analyzeOptions struct {
	output                 string
	format                 string
	maxComplexity          int
	maxCognitiveComplexity int
	failOnWarning          bool
	failOnError            bool
	quiet                  bool
	verbose                bool
	noColor                bool
	diff                   string
	saveBaseline           bool
	baselinePath           string
	noDegradation          bool
	hotspots               bool
	hotspotMonths          int
	hotspotTop             int
	concurrency            int
}

func analyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [dir]",
		Short: "Analyze JavaScript/TypeScript files",
		Long: `Analyze the JavaScript and TypeScript files under a directory and write
a quality report.

Examples:
  codopsy analyze src/
  codopsy analyze --format sarif -o report.sarif .
  codopsy analyze -o - . | jq .summary
  codopsy analyze --diff main --fail-on-error .
  codopsy analyze --save-baseline .
  codopsy analyze --no-degradation --hotspots .`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "",
		"Report path, or - for stdout (default: codopsy-report.<format>)")
	f.StringVarP(&opts.format, "format", "f", string(domain.OutputFormatJSON),
		"Report format: json, html, sarif")
	f.IntVar(&opts.maxComplexity, "max-complexity", constants.DefaultMaxComplexity,
		"Cyclomatic complexity threshold for warnings")
	f.IntVar(&opts.maxCognitiveComplexity, "max-cognitive-complexity", constants.DefaultMaxCognitiveComplexity,
		"Cognitive complexity threshold for warnings")
	f.BoolVar(&opts.failOnWarning, "fail-on-warning", false,
		"Exit with code 1 when any warning is reported")
	f.BoolVar(&opts.failOnError, "fail-on-error", false,
		"Exit with code 1 when any error is reported")
	f.BoolVarP(&opts.quiet, "quiet", "q", false,
		"Only print the summary")
	f.BoolVarP(&opts.verbose, "verbose", "v", false,
		"Print a line per analyzed file")
	f.BoolVar(&opts.noColor, "no-color", false,
		"Disable colored output (also NO_COLOR)")
	f.StringVar(&opts.diff, "diff", "",
		"Only analyze files changed since the merge base with this ref")
	f.BoolVar(&opts.saveBaseline, "save-baseline", false,
		"Save the results as the new baseline")
	f.StringVar(&opts.baselinePath, "baseline-path", constants.DefaultBaselinePath,
		"Baseline file path")
	f.BoolVar(&opts.noDegradation, "no-degradation", false,
		"Exit with code 1 when quality degraded compared to the baseline")
	f.BoolVar(&opts.hotspots, "hotspots", false,
		"Rank files by complexity and git churn")
	f.IntVar(&opts.hotspotMonths, "hotspot-months", constants.DefaultHotspotMonths,
		"Hotspot lookback period in months")
	f.IntVar(&opts.hotspotTop, "hotspot-top", constants.DefaultHotspotTop,
		"Number of hotspots to report")
	f.IntVar(&opts.concurrency, "concurrency", 0,
		"Files analyzed in parallel (default: number of CPUs)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	targetDir, err := filepath.Abs(dir)
	if err != nil || !app.NewFileHelper().DirectoryExists(targetDir) {
		return &ExitError{Code: 1, Message: fmt.Sprintf("directory %q does not exist.", targetDir)}
	}

	format, err := domain.ParseOutputFormat(opts.format)
	if err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("unsupported format %q. Use \"json\", \"html\", or \"sarif\".", opts.format)}
	}

	toStdout := opts.output == "-"
	out := cmd.OutOrStdout()
	if toStdout {
		out = cmd.ErrOrStderr()
	}
	p := newPrinter(out, colorEnabled(opts.noColor, out))

	switch {
	case opts.verbose:
		logger.SetLevel(charmlog.DebugLevel)
	case opts.quiet:
		logger.SetLevel(charmlog.WarnLevel)
	default:
		logger.SetLevel(charmlog.InfoLevel)
	}

	if !opts.quiet {
		p.println(fmt.Sprintf("Analyzing %s ...", targetDir))
	}

	pm := service.NewProgressManager(!opts.quiet && !toStdout)
	defer pm.Close()

	useCase, err := app.NewAnalyzeUseCaseBuilder().
		WithProgressManager(pm).
		Build()
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}

	req := domain.AnalyzeRequest{
		TargetDir:     targetDir,
		DiffBase:      opts.diff,
		Concurrency:   opts.concurrency,
		Hotspots:      opts.hotspots && !toStdout,
		HotspotMonths: opts.hotspotMonths,
		HotspotTop:    opts.hotspotTop,
		BaselinePath:  opts.baselinePath,
		SaveBaseline:  opts.saveBaseline,
	}
	// Unset thresholds fall back to CODOPSY_* environment overrides.
	if cmd.Flags().Changed("max-complexity") {
		req.MaxComplexity = opts.maxComplexity
	}
	if cmd.Flags().Changed("max-cognitive-complexity") {
		req.MaxCognitiveComplexity = opts.maxCognitiveComplexity
	}
	logger.Debug("starting analysis", "dir", targetDir, "format", format, "diff", opts.diff)

	resp, err := useCase.Execute(cmd.Context(), req)
	if err != nil {
		return &ExitError{Code: 1, Message: exitMessage(err)}
	}
	for _, w := range resp.Warnings {
		logger.Warn(w)
	}

	result := resp.Result
	if result == nil {
		p.println("No source files found.")
		return nil
	}
	if !opts.quiet {
		p.println(fmt.Sprintf("Found %d source file(s).", len(result.Files)))
	}

	if !toStdout {
		if opts.verbose {
			for _, fa := range result.Files {
				p.printVerbose(fa, targetDir)
			}
			p.println()
		}
		p.printHotspots(resp.Hotspots)
	}

	formatter := service.NewOutputFormatter(resp.PluginRules...)
	if toStdout {
		if err := formatter.Write(result, format, cmd.OutOrStdout()); err != nil {
			return &ExitError{Code: 1, Message: exitMessage(err)}
		}
	} else {
		reportPath := opts.output
		if reportPath == "" {
			reportPath = fmt.Sprintf("%s.%s", constants.DefaultReportBaseName, format)
		}
		if abs, err := filepath.Abs(reportPath); err == nil {
			reportPath = abs
		}
		if err := formatter.WriteFile(result, format, reportPath); err != nil {
			return &ExitError{Code: 1, Message: exitMessage(err)}
		}
		p.printSummary(result)
		p.println(fmt.Sprintf("Report written to: %s", reportPath))
	}

	if resp.BaselineSaved != "" {
		if !toStdout {
			p.println(fmt.Sprintf("Baseline saved to: %s", resp.BaselineSaved))
		}
	} else if resp.Comparison != nil {
		if !toStdout {
			p.println()
			p.printBaselineComparison(resp.Comparison)
		}
		if opts.noDegradation && resp.Comparison.Status == domain.StatusDegraded {
			return &ExitError{Code: 1}
		}
	}

	counts := result.Summary.IssuesBySeverity
	if opts.failOnWarning && counts.Warning > 0 {
		return &ExitError{Code: 1}
	}
	if opts.failOnError && counts.Error > 0 {
		return &ExitError{Code: 1}
	}
	return nil
}

// exitMessage unwraps invalid-input errors to their user-facing message
func exitMessage(err error) string {
	var de domain.DomainError
	if errors.As(err, &de) && de.Code == domain.ErrCodeInvalidInput {
		return de.Message + "."
	}
	return err.Error()
}

// colorEnabled reports whether w should receive ANSI colors
func colorEnabled(noColor bool, w io.Writer) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
