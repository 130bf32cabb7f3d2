package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "codopsy"

	// InformationURI is the project homepage reported in SARIF output
	InformationURI = "https://github.com/ludo-technologies/codopsy"

	// ConfigFileName is the rule configuration file name
	ConfigFileName = ".codopsyrc.json"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "CODOPSY"

	// DefaultBaselinePath is where baselines are saved and compared
	DefaultBaselinePath = ".codopsy-baseline.json"

	// DefaultReportBaseName is the report file name without extension
	DefaultReportBaseName = "codopsy-report"
)

// Complexity thresholds used when the configuration sets no max
const (
	DefaultMaxComplexity          = 10
	DefaultMaxCognitiveComplexity = 15
)

// Hotspot defaults
const (
	DefaultHotspotMonths = 6
	DefaultHotspotTop    = 10
)

// Source file discovery
var (
	// SourceExtensions are the file extensions collected for analysis
	SourceExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

	// SkippedDirectories are never descended into
	SkippedDirectories = []string{"node_modules", "dist"}

	// DeclarationSuffix marks TypeScript declaration files, which are skipped
	DeclarationSuffix = ".d.ts"
)
