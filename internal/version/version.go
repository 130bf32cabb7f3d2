package version

import "fmt"

// Version information (set via ldflags during build)
var (
	// Version is the released codopsy version
	Version = "dev"

	// Commit is the git commit hash
	Commit = "unknown"

	// Date is the build date
	Date = "unknown"
)

// GetVersion returns the current version
func GetVersion() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

// GetFullVersion returns the version with its build metadata
func GetFullVersion() string {
	return fmt.Sprintf("codopsy %s (commit: %s, built: %s)", GetVersion(), Commit, Date)
}
