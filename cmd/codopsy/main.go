package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	charmlog "github.com/charmbracelet/log"
	"github.com/ludo-technologies/codopsy/internal/version"
	"github.com/spf13/cobra"
)

// logger is the CLI's stderr logger. Library packages do not log.
var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
})

// ExitError carries the process exit code of a failed command
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "codopsy",
		Short: "codopsy - JavaScript/TypeScript code quality analyzer",
		Long: `codopsy measures the complexity of JavaScript and TypeScript code,
runs a set of lint rules and grades every file and the project as a whole.`,
		Version: version.GetVersion(),
	}

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			short, _ := cmd.Flags().GetBool("short")
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetVersion())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
		},
	}

	cmd.Flags().Bool("short", false, "Print only the version number")
	return cmd
}
