// Package cli wires the cobra command tree for the changelog CLI.
package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfaciana/conventional-commits-changelog/internal/changelog"
	"github.com/pfaciana/conventional-commits-changelog/internal/errors"
	"github.com/pfaciana/conventional-commits-changelog/internal/git"
)

var (
	debugFlag      bool
	configPathFlag string
)

var rootCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Generate a changelog from conventional commit history",
	Long: `changelog turns a repository's commit history into a structured Markdown
changelog. Commits following the Conventional Commits header grammar are
trusted; everything else is classified by heuristic text analysis into the
same semantic categories, grouped per release tag, and rendered into ordered
sections with breaking-change call-outs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			logger := log.New(os.Stderr, "", log.Ltime)
			git.SetDebugLogger(logger.Printf)
			changelog.SetDebugLogger(logger.Printf)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to project config file (default: .changelog.yml)")
}

// Execute runs the root command, printing structured errors to stderr, and
// returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	if cliErr := errors.AsCLIError(err); cliErr != nil {
		errors.PrintError(cliErr)
		return exitCode(cliErr.Category)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return ExitFailure
}

func exitCode(category errors.ErrorCategory) int {
	switch category {
	case errors.Argument:
		return ExitInvalidArguments
	case errors.Repository:
		return ExitNotARepository
	}
	return ExitFailure
}
