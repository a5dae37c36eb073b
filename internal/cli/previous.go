package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pfaciana/conventional-commits-changelog/internal/errors"
	"github.com/pfaciana/conventional-commits-changelog/internal/git"
	"github.com/pfaciana/conventional-commits-changelog/internal/version"
)

var (
	previousGranularityFlag string
	previousPathFlag        string
)

var previousCmd = &cobra.Command{
	Use:   "previous <version>",
	Short: "Find the predecessor of a version among the repository's tags",
	Long: `Find the predecessor of a version among the repository's tags.

PATCH granularity returns the true semantic predecessor. MAJOR and MINOR
return the first release of the target's own major or minor line, which is
what a release-range lookup needs.

Examples:
  changelog previous v1.2.3                       # Predecessor of v1.2.3
  changelog previous 2.0.0 --granularity MAJOR    # First release of the 2.x line`,
	Args: cobra.ExactArgs(1),
	RunE: runPrevious,
}

func init() {
	rootCmd.AddCommand(previousCmd)

	previousCmd.Flags().StringVar(&previousGranularityFlag, "granularity", string(version.Patch), "Lookup granularity: MAJOR, MINOR, or PATCH")
	previousCmd.Flags().StringVar(&previousPathFlag, "path", "", "Repository path (default: current directory)")
}

func runPrevious(cmd *cobra.Command, args []string) error {
	repo, err := git.Open(previousPathFlag)
	if err != nil {
		return errors.WrapWithMessage(err, errors.Repository, "opening repository",
			"Run the command inside a git repository")
	}

	tags, err := repo.Tags()
	if err != nil {
		return errors.WrapWithMessage(err, errors.Repository, "listing tags")
	}

	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}

	prev, err := version.FindPrevious(names, args[0], version.Granularity(previousGranularityFlag))
	if err != nil {
		return errors.NewArgumentErrorWithUsage(err.Error(),
			"changelog previous <version> [--granularity MAJOR|MINOR|PATCH]")
	}

	if prev == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "No previous version found for %s\n", args[0])
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), prev)
	return nil
}
