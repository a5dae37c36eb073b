package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/pfaciana/conventional-commits-changelog/internal/changelog"
	"github.com/pfaciana/conventional-commits-changelog/internal/config"
	"github.com/pfaciana/conventional-commits-changelog/internal/conventional"
	"github.com/pfaciana/conventional-commits-changelog/internal/errors"
	"github.com/pfaciana/conventional-commits-changelog/internal/git"
	"github.com/pfaciana/conventional-commits-changelog/internal/output"
)

var (
	generateOutputFlag      string
	generatePathFlag        string
	generateGranularityFlag string
	generateOnlyFirstFlag   bool
	generateOnlyBodyFlag    bool
	generateLimitFlag       int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a changelog from the repository's commit history",
	Long: `Generate a changelog from the repository's commit history.

Commits are read per release tag, classified, grouped into sections, and
rendered as a Markdown document. Commits newer than the latest tag appear
under an Unreleased heading.

Examples:
  changelog generate                      # Print to stdout
  changelog generate -o CHANGELOG.md      # Write to a file
  changelog generate --granularity minor  # One section per minor line
  changelog generate --only-first         # Newest release only`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateOutputFlag, "output", "o", "", "Write the changelog to this path instead of stdout")
	generateCmd.Flags().StringVar(&generatePathFlag, "path", "", "Repository path (default: current directory)")
	generateCmd.Flags().StringVar(&generateGranularityFlag, "granularity", "", "Aggregate releases per \"minor\" or \"major\" line")
	generateCmd.Flags().BoolVar(&generateOnlyFirstFlag, "only-first", false, "Render only the newest release")
	generateCmd.Flags().BoolVar(&generateOnlyBodyFlag, "only-body", false, "Omit the title and version headings")
	generateCmd.Flags().IntVar(&generateLimitFlag, "limit", 0, "Cap on fetched commits (overrides config)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	repo, err := git.Open(generatePathFlag)
	if err != nil {
		return errors.WrapWithMessage(err, errors.Repository, "opening repository",
			"Run the command inside a git repository, or pass --path")
	}

	src, err := repo.FetchSources(cmd.Context(), cfg.Limit)
	if err != nil {
		return errors.WrapWithMessage(err, errors.Repository, "reading repository")
	}

	releases := buildReleases(src, conventional.New(), cfg)

	if cfg.Granularity != "" {
		releases = changelog.GroupReleases(releases, cfg.Granularity)
	}

	lines := changelog.Render(releases, cfg.RenderOptions())

	if generateOutputFlag != "" {
		if err := output.WriteFile(generateOutputFlag, lines); err != nil {
			return errors.WrapWithMessage(err, errors.Runtime, "writing changelog")
		}
		output.PrintSuccess(cmd.OutOrStdout(), "Wrote "+generateOutputFlag)
		return nil
	}
	return output.WriteLines(cmd.OutOrStdout(), lines)
}

// loadConfig builds the effective configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{ProjectConfigPath: configPathFlag})
	if err != nil {
		return nil, errors.WrapWithMessage(err, errors.Configuration, "loading configuration",
			"Check the syntax of .changelog.yml and CHANGELOG_* environment variables")
	}

	if cmd.Flags().Changed("granularity") {
		cfg.Granularity = generateGranularityFlag
	}
	if cmd.Flags().Changed("only-first") {
		cfg.OnlyFirst = generateOnlyFirstFlag
	}
	if cmd.Flags().Changed("only-body") {
		cfg.OnlyBody = generateOnlyBodyFlag
	}
	if cmd.Flags().Changed("limit") {
		cfg.Limit = generateLimitFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.Configuration)
	}
	return cfg, nil
}

// buildReleases segments the newest-first commit log at tag boundaries and
// groups each segment's messages into one release. A release's range is
// (next older tag, its own tag]; commits newer than the newest tag form the
// Unreleased release, kept only when non-empty.
func buildReleases(src *git.Sources, parser changelog.Parser, cfg *config.Config) []*changelog.Release {
	tagBySHA := make(map[string]git.Tag, len(src.Tags))
	for _, t := range src.Tags {
		tagBySHA[t.SHA] = t
	}

	// Boundaries follow log order, not tag precedence. A tag pointing outside
	// the walked history cannot bound a segment and is ignored.
	var boundaries []git.Tag
	for _, e := range src.Log {
		if t, ok := tagBySHA[e.SHA]; ok {
			boundaries = append(boundaries, t)
		}
	}

	opts := changelog.GroupOptions{
		Default:   cfg.DefaultClassification(),
		TypeOrder: cfg.TypeOrder(),
	}

	var releases []*changelog.Release

	newestTagSHA := ""
	if len(boundaries) > 0 {
		newestTagSHA = boundaries[0].SHA
	}
	if messages := git.RangeMessages(src.Log, newestTagSHA, ""); len(messages) > 0 {
		releases = append(releases, &changelog.Release{
			Tag:      "Unreleased",
			Messages: messages,
			Commits:  changelog.Group(messages, parser, opts).Groups,
		})
	}

	for i, tag := range boundaries {
		base := ""
		if i+1 < len(boundaries) {
			base = boundaries[i+1].SHA
		}
		messages := git.RangeMessages(src.Log, base, tag.SHA)
		releases = append(releases, &changelog.Release{
			Tag:         tag.Name,
			Date:        tag.Date,
			Description: tag.Message,
			Messages:    messages,
			Commits:     changelog.Group(messages, parser, opts).Groups,
		})
	}

	applyAddDate(releases, cfg.AddDate)
	return releases
}

// applyAddDate injects a date on the newest release when it has none.
// "today" uses the current date; any other non-empty value is used verbatim.
func applyAddDate(releases []*changelog.Release, addDate string) {
	if addDate == "" || len(releases) == 0 || releases[0].Date != "" {
		return
	}
	if addDate == "today" {
		releases[0].Date = time.Now().Format("2006-01-02")
		return
	}
	releases[0].Date = addDate
}
