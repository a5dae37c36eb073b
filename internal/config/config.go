// Package config provides hierarchical configuration for the changelog CLI
// using koanf. Values merge with priority: environment variables > project
// config (.changelog.yml) > user config (~/.config/changelog/config.yml) >
// defaults. The defaults table is fully specified once here; callers receive a
// single immutable Config rather than coalescing optional fields per call
// site.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/pfaciana/conventional-commits-changelog/internal/changelog"
	"github.com/pfaciana/conventional-commits-changelog/internal/classify"
)

// TypeMapping maps one commit bucket key to its rendered section title.
// Slice order in the config file is render order.
type TypeMapping struct {
	Key   string `koanf:"key"`
	Title string `koanf:"title"`
}

// NoticeMapping selects one footer annotation label. Pattern, when set, is a
// regular expression tested against note titles; otherwise titles must equal
// Match (defaulting to Label).
type NoticeMapping struct {
	Label   string `koanf:"label"`
	Match   string `koanf:"match"`
	Pattern string `koanf:"pattern"`
}

// Config is the full configuration recognized by the renderer and the
// upstream aggregation. Build it through Load; treat it as immutable after.
type Config struct {
	// Coerce displays canonical rather than raw version strings.
	Coerce bool `koanf:"coerce"`
	// OnlyFirst renders only the first (newest) release.
	OnlyFirst bool `koanf:"only_first"`
	// OnlyBody omits the top-level title and version headings.
	OnlyBody bool `koanf:"only_body"`

	// Types lists the rendered buckets, their order, and their headings.
	Types []TypeMapping `koanf:"types"`

	// Notices lists which footer annotations are surfaced.
	Notices []NoticeMapping `koanf:"notices"`
	// NoticeAll scans all buckets for notices, not just visible types.
	NoticeAll bool `koanf:"notice_all"`
	// NoticeInFooter places notices after the type sections.
	NoticeInFooter bool `koanf:"notice_in_footer"`

	// Limit caps the number of commits fetched from the repository.
	Limit int `koanf:"limit"`

	// AddDate injects a date on the newest release when it has none:
	// "today" uses the current date, any other non-empty value is used
	// verbatim, empty disables the injection.
	AddDate string `koanf:"add_date"`

	// DefaultType and DefaultSubType classify commits no rule matches.
	DefaultType    string `koanf:"default_type"`
	DefaultSubType string `koanf:"default_sub_type"`

	// Granularity optionally aggregates tag releases into "minor" or "major"
	// buckets before rendering. Empty keeps one release per tag.
	Granularity string `koanf:"granularity"`
}

// Default returns the fully-specified defaults table.
func Default() *Config {
	return &Config{
		Coerce: true,
		Types: []TypeMapping{
			{Key: "feat_add", Title: "Added"},
			{Key: "feat_change", Title: "Changed"},
			{Key: "feat_remove", Title: "Removed"},
			{Key: "fix", Title: "Fixed"},
		},
		Notices: []NoticeMapping{
			{Label: changelog.BreakingLabel, Pattern: `^BREAKING[ -]CHANGE$`},
		},
		NoticeInFooter: true,
		Limit:          500,
		AddDate:        "today",
		DefaultType:    "feat",
		DefaultSubType: "change",
	}
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .changelog.yml).
	ProjectConfigPath string
	// SkipUserConfig ignores the user-level config file.
	SkipUserConfig bool
}

// Load builds the effective configuration: defaults overlaid by the user
// config file, the project config file, and CHANGELOG_* environment variables,
// in that order of increasing precedence.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if !opts.SkipUserConfig {
		if path, err := UserConfigPath(); err == nil && fileExists(path) {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("loading user config %s: %w", path, err)
			}
		}
	}

	projectPath := opts.ProjectConfigPath
	if projectPath == "" {
		projectPath = ProjectConfigPath()
	}
	if fileExists(projectPath) {
		if err := k.Load(file.Provider(projectPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading project config %s: %w", projectPath, err)
		}
	}

	if err := k.Load(env.Provider("CHANGELOG_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that koanf cannot express.
func (c *Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("limit must be >= 0, got %d", c.Limit)
	}
	switch c.Granularity {
	case "", changelog.GranularityMinor, changelog.GranularityMajor:
	default:
		return fmt.Errorf("granularity must be %q or %q, got %q",
			changelog.GranularityMinor, changelog.GranularityMajor, c.Granularity)
	}
	for _, n := range c.Notices {
		if n.Pattern == "" {
			continue
		}
		if _, err := regexp.Compile(n.Pattern); err != nil {
			return fmt.Errorf("notice pattern for %q: %w", n.Label, err)
		}
	}
	return nil
}

// DefaultClassification returns the classifier fallback.
func (c *Config) DefaultClassification() classify.Result {
	return classify.Result{Type: c.DefaultType, SubType: c.DefaultSubType}
}

// TypeOrder returns the configured bucket keys in render order.
func (c *Config) TypeOrder() []string {
	keys := make([]string, len(c.Types))
	for i, t := range c.Types {
		keys[i] = t.Key
	}
	return keys
}

// RenderOptions converts the configuration into renderer options.
func (c *Config) RenderOptions() changelog.RenderOptions {
	sections := make([]changelog.TypeSection, len(c.Types))
	for i, t := range c.Types {
		sections[i] = changelog.TypeSection{Key: t.Key, Title: t.Title}
	}

	rules := make([]changelog.NoticeRule, 0, len(c.Notices))
	for _, n := range c.Notices {
		rule := changelog.NoticeRule{Label: n.Label, Match: n.Match}
		if n.Pattern != "" {
			// Validate() already compiled this pattern.
			rule.Pattern = regexp.MustCompile(n.Pattern)
		}
		rules = append(rules, rule)
	}

	return changelog.RenderOptions{
		Coerce:         c.Coerce,
		OnlyFirst:      c.OnlyFirst,
		OnlyBody:       c.OnlyBody,
		Types:          sections,
		Notices:        rules,
		NoticeAll:      c.NoticeAll,
		NoticeInFooter: c.NoticeInFooter,
	}
}

// envTransform converts environment variable names to config keys.
// Example: CHANGELOG_ONLY_FIRST -> only_first
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "CHANGELOG_"))
}
