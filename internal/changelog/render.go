package changelog

import (
	"fmt"
	"html"
	"sort"

	"github.com/blang/semver/v4"
)

// TypeSection maps a bucket key to its rendered section title. Order in the
// options slice is render order.
type TypeSection struct {
	Key   string
	Title string
}

// DefaultTypeSections is the default visible-bucket mapping.
func DefaultTypeSections() []TypeSection {
	return []TypeSection{
		{Key: "feat_add", Title: "Added"},
		{Key: "feat_change", Title: "Changed"},
		{Key: "feat_remove", Title: "Removed"},
		{Key: "fix", Title: "Fixed"},
	}
}

// RenderOptions configures the renderer. The zero value is not useful; start
// from DefaultRenderOptions.
type RenderOptions struct {
	// Coerce displays the canonical major.minor.patch form of each tag instead
	// of the raw tag string.
	Coerce bool

	// OnlyFirst stops after the first release that produces output.
	OnlyFirst bool

	// OnlyBody omits the top-level title and the per-release version headings.
	OnlyBody bool

	// Types lists the visible buckets, their order, and their section titles.
	Types []TypeSection

	// Notices selects which footer annotations are surfaced.
	Notices []NoticeRule

	// NoticeAll scans every commit bucket for notices instead of only the
	// visible Types buckets.
	NoticeAll bool

	// NoticeInFooter places the notice block after the type sections rather
	// than before them.
	NoticeInFooter bool
}

// DefaultRenderOptions returns the documented defaults: coerced versions, all
// releases, Added/Changed/Removed/Fixed sections, breaking-change notices in
// the footer position.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Coerce:         true,
		Types:          DefaultTypeSections(),
		Notices:        DefaultNoticeRules(),
		NoticeInFooter: true,
	}
}

// Render turns releases into an ordered sequence of Markdown lines. Releases
// render in the order given; the renderer is order-agnostic and idempotent.
// Releases with no grouped commits are skipped entirely.
func Render(releases []*Release, opts RenderOptions) []string {
	var lines []string

	if !opts.OnlyBody {
		lines = append(lines, "# Changelog", "")
	}

	for _, r := range releases {
		if r.Commits == nil || r.Commits.Total() == 0 {
			continue
		}

		if !opts.OnlyBody {
			lines = append(lines, releaseHeading(r, opts.Coerce), "")
		}

		labels, notices := collectNotices(r, opts)

		if r.Header != "" {
			lines = append(lines, r.Header, "")
		}

		if len(labels) > 0 && !opts.NoticeInFooter {
			lines = appendNoticeBlock(lines, labels, notices)
		}

		lines = appendTypeSections(lines, r, opts.Types)

		if len(labels) > 0 && opts.NoticeInFooter {
			lines = appendNoticeBlock(lines, labels, notices)
		}

		if r.Footer != "" {
			lines = append(lines, r.Footer, "")
		}

		if opts.OnlyFirst {
			break
		}
	}

	return lines
}

// releaseHeading formats the version heading, appending the date when present.
func releaseHeading(r *Release, coerce bool) string {
	version := r.Tag
	if coerce {
		if v, err := semver.ParseTolerant(r.Tag); err == nil {
			version = fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
		}
	}
	if r.Date != "" {
		return fmt.Sprintf("## %s (%s)", version, r.Date)
	}
	return "## " + version
}

// collectNotices builds the ordered notice map for a release: labels in rule
// order, texts in bucket scan order. Only visible buckets are scanned unless
// NoticeAll is set.
func collectNotices(r *Release, opts RenderOptions) ([]string, map[string][]string) {
	keys := r.Commits.Keys()
	if !opts.NoticeAll {
		visible := make(map[string]bool, len(opts.Types))
		for _, t := range opts.Types {
			visible[t.Key] = true
		}
		var filtered []string
		for _, key := range keys {
			if visible[key] {
				filtered = append(filtered, key)
			}
		}
		keys = filtered
	}

	var labels []string
	notices := make(map[string][]string)
	for _, rule := range opts.Notices {
		for _, key := range keys {
			for _, c := range r.Commits.Get(key) {
				texts := rule.Extract(c, BreakingLabel)
				if len(texts) == 0 {
					continue
				}
				if _, ok := notices[rule.Label]; !ok {
					labels = append(labels, rule.Label)
				}
				notices[rule.Label] = append(notices[rule.Label], texts...)
			}
		}
	}
	return labels, notices
}

// appendNoticeBlock emits one subsection per label with one bullet per note.
func appendNoticeBlock(lines []string, labels []string, notices map[string][]string) []string {
	for _, label := range labels {
		lines = append(lines, "### "+label, "")
		for _, text := range notices[label] {
			lines = append(lines, "- "+text)
		}
		lines = append(lines, "")
	}
	return lines
}

// appendTypeSections emits the configured visible buckets in order, grouping
// each bucket's commits by scope.
func appendTypeSections(lines []string, r *Release, sections []TypeSection) []string {
	for _, section := range sections {
		commits := r.Commits.Get(section.Key)
		if len(commits) == 0 {
			continue
		}

		lines = append(lines, "### "+section.Title, "")
		lines = appendScopeGroups(lines, commits)
		lines = append(lines, "")
	}
	return lines
}

// appendScopeGroups renders a bucket's commits grouped by scope, scope names
// in lexicographic order with the unscoped group first. Unscoped commits get
// unindented bullets; scoped groups get a scope label line followed by
// indented bullets.
func appendScopeGroups(lines []string, commits []*Commit) []string {
	var scopes []string
	grouped := make(map[string][]*Commit)
	for _, c := range commits {
		if _, ok := grouped[c.Scope]; !ok {
			scopes = append(scopes, c.Scope)
		}
		grouped[c.Scope] = append(grouped[c.Scope], c)
	}
	sort.Strings(scopes)

	for _, scope := range scopes {
		if scope == "" {
			for _, c := range grouped[scope] {
				lines = append(lines, "- "+html.EscapeString(c.DisplayText()))
			}
			continue
		}
		lines = append(lines, "- **"+scope+":**")
		for _, c := range grouped[scope] {
			lines = append(lines, "  - "+html.EscapeString(c.DisplayText()))
		}
	}
	return lines
}
