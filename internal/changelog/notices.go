package changelog

import "regexp"

// BreakingLabel is the label the default configuration surfaces breaking
// changes under.
const BreakingLabel = "BREAKING CHANGES"

// defaultBreakingTitle is the note title that marks a breaking change when the
// caller does not supply one.
const defaultBreakingTitle = "BREAKING CHANGE"

// NoticeRule selects which footer notes are surfaced under a changelog label.
// When Pattern is set, note titles are tested against it; otherwise titles
// must equal Match, which defaults to the Label itself.
type NoticeRule struct {
	Label   string
	Match   string
	Pattern *regexp.Regexp
}

// DefaultNoticeRules surfaces breaking-change footers, accepting both the
// space and hyphen spellings of the note title.
func DefaultNoticeRules() []NoticeRule {
	return []NoticeRule{
		{Label: BreakingLabel, Pattern: regexp.MustCompile(`^BREAKING[ -]CHANGE$`)},
	}
}

// Extract collects the texts of the commit's notes whose titles match the
// rule. When nothing matches, the rule's label equals breakingLabel (empty
// means the conventional "BREAKING CHANGE" title), and the commit carries a
// standalone breaking text, that text is returned as a one-element result.
// Extract never fails; no match yields an empty slice.
func (r NoticeRule) Extract(c *Commit, breakingLabel string) []string {
	if breakingLabel == "" {
		breakingLabel = defaultBreakingTitle
	}

	var texts []string
	for _, n := range c.Notes {
		if r.titleMatches(n.Title) {
			texts = append(texts, n.Text)
		}
	}

	if len(texts) == 0 && r.Label == breakingLabel && c.Breaking != "" {
		return []string{c.Breaking}
	}
	return texts
}

func (r NoticeRule) titleMatches(title string) bool {
	if r.Pattern != nil {
		return r.Pattern.MatchString(title)
	}
	match := r.Match
	if match == "" {
		match = r.Label
	}
	return title == match
}
