package changelog

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoticeRule_Extract(t *testing.T) {
	rules := map[string]struct {
		rule NoticeRule
		c    *Commit
		want []string
	}{
		"label matches title literally": {
			rule: NoticeRule{Label: "DEPRECATED"},
			c:    &Commit{Notes: []Note{{Title: "DEPRECATED", Text: "the old flag goes away"}}},
			want: []string{"the old flag goes away"},
		},
		"explicit match overrides label": {
			rule: NoticeRule{Label: "Deprecations", Match: "DEPRECATED"},
			c:    &Commit{Notes: []Note{{Title: "DEPRECATED", Text: "the old flag goes away"}}},
			want: []string{"the old flag goes away"},
		},
		"pattern accepts both breaking spellings": {
			rule: NoticeRule{Label: BreakingLabel, Pattern: regexp.MustCompile(`^BREAKING[ -]CHANGE$`)},
			c: &Commit{Notes: []Note{
				{Title: "BREAKING CHANGE", Text: "config file moved"},
				{Title: "BREAKING-CHANGE", Text: "old path ignored"},
				{Title: "Refs", Text: "#42"},
			}},
			want: []string{"config file moved", "old path ignored"},
		},
		"no matching note": {
			rule: NoticeRule{Label: "DEPRECATED"},
			c:    &Commit{Notes: []Note{{Title: "Refs", Text: "#42"}}},
			want: nil,
		},
		"standalone breaking text backs the breaking label": {
			rule: NoticeRule{Label: "BREAKING CHANGE"},
			c:    &Commit{Breaking: "drop legacy auth"},
			want: []string{"drop legacy auth"},
		},
		"standalone breaking text never backs other labels": {
			rule: NoticeRule{Label: "DEPRECATED"},
			c:    &Commit{Breaking: "drop legacy auth"},
			want: nil,
		},
		"matching note wins over standalone text": {
			rule: NoticeRule{Label: "BREAKING CHANGE"},
			c: &Commit{
				Breaking: "drop legacy auth",
				Notes:    []Note{{Title: "BREAKING CHANGE", Text: "from the footer"}},
			},
			want: []string{"from the footer"},
		},
	}

	for name, tt := range rules {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Extract(tt.c, ""))
		})
	}
}

func TestNoticeRule_ExtractCustomBreakingLabel(t *testing.T) {
	rule := NoticeRule{Label: BreakingLabel, Pattern: regexp.MustCompile(`^BREAKING[ -]CHANGE$`)}
	c := &Commit{Breaking: "drop legacy auth"}

	// With the default label the fallback stays off for this rule.
	assert.Empty(t, rule.Extract(c, ""))

	// Naming the rule's own label as the breaking label turns it on.
	assert.Equal(t, []string{"drop legacy auth"}, rule.Extract(c, BreakingLabel))
}

func TestDefaultNoticeRules(t *testing.T) {
	rules := DefaultNoticeRules()
	assert.Len(t, rules, 1)
	assert.Equal(t, BreakingLabel, rules[0].Label)
	assert.True(t, rules[0].Pattern.MatchString("BREAKING-CHANGE"))
}
