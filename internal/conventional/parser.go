// Package conventional parses raw commit messages against the Conventional
// Commits header grammar (type(scope)!: subject) and extracts the structured
// pieces the changelog pipeline consumes: header fields, body, footer notes,
// breaking-change markers, merge/revert detection, and mention/issue
// references. Parsing is total; a message with no recognizable header still
// yields a record carrying the raw text.
package conventional

import (
	"regexp"
	"strings"

	"github.com/pfaciana/conventional-commits-changelog/internal/changelog"
)

var (
	headerPattern  = regexp.MustCompile(`^([A-Za-z]+)(?:\(([^)]*)\))?(!)?:[ \t]+(.+)$`)
	mergePattern   = regexp.MustCompile(`^Merge\s+(.+)$`)
	revertPattern  = regexp.MustCompile(`^[Rr]evert:?\s+"?(.+?)"?\s*$`)
	footerPattern  = regexp.MustCompile(`^(BREAKING[ -]CHANGE|[A-Za-z][A-Za-z-]*):[ \t]+(.*)$`)
	mentionPattern = regexp.MustCompile(`@([A-Za-z0-9][A-Za-z0-9-]*)`)
	refPattern     = regexp.MustCompile(`#(\d+)`)

	breakingTitle = regexp.MustCompile(`^BREAKING[ -]CHANGE$`)
)

// Parser is the canonical changelog.Parser implementation.
type Parser struct{}

// New returns a header parser.
func New() *Parser {
	return &Parser{}
}

// Parse converts one raw commit message into a structured commit record.
// It never fails: unparseable messages come back with only Header, Raw and
// Orig populated.
func (p *Parser) Parse(raw string) *changelog.Commit {
	c := &changelog.Commit{Orig: raw}

	lines := stripComments(raw)
	c.Raw = strings.Join(lines, "\n")
	if len(lines) == 0 {
		return c
	}

	header := strings.TrimSpace(lines[0])
	c.Header = header

	if m := mergePattern.FindStringSubmatch(header); m != nil {
		c.Merge = header
	}
	if m := revertPattern.FindStringSubmatch(header); m != nil {
		c.Revert = &changelog.Revert{Header: m[1]}
	}

	if m := headerPattern.FindStringSubmatch(header); m != nil && c.Merge == "" && c.Revert == nil {
		c.Type = strings.ToLower(m[1])
		c.Scope = m[2]
		c.Subject = m[4]
		if m[3] == "!" {
			c.IsBreaking = true
		}
	}

	parseSections(c, lines[1:])

	if c.IsBreaking && !hasBreakingNote(c.Notes) {
		// Inline marker with no matching footer note: surface the subject as
		// the standalone breaking text.
		c.Breaking = c.Subject
	}

	c.Mentions = collect(mentionPattern, c.Raw)
	c.References = collect(refPattern, c.Raw)

	return c
}

// stripComments removes lines starting with '#' and trims trailing blank lines.
func stripComments(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// parseSections splits the lines after the header into body, footer, and
// structured notes. The footer begins at the first line carrying a footer
// token; note values continue across lines until the next token.
func parseSections(c *changelog.Commit, rest []string) {
	var body, footer []string
	inFooter := false

	for _, line := range rest {
		m := footerPattern.FindStringSubmatch(line)
		switch {
		case m != nil:
			inFooter = true
			c.Notes = append(c.Notes, changelog.Note{Title: m[1], Text: m[2]})
			footer = append(footer, line)
		case inFooter:
			footer = append(footer, line)
			if line != "" && len(c.Notes) > 0 {
				last := &c.Notes[len(c.Notes)-1]
				if last.Text == "" {
					last.Text = strings.TrimSpace(line)
				} else {
					last.Text += "\n" + strings.TrimSpace(line)
				}
			}
		default:
			body = append(body, line)
		}
	}

	c.Body = strings.TrimSpace(strings.Join(body, "\n"))
	c.Footer = strings.TrimSpace(strings.Join(footer, "\n"))

	if hasBreakingNote(c.Notes) {
		c.IsBreaking = true
	}
}

func hasBreakingNote(notes []changelog.Note) bool {
	for _, n := range notes {
		if breakingTitle.MatchString(n.Title) {
			return true
		}
	}
	return false
}

// collect returns the unique first-capture matches of re in text, in order.
func collect(re *regexp.Regexp, text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}
