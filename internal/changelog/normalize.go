package changelog

import (
	"github.com/pfaciana/conventional-commits-changelog/internal/classify"
)

// NormalizeOptions controls how a parsed commit is finalized.
type NormalizeOptions struct {
	// Default is the classification used when no rule matches.
	Default classify.Result

	// ValidTypes lists the types that may stand as-is on a parsed record.
	// A resolved type outside this list triggers a reparse through a
	// synthetic header so scope/body/footer extraction stays consistent.
	// Empty means DefaultValidTypes.
	ValidTypes []string
}

func (o NormalizeOptions) validTypes() []string {
	if len(o.ValidTypes) == 0 {
		return DefaultValidTypes()
	}
	return o.ValidTypes
}

// Normalize combines the header parser's output with the classifier to produce
// the finalized commit record. Merge and revert detection take absolute
// precedence over classification.
func Normalize(parsed *Commit, parser Parser, opts NormalizeOptions) *Commit {
	if parsed.Merge != "" {
		c := *parsed
		c.Type = "merge"
		return &c
	}
	if parsed.Revert != nil {
		c := *parsed
		c.Type = "revert"
		return &c
	}

	text := parsed.Subject
	if text == "" {
		text = parsed.Header
	}

	res := classify.Classify(text, classify.Options{
		Default: opts.Default,
		Force:   parsed.Type,
	})

	typ := parsed.Type
	if typ == "" {
		typ = res.Type
	}
	sub := ""
	if typ == "feat" {
		sub = res.SubType
		if sub == "" {
			sub = "change"
		}
	}

	if containsType(opts.validTypes(), typ) {
		c := *parsed
		c.Type = typ
		c.SubType = sub
		return &c
	}

	// The message never carried a usable header. Reparsing the original text
	// behind a synthetic "<type>: " header extracts scope, body, footer and
	// notes the same way as for well-formed messages.
	reparsed := parser.Parse(typ + ": " + parsed.Orig)
	reparsed.Type = typ
	reparsed.SubType = sub
	reparsed.Raw = parsed.Raw
	reparsed.Orig = parsed.Orig
	return reparsed
}

func containsType(types []string, t string) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}
