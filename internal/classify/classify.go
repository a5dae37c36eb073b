// Package classify assigns a semantic (type, subtype) pair to free-text commit
// messages through an ordered cascade of predicate rules. Classification is a
// total, pure function: the same message and options always yield the same
// result, and a message no rule claims falls back to the configured default.
package classify

// Result is a resolved classification. SubType is only set for "feat" results,
// where it is one of "add", "change" or "remove".
type Result struct {
	Type    string
	SubType string
}

// Options controls classification.
type Options struct {
	// Default is returned when no rule matches. A zero Default falls back to
	// {Type: "other"}.
	Default Result

	// Force is the type the commit header already declared, if any. A forced
	// "feat" skips the cascade and runs only the add/remove subtype checks;
	// any other forced type is returned as-is.
	Force string
}

// Classify resolves the semantic type of a commit message. It never fails.
func Classify(message string, opts Options) Result {
	if opts.Force != "" {
		if opts.Force != "feat" {
			return Result{Type: opts.Force}
		}
		return Result{Type: "feat", SubType: featSubType(message)}
	}

	for _, r := range cascade {
		if r.match(message) {
			return r.result
		}
	}

	if opts.Default.Type != "" {
		return opts.Default
	}
	return Result{Type: "other"}
}

// featSubType picks a subtype for a message already known to be a feature.
// Only the add and remove verb checks run; everything else is a change.
func featSubType(message string) string {
	switch {
	case featAdd.MatchString(message):
		return "add"
	case featRemove.MatchString(message):
		return "remove"
	}
	return "change"
}

// RuleNames returns the cascade's rule names in evaluation order. The table is
// data, not control flow, so its precedence stays inspectable and testable.
func RuleNames() []string {
	names := make([]string, len(cascade))
	for i, r := range cascade {
		names[i] = r.name
	}
	return names
}

// MatchingRule returns the name of the first rule that matches the message,
// or "" when none does.
func MatchingRule(message string) string {
	for _, r := range cascade {
		if r.match(message) {
			return r.name
		}
	}
	return ""
}
