package changelog

import (
	"fmt"
	"strings"

	"github.com/pfaciana/conventional-commits-changelog/internal/classify"
)

// debugLogger receives per-commit processing failures when set.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for grouping. Pass nil to disable.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// GroupOptions controls batch grouping.
type GroupOptions struct {
	// Default is the classification for messages no rule matches.
	Default classify.Result

	// ValidTypes lists the types accepted as declared headers; a declared type
	// outside the list is discarded and the message reclassified from content.
	// Empty means DefaultValidTypes.
	ValidTypes []string

	// TypeOrder is the caller's preferred bucket ordering. Unlisted keys sort
	// last, keeping first-seen order among themselves.
	TypeOrder []string
}

// GroupResult is the flat commit list plus the type-keyed grouping.
type GroupResult struct {
	Commits []*Commit
	Groups  *GroupSet
}

// Group processes an ordered list of raw messages into normalized commits and
// a type-keyed bucket set. Empty messages are skipped. A failure while
// processing one message drops only that message; the rest of the batch
// survives.
func Group(messages []string, parser Parser, opts GroupOptions) *GroupResult {
	valid := opts.ValidTypes
	if len(valid) == 0 {
		valid = DefaultValidTypes()
	}

	result := &GroupResult{Groups: NewGroupSet()}

	for _, msg := range messages {
		if strings.TrimSpace(msg) == "" {
			continue
		}

		c, err := processMessage(msg, parser, valid, opts.Default)
		if err != nil {
			logDebug("[changelog] skipping commit %q: %v", firstLine(msg), err)
			continue
		}

		result.Commits = append(result.Commits, c)
		result.Groups.Add(c.TypeKey(), c)
	}

	result.Groups.Reorder(opts.TypeOrder)
	return result
}

// processMessage parses, validates, and normalizes a single message. A panic
// anywhere in parsing or classification is converted to an error so one
// malformed message cannot erase the rest of the batch.
func processMessage(msg string, parser Parser, valid []string, def classify.Result) (c *Commit, err error) {
	defer func() {
		if r := recover(); r != nil {
			c, err = nil, panicError{r}
		}
	}()

	parsed := parser.Parse(msg)

	// A declared type outside the valid set is noise, not signal. Altering
	// the header separator makes the parser stop seeing a header, so the
	// normalizer re-derives the type purely from content.
	if parsed.Type != "" && !containsType(valid, parsed.Type) {
		parsed = parser.Parse(strings.Replace(msg, ":", " -", 1))
	}

	return Normalize(parsed, parser, NormalizeOptions{Default: def, ValidTypes: valid}), nil
}

type panicError struct{ v any }

func (e panicError) Error() string { return fmt.Sprintf("panic during commit processing: %v", e.v) }

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
