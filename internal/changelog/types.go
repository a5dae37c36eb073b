// Package changelog turns classified commit records into release sections and
// renders them as an ordered sequence of Markdown lines. It owns the commit and
// release data model, the commit normalizer and grouper, notice extraction,
// release aggregation, and the renderer.
package changelog

// Note is a structured footer annotation extracted from a commit message,
// such as a BREAKING CHANGE entry.
type Note struct {
	Title string
	Text  string
}

// Revert carries the header of the commit that a revert commit undoes.
type Revert struct {
	Header string
}

// Commit is a fully parsed and classified commit record. It is immutable once
// produced by Normalize; the grouper and renderer only read it.
//
// SubType is only meaningful when Type is "feat", where it is one of
// "add", "change" or "remove".
type Commit struct {
	Type    string
	SubType string
	Scope   string
	Subject string
	Header  string
	Body    string
	Footer  string

	// Breaking holds the standalone breaking-change text set when the header
	// carried an inline breaking marker without a matching footer note.
	Breaking   string
	IsBreaking bool

	Notes []Note

	// Merge holds the merge description line for merge commits, empty otherwise.
	Merge  string
	Revert *Revert

	Mentions   []string
	References []string

	// Raw is the message with comment lines stripped; Orig is the message
	// exactly as given.
	Raw  string
	Orig string
}

// TypeKey returns the grouping key for the commit: the type alone, or
// "type_subtype" when a subtype is present.
func (c *Commit) TypeKey() string {
	if c.SubType != "" {
		return c.Type + "_" + c.SubType
	}
	return c.Type
}

// DisplayText returns the first available of subject, breaking text, header,
// merge description, or reverted header. The renderer escapes it for Markdown.
func (c *Commit) DisplayText() string {
	switch {
	case c.Subject != "":
		return c.Subject
	case c.Breaking != "":
		return c.Breaking
	case c.Header != "":
		return c.Header
	case c.Merge != "":
		return c.Merge
	case c.Revert != nil:
		return c.Revert.Header
	}
	return ""
}

// Parser converts one raw commit message into a structured Commit record.
// The conventional package provides the canonical implementation.
type Parser interface {
	Parse(raw string) *Commit
}

// Release holds the commits recorded between one version tag and its
// predecessor. Created once per tag during aggregation and immutable
// afterward; the renderer consumes it as given.
type Release struct {
	Tag         string
	Name        string
	Date        string
	Description string
	Header      string
	Footer      string
	Messages    []string
	Commits     *GroupSet
}

// GroupSet is an insertion-ordered map from type key to commits. It exists so
// bucket iteration order is explicit rather than an accident of map iteration.
type GroupSet struct {
	keys    []string
	commits map[string][]*Commit
}

// NewGroupSet returns an empty GroupSet.
func NewGroupSet() *GroupSet {
	return &GroupSet{commits: make(map[string][]*Commit)}
}

// Add appends a commit under the given type key, registering the key on first use.
func (g *GroupSet) Add(key string, c *Commit) {
	if _, ok := g.commits[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.commits[key] = append(g.commits[key], c)
}

// Get returns the commits bucketed under key, or nil.
func (g *GroupSet) Get(key string) []*Commit {
	return g.commits[key]
}

// Keys returns the bucket keys in their current order.
func (g *GroupSet) Keys() []string {
	return g.keys
}

// Len returns the number of buckets.
func (g *GroupSet) Len() int {
	return len(g.keys)
}

// Total returns the number of commits across all buckets.
func (g *GroupSet) Total() int {
	n := 0
	for _, key := range g.keys {
		n += len(g.commits[key])
	}
	return n
}

// Reorder sorts the bucket keys by the given preferred order. Keys not listed
// sort after listed ones; ties keep their first-seen order.
func (g *GroupSet) Reorder(order []string) {
	rank := make(map[string]int, len(order))
	for i, key := range order {
		rank[key] = i
	}
	pos := func(key string) int {
		if i, ok := rank[key]; ok {
			return i
		}
		return len(order)
	}

	// Stable insertion sort keeps first-seen order for equal ranks.
	sorted := make([]string, 0, len(g.keys))
	for _, key := range g.keys {
		i := len(sorted)
		for i > 0 && pos(sorted[i-1]) > pos(key) {
			i--
		}
		sorted = append(sorted, "")
		copy(sorted[i+1:], sorted[i:])
		sorted[i] = key
	}
	g.keys = sorted
}

// DefaultValidTypes lists the semantic types a commit may resolve to without
// forcing a reparse through a synthetic header.
func DefaultValidTypes() []string {
	return []string{
		"feat", "fix", "chore", "docs", "build", "refactor",
		"test", "style", "ci", "perf", "merge", "revert", "other",
	}
}
