package changelog_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfaciana/conventional-commits-changelog/internal/changelog"
	"github.com/pfaciana/conventional-commits-changelog/internal/classify"
	"github.com/pfaciana/conventional-commits-changelog/internal/conventional"
)

func TestGroup_BucketsByTypeKey(t *testing.T) {
	messages := []string{
		"feat: add proxy support",
		"fix: handle nil map",
		"feat: remove legacy flag",
		"   ",
		"chore: bump deps",
	}

	got := changelog.Group(messages, conventional.New(), changelog.GroupOptions{})

	require.Len(t, got.Commits, 4, "blank messages are skipped")
	assert.Equal(t, []string{"feat_add", "fix", "feat_remove", "chore"}, got.Groups.Keys())
	assert.Len(t, got.Groups.Get("feat_add"), 1)
	assert.Equal(t, "add proxy support", got.Groups.Get("feat_add")[0].Subject)
}

func TestGroup_TypeOrder(t *testing.T) {
	messages := []string{
		"chore: bump deps",
		"fix: handle nil map",
		"feat: add proxy support",
	}

	got := changelog.Group(messages, conventional.New(), changelog.GroupOptions{
		TypeOrder: []string{"feat_add", "fix"},
	})

	// Listed keys first in listed order, unlisted keys after in first-seen order.
	assert.Equal(t, []string{"feat_add", "fix", "chore"}, got.Groups.Keys())
}

func TestGroup_InvalidDeclaredTypeReclassified(t *testing.T) {
	got := changelog.Group([]string{"wip: try things"}, conventional.New(), changelog.GroupOptions{
		Default: classify.Result{Type: "other"},
	})

	require.Len(t, got.Commits, 1)
	c := got.Commits[0]
	assert.Equal(t, "other", c.Type, "an unknown declared type never becomes a bucket")
	assert.NotContains(t, got.Groups.Keys(), "wip")
}

func TestGroup_InvalidDeclaredTypeRecoversContent(t *testing.T) {
	got := changelog.Group([]string{"wip: fix typo in traversal"}, conventional.New(), changelog.GroupOptions{})

	require.Len(t, got.Commits, 1)
	assert.Equal(t, "fix", got.Commits[0].Type)
}

func TestGroup_EmptyBatch(t *testing.T) {
	got := changelog.Group(nil, conventional.New(), changelog.GroupOptions{})
	assert.Empty(t, got.Commits)
	assert.Zero(t, got.Groups.Len())
}

// panickyParser blows up on a marker word so failure isolation can be observed.
type panickyParser struct {
	inner changelog.Parser
}

func (p panickyParser) Parse(raw string) *changelog.Commit {
	if strings.Contains(raw, "boom") {
		panic("parser exploded")
	}
	return p.inner.Parse(raw)
}

func TestGroup_FailureIsolation(t *testing.T) {
	var logged []string
	changelog.SetDebugLogger(func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	})
	defer changelog.SetDebugLogger(nil)

	messages := []string{
		"feat: add proxy support",
		"fix: boom",
		"fix: handle nil map",
	}

	got := changelog.Group(messages, panickyParser{inner: conventional.New()}, changelog.GroupOptions{})

	require.Len(t, got.Commits, 2, "only the failing message is dropped")
	assert.Equal(t, "add proxy support", got.Commits[0].Subject)
	assert.Equal(t, "handle nil map", got.Commits[1].Subject)

	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], "fix: boom")
	assert.Contains(t, logged[0], "panic")
}

func TestGroup_MergeAndRevert(t *testing.T) {
	messages := []string{
		"Merge pull request #17 from owner/branch",
		`revert: "feat: add proxy support"`,
	}

	got := changelog.Group(messages, conventional.New(), changelog.GroupOptions{})

	require.Len(t, got.Commits, 2)
	assert.Equal(t, []string{"merge", "revert"}, got.Groups.Keys())
	assert.Equal(t, "feat: add proxy support", got.Commits[1].Revert.Header)
}
