package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfaciana/conventional-commits-changelog/internal/classify"
)

// stubParser is a minimal Parser for tests that do not need real grammar.
// It understands "type: subject" and nothing else.
type stubParser struct{}

func (stubParser) Parse(raw string) *Commit {
	c := &Commit{Raw: raw, Orig: raw, Header: firstLine(raw)}
	if i := indexSeparator(c.Header); i > 0 {
		c.Type = c.Header[:i]
		c.Subject = c.Header[i+2:]
	}
	return c
}

func indexSeparator(header string) int {
	for i := 0; i+1 < len(header); i++ {
		if header[i] == ':' && header[i+1] == ' ' {
			return i
		}
	}
	return -1
}

func TestNormalize_MergeAndRevertPrecedence(t *testing.T) {
	merge := &Commit{Merge: "Merge branch 'dev'", Subject: "add everything"}
	got := Normalize(merge, stubParser{}, NormalizeOptions{})
	assert.Equal(t, "merge", got.Type)
	assert.Empty(t, got.SubType)

	revert := &Commit{Revert: &Revert{Header: "feat: add x"}, Subject: "add x"}
	got = Normalize(revert, stubParser{}, NormalizeOptions{})
	assert.Equal(t, "revert", got.Type)
}

func TestNormalize_DeclaredType(t *testing.T) {
	tests := map[string]struct {
		parsed   *Commit
		wantType string
		wantSub  string
	}{
		"declared feat picks add subtype": {
			parsed:   &Commit{Type: "feat", Subject: "add proxy support"},
			wantType: "feat",
			wantSub:  "add",
		},
		"declared feat defaults to change subtype": {
			parsed:   &Commit{Type: "feat", Subject: "rework the proxy"},
			wantType: "feat",
			wantSub:  "change",
		},
		"declared fix stays fix": {
			parsed:   &Commit{Type: "fix", Subject: "add missing nil check"},
			wantType: "fix",
			wantSub:  "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := Normalize(tt.parsed, stubParser{}, NormalizeOptions{})
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantSub, got.SubType)
		})
	}
}

func TestNormalize_ClassifiesFromContent(t *testing.T) {
	parsed := &Commit{Header: "simplify the walker", Orig: "simplify the walker"}
	got := Normalize(parsed, stubParser{}, NormalizeOptions{})
	assert.Equal(t, "refactor", got.Type)
}

func TestNormalize_SubjectPreferredOverHeader(t *testing.T) {
	parsed := &Commit{Subject: "add retries", Header: "fix: add retries"}
	got := Normalize(parsed, stubParser{}, NormalizeOptions{})
	assert.Equal(t, "feat", got.Type)
	assert.Equal(t, "add", got.SubType)
}

func TestNormalize_SyntheticReparse(t *testing.T) {
	// "docs" is outside the narrowed valid set, so the record is reparsed
	// behind a synthetic header to extract structure consistently.
	parsed := &Commit{
		Header: "update readme",
		Raw:    "update readme",
		Orig:   "update readme",
	}
	got := Normalize(parsed, stubParser{}, NormalizeOptions{
		ValidTypes: []string{"feat", "fix"},
	})

	require.Equal(t, "docs", got.Type)
	assert.Equal(t, "update readme", got.Subject, "synthetic header yields a subject")
	assert.Equal(t, "update readme", got.Orig, "original text survives the reparse")
}

func TestNormalize_DefaultClassification(t *testing.T) {
	parsed := &Commit{Header: "completely unclassifiable words", Orig: "completely unclassifiable words"}
	got := Normalize(parsed, stubParser{}, NormalizeOptions{
		Default: classify.Result{Type: "feat", SubType: "change"},
	})
	assert.Equal(t, "feat", got.Type)
	assert.Equal(t, "change", got.SubType)
	assert.Equal(t, "feat_change", got.TypeKey())
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	parsed := &Commit{Type: "fix", Subject: "add missing nil check"}
	_ = Normalize(parsed, stubParser{}, NormalizeOptions{})
	assert.Empty(t, parsed.SubType)
}
