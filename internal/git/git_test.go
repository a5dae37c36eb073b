package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (*gogit.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	return repo, dir
}

func commit(t *testing.T, repo *gogit.Repository, message string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)

	sig := &object.Signature{Name: "Tester", Email: "tester@example.com", When: time.Now()}
	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: true,
	})
	require.NoError(t, err)
	return hash
}

func lightweightTag(t *testing.T, repo *gogit.Repository, name string, hash plumbing.Hash) {
	t.Helper()
	_, err := repo.CreateTag(name, hash, nil)
	require.NoError(t, err)
}

func annotatedTag(t *testing.T, repo *gogit.Repository, name string, hash plumbing.Hash, message string) {
	t.Helper()
	_, err := repo.CreateTag(name, hash, &gogit.CreateTagOptions{
		Tagger:  &object.Signature{Name: "Tester", Email: "tester@example.com", When: time.Now()},
		Message: message,
	})
	require.NoError(t, err)
}

func TestOpen(t *testing.T) {
	_, dir := initRepo(t)

	repo, err := Open(dir)
	require.NoError(t, err)
	assert.NotNil(t, repo)
}

func TestOpen_DetectsParentRepository(t *testing.T) {
	raw, dir := initRepo(t)
	commit(t, raw, "chore: init")

	sub := filepath.Join(dir, "internal", "deep")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	repo, err := Open(sub)
	require.NoError(t, err)

	head, err := repo.HeadSHA()
	require.NoError(t, err)
	assert.NotEmpty(t, head)
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening repository")
}

func TestTags_SortingAndResolution(t *testing.T) {
	raw, dir := initRepo(t)
	c1 := commit(t, raw, "feat: add everything")
	c2 := commit(t, raw, "fix: patch the cache")

	lightweightTag(t, raw, "v0.1.0", c1)
	lightweightTag(t, raw, "v0.10.0", c2)
	annotatedTag(t, raw, "v0.2.0", c2, "second release")
	lightweightTag(t, raw, "backup", c1)

	repo, err := Open(dir)
	require.NoError(t, err)

	tags, err := repo.Tags()
	require.NoError(t, err)
	require.Len(t, tags, 4)

	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	assert.Equal(t, []string{"v0.10.0", "v0.2.0", "v0.1.0", "backup"}, names,
		"semantic precedence descending, uncoercible names last")

	today := time.Now().Format("2006-01-02")
	for _, tag := range tags {
		switch tag.Name {
		case "v0.2.0":
			// Annotated tags peel to their target commit.
			assert.Equal(t, c2.String(), tag.SHA)
			assert.Contains(t, tag.Message, "second release")
			assert.Equal(t, today, tag.Date)
		case "v0.1.0":
			assert.Equal(t, c1.String(), tag.SHA)
			assert.Empty(t, tag.Message)
			assert.Equal(t, today, tag.Date)
		}
	}
}

func TestHeadSHA(t *testing.T) {
	raw, dir := initRepo(t)
	commit(t, raw, "feat: add everything")
	c2 := commit(t, raw, "fix: patch the cache")

	repo, err := Open(dir)
	require.NoError(t, err)

	head, err := repo.HeadSHA()
	require.NoError(t, err)
	assert.Equal(t, c2.String(), head)
}

func TestLog(t *testing.T) {
	raw, dir := initRepo(t)
	commit(t, raw, "feat: add everything")
	commit(t, raw, "fix: patch the cache")
	c3 := commit(t, raw, "chore: bump deps")

	repo, err := Open(dir)
	require.NoError(t, err)

	log, err := repo.Log(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, log, 3)
	assert.Equal(t, c3.String(), log[0].SHA, "newest first")
	assert.Equal(t, "chore: bump deps", log[0].Message)

	limited, err := repo.Log(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, c3.String(), limited[0].SHA)
}

func TestLog_CancelledContext(t *testing.T) {
	raw, dir := initRepo(t)
	commit(t, raw, "feat: add everything")

	repo, err := Open(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.Log(ctx, 0)
	require.Error(t, err)
}

func TestFetchSources(t *testing.T) {
	raw, dir := initRepo(t)
	c1 := commit(t, raw, "feat: add everything")
	c2 := commit(t, raw, "fix: patch the cache")
	lightweightTag(t, raw, "v0.1.0", c1)

	repo, err := Open(dir)
	require.NoError(t, err)

	src, err := repo.FetchSources(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, c2.String(), src.HeadSHA)
	require.Len(t, src.Tags, 1)
	assert.Equal(t, "v0.1.0", src.Tags[0].Name)
	require.Len(t, src.Log, 2)
	assert.Equal(t, c2.String(), src.Log[0].SHA)
}

func TestRangeMessages(t *testing.T) {
	log := []LogEntry{
		{SHA: "d", Message: "fourth"},
		{SHA: "c", Message: "third"},
		{SHA: "b", Message: "second"},
		{SHA: "a", Message: "first"},
	}

	tests := map[string]struct {
		base, head string
		want       []string
	}{
		"full history":        {"", "", []string{"fourth", "third", "second", "first"}},
		"from head to base":   {"b", "d", []string{"fourth", "third"}},
		"head mid-log":        {"a", "c", []string{"third", "second"}},
		"base open ended":     {"", "b", []string{"second", "first"}},
		"head equals base":    {"c", "c", nil},
		"head not in the log": {"", "zz", nil},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, RangeMessages(log, tt.base, tt.head))
		})
	}
}
