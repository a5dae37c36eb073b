// Package git reads version tags and commit messages from a local repository
// using go-git, with no dependency on a git binary. It presents exactly the
// collaborator surface the changelog pipeline consumes: an ordered tag set, a
// newest-first commit log, and the HEAD identifier.
package git

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/blang/semver/v4"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"golang.org/x/sync/errgroup"
)

// debugLogger is a no-op until enabled via SetDebugLogger.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Tag is one version tag: its name, the commit it resolves to, and, for
// annotated tags, the annotation message and tag date.
type Tag struct {
	Name    string
	SHA     string
	Date    string
	Message string
}

// LogEntry is one commit from the history walk.
type LogEntry struct {
	SHA     string
	Message string
	Date    string
}

// Sources is the joined result of the three repository reads.
type Sources struct {
	Tags    []Tag
	HeadSHA string
	Log     []LogEntry
}

// Repository wraps an opened go-git repository.
type Repository struct {
	repo *gogit.Repository
}

// Open opens the repository at path, or the current working directory when
// path is empty, traversing up to find the repository root.
func Open(path string) (*Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return &Repository{repo: repo}, nil
}

// FetchSources runs the three repository reads concurrently and joins them
// with all-or-nothing semantics: if any read fails, the whole fetch fails and
// no partial result is returned. limit caps the number of log entries;
// limit <= 0 means unlimited.
func (r *Repository) FetchSources(ctx context.Context, limit int) (*Sources, error) {
	var src Sources

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tags, err := r.Tags()
		if err != nil {
			return err
		}
		src.Tags = tags
		return nil
	})
	g.Go(func() error {
		head, err := r.HeadSHA()
		if err != nil {
			return err
		}
		src.HeadSHA = head
		return nil
	})
	g.Go(func() error {
		log, err := r.Log(ctx, limit)
		if err != nil {
			return err
		}
		src.Log = log
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logDebug("[git] fetched %d tags, %d log entries", len(src.Tags), len(src.Log))
	return &src, nil
}

// Tags returns all tags sorted by descending semantic precedence. Tags whose
// names do not coerce to a semantic version sort last, by name. Annotated
// tags contribute their annotation message and tag date; lightweight tags
// fall back to the commit date.
func (r *Repository) Tags() ([]Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var tags []Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, r.resolveTag(ref))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	sortTags(tags)
	return tags, nil
}

// resolveTag fills a Tag from a reference, peeling annotated tag objects.
func (r *Repository) resolveTag(ref *plumbing.Reference) Tag {
	tag := Tag{Name: ref.Name().Short(), SHA: ref.Hash().String()}

	if obj, err := r.repo.TagObject(ref.Hash()); err == nil {
		tag.SHA = obj.Target.String()
		tag.Message = obj.Message
		tag.Date = obj.Tagger.When.Format("2006-01-02")
		return tag
	}

	if commit, err := r.repo.CommitObject(ref.Hash()); err == nil {
		tag.Date = commit.Committer.When.Format("2006-01-02")
	}
	return tag
}

// sortTags orders by descending semantic precedence; uncoercible names last.
func sortTags(tags []Tag) {
	parsed := make(map[string]*semver.Version, len(tags))
	for _, t := range tags {
		if v, err := semver.ParseTolerant(t.Name); err == nil {
			parsed[t.Name] = &v
		}
	}
	sort.SliceStable(tags, func(i, j int) bool {
		vi, vj := parsed[tags[i].Name], parsed[tags[j].Name]
		switch {
		case vi != nil && vj != nil:
			return vi.GT(*vj)
		case vi != nil:
			return true
		case vj != nil:
			return false
		}
		return tags[i].Name < tags[j].Name
	})
}

// HeadSHA returns the commit identifier HEAD resolves to.
func (r *Repository) HeadSHA() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	return head.Hash().String(), nil
}

// Log walks the history from HEAD, newest first, returning up to limit
// entries. limit <= 0 means unlimited.
func (r *Repository) Log(ctx context.Context, limit int) ([]LogEntry, error) {
	iter, err := r.repo.Log(&gogit.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("opening commit log: %w", err)
	}
	defer iter.Close()

	var entries []LogEntry
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		entries = append(entries, LogEntry{
			SHA:     c.Hash.String(),
			Message: c.Message,
			Date:    c.Committer.When.Format("2006-01-02"),
		})
		if limit > 0 && len(entries) >= limit {
			return storerStop
		}
		return nil
	})
	if err != nil && err != storerStop {
		return nil, fmt.Errorf("walking commit log: %w", err)
	}

	return entries, nil
}

// storerStop terminates the log walk early once the limit is reached.
var storerStop = fmt.Errorf("stop iteration")

// RangeMessages returns the messages of commits in (base, head], newest first,
// using the already-fetched log. An empty base means the walk runs to the
// start of history.
func RangeMessages(log []LogEntry, base, head string) []string {
	var messages []string
	collecting := head == ""

	for _, e := range log {
		if !collecting {
			if e.SHA == head {
				collecting = true
			} else {
				continue
			}
		}
		if base != "" && e.SHA == base {
			break
		}
		messages = append(messages, e.Message)
	}
	return messages
}
