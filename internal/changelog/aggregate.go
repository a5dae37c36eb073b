package changelog

import (
	"fmt"
	"strings"

	"github.com/blang/semver/v4"
)

// Aggregation granularities. Tag-level releases collapse into one bucket per
// minor line, or per major line.
const (
	GranularityMinor = "minor"
	GranularityMajor = "major"
)

// releaseAccumulator builds one aggregated bucket. Names and dates collect in
// iteration order and are joined only once accumulation is complete.
type releaseAccumulator struct {
	release *Release
	names   []string
	dates   []string
}

// GroupReleases collapses fine-grained tag releases into coarser buckets keyed
// by "major.minor" (or "major"). Releases whose tags do not coerce to a
// semantic version are dropped. Within a bucket, names, dates, messages and
// per-type commit lists accumulate in the order the releases were given.
// Granularity defaults to minor.
func GroupReleases(releases []*Release, granularity string) []*Release {
	if granularity == "" {
		granularity = GranularityMinor
	}

	var keys []string
	buckets := make(map[string]*releaseAccumulator)

	for _, r := range releases {
		v, err := semver.ParseTolerant(r.Tag)
		if err != nil {
			continue
		}

		key := fmt.Sprintf("%d.%d", v.Major, v.Minor)
		if granularity == GranularityMajor {
			key = fmt.Sprintf("%d", v.Major)
		}

		acc, ok := buckets[key]
		if !ok {
			acc = &releaseAccumulator{release: &Release{Tag: key, Commits: NewGroupSet()}}
			buckets[key] = acc
			keys = append(keys, key)
		}
		acc.add(r)
	}

	out := make([]*Release, 0, len(keys))
	for _, key := range keys {
		out = append(out, buckets[key].finish())
	}
	return out
}

func (a *releaseAccumulator) add(r *Release) {
	if r.Name != "" {
		a.names = append(a.names, r.Name)
	}
	if r.Date != "" {
		a.dates = append(a.dates, r.Date)
	}
	a.release.Messages = append(a.release.Messages, r.Messages...)

	if r.Commits != nil {
		for _, key := range r.Commits.Keys() {
			for _, c := range r.Commits.Get(key) {
				a.release.Commits.Add(key, c)
			}
		}
	}
}

func (a *releaseAccumulator) finish() *Release {
	a.release.Name = strings.Join(a.names, ", ")
	a.release.Date = strings.Join(a.dates, ", ")
	return a.release
}
