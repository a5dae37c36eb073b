// Package version locates predecessor versions within a set of release tags.
// Inputs are coerced tolerantly (leading "v", prerelease suffixes, partial
// versions) before comparison.
package version

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blang/semver/v4"
)

// Granularity selects which version line a lookup operates on.
type Granularity string

const (
	Major Granularity = "MAJOR"
	Minor Granularity = "MINOR"
	Patch Granularity = "PATCH"
)

func (g Granularity) valid() bool {
	return g == Major || g == Minor || g == Patch
}

// FindPrevious resolves the predecessor of target within versions at the given
// granularity.
//
// MAJOR and MINOR return the earliest release of the target's own major or
// minor line, not a predecessor in an earlier line; PATCH returns the true
// semantic predecessor. The asymmetry is deliberate and callers depend on it.
//
// Entries that do not coerce to a semantic version are discarded. The result
// is the canonical major.minor.patch form, re-prefixed with "v" when the
// target carried one. An empty string means no match; that is not an error.
// Errors are returned only for an unknown granularity or an uncoercible
// target.
func FindPrevious(versions []string, target string, granularity Granularity) (string, error) {
	if !granularity.valid() {
		return "", fmt.Errorf("unknown granularity %q (want MAJOR, MINOR, or PATCH)", granularity)
	}

	tv, err := semver.ParseTolerant(target)
	if err != nil {
		return "", fmt.Errorf("coercing target version %q: %w", target, err)
	}

	coerced := coerceAll(versions)
	if len(coerced) == 0 {
		return "", nil
	}
	sort.Slice(coerced, func(i, j int) bool { return coerced[i].LT(coerced[j]) })

	var match *semver.Version
	switch granularity {
	case Major:
		match = firstAtOrAbove(coerced, semver.Version{Major: tv.Major})
	case Minor:
		match = firstAtOrAbove(coerced, semver.Version{Major: tv.Major, Minor: tv.Minor})
	case Patch:
		match = predecessorOf(coerced, tv)
	}
	if match == nil {
		return "", nil
	}

	result := fmt.Sprintf("%d.%d.%d", match.Major, match.Minor, match.Patch)
	if strings.HasPrefix(target, "v") {
		return "v" + result, nil
	}
	return result, nil
}

// coerceAll parses every version tolerantly, dropping entries that do not
// coerce.
func coerceAll(versions []string) []semver.Version {
	out := make([]semver.Version, 0, len(versions))
	for _, raw := range versions {
		v, err := semver.ParseTolerant(raw)
		if err != nil {
			continue
		}
		// Comparison operates on the release triple only.
		out = append(out, semver.Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch})
	}
	return out
}

// firstAtOrAbove returns the earliest version >= floor, or nil.
func firstAtOrAbove(sorted []semver.Version, floor semver.Version) *semver.Version {
	for i := range sorted {
		if sorted[i].GTE(floor) {
			return &sorted[i]
		}
	}
	return nil
}

// predecessorOf returns the element immediately preceding target's position in
// the sorted sequence, or nil when the target would sort first. The position
// is the target's insertion point, so a target absent from the set still has a
// well-defined predecessor.
func predecessorOf(sorted []semver.Version, target semver.Version) *semver.Version {
	want := semver.Version{Major: target.Major, Minor: target.Minor, Patch: target.Patch}
	idx := len(sorted)
	for i := range sorted {
		if sorted[i].GTE(want) {
			idx = i
			break
		}
	}
	if idx == 0 {
		return nil
	}
	return &sorted[idx-1]
}
