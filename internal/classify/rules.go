package classify

import (
	"regexp"
	"strings"
)

// suffixKind selects which verb-conjugation suffixes a stem accepts.
type suffixKind int

const (
	// plain stems take an optional s/es/ed/ing suffix ("add" -> adds, added, adding).
	plain suffixKind = iota
	// dropE stems end where a trailing 'e' was dropped ("creat" -> create, creates, created, creating).
	dropE
	// dropY stems end where a trailing 'y' was dropped ("simplif" -> simplify, simplifies, simplified, simplifying).
	dropY
	// literal stems match exactly, with no suffix ("bug fix").
	literal
)

type stem struct {
	text string
	kind suffixKind
}

func verb(s string) stem  { return stem{text: s, kind: plain} }
func verbE(s string) stem { return stem{text: s, kind: dropE} }
func verbY(s string) stem { return stem{text: s, kind: dropY} }
func term(s string) stem  { return stem{text: s, kind: literal} }

// pattern renders one stem as a regexp alternative.
func (s stem) pattern() string {
	q := regexp.QuoteMeta(s.text)
	switch s.kind {
	case plain:
		return q + `(?:e?s|ed|ing)?`
	case dropE:
		return q + `(?:e|es|ed|ing)`
	case dropY:
		return q + `(?:y|ies|ied|ying)`
	}
	return q
}

func alternation(stems []stem) string {
	parts := make([]string, len(stems))
	for i, s := range stems {
		parts[i] = s.pattern()
	}
	return strings.Join(parts, "|")
}

// startsWith compiles a predicate matching messages that begin with one of the
// stems at a word boundary, ignoring case and leading non-word characters.
func startsWith(stems ...stem) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\W*(?:` + alternation(stems) + `)\b`)
}

// contains compiles a predicate matching messages that carry one of the stems
// anywhere, bounded on both sides by word boundaries, ignoring case.
func contains(stems ...stem) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:` + alternation(stems) + `)\b`)
}

// versionString matches a message that is, in its entirety, a semantic version.
var versionString = regexp.MustCompile(`(?i)^\s*v?\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?\s*$`)

// rule is one predicate -> result pair of the cascade.
type rule struct {
	name   string
	match  func(string) bool
	result Result
}

func re(r *regexp.Regexp) func(string) bool {
	return r.MatchString
}

// cascade is the ordered rule table. Evaluation is strictly top to bottom and
// the first match wins, so specific rules must stay above the generic
// catch-alls they shadow: "bug fix" is a fix indicator long before the bare
// "fix" fallback, and build/version detection sits above the generic "version"
// chore fallback. Reordering entries changes classification results.
var cascade = []rule{
	// Merge commits trump everything.
	{"merge", re(startsWith(term("merge"))), Result{Type: "merge"}},

	// Documentation keywords.
	{"docs-terms", re(contains(term("doc"), term("docs"), term("documentation"), term("readme"), term("changelog"), term("license"))), Result{Type: "docs"}},

	// CI tool names.
	{"ci-terms", re(contains(term("ci"), term("travis"), term("jenkins"), term("circleci"), term("appveyor"), term("workflow"), term("pipeline"))), Result{Type: "ci"}},

	// First fix pass: fix-indicating verbs and phrases.
	{"fix-verbs", re(startsWith(verb("revert"), verb("prevent"))), Result{Type: "fix"}},
	{"fix-terms", re(contains(term("typo"), term("typos"), term("bug fix"), term("bugfix"), term("hotfix"))), Result{Type: "fix"}},

	// First chore pass: housekeeping verbs.
	{"chore-verbs", re(startsWith(verb("bump"), verbE("ignor"), verb("cleanup"), verbE("renam"), verbE("upgrad"), verb("init"))), Result{Type: "chore"}},

	// Performance verbs.
	{"perf-verbs", re(startsWith(verbE("cach"), verbE("optimiz"), verbE("optimis"))), Result{Type: "perf"}},

	// Test frameworks and keywords; the bare "tests" word is a late fallback.
	{"test-terms", re(contains(term("unit test"), term("unit tests"), term("e2e"), term("testing"), term("coverage"), term("jest"), term("mocha"), term("jasmine"), term("karma"), term("pytest"), term("phpunit"))), Result{Type: "test"}},

	// Style and lint tooling.
	{"style-terms", re(contains(term("lint"), term("linting"), term("linter"), term("eslint"), term("tslint"), term("stylelint"), term("prettier"), term("gofmt"), term("whitespace"), term("indentation"), term("formatting"), term("style"))), Result{Type: "style"}},

	// Build tools, package managers, and version strings. Must precede the
	// generic "version" chore fallback.
	{"build-terms", re(contains(term("webpack"), term("rollup"), term("gulp"), term("grunt"), term("makefile"), term("dockerfile"), term("docker"), term("npm"), term("yarn"), term("gradle"), term("maven"), term("composer"))), Result{Type: "build"}},
	{"build-version-string", versionString.MatchString, Result{Type: "build"}},

	// Refactor verbs.
	{"refactor-verbs", re(startsWith(verb("convert"), verbE("improv"), verbE("mov"), verb("refactor"), verbE("replac"), verbY("simplif"), verb("switch"), verbY("tid"))), Result{Type: "refactor"}},

	// Second fix pass: the generic fix stem and log-statement mentions.
	{"fix-generic", re(startsWith(verb("fix"))), Result{Type: "fix"}},
	{"fix-log-terms", re(contains(term("log"), term("logs"), term("logging"))), Result{Type: "fix"}},

	// Second chore pass: the generic update stem.
	{"chore-update", re(startsWith(verbE("updat"))), Result{Type: "chore"}},

	// Feature verbs, split by subtype.
	{"feat-add-verbs", re(featAdd), Result{Type: "feat", SubType: "add"}},
	{"feat-change-verbs", re(featChange), Result{Type: "feat", SubType: "change"}},
	{"feat-remove-verbs", re(featRemove), Result{Type: "feat", SubType: "remove"}},

	// Bare-word catch-alls for text nothing above claimed.
	{"fallback-build", re(contains(term("build"))), Result{Type: "build"}},
	{"fallback-version", re(contains(term("version"), term("versions"), term("upgrade"))), Result{Type: "chore"}},
	{"fallback-tests", re(contains(term("test"), term("tests"))), Result{Type: "test"}},
	{"fallback-fix", re(contains(term("fix"), term("fixes"), term("fixed"))), Result{Type: "fix"}},
	{"fallback-clean", re(contains(term("clean"))), Result{Type: "chore"}},
}

// Subtype predicates, also used alone when the commit already declared a
// conventional feat type.
var (
	featAdd    = startsWith(verb("add"), verb("allow"), verbE("creat"), verbE("enabl"), verb("implement"), verbE("includ"), verbE("incorporat"), verb("install"), verbE("introduc"), verb("support"))
	featChange = startsWith(verb("adjust"), verb("append"), verbE("chang"), verb("extend"), verbE("hid"), verbE("mak"), verbY("modif"), verb("tweak"))
	featRemove = startsWith(verbE("delet"), verbE("deprecat"), verbE("disabl"), verbE("remov"), verb("uninstall"))
)
