// Package qualifier builds GitHub search query strings from ordered sets of
// qualifiers.
//
// GitHub's search syntax is picky: it has no OR across repository-level
// qualifiers such as good-first-issues and help-wanted-issues, and mixing
// free text with label predicates in one expression is prone to 422
// rejections. The constructors here therefore return several small sets
// rather than one clever query.
package qualifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/jparise/gh-discover/internal/timeparse"
)

// Set is an ordered list of search predicates, e.g. "stars:>=100".
type Set []string

// String joins the predicates into a single query string.
func (s Set) String() string {
	return strings.Join(s, " ")
}

// With returns a copy of s with extra predicates appended. s is never
// modified, so base sets can be shared between queries.
func (s Set) With(predicates ...string) Set {
	out := make(Set, 0, len(s)+len(predicates))
	out = append(out, s...)
	for _, p := range predicates {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Options are the quality thresholds and optional language shared by
// repository-level queries.
type Options struct {
	Language    string
	MinStars    int
	PushedSince time.Time
}

// Language returns the language predicate, or "" when language is empty.
func Language(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return ""
	}
	if strings.ContainsAny(language, " \t") {
		return fmt.Sprintf("language:%q", language)
	}
	return "language:" + language
}

// Base returns the qualifiers every repository-level query starts from:
// public, not archived, a star floor and a push-date floor, plus the
// language when one is requested.
func Base(opts Options) Set {
	set := Set{
		"is:public",
		"archived:false",
		fmt.Sprintf("stars:>=%d", opts.MinStars),
	}
	if !opts.PushedSince.IsZero() {
		set = append(set, "pushed:>="+timeparse.FormatDate(opts.PushedSince))
	}
	return set.With(Language(opts.Language))
}

// GoodFirstIssue returns two repository queries: one for repositories with
// open good-first-issues and one for repositories with open
// help-wanted-issues.
func GoodFirstIssue(opts Options) []Set {
	base := Base(opts)
	return []Set{
		base.With("good-first-issues:>0"),
		base.With("help-wanted-issues:>0"),
	}
}

// bountyTerms are the free-text signals searched in issue titles and bodies.
var bountyTerms = []string{
	"bounty",
	`"$50"`,
	`"$100"`,
	`"$250"`,
	`"$500"`,
	`"$1000"`,
	"algora",
	"gitcoin",
	"issuehunt",
	"opire",
}

// bountyLabels are explicit bounty-style labels; label:a,b matches either.
var bountyLabels = []string{
	"bounty",
	`"💎 Bounty"`,
	`"bounty 💰"`,
	"paid",
	"reward",
}

func bountyText() string {
	return strings.Join(bountyTerms, " OR ")
}

// BountySignals returns the two issue-level queries used to find bounty
// issues: a free-text disjunction over titles and bodies, and an explicit
// label match. They are kept separate so a rejection of one does not take
// the other down.
func BountySignals(language string) []Set {
	issue := Set{"is:issue", "is:open", "archived:false"}
	return []Set{
		issue.With(bountyText(), "in:title,body", Language(language)),
		issue.With("label:"+strings.Join(bountyLabels, ","), Language(language)),
	}
}

// BountyHeuristics returns independent, syntactically simple repository
// queries that approximate the bounty signal when issue search is refused.
func BountyHeuristics(language string) []Set {
	base := Set{"is:public", "archived:false"}
	lang := Language(language)
	return []Set{
		base.With("topic:bounty", lang),
		base.With("topic:bounties", lang),
		base.With("bounty", "in:readme", lang),
		base.With("bounty", "in:description", lang),
	}
}

// BountyBroad returns the most permissive repository query: the free-text
// bounty signal and nothing else besides the language.
func BountyBroad(language string) Set {
	return Set{"bounty", "in:name,description,readme"}.With(Language(language))
}
