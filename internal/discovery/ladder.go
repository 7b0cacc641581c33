package discovery

import (
	"time"

	"github.com/jparise/gh-discover/internal/github"
)

// Rung is one quality predicate on a relaxation ladder.
type Rung struct {
	Name string
	Keep func(github.Repository) bool
}

// Unfiltered names the result of a ladder whose every rung came up empty.
const Unfiltered = "unfiltered"

// Relax applies rungs in order, strictest first, and returns the first
// non-empty result together with the name of the rung that produced it.
// When every rung filters everything out, the input is returned unchanged.
func Relax(repos []github.Repository, rungs []Rung) ([]github.Repository, string) {
	for _, rung := range rungs {
		kept := make([]github.Repository, 0, len(repos))
		for _, repo := range repos {
			if rung.Keep(repo) {
				kept = append(kept, repo)
			}
		}
		if len(kept) > 0 {
			return kept, rung.Name
		}
	}
	return repos, Unfiltered
}

// QualityLadder requires popularity and freshness, then popularity alone.
func QualityLadder(minStars int, pushedSince time.Time) []Rung {
	return []Rung{
		{
			Name: "stars+recency",
			Keep: func(r github.Repository) bool {
				return r.Stars >= minStars && !r.PushedAt.Before(pushedSince)
			},
		},
		{
			Name: "stars",
			Keep: func(r github.Repository) bool {
				return r.Stars >= minStars
			},
		},
	}
}
