package discovery

import (
	"cmp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jparise/gh-discover/internal/github"
)

// filterByLanguage keeps repositories whose primary language matches,
// ignoring case. GitHub's language qualifier is not exact (it also matches
// secondary languages), so every tier applies this after searching.
func filterByLanguage(repos []github.Repository, language string) []github.Repository {
	if language == "" {
		return repos
	}

	filtered := make([]github.Repository, 0, len(repos))
	for _, repo := range repos {
		if strings.EqualFold(repo.Language, language) {
			filtered = append(filtered, repo)
		}
	}
	return filtered
}

// filterByExcludes drops repositories whose owner/name matches any of the
// (lowercase) doublestar patterns.
func filterByExcludes(repos []github.Repository, excludes []string) []github.Repository {
	if len(excludes) == 0 {
		return repos
	}

	filtered := make([]github.Repository, 0, len(repos))
	for _, repo := range repos {
		name := strings.ToLower(repo.FullName)
		excluded := false
		for _, pattern := range excludes {
			// Patterns are validated when the Discoverer is built.
			if ok, _ := doublestar.Match(pattern, name); ok {
				excluded = true
				break
			}
		}
		if !excluded {
			filtered = append(filtered, repo)
		}
	}
	return filtered
}

// filterByMeta drops repositories that lack the metadata quality filtering
// relies on.
func filterByMeta(repos []github.Repository) []github.Repository {
	filtered := make([]github.Repository, 0, len(repos))
	for _, repo := range repos {
		if repo.HasMeta() {
			filtered = append(filtered, repo)
		}
	}
	return filtered
}

// sortByStars orders repositories by star count, most starred first. Ties
// are broken by ascending ID so repeated requests paginate identically.
func sortByStars(repos []github.Repository) {
	slices.SortStableFunc(repos, func(a, b github.Repository) int {
		if c := cmp.Compare(b.Stars, a.Stars); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// refine applies the caller-facing filters and the final ordering.
func (d *Discoverer) refine(repos []github.Repository, language string) []github.Repository {
	repos = filterByLanguage(repos, language)
	repos = filterByExcludes(repos, d.excludes)
	sortByStars(repos)
	return repos
}
