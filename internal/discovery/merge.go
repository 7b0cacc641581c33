package discovery

import "github.com/jparise/gh-discover/internal/github"

// Merge concatenates lists of repositories and drops repeated IDs, keeping
// the first occurrence in first-seen order. Later duplicates never replace
// an earlier entry, so callers merge their most complete source first.
func Merge(lists ...[]github.Repository) []github.Repository {
	n := 0
	for _, list := range lists {
		n += len(list)
	}

	seen := make(map[int64]struct{}, n)
	merged := make([]github.Repository, 0, n)
	for _, list := range lists {
		for _, repo := range list {
			if _, ok := seen[repo.ID]; ok {
				continue
			}
			seen[repo.ID] = struct{}{}
			merged = append(merged, repo)
		}
	}
	return merged
}
