package discovery

import (
	"context"

	"github.com/jparise/gh-discover/internal/github"
	"github.com/jparise/gh-discover/internal/qualifier"
)

// repoSearchTier searches repositories directly, letting GitHub paginate.
// Results of parallel queries are merged page by page, so a page may hold
// fewer than perPage distinct repositories when the queries overlap. The
// merged page is truncated to perPage, and repositories cut from page N
// are not carried onto page N+1, which fetches the next upstream pages.
func (d *Discoverer) repoSearchTier(intent Intent, sets []qualifier.Set) func(context.Context) (candidates, error) {
	return func(ctx context.Context) (candidates, error) {
		queries := make([]string, 0, len(sets))
		for _, set := range sets {
			queries = append(queries, set.String())
		}

		pages, err := d.searchAll(ctx, queries, github.SearchOptions{
			Sort:    "stars",
			Order:   "desc",
			Page:    intent.Page,
			PerPage: intent.PerPage,
		})
		if err != nil {
			return candidates{}, err
		}

		total := 0
		lists := make([][]github.Repository, 0, len(pages))
		for _, page := range pages {
			total += page.Total
			lists = append(lists, page.Repositories)
		}

		return candidates{
			repos: d.refine(Merge(lists...), intent.Language),
			total: total,
		}, nil
	}
}
