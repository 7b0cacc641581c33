package discovery

import "github.com/jparise/gh-discover/internal/github"

// candidates is what a tier hands to the paginator.
type candidates struct {
	repos []github.Repository
	// total is the size of the result space the repos were drawn from.
	total int
	// local is true when repos holds the whole result space and the
	// requested page must be sliced out of it. Otherwise the upstream
	// search already applied the page offset and repos is that page.
	local bool
}

// paginate cuts the requested page out of a tier's candidates.
func paginate(c candidates, page, perPage int) Page {
	var window []github.Repository
	total := c.total

	if c.local {
		total = len(c.repos)
		if page-1 < (len(c.repos)+perPage-1)/perPage {
			start := (page - 1) * perPage
			end := min(start+perPage, len(c.repos))
			window = c.repos[start:end]
		}
	} else {
		window = c.repos[:min(perPage, len(c.repos))]
	}

	items := make([]Item, 0, len(window))
	for _, repo := range window {
		items = append(items, newItem(repo))
	}

	return Page{
		Items:      items,
		HasMore:    hasMore(page, perPage, total, len(items)),
		TotalCount: total,
	}
}

// hasMore reports whether another page can be requested: the result space,
// capped at GitHub's result window, extends past this page and this page
// came back full.
func hasMore(page, perPage, total, count int) bool {
	return page <= (min(total, ResultWindowCap)-1)/perPage && count == perPage
}
