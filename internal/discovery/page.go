package discovery

import (
	"time"

	"github.com/jparise/gh-discover/internal/github"
)

// Item is a repository as rendered to callers.
type Item struct {
	ID          int64      `json:"id"`
	FullName    string     `json:"full_name"`
	Language    *string    `json:"language"`
	Description string     `json:"description,omitempty"`
	HTMLURL     string     `json:"html_url,omitempty"`
	Stars       int        `json:"stargazers_count"`
	PushedAt    *time.Time `json:"pushed_at,omitempty"`
}

func newItem(repo github.Repository) Item {
	item := Item{
		ID:          repo.ID,
		FullName:    repo.FullName,
		Description: repo.Description,
		HTMLURL:     repo.HTMLURL,
		Stars:       repo.Stars,
	}
	if repo.Language != "" {
		language := repo.Language
		item.Language = &language
	}
	if !repo.PushedAt.IsZero() {
		pushedAt := repo.PushedAt
		item.PushedAt = &pushedAt
	}
	return item
}

// Page is the result of a discovery request.
//
// An empty Items with HasMore false is a normal response. Error is set only
// when every search strategy for the filter was exhausted.
type Page struct {
	Items      []Item `json:"items"`
	HasMore    bool   `json:"hasMore"`
	TotalCount int    `json:"totalCount"`
	Error      string `json:"error,omitempty"`

	// Tier names the strategy that produced the page.
	Tier string `json:"-"`
}

func emptyPage() Page {
	return Page{Items: []Item{}}
}
