package github

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Repository represents a GitHub repository as seen by the discovery pipeline.
type Repository struct {
	ID          int64
	FullName    string // owner/name
	Description string
	HTMLURL     string
	Language    string // empty when GitHub has not detected one
	Stars       int
	PushedAt    time.Time
	Archived    bool
}

// HasMeta reports whether the repository carries the metadata needed for
// quality filtering. Search results always do; lookups of empty
// repositories may not.
func (r Repository) HasMeta() bool {
	return r.ID != 0 && !r.PushedAt.IsZero()
}

// RepoRef identifies a repository by owner and name.
type RepoRef struct {
	Owner string
	Name  string
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepoRef parses either "owner/name" or a repository API URL such as
// "https://api.github.com/repos/owner/name", which is how issue search
// results point back at their repository.
func ParseRepoRef(s string) (RepoRef, error) {
	path := s
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return RepoRef{}, fmt.Errorf("invalid repository reference %q: %w", s, err)
		}
		path = u.Path
		idx := strings.LastIndex(path, "/repos/")
		if idx < 0 {
			return RepoRef{}, fmt.Errorf("invalid repository reference %q: missing /repos/ segment", s)
		}
		path = path[idx+len("/repos/"):]
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, fmt.Errorf("invalid repository reference %q (expected owner/name)", s)
	}

	return RepoRef{Owner: parts[0], Name: parts[1]}, nil
}

// Issue is the subset of an issue search result the pipeline uses: the
// repository it belongs to.
type Issue struct {
	Number int
	Title  string
	Repo   RepoRef
}

// SearchOptions controls sorting and pagination of a search request.
type SearchOptions struct {
	Sort    string // e.g. "stars", "updated"
	Order   string // "asc" or "desc"
	Page    int
	PerPage int
}

// RepositoryPage is one page of repository search results.
type RepositoryPage struct {
	Total        int // GitHub's estimate of total matches
	Incomplete   bool
	Repositories []Repository
}

// IssuePage is one page of issue search results.
type IssuePage struct {
	Total  int
	Issues []Issue
}
