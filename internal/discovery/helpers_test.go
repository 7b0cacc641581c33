package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jparise/gh-discover/internal/github"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// stubSearcher records calls and answers them with the configured funcs.
// A nil func answers with an empty result.
type stubSearcher struct {
	searchRepos  func(query string, opts github.SearchOptions) (github.RepositoryPage, error)
	searchIssues func(query string, opts github.SearchOptions) (github.IssuePage, error)
	getRepo      func(ref github.RepoRef) (github.Repository, error)

	mu           sync.Mutex
	repoQueries  []string
	repoOpts     []github.SearchOptions
	issueQueries []string
	lookups      []string
}

func (s *stubSearcher) SearchRepositories(_ context.Context, query string, opts github.SearchOptions) (github.RepositoryPage, error) {
	s.mu.Lock()
	s.repoQueries = append(s.repoQueries, query)
	s.repoOpts = append(s.repoOpts, opts)
	s.mu.Unlock()

	if s.searchRepos == nil {
		return github.RepositoryPage{}, nil
	}
	return s.searchRepos(query, opts)
}

func (s *stubSearcher) SearchIssues(_ context.Context, query string, opts github.SearchOptions) (github.IssuePage, error) {
	s.mu.Lock()
	s.issueQueries = append(s.issueQueries, query)
	s.mu.Unlock()

	if s.searchIssues == nil {
		return github.IssuePage{}, nil
	}
	return s.searchIssues(query, opts)
}

func (s *stubSearcher) GetRepo(_ context.Context, ref github.RepoRef) (github.Repository, error) {
	s.mu.Lock()
	s.lookups = append(s.lookups, ref.String())
	s.mu.Unlock()

	if s.getRepo == nil {
		return github.Repository{}, fmt.Errorf("%w: %s", github.ErrNotFound, ref)
	}
	return s.getRepo(ref)
}

func (s *stubSearcher) queriesContaining(substr string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, q := range s.repoQueries {
		if strings.Contains(q, substr) {
			n++
		}
	}
	return n
}

func newTestDiscoverer(t *testing.T, client Searcher, opts Options) *Discoverer {
	t.Helper()

	opts.Now = func() time.Time { return testNow }
	d, err := New(client, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d
}

func newTestIntent(t *testing.T, filter, language string, page, perPage int) Intent {
	t.Helper()

	intent, err := NewIntent(filter, language, page, perPage)
	if err != nil {
		t.Fatalf("NewIntent() error = %v", err)
	}
	return intent
}

// repo builds a repository with full metadata, pushed daysAgo before testNow.
func repo(id int64, fullName, language string, stars, daysAgo int) github.Repository {
	return github.Repository{
		ID:       id,
		FullName: fullName,
		HTMLURL:  "https://github.com/" + fullName,
		Language: language,
		Stars:    stars,
		PushedAt: testNow.AddDate(0, 0, -daysAgo),
	}
}

func issueIn(fullName string) github.Issue {
	ref, err := github.ParseRepoRef(fullName)
	if err != nil {
		panic(err)
	}
	return github.Issue{Number: 1, Title: "bounty", Repo: ref}
}

func itemNames(items []Item) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.FullName)
	}
	return names
}

func repoNames(repos []github.Repository) []string {
	names := make([]string, 0, len(repos))
	for _, r := range repos {
		names = append(names, r.FullName)
	}
	return names
}

func rejected(what string) error {
	return fmt.Errorf("%w: %s", github.ErrRejected, what)
}

func unavailable(what string) error {
	return fmt.Errorf("%w: %s", github.ErrUnavailable, what)
}
