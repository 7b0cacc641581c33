// Package github provides the GitHub API client used by the discovery pipeline.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	gh "github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the public GitHub REST API.
	DefaultBaseURL = "https://api.github.com/"

	defaultTimeout    = 15 * time.Second
	defaultRetryDelay = 500 * time.Millisecond
	maxRetryDelay     = 5 * time.Second
)

// ClientOptions configures the GitHub API client.
type ClientOptions struct {
	AuthToken  string        // optional; without it requests run at the anonymous quota
	BaseURL    string        // defaults to DefaultBaseURL
	Timeout    time.Duration // per-request timeout
	MaxRetries int           // extra attempts for transient failures
	RetryDelay time.Duration // initial backoff delay
	Logger     *slog.Logger
}

// Client wraps the go-github REST client.
type Client struct {
	gh         *gh.Client
	attempts   uint
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewClient creates a new GitHub API client with the given options.
func NewClient(opts ClientOptions) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := &http.Client{Timeout: timeout}
	if opts.AuthToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.AuthToken})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = timeout
	}

	client := gh.NewClient(httpClient)
	if opts.BaseURL != "" && opts.BaseURL != DefaultBaseURL {
		baseURL, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub client: invalid base URL %q: %w", opts.BaseURL, err)
		}
		if baseURL.Scheme == "" || baseURL.Host == "" {
			return nil, fmt.Errorf("failed to create GitHub client: base URL %q must be absolute", opts.BaseURL)
		}
		if !strings.HasSuffix(baseURL.Path, "/") {
			baseURL.Path += "/"
		}
		client.BaseURL = baseURL
	}

	if opts.MaxRetries < 0 {
		return nil, fmt.Errorf("failed to create GitHub client: max retries cannot be negative (got %d)", opts.MaxRetries)
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		gh:         client,
		attempts:   uint(opts.MaxRetries) + 1,
		retryDelay: retryDelay,
		logger:     logger,
	}, nil
}

// do runs fn, classifying its error and retrying transient failures with
// exponential backoff. Rejections and rate limits are returned immediately.
func (c *Client) do(ctx context.Context, operation string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return classify(err)
	}

	return retry.Do(
		func() error {
			return classify(fn())
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.MaxDelay(maxRetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("retrying GitHub request", "operation", operation, "attempt", n+1, "max_attempts", c.attempts, "error", err)
		}),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
	)
}

func searchOptions(opts SearchOptions) *gh.SearchOptions {
	return &gh.SearchOptions{
		Sort:  opts.Sort,
		Order: opts.Order,
		ListOptions: gh.ListOptions{
			Page:    opts.Page,
			PerPage: opts.PerPage,
		},
	}
}

// SearchRepositories runs a repository search and returns a single page.
func (c *Client) SearchRepositories(ctx context.Context, query string, opts SearchOptions) (RepositoryPage, error) {
	var result *gh.RepositoriesSearchResult
	err := c.do(ctx, "search repositories", func() error {
		var err error
		result, _, err = c.gh.Search.Repositories(ctx, query, searchOptions(opts))
		return err
	})
	if err != nil {
		return RepositoryPage{}, fmt.Errorf("failed to search repositories for %q: %w", query, err)
	}

	page := RepositoryPage{
		Total:        result.GetTotal(),
		Incomplete:   result.GetIncompleteResults(),
		Repositories: make([]Repository, 0, len(result.Repositories)),
	}
	for _, repo := range result.Repositories {
		page.Repositories = append(page.Repositories, convertRepository(repo))
	}

	return page, nil
}

// SearchIssues runs an issue search and returns a single page. Issues whose
// repository reference cannot be parsed are skipped.
func (c *Client) SearchIssues(ctx context.Context, query string, opts SearchOptions) (IssuePage, error) {
	var result *gh.IssuesSearchResult
	err := c.do(ctx, "search issues", func() error {
		var err error
		result, _, err = c.gh.Search.Issues(ctx, query, searchOptions(opts))
		return err
	})
	if err != nil {
		return IssuePage{}, fmt.Errorf("failed to search issues for %q: %w", query, err)
	}

	page := IssuePage{
		Total:  result.GetTotal(),
		Issues: make([]Issue, 0, len(result.Issues)),
	}
	for _, issue := range result.Issues {
		ref, err := ParseRepoRef(issue.GetRepositoryURL())
		if err != nil {
			c.logger.Debug("skipping issue without repository reference", "number", issue.GetNumber(), "error", err)
			continue
		}
		page.Issues = append(page.Issues, Issue{
			Number: issue.GetNumber(),
			Title:  issue.GetTitle(),
			Repo:   ref,
		})
	}

	return page, nil
}

// GetRepo fetches a single repository's metadata.
func (c *Client) GetRepo(ctx context.Context, ref RepoRef) (Repository, error) {
	var result *gh.Repository
	err := c.do(ctx, "get repository", func() error {
		var err error
		result, _, err = c.gh.Repositories.Get(ctx, ref.Owner, ref.Name)
		return err
	})
	if err != nil {
		return Repository{}, fmt.Errorf("failed to get repo %s: %w", ref, err)
	}

	return convertRepository(result), nil
}

func convertRepository(repo *gh.Repository) Repository {
	return Repository{
		ID:          repo.GetID(),
		FullName:    repo.GetFullName(),
		Description: repo.GetDescription(),
		HTMLURL:     repo.GetHTMLURL(),
		Language:    repo.GetLanguage(),
		Stars:       repo.GetStargazersCount(),
		PushedAt:    repo.GetPushedAt().Time,
		Archived:    repo.GetArchived(),
	}
}
