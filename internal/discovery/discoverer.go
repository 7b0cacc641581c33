// Package discovery finds open-source repositories that offer contribution
// opportunities, degrading through progressively looser search strategies
// when GitHub refuses or under-delivers.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jparise/gh-discover/internal/github"
	"github.com/jparise/gh-discover/internal/timeparse"
)

const (
	DefaultMinStars         = 100
	DefaultPushedWithin     = 365 * 24 * time.Hour
	DefaultMaxResolvedRepos = 200
	DefaultJobs             = 10
)

// Searcher is the subset of the GitHub client the pipeline depends on.
type Searcher interface {
	SearchRepositories(ctx context.Context, query string, opts github.SearchOptions) (github.RepositoryPage, error)
	SearchIssues(ctx context.Context, query string, opts github.SearchOptions) (github.IssuePage, error)
	GetRepo(ctx context.Context, ref github.RepoRef) (github.Repository, error)
}

// Options configures a Discoverer. Zero values select the defaults.
type Options struct {
	MinStars     int
	PushedWithin time.Duration
	// PushedSince is an absolute push-date floor. It takes precedence over
	// PushedWithin when set.
	PushedSince time.Time
	// MaxResolvedRepos bounds how many repositories referenced by bounty
	// issues are looked up per request.
	MaxResolvedRepos int
	// Jobs bounds concurrent repository lookups.
	Jobs int
	// Exclude holds doublestar patterns matched against owner/name.
	Exclude []string
	Logger  *slog.Logger
	Now     func() time.Time
}

// Discoverer runs discovery requests. It is safe for concurrent use.
type Discoverer struct {
	client       Searcher
	minStars     int
	pushedWithin time.Duration
	pushedSince  time.Time
	maxResolved  int
	jobs         int
	excludes     []string
	logger       *slog.Logger
	now          func() time.Time
}

// New creates a Discoverer backed by client.
func New(client Searcher, opts Options) (*Discoverer, error) {
	if client == nil {
		return nil, errors.New("discovery: nil client")
	}
	if opts.MinStars < 0 {
		return nil, fmt.Errorf("min stars must not be negative, got %d", opts.MinStars)
	}
	if opts.PushedWithin < 0 {
		return nil, fmt.Errorf("pushed-within window must not be negative, got %s", opts.PushedWithin)
	}
	if opts.MaxResolvedRepos < 0 {
		return nil, fmt.Errorf("max resolved repositories must not be negative, got %d", opts.MaxResolvedRepos)
	}
	if opts.Jobs < 0 {
		return nil, fmt.Errorf("jobs must not be negative, got %d", opts.Jobs)
	}

	excludes := make([]string, 0, len(opts.Exclude))
	for _, pattern := range opts.Exclude {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
		excludes = append(excludes, pattern)
	}

	d := &Discoverer{
		client:       client,
		minStars:     opts.MinStars,
		pushedWithin: opts.PushedWithin,
		pushedSince:  opts.PushedSince,
		maxResolved:  opts.MaxResolvedRepos,
		jobs:         opts.Jobs,
		excludes:     excludes,
		logger:       opts.Logger,
		now:          opts.Now,
	}
	if d.minStars == 0 {
		d.minStars = DefaultMinStars
	}
	if d.pushedWithin == 0 {
		d.pushedWithin = DefaultPushedWithin
	}
	if d.maxResolved == 0 {
		d.maxResolved = DefaultMaxResolvedRepos
	}
	if d.jobs == 0 {
		d.jobs = DefaultJobs
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d, nil
}

// Discover returns one page of repositories for intent. It never fails: when
// every strategy is exhausted the page is empty and carries an error
// message instead.
func (d *Discoverer) Discover(ctx context.Context, intent Intent) Page {
	logger := d.log(ctx).With("filter", string(intent.Filter), "language", intent.Language, "page", intent.Page)

	// GitHub will not serve results past its window, so there is nothing
	// to ask for.
	if intent.beyondWindow() {
		logger.Debug("page is beyond the search result window")
		return emptyPage()
	}

	plan := d.plan(intent)
	c, tierName, err := d.cascade(ContextWithLogger(ctx, logger), d.tiers(intent, plan))
	if err != nil {
		logger.Warn("discovery exhausted", "error", err)
		page := emptyPage()
		page.Error = err.Error()
		return page
	}

	page := paginate(c, intent.Page, intent.PerPage)
	page.Tier = tierName
	logger.Info("discovery complete", "tier", tierName, "items", len(page.Items), "total", page.TotalCount, "has_more", page.HasMore)
	return page
}

// pushedFloor is the earliest push date a repository may have to count as
// actively maintained.
func (d *Discoverer) pushedFloor() time.Time {
	if !d.pushedSince.IsZero() {
		return d.pushedSince
	}
	return timeparse.Floor(d.now(), d.pushedWithin)
}

type loggerKey struct{}

// ContextWithLogger returns a context carrying a request-scoped logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func (d *Discoverer) log(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return d.logger
}
