package discovery

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/jparise/gh-discover/internal/github"
	"github.com/jparise/gh-discover/internal/qualifier"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// perQuery is the page size of searches whose results are collected in
// full and paginated locally. 100 is GitHub's maximum.
const perQuery = 100

// bountySignalTier finds open issues that advertise a bounty and ranks the
// repositories they belong to.
func (d *Discoverer) bountySignalTier(intent Intent, sets []qualifier.Set) func(context.Context) (candidates, error) {
	return func(ctx context.Context) (candidates, error) {
		logger := d.log(ctx)

		refs, err := d.issueRepos(ctx, sets)
		if err != nil {
			return candidates{}, err
		}
		if len(refs) == 0 {
			return candidates{local: true}, nil
		}

		repos := d.resolve(ctx, refs)
		repos = filterByMeta(repos)
		repos = d.refine(repos, intent.Language)

		repos, rung := Relax(repos, QualityLadder(d.minStars, d.pushedFloor()))
		logger.Debug("bounty signal resolved", "referenced", len(refs), "kept", len(repos), "rung", rung)

		return candidates{repos: repos, local: true}, nil
	}
}

// issueRepos runs the issue searches in parallel and returns the distinct
// repositories they reference, in first-seen order and capped at the
// resolution limit. It fails only when every search failed.
func (d *Discoverer) issueRepos(ctx context.Context, sets []qualifier.Set) ([]github.RepoRef, error) {
	pages := make([]github.IssuePage, len(sets))
	errs := make([]error, len(sets))

	var g errgroup.Group
	for i, set := range sets {
		g.Go(func() error {
			pages[i], errs[i] = d.client.SearchIssues(ctx, set.String(), github.SearchOptions{
				Sort:    "updated",
				Order:   "desc",
				Page:    1,
				PerPage: perQuery,
			})
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			d.log(ctx).Warn("issue search failed", "query", sets[i].String(), "error", err)
		}
	}
	if failed == len(sets) {
		return nil, errors.Join(errs...)
	}

	seen := make(map[github.RepoRef]struct{})
	var refs []github.RepoRef
	for i, page := range pages {
		if errs[i] != nil {
			continue
		}
		for _, issue := range page.Issues {
			if _, ok := seen[issue.Repo]; ok {
				continue
			}
			if len(refs) >= d.maxResolved {
				return refs, nil
			}
			seen[issue.Repo] = struct{}{}
			refs = append(refs, issue.Repo)
		}
	}
	return refs, nil
}

// resolve fetches full metadata for each reference with bounded
// parallelism. References that cannot be fetched are dropped; the rest keep
// their input order.
func (d *Discoverer) resolve(ctx context.Context, refs []github.RepoRef) []github.Repository {
	results := make([]github.Repository, len(refs))
	found := make([]bool, len(refs))

	var wg sync.WaitGroup
	var failures atomic.Int32
	sem := semaphore.NewWeighted(int64(d.jobs))

	for i, ref := range refs {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			repo, err := d.client.GetRepo(ctx, ref)
			if err != nil {
				failures.Add(1)
				d.log(ctx).Debug("repository lookup failed", "repo", ref.String(), "error", err)
				return
			}
			results[i] = repo
			found[i] = true
		}()
	}

	wg.Wait()

	if n := failures.Load(); n > 0 {
		d.log(ctx).Warn("some repository lookups failed", "failed", n, "total", len(refs))
	}

	repos := make([]github.Repository, 0, len(refs))
	for i, ok := range found {
		if ok {
			repos = append(repos, results[i])
		}
	}
	return repos
}

// bountyHeuristicTier approximates the bounty signal with simple repository
// searches. It is entered when issue search was refused outright.
func (d *Discoverer) bountyHeuristicTier(intent Intent, sets []qualifier.Set) func(context.Context) (candidates, error) {
	return func(ctx context.Context) (candidates, error) {
		queries := make([]string, 0, len(sets))
		for _, set := range sets {
			queries = append(queries, set.String())
		}

		pages, err := d.searchAll(ctx, queries, github.SearchOptions{
			Sort:    "stars",
			Order:   "desc",
			Page:    1,
			PerPage: perQuery,
		})
		if err != nil {
			return candidates{}, err
		}

		lists := make([][]github.Repository, 0, len(pages))
		for _, page := range pages {
			lists = append(lists, page.Repositories)
		}

		return candidates{
			repos: d.refine(Merge(lists...), intent.Language),
			local: true,
		}, nil
	}
}
