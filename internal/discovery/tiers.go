package discovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/jparise/gh-discover/internal/github"
	"github.com/jparise/gh-discover/internal/qualifier"
	"golang.org/x/sync/errgroup"
)

// outcome is how an attempted tier ended without producing results.
type outcome int

const (
	outcomeNone outcome = iota
	outcomeFailed
	outcomeEmpty
)

func (o outcome) String() string {
	switch o {
	case outcomeFailed:
		return "failed"
	case outcomeEmpty:
		return "empty"
	default:
		return "none"
	}
}

// tier is one search strategy. Every tier after the first is entered only
// when the previously attempted tier ended with enteredOn.
type tier struct {
	name      string
	enteredOn outcome
	run       func(ctx context.Context) (candidates, error)
}

var (
	// ErrExhausted is returned when no tier produced results.
	ErrExhausted = errors.New("all search strategies exhausted")
)

// cascade runs tiers in order until one produces a non-empty candidate set.
// An empty result from a lone tier is returned as is. Exhaustion is only
// reported when a tier failed or every fallback came back empty.
func (d *Discoverer) cascade(ctx context.Context, tiers []tier) (candidates, string, error) {
	logger := d.log(ctx)
	last := outcomeNone
	var lastErr error

	for i, t := range tiers {
		if i > 0 && t.enteredOn != last {
			logger.Debug("skipping tier", "tier", t.name, "previous", last.String())
			continue
		}

		c, err := t.run(ctx)
		switch {
		case err != nil:
			logger.Warn("tier failed", "tier", t.name, "error", err)
			last, lastErr = outcomeFailed, err
		case len(c.repos) == 0 && len(tiers) == 1:
			// A filter without fallbacks has simply found nothing.
			logger.Info("tier returned no repositories", "tier", t.name)
			return c, t.name, nil
		case len(c.repos) == 0:
			logger.Info("tier returned no repositories", "tier", t.name)
			last = outcomeEmpty
		default:
			return c, t.name, nil
		}

		if ctx.Err() != nil {
			return candidates{}, "", fmt.Errorf("%w: %w", ErrExhausted, ctx.Err())
		}
	}

	if last == outcomeFailed {
		return candidates{}, "", fmt.Errorf("%w: search unavailable: %w", ErrExhausted, lastErr)
	}
	return candidates{}, "", fmt.Errorf("%w: no repositories found", ErrExhausted)
}

func (d *Discoverer) tiers(intent Intent, plan queryPlan) []tier {
	switch intent.Filter {
	case FilterGoodFirstIssue:
		return []tier{{name: "good-first-issue", run: d.repoSearchTier(intent, plan.repos)}}
	case FilterBountyIssue:
		return []tier{
			{name: "bounty-signal", run: d.bountySignalTier(intent, plan.issues)},
			{name: "bounty-heuristic", enteredOn: outcomeFailed, run: d.bountyHeuristicTier(intent, plan.heuristic)},
			{name: "bounty-broad", enteredOn: outcomeEmpty, run: d.repoSearchTier(intent, []qualifier.Set{plan.broad})},
		}
	default:
		return []tier{{name: "default", run: d.repoSearchTier(intent, plan.repos)}}
	}
}

// searchAll runs the repository searches in parallel and returns the
// results of those that succeeded, in query order. It fails only when every
// search failed.
func (d *Discoverer) searchAll(ctx context.Context, queries []string, opts github.SearchOptions) ([]github.RepositoryPage, error) {
	pages := make([]github.RepositoryPage, len(queries))
	errs := make([]error, len(queries))

	var g errgroup.Group
	for i, query := range queries {
		g.Go(func() error {
			pages[i], errs[i] = d.client.SearchRepositories(ctx, query, opts)
			return nil
		})
	}
	_ = g.Wait()

	succeeded := make([]github.RepositoryPage, 0, len(queries))
	for i, err := range errs {
		if err != nil {
			d.log(ctx).Warn("repository search failed", "query", queries[i], "error", err)
			continue
		}
		succeeded = append(succeeded, pages[i])
	}
	if len(succeeded) == 0 {
		return nil, errors.Join(errs...)
	}
	return succeeded, nil
}
