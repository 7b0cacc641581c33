package discovery

import "github.com/jparise/gh-discover/internal/qualifier"

// queryPlan holds every query a request may issue, grouped by the tier
// that issues it. Only the groups relevant to the intent's filter are set.
type queryPlan struct {
	repos     []qualifier.Set // repository searches of the first tier
	issues    []qualifier.Set // bounty signal issue searches
	heuristic []qualifier.Set
	broad     qualifier.Set
}

func (d *Discoverer) plan(intent Intent) queryPlan {
	switch intent.Filter {
	case FilterGoodFirstIssue:
		return queryPlan{repos: qualifier.GoodFirstIssue(d.qualifierOptions(intent))}
	case FilterBountyIssue:
		return queryPlan{
			issues:    qualifier.BountySignals(intent.Language),
			heuristic: qualifier.BountyHeuristics(intent.Language),
			broad:     qualifier.BountyBroad(intent.Language),
		}
	default:
		return queryPlan{repos: []qualifier.Set{qualifier.Base(d.qualifierOptions(intent))}}
	}
}

func (d *Discoverer) qualifierOptions(intent Intent) qualifier.Options {
	return qualifier.Options{
		Language:    intent.Language,
		MinStars:    d.minStars,
		PushedSince: d.pushedFloor(),
	}
}

// queries returns every query string in the plan, in issue order.
func (p queryPlan) queries() []string {
	var queries []string
	for _, sets := range [][]qualifier.Set{p.repos, p.issues, p.heuristic} {
		for _, set := range sets {
			queries = append(queries, set.String())
		}
	}
	if len(p.broad) > 0 {
		queries = append(queries, p.broad.String())
	}
	return queries
}
