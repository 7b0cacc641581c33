package discovery

import (
	"fmt"
	"strings"
)

// Filter selects which kind of contribution opportunity to look for.
type Filter string

const (
	FilterGoodFirstIssue Filter = "good-first-issue"
	FilterBountyIssue    Filter = "bounty-issue"
	FilterDefault        Filter = "default"
)

// ParseFilter maps a request value onto a Filter. Anything unrecognized,
// including the empty string, is FilterDefault.
func ParseFilter(s string) Filter {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterGoodFirstIssue, FilterBountyIssue:
		return f
	default:
		return FilterDefault
	}
}

const (
	// DefaultPerPage is used when the caller does not ask for a page size.
	DefaultPerPage = 10
	// MaxPerPage bounds the page size a caller may request.
	MaxPerPage = 50
	// ResultWindowCap is GitHub's hard limit on how many matches of a single
	// search can be reached through pagination. It is part of the upstream
	// protocol, not a tunable.
	ResultWindowCap = 1000
)

// Intent is a validated discovery request. It is never modified once built.
type Intent struct {
	Filter   Filter
	Language string // empty means any language
	Page     int    // 1-based
	PerPage  int
}

// NewIntent validates request parameters and builds an Intent.
func NewIntent(filter, language string, page, perPage int) (Intent, error) {
	if page < 1 {
		return Intent{}, fmt.Errorf("page must be at least 1, got %d", page)
	}
	if perPage < 1 || perPage > MaxPerPage {
		return Intent{}, fmt.Errorf("per_page must be between 1 and %d, got %d", MaxPerPage, perPage)
	}

	return Intent{
		Filter:   ParseFilter(filter),
		Language: strings.TrimSpace(language),
		Page:     page,
		PerPage:  perPage,
	}, nil
}

// beyondWindow reports whether the requested page starts at or past
// ResultWindowCap. It divides rather than multiplies so that huge page
// numbers cannot overflow.
func (i Intent) beyondWindow() bool {
	return i.Page-1 >= (ResultWindowCap+i.PerPage-1)/i.PerPage
}
