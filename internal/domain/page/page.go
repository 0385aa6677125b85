package page

import (
	"strings"

	"github.com/kailas-cloud/solrsvc/internal/domain"
)

// Paginate holds the default and maximum page size. The zero value disables pagination.
type Paginate struct {
	Default int
	Max     int
}

// Enabled reports whether results are wrapped in a paginated envelope.
func (p Paginate) Enabled() bool {
	return p.Default > 0 || p.Max > 0
}

// SortField is one entry of an ordered sort specification.
type SortField struct {
	Field string
	Desc  bool
}

// ParseSort parses entries of the form "field" or "-field".
func ParseSort(entries []string) ([]SortField, error) {
	out := make([]SortField, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		desc := strings.HasPrefix(e, "-")
		name := strings.TrimLeft(e, "+-")
		if name == "" {
			return nil, domain.NewBadRequest("$sort", "empty sort field in")
		}
		out = append(out, SortField{Field: name, Desc: desc})
	}
	return out, nil
}

// Window is the caller-requested slice of a result set.
type Window struct {
	Limit  *int
	Skip   int
	Sort   []SortField
	Select []string
}

// Resolved is a window after pagination options have been applied.
type Resolved struct {
	Limit    *int
	Skip     int
	Sort     []SortField
	Select   []string
	Paginate bool
}

// Resolve applies p to w. With pagination enabled the limit falls back to Default
// (or Max when no default is set) and is capped at Max.
// With pagination disabled an explicit limit passes through and no limit is set otherwise.
func (p Paginate) Resolve(w Window) (Resolved, error) {
	if w.Skip < 0 {
		return Resolved{}, domain.NewBadRequest("$skip", "negative value for")
	}
	if w.Limit != nil && *w.Limit < 0 {
		return Resolved{}, domain.NewBadRequest("$limit", "negative value for")
	}

	r := Resolved{Skip: w.Skip, Sort: w.Sort, Select: w.Select, Paginate: p.Enabled()}

	if !r.Paginate {
		if w.Limit != nil {
			l := *w.Limit
			r.Limit = &l
		}
		return r, nil
	}

	limit := p.Default
	if limit <= 0 {
		limit = p.Max
	}
	if w.Limit != nil {
		limit = *w.Limit
	}
	if p.Max > 0 && limit > p.Max {
		limit = p.Max
	}
	r.Limit = &limit
	return r, nil
}

// LimitOr returns the resolved limit or fallback when none is set.
func (r Resolved) LimitOr(fallback int) int {
	if r.Limit == nil {
		return fallback
	}
	return *r.Limit
}
