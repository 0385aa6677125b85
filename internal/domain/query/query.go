package query

import (
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/kailas-cloud/solrsvc/internal/domain"
)

// Reserved top-level keys. Every other $-prefixed key is rejected.
const (
	KeySearch   = "$search"
	KeySuggest  = "$suggest"
	KeyFacet    = "$facet"
	KeyPopulate = "$populate"
	KeyParams   = "$params"
)

// Query is a validated filter query: field conditions plus the recognized options.
type Query struct {
	conditions  []Condition
	search      bool
	searchTerm  string
	suggest     bool
	suggestTerm string
	facets      map[string]any
	populate    bool
	params      map[string]any
}

// Parse validates raw against the whitelist. A nil map yields the empty query.
func Parse(raw map[string]any) (Query, error) {
	var q Query

	keys := slices.Sorted(maps.Keys(raw))
	for _, key := range keys {
		val := raw[key]
		if !strings.HasPrefix(key, "$") {
			conds, err := parseField(key, val)
			if err != nil {
				return Query{}, err
			}
			q.conditions = append(q.conditions, conds...)
			continue
		}

		switch key {
		case KeySearch:
			q.search, q.searchTerm = truthyTerm(val)
		case KeySuggest:
			q.suggest, q.suggestTerm = truthyTerm(val)
		case KeyPopulate:
			q.populate = truthy(val)
		case KeyFacet:
			facets, err := parseFacets(val)
			if err != nil {
				return Query{}, err
			}
			q.facets = facets
		case KeyParams:
			if val == nil {
				continue
			}
			params, ok := val.(map[string]any)
			if !ok {
				return Query{}, domain.NewBadRequest(KeyParams, "expected an object for")
			}
			q.params = maps.Clone(params)
		default:
			return Query{}, domain.NewBadRequest(key, "")
		}
	}

	sort.SliceStable(q.conditions, func(i, j int) bool {
		return q.conditions[i].field < q.conditions[j].field
	})
	return q, nil
}

func parseFacets(val any) (map[string]any, error) {
	if val == nil {
		return nil, nil
	}
	m, ok := val.(map[string]any)
	if !ok {
		return nil, domain.NewBadRequest(KeyFacet, "expected an object for")
	}
	for name, spec := range m {
		switch spec.(type) {
		case string, map[string]any:
		default:
			return nil, domain.NewBadRequest(KeyFacet+"."+name, "expected a facet object or aggregation string for")
		}
	}
	return maps.Clone(m), nil
}

// Conditions returns the field conditions ordered by field name.
func (q Query) Conditions() []Condition { return q.conditions }

// Search reports whether full-text mode is on and the term, if one was given.
func (q Query) Search() (bool, string) { return q.search, q.searchTerm }

// Suggest reports whether the suggester route is requested and its term.
func (q Query) Suggest() (bool, string) { return q.suggest, q.suggestTerm }

// SuggestTerm returns the suggester term, falling back to the search term.
func (q Query) SuggestTerm() string {
	if q.suggestTerm != "" {
		return q.suggestTerm
	}
	return q.searchTerm
}

// Facets returns the facet specs verbatim.
func (q Query) Facets() map[string]any { return q.facets }

// HasFacets reports whether $facet was given.
func (q Query) HasFacets() bool { return q.facets != nil }

// Populate reports the $populate flag. It has no effect on the Solr request.
func (q Query) Populate() bool { return q.populate }

// Params returns the raw passthrough parameters.
func (q Query) Params() map[string]any { return q.params }

// IsEmpty reports whether the query has no conditions and no options.
func (q Query) IsEmpty() bool {
	return len(q.conditions) == 0 && !q.search && !q.suggest && q.facets == nil &&
		!q.populate && q.params == nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return true
	}
}

// truthyTerm returns the flag and, for string values, the term.
func truthyTerm(v any) (bool, string) {
	if s, ok := v.(string); ok {
		return s != "", s
	}
	return truthy(v), ""
}
