package chi

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/solrsvc/internal/domain"
	"github.com/kailas-cloud/solrsvc/internal/domain/page"
	"github.com/kailas-cloud/solrsvc/internal/domain/query"
	resourceuc "github.com/kailas-cloud/solrsvc/internal/usecase/resource"
)

// Envelope parameters. They shape the result window and never reach the filter.
const (
	ParamLimit    = "$limit"
	ParamSkip     = "$skip"
	ParamSort     = "$sort"
	ParamSelect   = "$select"
	ParamPaginate = "$paginate"
)

var envelopeParams = map[string]bool{
	ParamLimit:    true,
	ParamSkip:     true,
	ParamSort:     true,
	ParamSelect:   true,
	ParamPaginate: true,
}

// findParamsFromQuery binds the envelope parameters and turns every other key into the filter.
func findParamsFromQuery(values url.Values) (resourceuc.FindParams, error) {
	var (
		limit    *int
		skip     *int
		sortBy   *[]string
		fields   *[]string
		paginate *bool
	)
	if err := runtime.BindQueryParameter("form", true, false, ParamLimit, values, &limit); err != nil {
		return resourceuc.FindParams{}, domain.NewBadRequest(ParamLimit, "expected an integer for")
	}
	if err := runtime.BindQueryParameter("form", true, false, ParamSkip, values, &skip); err != nil {
		return resourceuc.FindParams{}, domain.NewBadRequest(ParamSkip, "expected an integer for")
	}
	if err := runtime.BindQueryParameter("form", false, false, ParamSort, values, &sortBy); err != nil {
		return resourceuc.FindParams{}, domain.NewBadRequest(ParamSort, "expected a comma separated list for")
	}
	if err := runtime.BindQueryParameter("form", false, false, ParamSelect, values, &fields); err != nil {
		return resourceuc.FindParams{}, domain.NewBadRequest(ParamSelect, "expected a comma separated list for")
	}
	if err := runtime.BindQueryParameter("form", true, false, ParamPaginate, values, &paginate); err != nil {
		return resourceuc.FindParams{}, domain.NewBadRequest(ParamPaginate, "expected a boolean for")
	}

	var sortEntries []string
	if sortBy != nil {
		sortEntries = *sortBy
	}
	sortFields, err := page.ParseSort(sortEntries)
	if err != nil {
		return resourceuc.FindParams{}, err
	}

	filter, err := filterFromQuery(values)
	if err != nil {
		return resourceuc.FindParams{}, err
	}

	p := resourceuc.FindParams{
		Query: filter,
		Window: page.Window{
			Limit: limit,
			Sort:  sortFields,
		},
	}
	if skip != nil {
		p.Window.Skip = *skip
	}
	if fields != nil {
		p.Window.Select = trimAll(*fields)
	}
	if paginate != nil && !*paginate {
		p.Paginate = &page.Paginate{}
	}
	return p, nil
}

// filterFromQuery converts a query string into the filter map accepted by query.Parse.
//
//	name=a            {"name": "a"}
//	name=a&name=b     {"name": ["a", "b"]}
//	age[$gte]=18      {"age": {"$gte": 18}}
//	tag[$in]=a,b      {"tag": {"$in": ["a", "b"]}}
//	$facet={...}      decoded JSON object
func filterFromQuery(values url.Values) (map[string]any, error) {
	filter := make(map[string]any, len(values))
	var operators []string

	for key, vals := range values {
		if envelopeParams[key] || len(vals) == 0 {
			continue
		}
		last := vals[len(vals)-1]

		switch key {
		case query.KeySearch, query.KeySuggest, query.KeyPopulate:
			filter[key] = flagValue(last)
			continue
		case query.KeyFacet, query.KeyParams:
			var m map[string]any
			if err := json.Unmarshal([]byte(last), &m); err != nil || m == nil {
				return nil, domain.NewBadRequest(key, "expected a JSON object for")
			}
			filter[key] = m
			continue
		}

		if strings.HasPrefix(key, "$") {
			// Left for query.Parse to reject with the key name.
			filter[key] = last
			continue
		}
		if _, _, ok := splitOperator(key); ok {
			operators = append(operators, key)
			continue
		}

		if len(vals) == 1 {
			filter[key] = scalarValue(last)
		} else {
			filter[key] = listValue(vals)
		}
	}

	for _, key := range operators {
		field, op, _ := splitOperator(key)
		existing, present := filter[field]
		ops, isOps := existing.(map[string]any)
		if present && !isOps {
			return nil, domain.NewBadRequest(key, "conflicting filters for")
		}
		if ops == nil {
			ops = make(map[string]any)
			filter[field] = ops
		}

		vals := values[key]
		if op == string(query.OpIn) || op == string(query.OpNin) {
			ops[op] = listValue(splitLists(vals))
			continue
		}
		ops[op] = scalarValue(vals[len(vals)-1])
	}

	return filter, nil
}

// splitOperator splits "field[$op]" into its parts.
func splitOperator(key string) (field, op string, ok bool) {
	i := strings.IndexByte(key, '[')
	if i <= 0 || !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	return key[:i], key[i+1 : len(key)-1], true
}

// flagValue maps "", "true" and "false" to booleans and keeps anything else as a term.
func flagValue(s string) any {
	switch s {
	case "", "true":
		return true
	case "false":
		return false
	default:
		return s
	}
}

// scalarValue restores the JSON type of a query-string value. Strings that would not
// round-trip unchanged, such as "007", stay strings.
func scalarValue(s string) any {
	switch s {
	case "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && strconv.FormatFloat(f, 'f', -1, 64) == s {
		return f
	}
	return s
}

func listValue(vals []string) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = scalarValue(v)
	}
	return out
}

// splitLists expands comma separated entries; a repeated parameter is kept as is.
func splitLists(vals []string) []string {
	if len(vals) != 1 {
		return vals
	}
	if vals[0] == "" {
		return nil
	}
	return trimAll(strings.Split(vals[0], ","))
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
