package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/solrsvc/internal/domain"
	"github.com/kailas-cloud/solrsvc/internal/domain/page"
	"github.com/kailas-cloud/solrsvc/internal/domain/query"
	"github.com/kailas-cloud/solrsvc/internal/transport/solr"
)

// matchNone is a pure negative filter that excludes every document.
const matchNone = "-*:*"

// Translate builds a JSON Request API body from a validated query and a resolved window.
// Suggest queries are not routed through here.
func Translate(q query.Query, w page.Resolved) solr.QueryBody {
	body := solr.NewQueryBody()

	if on, term := q.Search(); on && term != "" {
		body.Query = term
	}

	body.Filter = FilterClauses(q.Conditions())

	if q.HasFacets() {
		body.Facet = q.Facets()
	}

	if w.Limit != nil {
		limit := *w.Limit
		body.Limit = &limit
	}
	if w.Skip > 0 || w.Limit != nil {
		offset := w.Skip
		body.Offset = &offset
	}

	body.Sort = SortClause(w.Sort)
	if len(w.Select) > 0 {
		body.Fields = w.Select
	}

	body.Params = q.Params()
	return body
}

// DeleteQuery renders a query as a single delete-by-query string.
func DeleteQuery(q query.Query) (string, error) {
	if q.HasFacets() {
		return "", domain.NewBadRequest(query.KeyFacet, "not supported when removing by")
	}
	if on, _ := q.Suggest(); on {
		return "", domain.NewBadRequest(query.KeySuggest, "not supported when removing by")
	}
	if len(q.Params()) > 0 {
		return "", domain.NewBadRequest(query.KeyParams, "not supported when removing by")
	}

	parts := FilterClauses(q.Conditions())
	if on, term := q.Search(); on && term != "" {
		parts = append(parts, "("+term+")")
	}

	switch len(parts) {
	case 0:
		return solr.DefaultQuery, nil
	case 1:
		return parts[0], nil
	default:
		for i, p := range parts {
			parts[i] = "(" + p + ")"
		}
		return strings.Join(parts, " AND "), nil
	}
}

// FilterClauses renders conditions as one filter clause per field, in field order.
func FilterClauses(conds []query.Condition) []string {
	if len(conds) == 0 {
		return nil
	}

	var (
		out   []string
		field string
		group []query.Condition
	)
	flush := func() {
		if len(group) > 0 {
			if clause := fieldClause(field, group); clause != "" {
				out = append(out, clause)
			}
		}
		group = group[:0]
	}

	for _, c := range conds {
		if c.Field() != field {
			flush()
			field = c.Field()
		}
		group = append(group, c)
	}
	flush()
	return out
}

func fieldClause(field string, conds []query.Condition) string {
	var parts []string
	lower, upper := "*", "*"
	lowerIncl, upperIncl := true, true
	hasRange, excludeAll := false, false

	for _, c := range conds {
		switch c.Op() {
		case query.OpEq:
			parts = append(parts, eqClause(field, c.Value()))
		case query.OpNe:
			if c.Value() == nil {
				parts = append(parts, field+":*")
			} else {
				parts = append(parts, "-"+field+":"+FormatValue(c.Value()))
			}
		case query.OpIn:
			if len(c.Values()) == 0 {
				excludeAll = true
				continue
			}
			parts = append(parts, field+":"+orList(c.Values()))
		case query.OpNin:
			if len(c.Values()) == 0 {
				continue
			}
			parts = append(parts, "-"+field+":"+orList(c.Values()))
		case query.OpGt, query.OpGte:
			hasRange = true
			lower = FormatValue(c.Value())
			lowerIncl = c.Op() == query.OpGte
		case query.OpLt, query.OpLte:
			hasRange = true
			upper = FormatValue(c.Value())
			upperIncl = c.Op() == query.OpLte
		}
	}

	if excludeAll {
		return matchNone
	}
	if hasRange {
		open, closing := "{", "}"
		if lowerIncl {
			open = "["
		}
		if upperIncl {
			closing = "]"
		}
		parts = append(parts, fmt.Sprintf("%s:%s%s TO %s%s", field, open, lower, upper, closing))
	}
	return strings.Join(parts, " AND ")
}

func eqClause(field string, v any) string {
	if v == nil {
		return "-" + field + ":*"
	}
	if s, ok := v.(string); ok && s == "*" {
		return field + ":*"
	}
	return field + ":" + FormatValue(v)
}

func orList(vals []any) string {
	terms := make([]string, len(vals))
	for i, v := range vals {
		terms[i] = FormatValue(v)
	}
	return "(" + strings.Join(terms, " OR ") + ")"
}

// FormatValue renders a scalar as a Solr term. Strings are quoted phrases.
func FormatValue(v any) string {
	switch t := v.(type) {
	case string:
		return quote(t)
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return quote(fmt.Sprint(t))
	}
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// SortClause renders sort fields as "a asc, b desc".
func SortClause(fields []page.SortField) string {
	if len(fields) == 0 {
		return ""
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := "asc"
		if f.Desc {
			dir = "desc"
		}
		parts[i] = f.Field + " " + dir
	}
	return strings.Join(parts, ", ")
}
