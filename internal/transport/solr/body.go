package solr

import (
	"encoding/json"
	"maps"
)

// DefaultQuery matches every document.
const DefaultQuery = "*:*"

// QueryBody is a JSON Request API body. Params are merged into the top
// level last and override the computed fields.
type QueryBody struct {
	Query  string
	Filter []string
	Facet  map[string]any
	Limit  *int
	Offset *int
	Sort   string
	Fields []string
	Params map[string]any
}

// NewQueryBody returns a body matching all documents.
func NewQueryBody() QueryBody {
	return QueryBody{Query: DefaultQuery}
}

// MarshalJSON implements json.Marshaler.
func (b QueryBody) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Map())
}

// Map flattens the body to the object Solr receives.
func (b QueryBody) Map() map[string]any {
	out := make(map[string]any, 8+len(b.Params))

	query := b.Query
	if query == "" {
		query = DefaultQuery
	}
	out["query"] = query

	if len(b.Filter) > 0 {
		out["filter"] = b.Filter
	}
	if b.Facet != nil {
		out["facet"] = b.Facet
	}
	if b.Limit != nil {
		out["limit"] = *b.Limit
	}
	if b.Offset != nil {
		out["offset"] = *b.Offset
	}
	if b.Sort != "" {
		out["sort"] = b.Sort
	}
	if len(b.Fields) > 0 {
		out["fields"] = b.Fields
	}
	maps.Copy(out, b.Params)
	return out
}
