package solr

import "github.com/kailas-cloud/solrsvc/internal/domain/document"

// ResponseHeader is Solr's responseHeader block.
type ResponseHeader struct {
	Status int            `json:"status"`
	QTime  int            `json:"QTime"`
	Params map[string]any `json:"params,omitempty"`
}

// DocList is the "response" block of a query.
type DocList struct {
	NumFound int64               `json:"numFound"`
	Start    int                 `json:"start"`
	Docs     []document.Document `json:"docs"`
}

// SuggestBlock is the per-term suggester result.
type SuggestBlock struct {
	NumFound    int64         `json:"numFound"`
	Suggestions []SuggestItem `json:"suggestions"`
}

// SuggestItem is one suggester hit.
type SuggestItem struct {
	Term    string  `json:"term"`
	Weight  float64 `json:"weight"`
	Payload string  `json:"payload"`
}

// Response covers the query, realtime-get, suggest, update and ping responses.
type Response struct {
	ResponseHeader ResponseHeader                     `json:"responseHeader"`
	Response       *DocList                           `json:"response,omitempty"`
	Facets         map[string]any                     `json:"facets,omitempty"`
	Spellcheck     map[string]any                     `json:"spellcheck,omitempty"`
	Suggest        map[string]map[string]SuggestBlock `json:"suggest,omitempty"`
	Doc            document.Document                  `json:"doc,omitempty"`
	Status         string                             `json:"status,omitempty"`
	Error          *ErrorBody                         `json:"error,omitempty"`
}

// Docs returns the returned documents, or nil.
func (r Response) Docs() []document.Document {
	if r.Response == nil {
		return nil
	}
	return r.Response.Docs
}

// NumFound returns the total match count, or 0.
func (r Response) NumFound() int64 {
	if r.Response == nil {
		return 0
	}
	return r.Response.NumFound
}
