// Package result holds the shapes a find call can return.
package result

import (
	"encoding/json"

	"github.com/kailas-cloud/solrsvc/internal/domain/document"
)

// Kind discriminates the Result variants.
type Kind string

// Result kinds.
const (
	KindPaginated   Kind = "paginated"
	KindUnpaginated Kind = "unpaginated"
	KindSuggestions Kind = "suggestions"
)

// Result is one of Paginated, Unpaginated or Suggestions.
type Result interface {
	Kind() Kind
	Documents() []document.Document
}

// Paginated is the envelope returned when pagination is enabled.
type Paginated struct {
	Total  int64               `json:"total"`
	Limit  *int                `json:"limit,omitempty"`
	Skip   int                 `json:"skip"`
	Data   []document.Document `json:"data"`
	Facets Facets              `json:"facets,omitempty"`
}

// Kind implements Result.
func (Paginated) Kind() Kind { return KindPaginated }

// Documents implements Result.
func (p Paginated) Documents() []document.Document { return p.Data }

// Unpaginated is a bare list of documents.
type Unpaginated struct {
	Items []document.Document
}

// Kind implements Result.
func (Unpaginated) Kind() Kind { return KindUnpaginated }

// Documents implements Result.
func (u Unpaginated) Documents() []document.Document { return u.Items }

// MarshalJSON encodes the list as a plain array.
func (u Unpaginated) MarshalJSON() ([]byte, error) {
	items := u.Items
	if items == nil {
		items = []document.Document{}
	}
	return json.Marshal(items)
}

// Suggestion is one suggester hit.
type Suggestion struct {
	Term    string  `json:"term"`
	Weight  float64 `json:"weight"`
	Payload string  `json:"payload,omitempty"`
}

// Suggestions is returned by the suggester route.
type Suggestions struct {
	Terms      []Suggestion   `json:"suggestions"`
	Spellcheck map[string]any `json:"spellcheck,omitempty"`
}

// Kind implements Result.
func (Suggestions) Kind() Kind { return KindSuggestions }

// Documents implements Result. Suggestions carry no documents.
func (Suggestions) Documents() []document.Document { return nil }
