package core

import (
	"sort"

	"github.com/kailas-cloud/solrsvc/internal/domain/document"
	"github.com/kailas-cloud/solrsvc/internal/domain/page"
	"github.com/kailas-cloud/solrsvc/internal/domain/result"
	"github.com/kailas-cloud/solrsvc/internal/transport/solr"
)

// Reshape converts a query response into the paginated envelope or a bare list.
func Reshape(resp solr.Response, w page.Resolved) result.Result {
	docs := resp.Docs()
	if docs == nil {
		docs = []document.Document{}
	}

	if !w.Paginate {
		return result.Unpaginated{Items: docs}
	}

	out := result.Paginated{
		Total: resp.NumFound(),
		Skip:  w.Skip,
		Data:  docs,
	}
	if w.Limit != nil {
		limit := *w.Limit
		out.Limit = &limit
	}
	if resp.Facets != nil {
		out.Facets = result.Facets(resp.Facets)
	}
	return out
}

// ReshapeSuggest flattens suggester output across dictionaries, highest weight first.
func ReshapeSuggest(resp solr.Response) result.Suggestions {
	out := result.Suggestions{Terms: []result.Suggestion{}, Spellcheck: resp.Spellcheck}

	dicts := make([]string, 0, len(resp.Suggest))
	for name := range resp.Suggest {
		dicts = append(dicts, name)
	}
	sort.Strings(dicts)

	seen := make(map[string]struct{})
	for _, dict := range dicts {
		for _, block := range resp.Suggest[dict] {
			for _, s := range block.Suggestions {
				if _, dup := seen[s.Term]; dup {
					continue
				}
				seen[s.Term] = struct{}{}
				out.Terms = append(out.Terms, result.Suggestion{
					Term:    s.Term,
					Weight:  s.Weight,
					Payload: s.Payload,
				})
			}
		}
	}

	sort.SliceStable(out.Terms, func(i, j int) bool {
		return out.Terms[i].Weight > out.Terms[j].Weight
	})
	return out
}
