// Package core is the Solr-backed document repository for a single core.
package core

import (
	"context"
	"fmt"
	"net/url"

	"github.com/kailas-cloud/solrsvc/internal/domain"
	"github.com/kailas-cloud/solrsvc/internal/domain/document"
	"github.com/kailas-cloud/solrsvc/internal/domain/page"
	"github.com/kailas-cloud/solrsvc/internal/domain/query"
	"github.com/kailas-cloud/solrsvc/internal/domain/result"
	"github.com/kailas-cloud/solrsvc/internal/transport/solr"
)

// store is the consumer interface over the Solr transport (ISP).
type store interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
	Post(ctx context.Context, path string, params url.Values, body, out any) error
}

var commitParams = url.Values{"commit": {"true"}}

// Repo implements usecase/resource.Repository.
type Repo struct {
	store store
}

// New creates a core repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Find runs a query, or the suggester when $suggest is set.
func (r *Repo) Find(ctx context.Context, q query.Query, w page.Resolved) (result.Result, error) {
	if on, _ := q.Suggest(); on {
		s, err := r.Suggest(ctx, q.SuggestTerm(), q.Params())
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	var resp solr.Response
	if err := r.store.Post(ctx, solr.PathQuery, nil, Translate(q, w), &resp); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return Reshape(resp, w), nil
}

// Suggest calls the suggester handler with q and extra params.
func (r *Repo) Suggest(ctx context.Context, term string, extra map[string]any) (result.Suggestions, error) {
	params := url.Values{"q": {term}}
	for k, v := range extra {
		switch v := v.(type) {
		case []any:
			for _, e := range v {
				params.Add(k, fmt.Sprint(e))
			}
		case map[string]any:
			return result.Suggestions{}, domain.NewBadRequest(query.KeyParams+"."+k, "expected a scalar or list for")
		default:
			params.Set(k, fmt.Sprint(v))
		}
	}

	var resp solr.Response
	if err := r.store.Get(ctx, solr.PathSuggest, params, &resp); err != nil {
		return result.Suggestions{}, fmt.Errorf("suggest: %w", err)
	}
	return ReshapeSuggest(resp), nil
}

// Count returns the number of documents matching q without fetching them.
func (r *Repo) Count(ctx context.Context, q query.Query) (int64, error) {
	zero := 0
	body := Translate(q, page.Resolved{Limit: &zero})
	body.Facet = nil

	var resp solr.Response
	if err := r.store.Post(ctx, solr.PathQuery, nil, body, &resp); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return resp.NumFound(), nil
}

// Get fetches a document through the realtime get handler.
func (r *Repo) Get(ctx context.Context, id string) (document.Document, error) {
	var resp solr.Response
	if err := r.store.Get(ctx, solr.PathGet, url.Values{"id": {id}}, &resp); err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	if resp.Doc == nil {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return resp.Doc.WithoutServerFields(), nil
}

// Add indexes full documents and commits.
func (r *Repo) Add(ctx context.Context, docs []document.Document) error {
	if err := r.store.Post(ctx, solr.PathUpdate, commitParams, docs, nil); err != nil {
		return fmt.Errorf("add %d documents: %w", len(docs), err)
	}
	return nil
}

// Patch applies atomic set updates to one document and commits.
func (r *Repo) Patch(ctx context.Context, id string, fields document.Document) error {
	body := []document.Document{document.AtomicUpdate(id, fields)}
	if err := r.store.Post(ctx, solr.PathUpdate, commitParams, body, nil); err != nil {
		return fmt.Errorf("patch %s: %w", id, err)
	}
	return nil
}

// DeleteByID removes one document and commits.
func (r *Repo) DeleteByID(ctx context.Context, id string) error {
	body := map[string]any{"delete": map[string]any{"id": id}}
	if err := r.store.Post(ctx, solr.PathUpdate, commitParams, body, nil); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// DeleteByQuery removes every document matching q and commits.
func (r *Repo) DeleteByQuery(ctx context.Context, q query.Query) error {
	expr, err := DeleteQuery(q)
	if err != nil {
		return err
	}
	body := map[string]any{"delete": map[string]any{"query": expr}}
	if err := r.store.Post(ctx, solr.PathUpdate, commitParams, body, nil); err != nil {
		return fmt.Errorf("delete by query: %w", err)
	}
	return nil
}
