package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"

	"go.uber.org/zap"

	"github.com/kailas-cloud/solrsvc/internal/domain"
	"github.com/kailas-cloud/solrsvc/internal/domain/document"
	"github.com/kailas-cloud/solrsvc/internal/domain/page"
	"github.com/kailas-cloud/solrsvc/internal/domain/query"
	"github.com/kailas-cloud/solrsvc/internal/domain/result"
	adminuc "github.com/kailas-cloud/solrsvc/internal/usecase/admin"
	healthuc "github.com/kailas-cloud/solrsvc/internal/usecase/health"
	resourceuc "github.com/kailas-cloud/solrsvc/internal/usecase/resource"
)

// --- Mocks ---

// fakeRepo is an in-memory resource repository.
type fakeRepo struct {
	docs      map[string]document.Document
	err       error
	lastQuery query.Query
	lastWin   page.Resolved
	findCalls int
}

func newFakeRepo(docs ...document.Document) *fakeRepo {
	r := &fakeRepo{docs: map[string]document.Document{}}
	for _, d := range docs {
		r.docs[d.ID()] = d
	}
	return r
}

func (r *fakeRepo) sorted() []document.Document {
	ids := make([]string, 0, len(r.docs))
	for id := range r.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]document.Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.docs[id])
	}
	return out
}

func (r *fakeRepo) Find(_ context.Context, q query.Query, w page.Resolved) (result.Result, error) {
	r.findCalls++
	r.lastQuery = q
	r.lastWin = w
	if r.err != nil {
		return nil, r.err
	}
	items := r.sorted()
	if !w.Paginate {
		return result.Unpaginated{Items: items}, nil
	}
	return result.Paginated{Total: int64(len(items)), Limit: w.Limit, Skip: w.Skip, Data: items}, nil
}

func (r *fakeRepo) Count(_ context.Context, _ query.Query) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.docs)), nil
}

func (r *fakeRepo) Get(_ context.Context, id string) (document.Document, error) {
	if r.err != nil {
		return nil, r.err
	}
	d, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %q: %w", id, domain.ErrNotFound)
	}
	return d.Clone(), nil
}

func (r *fakeRepo) Add(_ context.Context, docs []document.Document) error {
	if r.err != nil {
		return r.err
	}
	for _, d := range docs {
		r.docs[d.ID()] = d.Clone()
	}
	return nil
}

func (r *fakeRepo) Patch(_ context.Context, id string, fields document.Document) error {
	if r.err != nil {
		return r.err
	}
	d := r.docs[id]
	for k, v := range fields {
		d[k] = v
	}
	return nil
}

func (r *fakeRepo) DeleteByID(_ context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeRepo) DeleteByQuery(_ context.Context, _ query.Query) error {
	if r.err != nil {
		return r.err
	}
	r.docs = map[string]document.Document{}
	return nil
}

// fakeStore answers admin calls with a canned body and records the last path.
type fakeStore struct {
	body     string
	err      error
	lastPath string
	lastBody any
	params   url.Values
}

func (s *fakeStore) Get(_ context.Context, path string, params url.Values, out any) error {
	s.lastPath = path
	s.params = params
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.body), out)
}

func (s *fakeStore) Post(_ context.Context, path string, _ url.Values, body, out any) error {
	s.lastPath = path
	s.lastBody = body
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.body), out)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

// --- Helpers ---

type testEnv struct {
	repo  *fakeRepo
	store *fakeStore
	svc   *resourceuc.Service
	srv   *Server
}

func newTestEnv(docs ...document.Document) *testEnv {
	repo := newFakeRepo(docs...)
	store := &fakeStore{body: `{"status":"OK"}`}
	svc := resourceuc.New(repo, nil, zap.NewNop())
	srv := NewServer(
		svc,
		adminuc.New(store),
		healthuc.New(fakePinger{}, nil),
		zap.NewNop(),
	)
	return &testEnv{repo: repo, store: store, svc: svc, srv: srv}
}
