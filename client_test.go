package solrsvc

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_NoCoreURL(t *testing.T) {
	_, err := New()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"relative url", []Option{WithCoreURL("localhost:8983/solr/people")}},
		{"unknown multi", []Option{WithCoreURL("http://localhost:8983/solr/people"), WithMulti("update")}},
		{"negative page", []Option{WithCoreURL("http://localhost:8983/solr/people"), WithPagination(-1, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNew_DefaultAboveMaxIsCapped(t *testing.T) {
	_, coreURL := newFakeSolr(t)
	client, err := New(WithCoreURL(coreURL), WithPagination(4, 3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close()

	res, err := client.Find(context.Background(), FindParams{})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	pg, ok := res.(Paginated)
	if !ok {
		t.Fatalf("expected Paginated, got %T", res)
	}
	if pg.Limit == nil || *pg.Limit != 3 {
		t.Errorf("limit = %v, want max 3", pg.Limit)
	}
}

func TestClient_Lifecycle(t *testing.T) {
	fake, coreURL := newFakeSolr(t)
	client, err := New(WithCoreURL(coreURL), WithPagination(10, 50))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close()

	var mu sync.Mutex
	var seen []string
	unsubscribe := client.Subscribe("*", func(_ context.Context, e Event) error {
		mu.Lock()
		seen = append(seen, e.Name)
		mu.Unlock()
		return nil
	})
	defer unsubscribe()

	ctx := context.Background()

	created, err := client.Create(ctx, Document{"name": "alice", "age": 30})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created[0].ID()
	if id == "" {
		t.Fatal("created document has no id")
	}

	res, err := client.Find(ctx, FindParams{Query: Query{"name": "alice"}})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	pg, ok := res.(Paginated)
	if !ok {
		t.Fatalf("expected Paginated, got %T", res)
	}
	if pg.Total != 1 || len(pg.Data) != 1 {
		t.Errorf("total = %d, data = %d, want 1/1", pg.Total, len(pg.Data))
	}
	if pg.Limit == nil || *pg.Limit != 10 {
		t.Errorf("limit = %v, want default 10", pg.Limit)
	}
	if body := fake.queryBody(); body["query"] != "*:*" {
		t.Errorf("query body = %v", body)
	}

	got, err := client.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got["name"] != "alice" {
		t.Errorf("name = %v, want alice", got["name"])
	}
	if _, ok := got["_version_"]; ok {
		t.Error("_version_ must be stripped")
	}

	patched, err := client.Patch(ctx, id, Document{"age": 31})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if patched["age"] != 31.0 || patched["name"] != "alice" {
		t.Errorf("patched = %v", patched)
	}

	if _, err := client.Remove(ctx, id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := client.Remove(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove: expected ErrNotFound, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{EventCreated, EventPatched, EventRemoved}
	if !slices.Equal(seen, want) {
		t.Errorf("events = %v, want %v", seen, want)
	}
}

func TestClient_Find_Unpaginated(t *testing.T) {
	_, coreURL := newFakeSolr(t)
	client, err := New(WithCoreURL(coreURL), WithPagination(10, 50))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := client.Find(context.Background(), FindParams{Paginate: &Paginate{}})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if _, ok := res.(Unpaginated); !ok {
		t.Errorf("expected Unpaginated, got %T", res)
	}
}

func TestClient_Find_Facets(t *testing.T) {
	_, coreURL := newFakeSolr(t)
	client, err := New(WithCoreURL(coreURL), WithPagination(10, 50))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if _, err := client.Create(ctx, Document{"id": "1", "type": "book"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := client.Find(ctx, FindParams{Query: Query{
		"$facet": Query{"types": Query{"type": "terms", "field": "type"}},
	}})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	pg := res.(Paginated)
	if pg.Facets.Count() != 1 {
		t.Errorf("facet count = %d, want 1", pg.Facets.Count())
	}
}

func TestClient_Suggest_SkipsQueryHandler(t *testing.T) {
	fake, coreURL := newFakeSolr(t)
	client, err := New(WithCoreURL(coreURL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := client.Find(context.Background(), FindParams{Query: Query{"$suggest": "sol"}})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	s, ok := res.(Suggestions)
	if !ok {
		t.Fatalf("expected Suggestions, got %T", res)
	}
	if len(s.Terms) != 2 || s.Terms[0].Term != "solrcloud" {
		t.Errorf("terms = %+v", s.Terms)
	}
	if n := fake.callCount("query"); n != 0 {
		t.Errorf("query handler called %d times", n)
	}
}

func TestClient_Find_UnknownKey(t *testing.T) {
	fake, coreURL := newFakeSolr(t)
	client, err := New(WithCoreURL(coreURL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = client.Find(context.Background(), FindParams{Query: Query{"$where": 1}})
	var bre *BadRequestError
	if !errors.As(err, &bre) {
		t.Fatalf("expected BadRequestError, got %v", err)
	}
	if bre.Key != "$where" {
		t.Errorf("key = %q, want $where", bre.Key)
	}
	if n := fake.callCount("query"); n != 0 {
		t.Errorf("query handler called %d times", n)
	}
}

func TestClient_MultiRules(t *testing.T) {
	_, coreURL := newFakeSolr(t)
	ctx := context.Background()

	client, err := New(WithCoreURL(coreURL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.Create(ctx, Document{"id": "1"}, Document{"id": "2"}); !errors.Is(err, ErrMethodNotAllowed) {
		t.Errorf("multi create: expected ErrMethodNotAllowed, got %v", err)
	}
	if _, err := client.RemoveMatching(ctx, Query{"id": "*"}); !errors.Is(err, ErrMethodNotAllowed) {
		t.Errorf("multi remove: expected ErrMethodNotAllowed, got %v", err)
	}

	client, err = New(WithCoreURL(coreURL), WithMulti(MultiCreate, MultiRemove))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.Create(ctx, Document{"id": "1"}, Document{"id": "2"}); err != nil {
		t.Fatalf("multi create: %v", err)
	}
	n, err := client.RemoveMatching(ctx, Query{"id": "*"})
	if err != nil {
		t.Fatalf("RemoveMatching: %v", err)
	}
	if n != 2 {
		t.Errorf("removed = %d, want 2", n)
	}
}

func TestClient_Emit(t *testing.T) {
	_, coreURL := newFakeSolr(t)
	client, err := New(WithCoreURL(coreURL), WithName("people"), WithEvents("reindexed"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	var got Event
	client.Subscribe("reindexed", func(_ context.Context, e Event) error {
		got = e
		return nil
	})

	if err := client.Emit(ctx, "reindexed", map[string]any{"n": 1}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if got.Resource != "people" || got.Name != "reindexed" {
		t.Errorf("event = %+v", got)
	}

	if err := client.Emit(ctx, "unknown", nil); !errors.Is(err, ErrBadRequest) {
		t.Errorf("expected ErrBadRequest, got %v", err)
	}
}

func TestClient_PingAndHealth(t *testing.T) {
	_, coreURL := newFakeSolr(t)
	client, err := New(WithCoreURL(coreURL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if err := client.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	h := client.Health(ctx)
	if h.Status != "ok" || h.Checks["solr"] != "ok" {
		t.Errorf("health = %+v", h)
	}
	if _, ok := h.Checks["events"]; ok {
		t.Error("events check must be absent without Redis")
	}
}

func TestClient_SolrError(t *testing.T) {
	_, coreURL := newFakeSolr(t)
	client, err := New(WithCoreURL(coreURL + "/missing"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = client.Ping(context.Background())
	var se *SolrError
	if !errors.As(err, &se) {
		t.Fatalf("expected SolrError, got %v", err)
	}
	if se.StatusCode != 404 || !errors.Is(err, ErrUpstream) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_Metrics(t *testing.T) {
	_, coreURL := newFakeSolr(t)
	reg := prometheus.NewRegistry()
	client, err := New(WithCoreURL(coreURL), WithPrometheus(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	_, _ = client.Get(ctx, "missing")
	_ = client.Ping(ctx)

	ops := client.obs.metrics.operations
	if v := testutil.ToFloat64(ops.WithLabelValues("documents", "get", "not_found")); v != 1 {
		t.Errorf("get/not_found = %v, want 1", v)
	}
	if v := testutil.ToFloat64(ops.WithLabelValues("documents", "ping", "ok")); v != 1 {
		t.Errorf("ping/ok = %v, want 1", v)
	}

	// A second client on the same registry reuses the collectors.
	if _, err := New(WithCoreURL(coreURL), WithPrometheus(reg)); err != nil {
		t.Errorf("second client: %v", err)
	}
}
