package solrsvc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
)

// fakeSolr emulates the handlers of a single core that the client uses.
type fakeSolr struct {
	mu        sync.Mutex
	docs      map[string]map[string]any
	calls     map[string]int
	lastQuery map[string]any
}

func newFakeSolr(t *testing.T) (*fakeSolr, string) {
	t.Helper()
	f := &fakeSolr{
		docs:  map[string]map[string]any{},
		calls: map[string]int{},
	}
	ts := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(ts.Close)
	return f, ts.URL + "/solr/people"
}

func (f *fakeSolr) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeSolr) queryBody() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

func (f *fakeSolr) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/solr/people/")
	f.calls[path]++
	w.Header().Set("Content-Type", "application/json")

	switch path {
	case "admin/ping":
		writeFake(w, map[string]any{"status": "OK"})
	case "get":
		doc, ok := f.docs[r.URL.Query().Get("id")]
		if !ok {
			_, _ = w.Write([]byte(`{"doc":null}`))
			return
		}
		withVersion := map[string]any{"_version_": 1}
		for k, v := range doc {
			withVersion[k] = v
		}
		writeFake(w, map[string]any{"doc": withVersion})
	case "query":
		body, _ := io.ReadAll(r.Body)
		f.lastQuery = map[string]any{}
		_ = json.Unmarshal(body, &f.lastQuery)
		docs := f.sorted()
		resp := map[string]any{
			"responseHeader": map[string]any{"status": 0},
			"response":       map[string]any{"numFound": len(docs), "start": 0, "docs": docs},
		}
		if _, ok := f.lastQuery["facet"]; ok {
			resp["facets"] = map[string]any{"count": len(docs)}
		}
		writeFake(w, resp)
	case "update":
		body, _ := io.ReadAll(r.Body)
		f.update(body)
		writeFake(w, map[string]any{"responseHeader": map[string]any{"status": 0}})
	case "suggest":
		writeFake(w, map[string]any{
			"suggest": map[string]any{
				"default": map[string]any{
					r.URL.Query().Get("q"): map[string]any{
						"numFound": 2,
						"suggestions": []map[string]any{
							{"term": "solr", "weight": 5},
							{"term": "solrcloud", "weight": 9},
						},
					},
				},
			},
		})
	case "schema":
		writeFake(w, map[string]any{"schema": map[string]any{"name": "people"}})
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"msg":"unknown handler"}}`))
	}
}

func (f *fakeSolr) update(body []byte) {
	if len(body) > 0 && body[0] == '[' {
		var docs []map[string]any
		_ = json.Unmarshal(body, &docs)
		for _, d := range docs {
			id := fmt.Sprint(d["id"])
			if existing, ok := f.docs[id]; ok && isAtomic(d) {
				for k, v := range d {
					if m, ok := v.(map[string]any); ok {
						existing[k] = m["set"]
					}
				}
				continue
			}
			f.docs[id] = d
		}
		return
	}

	var cmd struct {
		Delete struct {
			ID    string `json:"id"`
			Query string `json:"query"`
		} `json:"delete"`
	}
	_ = json.Unmarshal(body, &cmd)
	if cmd.Delete.ID != "" {
		delete(f.docs, cmd.Delete.ID)
	}
	if cmd.Delete.Query != "" {
		f.docs = map[string]map[string]any{}
	}
}

func (f *fakeSolr) sorted() []map[string]any {
	ids := make([]string, 0, len(f.docs))
	for id := range f.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]map[string]any, len(ids))
	for i, id := range ids {
		out[i] = f.docs[id]
	}
	return out
}

func isAtomic(doc map[string]any) bool {
	for k, v := range doc {
		if k == "id" {
			continue
		}
		if m, ok := v.(map[string]any); ok {
			if _, ok := m["set"]; ok {
				return true
			}
		}
	}
	return false
}

func writeFake(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}
