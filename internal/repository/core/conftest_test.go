package core

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/kailas-cloud/solrsvc/internal/domain/query"
)

type call struct {
	method string
	path   string
	params url.Values
	body   any
}

// mockStore records calls and answers with canned JSON per path.
type mockStore struct {
	calls     []call
	responses map[string]string
	err       error
}

func (m *mockStore) Get(_ context.Context, path string, params url.Values, out any) error {
	return m.record(call{method: "GET", path: path, params: params}, out)
}

func (m *mockStore) Post(_ context.Context, path string, params url.Values, body, out any) error {
	return m.record(call{method: "POST", path: path, params: params, body: body}, out)
}

func (m *mockStore) record(c call, out any) error {
	m.calls = append(m.calls, c)
	if m.err != nil {
		return m.err
	}
	if raw, ok := m.responses[c.path]; ok && out != nil {
		return json.Unmarshal([]byte(raw), out)
	}
	return nil
}

func (m *mockStore) last(t *testing.T) call {
	t.Helper()
	if len(m.calls) == 0 {
		t.Fatal("no calls recorded")
	}
	return m.calls[len(m.calls)-1]
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{responses: map[string]string{}}
	return New(ms), ms
}

func mustParse(t *testing.T, raw map[string]any) query.Query {
	t.Helper()
	q, err := query.Parse(raw)
	if err != nil {
		t.Fatalf("query.Parse(%v): %v", raw, err)
	}
	return q
}

func intPtr(v int) *int { return &v }
