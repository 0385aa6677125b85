package solrsvc

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"
)

func TestAdmin_Passthrough(t *testing.T) {
	fake, coreURL := newFakeSolr(t)
	client, err := New(WithCoreURL(coreURL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	admin := client.Admin()
	ctx := context.Background()

	raw, err := admin.Schema(ctx)
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	var body struct {
		Schema struct {
			Name string `json:"name"`
		} `json:"schema"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Schema.Name != "people" {
		t.Errorf("schema name = %q", body.Schema.Name)
	}

	if _, err := admin.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
	if n := fake.callCount("admin/ping"); n != 1 {
		t.Errorf("admin/ping calls = %d, want 1", n)
	}
}

func TestAdmin_RejectsPaths(t *testing.T) {
	_, coreURL := newFakeSolr(t)
	client, err := New(WithCoreURL(coreURL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	admin := client.Admin()
	ctx := context.Background()

	if _, err := admin.Get(ctx, "update", url.Values{}); !errors.Is(err, ErrBadRequest) {
		t.Errorf("GET update: expected ErrBadRequest, got %v", err)
	}
	if _, err := admin.Post(ctx, "admin/ping", map[string]any{}); !errors.Is(err, ErrMethodNotAllowed) {
		t.Errorf("POST admin/ping: expected ErrMethodNotAllowed, got %v", err)
	}
}
