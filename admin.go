package solrsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

type adminUseCase interface {
	Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
	Ping(ctx context.Context) (json.RawMessage, error)
	Config(ctx context.Context) (json.RawMessage, error)
	SearchComponents(ctx context.Context) (json.RawMessage, error)
	RequestHandlers(ctx context.Context) (json.RawMessage, error)
	Schema(ctx context.Context) (json.RawMessage, error)
	Field(ctx context.Context, name string) (json.RawMessage, error)
	FieldType(ctx context.Context, name string) (json.RawMessage, error)
	UpdateConfig(ctx context.Context, body any) (json.RawMessage, error)
	UpdateSchema(ctx context.Context, body any) (json.RawMessage, error)
	Suggest(ctx context.Context, q string, params url.Values) (json.RawMessage, error)
}

// AdminService relays Config API, Schema API, ping and suggester calls to the core.
// Responses are returned as raw Solr JSON.
type AdminService struct {
	svc adminUseCase
	obs *observer
}

// Admin returns the admin passthrough service.
func (c *Client) Admin() *AdminService {
	return &AdminService{svc: c.admin, obs: c.obs}
}

func (s *AdminService) call(op string, fn func() (json.RawMessage, error)) (out json.RawMessage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("admin_"+op, start, err) }()

	out, err = fn()
	if err != nil {
		return nil, fmt.Errorf("admin %s: %w", op, err)
	}
	return out, nil
}

// Get reads a whitelisted core path such as "schema/fields".
func (s *AdminService) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return s.call("get", func() (json.RawMessage, error) { return s.svc.Get(ctx, path, params) })
}

// Post writes to "config" or "schema".
func (s *AdminService) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return s.call("post", func() (json.RawMessage, error) { return s.svc.Post(ctx, path, body) })
}

// Ping returns the raw admin/ping response.
func (s *AdminService) Ping(ctx context.Context) (json.RawMessage, error) {
	return s.call("ping", func() (json.RawMessage, error) { return s.svc.Ping(ctx) })
}

// Config returns the core configuration.
func (s *AdminService) Config(ctx context.Context) (json.RawMessage, error) {
	return s.call("config", func() (json.RawMessage, error) { return s.svc.Config(ctx) })
}

// SearchComponents returns the configured search components.
func (s *AdminService) SearchComponents(ctx context.Context) (json.RawMessage, error) {
	return s.call("search_components", func() (json.RawMessage, error) { return s.svc.SearchComponents(ctx) })
}

// RequestHandlers returns the configured request handlers.
func (s *AdminService) RequestHandlers(ctx context.Context) (json.RawMessage, error) {
	return s.call("request_handlers", func() (json.RawMessage, error) { return s.svc.RequestHandlers(ctx) })
}

// Schema returns the full schema.
func (s *AdminService) Schema(ctx context.Context) (json.RawMessage, error) {
	return s.call("schema", func() (json.RawMessage, error) { return s.svc.Schema(ctx) })
}

// Field returns one field definition.
func (s *AdminService) Field(ctx context.Context, name string) (json.RawMessage, error) {
	return s.call("field", func() (json.RawMessage, error) { return s.svc.Field(ctx, name) })
}

// FieldType returns one field type definition.
func (s *AdminService) FieldType(ctx context.Context, name string) (json.RawMessage, error) {
	return s.call("field_type", func() (json.RawMessage, error) { return s.svc.FieldType(ctx, name) })
}

// UpdateConfig posts Config API commands, e.g. {"set-property": {...}}.
func (s *AdminService) UpdateConfig(ctx context.Context, body any) (json.RawMessage, error) {
	return s.call("update_config", func() (json.RawMessage, error) { return s.svc.UpdateConfig(ctx, body) })
}

// UpdateSchema posts Schema API commands, e.g. {"add-field": {...}}.
func (s *AdminService) UpdateSchema(ctx context.Context, body any) (json.RawMessage, error) {
	return s.call("update_schema", func() (json.RawMessage, error) { return s.svc.UpdateSchema(ctx, body) })
}

// Suggest calls the suggester handler with q.
func (s *AdminService) Suggest(ctx context.Context, q string, params url.Values) (json.RawMessage, error) {
	return s.call("suggest", func() (json.RawMessage, error) { return s.svc.Suggest(ctx, q, params) })
}
