package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kailas-cloud/solrsvc/internal/domain"
	"github.com/kailas-cloud/solrsvc/internal/domain/query"
)

// Whitelisted core-relative paths.
const (
	PathConfig           = "config"
	PathSearchComponents = "config/searchComponent"
	PathRequestHandlers  = "config/requestHandler"
	PathSchema           = "schema"
	PathFields           = "schema/fields"
	PathFieldTypes       = "schema/fieldtypes"
	PathPing             = "admin/ping"
	PathSuggest          = "suggest"
)

// getPaths can be read; postPaths can also be written.
var (
	getPaths = map[string]bool{
		PathConfig: true, PathSearchComponents: true, PathRequestHandlers: true,
		PathSchema: true, PathFields: true, PathFieldTypes: true,
		PathPing: true, PathSuggest: true,
	}
	postPaths = map[string]bool{PathConfig: true, PathSchema: true}
)

// Service relays config, schema and ping calls to the core.
type Service struct {
	store Store
}

// New creates an admin service.
func New(store Store) *Service {
	return &Service{store: store}
}

// Get relays a GET to a whitelisted path.
func (s *Service) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	path, err := checkPath(http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := s.store.Get(ctx, path, params, &out); err != nil {
		return nil, fmt.Errorf("admin get %s: %w", path, err)
	}
	return out, nil
}

// Post relays a JSON POST to a whitelisted path.
func (s *Service) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	path, err := checkPath(http.MethodPost, path)
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := s.store.Post(ctx, path, nil, body, &out); err != nil {
		return nil, fmt.Errorf("admin post %s: %w", path, err)
	}
	return out, nil
}

// Ping calls admin/ping.
func (s *Service) Ping(ctx context.Context) (json.RawMessage, error) {
	return s.Get(ctx, PathPing, nil)
}

// Config returns the core configuration overlay.
func (s *Service) Config(ctx context.Context) (json.RawMessage, error) {
	return s.Get(ctx, PathConfig, nil)
}

// SearchComponents returns the configured search components.
func (s *Service) SearchComponents(ctx context.Context) (json.RawMessage, error) {
	return s.Get(ctx, PathSearchComponents, nil)
}

// RequestHandlers returns the configured request handlers.
func (s *Service) RequestHandlers(ctx context.Context) (json.RawMessage, error) {
	return s.Get(ctx, PathRequestHandlers, nil)
}

// Schema returns the full schema.
func (s *Service) Schema(ctx context.Context) (json.RawMessage, error) {
	return s.Get(ctx, PathSchema, nil)
}

// Field returns one schema field definition.
func (s *Service) Field(ctx context.Context, name string) (json.RawMessage, error) {
	return s.Get(ctx, PathFields+"/"+name, nil)
}

// FieldType returns one schema field type definition.
func (s *Service) FieldType(ctx context.Context, name string) (json.RawMessage, error) {
	return s.Get(ctx, PathFieldTypes+"/"+name, nil)
}

// UpdateConfig posts Config API commands.
func (s *Service) UpdateConfig(ctx context.Context, body any) (json.RawMessage, error) {
	return s.Post(ctx, PathConfig, body)
}

// UpdateSchema posts Schema API commands.
func (s *Service) UpdateSchema(ctx context.Context, body any) (json.RawMessage, error) {
	return s.Post(ctx, PathSchema, body)
}

// Suggest calls the suggester handler directly.
func (s *Service) Suggest(ctx context.Context, q string, params url.Values) (json.RawMessage, error) {
	p := url.Values{}
	for k, v := range params {
		p[k] = v
	}
	p.Set("q", q)
	return s.Get(ctx, PathSuggest, p)
}

// checkPath normalizes path and checks it against the whitelist for method.
func checkPath(method, path string) (string, error) {
	path = strings.Trim(path, "/")

	allowed := getPaths
	if method == http.MethodPost {
		allowed = postPaths
	}
	if allowed[path] {
		return path, nil
	}

	if method == http.MethodGet {
		for _, prefix := range []string{PathFields + "/", PathFieldTypes + "/"} {
			if name, ok := strings.CutPrefix(path, prefix); ok && query.ValidField(name) {
				return path, nil
			}
		}
	}

	if method == http.MethodPost && getPaths[path] {
		return "", fmt.Errorf("post to %s: %w", path, domain.ErrMethodNotAllowed)
	}
	return "", domain.NewBadRequest(path, "unsupported admin path")
}
