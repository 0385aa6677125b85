package admin

import (
	"context"
	"net/url"
)

// Store is the raw Solr transport.
type Store interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
	Post(ctx context.Context, path string, params url.Values, body, out any) error
}
