package resource

import (
	"context"

	"github.com/kailas-cloud/solrsvc/internal/domain/document"
	"github.com/kailas-cloud/solrsvc/internal/domain/event"
	"github.com/kailas-cloud/solrsvc/internal/domain/page"
	"github.com/kailas-cloud/solrsvc/internal/domain/query"
	"github.com/kailas-cloud/solrsvc/internal/domain/result"
)

// Repository defines the storage contract for documents in one core.
type Repository interface {
	Find(ctx context.Context, q query.Query, w page.Resolved) (result.Result, error)
	Count(ctx context.Context, q query.Query) (int64, error)
	Get(ctx context.Context, id string) (document.Document, error)
	Add(ctx context.Context, docs []document.Document) error
	Patch(ctx context.Context, id string, fields document.Document) error
	DeleteByID(ctx context.Context, id string) error
	DeleteByQuery(ctx context.Context, q query.Query) error
}

// Publisher delivers resource events.
type Publisher interface {
	Publish(ctx context.Context, e event.Event) error
}
