package solrsvc

import (
	"github.com/kailas-cloud/solrsvc/internal/domain/document"
	"github.com/kailas-cloud/solrsvc/internal/domain/event"
	"github.com/kailas-cloud/solrsvc/internal/domain/result"
	resourceuc "github.com/kailas-cloud/solrsvc/internal/usecase/resource"
)

// Query is a filter query or a nested operator object.
type Query = map[string]any

// Document is a Solr document keyed by field name. "id" is the unique key.
type Document = document.Document

// Result is one of Paginated, Unpaginated or Suggestions.
type Result = result.Result

// Result variants.
type (
	Paginated   = result.Paginated
	Unpaginated = result.Unpaginated
	Suggestions = result.Suggestions
	Suggestion  = result.Suggestion
	Facets      = result.Facets
	Bucket      = result.Bucket
)

// Event is a resource event delivered to subscribers.
type Event = event.Event

// Standard event names.
const (
	EventCreated = event.Created
	EventUpdated = event.Updated
	EventPatched = event.Patched
	EventRemoved = event.Removed
)

// Multi operations accepted by WithMulti.
const (
	MultiCreate = resourceuc.MultiCreate
	MultiRemove = resourceuc.MultiRemove
)

// Paginate holds the default and maximum page size. The zero value disables pagination.
type Paginate struct {
	Default int
	Max     int
}

// FindParams describes a find call.
type FindParams struct {
	// Query is the filter. See the package documentation for the syntax.
	Query Query
	// Limit and Skip select the window. A nil Limit uses the default page size.
	Limit *int
	Skip  int
	// Sort lists fields in order; a "-" prefix sorts descending.
	Sort []string
	// Select restricts the returned fields.
	Select []string
	// Paginate overrides the client pagination for this call.
	Paginate *Paginate
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}
