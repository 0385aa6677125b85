package resource

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/solrsvc/internal/domain"
	"github.com/kailas-cloud/solrsvc/internal/domain/document"
	"github.com/kailas-cloud/solrsvc/internal/domain/event"
	"github.com/kailas-cloud/solrsvc/internal/domain/page"
	"github.com/kailas-cloud/solrsvc/internal/domain/query"
	"github.com/kailas-cloud/solrsvc/internal/domain/result"
	logpkg "github.com/kailas-cloud/solrsvc/internal/logger"
)

// Operations that can be enabled for multiple documents at once.
const (
	MultiCreate = "create"
	MultiRemove = "remove"
)

// MultiOps lists the valid entries of the multi option.
var MultiOps = []string{MultiCreate, MultiRemove}

// FindParams carries a find call. Paginate overrides the service default when set.
type FindParams struct {
	Query    map[string]any
	Window   page.Window
	Paginate *page.Paginate
}

// Service exposes a Solr core as a find/get/create/update/patch/remove resource.
type Service struct {
	repo      Repository
	publisher Publisher
	logger    *zap.Logger
	name      string
	paginate  page.Paginate
	multi     []string
	events    []string
}

// New creates a resource service. publisher can be nil.
func New(repo Repository, publisher Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		name:      "documents",
	}
}

// WithName sets the resource name stamped on events.
func (s *Service) WithName(name string) *Service {
	if name != "" {
		s.name = name
	}
	return s
}

// WithPagination configures default pagination. The zero value disables it.
func (s *Service) WithPagination(p page.Paginate) *Service {
	s.paginate = p
	return s
}

// WithMulti enables multi-document create and/or remove.
func (s *Service) WithMulti(ops ...string) *Service {
	s.multi = append(s.multi[:0], ops...)
	return s
}

// WithEvents registers custom event names accepted by Emit.
func (s *Service) WithEvents(names ...string) *Service {
	s.events = append(s.events[:0], names...)
	return s
}

// Paginate returns the default pagination options.
func (s *Service) Paginate() page.Paginate { return s.paginate }

// Find queries the core. Validation failures are returned before any request is sent.
func (s *Service) Find(ctx context.Context, p FindParams) (result.Result, error) {
	q, err := query.Parse(p.Query)
	if err != nil {
		return nil, err
	}
	if err := checkWindow(p.Window); err != nil {
		return nil, err
	}

	pg := s.paginate
	if p.Paginate != nil {
		pg = *p.Paginate
	}
	w, err := pg.Resolve(p.Window)
	if err != nil {
		return nil, err
	}

	res, err := s.repo.Find(ctx, q, w)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	return res, nil
}

// Get fetches one document by id.
func (s *Service) Get(ctx context.Context, id string) (document.Document, error) {
	if id == "" {
		return nil, domain.NewBadRequest(document.IDField, "missing")
	}
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Create indexes one or more documents. Documents without an id get a UUID.
func (s *Service) Create(ctx context.Context, docs ...document.Document) ([]document.Document, error) {
	if len(docs) == 0 {
		return nil, domain.NewBadRequest("data", "no documents in")
	}
	if len(docs) > 1 && !s.allowsMulti(MultiCreate) {
		return nil, fmt.Errorf("create %d documents: %w", len(docs), domain.ErrMethodNotAllowed)
	}

	out := make([]document.Document, 0, len(docs))
	for _, d := range docs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		id := d.ID()
		if id == "" {
			id = uuid.NewString()
		}
		out = append(out, d.WithID(id).WithoutServerFields())
	}

	if err := s.repo.Add(ctx, out); err != nil {
		return nil, fmt.Errorf("create documents: %w", err)
	}

	for _, d := range out {
		s.emit(ctx, event.Created, d)
	}
	return out, nil
}

// Update replaces an existing document and returns the stored version.
func (s *Service) Update(ctx context.Context, id string, doc document.Document) (document.Document, error) {
	if id == "" {
		return nil, domain.NewBadRequest(document.IDField, "missing")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	full := doc.WithID(id).WithoutServerFields()
	if err := s.repo.Add(ctx, []document.Document{full}); err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	stored, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read updated document: %w", err)
	}
	s.emit(ctx, event.Updated, stored)
	return stored, nil
}

// Patch sets the given fields on an existing document and returns the stored version.
func (s *Service) Patch(ctx context.Context, id string, fields document.Document) (document.Document, error) {
	if id == "" {
		return nil, domain.NewBadRequest(document.IDField, "missing")
	}
	if len(document.AtomicUpdate(id, fields)) <= 1 {
		return nil, domain.NewBadRequest("data", "empty patch in")
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("patch document: %w", err)
	}

	if err := s.repo.Patch(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("patch document: %w", err)
	}

	stored, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read patched document: %w", err)
	}
	s.emit(ctx, event.Patched, stored)
	return stored, nil
}

// Remove deletes one document and returns it. A missing id yields ErrNotFound.
func (s *Service) Remove(ctx context.Context, id string) (document.Document, error) {
	if id == "" {
		return nil, domain.NewBadRequest(document.IDField, "missing")
	}
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("remove document: %w", err)
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return nil, fmt.Errorf("remove document: %w", err)
	}
	s.emit(ctx, event.Removed, doc)
	return doc, nil
}

// RemoveMatching deletes every document matching filter and returns how many matched.
func (s *Service) RemoveMatching(ctx context.Context, filter map[string]any) (int64, error) {
	if !s.allowsMulti(MultiRemove) {
		return 0, fmt.Errorf("remove by query: %w", domain.ErrMethodNotAllowed)
	}
	q, err := query.Parse(filter)
	if err != nil {
		return 0, err
	}

	n, err := s.repo.Count(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("remove by query: %w", err)
	}
	if err := s.repo.DeleteByQuery(ctx, q); err != nil {
		return 0, fmt.Errorf("remove by query: %w", err)
	}

	s.emit(ctx, event.Removed, map[string]any{"query": filter, "count": n})
	return n, nil
}

// Emit publishes a custom event. Only standard and registered names are accepted.
func (s *Service) Emit(ctx context.Context, name string, data any) error {
	if !event.IsStandard(name) && !slices.Contains(s.events, name) {
		return domain.NewBadRequest(name, "unregistered event")
	}
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Publish(ctx, event.New(s.name, name, data)); err != nil {
		return fmt.Errorf("emit %s: %w", name, err)
	}
	return nil
}

func (s *Service) emit(ctx context.Context, name string, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event.New(s.name, name, data)); err != nil {
		logpkg.FromContextOr(ctx, s.logger).Warn("Event publish failed",
			zap.String("resource", s.name),
			zap.String("event", name),
			zap.Error(err),
		)
	}
}

func (s *Service) allowsMulti(op string) bool {
	return slices.Contains(s.multi, op)
}

func checkWindow(w page.Window) error {
	sortFields := make([]string, len(w.Sort))
	for i, f := range w.Sort {
		sortFields[i] = f.Field
	}
	if err := query.CheckFields("$sort", sortFields); err != nil {
		return err
	}
	return query.CheckFields("$select", w.Select)
}
