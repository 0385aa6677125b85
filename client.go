package solrsvc

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/solrsvc/internal/db"
	dbRedis "github.com/kailas-cloud/solrsvc/internal/db/redis"
	"github.com/kailas-cloud/solrsvc/internal/domain/document"
	"github.com/kailas-cloud/solrsvc/internal/domain/page"
	"github.com/kailas-cloud/solrsvc/internal/domain/result"
	"github.com/kailas-cloud/solrsvc/internal/events"
	corerepo "github.com/kailas-cloud/solrsvc/internal/repository/core"
	"github.com/kailas-cloud/solrsvc/internal/transport/solr"
	adminuc "github.com/kailas-cloud/solrsvc/internal/usecase/admin"
	healthuc "github.com/kailas-cloud/solrsvc/internal/usecase/health"
	resourceuc "github.com/kailas-cloud/solrsvc/internal/usecase/resource"
)

const defaultResourceName = "documents"

// Internal interfaces, replaced by mocks in tests.
type resourceUseCase interface {
	Find(ctx context.Context, p resourceuc.FindParams) (result.Result, error)
	Get(ctx context.Context, id string) (document.Document, error)
	Create(ctx context.Context, docs ...document.Document) ([]document.Document, error)
	Update(ctx context.Context, id string, doc document.Document) (document.Document, error)
	Patch(ctx context.Context, id string, fields document.Document) (document.Document, error)
	Remove(ctx context.Context, id string) (document.Document, error)
	RemoveMatching(ctx context.Context, filter map[string]any) (int64, error)
	Emit(ctx context.Context, name string, data any) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Client is the solrsvc SDK entry point. It is safe for concurrent use.
type Client struct {
	pinger    pinger
	store     db.Store
	resources resourceUseCase
	admin     adminUseCase
	health    healthUseCase
	bus       *events.Bus
	obs       *observer
}

// New creates a Client for one Solr core. No request is sent until the first call.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{name: defaultResourceName}
	for _, o := range opts {
		o.apply(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	sc, err := solr.New(solr.Config{
		CoreURL:    cfg.coreURL,
		Username:   cfg.username,
		Password:   cfg.password,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("solrsvc: %w", err)
	}

	var store db.Store
	if len(cfg.redisAddrs) > 0 {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.redisAddrs,
			Password: cfg.redisPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("solrsvc: create redis store: %w", err)
		}
		store = s
	}

	obs, err := newObserver(cfg.name, cfg.logger, cfg.metricsReg)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return wireClient(sc, store, cfg, obs), nil
}

func (c *clientConfig) validate() error {
	if strings.TrimSpace(c.coreURL) == "" {
		return fmt.Errorf("solrsvc: core URL required (use WithCoreURL): %w", ErrInvalidConfig)
	}
	for _, op := range c.multi {
		if !slices.Contains(resourceuc.MultiOps, op) {
			return fmt.Errorf("solrsvc: unknown multi operation %q: %w", op, ErrInvalidConfig)
		}
	}
	p := c.paginate
	if p.Default < 0 || p.Max < 0 {
		return fmt.Errorf("solrsvc: invalid pagination default=%d max=%d: %w", p.Default, p.Max, ErrInvalidConfig)
	}
	return nil
}

func wireClient(sc *solr.Client, store db.Store, cfg *clientConfig, obs *observer) *Client {
	bus := events.NewBus()
	sinks := []events.Sink{bus}

	// Pass nil interface (not typed nil pointer!) if Redis is not configured.
	var eventsPinger healthuc.EventsPinger
	if store != nil {
		sinks = append(sinks, events.NewRedisPublisher(store, cfg.channelPrefix))
		eventsPinger = store
	}

	resources := resourceuc.New(corerepo.New(sc), events.NewFanout(sinks...), nil).
		WithName(cfg.name).
		WithPagination(page.Paginate(cfg.paginate)).
		WithMulti(cfg.multi...).
		WithEvents(cfg.events...)

	return &Client{
		pinger:    sc,
		store:     store,
		resources: resources,
		admin:     adminuc.New(sc),
		health:    healthuc.New(sc, eventsPinger),
		bus:       bus,
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks that the core answers admin/ping.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.pinger.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Find queries the core. The result is Paginated, Unpaginated or, when $suggest
// is set, Suggestions.
func (c *Client) Find(ctx context.Context, p FindParams) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("find", start, err) }()

	sortFields, err := page.ParseSort(p.Sort)
	if err != nil {
		return nil, err
	}
	fp := resourceuc.FindParams{
		Query: p.Query,
		Window: page.Window{
			Limit:  p.Limit,
			Skip:   p.Skip,
			Sort:   sortFields,
			Select: p.Select,
		},
	}
	if p.Paginate != nil {
		pg := page.Paginate(*p.Paginate)
		fp.Paginate = &pg
	}

	res, err = c.resources.Find(ctx, fp)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	return res, nil
}

// Get retrieves a document by id.
func (c *Client) Get(ctx context.Context, id string) (doc Document, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get", start, err) }()

	doc, err = c.resources.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	return doc, nil
}

// Create indexes documents and returns them with their ids. More than one
// document requires WithMulti(MultiCreate).
func (c *Client) Create(ctx context.Context, docs ...Document) (created []Document, err error) {
	start := time.Now()
	defer func() { c.obs.observe("create", start, err) }()

	created, err = c.resources.Create(ctx, docs...)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	return created, nil
}

// Update replaces an existing document.
func (c *Client) Update(ctx context.Context, id string, doc Document) (stored Document, err error) {
	start := time.Now()
	defer func() { c.obs.observe("update", start, err) }()

	stored, err = c.resources.Update(ctx, id, doc)
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	return stored, nil
}

// Patch sets the given fields on an existing document.
func (c *Client) Patch(ctx context.Context, id string, fields Document) (stored Document, err error) {
	start := time.Now()
	defer func() { c.obs.observe("patch", start, err) }()

	stored, err = c.resources.Patch(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}
	return stored, nil
}

// Remove deletes a document and returns it.
func (c *Client) Remove(ctx context.Context, id string) (removed Document, err error) {
	start := time.Now()
	defer func() { c.obs.observe("remove", start, err) }()

	removed, err = c.resources.Remove(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("remove: %w", err)
	}
	return removed, nil
}

// RemoveMatching deletes every document matching filter and returns how many
// matched. Requires WithMulti(MultiRemove).
func (c *Client) RemoveMatching(ctx context.Context, filter Query) (n int64, err error) {
	start := time.Now()
	defer func() { c.obs.observe("remove_matching", start, err) }()

	n, err = c.resources.RemoveMatching(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("remove matching: %w", err)
	}
	return n, nil
}

// Emit publishes a custom event registered with WithEvents.
func (c *Client) Emit(ctx context.Context, name string, data any) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("emit", start, err) }()

	if err = c.resources.Emit(ctx, name, data); err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	return nil
}

// Subscribe calls handler for every event named name, or for all events with "*".
// The returned func removes the subscription.
func (c *Client) Subscribe(name string, handler func(ctx context.Context, e Event) error) (unsubscribe func()) {
	return c.bus.Subscribe(name, handler)
}
