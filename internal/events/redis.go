package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/solrsvc/internal/db"
	"github.com/kailas-cloud/solrsvc/internal/domain/event"
	"github.com/kailas-cloud/solrsvc/internal/metrics"
)

// DefaultChannelPrefix prefixes every channel name.
const DefaultChannelPrefix = "solrsvc:"

// RedisPublisher publishes events as JSON on <prefix><resource>:<event>.
type RedisPublisher struct {
	store  db.Publisher
	prefix string
}

// NewRedisPublisher creates a publisher over store. An empty prefix uses DefaultChannelPrefix.
func NewRedisPublisher(store db.Publisher, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &RedisPublisher{store: store, prefix: prefix}
}

// Channel returns the channel an event is published on.
func (p *RedisPublisher) Channel(e event.Event) string {
	return p.prefix + e.Resource + ":" + e.Name
}

// Publish implements resource.Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, e event.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues("redis", e.Name, "error").Inc()
		return fmt.Errorf("encode event %s: %w", e.Name, err)
	}

	if _, err := p.store.Publish(ctx, p.Channel(e), payload); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues("redis", e.Name, "error").Inc()
		return fmt.Errorf("publish event %s: %w", e.Name, err)
	}

	metrics.EventsPublishedTotal.WithLabelValues("redis", e.Name, "success").Inc()
	return nil
}
