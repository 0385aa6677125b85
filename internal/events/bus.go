// Package events delivers resource events to in-process subscribers and Redis.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kailas-cloud/solrsvc/internal/domain/event"
	"github.com/kailas-cloud/solrsvc/internal/metrics"
)

// Handler receives an event. A returned error is reported to the publisher.
type Handler func(ctx context.Context, e event.Event) error

// Wildcard subscribes to every event name.
const Wildcard = "*"

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is an in-process synchronous event bus. Safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]subscription)}
}

// Subscribe registers h for name (or Wildcard). The returned func unsubscribes.
func (b *Bus) Subscribe(name string, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscription{id: id, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(name, id) })
	}
}

func (b *Bus) remove(name string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[name]
	for i, s := range subs {
		if s.id == id {
			b.subs[name] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[name]) == 0 {
		delete(b.subs, name)
	}
}

// Publish calls every matching handler in subscription order and joins their errors.
func (b *Bus) Publish(ctx context.Context, e event.Event) error {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[e.Name])+len(b.subs[Wildcard]))
	for _, s := range b.subs[e.Name] {
		handlers = append(handlers, s.handler)
	}
	for _, s := range b.subs[Wildcard] {
		handlers = append(handlers, s.handler)
	}
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("handler for %s: %w", e.Name, err))
		}
	}

	status := "success"
	if len(errs) > 0 {
		status = "error"
	}
	metrics.EventsPublishedTotal.WithLabelValues("bus", e.Name, status).Inc()
	return errors.Join(errs...)
}

// Subscribers returns the number of handlers registered for name.
func (b *Bus) Subscribers(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[name])
}
