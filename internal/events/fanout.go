package events

import (
	"context"
	"errors"

	"github.com/kailas-cloud/solrsvc/internal/domain/event"
)

// Sink is anything that accepts events.
type Sink interface {
	Publish(ctx context.Context, e event.Event) error
}

// Fanout delivers each event to every sink, in order, and joins the errors.
type Fanout []Sink

// NewFanout drops nil sinks.
func NewFanout(sinks ...Sink) Fanout {
	out := make(Fanout, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Publish implements resource.Publisher.
func (f Fanout) Publish(ctx context.Context, e event.Event) error {
	var errs []error
	for _, s := range f {
		if err := s.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
