// Package db defines the contracts of the event transport store.
package db

import (
	"context"
	"time"
)

// Store is the pub/sub facade used by event sinks.
type Store interface {
	Pinger
	Publisher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Publisher sends a payload to a channel. It returns the number of receivers.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) (int64, error)
}
