// Package redis carries resource events over Redis pub/sub.
package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/solrsvc/internal/db"
	"github.com/kailas-cloud/solrsvc/internal/domain"
)

var _ db.Store = (*Store)(nil)

const (
	defaultClientName  = "solrsvc"
	defaultDialTimeout = 5 * time.Second
	readyPollInterval  = 250 * time.Millisecond
)

// Config holds connection parameters for the event store.
type Config struct {
	Addrs       []string
	Username    string
	Password    string
	DB          int
	ClientName  string
	DialTimeout time.Duration
}

// Store publishes event payloads to Redis channels. Client-side caching is
// disabled: the store never reads keys.
type Store struct {
	client rueidis.Client
}

// NewStore connects to Redis. An empty address list is a configuration error.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("redis addrs required: %w", domain.ErrInvalidConfig)
	}
	name := cfg.ClientName
	if name == "" {
		name = defaultClientName
	}
	dial := cfg.DialTimeout
	if dial <= 0 {
		dial = defaultDialTimeout
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		ClientName:   name,
		DisableCache: true,
		Dialer:       net.Dialer{Timeout: dial},
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis %v: %w", cfg.Addrs, err)
	}
	return newStore(client), nil
}

func newStore(c rueidis.Client) *Store {
	return &Store{client: c}
}

// Ping checks connectivity. Failures wrap ErrUpstream.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("redis ping: %w: %w", domain.ErrUpstream, err)
	}
	return nil
}

// Publish sends payload to channel and returns the number of subscribers that received it.
func (s *Store) Publish(ctx context.Context, channel string, payload []byte) (int64, error) {
	cmd := s.client.B().Publish().Channel(channel).Message(rueidis.BinaryString(payload)).Build()
	n, err := s.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("redis publish %s: %w: %w", channel, domain.ErrUpstream, err)
	}
	return n, nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings once, then polls until Redis answers or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Ping(ctx); err == nil {
		return nil
	}

	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for redis: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
