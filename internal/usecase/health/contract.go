package health

import "context"

// SolrPinger checks Solr core availability.
type SolrPinger interface {
	Ping(ctx context.Context) error
}

// EventsPinger checks the event transport.
type EventsPinger interface {
	Ping(ctx context.Context) error
}
