package solrsvc

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	coreURL    string
	username   string
	password   string
	timeout    time.Duration
	httpClient *http.Client

	name     string
	paginate Paginate
	multi    []string
	events   []string

	redisAddrs    []string
	redisPassword string
	channelPrefix string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCoreURL sets the base URL of the Solr core, e.g. http://localhost:8983/solr/people.
// Required.
func WithCoreURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.coreURL = url
	})
}

// WithBasicAuth sends HTTP basic credentials with every Solr request.
func WithBasicAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithTimeout sets the per-request timeout. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithHTTPClient replaces the HTTP client used for Solr requests.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithName sets the resource name stamped on events. Default: "documents".
func WithName(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.name = name
	})
}

// WithPagination enables the paginated envelope with the given default and maximum page size.
func WithPagination(defaultSize, maxSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.paginate = Paginate{Default: defaultSize, Max: maxSize}
	})
}

// WithMulti allows creating and/or removing several documents in one call.
// Accepts MultiCreate and MultiRemove.
func WithMulti(ops ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.multi = append(c.multi, ops...)
	})
}

// WithEvents registers custom event names accepted by Client.Emit.
func WithEvents(names ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.events = append(c.events, names...)
	})
}

// WithRedisEvents also publishes events to Redis channels named prefix+resource+":"+event.
// An empty prefix uses "solrsvc:".
func WithRedisEvents(addr, password, prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPassword = password
		c.channelPrefix = prefix
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
