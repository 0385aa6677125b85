// Package solr is a thin JSON-over-HTTP client for a single Solr core.
package solr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/kailas-cloud/solrsvc/internal/domain"
	logpkg "github.com/kailas-cloud/solrsvc/internal/logger"
	"github.com/kailas-cloud/solrsvc/internal/metrics"
)

const (
	defaultTimeout = 30 * time.Second
	tracerName     = "github.com/kailas-cloud/solrsvc/internal/transport/solr"
	maxErrorBody   = 512
)

// Config holds the Solr core connection settings.
type Config struct {
	CoreURL    string
	Username   string
	Password   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	Tracer     trace.Tracer
}

// Client sends requests to one Solr core. Safe for concurrent use.
type Client struct {
	coreURL  string
	username string
	password string
	http     *http.Client
	logger   *zap.Logger
	tracer   trace.Tracer
}

// New validates the core URL and builds a client.
func New(cfg Config) (*Client, error) {
	coreURL := strings.TrimRight(strings.TrimSpace(cfg.CoreURL), "/")
	if coreURL == "" {
		return nil, fmt.Errorf("solr core url is required: %w", domain.ErrInvalidConfig)
	}
	u, err := url.Parse(coreURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("solr core url %q must be an absolute http(s) url: %w", coreURL, domain.ErrInvalidConfig)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &Client{
		coreURL:  coreURL,
		username: cfg.Username,
		password: cfg.Password,
		http:     httpClient,
		logger:   logger,
		tracer:   tracer,
	}, nil
}

// CoreURL returns the normalized core URL.
func (c *Client) CoreURL() string { return c.coreURL }

// Get issues GET coreURL/path and decodes the JSON response into out (if non-nil).
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	return c.call(ctx, http.MethodGet, path, params, nil, out)
}

// Post issues POST coreURL/path with a JSON body and decodes the response into out (if non-nil).
func (c *Client) Post(ctx context.Context, path string, params url.Values, body, out any) error {
	return c.call(ctx, http.MethodPost, path, params, body, out)
}

// Ping checks the core via admin/ping.
func (c *Client) Ping(ctx context.Context) error {
	var resp Response
	if err := c.Get(ctx, PathPing, nil, &resp); err != nil {
		return err
	}
	if resp.Status != "" && resp.Status != "OK" {
		return fmt.Errorf("solr ping status %q: %w", resp.Status, domain.ErrUpstream)
	}
	return nil
}

// WaitForReady polls Ping until the core responds or timeout expires.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.Ping(ctx); err == nil {
		return nil
	}

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for solr core %s: %w", c.coreURL, ctx.Err())
		case <-ticker.C:
			if err := c.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (c *Client) call(ctx context.Context, method, path string, params url.Values, body, out any) error {
	path = strings.TrimLeft(path, "/")
	label := metricPath(path)
	start := time.Now()

	ctx, span := c.tracer.Start(ctx, "Solr "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("solr.url", c.coreURL+"/"+path),
			attribute.String("solr.path", label),
		),
	)
	defer span.End()

	ctx = httptrace.WithClientTrace(ctx, otelhttptrace.NewClientTrace(ctx))

	status, err := c.do(ctx, method, path, params, body, out)

	duration := time.Since(start)
	logpkg.FromContextOr(ctx, c.logger).Debug("solr request", zap.Object("solr", &QueryLog{
		Method:   method,
		Path:     path,
		Params:   params.Encode(),
		Status:   status,
		Duration: duration,
	}))

	metrics.SolrRequestDuration.WithLabelValues(method, label).Observe(duration.Seconds())
	metrics.SolrRequestsTotal.WithLabelValues(method, label, statusLabel(status)).Inc()
	span.SetAttributes(
		attribute.Int("http.status_code", status),
		attribute.Int64("solr.duration_us", duration.Microseconds()),
	)

	if err != nil {
		metrics.SolrErrorsTotal.WithLabelValues(label, errorType(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) (int, error) {
	req, err := c.createRequest(ctx, method, path, params, body)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("solr %s %s: %w: %w", method, path, domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read solr response: %w: %w", domain.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, parseErrorResponse(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, &DecodeError{Path: path, Err: err}
	}
	return resp.StatusCode, nil
}

func (c *Client) createRequest(
	ctx context.Context, method, path string, params url.Values, body any,
) (*http.Request, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode solr request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.coreURL+"/"+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create solr request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}
	return req, nil
}

// parseErrorResponse builds a ResponseError from Solr's {"error":{...}} block,
// falling back to the raw body.
func parseErrorResponse(status int, raw []byte) error {
	var parsed struct {
		Error *ErrorBody `json:"error"`
	}
	if json.Unmarshal(raw, &parsed) == nil && parsed.Error != nil && parsed.Error.Msg != "" {
		return &ResponseError{StatusCode: status, Code: parsed.Error.Code, Msg: parsed.Error.Msg}
	}

	msg := strings.TrimSpace(string(raw))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &ResponseError{StatusCode: status, Code: status, Msg: msg}
}

// metricPath collapses per-name admin paths (schema/fields/<name>) to bound label cardinality.
func metricPath(path string) string {
	parts := strings.SplitN(path, "/", 3)
	if len(parts) == 3 {
		return parts[0] + "/" + parts[1] + "/*"
	}
	if path == "" {
		return "unknown"
	}
	return path
}

func statusLabel(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}

func errorType(err error) string {
	var respErr *ResponseError
	var decErr *DecodeError
	switch {
	case errors.As(err, &respErr):
		return "status"
	case errors.As(err, &decErr):
		return "decode"
	default:
		return "network"
	}
}
