package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/sirosfoundation/go-netsuite/pkg/metrics"
)

// Dispatch defaults
const (
	DefaultMaxConcurrent = 10
	DefaultTimeout       = 60 * time.Second
)

// Authorizer signs an outgoing request, typically by setting the
// Authorization header.
type Authorizer interface {
	Authorize(req *http.Request) error
}

// AuthorizerFunc adapts a function to Authorizer
type AuthorizerFunc func(req *http.Request) error

// Authorize implements Authorizer
func (f AuthorizerFunc) Authorize(req *http.Request) error {
	return f(req)
}

// Request is a single NetSuite call before signing
type Request struct {
	Method string
	URL    string
	Header http.Header
	// Params are added to the URL query, replacing keys already present
	Params url.Values
	Body   []byte
}

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DispatcherConfig configures a Dispatcher
type DispatcherConfig struct {
	// MaxConcurrent bounds simultaneously in-flight requests (default 10)
	MaxConcurrent int64
	// Timeout applies to each request unless overridden (default 60s)
	Timeout time.Duration
	// RateLimiter, when set, is waited on after a permit is acquired
	RateLimiter *rate.Limiter
	// HTTPSConfig configures the default HTTP client
	HTTPSConfig *HTTPSConfig
	// HTTPClient replaces the client built from HTTPSConfig
	HTTPClient *http.Client
	Metrics    *metrics.Collector
	Logger     *slog.Logger
}

// Dispatcher issues HTTP requests against a shared concurrency budget
type Dispatcher struct {
	client        *http.Client
	maxConcurrent int64
	timeout       time.Duration
	limiter       *rate.Limiter
	metrics       *metrics.Collector
	logger        *slog.Logger

	permitsOnce sync.Once
	permits     *semaphore.Weighted
	inFlight    atomic.Int64
}

// NewDispatcher creates a dispatcher. The permit pool itself is created on
// first use.
func NewDispatcher(config *DispatcherConfig) *Dispatcher {
	if config == nil {
		config = &DispatcherConfig{}
	}

	client := config.HTTPClient
	if client == nil {
		client = NewHTTPClient(config.HTTPSConfig)
	}
	maxConcurrent := config.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		client:        client,
		maxConcurrent: maxConcurrent,
		timeout:       timeout,
		limiter:       config.RateLimiter,
		metrics:       config.Metrics,
		logger:        logger,
	}
}

// MaxConcurrent returns the size of the permit pool
func (d *Dispatcher) MaxConcurrent() int64 {
	return d.maxConcurrent
}

// Timeout returns the default per-request timeout
func (d *Dispatcher) Timeout() time.Duration {
	return d.timeout
}

// InFlight returns the number of permits currently held
func (d *Dispatcher) InFlight() int64 {
	return d.inFlight.Load()
}

func (d *Dispatcher) pool() *semaphore.Weighted {
	d.permitsOnce.Do(func() {
		d.permits = semaphore.NewWeighted(d.maxConcurrent)
	})
	return d.permits
}

type callOptions struct {
	timeout time.Duration
}

// CallOption configures a single Do call
type CallOption func(*callOptions)

// WithTimeout overrides the dispatcher timeout for one call
func WithTimeout(timeout time.Duration) CallOption {
	return func(o *callOptions) {
		o.timeout = timeout
	}
}

// Do sends req once a permit is available. The permit is released when Do
// returns, whatever the outcome. auth may be nil for requests that carry
// their credentials in the body.
func (d *Dispatcher) Do(ctx context.Context, req *Request, auth Authorizer, opts ...CallOption) (*Response, error) {
	o := callOptions{timeout: d.timeout}
	for _, opt := range opts {
		opt(&o)
	}

	log := d.logger.With(
		slog.String("request_id", uuid.New().String()),
		slog.String("method", req.Method),
		slog.String("url", req.URL),
	)

	d.metrics.StartWaiting()
	if err := d.pool().Acquire(ctx, 1); err != nil {
		d.metrics.StopWaiting()
		return nil, fmt.Errorf("waiting for dispatch permit: %w", err)
	}
	d.inFlight.Add(1)
	d.metrics.Acquired()
	defer func() {
		d.inFlight.Add(-1)
		d.metrics.Released()
		d.pool().Release(1)
	}()

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	httpReq, err := d.newHTTPRequest(callCtx, req)
	if err != nil {
		return nil, err
	}
	if auth != nil {
		if err := auth.Authorize(httpReq); err != nil {
			return nil, fmt.Errorf("failed to sign request: %w", err)
		}
	}

	log.Debug("making request", slog.Int("body_bytes", len(req.Body)))

	start := time.Now()
	resp, err := d.client.Do(httpReq)
	if err != nil {
		d.metrics.Observe(req.Method, "error", time.Since(start))
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	d.metrics.Observe(req.Method, strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	log.Debug("got response",
		slog.Int("status", resp.StatusCode),
		slog.Any("headers", resp.Header),
		slog.Duration("elapsed", time.Since(start)),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (d *Dispatcher) newHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL: %w", err)
	}
	if len(req.Params) > 0 {
		q := u.Query()
		for k, vs := range req.Params {
			q[k] = append([]string(nil), vs...)
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", UserAgent)
	}

	return httpReq, nil
}

// MergeHeaders returns defaults overlaid with overrides; keys present in
// overrides replace the default values entirely.
func MergeHeaders(defaults, overrides http.Header) http.Header {
	out := make(http.Header, len(defaults)+len(overrides))
	for k, vs := range defaults {
		out[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
	for k, vs := range overrides {
		out[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
	return out
}

// MergeParams returns defaults overlaid with overrides
func MergeParams(defaults, overrides url.Values) url.Values {
	out := make(url.Values, len(defaults)+len(overrides))
	for k, vs := range defaults {
		out[k] = append([]string(nil), vs...)
	}
	for k, vs := range overrides {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
