package netsuite

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/sirosfoundation/go-netsuite/pkg/cache"
	"github.com/sirosfoundation/go-netsuite/pkg/config"
	"github.com/sirosfoundation/go-netsuite/pkg/metrics"
	"github.com/sirosfoundation/go-netsuite/pkg/restapi"
	"github.com/sirosfoundation/go-netsuite/pkg/restlet"
	"github.com/sirosfoundation/go-netsuite/pkg/signing"
	"github.com/sirosfoundation/go-netsuite/pkg/soap"
	"github.com/sirosfoundation/go-netsuite/pkg/transport"
)

// Client gives access to the REST, Restlet and SOAP interfaces of one
// account. The facades are built on first use and share one dispatcher.
type Client struct {
	config     *config.Config
	dispatcher *transport.Dispatcher
	metrics    *metrics.Collector
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *slog.Logger

	soapVersion     string
	restletHostname string
	signingOpts     []signing.Option

	restOnce sync.Once
	rest     *restapi.API
	restErr  error

	restletOnce sync.Once
	restlet     *restlet.Restlet
	restletErr  error

	soapOnce sync.Once
	soap     *soap.Client
	soapErr  error
}

type clientOptions struct {
	dispatcher      transport.DispatcherConfig
	cache           cache.Cache
	cacheTTL        time.Duration
	registerer      prometheus.Registerer
	soapVersion     string
	restletHostname string
	signingOpts     []signing.Option
}

// Option configures a Client
type Option func(*clientOptions)

// WithMaxConcurrent bounds simultaneously in-flight requests across all
// facades (default 10)
func WithMaxConcurrent(n int64) Option {
	return func(o *clientOptions) {
		o.dispatcher.MaxConcurrent = n
	}
}

// WithTimeout sets the default per request timeout (default 60s)
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.dispatcher.Timeout = d
	}
}

// WithRateLimit limits requests to r per second with the given burst
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(o *clientOptions) {
		o.dispatcher.RateLimiter = rate.NewLimiter(r, burst)
	}
}

// WithHTTPSConfig configures TLS and connection pooling
func WithHTTPSConfig(cfg *transport.HTTPSConfig) Option {
	return func(o *clientOptions) {
		o.dispatcher.HTTPSConfig = cfg
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.dispatcher.HTTPClient = client
	}
}

// WithCache caches metadata catalog responses and the WSDL
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(o *clientOptions) {
		o.cache = c
		o.cacheTTL = ttl
	}
}

// WithMetrics registers dispatch metrics with reg
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *clientOptions) {
		o.registerer = reg
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		o.dispatcher.Logger = logger
	}
}

// WithSOAPVersion selects the SuiteTalk SOAP version
func WithSOAPVersion(version string) Option {
	return func(o *clientOptions) {
		o.soapVersion = version
	}
}

// WithRestletHostname overrides the derived Restlet hostname
func WithRestletHostname(hostname string) Option {
	return func(o *clientOptions) {
		o.restletHostname = hostname
	}
}

// WithSigningOptions passes nonce and clock strategies to every signer
func WithSigningOptions(opts ...signing.Option) Option {
	return func(o *clientOptions) {
		o.signingOpts = append(o.signingOpts, opts...)
	}
}

// New normalizes and validates cfg and creates a client. No facade is
// built yet.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &clientOptions{cacheTTL: cache.DefaultTTL}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.dispatcher.Logger
	if logger == nil {
		logger = slog.Default()
		o.dispatcher.Logger = logger
	}
	if o.registerer != nil {
		o.dispatcher.Metrics = metrics.NewCollector(o.registerer)
	}

	return &Client{
		config:          cfg,
		dispatcher:      transport.NewDispatcher(&o.dispatcher),
		metrics:         o.dispatcher.Metrics,
		cache:           o.cache,
		cacheTTL:        o.cacheTTL,
		logger:          logger,
		soapVersion:     o.soapVersion,
		restletHostname: o.restletHostname,
		signingOpts:     o.signingOpts,
	}, nil
}

// Config returns the client configuration
func (c *Client) Config() *config.Config {
	return c.config
}

// Dispatcher returns the dispatcher shared by all facades
func (c *Client) Dispatcher() *transport.Dispatcher {
	return c.dispatcher
}

// Metrics returns the dispatch collectors, nil unless WithMetrics was given
func (c *Client) Metrics() *metrics.Collector {
	return c.metrics
}

// RestAPI returns the SuiteTalk REST facade. Token based auth is required.
func (c *Client) RestAPI() (*restapi.API, error) {
	c.restOnce.Do(func() {
		opts := []restapi.Option{
			restapi.WithDispatcher(c.dispatcher),
			restapi.WithLogger(c.logger),
			restapi.WithSigningOptions(c.signingOpts...),
		}
		if c.cache != nil {
			opts = append(opts, restapi.WithCache(c.cache, c.cacheTTL))
		}
		c.rest, c.restErr = restapi.New(c.config, opts...)
	})
	return c.rest, c.restErr
}

// Restlet returns the Restlet facade. Token based auth is required.
func (c *Client) Restlet() (*restlet.Restlet, error) {
	c.restletOnce.Do(func() {
		opts := []restlet.Option{
			restlet.WithDispatcher(c.dispatcher),
			restlet.WithLogger(c.logger),
			restlet.WithSigningOptions(c.signingOpts...),
		}
		if c.restletHostname != "" {
			opts = append(opts, restlet.WithHostname(c.restletHostname))
		}
		c.restlet, c.restletErr = restlet.New(c.config, opts...)
	})
	return c.restlet, c.restletErr
}

// SOAP returns the SOAP web services facade. Binaries built with the nosoap
// tag get a soap.DependencyMissingError.
func (c *Client) SOAP() (*soap.Client, error) {
	c.soapOnce.Do(func() {
		opts := []soap.Option{
			soap.WithDispatcher(c.dispatcher),
			soap.WithLogger(c.logger),
			soap.WithSigningOptions(c.signingOpts...),
		}
		if c.soapVersion != "" {
			opts = append(opts, soap.WithVersion(c.soapVersion))
		}
		if c.cache != nil {
			opts = append(opts, soap.WithCache(c.cache, c.cacheTTL))
		}
		c.soap, c.soapErr = soap.New(c.config, opts...)
	})
	return c.soap, c.soapErr
}
