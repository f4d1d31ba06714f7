package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirosfoundation/go-netsuite/pkg/cache"
	"github.com/sirosfoundation/go-netsuite/pkg/config"
	"github.com/sirosfoundation/go-netsuite/pkg/signing"
	"github.com/sirosfoundation/go-netsuite/pkg/transport"
)

// Content types used by the REST web services
const (
	ContentTypeJSON       = "application/json"
	ContentTypeSchemaJSON = "application/schema+json"
	ContentTypeSwagger    = "application/swagger+json"
)

// HeaderPropertyNameValidation makes NetSuite reject unknown record fields
const HeaderPropertyNameValidation = "X-NetSuite-PropertyNameValidation"

// Paths of the query and metadata endpoints, relative to /services/rest
const (
	SuiteQLPath         = "/query/v1/suiteql"
	MetadataCatalogPath = "/record/v1/metadata-catalog"
)

// API is the SuiteTalk REST web services facade
type API struct {
	hostname   string
	baseURL    string
	dispatcher *transport.Dispatcher
	auth       transport.Authorizer
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *slog.Logger
	signerOpts []signing.Option
}

// Option configures an API
type Option func(*API)

// WithDispatcher shares a dispatcher, and thereby its concurrency budget,
// with other facades.
func WithDispatcher(d *transport.Dispatcher) Option {
	return func(a *API) {
		a.dispatcher = d
	}
}

// WithAuthorizer replaces the OAuth1 signer derived from the configuration
func WithAuthorizer(auth transport.Authorizer) Option {
	return func(a *API) {
		a.auth = auth
	}
}

// WithSigningOptions passes nonce and clock strategies to the OAuth1 signer
func WithSigningOptions(opts ...signing.Option) Option {
	return func(a *API) {
		a.signerOpts = append(a.signerOpts, opts...)
	}
}

// WithBaseURL sends requests to baseURL instead of https://{hostname}
func WithBaseURL(baseURL string) Option {
	return func(a *API) {
		a.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithCache caches metadata catalog responses
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(a *API) {
		a.cache = c
		a.cacheTTL = ttl
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.logger = logger
	}
}

// New creates a REST facade. Token based auth is required.
func New(cfg *config.Config, opts ...Option) (*API, error) {
	a := &API{
		hostname: Hostname(cfg.Account),
		cacheTTL: cache.DefaultTTL,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.auth == nil {
		creds, err := signing.CredentialsFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		signer, err := signing.NewOAuth1Signer(creds, a.signerOpts...)
		if err != nil {
			return nil, err
		}
		a.auth = signer
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.dispatcher == nil {
		a.dispatcher = transport.NewDispatcher(&transport.DispatcherConfig{Logger: a.logger})
	}
	if a.baseURL == "" {
		a.baseURL = "https://" + a.hostname
	}

	return a, nil
}

// Hostname returns the REST host for an account, e.g. 123456_SB1 maps to
// 123456-sb1.suitetalk.api.netsuite.com.
func Hostname(account string) string {
	slug := strings.ReplaceAll(strings.ToLower(account), "_", "-")
	return slug + ".suitetalk.api.netsuite.com"
}

// Hostname returns the host requests are addressed to
func (a *API) Hostname() string {
	return a.hostname
}

// URL returns the absolute URL of a REST subpath
func (a *API) URL(subpath string) string {
	return a.baseURL + "/services/rest" + subpath
}

// DefaultHeaders returns the headers sent with every request
func DefaultHeaders() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", ContentTypeJSON)
	h.Set(HeaderPropertyNameValidation, "error")
	return h
}

type requestOptions struct {
	header  http.Header
	params  url.Values
	body    []byte
	timeout time.Duration
	err     error
}

// RequestOption configures a single request
type RequestOption func(*requestOptions)

// WithHeader sets a request header, replacing defaults of the same name
func WithHeader(name, value string) RequestOption {
	return func(o *requestOptions) {
		o.header.Set(name, value)
	}
}

// WithHeaders sets several request headers
func WithHeaders(h http.Header) RequestOption {
	return func(o *requestOptions) {
		for k, vs := range h {
			o.header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
		}
	}
}

// WithParam sets a query parameter
func WithParam(name, value string) RequestOption {
	return func(o *requestOptions) {
		o.params.Set(name, value)
	}
}

// WithParams sets several query parameters
func WithParams(p url.Values) RequestOption {
	return func(o *requestOptions) {
		for k, vs := range p {
			o.params[k] = append([]string(nil), vs...)
		}
	}
}

// WithJSON encodes v as the request body
func WithJSON(v any) RequestOption {
	return func(o *requestOptions) {
		body, err := json.Marshal(v)
		if err != nil {
			o.err = fmt.Errorf("encoding request body: %w", err)
			return
		}
		o.body = body
	}
}

// WithBody sets a raw request body
func WithBody(body []byte) RequestOption {
	return func(o *requestOptions) {
		o.body = body
	}
}

// WithTimeout overrides the dispatcher timeout for this request
func WithTimeout(d time.Duration) RequestOption {
	return func(o *requestOptions) {
		o.timeout = d
	}
}

func newRequestOptions(opts []RequestOption) *requestOptions {
	o := &requestOptions{
		header: make(http.Header),
		params: make(url.Values),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Get issues a GET request
func (a *API) Get(ctx context.Context, subpath string, opts ...RequestOption) (any, error) {
	return a.Request(ctx, http.MethodGet, subpath, opts...)
}

// Post issues a POST request
func (a *API) Post(ctx context.Context, subpath string, opts ...RequestOption) (any, error) {
	return a.Request(ctx, http.MethodPost, subpath, opts...)
}

// Put issues a PUT request
func (a *API) Put(ctx context.Context, subpath string, opts ...RequestOption) (any, error) {
	return a.Request(ctx, http.MethodPut, subpath, opts...)
}

// Patch issues a PATCH request
func (a *API) Patch(ctx context.Context, subpath string, opts ...RequestOption) (any, error) {
	return a.Request(ctx, http.MethodPatch, subpath, opts...)
}

// Delete issues a DELETE request
func (a *API) Delete(ctx context.Context, subpath string, opts ...RequestOption) (any, error) {
	return a.Request(ctx, http.MethodDelete, subpath, opts...)
}

// Request issues a request and decodes the JSON response. A 204 response
// yields nil.
func (a *API) Request(ctx context.Context, method, subpath string, opts ...RequestOption) (any, error) {
	resp, err := a.RawRequest(ctx, method, subpath, opts...)
	if err != nil {
		return nil, err
	}
	return transport.DecodeJSON(resp)
}

// RawRequest issues a request and returns the response without checking
// its status.
func (a *API) RawRequest(ctx context.Context, method, subpath string, opts ...RequestOption) (*transport.Response, error) {
	req, callOpts, err := a.newRequest(method, subpath, opts)
	if err != nil {
		return nil, err
	}
	return a.dispatcher.Do(ctx, req, a.auth, callOpts...)
}

func (a *API) newRequest(method, subpath string, opts []RequestOption) (*transport.Request, []transport.CallOption, error) {
	o := newRequestOptions(opts)
	if o.err != nil {
		return nil, nil, o.err
	}

	req := &transport.Request{
		Method: strings.ToUpper(method),
		URL:    a.URL(subpath),
		Header: transport.MergeHeaders(DefaultHeaders(), o.header),
		Params: o.params,
		Body:   o.body,
	}

	var callOpts []transport.CallOption
	if o.timeout > 0 {
		callOpts = append(callOpts, transport.WithTimeout(o.timeout))
	}
	return req, callOpts, nil
}

// SuiteQL runs a SuiteQL query. The query is transient on the server side.
func (a *API) SuiteQL(ctx context.Context, q string, limit, offset int, opts ...RequestOption) (any, error) {
	base := []RequestOption{
		WithHeader("Prefer", "transient"),
		WithJSON(map[string]string{"q": q}),
		WithParam("limit", strconv.Itoa(limit)),
		WithParam("offset", strconv.Itoa(offset)),
	}
	return a.Request(ctx, http.MethodPost, SuiteQLPath, append(base, opts...)...)
}

// JSONSchema returns the JSON schema of a record type
func (a *API) JSONSchema(ctx context.Context, recordType string, opts ...RequestOption) (any, error) {
	base := []RequestOption{WithHeader("Accept", ContentTypeSchemaJSON)}
	return a.cachedGet(ctx, MetadataCatalogPath+"/"+recordType, append(base, opts...))
}

// OpenAPI returns the OpenAPI (Swagger) document of the metadata catalog,
// limited to recordTypes when any are given.
func (a *API) OpenAPI(ctx context.Context, recordTypes []string, opts ...RequestOption) (any, error) {
	base := []RequestOption{WithHeader("Accept", ContentTypeSwagger)}
	if len(recordTypes) > 0 {
		base = append(base, WithParam("select", strings.Join(recordTypes, ",")))
	}
	return a.cachedGet(ctx, MetadataCatalogPath, append(base, opts...))
}

func (a *API) cachedGet(ctx context.Context, subpath string, opts []RequestOption) (any, error) {
	if a.cache == nil {
		return a.Request(ctx, http.MethodGet, subpath, opts...)
	}

	req, callOpts, err := a.newRequest(http.MethodGet, subpath, opts)
	if err != nil {
		return nil, err
	}
	key := cache.Key("rest", req.URL, req.Params.Encode(), req.Header.Get("Accept"))

	body, ok, err := a.cache.Get(ctx, key)
	if err != nil {
		a.logger.Warn("cache lookup failed", slog.String("url", req.URL), slog.Any("error", err))
	} else if ok {
		a.logger.Debug("cache hit", slog.String("url", req.URL))
		return transport.DecodeJSON(&transport.Response{StatusCode: http.StatusOK, Body: body})
	}

	resp, err := a.dispatcher.Do(ctx, req, a.auth, callOpts...)
	if err != nil {
		return nil, err
	}
	out, err := transport.DecodeJSON(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusNoContent {
		if err := a.cache.Set(ctx, key, resp.Body, a.cacheTTL); err != nil {
			a.logger.Warn("cache store failed", slog.String("url", req.URL), slog.Any("error", err))
		}
	}
	return out, nil
}
