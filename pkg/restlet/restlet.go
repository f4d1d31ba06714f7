package restlet

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sirosfoundation/go-netsuite/pkg/config"
	"github.com/sirosfoundation/go-netsuite/pkg/signing"
	"github.com/sirosfoundation/go-netsuite/pkg/transport"
)

// Path is the hosting path all Restlets are served from
const Path = "/app/site/hosting/restlet.nl"

// DefaultDeploy is the deployment used when none is given
const DefaultDeploy = 1

// Restlet calls NetSuite Restlet scripts
type Restlet struct {
	hostname   string
	baseURL    string
	dispatcher *transport.Dispatcher
	auth       transport.Authorizer
	logger     *slog.Logger
	signerOpts []signing.Option
}

// Option configures a Restlet
type Option func(*Restlet)

// WithHostname overrides the derived Restlet host
func WithHostname(hostname string) Option {
	return func(r *Restlet) {
		r.hostname = hostname
	}
}

// WithBaseURL sends requests to baseURL instead of https://{hostname}
func WithBaseURL(baseURL string) Option {
	return func(r *Restlet) {
		r.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithDispatcher shares a dispatcher with other facades
func WithDispatcher(d *transport.Dispatcher) Option {
	return func(r *Restlet) {
		r.dispatcher = d
	}
}

// WithAuthorizer replaces the OAuth1 signer derived from the configuration
func WithAuthorizer(auth transport.Authorizer) Option {
	return func(r *Restlet) {
		r.auth = auth
	}
}

// WithSigningOptions passes nonce and clock strategies to the OAuth1 signer
func WithSigningOptions(opts ...signing.Option) Option {
	return func(r *Restlet) {
		r.signerOpts = append(r.signerOpts, opts...)
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *Restlet) {
		r.logger = logger
	}
}

// New creates a Restlet facade. Token based auth is required.
func New(cfg *config.Config, opts ...Option) (*Restlet, error) {
	r := &Restlet{hostname: Hostname(cfg.Account)}
	for _, opt := range opts {
		opt(r)
	}

	if r.auth == nil {
		creds, err := signing.CredentialsFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		signer, err := signing.NewOAuth1Signer(creds, r.signerOpts...)
		if err != nil {
			return nil, err
		}
		r.auth = signer
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.dispatcher == nil {
		r.dispatcher = transport.NewDispatcher(&transport.DispatcherConfig{Logger: r.logger})
	}
	if r.baseURL == "" {
		r.baseURL = "https://" + r.hostname
	}

	return r, nil
}

// Hostname returns the Restlet host for an account
func Hostname(account string) string {
	slug := strings.ReplaceAll(strings.ToLower(account), "_", "-")
	return slug + ".restlets.api.netsuite.com"
}

// Hostname returns the host requests are addressed to
func (r *Restlet) Hostname() string {
	return r.hostname
}

// URL returns the URL of a script deployment
func (r *Restlet) URL(scriptID, deploy int) string {
	return fmt.Sprintf("%s%s?script=%d&deploy=%d", r.baseURL, Path, scriptID, deploy)
}

type callOptions struct {
	deploy  int
	header  http.Header
	body    []byte
	timeout time.Duration
	err     error
}

// CallOption configures a single Restlet call
type CallOption func(*callOptions)

// WithDeploy selects the script deployment (default 1)
func WithDeploy(deploy int) CallOption {
	return func(o *callOptions) {
		o.deploy = deploy
	}
}

// WithHeader sets a request header
func WithHeader(name, value string) CallOption {
	return func(o *callOptions) {
		o.header.Set(name, value)
	}
}

// WithHeaders sets several request headers, keeping every value
func WithHeaders(h http.Header) CallOption {
	return func(o *callOptions) {
		for k, vs := range h {
			o.header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
		}
	}
}

// WithPayload encodes v as the JSON request body
func WithPayload(v any) CallOption {
	return func(o *callOptions) {
		body, err := json.Marshal(v)
		if err != nil {
			o.err = fmt.Errorf("encoding restlet payload: %w", err)
			return
		}
		o.body = body
	}
}

// WithTimeout overrides the dispatcher timeout for this call
func WithTimeout(d time.Duration) CallOption {
	return func(o *callOptions) {
		o.timeout = d
	}
}

// Get calls the script's GET entry point
func (r *Restlet) Get(ctx context.Context, scriptID int, opts ...CallOption) (any, error) {
	return r.Request(ctx, http.MethodGet, scriptID, opts...)
}

// Post calls the script's POST entry point
func (r *Restlet) Post(ctx context.Context, scriptID int, opts ...CallOption) (any, error) {
	return r.Request(ctx, http.MethodPost, scriptID, opts...)
}

// Put calls the script's PUT entry point
func (r *Restlet) Put(ctx context.Context, scriptID int, opts ...CallOption) (any, error) {
	return r.Request(ctx, http.MethodPut, scriptID, opts...)
}

// Delete calls the script's DELETE entry point
func (r *Restlet) Delete(ctx context.Context, scriptID int, opts ...CallOption) (any, error) {
	return r.Request(ctx, http.MethodDelete, scriptID, opts...)
}

// Request calls a script deployment and decodes its JSON response
func (r *Restlet) Request(ctx context.Context, method string, scriptID int, opts ...CallOption) (any, error) {
	resp, err := r.RawRequest(ctx, method, scriptID, opts...)
	if err != nil {
		return nil, err
	}
	return transport.DecodeJSON(resp)
}

// RawRequest calls a script deployment without interpreting the response
func (r *Restlet) RawRequest(ctx context.Context, method string, scriptID int, opts ...CallOption) (*transport.Response, error) {
	o := &callOptions{deploy: DefaultDeploy, header: make(http.Header)}
	for _, opt := range opts {
		opt(o)
	}
	if o.err != nil {
		return nil, o.err
	}

	defaults := http.Header{}
	defaults.Set("Content-Type", "application/json")

	req := &transport.Request{
		Method: strings.ToUpper(method),
		URL:    r.URL(scriptID, o.deploy),
		Header: transport.MergeHeaders(defaults, o.header),
		Body:   o.body,
	}

	r.logger.Debug("calling restlet",
		slog.Int("script", scriptID),
		slog.Int("deploy", o.deploy),
	)

	var callOpts []transport.CallOption
	if o.timeout > 0 {
		callOpts = append(callOpts, transport.WithTimeout(o.timeout))
	}
	return r.dispatcher.Do(ctx, req, r.auth, callOpts...)
}
