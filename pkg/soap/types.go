package soap

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-netsuite/pkg/cache"
	"github.com/sirosfoundation/go-netsuite/pkg/signing"
	"github.com/sirosfoundation/go-netsuite/pkg/transport"
)

// DefaultVersion is the SuiteTalk endpoint version used unless overridden
const DefaultVersion = "2024.2.0"

// XML namespaces of the SOAP envelope
const (
	NSSoapEnvelope = "http://schemas.xmlsoap.org/soap/envelope/"
	NSXSI          = "http://www.w3.org/2001/XMLSchema-instance"
)

// Prefixes bound on every envelope
const (
	PrefixMessages = "platformMsgs"
	PrefixCore     = "platformCore"
)

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

var (
	// ErrSOAPNotCompiled is returned by every operation when the binary was
	// built with the nosoap tag.
	ErrSOAPNotCompiled = errors.New("SOAP web services support not compiled in (build without -tags nosoap)")
	// ErrInvalidVersion is returned for versions not shaped like 2024.2.0
	ErrInvalidVersion = errors.New("invalid SuiteTalk version")
	// ErrRecordRef is returned when a single record reference does not have
	// exactly one of internal id and external id.
	ErrRecordRef = errors.New("specify either internalId or externalId")
	// ErrNoBody is returned when a response envelope lacks a Body
	ErrNoBody = errors.New("SOAP envelope has no body")
)

// DependencyMissingError is returned by New when SOAP support is unavailable
type DependencyMissingError struct {
	Feature string
}

func (e *DependencyMissingError) Error() string {
	return fmt.Sprintf("missing required dependencies for %s support", e.Feature)
}

func (e *DependencyMissingError) Unwrap() error {
	return ErrSOAPNotCompiled
}

// RecordRef identifies a record by internal or external id
type RecordRef struct {
	InternalID string
	ExternalID string
}

func (r RecordRef) validate() error {
	if (r.InternalID == "") == (r.ExternalID == "") {
		return ErrRecordRef
	}
	return nil
}

// Namespace is a NetSuite schema namespace with the prefix used for it
type Namespace struct {
	Prefix string
	URI    string
}

// UnderscoredVersion turns 2024.2.0 into 2024_2_0
func UnderscoredVersion(version string) string {
	return strings.ReplaceAll(version, ".", "_")
}

// UnderscoredVersionNoMicro turns 2024.2.0 into 2024_2
func UnderscoredVersionNoMicro(version string) string {
	v := UnderscoredVersion(version)
	if i := strings.LastIndex(v, "_"); i >= 0 {
		return v[:i]
	}
	return v
}

// WSDLURL returns the account specific WSDL location
func WSDLURL(accountSlug, version string) string {
	return fmt.Sprintf("https://%s.suitetalk.api.netsuite.com/wsdl/v%s/netsuite.wsdl", accountSlug, UnderscoredVersion(version))
}

// NamespaceURI returns the URN of a schema namespace, for example
// urn:relationships_2024_2.lists.webservices.netsuite.com
func NamespaceURI(name, subNamespace, version string) string {
	return fmt.Sprintf("urn:%s_%s.%s.webservices.netsuite.com", name, UnderscoredVersionNoMicro(version), subNamespace)
}

// ValidateVersion checks the major.minor.micro shape of a version
func ValidateVersion(version string) error {
	if !versionPattern.MatchString(version) {
		return fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
	return nil
}

type options struct {
	version    string
	wsdlURL    string
	baseURL    string
	dispatcher *transport.Dispatcher
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *slog.Logger
	signerOpts []signing.Option
}

// Option configures a Client
type Option func(*options)

// WithVersion selects the SuiteTalk version, e.g. 2024.2.0
func WithVersion(version string) Option {
	return func(o *options) {
		o.version = version
	}
}

// WithWSDLURL overrides the derived WSDL location. The service hostname is
// taken from it.
func WithWSDLURL(wsdlURL string) Option {
	return func(o *options) {
		o.wsdlURL = wsdlURL
	}
}

// WithBaseURL sends requests to baseURL instead of https://{hostname}
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithDispatcher shares a dispatcher with other facades
func WithDispatcher(d *transport.Dispatcher) Option {
	return func(o *options) {
		o.dispatcher = d
	}
}

// WithCache caches the WSDL document
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(o *options) {
		o.cache = c
		o.cacheTTL = ttl
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSigningOptions passes nonce and clock strategies to the passport signer
func WithSigningOptions(opts ...signing.Option) Option {
	return func(o *options) {
		o.signerOpts = append(o.signerOpts, opts...)
	}
}

type requestOptions struct {
	headers []*etree.Element
	timeout time.Duration
}

// RequestOption configures a single SOAP call
type RequestOption func(*requestOptions)

// WithHeader adds a SOAP header element, such as searchPreferences
func WithHeader(header *etree.Element) RequestOption {
	return func(o *requestOptions) {
		o.headers = append(o.headers, header)
	}
}

// WithTimeout overrides the dispatcher timeout for this call
func WithTimeout(d time.Duration) RequestOption {
	return func(o *requestOptions) {
		o.timeout = d
	}
}
