//go:build nosoap

package soap

import (
	"context"
	"time"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-netsuite/pkg/config"
)

// Client is a stub that returns an error when SOAP support is not compiled in.
type Client struct{}

// New returns a DependencyMissingError because SOAP support is not compiled in.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	return nil, &DependencyMissingError{Feature: "SOAP web services"}
}

// Version returns an empty string.
func (c *Client) Version() string { return "" }

// WSDLURL returns an empty string.
func (c *Client) WSDLURL() string { return "" }

// Hostname returns an empty string.
func (c *Client) Hostname() string { return "" }

// Endpoint returns an empty string.
func (c *Client) Endpoint() string { return "" }

// Namespace returns the namespace without a client.
func (c *Client) Namespace(name, subNamespace string) Namespace {
	return Namespace{Prefix: name, URI: NamespaceURI(name, subNamespace, DefaultVersion)}
}

// NewRecord returns nil.
func (c *Client) NewRecord(ns Namespace, recordType string) *etree.Element { return nil }

// SearchPreferences returns nil.
func (c *Client) SearchPreferences(pageSize int, bodyFieldsOnly, returnSearchColumns bool) *etree.Element {
	return nil
}

// PassportHeader returns an error because SOAP support is not compiled in.
func (c *Client) PassportHeader() (*etree.Element, error) { return nil, ErrSOAPNotCompiled }

// Envelope returns an error because SOAP support is not compiled in.
func (c *Client) Envelope(operation *etree.Element, headers ...*etree.Element) (*etree.Document, error) {
	return nil, ErrSOAPNotCompiled
}

// Request returns an error because SOAP support is not compiled in.
func (c *Client) Request(ctx context.Context, operation *etree.Element, opts ...RequestOption) (map[string]any, error) {
	return nil, ErrSOAPNotCompiled
}

// WSDL returns an error because SOAP support is not compiled in.
func (c *Client) WSDL(ctx context.Context) ([]byte, error) { return nil, ErrSOAPNotCompiled }

// Get returns an error because SOAP support is not compiled in.
func (c *Client) Get(ctx context.Context, recordType string, ref RecordRef, opts ...RequestOption) (any, error) {
	return nil, ErrSOAPNotCompiled
}

// GetList returns an error because SOAP support is not compiled in.
func (c *Client) GetList(ctx context.Context, recordType string, internalIDs, externalIDs []string, opts ...RequestOption) ([]any, error) {
	return nil, ErrSOAPNotCompiled
}

// GetAll returns an error because SOAP support is not compiled in.
func (c *Client) GetAll(ctx context.Context, recordType string, opts ...RequestOption) ([]any, error) {
	return nil, ErrSOAPNotCompiled
}

// Add returns an error because SOAP support is not compiled in.
func (c *Client) Add(ctx context.Context, record *etree.Element, opts ...RequestOption) (any, error) {
	return nil, ErrSOAPNotCompiled
}

// Update returns an error because SOAP support is not compiled in.
func (c *Client) Update(ctx context.Context, record *etree.Element, opts ...RequestOption) (any, error) {
	return nil, ErrSOAPNotCompiled
}

// Upsert returns an error because SOAP support is not compiled in.
func (c *Client) Upsert(ctx context.Context, record *etree.Element, opts ...RequestOption) (any, error) {
	return nil, ErrSOAPNotCompiled
}

// UpsertList returns an error because SOAP support is not compiled in.
func (c *Client) UpsertList(ctx context.Context, records []*etree.Element, opts ...RequestOption) ([]any, error) {
	return nil, ErrSOAPNotCompiled
}

// Search returns an error because SOAP support is not compiled in.
func (c *Client) Search(ctx context.Context, searchRecord *etree.Element, opts ...RequestOption) ([]any, error) {
	return nil, ErrSOAPNotCompiled
}

// SearchMoreWithID returns an error because SOAP support is not compiled in.
func (c *Client) SearchMoreWithID(ctx context.Context, searchID string, pageIndex int, opts ...RequestOption) ([]any, error) {
	return nil, ErrSOAPNotCompiled
}

// GetItemAvailability returns an error because SOAP support is not compiled in.
func (c *Client) GetItemAvailability(ctx context.Context, internalIDs, externalIDs []string, lastQtyAvailableChange time.Time, opts ...RequestOption) ([]any, error) {
	return nil, ErrSOAPNotCompiled
}
