//go:build !nosoap

package soap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-netsuite/pkg/cache"
	"github.com/sirosfoundation/go-netsuite/pkg/config"
	"github.com/sirosfoundation/go-netsuite/pkg/envelope"
	"github.com/sirosfoundation/go-netsuite/pkg/signing"
	"github.com/sirosfoundation/go-netsuite/pkg/transport"
)

// Client is the SuiteTalk SOAP web services facade
type Client struct {
	version     string
	wsdlURL     string
	hostname    string
	baseURL     string
	preferences map[string]string
	signer      *signing.TokenPassportSigner
	dispatcher  *transport.Dispatcher
	cache       cache.Cache
	cacheTTL    time.Duration
	logger      *slog.Logger
}

// New creates a SOAP client. Token based auth is required.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	o := &options{
		version:  DefaultVersion,
		cacheTTL: cache.DefaultTTL,
	}
	for _, opt := range opts {
		opt(o)
	}

	if err := ValidateVersion(o.version); err != nil {
		return nil, err
	}

	creds, err := signing.CredentialsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	signer, err := signing.NewTokenPassportSigner(creds, o.signerOpts...)
	if err != nil {
		return nil, err
	}

	wsdlURL := o.wsdlURL
	if wsdlURL == "" {
		wsdlURL = WSDLURL(cfg.AccountSlugified(), o.version)
	}
	u, err := url.Parse(wsdlURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid WSDL URL %q", wsdlURL)
	}

	c := &Client{
		version:     o.version,
		wsdlURL:     wsdlURL,
		hostname:    u.Host,
		baseURL:     o.baseURL,
		preferences: cfg.Preferences,
		signer:      signer,
		dispatcher:  o.dispatcher,
		cache:       o.cache,
		cacheTTL:    o.cacheTTL,
		logger:      o.logger,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.dispatcher == nil {
		c.dispatcher = transport.NewDispatcher(&transport.DispatcherConfig{Logger: c.logger})
	}
	if c.baseURL == "" {
		c.baseURL = "https://" + c.hostname
	}

	return c, nil
}

// Version returns the SuiteTalk version
func (c *Client) Version() string {
	return c.version
}

// WSDLURL returns the WSDL location
func (c *Client) WSDLURL() string {
	return c.wsdlURL
}

// Hostname returns the service host, taken from the WSDL URL
func (c *Client) Hostname() string {
	return c.hostname
}

// Endpoint returns the URL operations are posted to
func (c *Client) Endpoint() string {
	return c.baseURL + "/services/NetSuitePort_" + UnderscoredVersionNoMicro(c.version)
}

// Namespace returns a schema namespace for this version, for example
// Namespace("relationships", "lists")
func (c *Client) Namespace(name, subNamespace string) Namespace {
	return Namespace{
		Prefix: strings.ReplaceAll(name, ".", "_"),
		URI:    NamespaceURI(name, subNamespace, c.version),
	}
}

func (c *Client) messages() Namespace {
	return Namespace{Prefix: PrefixMessages, URI: NamespaceURI("messages", "platform", c.version)}
}

func (c *Client) core() Namespace {
	return Namespace{Prefix: PrefixCore, URI: NamespaceURI("core", "platform", c.version)}
}

// NewRecord creates a record element of the given schema type, e.g.
// NewRecord(c.Namespace("relationships", "lists"), "Customer"). Fields are
// added as children in the record's namespace.
func (c *Client) NewRecord(ns Namespace, recordType string) *etree.Element {
	rec := etree.NewElement("record")
	rec.CreateAttr("xmlns:"+ns.Prefix, ns.URI)
	rec.CreateAttr("xsi:type", ns.Prefix+":"+recordType)
	return rec
}

// SearchPreferences builds the searchPreferences header
func (c *Client) SearchPreferences(pageSize int, bodyFieldsOnly, returnSearchColumns bool) *etree.Element {
	prefs := etree.NewElement(PrefixMessages + ":searchPreferences")
	prefs.CreateElement(PrefixMessages + ":bodyFieldsOnly").SetText(fmt.Sprint(bodyFieldsOnly))
	prefs.CreateElement(PrefixMessages + ":returnSearchColumns").SetText(fmt.Sprint(returnSearchColumns))
	if pageSize > 0 {
		prefs.CreateElement(PrefixMessages + ":pageSize").SetText(fmt.Sprint(pageSize))
	}
	return prefs
}

// PassportHeader returns a freshly signed tokenPassport header
func (c *Client) PassportHeader() (*etree.Element, error) {
	p, err := c.signer.Passport()
	if err != nil {
		return nil, fmt.Errorf("signing token passport: %w", err)
	}

	tp := etree.NewElement(PrefixMessages + ":tokenPassport")
	tp.CreateElement(PrefixCore + ":account").SetText(p.Account)
	tp.CreateElement(PrefixCore + ":consumerKey").SetText(p.ConsumerKey)
	tp.CreateElement(PrefixCore + ":token").SetText(p.Token)
	tp.CreateElement(PrefixCore + ":nonce").SetText(p.Nonce)
	tp.CreateElement(PrefixCore + ":timestamp").SetText(p.Timestamp)
	sig := tp.CreateElement(PrefixCore + ":signature")
	sig.CreateAttr("algorithm", p.Algorithm)
	sig.SetText(p.Signature)
	return tp, nil
}

func (c *Client) preferencesHeader() *etree.Element {
	if len(c.preferences) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.preferences))
	for k := range c.preferences {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	prefs := etree.NewElement(PrefixMessages + ":preferences")
	for _, k := range keys {
		prefs.CreateElement(PrefixMessages + ":" + k).SetText(c.preferences[k])
	}
	return prefs
}

// Envelope builds a signed request envelope around an operation element
func (c *Client) Envelope(operation *etree.Element, headers ...*etree.Element) (*etree.Document, error) {
	passport, err := c.PassportHeader()
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("soapenv:Envelope")
	env.CreateAttr("xmlns:soapenv", NSSoapEnvelope)
	env.CreateAttr("xmlns:xsi", NSXSI)
	env.CreateAttr("xmlns:"+PrefixMessages, c.messages().URI)
	env.CreateAttr("xmlns:"+PrefixCore, c.core().URI)

	header := env.CreateElement("soapenv:Header")
	header.AddChild(passport)
	if prefs := c.preferencesHeader(); prefs != nil {
		header.AddChild(prefs)
	}
	for _, h := range headers {
		header.AddChild(h)
	}

	body := env.CreateElement("soapenv:Body")
	body.AddChild(operation)
	return doc, nil
}

// Request performs a raw SOAP call. The operation element becomes the body
// content and its local name is sent as SOAPAction. The returned tree has a
// "header" and a "body" key, the body holding the operation's response
// element.
func (c *Client) Request(ctx context.Context, operation *etree.Element, opts ...RequestOption) (map[string]any, error) {
	o := &requestOptions{}
	for _, opt := range opts {
		opt(o)
	}

	doc, err := c.Envelope(operation, o.headers...)
	if err != nil {
		return nil, err
	}
	payload, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializing envelope: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "text/xml; charset=utf-8")
	header.Set("SOAPAction", operation.Tag)

	var callOpts []transport.CallOption
	if o.timeout > 0 {
		callOpts = append(callOpts, transport.WithTimeout(o.timeout))
	}

	resp, err := c.dispatcher.Do(ctx, &transport.Request{
		Method: http.MethodPost,
		URL:    c.Endpoint(),
		Header: header,
		Body:   payload,
	}, nil, callOpts...)
	if err != nil {
		return nil, err
	}

	return c.decode(resp)
}

func (c *Client) decode(resp *transport.Response) (map[string]any, error) {
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	doc := etree.NewDocument()
	err := doc.ReadFromBytes(resp.Body)
	if err == nil && doc.Root() == nil {
		err = ErrNoBody
	}
	if err != nil {
		if checkErr := resp.CheckStatus(); checkErr != nil {
			return nil, checkErr
		}
		return nil, &transport.ResponseParsingError{StatusCode: resp.StatusCode, Body: string(resp.Body), Err: err}
	}

	body := doc.Root().SelectElement("Body")
	if fault := faultOf(body); fault != nil {
		c.logger.Debug("soap fault",
			slog.Int("status", resp.StatusCode),
			slog.String("faultcode", childText(fault, "faultcode")),
			slog.String("faultstring", childText(fault, "faultstring")),
		)
		status := resp.StatusCode
		if status >= 200 && status <= 299 {
			status = http.StatusInternalServerError
		}
		return nil, &transport.RequestError{StatusCode: status, Body: string(resp.Body)}
	}
	if err := resp.CheckStatus(); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, &transport.ResponseParsingError{StatusCode: resp.StatusCode, Body: string(resp.Body), Err: ErrNoBody}
	}

	tree := map[string]any{
		"header": envelope.FromXML(doc.Root().SelectElement("Header")),
		"body":   nil,
	}
	if children := body.ChildElements(); len(children) > 0 {
		tree["body"] = envelope.FromXML(children[0])
	}
	return tree, nil
}

func faultOf(body *etree.Element) *etree.Element {
	if body == nil {
		return nil
	}
	return body.SelectElement("Fault")
}

func childText(el *etree.Element, tag string) string {
	if child := el.SelectElement(tag); child != nil {
		return strings.TrimSpace(child.Text())
	}
	return ""
}

// WSDL fetches the service description, from the cache when configured
func (c *Client) WSDL(ctx context.Context) ([]byte, error) {
	key := cache.Key("wsdl", c.wsdlURL)
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("cache lookup failed", slog.String("url", c.wsdlURL), slog.Any("error", err))
		} else if ok {
			return body, nil
		}
	}

	target := c.wsdlURL
	if u, err := url.Parse(c.wsdlURL); err == nil {
		target = c.baseURL + u.RequestURI()
	}

	resp, err := c.dispatcher.Do(ctx, &transport.Request{Method: http.MethodGet, URL: target}, nil)
	if err != nil {
		return nil, err
	}
	if err := resp.CheckStatus(); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, resp.Body, c.cacheTTL); err != nil {
			c.logger.Warn("cache store failed", slog.String("url", c.wsdlURL), slog.Any("error", err))
		}
	}
	return resp.Body, nil
}
