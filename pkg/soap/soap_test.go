//go:build !nosoap

package soap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/go-netsuite/pkg/cache"
	"github.com/sirosfoundation/go-netsuite/pkg/config"
	"github.com/sirosfoundation/go-netsuite/pkg/envelope"
	"github.com/sirosfoundation/go-netsuite/pkg/signing"
	"github.com/sirosfoundation/go-netsuite/pkg/transport"
)

const (
	dummySecret = "abcdefghijklmnopqrstuvwxyz0123456789"
	fixedNonce  = "12345678901234567890"
)

var fixedTime = time.Unix(1700000000, 0)

func dummyConfig(t *testing.T, opts ...config.Option) *config.Config {
	t.Helper()
	opts = append([]config.Option{config.WithTokenAuth(dummySecret, dummySecret, dummySecret, dummySecret)}, opts...)
	cfg, err := config.New("123456_SB1", opts...)
	require.NoError(t, err)
	return cfg
}

func fixedSigning() Option {
	return WithSigningOptions(
		signing.WithNonceSource(signing.NonceFunc(func() (string, error) { return fixedNonce, nil })),
		signing.WithClock(func() time.Time { return fixedTime }),
	)
}

func soapResponse(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <soapenv:Header>
    <platformMsgs:documentInfo xmlns:platformMsgs="urn:messages_2024_2.platform.webservices.netsuite.com">
      <platformMsgs:nsId>WEBSERVICES_123456_SB1</platformMsgs:nsId>
    </platformMsgs:documentInfo>
  </soapenv:Header>
  <soapenv:Body>` + body + `</soapenv:Body>
</soapenv:Envelope>`
}

// newTestClient serves canned responses keyed by SOAPAction
func newTestClient(t *testing.T, responses map[string]string, inspect func(*testing.T, *etree.Element)) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/services/NetSuitePort_2024_2", r.URL.Path)
		assert.Equal(t, "text/xml; charset=utf-8", r.Header.Get("Content-Type"))

		payload, _ := io.ReadAll(r.Body)
		doc := etree.NewDocument()
		require.NoError(t, doc.ReadFromBytes(payload))
		if inspect != nil {
			inspect(t, doc.Root())
		}

		body, ok := responses[r.Header.Get("SOAPAction")]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(soapResponse(body)))
	}))
	t.Cleanup(server.Close)

	c, err := New(dummyConfig(t), WithBaseURL(server.URL), fixedSigning())
	require.NoError(t, err)
	return c
}

func TestHostnameAndWSDL(t *testing.T) {
	c, err := New(dummyConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "123456-sb1.suitetalk.api.netsuite.com", c.Hostname())
	assert.Equal(t, "https://123456-sb1.suitetalk.api.netsuite.com/wsdl/v2024_2_0/netsuite.wsdl", c.WSDLURL())
	assert.Equal(t, "https://123456-sb1.suitetalk.api.netsuite.com/services/NetSuitePort_2024_2", c.Endpoint())
	assert.Equal(t, DefaultVersion, c.Version())
}

func TestNew_Version(t *testing.T) {
	c, err := New(dummyConfig(t), WithVersion("2021.1.0"))
	require.NoError(t, err)
	assert.Equal(t, "https://123456-sb1.suitetalk.api.netsuite.com/wsdl/v2021_1_0/netsuite.wsdl", c.WSDLURL())
	assert.Equal(t, "urn:relationships_2021_1.lists.webservices.netsuite.com", c.Namespace("relationships", "lists").URI)

	_, err = New(dummyConfig(t), WithVersion("2021.1"))
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestNew_WSDLURLOverride(t *testing.T) {
	c, err := New(dummyConfig(t), WithWSDLURL("https://webservices.netsuite.com/wsdl/v2024_2_0/netsuite.wsdl"))
	require.NoError(t, err)
	assert.Equal(t, "webservices.netsuite.com", c.Hostname())
}

func TestNew_RequiresTokenAuth(t *testing.T) {
	cfg, err := config.New("123456", config.WithPasswordAuth("user", "pass"))
	require.NoError(t, err)

	_, err = New(cfg)
	var authErr *config.AuthConfigurationError
	assert.ErrorAs(t, err, &authErr)
}

func TestPassportHeader(t *testing.T) {
	c, err := New(dummyConfig(t), fixedSigning())
	require.NoError(t, err)

	doc, err := c.Envelope(etree.NewElement(PrefixMessages + ":get"))
	require.NoError(t, err)

	tp := doc.FindElement("//tokenPassport")
	require.NotNil(t, tp)
	assert.Equal(t, PrefixMessages, tp.Space)
	assert.Equal(t, "urn:messages_2024_2.platform.webservices.netsuite.com", tp.NamespaceURI())

	assert.Equal(t, "123456_SB1", tp.SelectElement("account").Text())
	assert.Equal(t, dummySecret, tp.SelectElement("consumerKey").Text())
	assert.Equal(t, dummySecret, tp.SelectElement("token").Text())
	assert.Equal(t, fixedNonce, tp.SelectElement("nonce").Text())
	assert.Equal(t, "1700000000", tp.SelectElement("timestamp").Text())

	sig := tp.SelectElement("signature")
	assert.Equal(t, signing.AlgorithmHMACSHA256, sig.SelectAttrValue("algorithm", ""))

	creds, err := signing.CredentialsFromConfig(dummyConfig(t))
	require.NoError(t, err)
	assert.Equal(t, signing.PassportSignature(creds, fixedNonce, "1700000000"), sig.Text())
}

func TestEnvelope_Preferences(t *testing.T) {
	c, err := New(dummyConfig(t,
		config.WithPreference("warningAsError", "false"),
		config.WithPreference("ignoreReadOnlyFields", "true"),
	))
	require.NoError(t, err)

	doc, err := c.Envelope(etree.NewElement(PrefixMessages+":get"), c.SearchPreferences(50, true, false))
	require.NoError(t, err)

	prefs := doc.FindElement("//preferences")
	require.NotNil(t, prefs)
	children := prefs.ChildElements()
	require.Len(t, children, 2)
	assert.Equal(t, "ignoreReadOnlyFields", children[0].Tag)
	assert.Equal(t, "false", prefs.SelectElement("warningAsError").Text())

	search := doc.FindElement("//searchPreferences")
	require.NotNil(t, search)
	assert.Equal(t, "50", search.SelectElement("pageSize").Text())
	assert.Equal(t, "true", search.SelectElement("bodyFieldsOnly").Text())
}

func TestGet(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"get": `<getResponse xmlns="urn:messages_2024_2.platform.webservices.netsuite.com">
  <readResponse>
    <platformCore:status xmlns:platformCore="urn:core_2024_2.platform.webservices.netsuite.com" isSuccess="true"/>
    <record internalId="42" xsi:type="listRel:Customer">
      <listRel:entityId xmlns:listRel="urn:relationships_2024_2.lists.webservices.netsuite.com">ACME</listRel:entityId>
    </record>
  </readResponse>
</getResponse>`,
	}, func(t *testing.T, root *etree.Element) {
		ref := root.FindElement("//get/baseRef")
		require.NotNil(t, ref)
		assert.Equal(t, "customer", ref.SelectAttrValue("type", ""))
		assert.Equal(t, "42", ref.SelectAttrValue("internalId", ""))
		assert.Nil(t, ref.SelectAttr("externalId"))
		assert.NotNil(t, root.FindElement("//Header/tokenPassport"))
	})

	out, err := c.Get(context.Background(), "customer", RecordRef{InternalID: "42"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"internalId": "42", "entityId": "ACME"}, out)
}

func TestGet_RequiresSingleID(t *testing.T) {
	c, err := New(dummyConfig(t))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "customer", RecordRef{})
	assert.ErrorIs(t, err, ErrRecordRef)
	_, err = c.Get(context.Background(), "customer", RecordRef{InternalID: "1", ExternalID: "x"})
	assert.ErrorIs(t, err, ErrRecordRef)
}

func TestGet_VendorError(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"get": `<getResponse>
  <readResponse>
    <status isSuccess="false">
      <statusDetail type="ERROR">
        <code>RCRD_DSNT_EXIST</code>
        <message>That record does not exist.</message>
      </statusDetail>
    </status>
  </readResponse>
</getResponse>`,
	}, nil)

	_, err := c.Get(context.Background(), "customer", RecordRef{ExternalID: "missing"})
	var opErr *envelope.VendorOperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, []string{"RCRD_DSNT_EXIST: That record does not exist."}, opErr.Messages())
}

func TestGetList(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"getList": `<getListResponse>
  <readResponseList>
    <status isSuccess="true"/>
    <readResponse><status isSuccess="true"/><record internalId="1"/></readResponse>
    <readResponse><status isSuccess="true"/><record externalId="ext-2"/></readResponse>
  </readResponseList>
</getListResponse>`,
	}, func(t *testing.T, root *etree.Element) {
		refs := root.FindElements("//getList/baseRef")
		require.Len(t, refs, 2)
		assert.Equal(t, "1", refs[0].SelectAttrValue("internalId", ""))
		assert.Equal(t, "ext-2", refs[1].SelectAttrValue("externalId", ""))
	})

	out, err := c.GetList(context.Background(), "customer", []string{"1"}, []string{"ext-2"})
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"internalId": "1"},
		map[string]any{"externalId": "ext-2"},
	}, out)
}

func TestGetList_NoIDs(t *testing.T) {
	d := transport.NewDispatcher(nil)
	c, err := New(dummyConfig(t), WithBaseURL("http://127.0.0.1:1"), WithDispatcher(d))
	require.NoError(t, err)

	out, err := c.GetList(context.Background(), "customer", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{}, out)

	out, err = c.GetItemAvailability(context.Background(), nil, nil, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []any{}, out)
}

func TestGetAll(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"getAll": `<getAllResponse>
  <getAllResult>
    <status isSuccess="true"/>
    <totalRecords>1</totalRecords>
    <recordList><record internalId="1"><name>USD</name></record></recordList>
  </getAllResult>
</getAllResponse>`,
	}, func(t *testing.T, root *etree.Element) {
		rec := root.FindElement("//getAll/record")
		require.NotNil(t, rec)
		assert.Equal(t, "currency", rec.SelectAttrValue("recordType", ""))
	})

	out, err := c.GetAll(context.Background(), "currency")
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"internalId": "1", "name": "USD"}}, out)
}

func TestAddUpdateUpsert(t *testing.T) {
	write := `<%sResponse>
  <writeResponse>
    <status isSuccess="true"/>
    <baseRef internalId="99" type="customer" xsi:type="platformCore:RecordRef"/>
  </writeResponse>
</%sResponse>`
	responses := map[string]string{}
	for _, op := range []string{"add", "update", "upsert"} {
		responses[op] = fmt.Sprintf(write, op, op)
	}

	c := newTestClient(t, responses, func(t *testing.T, root *etree.Element) {
		rec := root.FindElement("//Body/*/record")
		require.NotNil(t, rec)
		assert.Equal(t, PrefixMessages, rec.Space)
		assert.Equal(t, "relationships:Customer", rec.SelectAttrValue("xsi:type", ""))
		assert.Equal(t, "ACME", rec.FindElement("companyName").Text())
	})

	ns := c.Namespace("relationships", "lists")
	record := c.NewRecord(ns, "Customer")
	record.CreateElement(ns.Prefix + ":companyName").SetText("ACME")

	ctx := context.Background()
	want := map[string]any{"internalId": "99", "type": "customer"}

	out, err := c.Add(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, want, out)

	out, err = c.Update(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, want, out)

	out, err = c.Upsert(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, want, out)
}

func TestUpsertList(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"upsertList": `<upsertListResponse>
  <writeResponseList>
    <status isSuccess="true"/>
    <writeResponse><status isSuccess="true"/><baseRef internalId="1"/></writeResponse>
    <writeResponse><status isSuccess="true"/><baseRef internalId="2"/></writeResponse>
  </writeResponseList>
</upsertListResponse>`,
	}, func(t *testing.T, root *etree.Element) {
		assert.Len(t, root.FindElements("//upsertList/record"), 2)
	})

	ns := c.Namespace("relationships", "lists")
	out, err := c.UpsertList(context.Background(), []*etree.Element{
		c.NewRecord(ns, "Customer"),
		c.NewRecord(ns, "Customer"),
	})
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"internalId": "1"},
		map[string]any{"internalId": "2"},
	}, out)
}

func TestSearch(t *testing.T) {
	result := `<%s>
  <searchResult>
    <status isSuccess="true"/>
    <totalRecords>1</totalRecords>
    <searchId>WEBSERVICES_abc</searchId>
    <recordList><record internalId="7"/></recordList>
  </searchResult>
</%s>`
	c := newTestClient(t, map[string]string{
		"search":           fmt.Sprintf(result, "searchResponse", "searchResponse"),
		"searchMoreWithId": fmt.Sprintf(result, "searchMoreWithIdResponse", "searchMoreWithIdResponse"),
	}, func(t *testing.T, root *etree.Element) {
		if op := root.FindElement("//searchMoreWithId"); op != nil {
			assert.Equal(t, "WEBSERVICES_abc", op.SelectElement("searchId").Text())
			assert.Equal(t, "2", op.SelectElement("pageIndex").Text())
			return
		}
		assert.NotNil(t, root.FindElement("//search/searchRecord"))
		assert.NotNil(t, root.FindElement("//Header/searchPreferences"))
	})

	ns := c.Namespace("common", "platform")
	basic := etree.NewElement("searchRecord")
	basic.CreateAttr("xmlns:"+ns.Prefix, ns.URI)
	basic.CreateAttr("xsi:type", ns.Prefix+":CustomerSearchBasic")

	out, err := c.Search(context.Background(), basic, WithHeader(c.SearchPreferences(10, true, false)))
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"internalId": "7"}}, out)

	out, err = c.SearchMoreWithID(context.Background(), "WEBSERVICES_abc", 2)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestSearch_EmptyRecordList(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"search": `<searchResponse><searchResult><status isSuccess="true"/><totalRecords>0</totalRecords><recordList/></searchResult></searchResponse>`,
	}, nil)

	out, err := c.Search(context.Background(), etree.NewElement("searchRecord"))
	require.NoError(t, err)
	assert.Equal(t, []any{}, out)
}

func TestGetItemAvailability(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"getItemAvailability": `<getItemAvailabilityResponse>
  <getItemAvailabilityResult>
    <status isSuccess="true"/>
    <itemAvailabilityList>
      <itemAvailability><quantityOnHand>5.0</quantityOnHand></itemAvailability>
    </itemAvailabilityList>
  </getItemAvailabilityResult>
</getItemAvailabilityResponse>`,
	}, func(t *testing.T, root *etree.Element) {
		refs := root.FindElements("//itemAvailabilityFilter/item/recordRef")
		require.Len(t, refs, 1)
		assert.Equal(t, "inventoryItem", refs[0].SelectAttrValue("type", ""))
		assert.Equal(t, "2023-11-14T22:13:20Z", root.FindElement("//lastQtyAvailableChange").Text())
	})

	out, err := c.GetItemAvailability(context.Background(), []string{"3"}, nil, fixedTime)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"quantityOnHand": "5.0"}}, out)
}

func TestGetItemAvailability_MissingResult(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"getItemAvailability": `<getItemAvailabilityResponse/>`,
	}, nil)

	out, err := c.GetItemAvailability(context.Background(), nil, []string{"ext"}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []any{}, out)
}

func TestRequest_Fault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(soapResponse(`<soapenv:Fault>
  <faultcode>soapenv:Server.userException</faultcode>
  <faultstring>Invalid login attempt.</faultstring>
</soapenv:Fault>`)))
	}))
	defer server.Close()

	c, err := New(dummyConfig(t), WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "customer", RecordRef{InternalID: "1"})
	var reqErr *transport.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	assert.Contains(t, reqErr.Body, "Invalid login attempt.")
}

func TestRequest_Unparseable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("SOAPAction") == "getAll" {
			w.WriteHeader(http.StatusBadGateway)
		}
		w.Write([]byte("not xml <"))
	}))
	defer server.Close()

	c, err := New(dummyConfig(t), WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "customer", RecordRef{InternalID: "1"})
	var parseErr *transport.ResponseParsingError
	assert.ErrorAs(t, err, &parseErr)

	_, err = c.GetAll(context.Background(), "currency")
	var reqErr *transport.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadGateway, reqErr.StatusCode)
}

func TestRequest_Raw(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"getServerTime": `<getServerTimeResponse><getServerTimeResult><status isSuccess="true"/><serverTime>2024-01-01T00:00:00Z</serverTime></getServerTimeResult></getServerTimeResponse>`,
	}, nil)

	tree, err := c.Request(context.Background(), etree.NewElement(PrefixMessages+":getServerTime"))
	require.NoError(t, err)
	assert.Equal(t, "WEBSERVICES_123456_SB1", envelope.Get(tree, "header.documentInfo.nsId"))
	assert.Equal(t, "2024-01-01T00:00:00Z", envelope.Get(tree, "body.getServerTimeResult.serverTime"))
}

func TestWSDL_Cached(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/wsdl/v2024_2_0/netsuite.wsdl", r.URL.Path)
		w.Write([]byte("<definitions/>"))
	}))
	defer server.Close()

	c, err := New(dummyConfig(t), WithBaseURL(server.URL), WithCache(cache.NewMemoryCache(), time.Hour))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		body, err := c.WSDL(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "<definitions/>", string(body))
	}
	assert.Equal(t, int32(1), hits.Load())
}
