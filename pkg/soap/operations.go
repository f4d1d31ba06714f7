//go:build !nosoap

package soap

import (
	"context"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-netsuite/pkg/envelope"
)

func msg(tag string) *etree.Element {
	return etree.NewElement(PrefixMessages + ":" + tag)
}

func recordRef(parent *etree.Element, tag, recordType string, ref RecordRef) {
	el := parent.CreateElement(tag)
	el.CreateAttr("xsi:type", PrefixCore+":RecordRef")
	el.CreateAttr("type", recordType)
	if ref.InternalID != "" {
		el.CreateAttr("internalId", ref.InternalID)
	} else {
		el.CreateAttr("externalId", ref.ExternalID)
	}
}

// asRecord re-tags a caller built record for use under an operation
func asRecord(record *etree.Element, tag string) *etree.Element {
	el := record.Copy()
	el.Space = PrefixMessages
	el.Tag = tag
	return el
}

func (c *Client) call(ctx context.Context, operation *etree.Element, reqOpts []RequestOption, opts ...envelope.Option) (any, error) {
	tree, err := c.Request(ctx, operation, reqOpts...)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, nil
	}
	return envelope.Unwrap(tree, opts...)
}

func (c *Client) callList(ctx context.Context, operation *etree.Element, reqOpts []RequestOption, opts ...envelope.Option) ([]any, error) {
	out, err := c.call(ctx, operation, reqOpts, opts...)
	if err != nil {
		return nil, err
	}
	return envelope.AsList(out), nil
}

// Get reads a single record by internal or external id
func (c *Client) Get(ctx context.Context, recordType string, ref RecordRef, opts ...RequestOption) (any, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}

	op := msg("get")
	recordRef(op, PrefixMessages+":baseRef", recordType, ref)

	return c.call(ctx, op, opts,
		envelope.WithPath("body.readResponse"),
		envelope.WithExtract(envelope.Field("record")),
	)
}

// GetList reads several records of one type. No request is made when no
// ids are given.
func (c *Client) GetList(ctx context.Context, recordType string, internalIDs, externalIDs []string, opts ...RequestOption) ([]any, error) {
	if len(internalIDs)+len(externalIDs) == 0 {
		return []any{}, nil
	}

	op := msg("getList")
	for _, id := range internalIDs {
		recordRef(op, PrefixMessages+":baseRef", recordType, RecordRef{InternalID: id})
	}
	for _, id := range externalIDs {
		recordRef(op, PrefixMessages+":baseRef", recordType, RecordRef{ExternalID: id})
	}

	return c.callList(ctx, op, opts,
		envelope.WithPath("body.readResponseList.readResponse"),
		envelope.WithExtract(envelope.Each(envelope.Field("record"))),
	)
}

// GetAll reads every record of a type that supports getAll, such as
// currency or state.
func (c *Client) GetAll(ctx context.Context, recordType string, opts ...RequestOption) ([]any, error) {
	op := msg("getAll")
	rec := op.CreateElement(PrefixMessages + ":record")
	rec.CreateAttr("recordType", recordType)

	return c.callList(ctx, op, opts,
		envelope.WithPath("body.getAllResult"),
		envelope.WithExtract(envelope.ListField("recordList.record")),
	)
}

func (c *Client) write(ctx context.Context, operation string, record *etree.Element, opts []RequestOption) (any, error) {
	op := msg(operation)
	op.AddChild(asRecord(record, "record"))

	return c.call(ctx, op, opts,
		envelope.WithPath("body.writeResponse"),
		envelope.WithExtract(envelope.Field("baseRef")),
	)
}

// Add inserts a record and returns its reference
func (c *Client) Add(ctx context.Context, record *etree.Element, opts ...RequestOption) (any, error) {
	return c.write(ctx, "add", record, opts)
}

// Update updates a record and returns its reference
func (c *Client) Update(ctx context.Context, record *etree.Element, opts ...RequestOption) (any, error) {
	return c.write(ctx, "update", record, opts)
}

// Upsert inserts or updates a record keyed by external id
func (c *Client) Upsert(ctx context.Context, record *etree.Element, opts ...RequestOption) (any, error) {
	return c.write(ctx, "upsert", record, opts)
}

// UpsertList upserts several records and returns their references
func (c *Client) UpsertList(ctx context.Context, records []*etree.Element, opts ...RequestOption) ([]any, error) {
	op := msg("upsertList")
	for _, record := range records {
		op.AddChild(asRecord(record, "record"))
	}

	return c.callList(ctx, op, opts,
		envelope.WithPath("body.writeResponseList"),
		envelope.WithExtract(func(node any) (any, error) {
			return envelope.Each(envelope.Field("baseRef"))(envelope.Get(node, "writeResponse"))
		}),
	)
}

// Search runs a search and returns the first page of records. Pass a
// searchPreferences header with WithHeader to control paging.
func (c *Client) Search(ctx context.Context, searchRecord *etree.Element, opts ...RequestOption) ([]any, error) {
	op := msg("search")
	op.AddChild(asRecord(searchRecord, "searchRecord"))

	return c.callList(ctx, op, opts,
		envelope.WithPath("body.searchResult"),
		envelope.WithExtract(envelope.ListField("recordList.record")),
	)
}

// SearchMoreWithID returns another page of a previous search
func (c *Client) SearchMoreWithID(ctx context.Context, searchID string, pageIndex int, opts ...RequestOption) ([]any, error) {
	op := msg("searchMoreWithId")
	op.CreateElement(PrefixMessages + ":searchId").SetText(searchID)
	op.CreateElement(PrefixMessages + ":pageIndex").SetText(strconv.Itoa(pageIndex))

	return c.callList(ctx, op, opts,
		envelope.WithPath("body.searchResult"),
		envelope.WithExtract(envelope.ListField("recordList.record")),
	)
}

// GetItemAvailability returns inventory availability of items. A zero
// lastQtyAvailableChange is omitted. No request is made when no ids are
// given.
func (c *Client) GetItemAvailability(ctx context.Context, internalIDs, externalIDs []string, lastQtyAvailableChange time.Time, opts ...RequestOption) ([]any, error) {
	if len(internalIDs)+len(externalIDs) == 0 {
		return []any{}, nil
	}

	op := msg("getItemAvailability")
	filter := op.CreateElement(PrefixMessages + ":itemAvailabilityFilter")
	item := filter.CreateElement(PrefixCore + ":item")
	for _, id := range internalIDs {
		recordRef(item, PrefixCore+":recordRef", "inventoryItem", RecordRef{InternalID: id})
	}
	for _, id := range externalIDs {
		recordRef(item, PrefixCore+":recordRef", "inventoryItem", RecordRef{ExternalID: id})
	}
	if !lastQtyAvailableChange.IsZero() {
		filter.CreateElement(PrefixCore + ":lastQtyAvailableChange").SetText(lastQtyAvailableChange.UTC().Format(time.RFC3339))
	}

	return c.callList(ctx, op, opts,
		envelope.WithPath("body.getItemAvailabilityResult"),
		envelope.WithExtract(envelope.ListField("itemAvailabilityList.itemAvailability")),
		envelope.WithDefault([]any{}),
	)
}
