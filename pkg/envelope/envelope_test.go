package envelope

import (
	"errors"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func success() map[string]any {
	return map[string]any{"isSuccess": true}
}

func TestUnwrap_ExtractsRecord(t *testing.T) {
	resp := map[string]any{
		"status": success(),
		"record": map[string]any{"internalId": "42"},
	}

	out, err := Unwrap(resp, WithExtract(Field("record")))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"internalId": "42"}, out)
}

func TestUnwrap_Failure(t *testing.T) {
	detail := map[string]any{"code": "RCRD_DSNT_EXIST", "message": "That record does not exist."}
	resp := map[string]any{
		"body": map[string]any{
			"readResponse": map[string]any{
				"status": map[string]any{"isSuccess": false, "statusDetail": detail},
			},
		},
	}

	_, err := Unwrap(resp, WithPath("body.readResponse"), WithExtract(Field("record")))
	var opErr *VendorOperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, detail, opErr.Detail)
	assert.Equal(t, []string{"RCRD_DSNT_EXIST: That record does not exist."}, opErr.Messages())
	assert.Contains(t, err.Error(), "RCRD_DSNT_EXIST")
}

func TestUnwrap_StringStatus(t *testing.T) {
	tests := []struct {
		value   any
		success bool
	}{
		{"true", true},
		{"false", false},
		{" TRUE ", true},
		{true, true},
		{false, false},
		{nil, false},
		{"yes", false},
	}

	for _, tt := range tests {
		resp := map[string]any{"status": map[string]any{"isSuccess": tt.value}}
		_, err := Unwrap(resp)
		if tt.success {
			assert.NoError(t, err, "isSuccess=%v", tt.value)
		} else {
			assert.Error(t, err, "isSuccess=%v", tt.value)
		}
	}
}

func TestUnwrap_ListUsesFirstStatus(t *testing.T) {
	resp := []any{
		map[string]any{"status": success(), "record": "a"},
		map[string]any{"status": map[string]any{"isSuccess": false}, "record": "b"},
	}

	out, err := Unwrap(resp, WithExtract(Each(Field("record"))))
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, out)

	resp[0], resp[1] = resp[1], resp[0]
	_, err = Unwrap(resp)
	var opErr *VendorOperationError
	assert.ErrorAs(t, err, &opErr)
}

func TestUnwrap_EmptyList(t *testing.T) {
	out, err := Unwrap([]any{})
	require.NoError(t, err)
	assert.Equal(t, []any{}, out)

	out, err = Unwrap([]any{}, WithExtract(Each(Field("record"))))
	require.NoError(t, err)
	assert.Equal(t, []any{}, out)
}

func TestUnwrap_PathMissing(t *testing.T) {
	resp := map[string]any{"body": map[string]any{}}

	_, err := Unwrap(resp, WithPath("body.getItemAvailabilityResult"))
	assert.True(t, errors.Is(err, ErrPathNotFound))

	out, err := Unwrap(resp, WithPath("body.getItemAvailabilityResult"), WithDefault([]any{}))
	require.NoError(t, err)
	assert.Equal(t, []any{}, out)
}

func TestUnwrap_MissingStatus(t *testing.T) {
	_, err := Unwrap(map[string]any{"record": "x"})
	assert.ErrorIs(t, err, ErrMissingStatus)

	_, err = Unwrap([]any{"x"})
	assert.ErrorIs(t, err, ErrMissingStatus)
}

func TestUnwrap_NonTreePassesThrough(t *testing.T) {
	out, err := Unwrap(nil, WithPath("body.readResponse"))
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = Unwrap("raw")
	require.NoError(t, err)
	assert.Equal(t, "raw", out)
}

func TestUnwrap_ExtractorError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Unwrap(map[string]any{"status": success()}, WithExtract(func(any) (any, error) { return nil, boom }))
	assert.ErrorIs(t, err, boom)
}

func TestAsList(t *testing.T) {
	assert.Equal(t, []any{}, AsList(nil))
	assert.Equal(t, []any{"a"}, AsList("a"))
	assert.Equal(t, []any{"a", "b"}, AsList([]any{"a", "b"}))
}

func TestListField(t *testing.T) {
	node := map[string]any{"recordList": map[string]any{"record": map[string]any{"id": "1"}}}
	out, err := ListField("recordList.record")(node)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"id": "1"}}, out)

	out, err = ListField("recordList.record")(map[string]any{"recordList": nil})
	require.NoError(t, err)
	assert.Equal(t, []any{}, out)
}

const readResponseListXML = `<getListResponse xmlns="urn:messages_2024_2.platform.webservices.netsuite.com">
  <readResponseList>
    <platformCore:status xmlns:platformCore="urn:core_2024_2.platform.webservices.netsuite.com" isSuccess="true"/>
    <readResponse>
      <platformCore:status xmlns:platformCore="urn:core_2024_2.platform.webservices.netsuite.com" isSuccess="true"/>
      <record xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:type="listRel:Customer" internalId="1">
        <listRel:entityId xmlns:listRel="urn:relationships_2024_2.lists.webservices.netsuite.com">ACME</listRel:entityId>
      </record>
    </readResponse>
    <readResponse>
      <platformCore:status xmlns:platformCore="urn:core_2024_2.platform.webservices.netsuite.com" isSuccess="true"/>
      <record internalId="2"/>
    </readResponse>
  </readResponseList>
</getListResponse>`

func TestFromXML(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(readResponseListXML))

	tree := FromXML(doc.Root())
	body := map[string]any{"body": tree}

	out, err := Unwrap(body,
		WithPath("body.readResponseList.readResponse"),
		WithExtract(Each(Field("record"))),
	)
	require.NoError(t, err)

	records := out.([]any)
	require.Len(t, records, 2)
	assert.Equal(t, map[string]any{"internalId": "1", "entityId": "ACME"}, records[0])
	assert.Equal(t, map[string]any{"internalId": "2"}, records[1])
}

func TestFromXML_TextAndAttributes(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(`<signature algorithm="HMAC-SHA256">abc=</signature>`))
	assert.Equal(t, map[string]any{"algorithm": "HMAC-SHA256", TextKey: "abc="}, FromXML(doc.Root()))

	require.NoError(t, doc.ReadFromString(`<nonce>123</nonce>`))
	assert.Equal(t, "123", FromXML(doc.Root()))

	require.NoError(t, doc.ReadFromString(`<recordList/>`))
	assert.Nil(t, FromXML(doc.Root()))

	assert.Nil(t, FromXML(nil))
}

func TestFromXML_StatusDetail(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(`<writeResponse>
  <status isSuccess="false">
    <statusDetail type="ERROR"><code>USER_ERROR</code><message>Missing field</message></statusDetail>
    <statusDetail type="WARN"><code>WARNING</code><message>Deprecated</message></statusDetail>
  </status>
</writeResponse>`))

	_, err := Unwrap(FromXML(doc.Root()), WithExtract(Field("baseRef")))
	var opErr *VendorOperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, []string{"USER_ERROR: Missing field", "WARNING: Deprecated"}, opErr.Messages())
}
