package soap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWSDLURL(t *testing.T) {
	assert.Equal(t,
		"https://123456-sb1.suitetalk.api.netsuite.com/wsdl/v2024_2_0/netsuite.wsdl",
		WSDLURL("123456-sb1", DefaultVersion),
	)
}

func TestUnderscoredVersion(t *testing.T) {
	assert.Equal(t, "2024_2_0", UnderscoredVersion("2024.2.0"))
	assert.Equal(t, "2024_2", UnderscoredVersionNoMicro("2024.2.0"))
	assert.Equal(t, "2021_1", UnderscoredVersionNoMicro("2021.1.0"))
}

func TestNamespaceURI(t *testing.T) {
	assert.Equal(t, "urn:relationships_2024_2.lists.webservices.netsuite.com", NamespaceURI("relationships", "lists", DefaultVersion))
	assert.Equal(t, "urn:types.core_2024_2.platform.webservices.netsuite.com", NamespaceURI("types.core", "platform", DefaultVersion))
}

func TestValidateVersion(t *testing.T) {
	assert.NoError(t, ValidateVersion("2024.2.0"))
	for _, v := range []string{"", "2024.2", "v2024.2.0", "2024.2.0-beta", "a.b.c"} {
		assert.ErrorIs(t, ValidateVersion(v), ErrInvalidVersion, v)
	}
}

func TestRecordRefValidate(t *testing.T) {
	assert.NoError(t, RecordRef{InternalID: "1"}.validate())
	assert.NoError(t, RecordRef{ExternalID: "ext"}.validate())
	assert.ErrorIs(t, RecordRef{}.validate(), ErrRecordRef)
	assert.ErrorIs(t, RecordRef{InternalID: "1", ExternalID: "ext"}.validate(), ErrRecordRef)
}

func TestDependencyMissingError(t *testing.T) {
	err := error(&DependencyMissingError{Feature: "SOAP web services"})
	assert.True(t, errors.Is(err, ErrSOAPNotCompiled))
	assert.Contains(t, err.Error(), "SOAP web services")
}
