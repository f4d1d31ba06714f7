//go:build !nosoap

package netsuite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSOAP(t *testing.T) {
	client, err := New(dummyConfig(t), WithSOAPVersion("2023.1.0"))
	require.NoError(t, err)

	s1, err := client.SOAP()
	require.NoError(t, err)
	s2, err := client.SOAP()
	require.NoError(t, err)
	assert.Same(t, s1, s2)

	assert.Equal(t, "2023.1.0", s1.Version())
	assert.Equal(t, "https://123456-sb1.suitetalk.api.netsuite.com/services/NetSuitePort_2023_1", s1.Endpoint())
}

func TestSOAP_InvalidVersion(t *testing.T) {
	client, err := New(dummyConfig(t), WithSOAPVersion("latest"))
	require.NoError(t, err)

	_, err = client.SOAP()
	assert.Error(t, err)
}
