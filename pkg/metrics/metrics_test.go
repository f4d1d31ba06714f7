package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.Observe("GET", "200", 150*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "netsuite_requests_total")
	assert.Contains(t, names, "netsuite_request_duration_seconds")
}

func TestCollector_Permits(t *testing.T) {
	c := NewCollector(nil)

	c.StartWaiting()
	c.StartWaiting()
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Waiting))

	c.Acquired()
	c.StopWaiting()
	assert.Equal(t, 0.0, testutil.ToFloat64(c.Waiting))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.InFlight))

	c.Released()
	assert.Equal(t, 0.0, testutil.ToFloat64(c.InFlight))
}

func TestCollector_Observe(t *testing.T) {
	c := NewCollector(nil)

	c.Observe("POST", "204", time.Second)
	c.Observe("POST", "204", time.Second)
	c.Observe("POST", "error", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Requests.WithLabelValues("POST", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Requests.WithLabelValues("POST", "error")))
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	c.Observe("GET", "200", time.Second)
	c.StartWaiting()
	c.Acquired()
	c.Released()
	c.StopWaiting()
}
