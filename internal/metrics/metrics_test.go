package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.QuotesStarted.Inc()
	m.QuotesStarted.Inc()
	m.FlushErrors.Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.QuotesStarted))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FlushErrors))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.QuotesExpired))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["vyezdy_quotes_started_total"])
	assert.True(t, names["vyezdy_snapshot_flush_errors_total"])
}
