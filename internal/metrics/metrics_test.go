package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Generation("revenue", "ensemble", OutcomeSuccess)
	m.Generation("revenue", "ensemble", OutcomeSuccess)
	m.ModelFailures.WithLabelValues("arima").Inc()
	m.ProductsSkipped.Inc()
	m.ObserveFit("arima", time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Generations.WithLabelValues("revenue", "ensemble", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelFailures.WithLabelValues("arima")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProductsSkipped))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "forecast_fit_duration_seconds")
}

func TestNewWithoutRegistry(t *testing.T) {
	a := New(nil)
	b := New(nil)
	a.ProductsSkipped.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ProductsSkipped))
}
