package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveQuoteCountsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(Config{Namespace: "hermes_test", Registerer: reg})
	assert.NoError(t, err)

	m.ObserveQuote("pmi", "quoted", 3, 0.12)
	m.ObserveQuote("pmi", "quoted", 2, 0.08)
	m.ObserveQuote("title", "no_quote_available", 0, 0.05)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.quotesTotal.WithLabelValues("pmi", "quoted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.quotesTotal.WithLabelValues("title", "no_quote_available")))
}

func TestObserveCarrierFailureCountsByReason(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(Config{Namespace: "hermes_test", Registerer: reg})
	assert.NoError(t, err)

	m.ObserveCarrierFailure("pmi", "configuration_error")
	m.ObserveCarrierFailure("pmi", "configuration_error")
	m.ObserveCarrierFailure("title", "timeout")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.carrierFailures.WithLabelValues("pmi", "configuration_error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.carrierFailures.WithLabelValues("title", "timeout")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveQuote("pmi", "quoted", 1, 0.01)
	m.ObserveCarrierFailure("pmi", "not_found")
	m.ObserveQuoteLogFailure()
}
