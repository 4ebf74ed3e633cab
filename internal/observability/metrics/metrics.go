package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Config configures metric registration.
type Config struct {
	Namespace string
	// Registerer defaults to the global prometheus registerer.
	Registerer prometheus.Registerer
}

// Metrics exposes quote engine instruments.
type Metrics struct {
	quotesTotal      *prometheus.CounterVec
	carrierFailures  *prometheus.CounterVec
	carriersQuoted   *prometheus.HistogramVec
	quoteDuration    *prometheus.HistogramVec
	quoteLogFailures prometheus.Counter
}

// New registers the quote engine instruments.
func New(cfg Config) (*Metrics, error) {
	namespace := strings.TrimSpace(cfg.Namespace)
	if namespace == "" {
		namespace = "hermes"
	}
	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		quotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Completed quote requests by product and outcome.",
		}, []string{"product", "outcome"}),
		carrierFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carrier_failures_total",
			Help:      "Per-carrier evaluation failures by product and reason.",
		}, []string{"product", "reason"}),
		carriersQuoted: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "carriers_quoted",
			Help:      "Carriers producing a successful premium per request.",
			Buckets:   prometheus.LinearBuckets(0, 1, 12),
		}, []string{"product"}),
		quoteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_duration_seconds",
			Help:      "End-to-end quote orchestration latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"product"}),
		quoteLogFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_log_failures_total",
			Help:      "Audit log writes that could not be persisted.",
		}),
	}

	collectors := []prometheus.Collector{
		m.quotesTotal, m.carrierFailures, m.carriersQuoted, m.quoteDuration, m.quoteLogFailures,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
				_ = already
				continue
			}
			return nil, err
		}
	}

	return m, nil
}

// ObserveQuote records the aggregate outcome of one quote request.
func (m *Metrics) ObserveQuote(product, outcome string, carriersQuoted int, seconds float64) {
	if m == nil {
		return
	}
	m.quotesTotal.WithLabelValues(product, outcome).Inc()
	m.carriersQuoted.WithLabelValues(product).Observe(float64(carriersQuoted))
	m.quoteDuration.WithLabelValues(product).Observe(seconds)
}

// ObserveCarrierFailure records one per-carrier failure.
func (m *Metrics) ObserveCarrierFailure(product, reason string) {
	if m == nil {
		return
	}
	m.carrierFailures.WithLabelValues(product, reason).Inc()
}

// ObserveQuoteLogFailure records a dropped audit log write.
func (m *Metrics) ObserveQuoteLogFailure() {
	if m == nil {
		return
	}
	m.quoteLogFailures.Inc()
}
