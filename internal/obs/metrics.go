package obs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records catalog pipeline activity. A nil *Metrics, or one built
// with a nil registerer, records nothing.
type Metrics struct {
	fetches    *prometheus.CounterVec
	fetchTime  *prometheus.HistogramVec
	mutations  *prometheus.CounterVec
	errors     *prometheus.CounterVec
	superseded prometheus.Counter
}

// NewMetrics registers the pipeline metrics on the provided registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_fetch_total",
		Help: "Collaborator fetches by resource and outcome.",
	}, []string{"resource", "outcome"})
	fetchTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_fetch_duration_seconds",
		Help:    "Duration of collaborator fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_mutation_total",
		Help: "Mutations folded into the product collection.",
	}, []string{"kind"})
	errors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_error_total",
		Help: "Errors published on the error channel.",
	}, []string{"kind"})
	superseded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_supplier_fetch_superseded_total",
		Help: "Supplier fetches abandoned because the selection changed.",
	})
	reg.MustRegister(fetches, fetchTime, mutations, errors, superseded)
	return &Metrics{
		fetches:    fetches,
		fetchTime:  fetchTime,
		mutations:  mutations,
		errors:     errors,
		superseded: superseded,
	}
}

// ObserveFetch records one completed fetch.
func (m *Metrics) ObserveFetch(resource string, d time.Duration, err error) {
	if m == nil || m.fetches == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.fetches.WithLabelValues(normalizeLabel(resource), outcome).Inc()
	m.fetchTime.WithLabelValues(normalizeLabel(resource)).Observe(d.Seconds())
}

// IncMutation counts a folded mutation.
func (m *Metrics) IncMutation(kind string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncError counts a published error.
func (m *Metrics) IncError(kind string) {
	if m == nil || m.errors == nil {
		return
	}
	m.errors.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncSuperseded counts an abandoned supplier fetch.
func (m *Metrics) IncSuperseded() {
	if m == nil || m.superseded == nil {
		return
	}
	m.superseded.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
