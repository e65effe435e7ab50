package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	loansRegistered  prometheus.Counter
	loansReturned    prometheus.Counter
	reminders        *prometheus.CounterVec
	addressLookups   *prometheus.CounterVec
	storeWriteErrors prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		loansRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loans_registered_total",
			Help: "Loans written to the store.",
		}),
		loansReturned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loans_returned_total",
			Help: "Loans marked as returned.",
		}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reminders_total",
			Help: "Reminder delivery attempts by result.",
		}, []string{"result"}),
		addressLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "address_lookups_total",
			Help: "CEP lookups by result.",
		}, []string{"result"}),
		storeWriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "store_write_errors_total",
			Help: "Failed store writes.",
		}),
	}
	m.registry.MustRegister(
		m.loansRegistered,
		m.loansReturned,
		m.reminders,
		m.addressLookups,
		m.storeWriteErrors,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) LoanRegistered()             { m.loansRegistered.Inc() }
func (m *Metrics) LoanReturned()               { m.loansReturned.Inc() }
func (m *Metrics) Reminder(result string)      { m.reminders.WithLabelValues(result).Inc() }
func (m *Metrics) AddressLookup(result string) { m.addressLookups.WithLabelValues(result).Inc() }
func (m *Metrics) StoreWriteFailed()           { m.storeWriteErrors.Inc() }
