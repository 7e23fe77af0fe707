package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "navsim"

// metrics are registered on their own registry, so that several servers can live in the
// same process.
type metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	calculations *prometheus.HistogramVec
	cacheLookups *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)
	return &metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		}, []string{"route", "status"}),
		calculations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "calculation_duration_seconds",
			Help:      "Duration of calculations by calculator, NAV fetch included",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"calculator"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "navcache",
			Name:      "lookups_total",
			Help:      "Total number of NAV cache lookups by result",
		}, []string{"result"}),
	}
}

func (m *metrics) observe(route string, status int, calculator string, elapsed time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	if calculator != "" && status < 300 {
		m.calculations.WithLabelValues(calculator).Observe(elapsed.Seconds())
	}
}

// Hit and Miss count cache lookups.
func (m *metrics) Hit(string)  { m.cacheLookups.WithLabelValues("hit").Inc() }
func (m *metrics) Miss(string) { m.cacheLookups.WithLabelValues("miss").Inc() }

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
