// Package metrics exposes service metrics to Prometheus.
package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "feedesk"

// NewRegistry returns a registry carrying the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the registry in the Prometheus text format.
func Handler(reg *prometheus.Registry) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
}

// Collector implements the MetricsCollector interfaces of the fee source store and the
// collection recorder. Each service gets its own subsystem.
type Collector struct {
	duration  *prometheus.HistogramVec
	results   *prometheus.CounterVec
	errors    *prometheus.CounterVec
	cache     *prometheus.CounterVec
	partial   *prometheus.CounterVec
	collected *prometheus.CounterVec
	resolved  *prometheus.CounterVec
}

// NewCollector registers the metrics of one subsystem on reg.
func NewCollector(reg prometheus.Registerer, subsystem string) *Collector {
	c := &Collector{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_duration_seconds",
			Help:      "Duration of service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_results_total",
			Help:      "Service operations by outcome.",
		}, []string{"operation", "result"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "errors_total",
			Help:      "Service errors by operation and type.",
		}, []string{"operation", "type"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by outcome.",
		}, []string{"outcome"}),
		partial: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "partial_loads_total",
			Help:      "Fee sources that failed to load.",
		}, []string{"kind"}),
		collected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "collected_amount_total",
			Help:      "Sum of collected fees in whole currency units.",
		}, []string{"school"}),
		resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "resolutions_total",
			Help:      "Fee resolutions by the cascade step that produced them.",
		}, []string{"step"}),
	}
	reg.MustRegister(c.duration, c.results, c.errors, c.cache, c.partial, c.collected, c.resolved)
	return c
}

func (c *Collector) RecordOperationDuration(operation string, duration time.Duration) {
	c.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *Collector) RecordOperationResult(operation, result string) {
	c.results.WithLabelValues(operation, result).Inc()
}

func (c *Collector) RecordError(operation, errType string) {
	c.errors.WithLabelValues(operation, errType).Inc()
}

// Cache keys carry the school id; they are not used as labels.
func (c *Collector) RecordCacheHit(string) {
	c.cache.WithLabelValues("hit").Inc()
}

func (c *Collector) RecordCacheMiss(string) {
	c.cache.WithLabelValues("miss").Inc()
}

func (c *Collector) RecordPartialLoad(kind string) {
	c.partial.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordCollectedAmount(schoolID string, amount int64) {
	c.collected.WithLabelValues(schoolID).Add(float64(amount))
}

func (c *Collector) RecordResolution(step string) {
	c.resolved.WithLabelValues(step).Inc()
}
