// Package metrics holds the Prometheus collectors for the curator service.
// Each Collector owns its registry so tests can create as many as they need
// without duplicate-registration panics.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "curator"

// Assignment outcomes recorded by ObserveAssignment.
const (
	AssignmentAssigned         = "assigned"
	AssignmentCleared          = "cleared"
	AssignmentPostNotFound     = "post_not_found"
	AssignmentCategoryNotFound = "category_not_found"
	AssignmentError            = "error"
)

// Collector holds all Prometheus metrics for the application.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	Assignments *prometheus.CounterVec
	ViewCache   *prometheus.CounterVec
	IngestRows  *prometheus.CounterVec
}

// New creates a Collector with a fresh registry that also exports the Go
// runtime and process collectors.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Assignments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "assignments_total",
				Help:      "Post category assignments by result",
			},
			[]string{"result"},
		),
		ViewCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "view_cache_total",
				Help:      "Category view cache lookups by view and result",
			},
			[]string{"view", "result"},
		),
		IngestRows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_rows_total",
				Help:      "Ingested CSV rows by outcome",
			},
			[]string{"outcome"},
		),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.HTTPRequests,
		c.HTTPDuration,
		c.Assignments,
		c.ViewCache,
		c.IngestRows,
	)
	return c
}

// Registry returns the registry the collectors are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Push sends the current values to a Prometheus Pushgateway under job.
// Batch commands use it since they exit before a scrape could happen.
func (c *Collector) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(c.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}

// ObserveHTTP records one finished HTTP request.
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveAssignment records the outcome of an assignment.
func (c *Collector) ObserveAssignment(result string) {
	c.Assignments.WithLabelValues(result).Inc()
}

// ObserveViewCache records a cache hit or miss for a view.
func (c *Collector) ObserveViewCache(view string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.ViewCache.WithLabelValues(view, result).Inc()
}

// ObserveIngest adds the row totals of one ingestion run.
func (c *Collector) ObserveIngest(inserted, skipped int) {
	c.IngestRows.WithLabelValues("inserted").Add(float64(inserted))
	c.IngestRows.WithLabelValues("skipped").Add(float64(skipped))
}
