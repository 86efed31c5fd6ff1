// Package prometheus exposes the build metrics of the assembly engine.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BuildMetrics instruments assembly builds.
type BuildMetrics struct {
	registry *prometheus.Registry

	buildsTotal   *prometheus.CounterVec
	bondsMade     prometheus.Counter
	buildDuration *prometheus.HistogramVec
	placements    *prometheus.CounterVec
}

// NewBuildMetrics creates and registers the build metric set on a
// private registry.
func NewBuildMetrics() *BuildMetrics {
	m := &BuildMetrics{
		registry: prometheus.NewRegistry(),
		buildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stk",
			Name:      "builds_total",
			Help:      "Total assembly builds by topology and outcome.",
		}, []string{"topology", "status"}),
		bondsMade: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stk",
			Name:      "bonds_made_total",
			Help:      "Total bonds formed across all builds.",
		}),
		buildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stk",
			Name:      "build_duration_seconds",
			Help:      "Wall-clock duration of assembly builds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"topology"}),
		placements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stk",
			Name:      "placements_total",
			Help:      "Building-block placements by site type.",
		}, []string{"site_type"}),
	}

	m.registry.MustRegister(m.buildsTotal, m.bondsMade, m.buildDuration, m.placements)
	return m
}

// ObserveBuild records one finished build.
func (m *BuildMetrics) ObserveBuild(topology string, err error, duration time.Duration, bonds int) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.buildsTotal.WithLabelValues(topology, status).Inc()
	m.buildDuration.WithLabelValues(topology).Observe(duration.Seconds())
	if err == nil {
		m.bondsMade.Add(float64(bonds))
	}
}

// ObservePlacements records the site placements of one build.
func (m *BuildMetrics) ObservePlacements(vertices, edges int) {
	m.placements.WithLabelValues("vertex").Add(float64(vertices))
	m.placements.WithLabelValues("edge").Add(float64(edges))
}

// Handler returns the exposition endpoint for this metric set.
func (m *BuildMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for exposition wiring and
// tests.
func (m *BuildMetrics) Registry() *prometheus.Registry {
	return m.registry
}
