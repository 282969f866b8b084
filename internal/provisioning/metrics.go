package provisioning

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects assembly statistics in a private registry so repeated
// runs (and tests) never collide on the default registerer.
type Metrics struct {
	registry *prometheus.Registry

	resourcesDeclared *prometheus.CounterVec
	networkLookups    *prometheus.CounterVec
	stageResults      *prometheus.CounterVec
	phaseDuration     *prometheus.HistogramVec
}

// NewMetrics creates and registers the assembly metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		resourcesDeclared: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mailcron",
				Subsystem: "assembly",
				Name:      "resources_declared_total",
				Help:      "Resources declared into stage templates by type",
			},
			[]string{"stage", "type"},
		),
		networkLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mailcron",
				Subsystem: "network",
				Name:      "lookups_total",
				Help:      "Network handle resolutions by source and result",
			},
			[]string{"source", "result"},
		),
		stageResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mailcron",
				Subsystem: "assembly",
				Name:      "stages_total",
				Help:      "Stage pipelines assembled by result",
			},
			[]string{"stage", "result"},
		),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "mailcron",
				Subsystem: "assembly",
				Name:      "phase_duration_seconds",
				Help:      "Duration of provisioning phases in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms to ~16s
			},
			[]string{"phase"},
		),
	}

	m.registry.MustRegister(m.resourcesDeclared, m.networkLookups, m.stageResults, m.phaseDuration)
	return m
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordResource counts a declared resource.
func (m *Metrics) RecordResource(stage, resourceType string) {
	if m == nil {
		return
	}
	m.resourcesDeclared.WithLabelValues(stage, resourceType).Inc()
}

// RecordNetworkLookup counts a network resolution. source is "lookup",
// "cache" or "memo".
func (m *Metrics) RecordNetworkLookup(source string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.networkLookups.WithLabelValues(source, result).Inc()
}

// RecordStage counts a finished stage pipeline.
func (m *Metrics) RecordStage(stage string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.stageResults.WithLabelValues(stage, result).Inc()
}

// ObservePhase records a phase duration in seconds.
func (m *Metrics) ObservePhase(phase string, seconds float64) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(phase).Observe(seconds)
}

// WriteTextfile writes the collected metrics in the node-exporter textfile
// format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
