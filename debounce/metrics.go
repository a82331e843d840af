/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package debounce

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/acronis/go-apputil/internal/libinfo"
)

// MetricsCollector collects statistics of debouncers.
type MetricsCollector interface {
	// IncCalls increments the number of accepted calls.
	IncCalls()

	// IncFires increments the number of action invocations.
	IncFires()

	// IncCancellations increments the number of pending invocations that were superseded or cancelled.
	IncCancellations()
}

// PrometheusMetricsOpts represents options for PrometheusMetrics.
type PrometheusMetricsOpts struct {
	// Namespace is prepended to all metric names.
	Namespace string

	// ConstLabels are applied to all metrics.
	ConstLabels prometheus.Labels

	// CurriedLabelNames must be curried later with MustCurryWith before the collector is used.
	// It allows sharing one set of metrics between several debouncers (e.g. with the "debouncer" label).
	CurriedLabelNames []string
}

// PrometheusMetrics is a MetricsCollector that exposes Prometheus metrics.
type PrometheusMetrics struct {
	CallsTotal         *prometheus.CounterVec
	FiresTotal         *prometheus.CounterVec
	CancellationsTotal *prometheus.CounterVec
}

var _ MetricsCollector = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics creates PrometheusMetrics with default options.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWithOpts(PrometheusMetricsOpts{})
}

// NewPrometheusMetricsWithOpts creates PrometheusMetrics with the given options.
func NewPrometheusMetricsWithOpts(opts PrometheusMetricsOpts) *PrometheusMetrics {
	constLabels := libinfo.AddPrometheusLibVersionLabel(opts.ConstLabels)
	makeCounter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		}, opts.CurriedLabelNames)
	}
	return &PrometheusMetrics{
		CallsTotal:         makeCounter("debounce_calls_total", "Number of debounced calls."),
		FiresTotal:         makeCounter("debounce_fires_total", "Number of action invocations."),
		CancellationsTotal: makeCounter("debounce_cancellations_total", "Number of superseded or cancelled invocations."),
	}
}

// MustCurryWith curries all metrics with the given labels.
func (pm *PrometheusMetrics) MustCurryWith(labels prometheus.Labels) *PrometheusMetrics {
	return &PrometheusMetrics{
		CallsTotal:         pm.CallsTotal.MustCurryWith(labels),
		FiresTotal:         pm.FiresTotal.MustCurryWith(labels),
		CancellationsTotal: pm.CancellationsTotal.MustCurryWith(labels),
	}
}

// MustRegister registers all metrics in the default Prometheus registry.
func (pm *PrometheusMetrics) MustRegister() {
	prometheus.MustRegister(pm.CallsTotal, pm.FiresTotal, pm.CancellationsTotal)
}

// Unregister removes all metrics from the default Prometheus registry.
func (pm *PrometheusMetrics) Unregister() {
	prometheus.Unregister(pm.CallsTotal)
	prometheus.Unregister(pm.FiresTotal)
	prometheus.Unregister(pm.CancellationsTotal)
}

// IncCalls increments the counter of accepted calls.
func (pm *PrometheusMetrics) IncCalls() {
	pm.CallsTotal.With(nil).Inc()
}

// IncFires increments the counter of action invocations.
func (pm *PrometheusMetrics) IncFires() {
	pm.FiresTotal.With(nil).Inc()
}

// IncCancellations increments the counter of superseded or cancelled invocations.
func (pm *PrometheusMetrics) IncCancellations() {
	pm.CancellationsTotal.With(nil).Inc()
}

type disabledMetrics struct{}

func (disabledMetrics) IncCalls()         {}
func (disabledMetrics) IncFires()         {}
func (disabledMetrics) IncCancellations() {}
