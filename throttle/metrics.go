/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package throttle

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/acronis/go-apputil/internal/libinfo"
)

const (
	resultPassed  = "passed"
	resultDropped = "dropped"
)

// MetricsCollector collects statistics of throttlers.
type MetricsCollector interface {
	// IncPassed increments the number of calls that reached the action.
	IncPassed()

	// IncDropped increments the number of dropped calls.
	IncDropped()
}

// PrometheusMetricsOpts represents options for PrometheusMetrics.
type PrometheusMetricsOpts struct {
	// Namespace is prepended to all metric names.
	Namespace string

	// ConstLabels are applied to all metrics.
	ConstLabels prometheus.Labels

	// CurriedLabelNames must be curried later with MustCurryWith before the collector is used.
	CurriedLabelNames []string
}

// PrometheusMetrics is a MetricsCollector that exposes Prometheus metrics.
type PrometheusMetrics struct {
	CallsTotal *prometheus.CounterVec
}

var _ MetricsCollector = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics creates PrometheusMetrics with default options.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWithOpts(PrometheusMetricsOpts{})
}

// NewPrometheusMetricsWithOpts creates PrometheusMetrics with the given options.
func NewPrometheusMetricsWithOpts(opts PrometheusMetricsOpts) *PrometheusMetrics {
	labelNames := append(make([]string, 0, len(opts.CurriedLabelNames)+1), opts.CurriedLabelNames...)
	labelNames = append(labelNames, "result")
	return &PrometheusMetrics{
		CallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "throttle_calls_total",
			Help:        "Number of throttled calls by result.",
			ConstLabels: libinfo.AddPrometheusLibVersionLabel(opts.ConstLabels),
		}, labelNames),
	}
}

// MustCurryWith curries all metrics with the given labels.
func (pm *PrometheusMetrics) MustCurryWith(labels prometheus.Labels) *PrometheusMetrics {
	return &PrometheusMetrics{CallsTotal: pm.CallsTotal.MustCurryWith(labels)}
}

// MustRegister registers all metrics in the default Prometheus registry.
func (pm *PrometheusMetrics) MustRegister() {
	prometheus.MustRegister(pm.CallsTotal)
}

// Unregister removes all metrics from the default Prometheus registry.
func (pm *PrometheusMetrics) Unregister() {
	prometheus.Unregister(pm.CallsTotal)
}

// IncPassed increments the counter of calls with the "passed" result.
func (pm *PrometheusMetrics) IncPassed() {
	pm.CallsTotal.With(prometheus.Labels{"result": resultPassed}).Inc()
}

// IncDropped increments the counter of calls with the "dropped" result.
func (pm *PrometheusMetrics) IncDropped() {
	pm.CallsTotal.With(prometheus.Labels{"result": resultDropped}).Inc()
}

type disabledMetrics struct{}

func (disabledMetrics) IncPassed()  {}
func (disabledMetrics) IncDropped() {}
