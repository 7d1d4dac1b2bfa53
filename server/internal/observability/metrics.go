package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Tool call results recorded by Metrics.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds the Prometheus collectors for the voice tools.
//
// Metrics:
//   - sitevoice_tool_calls_total{tool,result}
//   - sitevoice_tool_call_errors_total{tool,code}
//   - sitevoice_tool_call_duration_seconds{tool}
//   - sitevoice_site_identifications_total{outcome}
//   - sitevoice_hours_logged_total
type Metrics struct {
	ToolCallsTotal      *prometheus.CounterVec
	ToolCallErrorsTotal *prometheus.CounterVec
	ToolCallDuration    *prometheus.HistogramVec
	SiteIdentifications *prometheus.CounterVec
	HoursLoggedTotal    prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ToolCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitevoice_tool_calls_total",
				Help: "Total number of voice tool calls",
			},
			[]string{"tool", "result"},
		),
		ToolCallErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitevoice_tool_call_errors_total",
				Help: "Total number of failed voice tool calls by error code",
			},
			[]string{"tool", "code"},
		),
		ToolCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sitevoice_tool_call_duration_seconds",
				Help:    "Duration of voice tool calls in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 4, 8},
			},
			[]string{"tool"},
		),
		SiteIdentifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitevoice_site_identifications_total",
				Help: "Total number of site identifications by outcome",
			},
			[]string{"outcome"},
		),
		HoursLoggedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sitevoice_hours_logged_total",
				Help: "Total hours written by new timesheet entries",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.ToolCallsTotal, m.ToolCallErrorsTotal, m.ToolCallDuration, m.SiteIdentifications, m.HoursLoggedTotal)
	}
	return m
}

// RecordToolCall records one tool call. An empty code means success.
func (m *Metrics) RecordToolCall(tool, code string, duration time.Duration) {
	result := ResultSuccess
	if code != "" {
		result = ResultFailure
		m.ToolCallErrorsTotal.WithLabelValues(tool, code).Inc()
	}
	m.ToolCallsTotal.WithLabelValues(tool, result).Inc()
	m.ToolCallDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordSiteIdentification records the outcome of a site identification.
func (m *Metrics) RecordSiteIdentification(outcome string) {
	m.SiteIdentifications.WithLabelValues(outcome).Inc()
}

// RecordHoursLogged adds the hours of a newly saved entry.
func (m *Metrics) RecordHoursLogged(hours float64) {
	if hours > 0 {
		m.HoursLoggedTotal.Add(hours)
	}
}
