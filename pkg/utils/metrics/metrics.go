package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for the intake workflow. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	// Requests submitted for review
	Submitted prometheus.Counter

	// Verdicts by team, verdict and outcome ("applied" or "repeated")
	Verdicts *prometheus.CounterVec

	// Aggregate status changes by source and destination status
	Transitions *prometheus.CounterVec

	// Score computations by resulting tier
	ScoreComputations *prometheus.CounterVec

	// Distribution of computed weighted totals
	ScoreTotal prometheus.Histogram

	// Latency of use case operations
	OperationLatency *prometheus.HistogramVec
}

// New creates a Metrics instance registered on reg. A fresh registry is
// created when reg is nil, so tests can build as many instances as they like.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,

		Submitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "argus_requests_submitted_total",
			Help: "Total intake requests submitted for review",
		}),

		Verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "argus_verdicts_total",
			Help: "Total review verdicts by team, verdict and outcome",
		}, []string{"team", "verdict", "outcome"}),

		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "argus_status_transitions_total",
			Help: "Total aggregate request status changes",
		}, []string{"from", "to"}),

		ScoreComputations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "argus_score_computations_total",
			Help: "Total risk score computations by tier",
		}, []string{"tier"}),

		ScoreTotal: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "argus_score_total",
			Help:    "Distribution of weighted total risk scores",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),

		OperationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "argus_operation_duration_seconds",
			Help:    "Duration of intake workflow operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
	}
}

// Handler returns the HTTP handler exposing the registered metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// IncrementSubmitted records a submitted request.
func (m *Metrics) IncrementSubmitted() {
	if m != nil {
		m.Submitted.Inc()
	}
}

// IncrementVerdict records a verdict call.
func (m *Metrics) IncrementVerdict(team, verdict, outcome string) {
	if m != nil {
		m.Verdicts.WithLabelValues(team, verdict, outcome).Inc()
	}
}

// IncrementTransition records an aggregate status change. Calls where the
// status did not change are ignored.
func (m *Metrics) IncrementTransition(from, to string) {
	if m != nil && from != to {
		m.Transitions.WithLabelValues(from, to).Inc()
	}
}

// ObserveScore records a computed score.
func (m *Metrics) ObserveScore(tier string, total int) {
	if m != nil {
		m.ScoreComputations.WithLabelValues(tier).Inc()
		m.ScoreTotal.Observe(float64(total))
	}
}

// ObserveOperation records the duration of a use case operation.
func (m *Metrics) ObserveOperation(operation string, d time.Duration) {
	if m != nil {
		m.OperationLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}
