package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argus/pkg/utils/metrics"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.IncrementSubmitted()
	m.IncrementVerdict("legal", "approved", "applied")
	m.IncrementTransition("submitted", "reviewing")
	m.ObserveScore("High", 64)
	m.ObserveOperation("submit", time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	gt.Value(t, w.Code).Equal(404)
}

func TestHandlerExposesRecordedMetrics(t *testing.T) {
	m := metrics.New(nil)
	m.IncrementSubmitted()
	m.IncrementVerdict("legal", "approved", "applied")
	m.IncrementTransition("submitted", "reviewing")
	m.IncrementTransition("reviewing", "reviewing")
	m.ObserveScore("High", 64)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	gt.Value(t, w.Code).Equal(200)

	body, err := io.ReadAll(w.Body)
	gt.NoError(t, err).Required()
	gt.S(t, string(body)).Contains("argus_requests_submitted_total 1")
	gt.S(t, string(body)).Contains(`argus_verdicts_total{outcome="applied",team="legal",verdict="approved"} 1`)
	gt.S(t, string(body)).Contains(`argus_status_transitions_total{from="submitted",to="reviewing"} 1`)
	gt.S(t, string(body)).Contains(`argus_score_computations_total{tier="High"} 1`)
}

func TestIndependentRegistries(t *testing.T) {
	// Building twice must not panic on duplicate registration
	_ = metrics.New(nil)
	_ = metrics.New(nil)
}
