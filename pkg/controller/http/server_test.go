package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/argus/pkg/controller/http"
	"github.com/secmon-lab/argus/pkg/repository/memory"
	"github.com/secmon-lab/argus/pkg/usecase"
	"github.com/secmon-lab/argus/pkg/utils/metrics"
)

type requestJSON struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Status       string         `json:"status"`
	RiskScore    *int           `json:"risk_score"`
	ScoreVersion int            `json:"score_version"`
	Details      map[string]any `json:"details"`
}

type taskJSON struct {
	Team   string `json:"team"`
	Status string `json:"status"`
}

type scoreJSON struct {
	ID      string         `json:"id"`
	Version int            `json:"version"`
	Scores  map[string]int `json:"scores"`
	Total   int            `json:"total"`
	Tier    string         `json:"tier"`
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	m := metrics.New(nil)
	uc := usecase.New(memory.New(), usecase.WithMetrics(m))
	return httpctrl.New(uc, httpctrl.WithMetricsHandler(m.Handler()))
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v)).Required()
	return v
}

func submit(t *testing.T, h http.Handler, body map[string]any) requestJSON {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/requests", body)
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
	return decode[requestJSON](t, rec)
}

func TestServer_SubmitAndReview(t *testing.T) {
	h := newTestServer(t)

	req := submit(t, h, map[string]any{
		"title":        "Claims triage",
		"description":  "Routes insurance claims",
		"requestor_id": "U001",
		"details": map[string]any{
			"pii_involved":     true,
			"data_sensitivity": "Restricted",
		},
		// flattened attributes are accepted too
		"public_access":             true,
		"automated_decision_making": true,
		"unknown_field":             "ignored",
	})
	gt.Value(t, req.Status).Equal("submitted")
	gt.Value(t, req.Details["data_sensitivity"]).Equal("Restricted")
	gt.Value(t, req.Details["public_access"]).Equal(true)
	gt.Value(t, req.RiskScore).Nil()

	base := "/api/requests/" + req.ID

	t.Run("tasks are opened for every team", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, base+"/reviews", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		resp := decode[struct {
			Tasks []taskJSON `json:"tasks"`
		}](t, rec)
		gt.A(t, resp.Tasks).Length(5)
		gt.Value(t, resp.Tasks[0].Team).Equal("governance")
	})

	t.Run("score is 404 before compute", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, base+"/score", nil)
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("compute score", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, base+"/score", map[string]any{"actor_id": "U001"})
		gt.Value(t, rec.Code).Equal(http.StatusCreated)
		score := decode[scoreJSON](t, rec)
		gt.Value(t, score.Version).Equal(1)
		gt.Value(t, score.Tier).Equal("High")
		gt.Value(t, len(score.Scores)).Equal(5)
		gt.Map(t, score.Scores).HasKey("maestro")

		rec = do(t, h, http.MethodGet, base, nil)
		got := decode[requestJSON](t, rec)
		gt.Value(t, got.RiskScore).NotNil()
		gt.Value(t, *got.RiskScore).Equal(score.Total)

		rec = do(t, h, http.MethodPost, base+"/score", nil)
		gt.Value(t, rec.Code).Equal(http.StatusCreated)

		rec = do(t, h, http.MethodGet, base+"/score/history", nil)
		history := decode[struct {
			Scores []scoreJSON `json:"scores"`
		}](t, rec)
		gt.A(t, history.Scores).Length(2)
		gt.Value(t, history.Scores[0].Version).Equal(2)
	})

	t.Run("legal rejection denies the request", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, base+"/reviews/legal", map[string]any{
			"verdict":     "rejected",
			"reviewer_id": "L001",
			"comments":    "data residency",
		})
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		resp := decode[struct {
			Request requestJSON `json:"request"`
			Task    taskJSON    `json:"task"`
		}](t, rec)
		gt.Value(t, resp.Request.Status).Equal("denied")
		gt.Value(t, resp.Task.Status).Equal("rejected")

		rec = do(t, h, http.MethodPost, base+"/reviews/governance", map[string]any{"verdict": "approved"})
		gt.Value(t, rec.Code).Equal(http.StatusConflict)
	})

	t.Run("audit trail lists every call", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, base+"/audit", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		resp := decode[struct {
			AuditLogs []map[string]any `json:"audit_logs"`
		}](t, rec)
		gt.A(t, resp.AuditLogs).Length(4)
	})

	t.Run("list filters by status", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/requests?status=denied", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		resp := decode[struct {
			Requests []requestJSON `json:"requests"`
		}](t, rec)
		gt.A(t, resp.Requests).Length(1)

		rec = do(t, h, http.MethodGet, "/api/requests?status=approved", nil)
		resp = decode[struct {
			Requests []requestJSON `json:"requests"`
		}](t, rec)
		gt.A(t, resp.Requests).Length(0)
	})
}

func TestServer_Drafts(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/requests/drafts", map[string]any{"requestor_id": "U002"})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
	draft := decode[requestJSON](t, rec)
	gt.Value(t, draft.Status).Equal("draft")

	// a draft without title cannot be submitted
	rec = do(t, h, http.MethodPost, "/api/requests/"+draft.ID+"/submit", nil)
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

	rec = do(t, h, http.MethodPost, "/api/requests/drafts", map[string]any{"title": "Doc summarizer", "requestor_id": "U002"})
	titled := decode[requestJSON](t, rec)

	rec = do(t, h, http.MethodPost, "/api/requests/"+titled.ID+"/submit", map[string]any{"actor_id": "U002"})
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, decode[requestJSON](t, rec).Status).Equal("submitted")

	rec = do(t, h, http.MethodPost, "/api/requests/"+titled.ID+"/submit", nil)
	gt.Value(t, rec.Code).Equal(http.StatusConflict)
}

func TestServer_ErrorMapping(t *testing.T) {
	h := newTestServer(t)
	req := submit(t, h, map[string]any{"title": "x", "requestor_id": "U001"})

	testCases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"invalid attribute type", http.MethodPost, "/api/requests", map[string]any{"title": "x", "requestor_id": "U1", "pii_involved": "yes"}, http.StatusBadRequest},
		{"missing requestor", http.MethodPost, "/api/requests", map[string]any{"title": "x"}, http.StatusBadRequest},
		{"empty body", http.MethodPost, "/api/requests", nil, http.StatusBadRequest},
		{"unknown request", http.MethodGet, "/api/requests/0000", nil, http.StatusNotFound},
		{"unknown team", http.MethodPost, "/api/requests/" + req.ID + "/reviews/marketing", map[string]any{"verdict": "approved"}, http.StatusBadRequest},
		{"missing verdict", http.MethodPost, "/api/requests/" + req.ID + "/reviews/legal", map[string]any{}, http.StatusBadRequest},
		{"invalid verdict", http.MethodPost, "/api/requests/" + req.ID + "/reviews/legal", map[string]any{"verdict": "maybe"}, http.StatusBadRequest},
		{"invalid status filter", http.MethodGet, "/api/requests?status=archived", nil, http.StatusBadRequest},
		{"queue needs a team", http.MethodGet, "/api/reviews", nil, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.path, tc.body)
			gt.Value(t, rec.Code).Equal(tc.want)
			gt.S(t, rec.Header().Get("Content-Type")).Contains("application/json")
		})
	}
}

func TestServer_TeamQueue(t *testing.T) {
	h := newTestServer(t)
	first := submit(t, h, map[string]any{"title": "a", "requestor_id": "U001"})
	submit(t, h, map[string]any{"title": "b", "requestor_id": "U001"})

	rec := do(t, h, http.MethodPost, "/api/requests/"+first.ID+"/reviews/architecture", map[string]any{"verdict": "needs-info"})
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = do(t, h, http.MethodGet, "/api/reviews?team=architecture&status=pending", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	resp := decode[struct {
		Tasks []taskJSON `json:"tasks"`
	}](t, rec)
	gt.A(t, resp.Tasks).Length(1)

	rec = do(t, h, http.MethodGet, "/api/reviews?team=architecture&status=needs-info", nil)
	resp = decode[struct {
		Tasks []taskJSON `json:"tasks"`
	}](t, rec)
	gt.A(t, resp.Tasks).Length(1)
	gt.Value(t, resp.Tasks[0].Status).Equal("needs-info")
}

func TestServer_Meta(t *testing.T) {
	h := newTestServer(t)

	t.Run("health", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/health", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
	})

	t.Run("frameworks", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/frameworks", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		resp := decode[struct {
			PolicyVersion string `json:"policy_version"`
			Frameworks    []struct {
				ID     string  `json:"id"`
				Weight float64 `json:"weight"`
			} `json:"frameworks"`
			Tiers map[string]int `json:"tier_thresholds"`
		}](t, rec)
		gt.Value(t, resp.PolicyVersion).NotEqual("")
		gt.A(t, resp.Frameworks).Length(5)
		gt.Value(t, resp.Frameworks[0].ID).Equal("nist")
		gt.Value(t, resp.Frameworks[0].Weight).Equal(0.2)
		gt.Value(t, resp.Tiers["High"]).Equal(60)
	})

	t.Run("metrics", func(t *testing.T) {
		submit(t, h, map[string]any{"title": "m", "requestor_id": "U001"})
		rec := do(t, h, http.MethodGet, "/metrics", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.S(t, rec.Body.String()).Contains("argus_requests_submitted_total 1")
	})
}
