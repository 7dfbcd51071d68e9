package http_test

import (
	"net/http"
	"testing"

	"github.com/m-mizutani/gt"
)

type checklistItemJSON struct {
	QuestionID string `json:"question_id"`
	Category   string `json:"category"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Notes      string `json:"notes"`
}

type checklistJSON struct {
	RequestID   string              `json:"request_id"`
	Framework   string              `json:"framework"`
	Items       []checklistItemJSON `json:"questions"`
	Completed   bool                `json:"completed"`
	CompletedBy string              `json:"completed_by"`
}

type commentJSON struct {
	ID          string `json:"id"`
	TaskID      string `json:"task_id"`
	Team        string `json:"team"`
	CommenterID string `json:"commenter_id"`
	Section     string `json:"section"`
	Text        string `json:"text"`
}

func TestServer_ChecklistTemplate(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/frameworks/soc2/checklist", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	resp := decode[struct {
		Framework string `json:"framework"`
		Sections  []struct {
			Category  string `json:"category"`
			Questions []struct {
				ID   string `json:"id"`
				Text string `json:"text"`
			} `json:"questions"`
		} `json:"sections"`
	}](t, rec)
	gt.Value(t, resp.Framework).Equal("soc2")
	gt.A(t, resp.Sections).Length(5)
	gt.Value(t, resp.Sections[0].Category).Equal("Security")
	gt.Value(t, resp.Sections[0].Questions[0].ID).Equal("soc2.security.1")
	gt.Value(t, resp.Sections[0].Questions[0].Text).Equal("Is data encrypted at rest and in transit?")

	rec = do(t, h, http.MethodGet, "/api/frameworks/iso42001/checklist", nil)
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
}

func TestServer_Checklists(t *testing.T) {
	h := newTestServer(t)
	req := submit(t, h, map[string]any{"title": "Invoice bot", "requestor_id": "U001"})
	base := "/api/requests/" + req.ID + "/checklists"

	rec := do(t, h, http.MethodGet, base+"/sox", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	blank := decode[checklistJSON](t, rec)
	gt.A(t, blank.Items).Length(15)
	gt.Value(t, blank.Items[0].Answer).Equal("")

	answers := make([]map[string]any, 0, len(blank.Items))
	for _, item := range blank.Items {
		answers = append(answers, map[string]any{"question_id": item.QuestionID, "answer": "yes"})
	}
	answers[4]["answer"] = "partial"
	answers[4]["notes"] = "quarterly only"

	rec = do(t, h, http.MethodPut, base+"/sox", map[string]any{
		"actor_id": "C1",
		"answers":  answers,
		"complete": true,
	})
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	saved := decode[checklistJSON](t, rec)
	gt.B(t, saved.Completed).True()
	gt.Value(t, saved.CompletedBy).Equal("C1")
	gt.Value(t, saved.Items[4].Notes).Equal("quarterly only")

	rec = do(t, h, http.MethodPut, base+"/sox", map[string]any{
		"actor_id": "C2",
		"answers":  []map[string]any{{"question_id": "sox.audit_trail.1", "answer": "no"}},
	})
	gt.Value(t, rec.Code).Equal(http.StatusConflict)

	rec = do(t, h, http.MethodGet, base, nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	list := decode[struct {
		Checklists []checklistJSON `json:"checklists"`
	}](t, rec)
	gt.A(t, list.Checklists).Length(1)
	gt.Value(t, list.Checklists[0].Framework).Equal("sox")

	testCases := []struct {
		name string
		path string
		body any
		want int
	}{
		{"missing actor", base + "/sox", map[string]any{"answers": []any{}}, http.StatusBadRequest},
		{"unknown framework", base + "/iso42001", map[string]any{"actor_id": "C1"}, http.StatusBadRequest},
		{"foreign question", base + "/nist", map[string]any{"actor_id": "C1", "answers": []map[string]any{{"question_id": "sox.audit_trail.1", "answer": "yes"}}}, http.StatusBadRequest},
		{"answer without question", base + "/nist", map[string]any{"actor_id": "C1", "answers": []map[string]any{{"answer": "yes"}}}, http.StatusBadRequest},
		{"unknown request", "/api/requests/0000/checklists/nist", map[string]any{"actor_id": "C1"}, http.StatusNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPut, tc.path, tc.body)
			gt.Value(t, rec.Code).Equal(tc.want)
		})
	}
}

func TestServer_ReviewComments(t *testing.T) {
	h := newTestServer(t)
	req := submit(t, h, map[string]any{"title": "Translation model", "requestor_id": "U001"})
	base := "/api/requests/" + req.ID + "/reviews/legal/comments"

	rec := do(t, h, http.MethodPost, base, map[string]any{
		"commenter_id": "L1",
		"section":      "licensing",
		"text":         "model license allows commercial use?",
	})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
	created := decode[commentJSON](t, rec)
	gt.Value(t, created.Team).Equal("legal")
	gt.Value(t, created.TaskID).Equal(req.ID + "_legal")

	rec = do(t, h, http.MethodPost, "/api/requests/"+req.ID+"/reviews/legal", map[string]any{
		"verdict": "approved", "reviewer_id": "L1", "comments": "Apache 2.0 confirmed",
	})
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = do(t, h, http.MethodGet, base, nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	thread := decode[struct {
		Comments []commentJSON `json:"comments"`
	}](t, rec)
	gt.A(t, thread.Comments).Length(2)
	gt.Value(t, thread.Comments[0].Section).Equal("licensing")
	gt.Value(t, thread.Comments[1].Text).Equal("Apache 2.0 confirmed")
	gt.Value(t, thread.Comments[1].Section).Equal("verdict:approved")

	rec = do(t, h, http.MethodGet, "/api/requests/"+req.ID+"/reviews/architecture/comments", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	other := decode[struct {
		Comments []commentJSON `json:"comments"`
	}](t, rec)
	gt.A(t, other.Comments).Length(0)

	testCases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"missing text", http.MethodPost, base, map[string]any{"commenter_id": "L1"}, http.StatusBadRequest},
		{"missing commenter", http.MethodPost, base, map[string]any{"text": "hi"}, http.StatusBadRequest},
		{"unknown team", http.MethodPost, "/api/requests/" + req.ID + "/reviews/marketing/comments", map[string]any{"commenter_id": "M1", "text": "hi"}, http.StatusBadRequest},
		{"unknown request", http.MethodGet, "/api/requests/0000/reviews/legal/comments", nil, http.StatusNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.path, tc.body)
			gt.Value(t, rec.Code).Equal(tc.want)
		})
	}
}
