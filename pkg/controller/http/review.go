package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/usecase"
)

type verdictBody struct {
	Verdict    string `json:"verdict" validate:"required"`
	ReviewerID string `json:"reviewer_id" validate:"max=128"`
	Comments   string `json:"comments" validate:"max=10000"`
}

type verdictResponse struct {
	Request  *model.IntakeRequest `json:"request"`
	Task     *model.ReviewTask    `json:"task"`
	Repeated bool                 `json:"repeated"`
}

func (s *Server) applyVerdictHandler(w http.ResponseWriter, r *http.Request) {
	var body verdictBody
	if err := s.decodeBody(w, r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.uc.Workflow.ApplyVerdict(r.Context(), usecase.VerdictInput{
		RequestID:  requestIDParam(r),
		Team:       chi.URLParam(r, "team"),
		Verdict:    body.Verdict,
		ReviewerID: body.ReviewerID,
		Comments:   body.Comments,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, verdictResponse{
		Request:  result.Request,
		Task:     result.Task,
		Repeated: result.Repeated,
	})
}

func (s *Server) listTasksHandler(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.uc.Ledger.ListTasks(r.Context(), requestIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"tasks": nonNil(tasks)})
}

func (s *Server) teamQueueHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := s.uc.Ledger.ListTeamQueue(r.Context(), q.Get("team"), q.Get("status"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"tasks": nonNil(tasks)})
}

type commentBody struct {
	CommenterID string `json:"commenter_id" validate:"required,max=128"`
	Section     string `json:"section" validate:"max=256"`
	Text        string `json:"text" validate:"required,max=10000"`
}

func (s *Server) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	var body commentBody
	if err := s.decodeBody(w, r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	comment, err := s.uc.Workflow.AddComment(r.Context(), usecase.CommentInput{
		RequestID:   requestIDParam(r),
		Team:        chi.URLParam(r, "team"),
		CommenterID: body.CommenterID,
		Section:     body.Section,
		Text:        body.Text,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, comment)
}

func (s *Server) listCommentsHandler(w http.ResponseWriter, r *http.Request) {
	comments, err := s.uc.Ledger.ListComments(r.Context(), requestIDParam(r), chi.URLParam(r, "team"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"comments": nonNil(comments)})
}
