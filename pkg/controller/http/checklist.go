package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/usecase"
)

type checklistQuestionResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type checklistSectionResponse struct {
	Category  string                      `json:"category"`
	Questions []checklistQuestionResponse `json:"questions"`
}

type checklistTemplateResponse struct {
	Framework types.Framework            `json:"framework"`
	Sections  []checklistSectionResponse `json:"sections"`
}

func (s *Server) checklistTemplateHandler(w http.ResponseWriter, r *http.Request) {
	f, sections, err := s.uc.Checklist.Template(chi.URLParam(r, "framework"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := checklistTemplateResponse{Framework: f}
	for _, sec := range sections {
		out := checklistSectionResponse{Category: sec.Category}
		for _, q := range sec.Questions {
			out.Questions = append(out.Questions, checklistQuestionResponse{ID: q.ID, Text: q.Text})
		}
		resp.Sections = append(resp.Sections, out)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

type checklistAnswerBody struct {
	QuestionID string `json:"question_id" validate:"required,max=128"`
	Answer     string `json:"answer" validate:"max=32"`
	Notes      string `json:"notes" validate:"max=10000"`
}

type checklistBody struct {
	ActorID  string                `json:"actor_id" validate:"required,max=128"`
	Answers  []checklistAnswerBody `json:"answers" validate:"max=200,dive"`
	Complete bool                  `json:"complete"`
}

func (s *Server) saveChecklistHandler(w http.ResponseWriter, r *http.Request) {
	var body checklistBody
	if err := s.decodeBody(w, r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	answers := make([]usecase.ChecklistAnswerInput, len(body.Answers))
	for i, a := range body.Answers {
		answers[i] = usecase.ChecklistAnswerInput{
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
			Notes:      a.Notes,
		}
	}

	checklist, err := s.uc.Checklist.Save(r.Context(), usecase.ChecklistInput{
		RequestID: requestIDParam(r),
		Framework: chi.URLParam(r, "framework"),
		ActorID:   body.ActorID,
		Answers:   answers,
		Complete:  body.Complete,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, checklist)
}

func (s *Server) getChecklistHandler(w http.ResponseWriter, r *http.Request) {
	checklist, err := s.uc.Checklist.Get(r.Context(), requestIDParam(r), chi.URLParam(r, "framework"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, checklist)
}

func (s *Server) listChecklistsHandler(w http.ResponseWriter, r *http.Request) {
	checklists, err := s.uc.Checklist.List(r.Context(), requestIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"checklists": nonNil(checklists)})
}
