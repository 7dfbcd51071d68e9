package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/usecase"
)

// intakeBody is the payload of submissions and drafts. Risk attributes may be
// sent in details or flattened at the top level; both are merged with details
// taking precedence.
type intakeBody struct {
	Title       string         `json:"title" validate:"max=200"`
	Description string         `json:"description" validate:"max=10000"`
	RequestorID string         `json:"requestor_id" validate:"required,max=128"`
	Details     map[string]any `json:"details"`
}

var intakeEnvelopeKeys = map[string]bool{
	"title":        true,
	"description":  true,
	"requestor_id": true,
	"details":      true,
}

func (s *Server) decodeIntake(w http.ResponseWriter, r *http.Request) (usecase.IntakeInput, error) {
	data, err := readBody(w, r)
	if err != nil {
		return usecase.IntakeInput{}, err
	}
	if data == nil {
		return usecase.IntakeInput{}, goerr.Wrap(errInvalidBody, "request body is required")
	}

	var body intakeBody
	var flat map[string]any
	for _, dst := range []any{&body, &flat} {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(dst); err != nil {
			return usecase.IntakeInput{}, goerr.Wrap(errInvalidBody, err.Error())
		}
	}
	if err := s.validateBody(&body); err != nil {
		return usecase.IntakeInput{}, err
	}

	details := make(map[string]any, len(flat)+len(body.Details))
	for k, v := range flat {
		if !intakeEnvelopeKeys[k] {
			details[k] = v
		}
	}
	for k, v := range body.Details {
		details[k] = v
	}

	return usecase.IntakeInput{
		Title:       body.Title,
		Description: body.Description,
		RequestorID: body.RequestorID,
		Details:     details,
	}, nil
}

type actorBody struct {
	ActorID string `json:"actor_id" validate:"max=128"`
}

func requestIDParam(r *http.Request) model.RequestID {
	return model.RequestID(chi.URLParam(r, "requestID"))
}

func (s *Server) submitHandler(w http.ResponseWriter, r *http.Request) {
	in, err := s.decodeIntake(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	req, err := s.uc.Workflow.Submit(r.Context(), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, req)
}

func (s *Server) saveDraftHandler(w http.ResponseWriter, r *http.Request) {
	in, err := s.decodeIntake(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	req, err := s.uc.Workflow.SaveDraft(r.Context(), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, req)
}

func (s *Server) submitDraftHandler(w http.ResponseWriter, r *http.Request) {
	var body actorBody
	if err := s.decodeBody(w, r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	req, err := s.uc.Workflow.SubmitDraft(r.Context(), requestIDParam(r), body.ActorID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, req)
}

func (s *Server) getRequestHandler(w http.ResponseWriter, r *http.Request) {
	req, err := s.uc.Workflow.Get(r.Context(), requestIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, req)
}

func (s *Server) listRequestsHandler(w http.ResponseWriter, r *http.Request) {
	reqs, err := s.uc.Workflow.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"requests": nonNil(reqs)})
}

func (s *Server) auditTrailHandler(w http.ResponseWriter, r *http.Request) {
	logs, err := s.uc.Workflow.AuditTrail(r.Context(), requestIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"audit_logs": nonNil(logs)})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
