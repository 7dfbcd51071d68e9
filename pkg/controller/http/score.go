package http

import (
	"net/http"

	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/service/scoring"
)

func (s *Server) computeScoreHandler(w http.ResponseWriter, r *http.Request) {
	var body actorBody
	if err := s.decodeBody(w, r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	score, err := s.uc.Scoring.ComputeScore(r.Context(), requestIDParam(r), body.ActorID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, score)
}

func (s *Server) getScoreHandler(w http.ResponseWriter, r *http.Request) {
	score, err := s.uc.Scoring.GetScore(r.Context(), requestIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, score)
}

func (s *Server) scoreHistoryHandler(w http.ResponseWriter, r *http.Request) {
	scores, err := s.uc.Scoring.ScoreHistory(r.Context(), requestIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"scores": nonNil(scores)})
}

type frameworkResponse struct {
	ID          types.Framework `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Weight      float64         `json:"weight"`
}

type frameworksResponse struct {
	PolicyVersion string              `json:"policy_version"`
	Frameworks    []frameworkResponse `json:"frameworks"`
	Tiers         map[string]int      `json:"tier_thresholds"`
}

func (s *Server) frameworksHandler(w http.ResponseWriter, r *http.Request) {
	p := s.uc.Engine().Policy()

	resp := frameworksResponse{
		PolicyVersion: p.Version(),
		Tiers: map[string]int{
			types.RiskTierMedium.String(): types.MediumRiskThreshold,
			types.RiskTierHigh.String():   types.HighRiskThreshold,
		},
	}
	for _, f := range scoring.Frameworks() {
		resp.Frameworks = append(resp.Frameworks, frameworkResponse{
			ID:          f.ID,
			Name:        f.Name,
			Description: f.Description,
			Weight:      p.Weight(f.ID),
		})
	}
	writeJSON(w, r, http.StatusOK, resp)
}
