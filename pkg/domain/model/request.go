package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// RequestID identifies an intake request
type RequestID string

// NewRequestID returns a time-ordered unique request ID
func NewRequestID() RequestID {
	return RequestID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of RequestID
func (id RequestID) String() string {
	return string(id)
}

// IntakeRequest is a proposal to deploy an AI system, carrying its canonical
// risk attributes and the aggregate review status.
type IntakeRequest struct {
	ID          RequestID           `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	RequestorID string              `json:"requestor_id"`
	Details     Attributes          `json:"details"`
	Status      types.RequestStatus `json:"status"`

	// RiskScore is the total of the latest breakdown, nil until first computed
	RiskScore     *int        `json:"risk_score"`
	LatestScoreID RiskScoreID `json:"latest_score_id,omitempty"`
	ScoreVersion  int         `json:"score_version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy
func (r *IntakeRequest) Clone() *IntakeRequest {
	if r == nil {
		return nil
	}
	c := *r
	c.Details = r.Details.Clone()
	if r.RiskScore != nil {
		score := *r.RiskScore
		c.RiskScore = &score
	}
	return &c
}
