package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// RiskScoreID identifies a risk score breakdown
type RiskScoreID string

// NewRiskScoreID returns a time-ordered unique breakdown ID
func NewRiskScoreID() RiskScoreID {
	return RiskScoreID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of RiskScoreID
func (id RiskScoreID) String() string {
	return string(id)
}

// FrameworkScores holds one 0-100 sub-score per framework
type FrameworkScores struct {
	NIST    int `json:"nist"`
	SOC2    int `json:"soc2"`
	SOX     int `json:"sox"`
	OWASP   int `json:"owasp"`
	MAESTRO int `json:"maestro"`
}

// Of returns the sub-score of f
func (s FrameworkScores) Of(f types.Framework) int {
	switch f {
	case types.FrameworkNIST:
		return s.NIST
	case types.FrameworkSOC2:
		return s.SOC2
	case types.FrameworkSOX:
		return s.SOX
	case types.FrameworkOWASP:
		return s.OWASP
	case types.FrameworkMAESTRO:
		return s.MAESTRO
	default:
		return 0
	}
}

// With returns a copy with the sub-score of f set to v
func (s FrameworkScores) With(f types.Framework, v int) FrameworkScores {
	switch f {
	case types.FrameworkNIST:
		s.NIST = v
	case types.FrameworkSOC2:
		s.SOC2 = v
	case types.FrameworkSOX:
		s.SOX = v
	case types.FrameworkOWASP:
		s.OWASP = v
	case types.FrameworkMAESTRO:
		s.MAESTRO = v
	}
	return s
}

// ScoreResult is the outcome of scoring one attribute set
type ScoreResult struct {
	Scores        FrameworkScores
	Total         int
	Tier          types.RiskTier
	PolicyVersion string
}

// RiskScore is an immutable, persisted breakdown. Recomputation appends a
// new RiskScore with the next Version instead of changing an old one.
type RiskScore struct {
	ID            RiskScoreID     `json:"id"`
	RequestID     RequestID       `json:"request_id"`
	Version       int             `json:"version"`
	PolicyVersion string          `json:"policy_version"`
	Scores        FrameworkScores `json:"scores"`
	Total         int             `json:"total"`
	Tier          types.RiskTier  `json:"tier"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Clone returns a copy
func (s *RiskScore) Clone() *RiskScore {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
