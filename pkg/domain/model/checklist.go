package model

import (
	"slices"
	"time"

	"github.com/secmon-lab/argus/pkg/domain/types"
)

// ChecklistID identifies a compliance checklist
type ChecklistID string

// NewChecklistID derives the checklist ID from its request and framework.
// A request has at most one checklist per framework.
func NewChecklistID(requestID RequestID, framework types.Framework) ChecklistID {
	return ChecklistID(string(requestID) + "_" + string(framework))
}

// String returns the string representation of ChecklistID
func (id ChecklistID) String() string {
	return string(id)
}

// ChecklistItem is one question of a checklist with its answer, if any
type ChecklistItem struct {
	QuestionID string                `json:"question_id"`
	Category   string                `json:"category"`
	Question   string                `json:"question"`
	Answer     types.ChecklistAnswer `json:"answer,omitempty"`
	Notes      string                `json:"notes,omitempty"`
}

// ComplianceChecklist records a request's answers to one framework's
// assessment questions. Items follow the framework's question order.
type ComplianceChecklist struct {
	ID          ChecklistID     `json:"id"`
	RequestID   RequestID       `json:"request_id"`
	Framework   types.Framework `json:"framework"`
	Items       []ChecklistItem `json:"questions"`
	Completed   bool            `json:"completed"`
	CompletedBy string          `json:"completed_by,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Clone returns a deep copy
func (c *ComplianceChecklist) Clone() *ComplianceChecklist {
	if c == nil {
		return nil
	}
	cc := *c
	cc.Items = slices.Clone(c.Items)
	if c.CompletedAt != nil {
		at := *c.CompletedAt
		cc.CompletedAt = &at
	}
	return &cc
}

// Unanswered counts the questions without an answer
func (c *ComplianceChecklist) Unanswered() int {
	n := 0
	for _, item := range c.Items {
		if item.Answer == "" {
			n++
		}
	}
	return n
}
