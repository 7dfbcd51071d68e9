package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// ReviewCommentID identifies a review comment
type ReviewCommentID string

// NewReviewCommentID returns a time-ordered unique comment ID
func NewReviewCommentID() ReviewCommentID {
	return ReviewCommentID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of ReviewCommentID
func (id ReviewCommentID) String() string {
	return string(id)
}

// ReviewComment is one entry of a review task's discussion thread. Threads
// are append-only; comments are never edited or removed.
type ReviewComment struct {
	ID          ReviewCommentID `json:"id"`
	RequestID   RequestID       `json:"request_id"`
	TaskID      ReviewTaskID    `json:"task_id"`
	Team        types.TeamID    `json:"team"`
	CommenterID string          `json:"commenter_id"`
	// Section optionally names the part of the request the comment is about
	Section   string    `json:"section,omitempty"`
	Text      string    `json:"text" masq:"secret"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a copy
func (c *ReviewComment) Clone() *ReviewComment {
	if c == nil {
		return nil
	}
	cc := *c
	return &cc
}
