package model

import (
	"slices"
	"time"

	"github.com/secmon-lab/argus/pkg/domain/types"
)

// ReviewTaskID identifies a review task
type ReviewTaskID string

// NewReviewTaskID derives the task ID from its request and team. At most one
// task exists per pair, so the ID doubles as the uniqueness key.
func NewReviewTaskID(requestID RequestID, team types.TeamID) ReviewTaskID {
	return ReviewTaskID(string(requestID) + "_" + string(team))
}

// String returns the string representation of ReviewTaskID
func (id ReviewTaskID) String() string {
	return string(id)
}

// ReviewTask is one team's verdict record for one request
type ReviewTask struct {
	ID         ReviewTaskID     `json:"id"`
	RequestID  RequestID        `json:"request_id"`
	Team       types.TeamID     `json:"team"`
	Status     types.TaskStatus `json:"status"`
	Comments   string           `json:"comments" masq:"secret"`
	ReviewerID string           `json:"reviewer_id"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Clone returns a copy
func (t *ReviewTask) Clone() *ReviewTask {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// SortTasks orders tasks by creation time, breaking ties with the fixed team
// order.
func SortTasks(tasks []*ReviewTask) {
	slices.SortStableFunc(tasks, func(a, b *ReviewTask) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return a.Team.Order() - b.Team.Order()
	})
}
