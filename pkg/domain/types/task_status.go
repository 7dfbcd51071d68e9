package types

import (
	"fmt"
	"strings"
)

// TaskStatus represents the state of a single team's review task
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusApproved  TaskStatus = "approved"
	TaskStatusRejected  TaskStatus = "rejected"
	TaskStatusNeedsInfo TaskStatus = "needs-info"
)

// AllTaskStatuses returns all valid task statuses
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusPending,
		TaskStatusApproved,
		TaskStatusRejected,
		TaskStatusNeedsInfo,
	}
}

// IsValid checks if the task status is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending,
		TaskStatusApproved,
		TaskStatusRejected,
		TaskStatusNeedsInfo:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the task holds a final decision
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusApproved || s == TaskStatusRejected
}

// IsVerdict reports whether the status can be submitted by a reviewer.
// Pending is the initial state and never a verdict.
func (s TaskStatus) IsVerdict() bool {
	return s == TaskStatusApproved || s == TaskStatusRejected || s == TaskStatusNeedsInfo
}

// String returns the string representation of the task status
func (s TaskStatus) String() string {
	return string(s)
}

// ParseTaskStatus parses a string into a TaskStatus. Underscores are
// accepted in place of hyphens so "needs_info" resolves to needs-info.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid task status: %s", s)
	}
	return status, nil
}

// ParseVerdict parses a reviewer verdict. Only approved, rejected and
// needs-info are accepted.
func ParseVerdict(s string) (TaskStatus, error) {
	status, err := ParseTaskStatus(s)
	if err != nil || !status.IsVerdict() {
		return "", fmt.Errorf("invalid verdict: %s", s)
	}
	return status, nil
}
