package interfaces

import (
	"context"
	"errors"

	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// Errors returned by every Repository implementation
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	// ErrConflict reports a concurrent write collision that exhausted retries
	ErrConflict = errors.New("concurrent modification")
)

// Repository is the request store. Reads return copies; every mutation of an
// existing request goes through RunInTransaction.
type Repository interface {
	Request() RequestRepository
	ReviewTask() ReviewTaskRepository
	RiskScore() RiskScoreRepository
	AuditLog() AuditLogRepository
	ReviewComment() ReviewCommentRepository
	Checklist() ChecklistRepository

	// RunInTransaction executes fn as an atomic read-modify-write on one
	// request. Calls for the same requestID are serialized; calls for
	// different requests do not contend. Writes buffered on tx are committed
	// only when fn returns nil. fn may run more than once on backends that
	// retry on contention, so it must not have side effects outside tx.
	// Returns ErrNotFound when the request does not exist.
	RunInTransaction(ctx context.Context, requestID model.RequestID, fn func(ctx context.Context, tx RequestTransaction) error) error

	Close() error
}

// RequestRepository stores intake requests
type RequestRepository interface {
	// Create stores a new request. Returns ErrAlreadyExists on ID collision.
	Create(ctx context.Context, req *model.IntakeRequest) error
	Get(ctx context.Context, id model.RequestID) (*model.IntakeRequest, error)
	// List returns requests ordered by creation time
	List(ctx context.Context, opts ...ListRequestOption) ([]*model.IntakeRequest, error)
}

// ReviewTaskRepository provides read access to review tasks
type ReviewTaskRepository interface {
	// ListByRequest returns tasks in creation order
	ListByRequest(ctx context.Context, requestID model.RequestID) ([]*model.ReviewTask, error)
	// ListByTeam returns a team's tasks across requests, oldest first
	ListByTeam(ctx context.Context, team types.TeamID, opts ...ListTaskOption) ([]*model.ReviewTask, error)
}

// RiskScoreRepository provides read access to score breakdowns
type RiskScoreRepository interface {
	Get(ctx context.Context, id model.RiskScoreID) (*model.RiskScore, error)
	// ListByRequest returns breakdowns newest first
	ListByRequest(ctx context.Context, requestID model.RequestID) ([]*model.RiskScore, error)
}

// AuditLogRepository provides read access to the audit trail
type AuditLogRepository interface {
	// ListByRequest returns entries oldest first
	ListByRequest(ctx context.Context, requestID model.RequestID) ([]*model.AuditLog, error)
}

// ReviewCommentRepository provides read access to review discussion threads
type ReviewCommentRepository interface {
	// ListByRequest returns the comments of every team, oldest first
	ListByRequest(ctx context.Context, requestID model.RequestID) ([]*model.ReviewComment, error)
}

// ChecklistRepository provides read access to compliance checklists
type ChecklistRepository interface {
	// ListByRequest returns checklists in the fixed framework order
	ListByRequest(ctx context.Context, requestID model.RequestID) ([]*model.ComplianceChecklist, error)
}

// RequestTransaction is the view of one request inside RunInTransaction.
// Getters reflect writes already buffered in the same transaction.
type RequestTransaction interface {
	Request() *model.IntakeRequest
	Tasks() []*model.ReviewTask
	Task(team types.TeamID) *model.ReviewTask
	// Checklist returns nil when the request has none for the framework
	Checklist(framework types.Framework) *model.ComplianceChecklist

	PutRequest(req *model.IntakeRequest)
	PutTask(task *model.ReviewTask)
	PutChecklist(checklist *model.ComplianceChecklist)
	AddRiskScore(score *model.RiskScore)
	AddAuditLog(log *model.AuditLog)
	AddReviewComment(comment *model.ReviewComment)
}
