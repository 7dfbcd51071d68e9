package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
)

// Collection names
const (
	CollectionRequests       = "intake_requests"
	CollectionReviewTasks    = "review_tasks"
	CollectionRiskScores     = "risk_scores"
	CollectionAuditLogs      = "audit_logs"
	CollectionReviewComments = "review_comments"
	CollectionChecklists     = "compliance_checklists"
)

// CollectionName returns the physical name of a collection under prefix
func CollectionName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}

type Firestore struct {
	client           *firestore.Client
	collectionPrefix string

	request    *requestRepository
	reviewTask *reviewTaskRepository
	riskScore  *riskScoreRepository
	auditLog   *auditLogRepository
	comment    *reviewCommentRepository
	checklist  *checklistRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix isolates collections, mainly for tests sharing a project
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{client: client}
	for _, opt := range opts {
		opt(f)
	}

	f.request = &requestRepository{f: f}
	f.reviewTask = &reviewTaskRepository{f: f}
	f.riskScore = &riskScoreRepository{f: f}
	f.auditLog = &auditLogRepository{f: f}
	f.comment = &reviewCommentRepository{f: f}
	f.checklist = &checklistRepository{f: f}

	return f, nil
}

func (f *Firestore) collection(name string) *firestore.CollectionRef {
	return f.client.Collection(CollectionName(f.collectionPrefix, name))
}

func (f *Firestore) Request() interfaces.RequestRepository {
	return f.request
}

func (f *Firestore) ReviewTask() interfaces.ReviewTaskRepository {
	return f.reviewTask
}

func (f *Firestore) RiskScore() interfaces.RiskScoreRepository {
	return f.riskScore
}

func (f *Firestore) AuditLog() interfaces.AuditLogRepository {
	return f.auditLog
}

func (f *Firestore) ReviewComment() interfaces.ReviewCommentRepository {
	return f.comment
}

func (f *Firestore) Checklist() interfaces.ChecklistRepository {
	return f.checklist
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
