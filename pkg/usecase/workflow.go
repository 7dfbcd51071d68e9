package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/utils/logging"
	"github.com/secmon-lab/argus/pkg/utils/metrics"
)

// IntakeInput is a raw intake submission. Details holds the risk attributes
// as decoded from the payload, before normalization.
type IntakeInput struct {
	Title       string
	Description string
	RequestorID string
	Details     map[string]any
}

// VerdictInput is one team's decision on a request
type VerdictInput struct {
	RequestID  model.RequestID
	Team       string
	Verdict    string
	ReviewerID string
	Comments   string
}

// VerdictResult is the state of a request after a verdict was applied
type VerdictResult struct {
	Request *model.IntakeRequest
	Task    *model.ReviewTask
	// Repeated is true when the verdict matched an earlier decision and
	// nothing changed
	Repeated bool
}

// CommentInput is one entry for a team's review thread
type CommentInput struct {
	RequestID   model.RequestID
	Team        string
	CommenterID string
	Section     string
	Text        string
}

// WorkflowUseCase drives a request from draft to its final decision
type WorkflowUseCase struct {
	repo    interfaces.Repository
	ledger  *Ledger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewWorkflowUseCase(repo interfaces.Repository, ledger *Ledger, m *metrics.Metrics, now func() time.Time) *WorkflowUseCase {
	return &WorkflowUseCase{
		repo:    repo,
		ledger:  ledger,
		metrics: m,
		now:     now,
	}
}

// Submit stores a complete intake and opens it for review by every team
func (uc *WorkflowUseCase) Submit(ctx context.Context, in IntakeInput) (*model.IntakeRequest, error) {
	defer uc.observe("submit", time.Now())

	if strings.TrimSpace(in.Title) == "" {
		return nil, goerr.Wrap(ErrInvalidRequest, "title is required")
	}

	req, err := uc.createDraft(ctx, in)
	if err != nil {
		return nil, err
	}

	submitted, err := uc.submit(ctx, req.ID, in.RequestorID)
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("intake request submitted",
		"request_id", submitted.ID,
		"requestor_id", submitted.RequestorID,
	)
	return submitted, nil
}

// SaveDraft stores an intake without opening it for review
func (uc *WorkflowUseCase) SaveDraft(ctx context.Context, in IntakeInput) (*model.IntakeRequest, error) {
	defer uc.observe("save_draft", time.Now())

	req, err := uc.createDraft(ctx, in)
	if err != nil {
		return nil, err
	}

	err = uc.repo.RunInTransaction(ctx, req.ID, func(ctx context.Context, tx interfaces.RequestTransaction) error {
		tx.AddAuditLog(newAuditLog(req.ID, types.AuditActionDraftSaved, in.RequestorID, nil, uc.now()))
		return nil
	})
	if err != nil {
		return nil, wrapStoreError(err, req.ID, "failed to record draft")
	}
	return req, nil
}

// SubmitDraft opens a stored draft for review
func (uc *WorkflowUseCase) SubmitDraft(ctx context.Context, id model.RequestID, actorID string) (*model.IntakeRequest, error) {
	defer uc.observe("submit_draft", time.Now())
	return uc.submit(ctx, id, actorID)
}

func (uc *WorkflowUseCase) createDraft(ctx context.Context, in IntakeInput) (*model.IntakeRequest, error) {
	if strings.TrimSpace(in.RequestorID) == "" {
		return nil, goerr.Wrap(ErrInvalidRequest, "requestor_id is required")
	}

	attrs, err := model.Normalize(in.Details)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid intake details")
	}

	now := uc.now()
	req := &model.IntakeRequest{
		ID:          model.NewRequestID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		RequestorID: strings.TrimSpace(in.RequestorID),
		Details:     *attrs,
		Status:      types.RequestStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Request().Create(ctx, req); err != nil {
		return nil, goerr.Wrap(err, "failed to create intake request", goerr.V(RequestIDKey, req.ID))
	}
	return req, nil
}

func (uc *WorkflowUseCase) submit(ctx context.Context, id model.RequestID, actorID string) (*model.IntakeRequest, error) {
	var submitted *model.IntakeRequest

	err := uc.repo.RunInTransaction(ctx, id, func(ctx context.Context, tx interfaces.RequestTransaction) error {
		req := tx.Request()
		if req.Status != types.RequestStatusDraft {
			return goerr.Wrap(ErrInvalidTransition, "only drafts can be submitted",
				goerr.V(RequestIDKey, id),
				goerr.V(StatusKey, req.Status))
		}
		if req.Title == "" {
			return goerr.Wrap(ErrInvalidRequest, "title is required before submission", goerr.V(RequestIDKey, id))
		}

		created := 0
		for _, team := range types.AllTeams() {
			_, isNew, err := uc.ledger.EnsureTask(tx, team)
			if err != nil {
				return err
			}
			if isNew {
				created++
			}
		}

		now := uc.now()
		req.Status = types.RequestStatusSubmitted
		req.UpdatedAt = now
		tx.PutRequest(req)
		tx.AddAuditLog(newAuditLog(id, types.AuditActionSubmitted, actorID, map[string]string{
			"tasks_created": strconv.Itoa(created),
		}, now))

		submitted = req
		return nil
	})
	if err != nil {
		return nil, wrapStoreError(err, id, "failed to submit intake request")
	}

	uc.metrics.IncrementSubmitted()
	uc.metrics.IncrementTransition(types.RequestStatusDraft.String(), types.RequestStatusSubmitted.String())
	return submitted, nil
}

// ApplyVerdict records a team's verdict and recomputes the request status in
// the same transaction.
func (uc *WorkflowUseCase) ApplyVerdict(ctx context.Context, in VerdictInput) (*VerdictResult, error) {
	defer uc.observe("apply_verdict", time.Now())

	team, err := types.ParseTeam(in.Team)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidTeam, err.Error(), goerr.V(TeamKey, in.Team))
	}
	verdict, err := types.ParseVerdict(in.Verdict)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidVerdict, err.Error(), goerr.V(VerdictKey, in.Verdict))
	}

	var (
		result *VerdictResult
		from   types.RequestStatus
	)

	err = uc.repo.RunInTransaction(ctx, in.RequestID, func(ctx context.Context, tx interfaces.RequestTransaction) error {
		req := tx.Request()
		from = req.Status

		switch {
		case req.Status == types.RequestStatusDraft:
			return goerr.Wrap(ErrInvalidTransition, "draft requests cannot be reviewed",
				goerr.V(RequestIDKey, req.ID))

		case req.Status.IsTerminal():
			// A retry of the verdict that closed the request is still accepted
			if task := tx.Task(team); task != nil && task.Status == verdict {
				tx.AddAuditLog(verdictAuditLog(req, task, types.AuditActionVerdictRepeated, in.ReviewerID, uc.now()))
				result = &VerdictResult{Request: req, Task: task, Repeated: true}
				return nil
			}
			return goerr.Wrap(ErrRequestClosed, "request is already decided",
				goerr.V(RequestIDKey, req.ID),
				goerr.V(StatusKey, req.Status),
				goerr.V(TeamKey, team))
		}

		task, changed, err := uc.ledger.ApplyVerdict(tx, team, verdict, in.ReviewerID, in.Comments)
		if err != nil {
			return err
		}
		// The task keeps only the latest verdict's comments; the thread keeps
		// every one of them.
		if changed && strings.TrimSpace(in.Comments) != "" {
			uc.ledger.appendComment(tx, task, in.ReviewerID, verdictSection(verdict), in.Comments)
		}

		now := uc.now()
		next := AggregateStatus(req.Status, tx.Tasks())
		if changed || next != req.Status {
			req.Status = next
			req.UpdatedAt = now
			tx.PutRequest(req)
		}

		action := types.AuditActionVerdictApplied
		if !changed {
			action = types.AuditActionVerdictRepeated
		}
		tx.AddAuditLog(verdictAuditLog(req, task, action, in.ReviewerID, now))

		result = &VerdictResult{Request: req, Task: task, Repeated: !changed}
		return nil
	})
	if err != nil {
		return nil, wrapStoreError(err, in.RequestID, "failed to apply verdict")
	}

	outcome := "applied"
	if result.Repeated {
		outcome = "repeated"
	}
	uc.metrics.IncrementVerdict(team.String(), verdict.String(), outcome)
	if from != result.Request.Status {
		uc.metrics.IncrementTransition(from.String(), result.Request.Status.String())
	}

	logging.From(ctx).Info("verdict applied",
		"request_id", in.RequestID,
		"team", team,
		"verdict", verdict,
		"status", result.Request.Status,
		"repeated", result.Repeated,
	)
	return result, nil
}

// AddComment appends to a team's review thread. Drafts have no review and
// accept no comments.
func (uc *WorkflowUseCase) AddComment(ctx context.Context, in CommentInput) (*model.ReviewComment, error) {
	defer uc.observe("add_comment", time.Now())

	team, err := types.ParseTeam(in.Team)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidTeam, err.Error(), goerr.V(TeamKey, in.Team))
	}

	var comment *model.ReviewComment
	err = uc.repo.RunInTransaction(ctx, in.RequestID, func(ctx context.Context, tx interfaces.RequestTransaction) error {
		req := tx.Request()
		if req.Status == types.RequestStatusDraft {
			return goerr.Wrap(ErrInvalidTransition, "draft requests cannot be commented on",
				goerr.V(RequestIDKey, req.ID))
		}

		c, err := uc.ledger.AddComment(tx, team, in.CommenterID, in.Section, in.Text)
		if err != nil {
			return err
		}

		metadata := map[string]string{
			"team":       team.String(),
			"comment_id": c.ID.String(),
		}
		if c.Section != "" {
			metadata["section"] = c.Section
		}
		tx.AddAuditLog(newAuditLog(req.ID, types.AuditActionCommentAdded, c.CommenterID, metadata, c.CreatedAt))

		comment = c
		return nil
	})
	if err != nil {
		return nil, wrapStoreError(err, in.RequestID, "failed to add review comment")
	}

	logging.From(ctx).Info("review comment added",
		"request_id", in.RequestID,
		"team", team,
		"comment_id", comment.ID,
	)
	return comment, nil
}

// Get returns one request
func (uc *WorkflowUseCase) Get(ctx context.Context, id model.RequestID) (*model.IntakeRequest, error) {
	req, err := uc.repo.Request().Get(ctx, id)
	if err != nil {
		return nil, wrapStoreError(err, id, "failed to get request")
	}
	return req, nil
}

// List returns requests in creation order. A non-empty status keeps only
// requests in exactly that status.
func (uc *WorkflowUseCase) List(ctx context.Context, status string) ([]*model.IntakeRequest, error) {
	return listRequests(ctx, uc.repo, status)
}

func listRequests(ctx context.Context, repo interfaces.Repository, status string) ([]*model.IntakeRequest, error) {
	var opts []interfaces.ListRequestOption
	if status != "" {
		s, err := types.ParseRequestStatus(status)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidStatus, err.Error(), goerr.V(StatusKey, status))
		}
		opts = append(opts, interfaces.WithRequestStatus(s))
	}

	reqs, err := repo.Request().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list requests")
	}
	return reqs, nil
}

// AuditTrail returns the request's audit log, oldest first
func (uc *WorkflowUseCase) AuditTrail(ctx context.Context, id model.RequestID) ([]*model.AuditLog, error) {
	if _, err := uc.repo.Request().Get(ctx, id); err != nil {
		return nil, wrapStoreError(err, id, "failed to get request")
	}

	logs, err := uc.repo.AuditLog().ListByRequest(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list audit logs", goerr.V(RequestIDKey, id))
	}
	return logs, nil
}

func (uc *WorkflowUseCase) observe(op string, start time.Time) {
	uc.metrics.ObserveOperation(op, time.Since(start))
}

func newAuditLog(id model.RequestID, action types.AuditAction, actorID string, metadata map[string]string, now time.Time) *model.AuditLog {
	return &model.AuditLog{
		ID:        model.NewAuditLogID(),
		RequestID: id,
		Action:    action,
		ActorID:   actorID,
		Metadata:  metadata,
		CreatedAt: now,
	}
}

// verdictSection labels thread entries that came with a verdict
func verdictSection(verdict types.TaskStatus) string {
	return "verdict:" + verdict.String()
}

func verdictAuditLog(req *model.IntakeRequest, task *model.ReviewTask, action types.AuditAction, actorID string, now time.Time) *model.AuditLog {
	return newAuditLog(req.ID, action, actorID, map[string]string{
		"team":           task.Team.String(),
		"verdict":        task.Status.String(),
		"request_status": req.Status.String(),
	}, now)
}
