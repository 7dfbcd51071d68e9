package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// Ledger owns the per-team review tasks of a request. Its write operations run
// inside a request transaction opened by the caller.
type Ledger struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewLedger(repo interfaces.Repository, now func() time.Time) *Ledger {
	return &Ledger{
		repo: repo,
		now:  now,
	}
}

// EnsureTask returns the team's task, creating a pending one when the team has
// none yet. The second return value reports whether a task was created.
func (l *Ledger) EnsureTask(tx interfaces.RequestTransaction, team types.TeamID) (*model.ReviewTask, bool, error) {
	if !team.IsValid() {
		return nil, false, goerr.Wrap(ErrInvalidTeam, "unknown team", goerr.V(TeamKey, team))
	}

	if task := tx.Task(team); task != nil {
		return task, false, nil
	}

	req := tx.Request()
	now := l.now()
	task := &model.ReviewTask{
		ID:        model.NewReviewTaskID(req.ID, team),
		RequestID: req.ID,
		Team:      team,
		Status:    types.TaskStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	tx.PutTask(task)
	return task, true, nil
}

// ApplyVerdict records verdict on the team's task. A decided task accepts the
// same verdict again as a no-op, reported by changed=false; a different
// verdict fails with ErrTaskConflict. needs-info may be superseded freely.
func (l *Ledger) ApplyVerdict(tx interfaces.RequestTransaction, team types.TeamID, verdict types.TaskStatus, reviewerID, comments string) (task *model.ReviewTask, changed bool, err error) {
	if !verdict.IsVerdict() {
		return nil, false, goerr.Wrap(ErrInvalidVerdict, "verdict must be approved, rejected or needs-info", goerr.V(VerdictKey, verdict))
	}

	task, _, err = l.EnsureTask(tx, team)
	if err != nil {
		return nil, false, err
	}

	if task.Status.IsTerminal() {
		if task.Status == verdict {
			return task, false, nil
		}
		return nil, false, goerr.Wrap(ErrTaskConflict, "task is already decided",
			goerr.V(RequestIDKey, task.RequestID),
			goerr.V(TeamKey, team),
			goerr.V("current", task.Status),
			goerr.V(VerdictKey, verdict))
	}

	task.Status = verdict
	task.ReviewerID = reviewerID
	task.Comments = comments
	task.UpdatedAt = l.now()
	tx.PutTask(task)
	return task, true, nil
}

// AddComment appends a comment to the team's review thread, opening the
// team's task first when needed. Text and commenterID are required.
func (l *Ledger) AddComment(tx interfaces.RequestTransaction, team types.TeamID, commenterID, section, text string) (*model.ReviewComment, error) {
	if strings.TrimSpace(commenterID) == "" {
		return nil, goerr.Wrap(ErrInvalidComment, "commenter_id is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(ErrInvalidComment, "comment text is required")
	}

	task, _, err := l.EnsureTask(tx, team)
	if err != nil {
		return nil, err
	}
	return l.appendComment(tx, task, strings.TrimSpace(commenterID), strings.TrimSpace(section), text), nil
}

func (l *Ledger) appendComment(tx interfaces.RequestTransaction, task *model.ReviewTask, commenterID, section, text string) *model.ReviewComment {
	comment := &model.ReviewComment{
		ID:          model.NewReviewCommentID(),
		RequestID:   task.RequestID,
		TaskID:      task.ID,
		Team:        task.Team,
		CommenterID: commenterID,
		Section:     section,
		Text:        text,
		CreatedAt:   l.now(),
	}
	tx.AddReviewComment(comment)
	return comment
}

// ListComments returns the request's review comments oldest first. A
// non-empty team keeps only that team's thread.
func (l *Ledger) ListComments(ctx context.Context, requestID model.RequestID, team string) ([]*model.ReviewComment, error) {
	var teamID types.TeamID
	if team != "" {
		t, err := types.ParseTeam(team)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidTeam, err.Error(), goerr.V(TeamKey, team))
		}
		teamID = t
	}

	if _, err := l.repo.Request().Get(ctx, requestID); err != nil {
		return nil, wrapStoreError(err, requestID, "failed to get request")
	}

	comments, err := l.repo.ReviewComment().ListByRequest(ctx, requestID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list review comments", goerr.V(RequestIDKey, requestID))
	}
	if teamID == "" {
		return comments, nil
	}

	thread := make([]*model.ReviewComment, 0, len(comments))
	for _, c := range comments {
		if c.Team == teamID {
			thread = append(thread, c)
		}
	}
	return thread, nil
}

// ListTasks returns the request's tasks in creation order
func (l *Ledger) ListTasks(ctx context.Context, requestID model.RequestID) ([]*model.ReviewTask, error) {
	if _, err := l.repo.Request().Get(ctx, requestID); err != nil {
		return nil, wrapStoreError(err, requestID, "failed to get request")
	}

	tasks, err := l.repo.ReviewTask().ListByRequest(ctx, requestID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list review tasks", goerr.V(RequestIDKey, requestID))
	}
	return tasks, nil
}

// ListTeamQueue returns a team's tasks across all requests, oldest first. An
// empty status returns tasks in every status.
func (l *Ledger) ListTeamQueue(ctx context.Context, team, status string) ([]*model.ReviewTask, error) {
	teamID, err := types.ParseTeam(team)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidTeam, err.Error(), goerr.V(TeamKey, team))
	}

	var opts []interfaces.ListTaskOption
	if status != "" {
		s, err := types.ParseTaskStatus(status)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidStatus, err.Error(), goerr.V(StatusKey, status))
		}
		opts = append(opts, interfaces.WithTaskStatus(s))
	}

	tasks, err := l.repo.ReviewTask().ListByTeam(ctx, teamID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list team queue", goerr.V(TeamKey, teamID))
	}
	return tasks, nil
}

// AggregateStatus derives the request status from its review tasks. Rejection
// wins over everything, an open needs-info keeps the request under review,
// and approval needs every team. With no decision yet the current status is
// kept.
func AggregateStatus(current types.RequestStatus, tasks []*model.ReviewTask) types.RequestStatus {
	byTeam := make(map[types.TeamID]types.TaskStatus, len(tasks))
	decided := false
	for _, t := range tasks {
		byTeam[t.Team] = t.Status
		if t.Status == types.TaskStatusRejected {
			return types.RequestStatusDenied
		}
		if t.Status != types.TaskStatusPending {
			decided = true
		}
	}

	if !decided {
		return current
	}

	for _, s := range byTeam {
		if s == types.TaskStatusNeedsInfo {
			return types.RequestStatusReviewing
		}
	}

	for _, team := range types.AllTeams() {
		if byTeam[team] != types.TaskStatusApproved {
			return types.RequestStatusReviewing
		}
	}
	return types.RequestStatusApproved
}

// wrapStoreError maps the store's not-found to ErrRequestNotFound
func wrapStoreError(err error, requestID model.RequestID, msg string) error {
	if errors.Is(err, interfaces.ErrNotFound) {
		return goerr.Wrap(ErrRequestNotFound, msg, goerr.V(RequestIDKey, requestID))
	}
	return goerr.Wrap(err, msg, goerr.V(RequestIDKey, requestID))
}
