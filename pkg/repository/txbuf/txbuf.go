// Package txbuf buffers the writes of one request transaction so that
// repository backends can commit them all at once, or drop them all.
package txbuf

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// ErrForeignRecord is returned by Validate when a buffered record belongs
// to another request than the one the transaction was opened for.
var ErrForeignRecord = goerr.New("record does not belong to the transaction's request")

// Buffer implements interfaces.RequestTransaction over a snapshot
type Buffer struct {
	requestID  model.RequestID
	request    *model.IntakeRequest
	tasks      []*model.ReviewTask
	checklists map[types.Framework]*model.ComplianceChecklist

	requestDirty    bool
	dirtyTasks      map[types.TeamID]bool
	dirtyChecklists map[types.Framework]bool
	scores          []*model.RiskScore
	logs            []*model.AuditLog
	comments        []*model.ReviewComment
}

var _ interfaces.RequestTransaction = &Buffer{}

// New creates a buffer over a snapshot. The buffer takes ownership of req,
// tasks and checklists, so callers pass copies.
func New(req *model.IntakeRequest, tasks []*model.ReviewTask, checklists []*model.ComplianceChecklist) *Buffer {
	model.SortTasks(tasks)
	b := &Buffer{
		requestID:       req.ID,
		request:         req,
		tasks:           tasks,
		checklists:      make(map[types.Framework]*model.ComplianceChecklist, len(checklists)),
		dirtyTasks:      make(map[types.TeamID]bool),
		dirtyChecklists: make(map[types.Framework]bool),
	}
	for _, c := range checklists {
		b.checklists[c.Framework] = c
	}
	return b
}

func (b *Buffer) Request() *model.IntakeRequest {
	return b.request.Clone()
}

func (b *Buffer) Tasks() []*model.ReviewTask {
	out := make([]*model.ReviewTask, len(b.tasks))
	for i, t := range b.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (b *Buffer) Task(team types.TeamID) *model.ReviewTask {
	for _, t := range b.tasks {
		if t.Team == team {
			return t.Clone()
		}
	}
	return nil
}

func (b *Buffer) Checklist(framework types.Framework) *model.ComplianceChecklist {
	return b.checklists[framework].Clone()
}

func (b *Buffer) PutRequest(req *model.IntakeRequest) {
	b.request = req.Clone()
	b.requestDirty = true
}

// PutTask replaces the task of the same team or adds a new one
func (b *Buffer) PutTask(task *model.ReviewTask) {
	c := task.Clone()
	b.dirtyTasks[c.Team] = true
	for i, t := range b.tasks {
		if t.Team == c.Team {
			b.tasks[i] = c
			return
		}
	}
	b.tasks = append(b.tasks, c)
	model.SortTasks(b.tasks)
}

// PutChecklist replaces the checklist of the same framework or adds it
func (b *Buffer) PutChecklist(checklist *model.ComplianceChecklist) {
	c := checklist.Clone()
	b.checklists[c.Framework] = c
	b.dirtyChecklists[c.Framework] = true
}

func (b *Buffer) AddRiskScore(score *model.RiskScore) {
	b.scores = append(b.scores, score.Clone())
}

func (b *Buffer) AddAuditLog(log *model.AuditLog) {
	b.logs = append(b.logs, log.Clone())
}

func (b *Buffer) AddReviewComment(comment *model.ReviewComment) {
	b.comments = append(b.comments, comment.Clone())
}

// Validate checks that every buffered record belongs to the request the
// transaction was opened for.
func (b *Buffer) Validate() error {
	if b.request.ID != b.requestID {
		return goerr.Wrap(ErrForeignRecord, "request ID changed",
			goerr.V("request_id", b.requestID), goerr.V("got", b.request.ID))
	}
	for _, t := range b.tasks {
		if t.RequestID != b.requestID {
			return goerr.Wrap(ErrForeignRecord, "review task of another request",
				goerr.V("request_id", b.requestID), goerr.V("task_id", t.ID))
		}
	}
	for _, s := range b.scores {
		if s.RequestID != b.requestID {
			return goerr.Wrap(ErrForeignRecord, "risk score of another request",
				goerr.V("request_id", b.requestID), goerr.V("score_id", s.ID))
		}
	}
	for _, l := range b.logs {
		if l.RequestID != b.requestID {
			return goerr.Wrap(ErrForeignRecord, "audit log of another request",
				goerr.V("request_id", b.requestID), goerr.V("audit_log_id", l.ID))
		}
	}
	for _, c := range b.comments {
		if c.RequestID != b.requestID {
			return goerr.Wrap(ErrForeignRecord, "review comment of another request",
				goerr.V("request_id", b.requestID), goerr.V("comment_id", c.ID))
		}
	}
	for _, c := range b.checklists {
		if c.RequestID != b.requestID {
			return goerr.Wrap(ErrForeignRecord, "checklist of another request",
				goerr.V("request_id", b.requestID), goerr.V("checklist_id", c.ID))
		}
	}
	return nil
}

// DirtyRequest returns the request to write, or nil when unchanged
func (b *Buffer) DirtyRequest() *model.IntakeRequest {
	if !b.requestDirty {
		return nil
	}
	return b.request.Clone()
}

// DirtyTasks returns tasks written in the transaction
func (b *Buffer) DirtyTasks() []*model.ReviewTask {
	var out []*model.ReviewTask
	for _, t := range b.tasks {
		if b.dirtyTasks[t.Team] {
			out = append(out, t.Clone())
		}
	}
	return out
}

// RiskScores returns breakdowns added in the transaction
func (b *Buffer) RiskScores() []*model.RiskScore {
	out := make([]*model.RiskScore, len(b.scores))
	for i, s := range b.scores {
		out[i] = s.Clone()
	}
	return out
}

// AuditLogs returns audit entries added in the transaction
func (b *Buffer) AuditLogs() []*model.AuditLog {
	out := make([]*model.AuditLog, len(b.logs))
	for i, l := range b.logs {
		out[i] = l.Clone()
	}
	return out
}

// DirtyChecklists returns checklists written in the transaction, in the fixed
// framework order
func (b *Buffer) DirtyChecklists() []*model.ComplianceChecklist {
	var out []*model.ComplianceChecklist
	for _, f := range types.AllFrameworks() {
		if b.dirtyChecklists[f] {
			out = append(out, b.checklists[f].Clone())
		}
	}
	return out
}

// ReviewComments returns comments added in the transaction
func (b *Buffer) ReviewComments() []*model.ReviewComment {
	out := make([]*model.ReviewComment, len(b.comments))
	for i, c := range b.comments {
		out[i] = c.Clone()
	}
	return out
}
