package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/repository/txbuf"
)

// RunInTransaction holds the request's lock for the whole of fn, then applies
// the buffered writes under the store lock so readers observe all of them or
// none.
func (m *Memory) RunInTransaction(ctx context.Context, requestID model.RequestID, fn func(ctx context.Context, tx interfaces.RequestTransaction) error) error {
	lock, ok := m.store.lockFor(requestID)
	if !ok {
		return goerr.Wrap(interfaces.ErrNotFound, "request not found", goerr.V("id", requestID))
	}
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return goerr.Wrap(err, "transaction canceled", goerr.V("request_id", requestID))
	}

	buf, err := m.store.snapshot(requestID)
	if err != nil {
		return err
	}

	if err := fn(ctx, buf); err != nil {
		return err
	}

	if err := buf.Validate(); err != nil {
		return goerr.Wrap(err, "invalid transaction writes", goerr.V("request_id", requestID))
	}

	m.store.apply(buf)
	return nil
}

func (s *store) snapshot(id model.RequestID) (*txbuf.Buffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, exists := s.requests[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "request not found", goerr.V("id", id))
	}

	tasks := make([]*model.ReviewTask, 0, len(s.tasks[id]))
	for _, t := range s.tasks[id] {
		tasks = append(tasks, t.Clone())
	}
	checklists := make([]*model.ComplianceChecklist, 0, len(s.checklists[id]))
	for _, c := range s.checklists[id] {
		checklists = append(checklists, c.Clone())
	}
	return txbuf.New(req.Clone(), tasks, checklists), nil
}

func (s *store) apply(buf *txbuf.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req := buf.DirtyRequest(); req != nil {
		s.requests[req.ID] = req
	}

	for _, task := range buf.DirtyTasks() {
		replaced := false
		for i, t := range s.tasks[task.RequestID] {
			if t.Team == task.Team {
				s.tasks[task.RequestID][i] = task
				replaced = true
				break
			}
		}
		if !replaced {
			s.tasks[task.RequestID] = append(s.tasks[task.RequestID], task)
			model.SortTasks(s.tasks[task.RequestID])
		}
	}

	for _, score := range buf.RiskScores() {
		s.scores[score.RequestID] = append(s.scores[score.RequestID], score)
	}
	for _, log := range buf.AuditLogs() {
		s.logs[log.RequestID] = append(s.logs[log.RequestID], log)
	}
	for _, c := range buf.ReviewComments() {
		s.comments[c.RequestID] = append(s.comments[c.RequestID], c)
	}
	for _, c := range buf.DirtyChecklists() {
		if s.checklists[c.RequestID] == nil {
			s.checklists[c.RequestID] = make(map[types.Framework]*model.ComplianceChecklist)
		}
		s.checklists[c.RequestID][c.Framework] = c
	}
}
