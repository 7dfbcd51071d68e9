package memory

import (
	"context"
	"slices"

	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

type reviewTaskRepository struct {
	store *store
}

func (r *reviewTaskRepository) ListByRequest(ctx context.Context, requestID model.RequestID) ([]*model.ReviewTask, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tasks := make([]*model.ReviewTask, 0, len(r.store.tasks[requestID]))
	for _, t := range r.store.tasks[requestID] {
		tasks = append(tasks, t.Clone())
	}
	return tasks, nil
}

func (r *reviewTaskRepository) ListByTeam(ctx context.Context, team types.TeamID, opts ...interfaces.ListTaskOption) ([]*model.ReviewTask, error) {
	cfg := interfaces.BuildListTaskConfig(opts...)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var tasks []*model.ReviewTask
	for _, id := range r.store.order {
		for _, t := range r.store.tasks[id] {
			if t.Team != team {
				continue
			}
			if status := cfg.Status(); status != nil && t.Status != *status {
				continue
			}
			tasks = append(tasks, t.Clone())
		}
	}

	slices.SortStableFunc(tasks, func(a, b *model.ReviewTask) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	if tasks == nil {
		tasks = []*model.ReviewTask{}
	}
	return tasks, nil
}
