package memory

import (
	"context"

	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

type checklistRepository struct {
	store *store
}

func (r *checklistRepository) ListByRequest(ctx context.Context, requestID model.RequestID) ([]*model.ComplianceChecklist, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	checklists := make([]*model.ComplianceChecklist, 0, len(r.store.checklists[requestID]))
	for _, f := range types.AllFrameworks() {
		if c, ok := r.store.checklists[requestID][f]; ok {
			checklists = append(checklists, c.Clone())
		}
	}
	return checklists, nil
}
