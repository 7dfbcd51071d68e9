package memory

import (
	"context"

	"github.com/secmon-lab/argus/pkg/domain/model"
)

type auditLogRepository struct {
	store *store
}

func (r *auditLogRepository) ListByRequest(ctx context.Context, requestID model.RequestID) ([]*model.AuditLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	logs := make([]*model.AuditLog, 0, len(r.store.logs[requestID]))
	for _, l := range r.store.logs[requestID] {
		logs = append(logs, l.Clone())
	}
	return logs, nil
}
