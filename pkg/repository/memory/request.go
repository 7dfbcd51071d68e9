package memory

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
)

type requestRepository struct {
	store *store
}

func (r *requestRepository) Create(ctx context.Context, req *model.IntakeRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.requests[req.ID]; exists {
		return goerr.Wrap(interfaces.ErrAlreadyExists, "request already exists", goerr.V("id", req.ID))
	}

	created := req.Clone()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	if created.UpdatedAt.IsZero() {
		created.UpdatedAt = created.CreatedAt
	}

	r.store.requests[created.ID] = created
	r.store.order = append(r.store.order, created.ID)
	return nil
}

func (r *requestRepository) Get(ctx context.Context, id model.RequestID) (*model.IntakeRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	req, exists := r.store.requests[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "request not found", goerr.V("id", id))
	}
	return req.Clone(), nil
}

func (r *requestRepository) List(ctx context.Context, opts ...interfaces.ListRequestOption) ([]*model.IntakeRequest, error) {
	cfg := interfaces.BuildListRequestConfig(opts...)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	requests := make([]*model.IntakeRequest, 0, len(r.store.order))
	for _, id := range r.store.order {
		req := r.store.requests[id]
		if status := cfg.Status(); status != nil && req.Status != *status {
			continue
		}
		requests = append(requests, req.Clone())
	}
	return requests, nil
}
