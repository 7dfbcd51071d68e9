package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
)

type riskScoreRepository struct {
	store *store
}

func (r *riskScoreRepository) Get(ctx context.Context, id model.RiskScoreID) (*model.RiskScore, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, scores := range r.store.scores {
		for _, s := range scores {
			if s.ID == id {
				return s.Clone(), nil
			}
		}
	}
	return nil, goerr.Wrap(interfaces.ErrNotFound, "risk score not found", goerr.V("id", id))
}

func (r *riskScoreRepository) ListByRequest(ctx context.Context, requestID model.RequestID) ([]*model.RiskScore, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stored := r.store.scores[requestID]
	scores := make([]*model.RiskScore, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		scores = append(scores, stored[i].Clone())
	}
	return scores, nil
}
