package memory

import (
	"context"

	"github.com/secmon-lab/argus/pkg/domain/model"
)

type reviewCommentRepository struct {
	store *store
}

func (r *reviewCommentRepository) ListByRequest(ctx context.Context, requestID model.RequestID) ([]*model.ReviewComment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	comments := make([]*model.ReviewComment, 0, len(r.store.comments[requestID]))
	for _, c := range r.store.comments[requestID] {
		comments = append(comments, c.Clone())
	}
	return comments, nil
}
