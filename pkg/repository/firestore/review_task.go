package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type reviewTaskRepository struct {
	f *Firestore
}

func (r *reviewTaskRepository) collection() *firestore.CollectionRef {
	return r.f.collection(CollectionReviewTasks)
}

func (r *reviewTaskRepository) ListByRequest(ctx context.Context, requestID model.RequestID) ([]*model.ReviewTask, error) {
	iter := r.collection().Where("request_id", "==", string(requestID)).Documents(ctx)
	tasks, err := decodeTasks(iter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list review tasks", goerr.V("request_id", requestID))
	}
	model.SortTasks(tasks)
	return tasks, nil
}

func (r *reviewTaskRepository) ListByTeam(ctx context.Context, team types.TeamID, opts ...interfaces.ListTaskOption) ([]*model.ReviewTask, error) {
	cfg := interfaces.BuildListTaskConfig(opts...)

	q := r.collection().Where("team", "==", string(team))
	if s := cfg.Status(); s != nil {
		q = q.Where("status", "==", string(*s))
	}

	tasks, err := decodeTasks(q.OrderBy("created_at", firestore.Asc).Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list review tasks", goerr.V("team", team))
	}
	return tasks, nil
}

func decodeTasks(iter *firestore.DocumentIterator) ([]*model.ReviewTask, error) {
	defer iter.Stop()

	tasks := make([]*model.ReviewTask, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate review tasks")
		}

		var doc reviewTaskDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode review task", goerr.V("doc_id", docSnap.Ref.ID))
		}
		tasks = append(tasks, doc.toModel())
	}
	return tasks, nil
}
