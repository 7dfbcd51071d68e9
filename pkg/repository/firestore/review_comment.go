package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"google.golang.org/api/iterator"
)

type reviewCommentRepository struct {
	f *Firestore
}

func (r *reviewCommentRepository) collection() *firestore.CollectionRef {
	return r.f.collection(CollectionReviewComments)
}

func (r *reviewCommentRepository) ListByRequest(ctx context.Context, requestID model.RequestID) ([]*model.ReviewComment, error) {
	iter := r.collection().
		Where("request_id", "==", string(requestID)).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	comments := make([]*model.ReviewComment, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate review comments", goerr.V("request_id", requestID))
		}

		var doc reviewCommentDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode review comment", goerr.V("doc_id", docSnap.Ref.ID))
		}
		comments = append(comments, doc.toModel())
	}
	return comments, nil
}
