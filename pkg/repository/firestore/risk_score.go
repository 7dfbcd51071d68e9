package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type riskScoreRepository struct {
	f *Firestore
}

func (r *riskScoreRepository) collection() *firestore.CollectionRef {
	return r.f.collection(CollectionRiskScores)
}

func (r *riskScoreRepository) Get(ctx context.Context, id model.RiskScoreID) (*model.RiskScore, error) {
	docSnap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "risk score not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk score", goerr.V("id", id))
	}

	var doc riskScoreDoc
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode risk score", goerr.V("id", id))
	}
	return doc.toModel(), nil
}

func (r *riskScoreRepository) ListByRequest(ctx context.Context, requestID model.RequestID) ([]*model.RiskScore, error) {
	iter := r.collection().
		Where("request_id", "==", string(requestID)).
		OrderBy("version", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	scores := make([]*model.RiskScore, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risk scores", goerr.V("request_id", requestID))
		}

		var doc riskScoreDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode risk score", goerr.V("doc_id", docSnap.Ref.ID))
		}
		scores = append(scores, doc.toModel())
	}
	return scores, nil
}
