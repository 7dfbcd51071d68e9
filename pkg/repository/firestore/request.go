package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type requestRepository struct {
	f *Firestore
}

func (r *requestRepository) collection() *firestore.CollectionRef {
	return r.f.collection(CollectionRequests)
}

func (r *requestRepository) Create(ctx context.Context, req *model.IntakeRequest) error {
	created := req.Clone()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	if created.UpdatedAt.IsZero() {
		created.UpdatedAt = created.CreatedAt
	}

	_, err := r.collection().Doc(string(created.ID)).Create(ctx, toRequestDoc(created))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.Wrap(interfaces.ErrAlreadyExists, "request already exists", goerr.V("id", req.ID))
		}
		return goerr.Wrap(err, "failed to create request", goerr.V("id", req.ID))
	}
	return nil
}

func (r *requestRepository) Get(ctx context.Context, id model.RequestID) (*model.IntakeRequest, error) {
	docSnap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "request not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get request", goerr.V("id", id))
	}

	var doc requestDoc
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode request", goerr.V("id", id))
	}
	return doc.toModel(), nil
}

func (r *requestRepository) List(ctx context.Context, opts ...interfaces.ListRequestOption) ([]*model.IntakeRequest, error) {
	cfg := interfaces.BuildListRequestConfig(opts...)

	q := r.collection().Query
	if s := cfg.Status(); s != nil {
		q = q.Where("status", "==", string(*s))
	}
	iter := q.OrderBy("created_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	requests := make([]*model.IntakeRequest, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate requests")
		}

		var doc requestDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode request", goerr.V("doc_id", docSnap.Ref.ID))
		}
		requests = append(requests, doc.toModel())
	}

	return requests, nil
}
