package firestore

import (
	"context"
	"slices"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type checklistRepository struct {
	f *Firestore
}

func (r *checklistRepository) ListByRequest(ctx context.Context, requestID model.RequestID) ([]*model.ComplianceChecklist, error) {
	iter := r.f.collection(CollectionChecklists).Where("request_id", "==", string(requestID)).Documents(ctx)
	checklists, err := decodeChecklists(iter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list checklists", goerr.V("request_id", requestID))
	}
	return checklists, nil
}

// decodeChecklists reads every checklist and orders them by the fixed
// framework order
func decodeChecklists(iter *firestore.DocumentIterator) ([]*model.ComplianceChecklist, error) {
	defer iter.Stop()

	checklists := make([]*model.ComplianceChecklist, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate checklists")
		}

		var doc checklistDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode checklist", goerr.V("doc_id", docSnap.Ref.ID))
		}
		checklists = append(checklists, doc.toModel())
	}

	order := types.AllFrameworks()
	slices.SortFunc(checklists, func(a, b *model.ComplianceChecklist) int {
		return slices.Index(order, a.Framework) - slices.Index(order, b.Framework)
	})
	return checklists, nil
}
