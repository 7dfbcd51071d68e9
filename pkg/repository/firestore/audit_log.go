package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"google.golang.org/api/iterator"
)

type auditLogRepository struct {
	f *Firestore
}

func (r *auditLogRepository) collection() *firestore.CollectionRef {
	return r.f.collection(CollectionAuditLogs)
}

func (r *auditLogRepository) ListByRequest(ctx context.Context, requestID model.RequestID) ([]*model.AuditLog, error) {
	iter := r.collection().
		Where("request_id", "==", string(requestID)).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	logs := make([]*model.AuditLog, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate audit logs", goerr.V("request_id", requestID))
		}

		var doc auditLogDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode audit log", goerr.V("doc_id", docSnap.Ref.ID))
		}
		logs = append(logs, doc.toModel())
	}
	return logs, nil
}
