package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/repository/txbuf"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// maxTransactionAttempts bounds retries when concurrent writers touch the
// same request document
const maxTransactionAttempts = 10

// RunInTransaction reads the request with its tasks and checklists inside a Firestore
// transaction, runs fn over them and writes the buffered changes before
// commit. Firestore aborts and retries the whole function when another
// transaction modified the documents read here.
func (f *Firestore) RunInTransaction(ctx context.Context, requestID model.RequestID, fn func(ctx context.Context, tx interfaces.RequestTransaction) error) error {
	reqRef := f.collection(CollectionRequests).Doc(string(requestID))

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// All reads must precede writes in a Firestore transaction
		reqSnap, err := tx.Get(reqRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrNotFound, "request not found", goerr.V("id", requestID))
			}
			return goerr.Wrap(err, "failed to get request", goerr.V("id", requestID))
		}
		var reqDoc requestDoc
		if err := reqSnap.DataTo(&reqDoc); err != nil {
			return goerr.Wrap(err, "failed to decode request", goerr.V("id", requestID))
		}

		taskQuery := f.collection(CollectionReviewTasks).Where("request_id", "==", string(requestID))
		tasks, err := decodeTasks(tx.Documents(taskQuery))
		if err != nil {
			return goerr.Wrap(err, "failed to read review tasks", goerr.V("id", requestID))
		}

		checklistQuery := f.collection(CollectionChecklists).Where("request_id", "==", string(requestID))
		checklists, err := decodeChecklists(tx.Documents(checklistQuery))
		if err != nil {
			return goerr.Wrap(err, "failed to read checklists", goerr.V("id", requestID))
		}

		buf := txbuf.New(reqDoc.toModel(), tasks, checklists)
		if err := fn(ctx, buf); err != nil {
			return err
		}
		if err := buf.Validate(); err != nil {
			return goerr.Wrap(err, "invalid transaction writes", goerr.V("id", requestID))
		}

		return f.writeBuffer(tx, buf)
	}, firestore.MaxAttempts(maxTransactionAttempts))

	if err != nil {
		if status.Code(err) == codes.Aborted {
			return goerr.Wrap(interfaces.ErrConflict, "transaction aborted by concurrent writes",
				goerr.V("request_id", requestID), goerr.V("cause", err.Error()))
		}
		return err
	}
	return nil
}

func (f *Firestore) writeBuffer(tx *firestore.Transaction, buf *txbuf.Buffer) error {
	if req := buf.DirtyRequest(); req != nil {
		ref := f.collection(CollectionRequests).Doc(string(req.ID))
		if err := tx.Set(ref, toRequestDoc(req)); err != nil {
			return goerr.Wrap(err, "failed to write request", goerr.V("id", req.ID))
		}
	}

	for _, task := range buf.DirtyTasks() {
		ref := f.collection(CollectionReviewTasks).Doc(string(task.ID))
		if err := tx.Set(ref, toReviewTaskDoc(task)); err != nil {
			return goerr.Wrap(err, "failed to write review task", goerr.V("id", task.ID))
		}
	}

	for _, score := range buf.RiskScores() {
		ref := f.collection(CollectionRiskScores).Doc(string(score.ID))
		if err := tx.Create(ref, toRiskScoreDoc(score)); err != nil {
			return goerr.Wrap(err, "failed to write risk score", goerr.V("id", score.ID))
		}
	}

	for _, log := range buf.AuditLogs() {
		ref := f.collection(CollectionAuditLogs).Doc(string(log.ID))
		if err := tx.Create(ref, toAuditLogDoc(log)); err != nil {
			return goerr.Wrap(err, "failed to write audit log", goerr.V("id", log.ID))
		}
	}

	for _, c := range buf.DirtyChecklists() {
		ref := f.collection(CollectionChecklists).Doc(string(c.ID))
		if err := tx.Set(ref, toChecklistDoc(c)); err != nil {
			return goerr.Wrap(err, "failed to write checklist", goerr.V("id", c.ID))
		}
	}

	for _, c := range buf.ReviewComments() {
		ref := f.collection(CollectionReviewComments).Doc(string(c.ID))
		if err := tx.Create(ref, toReviewCommentDoc(c)); err != nil {
			return goerr.Wrap(err, "failed to write review comment", goerr.V("id", c.ID))
		}
	}

	return nil
}
