package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/repository/memory"
	"github.com/secmon-lab/argus/pkg/usecase"
)

func TestLedger_EnsureTaskIsIdempotent(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	draft, err := uc.Workflow.SaveDraft(ctx, usecase.IntakeInput{Title: "x", RequestorID: "U001"})
	gt.NoError(t, err).Required()

	for range 3 {
		err := repo.RunInTransaction(ctx, draft.ID, func(ctx context.Context, tx interfaces.RequestTransaction) error {
			_, _, err := uc.Ledger.EnsureTask(tx, types.TeamArchitecture)
			return err
		})
		gt.NoError(t, err).Required()
	}

	var created bool
	err = repo.RunInTransaction(ctx, draft.ID, func(ctx context.Context, tx interfaces.RequestTransaction) error {
		task, isNew, err := uc.Ledger.EnsureTask(tx, types.TeamArchitecture)
		created = isNew
		gt.Value(t, task.ID).Equal(model.NewReviewTaskID(draft.ID, types.TeamArchitecture))
		return err
	})
	gt.NoError(t, err).Required()
	gt.B(t, created).False()

	tasks, err := uc.Ledger.ListTasks(ctx, draft.ID)
	gt.NoError(t, err).Required()
	gt.A(t, tasks).Length(1)

	t.Run("unknown team is rejected", func(t *testing.T) {
		err := repo.RunInTransaction(ctx, draft.ID, func(ctx context.Context, tx interfaces.RequestTransaction) error {
			_, _, err := uc.Ledger.EnsureTask(tx, types.TeamID("finance"))
			return err
		})
		gt.Error(t, err).Is(usecase.ErrInvalidTeam)
	})
}

func TestLedger_ApplyVerdictRejectsPending(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()
	req := submitRequest(t, uc)

	err := repo.RunInTransaction(ctx, req.ID, func(ctx context.Context, tx interfaces.RequestTransaction) error {
		_, _, err := uc.Ledger.ApplyVerdict(tx, types.TeamLegal, types.TaskStatusPending, "r", "")
		return err
	})
	gt.Error(t, err).Is(usecase.ErrInvalidVerdict)
}

func TestLedger_ListTeamQueue(t *testing.T) {
	uc := newUseCases(t)
	ctx := context.Background()

	first := submitRequest(t, uc)
	second := submitRequest(t, uc)
	_, err := verdict(t, uc, first.ID, types.TeamLegal, types.TaskStatusApproved)
	gt.NoError(t, err).Required()

	all, err := uc.Ledger.ListTeamQueue(ctx, "legal", "")
	gt.NoError(t, err).Required()
	gt.A(t, all).Length(2)

	pending, err := uc.Ledger.ListTeamQueue(ctx, "Legal", "pending")
	gt.NoError(t, err).Required()
	gt.A(t, pending).Length(1)
	gt.Value(t, pending[0].RequestID).Equal(second.ID)

	_, err = uc.Ledger.ListTeamQueue(ctx, "marketing", "")
	gt.Error(t, err).Is(usecase.ErrInvalidTeam)

	_, err = uc.Ledger.ListTeamQueue(ctx, "legal", "archived")
	gt.Error(t, err).Is(usecase.ErrInvalidStatus)
}

func TestLedger_ListTasksUnknownRequest(t *testing.T) {
	uc := newUseCases(t)
	_, err := uc.Ledger.ListTasks(context.Background(), model.NewRequestID())
	gt.Error(t, err).Is(usecase.ErrRequestNotFound)
}
