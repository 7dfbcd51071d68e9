package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

func runTransactionTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("RunInTransaction returns ErrNotFound for unknown request", func(t *testing.T) {
		repo := newRepo(t)
		called := false
		err := repo.RunInTransaction(context.Background(), model.NewRequestID(), func(ctx context.Context, tx interfaces.RequestTransaction) error {
			called = true
			return nil
		})
		gt.Error(t, err).Is(interfaces.ErrNotFound)
		gt.B(t, called).False()
	})

	t.Run("RunInTransaction commits every buffered write", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		req := newRequest("commit")
		gt.NoError(t, repo.Request().Create(ctx, req)).Required()

		now := time.Now().UTC().Truncate(time.Millisecond)
		score := &model.RiskScore{
			ID:            model.NewRiskScoreID(),
			RequestID:     req.ID,
			Version:       1,
			PolicyVersion: "test",
			Scores:        model.FrameworkScores{NIST: 10, SOC2: 20, SOX: 30, OWASP: 40, MAESTRO: 50},
			Total:         30,
			Tier:          types.RiskTierMedium,
			CreatedAt:     now,
		}

		err := repo.RunInTransaction(ctx, req.ID, func(ctx context.Context, tx interfaces.RequestTransaction) error {
			r := tx.Request()
			r.Status = types.RequestStatusSubmitted
			r.ScoreVersion = 1
			total := score.Total
			r.RiskScore = &total
			r.LatestScoreID = score.ID
			tx.PutRequest(r)

			for _, team := range types.AllTeams() {
				tx.PutTask(newPendingTask(req.ID, team, now))
			}
			tx.AddRiskScore(score)
			tx.AddAuditLog(&model.AuditLog{
				ID:        model.NewAuditLogID(),
				RequestID: req.ID,
				Action:    types.AuditActionSubmitted,
				ActorID:   "user-1",
				Metadata:  map[string]string{"tasks": "5"},
				CreatedAt: now,
			})
			return nil
		})
		gt.NoError(t, err).Required()

		got, err := repo.Request().Get(ctx, req.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.RequestStatusSubmitted)
		gt.Value(t, got.ScoreVersion).Equal(1)
		gt.Value(t, got.LatestScoreID).Equal(score.ID)
		gt.Value(t, got.RiskScore).NotNil()
		gt.Value(t, *got.RiskScore).Equal(30)

		tasks, err := repo.ReviewTask().ListByRequest(ctx, req.ID)
		gt.NoError(t, err).Required()
		gt.A(t, tasks).Length(5)
		for i, team := range types.AllTeams() {
			gt.Value(t, tasks[i].Team).Equal(team)
			gt.Value(t, tasks[i].Status).Equal(types.TaskStatusPending)
		}

		storedScore, err := repo.RiskScore().Get(ctx, score.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, storedScore.Scores).Equal(score.Scores)
		gt.Value(t, storedScore.Tier).Equal(types.RiskTierMedium)

		logs, err := repo.AuditLog().ListByRequest(ctx, req.ID)
		gt.NoError(t, err).Required()
		gt.A(t, logs).Length(1)
		gt.Value(t, logs[0].Action).Equal(types.AuditActionSubmitted)
		gt.Value(t, logs[0].Metadata["tasks"]).Equal("5")
	})

	t.Run("RunInTransaction drops all writes when fn fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		req := newRequest("rollback")
		gt.NoError(t, repo.Request().Create(ctx, req)).Required()

		errAbort := errors.New("abort")
		err := repo.RunInTransaction(ctx, req.ID, func(ctx context.Context, tx interfaces.RequestTransaction) error {
			r := tx.Request()
			r.Status = types.RequestStatusSubmitted
			tx.PutRequest(r)
			tx.PutTask(newPendingTask(req.ID, types.TeamGovernance, time.Now()))
			tx.AddAuditLog(&model.AuditLog{
				ID:        model.NewAuditLogID(),
				RequestID: req.ID,
				Action:    types.AuditActionSubmitted,
				CreatedAt: time.Now(),
			})
			return errAbort
		})
		gt.Error(t, err).Is(errAbort)

		got, err := repo.Request().Get(ctx, req.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.RequestStatusDraft)

		tasks, err := repo.ReviewTask().ListByRequest(ctx, req.ID)
		gt.NoError(t, err).Required()
		gt.A(t, tasks).Length(0)

		logs, err := repo.AuditLog().ListByRequest(ctx, req.ID)
		gt.NoError(t, err).Required()
		gt.A(t, logs).Length(0)
	})

	t.Run("getters reflect buffered writes", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		req := newRequest("buffered")
		gt.NoError(t, repo.Request().Create(ctx, req)).Required()

		err := repo.RunInTransaction(ctx, req.ID, func(ctx context.Context, tx interfaces.RequestTransaction) error {
			gt.Value(t, tx.Task(types.TeamLegal)).Nil()

			tx.PutTask(newPendingTask(req.ID, types.TeamLegal, time.Now()))
			task := tx.Task(types.TeamLegal)
			gt.Value(t, task).NotNil()
			gt.Value(t, task.Status).Equal(types.TaskStatusPending)

			task.Status = types.TaskStatusApproved
			gt.Value(t, tx.Task(types.TeamLegal).Status).Equal(types.TaskStatusPending)

			tx.PutTask(task)
			gt.Value(t, tx.Task(types.TeamLegal).Status).Equal(types.TaskStatusApproved)
			gt.A(t, tx.Tasks()).Length(1)

			r := tx.Request()
			r.Title = "renamed"
			tx.PutRequest(r)
			gt.Value(t, tx.Request().Title).Equal("renamed")
			return nil
		})
		gt.NoError(t, err).Required()

		tasks, err := repo.ReviewTask().ListByRequest(ctx, req.ID)
		gt.NoError(t, err).Required()
		gt.A(t, tasks).Length(1)
		gt.Value(t, tasks[0].Status).Equal(types.TaskStatusApproved)
	})

	t.Run("concurrent transactions on one request lose no updates", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		req := newRequest("counter")
		gt.NoError(t, repo.Request().Create(ctx, req)).Required()

		const workers = 10
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- repo.RunInTransaction(ctx, req.ID, func(ctx context.Context, tx interfaces.RequestTransaction) error {
					r := tx.Request()
					r.ScoreVersion++
					tx.PutRequest(r)
					tx.AddAuditLog(&model.AuditLog{
						ID:        model.NewAuditLogID(),
						RequestID: req.ID,
						Action:    types.AuditActionScoreComputed,
						Metadata:  map[string]string{"worker": fmt.Sprint(i)},
						CreatedAt: time.Now(),
					})
					return nil
				})
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			gt.NoError(t, err)
		}

		got, err := repo.Request().Get(ctx, req.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ScoreVersion).Equal(workers)

		logs, err := repo.AuditLog().ListByRequest(ctx, req.ID)
		gt.NoError(t, err).Required()
		gt.A(t, logs).Length(workers)
	})

	t.Run("writes for another request are rejected", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		req := newRequest("owner")
		other := newRequest("other")
		gt.NoError(t, repo.Request().Create(ctx, req)).Required()
		gt.NoError(t, repo.Request().Create(ctx, other)).Required()

		err := repo.RunInTransaction(ctx, req.ID, func(ctx context.Context, tx interfaces.RequestTransaction) error {
			tx.PutTask(newPendingTask(other.ID, types.TeamLegal, time.Now()))
			return nil
		})
		gt.Value(t, err).NotNil()

		tasks, err := repo.ReviewTask().ListByRequest(ctx, other.ID)
		gt.NoError(t, err).Required()
		gt.A(t, tasks).Length(0)
	})
}

func TestMemoryTransaction(t *testing.T) {
	runTransactionTest(t, newMemoryRepository)
}

func TestFirestoreTransaction(t *testing.T) {
	runTransactionTest(t, newFirestoreRepository)
}
