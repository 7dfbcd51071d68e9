package usecase

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/service/scoring"
	"github.com/secmon-lab/argus/pkg/utils/logging"
	"github.com/secmon-lab/argus/pkg/utils/metrics"
	"golang.org/x/sync/errgroup"
)

// DefaultRescoreConcurrency bounds parallel recomputation when the caller
// does not choose a limit
const DefaultRescoreConcurrency = 8

// ScoringUseCase computes and serves risk scores
type ScoringUseCase struct {
	repo    interfaces.Repository
	engine  *scoring.Engine
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewScoringUseCase(repo interfaces.Repository, engine *scoring.Engine, m *metrics.Metrics, now func() time.Time) *ScoringUseCase {
	return &ScoringUseCase{
		repo:    repo,
		engine:  engine,
		metrics: m,
		now:     now,
	}
}

// ComputeScore scores the request's stored attributes and appends a new
// breakdown. The breakdown and the request's cached total commit together.
// Allowed in every request status.
func (uc *ScoringUseCase) ComputeScore(ctx context.Context, id model.RequestID, actorID string) (*model.RiskScore, error) {
	score, _, err := uc.computeScore(ctx, id, actorID, false)
	return score, err
}

// computeScore returns false without writing anything when onlyIfUnscored is
// set and the request already carries a score at the time its transaction
// reads it.
func (uc *ScoringUseCase) computeScore(ctx context.Context, id model.RequestID, actorID string, onlyIfUnscored bool) (*model.RiskScore, bool, error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation("compute_score", time.Since(start)) }()

	var score *model.RiskScore
	err := uc.repo.RunInTransaction(ctx, id, func(ctx context.Context, tx interfaces.RequestTransaction) error {
		score = nil
		req := tx.Request()
		if onlyIfUnscored && req.RiskScore != nil {
			return nil
		}

		result := uc.engine.Score(req.Details)
		now := uc.now()

		score = &model.RiskScore{
			ID:            model.NewRiskScoreID(),
			RequestID:     id,
			Version:       req.ScoreVersion + 1,
			PolicyVersion: result.PolicyVersion,
			Scores:        result.Scores,
			Total:         result.Total,
			Tier:          result.Tier,
			CreatedAt:     now,
		}
		tx.AddRiskScore(score)

		total := result.Total
		req.RiskScore = &total
		req.LatestScoreID = score.ID
		req.ScoreVersion = score.Version
		req.UpdatedAt = now
		tx.PutRequest(req)

		tx.AddAuditLog(newAuditLog(id, types.AuditActionScoreComputed, actorID, map[string]string{
			"score_id":       score.ID.String(),
			"version":        strconv.Itoa(score.Version),
			"total":          strconv.Itoa(score.Total),
			"tier":           score.Tier.String(),
			"policy_version": score.PolicyVersion,
		}, now))
		return nil
	})
	if err != nil {
		return nil, false, wrapStoreError(err, id, "failed to compute risk score")
	}
	if score == nil {
		logging.From(ctx).Debug("request already scored, skipped", "request_id", id)
		return nil, false, nil
	}

	uc.metrics.ObserveScore(score.Tier.String(), score.Total)
	logging.From(ctx).Debug("risk score computed",
		"request_id", id,
		"version", score.Version,
		"total", score.Total,
		"tier", score.Tier,
	)
	return score, true, nil
}

// GetScore returns the latest breakdown, or ErrScoreNotComputed when the
// request was never scored.
func (uc *ScoringUseCase) GetScore(ctx context.Context, id model.RequestID) (*model.RiskScore, error) {
	req, err := uc.repo.Request().Get(ctx, id)
	if err != nil {
		return nil, wrapStoreError(err, id, "failed to get request")
	}
	if req.LatestScoreID == "" {
		return nil, goerr.Wrap(ErrScoreNotComputed, "request has no risk score", goerr.V(RequestIDKey, id))
	}

	score, err := uc.repo.RiskScore().Get(ctx, req.LatestScoreID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk score",
			goerr.V(RequestIDKey, id),
			goerr.V("score_id", req.LatestScoreID))
	}
	return score, nil
}

// ScoreHistory returns every breakdown of the request, newest first
func (uc *ScoringUseCase) ScoreHistory(ctx context.Context, id model.RequestID) ([]*model.RiskScore, error) {
	if _, err := uc.repo.Request().Get(ctx, id); err != nil {
		return nil, wrapStoreError(err, id, "failed to get request")
	}

	scores, err := uc.repo.RiskScore().ListByRequest(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risk scores", goerr.V(RequestIDKey, id))
	}
	return scores, nil
}

// RescoreAll recomputes the score of every request, at most concurrency at a
// time. It returns the number of requests scored.
func (uc *ScoringUseCase) RescoreAll(ctx context.Context, concurrency int, actorID string) (int, error) {
	return uc.rescore(ctx, concurrency, actorID, false)
}

// BackfillScores computes a first score for requests that have none. A
// request scored by someone else between the listing and its transaction is
// skipped and not counted.
func (uc *ScoringUseCase) BackfillScores(ctx context.Context, concurrency int, actorID string) (int, error) {
	return uc.rescore(ctx, concurrency, actorID, true)
}

func (uc *ScoringUseCase) rescore(ctx context.Context, concurrency int, actorID string, onlyUnscored bool) (int, error) {
	if concurrency <= 0 {
		concurrency = DefaultRescoreConcurrency
	}

	reqs, err := uc.repo.Request().List(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list requests")
	}

	var scored atomic.Int64
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for _, req := range reqs {
		if onlyUnscored && req.RiskScore != nil {
			continue
		}
		eg.Go(func() error {
			_, wrote, err := uc.computeScore(ctx, req.ID, actorID, onlyUnscored)
			if err != nil {
				return err
			}
			if wrote {
				scored.Add(1)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return int(scored.Load()), err
	}
	return int(scored.Load()), nil
}
