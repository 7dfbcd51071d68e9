package worker

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/utils/logging"
)

// BackfillActorID is recorded as the actor of audit rows written by the worker.
const BackfillActorID = "system:score-backfill"

// Backfiller scores requests that have never been scored and reports how many it scored.
type Backfiller interface {
	BackfillScores(ctx context.Context, concurrency int, actorID string) (int, error)
}

// ScoreBackfillWorker periodically scores requests that lack a risk score.
//
// Architecture assumptions:
//   - Single server instance (no distributed locking)
//   - A request already scored when its transaction opens is skipped, so an
//     overlapping run on another instance does not append a second breakdown
type ScoreBackfillWorker struct {
	backfiller  Backfiller
	interval    time.Duration
	concurrency int

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewScoreBackfillWorker creates a worker. concurrency below 1 is treated as 1.
func NewScoreBackfillWorker(backfiller Backfiller, interval time.Duration, concurrency int) *ScoreBackfillWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ScoreBackfillWorker{
		backfiller:  backfiller,
		interval:    interval,
		concurrency: concurrency,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start begins the background loop. The first pass runs immediately in the
// background and does not block server startup.
func (w *ScoreBackfillWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("backfill interval must be positive", goerr.V("interval", w.interval.String()))
	}

	logging.Default().Info("Score backfill worker starting",
		"interval", w.interval.String(),
		"concurrency", w.concurrency)

	go w.run(ctx)
	return nil
}

// Stop signals the worker to stop and waits for the current pass to finish.
func (w *ScoreBackfillWorker) Stop() {
	w.stopOnce.Do(func() {
		logging.Default().Info("Score backfill worker stopping")
		close(w.stopCh)
	})
	<-w.doneCh
	logging.Default().Info("Score backfill worker stopped")
}

func (w *ScoreBackfillWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := w.backfill(ctx); err != nil {
		logging.Default().Error("Initial score backfill failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.backfill(ctx); err != nil {
				logging.Default().Error("Score backfill failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			logging.Default().Info("Score backfill worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Score backfill worker context cancelled")
			return
		}
	}
}

func (w *ScoreBackfillWorker) backfill(ctx context.Context) error {
	startTime := time.Now()

	n, err := w.backfiller.BackfillScores(ctx, w.concurrency, BackfillActorID)
	if err != nil {
		return goerr.Wrap(err, "failed to backfill scores", goerr.V("scored", n))
	}

	if n > 0 {
		logging.Default().Info("Score backfill completed",
			"scored", n,
			"duration", time.Since(startTime).String())
	}
	return nil
}
