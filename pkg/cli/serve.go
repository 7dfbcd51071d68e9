package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/cli/config"
	httpctrl "github.com/secmon-lab/argus/pkg/controller/http"
	"github.com/secmon-lab/argus/pkg/service/scoring"
	"github.com/secmon-lab/argus/pkg/service/worker"
	"github.com/secmon-lab/argus/pkg/usecase"
	"github.com/secmon-lab/argus/pkg/utils/logging"
	"github.com/secmon-lab/argus/pkg/utils/metrics"
	"github.com/secmon-lab/argus/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		addr             string
		backfillInterval time.Duration
		concurrency      int
		repoCfg          config.Repository
		policyCfg        config.Policy
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("ARGUS_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "score-backfill-interval",
			Usage:       "Interval of the background job scoring requests that were never scored (disabled when 0)",
			Category:    "Scoring",
			Sources:     cli.EnvVars("ARGUS_SCORE_BACKFILL_INTERVAL"),
			Destination: &backfillInterval,
		},
		&cli.IntFlag{
			Name:        "score-concurrency",
			Usage:       "Number of requests scored in parallel by background jobs",
			Category:    "Scoring",
			Value:       usecase.DefaultRescoreConcurrency,
			Sources:     cli.EnvVars("ARGUS_SCORE_CONCURRENCY"),
			Destination: &concurrency,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			pol, err := policyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load scoring policy")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			m := metrics.New(nil)
			uc := usecase.New(repo,
				usecase.WithEngine(scoring.New(pol)),
				usecase.WithMetrics(m),
			)

			logging.Default().Info("Serve configuration",
				"addr", addr,
				"repository", repoCfg,
				"policy", policyCfg,
				"policy_version", pol.Version(),
				"score_backfill_interval", backfillInterval.String())

			var backfillWorker *worker.ScoreBackfillWorker
			if backfillInterval > 0 {
				backfillWorker = worker.NewScoreBackfillWorker(uc.Scoring, backfillInterval, concurrency)
				if err := backfillWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start score backfill worker")
				}
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpctrl.WithMetricsHandler(m.Handler())),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			safe.Go(ctx, "http-server", func(ctx context.Context) error {
				logging.From(ctx).Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server", goerr.V("addr", addr))
				}
				return nil
			})

			select {
			case err := <-errCh:
				if backfillWorker != nil {
					backfillWorker.Stop()
				}
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop background scoring before draining requests
				if backfillWorker != nil {
					backfillWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
