package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/cli/config"
	"github.com/secmon-lab/argus/pkg/service/scoring"
	"github.com/secmon-lab/argus/pkg/usecase"
	"github.com/secmon-lab/argus/pkg/utils/logging"
	"github.com/secmon-lab/argus/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

const rescoreActorID = "system:rescore"

func cmdRescore() *cli.Command {
	var (
		concurrency int
		onlyMissing bool
		repoCfg     config.Repository
		policyCfg   config.Policy
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Number of requests scored in parallel",
			Value:       usecase.DefaultRescoreConcurrency,
			Sources:     cli.EnvVars("ARGUS_SCORE_CONCURRENCY"),
			Destination: &concurrency,
		},
		&cli.BoolFlag{
			Name:        "only-missing",
			Usage:       "Score only requests that have never been scored",
			Destination: &onlyMissing,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)

	return &cli.Command{
		Name:  "rescore",
		Usage: "Recompute risk scores of stored requests with the active policy",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if concurrency < 1 {
				return goerr.Wrap(config.ErrInvalidConfig, "concurrency must be positive", goerr.V("concurrency", concurrency))
			}

			pol, err := policyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load scoring policy")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			uc := usecase.New(repo, usecase.WithEngine(scoring.New(pol)))

			start := time.Now()
			run := uc.Scoring.RescoreAll
			if onlyMissing {
				run = uc.Scoring.BackfillScores
			}
			n, err := run(ctx, concurrency, rescoreActorID)
			if err != nil {
				return goerr.Wrap(err, "rescore failed", goerr.V("scored", n))
			}

			logging.Default().Info("Rescore completed",
				"scored", n,
				"only_missing", onlyMissing,
				"policy_version", pol.Version(),
				"duration", time.Since(start).String())
			return nil
		},
	}
}
