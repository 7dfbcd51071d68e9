package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/cli/config"
	"github.com/secmon-lab/argus/pkg/service/archive"
	"github.com/secmon-lab/argus/pkg/usecase"
	"github.com/secmon-lab/argus/pkg/utils/logging"
	"github.com/secmon-lab/argus/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdExport() *cli.Command {
	var (
		output          string
		status          string
		credentialsFile string
		repoCfg         config.Repository
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Destination: local path, '-' for stdout, or gs://bucket/prefix/",
			Value:       archive.Stdout,
			Sources:     cli.EnvVars("ARGUS_EXPORT_OUTPUT"),
			Destination: &output,
		},
		&cli.StringFlag{
			Name:        "status",
			Usage:       "Export only requests in this status",
			Destination: &status,
		},
		&cli.StringFlag{
			Name:        "gcs-credentials-file",
			Usage:       "Service account key for Cloud Storage (application default credentials when empty)",
			Sources:     cli.EnvVars("ARGUS_GCS_CREDENTIALS_FILE"),
			Destination: &credentialsFile,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "export",
		Usage: "Export requests with their review tasks, score history and audit trail as JSON Lines",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			// Cancelling the writer context aborts an unfinished GCS upload
			writeCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			var opts []archive.Option
			if credentialsFile != "" {
				opts = append(opts, archive.WithCredentialsFile(credentialsFile))
			}
			w, err := archive.Open(writeCtx, output, opts...)
			if err != nil {
				return goerr.Wrap(err, "failed to open export destination", goerr.V("output", output))
			}

			start := time.Now()
			uc := usecase.New(repo)
			n, err := uc.Export.Export(ctx, w, status)
			if err != nil {
				cancel()
				safe.Close(ctx, w)
				return goerr.Wrap(err, "export failed", goerr.V("exported", n))
			}
			if err := w.Close(); err != nil {
				return goerr.Wrap(err, "failed to finalize export", goerr.V("output", output))
			}

			logging.Default().Info("Export completed",
				"exported", n,
				"output", output,
				"status", status,
				"duration", time.Since(start).String())
			return nil
		},
	}
}
