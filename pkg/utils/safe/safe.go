package safe

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/utils/errutil"
	"github.com/secmon-lab/argus/pkg/utils/logging"
)

// Close closes closer and logs a failure instead of returning it. Nil closers
// are ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// Go runs fn in a new goroutine detached from ctx's cancellation but keeping
// its logger. Errors and panics are logged and reported instead of crashing
// the process.
func Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	bgCtx := logging.With(context.WithoutCancel(ctx), logging.From(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errutil.Handle(bgCtx, goerr.New(fmt.Sprint(r), goerr.V("task", name)), "panic in background task")
			}
		}()

		if err := fn(bgCtx); err != nil {
			errutil.Handle(bgCtx, goerr.Wrap(err, "background task failed", goerr.V("task", name)), "background task failed")
		}
	}()
}
