package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/utils/logging"
)

// Handle logs the error with its goerr context and reports it to Sentry when
// a Sentry client is configured.
func Handle(ctx context.Context, err error, msg string) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	report(ctx, err, msg)
}

func report(ctx context.Context, err error, msg string) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("message", msg)
		var ge *goerr.Error
		if errors.As(err, &ge) {
			extra := make(map[string]any, len(ge.Values()))
			for k, v := range ge.Values() {
				extra[k] = v
			}
			scope.SetContext("goerr", extra)
		}
		hub.CaptureException(err)
	})
}

// ErrorResponse is the JSON body written for failed HTTP calls
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleHTTP writes a JSON error response. Server-side failures (5xx) are
// logged and reported with the full error, while clients only see a generic
// message for them.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	message := err.Error()
	if statusCode >= http.StatusInternalServerError {
		Handle(ctx, err, "HTTP error")
		message = http.StatusText(statusCode)
	} else {
		logging.From(ctx).Info("request rejected",
			"status", statusCode,
			"error", err.Error(),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if encErr := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); encErr != nil {
		logging.From(ctx).Error("failed to write error response", "error", encErr)
	}
}
