package errutil_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argus/pkg/utils/errutil"
)

func TestHandleHTTP(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		status   int
		wantBody string
	}{
		{
			name:     "client error exposes message",
			err:      goerr.New("title is required", goerr.V("field", "title")),
			status:   http.StatusBadRequest,
			wantBody: "title is required",
		},
		{
			name:     "server error hides message",
			err:      errors.New("connection refused by 10.0.0.1"),
			status:   http.StatusInternalServerError,
			wantBody: "Internal Server Error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			errutil.HandleHTTP(context.Background(), w, tc.err, tc.status)

			gt.Value(t, w.Code).Equal(tc.status)
			gt.Value(t, w.Header().Get("Content-Type")).Equal("application/json")

			var resp errutil.ErrorResponse
			gt.NoError(t, json.NewDecoder(w.Body).Decode(&resp)).Required()
			gt.Value(t, resp.Error).Equal(tc.wantBody)
		})
	}
}

func TestHandleNil(t *testing.T) {
	w := httptest.NewRecorder()
	errutil.HandleHTTP(context.Background(), w, nil, http.StatusBadRequest)
	gt.Number(t, w.Body.Len()).Equal(0)
	errutil.Handle(context.Background(), nil, "nothing")
}
