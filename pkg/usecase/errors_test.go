package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/usecase"
)

func TestErrors_ErrorsAreDistinct(t *testing.T) {
	all := []error{
		usecase.ErrRequestNotFound,
		usecase.ErrScoreNotComputed,
		usecase.ErrInvalidRequest,
		usecase.ErrInvalidTeam,
		usecase.ErrInvalidVerdict,
		usecase.ErrInvalidStatus,
		usecase.ErrTaskConflict,
		usecase.ErrRequestClosed,
		usecase.ErrInvalidTransition,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				gt.Bool(t, errors.Is(a, b)).False()
			}
		}
	}
}

func TestErrors_Categories(t *testing.T) {
	_, normErr := model.Normalize(map[string]any{"pii_involved": "yes"})
	gt.Value(t, normErr).NotNil()

	tests := []struct {
		name       string
		err        error
		validation bool
		conflict   bool
		notFound   bool
	}{
		{"normalization", normErr, true, false, false},
		{"invalid team", goerr.Wrap(usecase.ErrInvalidTeam, "bad team"), true, false, false},
		{"invalid verdict", usecase.ErrInvalidVerdict, true, false, false},
		{"invalid status", usecase.ErrInvalidStatus, true, false, false},
		{"task conflict", goerr.Wrap(usecase.ErrTaskConflict, "decided"), false, true, false},
		{"closed", usecase.ErrRequestClosed, false, true, false},
		{"transition", usecase.ErrInvalidTransition, false, true, false},
		{"store collision", goerr.Wrap(interfaces.ErrConflict, "aborted"), false, true, false},
		{"request not found", usecase.ErrRequestNotFound, false, false, true},
		{"score not computed", usecase.ErrScoreNotComputed, false, false, true},
		{"other", errors.New("disk full"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, usecase.IsValidation(tt.err)).Equal(tt.validation)
			gt.Value(t, usecase.IsConflict(tt.err)).Equal(tt.conflict)
			gt.Value(t, usecase.IsNotFound(tt.err)).Equal(tt.notFound)
		})
	}
}
