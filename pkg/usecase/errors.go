package usecase

import (
	"errors"

	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
)

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrRequestNotFound  = errors.New("request not found")
	ErrScoreNotComputed = errors.New("risk score not computed yet")

	// Validation errors
	ErrInvalidRequest = errors.New("invalid intake request")
	ErrInvalidTeam    = errors.New("invalid team")
	ErrInvalidVerdict = errors.New("invalid verdict")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrInvalidComment = errors.New("invalid review comment")

	ErrInvalidFramework = errors.New("invalid framework")
	ErrInvalidChecklist = errors.New("invalid checklist answers")

	// Conflict errors
	ErrTaskConflict      = errors.New("review task already decided")
	ErrRequestClosed     = errors.New("request is already closed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrChecklistComplete = errors.New("checklist is already completed")
)

// Context keys for error values
const (
	RequestIDKey = "request_id"
	TeamKey      = "team"
	StatusKey    = "status"
	VerdictKey   = "verdict"
	FrameworkKey = "framework"
	QuestionKey  = "question_id"
)

// IsValidation reports whether err was caused by malformed input. Such errors
// are raised before anything is written.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidTeam) ||
		errors.Is(err, ErrInvalidVerdict) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidComment) ||
		errors.Is(err, ErrInvalidFramework) ||
		errors.Is(err, ErrInvalidChecklist) ||
		errors.Is(err, model.ErrNormalization)
}

// IsConflict reports whether err is a retryable conflict with the current
// state of a request.
func IsConflict(err error) bool {
	return errors.Is(err, ErrTaskConflict) ||
		errors.Is(err, ErrRequestClosed) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrChecklistComplete) ||
		errors.Is(err, interfaces.ErrConflict) ||
		errors.Is(err, interfaces.ErrAlreadyExists)
}

// IsNotFound reports whether err means the request or its score is missing
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRequestNotFound) ||
		errors.Is(err, ErrScoreNotComputed) ||
		errors.Is(err, interfaces.ErrNotFound)
}
