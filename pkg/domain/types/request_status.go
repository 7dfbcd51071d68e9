package types

import "fmt"

// RequestStatus represents the aggregate status of an intake request
type RequestStatus string

const (
	RequestStatusDraft     RequestStatus = "draft"
	RequestStatusSubmitted RequestStatus = "submitted"
	RequestStatusReviewing RequestStatus = "reviewing"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusDenied    RequestStatus = "denied"
)

// AllRequestStatuses returns all valid request statuses
func AllRequestStatuses() []RequestStatus {
	return []RequestStatus{
		RequestStatusDraft,
		RequestStatusSubmitted,
		RequestStatusReviewing,
		RequestStatusApproved,
		RequestStatusDenied,
	}
}

// IsValid checks if the request status is valid
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusDraft,
		RequestStatusSubmitted,
		RequestStatusReviewing,
		RequestStatusApproved,
		RequestStatusDenied:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further verdicts are accepted in this status
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusDenied
}

// String returns the string representation of the request status
func (s RequestStatus) String() string {
	return string(s)
}

// ParseRequestStatus parses a string into a RequestStatus
func ParseRequestStatus(s string) (RequestStatus, error) {
	status := RequestStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid request status: %s", s)
	}
	return status, nil
}
