package model

import (
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// AuditLogID identifies an audit log entry
type AuditLogID string

// NewAuditLogID returns a time-ordered unique audit log ID
func NewAuditLogID() AuditLogID {
	return AuditLogID(uuid.Must(uuid.NewV7()).String())
}

// AuditLog records one state-changing call against a request. Retried
// operations that change nothing still produce an entry.
type AuditLog struct {
	ID        AuditLogID        `json:"id"`
	RequestID RequestID         `json:"request_id"`
	Action    types.AuditAction `json:"action"`
	ActorID   string            `json:"actor_id"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Clone returns a deep copy
func (l *AuditLog) Clone() *AuditLog {
	if l == nil {
		return nil
	}
	c := *l
	c.Metadata = maps.Clone(l.Metadata)
	return &c
}
