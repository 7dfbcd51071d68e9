package types

// AuditAction names a state-changing operation recorded in the audit trail
type AuditAction string

const (
	AuditActionDraftSaved      AuditAction = "draft_saved"
	AuditActionSubmitted       AuditAction = "submitted"
	AuditActionScoreComputed   AuditAction = "score_computed"
	AuditActionVerdictApplied  AuditAction = "verdict_applied"
	AuditActionVerdictRepeated AuditAction = "verdict_repeated"
	AuditActionTaskEnsured     AuditAction = "task_ensured"
	AuditActionCommentAdded    AuditAction = "comment_added"
	AuditActionChecklistSaved  AuditAction = "checklist_saved"
)

// String returns the string representation of the audit action
func (a AuditAction) String() string {
	return string(a)
}
