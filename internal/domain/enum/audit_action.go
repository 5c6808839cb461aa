package enum

// AuditAction identifies the kind of change recorded in an invoice audit log
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionVoid   AuditAction = "void"
)
