package enums

// AuditType groups audit log entries by the subsystem that emitted them.
type AuditType string

const (
	AuditTypeOrder   AuditType = "order"
	AuditTypeProduct AuditType = "product"
	AuditTypeWebhook AuditType = "webhook"
	AuditTypeCron    AuditType = "cron"
	AuditTypeStock   AuditType = "stock"
	AuditTypeCMS     AuditType = "cms"
)

var validAuditTypes = []AuditType{
	AuditTypeOrder,
	AuditTypeProduct,
	AuditTypeWebhook,
	AuditTypeCron,
	AuditTypeStock,
	AuditTypeCMS,
}

// IsValid reports whether the value is a known AuditType.
func (a AuditType) IsValid() bool {
	for _, candidate := range validAuditTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// AuditAction names the operation recorded by an audit entry.
type AuditAction string

const (
	AuditActionCreate  AuditAction = "Create"
	AuditActionUpdate  AuditAction = "Update"
	AuditActionDelete  AuditAction = "Delete"
	AuditActionTrigger AuditAction = "Trigger"
	AuditActionFailure AuditAction = "Failure"
	AuditActionExecute AuditAction = "Execute"
	AuditActionAlert   AuditAction = "Alert"
	AuditActionImport  AuditAction = "Import"
)
