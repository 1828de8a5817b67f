package constants

// Audit Log Action Types — File Registry
const (
	AuditActionFileRegistered = "file_registered"
	AuditActionFileDeleted    = "file_deleted"
)

// Audit Log Action Types — Request Ledger
const (
	AuditActionAccessRequested = "access_requested"
	AuditActionAccessGranted   = "access_granted"
	AuditActionAccessDenied    = "access_denied"
	AuditActionAccessRevoked   = "access_revoked"
)

// Audit Log Action Types — Client Management
const (
	AuditActionClientRegistered = "client_registered"
	AuditActionClientRekeyed    = "client_rekeyed"
)

// Audit Log Configuration
const (
	AuditDefaultQueryLimit = 100
	AuditMaxQueryLimit     = 1000
)

// Audit Log Size Management
const (
	AuditMaxLogSizeBytes     = 1 * 1024 * 1024 * 1024 // 1GB limit
	AuditCleanupIntervalMins = 30
	AuditPurgePercentage     = 5 // Delete 5% oldest when limit hit
	AuditMinPurgeEntries     = 1000
)
