package audit

import (
	"sharegate/internal/constants"
)

// Entry represents a single audit log entry
type Entry struct {
	ID        int64       `json:"id"`
	Timestamp int64       `json:"timestamp"`
	Action    string      `json:"action"`
	IPAddress string      `json:"ip_address"`
	ClientID  string      `json:"client_id"`
	Details   interface{} `json:"details,omitempty"`
}

// =============================================================================
// Detail Structs — File Registry
// =============================================================================

// FileRegisteredDetails holds details for file_registered action
type FileRegisteredDetails struct {
	OwnerID  string `json:"owner_id"`
	FileName string `json:"file_name"`
	Size     *int64 `json:"size,omitempty"`
}

// FileDeletedDetails holds details for file_deleted action
type FileDeletedDetails struct {
	OwnerID        string `json:"owner_id"`
	FileName       string `json:"file_name"`
	GrantsRevoked  int64  `json:"grants_revoked"`
	RequestsDenied int64  `json:"requests_denied"`
}

// =============================================================================
// Detail Structs — Request Ledger
// =============================================================================

// AccessRequestedDetails holds details for access_requested action
type AccessRequestedDetails struct {
	OwnerID     string `json:"owner_id"`
	FileName    string `json:"file_name"`
	RequesterID string `json:"requester_id"`
	Reopened    bool   `json:"reopened"`
	Idempotent  bool   `json:"idempotent"`
}

// AccessDecidedDetails holds details for access_granted and access_denied actions
type AccessDecidedDetails struct {
	OwnerID     string `json:"owner_id"`
	FileName    string `json:"file_name"`
	RequesterID string `json:"requester_id"`
}

// AccessRevokedDetails holds details for access_revoked action
type AccessRevokedDetails struct {
	OwnerID     string `json:"owner_id"`
	FileName    string `json:"file_name"`
	RequesterID string `json:"requester_id"`
}

// =============================================================================
// Detail Structs — Client Management
// =============================================================================

// ClientRegisteredDetails holds details for client_registered action
type ClientRegisteredDetails struct {
	ClientID     string `json:"client_id"`
	APIKeyPrefix string `json:"api_key_prefix"`
}

// ClientRekeyedDetails holds details for client_rekeyed action
type ClientRekeyedDetails struct {
	ClientID     string `json:"client_id"`
	APIKeyPrefix string `json:"api_key_prefix"`
}

// =============================================================================
// Validation
// =============================================================================

// ValidActions returns all valid audit action types
func ValidActions() []string {
	return []string{
		constants.AuditActionFileRegistered,
		constants.AuditActionFileDeleted,
		constants.AuditActionAccessRequested,
		constants.AuditActionAccessGranted,
		constants.AuditActionAccessDenied,
		constants.AuditActionAccessRevoked,
		constants.AuditActionClientRegistered,
		constants.AuditActionClientRekeyed,
	}
}

// IsValidAction checks whether an action is a known audit action type
func IsValidAction(action string) bool {
	for _, a := range ValidActions() {
		if a == action {
			return true
		}
	}
	return false
}
