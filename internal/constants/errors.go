package constants

// API Error Codes
const (
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeRequestNotFound   = "REQUEST_NOT_FOUND"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeInvalidClientID   = "INVALID_CLIENT_ID"
	ErrCodeInvalidFileName   = "INVALID_FILE_NAME"
	ErrCodeInternalError     = "INTERNAL_ERROR"

	// Audit Log
	ErrCodeAuditLogError      = "AUDIT_LOG_ERROR"
	ErrCodeAuditInvalidAction = "AUDIT_INVALID_ACTION"
)
