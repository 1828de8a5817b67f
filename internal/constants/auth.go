package constants

// Auth Error Codes
const (
	ErrCodeAuthRequired           = "AUTH_REQUIRED"
	ErrCodeAuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	ErrCodeAuthInvalidAPIKey      = "AUTH_INVALID_API_KEY"
	ErrCodeAuthClientNotFound     = "AUTH_CLIENT_NOT_FOUND"
	ErrCodeAuthClientExists       = "AUTH_CLIENT_ALREADY_EXISTS"
	ErrCodeAuthIdentityMismatch   = "AUTH_IDENTITY_MISMATCH"
	ErrCodeAuthPassphraseTooWeak  = "AUTH_PASSPHRASE_TOO_WEAK"
)

// Auth HTTP Headers
const (
	HeaderXAPIKey = "X-API-Key"
)

// API key prefix (for identification without a DB lookup)
const (
	APIKeyPrefix = "sgk_"
)

// Auth Configuration
const (
	AuthBcryptCost          = 12
	AuthAPIKeyRandomBytes   = 48 // 384 bits of entropy
	AuthAPIKeyPrefixLength  = 8  // visible prefix kept for logs
	AuthMinPassphraseLength = 12
	AuthMaxPassphraseLength = 128
)
