// Package auth provides client identity verification for sharegate.
// Clients are the acting identities of the access-control engine: each one
// registers a passphrase and receives an API key. The key is stored hashed;
// only its prefix is retained for logs.
package auth

// Client represents a registered client identity.
// Sensitive fields are excluded from JSON serialization.
type Client struct {
	ClientID     string `json:"client_id"`
	DisplayName  string `json:"display_name"`
	APIKeyPrefix string `json:"api_key_prefix"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// ClientWithSecrets includes hashed credentials for internal use.
// These fields must never be serialized into API responses.
type ClientWithSecrets struct {
	Client
	PassphraseHash string `json:"-"`
	APIKeyHash     string `json:"-"`
}
