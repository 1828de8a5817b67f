package services

import (
	"sharegate/internal/auth"
	"sharegate/internal/constants"
	"sharegate/internal/logger"
)

// RegisterClientResult carries the one-time plaintext API key back to the
// caller. The key is never stored or logged; only its prefix is retained.
type RegisterClientResult struct {
	Client *auth.Client
	APIKey string
}

// ClientService manages client identities and API keys.
type ClientService struct {
	app    AppState
	logger *logger.Logger
	store  *auth.Store
}

// NewClientService creates a new client service instance.
func NewClientService(app AppState, log *logger.Logger) *ClientService {
	return &ClientService{
		app:    app,
		logger: log,
		store:  auth.NewStore(app.GetLedgerDB()),
	}
}

// GetStore returns the underlying client store (used by the auth middleware).
func (s *ClientService) GetStore() *auth.Store {
	return s.store
}

// Register creates a client identity and issues its API key.
func (s *ClientService) Register(clientID, displayName, passphrase string) (*RegisterClientResult, error) {
	if !auth.ValidClientID(clientID) {
		return nil, ErrInvalidClientID
	}
	if len(passphrase) < constants.AuthMinPassphraseLength || len(passphrase) > constants.AuthMaxPassphraseLength {
		return nil, ErrPassphraseTooWeak
	}

	existing, err := s.store.GetClientByID(clientID)
	if err != nil {
		return nil, WrapInternalError(err)
	}
	if existing != nil {
		return nil, ErrClientExists
	}

	passphraseHash, err := auth.HashPassphrase(passphrase)
	if err != nil {
		return nil, WrapInternalError(err)
	}

	apiKey, err := auth.GenerateAPIKey()
	if err != nil {
		return nil, WrapInternalError(err)
	}

	client, err := s.store.CreateClient(clientID, displayName,
		passphraseHash, auth.HashKey(apiKey), auth.KeyPrefix(apiKey))
	if err != nil {
		return nil, WrapInternalError(err)
	}

	s.logger.Info("Registered client %s (key prefix %s)", clientID, client.APIKeyPrefix)
	return &RegisterClientResult{Client: client, APIKey: apiKey}, nil
}

// Rekey verifies the client's passphrase and issues a replacement API key.
// The previous key stops working immediately.
func (s *ClientService) Rekey(clientID, passphrase string) (*RegisterClientResult, error) {
	if !auth.ValidClientID(clientID) {
		return nil, ErrInvalidClientID
	}

	client, err := s.store.GetClientByID(clientID)
	if err != nil {
		return nil, WrapInternalError(err)
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	if err := auth.VerifyPassphrase(passphrase, client.PassphraseHash); err != nil {
		return nil, ErrAuthInvalidCreds
	}

	apiKey, err := auth.GenerateAPIKey()
	if err != nil {
		return nil, WrapInternalError(err)
	}

	prefix := auth.KeyPrefix(apiKey)
	if err := s.store.UpdateClientAPIKey(clientID, auth.HashKey(apiKey), prefix); err != nil {
		return nil, WrapInternalError(err)
	}

	s.logger.Info("Rekeyed client %s (new key prefix %s)", clientID, prefix)
	return &RegisterClientResult{
		Client: &auth.Client{
			ClientID:     client.ClientID,
			DisplayName:  client.DisplayName,
			APIKeyPrefix: prefix,
			CreatedAt:    client.CreatedAt,
		},
		APIKey: apiKey,
	}, nil
}

// VerifyActingClient checks that the presented API key resolves to the
// client the caller claims to act as. With auth.required disabled it only
// insists that a key, when present, is valid.
func (s *ClientService) VerifyActingClient(apiKey, actingClientID string) error {
	required := s.app.GetConfig().Auth.Required

	if apiKey == "" {
		if required {
			return ErrAuthRequired
		}
		return nil
	}
	if !auth.IsAPIKey(apiKey) {
		return ErrAuthInvalidAPIKey
	}

	client, err := s.store.GetClientByAPIKeyHash(auth.HashKey(apiKey))
	if err != nil {
		return WrapInternalError(err)
	}
	if client == nil {
		return ErrAuthInvalidAPIKey
	}
	if client.ClientID != actingClientID {
		return ErrIdentityMismatch
	}
	return nil
}
