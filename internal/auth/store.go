package auth

import (
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"sharegate/internal/constants"
)

var clientIDRegex = regexp.MustCompile(constants.ClientIDRegex)

// ValidClientID reports whether an identifier is acceptable as a client ID.
func ValidClientID(id string) bool {
	if len(id) < constants.MinClientIDLen || len(id) > constants.MaxClientIDLen {
		return false
	}
	return clientIDRegex.MatchString(id)
}

// Store provides database operations for client identities.
type Store struct {
	db *sql.DB
}

// NewStore creates a client store backed by the given database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateClient inserts a new client identity with hashed credentials.
func (s *Store) CreateClient(clientID, displayName, passphraseHash, apiKeyHash, apiKeyPrefix string) (*Client, error) {
	now := time.Now().Unix()
	_, err := s.db.Exec(`
		INSERT INTO clients (client_id, display_name, passphrase_hash, api_key_hash, api_key_prefix, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, clientID, displayName, passphraseHash, apiKeyHash, apiKeyPrefix, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Client{
		ClientID:     clientID,
		DisplayName:  displayName,
		APIKeyPrefix: apiKeyPrefix,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// GetClientByID retrieves a client by ID. Returns nil when absent.
func (s *Store) GetClientByID(clientID string) (*ClientWithSecrets, error) {
	return s.scanClient(s.db.QueryRow(`
		SELECT client_id, display_name, passphrase_hash, api_key_hash, api_key_prefix, created_at, updated_at
		FROM clients WHERE client_id = ?
	`, clientID))
}

// GetClientByAPIKeyHash retrieves a client by hashed API key. Returns nil
// when no client holds the key.
func (s *Store) GetClientByAPIKeyHash(keyHash string) (*ClientWithSecrets, error) {
	return s.scanClient(s.db.QueryRow(`
		SELECT client_id, display_name, passphrase_hash, api_key_hash, api_key_prefix, created_at, updated_at
		FROM clients WHERE api_key_hash = ?
	`, keyHash))
}

// UpdateClientAPIKey replaces a client's API key hash and prefix.
func (s *Store) UpdateClientAPIKey(clientID, apiKeyHash, apiKeyPrefix string) error {
	now := time.Now().Unix()
	_, err := s.db.Exec(`
		UPDATE clients SET api_key_hash = ?, api_key_prefix = ?, updated_at = ?
		WHERE client_id = ?
	`, apiKeyHash, apiKeyPrefix, now, clientID)
	return err
}

// CountClients returns the total number of registered clients.
func (s *Store) CountClients() (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM clients").Scan(&count)
	return count, err
}

func (s *Store) scanClient(row *sql.Row) (*ClientWithSecrets, error) {
	var c ClientWithSecrets
	err := row.Scan(&c.ClientID, &c.DisplayName, &c.PassphraseHash,
		&c.APIKeyHash, &c.APIKeyPrefix, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
