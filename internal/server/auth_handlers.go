package server

import (
	"net/http"

	"sharegate/internal/audit"
	"sharegate/internal/constants"
)

// POST /api/clients - Register a new client identity
func (s *Server) handleClientRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p := parseParams(r)
	clientID := p.Get("client_id")
	passphrase := p.Get("passphrase")
	if clientID == "" || passphrase == "" {
		WriteError(w, http.StatusBadRequest, "Client ID and passphrase are required.", constants.ErrCodeInvalidRequest)
		return
	}

	result, err := s.app.Services.Clients.Register(clientID, p.Get("display_name"), passphrase)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	s.audit(constants.AuditActionClientRegistered, r, clientID, audit.ClientRegisteredDetails{
		ClientID:     clientID,
		APIKeyPrefix: result.Client.APIKeyPrefix,
	})

	// The plaintext key appears exactly once, in this response.
	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Client registered successfully.",
		"client":  result.Client,
		"api_key": result.APIKey,
	})
}

// POST /api/clients/rekey - Replace a client's API key
func (s *Server) handleClientRekey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p := parseParams(r)
	clientID := p.Get("client_id")
	passphrase := p.Get("passphrase")
	if clientID == "" || passphrase == "" {
		WriteError(w, http.StatusBadRequest, "Client ID and passphrase are required.", constants.ErrCodeInvalidRequest)
		return
	}

	result, err := s.app.Services.Clients.Rekey(clientID, passphrase)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	s.audit(constants.AuditActionClientRekeyed, r, clientID, audit.ClientRekeyedDetails{
		ClientID:     clientID,
		APIKeyPrefix: result.Client.APIKeyPrefix,
	})

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "API key replaced successfully.",
		"client":  result.Client,
		"api_key": result.APIKey,
	})
}
