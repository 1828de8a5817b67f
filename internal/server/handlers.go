package server

import (
	"net/http"

	"sharegate/internal/audit"
	"sharegate/internal/constants"
)

// =============================================================================
// File Registry Handlers
// =============================================================================

// GET /api/filelist?client_id= - List all files owned by a client
func (s *Server) handleFileList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p := parseParams(r)
	clientID := p.Get("client_id")
	if clientID == "" {
		WriteError(w, http.StatusBadRequest, "Client ID is required.", constants.ErrCodeInvalidRequest)
		return
	}

	if err := s.app.Services.Clients.VerifyActingClient(apiKey(r), clientID); err != nil {
		s.handleServiceError(w, err)
		return
	}

	files, err := s.app.Services.Files.List(clientID)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{"files": files})
}

// POST /api/files - Register or refresh file metadata for an owner
func (s *Server) handleRegisterFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p := parseParams(r)
	clientID := p.Get("client_id")
	fileName := p.Get("file_name")
	if fileName == "" || clientID == "" {
		WriteError(w, http.StatusBadRequest, "File name and client ID are required.", constants.ErrCodeInvalidRequest)
		return
	}

	if err := s.app.Services.Clients.VerifyActingClient(apiKey(r), clientID); err != nil {
		s.handleServiceError(w, err)
		return
	}

	var sizeBytes, lastModified *int64
	if v, ok := p.GetInt64("size"); ok {
		sizeBytes = &v
	}
	if v, ok := p.GetInt64("last_modified"); ok {
		lastModified = &v
	}

	if err := s.app.Services.Files.Register(clientID, fileName, sizeBytes, lastModified); err != nil {
		s.handleServiceError(w, err)
		return
	}

	s.audit(constants.AuditActionFileRegistered, r, clientID, audit.FileRegisteredDetails{
		OwnerID:  clientID,
		FileName: fileName,
		Size:     sizeBytes,
	})

	WriteMessage(w, "File registered successfully.")
}

// DELETE /api/deletefile - Delete a file and invalidate its access records
func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p := parseParams(r)
	fileName := p.Get("file_name")
	clientID := p.Get("client_id")
	if fileName == "" || clientID == "" {
		WriteError(w, http.StatusBadRequest, "File name and client ID are required.", constants.ErrCodeInvalidRequest)
		return
	}

	if err := s.app.Services.Clients.VerifyActingClient(apiKey(r), clientID); err != nil {
		s.handleServiceError(w, err)
		return
	}

	result, err := s.app.Services.Files.Delete(clientID, fileName)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	s.audit(constants.AuditActionFileDeleted, r, clientID, audit.FileDeletedDetails{
		OwnerID:        clientID,
		FileName:       fileName,
		GrantsRevoked:  result.GrantsRevoked,
		RequestsDenied: result.RequestsDenied,
	})

	WriteMessage(w, "File deleted successfully.")
}

// =============================================================================
// Request Ledger Handlers
// =============================================================================

// GET /api/allrequests?client_id= - List all access requests for an owner
func (s *Server) handleAllRequests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p := parseParams(r)
	clientID := p.Get("client_id")
	if clientID == "" {
		WriteError(w, http.StatusBadRequest, "Client ID is required.", constants.ErrCodeInvalidRequest)
		return
	}

	if err := s.app.Services.Clients.VerifyActingClient(apiKey(r), clientID); err != nil {
		s.handleServiceError(w, err)
		return
	}

	requests, err := s.app.Services.Access.ListRequestViews(clientID)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{"requests": requests})
}

// POST /api/accessrequest - Request access to another client's file
func (s *Server) handleAccessRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p := parseParams(r)
	fileName := p.Get("file_name")
	ownerID := p.Get("client_id")
	requesterID := p.Get("requester_id")
	if fileName == "" || ownerID == "" || requesterID == "" {
		WriteError(w, http.StatusBadRequest, "File name, client ID, and requester ID are required.", constants.ErrCodeInvalidRequest)
		return
	}

	// The requester is the acting party here, not the file's owner.
	if err := s.app.Services.Clients.VerifyActingClient(apiKey(r), requesterID); err != nil {
		s.handleServiceError(w, err)
		return
	}

	result, err := s.app.Services.Access.Request(fileName, ownerID, requesterID)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	s.audit(constants.AuditActionAccessRequested, r, requesterID, audit.AccessRequestedDetails{
		OwnerID:     ownerID,
		FileName:    fileName,
		RequesterID: requesterID,
		Reopened:    result.Reopened,
		Idempotent:  result.Idempotent,
	})

	switch {
	case result.Idempotent:
		WriteMessage(w, "Access request already exists.")
	case result.Reopened:
		WriteMessage(w, "Access request reopened.")
	default:
		WriteMessage(w, "Access request submitted successfully.")
	}
}

// POST /api/accesscontrol - Grant or deny a pending access request
func (s *Server) handleAccessControl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p := parseParams(r)
	fileName := p.Get("file_name")
	ownerID := p.Get("owner_id")
	requesterID := p.Get("requester_id")
	if fileName == "" || ownerID == "" || requesterID == "" {
		WriteError(w, http.StatusBadRequest, "File name, owner ID, and requester ID are required.", constants.ErrCodeInvalidRequest)
		return
	}
	grant, ok := p.GetBool("grant")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Grant decision is required.", constants.ErrCodeInvalidRequest)
		return
	}

	if err := s.app.Services.Clients.VerifyActingClient(apiKey(r), ownerID); err != nil {
		s.handleServiceError(w, err)
		return
	}

	if _, err := s.app.Services.Access.Decide(fileName, ownerID, requesterID, grant); err != nil {
		s.handleServiceError(w, err)
		return
	}

	details := audit.AccessDecidedDetails{
		OwnerID:     ownerID,
		FileName:    fileName,
		RequesterID: requesterID,
	}
	if grant {
		s.audit(constants.AuditActionAccessGranted, r, ownerID, details)
		WriteMessage(w, "Access granted successfully.")
	} else {
		s.audit(constants.AuditActionAccessDenied, r, ownerID, details)
		WriteMessage(w, "Access has been denied")
	}
}

// POST /api/revokeaccess - Revoke an active grant
func (s *Server) handleRevokeAccess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p := parseParams(r)
	fileName := p.Get("file_name")
	ownerID := p.Get("owner_id")
	requesterID := p.Get("requester_id")
	if fileName == "" || ownerID == "" || requesterID == "" {
		WriteError(w, http.StatusBadRequest, "File name, owner ID, and requester ID are required.", constants.ErrCodeInvalidRequest)
		return
	}

	if err := s.app.Services.Clients.VerifyActingClient(apiKey(r), ownerID); err != nil {
		s.handleServiceError(w, err)
		return
	}

	if err := s.app.Services.Access.Revoke(fileName, ownerID, requesterID); err != nil {
		s.handleServiceError(w, err)
		return
	}

	s.audit(constants.AuditActionAccessRevoked, r, ownerID, audit.AccessRevokedDetails{
		OwnerID:     ownerID,
		FileName:    fileName,
		RequesterID: requesterID,
	})

	WriteMessage(w, "Access revoked successfully.")
}

// audit records an audit entry, logging failures instead of surfacing them.
func (s *Server) audit(action string, r *http.Request, clientID string, details interface{}) {
	if s.app.AuditLogger == nil {
		return
	}
	if err := s.app.AuditLogger.Log(action, getClientIP(r), clientID, details); err != nil {
		s.logger.Warn("Failed to write audit entry for %s: %v", action, err)
	}
}
