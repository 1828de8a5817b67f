package server

import (
	"encoding/json"
	"net/http"

	"sharegate/internal/constants"
	"sharegate/internal/services"
)

// APIError represents a standard error response.
// The external contract is `{error: message}`; the code is carried
// alongside so programmatic callers do not parse messages.
type APIError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error response
func WriteError(w http.ResponseWriter, status int, message string, code string) {
	WriteJSON(w, status, APIError{
		Error: message,
		Code:  code,
	})
}

// WriteSuccess writes a simple success response
func WriteSuccess(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusOK, data)
}

// WriteMessage writes a `{message}` success response
func WriteMessage(w http.ResponseWriter, message string) {
	WriteSuccess(w, map[string]string{"message": message})
}

// handleServiceError maps service errors to HTTP responses.
// Every engine failure surfaces as a structured error, never a crash.
func (s *Server) handleServiceError(w http.ResponseWriter, err error) {
	code, isServiceErr := services.IsServiceError(err)
	if !isServiceErr {
		WriteError(w, http.StatusInternalServerError, err.Error(), constants.ErrCodeInternalError)
		return
	}

	status := http.StatusInternalServerError
	switch code {
	case constants.ErrCodeFileNotFound, constants.ErrCodeRequestNotFound,
		constants.ErrCodeAuthClientNotFound:
		status = http.StatusNotFound
	case constants.ErrCodeForbidden, constants.ErrCodeAuthIdentityMismatch:
		status = http.StatusForbidden
	case constants.ErrCodeInvalidTransition, constants.ErrCodeAuthClientExists:
		status = http.StatusConflict
	case constants.ErrCodeAuthRequired, constants.ErrCodeAuthInvalidAPIKey,
		constants.ErrCodeAuthInvalidCredentials:
		status = http.StatusUnauthorized
	case constants.ErrCodeInvalidRequest, constants.ErrCodeInvalidClientID,
		constants.ErrCodeInvalidFileName, constants.ErrCodeAuthPassphraseTooWeak,
		constants.ErrCodeAuditInvalidAction:
		status = http.StatusBadRequest
	}

	WriteError(w, status, err.Error(), code)
}
