package server

import (
	"net/http"
	"time"

	"sharegate/internal/audit"
	"sharegate/internal/constants"
	"sharegate/internal/version"
)

// GET /api/audit?limit=&action= - Query recent audit entries
func (s *Server) handleAuditQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p := parseParams(r)
	limit := 0
	if v, ok := p.GetInt64("limit"); ok {
		limit = int(v)
	}
	action := p.Get("action")

	if action != "" && !audit.IsValidAction(action) {
		WriteError(w, http.StatusBadRequest, "Unknown audit action type.", constants.ErrCodeAuditInvalidAction)
		return
	}

	entries, err := s.app.AuditLogger.Query(limit, action)
	if err != nil {
		s.logger.Error("Audit query failed: %v", err)
		WriteError(w, http.StatusInternalServerError, "Failed to query audit log.", constants.ErrCodeAuditLogError)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}

	WriteSuccess(w, map[string]interface{}{"entries": entries})
}

// GET /api/info - Service version and uptime
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"name":           constants.AppName,
		"version":        version.Version,
		"uptime_seconds": int64(time.Since(s.app.StartedAt).Seconds()),
	})
}
