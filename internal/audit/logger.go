// Package audit provides an append-only, size-capped audit log of every
// mutation the access-control engine performs.
package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"sharegate/internal/constants"
)

// Logger provides thread-safe audit logging backed by the ledger database.
type Logger struct {
	db              *sql.DB
	mu              sync.Mutex
	maxLogSizeBytes int64
	purgePercentage int
	stopClean       chan struct{}
	stopOnce        sync.Once
}

// NewLogger creates an audit logger and starts the size-enforcement goroutine.
func NewLogger(db *sql.DB, maxLogSizeBytes int64, purgePercentage int) *Logger {
	if maxLogSizeBytes <= 0 {
		maxLogSizeBytes = constants.AuditMaxLogSizeBytes
	}
	if purgePercentage <= 0 {
		purgePercentage = constants.AuditPurgePercentage
	}

	l := &Logger{
		db:              db,
		maxLogSizeBytes: maxLogSizeBytes,
		purgePercentage: purgePercentage,
		stopClean:       make(chan struct{}),
	}

	go l.cleanupLoop()

	return l
}

// Stop stops the cleanup goroutine (call during graceful shutdown).
func (l *Logger) Stop() {
	l.stopOnce.Do(func() { close(l.stopClean) })
}

// Log records an audit entry (thread-safe, append-only).
func (l *Logger) Log(action, ipAddress, clientID string, details interface{}) error {
	if !IsValidAction(action) {
		return fmt.Errorf("invalid action type: %s", action)
	}

	var detailsJSON sql.NullString
	if details != nil {
		jsonBytes, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("failed to marshal details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(jsonBytes), Valid: true}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.Exec(`
		INSERT INTO audit_log (timestamp, action, ip_address, client_id, details_json)
		VALUES (?, ?, ?, ?, ?)
	`, time.Now().Unix(), action, ipAddress, clientID, detailsJSON)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

// Query returns the most recent audit entries, newest first, optionally
// filtered by action. Limit is clamped to the configured maximum.
func (l *Logger) Query(limit int, action string) ([]Entry, error) {
	if limit <= 0 {
		limit = constants.AuditDefaultQueryLimit
	}
	if limit > constants.AuditMaxQueryLimit {
		limit = constants.AuditMaxQueryLimit
	}
	if action != "" && !IsValidAction(action) {
		return nil, fmt.Errorf("invalid action type: %s", action)
	}

	query := `
		SELECT id, timestamp, action, ip_address, client_id, details_json
		FROM audit_log
	`
	args := []interface{}{}
	if action != "" {
		query += ` WHERE action = ?`
		args = append(args, action)
	}
	query += ` ORDER BY timestamp DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var detailsJSON sql.NullString
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Action, &e.IPAddress, &e.ClientID, &detailsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if detailsJSON.Valid {
			var details interface{}
			if err := json.Unmarshal([]byte(detailsJSON.String), &details); err == nil {
				e.Details = details
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// cleanupLoop periodically enforces the log size limit.
func (l *Logger) cleanupLoop() {
	ticker := time.NewTicker(time.Duration(constants.AuditCleanupIntervalMins) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopClean:
			return
		case <-ticker.C:
			l.enforceLogSizeLimit()
		}
	}
}

// enforceLogSizeLimit purges the oldest entries when the database exceeds
// the configured size.
func (l *Logger) enforceLogSizeLimit() {
	l.mu.Lock()
	defer l.mu.Unlock()

	var pageCount, pageSize int64
	if err := l.db.QueryRow("SELECT page_count FROM pragma_page_count()").Scan(&pageCount); err != nil {
		return
	}
	if err := l.db.QueryRow("SELECT page_size FROM pragma_page_size()").Scan(&pageSize); err != nil {
		return
	}

	if pageCount*pageSize < l.maxLogSizeBytes {
		return
	}

	var totalEntries int64
	if err := l.db.QueryRow("SELECT COUNT(*) FROM audit_log").Scan(&totalEntries); err != nil {
		return
	}

	purgeCount := totalEntries * int64(l.purgePercentage) / 100
	if purgeCount < int64(constants.AuditMinPurgeEntries) {
		purgeCount = int64(constants.AuditMinPurgeEntries)
	}
	if purgeCount > totalEntries {
		purgeCount = totalEntries / 2 // keep at least half
	}
	if purgeCount <= 0 {
		return
	}

	tx, err := l.db.Begin()
	if err != nil {
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM audit_log
		WHERE id IN (
			SELECT id FROM audit_log
			ORDER BY id ASC
			LIMIT ?
		)
	`, purgeCount); err != nil {
		return
	}

	tx.Commit()
}
