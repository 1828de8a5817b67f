// Package services provides the business logic layer for sharegate.
// Services orchestrate operations across the registry, ledger, and audit
// stores. HTTP handlers should delegate to services for all business logic.
package services

import (
	"database/sql"
	"sync"
	"time"

	"sharegate/internal/audit"
	"sharegate/internal/config"
	"sharegate/internal/logger"
)

// AppState provides access to shared application state.
// This interface decouples services from the concrete App type.
type AppState interface {
	// Database access
	GetLedgerDB() *sql.DB

	// Config and dependencies
	GetConfig() *config.Config
	GetLogger() *logger.Logger
	GetAuditLogger() *audit.Logger
	GetStartedAt() time.Time

	// Concurrency control: every mutation touching a file's registry row or
	// its ledger rows must hold this mutex for the file.
	GetFileMu(ownerID, fileName string) *sync.Mutex
}

// Services holds all service instances for the application.
// It acts as a service container that is initialized once at startup.
type Services struct {
	app    AppState
	logger *logger.Logger

	// Service instances
	Files   *FileService
	Access  *AccessService
	Clients *ClientService
}

// NewServices creates a new service container with all services initialized.
func NewServices(app AppState, log *logger.Logger) *Services {
	s := &Services{
		app:    app,
		logger: log,
	}

	s.Files = NewFileService(app, log)
	s.Access = NewAccessService(app, log)
	s.Clients = NewClientService(app, log)

	return s
}

// App returns the underlying app state for callers that need direct access.
func (s *Services) App() AppState {
	return s.app
}

// Logger returns the application logger.
func (s *Services) Logger() *logger.Logger {
	return s.logger
}
