package server

import (
	"database/sql"
	"sync"
	"time"

	"sharegate/internal/audit"
	"sharegate/internal/config"
	"sharegate/internal/logger"
	"sharegate/internal/services"
)

// App holds all application state and dependencies
type App struct {
	Config      *config.Config
	Logger      *logger.Logger
	LedgerDB    *sql.DB
	AuditLogger *audit.Logger
	StartedAt   time.Time

	// Services layer for business logic
	Services *services.Services

	// Per-file mutex, keyed by (owner, file name). Serializes every mutation
	// touching one file's registry row or its ledger rows so interleaved
	// decide/revoke/delete calls cannot produce an invalid state, while
	// unrelated files proceed in parallel.
	fileMu   map[string]*sync.Mutex
	fileMuMu sync.Mutex
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, log *logger.Logger, db *sql.DB) *App {
	app := &App{
		Config:    cfg,
		Logger:    log,
		LedgerDB:  db,
		StartedAt: time.Now(),
		fileMu:    make(map[string]*sync.Mutex),
	}

	app.Services = services.NewServices(app, log)

	return app
}

// AppState interface implementation
// These methods provide access to App state for the services layer.

// GetLedgerDB returns the ledger database connection.
func (a *App) GetLedgerDB() *sql.DB {
	return a.LedgerDB
}

// GetConfig returns the application configuration.
func (a *App) GetConfig() *config.Config {
	return a.Config
}

// GetLogger returns the application logger.
func (a *App) GetLogger() *logger.Logger {
	return a.Logger
}

// GetAuditLogger returns the audit logger.
func (a *App) GetAuditLogger() *audit.Logger {
	return a.AuditLogger
}

// GetStartedAt returns the server start time.
func (a *App) GetStartedAt() time.Time {
	return a.StartedAt
}

// GetFileMu returns the mutex for a (owner, file) pair, creating it lazily.
func (a *App) GetFileMu(ownerID, fileName string) *sync.Mutex {
	// NUL byte can't appear in either identifier, so the key is unambiguous.
	key := ownerID + "\x00" + fileName

	a.fileMuMu.Lock()
	defer a.fileMuMu.Unlock()

	mu, exists := a.fileMu[key]
	if !exists {
		mu = &sync.Mutex{}
		a.fileMu[key] = mu
	}
	return mu
}
