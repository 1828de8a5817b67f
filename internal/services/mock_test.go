package services

import (
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"sharegate/internal/audit"
	"sharegate/internal/config"
	"sharegate/internal/database"
	"sharegate/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

// =============================================================================
// Shared mock AppState for all service tests
// =============================================================================

// mockAppState implements AppState for testing across all service test files.
type mockAppState struct {
	ledgerDB    *sql.DB
	cfg         *config.Config
	log         *logger.Logger
	auditLogger *audit.Logger
	startedAt   time.Time

	fileMu   map[string]*sync.Mutex
	fileMuMu sync.Mutex
}

func newMockAppState() *mockAppState {
	// Create a config with all defaults applied
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	return &mockAppState{
		fileMu:    make(map[string]*sync.Mutex),
		startedAt: time.Now(),
		cfg:       cfg,
	}
}

func (m *mockAppState) GetLedgerDB() *sql.DB          { return m.ledgerDB }
func (m *mockAppState) GetConfig() *config.Config     { return m.cfg }
func (m *mockAppState) GetLogger() *logger.Logger     { return m.log }
func (m *mockAppState) GetAuditLogger() *audit.Logger { return m.auditLogger }
func (m *mockAppState) GetStartedAt() time.Time       { return m.startedAt }

func (m *mockAppState) GetFileMu(ownerID, fileName string) *sync.Mutex {
	m.fileMuMu.Lock()
	defer m.fileMuMu.Unlock()
	key := ownerID + "\x00" + fileName
	mu, exists := m.fileMu[key]
	if !exists {
		mu = &sync.Mutex{}
		m.fileMu[key] = mu
	}
	return mu
}

// newTestApp returns a mock app backed by a real ledger database in a
// temp directory, so transactions and lock contention behave as in prod.
func newTestApp(t *testing.T) *mockAppState {
	t.Helper()

	mockApp := newMockAppState()
	db, err := database.InitLedgerDB(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("failed to open test ledger db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	mockApp.ledgerDB = db
	return mockApp
}

// registerTestFile inserts a registry row directly, bypassing the service.
func registerTestFile(t *testing.T, mockApp *mockAppState, ownerID, fileName string) {
	t.Helper()

	now := time.Now().Unix()
	err := database.UpsertFile(mockApp.ledgerDB, database.File{
		OwnerID:   ownerID,
		FileName:  fileName,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("failed to register test file %s/%s: %v", ownerID, fileName, err)
	}
}
