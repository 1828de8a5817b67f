package database

import (
	"database/sql"

	"sharegate/internal/constants"
)

// GetLedgerSchema returns the full SQL schema for the ledger database.
// It holds the file registry, the access-request ledger, client identities,
// and the append-only audit log.
func GetLedgerSchema() string {
	return `
-- File registry: one row per (owner, file name)
CREATE TABLE IF NOT EXISTS files (
    owner_id      TEXT NOT NULL,
    file_name     TEXT NOT NULL,
    size_bytes    INTEGER,            -- NULL when unknown
    last_modified INTEGER,            -- unix timestamp, NULL when unknown
    created_at    INTEGER NOT NULL,
    updated_at    INTEGER NOT NULL,
    PRIMARY KEY (owner_id, file_name)
);

CREATE INDEX IF NOT EXISTS idx_files_owner ON files(owner_id);

-- Request ledger: at most one live row per (owner, file, requester) triple.
-- status: 'pending' | 'active' | 'denied' | 'revoked'
CREATE TABLE IF NOT EXISTS access_requests (
    owner_id     TEXT NOT NULL,
    file_name    TEXT NOT NULL,
    requester_id TEXT NOT NULL,
    status       TEXT NOT NULL,
    created_at   INTEGER NOT NULL,
    decided_at   INTEGER,            -- set on first grant/deny
    revoked_at   INTEGER,
    PRIMARY KEY (owner_id, file_name, requester_id)
);

CREATE INDEX IF NOT EXISTS idx_requests_owner ON access_requests(owner_id);
CREATE INDEX IF NOT EXISTS idx_requests_requester ON access_requests(requester_id);
CREATE INDEX IF NOT EXISTS idx_requests_status ON access_requests(status);

-- Client identities (credentials optional depending on auth.required)
CREATE TABLE IF NOT EXISTS clients (
    client_id       TEXT PRIMARY KEY,
    display_name    TEXT NOT NULL DEFAULT '',
    passphrase_hash TEXT NOT NULL,
    api_key_hash    TEXT NOT NULL,
    api_key_prefix  TEXT NOT NULL,
    created_at      INTEGER NOT NULL,
    updated_at      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_clients_api_key_hash ON clients(api_key_hash);

-- Audit log (append-only for immutability)
CREATE TABLE IF NOT EXISTS audit_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp INTEGER NOT NULL,
    action TEXT NOT NULL,
    ip_address TEXT NOT NULL,
    client_id TEXT NOT NULL DEFAULT '',
    details_json TEXT,
    created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);

CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_log(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_audit_action ON audit_log(action);
CREATE INDEX IF NOT EXISTS idx_audit_client ON audit_log(client_id, timestamp DESC);
`
}

// ApplyPragmas applies all SQLite pragmas from constants.SQLitePragmas.
// Must be called immediately after opening any database connection.
func ApplyPragmas(db *sql.DB) error {
	for _, pragma := range constants.SQLitePragmas {
		if _, err := db.Exec(pragma); err != nil {
			return err
		}
	}
	return nil
}
