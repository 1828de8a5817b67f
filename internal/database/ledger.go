package database

import (
	"database/sql"

	"sharegate/internal/constants"
)

// AccessRequest represents one ledger row: the authoritative record for a
// (owner, file, requester) triple. DecidedAt is set on the first grant or
// deny, RevokedAt when an active grant is withdrawn.
type AccessRequest struct {
	OwnerID     string
	FileName    string
	RequesterID string
	Status      string
	CreatedAt   int64
	DecidedAt   *int64
	RevokedAt   *int64
}

// IsActive reports the flattened external view of a ledger row.
func (r *AccessRequest) IsActive() bool {
	return r.Status == constants.StatusActive
}

// GetRequestTx queries a single ledger row inside a transaction.
// Returns nil when no record exists for the triple.
func GetRequestTx(tx *sql.Tx, ownerID, fileName, requesterID string) (*AccessRequest, error) {
	return scanRequest(tx.QueryRow(`
		SELECT owner_id, file_name, requester_id, status, created_at, decided_at, revoked_at
		FROM access_requests
		WHERE owner_id = ? AND file_name = ? AND requester_id = ?
	`, ownerID, fileName, requesterID))
}

// GetRequest queries a single ledger row outside any transaction.
func GetRequest(db *sql.DB, ownerID, fileName, requesterID string) (*AccessRequest, error) {
	return scanRequest(db.QueryRow(`
		SELECT owner_id, file_name, requester_id, status, created_at, decided_at, revoked_at
		FROM access_requests
		WHERE owner_id = ? AND file_name = ? AND requester_id = ?
	`, ownerID, fileName, requesterID))
}

// InsertRequestTx creates a fresh pending ledger row.
func InsertRequestTx(tx *sql.Tx, ownerID, fileName, requesterID string, now int64) error {
	_, err := tx.Exec(`
		INSERT INTO access_requests (owner_id, file_name, requester_id, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, ownerID, fileName, requesterID, constants.StatusPending, now)
	return err
}

// ReopenRequestTx resets a denied or revoked row back to pending. The same
// row is reused so a triple never accumulates parallel records. Returns
// false when the row was not in a reopenable state.
func ReopenRequestTx(tx *sql.Tx, ownerID, fileName, requesterID string, now int64) (bool, error) {
	result, err := tx.Exec(`
		UPDATE access_requests
		SET status = ?, created_at = ?, decided_at = NULL, revoked_at = NULL
		WHERE owner_id = ? AND file_name = ? AND requester_id = ?
		  AND status IN (?, ?)
	`, constants.StatusPending, now, ownerID, fileName, requesterID,
		constants.StatusDenied, constants.StatusRevoked)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// DecideRequestTx moves a pending row to active or denied. The status guard
// in the WHERE clause makes racing decisions lose cleanly: the second
// caller affects zero rows and the caller reports InvalidTransition.
func DecideRequestTx(tx *sql.Tx, ownerID, fileName, requesterID string, grant bool, now int64) (bool, error) {
	newStatus := constants.StatusDenied
	if grant {
		newStatus = constants.StatusActive
	}
	result, err := tx.Exec(`
		UPDATE access_requests
		SET status = ?, decided_at = ?
		WHERE owner_id = ? AND file_name = ? AND requester_id = ? AND status = ?
	`, newStatus, now, ownerID, fileName, requesterID, constants.StatusPending)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// RevokeRequestTx moves an active row to revoked. Returns false when the
// row was not active.
func RevokeRequestTx(tx *sql.Tx, ownerID, fileName, requesterID string, now int64) (bool, error) {
	result, err := tx.Exec(`
		UPDATE access_requests
		SET status = ?, revoked_at = ?
		WHERE owner_id = ? AND file_name = ? AND requester_id = ? AND status = ?
	`, constants.StatusRevoked, now, ownerID, fileName, requesterID, constants.StatusActive)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// CascadeInvalidateTx terminates every ledger row referencing a deleted
// file: active grants become revoked, anything else becomes denied. No
// row referencing a deleted file may remain pending or active.
func CascadeInvalidateTx(tx *sql.Tx, ownerID, fileName string, now int64) (revoked int64, denied int64, err error) {
	result, err := tx.Exec(`
		UPDATE access_requests
		SET status = ?, revoked_at = ?
		WHERE owner_id = ? AND file_name = ? AND status = ?
	`, constants.StatusRevoked, now, ownerID, fileName, constants.StatusActive)
	if err != nil {
		return 0, 0, err
	}
	revoked, err = result.RowsAffected()
	if err != nil {
		return 0, 0, err
	}

	result, err = tx.Exec(`
		UPDATE access_requests
		SET status = ?, decided_at = COALESCE(decided_at, ?)
		WHERE owner_id = ? AND file_name = ? AND status = ?
	`, constants.StatusDenied, now, ownerID, fileName, constants.StatusPending)
	if err != nil {
		return revoked, 0, err
	}
	denied, err = result.RowsAffected()
	return revoked, denied, err
}

// ListRequestsByOwner returns all ledger rows across the owner's files,
// every status included, ordered by file name then requester.
func ListRequestsByOwner(db *sql.DB, ownerID string) ([]AccessRequest, error) {
	rows, err := db.Query(`
		SELECT owner_id, file_name, requester_id, status, created_at, decided_at, revoked_at
		FROM access_requests
		WHERE owner_id = ?
		ORDER BY file_name ASC, requester_id ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []AccessRequest
	for rows.Next() {
		var r AccessRequest
		var decided, revokedAt sql.NullInt64
		if err := rows.Scan(&r.OwnerID, &r.FileName, &r.RequesterID, &r.Status,
			&r.CreatedAt, &decided, &revokedAt); err != nil {
			return nil, err
		}
		if decided.Valid {
			r.DecidedAt = &decided.Int64
		}
		if revokedAt.Valid {
			r.RevokedAt = &revokedAt.Int64
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func scanRequest(row *sql.Row) (*AccessRequest, error) {
	var r AccessRequest
	var decided, revokedAt sql.NullInt64

	err := row.Scan(&r.OwnerID, &r.FileName, &r.RequesterID, &r.Status,
		&r.CreatedAt, &decided, &revokedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if decided.Valid {
		r.DecidedAt = &decided.Int64
	}
	if revokedAt.Valid {
		r.RevokedAt = &revokedAt.Int64
	}
	return &r, nil
}
