package database

import (
	"database/sql"
)

// File represents a file metadata record in the registry.
// Size and LastModified are nil when the owner never reported them.
type File struct {
	OwnerID      string
	FileName     string
	SizeBytes    *int64
	LastModified *int64
	CreatedAt    int64
	UpdatedAt    int64
}

// UpsertFile inserts a file record or refreshes size/last_modified on an
// existing one. Re-registering never disturbs ledger rows.
func UpsertFile(db *sql.DB, f File) error {
	_, err := db.Exec(`
		INSERT INTO files (owner_id, file_name, size_bytes, last_modified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, file_name) DO UPDATE SET
			size_bytes = excluded.size_bytes,
			last_modified = excluded.last_modified,
			updated_at = excluded.updated_at
	`, f.OwnerID, f.FileName, f.SizeBytes, f.LastModified, f.CreatedAt, f.UpdatedAt)
	return err
}

// GetFile queries a single file by (owner, name). Returns nil when absent.
func GetFile(db *sql.DB, ownerID, fileName string) (*File, error) {
	return scanFile(db.QueryRow(`
		SELECT owner_id, file_name, size_bytes, last_modified, created_at, updated_at
		FROM files WHERE owner_id = ? AND file_name = ?
	`, ownerID, fileName))
}

// GetFileTx is the transactional variant of GetFile, used inside the
// engine's registry-check + ledger-write transactions.
func GetFileTx(tx *sql.Tx, ownerID, fileName string) (*File, error) {
	return scanFile(tx.QueryRow(`
		SELECT owner_id, file_name, size_bytes, last_modified, created_at, updated_at
		FROM files WHERE owner_id = ? AND file_name = ?
	`, ownerID, fileName))
}

// ListFilesByOwner returns all files for an owner ordered by name.
func ListFilesByOwner(db *sql.DB, ownerID string) ([]File, error) {
	rows, err := db.Query(`
		SELECT owner_id, file_name, size_bytes, last_modified, created_at, updated_at
		FROM files WHERE owner_id = ? ORDER BY file_name ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var f File
		var size, modified sql.NullInt64
		if err := rows.Scan(&f.OwnerID, &f.FileName, &size, &modified, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		if size.Valid {
			f.SizeBytes = &size.Int64
		}
		if modified.Valid {
			f.LastModified = &modified.Int64
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// DeleteFileTx removes a file record inside a transaction.
// Returns false when no such (owner, name) pair exists.
func DeleteFileTx(tx *sql.Tx, ownerID, fileName string) (bool, error) {
	result, err := tx.Exec(`DELETE FROM files WHERE owner_id = ? AND file_name = ?`, ownerID, fileName)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanFile(row *sql.Row) (*File, error) {
	var f File
	var size, modified sql.NullInt64

	err := row.Scan(&f.OwnerID, &f.FileName, &size, &modified, &f.CreatedAt, &f.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if size.Valid {
		f.SizeBytes = &size.Int64
	}
	if modified.Valid {
		f.LastModified = &modified.Int64
	}
	return &f, nil
}
