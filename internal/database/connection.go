package database

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// OpenDatabase opens a SQLite database at the given path and applies pragmas.
// _txlock=immediate makes BEGIN acquire the RESERVED lock up front, which
// serializes write transactions. The engine's read-then-write sequences
// (registry check + ledger update) depend on this to stay linearizable.
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_txlock=immediate")
	if err != nil {
		return nil, err
	}

	if err := ApplyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// InitLedgerDB opens or creates the ledger database and initializes the schema.
func InitLedgerDB(path string) (*sql.DB, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(GetLedgerSchema()); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
