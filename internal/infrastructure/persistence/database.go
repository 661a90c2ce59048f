package persistence

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// OpenDatabase opens the agent's local sqlite database. Synchronous FULL
// because ledger durability is a correctness requirement: the undo record
// must survive a crash that happens while the interface is being mutated.
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// The driver serializes access per connection; one connection avoids
	// SQLITE_BUSY between the ledger and the profile store.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA synchronous = FULL`,
		`PRAGMA busy_timeout = 5000`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}
