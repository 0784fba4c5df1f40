package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS commands (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	action   TEXT NOT NULL,
	endpoint TEXT NOT NULL,
	payload  TEXT NOT NULL,
	status   TEXT NOT NULL,
	error    TEXT NOT NULL DEFAULT '',
	sent_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_commands_sent_at ON commands (sent_at);
`

// Open opens (creating if needed) the command journal at path. ":memory:"
// gives a private in-memory journal.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a second connection to ":memory:" would see an empty database
	db.SetMaxOpenConns(1)

	if err := ApplySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ApplySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
