package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/thatsimonsguy/printer-panel/internal/model"
)

// StartTransaction starts a new database transaction.
func StartTransaction(db *sql.DB) (*sql.Tx, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	return tx, nil
}

// CommitTransaction commits the given transaction.
func CommitTransaction(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RollbackTransaction rolls back the given transaction.
func RollbackTransaction(tx *sql.Tx) {
	tx.Rollback()
}

func InsertCommandWithTx(tx *sql.Tx, rec model.CommandRecord) (int64, error) {
	res, err := tx.Exec(`INSERT INTO commands (action, endpoint, payload, status, error, sent_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Action, rec.Endpoint, rec.Payload, rec.Status, rec.Error, rec.SentAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("insert command %s: %w", rec.Action, err)
	}
	return res.LastInsertId()
}

// PruneCommandsWithTx deletes all but the newest keep commands.
func PruneCommandsWithTx(tx *sql.Tx, keep int) error {
	_, err := tx.Exec(`DELETE FROM commands WHERE id NOT IN (SELECT id FROM commands ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return fmt.Errorf("prune commands: %w", err)
	}
	return nil
}
