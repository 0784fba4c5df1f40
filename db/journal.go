package db

import (
	"database/sql"
	"time"

	"github.com/thatsimonsguy/printer-panel/internal/model"
)

const DefaultJournalSize = 1000

// Journal records dispatched commands, keeping the newest Size rows.
type Journal struct {
	db   *sql.DB
	Size int
	now  func() time.Time
}

func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db, Size: DefaultJournalSize, now: time.Now}
}

func (j *Journal) RecordCommand(rec model.CommandRecord) error {
	if rec.SentAt.IsZero() {
		rec.SentAt = j.now()
	}

	tx, err := StartTransaction(j.db)
	if err != nil {
		return err
	}
	if _, err := InsertCommandWithTx(tx, rec); err != nil {
		RollbackTransaction(tx)
		return err
	}
	if j.Size > 0 {
		if err := PruneCommandsWithTx(tx, j.Size); err != nil {
			RollbackTransaction(tx)
			return err
		}
	}
	return CommitTransaction(tx)
}

func (j *Journal) Close() error {
	return j.db.Close()
}
