package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/thatsimonsguy/printer-panel/internal/model"
)

// GetRecentCommands returns up to limit commands, newest first.
func GetRecentCommands(db *sql.DB, limit int) ([]model.CommandRecord, error) {
	rows, err := db.Query(`SELECT id, action, endpoint, payload, status, error, sent_at FROM commands ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query commands: %w", err)
	}
	defer rows.Close()

	var records []model.CommandRecord
	for rows.Next() {
		var rec model.CommandRecord
		var sentAt string
		if err := rows.Scan(&rec.ID, &rec.Action, &rec.Endpoint, &rec.Payload, &rec.Status, &rec.Error, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan command: %w", err)
		}
		rec.SentAt, _ = time.Parse(time.RFC3339Nano, sentAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountCommandsByStatus returns the number of journaled commands per status.
func CountCommandsByStatus(db *sql.DB) (map[string]int, error) {
	rows, err := db.Query(`SELECT status, COUNT(*) FROM commands GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count commands: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
