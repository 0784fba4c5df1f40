package db

import (
	"fmt"
	"io"
	"time"
)

// PrintJournalCLI writes the newest limit commands from the journal at
// dbPath, followed by per-status totals.
func PrintJournalCLI(dbPath string, limit int, w io.Writer) error {
	dbConn, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	records, err := GetRecentCommands(dbConn, limit)
	if err != nil {
		return err
	}
	for _, rec := range records {
		line := fmt.Sprintf("%s  %-7s %-12s %-9s %s", rec.SentAt.Local().Format(time.DateTime), rec.Status, rec.Action, rec.Endpoint, rec.Payload)
		if rec.Error != "" {
			line += "  error=" + rec.Error
		}
		fmt.Fprintln(w, line)
	}

	counts, err := CountCommandsByStatus(dbConn)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "total sent=%d failed=%d\n", counts["sent"], counts["failed"])
	return nil
}
