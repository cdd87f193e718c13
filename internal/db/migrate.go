package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN is not idempotent in SQLite and every
			// statement is re-run on open.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := backfillIssueTotals(db); err != nil {
		return fmt.Errorf("backfilling issue totals: %w", err)
	}
	return nil
}

// backfillIssueTotals rebuilds issue_totals from submitted entries when the
// aggregate table is empty but the journal is not.
func backfillIssueTotals(db *sql.DB) error {
	var totals, entries int
	if err := db.QueryRow(`SELECT COUNT(*) FROM issue_totals`).Scan(&totals); err != nil {
		return err
	}
	if totals > 0 {
		return nil
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM worklog_entries WHERE status = 'submitted'`).Scan(&entries); err != nil {
		return err
	}
	if entries == 0 {
		return nil
	}
	_, err := db.Exec(`INSERT INTO issue_totals (issue_key, logged_seconds, entries, last_logged_at)
		SELECT issue_key, SUM(seconds), COUNT(*), MAX(ended_at)
		FROM worklog_entries
		WHERE status = 'submitted'
		GROUP BY issue_key`)
	return err
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS worklog_entries (
		id          TEXT PRIMARY KEY,
		issue_key   TEXT NOT NULL,
		started_at  TEXT NOT NULL,
		ended_at    TEXT NOT NULL,
		seconds     INTEGER NOT NULL CHECK(seconds >= 0),
		status      TEXT NOT NULL
		            CHECK(status IN ('submitted','failed')),
		error       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_worklog_issue ON worklog_entries(issue_key)`,
	`CREATE INDEX IF NOT EXISTS idx_worklog_started ON worklog_entries(started_at)`,

	`CREATE TABLE IF NOT EXISTS issue_totals (
		issue_key       TEXT PRIMARY KEY,
		logged_seconds  INTEGER NOT NULL DEFAULT 0 CHECK(logged_seconds >= 0),
		entries         INTEGER NOT NULL DEFAULT 0,
		last_logged_at  TEXT
	)`,

	// Issue title captured at submission time for journal listings.
	`ALTER TABLE worklog_entries ADD COLUMN issue_title TEXT NOT NULL DEFAULT ''`,
}
