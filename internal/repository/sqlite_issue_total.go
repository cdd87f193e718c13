package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/jiratrack/internal/db"
	"github.com/alexanderramin/jiratrack/internal/domain"
)

// SQLiteIssueTotalRepo implements IssueTotalRepo using a SQLite database.
type SQLiteIssueTotalRepo struct {
	db db.DBTX
}

// NewSQLiteIssueTotalRepo creates a new SQLiteIssueTotalRepo.
func NewSQLiteIssueTotalRepo(conn db.DBTX) *SQLiteIssueTotalRepo {
	return &SQLiteIssueTotalRepo{db: conn}
}

// Add increments the issue's total, creating the row on first use.
// last_logged_at only moves forward.
func (r *SQLiteIssueTotalRepo) Add(ctx context.Context, issueKey string, seconds int, at time.Time) error {
	if seconds < 0 {
		return fmt.Errorf("adding %d seconds to %s: negative duration", seconds, issueKey)
	}
	query := `INSERT INTO issue_totals (issue_key, logged_seconds, entries, last_logged_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(issue_key) DO UPDATE SET
			logged_seconds = logged_seconds + excluded.logged_seconds,
			entries        = entries + 1,
			last_logged_at = MAX(COALESCE(last_logged_at, ''), excluded.last_logged_at)`
	if _, err := r.db.ExecContext(ctx, query, issueKey, seconds, formatTime(at)); err != nil {
		return fmt.Errorf("updating issue total: %w", err)
	}
	return nil
}

func (r *SQLiteIssueTotalRepo) Get(ctx context.Context, issueKey string) (*domain.IssueTotal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT issue_key, logged_seconds, entries, last_logged_at FROM issue_totals WHERE issue_key = ?`,
		issueKey)
	t, err := scanIssueTotal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("issue total %s: %w", issueKey, ErrNotFound)
	}
	return t, err
}

// List returns totals ordered by most logged time first.
func (r *SQLiteIssueTotalRepo) List(ctx context.Context) ([]*domain.IssueTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT issue_key, logged_seconds, entries, last_logged_at FROM issue_totals
		ORDER BY logged_seconds DESC, issue_key`)
	if err != nil {
		return nil, fmt.Errorf("listing issue totals: %w", err)
	}
	defer rows.Close()

	var totals []*domain.IssueTotal
	for rows.Next() {
		t, err := scanIssueTotal(rows)
		if err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating issue totals: %w", err)
	}
	return totals, nil
}

func scanIssueTotal(row rowScanner) (*domain.IssueTotal, error) {
	var (
		t    domain.IssueTotal
		last sql.NullString
	)
	if err := row.Scan(&t.IssueKey, &t.LoggedSeconds, &t.Entries, &last); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning issue total: %w", err)
	}
	t.LastLoggedAt = parseNullableTime(last)
	return &t, nil
}
