package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/jiratrack/internal/db"
	"github.com/alexanderramin/jiratrack/internal/domain"
)

// SQLiteWorklogRepo implements WorklogRepo using a SQLite database.
type SQLiteWorklogRepo struct {
	db db.DBTX
}

// NewSQLiteWorklogRepo creates a new SQLiteWorklogRepo.
func NewSQLiteWorklogRepo(conn db.DBTX) *SQLiteWorklogRepo {
	return &SQLiteWorklogRepo{db: conn}
}

const worklogColumns = `id, issue_key, issue_title, started_at, ended_at, seconds, status, error, created_at`

func (r *SQLiteWorklogRepo) Create(ctx context.Context, e *domain.WorklogEntry) error {
	query := `INSERT INTO worklog_entries (` + worklogColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.IssueKey,
		e.IssueTitle,
		formatTime(e.StartedAt),
		formatTime(e.EndedAt),
		e.Seconds,
		string(e.Status),
		e.Error,
		formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting worklog entry: %w", err)
	}
	return nil
}

func (r *SQLiteWorklogRepo) GetByID(ctx context.Context, id string) (*domain.WorklogEntry, error) {
	query := `SELECT ` + worklogColumns + ` FROM worklog_entries WHERE id = ?`
	e, err := scanWorklog(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("worklog entry %s: %w", id, ErrNotFound)
	}
	return e, err
}

// List returns entries newest first.
func (r *SQLiteWorklogRepo) List(ctx context.Context, f WorklogFilter) ([]*domain.WorklogEntry, error) {
	var (
		where []string
		args  []any
	)
	if f.IssueKey != "" {
		where = append(where, "issue_key = ?")
		args = append(args, f.IssueKey)
	}
	if !f.Since.IsZero() {
		where = append(where, "started_at >= ?")
		args = append(args, formatTime(f.Since))
	}

	query := `SELECT ` + worklogColumns + ` FROM worklog_entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY started_at DESC, created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing worklog entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.WorklogEntry
	for rows.Next() {
		e, err := scanWorklog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating worklog entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteWorklogRepo) CountFailed(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM worklog_entries WHERE status = ? AND started_at >= ?`,
		string(domain.WorklogFailed), formatTime(since),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting failed worklogs: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorklog(row rowScanner) (*domain.WorklogEntry, error) {
	var (
		e                         domain.WorklogEntry
		status                    string
		started, ended, createdAt string
	)
	err := row.Scan(&e.ID, &e.IssueKey, &e.IssueTitle, &started, &ended, &e.Seconds, &status, &e.Error, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning worklog entry: %w", err)
	}
	e.Status = domain.WorklogStatus(status)

	if e.StartedAt, err = parseTime(started); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if e.EndedAt, err = parseTime(ended); err != nil {
		return nil, fmt.Errorf("parsing ended_at: %w", err)
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &e, nil
}
