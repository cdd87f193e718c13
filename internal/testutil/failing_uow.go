package testutil

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alexanderramin/jiratrack/internal/db"
)

// FailOnNthExecUoW is a real transaction whose FailOn-th write (1-based)
// returns Err. Execs counts writes attempted in the last WithinTx.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error

	Execs int
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	u.Execs = 0
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingTx{DBTX: tx, uow: u})
	})
}

type failingTx struct {
	db.DBTX
	uow *FailOnNthExecUoW
}

var errInjected = errors.New("injected failure")

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.uow.Execs++
	if f.uow.Execs == f.uow.FailOn {
		if f.uow.Err == nil {
			return nil, errInjected
		}
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
