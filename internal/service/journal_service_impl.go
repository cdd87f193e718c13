package service

import (
	"context"
	"time"

	"github.com/alexanderramin/jiratrack/internal/db"
	"github.com/alexanderramin/jiratrack/internal/domain"
	"github.com/alexanderramin/jiratrack/internal/repository"
	"github.com/google/uuid"
)

type journalService struct {
	worklogs repository.WorklogRepo
	totals   repository.IssueTotalRepo
	uow      db.UnitOfWork
	now      func() time.Time
	observer UseCaseObserver
}

func NewJournalService(
	worklogs repository.WorklogRepo,
	totals repository.IssueTotalRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) JournalService {
	return &journalService{
		worklogs: worklogs,
		totals:   totals,
		uow:      uow,
		now:      time.Now,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Record stores the attempt and, when it succeeded, adds its seconds to the
// issue total in the same transaction.
func (s *journalService) Record(ctx context.Context, a WorklogAttempt) (entry *domain.WorklogEntry, err error) {
	startedAt := s.now().UTC()
	fields := map[string]any{"issue": a.IssueKey}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "journal-record",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	entry = &domain.WorklogEntry{
		ID:         uuid.New().String(),
		IssueKey:   a.IssueKey,
		IssueTitle: a.IssueTitle,
		StartedAt:  a.StartedAt,
		EndedAt:    a.EndedAt,
		Seconds:    domain.WholeSeconds(a.StartedAt, a.EndedAt),
		Status:     domain.WorklogSubmitted,
		CreatedAt:  startedAt,
	}
	if a.Err != nil {
		entry.Status = domain.WorklogFailed
		entry.Error = a.Err.Error()
	}
	fields["seconds"] = entry.Seconds
	fields["status"] = string(entry.Status)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteWorklogRepo(tx).Create(ctx, entry); err != nil {
			return err
		}
		if entry.Status != domain.WorklogSubmitted {
			return nil
		}
		return repository.NewSQLiteIssueTotalRepo(tx).Add(ctx, entry.IssueKey, entry.Seconds, entry.EndedAt)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListRecent returns entries started within the last days (all when
// days <= 0), optionally for one issue.
func (s *journalService) ListRecent(ctx context.Context, days int, issueKey string) ([]*domain.WorklogEntry, error) {
	f := repository.WorklogFilter{IssueKey: issueKey}
	if days > 0 {
		f.Since = s.now().AddDate(0, 0, -days)
	}
	return s.worklogs.List(ctx, f)
}

func (s *journalService) Summary(ctx context.Context) ([]*domain.IssueTotal, error) {
	return s.totals.List(ctx)
}

func (s *journalService) FailedSince(ctx context.Context, since time.Time) (int, error) {
	return s.worklogs.CountFailed(ctx, since)
}
