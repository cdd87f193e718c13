package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/jiratrack/internal/domain"
	"github.com/alexanderramin/jiratrack/internal/search"
	"github.com/alexanderramin/jiratrack/internal/session"
	"github.com/alexanderramin/jiratrack/internal/statestore"
	"github.com/alexanderramin/jiratrack/internal/tracker"
)

// failedLookback is how far back Start looks for failed submissions.
const failedLookback = 7 * 24 * time.Hour

// ControllerDeps are the collaborators of a Controller. Journal and
// Clipboard may be nil.
type ControllerDeps struct {
	Tracker   tracker.Client
	Store     statestore.Store
	Journal   JournalService
	Clipboard Clipboard
	Clock     session.Clock
	Project   string
}

// ActivePanel describes the issue currently being timed.
type ActivePanel struct {
	Key     string
	Title   string
	Since   time.Time
	Elapsed time.Duration
}

// ViewModel is a read-only snapshot of everything the renderer draws.
type ViewModel struct {
	Issues   []domain.Issue
	Cursor   int
	Query    string
	Active   *ActivePanel
	Notice   string
	Err      error
	Quitting bool
}

// Selected returns the highlighted issue, or nil when the view is empty.
func (v ViewModel) Selected() *domain.Issue {
	if v.Cursor < 0 || v.Cursor >= len(v.Issues) {
		return nil
	}
	issue := v.Issues[v.Cursor]
	return &issue
}

// Controller owns the session: the cached sprint issues, the search query,
// the cursor and the activation state. It is driven by one goroutine.
type Controller struct {
	tracker   tracker.Client
	store     statestore.Store
	journal   JournalService
	clipboard Clipboard
	clock     session.Clock
	project   string
	observer  UseCaseObserver

	state    *session.State
	issues   []domain.Issue
	query    string
	cursor   int
	active   *domain.Issue
	notice   string
	lastErr  error
	quitting bool
}

func NewController(deps ControllerDeps, observers ...UseCaseObserver) *Controller {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Controller{
		tracker:   deps.Tracker,
		store:     deps.Store,
		journal:   deps.Journal,
		clipboard: deps.Clipboard,
		clock:     clock,
		project:   deps.Project,
		observer:  useCaseObserverOrNoop(observers),
		state:     session.New(clock),
	}
}

// Start loads the sprint issues and restores any persisted activation.
// It never writes the state file.
func (c *Controller) Start(ctx context.Context) error {
	if err := c.RefreshIssues(ctx); err != nil {
		return err
	}
	if err := c.Restore(ctx); err != nil {
		return err
	}
	c.noticeFailedSubmissions(ctx)
	return nil
}

// RefreshIssues replaces the cached issue list with the project's open
// sprint issues.
func (c *Controller) RefreshIssues(ctx context.Context) error {
	issues, err := c.tracker.SearchOpenSprintIssues(ctx, c.project)
	if err != nil {
		return fmt.Errorf("loading sprint issues: %w", err)
	}
	c.issues = issues
	if c.active != nil {
		if fresh := domain.FindIssue(issues, c.active.Key); fresh != nil {
			c.active = fresh
		}
	}
	c.clampCursor()
	return nil
}

// Restore loads the persisted record into the session state. An active issue
// missing from the sprint list is looked up individually.
func (c *Controller) Restore(ctx context.Context) error {
	rec, err := c.store.Load()
	if err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}
	if rec == nil {
		c.state.Restore("", time.Time{})
		c.active = nil
		return nil
	}
	key, since, ok := rec.Active()
	if !ok {
		c.state.Restore("", time.Time{})
		c.active = nil
		return nil
	}
	c.state.Restore(key, since)
	c.active = c.resolveIssue(ctx, key)
	if errors.Is(c.lastErr, tracker.ErrAuth) {
		return c.lastErr
	}
	return nil
}

func (c *Controller) resolveIssue(ctx context.Context, key string) *domain.Issue {
	if issue := domain.FindIssue(c.issues, key); issue != nil {
		return issue
	}
	issue, err := c.tracker.GetIssue(ctx, key)
	if err != nil {
		c.lastErr = fmt.Errorf("looking up %s: %w", key, err)
		return &domain.Issue{Key: key}
	}
	return issue
}

func (c *Controller) noticeFailedSubmissions(ctx context.Context) {
	if c.journal == nil {
		return
	}
	n, err := c.journal.FailedSince(ctx, c.clock().Add(-failedLookback))
	if err != nil || n == 0 {
		return
	}
	c.notice = fmt.Sprintf("%d worklog submission(s) failed in the last 7 days, see `jiratrack worklog list`", n)
}

// Handle applies one command. Errors are also kept for the view; they never
// roll back a state transition.
func (c *Controller) Handle(ctx context.Context, cmd Command) (err error) {
	if cmd.Kind.edits() {
		c.edit(cmd)
		return nil
	}

	startedAt := time.Now()
	fields := map[string]any{}
	defer func() {
		c.lastErr = err
		c.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "command." + cmd.Kind.String(),
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	c.notice = ""
	switch cmd.Kind {
	case CmdActivateSelected:
		return c.activateSelected(ctx, fields)
	case CmdSubmitWorklog:
		return c.submitActive(ctx, fields)
	case CmdDiscardActive:
		return c.discardActive(fields)
	case CmdCopyActiveSummary:
		return c.copyActiveSummary()
	case CmdAssignSelected:
		return c.assignSelected(ctx, fields)
	case CmdRefresh:
		if err := c.RefreshIssues(ctx); err != nil {
			return err
		}
		c.notice = fmt.Sprintf("Loaded %d issues", len(c.issues))
		return nil
	case CmdQuit:
		c.quitting = true
		return nil
	default:
		return fmt.Errorf("unknown command %d", cmd.Kind)
	}
}

func (c *Controller) edit(cmd Command) {
	switch cmd.Kind {
	case CmdMoveSelection:
		c.cursor += cmd.Delta
	case CmdAppendChar:
		c.query += string(cmd.Char)
	case CmdBackspace:
		if c.query == "" {
			return
		}
		r := []rune(c.query)
		c.query = string(r[:len(r)-1])
	}
	c.clampCursor()
}

func (c *Controller) activateSelected(ctx context.Context, fields map[string]any) error {
	ranked := search.Rank(c.issues, c.query)
	if len(ranked) == 0 {
		return nil
	}
	issue := ranked[c.cursor]
	fields["issue"] = issue.Key

	previous := c.active
	flushed := c.state.Activate(issue.Key)
	c.active = &issue

	var submitErr error
	if flushed != nil {
		fields["flushed"] = flushed.IssueKey
		submitErr = c.submit(ctx, *flushed, previous)
	}
	persistErr := c.persist()

	c.notice = "Tracking " + issue.Key
	if flushed != nil && submitErr == nil {
		c.notice = fmt.Sprintf("Logged %s to %s, tracking %s", humanDuration(flushed.Duration()), flushed.IssueKey, issue.Key)
	}
	return errors.Join(submitErr, persistErr)
}

func (c *Controller) submitActive(ctx context.Context, fields map[string]any) error {
	key, since, ok := c.state.Active()
	if !ok {
		return nil
	}
	fields["issue"] = key

	issue := c.active
	req := c.state.Deactivate()
	c.active = nil

	var submitErr error
	if req != nil {
		fields["seconds"] = domain.WholeSeconds(req.StartedAt, req.EndedAt)
		submitErr = c.submit(ctx, *req, issue)
	}
	persistErr := c.persist()

	switch {
	case req == nil:
		c.notice = fmt.Sprintf("Stopped %s after %s, nothing logged (under a minute)",
			key, humanDuration(c.clock().Sub(since)))
	case submitErr == nil:
		c.notice = fmt.Sprintf("Logged %s to %s", humanDuration(req.Duration()), key)
	}
	return errors.Join(submitErr, persistErr)
}

func (c *Controller) discardActive(fields map[string]any) error {
	key, _, ok := c.state.Active()
	if !ok {
		return nil
	}
	fields["issue"] = key
	c.state.Discard()
	c.active = nil
	if err := c.persist(); err != nil {
		return err
	}
	c.notice = "Discarded timer for " + key
	return nil
}

func (c *Controller) copyActiveSummary() error {
	if c.active == nil || !c.state.IsActive() {
		return nil
	}
	if c.clipboard == nil {
		return ErrClipboardUnavailable
	}
	text := strings.TrimSpace(c.active.Summary())
	if err := c.clipboard.WriteText(text); err != nil {
		if errors.Is(err, ErrClipboardUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}
	c.notice = "Copied " + text
	return nil
}

func (c *Controller) assignSelected(ctx context.Context, fields map[string]any) error {
	ranked := search.Rank(c.issues, c.query)
	if len(ranked) == 0 {
		return nil
	}
	key := ranked[c.cursor].Key
	fields["issue"] = key
	if err := c.tracker.AssignToCurrentUser(ctx, key); err != nil {
		return fmt.Errorf("assigning %s: %w", key, err)
	}
	if err := c.RefreshIssues(ctx); err != nil {
		return err
	}
	c.notice = "Assigned " + key + " to you"
	return nil
}

// submit sends the worklog and journals the attempt.
func (c *Controller) submit(ctx context.Context, req session.WorklogRequest, issue *domain.Issue) error {
	err := c.tracker.LogTime(ctx, req.IssueKey, req.StartedAt, req.EndedAt)
	if err != nil {
		err = fmt.Errorf("logging time to %s: %w", req.IssueKey, err)
	}
	if c.journal == nil {
		return err
	}
	attempt := WorklogAttempt{
		IssueKey:  req.IssueKey,
		StartedAt: req.StartedAt,
		EndedAt:   req.EndedAt,
		Err:       err,
	}
	if issue != nil && issue.Key == req.IssueKey {
		attempt.IssueTitle = issue.Title
	}
	if _, jerr := c.journal.Record(ctx, attempt); jerr != nil {
		return errors.Join(err, fmt.Errorf("journaling worklog: %w", jerr))
	}
	return err
}

func (c *Controller) persist() error {
	rec := statestore.IdleRecord()
	if key, since, ok := c.state.Active(); ok {
		rec = statestore.ActiveRecord(key, since)
	}
	if err := c.store.Save(rec); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (c *Controller) clampCursor() {
	n := len(search.Rank(c.issues, c.query))
	if c.cursor >= n {
		c.cursor = n - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
}

// View returns the current view model.
func (c *Controller) View() ViewModel {
	v := ViewModel{
		Issues:   search.Rank(c.issues, c.query),
		Cursor:   c.cursor,
		Query:    c.query,
		Notice:   c.notice,
		Err:      c.lastErr,
		Quitting: c.quitting,
	}
	if key, since, ok := c.state.Active(); ok {
		elapsed, _ := c.state.Elapsed()
		panel := &ActivePanel{Key: key, Since: since, Elapsed: elapsed}
		if c.active != nil {
			panel.Title = c.active.Title
		}
		v.Active = panel
	}
	return v
}

// Quitting reports whether Quit has been handled.
func (c *Controller) Quitting() bool {
	return c.quitting
}

func humanDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
