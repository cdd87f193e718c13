package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/jiratrack/internal/domain"
	"github.com/alexanderramin/jiratrack/internal/statestore"
	"github.com/alexanderramin/jiratrack/internal/testutil"
	"github.com/alexanderramin/jiratrack/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type controllerFixture struct {
	ctrl      *Controller
	tracker   *testutil.FakeTracker
	store     *testutil.MemoryStore
	clock     *testutil.FakeClock
	clipboard *testutil.FakeClipboard
}

func newFixture(t *testing.T, issues ...domain.Issue) *controllerFixture {
	t.Helper()
	f := &controllerFixture{
		tracker:   &testutil.FakeTracker{Issues: issues},
		store:     &testutil.MemoryStore{},
		clock:     testutil.NewFakeClock(t0),
		clipboard: &testutil.FakeClipboard{},
	}
	f.ctrl = NewController(ControllerDeps{
		Tracker:   f.tracker,
		Store:     f.store,
		Clipboard: f.clipboard,
		Clock:     f.clock.Now,
		Project:   "IMG",
	})
	return f
}

func (f *controllerFixture) start(t *testing.T) {
	t.Helper()
	require.NoError(t, f.ctrl.Start(context.Background()))
}

func (f *controllerFixture) handle(t *testing.T, cmds ...Command) {
	t.Helper()
	for _, cmd := range cmds {
		require.NoError(t, f.ctrl.Handle(context.Background(), cmd))
	}
}

func (f *controllerFixture) typeQuery(t *testing.T, q string) {
	t.Helper()
	for _, r := range q {
		f.handle(t, AppendChar(r))
	}
}

func loginIssues() []domain.Issue {
	return []domain.Issue{
		testutil.NewTestIssue("Fix login bug", testutil.WithKey("A")),
		testutil.NewTestIssue("Fix logout", testutil.WithKey("B")),
	}
}

func TestStart_LoadsIssuesIdle(t *testing.T) {
	f := newFixture(t, loginIssues()...)

	f.start(t)

	v := f.ctrl.View()
	assert.Len(t, v.Issues, 2)
	assert.Nil(t, v.Active)
	assert.Equal(t, []string{"IMG"}, f.tracker.Searches)
	assert.Zero(t, f.store.Saves, "startup never writes state")
}

func TestStart_TrackerErrorsAreFatal(t *testing.T) {
	for _, sentinel := range []error{tracker.ErrNetwork, tracker.ErrAuth, tracker.ErrMalformedResponse} {
		t.Run(sentinel.Error(), func(t *testing.T) {
			f := newFixture(t)
			f.tracker.SearchErr = sentinel

			err := f.ctrl.Start(context.Background())

			assert.ErrorIs(t, err, sentinel)
			assert.Zero(t, f.store.Saves)
		})
	}
}

func TestStart_CorruptStateIsFatal(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.store.LoadErr = statestore.ErrCorruptState

	err := f.ctrl.Start(context.Background())

	assert.ErrorIs(t, err, statestore.ErrCorruptState)
	assert.Zero(t, f.store.Saves)
}

func TestStart_RestoresActiveIssue(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	rec := statestore.ActiveRecord("B", t0.Add(-10*time.Minute))
	f.store.Record = &rec

	f.start(t)

	v := f.ctrl.View()
	require.NotNil(t, v.Active)
	assert.Equal(t, "B", v.Active.Key)
	assert.Equal(t, "Fix logout", v.Active.Title)
	assert.Equal(t, 10*time.Minute, v.Active.Elapsed)
	assert.Empty(t, f.tracker.Fetched)
}

func TestStart_RestoresIssueOutsideSprint(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.tracker.Extra = map[string]domain.Issue{
		"OLD-7": {ID: "7", Key: "OLD-7", Title: "Carry-over task", TimeSpent: "2h"},
	}
	rec := statestore.ActiveRecord("OLD-7", t0.Add(-time.Hour))
	f.store.Record = &rec

	f.start(t)

	v := f.ctrl.View()
	require.NotNil(t, v.Active)
	assert.Equal(t, "Carry-over task", v.Active.Title)
	assert.Equal(t, []string{"OLD-7"}, f.tracker.Fetched)
}

func TestStart_RestoredIssueLookupFailureKeepsTimer(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	rec := statestore.ActiveRecord("GONE-1", t0.Add(-time.Hour))
	f.store.Record = &rec

	f.start(t)

	v := f.ctrl.View()
	require.NotNil(t, v.Active)
	assert.Equal(t, "GONE-1", v.Active.Key)
	assert.Empty(t, v.Active.Title)
	assert.ErrorIs(t, v.Err, tracker.ErrNotFound)
}

func TestStart_RestoredIssueAuthFailureIsFatal(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.tracker.GetErr = tracker.ErrAuth
	rec := statestore.ActiveRecord("GONE-1", t0.Add(-time.Hour))
	f.store.Record = &rec

	err := f.ctrl.Start(context.Background())

	assert.ErrorIs(t, err, tracker.ErrAuth)
}

func TestQuery_FiltersAndRanks(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)

	f.typeQuery(t, "login")

	v := f.ctrl.View()
	require.Len(t, v.Issues, 1)
	assert.Equal(t, "A", v.Issues[0].Key)
	assert.Equal(t, "login", v.Query)
}

func TestQuery_BackspaceOnEmptyIsNoop(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)

	f.handle(t, Backspace())
	assert.Equal(t, "", f.ctrl.View().Query)

	f.typeQuery(t, "lö")
	f.handle(t, Backspace())
	assert.Equal(t, "l", f.ctrl.View().Query)
}

func TestMoveSelection_Clamps(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)

	f.handle(t, MoveSelection(-1))
	assert.Equal(t, 0, f.ctrl.View().Cursor)

	f.handle(t, MoveSelection(1), MoveSelection(1), MoveSelection(1))
	assert.Equal(t, 1, f.ctrl.View().Cursor)
}

func TestCursor_ReclampedAfterQueryChange(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)
	f.handle(t, MoveSelection(1))

	f.typeQuery(t, "login")

	v := f.ctrl.View()
	assert.Equal(t, 0, v.Cursor)
	assert.Equal(t, "A", v.Selected().Key)
}

func TestCursor_EmptyViewHasNoSelection(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)

	f.typeQuery(t, "zzz")

	v := f.ctrl.View()
	assert.Empty(t, v.Issues)
	assert.Nil(t, v.Selected())
	f.handle(t, ActivateSelected())
	assert.Nil(t, f.ctrl.View().Active)
	assert.Zero(t, f.store.Saves)
}

func TestActivate_UsesRankedView(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)
	f.typeQuery(t, "logout")

	f.handle(t, ActivateSelected())

	v := f.ctrl.View()
	require.NotNil(t, v.Active)
	assert.Equal(t, "B", v.Active.Key)
	require.NotNil(t, f.store.Record)
	key, since, ok := f.store.Record.Active()
	assert.True(t, ok)
	assert.Equal(t, "B", key)
	assert.True(t, t0.Equal(since))
}

func TestSubmit_LogsElapsedTime(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)
	f.handle(t, ActivateSelected())

	f.clock.Advance(90 * time.Second)
	f.handle(t, SubmitWorklog())

	require.Len(t, f.tracker.Logged, 1)
	call := f.tracker.Logged[0]
	assert.Equal(t, "A", call.Key)
	assert.True(t, t0.Equal(call.StartedAt))
	assert.True(t, t0.Add(90*time.Second).Equal(call.EndedAt))

	v := f.ctrl.View()
	assert.Nil(t, v.Active)
	assert.Equal(t, "Logged 1m to A", v.Notice)
	_, _, ok := f.store.Record.Active()
	assert.False(t, ok)
}

func TestSubmit_MinimumDuration(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		calls   int
	}{
		{"59s", 59 * time.Second, 0},
		{"60s", 60 * time.Second, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, loginIssues()...)
			f.start(t)
			f.handle(t, ActivateSelected())

			f.clock.Advance(tt.elapsed)
			f.handle(t, SubmitWorklog())

			assert.Len(t, f.tracker.Logged, tt.calls)
			assert.Nil(t, f.ctrl.View().Active)
		})
	}
}

func TestSubmit_IdleIsNoop(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)

	f.handle(t, SubmitWorklog())

	assert.Empty(t, f.tracker.Logged)
	assert.Zero(t, f.store.Saves)
}

func TestSubmit_ErrorDoesNotRevertState(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)
	f.handle(t, ActivateSelected())
	f.tracker.LogErr = tracker.ErrNetwork

	f.clock.Advance(5 * time.Minute)
	err := f.ctrl.Handle(context.Background(), SubmitWorklog())

	assert.ErrorIs(t, err, tracker.ErrNetwork)
	v := f.ctrl.View()
	assert.Nil(t, v.Active)
	assert.ErrorIs(t, v.Err, tracker.ErrNetwork)
	assert.False(t, v.Quitting)
	_, _, ok := f.store.Record.Active()
	assert.False(t, ok, "idle state is persisted despite the failure")
}

func TestSubmit_PersistFailureJoinedWithSuccess(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)
	f.handle(t, ActivateSelected())
	saveErr := errors.New("read-only filesystem")
	f.store.SaveErr = saveErr

	f.clock.Advance(2 * time.Minute)
	err := f.ctrl.Handle(context.Background(), SubmitWorklog())

	assert.ErrorIs(t, err, saveErr)
	assert.Len(t, f.tracker.Logged, 1)
}

func TestActivate_SwitchFlushesPrevious(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)
	f.handle(t, ActivateSelected())

	f.clock.Advance(10 * time.Minute)
	f.handle(t, MoveSelection(1), ActivateSelected())

	require.Len(t, f.tracker.Logged, 1)
	assert.Equal(t, "A", f.tracker.Logged[0].Key)
	assert.True(t, t0.Add(10*time.Minute).Equal(f.tracker.Logged[0].EndedAt))

	v := f.ctrl.View()
	require.NotNil(t, v.Active)
	assert.Equal(t, "B", v.Active.Key)
	assert.Equal(t, time.Duration(0), v.Active.Elapsed)
}

func TestDiscard_NoNetwork(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)
	f.handle(t, ActivateSelected())

	f.clock.Advance(90 * time.Second)
	f.handle(t, DiscardActive())

	assert.Empty(t, f.tracker.Logged)
	assert.Nil(t, f.ctrl.View().Active)
	_, _, ok := f.store.Record.Active()
	assert.False(t, ok)
}

func TestCopySummary(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)

	f.handle(t, CopyActiveSummary())
	assert.Empty(t, f.clipboard.Text, "idle copy is a no-op")

	f.handle(t, ActivateSelected(), CopyActiveSummary())
	assert.Equal(t, "[A] Fix login bug", f.clipboard.Text)
}

func TestCopySummary_UnavailableIsNonFatal(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)
	f.handle(t, ActivateSelected())
	f.clipboard.Err = errors.New("no display")

	err := f.ctrl.Handle(context.Background(), CopyActiveSummary())

	assert.ErrorIs(t, err, ErrClipboardUnavailable)
	v := f.ctrl.View()
	assert.False(t, v.Quitting)
	assert.NotNil(t, v.Active)
}

func TestAssignSelected(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)
	f.handle(t, MoveSelection(1))

	f.handle(t, AssignSelected())

	assert.Equal(t, []string{"B"}, f.tracker.Assigned)
	assert.Len(t, f.tracker.Searches, 2, "assignment refreshes the list")
	assert.Equal(t, "Assigned B to you", f.ctrl.View().Notice)
}

func TestActivateNeverAssigns(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)

	f.handle(t, ActivateSelected())

	assert.Empty(t, f.tracker.Assigned)
}

func TestRefresh_FailureIsNonFatal(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)
	f.tracker.SearchErr = tracker.ErrNetwork

	err := f.ctrl.Handle(context.Background(), Refresh())

	assert.ErrorIs(t, err, tracker.ErrNetwork)
	assert.Len(t, f.ctrl.View().Issues, 2, "cache kept")
}

func TestQuit_KeepsTimerRunning(t *testing.T) {
	f := newFixture(t, loginIssues()...)
	f.start(t)
	f.handle(t, ActivateSelected())
	saves := f.store.Saves

	f.handle(t, Quit())

	assert.True(t, f.ctrl.Quitting())
	assert.Empty(t, f.tracker.Logged)
	assert.Equal(t, saves, f.store.Saves)
	_, _, ok := f.store.Record.Active()
	assert.True(t, ok)
}

type recordingObserver struct {
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.events = append(o.events, e)
}

func TestHandle_ObservesActionCommands(t *testing.T) {
	obs := &recordingObserver{}
	tr := &testutil.FakeTracker{Issues: loginIssues()}
	ctrl := NewController(ControllerDeps{
		Tracker: tr,
		Store:   &testutil.MemoryStore{},
		Clock:   testutil.NewFakeClock(t0).Now,
		Project: "IMG",
	}, obs)
	require.NoError(t, ctrl.Start(context.Background()))
	ctx := context.Background()

	require.NoError(t, ctrl.Handle(ctx, AppendChar('l')))
	require.NoError(t, ctrl.Handle(ctx, ActivateSelected()))

	require.Len(t, obs.events, 1)
	assert.Equal(t, "command.activate", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, "A", obs.events[0].Fields["issue"])
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "59s", humanDuration(59*time.Second))
	assert.Equal(t, "1m", humanDuration(90*time.Second))
	assert.Equal(t, "2h 5m", humanDuration(2*time.Hour+5*time.Minute+30*time.Second))
}
