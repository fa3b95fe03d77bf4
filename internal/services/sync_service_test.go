package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/amellido/triagetui/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// recordingListener captures synchronizer callbacks.
type recordingListener struct {
	mu           sync.Mutex
	snapshots    []Snapshot
	connectivity []bool
}

func (l *recordingListener) SnapshotUpdated(snap Snapshot) {
	l.mu.Lock()
	l.snapshots = append(l.snapshots, snap)
	l.mu.Unlock()
}

func (l *recordingListener) ConnectivityChanged(connected bool) {
	l.mu.Lock()
	l.connectivity = append(l.connectivity, connected)
	l.mu.Unlock()
}

func (l *recordingListener) lastSnapshot() (Snapshot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.snapshots) == 0 {
		return Snapshot{}, false
	}
	return l.snapshots[len(l.snapshots)-1], true
}

func newSyncFixture() (*SyncServiceImpl, *fakeBackend, *fakeNotifier, *recordingListener) {
	backend := &fakeBackend{
		emails: []models.EmailRecord{
			{ID: 1, Sender: "ana@example.com", Subject: "Login broken", Status: models.StatusPending, Priority: models.PriorityUrgent},
			{ID: 42, Sender: "bo@example.com", Subject: "Thanks!", Status: models.StatusPending, Priority: models.PriorityNormal},
		},
		analytics: models.AnalyticsSnapshot{TotalEmails: 2, UrgentEmails: 1, PendingEmails: 2},
	}
	notifier := &fakeNotifier{}
	listener := &recordingListener{}
	svc := NewSyncService(backend, notifier, 0, testLogger())
	svc.SetListener(listener)
	return svc, backend, notifier, listener
}

func TestSyncService_RefreshReplacesSnapshotAtomically(t *testing.T) {
	svc, _, _, listener := newSyncFixture()

	_, ok := svc.Snapshot()
	assert.False(t, ok, "no snapshot before first refresh")

	require.NoError(t, svc.Refresh(context.Background()))

	snap, ok := svc.Snapshot()
	require.True(t, ok)
	assert.Len(t, snap.Emails, 2)
	assert.Equal(t, 2, snap.Analytics.TotalEmails)
	assert.True(t, svc.Connected())

	// The listener sees the same paired snapshot, never halves from
	// different cycles.
	got, ok := listener.lastSnapshot()
	require.True(t, ok)
	assert.Equal(t, snap.Emails, got.Emails)
	assert.Equal(t, snap.Analytics, got.Analytics)
}

func TestSyncService_ListFailureKeepsCachedSnapshot(t *testing.T) {
	svc, backend, notifier, _ := newSyncFixture()
	require.NoError(t, svc.Refresh(context.Background()))
	before, _ := svc.Snapshot()

	backend.mu.Lock()
	backend.listErr = errors.New("connection refused")
	backend.mu.Unlock()

	err := svc.Refresh(context.Background())
	require.Error(t, err)

	after, ok := svc.Snapshot()
	require.True(t, ok)
	assert.Equal(t, before.Emails, after.Emails, "stale cache kept intact")
	assert.False(t, svc.Connected())

	recorded := notifier.recorded()
	require.NotEmpty(t, recorded)
	assert.Equal(t, NotifyError, recorded[len(recorded)-1].Kind)
}

func TestSyncService_AnalyticsFailureMeansNoPartialUpdate(t *testing.T) {
	svc, backend, _, listener := newSyncFixture()
	require.NoError(t, svc.Refresh(context.Background()))

	backend.mu.Lock()
	backend.emails = []models.EmailRecord{{ID: 99, Sender: "new@example.com"}}
	backend.analyticsErr = errors.New("boom")
	backend.mu.Unlock()

	require.Error(t, svc.Refresh(context.Background()))

	// The new email list was fetched but must not be visible: both halves
	// come from the same successful cycle or not at all.
	snap, ok := svc.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 1, snap.Emails[0].ID)

	got, _ := listener.lastSnapshot()
	assert.Equal(t, 1, got.Emails[0].ID)
}

func TestSyncService_OverlappingRefreshesCoalesce(t *testing.T) {
	svc, backend, _, _ := newSyncFixture()
	gate := make(chan struct{})
	backend.mu.Lock()
	backend.listGate = gate
	backend.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- svc.Refresh(context.Background()) }()

	assert.Eventually(t, func() bool {
		list, _, _, _, _, _, _ := backend.counts()
		return list == 1
	}, time.Second, 5*time.Millisecond)

	// Several requests while one is in flight collapse into one follow-up.
	assert.NoError(t, svc.Refresh(context.Background()))
	assert.NoError(t, svc.Refresh(context.Background()))
	assert.NoError(t, svc.Refresh(context.Background()))

	backend.mu.Lock()
	backend.listGate = nil
	backend.mu.Unlock()
	close(gate)

	require.NoError(t, <-done)

	list, _, _, _, _, _, _ := backend.counts()
	assert.Equal(t, 2, list, "one in-flight cycle plus exactly one coalesced follow-up")
}

func TestSyncService_EmailStatusFromSnapshot(t *testing.T) {
	svc, backend, _, _ := newSyncFixture()
	require.NoError(t, svc.Refresh(context.Background()))

	st, ok := svc.EmailStatus(42)
	require.True(t, ok)
	assert.Equal(t, models.StatusPending, st)

	_, ok = svc.EmailStatus(12345)
	assert.False(t, ok)

	// After the backend resolves the email, the next refresh reflects it.
	backend.mu.Lock()
	backend.emails[1].Status = models.StatusResolved
	backend.mu.Unlock()
	require.NoError(t, svc.Refresh(context.Background()))

	st, ok = svc.EmailStatus(42)
	require.True(t, ok)
	assert.Equal(t, models.StatusResolved, st)
}

func TestSyncService_EmptyListIsAValidSnapshot(t *testing.T) {
	svc, backend, _, _ := newSyncFixture()
	backend.mu.Lock()
	backend.emails = []models.EmailRecord{}
	backend.analytics = models.AnalyticsSnapshot{}
	backend.mu.Unlock()

	require.NoError(t, svc.Refresh(context.Background()))

	snap, ok := svc.Snapshot()
	require.True(t, ok)
	assert.Empty(t, snap.Emails)
	assert.True(t, svc.Connected())
}

func TestSyncService_SubmitEmail_ValidatesBeforeNetwork(t *testing.T) {
	svc, backend, notifier, _ := newSyncFixture()

	err := svc.SubmitEmail(context.Background(), models.EmailDraft{Sender: "x@example.com"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "subject")
	assert.Contains(t, err.Error(), "body")

	_, _, _, process, _, _, _ := backend.counts()
	assert.Equal(t, 0, process, "rejected drafts never reach the network")

	recorded := notifier.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, NotifyWarning, recorded[0].Kind)
}

func TestSyncService_SubmitEmail_SuccessRefreshes(t *testing.T) {
	svc, backend, _, _ := newSyncFixture()

	draft := models.EmailDraft{Sender: "x@example.com", Subject: "Hi", Body: "Need help"}
	require.NoError(t, svc.SubmitEmail(context.Background(), draft))

	list, _, _, process, _, _, _ := backend.counts()
	assert.Equal(t, 1, process)
	assert.Equal(t, draft, backend.lastDraft)
	assert.Equal(t, 1, list, "successful submission triggers a refresh")
}

func TestSyncService_SubmitEmail_FailureDoesNotRefresh(t *testing.T) {
	svc, backend, notifier, _ := newSyncFixture()
	backend.processErr = errors.New("boom")

	draft := models.EmailDraft{Sender: "x@example.com", Subject: "Hi", Body: "Need help"}
	require.Error(t, svc.SubmitEmail(context.Background(), draft))

	list, _, _, _, _, _, _ := backend.counts()
	assert.Equal(t, 0, list, "failed mutation must not refresh, to avoid masking the error")
	recorded := notifier.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, NotifyError, recorded[0].Kind)
}

func TestSyncService_LoadSampleData(t *testing.T) {
	svc, backend, _, _ := newSyncFixture()

	require.NoError(t, svc.LoadSampleData(context.Background()))
	list, _, _, _, _, _, sample := backend.counts()
	assert.Equal(t, 1, sample)
	assert.Equal(t, 1, list)

	backend.mu.Lock()
	backend.sampleErr = errors.New("csv missing")
	backend.mu.Unlock()
	require.Error(t, svc.LoadSampleData(context.Background()))
	list, _, _, _, _, _, sample = backend.counts()
	assert.Equal(t, 2, sample)
	assert.Equal(t, 1, list, "no refresh after a failed load")
}

func TestSyncService_FilterSwitchesListEndpoint(t *testing.T) {
	svc, backend, _, _ := newSyncFixture()

	svc.SetFilter(context.Background(), models.EmailFilter{Priority: models.PriorityUrgent})

	list, filter, _, _, _, _, _ := backend.counts()
	assert.Equal(t, 0, list)
	assert.Equal(t, 1, filter)
	assert.Equal(t, models.PriorityUrgent, backend.lastFilter.Priority)

	// Clearing the filter goes back to the plain list endpoint.
	svc.SetFilter(context.Background(), models.EmailFilter{})
	list, filter, _, _, _, _, _ = backend.counts()
	assert.Equal(t, 1, list)
	assert.Equal(t, 1, filter)
}

func TestSyncService_PeriodicCycleStartsAndStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("time.Sleep"))

	backend := &fakeBackend{analytics: models.AnalyticsSnapshot{}}
	svc := NewSyncService(backend, &fakeNotifier{}, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	assert.Eventually(t, func() bool {
		list, _, _, _, _, _, _ := backend.counts()
		return list >= 2
	}, time.Second, 5*time.Millisecond, "startup refresh plus at least one periodic tick")

	svc.Stop()
}

func TestSyncService_RefreshAfterStopIsRejected(t *testing.T) {
	svc, backend, _, _ := newSyncFixture()
	svc.Stop()

	assert.ErrorIs(t, svc.Refresh(context.Background()), ErrSyncStopped)

	list, filter, analytics, _, _, _, _ := backend.counts()
	assert.Zero(t, list)
	assert.Zero(t, filter)
	assert.Zero(t, analytics)
}
