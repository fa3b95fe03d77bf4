package services

import (
	"context"
	"sync"
	"time"

	"github.com/amellido/triagetui/internal/models"
	"github.com/rs/zerolog"
)

// SyncServiceImpl implements SyncService. It owns the only authoritative
// copy of backend state on the client and is the single writer of the cached
// snapshot.
//
// Refresh is single-flight with coalescing: a Refresh entered while one is
// already running sets a pending bit and returns; the in-flight run executes
// exactly one follow-up cycle afterwards, and any number of requests during
// that window collapse into the same follow-up.
type SyncServiceImpl struct {
	mu       sync.Mutex
	client   BackendClient
	notifier NotificationService
	logger   zerolog.Logger
	interval time.Duration

	snapshot  *Snapshot
	connected bool
	filter    models.EmailFilter
	listener  SyncListener

	refreshing bool
	pending    bool

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSyncService creates the synchronizer. interval is the periodic refresh
// cadence; zero disables the timer (tests drive Refresh directly).
func NewSyncService(client BackendClient, notifier NotificationService, interval time.Duration, logger zerolog.Logger) *SyncServiceImpl {
	return &SyncServiceImpl{
		client:   client,
		notifier: notifier,
		logger:   logger.With().Str("component", "sync").Logger(),
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// SetListener registers the view-facing sink. Called during wiring.
func (s *SyncServiceImpl) SetListener(listener SyncListener) {
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
}

// Start performs the startup refresh and begins the periodic cycle.
func (s *SyncServiceImpl) Start(ctx context.Context) {
	_ = s.Refresh(ctx)
	if s.interval <= 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = s.Refresh(ctx)
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the periodic cycle and waits for it to exit.
func (s *SyncServiceImpl) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

// Refresh runs one coordinated emails+analytics fetch, or coalesces into an
// already running one. The returned error is from the cycle this call
// executed; coalesced callers get nil. After Stop it returns ErrSyncStopped
// without touching the backend.
func (s *SyncServiceImpl) Refresh(ctx context.Context) error {
	select {
	case <-s.stopCh:
		return ErrSyncStopped
	default:
	}

	s.mu.Lock()
	if s.refreshing {
		s.pending = true
		s.mu.Unlock()
		return nil
	}
	s.refreshing = true
	s.mu.Unlock()

	err := s.runCycle(ctx)
	for {
		s.mu.Lock()
		if s.pending {
			s.pending = false
			s.mu.Unlock()
			_ = s.runCycle(ctx)
			continue
		}
		s.refreshing = false
		s.mu.Unlock()
		return err
	}
}

// runCycle fetches both halves and replaces the snapshot only when both
// succeed. On any failure the cached snapshot is left untouched.
func (s *SyncServiceImpl) runCycle(ctx context.Context) error {
	s.mu.Lock()
	filter := s.filter
	s.mu.Unlock()

	var emails []models.EmailRecord
	var err error
	if filter.IsZero() {
		emails, err = s.client.ListEmails(ctx)
	} else {
		emails, err = s.client.FilterEmails(ctx, filter)
	}
	if err != nil {
		s.fail("Refresh", err)
		return err
	}

	analytics, err := s.client.GetAnalytics(ctx)
	if err != nil {
		s.fail("Refresh", err)
		return err
	}

	snap := Snapshot{Emails: emails, Analytics: *analytics, FetchedAt: time.Now()}

	s.mu.Lock()
	s.snapshot = &snap
	wasConnected := s.connected
	s.connected = true
	listener := s.listener
	s.mu.Unlock()

	s.logger.Debug().Int("emails", len(emails)).Msg("refresh cycle completed")
	if listener != nil {
		if !wasConnected {
			listener.ConnectivityChanged(true)
		}
		listener.SnapshotUpdated(snap)
	}
	return nil
}

func (s *SyncServiceImpl) fail(operation string, err error) {
	s.mu.Lock()
	wasConnected := s.connected
	s.connected = false
	listener := s.listener
	s.mu.Unlock()

	s.logger.Warn().Err(err).Msg("refresh cycle failed; keeping cached snapshot")
	if listener != nil && wasConnected {
		listener.ConnectivityChanged(false)
	}
	s.notifier.Publish(NotifyError, summarizeError(operation, err))
}

// Snapshot returns the cached snapshot; ok is false before the first
// successful refresh.
func (s *SyncServiceImpl) Snapshot() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return Snapshot{}, false
	}
	return *s.snapshot, true
}

// Connected reports the connectivity indicator state.
func (s *SyncServiceImpl) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// EmailStatus returns the server-confirmed status for an id from the cached
// snapshot. ok is false when the id is not in the snapshot.
func (s *SyncServiceImpl) EmailStatus(emailID int) (models.Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return "", false
	}
	for i := range s.snapshot.Emails {
		if s.snapshot.Emails[i].ID == emailID {
			return s.snapshot.Emails[i].Status, true
		}
	}
	return "", false
}

// SetFilter narrows the list view and refreshes immediately. Analytics stays
// unfiltered; only the list fetch switches endpoints.
func (s *SyncServiceImpl) SetFilter(ctx context.Context, filter models.EmailFilter) {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
	_ = s.Refresh(ctx)
}

// Filter returns the active list filter.
func (s *SyncServiceImpl) Filter() models.EmailFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SubmitEmail validates the operator draft, submits it for processing, and
// refreshes on success. A failed submission surfaces its own error and does
// not refresh, so the original failure is never masked.
func (s *SyncServiceImpl) SubmitEmail(ctx context.Context, draft models.EmailDraft) error {
	if err := ValidateDraft(draft); err != nil {
		s.notifier.Publish(NotifyWarning, err.Error())
		return err
	}
	if err := s.client.ProcessEmail(ctx, draft); err != nil {
		s.notifier.Publish(NotifyError, summarizeError("process email", err))
		return err
	}
	s.notifier.Publish(NotifySuccess, "email submitted for processing")
	_ = s.Refresh(ctx)
	return nil
}

// LoadSampleData loads the backend's bundled sample set and refreshes on
// success.
func (s *SyncServiceImpl) LoadSampleData(ctx context.Context) error {
	if err := s.client.LoadSample(ctx); err != nil {
		s.notifier.Publish(NotifyError, summarizeError("load sample data", err))
		return err
	}
	s.notifier.Publish(NotifySuccess, "sample data loaded")
	_ = s.Refresh(ctx)
	return nil
}
