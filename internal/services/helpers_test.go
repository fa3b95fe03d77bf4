package services

import (
	"context"
	"sync"

	"github.com/amellido/triagetui/internal/models"
	"github.com/rs/zerolog"
)

// fakeBackend implements BackendClient with per-method error injection,
// call counting, and optional gates so tests can hold a call in flight.
type fakeBackend struct {
	mu sync.Mutex

	emails    []models.EmailRecord
	analytics models.AnalyticsSnapshot

	listErr      error
	filterErr    error
	analyticsErr error
	processErr   error
	sendErr      error
	regenErr     error
	sampleErr    error

	listGate  chan struct{}
	sendGate  chan struct{}
	regenGate chan struct{}

	listCalls      int
	filterCalls    int
	analyticsCalls int
	processCalls   int
	sendCalls      int
	regenCalls     int
	sampleCalls    int

	lastDraft  models.EmailDraft
	lastFilter models.EmailFilter
}

func (f *fakeBackend) LoadSample(ctx context.Context) error {
	f.mu.Lock()
	f.sampleCalls++
	err := f.sampleErr
	f.mu.Unlock()
	return err
}

func (f *fakeBackend) ListEmails(ctx context.Context) ([]models.EmailRecord, error) {
	f.mu.Lock()
	f.listCalls++
	gate := f.listGate
	emails := f.emails
	err := f.listErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return emails, nil
}

func (f *fakeBackend) FilterEmails(ctx context.Context, filter models.EmailFilter) ([]models.EmailRecord, error) {
	f.mu.Lock()
	f.filterCalls++
	f.lastFilter = filter
	emails := f.emails
	err := f.filterErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return emails, nil
}

func (f *fakeBackend) ProcessEmail(ctx context.Context, draft models.EmailDraft) error {
	f.mu.Lock()
	f.processCalls++
	f.lastDraft = draft
	err := f.processErr
	f.mu.Unlock()
	return err
}

func (f *fakeBackend) GetAnalytics(ctx context.Context) (*models.AnalyticsSnapshot, error) {
	f.mu.Lock()
	f.analyticsCalls++
	analytics := f.analytics
	err := f.analyticsErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &analytics, nil
}

func (f *fakeBackend) SendResponse(ctx context.Context, emailID int) error {
	f.mu.Lock()
	f.sendCalls++
	gate := f.sendGate
	err := f.sendErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeBackend) RegenerateResponse(ctx context.Context, emailID int) error {
	f.mu.Lock()
	f.regenCalls++
	gate := f.regenGate
	err := f.regenErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeBackend) counts() (list, filter, analytics, process, send, regen, sample int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.filterCalls, f.analyticsCalls, f.processCalls, f.sendCalls, f.regenCalls, f.sampleCalls
}

// recordedNotification is what fakeNotifier keeps per Publish.
type recordedNotification struct {
	Kind    NotificationKind
	Message string
}

// fakeNotifier implements NotificationService synchronously, no timers.
type fakeNotifier struct {
	mu    sync.Mutex
	items []recordedNotification
}

func (f *fakeNotifier) Publish(kind NotificationKind, message string) {
	f.mu.Lock()
	f.items = append(f.items, recordedNotification{Kind: kind, Message: message})
	f.mu.Unlock()
}

func (f *fakeNotifier) Active() []Notification           { return nil }
func (f *fakeNotifier) SetListener(func([]Notification)) {}
func (f *fakeNotifier) Shutdown()                        {}

func (f *fakeNotifier) recorded() []recordedNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedNotification, len(f.items))
	copy(out, f.items)
	return out
}

// fakeStatusSource answers EmailStatus from a fixed map.
type fakeStatusSource struct {
	mu       sync.Mutex
	statuses map[int]models.Status
}

func (f *fakeStatusSource) EmailStatus(emailID int) (models.Status, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.statuses[emailID]
	return st, ok
}

// fakeRefresher counts refresh requests.
type fakeRefresher struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return nil
}

func (f *fakeRefresher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
