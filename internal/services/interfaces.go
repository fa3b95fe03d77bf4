package services

import (
	"context"
	"time"

	"github.com/amellido/triagetui/internal/models"
	"github.com/google/uuid"
)

// BackendClient is the network surface the core depends on. Implemented by
// api.Client; tests substitute mocks. Mutating calls are not idempotent on
// the backend, so callers in this package guard against duplicate invocation.
type BackendClient interface {
	LoadSample(ctx context.Context) error
	ListEmails(ctx context.Context) ([]models.EmailRecord, error)
	FilterEmails(ctx context.Context, filter models.EmailFilter) ([]models.EmailRecord, error)
	ProcessEmail(ctx context.Context, draft models.EmailDraft) error
	GetAnalytics(ctx context.Context) (*models.AnalyticsSnapshot, error)
	SendResponse(ctx context.Context, emailID int) error
	RegenerateResponse(ctx context.Context, emailID int) error
}

// SyncService owns the authoritative local snapshot and drives refresh.
type SyncService interface {
	Start(ctx context.Context)
	Stop()
	Refresh(ctx context.Context) error
	Snapshot() (Snapshot, bool)
	Connected() bool
	EmailStatus(emailID int) (models.Status, bool)
	SetFilter(ctx context.Context, filter models.EmailFilter)
	Filter() models.EmailFilter
	SubmitEmail(ctx context.Context, draft models.EmailDraft) error
	LoadSampleData(ctx context.Context) error
	SetListener(listener SyncListener)
}

// SyncListener receives view-facing updates from the synchronizer. Both
// callbacks are one-way sinks: the view never queries back through them.
type SyncListener interface {
	SnapshotUpdated(snap Snapshot)
	ConnectivityChanged(connected bool)
}

// ActionService is the per-email-id state machine guarding send/regenerate.
// Trigger refusals come back as ErrActionInFlight or ErrEmailResolved.
type ActionService interface {
	Trigger(ctx context.Context, emailID int, kind ActionKind) error
	State(emailID int) ActionState
	SendAvailable(emailID int) bool
	SetHooks(hooks ActionHooks)
}

// ActionHooks lets the view adjust affordances around an action's lifetime.
// OnSettled fires on both outcomes, after the state machine has left
// InFlight, so re-enabling the affordance is always safe.
type ActionHooks struct {
	OnStarted func(emailID int, kind ActionKind)
	OnSettled func(emailID int, kind ActionKind, err error)
}

// NotificationService manages transient operator-facing messages.
type NotificationService interface {
	Publish(kind NotificationKind, message string)
	Active() []Notification
	SetListener(listener func([]Notification))
	Shutdown()
}

// Snapshot pairs the email list with the analytics fetched in the same
// refresh cycle. The two are never mixed across cycles.
type Snapshot struct {
	Emails    []models.EmailRecord
	Analytics models.AnalyticsSnapshot
	FetchedAt time.Time
}

// NotificationKind is the severity of an operator notification.
type NotificationKind int

const (
	NotifySuccess NotificationKind = iota
	NotifyError
	NotifyInfo
	NotifyWarning
)

// String returns the lowercase kind name.
func (k NotificationKind) String() string {
	switch k {
	case NotifySuccess:
		return "success"
	case NotifyError:
		return "error"
	case NotifyInfo:
		return "info"
	case NotifyWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// NotificationPhase tracks where a notification sits in its timed lifecycle.
type NotificationPhase int

const (
	// NotificationEntering covers the short pre-display delay.
	NotificationEntering NotificationPhase = iota
	// NotificationVisible is the fixed display window.
	NotificationVisible
	// NotificationLeaving is the exit transition before removal.
	NotificationLeaving
)

// Notification is one transient message. Identity exists only so the timer
// chain can find its entry; ordering is by creation.
type Notification struct {
	ID        uuid.UUID
	Kind      NotificationKind
	Message   string
	CreatedAt time.Time
	Phase     NotificationPhase
}

// NotificationTimings controls the notification lifecycle clock.
type NotificationTimings struct {
	EntryDelay time.Duration
	Display    time.Duration
	Exit       time.Duration
}

// DefaultNotificationTimings is the production lifecycle clock.
func DefaultNotificationTimings() NotificationTimings {
	return NotificationTimings{
		EntryDelay: 100 * time.Millisecond,
		Display:    4 * time.Second,
		Exit:       300 * time.Millisecond,
	}
}
