package services

import (
	"context"
	"sync"

	"github.com/amellido/triagetui/internal/models"
	"github.com/rs/zerolog"
)

// ActionKind tags the per-email mutations the coordinator guards.
type ActionKind int

const (
	ActionSend ActionKind = iota
	ActionRegenerate
)

// String returns the operator-facing action name.
func (k ActionKind) String() string {
	switch k {
	case ActionSend:
		return "send response"
	case ActionRegenerate:
		return "regenerate response"
	default:
		return "unknown action"
	}
}

// ActionPhase is the per-id state machine phase.
type ActionPhase int

const (
	PhaseIdle ActionPhase = iota
	PhaseInFlight
	PhaseFailed
)

// ActionState is the observable state for one email id. Kind and Reason are
// meaningful only outside PhaseIdle.
type ActionState struct {
	Phase  ActionPhase
	Kind   ActionKind
	Reason string
}

// actionOp resolves an ActionKind to behavior without string lookup. Each
// kind knows how to invoke the backend and whether a server-confirmed record
// status makes it permanently unavailable.
type actionOp interface {
	invoke(ctx context.Context, client BackendClient, emailID int) error
	terminal(status models.Status) bool
}

type sendOp struct{}

func (sendOp) invoke(ctx context.Context, client BackendClient, emailID int) error {
	return client.SendResponse(ctx, emailID)
}

// Send is terminal once the backend has confirmed the record resolved.
func (sendOp) terminal(status models.Status) bool { return status == models.StatusResolved }

type regenerateOp struct{}

func (regenerateOp) invoke(ctx context.Context, client BackendClient, emailID int) error {
	return client.RegenerateResponse(ctx, emailID)
}

// Regenerate never becomes unavailable.
func (regenerateOp) terminal(models.Status) bool { return false }

func opFor(kind ActionKind) actionOp {
	if kind == ActionSend {
		return sendOp{}
	}
	return regenerateOp{}
}

// StatusSource answers whether the backend has confirmed a record's status.
// Only server truth counts here; the coordinator never predicts locally.
type StatusSource interface {
	EmailStatus(emailID int) (models.Status, bool)
}

// RefreshRequester lets the coordinator ask for a refresh after a successful
// mutation so status and ai_response reflect the backend's new truth.
type RefreshRequester interface {
	Refresh(ctx context.Context) error
}

// ActionServiceImpl implements ActionService. It knows nothing about the
// transport beyond success/failure and never reads payload contents.
type ActionServiceImpl struct {
	mu       sync.Mutex
	client   BackendClient
	notifier NotificationService
	status   StatusSource
	refresh  RefreshRequester
	logger   zerolog.Logger
	states   map[int]ActionState
	hooks    ActionHooks
}

// NewActionService creates the per-email action coordinator.
func NewActionService(client BackendClient, notifier NotificationService, status StatusSource, refresh RefreshRequester, logger zerolog.Logger) *ActionServiceImpl {
	return &ActionServiceImpl{
		client:   client,
		notifier: notifier,
		status:   status,
		refresh:  refresh,
		logger:   logger.With().Str("component", "actions").Logger(),
		states:   make(map[int]ActionState),
	}
}

// SetHooks registers the view callbacks. Called once during wiring, before
// any trigger can fire.
func (s *ActionServiceImpl) SetHooks(hooks ActionHooks) {
	s.mu.Lock()
	s.hooks = hooks
	s.mu.Unlock()
}

// State returns the current state for an id; ids never triggered are Idle.
func (s *ActionServiceImpl) State(emailID int) ActionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[emailID]
}

// SendAvailable reports whether Send may still be triggered for an id. It is
// false once the backend has confirmed the record resolved.
func (s *ActionServiceImpl) SendAvailable(emailID int) bool {
	if st, ok := s.status.EmailStatus(emailID); ok && (sendOp{}).terminal(st) {
		return false
	}
	return true
}

// Trigger starts an action for an email id. It returns ErrActionInFlight when
// the id already has an action out, and ErrEmailResolved when the kind is
// terminally unavailable for this record; both with zero network calls and no
// state change.
func (s *ActionServiceImpl) Trigger(ctx context.Context, emailID int, kind ActionKind) error {
	op := opFor(kind)

	s.mu.Lock()
	st := s.states[emailID]
	if st.Phase == PhaseInFlight {
		s.mu.Unlock()
		s.logger.Debug().Int("email_id", emailID).Str("action", kind.String()).Msg("trigger dropped: already in flight")
		return ErrActionInFlight
	}
	if status, ok := s.status.EmailStatus(emailID); ok && op.terminal(status) {
		s.mu.Unlock()
		s.logger.Debug().Int("email_id", emailID).Str("action", kind.String()).Msg("trigger dropped: terminal status")
		return ErrEmailResolved
	}
	s.states[emailID] = ActionState{Phase: PhaseInFlight, Kind: kind}
	started := s.hooks.OnStarted
	s.mu.Unlock()

	if started != nil {
		started(emailID, kind)
	}

	go s.run(ctx, emailID, kind, op)
	return nil
}

// run performs the network call and settles the state machine.
func (s *ActionServiceImpl) run(ctx context.Context, emailID int, kind ActionKind, op actionOp) {
	err := op.invoke(ctx, s.client, emailID)

	if err != nil {
		// Failed is a transit state: the id is actionable again immediately,
		// no delay and no backoff.
		failed := ActionState{Phase: PhaseFailed, Kind: kind, Reason: err.Error()}
		s.mu.Lock()
		s.states[emailID] = failed
		settled := s.hooks.OnSettled
		s.mu.Unlock()

		s.logger.Warn().Int("email_id", emailID).Str("action", kind.String()).Err(err).Msg("action failed")
		if settled != nil {
			settled(emailID, kind, err)
		}
		s.notifier.Publish(NotifyError, summarizeError(kind.String(), err))

		// A hook or key press may have legally re-triggered the id from
		// Failed; only this run's own entry settles back to Idle.
		s.mu.Lock()
		if s.states[emailID] == failed {
			s.states[emailID] = ActionState{Phase: PhaseIdle}
		}
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.states[emailID] = ActionState{Phase: PhaseIdle}
	settled := s.hooks.OnSettled
	s.mu.Unlock()

	s.logger.Info().Int("email_id", emailID).Str("action", kind.String()).Msg("action completed")
	if settled != nil {
		settled(emailID, kind, nil)
	}
	s.notifier.Publish(NotifySuccess, kind.String()+" completed")

	// Refresh so status/ai_response reflect the backend's new truth. Failure
	// here is already reported by the synchronizer's own path.
	if s.refresh != nil {
		_ = s.refresh.Refresh(ctx)
	}
}
