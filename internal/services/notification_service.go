package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NotificationServiceImpl implements NotificationService as a pure
// timer-driven queue. Each notification walks entering → visible → leaving →
// removed on its own clock; notifications never touch network state and
// identical messages are never deduplicated.
type NotificationServiceImpl struct {
	mu       sync.Mutex
	timings  NotificationTimings
	logger   zerolog.Logger
	items    []*Notification
	timers   map[uuid.UUID]*time.Timer
	listener func([]Notification)
	closed   bool
}

// NewNotificationService creates the queue with the given lifecycle timings.
func NewNotificationService(timings NotificationTimings, logger zerolog.Logger) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		timings: timings,
		logger:  logger.With().Str("component", "notifications").Logger(),
		timers:  make(map[uuid.UUID]*time.Timer),
	}
}

// SetListener registers the callback invoked with the insertion-ordered
// active set on every lifecycle edge.
func (s *NotificationServiceImpl) SetListener(listener func([]Notification)) {
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
}

// Publish enqueues a notification and starts its lifecycle clock.
func (s *NotificationServiceImpl) Publish(kind NotificationKind, message string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	n := &Notification{
		ID:        uuid.New(),
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
		Phase:     NotificationEntering,
	}
	s.items = append(s.items, n)
	id := n.ID
	s.timers[id] = time.AfterFunc(s.timings.EntryDelay, func() { s.advance(id) })
	s.mu.Unlock()

	s.logger.Debug().Str("kind", kind.String()).Str("message", message).Msg("notification published")
	s.notifyListener()
}

// Active returns the queued notifications in insertion order, including
// entering and leaving ones so the view can animate them.
func (s *NotificationServiceImpl) Active() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Shutdown stops every pending timer and empties the queue.
func (s *NotificationServiceImpl) Shutdown() {
	s.mu.Lock()
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.items = nil
	s.mu.Unlock()
}

// advance moves one notification to its next phase and re-arms the timer.
func (s *NotificationServiceImpl) advance(id uuid.UUID) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	idx := -1
	for i, n := range s.items {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		delete(s.timers, id)
		s.mu.Unlock()
		return
	}
	switch s.items[idx].Phase {
	case NotificationEntering:
		s.items[idx].Phase = NotificationVisible
		s.timers[id] = time.AfterFunc(s.timings.Display, func() { s.advance(id) })
	case NotificationVisible:
		s.items[idx].Phase = NotificationLeaving
		s.timers[id] = time.AfterFunc(s.timings.Exit, func() { s.advance(id) })
	case NotificationLeaving:
		s.items = append(s.items[:idx], s.items[idx+1:]...)
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.notifyListener()
}

func (s *NotificationServiceImpl) snapshotLocked() []Notification {
	out := make([]Notification, len(s.items))
	for i, n := range s.items {
		out[i] = *n
	}
	return out
}

func (s *NotificationServiceImpl) notifyListener() {
	s.mu.Lock()
	listener := s.listener
	var snap []Notification
	if listener != nil {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()
	if listener != nil {
		listener(snap)
	}
}
