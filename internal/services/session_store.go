package services

import (
	"sync"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// CheckoutState is the position of a session in the order submission flow.
type CheckoutState string

const (
	CheckoutIdle            CheckoutState = "idle"
	CheckoutValidating      CheckoutState = "validating"
	CheckoutSubmitting      CheckoutState = "submitting"
	CheckoutAwaitingPayment CheckoutState = "awaiting_payment"
	CheckoutDispatched      CheckoutState = "dispatched"
	CheckoutCompleted       CheckoutState = "completed"
)

// Session is one browsing session: it owns a single cart and dealer capability.
type Session struct {
	ID   string
	Cart *Cart

	// checkoutMu serializes checkout attempts of this session.
	checkoutMu sync.Mutex
	state      CheckoutState
	pending    *models.Order

	mu       sync.RWMutex
	dealer   models.DealerSession
	lastSeen time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:       id,
		Cart:     NewCart(),
		state:    CheckoutIdle,
		lastSeen: now,
	}
}

// Dealer returns the session's dealer capability.
func (s *Session) Dealer() models.DealerSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dealer
}

// SetDealer replaces the session's dealer capability.
func (s *Session) SetDealer(d models.DealerSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dealer = d
}

// CheckoutState returns the current checkout state.
func (s *Session) CheckoutState() CheckoutState {
	s.checkoutMu.Lock()
	defer s.checkoutMu.Unlock()
	return s.state
}

// PendingOrder returns the order awaiting payment, if any.
func (s *Session) PendingOrder() *models.Order {
	s.checkoutMu.Lock()
	defer s.checkoutMu.Unlock()
	if s.pending == nil {
		return nil
	}
	order := *s.pending
	return &order
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// SessionStore keeps sessions in memory, keyed by id.
type SessionStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions expire after ttl of inactivity.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock replaces the time source used for expiry.
func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	s.now = now
	return s
}

// Get returns a live session and marks it as used.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(sess, now) {
		s.Delete(id)
		return nil, false
	}
	sess.touch(now)
	return sess, true
}

// Create starts a new session with an empty cart and no dealer access.
func (s *SessionStore) Create() *Session {
	sess := newSession(uuid.New().String(), s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess
}

// GetOrCreate returns the session for id, creating a fresh one when it is unknown.
// The boolean is true when a new session was created.
func (s *SessionStore) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if sess, ok := s.Get(id); ok {
			return sess, false
		}
	}
	return s.Create(), true
}

// Delete drops a session.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *SessionStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *SessionStore) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.idleSince()) > s.ttl
}
