package cart

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an untouched cart session survives.
const DefaultTTL = 6 * time.Hour

type session struct {
	cart     *Cart
	lastSeen time.Time
}

// Store is the registry of cart sessions, keyed by the session ID from
// the browser cookie. Access to the registry is guarded by a mutex;
// individual carts are still single-writer by session.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[uuid.UUID]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the cart for the session, creating one if absent or
// expired. Expired sessions are swept lazily on access.
func (s *Store) Get(id uuid.UUID) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{cart: New()}
		s.sessions[id] = sess
	}
	sess.lastSeen = now
	return sess.cart
}

// Delete destroys the session's cart, used after successful checkout.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) sweepLocked(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
