package session

import (
	"context"
	"sync"
	"time"

	"scent-store/internal/domain"
)

// Session bundles a visitor's envelope store with its change broadcaster.
// Read-modify-write cycles on the envelope are serialized per session.
type Session struct {
	id     string
	store  *Store
	events *Broadcaster

	mu       sync.Mutex
	lastSeen time.Time
	clock    func() time.Time
}

// New creates a session over store
func New(id string, store *Store) *Session {
	return &Session{
		id:       id,
		store:    store,
		events:   NewBroadcaster(),
		lastSeen: time.Now(),
		clock:    time.Now,
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Events returns the session's change broadcaster
func (s *Session) Events() *Broadcaster {
	return s.events
}

// Envelope reads the current envelope
func (s *Session) Envelope(ctx context.Context) Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	return s.store.Read(ctx)
}

// UpdateCart applies fn to the stored cart. When fn reports a change the new
// cart is persisted and one notification is published, even if persisting
// failed; the returned cart is what fn produced either way.
func (s *Session) UpdateCart(ctx context.Context, fn func(cart []domain.CartItem) ([]domain.CartItem, bool)) ([]domain.CartItem, error) {
	s.mu.Lock()
	s.touch()
	next, changed := fn(s.store.Read(ctx).Cart)
	var err error
	if changed {
		err = s.store.WriteCart(ctx, next)
	}
	s.mu.Unlock()

	// Listeners re-read the envelope, so publish outside the lock
	if changed {
		s.events.Publish()
	}
	return next, err
}

// UpdateAdmin applies fn to the stored admin state, with the same persist and
// publish rules as UpdateCart.
func (s *Session) UpdateAdmin(ctx context.Context, fn func(admin domain.AdminState) (domain.AdminState, bool)) (domain.AdminState, error) {
	s.mu.Lock()
	s.touch()
	next, changed := fn(s.store.Read(ctx).Admin)
	var err error
	if changed {
		err = s.store.WriteAdmin(ctx, next)
	}
	s.mu.Unlock()

	if changed {
		s.events.Publish()
	}
	return next, err
}

func (s *Session) touch() {
	s.lastSeen = s.clock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
