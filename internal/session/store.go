package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"scent-store/internal/document"
	"scent-store/internal/domain"

	"go.uber.org/zap"
)

const (
	fieldCart  = "cart"
	fieldAdmin = "admin"
)

// Envelope is the persisted session state: the cart and the admin gate
type Envelope struct {
	Cart  []domain.CartItem `json:"cart"`
	Admin domain.AdminState `json:"admin"`
}

// Options configures where a Store keeps its envelope
type Options struct {
	// Key is the single storage key the envelope lives under
	Key string
	// DefaultAdminKey is the secret used until an envelope stores its own
	DefaultAdminKey string
}

// Store reads and writes one session envelope. Reads never fail: an absent,
// corrupt or unreachable envelope reads as the structural default.
type Store struct {
	kv     KV
	opts   Options
	logger *zap.Logger
}

// NewStore creates a Store over kv
func NewStore(kv KV, opts Options, logger *zap.Logger) *Store {
	return &Store{kv: kv, opts: opts, logger: logger}
}

// Key returns the storage key of the envelope
func (s *Store) Key() string {
	return s.opts.Key
}

// Default returns the envelope used when nothing valid is stored
func (s *Store) Default() Envelope {
	return Envelope{
		Cart:  []domain.CartItem{},
		Admin: s.defaultAdmin(),
	}
}

// Read returns the stored envelope or the default
func (s *Store) Read(ctx context.Context) Envelope {
	raw, err := s.kv.Get(ctx, s.opts.Key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("Session storage unavailable, using defaults",
				zap.String("key", s.opts.Key),
				zap.Error(err),
			)
		}
		return s.Default()
	}

	var stored struct {
		Cart  []domain.CartItem  `json:"cart"`
		Admin *domain.AdminState `json:"admin"`
	}
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn("Corrupt session envelope, using defaults",
			zap.String("key", s.opts.Key),
			zap.Error(err),
		)
		return s.Default()
	}

	env := Envelope{Cart: stored.Cart, Admin: s.defaultAdmin()}
	if env.Cart == nil {
		env.Cart = []domain.CartItem{}
	}
	if stored.Admin != nil {
		env.Admin = *stored.Admin
	}
	return env
}

// WriteCart merges cart into the stored envelope
func (s *Store) WriteCart(ctx context.Context, cart []domain.CartItem) error {
	return s.writeField(ctx, fieldCart, cart)
}

// WriteAdmin merges admin into the stored envelope
func (s *Store) WriteAdmin(ctx context.Context, admin domain.AdminState) error {
	return s.writeField(ctx, fieldAdmin, admin)
}

// writeField replaces one top-level field and keeps every sibling, including
// fields this version does not know about.
func (s *Store) writeField(ctx context.Context, field string, value any) error {
	current := map[string]json.RawMessage{}

	raw, err := s.kv.Get(ctx, s.opts.Key)
	switch {
	case err == nil:
		if err := json.Unmarshal([]byte(raw), &current); err != nil {
			s.logger.Warn("Discarding corrupt session envelope",
				zap.String("key", s.opts.Key),
				zap.Error(err),
			)
			current = map[string]json.RawMessage{}
		}
	case !errors.Is(err, ErrKeyNotFound):
		// Writing without the siblings would erase them
		s.logger.Error("Could not read session envelope before write",
			zap.String("key", s.opts.Key),
			zap.String("field", field),
			zap.Error(err),
		)
		return fmt.Errorf("failed to read session envelope: %w", err)
	}

	current[field] = document.Marshal(value)

	encoded, err := json.Marshal(current)
	if err != nil {
		s.logger.Error("Session envelope encoding failed", zap.String("field", field), zap.Error(err))
		return fmt.Errorf("failed to encode session envelope: %w", err)
	}

	if err := s.kv.Set(ctx, s.opts.Key, string(encoded)); err != nil {
		s.logger.Error("Session persistence error", zap.String("field", field), zap.Error(err))
		return fmt.Errorf("failed to persist session %s: %w", field, err)
	}

	return nil
}

func (s *Store) defaultAdmin() domain.AdminState {
	return domain.AdminState{Key: s.opts.DefaultAdminKey, LoggedIn: false}
}
