package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ManagerOptions configures session construction
type ManagerOptions struct {
	KeyPrefix       string
	DefaultAdminKey string
}

// Manager hands out one Session per session id so that concurrent requests
// of the same visitor share the envelope lock and broadcaster.
type Manager struct {
	kv     KV
	opts   ManagerOptions
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a Manager persisting envelopes in kv
func NewManager(kv KV, opts ManagerOptions, logger *zap.Logger) *Manager {
	return &Manager{
		kv:       kv,
		opts:     opts,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// StorageKey returns the KV key holding the envelope of session id
func (m *Manager) StorageKey(id string) string {
	return m.opts.KeyPrefix + ":" + id
}

// Session returns the live session for id, creating it on first use
func (m *Manager) Session(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		// A handle just handed out must not look idle to the sweeper
		s.mu.Lock()
		s.touch()
		s.mu.Unlock()
		return s
	}

	store := NewStore(m.kv, Options{
		Key:             m.StorageKey(id),
		DefaultAdminKey: m.opts.DefaultAdminKey,
	}, m.logger)
	s := New(id, store)
	m.sessions[id] = s
	return s
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops in-process handles of sessions idle for longer than maxIdle
// that have no listeners. Their envelopes stay in the KV.
func (m *Manager) Sweep(now time.Time, maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.events.Len() > 0 {
			continue
		}
		if now.Sub(s.idleSince()) > maxIdle {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done
func (m *Manager) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := m.Sweep(now, maxIdle); removed > 0 {
				m.logger.Debug("Swept idle sessions", zap.Int("removed", removed))
			}
		}
	}
}
