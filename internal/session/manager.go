package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an idle session survives when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	Searcher      Searcher
	Tailorer      Tailorer
	TTL           time.Duration // Idle lifetime; DefaultTTL if zero
	SweepInterval time.Duration // How often expired sessions are dropped; no sweeper if zero
}

// Manager keeps the live sessions of a server. Sessions exist only in memory
// and disappear on Delete, on expiry, or when the process exits.
type Manager struct {
	searcher Searcher
	tailorer Tailorer
	ttl      time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	sweepTicker *time.Ticker
	sweepStop   chan struct{}
	closeOnce   sync.Once
}

// NewManager creates a Manager and starts its sweeper when configured.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Searcher == nil {
		return nil, fmt.Errorf("session manager requires a searcher")
	}
	if cfg.Tailorer == nil {
		return nil, fmt.Errorf("session manager requires a tailorer")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	m := &Manager{
		searcher: cfg.Searcher,
		tailorer: cfg.Tailorer,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}

	if cfg.SweepInterval > 0 {
		m.sweepTicker = time.NewTicker(cfg.SweepInterval)
		m.sweepStop = make(chan struct{})
		go m.sweepLoop()
	}

	return m, nil
}

// TTL returns the idle lifetime of sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create starts a new session.
func (m *Manager) Create() *Session {
	s := newSession(uuid.New(), m.searcher, m.tailorer, m.now)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	log.Printf("[session] created %s", s.id)
	return s
}

// Get returns the session with id. Expired sessions are reported as not
// found even before the sweeper removes them.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || m.expired(s) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete ends the session with id.
func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.close()
	log.Printf("[session] deleted %s", id)
	return nil
}

// Len returns the number of sessions held, including expired ones that have
// not been swept yet.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops every expired session and returns how many were dropped.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if m.expired(s) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
		log.Printf("[session] expired %s", s.id)
	}
	return len(expired)
}

// Close stops the sweeper and ends all sessions.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		if m.sweepTicker != nil {
			m.sweepTicker.Stop()
			close(m.sweepStop)
		}

		m.mu.Lock()
		sessions := m.sessions
		m.sessions = make(map[uuid.UUID]*Session)
		m.mu.Unlock()

		for _, s := range sessions {
			s.close()
		}
	})
}

func (m *Manager) sweepLoop() {
	for {
		select {
		case <-m.sweepTicker.C:
			m.Sweep()
		case <-m.sweepStop:
			return
		}
	}
}

func (m *Manager) expired(s *Session) bool {
	return m.now().Sub(s.LastActive()) > m.ttl
}
