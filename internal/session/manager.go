package session

import (
	"sync"

	"ledgerly/internal/auth"
	"ledgerly/internal/log"
)

// Manager owns the live sessions, one per signed-in identity. It can be
// wired to the auth service so sign-in creates a session and sign-out
// tears it down.
type Manager struct {
	stores     Stores
	windowDays int
	logger     *log.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	lastID   string
}

// NewManager constructs a manager with no live sessions.
func NewManager(stores Stores, windowDays int, logger *log.Logger) *Manager {
	return &Manager{
		stores:     stores,
		windowDays: windowDays,
		logger:     logger.WithComponent(log.ComponentSession),
		sessions:   make(map[string]*Session),
	}
}

// Attach subscribes the manager to identity changes: a sign-in ensures a
// session exists for the identity, a sign-out drops it. It returns the
// unsubscribe function.
func (m *Manager) Attach(svc *auth.Service) func() {
	return svc.Subscribe(m.observe)
}

// observe handles one auth-state notification. The auth service delivers
// notifications outside its own lock, so concurrent sign-ins reach here in
// parallel; the last-signed-in identity lives under m.mu. A nil identity
// drops the session of whichever identity signed in most recently — the
// HTTP sign-out handler drops the caller's own session directly.
func (m *Manager) observe(identity *auth.Identity) {
	if identity == nil {
		m.mu.Lock()
		id := m.lastID
		m.lastID = ""
		m.mu.Unlock()
		if id != "" {
			m.Drop(id)
		}
		return
	}
	m.mu.Lock()
	m.lastID = identity.ID
	m.mu.Unlock()
	m.Get(*identity)
}

// Get returns the session for the identity, creating it if missing. The
// caller triggers the initial refresh.
func (m *Manager) Get(identity auth.Identity) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[identity.ID]; ok {
		return s
	}
	s := New(identity, m.stores, m.windowDays, m.logger)
	m.sessions[identity.ID] = s
	m.logger.Info("Session created", log.FieldUserID, identity.ID)
	return s
}

// Lookup returns the live session for the user, if any.
func (m *Manager) Lookup(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Drop clears and removes the user's session.
func (m *Manager) Drop(userID string) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()
	if ok {
		s.Clear()
		m.logger.Info("Session dropped", log.FieldUserID, userID)
	}
}

// Reset clears and removes every live session.
func (m *Manager) Reset() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Clear()
	}
}
