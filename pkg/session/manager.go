package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"marketing-insights-be/internal/pkg/logger"
	"marketing-insights-be/internal/repository/contract"
	"marketing-insights-be/pkg/store"
)

// Manager handles session operations. Passes on one session run one at a time.
type Manager struct {
	sessionRepo contract.SessionRepository
	locks       *keyedMutex
	logger      logger.ILogger
	now         func() time.Time
}

func NewManager(sessionRepo contract.SessionRepository, log logger.ILogger) *Manager {
	return &Manager{
		sessionRepo: sessionRepo,
		locks:       newKeyedMutex(),
		logger:      log,
		now:         time.Now,
	}
}

// LoadOrCreate retrieves a session or starts an empty one.
func (m *Manager) LoadOrCreate(ctx context.Context, sessionID string) (*store.Session, error) {
	session, found, err := m.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		m.logger.Info("Session", "Session created", map[string]interface{}{"session_id": sessionID})
		session = store.NewSession(sessionID, m.now())
	}
	return session, nil
}

// Save persists session state and refreshes its idle lifetime.
func (m *Manager) Save(ctx context.Context, session *store.Session) error {
	session.UpdatedAt = m.now()
	if err := m.sessionRepo.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	unlock := m.locks.lock(sessionID)
	defer unlock()

	if err := m.sessionRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.logger.Info("Session", "Session reset", map[string]interface{}{"session_id": sessionID})
	return nil
}

// Run executes one pass with exclusive access to the session: load, fn, save.
// The session is not saved when fn fails.
func (m *Manager) Run(ctx context.Context, sessionID string, fn func(*store.Session) error) error {
	unlock := m.locks.lock(sessionID)
	defer unlock()

	session, err := m.LoadOrCreate(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := fn(session); err != nil {
		return err
	}
	return m.Save(ctx, session)
}

// View runs fn on a snapshot of the session and never saves it. A session
// that does not exist yet is shown empty and is not created.
func (m *Manager) View(ctx context.Context, sessionID string, fn func(*store.Session)) error {
	unlock := m.locks.lock(sessionID)
	defer unlock()

	session, found, err := m.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !found {
		session = store.NewSession(sessionID, m.now())
	}
	fn(session)
	return nil
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
