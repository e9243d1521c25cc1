// Package session tracks live environment instances for the REST surface.
// Environments are not safe for concurrent stepping, so every touch goes
// through the manager's lock.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"banditLab/business/env"
	"banditLab/pkg/logger"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrFull     = errors.New("session limit reached")
)

type session struct {
	environment *env.Environment
	createdAt   time.Time
	lastUsed    time.Time
	steps       int
}

// Info is a read-only session snapshot.
type Info struct {
	ID        uuid.UUID  `json:"id"`
	Config    env.Config `json:"config"`
	CreatedAt time.Time  `json:"created_at"`
	LastUsed  time.Time  `json:"last_used"`
	Steps     int        `json:"steps"`
}

type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session

	maxSessions int
	idleTTL     time.Duration
	now         func() time.Time
}

func NewManager(maxSessions int, idleTTL time.Duration) *Manager {
	return &Manager{
		sessions:    make(map[uuid.UUID]*session),
		maxSessions: maxSessions,
		idleTTL:     idleTTL,
		now:         time.Now,
	}
}

// Create builds a fresh environment and registers it. Idle sessions are
// swept first when the registry is at capacity.
func (m *Manager) Create(cfg env.Config) (Info, error) {
	environment, err := env.New(cfg)
	if err != nil {
		return Info{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.maxSessions {
		m.evictIdleLocked()
	}
	if len(m.sessions) >= m.maxSessions {
		return Info{}, fmt.Errorf("%d live sessions: %w", len(m.sessions), ErrFull)
	}

	id := uuid.New()
	now := m.now()
	m.sessions[id] = &session{
		environment: environment,
		createdAt:   now,
		lastUsed:    now,
	}
	activeSessions.Set(float64(len(m.sessions)))

	return m.infoLocked(id), nil
}

// Step advances one session by one round under the manager lock, which is
// the external mutual exclusion the environment requires.
func (m *Manager) Step(id uuid.UUID, action int) (env.Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return env.Observation{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}

	obs, err := s.environment.Step(action)
	if err != nil {
		return env.Observation{}, err
	}

	s.steps++
	s.lastUsed = m.now()
	return obs, nil
}

// With runs fn against a session's environment under the manager lock.
// fn must not retain the environment.
func (m *Manager) With(id uuid.UUID, fn func(*env.Environment) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}

	s.lastUsed = m.now()
	return fn(s.environment)
}

func (m *Manager) Get(id uuid.UUID) (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return Info{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return m.infoLocked(id), nil
}

// Close releases a session. The environment Close itself never fails.
func (m *Manager) Close(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}

	_ = s.environment.Close()
	delete(m.sessions, id)
	activeSessions.Set(float64(len(m.sessions)))
	return nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// evictIdleLocked drops sessions idle past the TTL. Caller holds the lock.
func (m *Manager) evictIdleLocked() {
	if m.idleTTL <= 0 {
		return
	}

	cutoff := m.now().Add(-m.idleTTL)
	for id, s := range m.sessions {
		if s.lastUsed.Before(cutoff) {
			_ = s.environment.Close()
			delete(m.sessions, id)
			logger.Debug("session_evicted", "session_id", id, "steps", s.steps)
		}
	}
	activeSessions.Set(float64(len(m.sessions)))
}

func (m *Manager) infoLocked(id uuid.UUID) Info {
	s := m.sessions[id]
	return Info{
		ID:        id,
		Config:    s.environment.Config(),
		CreatedAt: s.createdAt,
		LastUsed:  s.lastUsed,
		Steps:     s.steps,
	}
}
