// Package session tracks the playback sessions of connected dashboards. A
// session owns the only mutable runtime entity in the system, its playback
// state, behind a single-writer autoplay driver.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketviz/domain/playback"
	"marketviz/internal"
	"marketviz/internal/api"
)

// Session is one dashboard's playback loop.
type Session struct {
	ID        string
	Driver    *playback.Driver
	CreatedAt time.Time
	cancel    context.CancelFunc
}

// State returns the session's current playback state.
func (s *Session) State() playback.State {
	return s.Driver.State()
}

// Apply runs a playback transition on the session.
func (s *Session) Apply(fn func(playback.State) playback.State) playback.State {
	return s.Driver.Apply(fn)
}

// Manager creates and owns sessions, wiring every driver frame into the SSE
// hub so connected clients re-render on each tick.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	hub     *api.SSEHub
	initial playback.State
	maxDay  int
	baseCtx context.Context
}

// NewManager creates a session manager. New sessions start from the initial
// state (day 0, playing iff auto-play is configured).
func NewManager(ctx context.Context, hub *api.SSEHub, initial playback.State, maxDay int) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		hub:      hub,
		initial:  initial,
		maxDay:   maxDay,
		baseCtx:  ctx,
	}
}

// MaxDay returns the last day of the loaded dataset.
func (m *Manager) MaxDay() int {
	return m.maxDay
}

// Create starts a fresh session with a new identifier and launches its
// autoplay driver.
func (m *Manager) Create() *Session {
	id := uuid.New().String()

	ctx, cancel := context.WithCancel(m.baseCtx)
	driver := playback.NewDriver(m.initial, m.maxDay, func(state playback.State) {
		if m.hub != nil {
			m.hub.Broadcast(api.NewPlaybackEvent(id, state))
		}
	})

	s := &Session{
		ID:        id,
		Driver:    driver,
		CreatedAt: time.Now(),
		cancel:    cancel,
	}
	go driver.Run(ctx)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	internal.DefaultLogger.Debug("[Session] Created %s (playing=%v, step=%d, fps=%d)",
		id, m.initial.Playing, m.initial.StepDays, m.initial.FPS)
	return s
}

// Get looks up a session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close stops a session's driver and forgets it.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		s.cancel()
		internal.DefaultLogger.Debug("[Session] Closed %s", id)
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
