package app

import (
	"context"
	"sync"
	"time"

	"lezat-lumer/internal/logger"
	"lezat-lumer/internal/metrics"

	"go.uber.org/zap"
)

const loopBuffer = 16

type entry struct {
	session  *Session
	loop     *Loop
	lastSeen time.Time
}

// Manager owns every live session. Sessions are created on first use and evicted
// after ttl without commands; their carts stay in storage.
type Manager struct {
	deps Deps
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	closed  bool
}

func NewManager(deps Deps, ttl time.Duration) *Manager {
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewRegistry()
	}
	return &Manager{
		deps:    deps,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Dispatch runs cmd on the session's loop. A command that started always
// completes; if ctx ended meanwhile its events stay queued for the next view.
func (m *Manager) Dispatch(ctx context.Context, sessionID string, cmd Command) (View, error) {
	var (
		view View
		err  error
	)
	timer := metrics.StartTimer()
	submitErr := m.run(ctx, sessionID, func(ctx context.Context, s *Session) {
		view, err = s.Dispatch(ctx, cmd)
		if ctx.Err() != nil {
			s.feed.Restore(view.Events)
		}
	})
	if submitErr != nil {
		return View{}, submitErr
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		logger.FromCtx(ctx).Info("command finished after the caller left",
			zap.String("kind", string(cmd.Kind)), zap.Error(ctxErr))
		return View{}, ctxErr
	}

	logger.FromCtx(ctx).Debug("command handled",
		zap.String("kind", string(cmd.Kind)),
		zap.Duration("duration", timer.Duration()),
		zap.Bool("ok", err == nil),
	)
	return view, err
}

// View renders the session on its loop, draining queued events.
func (m *Manager) View(ctx context.Context, sessionID string) (View, error) {
	var view View
	err := m.run(ctx, sessionID, func(ctx context.Context, s *Session) {
		view = s.View(ctx)
		if ctx.Err() != nil {
			s.feed.Restore(view.Events)
		}
	})
	if err == nil && ctx.Err() != nil {
		return View{}, ctx.Err()
	}
	return view, err
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Evict stops sessions idle for longer than ttl and returns how many were removed.
func (m *Manager) Evict() int {
	m.mu.Lock()
	now := m.now()
	var stale []*entry
	for id, e := range m.entries {
		if now.Sub(e.lastSeen) > m.ttl {
			stale = append(stale, e)
			delete(m.entries, id)
		}
	}
	m.mu.Unlock()

	for _, e := range stale {
		e.loop.Stop()
		m.deps.Metrics.SessionsEvicted.Inc()
	}
	if len(stale) > 0 {
		logger.L().Info("idle sessions evicted", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Run evicts idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Evict()
		}
	}
}

// Shutdown stops every session loop. Later calls to Dispatch fail with
// ErrManagerClosed.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.closed = true
	entries := m.entries
	m.entries = make(map[string]*entry)
	m.mu.Unlock()

	for _, e := range entries {
		e.loop.Stop()
	}
	logger.L().Info("session manager stopped", zap.Int("sessions", len(entries)))
}

func (m *Manager) run(ctx context.Context, sessionID string, fn func(ctx context.Context, s *Session)) error {
	e, err := m.get(sessionID)
	if err != nil {
		return err
	}
	return e.loop.Submit(ctx, func(ctx context.Context) { fn(ctx, e.session) })
}

func (m *Manager) get(sessionID string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrManagerClosed
	}

	e, ok := m.entries[sessionID]
	if !ok {
		e = &entry{
			session: NewSession(sessionID, m.deps),
			loop:    NewLoop(loopBuffer),
		}
		m.entries[sessionID] = e
		m.deps.Metrics.SessionsOpened.Inc()
	}
	e.lastSeen = m.now()
	return e, nil
}
