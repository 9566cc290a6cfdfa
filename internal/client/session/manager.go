package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/medinvest/medinvest/internal/client/authapi"
	"github.com/medinvest/medinvest/internal/client/models"
	"github.com/medinvest/medinvest/internal/client/securestore"
	"github.com/medinvest/medinvest/internal/common"
	"github.com/medinvest/medinvest/internal/logging"
)

// Event is delivered to subscribers on every session change. A nil Session
// means the user is signed out.
type Event struct {
	Session *models.Session
}

// Manager holds the one active session. Screens read it through Current and
// observe changes through Subscribe.
type Manager struct {
	// writeMu orders store writes with the in-memory swap that follows them.
	writeMu sync.Mutex

	mu      sync.Mutex
	current *models.Session
	subs    map[int]chan Event
	nextSub int

	store  securestore.Store
	api    authapi.Client
	logger logging.Logger
	now    func() time.Time
}

func NewManager(store securestore.Store, api authapi.Client, logger logging.Logger) *Manager {
	return &Manager{
		subs:   make(map[int]chan Event),
		store:  store,
		api:    api,
		logger: logger.With("module", "session"),
		now:    time.Now,
	}
}

// Current returns a copy of the active session, or nil.
func (m *Manager) Current() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.current)
}

// Set replaces the active session and mirrors it to the secure store. A
// failed mirror write is logged; the in-memory session still takes effect.
func (m *Manager) Set(ctx context.Context, s *models.Session) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	m.set(ctx, s)
}

// Clear drops the active session and its persisted mirror.
func (m *Manager) Clear(ctx context.Context) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	m.clear(ctx)
}

// set and clear must be called with m.writeMu held.
func (m *Manager) set(ctx context.Context, s *models.Session) {
	if s == nil {
		m.clear(ctx)
		return
	}
	s = clone(s)

	blob, err := json.Marshal(s)
	if err == nil {
		err = m.store.Set(ctx, common.SessionKey, blob)
		common.WipeByteArray(blob)
	}
	if err != nil {
		m.logger.Warn(ctx, "persisting session failed", "error", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
	m.publish(Event{Session: clone(s)})
}

func (m *Manager) clear(ctx context.Context) {
	if err := m.store.Delete(ctx, common.SessionKey); err != nil {
		m.logger.Warn(ctx, "deleting persisted session failed", "error", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return
	}
	m.current = nil
	m.publish(Event{})
}

// Subscribe returns a channel carrying session changes and a func that ends
// the subscription. A slow subscriber only sees the latest event.
func (m *Manager) Subscribe() (<-chan Event, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan Event, 1)
	m.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs, id)
			close(ch)
		})
	}
}

// publish must be called with m.mu held.
func (m *Manager) publish(ev Event) {
	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

// Restore loads the persisted session at launch. Expired sessions and
// sessions the backend no longer accepts are destroyed; when the backend
// cannot be reached the session is kept as is.
func (m *Manager) Restore(ctx context.Context) *models.Session {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	blob, err := m.store.Get(ctx, common.SessionKey)
	if err != nil {
		m.logger.Warn(ctx, "reading persisted session failed", "error", err)
		return nil
	}
	if blob == nil {
		return nil
	}

	var s models.Session
	err = json.Unmarshal(blob, &s)
	common.WipeByteArray(blob)
	if err != nil || s.Token == "" {
		m.logger.Warn(ctx, "persisted session is malformed")
		m.clear(ctx)
		return nil
	}

	if s.Expired(m.now()) {
		m.logger.Info(ctx, "persisted session expired")
		m.clear(ctx)
		return nil
	}

	user, err := m.api.Me(ctx, s.Token)
	switch {
	case err == nil:
		s.User = *user
	case errors.Is(err, authapi.ErrUnauthorized):
		m.logger.Info(ctx, "persisted session rejected by backend")
		m.clear(ctx)
		return nil
	default:
		m.logger.Warn(ctx, "could not verify persisted session, keeping it", "error", err)
	}

	m.set(ctx, &s)
	return m.Current()
}

// SignOut revokes the token on the backend, best effort, then clears the
// session.
func (m *Manager) SignOut(ctx context.Context) {
	if s := m.Current(); s != nil {
		if err := m.api.Logout(ctx, s.Token); err != nil {
			m.logger.Warn(ctx, "backend logout failed", "error", err)
		}
	}
	m.Clear(ctx)
}

func clone(s *models.Session) *models.Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
