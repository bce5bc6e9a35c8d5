// Package session owns "who is logged in": the cached user record, the
// token pair, and the authenticated/unauthenticated state machine. It is
// the only writer of the cached user; the API client only ever rotates the
// token pair.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/avrentops/rentalctl/internal/credstore"
	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/observability"
)

type Status string

const (
	// StatusUnknown is the post-start, pre-rehydration state. Consumers
	// must treat it as "checking", never as "logged out".
	StatusUnknown         Status = "unknown"
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticated   Status = "authenticated"
)

// API is the slice of the HTTP client the manager needs.
type API interface {
	Login(ctx context.Context, email, password string) (*domain.AuthSession, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.AuthSession, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*domain.User, error)
}

type Manager struct {
	store  credstore.Store
	api    API
	logger *slog.Logger

	mu      sync.Mutex
	status  Status
	user    *domain.User
	tokens  *domain.TokenPair
	loading bool
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

func NewManager(store credstore.Store, api API, opts ...Option) *Manager {
	m := &Manager{store: store, api: api, logger: slog.Default(), status: StatusUnknown}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Manager) IsAuthenticated() bool { return m.Status() == StatusAuthenticated }

func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// User returns the cached user record, nil when nobody is logged in.
func (m *Manager) User() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	cp := *m.user
	return &cp
}

func (m *Manager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	m.setLoading(true)
	session, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.setLoading(false)
		observability.RecordSessionEvent("login", "failure")
		return nil, err
	}
	if err := m.adopt(session); err != nil {
		m.setLoading(false)
		return nil, err
	}
	observability.RecordSessionEvent("login", "success")
	return m.User(), nil
}

func (m *Manager) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	m.setLoading(true)
	session, err := m.api.Register(ctx, reg)
	if err != nil {
		m.setLoading(false)
		observability.RecordSessionEvent("register", "failure")
		return nil, err
	}
	if err := m.adopt(session); err != nil {
		m.setLoading(false)
		return nil, err
	}
	observability.RecordSessionEvent("register", "success")
	return m.User(), nil
}

// Logout ends the session. The remote call is best-effort: whatever the
// server or network does, local credentials are gone when this returns,
// and it never returns an error.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.api.Logout(ctx); err != nil {
		m.logger.Debug("remote logout failed, clearing local session anyway", "error", err)
	}
	m.clear()
	observability.RecordSessionEvent("logout", "success")
}

// CurrentUser revalidates the persisted token against /auth/me. Any
// failure is treated as "not actually authenticated": credentials are
// cleared and (nil, nil) is returned rather than an error. This is how a
// stale token is discovered at startup.
func (m *Manager) CurrentUser(ctx context.Context) (*domain.User, error) {
	m.setLoading(true)
	user, err := m.api.Me(ctx)
	if err != nil || user == nil {
		m.clear()
		observability.RecordSessionEvent("fetch_user", "downgraded")
		return nil, nil
	}
	if err := m.store.SetUser(user); err != nil {
		m.logger.Warn("caching user record", "error", err)
	}
	m.mu.Lock()
	m.user = user
	m.status = StatusAuthenticated
	m.loading = false
	m.mu.Unlock()
	observability.RecordSessionEvent("fetch_user", "success")
	return m.User(), nil
}

// Rehydrate loads persisted state and resolves StatusUnknown. With tokens
// on disk it revalidates them via CurrentUser; the brief window where
// tokens are loaded but the user fetch has not finished is the documented
// transitional state.
func (m *Manager) Rehydrate(ctx context.Context) error {
	tokens, err := m.store.Tokens()
	if err != nil {
		m.logger.Warn("loading persisted tokens", "error", err)
	}
	user, err := m.store.User()
	if err != nil {
		m.logger.Warn("loading persisted user", "error", err)
	}
	if tokens == nil {
		m.clear()
		observability.RecordSessionEvent("rehydrate", "unauthenticated")
		return nil
	}

	m.mu.Lock()
	m.tokens = tokens
	m.user = user
	m.mu.Unlock()

	if _, err := m.CurrentUser(ctx); err != nil {
		return err
	}
	observability.RecordSessionEvent("rehydrate", string(m.Status()))
	return nil
}

func (m *Manager) adopt(session *domain.AuthSession) error {
	if session == nil || session.User == nil || session.Tokens == nil {
		m.clear()
		return ErrIncompleteSession
	}
	// Durable first, then memory: the API client reads the store
	// independently and must see the pair as soon as we are "logged in".
	if err := m.store.SetTokens(session.Tokens); err != nil {
		return err
	}
	if err := m.store.SetUser(session.User); err != nil {
		return err
	}
	m.mu.Lock()
	m.user = session.User
	m.tokens = session.Tokens
	m.status = StatusAuthenticated
	m.loading = false
	m.mu.Unlock()
	return nil
}

func (m *Manager) clear() {
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("clearing credential store", "error", err)
	}
	m.mu.Lock()
	m.user = nil
	m.tokens = nil
	m.status = StatusUnauthenticated
	m.loading = false
	m.mu.Unlock()
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}
