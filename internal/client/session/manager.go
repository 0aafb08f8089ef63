package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/fittrack/internal/client/models"
	"github.com/dmitrijs2005/fittrack/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/logging"
)

// Reporter receives every error the Manager resolves locally instead of
// returning, tagged with the operation that produced it.
type Reporter func(op string, err error)

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func WithErrorReporter(r Reporter) Option {
	return func(m *Manager) { m.report = r }
}

// Manager is the single source of truth for the session. It must be
// initialized exactly once with Initialize before any other transition.
//
// Transitions are serialized: Initialize, SignIn, SignOut and UpdateUser run
// one at a time, including their store I/O and the publish to subscribers.
// Snapshot and Token never wait on store I/O.
type Manager struct {
	store  credentials.Store
	log    logging.Logger
	report Reporter

	transition  sync.Mutex
	initialized bool

	mu      sync.RWMutex
	current Session

	subsMu  sync.Mutex
	subs    map[uint64]func(Session)
	nextSub uint64
}

func NewManager(store credentials.Store, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		log:     logging.Nop{},
		current: Session{Status: StatusInitializing},
		subs:    make(map[uint64]func(Session)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With("component", "session")
	return m
}

// Snapshot returns a copy of the current session.
func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.clone()
}

// Token returns the current bearer token, if authenticated. It is read live
// on every call.
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current.Status != StatusAuthenticated {
		return "", false
	}
	return m.current.Token, true
}

// Subscribe registers fn for session changes. fn is called right away with
// the current snapshot and then once per transition, in order, on the
// goroutine performing the transition. fn must not call Initialize, SignIn,
// SignOut, UpdateUser or Subscribe.
func (m *Manager) Subscribe(fn func(Session)) (unsubscribe func()) {
	m.transition.Lock()
	defer m.transition.Unlock()

	m.subsMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subsMu.Unlock()

	fn(m.Snapshot())

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subsMu.Lock()
			delete(m.subs, id)
			m.subsMu.Unlock()
		})
	}
}

// Initialize loads the persisted record. A complete, decodable record yields
// StatusAuthenticated; anything else yields StatusUnauthenticated and the
// reason is reported. Only a repeated call returns an error.
func (m *Manager) Initialize(ctx context.Context) error {
	m.transition.Lock()
	defer m.transition.Unlock()

	if m.initialized {
		return m.violation(ctx, "initialize", "already initialized")
	}
	m.initialized = true

	next, err := m.load(ctx)
	if err != nil {
		m.reportErr(ctx, "initialize", err)
	}
	m.publish(ctx, next)
	return nil
}

func (m *Manager) load(ctx context.Context) (Session, error) {
	token, hasToken, err := m.store.Get(ctx, common.TokenKey)
	if err != nil {
		return unauthenticated(), fmt.Errorf("%w: read token: %w", ErrStorage, err)
	}
	raw, hasUser, err := m.store.Get(ctx, common.UserKey)
	if err != nil {
		return unauthenticated(), fmt.Errorf("%w: read user: %w", ErrStorage, err)
	}

	if !hasToken && !hasUser {
		return unauthenticated(), nil
	}
	if !hasToken || !hasUser || token == "" {
		return unauthenticated(), fmt.Errorf("%w: incomplete record (token=%t, user=%t)", ErrMalformedRecord, hasToken && token != "", hasUser)
	}

	var user *models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return unauthenticated(), fmt.Errorf("%w: decode user: %w", ErrMalformedRecord, err)
	}
	if user == nil {
		return unauthenticated(), fmt.Errorf("%w: empty user", ErrMalformedRecord)
	}

	return authenticated(token, user), nil
}

// SignIn persists token then user and publishes StatusAuthenticated. A
// persistence failure is reported, the partial record is cleared as far as
// possible, and the transition still happens. Signing in while already
// authenticated replaces the credential.
func (m *Manager) SignIn(ctx context.Context, token string, user *models.User) error {
	if token == "" || user == nil {
		return m.violation(ctx, "sign_in", "token and user are both required")
	}

	m.transition.Lock()
	defer m.transition.Unlock()

	if !m.initialized {
		return m.violation(ctx, "sign_in", "not initialized")
	}

	if err := m.persist(ctx, token, user); err != nil {
		if cerr := m.clear(ctx); cerr != nil {
			err = errors.Join(err, cerr)
		}
		m.reportErr(ctx, "sign_in", err)
	}

	m.publish(ctx, authenticated(token, user))
	return nil
}

// persist drops the previous profile before writing the new token, so a
// failure part way never leaves a token paired with another account's user.
func (m *Manager) persist(ctx context.Context, token string, user *models.User) error {
	if err := m.store.Remove(ctx, common.UserKey); err != nil {
		return fmt.Errorf("%w: remove previous user: %w", ErrStorage, err)
	}
	if err := m.store.Set(ctx, common.TokenKey, token); err != nil {
		return fmt.Errorf("%w: write token: %w", ErrStorage, err)
	}
	return m.writeUser(ctx, user)
}

func (m *Manager) writeUser(ctx context.Context, user *models.User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%w: encode user: %w", ErrStorage, err)
	}
	if err := m.store.Set(ctx, common.UserKey, string(b)); err != nil {
		return fmt.Errorf("%w: write user: %w", ErrStorage, err)
	}
	return nil
}

// clear removes the token first so an interrupted clear leaves a record that
// loads as unauthenticated. Both removals are always attempted.
func (m *Manager) clear(ctx context.Context) error {
	var errs []error
	if err := m.store.Remove(ctx, common.TokenKey); err != nil {
		errs = append(errs, fmt.Errorf("%w: remove token: %w", ErrStorage, err))
	}
	if err := m.store.Remove(ctx, common.UserKey); err != nil {
		errs = append(errs, fmt.Errorf("%w: remove user: %w", ErrStorage, err))
	}
	return errors.Join(errs...)
}

// SignOut removes the persisted record and publishes StatusUnauthenticated.
// Removal failures are reported, never returned, and never block the
// transition. Signing out while unauthenticated changes nothing.
func (m *Manager) SignOut(ctx context.Context) error {
	m.transition.Lock()
	defer m.transition.Unlock()

	if !m.initialized {
		return m.violation(ctx, "sign_out", "not initialized")
	}

	if err := m.clear(ctx); err != nil {
		m.reportErr(ctx, "sign_out", err)
	}

	if m.Snapshot().Status != StatusUnauthenticated {
		m.publish(ctx, unauthenticated())
	}
	return nil
}

// UpdateUser replaces the profile of the active session, keeping the token.
// Without an active session it is a no-op that returns ErrContractViolation.
// If the profile cannot be persisted, ErrStorage is returned and the
// session is left as it was.
func (m *Manager) UpdateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return m.violation(ctx, "update_user", "user is required")
	}

	m.transition.Lock()
	defer m.transition.Unlock()

	cur := m.Snapshot()
	if cur.Status != StatusAuthenticated {
		return m.violation(ctx, "update_user", "no active session")
	}

	if err := m.writeUser(ctx, user); err != nil {
		m.reportErr(ctx, "update_user", err)
		return err
	}

	m.publish(ctx, authenticated(cur.Token, user))
	return nil
}

func (m *Manager) publish(ctx context.Context, next Session) {
	m.mu.Lock()
	prev := m.current.Status
	m.current = next
	m.mu.Unlock()

	m.log.Info(ctx, "session changed", "from", prev.String(), "to", next.Status.String())

	m.subsMu.Lock()
	fns := make([]func(Session), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subsMu.Unlock()

	for _, fn := range fns {
		fn(next.clone())
	}
}

func (m *Manager) violation(ctx context.Context, op, msg string) error {
	err := fmt.Errorf("%w: %s: %s", ErrContractViolation, op, msg)
	m.reportErr(ctx, op, err)
	return err
}

func (m *Manager) reportErr(ctx context.Context, op string, err error) {
	m.log.Error(ctx, "session operation failed", "op", op, "error", err)
	if m.report != nil {
		m.report(op, err)
	}
}
