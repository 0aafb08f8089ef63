package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/fittrack/internal/client/models"
	"github.com/dmitrijs2005/fittrack/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/fittrack/internal/client/storage"
	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * Fakes
 *************/

// faultyStore wraps a MemoryStore and fails selected operations per key.
type faultyStore struct {
	*credentials.MemoryStore

	mu        sync.Mutex
	getErr    map[string]error
	setErr    map[string]error
	removeErr map[string]error
}

func newFaultyStore() *faultyStore {
	return &faultyStore{
		MemoryStore: credentials.NewMemoryStore(),
		getErr:      map[string]error{},
		setErr:      map[string]error{},
		removeErr:   map[string]error{},
	}
}

func (f *faultyStore) fail(m map[string]error, key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m[key] = err
}

func (f *faultyStore) lookup(m map[string]error, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return m[key]
}

func (f *faultyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := f.lookup(f.getErr, key); err != nil {
		return "", false, err
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *faultyStore) Set(ctx context.Context, key, value string) error {
	if err := f.lookup(f.setErr, key); err != nil {
		return err
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *faultyStore) Remove(ctx context.Context, key string) error {
	if err := f.lookup(f.removeErr, key); err != nil {
		return err
	}
	return f.MemoryStore.Remove(ctx, key)
}

type reported struct {
	mu   sync.Mutex
	errs []error
	ops  []string
}

func (r *reported) report(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
	r.errs = append(r.errs, err)
}

func (r *reported) last() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[len(r.errs)-1]
}

func (r *reported) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

// recorder collects published snapshots and checks the token/user invariant
// on every one of them.
type recorder struct {
	t        *testing.T
	mu       sync.Mutex
	sessions []Session
}

func (r *recorder) observe(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if (s.Token == "") != (s.User == nil) {
		r.t.Errorf("token/user invariant broken: %+v", s)
	}
	if s.Authenticated() != (s.Token != "") {
		r.t.Errorf("status/token invariant broken: %+v", s)
	}
	r.sessions = append(r.sessions, s)
}

func (r *recorder) statuses() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Status, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.Status)
	}
	return out
}

func newTestManager(t *testing.T, store credentials.Store) (*Manager, *recorder, *reported) {
	t.Helper()
	rep := &reported{}
	m := NewManager(store, WithErrorReporter(rep.report))
	rec := &recorder{t: t}
	t.Cleanup(m.Subscribe(rec.observe))
	return m, rec, rep
}

func ana() *models.User {
	return &models.User{ID: "1", Name: "Ana"}
}

func ptr[T any](v T) *T { return &v }

/*************
 * Initialize
 *************/

func TestInitialize_EmptyStore_Unauthenticated(t *testing.T) {
	m, rec, rep := newTestManager(t, credentials.NewMemoryStore())

	require.NoError(t, m.Initialize(context.Background()))

	assert.Equal(t, StatusUnauthenticated, m.Snapshot().Status)
	assert.Equal(t, []Status{StatusInitializing, StatusUnauthenticated}, rec.statuses())
	assert.Zero(t, rep.count())
}

func TestInitialize_CompleteRecord_Authenticated(t *testing.T) {
	store := credentials.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, common.TokenKey, "abc123"))
	require.NoError(t, store.Set(ctx, common.UserKey, `{"id":1,"name":"Ana"}`))

	m, _, _ := newTestManager(t, store)
	require.NoError(t, m.Initialize(ctx))

	s := m.Snapshot()
	assert.Equal(t, StatusAuthenticated, s.Status)
	assert.Equal(t, "abc123", s.Token)
	assert.Equal(t, ana(), s.User)
}

func TestInitialize_PartialRecord_FailsClosed(t *testing.T) {
	tests := []struct {
		name  string
		token *string
		user  *string
	}{
		{name: "token only", token: ptr("abc123")},
		{name: "user only", user: ptr(`{"id":1,"name":"Ana"}`)},
		{name: "empty token", token: ptr(""), user: ptr(`{"id":1,"name":"Ana"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := credentials.NewMemoryStore()
			ctx := context.Background()
			if tt.token != nil {
				require.NoError(t, store.Set(ctx, common.TokenKey, *tt.token))
			}
			if tt.user != nil {
				require.NoError(t, store.Set(ctx, common.UserKey, *tt.user))
			}

			m, _, rep := newTestManager(t, store)
			require.NoError(t, m.Initialize(ctx))

			s := m.Snapshot()
			assert.Equal(t, StatusUnauthenticated, s.Status)
			assert.Empty(t, s.Token)
			assert.Nil(t, s.User)
			assert.ErrorIs(t, rep.last(), ErrMalformedRecord)
		})
	}
}

func TestInitialize_MalformedProfile_FailsClosed(t *testing.T) {
	for _, raw := range []string{`{not json`, `null`, `[1,2]`} {
		t.Run(raw, func(t *testing.T) {
			store := credentials.NewMemoryStore()
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, common.TokenKey, "abc123"))
			require.NoError(t, store.Set(ctx, common.UserKey, raw))

			m, _, rep := newTestManager(t, store)
			require.NoError(t, m.Initialize(ctx))

			assert.Equal(t, StatusUnauthenticated, m.Snapshot().Status)
			assert.ErrorIs(t, rep.last(), ErrMalformedRecord)
		})
	}
}

func TestInitialize_StoreReadFailure_FailsClosed(t *testing.T) {
	store := newFaultyStore()
	ctx := context.Background()
	require.NoError(t, store.MemoryStore.Set(ctx, common.TokenKey, "abc123"))
	require.NoError(t, store.MemoryStore.Set(ctx, common.UserKey, `{"id":1}`))
	diskErr := errors.New("disk gone")
	store.fail(store.getErr, common.UserKey, diskErr)

	m, _, rep := newTestManager(t, store)
	require.NoError(t, m.Initialize(ctx))

	assert.Equal(t, StatusUnauthenticated, m.Snapshot().Status)
	assert.ErrorIs(t, rep.last(), ErrStorage)
	assert.ErrorIs(t, rep.last(), diskErr)
}

func TestInitialize_Twice_IsContractViolation(t *testing.T) {
	m, rec, rep := newTestManager(t, credentials.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, m.Initialize(ctx))
	err := m.Initialize(ctx)

	require.ErrorIs(t, err, ErrContractViolation)
	assert.ErrorIs(t, rep.last(), ErrContractViolation)
	assert.Equal(t, []Status{StatusInitializing, StatusUnauthenticated}, rec.statuses())
}

func TestOperationsBeforeInitialize_AreRejected(t *testing.T) {
	m, rec, _ := newTestManager(t, credentials.NewMemoryStore())
	ctx := context.Background()

	require.ErrorIs(t, m.SignIn(ctx, "abc123", ana()), ErrContractViolation)
	require.ErrorIs(t, m.SignOut(ctx), ErrContractViolation)
	require.ErrorIs(t, m.UpdateUser(ctx, ana()), ErrContractViolation)

	assert.Equal(t, StatusInitializing, m.Snapshot().Status)
	assert.Equal(t, []Status{StatusInitializing}, rec.statuses())
}

/*************
 * SignIn
 *************/

func TestSignIn_PersistsAndPublishes(t *testing.T) {
	store := credentials.NewMemoryStore()
	m, rec, _ := newTestManager(t, store)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	require.NoError(t, m.SignIn(ctx, "abc123", ana()))

	s := m.Snapshot()
	assert.Equal(t, StatusAuthenticated, s.Status)
	assert.Equal(t, "abc123", s.Token)

	stored, ok, err := store.Get(ctx, common.TokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc123", stored)

	tok, ok := m.Token()
	assert.True(t, ok)
	assert.Equal(t, "abc123", tok)

	assert.Equal(t, []Status{StatusInitializing, StatusUnauthenticated, StatusAuthenticated}, rec.statuses())
}

func TestSignIn_RoundTripAcrossRestart(t *testing.T) {
	store := credentials.NewMemoryStore()
	ctx := context.Background()
	user := &models.User{ID: "1", Name: "Ana", Email: "ana@example.org", Age: ptr(31), Height: ptr(168.5), Goal: ptr("Stay Fit")}

	first := NewManager(store)
	require.NoError(t, first.Initialize(ctx))
	require.NoError(t, first.SignIn(ctx, "abc123", user))

	restarted := NewManager(store)
	require.NoError(t, restarted.Initialize(ctx))

	s := restarted.Snapshot()
	assert.Equal(t, StatusAuthenticated, s.Status)
	assert.Equal(t, "abc123", s.Token)
	assert.Equal(t, user, s.User)
}

func TestSignIn_RoundTripAcrossRestart_SQLite(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "fittrack.db")

	open := func() (*sql.DB, *Manager) {
		db, err := storage.InitDatabase(ctx, dsn)
		require.NoError(t, err)
		return db, NewManager(credentials.NewSealedStore(credentials.NewSQLiteStore(db), []byte("secret")))
	}

	db, m := open()
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.SignIn(ctx, "abc123", ana()))
	require.NoError(t, db.Close())

	db, m = open()
	defer db.Close()
	require.NoError(t, m.Initialize(ctx))

	s := m.Snapshot()
	assert.Equal(t, StatusAuthenticated, s.Status)
	assert.Equal(t, "abc123", s.Token)
	assert.Equal(t, ana(), s.User)
}

func TestSignIn_StorageFailure_StillAuthenticated(t *testing.T) {
	store := newFaultyStore()
	diskErr := errors.New("disk full")
	store.fail(store.setErr, common.UserKey, diskErr)

	m, _, rep := newTestManager(t, store)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	require.NoError(t, m.SignIn(ctx, "abc123", ana()))

	s := m.Snapshot()
	assert.Equal(t, StatusAuthenticated, s.Status)
	assert.Equal(t, "abc123", s.Token)
	assert.ErrorIs(t, rep.last(), ErrStorage)
	assert.ErrorIs(t, rep.last(), diskErr)

	// the half-written token is cleared so a restart asks for login again
	_, ok, err := store.Get(ctx, common.TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)

	restarted := NewManager(store)
	require.NoError(t, restarted.Initialize(ctx))
	assert.Equal(t, StatusUnauthenticated, restarted.Snapshot().Status)
}

func TestSignIn_AccountSwitch_LastWriteWins(t *testing.T) {
	store := credentials.NewMemoryStore()
	m, _, _ := newTestManager(t, store)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	require.NoError(t, m.SignIn(ctx, "abc123", ana()))
	bea := &models.User{ID: "2", Name: "Bea"}
	require.NoError(t, m.SignIn(ctx, "xyz789", bea))

	s := m.Snapshot()
	assert.Equal(t, "xyz789", s.Token)
	assert.Equal(t, bea, s.User)

	restarted := NewManager(store)
	require.NoError(t, restarted.Initialize(ctx))
	assert.Equal(t, "xyz789", restarted.Snapshot().Token)
	assert.Equal(t, bea, restarted.Snapshot().User)
}

func TestSignIn_AccountSwitch_PartialFailureNeverMixesAccounts(t *testing.T) {
	store := newFaultyStore()
	m, _, rep := newTestManager(t, store)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.SignIn(ctx, "abc123", ana()))

	store.fail(store.setErr, common.UserKey, errors.New("disk full"))
	store.fail(store.removeErr, common.TokenKey, errors.New("locked"))

	bea := &models.User{ID: "2", Name: "Bea"}
	require.NoError(t, m.SignIn(ctx, "xyz789", bea))
	assert.Equal(t, "xyz789", m.Snapshot().Token)
	assert.ErrorIs(t, rep.last(), ErrStorage)

	_, hasUser, err := store.MemoryStore.Get(ctx, common.UserKey)
	require.NoError(t, err)
	assert.False(t, hasUser)

	restarted := NewManager(store)
	require.NoError(t, restarted.Initialize(ctx))
	s := restarted.Snapshot()
	assert.Equal(t, StatusUnauthenticated, s.Status)
	assert.Nil(t, s.User)
}

func TestSignIn_InvalidArguments(t *testing.T) {
	m, rec, _ := newTestManager(t, credentials.NewMemoryStore())
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	require.ErrorIs(t, m.SignIn(ctx, "", ana()), ErrContractViolation)
	require.ErrorIs(t, m.SignIn(ctx, "abc123", nil), ErrContractViolation)

	assert.Equal(t, StatusUnauthenticated, m.Snapshot().Status)
	assert.Equal(t, []Status{StatusInitializing, StatusUnauthenticated}, rec.statuses())
}

/*************
 * SignOut
 *************/

func TestSignOut_ClearsStoreAndPublishes(t *testing.T) {
	store := credentials.NewMemoryStore()
	m, rec, _ := newTestManager(t, store)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.SignIn(ctx, "abc123", ana()))

	require.NoError(t, m.SignOut(ctx))

	assert.Equal(t, StatusUnauthenticated, m.Snapshot().Status)
	_, ok := m.Token()
	assert.False(t, ok)
	for _, key := range []string{common.TokenKey, common.UserKey} {
		_, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
	assert.Equal(t, []Status{StatusInitializing, StatusUnauthenticated, StatusAuthenticated, StatusUnauthenticated}, rec.statuses())
}

func TestSignOut_WhenUnauthenticated_IsNoop(t *testing.T) {
	m, rec, rep := newTestManager(t, credentials.NewMemoryStore())
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	require.NoError(t, m.SignOut(ctx))
	require.NoError(t, m.SignOut(ctx))

	assert.Equal(t, StatusUnauthenticated, m.Snapshot().Status)
	assert.Equal(t, []Status{StatusInitializing, StatusUnauthenticated}, rec.statuses())
	assert.Zero(t, rep.count())
}

func TestSignOut_RemovalFailure_StillUnauthenticated(t *testing.T) {
	store := newFaultyStore()
	m, _, rep := newTestManager(t, store)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.SignIn(ctx, "abc123", ana()))

	diskErr := errors.New("read-only filesystem")
	store.fail(store.removeErr, common.TokenKey, diskErr)

	require.NoError(t, m.SignOut(ctx))

	assert.Equal(t, StatusUnauthenticated, m.Snapshot().Status)
	assert.ErrorIs(t, rep.last(), ErrStorage)
	assert.ErrorIs(t, rep.last(), diskErr)

	// the user key is still attempted, leaving a record that fails closed
	_, ok, err := store.Get(ctx, common.UserKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

/*************
 * UpdateUser
 *************/

func TestUpdateUser_ReplacesProfileKeepsToken(t *testing.T) {
	store := credentials.NewMemoryStore()
	m, rec, _ := newTestManager(t, store)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.SignIn(ctx, "abc123", ana()))

	require.NoError(t, m.UpdateUser(ctx, &models.User{ID: "1", Name: "Ana", Weight: ptr(60.0)}))

	s := m.Snapshot()
	assert.Equal(t, StatusAuthenticated, s.Status)
	assert.Equal(t, "abc123", s.Token)
	require.NotNil(t, s.User.Weight)
	assert.Equal(t, 60.0, *s.User.Weight)

	restarted := NewManager(store)
	require.NoError(t, restarted.Initialize(ctx))
	assert.Equal(t, 60.0, *restarted.Snapshot().User.Weight)

	assert.Len(t, rec.statuses(), 4)
}

func TestUpdateUser_WithoutSession_IsNoop(t *testing.T) {
	store := credentials.NewMemoryStore()
	m, rec, rep := newTestManager(t, store)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	err := m.UpdateUser(ctx, ana())

	require.ErrorIs(t, err, ErrContractViolation)
	assert.ErrorIs(t, rep.last(), ErrContractViolation)
	assert.Equal(t, StatusUnauthenticated, m.Snapshot().Status)
	assert.Equal(t, []Status{StatusInitializing, StatusUnauthenticated}, rec.statuses())

	_, ok, _ := store.Get(ctx, common.UserKey)
	assert.False(t, ok)
}

func TestUpdateUser_StorageFailure_KeepsOldProfile(t *testing.T) {
	store := newFaultyStore()
	m, rec, _ := newTestManager(t, store)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.SignIn(ctx, "abc123", ana()))

	store.fail(store.setErr, common.UserKey, errors.New("disk full"))
	err := m.UpdateUser(ctx, &models.User{ID: "1", Name: "Ana", Weight: ptr(60.0)})

	require.ErrorIs(t, err, ErrStorage)
	s := m.Snapshot()
	assert.Equal(t, ana(), s.User)
	assert.Equal(t, "abc123", s.Token)
	assert.Len(t, rec.statuses(), 3)
}

/*************
 * Subscriptions and concurrency
 *************/

func TestSnapshot_IsIsolatedFromManager(t *testing.T) {
	m, _, _ := newTestManager(t, credentials.NewMemoryStore())
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))
	user := ana()
	require.NoError(t, m.SignIn(ctx, "abc123", user))

	user.Name = "mutated by caller"
	s := m.Snapshot()
	s.User.Name = "mutated by reader"

	assert.Equal(t, "Ana", m.Snapshot().User.Name)
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	m := NewManager(credentials.NewMemoryStore())
	ctx := context.Background()

	var got []Status
	unsubscribe := m.Subscribe(func(s Session) { got = append(got, s.Status) })
	require.NoError(t, m.Initialize(ctx))
	unsubscribe()
	unsubscribe()
	require.NoError(t, m.SignIn(ctx, "abc123", ana()))

	assert.Equal(t, []Status{StatusInitializing, StatusUnauthenticated}, got)
}

func TestSubscribe_LateSubscriberSeesCurrentState(t *testing.T) {
	m := NewManager(credentials.NewMemoryStore())
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.SignIn(ctx, "abc123", ana()))

	var first Session
	defer m.Subscribe(func(s Session) { first = s })()

	assert.Equal(t, StatusAuthenticated, first.Status)
	assert.Equal(t, "abc123", first.Token)
}

func TestConcurrentTransitions_AreSerialized(t *testing.T) {
	store := credentials.NewMemoryStore()
	m, rec, _ := newTestManager(t, store)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			_ = m.SignIn(ctx, fmt.Sprintf("token-%d", i), &models.User{ID: models.ID(fmt.Sprint(i)), Name: "Ana"})
		}(i)
		go func() {
			defer wg.Done()
			_ = m.SignOut(ctx)
		}()
		go func() {
			defer wg.Done()
			if tok, ok := m.Token(); ok && tok == "" {
				t.Errorf("authenticated with empty token")
			}
		}()
	}
	wg.Wait()

	// the published state and the store agree once everything settles
	final := m.Snapshot()
	stored, ok, err := store.Get(ctx, common.TokenKey)
	require.NoError(t, err)
	if final.Authenticated() {
		require.True(t, ok)
		assert.Equal(t, final.Token, stored)
	} else {
		assert.False(t, ok)
	}

	last := rec.sessions[len(rec.sessions)-1]
	assert.Equal(t, final.Status, last.Status)
	assert.Equal(t, final.Token, last.Token)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "initializing", StatusInitializing.String())
	assert.Equal(t, "unauthenticated", StatusUnauthenticated.String())
	assert.Equal(t, "authenticated", StatusAuthenticated.String())
	assert.Equal(t, "unknown", Status(42).String())
}
