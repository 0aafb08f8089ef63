package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/fittrack/internal/client/api"
	"github.com/dmitrijs2005/fittrack/internal/client/config"
	"github.com/dmitrijs2005/fittrack/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/fittrack/internal/client/services"
	"github.com/dmitrijs2005/fittrack/internal/client/session"
	"github.com/dmitrijs2005/fittrack/internal/client/storage"
	"github.com/dmitrijs2005/fittrack/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	_ services.AuthAPI        = (*api.Client)(nil)
	_ services.FitnessAPI     = (*api.Client)(nil)
	_ services.SessionManager = (*session.Manager)(nil)
	_ api.TokenSource         = (*session.Manager)(nil)
)

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	session *session.Manager
	auth    services.AuthService
	fitness services.FitnessService
	reader  *bufio.Reader
	out     io.Writer

	mu          sync.Mutex
	lastStatus  session.Status
	unsubscribe func()
}

type AppOption func(*App)

// WithIO replaces stdin/stdout, mainly for tests.
func WithIO(r io.Reader, w io.Writer) AppOption {
	return func(a *App) {
		a.reader = bufio.NewReader(r)
		a.out = w
	}
}

func WithLogger(l logging.Logger) AppOption {
	return func(a *App) { a.log = l }
}

// NewApp builds the client from c. Metrics are registered on reg when it is
// not nil.
func NewApp(ctx context.Context, c *config.Config, reg prometheus.Registerer, opts ...AppOption) (*App, error) {
	a := &App{
		config: c,
		log:    logging.Nop{},
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	a.session = session.NewManager(store, session.WithLogger(a.log))

	apiOpts := []api.Option{api.WithTimeout(c.RequestTimeout), api.WithLogger(a.log)}
	if reg != nil {
		m, err := api.NewMetrics(reg)
		if err != nil {
			a.closeDB()
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		apiOpts = append(apiOpts, api.WithMetrics(m))
	}

	apiClient, err := api.New(c.ServerURL, a.session, apiOpts...)
	if err != nil {
		a.closeDB()
		return nil, err
	}

	a.auth = services.NewAuthService(apiClient, a.session)
	a.fitness = services.NewFitnessService(apiClient)
	return a, nil
}

func (a *App) openStore(ctx context.Context) (credentials.Store, error) {
	if a.config.Ephemeral {
		a.log.Info(ctx, "using in-memory credential store")
		return credentials.NewMemoryStore(), nil
	}

	db, err := storage.InitDatabase(ctx, a.config.DBPath)
	if err != nil {
		a.log.Error(ctx, "error initializing database", "path", a.config.DBPath, "error", err)
		return nil, err
	}
	a.db = db

	var store credentials.Store = credentials.NewSQLiteStore(db)
	if a.config.CredentialSecret != "" {
		store = credentials.NewSealedStore(store, []byte(a.config.CredentialSecret))
	}
	return store, nil
}

// Start subscribes the session observer and loads the persisted session.
func (a *App) Start(ctx context.Context) error {
	a.unsubscribe = a.session.Subscribe(a.observe)
	return a.session.Initialize(ctx)
}

// observe logs every session change and tells the user when the
// authentication state flips.
func (a *App) observe(s session.Session) {
	a.mu.Lock()
	prev := a.lastStatus
	a.lastStatus = s.Status
	a.mu.Unlock()

	a.log.Info(context.Background(), "session observed", "status", s.Status.String())

	if prev == s.Status {
		return
	}
	switch {
	case s.Status == session.StatusAuthenticated && prev == session.StatusInitializing:
		fmt.Fprintf(a.out, "Welcome back, %s\n", s.User.Name)
	case s.Status == session.StatusUnauthenticated && prev == session.StatusAuthenticated:
		fmt.Fprintln(a.out, "Signed out")
	}
}

// Run starts the app and blocks in the REPL until exit or end of input.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Welcome to fittrack (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	a.closeDB()
}

func (a *App) closeDB() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		a.log.Warn(context.Background(), "closing database", "error", err)
	}
	a.db = nil
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().Authenticated()
}

func (a *App) getStatus() string {
	s := a.session.Snapshot()
	if !s.Authenticated() {
		return ""
	}
	name := s.User.Name
	if s.User.Email != "" {
		name = s.User.Email
	}
	return fmt.Sprintf("(%s)", name)
}
