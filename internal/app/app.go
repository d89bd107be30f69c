package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aussiebroadwan/kyc/internal/errhandler"
	"github.com/aussiebroadwan/kyc/internal/guard"
	"github.com/aussiebroadwan/kyc/internal/notify"
	"github.com/aussiebroadwan/kyc/internal/query"
	"github.com/aussiebroadwan/kyc/internal/session"
	"github.com/aussiebroadwan/kyc/internal/session/drivers/file"
	"github.com/aussiebroadwan/kyc/internal/session/drivers/memory"
	redisdrv "github.com/aussiebroadwan/kyc/internal/session/drivers/redis"
	"github.com/aussiebroadwan/kyc/internal/session/drivers/sqlite"
	"github.com/aussiebroadwan/kyc/internal/ui"
	"github.com/aussiebroadwan/kyc/pkg/kycsdk"
	"github.com/aussiebroadwan/kyc/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Option overrides a dependency, mostly for tests.
type Option func(*Application)

// WithOutput sets where screens and notices are written.
func WithOutput(w io.Writer) Option { return func(a *Application) { a.out = w } }

// WithLogger replaces the configured logger.
func WithLogger(l *slog.Logger) Option { return func(a *Application) { a.logger = l } }

// WithPersister bypasses the configured storage driver.
func WithPersister(p session.Persister) Option { return func(a *Application) { a.persister = p } }

// WithClock sets the clock used for token expiry.
func WithClock(now func() time.Time) Option { return func(a *Application) { a.now = now } }

// Application wires the session store, request pipeline and screens together.
type Application struct {
	cfg    Config
	logger *slog.Logger
	out    io.Writer
	now    func() time.Time

	persister session.Persister
	notices   *notify.Deferred

	API      *kycsdk.Client
	Sessions *session.Store
	Errors   *errhandler.Handler
	Queries  *query.Client
	Guard    *guard.Guard
	Router   *ui.Router
}

// New creates an Application with all dependencies initialized. The session
// is hydrated before New returns.
func New(ctx context.Context, cfg Config, opts ...Option) (*Application, error) {
	app := &Application{
		cfg: cfg,
		out: os.Stdout,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.logger == nil {
		app.logger = slogx.New(slogx.Config{
			Service: "kyc",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		})
	}

	if app.persister == nil {
		p, err := openPersister(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open session storage: %w", err)
		}
		app.persister = p
	}

	if err := app.initSession(ctx); err != nil {
		_ = app.persister.Close()
		return nil, err
	}
	app.initUI()

	return app, nil
}

func (app *Application) initSession(ctx context.Context) error {
	app.API = kycsdk.NewClient(app.cfg.APIBaseURL)
	app.API.HTTPClient.Timeout = app.cfg.HTTPTimeout

	// Notices queued during a render are shown after it.
	app.notices = notify.NewDeferred(notify.NewToaster(app.out))

	store, err := session.Open(slogx.WithContext(ctx, app.logger), session.Options{
		API:       app.API,
		Persister: app.persister,
		Notifier:  app.notices,
		Now:       app.now,
		TokenTTL:  app.cfg.TokenTTL,
		Logger:    app.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	app.Sessions = store
	app.API.Tokens = store
	return nil
}

func (app *Application) initUI() {
	app.Guard = guard.New(app.Sessions, ui.PathLogin)
	app.Router = ui.NewRouter(ui.RouterOptions{
		Guard:   app.Guard,
		Notices: app.notices,
		Out:     app.out,
		Denied:  ui.Denied(app.Sessions),
		Logger:  app.logger,
	})

	app.Errors = errhandler.New(errhandler.Options{
		Notifier:   app.notices,
		Sessions:   app.Sessions,
		Navigator:  app.Router,
		LoginPath:  ui.PathLogin,
		Production: app.cfg.Production(),
		Logger:     app.logger,
	})
	app.Queries = query.NewClient(query.Policy{
		Retries: uint64(app.cfg.Retries),
		Delay:   app.cfg.RetryDelay,
	}, app.Errors, app.logger)

	app.Router.HandlePublic(ui.PathLogin, ui.Login())
	app.Router.Handle(guard.Route{Path: ui.PathHome}, ui.Home(app.API, app.Queries))
	app.Router.Handle(guard.Route{Path: ui.PathProfile}, ui.Profile(app.Sessions))
	app.Router.Handle(guard.Route{
		Path:          ui.PathSubmissions,
		RequiredRoles: ui.OfficerRoles,
	}, ui.Submissions(app.API, app.Queries, app.cfg.PageSize))
}

// Context returns ctx carrying the application logger.
func (app *Application) Context(ctx context.Context) context.Context {
	return slogx.WithContext(ctx, app.logger)
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger { return app.logger }

// Out is where screens and notices are written.
func (app *Application) Out() io.Writer { return app.out }

// FlushNotices shows any queued notices immediately.
func (app *Application) FlushNotices() int { return app.notices.Flush() }

// Close releases the session storage.
func (app *Application) Close() error {
	if err := app.Sessions.Close(); err != nil {
		app.logger.Error("error closing session storage", "error", err)
		return err
	}
	return nil
}

func openPersister(ctx context.Context, cfg Config) (session.Persister, error) {
	switch cfg.Storage {
	case StorageMemory:
		return memory.New(), nil

	case StorageRedis:
		return redisdrv.Dial(ctx, cfg.RedisURL)

	case StorageSQLite:
		path := cfg.StoragePath
		if path == "" {
			dir, err := os.UserConfigDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "kyc", "kyc.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, err
		}
		return sqlite.Open(fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", path))

	case StorageFile, "":
		path := cfg.StoragePath
		if path == "" {
			var err error
			if path, err = file.DefaultPath(); err != nil {
				return nil, err
			}
		}
		return file.New(path)

	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}
