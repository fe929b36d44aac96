// Package app builds the client's object graph once per process. The CLI,
// the web shell and the tools all start from New.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"evently/internal/analytics"
	"evently/internal/api"
	"evently/internal/auth"
	"evently/internal/events"
	"evently/internal/guard"
	"evently/internal/payments"
	"evently/internal/shared/config"
	"evently/internal/storage"
	"evently/internal/tickets"
	"evently/internal/uploads"
	"evently/pkg/cache"
	"evently/pkg/logger"
)

// App holds every long-lived collaborator. There is one per process.
type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	Storage  storage.Store
	Redis    *redis.Client // nil unless Redis is configured
	Cache    cache.Service // nil unless Redis is configured
	Registry *prometheus.Registry

	API     *api.Client
	History *guard.History
	Routes  *guard.Router

	Session   *auth.Store
	Events    *events.Store
	Tickets   *tickets.Store
	Checkout  *payments.Flow
	Analytics analytics.Service
	Uploads   uploads.Service
}

// Options override pieces of the default wiring, mostly for tests
type Options struct {
	Logger     *logger.Logger
	Storage    storage.Store
	HTTPClient *http.Client
	Widget     payments.Widget
}

// New wires the client and restores the persisted session
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	a := &App{
		Config:   cfg,
		Logger:   opts.Logger,
		Registry: prometheus.NewRegistry(),
		History:  guard.NewHistory(guard.PathHome),
		Routes:   guard.NewRouter(guard.DefaultRoutes()),
	}
	if a.Logger == nil {
		a.Logger = logger.New()
	}

	if needsRedis(cfg) {
		client, err := cache.NewClient(ctx, cache.Config{
			Address:  cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
		}
		a.Redis = client
		a.Cache = cache.NewService(client, cache.WithLogger(a.Logger))
		a.Logger.Info("Redis connected", slog.String("address", cfg.Redis.Addr))
	}

	store, err := a.openStorage(opts.Storage)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Storage = store

	clientOpts := []api.Option{
		api.WithNavigator(a.History),
		api.WithLogger(a.Logger),
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, api.WithHTTPClient(opts.HTTPClient))
	}
	if cfg.MetricsEnabled {
		a.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		clientOpts = append(clientOpts, api.WithMetrics(api.NewMetrics(a.Registry)))
	}
	a.API = api.New(api.Config{BaseURL: cfg.GetAPIBaseURL(), Timeout: cfg.API.Timeout}, a.Storage, clientOpts...)

	a.Session = auth.NewStore(auth.NewService(a.API), a.Storage, a.Logger)
	a.API.OnUnauthorized(a.Session.Reset)

	a.Events = events.NewStore(events.NewService(a.API), a.Logger)
	a.Tickets = tickets.NewStore(tickets.NewService(a.API), a.Logger)

	widget := opts.Widget
	if widget == nil {
		widget = defaultWidget(cfg)
	}
	a.Checkout = payments.NewFlow(payments.NewService(a.API), widget, a.Session, cfg.Payment.Currency, a.Logger)

	var analyticsOpts []analytics.Option
	if a.Cache != nil {
		analyticsOpts = append(analyticsOpts, analytics.WithCache(a.Cache, cfg.Redis.CacheTTL, a.Session.Email))
	}
	a.Analytics = analytics.NewService(a.API, analyticsOpts...)
	a.Uploads = uploads.NewService(a.API, cfg.Upload.MaxSize)

	if err := a.Session.Restore(ctx); err != nil {
		a.Logger.Warn("Session restore failed", slog.Any("error", err))
	}
	return a, nil
}

func needsRedis(cfg *config.Config) bool {
	return cfg.Session.Store == config.SessionStoreRedis || cfg.RateLimit.Enabled
}

func (a *App) openStorage(override storage.Store) (storage.Store, error) {
	if override != nil {
		return override, nil
	}
	switch a.Config.Session.Store {
	case config.SessionStoreMemory:
		return storage.NewMemory(), nil
	case config.SessionStoreFile, "":
		return storage.NewFile(a.Config.Session.FilePath), nil
	case config.SessionStoreRedis:
		return storage.NewRedis(a.Cache, a.Config.Session.Namespace, a.Config.Redis.SessionTTL), nil
	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q (want memory, file or redis)", a.Config.Session.Store)
	}
}

func defaultWidget(cfg *config.Config) payments.Widget {
	if cfg.Payment.SandboxSecret != "" {
		return payments.NewSandboxWidget(cfg.Payment.SandboxSecret)
	}
	return payments.NewScriptWidget(cfg.Payment.ScriptURL, nil, os.Stdin, os.Stderr)
}

// Close releases the Redis connection
func (a *App) Close() error {
	if a.Redis != nil {
		return a.Redis.Close()
	}
	return nil
}
