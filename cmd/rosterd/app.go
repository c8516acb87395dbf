package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/alem-hub/roster-hub/config"
	"github.com/alem-hub/roster-hub/internal/application/dispatch"
	"github.com/alem-hub/roster-hub/internal/infrastructure/bootstrap"
	"github.com/alem-hub/roster-hub/internal/infrastructure/messaging"
	"github.com/alem-hub/roster-hub/internal/infrastructure/state"
	httpserver "github.com/alem-hub/roster-hub/internal/interface/http"
	"github.com/alem-hub/roster-hub/pkg/logger"
)

// app owns every long-lived component of the process.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	store  *state.Store
	bus    *messaging.InMemoryEventBus
	redis  *redis.Client
	server *httpserver.Server
}

// newApp loads the bootstrap documents and wires the store, event bus,
// dispatcher and HTTP server. A bootstrap failure aborts startup.
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	src, closeSrc, err := openSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	initial, err := bootstrap.Load(ctx, src, bootstrap.Documents{
		Profile: cfg.Bootstrap.ProfileDocument,
		Roster:  cfg.Bootstrap.RosterDocument,
	}, log)
	closeSrc()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	log.Info("loaded state", logger.String("summary", initial.Summary()))

	a := &app{
		cfg:   cfg,
		log:   log,
		store: state.NewStore(initial),
		bus: messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{
			AsyncMode:      true,
			WorkerPoolSize: 4,
			Logger:         log,
		}),
	}

	if cfg.Redis.Enabled {
		if err := a.attachRedis(ctx); err != nil {
			a.close()
			return nil, err
		}
	}

	d := dispatch.New(dispatch.NewHandlers(a.store, a.bus, log), log)

	httpCfg := httpserver.DefaultConfig()
	httpCfg.Host = cfg.HTTP.Host
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	httpCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	httpCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpCfg.Version = cfg.App.Version

	a.server, err = httpserver.NewServer(httpCfg, httpserver.Dependencies{
		Dispatcher: d,
		Store:      a.store,
		Events:     a.bus,
		Logger:     log,
	})
	if err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// openSource returns the configured document source and a release function.
func openSource(ctx context.Context, cfg *config.Config) (bootstrap.Source, func(), error) {
	switch cfg.Bootstrap.Source {
	case config.SourcePostgres:
		pgCfg := bootstrap.DefaultPostgresConfig()
		pgCfg.URL = cfg.Bootstrap.DatabaseURL
		pgCfg.Table = cfg.Bootstrap.Table
		pgCfg.ConnectTimeout = cfg.Bootstrap.ConnectTimeout

		src, err := bootstrap.NewPostgresSource(ctx, pgCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: %w", err)
		}
		return src, src.Close, nil
	default:
		return bootstrap.NewOSFileSource(cfg.Bootstrap.Dir), func() {}, nil
	}
}

func (a *app) attachRedis(ctx context.Context) error {
	client, err := messaging.NewRedisClient(ctx, messaging.RedisConfig{
		URL:          a.cfg.Redis.URL,
		Host:         a.cfg.Redis.Host,
		Port:         a.cfg.Redis.Port,
		Password:     a.cfg.Redis.Password,
		DB:           a.cfg.Redis.DB,
		DialTimeout:  a.cfg.Redis.DialTimeout,
		WriteTimeout: a.cfg.Redis.WriteTimeout,
	})
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	a.redis = client

	relay, err := messaging.NewRedisRelay(messaging.RedisRelayConfig{
		Client:  client,
		Channel: a.cfg.Redis.Channel,
		Logger:  a.log,
	})
	if err != nil {
		return fmt.Errorf("redis relay: %w", err)
	}
	return relay.Attach(a.bus)
}

// run serves HTTP until ctx is cancelled, then shuts down within the
// configured timeout.
func (a *app) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.server.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("starting graceful shutdown...", logger.Duration("timeout", a.cfg.App.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.App.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// close drains the event bus and releases the Redis connection.
func (a *app) close() {
	if err := a.bus.Close(); err != nil {
		a.log.Warn("failed to close event bus", logger.Err(err))
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("failed to close redis client", logger.Err(err))
		}
	}
}
