package main

import (
	"context"
	"fmt"
	"os"

	"github.com/classroll/attendance-tracker/config"
	"github.com/classroll/attendance-tracker/internal/application/tracker"
	"github.com/classroll/attendance-tracker/internal/domain/shared"
	"github.com/classroll/attendance-tracker/internal/infrastructure/persistence/jsonfile"
	"github.com/classroll/attendance-tracker/internal/infrastructure/persistence/postgres"
	"github.com/classroll/attendance-tracker/internal/infrastructure/persistence/redis"
	"github.com/classroll/attendance-tracker/pkg/logger"
	"github.com/classroll/attendance-tracker/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// BOOTSTRAP
// ══════════════════════════════════════════════════════════════════════════════

// app holds everything a command needs. Close releases backend connections.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	clock   timeutil.Clock
	tracker *tracker.Tracker
	pg      *postgres.Connection
	closers []func()

	// storage is the backend checked by the HTTP health endpoint.
	storage interface {
		Ping(ctx context.Context) error
	}
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Options{
		Output: os.Stderr,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
		Format: cfg.Observability.LogFormat,
	}).With(logger.String("app", cfg.App.Name))
}

// openApp loads configuration, connects the storage backend and loads both
// tables.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:   cfg,
		log:   newLogger(cfg),
		clock: timeutil.NewClock(cfg.App.Location),
	}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.tracker, err = tracker.Open(ctx, store, tracker.Options{
		RosterName: cfg.Storage.StudentsFile,
		LedgerName: cfg.Storage.LedgerFile,
		StrictMark: cfg.Storage.StrictMark,
		Logger:     a.log,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// openStore returns the document store selected by STORAGE_BACKEND.
func (a *app) openStore(ctx context.Context) (shared.DocumentStore, error) {
	log := a.log.With(logger.Backend(string(a.cfg.Storage.Backend)))

	switch a.cfg.Storage.Backend {
	case config.BackendPostgres:
		conn, err := a.connectPostgres(ctx)
		if err != nil {
			return nil, err
		}
		if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		log.Debug("storage ready")
		a.storage = conn
		return postgres.NewDocumentStore(conn), nil

	case config.BackendRedis:
		rc := redis.DefaultConfig()
		rc.Host = a.cfg.Redis.Host
		rc.Port = a.cfg.Redis.Port
		rc.Password = a.cfg.Redis.Password
		rc.DB = a.cfg.Redis.DB
		rc.KeyPrefix = a.cfg.Redis.KeyPrefix
		rc.DialTimeout = a.cfg.Redis.DialTimeout
		rc.ReadTimeout = a.cfg.Redis.ReadTimeout
		rc.WriteTimeout = a.cfg.Redis.WriteTimeout

		cache, err := redis.NewCache(rc)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = cache.Close() })
		log.Debug("storage ready", logger.String("address", rc.Addr()))
		a.storage = cache
		return redis.NewDocumentStore(cache), nil

	default:
		store := jsonfile.NewStore(a.cfg.Storage.DataDir)
		log.Debug("storage ready", logger.Path(store.Path(a.cfg.Storage.StudentsFile)))
		a.storage = store
		return store, nil
	}
}

// connectPostgres opens the pool once per process.
func (a *app) connectPostgres(ctx context.Context) (*postgres.Connection, error) {
	if a.pg != nil {
		return a.pg, nil
	}

	pc := postgres.DefaultConfig()
	pc.URL = a.cfg.Database.URL
	pc.MaxConns = int32(a.cfg.Database.MaxConns)
	pc.MaxConnLifetime = a.cfg.Database.ConnMaxLifetime
	pc.ConnectTimeout = a.cfg.Database.ConnectTimeout

	ctx, cancel := context.WithTimeout(ctx, pc.ConnectTimeout)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, pc)
	if err != nil {
		return nil, err
	}
	a.pg = conn
	a.closers = append(a.closers, conn.Close)
	return conn, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
