// Package app wires configuration into a running ledger: store, services,
// observers, and the background workers.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/shiftledger/internal/config"
	"github.com/alexanderramin/shiftledger/internal/db"
	"github.com/alexanderramin/shiftledger/internal/events"
	"github.com/alexanderramin/shiftledger/internal/httpapi"
	"github.com/alexanderramin/shiftledger/internal/logging"
	"github.com/alexanderramin/shiftledger/internal/metrics"
	"github.com/alexanderramin/shiftledger/internal/repository"
	"github.com/alexanderramin/shiftledger/internal/service"
	"github.com/alexanderramin/shiftledger/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// pinger is implemented by every store backend.
type pinger interface {
	Ping(ctx context.Context) error
}

// Runtime holds the wired services. Close releases the store and broker.
type Runtime struct {
	Config    *config.Config
	Logger    *slog.Logger
	Ledger    service.LedgerService
	Profiles  service.ProfileService
	Summaries service.SummaryService

	registry *prometheus.Registry
	store    pinger
	closers  []func(ctx context.Context) error
}

// New opens the configured store and builds the services over it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (rt *Runtime, err error) {
	rt = &Runtime{Config: cfg, Logger: logger, registry: prometheus.NewRegistry()}
	defer func() {
		if err != nil {
			_ = rt.Close(context.Background())
		}
	}()

	rt.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	meter, err := metrics.NewObserver(rt.registry)
	if err != nil {
		return nil, err
	}

	store, err := rt.openStore(ctx)
	if err != nil {
		return nil, err
	}

	entryObservers := []events.Observer{meter}
	if cfg.AMQP.URL != "" {
		pub, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, func(context.Context) error { return pub.Close() })
		entryObservers = append(entryObservers, pub)
	}

	useCases := service.MultiUseCaseObserver(service.NewSlogUseCaseObserver(logger), meter)
	rt.Ledger = service.NewLedgerService(store,
		service.WithRecordTimeout(cfg.Ledger.RecordTimeout),
		service.WithRetention(cfg.RetentionPolicy()),
		service.WithEntryObserver(events.Multi(entryObservers...)),
		service.WithUseCaseObserver(useCases),
	)
	rt.Profiles = service.NewProfileService(store, useCases)
	rt.Summaries = service.NewSummaryService(store)
	return rt, nil
}

func (rt *Runtime) openStore(ctx context.Context) (repository.Store, error) {
	switch rt.Config.Store.Backend {
	case config.BackendMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		store, err := repository.NewMongoStore(connectCtx, rt.Config.Store.MongoURI, rt.Config.Store.MongoDatabase)
		if err != nil {
			return nil, err
		}
		rt.store = store
		rt.closers = append(rt.closers, store.Close)
		rt.Logger.Info("store opened", "backend", "mongo", "database", rt.Config.Store.MongoDatabase)
		return store, nil
	default:
		database, err := db.OpenDB(rt.Config.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		store := repository.NewSQLiteStore(database, db.NewSQLiteUnitOfWork(database))
		rt.store = store
		rt.closers = append(rt.closers, func(context.Context) error { return database.Close() })
		rt.Logger.Info("store opened", "backend", "sqlite", "path", rt.Config.Store.SQLitePath)
		return store, nil
	}
}

// Handler returns the HTTP API with health and metrics mounted.
func (rt *Runtime) Handler() http.Handler {
	h := httpapi.NewHandler(rt.Logger, rt.Ledger, rt.Profiles, rt.Summaries,
		httpapi.WithHealthCheck(rt.store.Ping))
	return httpapi.NewRouter(h, promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))
}

// Serve runs the HTTP API and the retention sweeper until ctx is done or
// either fails.
func (rt *Runtime) Serve(ctx context.Context) error {
	sweeper, err := worker.NewRetentionSweeper(rt.Ledger, rt.Config.Retention.SweepSchedule, rt.Logger)
	if err != nil {
		return err
	}
	srv := httpapi.NewServer(rt.Config.HTTP, rt.Handler())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpapi.Serve(ctx, srv, rt.Config.HTTP, rt.Logger) })
	g.Go(func() error { return sweeper.Run(ctx) })
	return g.Wait()
}

func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	if err := errors.Join(errs...); err != nil {
		rt.Logger.Error("closing runtime", logging.Err(err))
		return err
	}
	return nil
}
