package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"noteboard/internal/audit"
	"noteboard/internal/identity"
	"noteboard/internal/notes"
	"noteboard/internal/notes/cache"
	notemetrics "noteboard/internal/notes/metrics"
	"noteboard/internal/notes/service"
	"noteboard/internal/notes/store"
	"noteboard/internal/platform/config"
	"noteboard/internal/platform/httpserver"
	"noteboard/internal/platform/logger"
	"noteboard/internal/platform/postgres"
	platformredis "noteboard/internal/platform/redis"
	"noteboard/internal/platform/tracing"
	authmw "noteboard/pkg/platform/middleware/auth"
	request "noteboard/pkg/platform/middleware/request"
	"noteboard/pkg/platform/middleware/requesttime"
)

const (
	serviceName    = "noteboard"
	serviceVersion = "0.1.0"

	cacheTTL        = 30 * time.Second
	auditBufferSize = 256
	shutdownTimeout = 10 * time.Second
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TraceEnabled {
		if err := tracing.Init(serviceName, serviceVersion); err != nil {
			log.Error("failed to initialise tracing", "error", err)
			os.Exit(1)
		}
	}

	// Postgres is optional; without DATABASE_URL the board runs on the
	// in-memory store and loses state on restart.
	pool, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}

	var noteStore service.NoteStore
	if pool != nil {
		pg := store.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			log.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		noteStore = pg
		log.Info("using postgres note store")
	} else {
		noteStore = store.NewInMemory()
		log.Warn("DATABASE_URL not set, using in-memory note store")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	publisher := audit.NewPublisher(auditBufferSize)
	auditWorker := audit.NewWorker(audit.NewInMemoryStore(), publisher.Inbox(), log)

	opts := []service.Option{
		service.WithLogger(log),
		service.WithAuditPublisher(publisher),
		service.WithMetrics(notemetrics.New()),
	}
	if redisClient != nil {
		opts = append(opts, service.WithCache(cache.NewApprovedListing(redisClient, cacheTTL, log)))
		log.Info("approved-listing cache enabled")
	}

	svc := notes.NewService(noteStore, opts...)
	handler := notes.NewHandler(svc, log)

	jwtService := identity.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	validator := identity.NewJWTServiceAdapter(jwtService)

	router := chi.NewRouter()
	router.Use(request.RequestID)
	router.Use(requesttime.Middleware)
	handler.Register(router,
		authmw.OptionalAuth(validator, log),
		authmw.RequireAuth(validator, log))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if pool != nil {
			if err := pool.Health(r.Context()); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return auditWorker.Run(groupCtx)
	})

	group.Go(func() error {
		log.Info("starting noteboard", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if pool != nil {
		pool.Close()
	}
	log.Info("shutdown complete")
}
