package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lezat-lumer/internal/app"
	"lezat-lumer/internal/auth"
	"lezat-lumer/internal/catalog"
	"lezat-lumer/internal/config"
	"lezat-lumer/internal/db"
	"lezat-lumer/internal/logger"
	"lezat-lumer/internal/metrics"
	"lezat-lumer/internal/middleware"
	"lezat-lumer/internal/order"
	"lezat-lumer/internal/payment"
	"lezat-lumer/internal/storage"
	"lezat-lumer/internal/transport"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	evictInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := run(context.Background()); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()
	if err := logger.Setup(cfg.AppEnv, cfg.LogLevel); err != nil {
		logger.L().Warn("falling back to the default log level", zap.Error(err))
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var database *sql.DB
	if cfg.StorageDriver == config.DriverPostgres {
		database = initDBFunc(cfg)
		defer database.Close()
	}

	srv, manager, err := newServer(ctx, cfg, database)
	if err != nil {
		return err
	}
	defer manager.Shutdown()

	go manager.Run(ctx, evictInterval)

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("storefront server running",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.StorageDriver),
		)
		errCh <- startServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer builds the storage adapter, the session manager and the HTTP server.
// database is only used by the postgres driver. Background cleanup stops with ctx.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) (*http.Server, *app.Manager, error) {
	adapter, err := storage.Open(ctx, cfg, database)
	if err != nil {
		return nil, nil, err
	}

	secret := cfg.SessionSecret
	if secret == "" {
		logger.L().Warn("SESSION_SECRET not set, using a random secret; sessions will not survive a restart")
		secret = uuid.NewString()
	}
	sessions, err := auth.NewSessions(secret, cfg.SessionTTL)
	if err != nil {
		return nil, nil, err
	}

	menu := catalog.New()
	reg := metrics.NewRegistry()
	manager := app.NewManager(app.Deps{
		Catalog:    menu,
		Adapter:    adapter,
		StorageKey: cfg.CartStorageKey,
		Payment: payment.Settings{
			Store:          cfg.StoreName,
			WhatsAppNumber: cfg.WhatsAppNumber,
			Destination: order.Bank{
				Name:    cfg.BankName,
				Account: cfg.BankAccount,
				Holder:  cfg.BankHolder,
			},
			InstructionDelay: cfg.InstructionDelay,
		},
		Metrics: reg,
	}, cfg.SessionIdle)

	limiter := middleware.NewRateLimiter()
	go limiter.Run(ctx, evictInterval)

	h := transport.NewHandler(manager, menu, reg, healthCheck(adapter, database))
	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           setupRouter(cfg, h, sessions, limiter),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if c, ok := adapter.(io.Closer); ok {
		srv.RegisterOnShutdown(func() { _ = c.Close() })
	}
	return srv, manager, nil
}

// setupRouter wraps the routes as CORS, request id, access log, then session and
// rate limit on /api. Strict commands take a second token once decoded.
func setupRouter(cfg *config.Config, h *transport.Handler, sessions *auth.Sessions, limiter *middleware.RateLimiter) http.Handler {
	router := transport.NewRouter(h.WithStrictLimiter(limiter),
		middleware.SessionMiddleware(sessions, cfg.AppEnv == "production"),
		limiter.Middleware,
	)
	return middleware.CORS(cfg.CORSOrigin)(
		logger.RequestIDMiddleware(logger.LoggingMiddleware(router)),
	)
}

type pinger interface {
	Ping(ctx context.Context) error
}

func healthCheck(adapter storage.Adapter, database *sql.DB) transport.HealthCheck {
	return func(ctx context.Context) error {
		if p, ok := adapter.(pinger); ok {
			return p.Ping(ctx)
		}
		if database != nil {
			return database.PingContext(ctx)
		}
		return nil
	}
}
