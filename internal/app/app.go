package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/merchkit/downloads-backend/internal/adapter/postgres"
	"github.com/merchkit/downloads-backend/internal/adapter/postgres/product"
	"github.com/merchkit/downloads-backend/internal/adapter/rediscache"
	"github.com/merchkit/downloads-backend/internal/auth"
	"github.com/merchkit/downloads-backend/internal/config"
	"github.com/merchkit/downloads-backend/internal/service/search"
	"github.com/merchkit/downloads-backend/internal/transport/middleware"
	"github.com/merchkit/downloads-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// Postgres and Redis, wires the search service, and serves HTTP until the
// context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	redisClient, err := rediscache.NewClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close() //nolint:errcheck

	stateCache := rediscache.New(redisClient, cfg.Search.CacheTTL)
	catalogRepo := product.New(pool)

	searchService := search.NewService(logger, catalogRepo, stateCache, search.Options{
		PrivilegedStatuses: cfg.Search.PrivilegedStatuses(),
		PublicStatuses:     cfg.Search.PublicStatuses(),
		Limit:              cfg.Search.Limit,
	})

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	searchHandler := rest.NewSearchHandler(logger, searchService)
	healthHandler := rest.NewHealthHandler(pool, redisPinger{redisClient}, BuildVersion())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/downloads/search", searchHandler.Search)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(jwtManager),
	)(mux)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down",
		slog.Duration("timeout", cfg.Server.ShutdownTimeout),
	)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

// redisPinger adapts the redis client's Ping to the health check interface.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return p.client.Ping(ctx).Err()
}
