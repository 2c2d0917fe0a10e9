package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lawdex/lawdex/internal/config"
	dbRedis "github.com/lawdex/lawdex/internal/db/redis"
	"github.com/lawdex/lawdex/internal/index/local"
	logpkg "github.com/lawdex/lawdex/internal/logger"
	"github.com/lawdex/lawdex/internal/metrics"
	remoterepo "github.com/lawdex/lawdex/internal/repository/remote"
	chiTransport "github.com/lawdex/lawdex/internal/transport/chi"
	"github.com/lawdex/lawdex/internal/transport/ranker"
	healthuc "github.com/lawdex/lawdex/internal/usecase/health"
	searchuc "github.com/lawdex/lawdex/internal/usecase/search"
	"github.com/lawdex/lawdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting lawdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("remote_tier", cfg.Database.Configured()),
		zap.Bool("ranker_tier", cfg.Ranker.Configured()),
	)

	ctx := context.Background()

	// Local fallback index is always loaded; it is the tier of last resort.
	localIndex, err := local.Load(cfg.Storage.SnapshotPath)
	if err != nil {
		logger.Fatal("Failed to load local snapshot", zap.Error(err))
	}
	logger.Info("Local index loaded",
		zap.String("path", cfg.Storage.SnapshotPath),
		zap.Int("documents", localIndex.Len()),
	)

	// Remote index store, only when addresses are configured.
	var (
		store      *dbRedis.Store
		remoteRepo *remoterepo.Repo
	)
	if cfg.Database.Configured() {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create index store", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Index store not ready", zap.Error(err))
		}
		logger.Info("Connected to index store", zap.Strings("addrs", cfg.Database.Addrs))

		remoteRepo = remoterepo.New(store, remoterepo.Config{
			IndexName:   cfg.Storage.IndexName,
			DocPrefix:   cfg.Storage.KeyPrefix,
			CallTimeout: time.Duration(cfg.Search.RemoteTimeoutSec) * time.Second,
		})
	}

	// Secondary ranking engine, only when a base URL is configured.
	var rankerClient *ranker.Client
	if cfg.Ranker.Configured() {
		rankerClient = ranker.NewClient(&ranker.Config{
			BaseURL: cfg.Ranker.BaseURL,
			Timeout: time.Duration(cfg.Ranker.TimeoutSec) * time.Second,
			Logger:  logger,
		})
		logger.Info("Ranking engine configured", zap.String("base_url", cfg.Ranker.BaseURL))
	}

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Pass nil interfaces (not typed nil pointers!) for unconfigured tiers.
	var remoteTier searchuc.RemoteSearcher
	if remoteRepo != nil {
		remoteTier = remoteRepo
	}
	var secondaryTier searchuc.SecondaryRanker
	if rankerClient != nil {
		secondaryTier = rankerClient
	}

	searchSvc := searchuc.New(remoteTier, secondaryTier, localIndex, searchuc.Config{
		MaxQueryLength: cfg.Search.MaxQueryLength,
		MaxKeywords:    cfg.Search.MaxKeywords,
	})

	var dbPinger healthuc.DBPinger
	if store != nil {
		dbPinger = store
	}
	var rankerChecker healthuc.RankerChecker
	if rankerClient != nil {
		rankerChecker = rankerClient
	}
	healthSvc := healthuc.New(dbPinger, rankerChecker, localIndex)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger, chiTransport.Config{
		DefaultTopK: cfg.Search.DefaultTopK,
		MaxResults:  cfg.Search.MaxResults,
	})

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
