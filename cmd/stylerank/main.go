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

	"github.com/kailas-cloud/stylerank/internal/config"
	"github.com/kailas-cloud/stylerank/internal/db"
	dbRedis "github.com/kailas-cloud/stylerank/internal/db/redis"
	"github.com/kailas-cloud/stylerank/internal/domain"
	logpkg "github.com/kailas-cloud/stylerank/internal/logger"
	"github.com/kailas-cloud/stylerank/internal/metrics"
	"github.com/kailas-cloud/stylerank/internal/repository/embcache"
	"github.com/kailas-cloud/stylerank/internal/repository/listingfile"
	"github.com/kailas-cloud/stylerank/internal/transport/httpapi"
	openaiEmb "github.com/kailas-cloud/stylerank/internal/transport/openai"
	attributeuc "github.com/kailas-cloud/stylerank/internal/usecase/attribute"
	cataloguc "github.com/kailas-cloud/stylerank/internal/usecase/catalog"
	embeddinguc "github.com/kailas-cloud/stylerank/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/stylerank/internal/usecase/health"
	indexuc "github.com/kailas-cloud/stylerank/internal/usecase/index"
	pipelineuc "github.com/kailas-cloud/stylerank/internal/usecase/pipeline"
	rankuc "github.com/kailas-cloud/stylerank/internal/usecase/rank"
	valueuc "github.com/kailas-cloud/stylerank/internal/usecase/value"
	"github.com/kailas-cloud/stylerank/internal/version"
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

	logger.Info("Starting stylerank API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	ctx := context.Background()

	// Cache store is optional. Without it the service still works: no
	// embedding cache and no persistent budget counters.
	var store db.Store
	if len(cfg.Database.Addrs) > 0 {
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer redisStore.Close()

		if err := redisStore.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		store = redisStore
		logger.Info("Connected to cache store")
	}

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterPipelineMetrics()

	// Single BudgetTracker shared by the embedder chain.
	var budget *embeddinguc.BudgetTracker
	if cfg.Embedding.Budget.DailyTokenLimit > 0 {
		action, err := embeddinguc.ParseAction(cfg.Embedding.Budget.Action)
		if err != nil {
			logger.Fatal("Invalid budget action", zap.Error(err))
		}
		budget = embeddinguc.NewBudgetTracker(
			cfg.Embedding.Provider, cfg.Storage.KeyPrefix,
			cfg.Embedding.Budget.DailyTokenLimit, action, logger,
		)
		if store != nil {
			// Loads today's counter from the store.
			budget.WithStore(ctx, store)
		}
	}

	// Pass nil interface (not typed nil pointer!) if budget is not configured.
	// Go gotcha: (*BudgetTracker)(nil) wrapped in BudgetChecker != nil.
	var budgetChecker embeddinguc.BudgetChecker
	if budget != nil {
		budgetChecker = budget
	}

	base := openaiEmb.Shared(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	// Decorator chain: OpenAI -> Cached -> Instrumented
	var inner domain.Embedder = base
	if store != nil {
		inner = embcache.New(base, store, cfg.Storage.KeyPrefix, cfg.Embedding.Model, metrics.EmbeddingCacheTotal, logger)
	}
	embedder := embeddinguc.NewInstrumentedEmbedder(
		inner, cfg.Embedding.Provider, cfg.Embedding.Model, budgetChecker, logger,
	)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Pipeline stage services
	colors, categories, styles, conditions := cfg.Vocabularies()
	attrSvc := attributeuc.New(colors, categories, styles, conditions)
	indexSvc := indexuc.New(embedder, logger)
	valueSvc := valueuc.New(cfg.ScoreTables(), cfg.ValueWeights())
	rankSvc := rankuc.New(indexSvc)
	pipelineSvc := pipelineuc.New(attrSvc, indexSvc, valueSvc, rankSvc, logger)

	// Catalog: load and enrich the source file before serving.
	catalogSvc := cataloguc.New(cfg.Catalog.Path, listingfile.Read, pipelineSvc, logger)
	if err := catalogSvc.Load(ctx); err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	healthSvc := healthuc.New(dbPinger(store), base, catalogSvc)

	server := httpapi.NewServer(catalogSvc, pipelineSvc, healthSvc, httpapi.Defaults{
		Weights: cfg.FusionWeights(),
		TopK:    cfg.Ranking.TopK,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(httpapi.BearerAuthMiddleware(cfg.Auth.APIKeys))
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

// dbPinger converts a possibly nil db.Store into the health contract without
// producing a typed-nil interface.
func dbPinger(store db.Store) healthuc.DBPinger {
	if store == nil {
		return nil
	}
	return store
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

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
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
