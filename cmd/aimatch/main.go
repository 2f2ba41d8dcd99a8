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

	"github.com/kailas-cloud/aimatch/internal/config"
	logpkg "github.com/kailas-cloud/aimatch/internal/logger"
	"github.com/kailas-cloud/aimatch/internal/metrics"
	chiTransport "github.com/kailas-cloud/aimatch/internal/transport/chi"
	openaiGen "github.com/kailas-cloud/aimatch/internal/transport/openai"
	"github.com/kailas-cloud/aimatch/internal/transport/pinecone"
	"github.com/kailas-cloud/aimatch/internal/usecase/explain"
	"github.com/kailas-cloud/aimatch/internal/usecase/matching"
	"github.com/kailas-cloud/aimatch/internal/version"
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

	logger.Info("Starting aimatch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("pinecone_host", cfg.Pinecone.Host),
		zap.Bool("generation_enabled", cfg.Generation.APIKey != ""),
	)

	// Register backend metrics explicitly (no init())
	metrics.RegisterBackendMetrics()

	index := pinecone.NewClient(&pinecone.Config{
		APIKey:     cfg.Pinecone.APIKey,
		Host:       cfg.Pinecone.Host,
		APIVersion: cfg.Pinecone.APIVersion,
		Logger:     logger,
	})
	if cfg.Pinecone.APIKey == "" {
		logger.Warn("PINECONE_API_KEY not set, index operations will fail")
	}

	// Pass nil interface (not typed nil pointer!) when generation is not
	// configured. Go gotcha: (*Generator)(nil) wrapped in explain.Generator != nil.
	var generator explain.Generator
	if cfg.Generation.APIKey != "" {
		generator = openaiGen.NewGenerator(&openaiGen.Config{
			APIKey:      cfg.Generation.APIKey,
			BaseURL:     cfg.Generation.BaseURL,
			Model:       cfg.Generation.Model,
			Temperature: cfg.Generation.Temperature,
			Logger:      logger,
		})
		logger.Info("Generation enabled", zap.String("model", cfg.Generation.Model))
	} else {
		logger.Info("OPENAI_API_KEY not set, explanation features disabled")
	}

	matchSvc := matching.New(index, logger).WithDefaultTopK(cfg.Search.DefaultTopK)
	explainSvc := explain.New(generator, logger).
		WithLimits(cfg.Generation.MaxReasons, cfg.Generation.ReasonMaxTokens, cfg.Generation.SummaryMaxTokens)

	server := chiTransport.NewServer(matchSvc, explainSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.CORSMiddleware())
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
						"error": "internal error",
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
