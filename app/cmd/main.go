package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	_ "go.uber.org/automaxprocs"

	"devopsgen/app/config"
	"devopsgen/app/usecase"
	"devopsgen/internal/domain/entity"
	"devopsgen/internal/domain/repository"
	"devopsgen/internal/infrastructure/llm"
	"devopsgen/internal/infrastructure/metrics"
	"devopsgen/internal/infrastructure/store/filesystem"
	mongorepo "devopsgen/internal/infrastructure/store/mongodb"
	"devopsgen/internal/infrastructure/transport"
	"devopsgen/internal/infrastructure/validator"
)

func main() {
	// load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// LLM provider; missing credentials keep the server up and fail each request.
	provider, err := llm.NewProvider(ctx, cfg.LLM)
	if err != nil {
		if !errors.Is(err, entity.ErrMissingCredentials) {
			logger.Error("llm provider init failed", "provider", cfg.LLM.Provider, "err", err)
			os.Exit(1)
		}
		logger.Warn("llm provider has no credentials; generation requests will fail",
			"provider", cfg.LLM.Provider, "err", err)
		provider = nil
	}

	// Attempt audit store (optional)
	var attempts repository.AttemptRepository
	var mongoClient *mongo.Client
	if cfg.Mongo.Enabled() {
		mongoCtx, mongoCancel := context.WithTimeout(ctx, 10*time.Second)
		mongoClient, err = mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err == nil {
			err = mongoClient.Ping(mongoCtx, nil)
		}
		mongoCancel()
		if err != nil {
			logger.Error("mongo connect failed", "err", err)
			os.Exit(1)
		}
		logger.Info("connected to mongo", "database", cfg.Mongo.Database)
		attempts = mongorepo.NewMongoAttemptRepo(mongoClient.Database(cfg.Mongo.Database))
	}

	// Usecases / services
	registry := entity.DefaultRegistry()
	exporter := usecase.NewArtifactExporter(registry)
	client := usecase.NewGenerationClient(provider, cfg.LLM.Timeout)
	generateSvc := usecase.NewGenerateService(
		client,
		exporter,
		validator.NewLinter(logger),
		attempts,
		usecase.Pricing{
			InputPerMillion:  cfg.Pricing.InputPerMillion,
			OutputPerMillion: cfg.Pricing.OutputPerMillion,
		},
		logger,
	)

	// Transport (HTTP handlers)
	handlerOpts := transport.HandlerOptions{
		Environment:   cfg.Mode,
		ExposeDetails: !cfg.IsProduction(),
		MaxBodyBytes:  cfg.Server.MaxBodyBytes,
	}
	if cfg.RateLimit.Enabled() {
		handlerOpts.Limiter = transport.NewClientLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	handler := transport.NewGeneratorHandler(generateSvc, registry, exporter, logger, handlerOpts)

	// Router and server
	r := mux.NewRouter()
	handler.RegisterRoutes(r)

	if cfg.IsProduction() {
		site, err := filesystem.NewStaticSite(cfg.Static.Dir)
		if err != nil {
			logger.Warn("static ui disabled", "dir", cfg.Static.Dir, "err", err)
		} else {
			r.PathPrefix("/").Handler(site)
			logger.Info("serving static ui", "dir", site.GetBasePath())
		}
	}

	corsHandler := handlers.CORS(corsOptions(cfg)...)(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handlers.RecoveryHandler(handlers.PrintRecoveryStack(!cfg.IsProduction()))(corsHandler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.Server.MetricsAddr != "" {
		go func() {
			logger.Info("starting metrics server", "addr", cfg.Server.MetricsAddr)
			if err := metrics.StartMetricsServer(cfg.Server.MetricsAddr); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics server stopped", "err", err)
			}
		}()
	}

	// Start HTTP server
	go func() {
		logger.Info("starting HTTP server",
			"addr", addr,
			"mode", cfg.Mode,
			"provider", client.ProviderName(),
			"region", cfg.LLM.Bedrock.Region,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server failed", "err", err)
			cancel()
		}
	}()

	// OS signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled")
	}

	// Shutdown sequence
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}

	if mongoClient != nil {
		logger.Info("disconnecting mongo")
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			logger.Error("mongo disconnect error", "err", err)
		}
	}

	logger.Info("service stopped")
}

// corsOptions is strict in production and permits the local dev UI otherwise.
func corsOptions(cfg *config.Config) []handlers.CORSOption {
	opts := []handlers.CORSOption{
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	}

	var origins []string
	if !cfg.IsProduction() {
		origins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	if cfg.Server.FrontendURL != "" {
		origins = append(origins, cfg.Server.FrontendURL)
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	// An empty origin list means "any" to the CORS handler, so match explicitly.
	return append(opts, handlers.AllowedOriginValidator(func(origin string) bool {
		return allowed[origin]
	}))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
