package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"promptsmith_server/api"
	"promptsmith_server/config"
	"promptsmith_server/internal/ai"
	"promptsmith_server/internal/ai/providers"
	handlers "promptsmith_server/internal/api"
	"promptsmith_server/internal/deploy"
	"promptsmith_server/internal/store"
	"promptsmith_server/pkg/logger"
	"promptsmith_server/pkg/tracer"
)

const serviceName = "promptsmith-server"

func main() {
	// --- Load .env file ---
	// Must happen before viper reads the environment. A missing .env is normal
	// in production.
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Cannot build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	switch {
	case envErr == nil:
		zlog.Info("loaded environment variables from .env file")
	case os.IsNotExist(envErr):
		zlog.Info(".env file not found, relying on system environment variables")
	default:
		zlog.Warn("error loading .env file", zap.Error(envErr))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Tracing ---
	shutdownTracer, err := tracer.Init(ctx, tracer.Config{
		ServiceName: serviceName,
		Endpoint:    cfg.OTelEndpoint,
		SampleRate:  cfg.OTelSampleRate,
		Enabled:     cfg.OTelEnabled,
	})
	if err != nil {
		zlog.Fatal("failed to initialize tracing", zap.Error(err))
	}

	// --- Workspace storage ---
	var docs store.DocumentStore = store.NewMemoryStore()
	var redisStore *store.RedisStore
	if cfg.RedisAddr != "" {
		redisStore, err = store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			zlog.Fatal("redis connection failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		docs = redisStore
	}
	workspace := store.NewWorkspace(docs, zlog)
	zlog.Info("workspace store ready", zap.String("backend", workspace.Backend()))

	// --- AI providers ---
	gemini := providers.NewGeminiProvider(cfg.GeminiCredential(), cfg.GeminiModels, zlog)
	openAI := providers.NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModels, zlog)
	dispatcher := ai.NewDispatcher(zlog, ai.ParsePreference(cfg.ProviderPreference), gemini, openAI)
	if len(dispatcher.Configured()) == 0 {
		zlog.Warn("no AI provider configured; generation requests will fail until GEMINI_API_KEY or OPENAI_API_KEY is set")
	}
	for _, p := range dispatcher.Configured() {
		zlog.Info("AI provider configured", zap.String("provider", p.Name()), zap.Strings("models", p.Models()))
	}

	aiGenerator := ai.NewGenerator(dispatcher, workspace, zlog)
	deployer := deploy.NewDeployer(zlog)

	apiHandler := handlers.NewAPIHandler(aiGenerator, workspace, deployer, zlog)
	router := api.NewRouter(api.RouterConfig{
		ServiceName:    serviceName,
		AppEnv:         cfg.AppEnv,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		TracingEnabled: cfg.OTelEnabled,
	}, apiHandler, zlog)

	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router,
		// Generation walks several models, so writes get more room than reads.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Info("starting API server", zap.String("addr", cfg.ServerAddress), zap.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("API server listen error", zap.Error(err))
		}
		zlog.Info("API server has stopped listening")
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zlog.Info("shutting down server", zap.String("signal", sig.String()))

	shutdownCtx, serverCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer serverCancel()

	cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("API server forced shutdown", zap.Error(err))
	} else {
		zlog.Info("API server gracefully stopped")
	}

	if err := gemini.Close(); err != nil {
		zlog.Warn("failed to close Gemini client", zap.Error(err))
	}
	if redisStore != nil {
		if err := redisStore.Close(); err != nil {
			zlog.Warn("failed to close redis client", zap.Error(err))
		}
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		zlog.Warn("failed to flush traces", zap.Error(err))
	}

	zlog.Info("application exiting")
}
