package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/pranay0217/travelmate/internal/api/router"
	appconfig "github.com/pranay0217/travelmate/internal/config"
	"github.com/pranay0217/travelmate/internal/conversation"
	"github.com/pranay0217/travelmate/internal/intent"
	"github.com/pranay0217/travelmate/internal/messaging"
	"github.com/pranay0217/travelmate/internal/messaging/templates"
	"github.com/pranay0217/travelmate/internal/observability/metrics"
	"github.com/pranay0217/travelmate/internal/session"
	"github.com/pranay0217/travelmate/pkg/logging"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting travelmate relay",
		"env", cfg.Env,
		"port", cfg.Port,
		"session_backend", cfg.SessionBackend,
	)

	ctx := context.Background()

	llm, cleanup, err := buildLLMClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize LLM client", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	store, err := buildSessionStore(cfg)
	if err != nil {
		logger.Error("failed to initialize session store", "error", err)
		os.Exit(1)
	}

	relayMetrics := metrics.NewRelayMetrics(nil)
	generator := conversation.NewGenerator(llm, cfg.LLMTimeout, logger, relayMetrics)
	sender := messaging.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber, logger)

	welcome, err := templates.Renderer{}.Welcome(cfg.AssistantName)
	if err != nil {
		logger.Error("failed to render welcome message", "error", err)
		os.Exit(1)
	}

	messagingHandler := messaging.NewHandler(messaging.HandlerConfig{
		Classifier:     intent.NewClassifier(cfg.ExtraGreetings...),
		Sessions:       store,
		Generator:      generator,
		Policy:         messaging.NewDispatchPolicy(cfg.DispatchTrigger, messaging.FixedParams(cfg.TemplateDate, cfg.TemplateTime)),
		Messenger:      sender,
		WelcomeMessage: welcome,
		ContentSID:     cfg.TwilioContentSID,
		FromNumber:     cfg.TwilioWhatsAppNumber,
		SendTimeout:    cfg.SendTimeout,
		Logger:         logger,
		Metrics:        relayMetrics,
	})

	r := router.New(&router.Config{
		Logger:           logger,
		MessagingHandler: messagingHandler,
		MetricsHandler:   promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// buildLLMClient constructs the Gemini client and, when OpenAI credentials
// exist, wraps it with the OpenAI fallback.
func buildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (conversation.LLMClient, func(), error) {
	gemini, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = gemini.Close() }

	if cfg.OpenAIAPIKey == "" {
		return gemini, cleanup, nil
	}
	fallback, err := conversation.NewOpenAILLMClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if err != nil {
		logger.Warn("openai fallback unavailable", "error", err)
		return gemini, cleanup, nil
	}
	logger.Info("openai fallback enabled", "model", cfg.OpenAIModel)
	return conversation.NewFallbackLLMClient(gemini, fallback, logger), cleanup, nil
}

func buildSessionStore(cfg *appconfig.Config) (session.Store, error) {
	if cfg.SessionBackend != appconfig.SessionBackendRedis {
		return session.NewMemoryStore(cfg.SessionTTL), nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return session.NewRedisStore(redis.NewClient(opts), cfg.SessionTTL), nil
}
