// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bridgeme/chat-platform/internal/config"
	"github.com/bridgeme/chat-platform/internal/handler"
	"github.com/bridgeme/chat-platform/internal/llm"
	"github.com/bridgeme/chat-platform/internal/middleware"
	"github.com/bridgeme/chat-platform/internal/mood"
	"github.com/bridgeme/chat-platform/internal/service"
	"github.com/bridgeme/chat-platform/internal/store"
	"github.com/bridgeme/chat-platform/pkg/logger"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize LLM client. One configured client per process; requests
	// fail with a 500 when neither credential is set.
	var llmClient llm.Client
	switch {
	case cfg.DefaultLLM == string(llm.ProviderOpenAI) && cfg.OpenAIAPIKey != "":
		llmClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	case cfg.AnthropicAPIKey != "":
		llmClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	case cfg.OpenAIAPIKey != "":
		llmClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	default:
		log.Warn("no LLM API key configured, chat requests will fail")
	}
	if err != nil {
		log.Error("failed to create LLM client", zap.Error(err))
		os.Exit(1)
	}

	classifierModel := cfg.ClassifierModel
	chatModel := cfg.ChatModel
	if llmClient != nil {
		if classifierModel == "" {
			classifierModel = llm.DefaultClassifierModel(llmClient.Name())
		}
		if chatModel == "" {
			chatModel = llm.DefaultChatModel(llmClient.Name())
		}
		log.Info("LLM provider configured",
			zap.String("provider", llmClient.Name()),
			zap.String("classifier_model", classifierModel),
			zap.String("chat_model", chatModel),
		)
	}

	// Initialize history store and services
	historyStore := store.NewHistoryStore(cfg.HistoryFile, log)
	classifier := mood.NewClassifier(llmClient, classifierModel, log)
	chatSvc := service.NewChatService(historyStore, llmClient, classifier, service.Options{
		ChatModel:     chatModel,
		MaxTokens:     cfg.ReplyMaxTokens,
		Temperature:   cfg.ReplyTemperature,
		HistoryWindow: cfg.HistoryWindow,
	}, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(chatSvc)
	chatHandler := handler.NewChatHandler(chatSvc, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		r.Post("/chat", chatHandler.Chat)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
