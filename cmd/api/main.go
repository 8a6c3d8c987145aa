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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/auth"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/config"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/events"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/gateway/agentrouter"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/gateway/waha"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/handler"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/middleware"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/service"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/store"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/logger"
	"github.com/Voldemort-Project/mta-sga-cs-service/pkg/tracing"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting API server", zap.String("env", cfg.Env))

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "mta-sga-cs-service", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Database
	db, err := store.Open(cfg)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	if cfg.DBAutoMigrate {
		if err := store.Migrate(db); err != nil {
			log.Error("failed to migrate database", zap.Error(err))
			os.Exit(1)
		}
	}
	st := service.NewStore(store.New(db))

	// Redis (JWKS cache); the verifier degrades to memory-only when the
	// connection is unusable, so a ping failure is not fatal.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("redis not reachable, jwks cache is memory-only", zap.Error(err))
		redisClient = nil
	}

	// Events
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATSEnabled {
		natsPub, err := events.Connect(ctx, cfg, log)
		if err != nil {
			log.Error("failed to connect to NATS", zap.Error(err))
			os.Exit(1)
		}
		publisher = natsPub
	}
	defer publisher.Close()

	// Outbound gateways
	wahaClient := waha.NewClient(cfg, log)
	agentClient := agentrouter.NewClient(cfg)

	// Auth
	verifier := auth.NewVerifier(
		cfg.KeycloakServerURL, cfg.KeycloakRealm, cfg.KeycloakClientID,
		cfg.JWKSCacheTTL, redisClient, log,
	)

	// Services
	conversationSvc := service.NewConversationService(st, wahaClient, agentClient, publisher, cfg, log)
	relaySvc := service.NewRelayService(st, wahaClient, log)
	guestSvc := service.NewGuestService(st, log)
	orderSvc := service.NewOrderService(st, publisher, log)
	workerSvc := service.NewWorkerService(st, log)
	messageSvc := service.NewMessageService(st, log)

	// Handlers
	healthHandler := handler.NewHealthHandler(db)
	webhookHandler := handler.NewWebhookHandler(conversationSvc, orderSvc, relaySvc, log, !cfg.IsProduction())
	guestHandler := handler.NewGuestHandler(guestSvc, log, !cfg.IsProduction())
	orderHandler := handler.NewOrderHandler(orderSvc, log, !cfg.IsProduction())
	workerHandler := handler.NewWorkerHandler(workerSvc, log, !cfg.IsProduction())
	messageHandler := handler.NewMessageHandler(messageSvc, log, !cfg.IsProduction())

	// Router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Webhooks are called by the gateways, which authenticate with
		// shared secrets at the network layer, not bearer tokens.
		r.Route("/webhook", func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
			r.Post("/waha", webhookHandler.Waha)
			r.Post("/orders", webhookHandler.Orders)
			r.Post("/messages", webhookHandler.Messages)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(verifier, cfg.KeycloakClientID))
			r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

			r.Post("/guests/register", guestHandler.Register)
			r.Get("/messages", messageHandler.List)
			r.Get("/orders", orderHandler.List)
			r.Post("/orders/{orderNumber}/assign", orderHandler.Assign)
			r.Get("/workers", workerHandler.List)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	// Let in-flight agent relays finish before the process exits.
	conversationSvc.Wait()

	log.Info("server stopped")
}
