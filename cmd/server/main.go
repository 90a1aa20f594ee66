package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	auth_service "yatube/internal/application/service/auth"
	post_service "yatube/internal/application/service/post"
	"yatube/internal/infrastructure/config"
	http_server "yatube/internal/infrastructure/inbound/http"
	"yatube/internal/infrastructure/inbound/http/web"
	metrics_server "yatube/internal/infrastructure/inbound/metrics"
	"yatube/internal/infrastructure/logger"
	prometheus_metrics "yatube/internal/infrastructure/outbound/metrics/prometheus"
	"yatube/internal/infrastructure/outbound/repository"
	session_redis "yatube/internal/infrastructure/outbound/session/redis"
)

func main() {
	cfg := config.MustLoad()
	ctx := context.Background()
	log := logger.New(cfg.Env)

	metrics := prometheus_metrics.NewPrometheusMetricsProvider()

	storage, err := repository.Open(ctx, cfg.Storage, cfg.Database, log, metrics)
	if err != nil {
		log.Error("Failed to open storage", slog.String("storage", cfg.Storage), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	var sessionStore scs.Store
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		log.Info("Connecting to Redis",
			slog.String("address", cfg.Redis.Address),
			slog.Int("port", cfg.Redis.Port),
			slog.Int("db", cfg.Redis.DB))
		redisClient, err := session_redis.NewClient(cfg.Redis, log)
		if err != nil {
			log.Error("Failed to create Redis client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", slog.String("error", err.Error()))
			}
		}()
		sessionStore = session_redis.NewStore(redisClient, log)
	default:
		log.Warn("Using in-memory session store", slog.String("configured", cfg.Session.Store))
		sessionStore = memstore.New()
	}

	metrics.SetServiceHealth(true)

	postService := post_service.NewPostService(storage.Posts, storage.Groups, storage.Users, storage.UnitOfWork, log, metrics)
	authService := auth_service.NewAuthService(storage.Users, log, metrics, cfg.Auth.BcryptCost)

	renderer, err := web.NewRenderer(log)
	if err != nil {
		log.Error("Failed to load templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sessions := web.NewSessions(web.NewSessionManager(cfg.Session, sessionStore), authService, cfg.Auth.LoginURL, log)

	router := http_server.NewRouter(http_server.RouterDeps{
		PostService: postService,
		AuthService: authService,
		Sessions:    sessions,
		Renderer:    renderer,
		Log:         log,
		Metrics:     metrics,
	})

	httpServer := http_server.NewServer(router, cfg.HTTPServer, log, metrics)
	metricsServer := metrics_server.NewMetricsServer(cfg.Prometheus.Address, cfg.Prometheus.Port, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	done := make(chan bool, 1)
	metricsDone := make(chan bool, 1)

	go func() {
		if err := httpServer.Run(); err != nil {
			log.Error("HTTP server error", slog.String("error", err.Error()))
		}
		done <- true
	}()

	go func() {
		if err := metricsServer.Run(); err != nil {
			log.Error("Metrics server error", slog.String("error", err.Error()))
		}
		metricsDone <- true
	}()

	<-quit
	log.Info("Shutting down servers...")

	metrics.SetServiceHealth(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", slog.String("error", err.Error()))
	}

	<-done
	<-metricsDone

	log.Info("Server exited")
}
