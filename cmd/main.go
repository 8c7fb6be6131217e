package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/outage_dashboard/internal/config"
	v1 "github.com/shenikar/outage_dashboard/internal/handler/http/v1"
	"github.com/shenikar/outage_dashboard/internal/metrics"
	"github.com/shenikar/outage_dashboard/internal/models"
	"github.com/shenikar/outage_dashboard/internal/outage"
	"github.com/shenikar/outage_dashboard/internal/realtime"
	"github.com/shenikar/outage_dashboard/internal/repository"
	"github.com/shenikar/outage_dashboard/internal/service"
	"github.com/shenikar/outage_dashboard/internal/webhook"
	"github.com/shenikar/outage_dashboard/pkg/logger"
	"github.com/shenikar/outage_dashboard/pkg/postgres"
	redisclient "github.com/shenikar/outage_dashboard/pkg/redis"

	_ "github.com/shenikar/outage_dashboard/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Outage Dashboard API
// @version 1.0
// @description Water and electricity outage reports, calendar and map for residents and operators.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
		migrationURL = strings.Replace(migrationURL, "postgresql://", "pgx5://", 1)
	}

	m, err := migrate.New("file://"+cfg.MigrationsPath, migrationURL)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL, postgres.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MaxConnIdleTime: cfg.DBMaxConnIdle,
	})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	redisClient, err := redisclient.NewRedisClient(ctx, redisclient.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Лента изменений
	changePublisher := realtime.NewRedisPublisher(redisClient)
	changeSubscriber := realtime.NewSubscriber(redisClient, log)

	// Вебхуки и оповещения в Slack
	var notifier webhook.Notifier
	if cfg.SlackWebhookURL != "" {
		notifier = webhook.NewSlackNotifier(cfg.SlackWebhookURL)
	}
	webhookPublisher := webhook.NewRedisWebhookPublisher(redisClient)
	webhookWorker := webhook.NewWebhookWorker(redisClient, log, cfg, notifier)
	webhookWorker.Start(ctx)

	incidentRepo := repository.NewIncidentRepository(dbpool, redisClient, cfg.CacheTTL)

	// Снимок активных инцидентов для календаря и карты
	refresher := realtime.NewRefresher(func(ctx context.Context) ([]*models.Incident, error) {
		return incidentRepo.List(ctx, models.IncidentQuery{Statuses: models.ActiveStatuses})
	}, changeSubscriber, cfg.RefreshDebounce, log)
	if err := refresher.Start(ctx); err != nil {
		log.Fatalf("Failed to start incidents refresher: %v", err)
	}
	defer refresher.Stop()

	indexer := outage.NewIndexer(cfg.CalendarLocation, cfg.CalendarMaxSpanDays, service.NewAnomalyLogger(log))

	incidentService := service.NewIncidentService(incidentRepo, log, changePublisher, webhookPublisher)
	calendarService := service.NewCalendarService(refresher, indexer, log)

	handler := v1.NewHandler(incidentService, calendarService, changeSubscriber, log, cfg)

	router := gin.New()
	router.Use(gin.Recovery(), metrics.GinMiddleware())
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	cancel()

	log.Info("Server gracefully stopped")
}
