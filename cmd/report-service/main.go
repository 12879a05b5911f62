package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-report-consensus/internal/report/config"
	delivery "golang-report-consensus/internal/report/delivery/http"
	"golang-report-consensus/internal/report/repository"
	"golang-report-consensus/internal/report/service"
	"golang-report-consensus/pkg/logger"
	"golang-report-consensus/pkg/postgres"
	"golang-report-consensus/pkg/redis"
	"golang-report-consensus/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the report service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Report Service", logger.StringField("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis. The summary cache is an optimization; the service
	// stays up without it.
	var redisClient *redis.Client
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err = redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Warn("Redis unavailable, serving summaries uncached", logger.ErrorField(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Initialize Telegram notifier
	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize repositories
	store := repository.NewStore(db.DB)
	reportsRepo := repository.NewReportsRepository(db.DB)
	stocksRepo := repository.NewStocksRepository(db.DB)
	summaryRepo := repository.NewStockSummaryRepository(db.DB)
	runsRepo := repository.NewIngestionRunsRepository(db.DB)
	marketDataRepo := repository.NewMarketDataRepository(cfg, appLogger)

	// Initialize services
	ingestionSvc := service.NewIngestionService(cfg, store, runsRepo, appLogger, notifier)
	querySvc := service.NewReportQueryService(reportsRepo, summaryRepo, redisClient, appLogger)
	reviewSvc := service.NewReviewService(reportsRepo, appLogger)
	priceRefreshSvc := service.NewPriceRefreshService(cfg, stocksRepo, marketDataRepo, appLogger)

	// Schedule the price refresh job
	scheduler := cron.New()
	if cfg.PriceRefresh.Schedule != "" {
		_, err := scheduler.AddFunc(cfg.PriceRefresh.Schedule, func() {
			if err := priceRefreshSvc.RefreshAll(ctx); err != nil {
				appLogger.Error("Scheduled price refresh failed", logger.ErrorField(err))
			}
		})
		if err != nil {
			appLogger.Fatal("Invalid price refresh schedule", logger.ErrorField(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
	}
	if cfg.PriceRefresh.RunOnStart {
		go func() {
			if err := priceRefreshSvc.RefreshAll(ctx); err != nil {
				appLogger.Error("Startup price refresh failed", logger.ErrorField(err))
			}
		}()
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	reportHandler := delivery.NewReportHandler(ingestionSvc, querySvc, reviewSvc, appLogger)
	apiV1 := e.Group("/api/v1")
	reportsGroup := apiV1.Group("/reports")
	reportHandler.RegisterRoutes(reportsGroup)

	summaryHandler := delivery.NewSummaryHandler(querySvc, appLogger)
	summariesGroup := apiV1.Group("/stock-summaries")
	summaryHandler.RegisterRoutes(summariesGroup)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.StringField("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "report-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-report.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing report-service CLI: %s\n", err)
		os.Exit(1)
	}
}
