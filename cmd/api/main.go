package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	breakdownsHttp "insight-breakdown-service/internal/breakdowns/adapters/http/fiber"
	breakdownsRepoPg "insight-breakdown-service/internal/breakdowns/adapters/postgres"
	breakdownsUsecase "insight-breakdown-service/internal/breakdowns/core/usecase"
	"insight-breakdown-service/internal/config"

	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	_ "insight-breakdown-service/docs"
)

// @title Insight Breakdown Service API
// @version 1.0
// @description Manages the breakdown configuration of analytics insights.
// @BasePath /
func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	displayPolicy, err := breakdownsUsecase.NewDisplayPolicy(cfg.DisplayHintPolicy)
	if err != nil {
		logger.Fatal("invalid display hint policy", zap.Error(err))
	}

	// DB connection
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("failed to open postgres", zap.Error(err))
	}
	defer db.Close()

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		logger.Fatal("failed to ping postgres", zap.Error(err))
	}

	breakdownsDB := breakdownsRepoPg.NewSQLDB(db)
	if err := breakdownsRepoPg.EnsureSchema(context.Background(), breakdownsDB); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}

	// Repositories
	insightRepository := breakdownsRepoPg.NewInsightRepository(breakdownsDB)
	featureFlagRepository := breakdownsRepoPg.NewFeatureFlagRepository(breakdownsDB)

	// Usecases
	breakdownUC := breakdownsUsecase.NewBreakdownFilterUseCase(
		insightRepository,
		insightRepository,
		breakdownsUsecase.NewModeSelector(featureFlagRepository, cfg.MultipleBreakdownsFlag),
		displayPolicy,
		logger,
	)

	// HTTP (Fiber) app + handlers
	app := fiber.New()

	breakdownHandler := breakdownsHttp.NewBreakdownHandler(breakdownUC)
	app.Get("/insights/:id/breakdown", breakdownHandler.GetBreakdownFilter)
	app.Post("/insights/:id/breakdowns", breakdownHandler.AddBreakdown)
	app.Put("/insights/:id/breakdowns", breakdownHandler.ReplaceBreakdown)
	app.Delete("/insights/:id/breakdowns", breakdownHandler.RemoveBreakdown)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			logger.Error("fiber stopped", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("addr", cfg.HTTPAddr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("fiber shutdown error", zap.Error(err))
	}

	logger.Info("server exiting")
}
