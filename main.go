package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"finance-gamification/cache"
	"finance-gamification/config"
	"finance-gamification/handlers"
	"finance-gamification/logger"
	"finance-gamification/middleware"
	"finance-gamification/models"
	"finance-gamification/services"
	"finance-gamification/store"
	"finance-gamification/workers"
)

func main() {
	config.Load()
	logger.Init()
	defer logger.Sync()

	if config.Cfg.DatabaseURL == "" {
		logger.Logger.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(config.Cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logger.Logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.GamificationProfile{},
		&models.DailyQuestTemplate{},
		&models.UserDailyQuest{},
		&models.AchievementType{},
		&models.UserAchievement{},
		&models.FinanceStatsMirror{},
	); err != nil {
		logger.Logger.Fatal("failed to migrate database", zap.Error(err))
	}

	cache.Init()

	gormStore := store.NewGormStore(db, config.Cfg.LockRetries)
	if err := gormStore.SeedCatalog(context.Background(), models.DefaultQuestTemplates, models.AchievementTriggers); err != nil {
		logger.Logger.Fatal("failed to seed quest/achievement catalog", zap.Error(err))
	}

	gamificationService := services.NewGamificationService(gormStore, services.GamificationConfig{
		QuestHeartBonus:         config.Cfg.QuestHeartBonus,
		StreakBreakHeartPenalty: config.Cfg.StreakBreakHeartPenalty,
		MaxAchievementPasses:    config.Cfg.MaxAchievementPasses,
		StatusCacheSeconds:      config.Cfg.StatusCacheSeconds,
	})
	gamificationService.StartMaintenanceScheduler(services.MaintenancePolicy{
		HeartDecayAmount:    config.Cfg.HeartDecayAmount,
		HeartDecayAfterDays: config.Cfg.HeartDecayAfterDays,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.Cfg.FinanceServiceURL != "" {
		statsWorker := workers.NewStatsSyncWorker(
			db,
			config.Cfg.FinanceServiceURL,
			config.Cfg.FinanceStatsPath,
			config.Cfg.ServiceToken,
			time.Duration(config.Cfg.StatsSyncSeconds)*time.Second,
		)
		statsWorker.Start(ctx)
	} else {
		logger.Logger.Warn("FINANCE_SERVICE_URL not set, stats mirror sync disabled")
	}

	app := fiber.New(fiber.Config{})

	// Only Gateway requests allowed, no exceptions.
	app.Use(middleware.GatewayAuthMiddleware())

	handlers.SetupGamificationRoutes(app, gamificationService)

	go func() {
		if err := app.Listen(":" + config.Cfg.ServerPort); err != nil {
			logger.Logger.Error("server error", zap.Error(err))
		}
	}()

	logger.Logger.Info("gamification service running",
		zap.String("port", config.Cfg.ServerPort),
		zap.String("environment", config.Cfg.Environment),
	)

	<-ctx.Done()
	logger.Logger.Info("shutting down gamification service")
	_ = app.Shutdown()
}
