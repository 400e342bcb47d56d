package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/cadudev/timetable_bot/internal/app"
	"github.com/cadudev/timetable_bot/internal/campus"
	"github.com/cadudev/timetable_bot/internal/config"
	"github.com/cadudev/timetable_bot/internal/controller"
	"github.com/cadudev/timetable_bot/internal/repository"
	"github.com/cadudev/timetable_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting timetable bot",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", cfg.Timezone))

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("Invalid timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	holidays, err := config.LoadHolidays(cfg.HolidaysPath)
	if err != nil {
		logger.Fatal("Failed to load holidays", zap.Error(err))
	}
	logger.Info("Holidays loaded", zap.Int("count", len(holidays)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	statsRepo := repository.NewStatsRepository(pool)

	campusClient := campus.NewClient(campus.ClientConfig{
		BaseURL:            cfg.CampusBaseURL,
		UserID:             cfg.CampusUser,
		Hash:               cfg.CampusHash,
		InsecureSkipVerify: cfg.CampusInsecureTLS,
	}, logger)

	timetableService := service.NewTimetableService(campusClient, statsRepo, loc, cfg.SortEntries, logger)

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(b, timetableService, loc, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	// Гейт готовности: планировщик не шлёт ничего до запуска транспорта
	ready := make(chan struct{})
	deliverer := controller.NewTelegramDeliverer(b, cfg.NotifyChatID, logger)
	scheduler := app.NewScheduler(timetableService, deliverer, holidays, loc,
		cfg.NotifyHour, cfg.NotifyMinute, ready, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	close(ready)

	// Блокируется до SIGINT/SIGTERM
	botController.Start(ctx)

	logger.Info("Bot stopped")
}
