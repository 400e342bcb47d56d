package controller

import (
	"context"
	"time"

	"github.com/cadudev/timetable_bot/internal/controller/handlers"
	"github.com/cadudev/timetable_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	timetableService *service.TimetableService,
	loc *time.Location,
	logger *zap.Logger,
) *BotController {
	cmdHandlers := handlers.NewHandlers(timetableService, loc, logger)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/ping", bot.MatchTypeExact, c.handlers.HandlePing)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypeExact, c.handlers.HandleWeekImage)

	// Префиксный матч: /timetable принимает аргумент в том же сообщении
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/timetable", bot.MatchTypePrefix, c.handlers.HandleTimetable)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "timetable", Description: "📅 Timetable for today, tomorrow or the next N days"},
		{Command: "week", Description: "🗓 Current week as an image"},
		{Command: "ping", Description: "🏓 Check that the bot is alive"},
		{Command: "help", Description: "❓ Command reference"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота, блокируется до отмены контекста
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}
