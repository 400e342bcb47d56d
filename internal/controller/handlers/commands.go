package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cadudev/timetable_bot/internal/campus"
	"github.com/cadudev/timetable_bot/internal/controller/render"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const timetableHelpText = "ℹ️ Available commands:\n\n" +
	"/timetable today\n" +
	"→ Shows the timetable for today.\n\n" +
	"/timetable tomorrow\n" +
	"→ Shows the timetable for tomorrow.\n\n" +
	"/timetable\n" +
	"→ Shows the timetable for the next 7 days.\n\n" +
	"/timetable <number>\n" +
	"→ Shows the timetable for the next <number> days (max. 30).\n\n" +
	"/week\n" +
	"→ Renders the current week as an image."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Hi, %s!\n\n"+
			"I post the Campus Dual timetable on demand and every morning.\n\n"+
			"Commands:\n"+
			"/timetable - Timetable for the next 7 days\n"+
			"/timetable today - Today's timetable\n"+
			"/timetable tomorrow - Tomorrow's timetable\n"+
			"/week - Current week as an image\n"+
			"/ping - Check that I'm alive\n"+
			"/help - Help",
		update.Message.From.FirstName,
	)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   welcomeText,
	})
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   timetableHelpText,
	})
}

// HandlePing обрабатывает команду /ping, счётчик живёт в базе
func (h *Handlers) HandlePing(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	count, err := h.timetableService.Ping(ctx)
	if err != nil {
		h.logger.Error("Failed to increment ping counter", zap.Error(err))
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "🏓 Pong!",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   fmt.Sprintf("🏓 Pong! #%d", count),
	})
}

// HandleTimetable обрабатывает команду /timetable с аргументом:
// today, tomorrow, число 1-30, ? или без аргумента (7 дней).
func (h *Handlers) HandleTimetable(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	arg := commandArgument(update.Message.Text)

	h.logger.Info("Timetable command received",
		zap.Int64("chat_id", chatID),
		zap.String("argument", arg))

	var days int
	switch strings.ToLower(arg) {
	case "?":
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: timetableHelpText})
		return
	case "today":
		days = 0
	case "tomorrow":
		days = 1
	case "":
		days = 7
	default:
		parsed, err := strconv.Atoi(arg)
		if err != nil {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "❌ Invalid argument. Use 'today', 'tomorrow', or a number (1–30).",
			})
			return
		}
		// Границы проверяются здесь, на краю; ядро проверяет только days >= 0
		if parsed <= 0 || parsed > 30 {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "❌ Please enter a number between 1 and 30.",
			})
			return
		}
		days = parsed
	}

	text, err := h.timetableService.BuildDigest(ctx, days)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fetchErrorMessage(err),
		})
		return
	}

	if err := h.sendLongMessage(ctx, b, chatID, text); err != nil {
		h.logger.Error("Failed to send timetable", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

// HandleWeekImage обрабатывает команду /week - расписание текущей недели картинкой
func (h *Handlers) HandleWeekImage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID

	entries, err := h.timetableService.Entries(ctx)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fetchErrorMessage(err),
		})
		return
	}

	img, err := render.WeekImage(entries, h.timetableService.Now(), h.loc)
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Error(err))
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Failed to render the week image.",
		})
		return
	}

	if _, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo: &models.InputFileUpload{
			Filename: "week.png",
			Data:     bytes.NewReader(img),
		},
	}); err != nil {
		h.logger.Error("Failed to send week image", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

// commandArgument выделяет аргумент команды: "/timetable today" -> "today".
// Суффикс @botname в групповых чатах отбрасывается.
func commandArgument(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// fetchErrorMessage превращает ошибку получения расписания
// в сообщение для пользователя. Ретраев нет, пользователь пробует сам.
func fetchErrorMessage(err error) string {
	var statusErr *campus.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("❌ Error while fetching the timetable. Errorcode: %d", statusErr.Code)
	}
	return "❌ Error while fetching the timetable. Please try again later."
}
