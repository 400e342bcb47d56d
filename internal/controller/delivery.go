package controller

import (
	"context"
	"fmt"

	"github.com/cadudev/timetable_bot/internal/controller/handlers"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// TelegramDeliverer доставляет дайджест в настроенный чат,
// разрезая его на сообщения по лимиту Telegram.
type TelegramDeliverer struct {
	bot    *bot.Bot
	chatID int64
	logger *zap.Logger
}

func NewTelegramDeliverer(botInstance *bot.Bot, chatID int64, logger *zap.Logger) *TelegramDeliverer {
	return &TelegramDeliverer{
		bot:    botInstance,
		chatID: chatID,
		logger: logger,
	}
}

// DeliverDigest отправляет куски строго по порядку, дожидаясь каждого.
func (d *TelegramDeliverer) DeliverDigest(ctx context.Context, text string) error {
	chunks, err := handlers.Chunk(text, handlers.MessageLimit)
	if err != nil {
		return err
	}

	for i, chunk := range chunks {
		if _, err := d.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: d.chatID,
			Text:   chunk,
		}); err != nil {
			return fmt.Errorf("send chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}

	d.logger.Info("Digest delivered",
		zap.Int64("chat_id", d.chatID),
		zap.Int("chunks", len(chunks)))

	return nil
}
