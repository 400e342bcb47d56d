package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
)

// MessageLimit лимит Telegram на длину одного сообщения.
const MessageLimit = 4096

// ErrInvalidLimit возвращается при limit <= 0.
var ErrInvalidLimit = errors.New("chunk limit must be positive")

// Chunk режет текст на куски не длиннее limit символов.
// Конкатенация кусков равна исходному тексту, порядок сохраняется.
// Пустой текст даёт ноль кусков. Режем по рунам, чтобы не разорвать UTF-8.
func Chunk(text string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+limit-1)/limit)
	for start := 0; start < len(runes); start += limit {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks, nil
}

// sendLongMessage отправляет текст по кускам, строго последовательно,
// чтобы получатель видел их в исходном порядке.
func (h *Handlers) sendLongMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) error {
	chunks, err := Chunk(text, MessageLimit)
	if err != nil {
		return err
	}

	for i, chunk := range chunks {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   chunk,
		}); err != nil {
			return fmt.Errorf("send chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}

	return nil
}
